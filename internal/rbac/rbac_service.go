package rbac

import (
	"go-school/internal/domain"
	"go-school/internal/shared/apperror"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

var (
	ErrUnauthenticated = apperror.ErrUnauthorized
	ErrForbidden       = apperror.ErrForbidden
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Authorize(p domain.Principal, op Operation) error
	Allowed(p domain.Principal) []Operation
}

type service struct {
	enforcer *casbin.Enforcer
	logger   *zap.Logger
}

// NewService loads policy into the enforcer. The policy is not modified afterwards,
// so Authorize is safe for concurrent use.
func NewService(enforcer *casbin.Enforcer, policy []PolicyRow, logger ...*zap.Logger) (Service, error) {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}

	enforcer.ClearPolicy()
	for _, row := range policy {
		if _, err := enforcer.AddPolicy(string(row.Role), row.Operation.Resource, row.Operation.Action); err != nil {
			return nil, err
		}
	}
	l.Info("rbac policy loaded", zap.Int("rules", len(policy)))

	return &service{enforcer: enforcer, logger: l}, nil
}

// Authorize checks the principal first and its role second.
func (s *service) Authorize(p domain.Principal, op Operation) error {
	if !p.Authenticated() {
		return ErrUnauthenticated
	}

	allowed, err := s.enforcer.Enforce(string(p.Role), op.Resource, op.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("principal_id", p.ID),
			zap.String("role", p.Role.String()),
			zap.String("operation", op.String()),
			zap.Error(err),
		)
		return apperror.Internal(err)
	}
	if !allowed {
		s.logger.Debug("rbac denied",
			zap.String("principal_id", p.ID),
			zap.String("role", p.Role.String()),
			zap.String("operation", op.String()),
		)
		return ErrForbidden
	}
	return nil
}

func (s *service) Allowed(p domain.Principal) []Operation {
	ops := make([]Operation, 0, len(Operations()))
	for _, op := range Operations() {
		if s.Authorize(p, op) == nil {
			ops = append(ops, op)
		}
	}
	return ops
}
