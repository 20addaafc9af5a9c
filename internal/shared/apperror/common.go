package apperror

import "net/http"

var (
	ErrUnauthorized = New(CodeUnauthorized, "Unauthorized", http.StatusUnauthorized)
	ErrForbidden    = New(CodeForbidden, "Forbidden", http.StatusForbidden)
	ErrInvalidInput = New(CodeInvalidInput, "invalid request body", http.StatusBadRequest)
)
