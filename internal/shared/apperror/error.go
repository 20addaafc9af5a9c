package apperror

import "fmt"

// AppError is a failure the HTTP layer knows how to report. Message is what the
// caller sees; Err keeps the underlying cause for logs and errors.Is.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

// Wrap attaches cause to a reportable error; a nil cause yields nil.
func Wrap(err error, code, message string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus, Err: err}
}

// InvalidBody reports a request body that could not be decoded.
func InvalidBody(err error) *AppError {
	return Wrap(err, CodeInvalidInput, ErrInvalidInput.Message, ErrInvalidInput.HTTPStatus)
}
