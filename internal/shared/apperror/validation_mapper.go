package apperror

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// formatFieldName turns a tag name into a label, e.g. page_size -> Page Size.
// camelCase json names (lessonId) are left as one word.
func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	return cases.Title(language.English, cases.NoLower).String(s)
}

// MapValidationError reports the first failed binding rule. Field names come from
// the json/form tags registered in Init.
func MapValidationError(err error) error {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		e := errs[0]
		field := formatFieldName(e.Field())

		switch e.Tag() {
		case "required":
			// "Page Size is required"
			return RequiredField(field)
		default:
			return InvalidField(field)
		}
	}

	return New(CodeInvalidInput, "Invalid input", http.StatusBadRequest)
}
