package common

import (
	"errors"
	"strings"
	"unicode"

	validator "github.com/go-playground/validator/v10"
)

// ValidationFailed converts validator output into a ValidationError listing
// each failing field (snake_case) and the rule it broke.
func ValidationFailed(message string, err error) *AppError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ValidationError(message, nil)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[snake(fe.Field())] = fe.Tag()
	}
	return ValidationError(message, map[string]any{"fields": fields})
}

func snake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
