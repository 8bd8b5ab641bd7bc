package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewScript is the payload for CreateScript. The rules match the server's.
type NewScript struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description" validate:"required,min=10"`
	Code        string `json:"code"        validate:"required,min=10"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateScript checks s the way the server will, so bad input fails
// before a round trip.
func ValidateScript(s NewScript) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed validation (%s)", field, fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// FilterScripts returns the scripts whose name, description or code contains
// query, ignoring case. The query is matched as typed, whitespace included.
// An empty query returns scripts unchanged.
func FilterScripts(scripts []Script, query string) []Script {
	q := strings.ToLower(query)
	if q == "" {
		return scripts
	}

	out := make([]Script, 0, len(scripts))
	for _, s := range scripts {
		if strings.Contains(strings.ToLower(s.Name), q) ||
			strings.Contains(strings.ToLower(s.Description), q) ||
			strings.Contains(strings.ToLower(s.Code), q) {
			out = append(out, s)
		}
	}
	return out
}
