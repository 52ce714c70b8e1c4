package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate

	// AvailableRoles is the closed role set shared with clients.
	AvailableRoles = []string{"admin", "project_admin", "member"}
	// AvailableTaskStatuses is the closed task status set.
	AvailableTaskStatuses = []string{"todo", "in_progress", "done"}
)

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("user_role", validateOneOf(AvailableRoles)); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("task_status", validateOneOf(AvailableTaskStatuses)); err != nil {
		panic(err)
	}
}

// ValidateStruct runs the validate tags of s.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ValidationMessage flattens validator errors into one readable line.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}

	return strings.Join(parts, "; ")
}

func validateOneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, candidate := range allowed {
			if value == candidate {
				return true
			}
		}
		return false
	}
}
