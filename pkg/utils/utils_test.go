package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", SanitizeEmail("  Alice@Example.COM "))
	assert.Equal(t, "alice@example.com", SanitizeEmail("<b>alice@example.com</b>"))
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "line one\nline &lt;two&gt;", SanitizeText("  line one\nline <two>\x00 "))
}

func TestValidateStruct_EmailAndCustomTags(t *testing.T) {
	type request struct {
		Email  string `validate:"required,email"`
		Role   string `validate:"omitempty,user_role"`
		Status string `validate:"omitempty,task_status"`
	}

	tests := []struct {
		name    string
		req     request
		wantErr bool
	}{
		{"valid", request{Email: SanitizeEmail(" Bob@Example.com"), Role: "project_admin", Status: "in_progress"}, false},
		{"malformed email", request{Email: "bob@"}, true},
		{"unknown role", request{Email: "bob@example.com", Role: "owner"}, true},
		{"unknown status", request{Email: "bob@example.com", Status: "blocked"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.req)
			if tt.wantErr {
				assert.Error(t, err)
				assert.NotEmpty(t, ValidationMessage(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("secret1"))
	assert.Error(t, ValidatePassword("abc1"))
	assert.Error(t, ValidatePassword("secretonly"))
}
