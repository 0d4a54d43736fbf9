package utils

import (
	"strings"
	"testing"
)

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		err      ValidationError
		expected string
	}{
		{
			name:     "error with field",
			err:      ValidationError{Field: "id", Value: "", Message: "cannot be empty"},
			expected: "validation error for field 'id': cannot be empty",
		},
		{
			name:     "error without field",
			err:      ValidationError{Message: "invalid format"},
			expected: "validation error: invalid format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("ValidationError.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNotEmpty(t *testing.T) {
	validator := NotEmpty("id")

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid string", "Core/Logging", false},
		{"empty string", "", true},
		{"whitespace only", "   ", false}, // NotEmpty only checks for empty, not whitespace
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("NotEmpty() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMatchesRegex(t *testing.T) {
	validator := MatchesRegex("id", `^[A-Za-z][\w-]*(/[A-Za-z][\w-]*)*$`)

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"simple id", "Logging", false},
		{"scoped id", "Core/Queue/Redis", false},
		{"leading slash", "/Core", true},
		{"empty string", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("MatchesRegex() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateEach(t *testing.T) {
	validator := ValidateEach("dependencies", NotEmpty("dependency"))

	tests := []struct {
		name    string
		value   []string
		wantErr bool
	}{
		{"all valid", []string{"Core/Logging", "Core/Queue"}, false},
		{"one invalid", []string{"Core/Logging", ""}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEach() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), "dependencies[1]") {
				t.Errorf("expected the failing index in %q", err.Error())
			}
		})
	}
}

func TestValidatorChain(t *testing.T) {
	chain := NewValidatorChain(NotEmpty("name")).
		Add(Custom("name", "must start with an uppercase letter", func(s string) bool {
			return strings.ToUpper(s[:1]) == s[:1]
		}))

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid name", "Logging", false},
		{"empty string", "", true},
		{"lowercase", "logging", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := chain.Validate(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatorChain.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCustom(t *testing.T) {
	validator := Custom("priority", "must not be negative", func(n int) bool {
		return n >= 0
	})

	tests := []struct {
		name    string
		value   int
		wantErr bool
	}{
		{"positive", 4, false},
		{"negative", -3, true},
		{"zero", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Custom() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConditional(t *testing.T) {
	// parent ids are optional but must be well formed when present
	validator := Conditional(
		func(s string) bool { return s != "" },
		MatchesRegex("parentId", `^[A-Z]`),
	)

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid parent", "Core", false},
		{"invalid parent", "core", true},
		{"empty string (skipped)", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Conditional() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
