package auth

import "testing"

func TestValidatorValidate(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		presented  string
		expectErr  bool
	}{
		{"matching key", "secret-key-123", "secret-key-123", false},
		{"wrong key", "secret-key-123", "wrong-key", true},
		{"empty presented key", "secret-key-123", "", true},
		{"key prefix does not match", "secret-key-123", "secret-key", true},
		{"no key configured", "", "anything", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(tt.configured)
			err := v.Validate(tt.presented)
			if tt.expectErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
