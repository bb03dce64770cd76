package errors

import (
	"strings"
	"testing"
)

func TestValidateDraftName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Q3 Pricing", false},
		{"with dash", "pricing-review", false},
		{"unicode", "Überprüfung", false},
		{"max length", strings.Repeat("a", MaxDraftNameLength), false},

		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too long", strings.Repeat("a", MaxDraftNameLength+1), true},
		{"path traversal", "../etc", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"quote", "say \"hi\"", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDraftName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDraftName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidDraftName) {
				t.Errorf("ValidateDraftName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidDraftName)
			}
		})
	}
}

func TestValidateFieldKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"topic", "Topic", false},
		{"option aspect", "Option2Benefits/Revenue", false},
		{"action", "Action5", false},

		{"empty", "", true},
		{"leading digit", "1Topic", true},
		{"space", "Point Person", true},
		{"too long", "A" + strings.Repeat("b", 64), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFieldKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFieldKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOwnerID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"uuid", "0b7a9c2e-4d5f-4a1b-9c3d-2e1f0a9b8c7d", false},
		{"local", "local", false},

		{"empty", "", true},
		{"garbage", "not-a-uuid", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOwnerID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOwnerID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "logo.png", false},
		{"nested", "static/overlay_icon.png", false},

		{"empty", "", true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "static/../../secret", true},
		{"backslash", "static\\logo.png", true},
		{"control", "logo\x01.png", true},
		{"too long", strings.Repeat("a", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
