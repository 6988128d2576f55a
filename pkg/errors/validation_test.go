package errors

import (
	"strings"
	"testing"
)

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "app", false},
		{"valid with dash", "app-component", false},
		{"valid with underscore", "app_component", false},
		{"valid mixed case", "AppComponent2", false},
		{"valid single letter", "a", false},

		{"empty", "", true},
		{"leading digit", "2fast", true},
		{"space", "has space", true},
		{"dot", "dot.key", true},
		{"path separator", "path/key", true},
		{"backslash", "path\\key", true},
		{"too long", strings.Repeat("k", 65), true},
		{"control char", "foo\x01bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateModelName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "enterprise", false},
		{"valid with spaces", "Enterprise Architecture 2026", false},

		{"empty", "", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"path traversal", "up..dir", true},
		{"control char", "ctrl\x01char", true},
		{"newline", "foo\nbar", true},
		{"too long", strings.Repeat("n", 129), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateModelName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateModelName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCategory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid strategy", "strategy", false},
		{"valid application", "application", false},
		{"valid slug", "my-layer2", false},

		{"empty", "", true},
		{"uppercase", "Strategy", true},
		{"space", "has space", true},
		{"leading digit", "2nd", true},
		{"underscore", "my_layer", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCategory(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCategory(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCardinality(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty means unconstrained", "", false},
		{"one-to-one", "one-to-one", false},
		{"one-to-many", "one-to-many", false},
		{"many-to-one", "many-to-one", false},
		{"many-to-many", "many-to-many", false},

		{"shorthand", "1:n", true},
		{"uppercase", "ONE-TO-MANY", true},
		{"unknown", "some-to-any", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCardinality(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCardinality(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
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
		{"valid nested", "models/enterprise.toml", false},
		{"valid flat", "enterprise.json", false},

		{"empty", "", true},
		{"absolute", "/etc/passwd", true},
		{"path traversal", "up/../../secret", true},
		{"backslash", "win\\path", true},
		{"null byte", "null\x00byte", true},
		{"too long", strings.Repeat("p/", 251), true},
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
