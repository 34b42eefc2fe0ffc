package api

import (
	"testing"
	"viewer/internal/domain"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr string
	}{
		{"John Doe", "John Doe", ""},
		{"  Jane Doe  ", "Jane Doe", ""},
		{"", "", msgEmptyName},
		{"   ", "", msgEmptyName},
		{"John", "", msgInvalidName},
		{"John  Doe", "", msgInvalidName},
		{"John Q Doe", "", msgInvalidName},
		{"J0hn Doe", "", msgInvalidName},
		{"Jean-Luc Picard", "", msgInvalidName},
	}

	for _, tt := range tests {
		got, err := ValidateName(tt.input)
		if tt.wantErr == "" {
			if err != nil {
				t.Errorf("ValidateName(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ValidateName(%q) = %q, want %q", tt.input, got, tt.want)
			}
			continue
		}

		if err == nil {
			t.Errorf("ValidateName(%q) expected error", tt.input)
			continue
		}
		if kind, _ := domain.KindOf(err); kind != domain.ValidationError {
			t.Errorf("ValidateName(%q) kind = %v, want ValidationError", tt.input, kind)
		}
		if err.Error() != tt.wantErr {
			t.Errorf("ValidateName(%q) message = %q, want %q", tt.input, err.Error(), tt.wantErr)
		}
	}
}
