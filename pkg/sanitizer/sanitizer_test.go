package sanitizer

import (
	"errors"
	"testing"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"ten digits", "4165551234", "+14165551234", false},
		{"ten digits formatted", "(416) 555-1234", "+14165551234", false},
		{"eleven digits leading one", "14165551234", "+14165551234", false},
		{"eleven digits plus prefix", "+1 416 555 1234", "+14165551234", false},
		{"too short", "123", "", true},
		{"eleven digits wrong lead", "24165551234", "", true},
		{"twelve digits", "124165551234", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPhone) {
					t.Fatalf("expected ErrInvalidPhone, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeSlot(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"9:00", "9-00"},
		{"18:00", "18-00"},
		{"  10:00 ", "10-00"},
		{"9::00", "9-00"},
	}

	for _, tt := range tests {
		if got := SanitizeSlot(tt.input); got != tt.want {
			t.Errorf("SanitizeSlot(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTrimAndNormalize(t *testing.T) {
	if got := TrimAndNormalize("  John   Q.\tPublic "); got != "John Q. Public" {
		t.Errorf("TrimAndNormalize = %q", got)
	}
	if got := TrimAndNormalize("   "); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestSanitizeVIN(t *testing.T) {
	if got := SanitizeVIN(" 1ftew1ep5mkd12345 "); got != "1FTEW1EP5MKD12345" {
		t.Errorf("SanitizeVIN = %q", got)
	}
}
