package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateViewport(t *testing.T) {
	tests := []struct {
		name    string
		w, h    float64
		wantErr bool
	}{
		{"normal", 800, 600, false},
		{"zero", 0, 0, false},
		{"zero width", 0, 100, false},
		{"negative", -1, 100, true},
		{"nan", math.NaN(), 100, true},
		{"inf", 100, math.Inf(1), true},
		{"too large", MaxViewportDimension + 1, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateViewport(tt.w, tt.h)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateViewport(%v, %v) error = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidViewport) {
				t.Errorf("expected INVALID_VIEWPORT, got %v", GetCode(err))
			}
		})
	}
}

func TestValidateSize(t *testing.T) {
	if err := ValidateSize("a", 0); err != nil {
		t.Errorf("zero size should be valid: %v", err)
	}
	if err := ValidateSize("a", 12.5); err != nil {
		t.Errorf("positive size should be valid: %v", err)
	}
	for _, bad := range []float64{-1, math.NaN(), math.Inf(-1)} {
		if err := ValidateSize("a", bad); !Is(err, ErrCodeInvalidTree) {
			t.Errorf("ValidateSize(%v) = %v, want INVALID_TREE", bad, err)
		}
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"relative", "testdata/tree.json", false},
		{"absolute", "/tmp/tree.json", false},
		{"empty", "", true},
		{"null byte", "tree\x00.json", true},
		{"control", "tree\n.json", true},
		{"too long", strings.Repeat("a", 5000), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidatePath(tt.path); (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAddress(t *testing.T) {
	if err := ValidateAddress("#root#a"); err != nil {
		t.Errorf("valid address rejected: %v", err)
	}
	if err := ValidateAddress(""); err != nil {
		t.Errorf("empty address rejected: %v", err)
	}
	if err := ValidateAddress("#a\x00"); err == nil {
		t.Error("null byte should be rejected")
	}
	if err := ValidateAddress(strings.Repeat("#a", 5000)); err == nil {
		t.Error("oversized address should be rejected")
	}
}

func TestValidateFormat(t *testing.T) {
	supported := []string{"svg", "json"}
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"json", false},
		{"png", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := ValidateFormat(tt.format, supported)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidFormat) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidFormat)
			}
		})
	}
}
