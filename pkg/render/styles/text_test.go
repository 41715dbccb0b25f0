package styles

import "testing"

func TestFontSize(t *testing.T) {
	tests := []struct {
		name string
		w, h float64
		n    int
		want float64
	}{
		{"clamped max", 1000, 1000, 3, fontSizeMax},
		{"clamped min", 5, 5, 30, fontSizeMin},
		{"by height", 1000, 20, 3, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FontSize(tt.w, tt.h, tt.n); got != tt.want {
				t.Errorf("FontSize(%v,%v,%d) = %v, want %v", tt.w, tt.h, tt.n, got, tt.want)
			}
		})
	}
}

func TestFitLabel(t *testing.T) {
	tests := []struct {
		label string
		max   int
		want  string
	}{
		{"main.go", 10, "main.go"},
		{"main.go", 7, "main.go"},
		{"main.go", 5, "mai.."},
		{"main.go", 2, ""},
		{"ääääää", 4, "ää.."},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := FitLabel(tt.label, tt.max); got != tt.want {
				t.Errorf("FitLabel(%q, %d) = %q, want %q", tt.label, tt.max, got, tt.want)
			}
		})
	}
}

func TestMaxChars(t *testing.T) {
	if got := MaxChars(100, 0); got != 0 {
		t.Errorf("MaxChars(100, 0) = %d, want 0", got)
	}
	if got := MaxChars(100, 10); got != 15 {
		t.Errorf("MaxChars(100, 10) = %d, want 15", got)
	}
}

func TestEscapeXML(t *testing.T) {
	if got := EscapeXML(`<a & "b">`); got != "&lt;a &amp; &#34;b&#34;&gt;" {
		t.Errorf("EscapeXML() = %q", got)
	}
}

func TestSizeAndPercent(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "0 B"},
		{-3, "0 B"},
		{512, "512 B"},
		{1500, "1.5 kB"},
	}
	for _, tt := range tests {
		if got := Size(tt.v); got != tt.want {
			t.Errorf("Size(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
	if got := Percent(1, 4); got != "25%" {
		t.Errorf("Percent(1,4) = %q, want 25%%", got)
	}
	if got := Percent(1, 0); got != "0%" {
		t.Errorf("Percent(1,0) = %q", got)
	}
}
