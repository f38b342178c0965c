package textnorm

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"lower", "PAN", "pan"},
		{"accents", "Panadería Artesanal", "panaderia artesanal"},
		{"enye", "Ñandú", "nandu"},
		{"umlaut", "Pingüino", "pinguino"},
		{"keeps spaces", "  Café  ", "  cafe  "},
		{"digits and symbols", "Ropa #1 - 50%", "ropa #1 - 50%"},
		{"decomposed input", "café", "cafe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"", "a", "Ábaco", "İstanbul", "ǅemal", "São Paulo", " x ", "日本語", "ﬁ"}

	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestLenAndIsRemote(t *testing.T) {
	tests := []struct {
		input  string
		length int
		remote bool
	}{
		{"", 0, false},
		{"   ", 0, false},
		{"a", 1, false},
		{" á ", 1, false},
		{"pa", 2, true},
		{"ñu", 2, true},
		{"pan", 3, true},
	}

	for _, tt := range tests {
		if got := Len(tt.input); got != tt.length {
			t.Errorf("Len(%q) = %d, want %d", tt.input, got, tt.length)
		}
		if got := IsRemote(tt.input); got != tt.remote {
			t.Errorf("IsRemote(%q) = %v, want %v", tt.input, got, tt.remote)
		}
	}
}

func TestContains(t *testing.T) {
	if !Contains("Panadería", "pana") {
		t.Error("expected accent-insensitive match")
	}
	if Contains("", "pan") {
		t.Error("empty field should not match a non-empty needle")
	}
	if !Contains("", "") {
		t.Error("empty needle should match")
	}
}
