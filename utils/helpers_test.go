package utils

import "testing"

func TestIsValidEvaluation(t *testing.T) {
	tests := []struct {
		evaluation string
		want       bool
	}{
		{"وسط", true},
		{"جيد", true},
		{"جيد جدا", true},
		{"ممتاز", true},
		{"", false},
		{"excellent", false},
		{"جيد جداً", false},
	}

	for _, tt := range tests {
		if got := IsValidEvaluation(tt.evaluation); got != tt.want {
			t.Errorf("IsValidEvaluation(%q) = %v, want %v", tt.evaluation, got, tt.want)
		}
	}
}

func TestQuranParts(t *testing.T) {
	parts := QuranParts()
	if len(parts) != 30 {
		t.Fatalf("len = %d, want 30", len(parts))
	}
	if parts[0] != "جزء عم" || parts[1] != "جزء تبارك" {
		t.Errorf("short collections must come first, got %q, %q", parts[0], parts[1])
	}
	if parts[2] != "جزء 1" || parts[29] != "جزء 28" {
		t.Errorf("numbered parts wrong: %q .. %q", parts[2], parts[29])
	}
}

func TestIsValidQuranPart(t *testing.T) {
	tests := []struct {
		part string
		want bool
	}{
		{"", true},
		{"جزء عم", true},
		{"جزء تبارك", true},
		{"جزء 1", true},
		{"جزء 28", true},
		{"جزء 29", false},
		{"جزء 0", false},
		{"juz amma", false},
	}

	for _, tt := range tests {
		if got := IsValidQuranPart(tt.part); got != tt.want {
			t.Errorf("IsValidQuranPart(%q) = %v, want %v", tt.part, got, tt.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		{"2024-12-20", true},
		{"2024-02-29", true},
		{"2023-02-29", false},
		{"2024-13-01", false},
		{"20-12-2024", false},
		{"2024/12/20", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidDate(tt.date); got != tt.want {
			t.Errorf("IsValidDate(%q) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  أحمد  ", "أحمد"},
		{"name\x00here", "namehere"},
		{"clean", "clean"},
	}

	for _, tt := range tests {
		if got := SanitizeString(tt.input); got != tt.want {
			t.Errorf("SanitizeString(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := CheckPassword("admin123", hash); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := CheckPassword("wrong", hash); err == nil {
		t.Error("wrong password accepted")
	}
}
