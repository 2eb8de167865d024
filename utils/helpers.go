package utils

import (
	"fmt"
	"strings"
	"time"

	"madrasa_go/models"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// CheckPassword compares a password with its hash
func CheckPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// IsValidEvaluation checks if a recitation evaluation grade is valid
func IsValidEvaluation(evaluation string) bool {
	switch evaluation {
	case models.EvaluationAverage, models.EvaluationGood, models.EvaluationVeryGood, models.EvaluationExcellent:
		return true
	}
	return false
}

// QuranParts returns the selectable Quran part labels, in teaching order:
// the two short hizb collections first, then the numbered parts.
func QuranParts() []string {
	parts := []string{"جزء عم", "جزء تبارك"}
	for i := 1; i <= 28; i++ {
		parts = append(parts, fmt.Sprintf("جزء %d", i))
	}
	return parts
}

// IsValidQuranPart checks if a latest_quran_part value is one of the known
// part labels. An empty value is allowed: the part may not be set yet.
func IsValidQuranPart(part string) bool {
	if part == "" {
		return true
	}
	for _, p := range QuranParts() {
		if part == p {
			return true
		}
	}
	return false
}

// IsValidDate checks a session date string (YYYY-MM-DD)
func IsValidDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

// SanitizeString removes dangerous characters from string
func SanitizeString(input string) string {
	// Remove null bytes and control characters
	input = strings.ReplaceAll(input, "\x00", "")

	// Trim whitespace
	input = strings.TrimSpace(input)

	return input
}
