package utils

import "testing"

func TestValidatePhone(t *testing.T) {
	valid := []string{"+573001234567", "3001234567", "+57 300 123-4567"}
	for _, phone := range valid {
		if !ValidatePhone(phone) {
			t.Fatalf("expected %q to be valid", phone)
		}
	}

	invalid := []string{"", "abc", "+0123", "12345678901234567890"}
	for _, phone := range invalid {
		if ValidatePhone(phone) {
			t.Fatalf("expected %q to be invalid", phone)
		}
	}
}
