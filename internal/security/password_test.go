package security

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("hash must not equal the plaintext password")
	}

	if !CheckPassword("correct horse battery", hash) {
		t.Error("CheckPassword() = false for the right password")
	}
	if CheckPassword("wrong password", hash) {
		t.Error("CheckPassword() = true for the wrong password")
	}
}
