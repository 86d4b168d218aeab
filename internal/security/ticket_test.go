package security

import (
	"testing"
)

func TestMintAndVerifyTicket(t *testing.T) {
	secret := "test-secret"

	ticket, err := MintTicket(secret, 42)
	if err != nil {
		t.Fatalf("MintTicket() error = %v", err)
	}

	userID, err := VerifyTicket(secret, ticket)
	if err != nil {
		t.Fatalf("VerifyTicket() error = %v", err)
	}
	if userID != 42 {
		t.Errorf("VerifyTicket() userID = %d, want 42", userID)
	}
}

func TestVerifyTicketRejectsWrongSecret(t *testing.T) {
	ticket, err := MintTicket("secret-a", 42)
	if err != nil {
		t.Fatalf("MintTicket() error = %v", err)
	}

	if _, err := VerifyTicket("secret-b", ticket); err == nil {
		t.Error("expected error for ticket signed with a different secret")
	}
}

func TestVerifyTicketRejectsGarbage(t *testing.T) {
	if _, err := VerifyTicket("secret", "not-a-token"); err == nil {
		t.Error("expected error for malformed ticket")
	}
}
