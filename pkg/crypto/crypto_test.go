package crypto

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter2!")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "hunter2!" {
		t.Fatal("expected hash to differ from plaintext")
	}

	if !VerifyPassword(hash, "hunter2!") {
		t.Fatal("expected password to verify against its hash")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatal("expected wrong password to fail verification")
	}
}

func TestGenerateTokenLengthAndUniqueness(t *testing.T) {
	first, err := GenerateToken(32)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	second, err := GenerateToken(32)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if first == "" || second == "" {
		t.Fatal("expected non-empty tokens")
	}
	if first == second {
		t.Fatal("expected distinct tokens")
	}
}
