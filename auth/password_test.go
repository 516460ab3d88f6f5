package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("pw123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "pw123" {
		t.Fatal("Expected hash to differ from the raw password")
	}
	if !CheckPassword("pw123", hash) {
		t.Error("Expected correct password to match")
	}
	if CheckPassword("pw124", hash) {
		t.Error("Expected wrong password not to match")
	}
	if CheckPassword("pw123", "not-a-bcrypt-hash") {
		t.Error("Expected garbage hash not to match")
	}

	again, err := HashPassword("pw123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if again == hash {
		t.Error("Expected a fresh salt for every hash")
	}
}
