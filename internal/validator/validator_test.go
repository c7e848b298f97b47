package validator

import "testing"

func TestValidateUsername(t *testing.T) {
	for _, username := range []string{"alice", "bob_99", "ABC"} {
		if err := ValidateUsername(username); err != nil {
			t.Fatalf("%q: unexpected error: %v", username, err)
		}
	}
	for _, username := range []string{"", "ab", "has space", "way-too-long-for-a-username-field", "quo;te"} {
		if err := ValidateUsername(username); err != ErrInvalidUsername {
			t.Fatalf("%q: expected ErrInvalidUsername, got %v", username, err)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("longenough"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidatePassword("short"); err != ErrInvalidPassword {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
}

func TestValidateSymbol(t *testing.T) {
	for _, symbol := range []string{"NFLX", "brk.b", "BF-B"} {
		if err := ValidateSymbol(symbol); err != nil {
			t.Fatalf("%q: unexpected error: %v", symbol, err)
		}
	}
	for _, symbol := range []string{"", "TOOLONGSYMBOL", "AB1;"} {
		if err := ValidateSymbol(symbol); err != ErrInvalidSymbol {
			t.Fatalf("%q: expected ErrInvalidSymbol, got %v", symbol, err)
		}
	}
}
