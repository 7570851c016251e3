package admin

import "testing"

func TestTokenRoundTrip(t *testing.T) {
	hash, err := HashToken("swordfish")
	if err != nil {
		t.Fatalf("HashToken: %v", err)
	}

	if !VerifyToken(hash, "swordfish") {
		t.Error("correct token rejected")
	}
	if VerifyToken(hash, "sw0rdfish") {
		t.Error("wrong token accepted")
	}
}

func TestVerifyTokenDisabled(t *testing.T) {
	if VerifyToken("", "anything") {
		t.Error("empty hash must disable verification")
	}
	if VerifyToken("$2a$10$something", "") {
		t.Error("empty token must not verify")
	}
}
