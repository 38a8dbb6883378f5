package config

import (
	"os"
	"testing"
)

func TestAPIURL_Default(t *testing.T) {
	os.Unsetenv("DEVCONNECT_API_URL")
	if got := APIURL(); got != "http://localhost:5000" {
		t.Errorf("APIURL: got %q", got)
	}
}

func TestAPIURL_Override(t *testing.T) {
	t.Setenv("DEVCONNECT_API_URL", "http://example.com:9999")
	if got := APIURL(); got != "http://example.com:9999" {
		t.Errorf("APIURL: got %q", got)
	}
}

func TestToken_RoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if _, err := LoadToken(); err == nil {
		t.Error("expected error before any token is saved")
	}

	if err := SaveToken("abc.def.ghi"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	tok, err := LoadToken()
	if err != nil {
		t.Fatalf("LoadToken: %v", err)
	}
	if tok != "abc.def.ghi" {
		t.Errorf("LoadToken: got %q", tok)
	}

	if err := ClearToken(); err != nil {
		t.Fatalf("ClearToken: %v", err)
	}
	if _, err := LoadToken(); err == nil {
		t.Error("expected error after ClearToken")
	}

	// Clearing again must not fail.
	if err := ClearToken(); err != nil {
		t.Errorf("second ClearToken: %v", err)
	}
}
