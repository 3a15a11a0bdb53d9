package config

import "testing"

func TestParseAuthTokens(t *testing.T) {
	tokens, err := parseAuthTokens("tok1:farmer-1, tok2:farmer-2")
	if err != nil {
		t.Fatalf("parseAuthTokens: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("got %d tokens, want 2", len(tokens))
	}
	if tokens["tok1"] != "farmer-1" || tokens["tok2"] != "farmer-2" {
		t.Fatalf("unexpected mapping: %v", tokens)
	}
}

func TestParseAuthTokensEmpty(t *testing.T) {
	tokens, err := parseAuthTokens("")
	if err != nil {
		t.Fatalf("parseAuthTokens: %v", err)
	}
	if len(tokens) != 0 {
		t.Fatalf("expected empty map, got %v", tokens)
	}
}

func TestParseAuthTokensMalformed(t *testing.T) {
	for _, raw := range []string{"no-colon", ":farmer-1", "tok:"} {
		if _, err := parseAuthTokens(raw); err == nil {
			t.Errorf("parseAuthTokens(%q) accepted malformed entry", raw)
		}
	}
}

func TestListenAddr(t *testing.T) {
	cfg := Config{Port: 9090}
	if got := cfg.ListenAddr(); got != ":9090" {
		t.Fatalf("ListenAddr = %s", got)
	}
}
