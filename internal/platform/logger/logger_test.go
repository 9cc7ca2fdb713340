package logger

import "testing"

func TestSanitizeKVsRedactsSecretsAndHashesIDs(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"email", "someone@example.com",
		"refresh_token", "abc",
		"user_id", "8d6f3c1e-0000-4000-8000-000000000001",
		"path", "/api/manuals",
	})
	if len(out) != 8 {
		t.Fatalf("unexpected kv length: want=8 got=%d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("email not redacted: got=%v", out[1])
	}
	if out[3] != "[REDACTED]" {
		t.Fatalf("token not redacted: got=%v", out[3])
	}
	hashed, _ := out[5].(string)
	if len(hashed) != len("hash:")+12 {
		t.Fatalf("user_id not hashed: got=%v", out[5])
	}
	if out[7] != "/api/manuals" {
		t.Fatalf("path should pass through: got=%v", out[7])
	}
}

func TestSanitizeKVsRedactsJWTLookingValues(t *testing.T) {
	jwtish := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.signature"
	out := sanitizeKVs([]interface{}{"header", jwtish})
	if out[1] != "[REDACTED]" {
		t.Fatalf("jwt-looking value not redacted: got=%v", out[1])
	}
}

func TestSanitizeKVsKeepsDanglingKey(t *testing.T) {
	out := sanitizeKVs([]interface{}{"status", 200, "orphan"})
	if len(out) != 3 || out[2] != "orphan" {
		t.Fatalf("dangling key lost: %v", out)
	}
}
