package logger

import (
	"strings"
	"testing"
)

func TestSanitizeRedactsSecrets(t *testing.T) {
	l := &Logger{redact: true}
	out := l.sanitizeKVs([]interface{}{"password", "hunter2", "username", "pastor", "access_token", "abc"})
	if out[1] != "[REDACTED]" {
		t.Fatalf("password not redacted: %v", out[1])
	}
	if out[3] != "pastor" {
		t.Fatalf("username should pass through: %v", out[3])
	}
	if out[5] != "[REDACTED]" {
		t.Fatalf("token not redacted: %v", out[5])
	}
}

func TestSanitizeHashesUserIDs(t *testing.T) {
	l := &Logger{redact: true, hashSalt: "salt"}
	out := l.sanitizeKVs([]interface{}{"actor_id", "8f14e45f-ceea-4a7e-9c1f-2a8d0e1f9b11"})
	got, ok := out[1].(string)
	if !ok || !strings.HasPrefix(got, "hash:") || len(got) != len("hash:")+12 {
		t.Fatalf("unexpected hash value: %v", out[1])
	}
}

func TestSanitizeDisabled(t *testing.T) {
	l := &Logger{redact: false}
	out := l.sanitizeKVs([]interface{}{"password", "hunter2"})
	if out[1] != "hunter2" {
		t.Fatalf("redaction should be off: %v", out[1])
	}
}

func TestSanitizeOddLength(t *testing.T) {
	l := &Logger{redact: true}
	out := l.sanitizeKVs([]interface{}{"path", "/api/sermons/", "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("unexpected output: %v", out)
	}
}
