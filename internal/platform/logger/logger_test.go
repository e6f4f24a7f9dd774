package logger

import "testing"

func TestSanitizeKVsRedactsContactFields(t *testing.T) {
	redactOnce.Do(func() { redactionEnabled = true })

	out := sanitizeKVs([]interface{}{
		"email", "pelle@johnsson.se",
		"telephone", "123456",
		"order_id", 42,
	})
	if len(out) != 6 {
		t.Fatalf("kv length: want=6 got=%d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("email: want=[REDACTED] got=%v", out[1])
	}
	if out[3] != "[REDACTED]" {
		t.Fatalf("telephone: want=[REDACTED] got=%v", out[3])
	}
	if out[5] != 42 {
		t.Fatalf("order_id: want=42 got=%v", out[5])
	}
}

func TestSanitizeKVsHashesCaller(t *testing.T) {
	redactOnce.Do(func() { redactionEnabled = true })

	out := sanitizeKVs([]interface{}{"caller", "buyer@example.com"})
	got, ok := out[1].(string)
	if !ok || len(got) != len("hash:")+12 {
		t.Fatalf("caller: expected short hash, got %v", out[1])
	}
}
