package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("invalid_type", nil); msg == "invalid_type" || msg == "" {
		t.Fatalf("expected a human message, got %q", msg)
	}
	if msg := T("pattern", nil); msg == "pattern" {
		t.Fatalf("expected a human message for pattern, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("invalid_enum", nil); msg == "value is not allowed" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// unknown codes fall back to the code itself
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("expected code passthrough, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}
