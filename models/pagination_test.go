package models

import "testing"

func TestCompositeCursorRoundTrip(t *testing.T) {
	encoded := EncodeCompositeCursor("2026-03-01 10:00:00", 42)
	value, id := DecodeCompositeCursor(&encoded)
	if value != "2026-03-01 10:00:00" || id != 42 {
		t.Fatalf("got (%q, %d)", value, id)
	}
}

func TestDecodeCompositeCursor_Garbage(t *testing.T) {
	for _, bad := range []string{"", "not-base64!", EncodeCursor("no-separator"), EncodeCursor("a|b|c"), EncodeCursor("x|notanumber")} {
		bad := bad
		value, id := DecodeCompositeCursor(&bad)
		if value != "" || id != 0 {
			t.Errorf("%q: expected empty cursor, got (%q, %d)", bad, value, id)
		}
	}

	value, id := DecodeCompositeCursor(nil)
	if value != "" || id != 0 {
		t.Errorf("nil cursor: got (%q, %d)", value, id)
	}
}
