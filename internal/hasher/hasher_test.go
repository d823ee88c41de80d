package hasher

import "testing"

func TestContentHash(t *testing.T) {
	data := []byte("imgfit test payload")

	h1 := ContentHash(data, 16)
	h2 := ContentHash(data, 16)
	if h1 != h2 {
		t.Errorf("not deterministic: %q vs %q", h1, h2)
	}
	if len(h1) != 16 {
		t.Errorf("length: got %d, want 16", len(h1))
	}

	if short := ContentHash(data, 8); short != h1[:8] {
		t.Errorf("truncation: got %q, want %q", short, h1[:8])
	}
	if full := ContentHash(data, 0); full != h1 {
		t.Errorf("hexLen 0 should keep all 16 chars, got %q", full)
	}

	if other := ContentHash([]byte("different"), 16); other == h1 {
		t.Error("distinct inputs collided")
	}
}
