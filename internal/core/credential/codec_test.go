package credential

import "testing"

func TestCodec_DigestDeterministic(t *testing.T) {
	c := NewCodec("pepper")

	d1 := c.Digest("password1")
	d2 := c.Digest("password1")
	if d1 != d2 {
		t.Fatalf("digest not deterministic: %s != %s", d1, d2)
	}
	if d1 == "password1" {
		t.Fatalf("digest must not equal the plaintext")
	}
	if len(d1) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(d1))
	}
}

func TestCodec_DigestVariesByInputAndSalt(t *testing.T) {
	c := NewCodec("pepper")

	if c.Digest("password1") == c.Digest("password2") {
		t.Fatalf("different secrets produced the same digest")
	}

	other := NewCodec("different-salt")
	if c.Digest("password1") == other.Digest("password1") {
		t.Fatalf("different salts produced the same digest")
	}
}

func TestCodec_Verify(t *testing.T) {
	c := NewCodec("pepper")
	stored := c.Digest("correct horse")

	if !c.Verify("correct horse", stored) {
		t.Fatalf("verify rejected the correct secret")
	}
	if c.Verify("wrong horse", stored) {
		t.Fatalf("verify accepted an incorrect secret")
	}
	if c.Verify("correct horse", "not-a-digest") {
		t.Fatalf("verify accepted a bogus stored digest")
	}
}
