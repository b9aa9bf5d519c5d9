package digest

import "testing"

func TestHashDeterministic(t *testing.T) {
	a := Hash([]byte("leaf"))
	b := Hash([]byte("leaf"))
	if !Eq(a, b) {
		t.Fatalf("Hash is not deterministic: %s != %s", a, b)
	}
}

func TestHashConcatVsMultiArg(t *testing.T) {
	a := Hash(Concat([]byte("ab"), []byte("cd")))
	b := Hash([]byte("ab"), []byte("cd"))
	if !Eq(a, b) {
		t.Fatalf("Hash(Concat(a,b)) != Hash(a,b)")
	}
}

func TestHashSensitiveToByteFlip(t *testing.T) {
	msg := []byte("sync-committee-leaf")
	orig := Hash(msg)

	flipped := make([]byte, len(msg))
	copy(flipped, msg)
	flipped[0] ^= 0x01

	if Eq(orig, Hash(flipped)) {
		t.Fatal("flipping a byte did not change the hash")
	}
}

func TestEqZeroValue(t *testing.T) {
	var z Digest
	if !z.IsZero() {
		t.Fatal("zero Digest should report IsZero")
	}
	if Hash([]byte{}).IsZero() {
		t.Fatal("Hash of empty input should not collide with the zero digest")
	}
}

func TestBytesToDigestRoundTrip(t *testing.T) {
	d := Hash([]byte("roundtrip"))
	got := BytesToDigest(d.Bytes())
	if !Eq(d, got) {
		t.Fatalf("BytesToDigest(d.Bytes()) = %s, want %s", got, d)
	}
}

func TestHexToDigestRoundTrip(t *testing.T) {
	d := Hash([]byte("hex-roundtrip"))
	got := HexToDigest(d.Hex())
	if !Eq(d, got) {
		t.Fatalf("HexToDigest(d.Hex()) = %s, want %s", got, d)
	}
}

func TestConcatDigests(t *testing.T) {
	a := Hash([]byte("a"))
	b := Hash([]byte("b"))
	got := ConcatDigests(a, b)
	want := Concat(a.Bytes(), b.Bytes())
	if string(got) != string(want) {
		t.Fatal("ConcatDigests does not match manual Concat of .Bytes()")
	}
}
