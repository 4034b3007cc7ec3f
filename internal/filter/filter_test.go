package filter

import "testing"

func TestBuilderRoundTrip(t *testing.T) {
	b := NewBuilder()
	keys := [][]byte{[]byte("apple"), []byte("banana"), []byte("cherry")}
	for _, k := range keys {
		b.Add(k)
	}
	data, err := b.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	f, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for _, k := range keys {
		if !f.MayContain(k) {
			t.Fatalf("MayContain(%s) = false, want true", k)
		}
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint([]byte("hello"))
	b := Fingerprint([]byte("hello"))
	if a != b {
		t.Fatalf("fingerprint not deterministic: %d != %d", a, b)
	}
	if Fingerprint([]byte("hello")) == Fingerprint([]byte("world")) {
		t.Fatalf("unexpected fingerprint collision for distinct short keys")
	}
}
