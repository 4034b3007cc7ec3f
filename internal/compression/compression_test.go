package compression

import (
	"bytes"
	"testing"
)

func TestRoundTripAllTypes(t *testing.T) {
	data := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog "), 64)
	for _, typ := range []Type{NoCompression, SnappyType, LZ4Type, ZstdType} {
		t.Run(typ.String(), func(t *testing.T) {
			compressed, err := Compress(typ, data)
			if err != nil {
				t.Fatalf("Compress: %v", err)
			}
			got, err := Decompress(typ, compressed, len(data))
			if err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			if !bytes.Equal(got, data) {
				t.Fatalf("round trip mismatch for %s: got %d bytes, want %d", typ, len(got), len(data))
			}
		})
	}
}

func TestNoCompressionIsIdentity(t *testing.T) {
	data := []byte("verbatim")
	compressed, _ := Compress(NoCompression, data)
	if &compressed[0] != &data[0] {
		t.Fatalf("NoCompression must return the same backing array")
	}
}

func TestUnsupportedTypeFails(t *testing.T) {
	if _, err := Compress(Type(0xFF), []byte("x")); err == nil {
		t.Fatalf("expected an error for an unsupported compression type")
	}
	if _, err := Decompress(Type(0xFF), []byte("x"), 1); err == nil {
		t.Fatalf("expected an error for an unsupported compression type")
	}
}
