package keys

import "testing"

func TestCompareOrdersByUserKeyThenDescendingTimestamp(t *testing.T) {
	cases := []struct {
		name string
		a, b Key
		want int // -1, 0, 1 (sign only)
	}{
		{"bytes differ", Key{UserKey: []byte("a")}, Key{UserKey: []byte("b")}, -1},
		{"bytes differ reversed", Key{UserKey: []byte("b")}, Key{UserKey: []byte("a")}, 1},
		{"same bytes, newer ts first", Key{UserKey: []byte("a"), Seq: 5}, Key{UserKey: []byte("a"), Seq: 3}, -1},
		{"same bytes, older ts after", Key{UserKey: []byte("a"), Seq: 3}, Key{UserKey: []byte("a"), Seq: 5}, 1},
		{"identical", Key{UserKey: []byte("a"), Seq: 5}, Key{UserKey: []byte("a"), Seq: 5}, 0},
	}
	for _, tc := range cases {
		got := Compare(tc.a, tc.b)
		if sign(got) != tc.want {
			t.Errorf("%s: Compare(%+v, %+v) = %d, want sign %d", tc.name, tc.a, tc.b, got, tc.want)
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

func TestLess(t *testing.T) {
	if !Less(Key{UserKey: []byte("a")}, Key{UserKey: []byte("b")}) {
		t.Fatalf("expected a < b")
	}
	if Less(Key{UserKey: []byte("a")}, Key{UserKey: []byte("a")}) {
		t.Fatalf("expected a not less than itself")
	}
}

func TestCloneIsIndependentOfSource(t *testing.T) {
	buf := []byte("mutable")
	k := Key{UserKey: buf, Seq: 7}
	owned := k.Clone()
	buf[0] = 'X'
	if string(owned.UserKey) != "mutable" {
		t.Fatalf("Clone retained a view into the mutated buffer: %q", owned.UserKey)
	}
	if owned.Seq != 7 {
		t.Fatalf("Seq = %d, want 7", owned.Seq)
	}
}

func TestCloneIntoReusesCapacity(t *testing.T) {
	dst := make([]byte, 0, 16)
	k := Key{UserKey: []byte("hello"), Seq: 1}
	out, owned := CloneInto(dst, k)
	if string(owned.UserKey) != "hello" {
		t.Fatalf("UserKey = %q, want hello", owned.UserKey)
	}
	if &out[0] != &dst[:1][0] {
		t.Fatalf("CloneInto did not reuse dst's backing array")
	}
}

func TestBorrowRoundTrips(t *testing.T) {
	o := Owned{UserKey: []byte("k"), Seq: 42}
	b := o.Borrow()
	if string(b.UserKey) != "k" || b.Seq != 42 {
		t.Fatalf("Borrow() = %+v", b)
	}
}
