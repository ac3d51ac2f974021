package areatable

import "testing"

func TestCoalesceAdjacent(t *testing.T) {
	tbl := New(16)
	mustAppend(t, tbl, Entry{Base: 0x1000, Size: 0x1000, Kind: Free})
	mustAppend(t, tbl, Entry{Base: 0x2000, Size: 0x1000, Kind: Free})

	if tbl.Len() != 1 {
		t.Fatalf("expected 1 entry after coalescing, got %d", tbl.Len())
	}
	got := tbl.Entries()[0]
	want := Entry{Base: 0x1000, Size: 0x2000, Kind: Free}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestCoalesceIsCommutative(t *testing.T) {
	a := Entry{Base: 0x1000, Size: 0x1000, Kind: Free}
	b := Entry{Base: 0x2000, Size: 0x1000, Kind: Free}

	ab := New(16)
	mustAppend(t, ab, a)
	mustAppend(t, ab, b)

	ba := New(16)
	mustAppend(t, ba, b)
	mustAppend(t, ba, a)

	if ab.Len() != ba.Len() || ab.Entries()[0] != ba.Entries()[0] {
		t.Fatalf("coalescing not commutative: ab=%+v ba=%+v", ab.Entries(), ba.Entries())
	}
}

func TestDifferentKindsDoNotCoalesce(t *testing.T) {
	tbl := New(16)
	mustAppend(t, tbl, Entry{Base: 0x1000, Size: 0x1000, Kind: Free})
	mustAppend(t, tbl, Entry{Base: 0x2000, Size: 0x1000, Kind: Reserved})

	if tbl.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", tbl.Len())
	}
}

func TestBridgingMiddlePieceMergesThreeIntoOne(t *testing.T) {
	tbl := New(16)
	mustAppend(t, tbl, Entry{Base: 0x1000, Size: 0x1000, Kind: Free})
	mustAppend(t, tbl, Entry{Base: 0x3000, Size: 0x1000, Kind: Free})
	mustAppend(t, tbl, Entry{Base: 0x2000, Size: 0x1000, Kind: Free})

	if tbl.Len() != 1 {
		t.Fatalf("expected bridging to merge all three, got %d entries: %+v", tbl.Len(), tbl.Entries())
	}
	want := Entry{Base: 0x1000, Size: 0x3000, Kind: Free}
	if tbl.Entries()[0] != want {
		t.Fatalf("got %+v, want %+v", tbl.Entries()[0], want)
	}
}

func TestOverflowPanicsNotTruncates(t *testing.T) {
	tbl := New(2)
	mustAppend(t, tbl, Entry{Base: 0x1000, Size: 0x10, Kind: Free})
	mustAppend(t, tbl, Entry{Base: 0x3000, Size: 0x10, Kind: Reserved})

	err := tbl.Append(Entry{Base: 0x5000, Size: 0x10, Kind: Reclaim})
	if err != ErrOverflow {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("overflow must not silently truncate or grow: got %d entries", tbl.Len())
	}
}

func TestZeroSizeEntryIsIgnored(t *testing.T) {
	tbl := New(4)
	mustAppend(t, tbl, Entry{Base: 0x1000, Size: 0, Kind: Free})
	if tbl.Len() != 0 {
		t.Fatalf("expected zero-size entry to be dropped, got %d entries", tbl.Len())
	}
}

func mustAppend(t *testing.T, tbl *Table, e Entry) {
	t.Helper()
	if err := tbl.Append(e); err != nil {
		t.Fatalf("Append(%+v) failed: %v", e, err)
	}
}
