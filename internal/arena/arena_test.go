package arena

import "testing"

func TestAllocSlice_Basic(t *testing.T) {
	a := New(1024)

	floats, ok := AllocSlice[float64](a, 10)
	if !ok {
		t.Fatal("expected allocation to succeed")
	}
	if len(floats) != 10 {
		t.Errorf("len(floats) = %d, want 10", len(floats))
	}

	for i := range floats {
		floats[i] = float64(i)
	}
	for i := range floats {
		if floats[i] != float64(i) {
			t.Errorf("floats[%d] = %v, want %v", i, floats[i], float64(i))
		}
	}
}

func TestAllocSlice_ZeroLength(t *testing.T) {
	a := New(64)
	out, ok := AllocSlice[int32](a, 0)
	if !ok || out != nil {
		t.Errorf("zero-length alloc = (%v, %v), want (nil, true)", out, ok)
	}
}

func TestAllocSlice_BufferFull(t *testing.T) {
	a := New(16)

	_, ok := AllocSlice[float64](a, 2) // exactly fills 16 bytes
	if !ok {
		t.Fatal("expected first allocation to fit")
	}

	_, ok = AllocSlice[float64](a, 1)
	if ok {
		t.Error("expected second allocation to fail")
	}
	if !a.Full() {
		t.Error("expected arena to report Full() after overflow")
	}
}

func TestAllocSlice_Alignment(t *testing.T) {
	a := New(256)

	// Force the offset to an odd byte count, then allocate a type with a larger
	// alignment requirement and verify the returned slice is writable at every index
	// (an alignment bug would corrupt neighboring elements, not crash, so we check
	// values survive a round trip instead of asserting addresses).
	_, _ = AllocSlice[byte](a, 3)

	vals, ok := AllocSlice[float64](a, 4)
	if !ok {
		t.Fatal("expected aligned allocation to succeed")
	}
	for i := range vals {
		vals[i] = float64(i) * 1.5
	}
	for i := range vals {
		if vals[i] != float64(i)*1.5 {
			t.Errorf("vals[%d] = %v, want %v", i, vals[i], float64(i)*1.5)
		}
	}
}

func TestRewindToContactEnd(t *testing.T) {
	a := New(256)

	contacts, ok := AllocSlice[int64](a, 4)
	if !ok {
		t.Fatal("contact allocation failed")
	}
	for i := range contacts {
		contacts[i] = int64(i + 1)
	}
	a.MarkContactEnd()

	rows, ok := AllocSlice[float64](a, 10)
	if !ok {
		t.Fatal("row allocation failed")
	}
	_ = rows

	usedBefore := a.Stats().UsedBytes
	a.RewindToContactEnd()
	usedAfter := a.Stats().UsedBytes

	if usedAfter >= usedBefore {
		t.Errorf("rewind did not shrink usage: before=%d after=%d", usedBefore, usedAfter)
	}

	// The contact prefix itself must survive the rewind untouched.
	for i, c := range contacts {
		if c != int64(i+1) {
			t.Errorf("contact[%d] = %d, want %d (rewind corrupted the contact prefix)", i, c, i+1)
		}
	}
}

func TestReset(t *testing.T) {
	a := New(64)
	_, _ = AllocSlice[float64](a, 2)
	a.MarkContactEnd()
	_, _ = AllocSlice[float64](a, 2)

	a.Reset()
	stats := a.Stats()
	if stats.UsedBytes != 0 {
		t.Errorf("UsedBytes after Reset = %d, want 0", stats.UsedBytes)
	}
}
