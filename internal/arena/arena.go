// Package arena implements the bump allocator described in spec.md §4.1: a single
// contiguous buffer whose prefix holds the contact array, followed by the per-step
// efc_* constraint-row arrays. Rewinding to the end of the contact prefix invalidates
// every row array in one O(1) operation, which is exactly what happens whenever the
// collision subsystem appends a contact mid-step.
package arena

import "unsafe"

// Arena is a bump allocator over one contiguous byte buffer. It is exclusively owned by
// a single step's Data; nothing else may allocate from it concurrently (spec.md §5).
type Arena struct {
	buf        []byte
	offset     int
	contactEnd int
	highWater  int
	full       bool
}

// New creates an arena with the given byte capacity.
func New(capacityBytes int) *Arena {
	return &Arena{buf: make([]byte, capacityBytes)}
}

// Reset rewinds the arena to empty, including the contact prefix boundary. Call this at
// the start of a step, before the contact array is (re)built.
func (a *Arena) Reset() {
	a.offset = 0
	a.contactEnd = 0
	a.full = false
}

// MarkContactEnd records the current offset as the end of the contact-array prefix.
// Call this exactly once, right after allocating the contact array.
func (a *Arena) MarkContactEnd() {
	a.contactEnd = a.offset
}

// RewindToContactEnd discards every allocation made after the contact prefix, as
// required whenever a contact is appended after construction started: all efc_*
// pointers built so far are stale and must be rebuilt.
func (a *Arena) RewindToContactEnd() {
	a.offset = a.contactEnd
	a.full = false
}

// Full reports whether the most recent allocation failed for lack of space.
func (a *Arena) Full() bool { return a.full }

// Stats reports arena occupancy for operational telemetry.
type Stats struct {
	UsedBytes      int
	FreeBytes      int
	HighWaterBytes int
}

func (a *Arena) Stats() Stats {
	return Stats{
		UsedBytes:      a.offset,
		FreeBytes:      len(a.buf) - a.offset,
		HighWaterBytes: a.highWater,
	}
}

// AllocSlice carves out a correctly aligned slice of n elements of T. ok is false, and
// the arena is marked Full, when the buffer does not have enough remaining space; the
// caller must treat this as the non-fatal "buffer full" condition from spec.md §7 and
// stop emitting further rows.
func AllocSlice[T any](a *Arena, n int) (out []T, ok bool) {
	if n == 0 {
		return nil, true
	}

	var zero T
	size := int(unsafe.Sizeof(zero))
	align := int(unsafe.Alignof(zero))

	start := alignUp(a.offset, align)
	end := start + size*n
	if end > len(a.buf) {
		a.full = true
		return nil, false
	}

	a.offset = end
	if a.offset > a.highWater {
		a.highWater = a.offset
	}

	ptr := unsafe.Pointer(&a.buf[start])
	return unsafe.Slice((*T)(ptr), n), true
}

func alignUp(offset, align int) int {
	if align <= 1 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}
