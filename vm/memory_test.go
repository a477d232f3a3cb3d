package vm

import (
	"errors"
	"testing"
)

func TestMemoryZeroFillOnAllocate(t *testing.T) {
	m := NewMemory(nil)
	h := m.Allocate(4)
	for off := Word(0); off < 4; off++ {
		v, err := m.Get(h, off)
		if err != nil {
			t.Fatalf("Get(%d, %d): %v", h, off, err)
		}
		if v != 0 {
			t.Errorf("offset %d = %d, want 0", off, v)
		}
	}
}

func TestMemoryGetPutRoundTrip(t *testing.T) {
	m := NewMemory(nil)
	h := m.Allocate(2)
	if err := m.Put(h, 1, 0xDEADBEEF); err != nil {
		t.Fatalf("Put: %v", err)
	}
	v, err := m.Get(h, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != 0xDEADBEEF {
		t.Errorf("Get(1) = 0x%X, want 0xDEADBEEF", v)
	}
}

func TestMemoryHandleReuseLIFO(t *testing.T) {
	m := NewMemory(nil)
	h1 := m.Allocate(1)
	h2 := m.Allocate(1)
	if err := m.Free(h1); err != nil {
		t.Fatalf("Free(h1): %v", err)
	}
	if err := m.Free(h2); err != nil {
		t.Fatalf("Free(h2): %v", err)
	}
	h3 := m.Allocate(1)
	if h3 != h2 {
		t.Errorf("h3 = %d, want %d (= h2, LIFO reuse)", h3, h2)
	}
}

func TestMemoryAllocateGrowsTableWhenFreeListEmpty(t *testing.T) {
	m := NewMemory(nil) // segment 0 already occupies handle 0
	h1 := m.Allocate(1)
	h2 := m.Allocate(1)
	if h1 != 1 || h2 != 2 {
		t.Errorf("h1=%d h2=%d, want 1 and 2", h1, h2)
	}
}

func TestMemoryFreeThenAccessIsDetected(t *testing.T) {
	m := NewMemory(nil)
	h := m.Allocate(1)
	if err := m.Free(h); err != nil {
		t.Fatalf("Free: %v", err)
	}
	if _, err := m.Get(h, 0); !errors.Is(err, ErrBadHandle) {
		t.Errorf("Get after Free: err = %v, want ErrBadHandle", err)
	}
}

func TestMemoryFreeSegmentZeroRejected(t *testing.T) {
	m := NewMemory([]Word{1, 2, 3})
	if err := m.Free(0); !errors.Is(err, ErrFreeReserved) {
		t.Errorf("Free(0): err = %v, want ErrFreeReserved", err)
	}
}

func TestMemoryOutOfRangeDetected(t *testing.T) {
	m := NewMemory(nil)
	h := m.Allocate(2)
	if _, err := m.Get(h, 2); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Get(h,2): err = %v, want ErrOutOfRange", err)
	}
	if err := m.Put(h, 99, 0); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Put(h,99): err = %v, want ErrOutOfRange", err)
	}
}

func TestMemoryLoadProgramIndependence(t *testing.T) {
	m := NewMemory([]Word{10, 20, 30})
	h := m.Allocate(3)
	if err := m.Put(h, 0, 99); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := m.LoadProgram(h); err != nil {
		t.Fatalf("LoadProgram: %v", err)
	}
	v, err := m.Get(0, 0)
	if err != nil {
		t.Fatalf("Get(0,0): %v", err)
	}
	if v != 99 {
		t.Fatalf("Get(0,0) = %d, want 99", v)
	}

	// Mutating or freeing h afterwards must not affect segment 0: the copy
	// must be independent storage.
	if err := m.Put(h, 0, 7); err != nil {
		t.Fatalf("Put(h): %v", err)
	}
	if err := m.Free(h); err != nil {
		t.Fatalf("Free(h): %v", err)
	}
	v, err = m.Get(0, 0)
	if err != nil {
		t.Fatalf("Get(0,0) after free(h): %v", err)
	}
	if v != 99 {
		t.Errorf("Get(0,0) after free(h) = %d, want 99 (unchanged)", v)
	}
}

func TestMemoryLoadProgramZeroIsNoop(t *testing.T) {
	m := NewMemory([]Word{1, 2, 3})
	if err := m.LoadProgram(0); err != nil {
		t.Fatalf("LoadProgram(0): %v", err)
	}
	for off, want := range []Word{1, 2, 3} {
		v, err := m.Get(0, Word(off))
		if err != nil {
			t.Fatalf("Get(0,%d): %v", off, err)
		}
		if v != want {
			t.Errorf("Get(0,%d) = %d, want %d", off, v, want)
		}
	}
}
