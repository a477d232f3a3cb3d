package vm

import "fmt"

// Handle identifies a live segment within a single run. Handle 0 is
// distinguished: it always holds the currently executing program image and
// is live from startup to shutdown.
type Handle = uint32

// Memory owns every allocated segment, hands out stable handles, and
// recycles freed ones. Segments are stored as plain word slices rather than
// the teacher's opaque stack bytes, so a handle is a direct table index and
// get/put cost a double indirection (see the "segments as values" note in
// the expanded spec's design notes).
//
// segments[h] == nil marks a hole: either h was freed (and appears in
// freeList) or h was never allocated. Both cases are ISA-undefined to
// address; Memory does not distinguish them beyond that marker.
type Memory struct {
	segments [][]Word
	freeList []Handle
}

// NewMemory creates a memory manager with segment 0 preloaded with program,
// the only segment whose initial contents are caller-supplied rather than
// zero-filled.
func NewMemory(program []Word) *Memory {
	img := make([]Word, len(program))
	copy(img, program)
	return &Memory{
		segments: [][]Word{img},
	}
}

// Get returns the word at offset in the segment at handle. Undefined if
// handle is dead or offset is out of range; this implementation detects
// both and returns a fatal error rather than continuing with corrupt state.
func (m *Memory) Get(handle Handle, offset Word) (Word, error) {
	seg, err := m.live(handle)
	if err != nil {
		return 0, err
	}
	if offset >= Word(len(seg)) {
		return 0, fmt.Errorf("%w: handle %d offset %d (length %d)", ErrOutOfRange, handle, offset, len(seg))
	}
	return seg[offset], nil
}

// Put overwrites the word at offset in the segment at handle. Same
// preconditions as Get.
func (m *Memory) Put(handle Handle, offset Word, value Word) error {
	seg, err := m.live(handle)
	if err != nil {
		return err
	}
	if offset >= Word(len(seg)) {
		return fmt.Errorf("%w: handle %d offset %d (length %d)", ErrOutOfRange, handle, offset, len(seg))
	}
	seg[offset] = value
	return nil
}

// Allocate returns a fresh handle to a zero-filled segment of the given
// length. The free list is consulted first (LIFO reuse); only once it is
// empty does the table grow.
func (m *Memory) Allocate(length Word) Handle {
	seg := make([]Word, length)

	if n := len(m.freeList); n > 0 {
		h := m.freeList[n-1]
		m.freeList = m.freeList[:n-1]
		m.segments[h] = seg
		return h
	}

	h := Handle(len(m.segments))
	m.segments = append(m.segments, seg)
	return h
}

// Free releases the segment at handle, discarding its storage and pushing
// handle onto the free list. handle must not be 0 and must currently be
// live; the ISA leaves both violations undefined, and this implementation
// fails fast instead of corrupting the free list.
func (m *Memory) Free(handle Handle) error {
	if handle == 0 {
		return fmt.Errorf("%w: handle 0", ErrFreeReserved)
	}
	if _, err := m.live(handle); err != nil {
		return err
	}
	m.segments[handle] = nil
	m.freeList = append(m.freeList, handle)
	return nil
}

// LoadProgram replaces segment 0 with an independent deep copy of the
// segment at handle, so that a later Free(handle) cannot affect segment 0.
// When handle is 0 this is a no-op: the running program continues to
// execute from its own image, unaffected and uncopied.
func (m *Memory) LoadProgram(handle Handle) error {
	if handle == 0 {
		return nil
	}
	seg, err := m.live(handle)
	if err != nil {
		return err
	}
	img := make([]Word, len(seg))
	copy(img, seg)
	m.segments[0] = img
	return nil
}

// live returns the segment at handle, or an error if handle is out of the
// table's range or currently on the free list (a hole).
func (m *Memory) live(handle Handle) ([]Word, error) {
	if handle >= Handle(len(m.segments)) {
		return nil, fmt.Errorf("%w: handle %d", ErrBadHandle, handle)
	}
	seg := m.segments[handle]
	if seg == nil {
		return nil, fmt.Errorf("%w: handle %d", ErrBadHandle, handle)
	}
	return seg, nil
}
