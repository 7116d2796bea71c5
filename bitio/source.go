package bitio

// ByteSource supplies bytes one at a time to a BitReader. It models the
// spec's sum type {empty | pull-callback | slice} as a small interface so
// callers can plug in whatever backs their stream: an in-memory buffer, a
// network connection polled via a pull callback, and so on.
type ByteSource interface {
	// NextByte returns the next byte and true, or (0, false) if no more
	// bytes are currently available. It must not panic on an empty source.
	NextByte() (byte, bool)
}

// EmptySource is a ByteSource that never has any bytes.
type EmptySource struct{}

func (EmptySource) NextByte() (byte, bool) { return 0, false }

// SliceSource is a ByteSource backed by an in-memory byte slice.
type SliceSource struct {
	data []byte
	pos  int
}

// NewSliceSource returns a ByteSource that yields the bytes of data in
// order.
func NewSliceSource(data []byte) *SliceSource {
	return &SliceSource{data: data}
}

func (s *SliceSource) NextByte() (byte, bool) {
	if s.pos >= len(s.data) {
		return 0, false
	}
	b := s.data[s.pos]
	s.pos++
	return b, true
}

// Remaining returns the not-yet-consumed tail of the backing slice.
func (s *SliceSource) Remaining() []byte { return s.data[s.pos:] }

// CallbackSource adapts a pull function — "fill this byte, report success"
// — into a ByteSource. This is the shape needed for push-style producers
// (network reads, generator coroutines) that can't hand back a slice.
type CallbackSource struct {
	Pull func() (byte, bool)
}

// NewCallbackSource wraps pull as a ByteSource.
func NewCallbackSource(pull func() (byte, bool)) *CallbackSource {
	return &CallbackSource{Pull: pull}
}

func (c *CallbackSource) NextByte() (byte, bool) { return c.Pull() }

// ByteSink accepts bytes one at a time from a BitWriter.
type ByteSink interface {
	// PutByte pushes b to the sink and reports whether it was accepted.
	PutByte(b byte) bool
}

// DiscardSink is a ByteSink that accepts and drops every byte.
type DiscardSink struct{}

func (DiscardSink) PutByte(byte) bool { return true }

// SliceSink is a ByteSink that writes into a growable byte slice.
type SliceSink struct {
	Data []byte
}

// NewSliceSink returns a ByteSink that appends to an internal buffer,
// retrievable via Bytes.
func NewSliceSink() *SliceSink { return &SliceSink{} }

func (s *SliceSink) PutByte(b byte) bool {
	s.Data = append(s.Data, b)
	return true
}

// Bytes returns the bytes written so far.
func (s *SliceSink) Bytes() []byte { return s.Data }

// CallbackSink adapts a push function into a ByteSink.
type CallbackSink struct {
	Push func(byte) bool
}

// NewCallbackSink wraps push as a ByteSink.
func NewCallbackSink(push func(byte) bool) *CallbackSink {
	return &CallbackSink{Push: push}
}

func (c *CallbackSink) PutByte(b byte) bool { return c.Push(b) }
