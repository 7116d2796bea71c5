package matroska

import (
	"github.com/arvidsson/bml/bitio"
	"github.com/arvidsson/bml/bmlerr"
	"github.com/arvidsson/bml/ebml"
)

// DefaultMaxDepth is the master-nesting-depth guard ReadOptions applies
// when MaxDepth is left at zero, matching the defensive defaults style of
// arloliu/mebo's internal/options package.
const DefaultMaxDepth = 64

// ReadOptions configures how ParseFile (and everything it calls) validates
// and materialises a Matroska/WebM stream's elements.
type ReadOptions struct {
	// ValidateCRC32 arms CRC-32 checking for every master that declares a
	// CRC-32 child; a mismatch aborts parsing with a checksum-mismatch
	// error. Default: false.
	ValidateCRC32 bool
	// ReadMediaData, when true, copies every SimpleBlock/Block payload
	// into memory as it's parsed. When false, only the block header and
	// lacing table are read; frame bytes are left on the wire and
	// recorded as Known byte ranges, bounding parse memory to framing
	// overhead regardless of file size. Default: false.
	ReadMediaData bool
	// WarnFunc, if set, is called once per unknown child ID encountered
	// under a known master.
	WarnFunc ebml.WarnFunc
	// MaxDepth caps master nesting depth. Zero means DefaultMaxDepth.
	MaxDepth int
}

// ReadOption configures a ReadOptions.
type ReadOption func(*ReadOptions)

// WithValidateCRC32 arms or disarms CRC-32 validation.
func WithValidateCRC32(v bool) ReadOption {
	return func(o *ReadOptions) { o.ValidateCRC32 = v }
}

// WithReadMediaData controls whether block payloads are copied into memory
// during parsing, or left as Known byte ranges to be filled in later.
func WithReadMediaData(v bool) ReadOption {
	return func(o *ReadOptions) { o.ReadMediaData = v }
}

// WithWarnFunc sets the callback invoked for unknown child elements.
func WithWarnFunc(fn ebml.WarnFunc) ReadOption {
	return func(o *ReadOptions) { o.WarnFunc = fn }
}

// WithMaxDepth overrides the master-nesting depth guard.
func WithMaxDepth(n int) ReadOption {
	return func(o *ReadOptions) { o.MaxDepth = n }
}

// NewReadOptions builds a ReadOptions from opts, starting from the package
// defaults (ValidateCRC32 false, ReadMediaData false, MaxDepth
// DefaultMaxDepth).
func NewReadOptions(opts ...ReadOption) ReadOptions {
	o := ReadOptions{MaxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// parseCtx carries the per-parse state every master-level Parse function
// needs beyond its own reader and header: the shared CRC tap (nil unless
// CRC validation is armed), the unknown-child warning callback, whether
// block payloads should be materialised, and the current nesting depth
// against the configured MaxDepth.
type parseCtx struct {
	crcTap    *bitio.CRCTapSource
	warn      ebml.WarnFunc
	readMedia bool
	maxDepth  int
	depth     int
}

// newParseCtx builds the root parseCtx for a parse. tap is the CRC-tapping
// decorator already wrapping the reader's byte source (see DESIGN.md for
// why that wrapping has to happen before the BitReader is constructed);
// it's only actually armed when opts.ValidateCRC32 is set, matching
// ebml.NewChunkedReader's "nil disables CRC validation" convention.
func newParseCtx(opts ReadOptions, tap *bitio.CRCTapSource) *parseCtx {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	c := &parseCtx{warn: opts.WarnFunc, readMedia: opts.ReadMediaData, maxDepth: maxDepth}
	if opts.ValidateCRC32 {
		c.crcTap = tap
	}
	return c
}

// child returns the context for one level of nested master parsing,
// failing once depth would exceed maxDepth.
func (c *parseCtx) child() (*parseCtx, error) {
	if c.depth+1 > c.maxDepth {
		return nil, bmlerr.New(bmlerr.LogicError, "master nesting exceeds depth limit of %d", c.maxDepth)
	}
	next := *c
	next.depth = c.depth + 1
	return &next, nil
}
