package bml

import (
	"errors"
	"io"
)

var errSeekUnsupported = errors.New("bml: cannot seek a streaming (non-seekable) source")

// fakeSeeker adapts a plain io.Reader to io.ReadSeeker for callers that
// only have a forward-only stream (NewStreamingDemuxer). Seek always
// fails: a caller that built a Demuxer this way has already opted out of
// seeking.
type fakeSeeker struct {
	r io.Reader
}

func (f *fakeSeeker) Read(p []byte) (int, error) {
	return f.r.Read(p)
}

func (f *fakeSeeker) Seek(offset int64, whence int) (int64, error) {
	return -1, errSeekUnsupported
}
