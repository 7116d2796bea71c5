// Package bml is a pure Go EBML/Matroska demuxer built on the bitio,
// ebml, matroska, contentcodec, and block packages.
package bml

import (
	"fmt"
	"io"
	"sort"

	"github.com/arvidsson/bml/bitio"
	"github.com/arvidsson/bml/block"
	"github.com/arvidsson/bml/matroska"
)

// Demuxer holds a fully parsed Matroska/WebM file: the EBML header, the
// Segment tree, and a precomputed ordered packet queue. Parsing is eager
// (see DESIGN.md) so every accessor below is a plain in-memory lookup.
type Demuxer struct {
	header  matroska.EBMLHeader
	segment matroska.Segment

	data    []byte
	tracks  []TrackInfo
	packets []Packet
	views   map[uint64]*block.FrameView

	readPos int
}

// NewDemuxer creates a new Matroska demuxer from r.
func NewDemuxer(r io.ReadSeeker, opts ...matroska.ReadOption) (*Demuxer, error) {
	return newDemuxer(r, opts...)
}

// NewStreamingDemuxer creates a new Matroska demuxer from an io.Reader
// that has no ability to seek on the input stream. Since parsing is
// eager, the only practical effect of "streaming" input is that Seek
// cannot re-read from the caller's underlying source — the fully parsed
// result is identical either way.
func NewStreamingDemuxer(r io.Reader, opts ...matroska.ReadOption) (*Demuxer, error) {
	return newDemuxer(&fakeSeeker{r: r}, opts...)
}

func newDemuxer(r io.Reader, opts ...matroska.ReadOption) (*Demuxer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("bml: reading input: %w", err)
	}

	// The CRC tap has to wrap the byte source before the BitReader is built
	// around it (see DESIGN.md), so it's constructed here rather than inside
	// matroska.ParseFile, which only receives the already-wrapped reader
	// plus a pointer to the tap for ReadOptions.ValidateCRC32 to arm.
	tap := bitio.NewCRCTapSource(bitio.NewSliceSource(data))
	br := bitio.NewBitReader(tap)
	readOpts := matroska.NewReadOptions(opts...)
	hdr, seg, err := matroska.ParseFile(br, tap, readOpts)
	if err != nil {
		return nil, fmt.Errorf("bml: parsing file: %w", err)
	}

	d := &Demuxer{
		header:  hdr,
		segment: seg,
		data:    data,
		views:   make(map[uint64]*block.FrameView),
	}
	for _, e := range seg.Tracks.Entries {
		d.tracks = append(d.tracks, trackInfoFromEntry(e))
	}
	if err := d.buildPacketQueue(); err != nil {
		return nil, err
	}
	return d, nil
}

// buildPacketQueue walks each track's FrameView in order, expanding laced
// frames into Packets in the cluster/block/lace ordering described for
// FrameView (§4.J): cluster order, then within-cluster block order, then
// within-block lace order. Frames after the first of a lace take their
// block's StartTime, so the final stable sort by StartTime interleaves the
// tracks without reordering any one track's frames.
func (d *Demuxer) buildPacketQueue() error {
	for _, e := range d.segment.Tracks.Entries {
		view, err := d.segment.ViewFrames(e.Number)
		if err != nil {
			return fmt.Errorf("bml: building frame view for track %d: %w", e.Number, err)
		}
		d.views[e.Number] = view

		var blockStart uint64
		for {
			f, ok := view.Next()
			if !ok {
				break
			}
			data := f.Data()
			if data == nil {
				dr, err := f.FillFrameData(block.MemorySource(d.data), "owned")
				if err != nil {
					return fmt.Errorf("bml: filling frame data for track %d: %w", e.Number, err)
				}
				data = dr.Bytes()
			}
			if f.Timestamp != nil {
				blockStart = uint64(*f.Timestamp)
			}
			pkt := Packet{
				Track:     uint8(e.Number),
				Data:      data,
				StartTime: blockStart,
				EndTime:   blockStart,
			}
			if f.Header().Keyframe {
				pkt.Flags |= KF
			}
			d.packets = append(d.packets, pkt)
		}
		view.Reset()
	}

	sort.SliceStable(d.packets, func(i, j int) bool {
		return d.packets[i].StartTime < d.packets[j].StartTime
	})
	return nil
}

// Close closes a demuxer. The eager pure Go implementation holds no
// external resources beyond the byte slice read at construction time, so
// there is nothing to release.
func (d *Demuxer) Close() {}

// GetNumTracks gets the number of tracks available to a given demuxer.
func (d *Demuxer) GetNumTracks() (uint, error) {
	return uint(len(d.tracks)), nil
}

// GetTrackInfo returns all track-level information available for a given
// track, where track is less than what is returned by GetNumTracks.
func (d *Demuxer) GetTrackInfo(track uint) (*TrackInfo, error) {
	if int(track) >= len(d.tracks) {
		return nil, fmt.Errorf("bml: track %d not found", track)
	}
	t := d.tracks[track]
	return &t, nil
}

// GetFileInfo gets all top-level (whole file) info available for a given
// demuxer.
func (d *Demuxer) GetFileInfo() (*SegmentInfo, error) {
	si := segmentInfoFromInfo(d.segment.Info)
	return &si, nil
}

// GetAttachments returns information on all available attachments for a
// given demuxer. The returned slice may be of length 0.
func (d *Demuxer) GetAttachments() []*Attachment {
	if d.segment.Attachments == nil {
		return nil
	}
	out := make([]*Attachment, 0, len(d.segment.Attachments.Files))
	for _, f := range d.segment.Attachments.Files {
		a := attachmentFromFile(f)
		out = append(out, &a)
	}
	return out
}

// GetChapters returns all chapters for a given demuxer. The returned
// slice may be of length 0.
func (d *Demuxer) GetChapters() []*Chapter {
	if d.segment.Chapters == nil {
		return nil
	}
	var out []*Chapter
	for _, ed := range d.segment.Chapters.Editions {
		for _, atom := range ed.Atoms {
			c := chapterFromAtom(atom)
			out = append(out, &c)
		}
	}
	return out
}

// GetTags returns all tags for a given demuxer. The returned slice may be
// of length 0.
func (d *Demuxer) GetTags() []*Tag {
	if d.segment.Tags == nil {
		return nil
	}
	tags := tagsFromSegmentTags(d.segment.Tags.Tags)
	out := make([]*Tag, len(tags))
	for i := range tags {
		out[i] = &tags[i]
	}
	return out
}

// GetCues returns all cues for a given demuxer. The returned slice may be
// of length 0.
func (d *Demuxer) GetCues() []*Cue {
	if d.segment.Cues == nil {
		return nil
	}
	cues := cuesFromPoints(d.segment.Cues.Points)
	out := make([]*Cue, len(cues))
	for i := range cues {
		out[i] = &cues[i]
	}
	return out
}

// GetSegment returns the position of the segment. The eager parser
// doesn't retain byte offsets into the original stream once parsed, so
// this always returns 0; callers that need exact positions should read
// Cue.ClusterPosition instead.
func (d *Demuxer) GetSegment() uint64 { return 0 }

// GetSegmentTop returns the position of the next byte after the segment.
func (d *Demuxer) GetSegmentTop() uint64 { return 0 }

// GetCuesPos returns the position of the cues in the stream.
func (d *Demuxer) GetCuesPos() uint64 { return 0 }

// GetCuesTopPos returns the position of the byte after the end of the
// cues.
func (d *Demuxer) GetCuesTopPos() uint64 { return 0 }

// Flags accepted by Seek and SeekCueAware.
const (
	SeekToPrevKeyFrame       uint32 = 1 << iota
	SeekToPrevKeyFrameStrict
)

// Seek seeks to a given timecode.
//
// TODO: the packet queue is a flat, already-ordered slice; a real seek
// just needs to binary-search it by StartTime and, for
// SeekToPrevKeyFrame, walk backward to the nearest KF packet per track.
func (d *Demuxer) Seek(timecode uint64, flags uint32) {}

// SeekCueAware seeks to a given timecode while taking cues into account.
//
// TODO: same as Seek, but use GetCues to jump directly instead of
// scanning the packet queue.
func (d *Demuxer) SeekCueAware(timecode uint64, flags uint32, fuzzy bool) {}

// SkipToKeyframe skips to the next keyframe in a stream.
//
// TODO: advance readPos until a KF-flagged packet is found.
func (d *Demuxer) SkipToKeyframe() {}

// GetLowestQTimecode returns the lowest queued timecode in the demuxer.
func (d *Demuxer) GetLowestQTimecode() uint64 {
	if d.readPos >= len(d.packets) {
		return 0
	}
	return d.packets[d.readPos].StartTime
}

// SetTrackMask sets the demuxer's track mask; that is, it tells the
// demuxer which tracks to skip, and which to use. Any tracks with ones in
// their bit positions will be ignored.
//
// TODO: not implemented; ReadPacketMask currently ignores its mask
// argument for the same reason.
func (d *Demuxer) SetTrackMask(mask uint64) {}

// ReadPacketMask is the same as ReadPacket except with a track mask.
func (d *Demuxer) ReadPacketMask(mask uint64) (*Packet, error) {
	return d.ReadPacket()
}

// ReadPacket returns the next packet from a demuxer, or nil once the
// queue is exhausted.
func (d *Demuxer) ReadPacket() (*Packet, error) {
	if d.readPos >= len(d.packets) {
		return nil, io.EOF
	}
	p := d.packets[d.readPos]
	d.readPos++
	return &p, nil
}
