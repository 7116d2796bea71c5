package bml

import "github.com/arvidsson/bml/matroska"

// Flags bits set on a Packet.
const (
	// KF marks a packet as containing a keyframe.
	KF uint32 = 1 << iota
)

// TrackInfo is all per-track information exposed to a caller, projected
// from matroska.TrackEntry into the flat shape callers expect to switch on
// (Type) and read directly (Video/Audio are zero-valued, not nil, when the
// track doesn't carry that kind of media).
type TrackInfo struct {
	Number        uint8
	UID           uint64
	Type          uint8
	Enabled       bool
	Default       bool
	Lacing        bool
	Name          string
	Language      string
	CodecID       string
	CodecPrivate  []byte
	TimecodeScale float64

	Video Video
	Audio Audio
}

// Video is the subset of a VideoTrack a caller typically needs; it mirrors
// matroska.Video's pixel/display geometry and interlace flag.
type Video struct {
	PixelWidth    uint32
	PixelHeight   uint32
	DisplayWidth  uint32
	DisplayHeight uint32
	Interlaced    bool
}

// Audio is the subset of an AudioTrack a caller typically needs.
type Audio struct {
	Channels           uint8
	BitDepth           uint8
	SamplingFreq       float64
	OutputSamplingFreq float64
}

// Packet is one decoded frame ready for a codec, with its track, timing,
// and file position.
type Packet struct {
	Track     uint8
	StartTime uint64
	EndTime   uint64
	FilePos   uint64
	Data      []byte
	Flags     uint32
}

// SegmentInfo is the Demuxer-level projection of matroska.Info.
type SegmentInfo struct {
	UID            [16]byte
	Filename       string
	PrevUID        [16]byte
	PrevFilename   string
	NextUID        [16]byte
	NextFilename   string
	TimecodeScale  uint64
	Duration       uint64
	DateUTC        int64
	DateUTCValid   bool
	Title          string
	MuxingApp      string
	WritingApp     string
}

// Attachment is one embedded file.
type Attachment struct {
	UID         uint64
	Name        string
	Description string
	MimeType    string
	Data        []byte
}

// Chapter is one (possibly nested) chapter point.
type Chapter struct {
	UID       uint64
	StringUID string
	Start     uint64 // nanoseconds
	End       uint64 // nanoseconds
	Hidden    bool
	Enabled   bool
	Display   string
	Language  string
	Children  []Chapter
}

// Cue is one seek-index entry for a single track.
type Cue struct {
	Time            uint64
	Track           uint64
	ClusterPosition uint64
	BlockNumber     uint64
}

// Tag is one name/value metadata pair, flattened out of a Targets scope's
// SimpleTag list; Nested SimpleTags are not recursed into (see DESIGN.md).
type Tag struct {
	TrackUIDs []uint64
	Name      string
	Language  string
	Value     string
	Binary    []byte
}

func trackInfoFromEntry(e matroska.TrackEntry) TrackInfo {
	t := TrackInfo{
		Number:        uint8(e.Number),
		UID:           e.UID,
		Type:          uint8(e.Type),
		Enabled:       e.FlagEnabled,
		Default:       e.FlagDefault,
		Lacing:        e.FlagLacing,
		Name:          e.Name,
		Language:      e.Language,
		CodecID:       e.CodecID,
		CodecPrivate:  e.CodecPriv,
		TimecodeScale: 1.0,
	}
	if e.Video != nil {
		t.Video = Video{
			PixelWidth:    uint32(e.Video.PixelWidth),
			PixelHeight:   uint32(e.Video.PixelHeight),
			DisplayWidth:  uint32(e.Video.DisplayWidth),
			DisplayHeight: uint32(e.Video.DisplayHeight),
			Interlaced:    e.Video.FlagInterlaced,
		}
		if t.Video.DisplayWidth == 0 {
			t.Video.DisplayWidth = t.Video.PixelWidth
		}
		if t.Video.DisplayHeight == 0 {
			t.Video.DisplayHeight = t.Video.PixelHeight
		}
	}
	if e.Audio != nil {
		t.Audio = Audio{
			Channels:           uint8(e.Audio.Channels),
			BitDepth:           uint8(e.Audio.BitDepth),
			SamplingFreq:       e.Audio.SamplingFrequency,
			OutputSamplingFreq: e.Audio.OutputSamplingFrequency,
		}
		if t.Audio.Channels == 0 {
			t.Audio.Channels = 1
		}
		if t.Audio.OutputSamplingFreq == 0 {
			t.Audio.OutputSamplingFreq = t.Audio.SamplingFreq
		}
	}
	return t
}

func segmentInfoFromInfo(info matroska.Info) SegmentInfo {
	si := SegmentInfo{
		Filename:      info.SegmentFilename,
		PrevFilename:  info.PrevFilename,
		NextFilename:  info.NextFilename,
		TimecodeScale: info.TimestampScale,
		Duration:      uint64(info.Duration),
		Title:         info.Title,
		MuxingApp:     info.MuxingApp,
		WritingApp:    info.WritingApp,
	}
	copy(si.UID[:], info.SegmentUID)
	copy(si.PrevUID[:], info.PrevUID)
	copy(si.NextUID[:], info.NextUID)
	if !info.DateUTC.IsZero() {
		si.DateUTC = info.DateUTC.UnixNano()
		si.DateUTCValid = true
	}
	return si
}

func attachmentFromFile(f matroska.AttachedFile) Attachment {
	return Attachment{
		UID:         f.UID,
		Name:        f.Name,
		Description: f.Description,
		MimeType:    f.MimeType,
		Data:        f.Data,
	}
}

func chapterFromAtom(a matroska.ChapterAtom) Chapter {
	c := Chapter{
		UID:       a.UID,
		StringUID: a.StringUID,
		Start:     uint64(a.TimeStart),
		End:       uint64(a.TimeEnd),
		Hidden:    a.FlagHidden,
		Enabled:   a.FlagEnabled,
	}
	if len(a.Displays) > 0 {
		c.Display = a.Displays[0].String
		c.Language = a.Displays[0].Language
	}
	for _, child := range a.Children {
		c.Children = append(c.Children, chapterFromAtom(child))
	}
	return c
}

func cuesFromPoints(points []matroska.CuePoint) []Cue {
	var out []Cue
	for _, p := range points {
		for _, pos := range p.Positions {
			out = append(out, Cue{
				Time:            p.Time,
				Track:           pos.Track,
				ClusterPosition: pos.ClusterPosition,
				BlockNumber:     pos.BlockNumber,
			})
		}
	}
	return out
}

func tagsFromSegmentTags(tags []matroska.Tag) []Tag {
	var out []Tag
	for _, t := range tags {
		for _, s := range t.Simple {
			out = append(out, Tag{
				TrackUIDs: t.Targets.TrackUIDs,
				Name:      s.Name,
				Language:  s.Language,
				Value:     s.String,
				Binary:    s.Binary,
			})
		}
	}
	return out
}
