package matroska

import (
	"time"

	"github.com/arvidsson/bml/block"
)

// EBMLHeader is the EBML element every Matroska/WebM file opens with.
type EBMLHeader struct {
	Version            uint64
	ReadVersion        uint64
	MaxIDLength        uint64
	MaxSizeLength      uint64
	DocType            string
	DocTypeVersion     uint64
	DocTypeReadVersion uint64
}

// SeekHead is the optional top-level index of other top-level elements.
type SeekHead struct {
	Seeks []Seek
}

// Seek is one SeekHead entry: another top-level element's ID and its byte
// offset relative to the Segment's first child.
type Seek struct {
	ID       []byte
	Position uint64
}

// Info carries the Segment's metadata: timestamp scale, duration, titles,
// and the linkage UIDs to prior/next segments in a multi-file sequence.
type Info struct {
	SegmentUID      []byte
	SegmentFilename string
	PrevUID         []byte
	PrevFilename    string
	NextUID         []byte
	NextFilename    string
	SegmentFamily   []byte
	TimestampScale  uint64
	Duration        float64
	DateUTC         time.Time
	Title           string
	MuxingApp       string
	WritingApp      string
}

// Tracks is the Segment's track table.
type Tracks struct {
	Entries []TrackEntry
}

// TrackEntry describes one audio, video, or subtitle track.
type TrackEntry struct {
	Number      uint64
	UID         uint64
	Type        uint64
	FlagEnabled bool
	FlagDefault bool
	FlagForced  bool
	FlagLacing  bool
	Name        string
	Language    string
	CodecID     string
	CodecPriv   []byte
	CodecName   string
	CodecDelay  uint64
	SeekPreRoll uint64

	Video *Video
	Audio *Audio

	ContentEncodings []ContentEncoding
}

// Video holds the VideoTrack-specific fields, including the supplemented
// Colour and Projection sub-trees.
type Video struct {
	FlagInterlaced bool
	PixelWidth     uint64
	PixelHeight    uint64
	DisplayWidth   uint64
	DisplayHeight  uint64
	DisplayUnit    uint64
	Colour         *Colour
	Projection     *Projection
}

// Colour carries HDR/wide-gamut colour metadata (matroska.org's Colour
// element), including its MasteringMetadata child.
type Colour struct {
	MatrixCoefficients    uint64
	BitsPerChannel        uint64
	ChromaSubsamplingHorz uint64
	ChromaSubsamplingVert uint64
	CbSubsamplingHorz     uint64
	CbSubsamplingVert     uint64
	ChromaSitingHorz      uint64
	ChromaSitingVert      uint64
	Range                 uint64
	TransferCharacteristics uint64
	Primaries             uint64
	MaxCLL                uint64
	MaxFALL               uint64
	Mastering             *MasteringMetadata
}

// MasteringMetadata is the mastering-display colour-volume metadata used by
// HDR content.
type MasteringMetadata struct {
	PrimaryRChromaticityX   float64
	PrimaryRChromaticityY   float64
	PrimaryGChromaticityX   float64
	PrimaryGChromaticityY   float64
	PrimaryBChromaticityX   float64
	PrimaryBChromaticityY   float64
	WhitePointChromaticityX float64
	WhitePointChromaticityY float64
	LuminanceMax            float64
	LuminanceMin            float64
}

// Projection describes spherical/360 video projection metadata.
type Projection struct {
	Type      uint64
	Private   []byte
	PoseYaw   float64
	PosePitch float64
	PoseRoll  float64
}

// Audio holds the AudioTrack-specific fields.
type Audio struct {
	SamplingFrequency       float64
	OutputSamplingFrequency float64
	Channels                uint64
	BitDepth                uint64
}

// ContentEncoding is one entry of a track's ContentEncodings pipeline
// (applied in ContentEncodingOrder, compression then encryption per the
// published schema).
type ContentEncoding struct {
	Order       uint64
	Scope       uint64
	Type        uint64
	Compression *ContentCompression
	Encryption  *ContentEncryption
}

// ContentCompression names the compression algorithm a track's frames (or
// their private codec data) were run through before muxing.
type ContentCompression struct {
	Algo     uint64
	Settings []byte
}

// ContentEncryption names the encryption scheme; payload decryption itself
// is out of scope (no key material is modeled beyond the key ID).
type ContentEncryption struct {
	Algo  uint64
	KeyID []byte
}

// RawBlock is a SimpleBlock or BlockGroup.Block payload as captured by the
// parser. When ReadOptions.ReadMediaData is true, Bytes holds the whole
// element payload and Parsed is the zero value; Segment.ViewFrames parses
// it the usual way (block.ParseBlock(Bytes, true)). When ReadMediaData is
// false, Bytes is nil and Parsed already carries the decoded BlockHeader
// and lacing layout, with FrameRanges expressed as absolute offsets into
// the file the Cluster came from — ready for block.FillFrameData against a
// Source over that same file, without ever having copied frame bytes into
// memory (see DESIGN.md).
type RawBlock struct {
	Bytes  []byte
	Parsed block.Block
}

// Cluster is a Segment's time-local grouping of blocks, keyed by Timestamp
// (in Info.TimestampScale units) with the actual frame payloads carried
// in SimpleBlocks and BlockGroups.
type Cluster struct {
	Timestamp    uint64
	Position     uint64
	PrevSize     uint64
	SimpleBlocks []RawBlock
	BlockGroups  []BlockGroup
}

// BlockGroup wraps a Block with its duration, reference timing, and
// optional extra block data. P/B-frame reference classification
// (ReferenceBlock's sign) is recorded but not interpreted (see DESIGN.md).
type BlockGroup struct {
	Block             RawBlock
	BlockDuration     uint64
	ReferencePriority uint64
	ReferenceBlocks   []int64
	CodecState        []byte
	DiscardPadding    int64
	Additions         []BlockMore
}

// BlockMore is one BlockAdditions entry.
type BlockMore struct {
	AddID      uint64
	Additional []byte
}

// Cues is the Segment's seek index, mapping cue times to cluster/block
// positions per track.
type Cues struct {
	Points []CuePoint
}

// CuePoint is one timestamp's index entry, fanned out per track via
// CueTrackPositions.
type CuePoint struct {
	Time      uint64
	Positions []CueTrackPositions
}

// CueTrackPositions locates, for one track, the cluster (and optionally
// in-cluster block) containing the frame active at the CuePoint's time.
type CueTrackPositions struct {
	Track             uint64
	ClusterPosition   uint64
	RelativePosition  uint64
	Duration          uint64
	BlockNumber       uint64
	References        []CueReference
}

// CueReference cross-references another CuePoint's time (used by cue
// points that describe a range rather than a single instant).
type CueReference struct {
	RefTime uint64
}

// Chapters is the Segment's chapter/edition tree.
type Chapters struct {
	Editions []EditionEntry
}

// EditionEntry is one alternative chapter sequence.
type EditionEntry struct {
	UID         uint64
	FlagHidden  bool
	FlagDefault bool
	FlagOrdered bool
	Atoms       []ChapterAtom
}

// ChapterAtom is one chapter point, possibly nested (a chapter within a
// chapter) and possibly spanning into a different segment.
type ChapterAtom struct {
	UID               uint64
	StringUID         string
	TimeStart         time.Duration
	TimeEnd           time.Duration
	FlagHidden        bool
	FlagEnabled       bool
	SegmentUID        []byte
	SegmentEditionUID uint64
	Tracks            []uint64
	Displays          []ChapterDisplay
	Process           []ChapProcess
	Children          []ChapterAtom
}

// ChapterDisplay is one language/country rendering of a chapter's title.
type ChapterDisplay struct {
	String   string
	Language string
	Country  string
}

// ChapProcess describes a chapter-activation scripting hook (DVD-menu-style
// navigation commands).
type ChapProcess struct {
	CodecID  uint64
	Private  []byte
	Commands []ChapProcessCommand
}

// ChapProcessCommand is one timed command within a ChapProcess.
type ChapProcessCommand struct {
	Time uint64
	Data []byte
}

// Tags is the Segment's free-form metadata tag tree.
type Tags struct {
	Tags []Tag
}

// Tag is one Targets scope plus its SimpleTag list.
type Tag struct {
	Targets Targets
	Simple  []SimpleTag
}

// Targets scopes a Tag to specific tracks, editions, chapters, or
// attachments (empty slices mean "applies to the whole segment").
type Targets struct {
	TypeValue     uint64
	Type          string
	TrackUIDs     []uint64
	EditionUIDs   []uint64
	ChapterUIDs   []uint64
	AttachmentUIDs []uint64
}

// SimpleTag is one name/value pair, recursively nestable per the published
// schema (a SimpleTag may itself contain SimpleTag children).
type SimpleTag struct {
	Name     string
	Language string
	Default  bool
	String   string
	Binary   []byte
	Nested   []SimpleTag
}

// Attachments is the Segment's embedded-file table.
type Attachments struct {
	Files []AttachedFile
}

// AttachedFile is one embedded file (cover art, fonts, subtitles...).
type AttachedFile struct {
	Description string
	Name        string
	MimeType    string
	Data        []byte
	UID         uint64
}

// Segment is the parsed top-level container: everything but the EBML
// header.
type Segment struct {
	Info        Info
	Tracks      Tracks
	SeekHead    *SeekHead
	Cues        *Cues
	Chapters    *Chapters
	Tags        *Tags
	Attachments *Attachments
	Clusters    []Cluster
}
