package block

import "sort"

// ClusterInput is the minimal view of a Matroska Cluster that FrameView
// needs: its own timestamp (in segment ticks) plus the already-parsed
// blocks carried by its SimpleBlock and BlockGroup children, keyed by
// track number via each Block's Header. Package matroska adapts its
// Segment.Clusters into this shape rather than block importing matroska's
// schema types directly.
type ClusterInput struct {
	Timestamp    uint64
	SimpleBlocks []Block
	GroupBlocks  []Block
}

// Frame is one decoded frame, as emitted by FrameView.
type Frame struct {
	// Timestamp is set only for the first frame of a laced block (lace
	// index 0); later frames in the same lace carry no timestamp of their
	// own, matching the wire format's single offset per block.
	Timestamp *int64
	Range     ByteRange
	block     Block
}

// Data returns the frame's bytes if the originating Block was parsed with
// keepData; otherwise nil (use FillFrameData with a Source to materialise
// it from elsewhere).
func (f Frame) Data() []byte {
	if f.block.FrameData == nil {
		return nil
	}
	return f.block.FrameData[f.Range.Offset : f.Range.Offset+f.Range.Size]
}

// FillFrameData materialises f's bytes from source (e.g. a MemorySource
// wrapping the block's own raw payload, or a StreamSource over the
// original file).
func (f Frame) FillFrameData(source Source, targetMode string) (DataRange, error) {
	return FillDataRange(KnownRange(f.Range), source, targetMode)
}

// Header returns the BlockHeader of the block this frame was laced out of.
func (f Frame) Header() BlockHeader { return f.block.Header }

type blockRef struct {
	cluster   int
	isGroup   bool
	block     Block
	timestamp int64 // cluster.Timestamp/scale + block.Header.TimestampOffset, already scaled
}

// FrameView is a read-only, ordered sequence of frames for one track across
// a run of clusters: (cluster order) · (within-cluster block order,
// SimpleBlock-before-BlockGroup on offset ties) · (within-block lace
// order). It is built eagerly from already-parsed clusters — the clusters
// this library hands FrameView are themselves the product of an eager,
// whole-segment parse, so there is nothing to gain from re-deriving the
// spec's live two-pointer merge-walk at iteration time; the merge is done
// once, up front, with the identical tie-break rule.
type FrameView struct {
	frames []blockFrame
	pos    int
}

type blockFrame struct {
	ts       int64 // the owning block's timestamp, shared by every laced frame in it
	first    bool  // true only for lace index 0 — the frame that actually carries ts
	rangeIdx int
	block    Block
}

// NewFrameView builds a FrameView over clusters for trackNumber. scale
// divides each cluster's timestamp before adding a block's timestamp
// offset, producing the emitted Frame.Timestamp.
func NewFrameView(clusters []ClusterInput, trackNumber uint64, scale uint64) *FrameView {
	if scale == 0 {
		scale = 1
	}

	var refs []blockRef
	for ci, c := range clusters {
		base := int64(c.Timestamp / scale)
		for _, b := range c.SimpleBlocks {
			if b.Header.TrackNumber != trackNumber {
				continue
			}
			refs = append(refs, blockRef{cluster: ci, isGroup: false, block: b, timestamp: base + int64(b.Header.TimestampOffset)})
		}
		for _, b := range c.GroupBlocks {
			if b.Header.TrackNumber != trackNumber {
				continue
			}
			refs = append(refs, blockRef{cluster: ci, isGroup: true, block: b, timestamp: base + int64(b.Header.TimestampOffset)})
		}
	}

	// Stable sort by (cluster, timestamp, tie-break). A stable sort over a
	// slice already grouped by cluster-append-order preserves each stream's
	// wire order for blocks that land on the exact same timestamp, and the
	// explicit isGroup comparison gives SimpleBlock priority on ties,
	// matching the spec's "SimpleBlock strictly-less, BlockGroup
	// less-or-equal" rule.
	sort.SliceStable(refs, func(i, j int) bool {
		if refs[i].cluster != refs[j].cluster {
			return refs[i].cluster < refs[j].cluster
		}
		if refs[i].timestamp != refs[j].timestamp {
			return refs[i].timestamp < refs[j].timestamp
		}
		return !refs[i].isGroup && refs[j].isGroup
	})

	var frames []blockFrame
	for _, ref := range refs {
		for i := range ref.block.FrameRanges {
			frames = append(frames, blockFrame{ts: ref.timestamp, first: i == 0, rangeIdx: i, block: ref.block})
		}
	}

	return &FrameView{frames: frames}
}

// Seek positions the view at the first frame whose owning block's
// timestamp is >= start. Since every frame in a lace shares its block's
// timestamp, this lands on lace index 0 of the first qualifying block.
func (v *FrameView) Seek(start int64) {
	idx := sort.Search(len(v.frames), func(i int) bool {
		return v.frames[i].ts >= start
	})
	v.pos = idx
}

// Next returns the next frame and advances the cursor, or ok=false when
// the view is exhausted.
func (v *FrameView) Next() (Frame, bool) {
	if v.pos >= len(v.frames) {
		return Frame{}, false
	}
	bf := v.frames[v.pos]
	v.pos++
	f := Frame{
		Range: bf.block.FrameRanges[bf.rangeIdx],
		block: bf.block,
	}
	if bf.first {
		ts := bf.ts
		f.Timestamp = &ts
	}
	return f, true
}

// Reset rewinds the view to its first frame.
func (v *FrameView) Reset() { v.pos = 0 }
