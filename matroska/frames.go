package matroska

import "github.com/arvidsson/bml/block"

// ViewFrames builds a block.FrameView over every frame belonging to
// trackNumber across the segment's clusters, in cluster order. The
// returned view's timestamps are in the segment's own tick units (multiply
// by Info.TimestampScale for nanoseconds, per the track/segment/
// Matroska clock chain in §3).
func (s Segment) ViewFrames(trackNumber uint64) (*block.FrameView, error) {
	inputs := make([]block.ClusterInput, len(s.Clusters))
	for i, c := range s.Clusters {
		ci := block.ClusterInput{Timestamp: c.Timestamp}

		for _, raw := range c.SimpleBlocks {
			blk, err := resolveRawBlock(raw)
			if err != nil {
				return nil, err
			}
			ci.SimpleBlocks = append(ci.SimpleBlocks, blk)
		}
		for _, bg := range c.BlockGroups {
			blk, err := resolveRawBlock(bg.Block)
			if err != nil {
				return nil, err
			}
			ci.GroupBlocks = append(ci.GroupBlocks, blk)
		}

		inputs[i] = ci
	}

	return block.NewFrameView(inputs, trackNumber, 1), nil
}

// resolveRawBlock turns a RawBlock into a block.Block. When the parser
// materialised the payload (Bytes set), it is decoded the usual way; when
// the parser instead streamed past the frame bytes (ReadOptions.ReadMediaData
// false), Parsed already carries the decoded header and FrameRanges, with no
// FrameData until a caller fills it in via block.FillFrameData.
func resolveRawBlock(rb RawBlock) (block.Block, error) {
	if rb.Bytes != nil {
		return block.ParseBlock(rb.Bytes, true)
	}
	return rb.Parsed, nil
}
