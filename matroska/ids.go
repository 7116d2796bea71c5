// Package matroska implements the Matroska/WebM schema (RFC-adjacent,
// matroska.org's published element list) on top of the generic ebml
// package: master/leaf structs, their parse and serialize methods, and the
// Cluster/Block-level terminator sets unknown-size framing needs.
package matroska

import "github.com/arvidsson/bml/ebml"

// Element IDs, grouped by schema area. Values match the published Matroska
// element list (matroska.org/technical/elements.html); comments carry only
// what isn't obvious from the field name.
const (
	IDEBMLHeader             ebml.ElementID = 0x1A45DFA3
	IDEBMLVersion            ebml.ElementID = 0x4286
	IDEBMLReadVersion        ebml.ElementID = 0x42F7
	IDEBMLMaxIDLength        ebml.ElementID = 0x42F2
	IDEBMLMaxSizeLength      ebml.ElementID = 0x42F3
	IDEBMLDocType            ebml.ElementID = 0x4282
	IDEBMLDocTypeVersion     ebml.ElementID = 0x4287
	IDEBMLDocTypeReadVersion ebml.ElementID = 0x4285
	IDEBMLDocTypeExtension   ebml.ElementID = 0x4281
	IDEBMLDocTypeExtVersion  ebml.ElementID = 0x4284

	IDSegment ebml.ElementID = 0x18538067

	IDSeekHead ebml.ElementID = 0x114D9B74
	IDSeek     ebml.ElementID = 0x4DBB
	IDSeekID   ebml.ElementID = 0x53AB
	IDSeekPos  ebml.ElementID = 0x53AC

	IDSegmentInfo     ebml.ElementID = 0x1549A966
	IDSegmentUID      ebml.ElementID = 0x73A4
	IDSegmentFilename ebml.ElementID = 0x7384
	IDPrevUID         ebml.ElementID = 0x3CB923
	IDPrevFilename    ebml.ElementID = 0x3C83AB
	IDNextUID         ebml.ElementID = 0x3EB923
	IDNextFilename    ebml.ElementID = 0x3E83BB
	IDSegmentFamily   ebml.ElementID = 0x4444
	IDTimestampScale  ebml.ElementID = 0x2AD7B1
	IDDuration        ebml.ElementID = 0x4489
	IDDateUTC         ebml.ElementID = 0x4461
	IDTitle           ebml.ElementID = 0x7BA9
	IDMuxingApp       ebml.ElementID = 0x4D80
	IDWritingApp      ebml.ElementID = 0x5741

	IDTracks     ebml.ElementID = 0x1654AE6B
	IDTrackEntry ebml.ElementID = 0xAE
	IDTrackNum   ebml.ElementID = 0xD7
	IDTrackUID   ebml.ElementID = 0x73C5
	IDTrackType  ebml.ElementID = 0x83
	IDFlagEnabled ebml.ElementID = 0xB9
	IDFlagDefault ebml.ElementID = 0x88
	IDFlagForced  ebml.ElementID = 0x55AA
	IDFlagLacing  ebml.ElementID = 0x9C
	IDTrackName  ebml.ElementID = 0x536E
	IDLanguage   ebml.ElementID = 0x22B59C
	IDCodecID    ebml.ElementID = 0x86
	IDCodecPriv  ebml.ElementID = 0x63A2
	IDCodecName  ebml.ElementID = 0x258688
	IDCodecDelay ebml.ElementID = 0x56AA
	IDSeekPreRoll ebml.ElementID = 0x56BB
	IDVideo      ebml.ElementID = 0xE0
	IDAudio      ebml.ElementID = 0xE1
	IDContentEncodings ebml.ElementID = 0x6D80

	IDFlagInterlaced ebml.ElementID = 0x9A
	IDPixelWidth     ebml.ElementID = 0xB0
	IDPixelHeight    ebml.ElementID = 0xBA
	IDDisplayWidth   ebml.ElementID = 0x54B0
	IDDisplayHeight  ebml.ElementID = 0x54BA
	IDDisplayUnit    ebml.ElementID = 0x54B2
	IDColour         ebml.ElementID = 0x55B0
	IDProjection     ebml.ElementID = 0x7670

	IDMatrixCoefficients      ebml.ElementID = 0x55B1
	IDBitsPerChannel          ebml.ElementID = 0x55B2
	IDChromaSubsamplingHorz   ebml.ElementID = 0x55B3
	IDChromaSubsamplingVert   ebml.ElementID = 0x55B4
	IDCbSubsamplingHorz       ebml.ElementID = 0x55B5
	IDCbSubsamplingVert       ebml.ElementID = 0x55B6
	IDChromaSitingHorz        ebml.ElementID = 0x55B7
	IDChromaSitingVert        ebml.ElementID = 0x55B8
	IDRange                   ebml.ElementID = 0x55B9
	IDTransferCharacteristics ebml.ElementID = 0x55BA
	IDPrimaries               ebml.ElementID = 0x55BB
	IDMaxCLL                  ebml.ElementID = 0x55BC
	IDMaxFALL                 ebml.ElementID = 0x55BD
	IDMasteringMetadata       ebml.ElementID = 0x55D0
	IDPrimaryRChromaticityX   ebml.ElementID = 0x55D1
	IDPrimaryRChromaticityY   ebml.ElementID = 0x55D2
	IDPrimaryGChromaticityX   ebml.ElementID = 0x55D3
	IDPrimaryGChromaticityY   ebml.ElementID = 0x55D4
	IDPrimaryBChromaticityX   ebml.ElementID = 0x55D5
	IDPrimaryBChromaticityY   ebml.ElementID = 0x55D6
	IDWhitePointChromaticityX ebml.ElementID = 0x55D7
	IDWhitePointChromaticityY ebml.ElementID = 0x55D8
	IDLuminanceMax            ebml.ElementID = 0x55D9
	IDLuminanceMin            ebml.ElementID = 0x55DA

	IDProjectionType     ebml.ElementID = 0x7671
	IDProjectionPrivate  ebml.ElementID = 0x7672
	IDProjectionPoseYaw  ebml.ElementID = 0x7673
	IDProjectionPosePitch ebml.ElementID = 0x7674
	IDProjectionPoseRoll ebml.ElementID = 0x7675

	IDSamplingFrequency       ebml.ElementID = 0xB5
	IDOutputSamplingFrequency ebml.ElementID = 0x78B5
	IDChannels                ebml.ElementID = 0x9F
	IDBitDepth                ebml.ElementID = 0x6264

	IDContentEncoding      ebml.ElementID = 0x6240
	IDContentEncodingOrder ebml.ElementID = 0x5031
	IDContentEncodingScope ebml.ElementID = 0x5032
	IDContentEncodingType  ebml.ElementID = 0x5033
	IDContentCompression   ebml.ElementID = 0x5034
	IDContentCompAlgo      ebml.ElementID = 0x4254
	IDContentCompSettings  ebml.ElementID = 0x4255
	IDContentEncryption    ebml.ElementID = 0x5035
	IDContentEncAlgo       ebml.ElementID = 0x47E1
	IDContentEncKeyID      ebml.ElementID = 0x47E2

	IDCluster     ebml.ElementID = 0x1F43B675
	IDTimestamp   ebml.ElementID = 0xE7
	IDPosition    ebml.ElementID = 0xA7
	IDPrevSize    ebml.ElementID = 0xAB
	IDSimpleBlock ebml.ElementID = 0xA3
	IDBlockGroup  ebml.ElementID = 0xA0
	IDBlock       ebml.ElementID = 0xA1

	IDBlockAdditions   ebml.ElementID = 0x75A1
	IDBlockMore        ebml.ElementID = 0xA6
	IDBlockAddID       ebml.ElementID = 0xEE
	IDBlockAdditional  ebml.ElementID = 0xA5
	IDBlockDuration    ebml.ElementID = 0x9B
	IDReferencePriority ebml.ElementID = 0xFA
	IDReferenceBlock   ebml.ElementID = 0xFB
	IDCodecState       ebml.ElementID = 0xA4
	IDDiscardPadding   ebml.ElementID = 0x75A2

	IDCues              ebml.ElementID = 0x1C53BB6B
	IDCuePoint          ebml.ElementID = 0xBB
	IDCueTime           ebml.ElementID = 0xB3
	IDCueTrackPositions ebml.ElementID = 0xB7
	IDCueTrack          ebml.ElementID = 0xF7
	IDCueClusterPosition ebml.ElementID = 0xF1
	IDCueRelativePosition ebml.ElementID = 0xF0
	IDCueDuration       ebml.ElementID = 0xB2
	IDCueBlockNumber    ebml.ElementID = 0x5378
	IDCueReference      ebml.ElementID = 0xDB
	IDCueRefTime        ebml.ElementID = 0x96

	IDChapters                ebml.ElementID = 0x1043A770
	IDEditionEntry            ebml.ElementID = 0x45B9
	IDEditionUID              ebml.ElementID = 0x45BC
	IDEditionFlagHidden       ebml.ElementID = 0x45BD
	IDEditionFlagDefault      ebml.ElementID = 0x45DB
	IDEditionFlagOrdered      ebml.ElementID = 0x45DD
	IDChapterAtom             ebml.ElementID = 0xB6
	IDChapterUID              ebml.ElementID = 0x73C4
	IDChapterStringUID        ebml.ElementID = 0x5654
	IDChapterTimeStart        ebml.ElementID = 0x91
	IDChapterTimeEnd          ebml.ElementID = 0x92
	IDChapterFlagHidden       ebml.ElementID = 0x98
	IDChapterFlagEnabled      ebml.ElementID = 0x4598
	IDChapterSegmentUID       ebml.ElementID = 0x6E67
	IDChapterSegmentEditionUID ebml.ElementID = 0x6EBC
	IDChapterTrack            ebml.ElementID = 0x8F
	IDChapterTrackUID         ebml.ElementID = 0x89
	IDChapterDisplay          ebml.ElementID = 0x80
	IDChapString              ebml.ElementID = 0x85
	IDChapLanguage            ebml.ElementID = 0x437C
	IDChapCountry             ebml.ElementID = 0x437E
	IDChapProcess             ebml.ElementID = 0x6944
	IDChapProcessCodecID      ebml.ElementID = 0x6955
	IDChapProcessPrivate      ebml.ElementID = 0x450D
	IDChapProcessCommand      ebml.ElementID = 0x6911
	IDChapProcessTime         ebml.ElementID = 0x6922
	IDChapProcessData         ebml.ElementID = 0x6933

	IDTags              ebml.ElementID = 0x1254C367
	IDTag               ebml.ElementID = 0x7373
	IDTargets           ebml.ElementID = 0x63C0
	IDTargetTypeValue   ebml.ElementID = 0x68CA
	IDTargetType        ebml.ElementID = 0x63CA
	IDTagTrackUID       ebml.ElementID = 0x63C5
	IDTagEditionUID     ebml.ElementID = 0x63C9
	IDTagChapterUID     ebml.ElementID = 0x63C4
	IDTagAttachmentUID  ebml.ElementID = 0x63C6
	IDSimpleTag         ebml.ElementID = 0x67C8
	IDTagName           ebml.ElementID = 0x45A3
	IDTagLanguage       ebml.ElementID = 0x447A
	IDTagDefault        ebml.ElementID = 0x4484
	IDTagString         ebml.ElementID = 0x4487
	IDTagBinary         ebml.ElementID = 0x4485

	IDAttachments      ebml.ElementID = 0x1941A469
	IDAttachedFile     ebml.ElementID = 0x61A7
	IDFileDescription  ebml.ElementID = 0x467E
	IDFileName         ebml.ElementID = 0x466E
	IDFileMimeType     ebml.ElementID = 0x4660
	IDFileData         ebml.ElementID = 0x465C
	IDFileUID          ebml.ElementID = 0x46AE
)

// segmentTerminators and clusterTerminators are the unknown-size
// termination sets named in spec §4.I: every element that can legally
// follow a Segment or Cluster whose size field reads UNKNOWN_SIZE.
var segmentTerminators = map[ebml.ElementID]struct{}{
	IDEBMLHeader: {},
	IDSegment:    {},
}

var clusterTerminators = map[ebml.ElementID]struct{}{
	IDEBMLHeader:  {},
	IDSegment:     {},
	IDSeekHead:    {},
	IDSegmentInfo: {},
	IDTracks:      {},
	IDCues:        {},
	IDChapters:    {},
	IDCluster:     {},
	IDAttachments: {},
	IDTags:        {},
}
