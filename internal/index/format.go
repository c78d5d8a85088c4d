// Package index implements the sectioned binary index file: a fixed header,
// a section table, and four sections (metadata, dictionary, postings,
// forward table) that may appear anywhere in the file. All integers are
// little-endian. The layout is an interoperability contract and must be
// reproduced byte-exact.
package index

// Magic identifies a valid index file.
var Magic = [4]byte{'I', 'R', 'I', 'X'}

const (
	// FormatVersion is the single supported format version.
	FormatVersion uint32 = 1

	// HeaderSize covers magic(4) + version(4) + section count(4) +
	// section table offset(8).
	HeaderSize = 20

	// MaxTermLen is the widest term the 16-bit length prefix can carry.
	MaxTermLen = 65535
)

// SectionType tags an entry in the section table.
type SectionType uint32

const (
	SectionDictionary SectionType = 1
	SectionPostings   SectionType = 2
	SectionForward    SectionType = 3
	SectionMetadata   SectionType = 4
)

func (t SectionType) String() string {
	switch t {
	case SectionDictionary:
		return "dictionary"
	case SectionPostings:
		return "postings"
	case SectionForward:
		return "forward"
	case SectionMetadata:
		return "metadata"
	}
	return "unknown"
}

// SectionInfo is one section-table entry.
type SectionInfo struct {
	Type   SectionType
	Flags  uint32
	Offset uint64
	Size   uint64
}

// sectionEntrySize is the serialized size of one SectionInfo:
// type(4) + flags(4) + offset(8) + size(8).
const sectionEntrySize = 24
