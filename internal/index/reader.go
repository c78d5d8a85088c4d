package index

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	irerrors "github.com/Nik1toZ/IR/pkg/errors"
)

// Load reads and validates an index file, materializing the dictionary,
// postings array, and forward table in memory. Every validation failure is
// a startup error wrapping a pkg/errors sentinel: a corrupt file cannot be
// partially served.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}

	r := &byteReader{data: data}

	var magic [4]byte
	r.bytes(magic[:])
	if r.err != nil || magic != Magic {
		return nil, irerrors.Newf(irerrors.ErrBadMagic, path, "expected %q", Magic)
	}
	version := r.u32()
	if version != FormatVersion {
		return nil, irerrors.Newf(irerrors.ErrUnsupportedVersion, path, "got %d, expected %d", version, FormatVersion)
	}
	sectionCount := r.u32()
	tableOff := r.u64()
	if r.err != nil {
		return nil, irerrors.New(irerrors.ErrBadMagic, path, "truncated header")
	}

	r.seek(tableOff)
	sections := make([]SectionInfo, 0, sectionCount)
	for i := uint32(0); i < sectionCount; i++ {
		s := SectionInfo{
			Type:   SectionType(r.u32()),
			Flags:  r.u32(),
			Offset: r.u64(),
			Size:   r.u64(),
		}
		sections = append(sections, s)
	}
	if r.err != nil {
		return nil, irerrors.New(irerrors.ErrSectionMissing, path, "truncated section table")
	}

	meta, err := findSection(sections, SectionMetadata, path)
	if err != nil {
		return nil, err
	}
	dictS, err := findSection(sections, SectionDictionary, path)
	if err != nil {
		return nil, err
	}
	postS, err := findSection(sections, SectionPostings, path)
	if err != nil {
		return nil, err
	}
	fwdS, err := findSection(sections, SectionForward, path)
	if err != nil {
		return nil, err
	}

	ix := &Index{}

	r.seek(meta.Offset)
	ix.Meta.DocCount = r.u32()
	ix.Meta.TotalTokens = r.u64()
	ix.Meta.UniqueTerms = r.u32()
	ix.Meta.AvgTermLen = r.f64()
	ix.Meta.BuildMillis = r.f64()

	r.seek(dictS.Offset)
	termCount := r.u32()
	ix.Dict = make([]DictEntry, 0, termCount)
	for i := uint32(0); i < termCount && r.err == nil; i++ {
		termLen := r.u16()
		term := make([]byte, termLen)
		r.bytes(term)
		df := r.u32()
		off := r.u64()
		ix.Dict = append(ix.Dict, DictEntry{Term: string(term), DocFreq: df, PostingsOff: off})
	}
	if r.err != nil {
		return nil, irerrors.New(irerrors.ErrSectionMissing, path, "truncated dictionary section")
	}

	if postS.Size%4 != 0 {
		return nil, irerrors.Newf(irerrors.ErrMisaligned, path, "postings section size %d", postS.Size)
	}
	if postS.Offset+postS.Size > uint64(len(data)) {
		return nil, irerrors.New(irerrors.ErrSectionMissing, path, "postings section out of bounds")
	}
	r.seek(postS.Offset)
	blob := make([]byte, postS.Size)
	r.bytes(blob)
	if r.err != nil {
		return nil, irerrors.New(irerrors.ErrSectionMissing, path, "truncated postings section")
	}
	ix.Postings = make([]uint32, postS.Size/4)
	for i := range ix.Postings {
		ix.Postings[i] = binary.LittleEndian.Uint32(blob[4*i:])
	}

	r.seek(fwdS.Offset)
	fwdCount := r.u32()
	if r.err == nil && fwdCount != ix.Meta.DocCount {
		return nil, irerrors.Newf(irerrors.ErrForwardMismatch, path, "forward=%d meta=%d", fwdCount, ix.Meta.DocCount)
	}
	ix.Docs = make([]DocInfo, 0, fwdCount)
	for i := uint32(0); i < fwdCount && r.err == nil; i++ {
		url := r.lenString()
		title := r.lenString()
		ix.Docs = append(ix.Docs, DocInfo{URL: url, Title: title})
	}
	if r.err != nil {
		return nil, irerrors.New(irerrors.ErrSectionMissing, path, "truncated forward section")
	}

	if err := validate(ix, path); err != nil {
		return nil, err
	}
	return ix, nil
}

// validate enforces the post-load invariants: dictionary sorted ascending by
// term (the precondition for binary-search lookup), every posting slice
// aligned and in range, and every doc id below the document count.
func validate(ix *Index, path string) error {
	for i := 1; i < len(ix.Dict); i++ {
		if ix.Dict[i-1].Term > ix.Dict[i].Term {
			return irerrors.Newf(irerrors.ErrDictUnsorted, path, "%q > %q", ix.Dict[i-1].Term, ix.Dict[i].Term)
		}
	}
	for _, e := range ix.Dict {
		if e.PostingsOff%4 != 0 {
			return irerrors.Newf(irerrors.ErrPostingsRange, path, "term %q: offset %d not aligned", e.Term, e.PostingsOff)
		}
		start := e.PostingsOff / 4
		if start+uint64(e.DocFreq) > uint64(len(ix.Postings)) {
			return irerrors.Newf(irerrors.ErrPostingsRange, path, "term %q: offset/df out of range", e.Term)
		}
		for _, d := range ix.Postings[start : start+uint64(e.DocFreq)] {
			if d >= ix.Meta.DocCount {
				return irerrors.Newf(irerrors.ErrPostingsRange, path, "term %q: doc id %d >= doc count %d", e.Term, d, ix.Meta.DocCount)
			}
		}
	}
	return nil
}

func findSection(sections []SectionInfo, t SectionType, path string) (SectionInfo, error) {
	for _, s := range sections {
		if s.Type == t {
			return s, nil
		}
	}
	return SectionInfo{}, irerrors.Newf(irerrors.ErrSectionMissing, path, "%s section (type=%d)", t, uint32(t))
}

// byteReader is a bounds-checked cursor over the whole file; the first
// overrun sticks in err.
type byteReader struct {
	data []byte
	pos  uint64
	err  error
}

func (r *byteReader) seek(off uint64) {
	if r.err != nil {
		return
	}
	if off > uint64(len(r.data)) {
		r.err = fmt.Errorf("seek past end of file: %d", off)
		return
	}
	r.pos = off
}

func (r *byteReader) bytes(dst []byte) {
	if r.err != nil {
		return
	}
	if r.pos+uint64(len(dst)) > uint64(len(r.data)) {
		r.err = fmt.Errorf("short read at offset %d", r.pos)
		return
	}
	copy(dst, r.data[r.pos:])
	r.pos += uint64(len(dst))
}

func (r *byteReader) u16() uint16 {
	var b [2]byte
	r.bytes(b[:])
	return binary.LittleEndian.Uint16(b[:])
}

func (r *byteReader) u32() uint32 {
	var b [4]byte
	r.bytes(b[:])
	return binary.LittleEndian.Uint32(b[:])
}

func (r *byteReader) u64() uint64 {
	var b [8]byte
	r.bytes(b[:])
	return binary.LittleEndian.Uint64(b[:])
}

func (r *byteReader) f64() float64 {
	return math.Float64frombits(r.u64())
}

func (r *byteReader) lenString() string {
	n := r.u32()
	if r.err != nil {
		return ""
	}
	if uint64(n) > uint64(len(r.data))-r.pos {
		r.err = fmt.Errorf("short read at offset %d", r.pos)
		return ""
	}
	b := make([]byte, n)
	r.bytes(b)
	if r.err != nil {
		return ""
	}
	return string(b)
}
