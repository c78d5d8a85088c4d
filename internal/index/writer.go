package index

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	irerrors "github.com/Nik1toZ/IR/pkg/errors"
)

// Write serializes ix into path. It writes to a .tmp file first and renames
// on success, backpatching the header's section count and table offset once
// all sections are on disk.
func Write(path string, ix *Index) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating index file: %w", err)
	}
	defer f.Close()

	w := &fileWriter{f: f}

	w.bytes(Magic[:])
	w.u32(FormatVersion)
	w.u32(0) // section count, backpatched
	w.u64(0) // section table offset, backpatched

	var sections []SectionInfo
	mark := func(t SectionType) {
		sections = append(sections, SectionInfo{Type: t, Offset: w.off})
	}
	seal := func() {
		s := &sections[len(sections)-1]
		s.Size = w.off - s.Offset
	}

	mark(SectionMetadata)
	w.u32(ix.Meta.DocCount)
	w.u64(ix.Meta.TotalTokens)
	w.u32(ix.Meta.UniqueTerms)
	w.f64(ix.Meta.AvgTermLen)
	w.f64(ix.Meta.BuildMillis)
	seal()

	mark(SectionDictionary)
	w.u32(uint32(len(ix.Dict)))
	for _, e := range ix.Dict {
		if len(e.Term) > MaxTermLen {
			return irerrors.Newf(irerrors.ErrTermTooLong, path, "%.32s...", e.Term)
		}
		w.u16(uint16(len(e.Term)))
		w.bytes([]byte(e.Term))
		w.u32(e.DocFreq)
		w.u64(e.PostingsOff)
	}
	seal()

	mark(SectionPostings)
	if len(ix.Postings) > 0 {
		blob := make([]byte, 4*len(ix.Postings))
		for i, d := range ix.Postings {
			binary.LittleEndian.PutUint32(blob[4*i:], d)
		}
		w.bytes(blob)
	}
	seal()

	mark(SectionForward)
	w.u32(uint32(len(ix.Docs)))
	for _, d := range ix.Docs {
		w.u32(uint32(len(d.URL)))
		w.bytes([]byte(d.URL))
		w.u32(uint32(len(d.Title)))
		w.bytes([]byte(d.Title))
	}
	seal()

	tableOff := w.off
	for _, s := range sections {
		w.u32(uint32(s.Type))
		w.u32(s.Flags)
		w.u64(s.Offset)
		w.u64(s.Size)
	}
	if w.err != nil {
		return fmt.Errorf("writing index file: %w", w.err)
	}

	patch := make([]byte, 12)
	binary.LittleEndian.PutUint32(patch[0:4], uint32(len(sections)))
	binary.LittleEndian.PutUint64(patch[4:12], tableOff)
	if _, err := f.WriteAt(patch, 8); err != nil {
		return fmt.Errorf("updating header: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing index file: %w", err)
	}
	f.Close()
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming index file: %w", err)
	}
	return nil
}

// fileWriter tracks the current byte offset and the first write error so the
// section loop stays free of error plumbing.
type fileWriter struct {
	f   io.Writer
	off uint64
	err error
	buf [8]byte
}

func (w *fileWriter) bytes(b []byte) {
	if w.err != nil {
		return
	}
	n, err := w.f.Write(b)
	w.off += uint64(n)
	w.err = err
}

func (w *fileWriter) u16(v uint16) {
	binary.LittleEndian.PutUint16(w.buf[:2], v)
	w.bytes(w.buf[:2])
}

func (w *fileWriter) u32(v uint32) {
	binary.LittleEndian.PutUint32(w.buf[:4], v)
	w.bytes(w.buf[:4])
}

func (w *fileWriter) u64(v uint64) {
	binary.LittleEndian.PutUint64(w.buf[:8], v)
	w.bytes(w.buf[:8])
}

func (w *fileWriter) f64(v float64) {
	w.u64(math.Float64bits(v))
}
