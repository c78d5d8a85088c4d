package index

import "sort"

// Metadata is the informational block stored in the metadata section. Only
// DocCount carries correctness weight; the rest are build statistics.
type Metadata struct {
	DocCount    uint32
	TotalTokens uint64
	UniqueTerms uint32
	AvgTermLen  float64
	BuildMillis float64
}

// DictEntry maps a term to its document frequency and the byte offset of its
// posting list inside the postings section.
type DictEntry struct {
	Term        string
	DocFreq     uint32
	PostingsOff uint64
}

// DocInfo is one forward-table row.
type DocInfo struct {
	URL   string
	Title string
}

// Index is the fully materialized, read-only in-memory index. Dict is sorted
// ascending by term; Postings is the flat concatenation of all posting
// lists in dictionary order; Docs is indexed by doc id.
type Index struct {
	Meta     Metadata
	Dict     []DictEntry
	Postings []uint32
	Docs     []DocInfo
}

// PostingsFor returns the posting list for an exact term via binary search.
// An absent term yields nil. The returned slice is a read-only view into
// the shared postings array; callers must not mutate it.
func (ix *Index) PostingsFor(term string) []uint32 {
	i := sort.Search(len(ix.Dict), func(i int) bool {
		return ix.Dict[i].Term >= term
	})
	if i >= len(ix.Dict) || ix.Dict[i].Term != term {
		return nil
	}
	e := ix.Dict[i]
	start := e.PostingsOff / 4
	return ix.Postings[start : start+uint64(e.DocFreq)]
}

// Universe returns the full doc-id set {0..DocCount-1}, the complement
// domain for NOT. It is immutable after load, so one copy is shared across
// all queries.
func (ix *Index) Universe() []uint32 {
	u := make([]uint32, ix.Meta.DocCount)
	for i := range u {
		u[i] = uint32(i)
	}
	return u
}
