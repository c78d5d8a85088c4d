// Package builder turns a token stream into an in-memory index ready for
// serialization. Input lines hold a non-negative doc id, whitespace, and a
// token; malformed lines are skipped. Terms are lower-cased ASCII. Pairs
// are stable-sorted by (term, doc) and grouped into deduplicated posting
// runs, so each term's posting list comes out strictly increasing.
package builder

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Nik1toZ/IR/internal/docmeta"
	"github.com/Nik1toZ/IR/internal/index"
	irerrors "github.com/Nik1toZ/IR/pkg/errors"
)

type tokenPair struct {
	term string
	doc  uint32
}

// Stats summarizes a finished build.
type Stats struct {
	DocCount     uint32
	TotalTokens  uint64
	UniqueTerms  uint32
	AvgTermLen   float64
	BuildMillis  float64
	SkippedLines uint64
}

// Build consumes the token stream and the positional URL list (may be
// empty) and produces the index. Document count is max(doc id)+1; docs
// beyond the URL list get an empty URL and a placeholder title.
func Build(r io.Reader, urls []string) (*index.Index, Stats, error) {
	start := time.Now()
	logger := slog.Default().With("component", "builder")

	var (
		pairs      []tokenPair
		maxDoc     uint32
		stats      Stats
		sumTermLen uint64
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		doc, term, ok := parseTokenLine(scanner.Text())
		if !ok {
			stats.SkippedLines++
			continue
		}
		term = toLowerASCII(term)
		pairs = append(pairs, tokenPair{term: term, doc: doc})
		if doc > maxDoc {
			maxDoc = doc
		}
		stats.TotalTokens++
		sumTermLen += uint64(len(term))
	}
	if err := scanner.Err(); err != nil {
		return nil, Stats{}, fmt.Errorf("reading token stream: %w", err)
	}
	if stats.SkippedLines > 0 {
		logger.Debug("skipped malformed token lines", "skipped_lines", stats.SkippedLines)
	}
	if len(pairs) == 0 {
		return nil, Stats{}, irerrors.New(irerrors.ErrEmptyInput, "token stream", "")
	}

	stats.DocCount = maxDoc + 1

	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].term != pairs[j].term {
			return pairs[i].term < pairs[j].term
		}
		return pairs[i].doc < pairs[j].doc
	})

	ix := &index.Index{
		Postings: make([]uint32, 0, len(pairs)),
	}
	for i := 0; i < len(pairs); {
		term := pairs[i].term
		off := uint64(len(ix.Postings)) * 4

		var df uint32
		lastDoc := uint32(0)
		haveLast := false
		for ; i < len(pairs) && pairs[i].term == term; i++ {
			d := pairs[i].doc
			if haveLast && d == lastDoc {
				continue
			}
			ix.Postings = append(ix.Postings, d)
			lastDoc = d
			haveLast = true
			df++
		}
		ix.Dict = append(ix.Dict, index.DictEntry{Term: term, DocFreq: df, PostingsOff: off})
	}

	stats.UniqueTerms = uint32(len(ix.Dict))
	if stats.TotalTokens > 0 {
		stats.AvgTermLen = float64(sumTermLen) / float64(stats.TotalTokens)
	}

	ix.Docs = docmeta.Table(stats.DocCount, urls)

	stats.BuildMillis = float64(time.Since(start)) / float64(time.Millisecond)
	ix.Meta = index.Metadata{
		DocCount:    stats.DocCount,
		TotalTokens: stats.TotalTokens,
		UniqueTerms: stats.UniqueTerms,
		AvgTermLen:  stats.AvgTermLen,
		BuildMillis: stats.BuildMillis,
	}
	return ix, stats, nil
}

// parseTokenLine extracts the doc id and the first token from one line.
// Content after the token is ignored.
func parseTokenLine(line string) (uint32, string, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, "", false
	}
	doc, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		return 0, "", false
	}
	return uint32(doc), fields[1], true
}

func toLowerASCII(s string) string {
	hasUpper := false
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return s
	}
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c - 'A' + 'a'
		}
	}
	return string(b)
}
