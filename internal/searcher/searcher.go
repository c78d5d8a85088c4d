// Package searcher runs boolean queries against a loaded index: one query
// per input line, timed evaluation, optional result printing and report
// blocks, and a slowest-N table for surfacing performance outliers.
package searcher

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Nik1toZ/IR/internal/index"
	"github.com/Nik1toZ/IR/internal/query"
	"github.com/Nik1toZ/IR/internal/searcher/cache"
	"github.com/Nik1toZ/IR/pkg/metrics"
)

// Options control per-query output and the slow-query report.
type Options struct {
	ResultLimit     int // max printed results per query, 0 = unlimited
	SlowTableSize   int // rows in the slowest-queries table
	ReportTitles    int // max title/URL rows per query in the report file
	OnlyDocID       bool
	SuppressResults bool
	Workers         int // concurrent query evaluators, <=1 = sequential
}

// Record is the timing record kept per input query for the slow table.
type Record struct {
	LineNo  int
	Query   string
	Hits    int
	Elapsed time.Duration
	Err     string
}

type Searcher struct {
	ix       *index.Index
	universe []uint32
	opts     Options
	cache    *cache.QueryCache // nil when disabled
	metrics  *metrics.Metrics  // nil when disabled
	logger   *slog.Logger
}

// New creates a Searcher over an immutable loaded index. The universe for
// NOT is built once and shared across all queries.
func New(ix *index.Index, opts Options, qc *cache.QueryCache, m *metrics.Metrics) *Searcher {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Searcher{
		ix:       ix,
		universe: ix.Universe(),
		opts:     opts,
		cache:    qc,
		metrics:  m,
		logger:   slog.Default().With("component", "searcher"),
	}
}

// Run reads queries line by line from in, writes result rows to out and
// per-query blocks to report (may be nil), and returns the timing records.
// Blank lines are skipped entirely. Per-query parse/eval errors are
// reported and counted as zero hits; they never abort the run.
func (s *Searcher) Run(ctx context.Context, in io.Reader, out, report io.Writer) ([]Record, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if s.opts.Workers > 1 {
		return s.runParallel(ctx, scanner, out, report)
	}

	var records []Record
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, resText, repText := s.runOne(ctx, lineNo, line)
		records = append(records, rec)
		if report != nil {
			fmt.Fprint(report, repText)
		}
		fmt.Fprint(out, resText)
	}
	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("reading queries: %w", err)
	}
	return records, nil
}

// runParallel evaluates queries concurrently over the immutable index.
// Queries are independent units of work; output and report blocks are
// emitted in input order after all lines complete, and the timing records
// are assembled once at the end.
func (s *Searcher) runParallel(ctx context.Context, scanner *bufio.Scanner, out, report io.Writer) ([]Record, error) {
	type job struct {
		lineNo int
		line   string
	}
	var jobs []job
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		jobs = append(jobs, job{lineNo: lineNo, line: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading queries: %w", err)
	}

	type outcome struct {
		rec     Record
		resText string
		repText string
	}
	outcomes := make([]outcome, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			rec, resText, repText := s.runOne(gctx, j.lineNo, j.line)
			outcomes[i] = outcome{rec: rec, resText: resText, repText: repText}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(outcomes))
	for _, o := range outcomes {
		records = append(records, o.rec)
		if report != nil {
			fmt.Fprint(report, o.repText)
		}
		fmt.Fprint(out, o.resText)
	}
	return records, nil
}

// runOne evaluates a single query and renders its stdout rows and report
// block. Evaluation time covers parse and eval (plus the cache round trip
// when enabled), not output rendering.
func (s *Searcher) runOne(ctx context.Context, lineNo int, line string) (Record, string, string) {
	start := time.Now()

	var (
		res         []uint32
		err         error
		cacheStatus = "disabled"
	)
	if s.cache != nil {
		canonical, cerr := query.CanonicalKey(line)
		if cerr != nil {
			// Uncacheable line; evaluation decides whether it is an error
			// (term-free lines short-circuit to empty even when unparsable).
			res, err = query.Run(s.ix, s.universe, line)
		} else {
			var hit bool
			res, hit, err = s.cache.GetOrCompute(ctx, canonical, func() ([]uint32, error) {
				return query.Run(s.ix, s.universe, line)
			})
			if hit {
				cacheStatus = "hit"
				if s.metrics != nil {
					s.metrics.CacheHitsTotal.Inc()
				}
			} else {
				cacheStatus = "miss"
				if s.metrics != nil {
					s.metrics.CacheMissesTotal.Inc()
				}
			}
		}
	} else {
		res, err = query.Run(s.ix, s.universe, line)
	}

	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.QueryLatency.WithLabelValues(cacheStatus).Observe(elapsed.Seconds())
	}

	rec := Record{LineNo: lineNo, Query: line, Elapsed: elapsed}

	if err != nil {
		rec.Err = err.Error()
		s.logger.Warn("parse/eval error", "line", lineNo, "query", line, "error", err)
		if s.metrics != nil {
			s.metrics.QueriesTotal.WithLabelValues("parse_error").Inc()
		}
		repText := fmt.Sprintf("QUERY\t%s\nHITS\t0\nERROR\t%s\n\n", line, err)
		return rec, "", repText
	}

	rec.Hits = len(res)
	if s.metrics != nil {
		outcome := "ok"
		if len(res) == 0 {
			outcome = "zero_result"
		}
		s.metrics.QueriesTotal.WithLabelValues(outcome).Inc()
		s.metrics.QueryHits.Observe(float64(len(res)))
	}

	var repText string
	var rep strings.Builder
	fmt.Fprintf(&rep, "QUERY\t%s\nHITS\t%d\n", line, len(res))
	written := 0
	for _, docID := range res {
		if written >= s.opts.ReportTitles {
			break
		}
		if int(docID) >= len(s.ix.Docs) {
			continue
		}
		di := s.ix.Docs[docID]
		fmt.Fprintf(&rep, "%s\t%s\n", di.Title, di.URL)
		written++
	}
	rep.WriteString("\n")
	repText = rep.String()

	var resText string
	if !s.opts.SuppressResults {
		var b strings.Builder
		printed := 0
		for _, docID := range res {
			if s.opts.ResultLimit > 0 && printed >= s.opts.ResultLimit {
				break
			}
			if int(docID) >= len(s.ix.Docs) {
				continue
			}
			if s.opts.OnlyDocID {
				fmt.Fprintf(&b, "%d\n", docID)
			} else {
				di := s.ix.Docs[docID]
				fmt.Fprintf(&b, "%d\t%s\t%s\n", docID, di.Title, di.URL)
			}
			printed++
		}
		resText = b.String()
	}

	return rec, resText, repText
}

// WriteSlowTable prints the top-N slowest queries to w, slowest first.
func WriteSlowTable(w io.Writer, records []Record, topN int) {
	if len(records) == 0 || topN <= 0 {
		return
	}
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Elapsed > sorted[j].Elapsed
	})
	n := topN
	if n > len(sorted) {
		n = len(sorted)
	}
	fmt.Fprintf(w, "---- TOP %d slowest queries ----\n", n)
	fmt.Fprintf(w, "rank\tms\tline\thits\tquery\n")
	for i := 0; i < n; i++ {
		r := sorted[i]
		ms := float64(r.Elapsed) / float64(time.Millisecond)
		fmt.Fprintf(w, "%d\t%.3f\t%d\t%d\t%s\n", i+1, ms, r.LineNo, r.Hits, r.Query)
	}
	fmt.Fprintf(w, "--------------------------------\n")
}
