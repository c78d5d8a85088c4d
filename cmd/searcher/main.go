// Command searcher answers boolean queries against a binary index.
//
// Usage:
//
//	searcher [flags] <index.bin>
//
// Queries arrive one per line on stdin (operators: ! & | and parentheses;
// adjacent terms are implicitly ANDed). Matching documents go to stdout,
// warnings and the slowest-queries table to stderr.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Nik1toZ/IR/internal/index"
	"github.com/Nik1toZ/IR/internal/searcher"
	"github.com/Nik1toZ/IR/internal/searcher/cache"
	"github.com/Nik1toZ/IR/pkg/config"
	"github.com/Nik1toZ/IR/pkg/logger"
	"github.com/Nik1toZ/IR/pkg/metrics"
	pkgredis "github.com/Nik1toZ/IR/pkg/redis"
	"github.com/Nik1toZ/IR/pkg/resilience"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	resultLimit := flag.Int("k", 0, "max printed results per query (0 = unlimited)")
	slowTable := flag.Int("top", 10, "size of the slowest-queries table")
	onlyDocID := flag.Bool("only-docid", false, "print doc ids without title/url")
	noResults := flag.Bool("no-results", false, "suppress per-document result rows")
	reportPath := flag.String("report", "", "write per-query report blocks to this file")
	reportTitles := flag.Int("topres", 50, "max titles per query in the report file")
	workers := flag.Int("workers", 1, "concurrent query evaluators")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}
	indexPath := flag.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	opts := searcher.Options{
		ResultLimit:     cfg.Searcher.ResultLimit,
		SlowTableSize:   cfg.Searcher.SlowTableSize,
		ReportTitles:    cfg.Searcher.ReportTitles,
		OnlyDocID:       cfg.Searcher.OnlyDocID,
		SuppressResults: cfg.Searcher.SuppressResults,
		Workers:         cfg.Searcher.Workers,
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "k":
			opts.ResultLimit = *resultLimit
		case "top":
			opts.SlowTableSize = *slowTable
		case "only-docid":
			opts.OnlyDocID = *onlyDocID
		case "no-results":
			opts.SuppressResults = *noResults
		case "topres":
			opts.ReportTitles = *reportTitles
		case "workers":
			opts.Workers = *workers
		}
	})

	ix, err := index.Load(indexPath)
	if err != nil {
		slog.Error("cannot load index", "path", indexPath, "error", err)
		os.Exit(1)
	}
	slog.Info("index loaded",
		"path", indexPath,
		"docs", ix.Meta.DocCount,
		"unique_terms", len(ix.Dict),
		"postings", len(ix.Postings),
	)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		m.DocsIndexed.Set(float64(ix.Meta.DocCount))
		m.UniqueTerms.Set(float64(ix.Meta.UniqueTerms))
		m.TotalTokens.Set(float64(ix.Meta.TotalTokens))
		m.BuildDuration.Set(ix.Meta.BuildMillis / 1000)
		shutdown := metrics.StartServer(cfg.Metrics.Port)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			shutdown(ctx)
		}()
	}

	var qc *cache.QueryCache
	if cfg.Searcher.CacheEnabled {
		var client *pkgredis.Client
		err := resilience.Retry(context.Background(), "redis-connect", resilience.RetryConfig{}, func() error {
			var err error
			client, err = pkgredis.NewClient(cfg.Redis)
			return err
		})
		if err != nil {
			slog.Warn("query cache unavailable, continuing without it", "error", err)
		} else {
			defer client.Close()
			qc = cache.New(client, cfg.Redis)
		}
	}

	var report *os.File
	if *reportPath != "" {
		report, err = os.Create(*reportPath)
		if err != nil {
			slog.Error("cannot open report file", "path", *reportPath, "error", err)
			os.Exit(1)
		}
		defer report.Close()
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	var reportWriter io.Writer
	if report != nil {
		bw := bufio.NewWriter(report)
		defer bw.Flush()
		reportWriter = bw
	}

	s := searcher.New(ix, opts, qc, m)
	records, err := s.Run(context.Background(), os.Stdin, out, reportWriter)
	if err != nil {
		slog.Error("query run failed", "error", err)
		os.Exit(1)
	}
	out.Flush()

	searcher.WriteSlowTable(os.Stderr, records, opts.SlowTableSize)

	if qc != nil {
		hits, misses := qc.Stats()
		slog.Info("query cache stats", "hits", hits, "misses", misses)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  searcher [flags] <index.bin>

stdin:  queries, one per line
stdout: results per doc (default: docId<TAB>Title<TAB>URL)
stderr: warnings and the top slow queries

Flags:
  -k N           max printed results per query (0 = unlimited)
  -top N         size of the slowest-queries table (default 10)
  -only-docid    print doc ids without title/url
  -no-results    suppress per-document result rows
  -report path   write per-query report blocks to this file
  -topres N      max titles per query in the report file (default 50)
  -workers N     concurrent query evaluators (default 1)
  -config path   YAML config file

Examples:
  searcher index.bin < queries.txt > out.tsv
  searcher -report report.txt index.bin < queries.txt > out.tsv
`)
}
