// Command indexer builds a binary inverted index from a token stream.
//
// Usage:
//
//	indexer [flags] <tokens.txt> <index.bin> [docs.json]
//
// Token-stream lines hold "<doc-id> <term>"; malformed lines are skipped.
// The optional docs.json blob supplies per-document URLs; with -docmeta-pg
// they come from Postgres instead.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Nik1toZ/IR/internal/builder"
	"github.com/Nik1toZ/IR/internal/docmeta"
	"github.com/Nik1toZ/IR/internal/index"
	"github.com/Nik1toZ/IR/pkg/config"
	"github.com/Nik1toZ/IR/pkg/logger"
	"github.com/Nik1toZ/IR/pkg/postgres"
	"github.com/Nik1toZ/IR/pkg/resilience"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	logLevel := flag.String("log-level", "", "override logging level")
	usePostgres := flag.Bool("docmeta-pg", false, "load document URLs from Postgres instead of the JSON blob")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 2 {
		usage()
		os.Exit(1)
	}
	tokensPath := flag.Arg(0)
	outPath := flag.Arg(1)
	blobPath := ""
	if flag.NArg() >= 3 {
		blobPath = flag.Arg(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	urls, err := loadURLs(cfg, *usePostgres, blobPath)
	if err != nil {
		slog.Error("failed to load document metadata", "error", err)
		os.Exit(1)
	}
	if (blobPath != "" || *usePostgres) && len(urls) == 0 {
		slog.Warn("no document URLs found, placeholders will be used")
	}

	in, err := os.Open(tokensPath)
	if err != nil {
		slog.Error("cannot open tokens file", "path", tokensPath, "error", err)
		os.Exit(1)
	}
	defer in.Close()

	ix, stats, err := builder.Build(in, urls)
	if err != nil {
		slog.Error("index build failed", "error", err)
		os.Exit(1)
	}
	if err := index.Write(outPath, ix); err != nil {
		slog.Error("cannot write index file", "path", outPath, "error", err)
		os.Exit(1)
	}

	tokensPerMs := 0.0
	if stats.BuildMillis > 0 {
		tokensPerMs = float64(stats.TotalTokens) / stats.BuildMillis
	}
	slog.Info("index written",
		"path", outPath,
		"docs", stats.DocCount,
		"total_tokens", stats.TotalTokens,
		"unique_terms", stats.UniqueTerms,
		"avg_term_len_bytes", stats.AvgTermLen,
		"build_ms", stats.BuildMillis,
		"tokens_per_ms", tokensPerMs,
	)
}

func loadURLs(cfg *config.Config, usePostgres bool, blobPath string) ([]string, error) {
	if usePostgres || (cfg.Indexer.MetadataSource == "postgres" && blobPath == "") {
		var client *postgres.Client
		err := resilience.Retry(context.Background(), "postgres-connect", resilience.RetryConfig{}, func() error {
			var err error
			client, err = postgres.New(cfg.Postgres)
			return err
		})
		if err != nil {
			return nil, err
		}
		defer client.Close()
		return docmeta.FetchURLs(context.Background(), client)
	}
	if blobPath == "" {
		return nil, nil
	}
	blob, err := os.ReadFile(blobPath)
	if err != nil {
		return nil, fmt.Errorf("reading metadata blob %s: %w", blobPath, err)
	}
	return docmeta.ExtractURLs(blob), nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  indexer [flags] <tokens.txt> <index.bin> [docs.json]

Flags:
  -config path     YAML config file
  -log-level lvl   override logging level
  -docmeta-pg      load document URLs from Postgres

Examples:
  indexer tokens.txt index.bin documents.json
  indexer tokens.txt index.bin
`)
}
