package docmeta

import (
	"context"
	"fmt"

	"github.com/Nik1toZ/IR/pkg/postgres"
)

// FetchURLs reads normalized document URLs from the documents table in id
// order, yielding the same positional list the blob scanner produces.
func FetchURLs(ctx context.Context, client *postgres.Client) ([]string, error) {
	rows, err := client.DB.QueryContext(ctx, `SELECT url_norm FROM documents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying document urls: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scanning document url: %w", err)
		}
		urls = append(urls, url)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document urls: %w", err)
	}
	return urls, nil
}
