// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"strings"
)

// SearchOptions holds parameters for catalog full-text queries.
type SearchOptions struct {
	// Query is the FTS5 full-text search string.
	Query string

	// Name restricts results to one document.
	Name string

	// Label filters by entry label ("purpose", "install", "section:usage", ...).
	Label string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (o SearchOptions) IsEmpty() bool {
	return o.Query == "" && o.Name == "" && o.Label == ""
}

// SearchResult is one matching retrieval entry with its document name.
type SearchResult struct {
	DocName string `json:"doc_name" yaml:"doc_name"`
	Label   string `json:"label" yaml:"label"`
	Text    string `json:"text" yaml:"text"`
}

// Search queries the catalog with optional full-text search and structured
// filters. Results are ranked by relevance for full-text queries or sorted
// by document name and label otherwise. On builds without FTS5 a text
// query matches entries containing every query token as a substring.
func (s *Store) Search(ctx context.Context, opts SearchOptions) ([]SearchResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != "" && s.fts
	)

	if useFTS {
		qb.WriteString(
			`SELECT d.name, e.label, e.text
			FROM entries_fts
			JOIN entries e ON e.rowid = entries_fts.rowid
			JOIN documents d ON e.doc_id = d.id
			WHERE entries_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT d.name, e.label, e.text
			FROM entries e
			JOIN documents d ON e.doc_id = d.id
			WHERE 1=1`)
		for _, token := range strings.Fields(opts.Query) {
			qb.WriteString(` AND e.text LIKE ?`)
			args = append(args, "%"+token+"%")
		}
	}

	if opts.Name != "" {
		qb.WriteString(` AND d.name = ?`)
		args = append(args, opts.Name)
	}

	if opts.Label != "" {
		qb.WriteString(` AND e.label = ?`)
		args = append(args, opts.Label)
	}

	if useFTS {
		qb.WriteString(` ORDER BY entries_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY d.name, e.label`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.DocName, &r.Label, &r.Text); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, r)
	}

	return results, rows.Err()
}
