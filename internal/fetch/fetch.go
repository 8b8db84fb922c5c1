// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch acquires README text from raw content hosts. It accepts
// either a full raw file URL or a repository raw base URL plus a ref, and
// tries the common README filename variants in a fixed order.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/readme-kg/internal/httputil"
	"github.com/pdiddy/readme-kg/pkg/types"
)

// candidateNames are the README filename variants tried against a raw base
// URL, in order.
var candidateNames = []string{
	"README.md",
	"README.MD",
	"Readme.md",
	"readme.md",
	"README.rst",
	"docs/README.md",
	"README",
}

const defaultMinBodyBytes = 120

// Fetch retrieves README text. When baseOrURL names a file directly
// (a .md/.rst/.txt suffix or a "/readme" path segment) it is fetched
// as-is, with a ref substitution attempt when the URL hardcodes /main/
// but another ref was requested. Otherwise the candidate filenames are
// tried against <baseOrURL>/<ref>/. A response counts as a README only
// when it is HTTP 200 and longer than cfg.MinBodyBytes. The error lists
// every attempted candidate.
func Fetch(ctx context.Context, client *http.Client, baseOrURL, ref string, cfg types.FetchConfig) (string, error) {
	minBody := cfg.MinBodyBytes
	if minBody <= 0 {
		minBody = defaultMinBodyBytes
	}

	lower := strings.ToLower(baseOrURL)
	if strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".rst") ||
		strings.HasSuffix(lower, ".txt") || strings.Contains(lower, "/readme") {
		urls := []string{baseOrURL}
		if ref != "" && ref != "main" && strings.Contains(baseOrURL, "/main/") {
			urls = append(urls, strings.Replace(baseOrURL, "/main/", "/"+ref+"/", 1))
		}
		for _, u := range urls {
			if text, err := fetchOne(ctx, client, u, minBody, cfg); err == nil {
				return text, nil
			}
		}
		return "", fmt.Errorf("could not fetch README from %s", baseOrURL)
	}

	if ref == "" {
		ref = "main"
	}

	var attempts []string
	for _, name := range candidateNames {
		u := strings.TrimRight(baseOrURL, "/") + "/" + ref + "/" + name
		text, err := fetchOne(ctx, client, u, minBody, cfg)
		if err == nil {
			return text, nil
		}
		attempts = append(attempts, fmt.Sprintf("%s: %v", name, err))
	}
	return "", fmt.Errorf("could not fetch README from %s/%s: tried %s",
		baseOrURL, ref, strings.Join(attempts, "; "))
}

// fetchOne performs a single GET, retrying rate limits, and accepts only
// 200 responses with a plausible README body.
func fetchOne(ctx context.Context, client *http.Client, url string, minBody int, cfg types.FetchConfig) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "text/plain, text/markdown, */*")
	if cfg.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.AuthToken)
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return "", fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}
	if len(body) <= minBody {
		return "", fmt.Errorf("body too short (%d bytes)", len(body))
	}
	return string(body), nil
}
