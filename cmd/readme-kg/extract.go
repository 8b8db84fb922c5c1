// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/readme-kg/internal/catalog"
	"github.com/pdiddy/readme-kg/internal/extract"
	"github.com/pdiddy/readme-kg/internal/fetch"
	"github.com/pdiddy/readme-kg/internal/secrets"
	"github.com/pdiddy/readme-kg/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "readme-kg/0.1"
	defaultOutFile   = "project_knowledge.jsonld"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Build a knowledge document from a project README",
	Long: `Extract fetches a README (from a repository URL or a local file), pulls
out the facts a user would ask about (description, install commands, code
examples, features, supported platforms, documentation links), and writes a
JSON-LD knowledge document.

With --catalog-dir the document is also stored in the local catalog.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("repo-url", "", "repository URL to fetch the README from")
	extractCmd.Flags().String("ref", "main", "branch or tag to fetch from")
	extractCmd.Flags().String("local-readme", "", "read the README from a local file instead of fetching")
	extractCmd.Flags().String("out", defaultOutFile, "output path for the JSON-LD document")
	extractCmd.Flags().String("name", "", "project name (default: last segment of --repo-url)")
	extractCmd.Flags().String("language", "Python", "programming language recorded on the document")
	extractCmd.Flags().String("license-url", "", "license name or URL recorded on the document")
	extractCmd.Flags().String("python-versions", "", "comma-separated fallback Python versions (e.g. 3.11,3.12)")
	extractCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	extractCmd.Flags().String("auth-token", "", "bearer token for raw content hosts (default: .secrets/github-token)")
	extractCmd.Flags().String("catalog-dir", "", "also store the document in this catalog directory")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	repoURL, _ := cmd.Flags().GetString("repo-url")
	localReadme, _ := cmd.Flags().GetString("local-readme")
	if repoURL == "" && localReadme == "" {
		return fmt.Errorf("provide --repo-url or --local-readme")
	}

	source, err := readmeSource(cmd, repoURL, localReadme)
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = repoSlug(repoURL)
	}
	language, _ := cmd.Flags().GetString("language")
	licenseURL, _ := cmd.Flags().GetString("license-url")
	versionsFlag, _ := cmd.Flags().GetString("python-versions")

	meta := extract.Metadata{
		Name:                name,
		ProgrammingLanguage: language,
		LicenseURL:          licenseURL,
		PythonVersions:      splitList(versionsFlag),
		RepositoryURL:       repoURL,
	}
	if repoURL != "" {
		meta.IssueTrackerURL = strings.TrimSuffix(repoURL, "/") + "/issues"
	}
	if name != "" {
		meta.DefaultInstall = "pip install " + name
	}

	doc := extract.FromReadme(source, meta, types.ExtractOptions{})

	data, err := types.MarshalJSONLD(doc)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	outPath, _ := cmd.Flags().GetString("out")
	if err := os.WriteFile(outPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	fmt.Printf("Wrote knowledge document to %s\n", outPath)

	catalogDir, _ := cmd.Flags().GetString("catalog-dir")
	if catalogDir != "" {
		store, err := catalog.NewStore(types.CatalogConfig{CatalogDir: catalogDir})
		if err != nil {
			return err
		}
		defer store.Close()

		rec, err := store.Put(context.Background(), doc, repoURL)
		if err != nil {
			return err
		}
		fmt.Printf("Stored %s in catalog (hash %.12s)\n", rec.Name, rec.ContentHash)
	}

	return nil
}

// readmeSource returns the README text, either from a local file or by
// fetching it from the repository.
func readmeSource(cmd *cobra.Command, repoURL, localReadme string) (string, error) {
	if localReadme != "" {
		data, err := os.ReadFile(localReadme)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", localReadme, err)
		}
		return string(data), nil
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	ref, _ := cmd.Flags().GetString("ref")
	authToken, _ := cmd.Flags().GetString("auth-token")

	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		AuthToken: secretDefault(secrets.GithubTokenKey, authToken),
	}

	client := &http.Client{Timeout: cfg.Timeout}
	return fetch.Fetch(context.Background(), client, repoURL, ref, cfg)
}

// repoSlug returns the last path segment of a repository URL.
func repoSlug(repoURL string) string {
	trimmed := strings.TrimSuffix(strings.TrimSuffix(repoURL, "/"), ".git")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
