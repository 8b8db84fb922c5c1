// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/readme-kg/internal/catalog"
	"github.com/pdiddy/readme-kg/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the local document catalog (store, list, show, search, export)",
	Long: `Catalog manages a local SQLite store of knowledge documents with an FTS5
index over their retrieval entries. Use subcommands to store a document,
list or show stored documents, search across them, or export.`,
}

// --- store subcommand ---

var catalogStoreCmd = &cobra.Command{
	Use:   "store [files...]",
	Short: "Store JSON-LD knowledge documents in the catalog",
	Long: `Store reads one or more JSON-LD knowledge documents and stores them in
the catalog, replacing any previous version of the same document wholesale.`,
	RunE: runCatalogStore,
}

func runCatalogStore(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more JSON-LD files")
	}

	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	sourceURL, _ := cmd.Flags().GetString("source-url")

	var failed int
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed  %s: %v\n", path, err)
			failed++
			continue
		}
		doc, err := types.UnmarshalJSONLD(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed  %s: %v\n", path, err)
			failed++
			continue
		}
		rec, err := store.Put(context.Background(), doc, sourceURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed  %s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Printf("stored  %s (hash %.12s)\n", rec.Name, rec.ContentHash)
	}

	if failed > 0 {
		return fmt.Errorf("%d document(s) failed", failed)
	}
	return nil
}

// --- list subcommand ---

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	RunE:  runCatalogList,
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(context.Background())
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("Catalog is empty.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-30s  %-14s  %-20s  %s\n", "Name", "Hash", "Fetched", "Source")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, rec := range records {
		fmt.Fprintf(os.Stdout, "%-30s  %-14.12s  %-20s  %s\n",
			rec.Name, rec.ContentHash, rec.FetchedAt.Format("2006-01-02 15:04:05"), rec.SourceURL)
	}
	fmt.Fprintf(os.Stdout, "\n%d documents\n", len(records))
	return nil
}

// --- show subcommand ---

var catalogShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Print a stored document as JSON-LD",
	RunE:  runCatalogShow,
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide a document name")
	}

	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	doc, _, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	data, err := types.MarshalJSONLD(doc)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// --- search subcommand ---

var catalogSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search across stored documents",
	Long: `Search runs an FTS5 full-text query over the retrieval entries of every
stored document, optionally restricted by document name or entry label.`,
	RunE: runCatalogSearch,
}

func runCatalogSearch(cmd *cobra.Command, args []string) error {
	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	name, _ := cmd.Flags().GetString("doc")
	label, _ := cmd.Flags().GetString("label")
	limit, _ := cmd.Flags().GetInt("limit")

	opts := catalog.SearchOptions{
		Name:       name,
		Label:      label,
		MaxResults: limit,
	}
	if len(args) > 0 {
		opts.Query = strings.Join(args, " ")
	}
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --doc, or --label")
	}

	results, err := store.Search(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatCatalogSearchOutput(results, jsonOutput)
}

func formatCatalogSearchOutput(results []catalog.SearchResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-24s  %-24s  %s\n", "Rank", "Document", "Label", "Text")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for i, r := range results {
		text := strings.ReplaceAll(r.Text, "\n", " ")
		if len(text) > 50 {
			text = text[:47] + "..."
		}
		label := r.Label
		if len(label) > 24 {
			label = label[:21] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-24s  %-24s  %s\n", i+1, r.DocName, label, text)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to YAML or JSON",
	Long: `Export writes the full catalog (or one document selected with --doc) to
<catalog-dir>/index/export.yaml or export.json.`,
	RunE: runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	name, _ := cmd.Flags().GetString("doc")

	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	catalogDir, _ := cmd.Flags().GetString("catalog-dir")

	switch format {
	case "yaml", "":
		if err := store.ExportYAML(context.Background(), name); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/index/export.yaml\n", catalogDir)
	case "json":
		if err := store.ExportJSON(context.Background(), name); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/index/export.json\n", catalogDir)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	return nil
}

// --- delete subcommand ---

var catalogDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Remove a document from the catalog",
	RunE:  runCatalogDelete,
}

func runCatalogDelete(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide a document name")
	}

	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(context.Background(), args[0]); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", args[0])
	return nil
}

// --- shared helpers ---

func openCatalog(cmd *cobra.Command) (*catalog.Store, error) {
	catalogDir, _ := cmd.Flags().GetString("catalog-dir")
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return catalog.NewStore(types.CatalogConfig{
		CatalogDir: catalogDir,
		MaxResults: maxResults,
	})
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	catalogCmd.PersistentFlags().String("catalog-dir", "catalog", "base directory for the catalog (contains index/)")
	catalogCmd.PersistentFlags().Int("max-results", 20, "maximum number of search results")

	// Store flags.
	catalogStoreCmd.Flags().String("source-url", "", "source URL recorded on stored documents")

	// Search flags.
	catalogSearchCmd.Flags().String("doc", "", "restrict to one document name")
	catalogSearchCmd.Flags().String("label", "", "filter by entry label (purpose, install, section:usage, ...)")
	catalogSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	catalogSearchCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	catalogExportCmd.Flags().String("doc", "", "export a single document by name")

	// Wire subcommands.
	catalogCmd.AddCommand(catalogStoreCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogSearchCmd)
	catalogCmd.AddCommand(catalogExportCmd)
	catalogCmd.AddCommand(catalogDeleteCmd)

	rootCmd.AddCommand(catalogCmd)
}
