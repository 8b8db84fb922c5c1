// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/readme-kg/internal/graph"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Render a knowledge document as Graphviz DOT",
	Long: `Graph projects a knowledge document onto a directed graph (the project
as the root, every extracted fact hanging off it) and writes Graphviz DOT.
Render it with: dot -Tsvg project_knowledge.dot -o project_knowledge.svg`,
	RunE: runGraph,
}

func init() {
	graphCmd.Flags().String("knowledge", defaultOutFile, "path to the JSON-LD knowledge document")
	graphCmd.Flags().String("catalog-dir", "", "load the document from this catalog directory instead")
	graphCmd.Flags().String("name", "", "document name in the catalog")
	graphCmd.Flags().String("out", "project_knowledge.dot", "output path for the DOT file")

	rootCmd.AddCommand(graphCmd)
}

func runGraph(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(cmd)
	if err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("out")
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer f.Close()

	if err := graph.WriteDOT(f, graph.Build(doc)); err != nil {
		return err
	}
	fmt.Printf("Wrote DOT to %s\n", outPath)
	return nil
}
