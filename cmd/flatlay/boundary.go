package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chazu/flatlay/pkg/boundary"
	"github.com/chazu/flatlay/pkg/flatmesh"
	"github.com/chazu/flatlay/pkg/outline"
)

var (
	boundaryEntry string
	boundaryFace  int
	boundaryRaw   bool
)

var boundaryCmd = &cobra.Command{
	Use:   "boundary [session.json]",
	Short: "Print the flat boundary outline of one face",
	Long: `Extract the boundary of a face from a flattened patch, merge colinear
runs, and print the resulting outline edges.`,
	Args: cobra.ExactArgs(1),
	Run:  runBoundary,
}

func init() {
	boundaryCmd.Flags().StringVarP(&boundaryEntry, "entry", "e", "", "session entry name (required)")
	boundaryCmd.Flags().IntVarP(&boundaryFace, "face", "f", 0, "face id to extract")
	boundaryCmd.Flags().BoolVar(&boundaryRaw, "raw", false, "skip colinear merging")
	_ = boundaryCmd.MarkFlagRequired("entry")
	rootCmd.AddCommand(boundaryCmd)
}

func runBoundary(cmd *cobra.Command, args []string) {
	session, err := flatmesh.LoadSession(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading session: %v\n", err)
		os.Exit(1)
	}
	mesh := session.Entries[boundaryEntry]
	if mesh == nil {
		fmt.Fprintf(os.Stderr, "Error: no entry %q in session (have: %s)\n",
			boundaryEntry, strings.Join(entryNames(session), ", "))
		os.Exit(1)
	}

	raw, _ := boundary.ExtractFlat(mesh, boundaryFace)
	edges := outline.FromBoundary(raw, outline.ProjectXY)
	if !boundaryRaw {
		edges = outline.MergeColinear(edges)
	}

	fmt.Printf("Entry: %s  Face: %d\n", boundaryEntry, boundaryFace)
	fmt.Printf("Outline edges: %d\n\n", len(edges))
	for i, e := range edges {
		fmt.Printf("  [%d] (%.4f, %.4f) -> (%.4f, %.4f)  length %.4f\n",
			i, e.PA.X, e.PA.Y, e.PB.X, e.PB.Y, e.Length)
	}
	if c, ok := outline.Centroid(edges); ok {
		fmt.Printf("\nCentroid: (%.4f, %.4f)\n", c.X, c.Y)
	}
}

func entryNames(s *flatmesh.Session) []string {
	names := make([]string, 0, len(s.Entries))
	for name := range s.Entries {
		names = append(names, name)
	}
	return names
}
