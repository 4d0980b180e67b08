package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chazu/flatlay/pkg/flatmesh"
	"github.com/chazu/flatlay/pkg/viz"
)

var stepsVerbose bool

var stepsCmd = &cobra.Command{
	Use:   "steps [session.json]",
	Short: "List the unfold debug trace",
	Long: `Print the session's ordered unfold steps: labels, drawn paths, and
which edges each step adds relative to the previous one.`,
	Args: cobra.ExactArgs(1),
	Run:  runSteps,
}

func init() {
	stepsCmd.Flags().BoolVarP(&stepsVerbose, "verbose", "v", false, "include per-step visualization stats")
	rootCmd.AddCommand(stepsCmd)
}

func runSteps(cmd *cobra.Command, args []string) {
	session, err := flatmesh.LoadSession(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading session: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Steps: %d\n\n", len(session.Steps))
	for i := range session.Steps {
		step := &session.Steps[i]
		var prev *flatmesh.Step
		if i > 0 {
			prev = &session.Steps[i-1]
		}

		added := addedLabels(step, prev)
		fmt.Printf("[%d] %s\n", i, step.Label)
		fmt.Printf("    paths: %d", len(step.Paths))
		if len(added) > 0 {
			fmt.Printf("  new edges: %s", strings.Join(added, ", "))
		}
		fmt.Println()

		if stepsVerbose {
			v := viz.BuildStep(step, prev, session.Entries)
			fmt.Printf("    viz: %d meshes, %d edge lines, %d centerlines, %d curves\n",
				len(v.ColoredMeshes), len(v.EdgeLines), len(v.Centerlines), len(v.Curves))
		}
	}
}

// addedLabels returns the edge labels drawn by step but not by prev.
func addedLabels(step, prev *flatmesh.Step) []string {
	var before map[string]bool
	if prev != nil {
		before = prev.EdgeLabels()
	}
	var added []string
	for label := range step.EdgeLabels() {
		if !before[label] {
			added = append(added, label)
		}
	}
	sort.Strings(added)
	return added
}
