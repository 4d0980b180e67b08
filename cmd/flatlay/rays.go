package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/chazu/flatlay/pkg/flatmesh"
)

var raysCmd = &cobra.Command{
	Use:   "rays [session.json]",
	Short: "Summarize the engine's diagnostic ray casts",
	Args:  cobra.ExactArgs(1),
	Run:   runRays,
}

func init() {
	rootCmd.AddCommand(raysCmd)
}

func runRays(cmd *cobra.Command, args []string) {
	session, err := flatmesh.LoadSession(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading session: %v\n", err)
		os.Exit(1)
	}

	names := entryNames(session)
	sort.Strings(names)
	for _, name := range names {
		s := session.Entries[name].SummarizeRays()
		fmt.Printf("%s: %d rays, %d hit original, %d missed, %d hit offset surface\n",
			name, s.Total, s.HitOriginal, s.MissedOriginal, s.HitOffset)
	}
	if session.Offset != nil {
		fmt.Printf("\nOffset info: %s\n", session.Offset)
	}
}
