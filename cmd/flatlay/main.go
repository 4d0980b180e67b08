package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flatlay",
	Short: "Inspect flat-pattern engine session dumps",
	Long: `flatlay is a command-line companion to the flatlay debug panel.
It loads the engine's session dumps and reports boundary outlines,
solved placements, and the unfold debug trace without starting the GUI.`,
	Version: "1.0.0",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
