package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/pebbling-ai/pebbling-site/internal/web"
)

var backgroundCmd = &cobra.Command{
	Use:   "background",
	Short: "Writes a snapshot of the decorative agent network as SVG",
	Long: `Simulates the landing page's agent network for the given number of frames
and writes the final frame to standard output as SVG. With --summary the
network's connection statistics are printed as JSON instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, _ := cmd.Flags().GetInt64("seed")
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		frames, _ := cmd.Flags().GetInt("frames")
		mobile, _ := cmd.Flags().GetBool("mobile")
		summaryOnly, _ := cmd.Flags().GetBool("summary")

		out := cmd.OutOrStdout()
		svgOut := out
		if summaryOnly {
			svgOut = io.Discard
		}

		summary, err := web.RenderBackground(svgOut, seed, frames, mobile)
		if err != nil {
			return fmt.Errorf("failed to render background: %w", err)
		}
		if summaryOnly {
			jsonData, err := json.MarshalIndent(summary, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal summary to JSON: %w", err)
			}
			fmt.Fprintln(out, string(jsonData))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backgroundCmd)
	backgroundCmd.Flags().Int64("seed", 0, "Random seed (0 picks one from the clock)")
	backgroundCmd.Flags().Int("frames", 180, "Frames to simulate before the snapshot")
	backgroundCmd.Flags().Bool("mobile", false, "Use the small-screen canvas and particle profile")
	backgroundCmd.Flags().Bool("summary", false, "Print connection statistics as JSON instead of SVG")
}
