package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/dropalert/internal/tui"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Cycle sample banners through every position and direction",
	Long: `Launch the interactive demo.

Sample banners are shown one after another, moving through the top and
bottom edges and every slide direction.

Key bindings:
  s            Show a sample banner
  enter/space  Tap the banner
  d            Dismiss the banner
  p            Toggle top/bottom
  r            Cycle slide direction
  c            Copy banner text to clipboard
  ?            Toggle help
  q            Quit`,
	Annotations: map[string]string{tuiAnnotation: "true"},
	RunE:        runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	return runTUI(getConfig(), tui.RunOptions{Mode: tui.ModeDemo, Watch: true})
}
