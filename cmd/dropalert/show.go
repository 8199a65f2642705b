package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/dropalert/internal/config"
	"github.com/jmylchreest/dropalert/internal/tui"
)

type showFlags struct {
	position   string
	direction  string
	delay      time.Duration
	height     int
	titleColor string
	msgColor   string
	background string
	quiet      bool
}

var showOpts showFlags

var showCmd = &cobra.Command{
	Use:   "show TITLE [MESSAGE]",
	Short: "Show a single banner and exit once it is gone",
	Long: `Show one banner, wait for it to slide out, then exit.

Flags override the matching config file values for this run only.

Examples:
  dropalert show "Build finished"
  dropalert show "Deploy failed" "see CI for details" --background "#d64747"
  dropalert show "Saved" --position bottom --direction from-left --delay 5s`,
	Args:        cobra.RangeArgs(1, 2),
	Annotations: map[string]string{tuiAnnotation: "true"},
	RunE:        runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVarP(&showOpts.position, "position", "p", "",
		"Edge to anchor to (top, bottom)")
	showCmd.Flags().StringVarP(&showOpts.direction, "direction", "d", "",
		"Slide direction (straight, from-left, from-right)")
	showCmd.Flags().DurationVar(&showOpts.delay, "delay", 0,
		"How long the banner stays (default from config)")
	showCmd.Flags().IntVar(&showOpts.height, "height", 0,
		"Banner height in rows")
	showCmd.Flags().StringVar(&showOpts.titleColor, "title-color", "",
		"Title color (#rrggbb)")
	showCmd.Flags().StringVar(&showOpts.msgColor, "message-color", "",
		"Message color (#rrggbb)")
	showCmd.Flags().StringVar(&showOpts.background, "background", "",
		"Background color (#rrggbb or #rrggbbaa)")
	showCmd.Flags().BoolVarP(&showOpts.quiet, "quiet", "q", false,
		"Do not play the chime")
}

func runShow(cmd *cobra.Command, args []string) error {
	c, err := applyShowFlags(getConfig())
	if err != nil {
		return err
	}

	msg := tui.ShowMsg{
		Title:  args[0],
		Delay:  showOpts.delay,
		Source: "cli",
		Silent: showOpts.quiet,
	}
	if len(args) > 1 {
		msg.Message = args[1]
	}

	return runTUI(c, tui.RunOptions{
		Mode:    tui.ModeOnce,
		Initial: []tui.ShowMsg{msg},
	})
}

// applyShowFlags returns a copy of base with the command-line overrides
// applied and validated.
func applyShowFlags(base *config.Config) (*config.Config, error) {
	c := *base

	if showOpts.position != "" {
		c.Banner.Position = showOpts.position
	}
	if showOpts.direction != "" {
		c.Banner.Direction = showOpts.direction
	}
	if showOpts.height > 0 {
		c.Banner.Height = showOpts.height
	}
	if showOpts.titleColor != "" {
		c.Style.TitleColor = showOpts.titleColor
	}
	if showOpts.msgColor != "" {
		c.Style.MessageColor = showOpts.msgColor
	}
	if showOpts.background != "" {
		c.Style.BackgroundColor = showOpts.background
	}
	if showOpts.delay < 0 {
		return nil, fmt.Errorf("--delay must not be negative")
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return &c, nil
}
