package main

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/dropalert/internal/adapter/input"
	"github.com/jmylchreest/dropalert/internal/dbus"
	"github.com/jmylchreest/dropalert/internal/tui"
)

var listenOpts struct {
	server bool
	stdin  bool
}

// sourceBuffer bounds notifications waiting for the event loop.
const sourceBuffer = 16

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Mirror desktop notifications as banners",
	Long: `Show desktop notifications from the session bus as banners.

By default dropalert watches Notify calls passively, so it can run next to
an existing notification daemon (dunst, mako, ...). With --server it claims
org.freedesktop.Notifications itself: tapping a banner invokes the
notification's default action and senders receive NotificationClosed
signals.

With --stdin banners are read from standard input instead, one per line:
either plain text used as the title or a JSON object such as
  {"title": "Deploy", "message": "prod is live", "delay": "5s"}

Notifications that arrive while a banner is on screen are dropped.`,
	Annotations: map[string]string{tuiAnnotation: "true"},
	RunE:        runListen,
}

func init() {
	rootCmd.AddCommand(listenCmd)

	listenCmd.Flags().BoolVar(&listenOpts.server, "server", false,
		"Act as the notification daemon instead of monitoring")
	listenCmd.Flags().BoolVar(&listenOpts.stdin, "stdin", false,
		"Read banners from standard input instead of the session bus")
	listenCmd.MarkFlagsMutuallyExclusive("server", "stdin")
}

func runListen(cmd *cobra.Command, args []string) error {
	source := make(chan tea.Msg, sourceBuffer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	switch {
	case listenOpts.stdin:
		adapter, err := input.NewAdapter("stdin")
		if err != nil {
			return err
		}
		go func() {
			err := adapter.Stream(ctx, func(e input.Entry) {
				forward(source, showFromEntry(e))
			})
			if err != nil {
				logger.Warn("input ended with error", "adapter", adapter.Name(), "error", err)
			}
		}()
	case listenOpts.server:
		srv := dbus.NewServer(logger)
		srv.SetServerInfo(dbus.ServerInfo{
			Name:        "dropalert",
			Vendor:      "dropalert",
			Version:     version,
			SpecVersion: "1.2",
		})
		srv.SetNotifyHandler(func(n *dbus.Notification, id uint32) {
			msg := showFromNotification(n, id)
			msg.OnDone = func(o tui.Outcome) {
				reportOutcome(srv, id, o, logger)
			}
			forward(source, msg)
		})
		srv.SetCloseHandler(func(id uint32) {
			forward(source, tui.CloseMsg{ID: id})
		})
		if err := srv.Start(); err != nil {
			return fmt.Errorf("failed to start notification server: %w", err)
		}
		defer func() { _ = srv.Stop() }()
	default:
		mon := dbus.NewMonitor(logger)
		mon.SetNotifyHandler(func(n *dbus.Notification, id uint32) {
			forward(source, showFromNotification(n, id))
		})
		if err := mon.Start(); err != nil {
			return fmt.Errorf("failed to start notification monitor: %w", err)
		}
		defer func() { _ = mon.Stop() }()
	}

	return runTUI(getConfig(), tui.RunOptions{
		Mode:     tui.ModeListen,
		Source:   source,
		Watch:    true,
		InputTTY: listenOpts.stdin,
	})
}

// forward hands msg to the event loop without blocking the bus.
func forward(source chan<- tea.Msg, msg tea.Msg) {
	select {
	case source <- msg:
	default:
		logger.Warn("event loop behind, dropping notification")
	}
}

// showFromNotification maps a desktop notification onto a banner request.
func showFromNotification(n *dbus.Notification, id uint32) tui.ShowMsg {
	return tui.ShowMsg{
		ID:      id,
		Title:   n.Summary,
		Message: n.Body,
		Delay:   n.Delay(),
		Source:  n.AppName,
		Silent:  n.SuppressSound(),
	}
}

// showFromEntry maps a line read from an input adapter onto a banner request.
func showFromEntry(e input.Entry) tui.ShowMsg {
	return tui.ShowMsg{
		Title:   e.Title,
		Message: e.Message,
		Delay:   e.Delay,
		Source:  e.Source,
		Silent:  e.Silent,
	}
}

// reportOutcome tells the sender what happened to its notification.
func reportOutcome(srv *dbus.Server, id uint32, o tui.Outcome, logger *slog.Logger) {
	var err error
	switch o {
	case tui.OutcomeTapped:
		err = srv.Activated(id)
	case tui.OutcomeDismissed:
		err = srv.Dismissed(id)
	case tui.OutcomeDropped:
		err = srv.Dropped(id)
	default:
		err = srv.Expired(id)
	}
	if err != nil {
		logger.Warn("failed to report notification outcome", "id", id, "outcome", o.String(), "error", err)
	}
}
