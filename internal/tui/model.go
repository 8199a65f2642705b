// Package tui hosts drop-down banners in a BubbleTea terminal program.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/dropalert/internal/banner"
	"github.com/jmylchreest/dropalert/internal/config"
)

// Mode selects what drives the banner.
type Mode int

const (
	// ModeOnce shows the queued banners and quits once the last is hidden.
	ModeOnce Mode = iota
	// ModeDemo cycles sample banners through every position and direction.
	ModeDemo
	// ModeListen shows banners as they arrive from a source.
	ModeListen
)

func (m Mode) String() string {
	switch m {
	case ModeOnce:
		return "once"
	case ModeDemo:
		return "demo"
	case ModeListen:
		return "listen"
	default:
		return "unknown"
	}
}

// Outcome is how a requested banner ended.
type Outcome int

const (
	OutcomeExpired Outcome = iota
	OutcomeTapped
	OutcomeDismissed
	OutcomeDropped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeExpired:
		return "expired"
	case OutcomeTapped:
		return "tapped"
	case OutcomeDismissed:
		return "dismissed"
	case OutcomeDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// ShowMsg asks the model to present a banner.
type ShowMsg struct {
	ID      uint32 // source-defined, used by CloseMsg
	Title   string
	Message string
	Delay   time.Duration // zero uses the configured dismiss delay
	Source  string
	Silent  bool // skip the chime

	// OnDone is called on the event loop with the outcome once the banner
	// is hidden again, or straight away when it is dropped.
	OnDone func(Outcome)
}

// CloseMsg dismisses the banner shown for the ShowMsg with the same ID.
type CloseMsg struct {
	ID uint32
}

// ConfigReloadedMsg carries a configuration that replaced the running one.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// Chime plays a sound when a banner appears.
type Chime interface {
	Play() error
}

// soundConfigurer is a Chime that follows config reloads.
type soundConfigurer interface {
	Apply(config.SoundConfig)
}

type (
	statusMsg struct {
		text string
		err  bool
	}
	clearStatusMsg struct{}
	demoMsg        struct{}
)

// demoInterval is the pause between demo banners.
const demoInterval = 600 * time.Millisecond

// maxEvents bounds the in-memory event log.
const maxEvents = 50

var samples = []ShowMsg{
	{Title: "Saved", Message: "Your changes have been stored"},
	{Title: "Connection lost", Message: "Retrying in 5 seconds"},
	{Title: "Upload complete"},
	{Title: "New message", Message: "Click or press enter to dismiss"},
}

type event struct {
	at     time.Time
	kind   string
	title  string
	source string
}

// session holds state shared by every copy of the model.
type session struct {
	events  []event
	taps    int
	current *ShowMsg
	outcome Outcome
}

// finish reports the outcome of the current request, if any.
func (s *session) finish() {
	cur := s.current
	s.current = nil
	if cur != nil && cur.OnDone != nil {
		cur.OnDone(s.outcome)
	}
}

func (s *session) record(kind, title, source string) {
	s.events = append(s.events, event{at: time.Now(), kind: kind, title: title, source: source})
	if len(s.events) > maxEvents {
		s.events = s.events[len(s.events)-maxEvents:]
	}
}

// Model is the main TUI model.
type Model struct {
	// Configuration
	cfg     *config.Config
	palette config.Palette
	logger  *slog.Logger
	mode    Mode
	chime   Chime

	// Banner plumbing
	host      *Host
	sched     *Scheduler
	banner    *banner.Banner
	position  banner.Position
	direction banner.Direction
	rebuild   bool
	lastState banner.State

	// State
	width     int
	height    int
	ready     bool
	queued    []ShowMsg
	shown     bool
	quitting  bool
	demoArmed bool
	demoIndex int
	sample    int
	sess      *session

	// Key bindings
	keys KeyMap
	help help.Model

	// Status message
	statusMsg string
	statusErr bool
}

// New creates a model for cfg. The banner itself is built once the
// terminal reports its size.
func New(cfg *config.Config, mode Mode, logger *slog.Logger) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	palette, err := cfg.Style.Colors()
	if err != nil {
		logger.Warn("invalid style colors, using defaults", "error", err)
		palette, _ = config.DefaultConfig().Style.Colors()
	}

	h := help.New()
	h.ShowAll = cfg.TUI.ShowHelp

	return Model{
		cfg:       cfg,
		palette:   palette,
		logger:    logger,
		mode:      mode,
		sched:     NewScheduler(),
		position:  cfg.Position(),
		direction: cfg.Direction(),
		sess:      &session{},
		keys:      DefaultKeyMap(),
		help:      h,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.host == nil {
			m.host = NewHost(msg.Width, msg.Height, m.cfg.TUI.StatusBarInset, m.cfg.TUI.FPS)
		} else {
			m.host.Resize(msg.Width, msg.Height)
		}
		m.rebuild = true
		m.ready = true

	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.handleKey(msg)
		cmds = append(cmds, cmd)

	case tea.MouseMsg:
		if m.cfg.TUI.Mouse && m.banner != nil &&
			msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft &&
			m.host.HitTest(msg.X, msg.Y) {
			m.banner.Tap()
		}

	case frameMsg:
		if m.host != nil {
			m.host.Step(msg)
		}

	case timerMsg:
		m.sched.Fire(msg.id)

	case ShowMsg:
		m.queued = append(m.queued, msg)

	case CloseMsg:
		if cur := m.sess.current; cur != nil && cur.ID == msg.ID && m.banner.Dismiss() {
			m.sess.outcome = OutcomeDismissed
			m.sess.record("closed", cur.Title, cur.Source)
		}

	case ConfigReloadedMsg:
		m = m.applyConfig(msg.Config)
		cmds = append(cmds, setStatus("configuration reloaded", false))

	case demoMsg:
		m.demoArmed = false
		if m.banner != nil && m.banner.State() == banner.StateHidden {
			combo := m.demoIndex % 6
			m.position = banner.Position(combo / 3)
			m.direction = banner.Direction(combo % 3)
			m.rebuild = true
			m.queued = append(m.queued, samples[m.demoIndex%len(samples)])
			m.demoIndex++
		}

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.err
		cmds = append(cmds, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		}))

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
	}

	return m.settle(cmds)
}

// settle runs after every message: it rebuilds the banner when allowed,
// drains queued shows and collects the ticks the host and scheduler queued.
func (m Model) settle(cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	if m.banner != nil {
		state := m.banner.State()
		if state == banner.StateHidden && m.lastState != banner.StateHidden {
			m.sess.record("hidden", m.banner.Title().Text, "")
			m.sess.finish()
		}
		m.lastState = state
	}

	if m.ready {
		if m.rebuild && (m.banner == nil || m.banner.State() == banner.StateHidden) {
			m = m.buildBanner()
		}
		for len(m.queued) > 0 && m.banner != nil {
			next := m.queued[0]
			m.queued = m.queued[1:]
			var cmd tea.Cmd
			m, cmd = m.show(next)
			cmds = append(cmds, cmd)
		}
	}

	if m.banner != nil {
		m.lastState = m.banner.State()
		if m.lastState == banner.StateHidden {
			switch {
			case m.mode == ModeOnce && m.shown && len(m.queued) == 0 && !m.quitting:
				m.quitting = true
				cmds = append(cmds, tea.Quit)
			case m.mode == ModeDemo && !m.demoArmed:
				m.demoArmed = true
				cmds = append(cmds, tea.Tick(demoInterval, func(time.Time) tea.Msg {
					return demoMsg{}
				}))
			}
		}
	}

	if m.host != nil {
		cmds = append(cmds, m.host.Flush())
	}
	cmds = append(cmds, m.sched.Flush())
	return m, tea.Batch(cmds...)
}

// buildBanner replaces the banner with one built for the current screen,
// position and direction.
func (m Model) buildBanner() Model {
	if m.banner != nil {
		m.banner.Close()
	}

	b := banner.New(m.host, m.sched, m.position, m.direction,
		banner.WithLogger(m.logger),
		banner.WithMetrics(TerminalMetrics()),
		banner.WithHeight(float64(m.cfg.Banner.Height)),
	)
	applyStyle(b, m.cfg, m.palette)

	sess := m.sess
	b.SetOnTap(func() {
		sess.taps++
		sess.outcome = OutcomeTapped
		sess.record("tapped", b.Title().Text, "")
	})

	m.banner = b
	m.lastState = banner.StateHidden
	m.rebuild = false
	return m
}

// applyStyle pushes configured styling and timing into b.
func applyStyle(b *banner.Banner, cfg *config.Config, p config.Palette) {
	b.SetTitleFont(cfg.Style.TitleFont)
	b.SetMessageFont(cfg.Style.MessageFont)
	b.SetTitleColor(p.Title)
	b.SetMessageColor(p.Message)
	b.SetBackgroundColor(p.Background)
	b.SetAnimationDuration(cfg.Banner.AnimationDuration.Duration())
	b.SetDismissDelay(cfg.Banner.DismissDelay.Duration())
	b.SetTapWhileShowing(cfg.Banner.TapWhileShowing)
}

func (m Model) applyConfig(cfg *config.Config) Model {
	palette, err := cfg.Style.Colors()
	if err != nil {
		m.logger.Warn("ignoring reloaded config", "error", err)
		return m
	}

	if cfg.Position() != m.cfg.Position() || cfg.Direction() != m.cfg.Direction() ||
		cfg.Banner.Height != m.cfg.Banner.Height {
		m.position = cfg.Position()
		m.direction = cfg.Direction()
		m.rebuild = true
	}
	if m.host != nil {
		m.host.SetFPS(cfg.TUI.FPS)
	}

	if sc, ok := m.chime.(soundConfigurer); ok {
		sc.Apply(cfg.Sound)
	}

	m.cfg = cfg
	m.palette = palette
	if m.banner != nil {
		applyStyle(m.banner, cfg, palette)
	}
	m.logger.Debug("applied reloaded config")
	return m
}

func (m Model) show(msg ShowMsg) (Model, tea.Cmd) {
	opts := []banner.ShowOption{banner.WithMessage(msg.Message)}

	var err error
	if msg.Delay > 0 {
		err = m.banner.ShowWithDelay(msg.Title, msg.Delay, opts...)
	} else {
		err = m.banner.Show(msg.Title, opts...)
	}
	m.shown = true

	if err != nil {
		if errors.Is(err, banner.ErrBusy) {
			m.logger.Info("banner busy, dropping notification", "title", msg.Title, "source", msg.Source)
			m.sess.record("dropped", msg.Title, msg.Source)
			if msg.OnDone != nil {
				msg.OnDone(OutcomeDropped)
			}
			return m, setStatus("banner busy, dropped: "+msg.Title, true)
		}
		return m, setStatus(err.Error(), true)
	}
	if m.banner.Attached() == nil {
		if msg.OnDone != nil {
			msg.OnDone(OutcomeDropped)
		}
		return m, nil
	}

	m.sess.current = &msg
	m.sess.outcome = OutcomeExpired
	m.sess.record("shown", msg.Title, msg.Source)
	if msg.Silent {
		return m, nil
	}
	return m, m.playChime()
}

func (m Model) playChime() tea.Cmd {
	if m.chime == nil {
		return nil
	}
	c := m.chime
	return func() tea.Msg {
		if err := c.Play(); err != nil {
			return statusMsg{text: fmt.Sprintf("chime: %v", err), err: true}
		}
		return nil
	}
}

func setStatus(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, err: isErr}
	}
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.banner != nil {
			m.banner.Close()
		}
		m.sess.outcome = OutcomeDismissed
		m.sess.finish()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Show):
		sample := samples[m.sample%len(samples)]
		sample.Source = "keyboard"
		m.sample++
		m.queued = append(m.queued, sample)

	case key.Matches(msg, m.keys.Tap):
		if m.banner != nil {
			m.banner.Tap()
		}

	case key.Matches(msg, m.keys.Dismiss):
		if m.banner != nil && m.banner.Dismiss() {
			m.sess.outcome = OutcomeDismissed
			m.sess.record("dismissed", m.banner.Title().Text, "keyboard")
		}

	case key.Matches(msg, m.keys.Position):
		if m.position == banner.PositionTop {
			m.position = banner.PositionBottom
		} else {
			m.position = banner.PositionTop
		}
		m.rebuild = true
		return m, setStatus("position: "+m.position.String(), false)

	case key.Matches(msg, m.keys.Direction):
		m.direction = (m.direction + 1) % 3
		m.rebuild = true
		return m, setStatus("direction: "+m.direction.String(), false)

	case key.Matches(msg, m.keys.Copy):
		if m.banner == nil || m.banner.State() == banner.StateHidden {
			return m, setStatus("no banner on screen", true)
		}
		return m, m.copyToClipboard(bannerText(m.banner))
	}

	return m, nil
}

func (m Model) copyToClipboard(text string) tea.Cmd {
	command := m.cfg.TUI.ClipboardCommand
	return func() tea.Msg {
		if err := copyText(text, command); err != nil {
			return statusMsg{text: fmt.Sprintf("copy failed: %v", err), err: true}
		}
		return statusMsg{text: "copied to clipboard"}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.quitting {
		return ""
	}

	view := m.viewBase()
	if b := m.host.Attached(); b != nil {
		x, y, w, h := m.host.Cells()
		view = overlayAt(view, renderBanner(b, w, h, m.palette.Backdrop), x, y, m.width, m.height)
	}
	return view
}

func (m Model) viewBase() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))
	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))
	kindStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10")).
		Width(10)

	state := banner.StateHidden
	if m.banner != nil {
		state = m.banner.State()
	}

	lines := []string{
		titleStyle.Render("dropalert") + dimStyle.Render(fmt.Sprintf("  %s · %s · %s · %s",
			m.mode, m.position, m.direction, state)),
		"",
	}

	helpView := m.help.View(m.keys)
	helpRows := len(splitLines(helpView))
	room := m.height - len(lines) - helpRows - 1
	if room < 0 {
		room = 0
	}

	events := m.sess.events
	if len(events) == 0 && room > 0 {
		lines = append(lines, dimStyle.Render("No banners yet."))
	}
	for i := len(events) - 1; i >= 0 && room > 0; i-- {
		e := events[i]
		line := kindStyle.Render(e.kind) + e.title
		if e.source != "" {
			line += dimStyle.Render(" (" + e.source + ")")
		}
		line += dimStyle.Render(" · " + humanize.Time(e.at))
		lines = append(lines, line)
		room--
	}

	for len(lines) < m.height-helpRows-1 {
		lines = append(lines, "")
	}

	status := ""
	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		status = statusStyle.Render(m.statusMsg)
	}
	lines = append(lines, status, helpView)

	return strings.Join(lines, "\n")
}

// RunOptions configures Run.
type RunOptions struct {
	Config     *config.Config
	ConfigPath string // watched for changes when Watch is set
	Watch      bool
	Mode       Mode
	Initial    []ShowMsg
	Source     <-chan tea.Msg // ShowMsg and CloseMsg from outside the program
	Chime      Chime
	Logger     *slog.Logger
	InputTTY   bool // read keys from the controlling terminal when stdin is a pipe
}

// Run starts the TUI and blocks until it exits or ctx is cancelled.
func Run(ctx context.Context, opts RunOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := New(opts.Config, opts.Mode, logger)
	m.queued = append(m.queued, opts.Initial...)
	m.chime = opts.Chime

	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if m.cfg.TUI.Mouse {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}
	if opts.InputTTY {
		progOpts = append(progOpts, tea.WithInputTTY())
	}
	p := tea.NewProgram(m, progOpts...)

	if opts.Source != nil {
		go func() {
			for msg := range opts.Source {
				p.Send(msg)
			}
		}()
	}

	var watcher *config.Watcher
	if opts.Watch {
		var err error
		watcher, err = config.NewWatcher(opts.ConfigPath, func(c *config.Config) {
			p.Send(ConfigReloadedMsg{Config: c})
		}, logger)
		if err != nil {
			logger.Warn("failed to create config watcher", "error", err)
		} else if err := watcher.Start(); err != nil {
			logger.Warn("failed to start config watcher", "error", err)
		}
	}

	_, err := p.Run()

	if watcher != nil {
		_ = watcher.Stop()
	}

	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return &banner.SurfaceError{Message: "terminal host failed", Cause: err}
	}
	return nil
}
