package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ringavatar/pkg/avatar"
	"github.com/matzehuels/ringavatar/pkg/surface/raster"
	"github.com/matzehuels/ringavatar/pkg/surface/term"
)

const (
	// oversample renders this many pixels per terminal pixel before the
	// encoder scales down, which smooths thin connectors.
	oversample = 4

	defaultWatchFPS = 20
)

// watchCommand creates the watch command, a terminal preview.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		style styleFlags
		fps   int
	)

	cmd := &cobra.Command{
		Use:   "watch <digits|->",
		Short: "Animate an avatar in the terminal",
		Long: `Animate the avatar with colored half blocks.

Keys: digits extend the seed, backspace removes its last digit, space
pauses, q or esc quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seeds, err := readSeeds(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			cfg, err := style.load(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("animated") {
				cfg.Animated = true
			}
			// The terminal shows its own background around the disc.
			if !cmd.Flags().Changed("background") {
				cfg.Background = "transparent"
			}
			m, err := newWatchModel(cmd.Context(), seeds[0], cfg, fps, term.New(), loggerFromContext(cmd.Context()))
			if err != nil {
				return err
			}
			p := tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithAltScreen())
			final, err := p.Run()
			if err != nil {
				return err
			}
			if fm, ok := final.(*watchModel); ok && fm.err != nil {
				return fm.err
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&fps, "fps", defaultWatchFPS, "frames per second")
	style.register(cmd)
	return cmd
}

// =============================================================================
// watchModel - terminal animation
// =============================================================================

type tickMsg time.Time

// watchModel drives an avatar from bubbletea ticks. The avatar schedules its
// frames on a FrameQueue, which every tick steps once.
type watchModel struct {
	seed     string
	animated bool
	interval time.Duration

	av      *avatar.Avatar
	surface *raster.Surface
	queue   *avatar.FrameQueue
	enc     *term.Encoder
	logger  *log.Logger

	cols, rows int
	frame      string
	paused     bool
	err        error
}

func newWatchModel(ctx context.Context, seed string, cfg avatar.Config, fps int, enc *term.Encoder, logger *log.Logger) (*watchModel, error) {
	if fps <= 0 {
		fps = defaultWatchFPS
	}
	s, err := raster.New(oversample, 2*oversample)
	if err != nil {
		return nil, err
	}
	m := &watchModel{
		seed:     seed,
		animated: cfg.Animated,
		interval: time.Second / time.Duration(fps),
		surface:  s,
		queue:    &avatar.FrameQueue{},
		enc:      enc,
		logger:   logger,
	}
	m.av, err = avatar.New(seed, cfg, s, avatar.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if m.animated {
		if err := m.av.Animate(ctx, m.queue); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *watchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *watchModel) Init() tea.Cmd {
	return m.tick()
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height-1)
	case tickMsg:
		if !m.paused {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *watchModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch key := msg.String(); key {
	case "q", "esc", "ctrl+c":
		m.av.Stop()
		return tea.Quit
	case " ":
		m.paused = !m.paused
	case "backspace":
		if m.seed != "" {
			m.retarget(m.seed[:len(m.seed)-1])
		}
	default:
		if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
			m.retarget(m.seed + key)
		}
	}
	return nil
}

func (m *watchModel) retarget(seed string) {
	if err := m.av.Retarget(seed); err != nil {
		m.logger.Debug("retarget rejected", "error", err)
		return
	}
	m.seed = seed
	if !m.animated {
		m.redraw()
	}
}

// resize fits the cell grid to the terminal and resizes the backing image.
func (m *watchModel) resize(width, height int) {
	cols, rows := term.Fit(1, 1, width, height)
	if cols == 0 || rows == 0 {
		return
	}
	m.cols, m.rows = cols, rows
	m.surface.Resize(cols*oversample, 2*rows*oversample)
	if !m.animated {
		m.redraw()
	}
	m.encode()
}

func (m *watchModel) step() {
	if m.cols == 0 {
		return
	}
	if m.queue.Step() {
		m.encode()
	}
}

func (m *watchModel) redraw() {
	if err := m.av.Render(); err != nil {
		m.err = err
		return
	}
	m.encode()
}

func (m *watchModel) encode() {
	m.frame = m.enc.Encode(m.surface.Image(), m.cols, m.rows)
}

func (m *watchModel) View() string {
	if m.cols == 0 {
		return StyleDim.Render("waiting for terminal size…")
	}
	var b strings.Builder
	b.WriteString(m.frame)
	b.WriteByte('\n')
	b.WriteString(m.status())
	return b.String()
}

func (m *watchModel) status() string {
	anim := m.av.Animator()
	state := anim.State().String()
	if !m.animated {
		state = "still"
	}
	if m.paused {
		state = "paused"
	}
	return StyleDim.Render(fmt.Sprintf("%s %d/%d · %s · q quit",
		state, len(anim.Current()), len(m.seed), seedLabel(m.seed)))
}
