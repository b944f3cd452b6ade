package cli

import (
	"image/color"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ringavatar/pkg/avatar"
	"github.com/matzehuels/ringavatar/pkg/fonts"
	"github.com/matzehuels/ringavatar/pkg/surface/window"
)

const defaultWindowSize = 480

// viewCommand creates the view command, which opens a desktop window.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		style         styleFlags
		width, height int
		backdrop      string
		font          string
	)

	cmd := &cobra.Command{
		Use:   "view <digits|->",
		Short: "Animate an avatar in a desktop window",
		Long: `Open a resizable window that grows the avatar one digit per frame and then
breathes. Pass --animated=false for a still image. Esc or q closes the window.`,
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
			bd, err := avatar.ParseColor(backdrop)
			if err != nil {
				return err
			}
			f, err := fonts.Parse(font)
			if err != nil {
				return err
			}
			return c.runView(cmd, seeds[0], cfg, width, height, bd, f)
		},
	}

	cmd.Flags().IntVar(&width, "width", defaultWindowSize, "initial window width")
	cmd.Flags().IntVar(&height, "height", defaultWindowSize, "initial window height")
	cmd.Flags().StringVar(&backdrop, "backdrop", "white", "window color around the disc")
	cmd.Flags().StringVar(&font, "font", fonts.Default, "title typeface: "+strings.Join(fonts.Names(), ", "))
	style.register(cmd)
	return cmd
}

func (c *CLI) runView(cmd *cobra.Command, seed string, cfg avatar.Config, width, height int, backdrop color.Color, font *truetype.Font) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	// Still avatars redraw whenever the window is resized; animated ones
	// refit on every frame anyway.
	var a *avatar.Avatar
	redraw := func() {
		if a != nil && !cfg.Animated {
			if err := a.Render(); err != nil {
				logger.Warn("redraw failed", "error", err)
			}
		}
	}

	w := window.New(appName+" "+seedLabel(seed), width, height,
		window.WithBackdrop(backdrop),
		window.WithFont(font),
		window.OnResize(redraw),
	)
	a, err := avatar.New(seed, cfg, w, avatar.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := a.Run(ctx, w); err != nil {
		return err
	}

	logger.Debug("window opened", "width", width, "height", height, "animated", cfg.Animated)
	return w.Run(ctx)
}
