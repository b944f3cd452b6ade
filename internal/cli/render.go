package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ringavatar/pkg/errors"
	"github.com/matzehuels/ringavatar/pkg/fonts"
	"github.com/matzehuels/ringavatar/pkg/pipeline"
)

// seedPrefixLen is how many digits of the seed name default output files.
const seedPrefixLen = 12

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string        // output file, base path, or "-" for stdout
	vizType    string        // "ring" or "transitions"
	formats    []string      // svg, png, pdf, json, gif
	width      int           // canvas width in pixels
	height     int           // canvas height in pixels
	scale      float64       // pixel multiplier of raster output
	frames     int           // GIF length, 0 for growth plus one breath
	frameDelay time.Duration // animation time per GIF frame
	detailed   bool          // count labels on transitions diagrams
	font       string        // title typeface
	noCache    bool          // skip the artifact cache
	refresh    bool          // re-render and overwrite cached artifacts
	style      styleFlags
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		vizType: pipeline.DefaultVizType,
		width:   pipeline.DefaultSize,
		height:  pipeline.DefaultSize,
	}

	cmd := &cobra.Command{
		Use:   "render <digits|-> [digits...]",
		Short: "Render digit strings to SVG, PNG, PDF, JSON, or GIF",
		Long: `Render one or more digit strings.

Each argument is a string of decimal digits; "-" reads one from stdin, with
whitespace ignored. Outputs are named after the visualization type and the
first digits of the seed unless -o is given.`,
		Example: `  ringavatar render 31415926535 -f svg,png
  ringavatar render 2718281828 -f gif --frames 120 -o e.gif
  ringavatar render 1123581321 --type transitions --detailed
  curl -s https://example.com/pi.txt | ringavatar render - -f png --width 512`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			seeds, err := readSeeds(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if opts.output == "-" && (len(seeds) > 1 || len(opts.formats) > 1) {
				return errors.New(errors.ErrCodeInvalidInput, "-o - needs exactly one seed and one format")
			}
			return c.runRender(cmd, seeds, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single seed and format), base path, or - for stdout")
	cmd.Flags().StringVarP(&opts.vizType, "type", "t", opts.vizType, "visualization type: ring, transitions")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, gif (comma-separated)")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "canvas width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "canvas height in pixels")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "pixel multiplier for png and gif")
	cmd.Flags().IntVar(&opts.frames, "frames", 0, "gif frame count (default: growth plus one breath)")
	cmd.Flags().DurationVar(&opts.frameDelay, "frame-delay", 0, "animation time per gif frame (default 100ms)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label transitions with counts")
	cmd.Flags().StringVar(&opts.font, "font", "", "title typeface: "+strings.Join(fonts.Names(), ", "))
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render cached artifacts")
	opts.style.register(cmd)
	registerRenderCompletions(cmd)

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, seeds []string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := opts.style.load(cmd)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	written := 0
	for i, seed := range seeds {
		po := pipeline.Options{
			Seed:       seed,
			VizType:    opts.vizType,
			Formats:    opts.formats,
			Width:      opts.width,
			Height:     opts.height,
			Scale:      opts.scale,
			Frames:     opts.frames,
			FrameDelay: opts.frameDelay,
			Detailed:   opts.detailed,
			Font:       opts.font,
			Config:     cfg,
			Refresh:    opts.refresh,
			Logger:     logger,
		}

		result, err := executeWithSpinner(ctx, runner, po, opts.output != "-")
		if err != nil {
			return err
		}

		if opts.output == "-" {
			_, err := cmd.OutOrStdout().Write(result.Artifacts[opts.formats[0]])
			return err
		}

		printSuccess("Rendered %s", StyleNumber.Render(seedLabel(seed)))
		printStats(result.Stats.Digits, result.Stats.Distinct, result.CacheInfo.AllHit)
		for _, format := range opts.formats {
			path := outputPath(opts.output, opts.vizType, seed, format, i, len(seeds), len(opts.formats))
			if err := writeArtifact(path, result.Artifacts[format]); err != nil {
				return err
			}
			logger.Debug("wrote artifact", "path", path, "bytes", len(result.Artifacts[format]))
			printFile(path)
			written++
		}
	}

	prog.done(fmt.Sprintf("Rendered %d files", written))
	return nil
}

// executeWithSpinner runs the pipeline, animating a spinner on stderr while
// it works.
func executeWithSpinner(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, spin bool) (*pipeline.Result, error) {
	if !spin {
		return runner.Execute(ctx, opts)
	}
	s := newSpinner(ctx, "Rendering "+strings.Join(opts.Formats, ", "))
	s.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		s.StopWithError(errors.UserMessage(err))
		return nil, err
	}
	s.Stop()
	return result, nil
}

// =============================================================================
// Seeds
// =============================================================================

// readSeeds resolves command arguments to digit strings. "-" is replaced by
// the digits read from stdin.
func readSeeds(args []string, stdin io.Reader) ([]string, error) {
	seeds := make([]string, 0, len(args))
	readStdin := false
	for _, arg := range args {
		if arg != "-" {
			if err := errors.ValidateDigits(arg); err != nil {
				return nil, err
			}
			seeds = append(seeds, arg)
			continue
		}
		if readStdin {
			return nil, errors.New(errors.ErrCodeInvalidInput, "stdin can only be read once")
		}
		readStdin = true
		seed, err := readSeed(stdin)
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, seed)
	}
	return seeds, nil
}

// readSeed reads a digit string, dropping all whitespace.
func readSeed(r io.Reader) (string, error) {
	var b strings.Builder
	br := bufio.NewReader(r)
	for {
		ch, _, err := br.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
		}
		if unicode.IsSpace(ch) {
			continue
		}
		b.WriteRune(ch)
	}
	seed := b.String()
	if err := errors.ValidateDigits(seed); err != nil {
		return "", err
	}
	return seed, nil
}

// seedLabel abbreviates long seeds for display.
func seedLabel(seed string) string {
	switch {
	case seed == "":
		return "(empty)"
	case len(seed) > seedPrefixLen:
		return seed[:seedPrefixLen] + "…"
	default:
		return seed
	}
}

// =============================================================================
// Output Paths
// =============================================================================

// basePath derives the base output path. Without an explicit output, files
// are named "<type>-<leading digits>". A known format extension on output is
// stripped.
func basePath(output, vizType, seed string) string {
	if output == "" {
		prefix := seed
		if len(prefix) > seedPrefixLen {
			prefix = prefix[:seedPrefixLen]
		}
		if prefix == "" {
			prefix = "empty"
		}
		return vizType + "-" + prefix
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath returns the file for one artifact. An explicit output is used
// verbatim for a single seed and format; multiple seeds sharing one output
// base are numbered from 1.
func outputPath(output, vizType, seed, format string, index, seeds, formats int) string {
	if output != "" && seeds == 1 && formats == 1 {
		return output
	}
	base := basePath(output, vizType, seed)
	if output != "" && seeds > 1 {
		base = fmt.Sprintf("%s-%d", base, index+1)
	}
	return base + "." + format
}

func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}
