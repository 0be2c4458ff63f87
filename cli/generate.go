package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/xstitch/binding"
	"github.com/ByLCY/xstitch/config"
	"github.com/ByLCY/xstitch/dsl"
	"github.com/ByLCY/xstitch/pattern"
	"github.com/ByLCY/xstitch/pipeline"
	canvasrenderer "github.com/ByLCY/xstitch/renderer/canvas"
)

type generateOpts struct {
	text        string
	input       string
	data        string
	maxLines    int
	fontSize    string
	fontFamily  string
	lineSpacing string
	color       string
	fabric      string
	grid        bool
	outDir      string
	png         bool
	pdf         bool
	debug       string
	ascii       bool
	noTexture   bool
}

func newGenerateCmd() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate [text]",
		Short: "Generate a cross-stitch pattern",
		Long: `Generate a cross-stitch pattern from text given as an argument, with --text,
or in a request file (--in). Flags override values from the request file, which
override the [defaults] section of the config file.`,
		Example: `  xstitch generate "Home Sweet Home" --font-size large --fabric cream --pdf
  xstitch generate --in greeting.xst --data '{"name":"Ada"}' --grid`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && !cmd.Flags().Changed("text") {
				cmd.Flags().Set("text", args[0])
			}
			return runGenerate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.text, "text", "", "pattern text (use \\n or real newlines for more lines)")
	f.StringVarP(&opts.input, "in", "i", "", "request file")
	f.StringVar(&opts.data, "data", "", "JSON data bound to ${path} placeholders in the text")
	f.IntVar(&opts.maxLines, "lines", 3, "maximum number of lines (negative = unlimited)")
	f.StringVar(&opts.fontSize, "font-size", "", "font size: "+strings.Join(pattern.FontSizes(), ", "))
	f.StringVar(&opts.fontFamily, "font-family", "", "font family: "+strings.Join(pattern.FontFamilies(), ", "))
	f.StringVar(&opts.lineSpacing, "line-spacing", "", "line spacing: "+strings.Join(pattern.LineSpacings(), ", "))
	f.StringVar(&opts.color, "color", "", "thread colour (#rrggbb, rgb(r,g,b) or a CSS name)")
	f.StringVar(&opts.fabric, "fabric", "", "fabric colour: "+strings.Join(pattern.FabricColors(), ", "))
	f.BoolVar(&opts.grid, "grid", false, "draw the reference grid")
	f.StringVarP(&opts.outDir, "out-dir", "o", "", "output directory (default from config)")
	f.BoolVar(&opts.png, "png", true, "write the PNG chart")
	f.BoolVar(&opts.pdf, "pdf", false, "write the printable PDF")
	f.StringVar(&opts.debug, "debug", "", "write the generation result as JSON to this path")
	f.BoolVar(&opts.ascii, "ascii", false, "print the stitch grid as text")
	f.BoolVar(&opts.noTexture, "no-texture", false, "skip the fabric texture")
	return cmd
}

func runGenerate(cmd *cobra.Command, opts generateOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	req, err := buildRequest(cmd, cfg, opts)
	if err != nil {
		return err
	}

	gen, err := newGenerator(cfg, logger, opts.noTexture)
	if err != nil {
		return err
	}
	prog := newProgress(logger)
	res, err := gen.Generate(ctx, req)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if res.Empty {
		printWarning(out, "text is empty, nothing to stitch")
		return nil
	}
	prog.done("Generated pattern")

	printSummary(out, res)
	if opts.ascii {
		fmt.Fprintln(out, res.Grid.String())
	}

	if opts.debug != "" {
		if err := os.MkdirAll(filepath.Dir(opts.debug), 0o755); err != nil {
			return fmt.Errorf("创建调试目录失败: %w", err)
		}
		if err := pipeline.WriteDebugJSON(res, opts.debug); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
		printFile(out, opts.debug)
	}

	dir := opts.outDir
	if dir == "" {
		dir = cfg.Export.Dir
	}
	paths, err := writeExports(gen, dir, exportSet{png: opts.png, withGrid: req.ShowGrid, pdf: opts.pdf})
	for _, p := range paths {
		printFile(out, p)
	}
	if err != nil {
		return err
	}
	if len(paths) > 0 {
		printSuccess(out, "Saved %d file(s)", len(paths))
	}
	return nil
}

// buildRequest layers config defaults, the request file and explicit flags.
func buildRequest(cmd *cobra.Command, cfg config.Config, opts generateOpts) (pattern.Request, error) {
	req, err := cfg.Request()
	if err != nil {
		return req, err
	}
	if opts.input != "" {
		file, err := os.Open(opts.input)
		if err != nil {
			return req, fmt.Errorf("无法打开请求文件 %s: %w", opts.input, err)
		}
		defer file.Close()
		doc, err := dsl.Parse(file)
		if err != nil {
			return req, fmt.Errorf("解析请求文件失败: %w", err)
		}
		if req, err = doc.Request(req); err != nil {
			return req, fmt.Errorf("请求文件 %s: %w", opts.input, err)
		}
		loggerFromContext(cmd.Context()).Debug("request file", "file", opts.input, "pattern", doc.Name())
	}

	flags := cmd.Flags()
	if flags.Changed("text") {
		req.Text = strings.ReplaceAll(opts.text, `\n`, "\n")
	}
	if flags.Changed("lines") {
		req.MaxLines = opts.maxLines
	}
	if flags.Changed("grid") {
		req.ShowGrid = opts.grid
	}
	options := []struct{ flag, key, value string }{
		{"font-size", "font-size", opts.fontSize},
		{"font-family", "font-family", opts.fontFamily},
		{"line-spacing", "line-spacing", opts.lineSpacing},
		{"color", "stitch-color", opts.color},
		{"fabric", "fabric", opts.fabric},
	}
	for _, opt := range options {
		if !flags.Changed(opt.flag) {
			continue
		}
		if err := dsl.ApplyOption(&req, opt.key, opt.value); err != nil {
			return req, fmt.Errorf("--%s: %w", opt.flag, err)
		}
	}

	var data any
	if opts.data != "" {
		if err := json.Unmarshal([]byte(opts.data), &data); err != nil {
			return req, fmt.Errorf("解析 data JSON 失败: %w", err)
		}
	}
	req.Text = binding.Interpolate(req.Text, data)
	return req, nil
}

func newGenerator(cfg config.Config, logger *log.Logger, noTexture bool) (*pipeline.Generator, error) {
	limits := cfg.PatternLimits()
	backend := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{Limits: limits})
	return pipeline.New(backend, pipeline.Options{Limits: limits, Logger: logger, NoTexture: noTexture})
}
