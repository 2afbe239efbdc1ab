package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/grahms/docweaver"
	"github.com/grahms/docweaver/internal/config"
	"github.com/grahms/docweaver/internal/logging"
	"github.com/grahms/docweaver/internal/watch"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	convertOutput      string
	convertPolicy      string
	convertFormat      string
	convertSystemLinks bool
	convertMaxDepth    int
	convertWatch       bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [file.xml...]",
	Short: "Convert XML documentation files",
	Long: `Convert one or more XML documentation files.

With no arguments the document is read from stdin. With one input the result
goes to --output, or stdout. With several inputs each is converted in parallel
to a file named after it, placed next to the input or in the --output
directory.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		applyConvertFlags(cmd, cfg)
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid flags: %w", err)
		}

		logCfg := logging.Config{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Writer: cmd.ErrOrStderr(),
		}
		if verbose {
			logCfg.Level = "debug"
		}
		logger, err := logging.New(logCfg)
		if err != nil {
			return err
		}

		jobs, err := planJobs(args, convertOutput, cfg.Convert.Format)
		if err != nil {
			return err
		}

		r := &runner{cfg: cfg, logger: logger, stdin: cmd.InOrStdin(), stdout: cmd.OutOrStdout()}
		if convertWatch {
			return r.watch(cmd.Context(), jobs)
		}
		return r.convertAll(cmd.Context(), jobs)
	},
}

func init() {
	f := convertCmd.Flags()
	f.StringVarP(&convertOutput, "output", "o", "", "output file, or directory when converting several inputs")
	f.StringVar(&convertPolicy, "policy", "", "unknown element policy: error, warn or accept")
	f.StringVar(&convertFormat, "format", "", "output format: markdown or html")
	f.BoolVar(&convertSystemLinks, "system-links", false, "link System namespace references to MSDN")
	f.IntVar(&convertMaxDepth, "max-depth", 0, "maximum element nesting, negative for no limit")
	f.BoolVar(&convertWatch, "watch", false, "convert again whenever an input changes")

	rootCmd.AddCommand(convertCmd)
}

// applyConvertFlags lets flags given on the command line override cfg.
func applyConvertFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("policy") {
		cfg.Convert.Policy = convertPolicy
	}
	if f.Changed("format") {
		cfg.Convert.Format = convertFormat
	}
	if f.Changed("system-links") {
		cfg.Convert.SystemLinks = convertSystemLinks
	}
	if f.Changed("max-depth") {
		cfg.Convert.MaxDepth = convertMaxDepth
	}
}

// job is one conversion. An empty input reads stdin, an empty output
// writes stdout.
type job struct {
	input  string
	output string
}

func (j job) name() string {
	if j.input == "" {
		return "<stdin>"
	}
	return j.input
}

// planJobs maps inputs to outputs.
func planJobs(inputs []string, output, format string) ([]job, error) {
	switch len(inputs) {
	case 0:
		return []job{{output: output}}, nil
	case 1:
		return []job{{input: inputs[0], output: output}}, nil
	}

	ext := ".md"
	if format == config.FormatHTML {
		ext = ".html"
	}
	if output != "" {
		if err := os.MkdirAll(output, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	jobs := make([]job, 0, len(inputs))
	seen := make(map[string]string, len(inputs))
	for _, in := range inputs {
		base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)) + ext
		dir := output
		if dir == "" {
			dir = filepath.Dir(in)
		}
		out := filepath.Join(dir, base)
		if prev, ok := seen[out]; ok {
			return nil, fmt.Errorf("%s and %s would both be written to %s", prev, in, out)
		}
		seen[out] = in
		jobs = append(jobs, job{input: in, output: out})
	}
	return jobs, nil
}

type runner struct {
	cfg    *config.Config
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
}

func (r *runner) converter(j job) *docweaver.Converter {
	opts := append(r.cfg.Convert.ConverterOptions(),
		docweaver.WithWarningSink(logging.NewSink(r.logger, "file", j.name())))
	return docweaver.NewConverter(nil, opts...)
}

// convertAll runs jobs in parallel and returns the first failure.
func (r *runner) convertAll(ctx context.Context, jobs []job) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return r.convert(j)
		})
	}
	return g.Wait()
}

func (r *runner) convert(j job) error {
	start := time.Now()

	in := r.stdin
	if j.input != "" {
		f, err := os.Open(j.input)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	md, err := r.converter(j).ConvertReader(in)
	if err != nil {
		return fmt.Errorf("%s: %w", j.name(), err)
	}
	out := []byte(md)
	if r.cfg.Convert.Format == config.FormatHTML {
		if out, err = docweaver.RenderHTML(out); err != nil {
			return fmt.Errorf("%s: %w", j.name(), err)
		}
	}

	if j.output == "" {
		if _, err := r.stdout.Write(out); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	} else if err := os.WriteFile(j.output, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	r.logger.Debug("Converted", "file", j.name(), "output", j.output, "bytes", len(out), "duration", time.Since(start))
	return nil
}

// watch converts every job once, then again whenever its input changes.
// Conversion failures are logged and do not stop watching.
func (r *runner) watch(ctx context.Context, jobs []job) error {
	byPath := make(map[string]job, len(jobs))
	files := make([]string, 0, len(jobs))
	for _, j := range jobs {
		if j.input == "" {
			return errors.New("--watch needs input files")
		}
		abs, err := filepath.Abs(j.input)
		if err != nil {
			return err
		}
		byPath[abs] = j
		files = append(files, j.input)
	}

	if err := r.convertAll(ctx, jobs); err != nil {
		r.logger.Error("Initial conversion failed", "error", err)
	}

	w, err := watch.New(watch.Config{Files: files, Debounce: r.cfg.Watch.Debounce}, r.logger)
	if err != nil {
		return err
	}
	return w.Run(ctx, func(path string) error {
		j, ok := byPath[path]
		if !ok {
			return nil
		}
		if err := r.convert(j); err != nil {
			return err
		}
		r.logger.Info("Converted", "file", j.name())
		return nil
	})
}
