package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/matzehuels/topicsheet/pkg/drafts"
	"github.com/matzehuels/topicsheet/pkg/errors"
	sheetio "github.com/matzehuels/topicsheet/pkg/io"
	"github.com/matzehuels/topicsheet/pkg/pipeline"
)

// stdoutPath selects standard output as the render destination.
const stdoutPath = "-"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output         string // output file, base path (several formats) or directory (batch)
	formats        string // comma-separated output formats
	inputFormat    string // encoding of stdin input
	draft          string // render a saved draft instead of a file
	name           string // override the draft name used for the file name
	summaryOnly    bool
	plainRowLabels bool
	title          string
	author         string
	batch          bool // input holds several sheets
	jobs           int  // parallel renders in batch mode
	noCache        bool
	refresh        bool
	force          bool // allow binary output to a terminal
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var o renderOpts

	cmd := &cobra.Command{
		Use:   "render [sheet.yaml|-]",
		Short: "Render a topic summary sheet to PDF",
		Long: `Render a topic summary sheet.

The sheet comes from a YAML, JSON or TOML file (see 'topicsheet drafts export'
for the format), from standard input with '-', or from a saved draft with
--draft. Fields left out render as empty boxes.

Output defaults to <draft name>.pdf, or Strategic_Topic_Summary.pdf when the
sheet has no name. With --batch the file holds several sheets which are
rendered in parallel into the directory given by -o.`,
		Example: `  topicsheet render q3.yaml
  topicsheet render q3.yaml -f pdf,json -o out/q3
  topicsheet render --draft "Q3 Review"
  topicsheet render --batch all.toml -o out/`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return c.runRender(cmd.Context(), input, &o)
		},
	}

	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file, base path, directory (--batch) or - for stdout")
	cmd.Flags().StringVarP(&o.formats, "format", "f", "", "output format(s): pdf (default), json, svg (comma-separated)")
	cmd.Flags().StringVar(&o.inputFormat, "input-format", sheetio.FormatYAML, "encoding of stdin input: yaml, json, toml")
	cmd.Flags().StringVarP(&o.draft, "draft", "d", "", "render the saved draft with this name")
	cmd.Flags().StringVarP(&o.name, "name", "n", "", "draft name used for the output file name")
	cmd.Flags().BoolVar(&o.summaryOnly, "summary-only", false, "render a single page with only the header band")
	cmd.Flags().BoolVar(&o.plainRowLabels, "plain-row-labels", false, "draw table row labels in the regular face")
	cmd.Flags().StringVar(&o.title, "title", "", "PDF title metadata (default: sheet title)")
	cmd.Flags().StringVar(&o.author, "author", "", "PDF author metadata")
	cmd.Flags().String("header-logo", "", "image drawn in the header band of every page")
	cmd.Flags().String("footer-logo", "", "image drawn at the bottom left of the last page")
	cmd.Flags().String("cache", "", "render cache: file, redis, none")
	cmd.Flags().BoolVar(&o.batch, "batch", false, "input holds several sheets under 'sheets'")
	cmd.Flags().IntVarP(&o.jobs, "jobs", "j", pipeline.DefaultBatchLimit, "parallel renders in batch mode")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&o.force, "force", false, "write binary output to a terminal")

	return cmd
}

// runRender loads the sheets, renders them and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, input string, o *renderOpts) error {
	formats := parseFormats(o.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}

	sheets, err := c.loadSheets(ctx, input, o)
	if err != nil {
		return err
	}
	if o.output == stdoutPath {
		if len(sheets) != 1 || len(formats) != 1 {
			return errors.New(errors.ErrCodeInvalidInput, "stdout output takes exactly one sheet and one format")
		}
		if formats[0] == pipeline.FormatPDF && !o.force && term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New(errors.ErrCodeInvalidInput, "refusing to write a PDF to a terminal (use -o FILE or --force)")
		}
		prev := statusOut
		statusOut = os.Stderr
		defer func() { statusOut = prev }()
	}

	base, err := c.renderDefaults()
	if err != nil {
		return err
	}
	batch := make([]pipeline.Options, len(sheets))
	for i, s := range sheets {
		opts := base
		opts.Fields = s.Fields
		opts.DraftName = s.Name
		opts.SummaryOnly = o.summaryOnly
		opts.PlainRowLabels = o.plainRowLabels
		opts.Formats = formats
		opts.Title = o.title
		opts.Author = o.author
		opts.Refresh = o.refresh
		batch[i] = opts
	}

	runner, err := c.newRunner(ctx, o.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if !o.batch {
		return c.renderOne(ctx, runner, batch[0], o.output)
	}
	return c.renderBatch(ctx, runner, batch, o)
}

// loadSheets resolves the render input: a draft, stdin, a file or a batch.
func (c *CLI) loadSheets(ctx context.Context, input string, o *renderOpts) ([]sheetio.File, error) {
	switch {
	case o.draft != "" && input != "":
		return nil, errors.New(errors.ErrCodeInvalidInput, "give either a sheet file or --draft, not both")
	case o.draft != "":
		if o.batch {
			return nil, errors.New(errors.ErrCodeInvalidInput, "--batch needs a batch file")
		}
		store, owner, err := c.openDrafts(ctx)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		f, err := draftFields(ctx, store, owner, o.draft)
		if err != nil {
			return nil, err
		}
		f.Name = withName(f.Name, o.name)
		return []sheetio.File{f}, nil
	case input == "":
		return nil, errors.New(errors.ErrCodeInvalidInput, "give a sheet file, - for stdin, or --draft NAME")
	case o.batch:
		if input == stdoutPath {
			return nil, errors.New(errors.ErrCodeInvalidInput, "--batch reads from a file")
		}
		b, err := sheetio.ImportBatch(input)
		if err != nil {
			return nil, err
		}
		if len(b.Sheets) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "batch %s holds no sheets", input)
		}
		return b.Sheets, nil
	}

	var (
		f   sheetio.File
		err error
	)
	if input == stdoutPath {
		f, err = sheetio.ReadFile(os.Stdin, o.inputFormat)
	} else {
		f, err = sheetio.ImportFile(input)
	}
	if err != nil {
		return nil, err
	}
	f.Name = withName(f.Name, o.name)
	return []sheetio.File{f}, nil
}

func withName(name, override string) string {
	if override != "" {
		return override
	}
	return name
}

// renderOne renders a single sheet with a spinner and writes its artifacts.
func (c *CLI) renderOne(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, output string) error {
	spinner := newSpinnerWithContext(ctx, "Composing sheet...")
	if output != stdoutPath {
		spinner.Start()
	}

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		if output != stdoutPath {
			spinner.StopWithError("Render failed")
		}
		return err
	}
	if output != stdoutPath {
		spinner.Stop()
	}

	if output == stdoutPath {
		data := result.Artifacts[opts.Formats[0]]
		if _, err := c.Out.Write(data); err != nil {
			return errors.Wrap(errors.ErrCodeOutputWrite, err, "write stdout")
		}
		printWarnings(result)
		return nil
	}

	paths, err := writeArtifacts(result, opts, output, false)
	if err != nil {
		return err
	}
	printSuccess("Rendered %s", sheetTitle(opts))
	for _, p := range paths {
		printFile(p)
	}
	printStats(result)
	printWarnings(result)
	return nil
}

// renderBatch renders every sheet in parallel and writes them to a directory.
func (c *CLI) renderBatch(ctx context.Context, runner *pipeline.Runner, batch []pipeline.Options, o *renderOpts) error {
	dir := o.output
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "create output directory")
	}

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d sheets...", len(batch)))
	spinner.Start()
	results, err := runner.ExecuteBatch(ctx, batch, o.jobs)
	if err != nil {
		spinner.StopWithError("Batch failed")
		return err
	}
	spinner.Stop()

	seen := make(map[string]int)
	for i, res := range results {
		opts := batch[i]
		if n := seen[opts.Filename(pipeline.DefaultFormat)]; n > 0 {
			logger.Warn("duplicate sheet name, later sheet overwrites earlier", "name", sheetTitle(opts))
		}
		seen[opts.Filename(pipeline.DefaultFormat)]++

		paths, err := writeArtifacts(res, opts, dir, true)
		if err != nil {
			return err
		}
		printSuccess("Rendered %s", sheetTitle(opts))
		for _, p := range paths {
			printFile(p)
		}
		printWarnings(res)
	}
	prog.done(fmt.Sprintf("Rendered %d sheets", len(results)))
	return nil
}

// writeArtifacts writes one file per format and returns the paths written.
func writeArtifacts(res *pipeline.Result, opts pipeline.Options, output string, isDir bool) ([]string, error) {
	paths := make([]string, 0, len(opts.Formats))
	for _, format := range opts.Formats {
		path := outputPath(output, opts, format, isDir)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.Wrap(errors.ErrCodeOutputWrite, err, "create %s", dir)
			}
		}
		if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
			return nil, errors.Wrap(errors.ErrCodeOutputWrite, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// outputPath derives the file written for format.
//
//   - no output: the sheet's file name in the working directory
//   - a directory: the sheet's file name inside it
//   - one format: output as given
//   - several formats: output with its extension replaced by the format
func outputPath(output string, opts pipeline.Options, format string, isDir bool) string {
	switch {
	case output == "":
		return opts.Filename(format)
	case isDir:
		return filepath.Join(output, opts.Filename(format))
	case len(opts.Formats) == 1:
		return output
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		output = strings.TrimSuffix(output, ext)
	}
	return output + "." + format
}

// sheetTitle names a sheet in status output.
func sheetTitle(opts pipeline.Options) string {
	if opts.DraftName != "" {
		return StyleHighlight.Render(opts.DraftName)
	}
	return StyleDim.Render("untitled sheet")
}

// draftFields loads a stored draft as a sheet file.
func draftFields(ctx context.Context, store drafts.Store, owner, name string) (sheetio.File, error) {
	d, err := store.Get(ctx, owner, name)
	if stderrors.Is(err, drafts.ErrNotFound) {
		return sheetio.File{}, errors.Wrap(errors.ErrCodeDraftNotFound, err, "draft %q", name)
	}
	if err != nil {
		return sheetio.File{}, err
	}
	return sheetio.File{Name: d.Name, Fields: d.Fields}, nil
}
