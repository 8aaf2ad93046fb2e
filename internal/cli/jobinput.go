package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/RollCut/internal/importer"
	"github.com/piwi3910/RollCut/internal/model"
	"github.com/piwi3910/RollCut/internal/project"
)

// jobFlags describe a job on the command line. Flags override whatever the
// job file says; the app config supplies the rest.
type jobFlags struct {
	name         string
	pieces       []string
	rollWidth    int
	rollLength   int
	maxRowPieces int
	policy       string
	interactive  bool
}

func (f *jobFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", "", "job name")
	fs.StringArrayVarP(&f.pieces, "piece", "p", nil, `piece as WxH[xQTY][:label], e.g. "600x400x2:Door" (repeatable)`)
	fs.IntVar(&f.rollWidth, "roll-width", 0, "roll width in mm")
	fs.IntVar(&f.rollLength, "roll-length", 0, "usable length of one roll in mm (0 = unlimited)")
	fs.IntVar(&f.maxRowPieces, "max-row-pieces", 0, fmt.Sprintf("most pieces tried together in one row (1-%d)", model.MaxRowPiecesLimit))
	fs.StringVar(&f.policy, "policy", "", `what to do when no row fits: "abandon" or "set-aside"`)
	fs.BoolVarP(&f.interactive, "interactive", "i", false, "enter the roll and pieces at prompts")
}

// loadJob assembles a job from an optional file argument, the flags and,
// with --interactive, prompts on stdin.
func (a *app) loadJob(cmd *cobra.Command, args []string, f *jobFlags) (model.Job, error) {
	logger := loggerFromContext(cmd.Context())

	job := model.NewJob()
	a.config.ApplyToJob(&job)

	if len(args) > 0 {
		var err error
		if job, err = readJobFile(args[0], job, logger); err != nil {
			return model.Job{}, err
		}
	}

	fs := cmd.Flags()
	if fs.Changed("name") {
		job.Name = f.name
	}
	if fs.Changed("roll-width") {
		job.Settings.RollWidth = f.rollWidth
	}
	if fs.Changed("roll-length") {
		job.RollLength = f.rollLength
	}
	if fs.Changed("max-row-pieces") {
		job.Settings.MaxRowPieces = f.maxRowPieces
	}
	if fs.Changed("policy") {
		job.Settings.Policy = model.Policy(strings.ToLower(f.policy))
	}
	for _, spec := range f.pieces {
		p, err := parsePieceSpec(spec)
		if err != nil {
			return model.Job{}, err
		}
		job.Pieces = append(job.Pieces, p)
	}

	if f.interactive {
		if err := promptJob(newPrompter(a.stdin, a.stdout), &job); err != nil {
			return model.Job{}, err
		}
	}

	if len(job.Pieces) == 0 {
		return model.Job{}, errors.New("no pieces given: pass a job file, --piece or --interactive")
	}
	return job, nil
}

// readJobFile loads a job from a TOML job file, a saved job, or a cut list
// (CSV, Excel, DXF) whose pieces are added to base.
func readJobFile(path string, base model.Job, logger *log.Logger) (model.Job, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		res := importer.ImportJobTOML(path, base)
		for _, w := range res.Warnings {
			logger.Warn(w, "file", path)
		}
		if len(res.Errors) > 0 {
			return model.Job{}, fmt.Errorf("%s: %s", path, strings.Join(res.Errors, "; "))
		}
		return res.Job, nil

	case project.JobExtension, ".json":
		return project.LoadJob(path)

	default:
		res := importer.ImportFile(path)
		for _, w := range res.Warnings {
			logger.Warn(w, "file", path)
		}
		if !res.OK() {
			return model.Job{}, fmt.Errorf("%s: %s", path, strings.Join(res.Errors, "; "))
		}
		base.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		base.Pieces = append(base.Pieces, res.Pieces...)
		logger.Debug("imported cut list", "file", path, "pieces", len(res.Pieces))
		return base, nil
	}
}

// parsePieceSpec parses "WxH", "WxHxQ" and either form followed by ":label".
func parsePieceSpec(spec string) (model.PieceType, error) {
	dims, label, _ := strings.Cut(spec, ":")
	dims = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(dims)), "×", "x")
	parts := strings.Split(dims, "x")
	if len(parts) < 2 || len(parts) > 3 {
		return model.PieceType{}, fmt.Errorf("invalid piece %q: want WxH[xQTY][:label]", spec)
	}

	nums := []int{0, 0, 1}
	for i, s := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || n <= 0 {
			return model.PieceType{}, fmt.Errorf("invalid piece %q: %q is not a positive whole number", spec, s)
		}
		nums[i] = n
	}
	return model.NewPieceType(strings.TrimSpace(label), nums[0], nums[1], nums[2]), nil
}

// prompter reads answers line by line.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(r io.Reader, w io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(r), out: w}
}

// line prints prompt and returns the trimmed answer. ok is false at end of input.
func (p *prompter) line(prompt string) (string, bool) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		fmt.Fprintln(p.out)
		return "", false
	}
	return strings.TrimSpace(p.in.Text()), true
}

// positive asks until it gets a positive integer. An empty answer returns def
// when def > 0.
func (p *prompter) positive(prompt string, def int) (int, error) {
	for {
		s, ok := p.line(prompt)
		if !ok {
			if def > 0 {
				return def, nil
			}
			return 0, io.ErrUnexpectedEOF
		}
		if s == "" && def > 0 {
			return def, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			printWarning(p.out, "Enter a whole number.")
			continue
		}
		if n <= 0 {
			printWarning(p.out, "The value must be greater than zero.")
			continue
		}
		return n, nil
	}
}

// promptJob asks for the roll and then for pieces until an empty width.
func promptJob(p *prompter, job *model.Job) error {
	fmt.Fprintln(p.out, styleTitle.Render("ROLL"))
	w, err := p.positive(fmt.Sprintf("  Roll width (mm) [%d]: ", job.Settings.RollWidth), job.Settings.RollWidth)
	if err != nil {
		return err
	}
	length := job.RollLength
	if length <= 0 {
		length = model.DefaultRollLength
	}
	l, err := p.positive(fmt.Sprintf("  Roll length (mm) [%d]: ", length), length)
	if err != nil {
		return err
	}
	job.Settings.RollWidth = w
	job.RollLength = l
	printSuccess(p.out, "Roll: %d x %d mm", w, l)

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, styleTitle.Render("PIECES")+styleDim.Render(" (empty width to finish)"))
	for n := len(job.Pieces) + 1; ; n++ {
		fmt.Fprintf(p.out, "  Piece %d\n", n)
		s, ok := p.line("    Width (mm): ")
		if !ok || s == "" {
			return nil
		}
		width, err := strconv.Atoi(s)
		if err != nil || width <= 0 {
			printWarning(p.out, "Width must be a positive whole number.")
			n--
			continue
		}
		height, err := p.positive("    Height (mm): ", 0)
		if err != nil {
			return err
		}
		qty, err := p.positive("    Quantity [1]: ", 1)
		if err != nil {
			return err
		}
		label, _ := p.line("    Label (optional): ")
		job.Pieces = append(job.Pieces, model.NewPieceType(label, width, height, qty))
		printSuccess(p.out, "Added %dx%d mm (%d)", width, height, qty)
	}
}
