// skipif evaluates platform skip conditions and audits test runs for
// skipped tests.
//
// Usage:
//
//	skipif eval -platform darwin/arm64
//	go test -json ./... | skipif audit -rules skiprules.yaml -strict
//	skipif vet skiprules.yaml
//	go test -json ./... | skipif
//
// Accepts two input formats on stdin:
//   - go test -json (test execution results, routed to audit)
//   - skip rule files in YAML (routed to vet)
//
// Output modes (auto-detected):
//
//	terminal  — styled Unicode output (default when TTY)
//	llm       — terse plain text for AI consumption (default when piped)
//	json      — structured JSON for automation
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"golang.org/x/term"

	"github.com/dkoosis/skipif/internal/config"
	"github.com/dkoosis/skipif/internal/detect"
	"github.com/dkoosis/skipif/internal/version"
	"github.com/dkoosis/skipif/pkg/audit"
	"github.com/dkoosis/skipif/pkg/mapper"
	"github.com/dkoosis/skipif/pkg/pattern"
	"github.com/dkoosis/skipif/pkg/platform"
	"github.com/dkoosis/skipif/pkg/render"
	"github.com/dkoosis/skipif/pkg/rules"
	"github.com/dkoosis/skipif/pkg/skip"
	"github.com/dkoosis/skipif/pkg/stream"
	"github.com/dkoosis/skipif/pkg/testjson"
	"github.com/dkoosis/skipif/pkg/tui"
)

const usageText = `skipif - platform-conditional test skipping

Usage:
  skipif eval [flags] [condition ...]   evaluate conditions against a platform
  skipif audit [flags]                  audit a go test -json run for skips
  skipif vet [flags] <rules.yaml ...>   validate rule files and show verdicts
  skipif list [flags]                   list conditions with verdicts
  skipif version                        print version and host platform
  ... | skipif                          auto-detect input (test json or rules)

Flags:
  -format auto|terminal|llm|json   output format (default auto)
  -theme default|orca|mono         color theme
  -platform os/arch                evaluate against a platform other than the host
  -rules path                      rule file to load (repeatable)
  -strict                          exit 1 when a skip has no known condition
  -interactive                     browse an audit report interactively
  -i file                          read input from a file instead of stdin
  -no-color                        disable styled output
  -ci                              CI mode: plain output
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	// Subcommand dispatch before flag parsing
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		switch args[0] {
		case "eval":
			return runEval(args[1:], stdout, stderr)
		case "audit":
			return runAudit(args[1:], stdin, stdout, stderr)
		case "vet":
			return runVet(args[1:], stdout, stderr)
		case "list":
			return runList(args[1:], stdout, stderr)
		case "version":
			fmt.Fprintln(stdout, version.String())
			fmt.Fprintf(stdout, "host: %s\n", platform.Host())
			return 0
		case "help":
			fmt.Fprint(stdout, usageText)
			return 0
		default:
			fmt.Fprintf(stderr, "skipif: unknown command %q\n\n", args[0])
			fmt.Fprint(stderr, usageText)
			return 2
		}
	}
	return runAuto(args, stdin, stdout, stderr)
}

// multiFlag collects repeated flag values, splitting each on commas.
type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }

func (m *multiFlag) Set(v string) error {
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			*m = append(*m, p)
		}
	}
	return nil
}

// cliValues holds flag targets shared across subcommands.
type cliValues struct {
	format      string
	theme       string
	platform    string
	rules       multiFlag
	strict      bool
	interactive bool
	noColor     bool
	ci          bool
	debug       bool
	input       string
}

func newFlagSet(name string, v *cliValues, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&v.format, "format", "", "Output format: auto, terminal, llm, json")
	fs.StringVar(&v.theme, "theme", "", "Theme: default, orca, mono")
	fs.BoolVar(&v.noColor, "no-color", false, "Disable styled output")
	fs.BoolVar(&v.ci, "ci", false, "CI-friendly plain output")
	fs.BoolVar(&v.debug, "debug", false, "Print config resolution detail to stderr")
	return fs
}

func addPlatformFlag(fs *flag.FlagSet, v *cliValues) {
	fs.StringVar(&v.platform, "platform", "", "Evaluate against os/arch instead of the host")
}

func addAuditFlags(fs *flag.FlagSet, v *cliValues) {
	fs.Var(&v.rules, "rules", "Rule file to load (repeatable)")
	fs.BoolVar(&v.strict, "strict", false, "Exit 1 when any skip lacks a known condition")
	fs.BoolVar(&v.interactive, "interactive", false, "Browse the report in a terminal UI")
	fs.StringVar(&v.input, "i", "", "Read input from a file instead of stdin")
}

// resolveFlags folds parsed flags into the layered configuration.
// Returns (config, -1) on success; (nil, exitCode) on error.
func resolveFlags(fs *flag.FlagSet, v *cliValues, stderr io.Writer) (*config.ResolvedConfig, int) {
	cf := config.CliFlags{
		Format:      v.format,
		Theme:       v.theme,
		Platform:    v.platform,
		Rules:       []string(v.rules),
		Strict:      v.strict,
		Interactive: v.interactive,
		NoColor:     v.noColor,
		CI:          v.ci,
		Debug:       v.debug,
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "strict":
			cf.StrictSet = true
		case "interactive":
			cf.InteractiveSet = true
		case "no-color":
			cf.NoColorSet = true
		case "ci":
			cf.CISet = true
		case "debug":
			cf.DebugSet = true
		}
	})

	resolved, err := config.ResolveConfig(cf)
	if err != nil {
		fmt.Fprintf(stderr, "skipif: %v\n", err)
		return nil, 2
	}
	if resolved.Debug {
		fmt.Fprintf(stderr, "[debug] format=%s theme=%s(%s) platform=%q rules=%v strict=%t\n",
			resolved.Format, resolved.Theme, resolved.ThemeSource, resolved.Platform, resolved.Rules, resolved.Strict)
	}
	return resolved, -1
}

// targetPlatform resolves the -platform flag, defaulting to the host.
func targetPlatform(spec string, stderr io.Writer) (platform.Descriptor, int) {
	if spec == "" {
		return platform.Host(), -1
	}
	d, err := platform.Parse(spec)
	if err != nil {
		fmt.Fprintf(stderr, "skipif: %v\n", err)
		return platform.Descriptor{}, 2
	}
	return d, -1
}

// selectConditions resolves positional condition names against the
// built-ins, defaulting to all of them.
func selectConditions(names []string, stderr io.Writer) ([]skip.Condition, int) {
	reg := skip.NewRegistry()
	skip.RegisterBuiltins(reg)
	if len(names) == 0 {
		return reg.Conditions(), -1
	}
	conds := make([]skip.Condition, 0, len(names))
	for _, name := range names {
		c, ok := reg.Lookup(name)
		if !ok {
			fmt.Fprintf(stderr, "skipif: unknown condition %q\n", name)
			return nil, 2
		}
		conds = append(conds, c)
	}
	return conds, -1
}

// loadRuleSets loads every rule file and gathers the conditions the
// audit can explain skips with: built-ins plus file-local ones.
func loadRuleSets(paths []string, stderr io.Writer) ([]*rules.Set, []skip.Condition, int) {
	reg := skip.NewRegistry()
	skip.RegisterBuiltins(reg)
	conds := reg.Conditions()

	var sets []*rules.Set
	for _, path := range paths {
		set, err := rules.Load(path)
		if err != nil {
			fmt.Fprintf(stderr, "skipif: %v\n", err)
			return nil, nil, 2
		}
		sets = append(sets, set)
		conds = append(conds, set.Conditions()...)
	}
	return sets, conds, -1
}

func runEval(args []string, stdout, stderr io.Writer) int {
	var v cliValues
	fs := newFlagSet("skipif eval", &v, stderr)
	addPlatformFlag(fs, &v)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	resolved, code := resolveFlags(fs, &v, stderr)
	if code >= 0 {
		return code
	}
	d, code := targetPlatform(resolved.Platform, stderr)
	if code >= 0 {
		return code
	}
	conds, code := selectConditions(fs.Args(), stderr)
	if code >= 0 {
		return code
	}

	eval := skip.EvalAll(conds, d)
	renderPatterns(mapper.FromEvaluation(eval), resolved, stdout)
	if eval.AnySkip() {
		return 1
	}
	return 0
}

func runList(args []string, stdout, stderr io.Writer) int {
	var v cliValues
	fs := newFlagSet("skipif list", &v, stderr)
	addPlatformFlag(fs, &v)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	resolved, code := resolveFlags(fs, &v, stderr)
	if code >= 0 {
		return code
	}
	d, code := targetPlatform(resolved.Platform, stderr)
	if code >= 0 {
		return code
	}
	conds, code := selectConditions(fs.Args(), stderr)
	if code >= 0 {
		return code
	}

	renderPatterns(mapper.FromList(skip.EvalAll(conds, d)), resolved, stdout)
	return 0
}

func runVet(args []string, stdout, stderr io.Writer) int {
	var v cliValues
	fs := newFlagSet("skipif vet", &v, stderr)
	addPlatformFlag(fs, &v)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	resolved, code := resolveFlags(fs, &v, stderr)
	if code >= 0 {
		return code
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "skipif vet: no rule files given")
		fmt.Fprintln(stderr, "Usage: skipif vet [flags] <rules.yaml ...>")
		return 2
	}
	d, code := targetPlatform(resolved.Platform, stderr)
	if code >= 0 {
		return code
	}

	var patterns []pattern.Pattern
	for _, path := range fs.Args() {
		set, err := rules.Load(path)
		if err != nil {
			fmt.Fprintf(stderr, "skipif: %v\n", err)
			return 2
		}
		patterns = append(patterns, mapper.FromRules(d, set.Path(), set.Evaluate(d))...)
	}
	renderPatterns(patterns, resolved, stdout)
	return 0
}

func runAudit(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var v cliValues
	fs := newFlagSet("skipif audit", &v, stderr)
	addAuditFlags(fs, &v)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	resolved, code := resolveFlags(fs, &v, stderr)
	if code >= 0 {
		return code
	}
	sets, conds, code := loadRuleSets(resolved.Rules, stderr)
	if code >= 0 {
		return code
	}

	// -i reads a finished run from a file; only stdin can stream.
	if v.input != "" {
		data, err := os.ReadFile(v.input)
		if err != nil {
			fmt.Fprintf(stderr, "skipif: reading %s: %v\n", v.input, err)
			return 2
		}
		return auditBytes(data, resolved, conds, sets, stdout, stderr)
	}

	if streamMode(resolved, stdout) {
		return streamAudit(stdin, stdin, stdout, conds, sets)
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "skipif: reading stdin: %v\n", err)
		return 2
	}
	return auditBytes(data, resolved, conds, sets, stdout, stderr)
}

// runAuto handles bare invocations: sniff stdin (or -i file) and route
// to audit or vet.
func runAuto(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var v cliValues
	fs := newFlagSet("skipif", &v, stderr)
	addPlatformFlag(fs, &v)
	addAuditFlags(fs, &v)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	resolved, code := resolveFlags(fs, &v, stderr)
	if code >= 0 {
		return code
	}

	if v.input != "" {
		data, err := os.ReadFile(v.input)
		if err != nil {
			fmt.Fprintf(stderr, "skipif: reading %s: %v\n", v.input, err)
			return 2
		}
		return routeBytes(data, v.input, resolved, stdout, stderr)
	}

	// Interactive shell with nothing piped: explain instead of blocking
	// on a read that will never finish.
	if isTTYReader(stdin) {
		fmt.Fprint(stderr, usageText)
		return 2
	}

	br := bufio.NewReaderSize(stdin, 8*1024)
	peeked, _ := br.Peek(4096)
	if len(peeked) == 0 {
		fmt.Fprintln(stderr, "skipif: no input on stdin")
		return 2
	}

	if detect.Sniff(peeked) == detect.GoTestJSON {
		sets, conds, code := loadRuleSets(resolved.Rules, stderr)
		if code >= 0 {
			return code
		}
		if streamMode(resolved, stdout) {
			return streamAudit(stdin, br, stdout, conds, sets)
		}
		data, err := io.ReadAll(br)
		if err != nil {
			fmt.Fprintf(stderr, "skipif: reading stdin: %v\n", err)
			return 2
		}
		return auditBytes(data, resolved, conds, sets, stdout, stderr)
	}

	data, err := io.ReadAll(br)
	if err != nil {
		fmt.Fprintf(stderr, "skipif: reading stdin: %v\n", err)
		return 2
	}
	return routeBytes(data, "stdin", resolved, stdout, stderr)
}

// routeBytes dispatches fully-read input on its detected format.
func routeBytes(data []byte, label string, resolved *config.ResolvedConfig, stdout, stderr io.Writer) int {
	switch detect.Sniff(data) {
	case detect.GoTestJSON:
		sets, conds, code := loadRuleSets(resolved.Rules, stderr)
		if code >= 0 {
			return code
		}
		return auditBytes(data, resolved, conds, sets, stdout, stderr)
	case detect.RulesYAML:
		return vetBytes(data, label, resolved, stdout, stderr)
	default:
		fmt.Fprintln(stderr, "skipif: unrecognized input (expected go test -json or a rules file)")
		return 2
	}
}

// auditBytes parses a complete go test -json run, builds the report,
// and renders it.
func auditBytes(data []byte, resolved *config.ResolvedConfig, conds []skip.Condition, sets []*rules.Set, stdout, stderr io.Writer) int {
	if len(data) == 0 {
		fmt.Fprintln(stderr, "skipif: no input on stdin")
		return 2
	}
	results, malformed, err := testjson.ParseBytes(data)
	if err != nil {
		fmt.Fprintf(stderr, "skipif: parsing go test -json: %v\n", err)
		return 2
	}
	if malformed > 0 {
		fmt.Fprintf(stderr, "skipif: warning: %d malformed line(s) skipped\n", malformed)
	}
	report := audit.Build(platform.Host(), results, conds, sets)

	if resolved.Interactive {
		exit, err := tui.Run(context.Background(), report, render.ThemeByName(resolved.Theme))
		if err != nil {
			fmt.Fprintf(stderr, "skipif: %v\n", err)
			return 2
		}
		return exit
	}

	renderPatterns(mapper.FromAudit(report), resolved, stdout)
	return auditExitCode(report, resolved.Strict)
}

func vetBytes(data []byte, label string, resolved *config.ResolvedConfig, stdout, stderr io.Writer) int {
	d, code := targetPlatform(resolved.Platform, stderr)
	if code >= 0 {
		return code
	}
	set, err := rules.Parse(data)
	if err != nil {
		fmt.Fprintf(stderr, "skipif: %s: %v\n", label, err)
		return 2
	}
	renderPatterns(mapper.FromRules(d, label, set.Evaluate(d)), resolved, stdout)
	return 0
}

// auditExitCode: failures always win; unexplained skips count only
// under -strict.
func auditExitCode(report *audit.Report, strict bool) int {
	if report.Failed() {
		return 1
	}
	if strict && !report.Clean() {
		return 1
	}
	return 0
}

// streamMode reports whether the live ticker should handle the run:
// only when the caller asked for neither a specific format nor a
// full-report mode, and stdout is a terminal.
func streamMode(resolved *config.ResolvedConfig, stdout io.Writer) bool {
	return resolved.Format == "auto" && !resolved.Strict && !resolved.Interactive && isTTYWriter(stdout)
}

// streamAudit renders events live. closer is the raw stdin to close on
// cancel; r is what we read (possibly buffered).
func streamAudit(closer, r io.Reader, stdout io.Writer, conds []skip.Condition, sets []*rules.Set) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	// Close the underlying reader on cancel to unblock Stream's scanner
	// goroutine. bufio.Reader doesn't implement io.Closer, so Stream
	// can't close it itself.
	if c, ok := closer.(io.Closer); ok {
		stopClose := context.AfterFunc(ctx, func() { _ = c.Close() })
		defer stopClose()
	}
	width, height := termSize(stdout)
	explain := func(rec testjson.SkipRecord) (string, bool) {
		return audit.Explain(rec, conds, sets)
	}
	return stream.Run(ctx, r, stdout, width, height, nil, explain)
}

func renderPatterns(patterns []pattern.Pattern, resolved *config.ResolvedConfig, stdout io.Writer) {
	mode := resolveFormat(resolved.Format, stdout)
	fmt.Fprint(stdout, selectRenderer(mode, resolved.Theme, stdout).Render(patterns))
}

func selectRenderer(mode, themeName string, w io.Writer) render.Renderer {
	switch mode {
	case "json":
		return render.NewJSON()
	case "llm":
		return render.NewLLM()
	default:
		// NO_COLOR and CI already forced themeName to "mono" during
		// config resolution.
		theme := render.ThemeByName(themeName)
		width := 80
		if f, ok := w.(*os.File); ok {
			if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
				width = tw
			}
		}
		return render.NewTerminal(theme, width)
	}
}

func resolveFormat(format string, w io.Writer) string {
	if format != "auto" {
		return format
	}
	// Auto-detect: TTY = terminal, piped = llm
	if isTTYWriter(w) {
		return "terminal"
	}
	return "llm"
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func isTTYReader(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termSize returns the terminal dimensions for w, defaulting to 80x24.
func termSize(w io.Writer) (width, height int) {
	width, height = 80, 24
	if f, ok := w.(*os.File); ok {
		if tw, th, err := term.GetSize(int(f.Fd())); err == nil {
			if tw > 0 {
				width = tw
			}
			if th > 0 {
				height = th
			}
		}
	}
	return width, height
}
