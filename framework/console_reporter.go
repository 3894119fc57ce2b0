package framework

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

const stackIndent = 4

// ConsoleReporter prints a colored line for every suite and spec, and a digest of all failures
// when the run finishes.
type ConsoleReporter struct {
	out                  io.Writer
	title                *color.Color
	success              *color.Color
	failure              *color.Color
	skip                 *color.Color
	debugOutputOnFailure bool
	debugOutputOnSuccess bool
	failedSpecs          []SpecResult
}

type ConsoleOption func(*ConsoleReporter)

// WithWriter sends output somewhere other than stdout.
func WithWriter(w io.Writer) ConsoleOption {
	return func(r *ConsoleReporter) {
		r.out = w
	}
}

// WithNoColor drops the ANSI escape sequences.
func WithNoColor(noColor bool) ConsoleOption {
	return func(r *ConsoleReporter) {
		for _, c := range []*color.Color{r.title, r.success, r.failure, r.skip} {
			if noColor {
				c.DisableColor()
			} else {
				c.EnableColor()
			}
		}
	}
}

// WithDebugOutput dumps each spec's captured debug log after its result line.
func WithDebugOutput(onFailure, onSuccess bool) ConsoleOption {
	return func(r *ConsoleReporter) {
		r.debugOutputOnFailure = onFailure
		r.debugOutputOnSuccess = onSuccess
	}
}

// NewConsoleReporter always colors its output unless WithNoColor(true) is given, even when stdout
// is not a terminal.
func NewConsoleReporter(opts ...ConsoleOption) *ConsoleReporter {
	r := &ConsoleReporter{
		out:     os.Stdout,
		title:   color.New(color.FgCyan),
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		skip:    color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{r.title, r.success, r.failure, r.skip} {
		c.EnableColor()
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *ConsoleReporter) RunStarted(info RunInfo) {
	r.failedSpecs = nil
	r.println(r.title, fmt.Sprintf("Running %d specs", info.TotalSpecsDefined))
}

func (r *ConsoleReporter) SuiteStarted(info SuiteInfo) {
	r.println(r.title, fmt.Sprintf("Running suite %s", info.FullName))
}

func (r *ConsoleReporter) SpecStarted(SpecResult) {}

func (r *ConsoleReporter) SpecFinished(result SpecResult) {
	switch result.Status {
	case StatusPassed:
		r.println(r.success, "  Pass: "+result.Description)
	case StatusPending, StatusExcluded:
		line := "  Skip: " + result.Description
		if result.PendingReason != "" {
			line += " (" + result.PendingReason + ")"
		}
		r.println(r.skip, line)
	default:
		r.println(r.failure, "  Fail: "+result.Description)
		r.failedSpecs = append(r.failedSpecs, result)
	}
	failed := result.Status == StatusFailed
	if len(result.DebugOutput) > 0 &&
		((failed && r.debugOutputOnFailure) || (!failed && r.debugOutputOnSuccess)) {
		result.DebugOutput.Dump(r.out, "    DEBUG ")
	}
}

func (r *ConsoleReporter) SuiteFinished(SuiteResult) {}

func (r *ConsoleReporter) RunFinished(RunResult) {
	if len(r.failedSpecs) == 0 {
		return
	}
	r.println(r.title, "\n\nFailures:")
	for _, spec := range r.failedSpecs {
		r.println(r.failure, spec.FullName)
		for _, e := range spec.FailedExpectations {
			r.println(nil, "  Message:")
			r.println(r.failure, "    "+e.Message)
			r.println(nil, "  Stack:")
			r.println(nil, Indent(e.Stack, stackIndent))
		}
	}
}

// FailedSpecs returns the failed specs recorded so far in the order they finished.
func (r *ConsoleReporter) FailedSpecs() []SpecResult {
	return append([]SpecResult(nil), r.failedSpecs...)
}

func (r *ConsoleReporter) println(c *color.Color, text string) {
	if c != nil {
		text = c.Sprint(text)
	}
	fmt.Fprintln(r.out, text)
}

// Indent prefixes every line of text, including empty ones, with the given number of spaces.
func Indent(text string, spaces int) string {
	prefix := strings.Repeat(" ", spaces)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
