package framework

import (
	"fmt"
	"io"
)

// DotReporter is the reporter an Env starts with: one character per spec, then a count.
type DotReporter struct {
	out io.Writer
}

func NewDotReporter(out io.Writer) *DotReporter {
	return &DotReporter{out: out}
}

func (d *DotReporter) RunStarted(RunInfo) {
	fmt.Fprintln(d.out, "Started")
}

func (d *DotReporter) SuiteStarted(SuiteInfo) {}

func (d *DotReporter) SpecStarted(SpecResult) {}

func (d *DotReporter) SpecFinished(result SpecResult) {
	switch result.Status {
	case StatusPassed:
		fmt.Fprint(d.out, ".")
	case StatusFailed:
		fmt.Fprint(d.out, "F")
	default:
		fmt.Fprint(d.out, "*")
	}
}

func (d *DotReporter) SuiteFinished(SuiteResult) {}

func (d *DotReporter) RunFinished(result RunResult) {
	fmt.Fprintln(d.out)
	fmt.Fprintln(d.out)
	summary := fmt.Sprintf("%d %s, %d %s",
		len(result.Specs), plural(len(result.Specs), "spec"),
		len(result.Failures), plural(len(result.Failures), "failure"))
	if n := result.Pending(); n > 0 {
		summary += fmt.Sprintf(", %d pending", n)
	}
	fmt.Fprintln(d.out, summary)
	if result.OverallStatus == OverallIncomplete && result.IncompleteReason != "" {
		fmt.Fprintf(d.out, "Incomplete: %s\n", result.IncompleteReason)
	}
	if result.Order.Random {
		fmt.Fprintf(d.out, "Randomized with seed %d\n", result.Order.Seed)
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
