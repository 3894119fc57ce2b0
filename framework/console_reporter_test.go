package framework

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ansiGreen  = "\x1b[32m"
	ansiRed    = "\x1b[31m"
	ansiCyan   = "\x1b[36m"
	ansiYellow = "\x1b[33m"
	ansiReset  = "\x1b[0m"
)

func specResult(path []string, status SpecStatus, expectations ...FailedExpectation) SpecResult {
	r := newSpecResult(TestID{Path: path})
	r.Status = status
	r.FailedExpectations = expectations
	return r
}

func TestConsoleReporterScenario(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(WithWriter(&buf))

	r.RunStarted(RunInfo{TotalSpecsDefined: 2})
	r.SuiteStarted(SuiteInfo{FullName: "suite"})
	r.SpecStarted(specResult([]string{"suite", "desc A"}, ""))
	r.SpecFinished(specResult([]string{"suite", "desc A"}, StatusPassed))
	r.SpecStarted(specResult([]string{"suite", "desc B"}, ""))
	r.SpecFinished(specResult([]string{"suite", "desc B"}, StatusFailed,
		FailedExpectation{Message: "expected 1 to equal 2", Stack: "at foo\nat bar"}))
	r.SuiteFinished(SuiteResult{FullName: "suite"})
	r.RunFinished(RunResult{})

	expected := ansiCyan + "Running 2 specs" + ansiReset + "\n" +
		ansiCyan + "Running suite suite" + ansiReset + "\n" +
		ansiGreen + "  Pass: desc A" + ansiReset + "\n" +
		ansiRed + "  Fail: desc B" + ansiReset + "\n" +
		ansiCyan + "\n\nFailures:" + ansiReset + "\n" +
		ansiRed + "suite desc B" + ansiReset + "\n" +
		"  Message:\n" +
		ansiRed + "    expected 1 to equal 2" + ansiReset + "\n" +
		"  Stack:\n" +
		"    at foo\n" +
		"    at bar\n"
	assert.Equal(t, expected, buf.String())
}

func TestConsoleReporterNoFailuresPrintsNoDigest(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(WithWriter(&buf))
	r.RunStarted(RunInfo{TotalSpecsDefined: 1})
	r.SpecFinished(specResult([]string{"a"}, StatusPassed))
	r.RunFinished(RunResult{})

	assert.NotContains(t, buf.String(), "Failures:")
}

func TestConsoleReporterDigestKeepsCompletionOrder(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(WithWriter(&buf), WithNoColor(true))
	r.RunStarted(RunInfo{TotalSpecsDefined: 5})
	r.SpecFinished(specResult([]string{"s", "third"}, StatusFailed))
	r.SpecFinished(specResult([]string{"s", "ok"}, StatusPassed))
	r.SpecFinished(specResult([]string{"s", "first"}, StatusFailed))
	r.SpecFinished(specResult([]string{"s", "third"}, StatusFailed))
	r.SpecFinished(specResult([]string{"s", "skipped"}, StatusPending))
	r.RunFinished(RunResult{})

	failed := r.FailedSpecs()
	require.Len(t, failed, 3)
	assert.Equal(t, []string{"s third", "s first", "s third"},
		[]string{failed[0].FullName, failed[1].FullName, failed[2].FullName})

	digest := buf.String()[strings.Index(buf.String(), "Failures:"):]
	assert.NotContains(t, digest, "s ok")
	assert.NotContains(t, digest, "s skipped")
	assert.Equal(t, 2, strings.Count(digest, "s third\n"))
}

func TestConsoleReporterFailedSpecWithoutExpectations(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(WithWriter(&buf), WithNoColor(true))
	r.RunStarted(RunInfo{TotalSpecsDefined: 1})
	r.SpecFinished(specResult([]string{"s", "broken"}, StatusFailed))
	r.RunFinished(RunResult{})

	assert.Equal(t, "Running 1 specs\n  Fail: broken\n\n\nFailures:\ns broken\n", buf.String())
}

func TestConsoleReporterToleratesEmptyMessageAndStack(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(WithWriter(&buf), WithNoColor(true))
	r.RunStarted(RunInfo{})
	r.SpecFinished(specResult([]string{"x"}, StatusFailed, FailedExpectation{}))
	assert.NotPanics(t, func() { r.RunFinished(RunResult{}) })

	assert.True(t, strings.HasSuffix(buf.String(), "x\n  Message:\n    \n  Stack:\n    \n"))
}

func TestConsoleReporterRendersPendingAndExcludedAsSkipped(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(WithWriter(&buf))
	pending := specResult([]string{"s", "later"}, StatusPending)
	pending.PendingReason = "temporarily disabled with XIt"
	r.SpecFinished(pending)
	r.SpecFinished(specResult([]string{"s", "filtered"}, StatusExcluded))

	assert.Equal(t,
		ansiYellow+"  Skip: later (temporarily disabled with XIt)"+ansiReset+"\n"+
			ansiYellow+"  Skip: filtered"+ansiReset+"\n",
		buf.String())
	assert.Empty(t, r.FailedSpecs())
}

func TestConsoleReporterResetsStateAtRunStart(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(WithWriter(&buf), WithNoColor(true))
	r.RunStarted(RunInfo{})
	r.SpecFinished(specResult([]string{"old"}, StatusFailed))
	r.RunFinished(RunResult{})

	buf.Reset()
	r.RunStarted(RunInfo{})
	r.RunFinished(RunResult{})
	assert.Empty(t, r.FailedSpecs())
	assert.NotContains(t, buf.String(), "Failures:")
}

func TestConsoleReporterDebugOutput(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(WithWriter(&buf), WithNoColor(true), WithDebugOutput(true, false))

	logger := CapturingLogger{now: fixedTime}
	logger.Printf("connected to %s", "db")
	failed := specResult([]string{"f"}, StatusFailed)
	failed.DebugOutput = logger.Output()
	passed := specResult([]string{"p"}, StatusPassed)
	passed.DebugOutput = logger.Output()

	r.SpecFinished(passed)
	r.SpecFinished(failed)

	assert.Equal(t,
		"  Pass: p\n  Fail: f\n    DEBUG [2020-01-02 03:04:05.000] connected to db\n",
		buf.String())
}

func TestColorWrapping(t *testing.T) {
	r := NewConsoleReporter()
	for _, text := range []string{"", "plain", "two\nlines", "  spaced  "} {
		wrapped := r.failure.Sprint(text)
		assert.True(t, strings.HasPrefix(wrapped, ansiRed))
		assert.True(t, strings.HasSuffix(wrapped, ansiReset))
		assert.Equal(t, text, strings.TrimSuffix(strings.TrimPrefix(wrapped, ansiRed), ansiReset))
	}
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "    at foo\n    at bar", Indent("at foo\nat bar", 4))
	assert.Equal(t, "  ", Indent("", 2))
	assert.Equal(t, "  a\n  \n  b", Indent("a\n\nb", 2))
	assert.Equal(t, "x\ny", Indent("x\ny", 0))

	for _, text := range []string{"one", "one\ntwo\nthree", "\n\n", "trailing\n"} {
		indented := Indent(text, 3)
		lines := strings.Split(indented, "\n")
		assert.Len(t, lines, strings.Count(text, "\n")+1)
		for _, line := range lines {
			assert.True(t, strings.HasPrefix(line, "   "), "line %q", line)
		}
	}
}
