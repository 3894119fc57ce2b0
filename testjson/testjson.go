// Package testjson replays the event stream written by "go test -json" through a
// framework.Reporter, so the same console output can be used for ordinary Go tests.
//
// Packages become top-level suites, tests that run subtests become nested suites, and every
// other test becomes a spec.
package testjson

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/specbasis/specbasis/framework"
)

const maxLineSize = 1024 * 1024

// Failures that belong to a package or to a test with subtests are reported as a spec with one of
// these descriptions, so they show up in the failure digest.
const (
	packageSpecName  = "(package)"
	testBodySpecName = "(test body)"
)

// Event is one line of go test -json output.
type Event struct {
	Action  string
	Package string
	Test    string
	Output  string
	Elapsed float64
}

// ParseEvent extracts the fields of a single JSON line.
func ParseEvent(line []byte) (Event, error) {
	if !gjson.ValidBytes(line) {
		return Event{}, fmt.Errorf("not valid JSON: %q", truncate(string(line), 80))
	}
	fields := gjson.GetManyBytes(line, "Action", "Package", "Test", "Output", "Elapsed")
	if fields[0].String() == "" {
		return Event{}, fmt.Errorf("event has no Action: %q", truncate(string(line), 80))
	}
	return Event{
		Action:  fields[0].String(),
		Package: fields[1].String(),
		Test:    fields[2].String(),
		Output:  fields[3].String(),
		Elapsed: fields[4].Float(),
	}, nil
}

type packageNode struct {
	name   string
	tests  []*testNode
	byName map[string]*testNode
	output []string
	action string
}

type testNode struct {
	name     string // full go test name, e.g. TestFoo/sub_case
	children []*testNode
	output   []string
	action   string
	elapsed  float64
}

// Collector accumulates events until the stream is complete.
type Collector struct {
	packages []*packageNode
	byName   map[string]*packageNode
}

func NewCollector() *Collector {
	return &Collector{byName: make(map[string]*packageNode)}
}

// Read collects every event from r. Blank lines are ignored; anything else that is not a test
// event is an error naming the line.
func Read(r io.Reader) (*Collector, error) {
	c := NewCollector()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		ev, err := ParseEvent(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		c.Add(ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}
	return c, nil
}

func (c *Collector) Add(ev Event) {
	pkg := c.pkg(ev.Package)
	if ev.Test == "" {
		switch ev.Action {
		case "output":
			pkg.output = append(pkg.output, ev.Output)
		case "pass", "fail", "skip":
			pkg.action = ev.Action
		}
		return
	}
	test := pkg.test(ev.Test)
	switch ev.Action {
	case "output":
		if !isFramingLine(ev.Output) {
			test.output = append(test.output, ev.Output)
		}
	case "pass", "fail", "skip":
		test.action = ev.Action
		test.elapsed = ev.Elapsed
	}
}

func (c *Collector) pkg(name string) *packageNode {
	p := c.byName[name]
	if p == nil {
		p = &packageNode{name: name, byName: make(map[string]*testNode)}
		c.byName[name] = p
		c.packages = append(c.packages, p)
	}
	return p
}

func (p *packageNode) test(name string) *testNode {
	if t := p.byName[name]; t != nil {
		return t
	}
	t := &testNode{name: name}
	p.byName[name] = t
	if slash := strings.LastIndex(name, "/"); slash >= 0 {
		parent := p.test(name[:slash])
		parent.children = append(parent.children, t)
	} else {
		p.tests = append(p.tests, t)
	}
	return t
}

func isFramingLine(output string) bool {
	trimmed := strings.TrimLeft(output, " ")
	for _, prefix := range []string{"=== RUN ", "=== PAUSE ", "=== CONT ", "=== NAME ", "--- PASS: ", "--- FAIL: ", "--- SKIP: "} {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// SpecCount returns the number of leaf tests collected.
func (c *Collector) SpecCount() int {
	n := 0
	for _, p := range c.packages {
		for _, t := range p.tests {
			n += t.specCount()
		}
		if _, ok := p.ownFailure(); ok {
			n++
		}
	}
	return n
}

func (t *testNode) specCount() int {
	if len(t.children) == 0 {
		return 1
	}
	n := 0
	for _, c := range t.children {
		n += c.specCount()
	}
	if _, ok := t.ownFailure(); ok {
		n++
	}
	return n
}

// failed reports whether the test or anything below it failed. A leaf with no final action was cut
// off and counts as failed.
func (t *testNode) failed() bool {
	if t.action == "fail" || (len(t.children) == 0 && t.action == "") {
		return true
	}
	for _, c := range t.children {
		if c.failed() {
			return true
		}
	}
	return false
}

// ownFailure returns the failure of a test with subtests that is not explained by a failed
// subtest: output of its own, or a failure while every subtest passed.
func (t *testNode) ownFailure() ([]framework.FailedExpectation, bool) {
	if len(t.children) == 0 || t.action != "fail" {
		return nil, false
	}
	if expectations := ParseFailureOutput(t.output); len(expectations) != 0 {
		return expectations, true
	}
	for _, c := range t.children {
		if c.failed() {
			return nil, false
		}
	}
	return []framework.FailedExpectation{{Message: "test failed"}}, true
}

// ownFailure returns the failure of a package in which no test failed, such as a build error or
// a panic in an init function.
func (p *packageNode) ownFailure() ([]framework.FailedExpectation, bool) {
	if p.action != "fail" {
		return nil, false
	}
	for _, t := range p.tests {
		if t.failed() {
			return nil, false
		}
	}
	if expectations := ParseFailureOutput(p.output); len(expectations) != 0 {
		return expectations, true
	}
	return []framework.FailedExpectation{{Message: "package failed"}}, true
}

type replay struct {
	reporter framework.Reporter
	result   framework.RunResult
	failed   bool
}

// Replay delivers the collected run to reporter as a complete lifecycle and returns its result.
func (c *Collector) Replay(reporter framework.Reporter) framework.RunResult {
	r := &replay{reporter: reporter}
	reporter.RunStarted(framework.RunInfo{TotalSpecsDefined: c.SpecCount()})
	for _, p := range c.packages {
		r.replayPackage(p)
	}
	switch {
	case r.failed || len(r.result.Failures) != 0:
		r.result.OverallStatus = framework.OverallFailed
	case len(r.result.Specs) == 0:
		r.result.OverallStatus, r.result.IncompleteReason = framework.OverallIncomplete, "no tests found"
	default:
		r.result.OverallStatus = framework.OverallPassed
	}
	reporter.RunFinished(r.result)
	return r.result
}

func (r *replay) replayPackage(p *packageNode) {
	id := framework.TestID{Path: []string{p.name}}
	r.reporter.SuiteStarted(framework.SuiteInfo{ID: id, Description: p.name, FullName: p.name})
	for _, t := range p.tests {
		r.replayTest(id, t)
	}
	suite := framework.SuiteResult{ID: id, Description: p.name, FullName: p.name, Status: framework.StatusPassed}
	if expectations, ok := p.ownFailure(); ok {
		r.replayFailure(id, packageSpecName, expectations)
		suite.FailedExpectations = expectations
	}
	if p.action == "fail" {
		suite.Status = framework.StatusFailed
		r.failed = true
	}
	r.reporter.SuiteFinished(suite)
}

func (r *replay) replayTest(parent framework.TestID, t *testNode) {
	id := framework.TestID{Path: append(append([]string(nil), parent.Path...), shortName(t.name))}
	if len(t.children) > 0 {
		r.reporter.SuiteStarted(framework.SuiteInfo{ID: id, Description: id.Description(), FullName: id.FullName()})
		for _, c := range t.children {
			r.replayTest(id, c)
		}
		suite := framework.SuiteResult{ID: id, Description: id.Description(), FullName: id.FullName(), Status: framework.StatusPassed}
		if expectations, ok := t.ownFailure(); ok {
			r.replayFailure(id, testBodySpecName, expectations)
			suite.FailedExpectations = expectations
		}
		if t.action == "fail" {
			suite.Status = framework.StatusFailed
			r.failed = true
		}
		r.reporter.SuiteFinished(suite)
		return
	}

	spec := framework.SpecResult{
		ID:          id,
		Description: id.Description(),
		FullName:    id.FullName(),
		Duration:    time.Duration(t.elapsed * float64(time.Second)),
	}
	r.reporter.SpecStarted(spec)
	switch t.action {
	case "pass":
		spec.Status = framework.StatusPassed
	case "skip":
		spec.Status = framework.StatusPending
		spec.PendingReason = skipReason(t.output)
	default:
		// a test with no final action was cut off, e.g. by a panic in another test
		spec.Status = framework.StatusFailed
		spec.FailedExpectations = ParseFailureOutput(t.output)
		if t.action == "" && len(spec.FailedExpectations) == 0 {
			spec.FailedExpectations = []framework.FailedExpectation{{Message: "test did not finish"}}
		}
	}
	r.finishSpec(spec)
}

// replayFailure reports a failure that has no test of its own as a failed spec inside parent.
func (r *replay) replayFailure(parent framework.TestID, name string, expectations []framework.FailedExpectation) {
	id := framework.TestID{Path: append(append([]string(nil), parent.Path...), name)}
	spec := framework.SpecResult{ID: id, Description: name, FullName: id.FullName()}
	r.reporter.SpecStarted(spec)
	spec.Status = framework.StatusFailed
	spec.FailedExpectations = expectations
	r.finishSpec(spec)
}

func (r *replay) finishSpec(spec framework.SpecResult) {
	r.result.Specs = append(r.result.Specs, spec)
	if spec.Failed() {
		r.result.Failures = append(r.result.Failures, spec)
	}
	r.reporter.SpecFinished(spec)
}

func shortName(name string) string {
	if slash := strings.LastIndex(name, "/"); slash >= 0 {
		return name[slash+1:]
	}
	return name
}

var blockHeader = regexp.MustCompile(`^ *([\w.\-]+\.go:\d+): ?(.*)$`)

// ParseFailureOutput turns the output of a failed test into expectations. Each "file.go:N:" line
// starts a new one; testify's labelled output is split into message and stack, other messages
// use the file position as their stack. Output before the first position, such as a panic,
// becomes an expectation of its own.
func ParseFailureOutput(output []string) []framework.FailedExpectation {
	type block struct {
		position string
		lines    []string
	}
	var blocks []*block
	for _, chunk := range output {
		for _, line := range strings.Split(strings.TrimRight(chunk, "\n"), "\n") {
			if m := blockHeader.FindStringSubmatch(line); m != nil {
				b := &block{position: m[1]}
				if m[2] != "" {
					b.lines = append(b.lines, m[2])
				}
				blocks = append(blocks, b)
				continue
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			if len(blocks) == 0 {
				blocks = append(blocks, &block{})
			}
			current := blocks[len(blocks)-1]
			current.lines = append(current.lines, line)
		}
	}
	ret := make([]framework.FailedExpectation, 0, len(blocks))
	for _, b := range blocks {
		text := strings.Join(b.lines, "\n")
		if e, ok := framework.ParseAssertionOutput(text); ok {
			if e.Stack == "" {
				e.Stack = b.position
			}
			ret = append(ret, e)
			continue
		}
		lines := make([]string, len(b.lines))
		for i, l := range b.lines {
			lines[i] = strings.TrimSpace(l)
		}
		ret = append(ret, framework.FailedExpectation{Message: strings.Join(lines, "\n"), Stack: b.position})
	}
	return ret
}

func skipReason(output []string) string {
	for _, e := range ParseFailureOutput(output) {
		if e.Message != "" {
			return e.Message
		}
	}
	return ""
}

// truncate shortens s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
