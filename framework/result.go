package framework

import (
	"strings"
	"time"
)

// SpecStatus is the outcome of a single spec.
type SpecStatus string

const (
	StatusPassed   SpecStatus = "passed"
	StatusFailed   SpecStatus = "failed"
	StatusPending  SpecStatus = "pending"
	StatusExcluded SpecStatus = "excluded"
)

// OverallStatus is the outcome of a whole run.
type OverallStatus string

const (
	OverallPassed     OverallStatus = "passed"
	OverallFailed     OverallStatus = "failed"
	OverallIncomplete OverallStatus = "incomplete"
)

// TestID identifies a suite or spec by the descriptions of itself and its ancestors.
type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

// FullName is the space-separated form used in reports and matched by filters.
func (t TestID) FullName() string {
	return strings.Join(t.Path, " ")
}

// Description is the last path element.
func (t TestID) Description() string {
	if len(t.Path) == 0 {
		return ""
	}
	return t.Path[len(t.Path)-1]
}

func (t TestID) plus(name string) TestID {
	path := make([]string, 0, len(t.Path)+1)
	return TestID{Path: append(append(path, t.Path...), name)}
}

type Order struct {
	Random bool
	Seed   int64
}

type RunInfo struct {
	TotalSpecsDefined int
	Order             Order
}

type SuiteInfo struct {
	ID          TestID
	Description string
	FullName    string
}

type FailedExpectation struct {
	Message string
	Stack   string
}

func (e FailedExpectation) Error() string {
	return e.Message
}

type SpecResult struct {
	ID                 TestID
	Description        string
	FullName           string
	Status             SpecStatus
	PendingReason      string
	FailedExpectations []FailedExpectation
	Duration           time.Duration
	DebugOutput        CapturedOutput
}

func (r SpecResult) Failed() bool {
	return r.Status == StatusFailed
}

type SuiteResult struct {
	ID                 TestID
	Description        string
	FullName           string
	Status             SpecStatus
	FailedExpectations []FailedExpectation
}

// RunResult is what Execute returns and what reporters receive when the run is over.
type RunResult struct {
	OverallStatus    OverallStatus
	IncompleteReason string
	Order            Order
	Duration         time.Duration
	Specs            []SpecResult
	Failures         []SpecResult
}

func (r RunResult) OK() bool {
	return r.OverallStatus == OverallPassed
}

// Pending counts specs that were pending or excluded.
func (r RunResult) Pending() int {
	n := 0
	for _, s := range r.Specs {
		if s.Status == StatusPending || s.Status == StatusExcluded {
			n++
		}
	}
	return n
}

func newSpecResult(id TestID) SpecResult {
	return SpecResult{
		ID:          id,
		Description: id.Description(),
		FullName:    id.FullName(),
	}
}

func newSuiteInfo(id TestID) SuiteInfo {
	return SuiteInfo{ID: id, Description: id.Description(), FullName: id.FullName()}
}
