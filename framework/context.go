package framework

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"
)

// T represents a running spec.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that is
// outside of the Go test runner. To make expectations, pass the *T to the assert and require
// packages as if it were a *testing.T; it also satisfies mock.TestingT, so spies can verify their
// calls against it.
//
// Every failed expectation is recorded with a message and a stack. Errorf records one and keeps
// going; FailNow (called by require) stops the spec immediately.
type T struct {
	id                 TestID
	ctx                context.Context
	timeout            time.Duration
	debugLogger        CapturingLogger
	stopOnFirstFailure bool
	lock               sync.Mutex
	pending            bool
	pendingReason      string
	expectations       []FailedExpectation
	timedOutAlready    bool
	finished           bool
}

func newT(ctx context.Context, id TestID, timeout time.Duration, stopOnFirstFailure bool) *T {
	return &T{
		id:                 id,
		ctx:                ctx,
		timeout:            timeout,
		stopOnFirstFailure: stopOnFirstFailure,
	}
}

// ID returns the path of the running spec.
func (t *T) ID() TestID {
	return t.id
}

// Name returns the full name of the running spec. testify includes it in failure output.
func (t *T) Name() string {
	return t.id.FullName()
}

// Context is cancelled when the spec times out. Specs that wait on channels or other
// goroutines should select on its Done channel.
func (t *T) Context() context.Context {
	return t.ctx
}

// Errorf is called by assertions to record a failed expectation. It does not cause an immediate
// exit unless the run was configured to stop specs on their first failure.
func (t *T) Errorf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	e, ok := ParseAssertionOutput(message)
	if !ok {
		e = FailedExpectation{Message: message, Stack: callerStack(1)}
	}
	t.addExpectation(e)
	if t.stopOnFirstFailure {
		t.FailNow()
	}
}

// Fail records a failed expectation with the given message, like calling fail() inside a spec.
func (t *T) Fail(message string) {
	t.addExpectation(FailedExpectation{Message: message, Stack: callerStack(1)})
	if t.stopOnFirstFailure {
		t.FailNow()
	}
}

// FailNow is called by assertions when a spec should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	panic(t)
}

// Pending stops the spec and reports it as pending rather than passed or failed.
func (t *T) Pending(reason string) {
	t.lock.Lock()
	t.pending = true
	t.pendingReason = reason
	t.lock.Unlock()
	panic(t)
}

// Logf is called by spies; the output goes to the spec's debug log.
func (t *T) Logf(format string, args ...interface{}) {
	t.debugLogger.Printf(format, args...)
}

// Debug logs some debug output for the spec. The output is passed to reporters with the result.
func (t *T) Debug(message string, args ...interface{}) {
	t.debugLogger.Printf(message, args...)
}

func (t *T) DebugLogger() Logger {
	return &t.debugLogger
}

func (t *T) addExpectation(e FailedExpectation) {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.finished {
		return
	}
	t.expectations = append(t.expectations, e)
}

func (t *T) failed() bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	return len(t.expectations) != 0
}

func (t *T) isPending() bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.pending
}

// run calls action and reports whether it returned normally. A panic from FailNow or Pending ends
// the action without failing the process; any other panic becomes a failed expectation.
func (t *T) run(action func(*T)) (completed bool) {
	defer func() {
		if r := recover(); r != nil {
			completed = false
			if r == t {
				if !t.isPending() && !t.failed() {
					t.addExpectation(FailedExpectation{Message: "spec failed with no failure message"})
				}
				return
			}
			t.addExpectation(FailedExpectation{
				Message: fmt.Sprintf("unexpected panic in spec: %+v", r),
				Stack:   string(debug.Stack()),
			})
		}
	}()
	action(t)
	return true
}

// timedOut records the timeout failure once, whether the runner or an asynchronous spec noticed
// it first.
func (t *T) timedOut() {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.finished || t.timedOutAlready {
		return
	}
	t.timedOutAlready = true
	t.expectations = append(t.expectations, FailedExpectation{
		Message: fmt.Sprintf("Timeout - spec did not complete within %dms", t.timeout.Milliseconds()),
	})
}

// finish freezes the spec's outcome. A goroutine left running after a timeout can no longer
// change it.
func (t *T) finish() (status SpecStatus, pendingReason string, expectations []FailedExpectation) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.finished = true
	expectations = append([]FailedExpectation(nil), t.expectations...)
	switch {
	case len(expectations) != 0:
		status = StatusFailed
	case t.pending:
		status, pendingReason = StatusPending, t.pendingReason
	default:
		status = StatusPassed
	}
	return
}
