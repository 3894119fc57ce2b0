package framework

import "fmt"

// Done is passed to asynchronous specs. Call it with nil when the asynchronous work has finished,
// or with an error to fail the spec.
type Done func(err error)

const (
	reasonXIt       = "temporarily disabled with XIt"
	reasonXDescribe = "temporarily disabled with XDescribe"
)

// Suite is a named group of specs and nested suites. The root suite returned by NewSuite has no
// name and is not reported; everything declared on it appears at the top level of the run.
type Suite struct {
	id            TestID
	parent        *Suite
	pendingReason string
	children      []suiteChild
	beforeEach    []func(*T)
	afterEach     []func(*T)
}

type suiteChild struct {
	suite *Suite
	spec  *specDef
}

type specDef struct {
	id            TestID
	action        func(*T)
	pendingReason string
}

func NewSuite() *Suite {
	return &Suite{}
}

// Describe declares a nested suite. body is called immediately to declare its contents.
func (s *Suite) Describe(description string, body func(*Suite)) {
	s.describe(description, "", body)
}

// XDescribe declares a nested suite whose specs are all pending.
func (s *Suite) XDescribe(description string, body func(*Suite)) {
	s.describe(description, reasonXDescribe, body)
}

func (s *Suite) describe(description, pendingReason string, body func(*Suite)) {
	child := &Suite{
		id:            s.id.plus(description),
		parent:        s,
		pendingReason: s.pendingReason,
	}
	if pendingReason != "" {
		child.pendingReason = pendingReason
	}
	s.children = append(s.children, suiteChild{suite: child})
	if body != nil {
		body(child)
	}
}

// It declares a spec.
func (s *Suite) It(description string, action func(*T)) {
	s.addSpec(description, action, s.pendingReason)
}

// XIt declares a spec that is reported as pending and never run. action may be nil.
func (s *Suite) XIt(description string, action func(*T)) {
	s.addSpec(description, action, reasonXIt)
}

// ItAsync declares a spec that is finished when it calls done, rather than when action returns.
// If done is never called the spec fails with a timeout.
func (s *Suite) ItAsync(description string, action func(*T, Done)) {
	s.It(description, func(t *T) {
		result := make(chan error, 1)
		action(t, func(err error) {
			select {
			case result <- err:
			default:
			}
		})
		select {
		case err := <-result:
			if err != nil {
				t.Fail(fmt.Sprintf("failed by done: %s", err))
			}
		case <-t.Context().Done():
			t.timedOut()
		}
	})
}

// BeforeEach registers a function to run before every spec in this suite and its nested suites.
func (s *Suite) BeforeEach(action func(*T)) {
	s.beforeEach = append(s.beforeEach, action)
}

// AfterEach registers a function to run after every spec in this suite and its nested suites,
// even when the spec fails.
func (s *Suite) AfterEach(action func(*T)) {
	s.afterEach = append(s.afterEach, action)
}

func (s *Suite) addSpec(description string, action func(*T), pendingReason string) {
	if action == nil && pendingReason == "" {
		pendingReason = "no spec body"
	}
	s.children = append(s.children, suiteChild{spec: &specDef{
		id:            s.id.plus(description),
		action:        action,
		pendingReason: pendingReason,
	}})
}

// SpecCount returns the number of specs declared in the suite and all nested suites.
func (s *Suite) SpecCount() int {
	n := 0
	for _, c := range s.children {
		if c.spec != nil {
			n++
		} else {
			n += c.suite.SpecCount()
		}
	}
	return n
}

// hooks returns the before-each hooks outermost first and the after-each hooks innermost first.
func (s *Suite) hooks() (before, after []func(*T)) {
	var chain []*Suite
	for p := s; p != nil; p = p.parent {
		chain = append(chain, p)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		before = append(before, chain[i].beforeEach...)
	}
	for _, p := range chain {
		after = append(after, p.afterEach...)
	}
	return before, after
}
