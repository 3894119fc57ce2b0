package basics

import (
	"github.com/specbasis/specbasis/framework"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Greeter is something the code under test depends on.
type Greeter interface {
	Greet(names ...string) string
}

// greeterSpy is a test double for Greeter. Embedding mock.Mock gives it a record of every call
// and a way to program return values.
type greeterSpy struct {
	mock.Mock
}

func (g *greeterSpy) Greet(names ...string) string {
	args := g.Called(toInterfaces(names)...)
	return args.String(0)
}

func toInterfaces(ss []string) []interface{} {
	ret := make([]interface{}, 0, len(ss))
	for _, s := range ss {
		ret = append(ret, s)
	}
	return ret
}

// welcome is the code under test: it uses whatever Greeter it is given.
func welcome(g Greeter, names ...string) string {
	return g.Greet(names...) + "!"
}

func DescribeSpies(s *framework.Suite) {
	s.It("what is a spy", func(t *framework.T) {
		// It's very common to need a specific state of the application in a spec, so we provide
		// data designed on purpose and test-double implementations of the dependencies. A spy is
		// such a test double: it records what has been done to it, for example the arguments it
		// was called with.

		// To create a spy, embed mock.Mock in a type that implements the interface.
		spy := &greeterSpy{}
		// Tell it what to return for a given call. Every call the spy receives must have been
		// programmed like this, otherwise the spy panics and the spec fails.
		spy.On("Greet").Return("hello")
		spy.On("Greet", "a", "b", "c").Return("hello a, b and c")

		// Use it just like the real thing.
		welcome(spy)
		// We can verify that the spy has been called,
		spy.AssertCalled(t, "Greet")

		// with which arguments,
		assert.Equal(t, "hello a, b and c!", welcome(spy, "a", "b", "c"))
		spy.AssertCalled(t, "Greet", "a", "b", "c")

		// and how many times.
		spy.AssertNumberOfCalls(t, "Greet", 2)
		// Calls can also be inspected directly.
		assert.Len(t, spy.Calls, 2)

		// And there is a lot more that spies can do, see
		// https://pkg.go.dev/github.com/stretchr/testify/mock
	})

	s.It("a spy can check all of its expectations at once", func(t *framework.T) {
		spy := &greeterSpy{}
		// Once limits how many times a programmed call may happen.
		spy.On("Greet", "world").Return("hello world").Once()

		assert.Equal(t, "hello world!", welcome(spy, "world"))

		// AssertExpectations fails for every programmed call that never happened.
		spy.AssertExpectations(t)
	})
}
