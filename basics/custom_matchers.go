package basics

import (
	"fmt"
	"strings"

	"github.com/specbasis/specbasis/framework"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// largeEnoughThan is a custom matcher. A matcher is just a function that:
//   - takes the TestingT as its first argument, so it works with *framework.T and *testing.T,
//   - compares the actual value with the expected one,
//   - records a failure with a meaningful message through assert.Fail when they don't match,
//   - returns whether the expectation held, like every assert function.
func largeEnoughThan(t assert.TestingT, actual, expected int, msgAndArgs ...interface{}) bool {
	if actual > expected*2 {
		return true
	}
	return assert.Fail(t, fmt.Sprintf("%d is not large enough than %d", actual, expected), msgAndArgs...)
}

// doubleOf is a custom argument matcher: it accepts any argument that is twice expected.
func doubleOf(expected int) interface{} {
	return mock.MatchedBy(func(actual int) bool {
		return actual == expected*2
	})
}

type calculatorSpy struct {
	mock.Mock
}

func (c *calculatorSpy) Add(a, b int) int {
	return c.Called(a, b).Int(0)
}

func DescribeCustomMatchers(s *framework.Suite) {
	s.It("more fine grained matchers", func(t *framework.T) {
		// Sometimes the plain matchers like this one don't meet the needs of testing complicated
		// applications:
		assert.Equal(t, "something", "something")

		// Then there are matchers that look at only part of the actual value. These check that a
		// map has a key, that a slice holds some elements, or that a string matches a pattern:
		assert.Contains(t, map[string]int{"foo": 1, "bar": 2}, "foo")
		assert.Subset(t, []int{1, 2, 3}, []int{1, 3})
		assert.ElementsMatch(t, []int{3, 1, 2}, []int{1, 2, 3})
		assert.Regexp(t, "^spec", "specbasis")
		// There are a lot of others, see https://pkg.go.dev/github.com/stretchr/testify/assert

		// Another way to control the comparison is to write a custom matcher. See largeEnoughThan
		// above for its shape. It's called like any other matcher:
		largeEnoughThan(t, 100, 30)

		// A custom matcher can be built on the others too, as long as it reports through t.
		startsWithSpec := func(t assert.TestingT, actual string) bool {
			return assert.True(t, strings.HasPrefix(actual, "spec"), "%q does not start with spec", actual)
		}
		startsWithSpec(t, "specbasis")
	})

	s.It("custom argument matchers", func(t *framework.T) {
		// Spies compare the arguments of each call with the arguments given to On. Instead of a
		// value, any argument can be a matcher: mock.Anything accepts everything,
		// mock.AnythingOfType checks only the type, and mock.MatchedBy runs your own function. See
		// doubleOf above.
		calc := &calculatorSpy{}
		calc.On("Add", doubleOf(1), mock.Anything).Return(10)
		calc.On("Add", mock.AnythingOfType("int"), mock.AnythingOfType("int")).Return(0)

		assert.Equal(t, 10, calc.Add(2, 40))
		assert.Equal(t, 0, calc.Add(3, 40))
		calc.AssertCalled(t, "Add", doubleOf(1), 40)
	})
}
