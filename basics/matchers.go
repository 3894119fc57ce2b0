package basics

import (
	"strings"

	"github.com/specbasis/specbasis/framework"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// double is the function under test in the first spec.
func double(num int) int {
	return num * 2
}

func DescribeMatchers(s *framework.Suite) {
	s.It("A spec is just a function for testing a portion of the module", func(t *framework.T) {
		// Inside a spec we check that things work as expected by passing t to the assert package.
		// Generally at least one expectation is needed to make a meaningful spec.
		// It's usually used to check that the result is something:
		assert.Equal(t, 2, double(1))
		// or that the result is not something:
		assert.NotEqual(t, 1, double(1))
		// Equal and NotEqual are matchers. The full list is in the testify documentation:
		// https://pkg.go.dev/github.com/stretchr/testify/assert
	})

	s.It("assert keeps going, require stops the spec", func(t *framework.T) {
		// A failed assert records a failed expectation and the spec carries on, so one run can
		// report several problems. A failed require records the failure and stops the spec right
		// there, which is what you want when the rest of the spec makes no sense without it.
		words := strings.Fields("spec suite matcher")
		require.Len(t, words, 3)
		assert.Equal(t, "spec", words[0])
		assert.Contains(t, words, "matcher")
	})

	s.It("every matcher takes an optional message", func(t *framework.T) {
		// The trailing arguments of a matcher are a format string and its arguments. They are
		// printed under the failure message when the expectation fails.
		for i := 0; i < 3; i++ {
			assert.Equal(t, i*2, double(i), "double(%d)", i)
		}
	})

	s.XIt("a spec declared with XIt is reported as pending and never runs", func(t *framework.T) {
		assert.Fail(t, "this body is never called")
	})
}
