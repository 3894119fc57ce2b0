package basics

import (
	"github.com/specbasis/specbasis/framework"
)

const rootSuiteDescription = "A suite is just a function grouping specs usually of a same module or feature"

// Suite declares every tutorial spec.
func Suite() *framework.Suite {
	root := framework.NewSuite()
	root.Describe(rootSuiteDescription, func(s *framework.Suite) {
		DescribeMatchers(s)
		DescribeSpies(s)
		DescribeCustomMatchers(s)
		s.Describe("How to test asynchronous code", DescribeAsync)
	})
	return root
}
