// Package framework is a small spec runner for code that wants Jasmine-style suites outside of
// the go test runner.
//
// The general model is:
//
// 1. Specs are declared as a tree of suites with Describe and It. Nothing runs at declaration
// time, so the runner knows how many specs exist before the first one starts.
//
// 2. Env.Execute walks the tree and runs each spec body on its own goroutine with a *T, which is
// similar to Go's *testing.T. *T satisfies the TestingT interfaces of testify's assert, require
// and mock packages, so those are the matchers and spies specs use.
//
// 3. Every lifecycle milestone is delivered to the registered Reporters. A DotReporter is
// installed by default; callers that want their own presentation call ClearReporters first and
// then AddReporter, for instance with a ConsoleReporter.
package framework
