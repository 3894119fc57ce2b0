// Package basics contains the tutorial specs: each spec is a short, runnable explanation of one
// way to write expectations with the framework package and testify.
//
// Read the files in this order: matchers.go, spies.go, custom_matchers.go, async.go.
package basics
