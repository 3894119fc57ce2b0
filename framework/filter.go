package framework

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Filter is a function that can determine whether to run a specific spec or not.
type Filter func(TestID) bool

type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

// AsFilter matches against the spec's full name, the same string the console report shows.
func (r RegexFilters) AsFilter(id TestID) bool {
	name := id.FullName()
	return (!r.MustMatch.IsDefined() || r.MustMatch.AnyMatch(name)) &&
		!r.MustNotMatch.AnyMatch(name)
}

func (r RegexFilters) IsDefined() bool {
	return r.MustMatch.IsDefined() || r.MustNotMatch.IsDefined()
}

// Describe prints a short explanation of which specs will be excluded. It prints nothing when no
// filter is set.
func (r RegexFilters) Describe(out io.Writer) {
	if !r.IsDefined() {
		return
	}
	fmt.Fprintln(out, "Some specs will be excluded based on the filter criteria for this run:")
	if r.MustMatch.IsDefined() {
		fmt.Fprintf(out, "  exclude any not matching %s\n", r.MustMatch)
	}
	if r.MustNotMatch.IsDefined() {
		fmt.Fprintf(out, "  exclude any matching %s\n", r.MustNotMatch)
	}
	fmt.Fprintln(out)
}

type RegexList struct {
	patterns []*regexp.Regexp
}

// NewRegexList compiles every pattern, failing on the first invalid one.
func NewRegexList(patterns ...string) (RegexList, error) {
	var r RegexList
	for _, p := range patterns {
		if err := r.Set(p); err != nil {
			return RegexList{}, err
		}
	}
	return r, nil
}

func (r RegexList) String() string {
	var ss []string
	for _, p := range r.patterns {
		ss = append(ss, `"`+p.String()+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set is called by the command line parser
func (r *RegexList) Set(value string) error {
	rx, err := regexp.Compile(value)
	if err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}
	r.patterns = append(r.patterns, rx)
	return nil
}

// Type is called by the command line parser
func (r *RegexList) Type() string {
	return "regex"
}

// Append adds the patterns of other to r.
func (r *RegexList) Append(other RegexList) {
	r.patterns = append(r.patterns, other.patterns...)
}

func (r RegexList) IsDefined() bool {
	return len(r.patterns) != 0
}

func (r RegexList) AnyMatch(s string) bool {
	for _, p := range r.patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
