package framework

import (
	"strings"
)

const (
	labelErrorTrace = "Error Trace"
	labelError      = "Error"
	labelMessages   = "Messages"
)

// ParseAssertionOutput splits the labelled failure text that testify passes to Errorf into a
// message and a stack. The text looks like
//
//	\tError Trace:\t/path/a.go:12
//	\t            \t/path/b.go:40
//	\tError:      \tNot equal:
//	\t            \texpected: 1
//
// and may carry extra leading spaces per line when it comes from go test output. The second
// result is false when there is no "Error" label.
func ParseAssertionOutput(text string) (FailedExpectation, bool) {
	sections := make(map[string][]string)
	current := ""
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimLeft(line, " ")
		if !strings.HasPrefix(line, "\t") {
			continue
		}
		body := line[1:]
		tab := strings.Index(body, "\t")
		if tab < 0 {
			continue
		}
		if label := strings.TrimSpace(body[:tab]); label != "" {
			current = strings.TrimSuffix(label, ":")
		}
		if current == "" {
			continue
		}
		sections[current] = append(sections[current], strings.TrimRight(body[tab+1:], " "))
	}
	errLines, ok := sections[labelError]
	if !ok {
		return FailedExpectation{}, false
	}
	message := strings.Join(errLines, "\n")
	if extra, ok := sections[labelMessages]; ok {
		message += "\n" + strings.Join(extra, "\n")
	}
	var stack []string
	for _, l := range sections[labelErrorTrace] {
		if l = strings.TrimSpace(l); l != "" {
			stack = append(stack, l)
		}
	}
	return FailedExpectation{
		Message: message,
		Stack:   strings.Join(stack, "\n"),
	}, true
}
