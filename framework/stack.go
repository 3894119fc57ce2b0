package framework

import (
	"fmt"
	"runtime"
	"strings"
)

const maxStackDepth = 32

// packagePrefix is this package's import path followed by a dot, used to drop the runner's own
// frames from captured stacks.
var packagePrefix = func() string {
	pc, _, _, _ := runtime.Caller(0)
	name := runtime.FuncForPC(pc).Name()
	slash := strings.LastIndex(name, "/")
	dot := strings.Index(name[slash+1:], ".")
	return name[:slash+1+dot] + "."
}()

var internalFrames = []string{
	packagePrefix + "(*T).",
	packagePrefix + "(*runState).",
	packagePrefix + "callerStack",
}

// callerStack renders the calling goroutine's stack, one "at function (file:line)" per line,
// starting skip frames above its caller.
func callerStack(skip int) string {
	pcs := make([]uintptr, maxStackDepth)
	n := runtime.Callers(skip+2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	var lines []string
	for {
		f, more := frames.Next()
		if f.Function == "runtime.goexit" {
			break
		}
		if !isInternalFrame(f.Function) {
			lines = append(lines, fmt.Sprintf("at %s (%s:%d)", f.Function, f.File, f.Line))
		}
		if !more {
			break
		}
	}
	return strings.Join(lines, "\n")
}

func isInternalFrame(function string) bool {
	for _, p := range internalFrames {
		if strings.HasPrefix(function, p) {
			return true
		}
	}
	return false
}
