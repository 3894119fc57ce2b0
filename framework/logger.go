package framework

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const timestampFormat = "2006-01-02 15:04:05.000"

// Logger is the minimal logging interface the runner writes debug messages to. Both *log.Logger
// and ldlog.BaseLogger satisfy it.
type Logger interface {
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (n nullLogger) Printf(message string, args ...interface{}) {}

func NullLogger() Logger { return nullLogger{} }

type CapturedMessage struct {
	Time    time.Time
	Message string
}

type CapturedOutput []CapturedMessage

// CapturingLogger buffers debug messages for a single spec. It is safe to use from goroutines the
// spec starts.
type CapturingLogger struct {
	output []CapturedMessage
	lock   sync.Mutex
	now    func() time.Time
}

func (l *CapturingLogger) Printf(message string, args ...interface{}) {
	l.lock.Lock()
	now := time.Now
	if l.now != nil {
		now = l.now
	}
	l.output = append(l.output, CapturedMessage{Time: now(), Message: fmt.Sprintf(message, args...)})
	l.lock.Unlock()
}

func (l *CapturingLogger) Output() CapturedOutput {
	l.lock.Lock()
	ret := append(CapturedOutput(nil), l.output...)
	l.lock.Unlock()
	return ret
}

// Dump writes every captured message to dest. Continuation lines of a multi-line message get the
// same prefix so they stay aligned under the timestamp.
func (output CapturedOutput) Dump(dest io.Writer, prefix string) {
	for _, m := range output {
		lines := strings.Split(m.Message, "\n")
		fmt.Fprintf(dest, "%s[%s] %s\n", prefix, m.Time.Format(timestampFormat), lines[0])
		for _, line := range lines[1:] {
			fmt.Fprintf(dest, "%s%s\n", prefix, line)
		}
	}
}
