package framework

import (
	"fmt"
	"time"
)

// recordingReporter keeps every event as a short string so tests can compare sequences.
type recordingReporter struct {
	events []string
	specs  []SpecResult
	runs   []RunResult
	info   RunInfo
}

func (r *recordingReporter) RunStarted(info RunInfo) {
	r.info = info
	r.events = append(r.events, fmt.Sprintf("run started %d", info.TotalSpecsDefined))
}

func (r *recordingReporter) SuiteStarted(info SuiteInfo) {
	r.events = append(r.events, "suite started "+info.FullName)
}

func (r *recordingReporter) SpecStarted(result SpecResult) {
	r.events = append(r.events, "spec started "+result.FullName)
}

func (r *recordingReporter) SpecFinished(result SpecResult) {
	r.specs = append(r.specs, result)
	r.events = append(r.events, fmt.Sprintf("spec finished %s %s", result.FullName, result.Status))
}

func (r *recordingReporter) SuiteFinished(result SuiteResult) {
	r.events = append(r.events, fmt.Sprintf("suite finished %s %s", result.FullName, result.Status))
}

func (r *recordingReporter) RunFinished(result RunResult) {
	r.runs = append(r.runs, result)
	r.events = append(r.events, "run finished "+string(result.OverallStatus))
}

func (r *recordingReporter) spec(fullName string) SpecResult {
	for _, s := range r.specs {
		if s.FullName == fullName {
			return s
		}
	}
	return SpecResult{}
}

func (r *recordingReporter) specNames() []string {
	var names []string
	for _, s := range r.specs {
		names = append(names, s.FullName)
	}
	return names
}

func execute(config RunConfig, root *Suite) (*recordingReporter, RunResult) {
	if config.DefaultTimeout == 0 {
		config.DefaultTimeout = time.Second * 2
	}
	env := NewEnv(config, nil)
	env.ClearReporters()
	rec := &recordingReporter{}
	env.AddReporter(rec)
	return rec, env.Execute(root)
}

func fixedTime() time.Time {
	return time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
}
