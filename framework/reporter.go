package framework

// Reporter receives lifecycle events from a run. Events arrive one at a time, in order:
// RunStarted, then for each suite SuiteStarted, its specs (SpecStarted, SpecFinished) and
// nested suites, SuiteFinished, and finally RunFinished.
type Reporter interface {
	RunStarted(info RunInfo)
	SuiteStarted(info SuiteInfo)
	SpecStarted(result SpecResult)
	SpecFinished(result SpecResult)
	SuiteFinished(result SuiteResult)
	RunFinished(result RunResult)
}

type nullReporter struct{}

func (n nullReporter) RunStarted(RunInfo)        {}
func (n nullReporter) SuiteStarted(SuiteInfo)    {}
func (n nullReporter) SpecStarted(SpecResult)    {}
func (n nullReporter) SpecFinished(SpecResult)   {}
func (n nullReporter) SuiteFinished(SuiteResult) {}
func (n nullReporter) RunFinished(RunResult)     {}

// NullReporter returns a Reporter that ignores everything.
func NullReporter() Reporter { return nullReporter{} }

// reporterList fans events out to every registered reporter in registration order.
type reporterList []Reporter

func (l reporterList) RunStarted(info RunInfo) {
	for _, r := range l {
		r.RunStarted(info)
	}
}

func (l reporterList) SuiteStarted(info SuiteInfo) {
	for _, r := range l {
		r.SuiteStarted(info)
	}
}

func (l reporterList) SpecStarted(result SpecResult) {
	for _, r := range l {
		r.SpecStarted(result)
	}
}

func (l reporterList) SpecFinished(result SpecResult) {
	for _, r := range l {
		r.SpecFinished(result)
	}
}

func (l reporterList) SuiteFinished(result SuiteResult) {
	for _, r := range l {
		r.SuiteFinished(result)
	}
}

func (l reporterList) RunFinished(result RunResult) {
	for _, r := range l {
		r.RunFinished(result)
	}
}
