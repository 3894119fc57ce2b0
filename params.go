package main

import (
	"regexp"
	"strings"

	"github.com/specbasis/specbasis/framework"

	"github.com/alessio/shellescape"
	"github.com/spf13/pflag"
)

const (
	reporterConsole = "console"
	reporterDots    = "dots"
)

type commandParams struct {
	configPath  string
	envFile     string
	filters     framework.RegexFilters
	random      bool
	seed        int64
	noColor     bool
	reporter    string
	debug       bool
	debugOutput bool
}

func (c *commandParams) addRunFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "path to the runner config file (default spec/support/specbasis.json)")
	fs.StringVar(&c.envFile, "env-file", ".env", "file of environment variable overrides")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select specs to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select specs not to run")
	fs.BoolVar(&c.random, "random", false, "run specs in random order")
	fs.Int64Var(&c.seed, "seed", 0, "seed for random order")
	fs.BoolVar(&c.noColor, "no-color", false, "disable colored output")
	fs.StringVar(&c.reporter, "reporter", reporterConsole, "reporter to use: console or dots")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging of the runner")
	fs.BoolVar(&c.debugOutput, "debug-output", false, "print captured debug output of failed specs")
}

func (c *commandParams) addReportFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&c.noColor, "no-color", false, "disable colored output")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging")
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

// rerunCommand builds a shell command line that runs only the given failed specs.
func rerunCommand(program string, configPath string, failures []framework.SpecResult) string {
	var b commandBuilder
	b.add(program, "run")
	if configPath != "" {
		b.add("--config", configPath)
	}
	for _, f := range failures {
		b.add("--run", "^"+regexp.QuoteMeta(f.FullName)+"$")
	}
	return b.String()
}
