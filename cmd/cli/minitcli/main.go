package main

import (
	"fmt"
	"io"
	"os"

	"github.com/core-tools/minit/pkg/config"
	"github.com/core-tools/minit/pkg/errors"
	"github.com/core-tools/minit/pkg/logging"
	"github.com/core-tools/minit/pkg/munit"

	flags "github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

const logPrefix = "minit: "

// Builder options, given before "--". Unknown options are left to the argument unit builder.
type flagOptions struct {
	LogLevel     string `long:"log-level" default:"info" description:"log level (debug, info, warn, error)"`
	LogFormat    string `long:"log-format" default:"console" description:"log format (console, json)"`
	SplitCommand bool   `long:"split-main" description:"split MINIT_MAIN into arguments using shell quoting rules"`
	Check        bool   `long:"check" description:"validate the units without printing them"`
}

const (
	exitOK         = 0
	exitFailure    = 1
	exitValidation = 2
	exitParse      = 3
	exitIO         = 4
)

func main() {
	os.Exit(run(os.Args, os.Environ(), os.Stdout))
}

func run(args []string, environ []string, stdout io.Writer) int {
	var opts flagOptions
	var argv []string
	if len(args) > 1 {
		argv, _ = munit.SplitArgs(args[1:])
	}
	var parser = flags.NewParser(&opts, flags.HelpFlag|flags.IgnoreUnknown)
	_, err := parser.ParseArgs(argv)
	if err != nil {
		if flags.WroteHelp(err) {
			fmt.Fprintln(stdout, err)
			return exitOK
		}
		fmt.Fprintf(os.Stderr, "Command line flags parsing failed: %v\n", err)
		return exitFailure
	}

	pairs := munit.ParseEnviron(environ)

	cfg, err := config.LoadFromEnv(munit.EnvMap(pairs))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return exitCode(err)
	}
	if err := config.EnsureDirs(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to prepare directories: %v\n", err)
		return exitCode(err)
	}

	zapConfig := logging.ZapConfig{
		Level:  opts.LogLevel,
		Format: opts.LogFormat,
	}
	if logFile := cfg.LogFile(); logFile != "" {
		zapConfig.OutputPaths = []string{logFile}
	}
	logger, closeLogger, err := logging.NewZapLogger(logPrefix, zapConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return exitFailure
	}
	defer closeLogger()

	logger.Debugf("Starting, opts: %+v, config: %+v", opts, *cfg)

	loader := munit.NewLoader(munit.NewFilter(cfg.Enable, cfg.Disable), logger)
	result, err := loader.Load(munit.LoadOptions{
		Dir:          cfg.UnitDir,
		Env:          pairs,
		Args:         args,
		SplitCommand: opts.SplitCommand,
		QuickExit:    cfg.QuickExit,
	})
	if err != nil {
		logger.Errorf("Failed to load units: %v", err)
		return exitCode(err)
	}

	if result.QuickExit {
		logger.Infof("No units loaded and quick exit requested, exiting")
		return exitOK
	}

	checkCharsets(result.Units, logger)
	for _, unit := range result.Units {
		if unit.Exec == nil {
			continue
		}
		logger.Debugf("Unit ready, name: %s, kind: %s, command: %q, env: %q",
			unit.Name, unit.Kind, unit.Exec.Command, unit.Exec.Environ())
	}

	if opts.Check {
		logger.Infof("Check passed, units: %d", len(result.Units))
		return exitOK
	}

	if err := writeUnits(stdout, result.Units); err != nil {
		logger.Errorf("Failed to write units: %v", err)
		return exitFailure
	}
	return exitOK
}

func checkCharsets(units []munit.Unit, logger logging.Logger) {
	for _, unit := range units {
		if unit.Exec == nil {
			continue
		}
		if _, err := unit.Exec.Encoding(); err != nil {
			logger.Warnf("Unit output will not be decoded, name: %s, error: %v", unit.Name, err)
		}
	}
}

// writeUnits prints units as a YAML document stream
func writeUnits(w io.Writer, units []munit.Unit) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	for _, unit := range units {
		if err := encoder.Encode(unit); err != nil {
			return err
		}
	}
	return encoder.Close()
}

func exitCode(err error) int {
	errorType, ok := errors.TypeOf(err)
	if !ok {
		return exitFailure
	}
	switch errorType {
	case errors.ErrorTypeValidation:
		return exitValidation
	case errors.ErrorTypeParse:
		return exitParse
	case errors.ErrorTypeIO:
		return exitIO
	default:
		return exitFailure
	}
}
