package munit

import (
	"github.com/core-tools/minit/pkg/logging"
)

type LoadOptions struct {
	// Dir is the unit directory, empty disables manifest scanning
	Dir string
	// Env is the environment block, usually ParseEnviron(os.Environ())
	Env []EnvPair
	// Args is the full argument vector, program path first
	Args []string

	SplitCommand bool
	QuickExit    bool
}

type LoadResult struct {
	// Units in precedence order: directory, environment, arguments
	Units []Unit
	// Skipped holds units rejected by the filter
	Skipped []Unit
	// QuickExit is set when no unit was loaded and quick exit was requested;
	// the caller must terminate instead of entering the supervision loop
	QuickExit bool
}

type Loader struct {
	filter *Filter
	logger logging.Logger
}

// NewLoader creates a loader. A nil filter keeps every unit.
func NewLoader(filter *Filter, logger logging.Logger) *Loader {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Loader{
		filter: filter,
		logger: logger,
	}
}

// Load collects units from the directory, the environment and the arguments, in that order.
// Any failure aborts the load.
func (ld *Loader) Load(opts LoadOptions) (*LoadResult, error) {
	var units []Unit

	if opts.Dir != "" {
		dirUnits, err := ScanDir(opts.Dir)
		if err != nil {
			ld.logger.Debugf("Failed to load units from directory, dir: %s, error: %v", opts.Dir, err)
			return nil, err
		}
		ld.logger.Debugf("Loaded units from directory, dir: %s, count: %d", opts.Dir, len(dirUnits))
		units = append(units, dirUnits...)
	}

	envUnit, ok, err := LoadEnv(opts.Env, EnvOptions{SplitCommand: opts.SplitCommand})
	if err != nil {
		ld.logger.Debugf("Failed to load unit from environment, error: %v", err)
		return nil, err
	}
	if ok {
		ld.logger.Debugf("Loaded unit from environment, name: %s, kind: %s", envUnit.Name, envUnit.Kind)
		units = append(units, envUnit)
	}

	argUnit, ok, err := LoadArgs(opts.Args)
	if err != nil {
		ld.logger.Debugf("Failed to load unit from arguments, error: %v", err)
		return nil, err
	}
	if ok {
		ld.logger.Debugf("Loaded unit from arguments, name: %s, kind: %s", argUnit.Name, argUnit.Kind)
		units = append(units, argUnit)
	}

	result := &LoadResult{}
	for _, unit := range units {
		if !ld.filter.Match(unit) {
			ld.logger.Infof("Skipping filtered unit, name: %s, group: %s", unit.Name, unit.GroupOrDefault())
			result.Skipped = append(result.Skipped, unit)
			continue
		}
		result.Units = append(result.Units, unit)
	}

	if len(result.Units) == 0 && opts.QuickExit {
		result.QuickExit = true
	}

	ld.logger.Infof("Units loaded, count: %d, skipped: %d", len(result.Units), len(result.Skipped))
	return result, nil
}
