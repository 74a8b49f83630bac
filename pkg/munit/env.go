package munit

import (
	"fmt"
	"strings"

	"github.com/core-tools/minit/pkg/errors"

	"mvdan.cc/sh/v3/shell"
)

const (
	EnvMain          = "MINIT_MAIN"
	EnvMainName      = "MINIT_MAIN_NAME"
	EnvMainGroup     = "MINIT_MAIN_GROUP"
	EnvMainDir       = "MINIT_MAIN_DIR"
	EnvMainCharset   = "MINIT_MAIN_CHARSET"
	EnvMainKind      = "MINIT_MAIN_KIND"
	EnvMainCron      = "MINIT_MAIN_CRON"
	EnvMainImmediate = "MINIT_MAIN_IMMEDIATE"
	EnvMainOnce      = "MINIT_MAIN_ONCE"

	NameEnvMain = "env-main"
)

// EnvPair is one KEY=VALUE entry of an environment block
type EnvPair struct {
	Key   string
	Value string
}

// ParseEnviron converts os.Environ-style entries. Entries without '=' get an empty value.
func ParseEnviron(environ []string) []EnvPair {
	pairs := make([]EnvPair, 0, len(environ))
	for _, item := range environ {
		key, value, _ := strings.Cut(item, "=")
		if key == "" {
			continue
		}
		pairs = append(pairs, EnvPair{Key: key, Value: value})
	}
	return pairs
}

// EnvMap indexes pairs by key, later pairs win
func EnvMap(pairs []EnvPair) map[string]string {
	m := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		m[pair.Key] = pair.Value
	}
	return m
}

type EnvOptions struct {
	// SplitCommand tokenizes MINIT_MAIN with shell quoting rules instead of
	// using the whole value as a single argument
	SplitCommand bool
}

// ParseBool reports whether s starts with t, T, y, Y or 1
func ParseBool(s string) bool {
	if s == "" {
		return false
	}
	switch s[0] {
	case 't', 'T', 'y', 'Y', '1':
		return true
	}
	return false
}

// LoadEnv builds the environment main unit. ok is false when MINIT_MAIN is absent or blank.
// Kind errors are reported even when no main command is set.
func LoadEnv(pairs []EnvPair, opts EnvOptions) (unit Unit, ok bool, err error) {
	envs := EnvMap(pairs)

	unit = Unit{
		Kind: KindDaemon,
		Name: NameEnvMain,
	}
	if name := envs[EnvMainName]; name != "" {
		unit.Name = name
	}
	if group, found := envs[EnvMainGroup]; found {
		unit.Group = &group
	}

	if kind, found := envs[EnvMainKind]; found {
		if unit.Kind, err = ParseKind(kind); err != nil || unit.Kind == KindRender {
			err = errors.NewValidationError(
				fmt.Sprintf("unsupported $%s: %q", EnvMainKind, kind),
				nil,
			).WithField("kind").WithContext("supported_kinds", "daemon, once, cron")
			return Unit{}, false, err
		}
		if unit.Kind == KindCron {
			expr, found := envs[EnvMainCron]
			if !found {
				err = errors.NewValidationError(
					fmt.Sprintf("missing $%s while $%s is 'cron'", EnvMainCron, EnvMainKind),
					nil,
				).WithField("cron")
				return Unit{}, false, err
			}
			unit.Cron = &CronOptions{Expr: expr}
			if immediate, found := envs[EnvMainImmediate]; found {
				v := ParseBool(immediate)
				unit.Cron.Immediate = &v
			}
		}
	} else if once, found := envs[EnvMainOnce]; found && ParseBool(once) {
		unit.Kind = KindOnce
	}

	command := envs[EnvMain]
	if strings.TrimSpace(command) == "" {
		return Unit{}, false, nil
	}

	exec := &ExecOptions{Command: []string{command}}
	if opts.SplitCommand {
		if exec.Command, err = splitCommand(command, envs); err != nil {
			return Unit{}, false, err
		}
	}
	if dir, found := envs[EnvMainDir]; found {
		exec.Dir = &dir
	}
	if charset, found := envs[EnvMainCharset]; found {
		exec.Charset = &charset
	}
	unit.Exec = exec

	if err = unit.Validate(); err != nil {
		return Unit{}, false, err
	}
	return unit, true, nil
}

// splitCommand tokenizes a command line, expanding variables from envs only
func splitCommand(command string, envs map[string]string) ([]string, error) {
	fields, err := shell.Fields(command, func(name string) string {
		return envs[name]
	})
	if err != nil {
		return nil, errors.NewValidationError(
			fmt.Sprintf("failed to split $%s", EnvMain),
			err,
		).WithField("command")
	}
	if len(fields) == 0 {
		return nil, errors.NewValidationError(fmt.Sprintf("$%s has no command", EnvMain), nil).WithField("command")
	}
	return fields, nil
}
