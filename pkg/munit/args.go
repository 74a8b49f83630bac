package munit

import (
	"path/filepath"
	"strings"
)

const (
	NameMinit   = "minit"
	NameArgMain = "arg-main"

	argsSeparator = "--"
	onceSuffix    = "-" + string(KindOnce)
)

// SplitArgs separates builder options from the command at the first "--".
// Without a separator there are no options. args must not include the program path.
func SplitArgs(args []string) (opts, command []string) {
	for i, arg := range args {
		if arg == argsSeparator {
			return args[:i], args[i+1:]
		}
	}
	return nil, args
}

// LoadArgs builds the argument main unit from a full argument vector, program path first
func LoadArgs(args []string) (unit Unit, ok bool, err error) {
	if len(args) == 0 {
		return
	}
	opts, command := SplitArgs(args[1:])

	// a wrapper may pass minit itself as the first command element
	if len(command) > 0 && strings.EqualFold(filepath.Base(command[0]), NameMinit) {
		command = command[1:]
	}
	if len(command) == 0 {
		return
	}

	unit = Unit{
		Kind: KindDaemon,
		Name: NameArgMain,
		Exec: &ExecOptions{
			Command: append([]string(nil), command...),
		},
	}
	for _, opt := range opts {
		if strings.HasSuffix(opt, onceSuffix) {
			unit.Kind = KindOnce
		}
	}

	ok = true
	return
}
