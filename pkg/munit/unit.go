package munit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/core-tools/minit/pkg/errors"

	"gopkg.in/yaml.v3"
)

const (
	DefaultGroup = "default"
)

// Unit describes one process or task for the supervisor.
//
// Fields that only make sense for some kinds live in per-kind payloads:
// Exec for once, daemon and cron; Render for render; Cron for cron.
// A payload is nil when none of its fields is set.
type Unit struct {
	Kind  Kind
	Name  string
	Group *string
	Count *int

	Exec   *ExecOptions
	Render *RenderOptions
	Cron   *CronOptions
}

// ExecOptions controls how the unit's command is launched
type ExecOptions struct {
	Dir     *string
	Shell   *string
	Env     map[string]string
	Command []string
	Charset *string
}

type RenderOptions struct {
	Raw   *bool // keep whitespace instead of trimming the rendered output
	Files []string
}

type CronOptions struct {
	Expr      string
	Immediate *bool // run once at start in addition to the schedule
}

// GroupOrDefault returns the unit group, or DefaultGroup when unset
func (u Unit) GroupOrDefault() string {
	if u.Group == nil || *u.Group == "" {
		return DefaultGroup
	}
	return *u.Group
}

// Environ returns Env as KEY=VALUE pairs sorted by key, ready to append to an exec.Cmd environment
func (o ExecOptions) Environ() []string {
	keys := make([]string, 0, len(o.Env))
	for k := range o.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	environ := make([]string, 0, len(keys))
	for _, k := range keys {
		environ = append(environ, k+"="+o.Env[k])
	}
	return environ
}

// Validate checks the kind-dependent invariants of the unit
func (u Unit) Validate() error {
	if !u.Kind.IsValid() {
		return errors.NewValidationError(fmt.Sprintf("unknown unit kind: %q", string(u.Kind)), nil).WithField("kind")
	}
	if u.Name == "" {
		return errors.NewValidationError("unit name is required", nil).WithField("name")
	}
	if u.Count != nil && *u.Count < 0 {
		return errors.NewValidationError(fmt.Sprintf("unit count cannot be negative: %d", *u.Count), nil).WithField("count")
	}

	switch u.Kind {
	case KindRender:
		if u.Exec != nil {
			return misplacedField(u, u.Exec.firstField())
		}
		if u.Cron != nil {
			return misplacedField(u, u.Cron.firstField())
		}
	case KindOnce, KindDaemon:
		if u.Render != nil {
			return misplacedField(u, u.Render.firstField())
		}
		if u.Cron != nil {
			return misplacedField(u, u.Cron.firstField())
		}
	case KindCron:
		if u.Render != nil {
			return misplacedField(u, u.Render.firstField())
		}
		if u.Cron == nil || strings.TrimSpace(u.Cron.Expr) == "" {
			return errors.NewValidationError("cron expression is required for cron unit", nil).
				WithField("cron").WithContext("unit", u.Name)
		}
	}

	return nil
}

func misplacedField(u Unit, field string) error {
	return errors.NewValidationError(
		fmt.Sprintf("field %q is not allowed for %s unit", field, u.Kind),
		nil,
	).WithField(field).WithContext("unit", u.Name)
}

func (o ExecOptions) firstField() string {
	switch {
	case o.Dir != nil:
		return "dir"
	case o.Shell != nil:
		return "shell"
	case o.Env != nil:
		return "env"
	case o.Command != nil:
		return "command"
	default:
		return "charset"
	}
}

func (o RenderOptions) firstField() string {
	if o.Raw != nil {
		return "raw"
	}
	return "files"
}

func (o CronOptions) firstField() string {
	if o.Expr != "" {
		return "cron"
	}
	return "immediate"
}

// document is the flat manifest representation of a Unit
type document struct {
	Kind  Kind    `yaml:"kind"`
	Name  *string `yaml:"name"`
	Group *string `yaml:"group,omitempty"`
	Count *int    `yaml:"count,omitempty"`

	// execution options, a nil collection is omitted and an empty one is written as []/{}
	Dir     *string           `yaml:"dir,omitempty"`
	Shell   *string           `yaml:"shell,omitempty"`
	Env     *map[string]string `yaml:"env,omitempty"`
	Command *[]string          `yaml:"command,omitempty"`
	Charset *string            `yaml:"charset,omitempty"`

	// render options
	Raw   *bool     `yaml:"raw,omitempty"`
	Files *[]string `yaml:"files,omitempty"`

	// cron options
	Cron      *string `yaml:"cron,omitempty"`
	Immediate *bool   `yaml:"immediate,omitempty"`
}

func newDocument(u Unit) document {
	name := u.Name
	d := document{
		Kind:  u.Kind,
		Name:  &name,
		Group: u.Group,
		Count: u.Count,
	}
	if u.Exec != nil {
		d.Dir = u.Exec.Dir
		d.Shell = u.Exec.Shell
		if u.Exec.Env != nil {
			d.Env = &u.Exec.Env
		}
		if u.Exec.Command != nil {
			d.Command = &u.Exec.Command
		}
		d.Charset = u.Exec.Charset
	}
	if u.Render != nil {
		d.Raw = u.Render.Raw
		if u.Render.Files != nil {
			d.Files = &u.Render.Files
		}
	}
	if u.Cron != nil {
		expr := u.Cron.Expr
		d.Cron = &expr
		d.Immediate = u.Cron.Immediate
	}
	return d
}

// unit converts the flat document and validates the result
func (d document) unit() (Unit, error) {
	if d.Kind == "" {
		return Unit{}, errors.NewParseError("missing unit field: kind", nil).WithField("kind")
	}
	if d.Name == nil {
		return Unit{}, errors.NewParseError("missing unit field: name", nil).WithField("name")
	}

	u := Unit{
		Kind:  d.Kind,
		Name:  *d.Name,
		Group: d.Group,
		Count: d.Count,
	}
	if d.Dir != nil || d.Shell != nil || d.Env != nil || d.Command != nil || d.Charset != nil {
		u.Exec = &ExecOptions{
			Dir:     d.Dir,
			Shell:   d.Shell,
			Charset: d.Charset,
		}
		if d.Env != nil {
			u.Exec.Env = *d.Env
		}
		if d.Command != nil {
			u.Exec.Command = *d.Command
		}
	}
	if d.Raw != nil || d.Files != nil {
		u.Render = &RenderOptions{Raw: d.Raw}
		if d.Files != nil {
			u.Render.Files = *d.Files
		}
	}
	if d.Cron != nil || d.Immediate != nil {
		u.Cron = &CronOptions{Immediate: d.Immediate}
		if d.Cron != nil {
			u.Cron.Expr = *d.Cron
		}
	}

	if err := u.Validate(); err != nil {
		return Unit{}, err
	}
	return u, nil
}

func (u Unit) MarshalYAML() (interface{}, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return newDocument(u), nil
}

func (u *Unit) UnmarshalYAML(value *yaml.Node) error {
	var d document
	if err := value.Decode(&d); err != nil {
		return asDomainError(err)
	}
	unit, err := d.unit()
	if err != nil {
		return err
	}
	*u = unit
	return nil
}

// decodeUnit parses one YAML document into a validated Unit
func decodeUnit(data []byte) (Unit, error) {
	var d document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Unit{}, asDomainError(err)
	}
	return d.unit()
}

func asDomainError(err error) *errors.DomainError {
	if domainErr, ok := errors.AsDomainError(err); ok {
		return domainErr
	}
	return errors.NewParseError("failed to decode unit", err)
}
