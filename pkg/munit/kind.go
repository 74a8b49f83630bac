package munit

import (
	"fmt"
	"strings"

	"github.com/core-tools/minit/pkg/errors"

	"gopkg.in/yaml.v3"
)

// Kind is the execution mode of a unit
type Kind string

const (
	KindOnce   Kind = "once"
	KindDaemon Kind = "daemon"
	KindRender Kind = "render"
	KindCron   Kind = "cron"
)

var knownKinds = []Kind{KindOnce, KindDaemon, KindRender, KindCron}

func (k Kind) IsValid() bool {
	for _, known := range knownKinds {
		if k == known {
			return true
		}
	}
	return false
}

func (k Kind) String() string {
	return string(k)
}

// ParseKind matches s case-insensitively against the known kinds
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	for _, known := range knownKinds {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	return "", errors.NewValidationError(
		fmt.Sprintf("unknown unit kind: %q", s),
		nil,
	).WithField("kind").WithContext("supported_kinds", "once, daemon, render, cron")
}

func (k Kind) MarshalYAML() (interface{}, error) {
	if !k.IsValid() {
		return nil, errors.NewValidationError(fmt.Sprintf("unknown unit kind: %q", string(k)), nil).WithField("kind")
	}
	return string(k), nil
}

// UnmarshalYAML only accepts the exact lower-case tags
func (k *Kind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return errors.NewParseError("unit kind must be a string", err).WithField("kind")
	}
	kind := Kind(s)
	if !kind.IsValid() {
		return errors.NewParseError(
			fmt.Sprintf("unknown unit kind: %q", s),
			nil,
		).WithField("kind").WithContext("line", value.Line)
	}
	*k = kind
	return nil
}
