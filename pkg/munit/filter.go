package munit

import "strings"

const (
	PrefixGroup = "@"
	PrefixKind  = "&"
)

// FilterMap is a set of unit names, "@group" and "&kind" entries
type FilterMap map[string]struct{}

// NewFilterMap parses a comma-separated list. It returns nil when the list has no usable item.
func NewFilterMap(s string) (out FilterMap) {
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" || item == PrefixGroup || item == PrefixKind {
			continue
		}
		if out == nil {
			out = FilterMap{}
		}
		out[item] = struct{}{}
	}
	return
}

func (fm FilterMap) Match(unit Unit) bool {
	if fm == nil {
		return false
	}
	if _, ok := fm[unit.Name]; ok {
		return true
	}
	if _, ok := fm[PrefixGroup+unit.GroupOrDefault()]; ok {
		return true
	}
	_, ok := fm[PrefixKind+string(unit.Kind)]
	return ok
}

// Filter selects units by an allow list and a deny list, as set by MINIT_ENABLE and MINIT_DISABLE
type Filter struct {
	pass FilterMap
	deny FilterMap
}

func NewFilter(pass, deny string) *Filter {
	return &Filter{
		pass: NewFilterMap(pass),
		deny: NewFilterMap(deny),
	}
}

// Match reports whether the unit should be kept. A nil filter keeps everything.
func (f *Filter) Match(unit Unit) bool {
	if f == nil {
		return true
	}
	if f.pass != nil && !f.pass.Match(unit) {
		return false
	}
	if f.deny != nil && f.deny.Match(unit) {
		return false
	}
	return true
}
