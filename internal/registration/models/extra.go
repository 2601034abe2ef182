package models

import (
	"maps"
	"slices"
)

// Extra holds scheme-specific fields. They are stored flattened into the
// record and draft JSON objects next to the base fields: single values as
// strings, multi-selects as string arrays.
type Extra struct {
	Values map[string]string
	Lists  map[string][]string
}

// Value returns a single-valued extra field, or "".
func (e Extra) Value(key string) string {
	return e.Values[key]
}

// List returns a multi-select extra field, or nil.
func (e Extra) List(key string) []string {
	return e.Lists[key]
}

// SetValue stores a single value.
func (e *Extra) SetValue(key, value string) {
	if e.Values == nil {
		e.Values = make(map[string]string)
	}
	e.Values[key] = value
}

// SetList stores a multi-select. A nil list is stored as empty so that it
// serializes as [].
func (e *Extra) SetList(key string, values []string) {
	if e.Lists == nil {
		e.Lists = make(map[string][]string)
	}
	if values == nil {
		values = []string{}
	}
	e.Lists[key] = values
}

// Has reports whether key is present as either kind.
func (e Extra) Has(key string) bool {
	if _, ok := e.Values[key]; ok {
		return true
	}
	_, ok := e.Lists[key]
	return ok
}

// Clone returns a deep copy.
func (e Extra) Clone() Extra {
	out := Extra{}
	if e.Values != nil {
		out.Values = maps.Clone(e.Values)
	}
	if e.Lists != nil {
		out.Lists = make(map[string][]string, len(e.Lists))
		for k, v := range e.Lists {
			out.Lists[k] = slices.Clone(v)
		}
	}
	return out
}

// Merge copies every field of other into e, overwriting duplicates.
func (e *Extra) Merge(other Extra) {
	for k, v := range other.Values {
		e.SetValue(k, v)
	}
	for k, v := range other.Lists {
		e.SetList(k, slices.Clone(v))
	}
}

// Keys returns all field names, sorted.
func (e Extra) Keys() []string {
	keys := make([]string, 0, len(e.Values)+len(e.Lists))
	for k := range e.Values {
		keys = append(keys, k)
	}
	for k := range e.Lists {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return slices.Compact(keys)
}
