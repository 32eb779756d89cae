package perm

import (
	"encoding/json"
	"strings"
)

// RawEntry is one element of the permission list as the upstream API
// returns it. The API is inconsistent: some endpoints return plain
// strings, others return objects carrying a code and/or a display name.
// Decoding never fails; an entry with no usable value simply resolves
// to the empty string and is dropped during normalization.
type RawEntry struct {
	Code string
	Name string
}

func (e *RawEntry) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		e.Code = s
		return nil
	}

	var obj struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		e.Code = obj.Code
		e.Name = obj.Name
		return nil
	}

	// Malformed entries (numbers, nested arrays, null) contribute nothing.
	e.Code = ""
	e.Name = ""
	return nil
}

// Value resolves the entry to its permission string: code wins over name.
func (e RawEntry) Value() string {
	if e.Code != "" {
		return e.Code
	}
	return e.Name
}

// Set is a normalized permission set: lowercase, trimmed, deduplicated.
type Set map[string]struct{}

func (s Set) Has(name string) bool {
	_, ok := s[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Names returns the members in unspecified order.
func (s Set) Names() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	return out
}

// Normalize derives the canonical permission set from raw upstream
// entries. It is total: a nil slice and malformed entries yield an empty
// set, never an error. Output is order-independent and idempotent
// (normalizing the result re-read as strings gives the same set).
func Normalize(raw []RawEntry) Set {
	set := Set{}
	for _, entry := range raw {
		value := strings.ToLower(strings.TrimSpace(entry.Value()))
		if value == "" {
			continue
		}
		set[value] = struct{}{}
	}
	return set
}

// NormalizeStrings is Normalize over a plain string list, for callers
// that already hold flat permission names (route requirements, tests).
func NormalizeStrings(names []string) Set {
	entries := make([]RawEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, RawEntry{Code: name})
	}
	return Normalize(entries)
}

// HasAny reports whether the user holds at least one of the required
// permissions. Comparison is case-insensitive and exact (no wildcards).
// An empty requirement list is satisfied by anyone: a route or menu item
// without requirements is visible to every authenticated user.
func HasAny(userRaw []RawEntry, required []string) bool {
	if len(required) == 0 {
		return true
	}
	user := Normalize(userRaw)
	for _, name := range required {
		if user.Has(name) {
			return true
		}
	}
	return false
}
