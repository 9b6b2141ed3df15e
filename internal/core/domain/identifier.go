package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Identifier is an entity, category or entity-type id as it appears on the
// wire. The modeling server is not consistent about id types (numeric in
// some payloads, string in others), so Identifier accepts either and
// canonicalizes to a string at the ingestion boundary. All lookups and map
// keys downstream use the canonical form; raw ids are never compared.
type Identifier string

// UnmarshalJSON accepts a JSON string, number or null.
func (id *Identifier) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*id = ""
		return nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = Identifier(NormalizeID(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = Identifier(NormalizeID(n.String()))
	return nil
}

// String returns the canonical string form.
func (id Identifier) String() string {
	return string(id)
}

// IsEmpty reports whether the identifier carries no value.
// An empty identifier is the "no parent" / "no reference" sentinel.
func (id Identifier) IsEmpty() bool {
	return id == ""
}

// NormalizeID canonicalizes a raw identifier string. Empty strings and the
// textual null sentinels some exports produce ("null", "None") normalize to
// the empty string, which every component treats as "no identifier".
func NormalizeID(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "none") {
		return ""
	}
	return s
}

// CanonicalUUID normalizes an id for use as a reconciliation key.
// Matching against a materialized document must be case-insensitive.
func CanonicalUUID(raw string) string {
	return strings.ToLower(NormalizeID(raw))
}

// CompareIDs orders two identifiers, numerically when both parse as
// numbers and lexicographically otherwise. The property resolver uses
// this to pick the authoritative category when several visualization
// categories attach to one entity: the highest id wins.
func CompareIDs(a, b string) int {
	na, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
	nb, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if errA == nil && errB == nil {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}
