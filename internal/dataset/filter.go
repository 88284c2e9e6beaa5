package dataset

import "strings"

// Filter returns the order-preserving subsequence of records matching
// every active criterion. It never mutates records and is free of side
// effects, so repeated calls with the same arguments yield equal
// results. An empty result is a valid outcome, not an error.
//
// Records lacking a level or state are not excluded by the
// corresponding criterion (permissive-on-missing: recall is preferred
// over precision). Category, Gender, Handicap and the income range are
// accepted but not applied; see Criteria.
func Filter(records []Scholarship, c Criteria) []Scholarship {
	out := make([]Scholarship, 0, len(records))
	for _, r := range records {
		if matches(r, c) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r Scholarship, c Criteria) bool {
	if q := strings.ToLower(strings.TrimSpace(c.Query)); q != "" {
		if !strings.Contains(strings.ToLower(r.Title), q) &&
			!strings.Contains(strings.ToLower(r.Organization), q) &&
			!strings.Contains(strings.ToLower(r.Description), q) {
			return false
		}
	}

	if c.EducationLevel != "" && hasLevel(r) {
		if !strings.EqualFold(c.EducationLevel, string(r.Level)) {
			return false
		}
	}

	if c.State != "" && r.State != "" {
		if !strings.Contains(strings.ToLower(r.State), strings.ToLower(c.State)) {
			return false
		}
	}

	// The age bound check only applies when the caller supplied a
	// positive age and the record carries both bounds.
	if c.Age > 0 && r.MinAge >= 0 && r.MaxAge > 0 {
		if c.Age < r.MinAge || c.Age > r.MaxAge {
			return false
		}
	}

	return true
}

func hasLevel(r Scholarship) bool {
	return r.Level != "" && r.Level != LevelUnspecified
}
