package dataset

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	defaultMinAge = 0
	defaultMaxAge = 100
	ageWindow     = 5
)

// levelRules are tried in order; the first group with any keyword hit wins.
// The plain "matric" fallback is deliberately last so class 11/12 phrases
// are classified as higher secondary before the matriculation catch-all.
var levelRules = []struct {
	level    Level
	keywords []string
}{
	{LevelUndergraduate, []string{"undergraduate", "under graduate", "bachelor", "b.tech", "b.sc", "b.e.", "bca", "diploma"}},
	{LevelPostgraduate, []string{"postgraduate", "post graduate", "post-graduate", "master", "m.tech", "m.sc", "mba", "mca"}},
	{LevelPhD, []string{"phd", "ph.d", "doctoral", "doctorate", "research scholar"}},
	{LevelHighSchool, []string{"class 9", "class 10", "9th", "10th", "secondary school"}},
	{LevelHigherSecondary, []string{"class 11", "class 12", "11th", "12th", "higher secondary", "intermediate"}},
	{LevelHighSchool, []string{"matric"}},
}

// knownStates is the fixed region keyword list scanned before the
// domicile pattern. All entries are lowercase full names.
var knownStates = []string{
	"andhra pradesh", "arunachal pradesh", "assam", "bihar", "chhattisgarh",
	"goa", "gujarat", "haryana", "himachal pradesh", "jharkhand", "karnataka",
	"kerala", "madhya pradesh", "maharashtra", "manipur", "meghalaya",
	"mizoram", "nagaland", "odisha", "punjab", "rajasthan", "sikkim",
	"tamil nadu", "telangana", "tripura", "uttar pradesh", "uttarakhand",
	"west bengal", "delhi", "jammu", "kashmir",
}

// domicilePattern captures the region named after a domicile/residency
// phrase. When both this and a knownStates hit are present, the pattern
// result wins.
var domicilePattern = regexp.MustCompile(`(?:domicile of|residents? of)\s+([a-z]+(?: [a-z]+)?)`)

// agePattern is a single alternation tried in order: exact years-of-age,
// below-N, N-or-younger, age-of-N. Only the first capturing group that
// matched is used. Groups 2 and 3 are upper bounds.
var agePattern = regexp.MustCompile(`(\d{1,2})\s*years?\s*of\s*age|below\s*(\d{1,2})|(\d{1,2})\s*(?:years?\s*)?or\s*younger|age\s*of\s*(\d{1,2})`)

// insignificantTokens are skipped when extracting an organization name
// from the leading tokens of a title.
var insignificantTokens = map[string]bool{
	"the": true, "a": true, "an": true, "of": true, "for": true, "and": true,
}

// Normalize converts raw dataset rows into scholarships. It is a pure
// function: given identical rows in identical order it produces
// byte-identical output, and a malformed row yields a partially
// defaulted record rather than failing the batch.
func Normalize(rows []RawRecord) []Scholarship {
	out := make([]Scholarship, 0, len(rows))
	for i, row := range rows {
		out = append(out, normalizeRow(i, row))
	}
	return out
}

func normalizeRow(index int, row RawRecord) Scholarship {
	title := cleanText(row[ColName])
	eligibility := cleanText(row[ColEligibility])

	s := Scholarship{
		ID:           fmt.Sprintf("sch-%d", index+1),
		Title:        title,
		Organization: organizationFromTitle(title),
		Description:  eligibility,
		Eligibility:  eligibility,
		Level:        inferLevel(eligibility),
		State:        inferState(eligibility),
		MinAge:       defaultMinAge,
		MaxAge:       defaultMaxAge,
		Amount:       "Varies",
		Deadline:     normalizeDeadline(row[ColDeadline]),
		Link:         normalizeLink(row[ColLink]),
	}

	if amount := cleanText(row["Amount"]); amount != "" {
		s.Amount = amount
	}

	s.MinAge, s.MaxAge = inferAgeRange(eligibility)
	s.Tags = buildTags(s.Level, s.State)
	return s
}

// organizationFromTitle takes the first significant token of the title,
// skipping leading articles and connectives.
func organizationFromTitle(title string) string {
	for _, tok := range strings.Fields(title) {
		clean := strings.Trim(tok, ".,:;!?()'\"")
		if clean == "" || insignificantTokens[strings.ToLower(clean)] {
			continue
		}
		return clean
	}
	return ""
}

func inferLevel(eligibility string) Level {
	text := strings.ToLower(eligibility)
	for _, rule := range levelRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.level
			}
		}
	}
	return LevelUnspecified
}

func inferState(eligibility string) string {
	text := strings.ToLower(eligibility)

	state := ""
	for _, name := range knownStates {
		if strings.Contains(text, name) {
			state = name
			break
		}
	}

	if m := domicilePattern.FindStringSubmatch(text); m != nil {
		if captured := trimStateCapture(m[1]); captured != "" {
			state = captured
		}
	}

	return state
}

// trimStateCapture cuts a domicile capture at the first token that is
// clearly not part of a region name.
func trimStateCapture(s string) string {
	stop := map[string]bool{
		"and": true, "or": true, "with": true, "who": true,
		"only": true, "state": true, "are": true,
	}
	var kept []string
	for _, w := range strings.Fields(s) {
		if stop[w] {
			break
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// inferAgeRange narrows the default [0,100] range when the eligibility
// text mentions an age. Upper-bound phrases set only the maximum; any
// other mention opens a ±5 year window around the value.
func inferAgeRange(eligibility string) (int, int) {
	minAge, maxAge := defaultMinAge, defaultMaxAge

	m := agePattern.FindStringSubmatch(strings.ToLower(eligibility))
	if m == nil {
		return minAge, maxAge
	}

	for group := 1; group < len(m); group++ {
		if m[group] == "" {
			continue
		}
		n, err := strconv.Atoi(m[group])
		if err != nil {
			break
		}
		switch group {
		case 2, 3: // "below N", "N or younger"
			maxAge = n
		default: // "N years of age", "age of N"
			minAge = clampAge(n - ageWindow)
			maxAge = clampAge(n + ageWindow)
		}
		break
	}

	return minAge, maxAge
}

func clampAge(n int) int {
	if n < defaultMinAge {
		return defaultMinAge
	}
	if n > defaultMaxAge {
		return defaultMaxAge
	}
	return n
}

func normalizeDeadline(raw string) string {
	d := cleanText(raw)
	if strings.EqualFold(d, "N/A") {
		return "Open"
	}
	return d
}

func normalizeLink(raw string) string {
	link := strings.TrimSpace(raw)
	if link == "" {
		return "#"
	}
	return link
}

func buildTags(level Level, state string) []string {
	var tags []string
	if level != LevelUnspecified && level != "" {
		tags = append(tags, string(level))
	}
	if state != "" {
		tags = append(tags, state)
	}
	return tags
}

// cleanText collapses runs of whitespace into single spaces and trims
// the result.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
