package dataset

// Column names expected in the scholarship dataset header row.
const (
	ColName        = "Scholarship Name"
	ColEligibility = "Eligibility"
	ColDeadline    = "Deadline"
	ColLink        = "Link"
)

// RawRecord is a single row of the source dataset, keyed by column name.
// Cells that are missing or malformed are represented as empty strings.
type RawRecord map[string]string

// Level is the education level inferred from eligibility text.
type Level string

const (
	LevelHighSchool      Level = "high_school"
	LevelHigherSecondary Level = "higher_secondary"
	LevelUndergraduate   Level = "undergraduate"
	LevelPostgraduate    Level = "postgraduate"
	LevelPhD             Level = "phd"
	LevelUnspecified     Level = "unspecified"
)

// Scholarship is a normalized opportunity derived from a RawRecord.
// Instances are immutable after creation; a whole batch is rebuilt on
// every dataset (re)load.
type Scholarship struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Organization string   `json:"organization"`
	Description  string   `json:"description"`
	Eligibility  string   `json:"eligibility"`
	Level        Level    `json:"level"`
	State        string   `json:"state"`
	MinAge       int      `json:"minAge"`
	MaxAge       int      `json:"maxAge"`
	Amount       string   `json:"amount"`
	Deadline     string   `json:"deadline"`
	Link         string   `json:"link"`
	Tags         []string `json:"tags"`
}

// Criteria is the set of user-chosen filter values.
//
// Category, Gender, Handicap and the income range are collected by the
// search form but have no corresponding record field yet, so Filter does
// not apply them. They are kept here rather than dropped so the request
// contract stays complete.
type Criteria struct {
	Query          string `json:"query"`
	EducationLevel string `json:"educationLevel"`
	Category       string `json:"category"`
	State          string `json:"state"`
	Age            int    `json:"age"`
	Gender         string `json:"gender"`
	Handicap       bool   `json:"handicap"`
	IncomeMin      int    `json:"incomeMin"`
	IncomeMax      int    `json:"incomeMax"`
}

// DefaultCriteria returns an empty criteria set with the default income range.
func DefaultCriteria() Criteria {
	return Criteria{IncomeMin: 0, IncomeMax: 100000}
}
