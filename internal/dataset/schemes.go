package dataset

// curatedSchemes is the static government-schemes catalog. Unlike
// scholarships it is not loaded from a remote dataset; the list is
// maintained by hand.
var curatedSchemes = []Scholarship{
	{
		ID:           "scheme-1",
		Title:        "Federal Pell Grant",
		Organization: "U.S. Department of Education",
		Amount:       "Up to $6,895",
		Deadline:     "June 30",
		Eligibility:  "Undergraduate students with exceptional financial need",
		Level:        LevelUndergraduate,
		Description:  "Need-based federal grant program that provides financial aid to low-income undergraduate students to promote access to postsecondary education.",
		Link:         "#",
		MinAge:       defaultMinAge,
		MaxAge:       defaultMaxAge,
		Tags:         []string{string(LevelUndergraduate)},
	},
	{
		ID:           "scheme-2",
		Title:        "Subsidized Stafford Loan",
		Organization: "Federal Student Aid",
		Amount:       "Varies",
		Deadline:     "Open",
		Eligibility:  "Students with financial need",
		Level:        LevelUnspecified,
		Description:  "Federal government pays the interest on these loans while students are in school at least half-time, during grace periods, and during deferment periods.",
		Link:         "#",
		MinAge:       defaultMinAge,
		MaxAge:       defaultMaxAge,
	},
	{
		ID:           "scheme-3",
		Title:        "Work-Study Program",
		Organization: "Federal Student Aid",
		Amount:       "Varies by position",
		Deadline:     "Open",
		Eligibility:  "Students with financial need",
		Level:        LevelUnspecified,
		Description:  "Provides part-time jobs for undergraduate and graduate students with financial need, allowing them to earn money to help pay education expenses.",
		Link:         "#",
		MinAge:       defaultMinAge,
		MaxAge:       defaultMaxAge,
	},
	{
		ID:           "scheme-4",
		Title:        "TEACH Grant",
		Organization: "U.S. Department of Education",
		Amount:       "Up to $4,000 per year",
		Deadline:     "Varies by school",
		Eligibility:  "Students planning to become teachers",
		Level:        LevelUnspecified,
		Description:  "Provides grants to students who agree to teach for four years at an elementary school, secondary school, or educational service agency that serves students from low-income families.",
		Link:         "#",
		MinAge:       defaultMinAge,
		MaxAge:       defaultMaxAge,
	},
}

// Schemes returns a copy of the curated schemes catalog.
func Schemes() []Scholarship {
	out := make([]Scholarship, len(curatedSchemes))
	copy(out, curatedSchemes)
	return out
}
