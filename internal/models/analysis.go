package models

// Contact holds the reachable details found on the resume. Nil means the
// field was not present in the document.
type Contact struct {
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	LinkedIn *string `json:"linkedin"`
}

type Experience struct {
	Company string   `json:"company"`
	Title   string   `json:"title"`
	Start   *string  `json:"start"`
	End     *string  `json:"end"`
	Bullets []string `json:"bullets"`
}

type Education struct {
	School string  `json:"school"`
	Degree string  `json:"degree"`
	Year   *string `json:"year"`
}

type Project struct {
	Name string `json:"name"`
	Desc string `json:"desc"`
}

// ParsedResume is the normalized resume content. Sequences keep document order.
type ParsedResume struct {
	Name           *string      `json:"name"`
	Title          *string      `json:"title"`
	Contact        Contact      `json:"contact"`
	Summary        *string      `json:"summary"`
	Skills         []string     `json:"skills"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	Projects       []Project    `json:"projects"`
	Certifications []string     `json:"certifications"`
}

type SuggestionLocation struct {
	Section string `json:"section"`
	Index   int    `json:"index"`
}

type LineItemSuggestion struct {
	Location         SuggestionLocation `json:"location"`
	SuggestedBullets []string           `json:"suggested_bullets"`
}

type JobFit struct {
	JDTitle         *string  `json:"jd_title"`
	MatchScore      int      `json:"match_score"`
	Gaps            []string `json:"gaps"`
	Recommendations []string `json:"recommendations"`
}

type ResumeAnalysisResult struct {
	Parsed              ParsedResume         `json:"parsed"`
	Score               int                  `json:"score"`
	HighLevelAdvice     []string             `json:"high_level_advice"`
	LineItemSuggestions []LineItemSuggestion `json:"line_item_suggestions"`
	FitForJob           JobFit               `json:"fit_for_job"`
}

// SectionLen reports how many records the named section of the parsed resume
// holds, and false for sections that cannot be addressed by index.
func (p ParsedResume) SectionLen(section string) (int, bool) {
	switch section {
	case "experience":
		return len(p.Experience), true
	case "education":
		return len(p.Education), true
	case "projects":
		return len(p.Projects), true
	case "skills":
		return len(p.Skills), true
	case "certifications":
		return len(p.Certifications), true
	case "summary":
		if p.Summary == nil {
			return 0, true
		}
		return 1, true
	default:
		return 0, false
	}
}

// ResolvedSuggestions returns the suggestions whose location points at an
// existing record. Suggestions with an unknown section or an out-of-range
// index are dropped.
func (r ResumeAnalysisResult) ResolvedSuggestions() []LineItemSuggestion {
	resolved := make([]LineItemSuggestion, 0, len(r.LineItemSuggestions))
	for _, s := range r.LineItemSuggestions {
		n, ok := r.Parsed.SectionLen(s.Location.Section)
		if !ok || s.Location.Index < 0 || s.Location.Index >= n {
			continue
		}
		resolved = append(resolved, s)
	}
	return resolved
}
