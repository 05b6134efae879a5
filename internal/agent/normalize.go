package agent

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rakeshbhasyam/RecruitIQ/internal/domain"
	"github.com/rakeshbhasyam/RecruitIQ/pkg/textx"
)

// flexFloat decodes a JSON number or a numeric string. Anything else, or an
// unparseable string, decodes to 0.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

// cleanSkills trims and collapses whitespace, then removes exact duplicates
// preserving first-seen order. Dedup is case-sensitive: "Python" and
// "python" both survive.
func cleanSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		cleaned := textx.CollapseSpaces(strings.TrimSpace(s))
		if cleaned == "" {
			continue
		}
		if _, ok := seen[cleaned]; ok {
			continue
		}
		seen[cleaned] = struct{}{}
		out = append(out, cleaned)
	}
	return out
}

var (
	yearsMonthsRe = regexp.MustCompile(`(?i)(\d+)\s*(?:years?|yrs?)\s*(?:,?\s*(?:and\s+)?(\d+)\s*(?:months?|mos?))?`)
	monthsOnlyRe  = regexp.MustCompile(`(?i)(\d+)\s*(?:months?|mos?)`)
	presentRe     = regexp.MustCompile(`(?i)(\d{4})\s*[-–to]+\s*(?:present|current)`)
)

// durationMonths parses a free-form duration string into whole months.
// Supported shapes: "2 years 3 months", "2 yrs", "6 months", "6 mo", and
// "2019 - Present" which counts months from January of the start year to now.
func durationMonths(s string, now time.Time) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if m := presentRe.FindStringSubmatch(s); m != nil {
		startYear, err := strconv.Atoi(m[1])
		if err != nil || startYear > now.Year() {
			return 0, false
		}
		months := (now.Year()-startYear)*12 + int(now.Month()) - 1
		if months < 0 {
			months = 0
		}
		return months, true
	}
	if m := yearsMonthsRe.FindStringSubmatch(s); m != nil {
		years, _ := strconv.Atoi(m[1])
		months := years * 12
		if m[2] != "" {
			extra, _ := strconv.Atoi(m[2])
			months += extra
		}
		return months, true
	}
	if m := monthsOnlyRe.FindStringSubmatch(s); m != nil {
		months, _ := strconv.Atoi(m[1])
		return months, true
	}
	return 0, false
}

// deriveExperienceYears sums work-history durations and converts to years,
// rounded to one decimal, floored at 0.
func deriveExperienceYears(entries []domain.WorkExperience, now time.Time) float64 {
	totalMonths := 0
	for _, e := range entries {
		if months, ok := durationMonths(e.Duration, now); ok {
			totalMonths += months
		}
	}
	years := float64(totalMonths) / 12.0
	years = math.Round(years*10) / 10
	if years < 0 {
		return 0
	}
	return years
}

// placeholderURLs are strings models emit in place of a real link.
var placeholderURLs = map[string]struct{}{
	"n/a": {}, "na": {}, "none": {}, "null": {}, "nil": {},
	"#": {}, "-": {}, "not available": {}, "not provided": {},
	"example.com": {}, "http://example.com": {}, "https://example.com": {},
}

// normalizeProjectURL returns nil unless the value looks like a real link.
func normalizeProjectURL(raw string) *string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return nil
	}
	if _, placeholder := placeholderURLs[strings.ToLower(u)]; placeholder {
		return nil
	}
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") || strings.HasPrefix(u, "github.com/") {
		return &u
	}
	return nil
}

// normalizeProjects drops entries without a name and sanitizes URLs.
func normalizeProjects(projects []domain.Project) []domain.Project {
	out := make([]domain.Project, 0, len(projects))
	for _, p := range projects {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		url := ""
		if p.URL != nil {
			url = *p.URL
		}
		out = append(out, domain.Project{
			Name:         name,
			Description:  strings.TrimSpace(p.Description),
			Technologies: filterEmpty(p.Technologies),
			URL:          normalizeProjectURL(url),
		})
	}
	return out
}

// normalizeWorkExperience drops entries without a title and strips falsy
// achievement and technology entries.
func normalizeWorkExperience(entries []domain.WorkExperience) []domain.WorkExperience {
	out := make([]domain.WorkExperience, 0, len(entries))
	for _, e := range entries {
		title := strings.TrimSpace(e.Title)
		if title == "" {
			continue
		}
		out = append(out, domain.WorkExperience{
			Title:        title,
			Company:      strings.TrimSpace(e.Company),
			Duration:     strings.TrimSpace(e.Duration),
			Description:  strings.TrimSpace(e.Description),
			Achievements: filterEmpty(e.Achievements),
			Technologies: filterEmpty(e.Technologies),
		})
	}
	return out
}

func filterEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it) != "" {
			out = append(out, strings.TrimSpace(it))
		}
	}
	return out
}

func clamp01(v float64) float64 {
	return math.Min(1.0, math.Max(0.0, v))
}

func weightOr(weights map[string]float64, key string, def float64) float64 {
	if w, ok := weights[key]; ok {
		return w
	}
	return def
}
