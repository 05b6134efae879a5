package agent

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakeshbhasyam/RecruitIQ/internal/domain"
)

func TestFlexFloat(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		in   string
		want float64
	}{
		{"number", `0.75`, 0.75},
		{"quoted number", `"0.75"`, 0.75},
		{"quoted with spaces", `" 3.5 "`, 3.5},
		{"integer", `5`, 5},
		{"null", `null`, 0},
		{"non numeric string", `"five"`, 0},
		{"object", `{"v": 1}`, 0},
		{"array", `[1]`, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var f flexFloat
			require.NoError(t, json.Unmarshal([]byte(tc.in), &f))
			assert.Equal(t, tc.want, float64(f))
		})
	}
}

func TestCleanSkills(t *testing.T) {
	t.Parallel()
	got := cleanSkills([]string{" Python ", "Go", "python", "Python", "", "  ", "Go  Lang"})
	// Case-sensitive dedup: "Python" and "python" both survive.
	assert.Equal(t, []string{"Python", "Go", "python", "Go Lang"}, got)
}

func TestDurationMonths(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		in     string
		months int
		ok     bool
	}{
		{"2 years 3 months", 27, true},
		{"2 years, 3 months", 27, true},
		{"2 years and 3 months", 27, true},
		{"2 yrs", 24, true},
		{"1 year", 12, true},
		{"6 months", 6, true},
		{"6 mo", 6, true},
		{"2023 - Present", 29, true},
		{"2023 to present", 29, true},
		{"", 0, false},
		{"summer internship", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			months, ok := durationMonths(tc.in, now)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.months, months)
		})
	}
}

func TestDeriveExperienceYears_RoundsToOneDecimal(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	entries := []domain.WorkExperience{
		{Title: "Engineer", Duration: "2 years 3 months"},
		{Title: "Intern", Duration: "6 months"},
	}
	// 27 + 6 = 33 months = 2.75 years, rounded to 2.8.
	assert.Equal(t, 2.8, deriveExperienceYears(entries, now))
}

func TestDeriveExperienceYears_IgnoresUnparseable(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	entries := []domain.WorkExperience{
		{Title: "Engineer", Duration: "various"},
	}
	assert.Equal(t, 0.0, deriveExperienceYears(entries, now))
}

func TestNormalizeProjectURL(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want *string
	}{
		{"https://github.com/user/repo", ptr("https://github.com/user/repo")},
		{"http://myproject.dev", ptr("http://myproject.dev")},
		{"github.com/user/repo", ptr("github.com/user/repo")},
		{"N/A", nil},
		{"none", nil},
		{"#", nil},
		{"https://example.com", nil},
		{"", nil},
		{"just some text", nil},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got := normalizeProjectURL(tc.in)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tc.want, *got)
		})
	}
}

func TestNormalizeProjects_DropsUnnamed(t *testing.T) {
	t.Parallel()
	in := []domain.Project{
		{Name: "  ", Description: "orphan"},
		{Name: "CLI Tool", Technologies: []string{"Go", "", "  "}},
	}
	got := normalizeProjects(in)
	require.Len(t, got, 1)
	assert.Equal(t, "CLI Tool", got[0].Name)
	assert.Equal(t, []string{"Go"}, got[0].Technologies)
	assert.Nil(t, got[0].URL)
}

func TestNormalizeWorkExperience_DropsUntitled(t *testing.T) {
	t.Parallel()
	in := []domain.WorkExperience{
		{Title: "", Company: "Acme"},
		{Title: " Engineer ", Company: " Acme ", Achievements: []string{"shipped X", ""}},
	}
	got := normalizeWorkExperience(in)
	require.Len(t, got, 1)
	assert.Equal(t, "Engineer", got[0].Title)
	assert.Equal(t, "Acme", got[0].Company)
	assert.Equal(t, []string{"shipped X"}, got[0].Achievements)
}

func TestClamp01(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0.0, clamp01(-0.3))
	assert.Equal(t, 1.0, clamp01(1.5))
	assert.Equal(t, 0.42, clamp01(0.42))
}

func ptr(s string) *string { return &s }
