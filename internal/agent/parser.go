package agent

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/rakeshbhasyam/RecruitIQ/internal/domain"
	"github.com/rakeshbhasyam/RecruitIQ/pkg/jsonx"
)

// Parser turns extracted resume text into a normalized CandidateProfile.
type Parser struct {
	Base
	Candidates domain.CandidateRepository

	// now is swappable so duration parsing is deterministic in tests.
	now func() time.Time
}

// NewParser constructs the parser agent.
func NewParser(model domain.ModelClient, audit domain.AuditRepository, candidates domain.CandidateRepository) *Parser {
	return &Parser{
		Base:       Base{Name: "ResumeParserAgent", Model: model, Audit: audit},
		Candidates: candidates,
		now:        time.Now,
	}
}

type rawProject struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	URL          string   `json:"url"`
}

type rawWork struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Duration     string   `json:"duration"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
	Technologies []string `json:"technologies"`
}

type rawProfile struct {
	Name            string             `json:"name"`
	Skills          []string           `json:"skills"`
	Experience      flexFloat          `json:"experience"`
	ExperienceYears flexFloat          `json:"experience_years"`
	Education       string             `json:"education"`
	JobTitles       []string           `json:"job_titles"`
	Projects        []rawProject       `json:"projects"`
	Summary         string             `json:"summary"`
	Certifications  []string           `json:"certifications"`
	Contact         domain.ContactInfo `json:"contact_info"`
	WorkExperience  []rawWork          `json:"work_experience"`
}

// ParseResume extracts a structured profile from resume text, normalizes it,
// and persists it on the candidate. Malformed model output yields an empty
// profile rather than an error.
func (p *Parser) ParseResume(ctx domain.Context, traceID, candidateID, resumeText string) (domain.CandidateProfile, error) {
	prompt := parsingPrompt(resumeText)
	a := activity{traceID: traceID, candidateID: candidateID, prompt: prompt}
	p.logActivity(ctx, a)

	resp, err := p.Model.Generate(ctx, prompt, maxTokensParse)
	if err != nil {
		a.err = err.Error()
		p.logActivity(ctx, a)
		return domain.CandidateProfile{}, fmt.Errorf("op=parser.parse: %w", err)
	}

	parsed := jsonx.Decode(resp, rawProfile{})
	if parsed.Defaulted {
		slog.Warn("resume parse defaulted",
			slog.String("trace_id", traceID),
			slog.String("candidate_id", candidateID),
			slog.String("reason", parsed.Reason))
	}
	profile := p.normalize(parsed.Value)

	if err := p.Candidates.SetProfile(ctx, candidateID, profile); err != nil {
		a.err = err.Error()
		p.logActivity(ctx, a)
		return domain.CandidateProfile{}, fmt.Errorf("op=parser.parse: %w", err)
	}

	a.prompt = ""
	a.response = fmt.Sprintf("parsed profile: %d skills, %g years experience", len(profile.Skills), profile.ExperienceYears)
	p.logActivity(ctx, a)
	return profile, nil
}

func (p *Parser) normalize(raw rawProfile) domain.CandidateProfile {
	work := make([]domain.WorkExperience, 0, len(raw.WorkExperience))
	for _, w := range raw.WorkExperience {
		work = append(work, domain.WorkExperience{
			Title:        w.Title,
			Company:      w.Company,
			Duration:     w.Duration,
			Description:  w.Description,
			Achievements: w.Achievements,
			Technologies: w.Technologies,
		})
	}
	work = normalizeWorkExperience(work)

	years := float64(raw.ExperienceYears)
	if years == 0 {
		years = float64(raw.Experience)
	}
	if years <= 0 {
		years = deriveExperienceYears(work, p.now())
	}
	if years < 0 {
		years = 0
	}

	projects := make([]domain.Project, 0, len(raw.Projects))
	for _, pr := range raw.Projects {
		url := pr.URL
		projects = append(projects, domain.Project{
			Name:         pr.Name,
			Description:  pr.Description,
			Technologies: pr.Technologies,
			URL:          &url,
		})
	}

	return domain.CandidateProfile{
		Name:            raw.Name,
		Skills:          cleanSkills(raw.Skills),
		ExperienceYears: years,
		Education:       raw.Education,
		JobTitles:       filterEmpty(raw.JobTitles),
		Projects:        normalizeProjects(projects),
		Summary:         raw.Summary,
		Certifications:  filterEmpty(raw.Certifications),
		Contact:         raw.Contact,
		WorkExperience:  work,
	}
}
