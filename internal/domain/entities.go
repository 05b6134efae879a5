// Package domain defines core entities, ports, and the error taxonomy.
package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrExtraction        = errors.New("text extraction failed")
	ErrModelCall         = errors.New("model call failed")
	ErrSessionCompleted  = errors.New("interview session already completed")
	ErrInternal          = errors.New("internal error")
)

// Candidate processing statuses, advanced by the pipeline stages.
const (
	CandidateUploaded = "uploaded"
	CandidateIngested = "ingested"
	CandidateParsed   = "parsed"
)

// Weight keys used in JobCriteria.Weights.
const (
	WeightSkills     = "skills"
	WeightExperience = "experience"
	WeightInterview  = "interview"
)

// Candidate is the durable record for one applicant against one job.
type Candidate struct {
	ID        string
	JobID     string
	Email     string
	ResumeURI string
	Status    string
	Profile   *CandidateProfile
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContactInfo holds structured contact details extracted from a resume.
type ContactInfo struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

// Project is one portfolio entry. URL stays nil unless it looks like a real
// link.
type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	URL          *string  `json:"url"`
}

// WorkExperience is one employment entry.
type WorkExperience struct {
	Title        string   `json:"title"`
	Company      string   `json:"company,omitempty"`
	Duration     string   `json:"duration,omitempty"`
	Description  string   `json:"description,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// CandidateProfile is the normalized structured view of a resume. It is
// created once by the parser stage and only replaced by a full re-parse.
type CandidateProfile struct {
	Name            string           `json:"name,omitempty"`
	Skills          []string         `json:"skills"`
	ExperienceYears float64          `json:"experience_years"`
	Education       string           `json:"education,omitempty"`
	JobTitles       []string         `json:"job_titles"`
	Projects        []Project        `json:"projects"`
	Summary         string           `json:"summary,omitempty"`
	Certifications  []string         `json:"certifications"`
	Contact         ContactInfo      `json:"contact_info"`
	WorkExperience  []WorkExperience `json:"work_experience"`
}

// JobCriteria captures the requirements a candidate is scored against.
// Weights maps skills/experience/interview to their share of the composite
// score; missing keys fall back to the defaults below.
type JobCriteria struct {
	Skills  []string           `json:"skills"`
	ExpMin  int                `json:"exp_min"`
	ExpMax  int                `json:"exp_max"`
	Weights map[string]float64 `json:"weights,omitempty"`
}

// DefaultMatcherWeights returns the weights the matcher uses when a job does
// not override them.
func DefaultMatcherWeights() map[string]float64 {
	return map[string]float64{WeightSkills: 0.7, WeightExperience: 0.3}
}

// DefaultFinalWeights returns the composite-score weights used when a job
// does not override them.
func DefaultFinalWeights() map[string]float64 {
	return map[string]float64{WeightSkills: 0.5, WeightExperience: 0.3, WeightInterview: 0.2}
}

// Job is a posting candidates are evaluated against.
type Job struct {
	ID        string
	Title     string
	Company   string
	Location  string
	JDText    string
	Criteria  JobCriteria
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MatchReport is the matcher stage's detailed output. Sub-scores are in [0,1].
type MatchReport struct {
	SkillsMatchScore     float64  `json:"skills_match_score"`
	ExperienceMatchScore float64  `json:"experience_match_score"`
	SkillsAnalysis       string   `json:"skills_analysis"`
	ExperienceAnalysis   string   `json:"experience_analysis"`
	OverallAssessment    string   `json:"overall_assessment"`
	Strengths            []string `json:"strengths"`
	Gaps                 []string `json:"gaps"`
}

// ScoreBreakdown records the matcher sub-scores behind a matcher score.
type ScoreBreakdown struct {
	SkillsMatch float64 `json:"skills_match"`
	ExpMatch    float64 `json:"exp_match"`
}

// QuestionAnswer is one interview turn, append-only once recorded.
type QuestionAnswer struct {
	Question    string    `json:"question"`
	Answer      string    `json:"answer"`
	Score       *float64  `json:"score"`
	Explanation string    `json:"explanation,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// InterviewSummary is the evaluated transcript persisted on the score record.
type InterviewSummary struct {
	Questions    []QuestionAnswer `json:"questions"`
	OverallScore float64          `json:"overall_score"`
	Notes        string           `json:"notes,omitempty"`
}

// InterviewCriterion is one rubric row produced by the criteria generator.
type InterviewCriterion struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	ScoringLogic    string   `json:"scoring_logic"`
	SampleQuestions []string `json:"sample_questions"`
}

// Score is the one-per-candidate-job score record. Nullable fields fill in as
// stages run; re-runs overwrite them.
type Score struct {
	ID               string
	CandidateID      string
	JobID            string
	MatcherScore     *float64
	InterviewScore   *float64
	FinalScore       *float64
	Breakdown        *ScoreBreakdown
	InterviewSummary *InterviewSummary
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SessionStatus enumerates interview session states.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

// SessionPendingQuestion is the context key under which the asked-but-not-yet
// answered question is held.
const SessionPendingQuestion = "pending_question"

// InterviewSession is the durable multi-turn adaptive interview state.
// Invariant between turns: CurrentQuestionIndex == len(QuestionsAndAnswers).
type InterviewSession struct {
	ID                   string
	CandidateID          string
	JobID                string
	MaxQuestions         int
	Status               SessionStatus
	CurrentQuestionIndex int
	QuestionsAndAnswers  []QuestionAnswer
	Context              map[string]string
	OverallScore         *float64
	OverallAssessment    string
	CreatedAt            time.Time
	UpdatedAt            time.Time
	CompletedAt          *time.Time
}

// Done reports whether the session has recorded all of its answers.
func (s InterviewSession) Done() bool {
	return s.Status == SessionCompleted || s.CurrentQuestionIndex >= s.MaxQuestions
}

// AuditEntry records one agent operation for a trace, success or failure.
type AuditEntry struct {
	ID          string
	TraceID     string
	Agent       string
	Prompt      string
	Response    string
	Error       string
	CandidateID string
	JobID       string
	CreatedAt   time.Time
}

// Repositories (ports)

type CandidateRepository interface {
	Create(ctx Context, c Candidate) (string, error)
	Get(ctx Context, id string) (Candidate, error)
	ListByJob(ctx Context, jobID string, skip, limit int) ([]Candidate, error)
	UpdateStatus(ctx Context, id, status string) error
	SetProfile(ctx Context, id string, p CandidateProfile) error
}

type JobRepository interface {
	Create(ctx Context, j Job) (string, error)
	Get(ctx Context, id string) (Job, error)
	List(ctx Context, skip, limit int) ([]Job, error)
}

type SessionRepository interface {
	Create(ctx Context, s InterviewSession) (string, error)
	Get(ctx Context, id string) (InterviewSession, error)
	UpdateContext(ctx Context, id string, sessionCtx map[string]string) error
	// AppendAnswer atomically appends one Q&A turn and increments the
	// question index, preserving the session invariant.
	AppendAnswer(ctx Context, id string, qa QuestionAnswer) error
	Complete(ctx Context, id string, overallScore float64, assessment string) error
	ListByCandidate(ctx Context, candidateID string, skip, limit int) ([]InterviewSession, error)
}

type ScoreRepository interface {
	Create(ctx Context, s Score) (string, error)
	GetByCandidate(ctx Context, candidateID string) (Score, error)
	SetMatcherScore(ctx Context, candidateID string, score float64, breakdown ScoreBreakdown) error
	SetInterviewResult(ctx Context, candidateID string, summary InterviewSummary) error
	SetFinalScore(ctx Context, candidateID string, finalScore float64) error
	ListByJob(ctx Context, jobID string, skip, limit int) ([]Score, error)
}

type AuditRepository interface {
	Insert(ctx Context, e AuditEntry) (string, error)
	ListByTrace(ctx Context, traceID string) ([]AuditEntry, error)
	ListByCandidate(ctx Context, candidateID string, skip, limit int) ([]AuditEntry, error)
}

// ModelClient (port) wraps one generative-model call. Implementations must
// bound the call with their own timeout; failures wrap ErrModelCall.
type ModelClient interface {
	Generate(ctx Context, prompt string, maxTokens int) (string, error)
}

// TextExtractor (port) turns a resume file into plain text.
type TextExtractor interface {
	ExtractPath(ctx Context, fileName, path string) (string, error)
}

// Context is an alias so the domain package stays decoupled from transport
// concerns; adapters pass context.Context through unchanged.
type Context = context.Context
