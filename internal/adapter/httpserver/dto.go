package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rakeshbhasyam/RecruitIQ/internal/domain"
)

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	return errors.As(err, target)
}

type jobDTO struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	Company   string             `json:"company,omitempty"`
	Location  string             `json:"location,omitempty"`
	JDText    string             `json:"jd_text"`
	Criteria  domain.JobCriteria `json:"criteria"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func toJobDTO(j domain.Job) jobDTO {
	return jobDTO{
		ID:        j.ID,
		Title:     j.Title,
		Company:   j.Company,
		Location:  j.Location,
		JDText:    j.JDText,
		Criteria:  j.Criteria,
		Status:    j.Status,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

type candidateDTO struct {
	ID        string                   `json:"id"`
	JobID     string                   `json:"job_id"`
	Email     string                   `json:"email,omitempty"`
	ResumeURI string                   `json:"resume_uri,omitempty"`
	Status    string                   `json:"status"`
	Profile   *domain.CandidateProfile `json:"profile,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

func toCandidateDTO(c domain.Candidate) candidateDTO {
	return candidateDTO{
		ID:        c.ID,
		JobID:     c.JobID,
		Email:     c.Email,
		ResumeURI: c.ResumeURI,
		Status:    c.Status,
		Profile:   c.Profile,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type scoreDTO struct {
	ID               string                   `json:"id"`
	CandidateID      string                   `json:"candidate_id"`
	JobID            string                   `json:"job_id"`
	MatcherScore     *float64                 `json:"matcher_score"`
	InterviewScore   *float64                 `json:"interview_score"`
	FinalScore       *float64                 `json:"final_score"`
	Breakdown        *domain.ScoreBreakdown   `json:"breakdown,omitempty"`
	InterviewSummary *domain.InterviewSummary `json:"interview_summary,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

func toScoreDTO(s domain.Score) scoreDTO {
	return scoreDTO{
		ID:               s.ID,
		CandidateID:      s.CandidateID,
		JobID:            s.JobID,
		MatcherScore:     s.MatcherScore,
		InterviewScore:   s.InterviewScore,
		FinalScore:       s.FinalScore,
		Breakdown:        s.Breakdown,
		InterviewSummary: s.InterviewSummary,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

type sessionDTO struct {
	ID                   string                  `json:"id"`
	CandidateID          string                  `json:"candidate_id"`
	JobID                string                  `json:"job_id"`
	MaxQuestions         int                     `json:"max_questions"`
	Status               domain.SessionStatus    `json:"status"`
	CurrentQuestionIndex int                     `json:"current_question_index"`
	QuestionsAndAnswers  []domain.QuestionAnswer `json:"questions_and_answers"`
	PendingQuestion      string                  `json:"pending_question,omitempty"`
	OverallScore         *float64                `json:"overall_score,omitempty"`
	OverallAssessment    string                  `json:"overall_assessment,omitempty"`
	CreatedAt            time.Time               `json:"created_at"`
	UpdatedAt            time.Time               `json:"updated_at"`
	CompletedAt          *time.Time              `json:"completed_at,omitempty"`
}

func toSessionDTO(s domain.InterviewSession) sessionDTO {
	qa := s.QuestionsAndAnswers
	if qa == nil {
		qa = []domain.QuestionAnswer{}
	}
	return sessionDTO{
		ID:                   s.ID,
		CandidateID:          s.CandidateID,
		JobID:                s.JobID,
		MaxQuestions:         s.MaxQuestions,
		Status:               s.Status,
		CurrentQuestionIndex: s.CurrentQuestionIndex,
		QuestionsAndAnswers:  qa,
		PendingQuestion:      s.Context[domain.SessionPendingQuestion],
		OverallScore:         s.OverallScore,
		OverallAssessment:    s.OverallAssessment,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
		CompletedAt:          s.CompletedAt,
	}
}
