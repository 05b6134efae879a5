package httpserver

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/rakeshbhasyam/RecruitIQ/internal/config"
	"github.com/rakeshbhasyam/RecruitIQ/internal/domain"
	"github.com/rakeshbhasyam/RecruitIQ/internal/pipeline"
	"github.com/rakeshbhasyam/RecruitIQ/internal/usecase"
)

// allowedResumeExts is the upload extension allowlist.
var allowedResumeExts = map[string]struct{}{
	".pdf": {}, ".doc": {}, ".docx": {}, ".txt": {},
}

// allowedResumeMIMEs is the sniffed-content allowlist matching the
// extensions above.
var allowedResumeMIMEs = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"text/plain",
}

// Server bundles the application services behind the HTTP handlers.
type Server struct {
	Cfg        config.Config
	Candidates *usecase.CandidateService
	Jobs       *usecase.JobService
	Scores     *usecase.ScoreService
	Interviews *usecase.InterviewService
	Sessions   *usecase.SessionService
	Pipeline   *pipeline.Runner

	validate *validator.Validate
}

// NewServer constructs the HTTP server facade.
func NewServer(cfg config.Config, candidates *usecase.CandidateService, jobs *usecase.JobService, scores *usecase.ScoreService, interviews *usecase.InterviewService, sessions *usecase.SessionService, runner *pipeline.Runner) *Server {
	return &Server{
		Cfg:        cfg,
		Candidates: candidates,
		Jobs:       jobs,
		Scores:     scores,
		Interviews: interviews,
		Sessions:   sessions,
		Pipeline:   runner,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *Server) decodeValid(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := decodeJSON(r, v); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		var details []map[string]string
		var verrs validator.ValidationErrors
		if ok := asValidationErrors(err, &verrs); ok {
			for _, fe := range verrs {
				details = append(details, map[string]string{
					"field": fe.Field(),
					"rule":  fe.Tag(),
				})
			}
		}
		writeError(w, r, fmt.Errorf("%w: request validation failed", domain.ErrInvalidArgument), details)
		return false
	}
	return true
}

func pagination(r *http.Request) (skip, limit int) {
	skip, _ = strconv.Atoi(r.URL.Query().Get("skip"))
	if skip < 0 {
		skip = 0
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return skip, limit
}

type jobCriteriaRequest struct {
	Skills  []string           `json:"skills"`
	ExpMin  int                `json:"exp_min" validate:"min=0"`
	ExpMax  int                `json:"exp_max" validate:"min=0"`
	Weights map[string]float64 `json:"weights"`
}

type createJobRequest struct {
	Title    string             `json:"title" validate:"required,max=200"`
	Company  string             `json:"company" validate:"max=200"`
	Location string             `json:"location" validate:"max=200"`
	JDText   string             `json:"jd_text" validate:"required"`
	Criteria jobCriteriaRequest `json:"criteria"`
}

// CreateJob handles POST /v1/jobs.
func (s *Server) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	job, err := s.Jobs.Create(r.Context(), domain.Job{
		Title:    req.Title,
		Company:  req.Company,
		Location: req.Location,
		JDText:   req.JDText,
		Criteria: domain.JobCriteria{
			Skills:  req.Criteria.Skills,
			ExpMin:  req.Criteria.ExpMin,
			ExpMax:  req.Criteria.ExpMax,
			Weights: req.Criteria.Weights,
		},
	})
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusCreated, toJobDTO(job))
}

// GetJob handles GET /v1/jobs/{id}.
func (s *Server) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.Jobs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, toJobDTO(job))
}

// ListJobs handles GET /v1/jobs.
func (s *Server) ListJobs(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	jobs, err := s.Jobs.List(r.Context(), skip, limit)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	out := make([]jobDTO, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, toJobDTO(j))
	}
	writeJSON(w, http.StatusOK, out)
}

// UploadCandidate handles POST /v1/candidates/upload. It stores the resume,
// registers the candidate, and runs the full evaluation pipeline before
// responding.
func (s *Server) UploadCandidate(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.Cfg.MaxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeError(w, r, fmt.Errorf("%w: multipart form too large or malformed", domain.ErrInvalidArgument), nil)
		return
	}
	jobID := strings.TrimSpace(r.FormValue("job_id"))
	if jobID == "" {
		writeError(w, r, fmt.Errorf("%w: job_id is required", domain.ErrInvalidArgument), nil)
		return
	}
	email := r.FormValue("email")

	file, header, err := r.FormFile("resume")
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: resume file is required", domain.ErrInvalidArgument), nil)
		return
	}
	defer func() { _ = file.Close() }()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := allowedResumeExts[ext]; !ok {
		writeError(w, r, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, ext), nil)
		return
	}
	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: could not sniff file type", domain.ErrInvalidArgument), nil)
		return
	}
	if !mimeAllowed(mtype) {
		writeError(w, r, fmt.Errorf("%w: detected %s", domain.ErrUnsupportedFormat, mtype.String()), nil)
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		writeError(w, r, fmt.Errorf("%w: rewind upload: %v", domain.ErrInternal, err), nil)
		return
	}

	tmp, err := os.CreateTemp("", "resume-*"+ext)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: store upload: %v", domain.ErrInternal, err), nil)
		return
	}
	path := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(path)
	}()
	if _, err := io.Copy(tmp, file); err != nil {
		writeError(w, r, fmt.Errorf("%w: store upload: %v", domain.ErrInternal, err), nil)
		return
	}

	cand, err := s.Candidates.Register(r.Context(), jobID, email, "file://"+header.Filename)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}

	state, err := s.Pipeline.Process(r.Context(), cand.ID, header.Filename, path)
	if err != nil {
		LoggerFrom(r).Error("pipeline failed",
			slog.String("candidate_id", cand.ID),
			slog.String("trace_id", state.TraceID),
			slog.Any("error", err))
		writeError(w, r, err, map[string]string{
			"candidate_id": cand.ID,
			"trace_id":     state.TraceID,
		})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"trace_id":     state.TraceID,
		"candidate_id": cand.ID,
		"job_id":       state.JobID,
		"final_score":  state.FinalScore,
		"report":       state.FinalReport,
	})
}

func mimeAllowed(mtype *mimetype.MIME) bool {
	for _, allowed := range allowedResumeMIMEs {
		if mtype.Is(allowed) {
			return true
		}
	}
	return false
}

// GetCandidate handles GET /v1/candidates/{id}.
func (s *Server) GetCandidate(w http.ResponseWriter, r *http.Request) {
	cand, err := s.Candidates.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, toCandidateDTO(cand))
}

// ListCandidatesByJob handles GET /v1/candidates/job/{jobID}.
func (s *Server) ListCandidatesByJob(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	cands, err := s.Candidates.ListByJob(r.Context(), chi.URLParam(r, "jobID"), skip, limit)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	out := make([]candidateDTO, 0, len(cands))
	for _, c := range cands {
		out = append(out, toCandidateDTO(c))
	}
	writeJSON(w, http.StatusOK, out)
}

type generateInterviewRequest struct {
	CandidateID  string `json:"candidate_id" validate:"required"`
	JobID        string `json:"job_id" validate:"required"`
	NumQuestions int    `json:"num_questions" validate:"min=0,max=20"`
}

// GenerateInterview handles POST /v1/interviews/generate.
func (s *Server) GenerateInterview(w http.ResponseWriter, r *http.Request) {
	var req generateInterviewRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	result, err := s.Interviews.GenerateQuestions(r.Context(), req.CandidateID, req.JobID, req.NumQuestions)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type interviewAnswer struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

type submitInterviewRequest struct {
	CandidateID string            `json:"candidate_id" validate:"required"`
	JobID       string            `json:"job_id" validate:"required"`
	Answers     []interviewAnswer `json:"questions_and_answers" validate:"required,min=1,dive"`
}

// SubmitInterview handles POST /v1/interviews/submit.
func (s *Server) SubmitInterview(w http.ResponseWriter, r *http.Request) {
	var req submitInterviewRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	qas := make([]domain.QuestionAnswer, len(req.Answers))
	for i, qa := range req.Answers {
		qas[i] = domain.QuestionAnswer{
			Question:  qa.Question,
			Answer:    qa.Answer,
			Timestamp: time.Now().UTC(),
		}
	}
	result, err := s.Interviews.SubmitAnswers(r.Context(), req.CandidateID, req.JobID, qas)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type startSessionRequest struct {
	CandidateID  string `json:"candidate_id" validate:"required"`
	JobID        string `json:"job_id" validate:"required"`
	MaxQuestions int    `json:"max_questions" validate:"min=0,max=20"`
}

// StartSession handles POST /v1/interviews/sessions.
func (s *Server) StartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	result, err := s.Sessions.StartSession(r.Context(), req.CandidateID, req.JobID, req.MaxQuestions)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

type nextQuestionRequest struct {
	Answer string `json:"answer"`
}

// NextQuestion handles POST /v1/interviews/sessions/{id}/next.
func (s *Server) NextQuestion(w http.ResponseWriter, r *http.Request) {
	var req nextQuestionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
		return
	}
	result, err := s.Sessions.NextQuestion(r.Context(), chi.URLParam(r, "id"), req.Answer)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetSession handles GET /v1/interviews/sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.Sessions.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, toSessionDTO(session))
}

// GetScore handles GET /v1/scores/candidate/{candidateID}.
func (s *Server) GetScore(w http.ResponseWriter, r *http.Request) {
	score, err := s.Scores.GetByCandidate(r.Context(), chi.URLParam(r, "candidateID"))
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, toScoreDTO(score))
}

// ListScoresByJob handles GET /v1/scores/job/{jobID}.
func (s *Server) ListScoresByJob(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	scores, err := s.Scores.ListByJob(r.Context(), chi.URLParam(r, "jobID"), skip, limit)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	out := make([]scoreDTO, 0, len(scores))
	for _, sc := range scores {
		out = append(out, toScoreDTO(sc))
	}
	writeJSON(w, http.StatusOK, out)
}
