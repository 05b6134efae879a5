package agent

import (
	"fmt"
	"log/slog"

	"github.com/rakeshbhasyam/RecruitIQ/internal/domain"
	"github.com/rakeshbhasyam/RecruitIQ/pkg/jsonx"
)

// Interview generates questions and criteria and evaluates answers. It
// serves both the batch flow (generate all questions, evaluate all answers)
// and the adaptive session flow (one question and one evaluation per turn).
type Interview struct {
	Base
	Candidates domain.CandidateRepository
	Jobs       domain.JobRepository
	Scores     domain.ScoreRepository

	// FallbackQuestions are returned when the model yields nothing parseable.
	FallbackQuestions []string
}

// NewInterview constructs the interview agent.
func NewInterview(model domain.ModelClient, audit domain.AuditRepository, candidates domain.CandidateRepository, jobs domain.JobRepository, scores domain.ScoreRepository, fallbackQuestions []string) *Interview {
	return &Interview{
		Base:              Base{Name: "InterviewAgent", Model: model, Audit: audit},
		Candidates:        candidates,
		Jobs:              jobs,
		Scores:            scores,
		FallbackQuestions: fallbackQuestions,
	}
}

func (iv *Interview) lookup(ctx domain.Context, candidateID, jobID string) (domain.CandidateProfile, domain.Job, error) {
	cand, err := iv.Candidates.Get(ctx, candidateID)
	if err != nil {
		return domain.CandidateProfile{}, domain.Job{}, err
	}
	job, err := iv.Jobs.Get(ctx, jobID)
	if err != nil {
		return domain.CandidateProfile{}, domain.Job{}, err
	}
	var profile domain.CandidateProfile
	if cand.Profile != nil {
		profile = *cand.Profile
	}
	return profile, job, nil
}

// GenerateQuestions produces numQuestions tailored interview questions in
// one model call. Unparseable output falls back to the static question list.
func (iv *Interview) GenerateQuestions(ctx domain.Context, traceID, candidateID, jobID string, numQuestions int) ([]string, error) {
	profile, job, err := iv.lookup(ctx, candidateID, jobID)
	if err != nil {
		return nil, fmt.Errorf("op=interview.generate_questions: %w", err)
	}

	prompt := questionsPrompt(profile, job, numQuestions)
	a := activity{traceID: traceID, candidateID: candidateID, jobID: jobID, prompt: prompt}
	iv.logActivity(ctx, a)

	resp, err := iv.Model.Generate(ctx, prompt, maxTokensQuestions)
	if err != nil {
		a.err = err.Error()
		iv.logActivity(ctx, a)
		return nil, fmt.Errorf("op=interview.generate_questions: %w", err)
	}

	parsed := jsonx.Decode(resp, []string(nil))
	questions := filterEmpty(parsed.Value)
	if parsed.Defaulted || len(questions) == 0 {
		slog.Warn("question generation defaulted",
			slog.String("trace_id", traceID),
			slog.String("candidate_id", candidateID))
		questions = iv.FallbackQuestions
	}

	a.prompt = ""
	a.response = fmt.Sprintf("generated %d questions", len(questions))
	iv.logActivity(ctx, a)
	return questions, nil
}

// GenerateCriteria produces the interview scoring rubric: one criterion per
// area with scoring logic and sample questions. Unparseable output yields an
// empty rubric, never an error.
func (iv *Interview) GenerateCriteria(ctx domain.Context, traceID, candidateID, jobID string, questionsPerCriterion int) ([]domain.InterviewCriterion, error) {
	profile, job, err := iv.lookup(ctx, candidateID, jobID)
	if err != nil {
		return nil, fmt.Errorf("op=interview.generate_criteria: %w", err)
	}

	prompt := criteriaPrompt(profile, job, questionsPerCriterion)
	a := activity{traceID: traceID, candidateID: candidateID, jobID: jobID, prompt: prompt}
	iv.logActivity(ctx, a)

	resp, err := iv.Model.Generate(ctx, prompt, maxTokensCriteria)
	if err != nil {
		a.err = err.Error()
		iv.logActivity(ctx, a)
		return nil, fmt.Errorf("op=interview.generate_criteria: %w", err)
	}

	parsed := jsonx.Decode(resp, []domain.InterviewCriterion{})
	if parsed.Defaulted {
		slog.Warn("criteria generation defaulted",
			slog.String("trace_id", traceID),
			slog.String("candidate_id", candidateID),
			slog.String("reason", parsed.Reason))
	}

	a.prompt = ""
	a.response = fmt.Sprintf("generated %d criteria", len(parsed.Value))
	iv.logActivity(ctx, a)
	return parsed.Value, nil
}

type rawEvaluation struct {
	QuestionScores       []flexFloat `json:"question_scores"`
	QuestionExplanations []string    `json:"question_explanations"`
	OverallScore         flexFloat   `json:"overall_score"`
	OverallAssessment    string      `json:"overall_assessment"`
}

func fallbackEvaluation() rawEvaluation {
	return rawEvaluation{
		OverallScore:      0.5,
		OverallAssessment: "Unable to evaluate responses",
	}
}

// EvaluateAnswers scores a full question/answer list in one model call and
// persists the result as the interview summary on the score record.
// Per-question scores are index-aligned with the input; missing indices
// default to 0.5 with a placeholder explanation.
func (iv *Interview) EvaluateAnswers(ctx domain.Context, traceID, candidateID, jobID string, qas []domain.QuestionAnswer) (domain.InterviewSummary, error) {
	job, err := iv.Jobs.Get(ctx, jobID)
	if err != nil {
		return domain.InterviewSummary{}, fmt.Errorf("op=interview.evaluate: %w", err)
	}

	prompt := batchEvaluationPrompt(job, qas)
	a := activity{traceID: traceID, candidateID: candidateID, jobID: jobID, prompt: prompt}
	iv.logActivity(ctx, a)

	resp, err := iv.Model.Generate(ctx, prompt, maxTokensBatchEval)
	if err != nil {
		a.err = err.Error()
		iv.logActivity(ctx, a)
		return domain.InterviewSummary{}, fmt.Errorf("op=interview.evaluate: %w", err)
	}

	parsed := jsonx.Decode(resp, fallbackEvaluation())
	if parsed.Defaulted {
		slog.Warn("interview evaluation defaulted",
			slog.String("trace_id", traceID),
			slog.String("candidate_id", candidateID),
			slog.String("reason", parsed.Reason))
	}
	eval := parsed.Value

	scored := make([]domain.QuestionAnswer, len(qas))
	for i, qa := range qas {
		score := 0.5
		if i < len(eval.QuestionScores) {
			score = clamp01(float64(eval.QuestionScores[i]))
		}
		explanation := "No explanation available"
		if i < len(eval.QuestionExplanations) && eval.QuestionExplanations[i] != "" {
			explanation = eval.QuestionExplanations[i]
		}
		s := score
		scored[i] = domain.QuestionAnswer{
			Question:    qa.Question,
			Answer:      qa.Answer,
			Score:       &s,
			Explanation: explanation,
			Timestamp:   qa.Timestamp,
		}
	}

	summary := domain.InterviewSummary{
		Questions:    scored,
		OverallScore: clamp01(float64(eval.OverallScore)),
		Notes:        eval.OverallAssessment,
	}
	if err := iv.Scores.SetInterviewResult(ctx, candidateID, summary); err != nil {
		a.err = err.Error()
		iv.logActivity(ctx, a)
		return domain.InterviewSummary{}, fmt.Errorf("op=interview.evaluate: %w", err)
	}

	a.prompt = ""
	a.response = fmt.Sprintf("overall_score=%.3f over %d answers", summary.OverallScore, len(scored))
	iv.logActivity(ctx, a)
	return summary, nil
}

type rawQuestion struct {
	Question string `json:"question"`
}

// NextAdaptiveQuestion generates one question from the prior transcript.
// With an empty transcript it produces the opening question. Unparseable
// output falls back to the next unused static question.
func (iv *Interview) NextAdaptiveQuestion(ctx domain.Context, traceID, candidateID, jobID string, transcript []domain.QuestionAnswer) (string, error) {
	profile, job, err := iv.lookup(ctx, candidateID, jobID)
	if err != nil {
		return "", fmt.Errorf("op=interview.next_question: %w", err)
	}

	prompt := adaptiveQuestionPrompt(profile, job, transcript)
	a := activity{traceID: traceID, candidateID: candidateID, jobID: jobID, prompt: prompt}
	iv.logActivity(ctx, a)

	resp, err := iv.Model.Generate(ctx, prompt, maxTokensTurn)
	if err != nil {
		a.err = err.Error()
		iv.logActivity(ctx, a)
		return "", fmt.Errorf("op=interview.next_question: %w", err)
	}

	parsed := jsonx.Decode(resp, rawQuestion{})
	question := parsed.Value.Question
	if question == "" {
		idx := len(transcript)
		if idx < len(iv.FallbackQuestions) {
			question = iv.FallbackQuestions[idx]
		} else if len(iv.FallbackQuestions) > 0 {
			question = iv.FallbackQuestions[len(iv.FallbackQuestions)-1]
		} else {
			return "", fmt.Errorf("%w: no question in model output", domain.ErrModelCall)
		}
		slog.Warn("adaptive question defaulted",
			slog.String("trace_id", traceID),
			slog.String("candidate_id", candidateID))
	}

	a.prompt = ""
	a.response = question
	iv.logActivity(ctx, a)
	return question, nil
}

type rawTurnEval struct {
	Score       flexFloat `json:"score"`
	Explanation string    `json:"explanation"`
}

// EvaluateAnswer scores one answer against its question in the context of
// the prior transcript. A parse failure yields the neutral 0.5 score.
func (iv *Interview) EvaluateAnswer(ctx domain.Context, traceID, candidateID, jobID string, transcript []domain.QuestionAnswer, question, answer string) (float64, string, error) {
	job, err := iv.Jobs.Get(ctx, jobID)
	if err != nil {
		return 0, "", fmt.Errorf("op=interview.evaluate_answer: %w", err)
	}

	prompt := answerEvaluationPrompt(job, transcript, question, answer)
	a := activity{traceID: traceID, candidateID: candidateID, jobID: jobID, prompt: prompt}
	iv.logActivity(ctx, a)

	resp, err := iv.Model.Generate(ctx, prompt, maxTokensAnswerEval)
	if err != nil {
		a.err = err.Error()
		iv.logActivity(ctx, a)
		return 0, "", fmt.Errorf("op=interview.evaluate_answer: %w", err)
	}

	parsed := jsonx.Decode(resp, rawTurnEval{Score: 0.5, Explanation: "No explanation available"})
	score := clamp01(float64(parsed.Value.Score))
	explanation := parsed.Value.Explanation
	if explanation == "" {
		explanation = "No explanation available"
	}

	a.prompt = ""
	a.response = fmt.Sprintf("score=%.3f", score)
	iv.logActivity(ctx, a)
	return score, explanation, nil
}

// EvaluateTranscript produces the closing overall score and assessment for a
// completed adaptive session.
func (iv *Interview) EvaluateTranscript(ctx domain.Context, traceID, candidateID, jobID string, transcript []domain.QuestionAnswer) (float64, string, error) {
	job, err := iv.Jobs.Get(ctx, jobID)
	if err != nil {
		return 0, "", fmt.Errorf("op=interview.evaluate_transcript: %w", err)
	}

	prompt := overallEvaluationPrompt(job, transcript)
	a := activity{traceID: traceID, candidateID: candidateID, jobID: jobID, prompt: prompt}
	iv.logActivity(ctx, a)

	resp, err := iv.Model.Generate(ctx, prompt, maxTokensOverall)
	if err != nil {
		a.err = err.Error()
		iv.logActivity(ctx, a)
		return 0, "", fmt.Errorf("op=interview.evaluate_transcript: %w", err)
	}

	parsed := jsonx.Decode(resp, rawEvaluation{OverallScore: 0.5, OverallAssessment: "Unable to evaluate responses"})
	score := clamp01(float64(parsed.Value.OverallScore))
	assessment := parsed.Value.OverallAssessment
	if assessment == "" {
		assessment = "Unable to evaluate responses"
	}

	a.prompt = ""
	a.response = fmt.Sprintf("overall_score=%.3f", score)
	iv.logActivity(ctx, a)
	return score, assessment, nil
}
