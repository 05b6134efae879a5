package agent

import (
	"fmt"
	"strings"

	"github.com/rakeshbhasyam/RecruitIQ/internal/domain"
)

// Per-stage completion budgets.
const (
	maxTokensParse      = 1500
	maxTokensMatch      = 1000
	maxTokensQuestions  = 1500
	maxTokensCriteria   = 1500
	maxTokensBatchEval  = 2000
	maxTokensTurn       = 800
	maxTokensAnswerEval = 600
	maxTokensOverall    = 1000
)

func truncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func parsingPrompt(resumeText string) string {
	return fmt.Sprintf(`You are an expert resume parser. Extract structured information from the following resume text and return it as a JSON object.

Resume Text:
%s

Please extract the following information and return it as a valid JSON object:
{
    "name": "Candidate's full name",
    "skills": ["List of technical skills, programming languages, tools, etc."],
    "experience_years": "Total years of professional experience as a number",
    "education": "Highest degree and institution",
    "job_titles": ["List of previous job titles"],
    "certifications": ["List of certifications"],
    "projects": [{"name": "Project name", "description": "...", "technologies": ["..."], "url": "link if found"}],
    "work_experience": [{"title": "Job title", "company": "...", "duration": "e.g. 2 years 3 months", "description": "...", "achievements": ["..."], "technologies": ["..."]}],
    "summary": "Brief professional summary",
    "contact_info": {
        "email": "email address if found",
        "phone": "phone number if found",
        "location": "location/city if found",
        "linkedin": "linkedin url if found",
        "github": "github url if found"
    }
}

Important instructions:
1. Return ONLY the JSON object, no additional text
2. If information is not found, use null for strings, empty arrays for lists, and 0 for experience
3. Extract skills comprehensively including programming languages, frameworks, tools, databases, etc.
4. Calculate experience based on job history dates
5. Ensure the JSON is valid and properly formatted

JSON Response:`, resumeText)
}

func matchingPrompt(profile domain.CandidateProfile, job domain.Job) string {
	return fmt.Sprintf(`You are an expert HR recruiter. Analyze how well this candidate matches the job requirements.

Candidate Profile:
- Name: %s
- Skills: %s
- Experience: %g years
- Education: %s
- Previous Job Titles: %s

Job Requirements:
- Title: %s
- Required Skills: %s
- Experience Range: %d-%d years
- Job Description: %s

Please analyze the match and return a JSON object with the following structure:
{
    "skills_match_score": "Score from 0.0 to 1.0 for skills alignment",
    "experience_match_score": "Score from 0.0 to 1.0 for experience fit",
    "skills_analysis": "Detailed analysis of skill matches and gaps",
    "experience_analysis": "Analysis of experience level fit",
    "overall_assessment": "Overall candidate fit summary",
    "strengths": ["List of candidate strengths"],
    "gaps": ["List of skill or experience gaps"]
}

Scoring Guidelines:
- Skills match: Higher score for more required skills present and relevant
- Experience match: 1.0 for experience in range, lower for under/over qualified
- Consider transferable skills and domain relevance
- Be objective and thorough in your analysis

JSON Response:`,
		orNA(profile.Name),
		strings.Join(profile.Skills, ", "),
		profile.ExperienceYears,
		orNA(profile.Education),
		strings.Join(profile.JobTitles, ", "),
		orNA(job.Title),
		strings.Join(job.Criteria.Skills, ", "),
		job.Criteria.ExpMin, job.Criteria.ExpMax,
		truncateText(job.JDText, 500))
}

func questionsPrompt(profile domain.CandidateProfile, job domain.Job, numQuestions int) string {
	return fmt.Sprintf(`You are an expert technical interviewer. Generate %d interview questions tailored to this specific candidate and job.

Job Details:
- Title: %s
- Required Skills: %s
- Experience Level: %d-%d years
- Job Description: %s

Candidate Profile:
- Skills: %s
- Experience: %g years
- Previous Roles: %s

Generate questions that:
1. Test technical skills relevant to the job
2. Assess experience level and problem-solving
3. Are appropriate for the candidate's background
4. Mix of technical, behavioral, and scenario-based questions
5. Progressive difficulty based on the role level

Return the questions as a JSON array of strings:
["Question 1", "Question 2", "Question 3", ...]

JSON Response:`,
		numQuestions,
		orNA(job.Title),
		strings.Join(job.Criteria.Skills, ", "),
		job.Criteria.ExpMin, job.Criteria.ExpMax,
		truncateText(job.JDText, 500),
		strings.Join(profile.Skills, ", "),
		profile.ExperienceYears,
		strings.Join(profile.JobTitles, ", "))
}

func criteriaPrompt(profile domain.CandidateProfile, job domain.Job, numQuestions int) string {
	return fmt.Sprintf(`You are an expert HR strategist. Based on the job description and candidate profile, create an interview scoring rubric.

Job Details:
- Title: %s
- Required Skills: %s

Candidate Profile:
- Skills: %s
- Experience: %g years

Generate a JSON array of criteria objects. Each object should contain:
1. "name": The evaluation criterion (e.g., "Technical Depth").
2. "description": What is being assessed.
3. "scoring_logic": How to rate the candidate on a 1-5 scale.
4. "sample_questions": An array of %d relevant questions for that criterion.

Example format:
[
  {"name": "Technical Depth", "description": "...", "scoring_logic": "...", "sample_questions": ["..."]}
]

JSON Response:`,
		orNA(job.Title),
		strings.Join(job.Criteria.Skills, ", "),
		strings.Join(profile.Skills, ", "),
		profile.ExperienceYears,
		numQuestions)
}

func transcriptText(qas []domain.QuestionAnswer) string {
	parts := make([]string, 0, len(qas))
	for _, qa := range qas {
		parts = append(parts, fmt.Sprintf("Q: %s\nA: %s", qa.Question, qa.Answer))
	}
	return strings.Join(parts, "\n\n")
}

func batchEvaluationPrompt(job domain.Job, qas []domain.QuestionAnswer) string {
	return fmt.Sprintf(`You are an expert technical interviewer evaluating candidate responses for a %s position.

Job Context:
- Required Skills: %s
- Experience Level: %d-%d years
- Job Description: %s

Interview Questions and Answers:
%s

Evaluate each answer and provide:
1. Individual scores (0.0 to 1.0) for each question
2. Explanation for each score
3. Overall interview score (0.0 to 1.0)
4. Overall assessment

Return evaluation as JSON:
{
    "question_scores": [0.8, 0.6, 0.9, ...],
    "question_explanations": ["Explanation for Q1", "Explanation for Q2", ...],
    "overall_score": 0.75,
    "overall_assessment": "Comprehensive assessment of candidate performance",
    "strengths": ["List of demonstrated strengths"],
    "areas_for_improvement": ["Areas needing development"]
}

Scoring Guidelines:
- Technical accuracy and depth of knowledge
- Problem-solving approach and reasoning
- Communication clarity and structure
- Relevance to job requirements
- Experience level appropriateness

JSON Response:`,
		orNA(job.Title),
		strings.Join(job.Criteria.Skills, ", "),
		job.Criteria.ExpMin, job.Criteria.ExpMax,
		truncateText(job.JDText, 300),
		transcriptText(qas))
}

func adaptiveQuestionPrompt(profile domain.CandidateProfile, job domain.Job, transcript []domain.QuestionAnswer) string {
	prior := "None yet. This is the opening question."
	if len(transcript) > 0 {
		prior = transcriptText(transcript)
	}
	return fmt.Sprintf(`You are an expert technical interviewer conducting a live adaptive interview for a %s position.

Job Context:
- Required Skills: %s
- Experience Level: %d-%d years

Candidate Profile:
- Skills: %s
- Experience: %g years

Interview so far:
%s

Generate the single best next interview question. Build on the candidate's previous answers: probe deeper where answers were strong, and shift topics where they were weak or complete. Do not repeat a question already asked.

Return the question as a JSON object:
{"question": "The next interview question"}

JSON Response:`,
		orNA(job.Title),
		strings.Join(job.Criteria.Skills, ", "),
		job.Criteria.ExpMin, job.Criteria.ExpMax,
		strings.Join(profile.Skills, ", "),
		profile.ExperienceYears,
		prior)
}

func answerEvaluationPrompt(job domain.Job, transcript []domain.QuestionAnswer, question, answer string) string {
	prior := "None."
	if len(transcript) > 0 {
		prior = transcriptText(transcript)
	}
	return fmt.Sprintf(`You are an expert technical interviewer evaluating one answer in a live interview for a %s position.

Job Context:
- Required Skills: %s

Previous questions and answers:
%s

Current question and answer:
Q: %s
A: %s

Score the current answer from 0.0 to 1.0 considering technical accuracy, depth, reasoning, and relevance to the job.

Return the evaluation as a JSON object:
{"score": 0.8, "explanation": "Why this score was given"}

JSON Response:`,
		orNA(job.Title),
		strings.Join(job.Criteria.Skills, ", "),
		prior,
		question, answer)
}

func overallEvaluationPrompt(job domain.Job, transcript []domain.QuestionAnswer) string {
	return fmt.Sprintf(`You are an expert technical interviewer. The following adaptive interview for a %s position has concluded.

Job Context:
- Required Skills: %s
- Experience Level: %d-%d years

Full transcript:
%s

Provide an overall interview score from 0.0 to 1.0 and an overall assessment of the candidate's performance.

Return the evaluation as a JSON object:
{"overall_score": 0.75, "overall_assessment": "Comprehensive assessment of candidate performance"}

JSON Response:`,
		orNA(job.Title),
		strings.Join(job.Criteria.Skills, ", "),
		job.Criteria.ExpMin, job.Criteria.ExpMax,
		transcriptText(transcript))
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
