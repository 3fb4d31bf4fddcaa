package dto

import "github.com/ehs-honor/honor-site-api/internal/models"

// SubmitQuestionRequest creates a private question owned by the caller.
type SubmitQuestionRequest struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

// SubmitFeedbackRequest creates a feedback entry owned by the caller.
type SubmitFeedbackRequest struct {
	Text string `json:"text" validate:"required"`
}

// SubmitHelpRequest creates a help request owned by the caller.
type SubmitHelpRequest struct {
	Topic   string `json:"topic" validate:"required,oneof=general process report support"`
	Details string `json:"details" validate:"required"`
}

// SubmitReportRequest creates a report owned by the caller.
type SubmitReportRequest struct {
	Subject string `json:"subject" validate:"required"`
	Details string `json:"details" validate:"required"`
}

// PublishQuestionRequest publishes a question together with the committee
// response that justifies publication.
type PublishQuestionRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// AddAnswerRequest attaches an additional committee response to a question.
type AddAnswerRequest struct {
	Body string `json:"body" validate:"required"`
}

// UpdateStatusRequest transitions a help request or report status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open in_progress closed"`
}

// QuestionThread pairs a question with its answers, oldest answer first.
type QuestionThread struct {
	Question models.Question `json:"question"`
	Answers  []models.Answer `json:"answers"`
}
