package chi

import "time"

// ErrorCode is the machine-readable error kind in every error response.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest             ErrorCode = "bad_request"
	CodeValidationFailed       ErrorCode = "validation_failed"
	CodeUnauthorized           ErrorCode = "unauthorized"
	CodeForbidden              ErrorCode = "forbidden"
	CodeNotFound               ErrorCode = "not_found"
	CodeAlreadyExists          ErrorCode = "already_exists"
	CodeInvalidState           ErrorCode = "invalid_state"
	CodeEmptyCandidateSet      ErrorCode = "empty_candidate_set"
	CodeDimensionMismatch      ErrorCode = "vector_dim_mismatch"
	CodeUnsupportedFormat      ErrorCode = "unsupported_format"
	CodeExtractionFailed       ErrorCode = "extraction_failed"
	CodeEmbeddingProviderError ErrorCode = "embedding_provider_error"
	CodeInternalError          ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// RankRequest is the body of POST /match/rank.
type RankRequest struct {
	Query      string   `json:"query" validate:"required,max=163840"`
	Candidates []string `json:"candidates" validate:"max=100,dive,required,max=163840"`
}

// RankedItem is one ranked candidate. Index refers to the request order.
type RankedItem struct {
	Index    int     `json:"index"`
	Score    float64 `json:"score"`
	Filename string  `json:"filename,omitempty"`
}

// RankResponse lists candidates best first.
type RankResponse struct {
	Results []RankedItem `json:"results"`
}

// UpsertDocumentRequest is the body of PUT /documents/{kind}/{id}.
type UpsertDocumentRequest struct {
	Title string `json:"title" validate:"max=256"`
	Text  string `json:"text" validate:"required"`
}

// DocumentResponse is a stored résumé or vacancy.
type DocumentResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Owner     string    `json:"owner"`
	Title     string    `json:"title,omitempty"`
	Text      string    `json:"text"`
	State     string    `json:"state,omitempty"`
	Embedded  bool      `json:"embedded"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentListResponse is one page of documents.
type DocumentListResponse struct {
	Items  []DocumentResponse `json:"items"`
	Total  int                `json:"total"`
	Offset int                `json:"offset"`
	Limit  int                `json:"limit"`
}

// VacancyStateRequest is the body of PUT /vacancies/{id}/state.
type VacancyStateRequest struct {
	State string `json:"state" validate:"required,oneof=open closed"`
}

// MatchItem is a stored document scored against the requested one.
type MatchItem struct {
	ID    string  `json:"id"`
	Title string  `json:"title,omitempty"`
	Owner string  `json:"owner"`
	Score float64 `json:"score"`
}

// MatchResponse lists matches best first.
type MatchResponse struct {
	Items []MatchItem `json:"items"`
}

// ApplyRequest is the body of POST /vacancies/{id}/applications.
type ApplyRequest struct {
	ResumeID string `json:"resume_id" validate:"required,max=256"`
}

// ApplicationResponse is a job application.
type ApplicationResponse struct {
	ID        string     `json:"id"`
	ResumeID  string     `json:"resume_id"`
	VacancyID string     `json:"vacancy_id"`
	Candidate string     `json:"candidate"`
	MatchRate float64    `json:"match_rate"`
	State     string     `json:"state"`
	AppliedAt time.Time  `json:"applied_at"`
	DecidedAt *time.Time `json:"decided_at,omitempty"`
}

// ApplicationListResponse lists a vacancy's applications, best match first.
type ApplicationListResponse struct {
	Items []ApplicationResponse `json:"items"`
}

// SaveVacancyResponse is the body of PUT /vacancies/{id}/saved.
type SaveVacancyResponse struct {
	VacancyID    string `json:"vacancy_id"`
	AlreadySaved bool   `json:"already_saved"`
}

// SavedVacancyListResponse lists saved vacancies, most recently saved first.
type SavedVacancyListResponse struct {
	Items []DocumentResponse `json:"items"`
}

// JobSeekerHistoryResponse is GET /me/history for a job seeker.
type JobSeekerHistoryResponse struct {
	Role           string                `json:"role"`
	Resumes        []DocumentResponse    `json:"resumes"`
	Applications   []ApplicationResponse `json:"applications"`
	SavedVacancies []DocumentResponse    `json:"saved_vacancies"`
}

// RecruiterHistoryResponse is GET /me/history for a recruiter.
type RecruiterHistoryResponse struct {
	Role      string               `json:"role"`
	Vacancies []VacancyHistoryItem `json:"vacancies"`
}

// VacancyHistoryItem is a posted vacancy with the applications it received.
type VacancyHistoryItem struct {
	Vacancy      DocumentResponse      `json:"vacancy"`
	Applications []ApplicationResponse `json:"applications"`
}

// NotificationResponse is one notification.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	Read      bool      `json:"read"`
}

// NotificationListResponse lists notifications newest first.
type NotificationListResponse struct {
	Items  []NotificationResponse `json:"items"`
	Unread int                    `json:"unread"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
