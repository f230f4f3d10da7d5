package chi

import (
	"context"
	"net/http"

	domapp "github.com/kailas-cloud/jobmatch/internal/domain/application"
)

// Apply handles POST /vacancies/{id}/applications.
func (s *Server) Apply(w http.ResponseWriter, r *http.Request) {
	vacancyID, ok := bindID(w, r)
	if !ok {
		return
	}
	var req ApplyRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	app, err := s.applications.Apply(r.Context(), principal(r).UserID, req.ResumeID, vacancyID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, applicationToResponse(&app))
}

// ListApplications handles GET /vacancies/{id}/applications.
func (s *Server) ListApplications(w http.ResponseWriter, r *http.Request) {
	vacancyID, ok := bindID(w, r)
	if !ok {
		return
	}
	apps, err := s.applications.ListForVacancy(r.Context(), principal(r).UserID, vacancyID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]ApplicationResponse, len(apps))
	for i := range apps {
		items[i] = applicationToResponse(&apps[i])
	}
	writeJSON(w, http.StatusOK, ApplicationListResponse{Items: items})
}

// Accept handles POST /applications/{id}/accept.
func (s *Server) Accept(w http.ResponseWriter, r *http.Request) {
	s.decide(w, r, s.applications.Accept)
}

// Reject handles POST /applications/{id}/reject.
func (s *Server) Reject(w http.ResponseWriter, r *http.Request) {
	s.decide(w, r, s.applications.Reject)
}

func (s *Server) decide(
	w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context, recruiter, appID string) (domapp.Application, error),
) {
	id, ok := bindID(w, r)
	if !ok {
		return
	}
	app, err := fn(r.Context(), principal(r).UserID, id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, applicationToResponse(&app))
}

func applicationToResponse(a *domapp.Application) ApplicationResponse {
	resp := ApplicationResponse{
		ID:        a.ID(),
		ResumeID:  a.ResumeID(),
		VacancyID: a.VacancyID(),
		Candidate: a.Candidate(),
		MatchRate: a.MatchRate(),
		State:     string(a.State()),
		AppliedAt: a.AppliedAt(),
	}
	if !a.DecidedAt().IsZero() {
		t := a.DecidedAt()
		resp.DecidedAt = &t
	}
	return resp
}
