package chi

import (
	"net/http"

	"github.com/kailas-cloud/jobmatch/internal/auth"
	domapp "github.com/kailas-cloud/jobmatch/internal/domain/application"
	domdoc "github.com/kailas-cloud/jobmatch/internal/domain/document"
)

// SaveVacancy handles PUT /vacancies/{id}/saved. 201 on a new bookmark, 200 if it already existed.
func (s *Server) SaveVacancy(w http.ResponseWriter, r *http.Request) {
	id, ok := bindID(w, r)
	if !ok {
		return
	}
	added, err := s.documents.SaveVacancy(r.Context(), principal(r).UserID, id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	writeJSON(w, status, SaveVacancyResponse{VacancyID: id, AlreadySaved: !added})
}

// UnsaveVacancy handles DELETE /vacancies/{id}/saved.
func (s *Server) UnsaveVacancy(w http.ResponseWriter, r *http.Request) {
	id, ok := bindID(w, r)
	if !ok {
		return
	}
	if err := s.documents.UnsaveVacancy(r.Context(), principal(r).UserID, id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSavedVacancies handles GET /me/saved.
func (s *Server) ListSavedVacancies(w http.ResponseWriter, r *http.Request) {
	docs, err := s.documents.SavedVacancies(r.Context(), principal(r).UserID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SavedVacancyListResponse{Items: documentsToResponse(docs)})
}

// History handles GET /me/history. The view depends on the caller's role.
func (s *Server) History(w http.ResponseWriter, r *http.Request) {
	p := principal(r)
	if p.Role == auth.RoleRecruiter {
		v, err := s.history.ForRecruiter(r.Context(), p.UserID)
		if err != nil {
			s.handleDomainError(w, r, err)
			return
		}
		items := make([]VacancyHistoryItem, len(v.Vacancies))
		for i := range v.Vacancies {
			items[i] = VacancyHistoryItem{
				Vacancy:      documentToResponse(&v.Vacancies[i].Vacancy),
				Applications: applicationsToResponse(v.Vacancies[i].Applications),
			}
		}
		writeJSON(w, http.StatusOK, RecruiterHistoryResponse{Role: string(p.Role), Vacancies: items})
		return
	}

	v, err := s.history.ForJobSeeker(r.Context(), p.UserID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, JobSeekerHistoryResponse{
		Role:           string(p.Role),
		Resumes:        documentsToResponse(v.Resumes),
		Applications:   applicationsToResponse(v.Applications),
		SavedVacancies: documentsToResponse(v.Saved),
	})
}

func documentsToResponse(docs []domdoc.Document) []DocumentResponse {
	out := make([]DocumentResponse, len(docs))
	for i := range docs {
		out[i] = documentToResponse(&docs[i])
	}
	return out
}

func applicationsToResponse(apps []domapp.Application) []ApplicationResponse {
	out := make([]ApplicationResponse, len(apps))
	for i := range apps {
		out[i] = applicationToResponse(&apps[i])
	}
	return out
}
