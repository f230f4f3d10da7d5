package chi

import (
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kailas-cloud/jobmatch/internal/auth"
	domdoc "github.com/kailas-cloud/jobmatch/internal/domain/document"
)

// route is one authenticated endpoint and the roles allowed to call it.
// An empty roles list admits every authenticated caller.
type route struct {
	method  string
	pattern string
	roles   []auth.Role
	handler http.HandlerFunc
}

var (
	anyRole       []auth.Role
	jobSeekerOnly = []auth.Role{auth.RoleJobSeeker}
	recruiterOnly = []auth.Role{auth.RoleRecruiter}
)

// routes is the role policy of the API. Every authenticated endpoint is listed here.
func (s *Server) routes() []route {
	rs := []route{
		{http.MethodPost, "/match/rank", anyRole, s.Rank},
		{http.MethodPost, "/match/rank/files", anyRole, s.RankFiles},

		{http.MethodPut, "/documents/resume/{id}", jobSeekerOnly, s.upsertDocument(domdoc.KindResume)},
		{http.MethodPost, "/documents/resume/{id}/file", jobSeekerOnly, s.uploadDocument(domdoc.KindResume)},
		{http.MethodGet, "/documents/resume/{id}", anyRole, s.getDocument(domdoc.KindResume)},
		{http.MethodGet, "/documents/resume", recruiterOnly, s.listDocuments(domdoc.KindResume)},
		{http.MethodDelete, "/documents/resume/{id}", jobSeekerOnly, s.deleteDocument(domdoc.KindResume)},

		{http.MethodPut, "/documents/vacancy/{id}", recruiterOnly, s.upsertDocument(domdoc.KindVacancy)},
		{http.MethodPost, "/documents/vacancy/{id}/file", recruiterOnly, s.uploadDocument(domdoc.KindVacancy)},
		{http.MethodGet, "/documents/vacancy/{id}", anyRole, s.getDocument(domdoc.KindVacancy)},
		{http.MethodGet, "/documents/vacancy", anyRole, s.listDocuments(domdoc.KindVacancy)},
		{http.MethodDelete, "/documents/vacancy/{id}", recruiterOnly, s.deleteDocument(domdoc.KindVacancy)},
		{http.MethodPut, "/vacancies/{id}/state", recruiterOnly, s.SetVacancyState},
		{http.MethodPut, "/vacancies/{id}/saved", jobSeekerOnly, s.SaveVacancy},
		{http.MethodDelete, "/vacancies/{id}/saved", jobSeekerOnly, s.UnsaveVacancy},
		{http.MethodGet, "/me/saved", jobSeekerOnly, s.ListSavedVacancies},
		{http.MethodGet, "/me/history", anyRole, s.History},

		{http.MethodGet, "/resumes/{id}/matches", jobSeekerOnly, s.ResumeMatches},
		{http.MethodGet, "/vacancies/{id}/matches", recruiterOnly, s.VacancyMatches},

		{http.MethodPost, "/vacancies/{id}/applications", jobSeekerOnly, s.Apply},
		{http.MethodGet, "/vacancies/{id}/applications", recruiterOnly, s.ListApplications},
		{http.MethodPost, "/applications/{id}/accept", recruiterOnly, s.Accept},
		{http.MethodPost, "/applications/{id}/reject", recruiterOnly, s.Reject},

		{http.MethodGet, "/notifications", anyRole, s.ListNotifications},
		{http.MethodPost, "/notifications/{id}/read", anyRole, s.MarkNotificationRead},
	}
	if s.push != nil {
		rs = append(rs, route{http.MethodGet, "/notifications/ws", anyRole, s.NotificationStream})
	}
	return rs
}

// Mount registers the API on r: health and metrics unauthenticated, everything else
// behind Authenticate and the per-route role check.
func (s *Server) Mount(r gochi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r gochi.Router) {
		r.Use(Authenticate(s.tokens))
		for _, rt := range s.routes() {
			r.With(RequireRole(rt.roles...)).Method(rt.method, rt.pattern, rt.handler)
		}
	})
}
