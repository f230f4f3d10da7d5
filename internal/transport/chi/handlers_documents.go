package chi

import (
	"fmt"
	"net/http"

	"github.com/kailas-cloud/jobmatch/internal/domain"
	domdoc "github.com/kailas-cloud/jobmatch/internal/domain/document"
	"github.com/kailas-cloud/jobmatch/internal/extract"
)

const multipartOverhead = 1 << 20

// upsertDocument handles PUT /documents/{kind}/{id}.
func (s *Server) upsertDocument(kind domdoc.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := bindID(w, r)
		if !ok {
			return
		}
		var req UpsertDocumentRequest
		if !s.decodeBody(w, r, &req) {
			return
		}
		s.saveDocument(w, r, kind, id, req.Title, req.Text)
	}
}

// uploadDocument handles POST /documents/{kind}/{id}/file: a multipart "file" whose
// extracted text becomes the document text. Optional fields: "title", "format".
func (s *Server) uploadDocument(kind domdoc.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := bindID(w, r)
		if !ok {
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, extract.MaxFileSize+multipartOverhead)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid multipart body: "+err.Error())
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		files := r.MultipartForm.File["file"]
		if len(files) != 1 {
			writeError(w, http.StatusBadRequest, CodeValidationFailed, "exactly one file field is required")
			return
		}
		text, err := s.extractUpload(files[0], r.FormValue("format"))
		if err != nil {
			s.handleDomainError(w, r, err)
			return
		}

		title := r.FormValue("title")
		if title == "" {
			title = files[0].Filename
		}
		s.saveDocument(w, r, kind, id, title, text)
	}
}

func (s *Server) saveDocument(w http.ResponseWriter, r *http.Request, kind domdoc.Kind, id, title, text string) {
	ctx, usage := domain.NewContextWithUsage(r.Context())
	doc, created, err := s.documents.Upsert(ctx, principal(r).UserID, kind, id, title, text)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		w.Header().Set("Location", fmt.Sprintf("/documents/%s/%s", kind, id))
	}
	setEmbeddingHeaders(w, usage)
	writeJSON(w, status, documentToResponse(&doc))
}

// getDocument handles GET /documents/{kind}/{id}.
func (s *Server) getDocument(kind domdoc.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := bindID(w, r)
		if !ok {
			return
		}
		doc, err := s.documents.Get(r.Context(), kind, id)
		if err != nil {
			s.handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, documentToResponse(&doc))
	}
}

// listDocuments handles GET /documents/{kind}.
func (s *Server) listDocuments(kind domdoc.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, limit, ok := bindPage(w, r)
		if !ok {
			return
		}
		docs, total, err := s.documents.List(r.Context(), kind, offset, limit)
		if err != nil {
			s.handleDomainError(w, r, err)
			return
		}

		items := make([]DocumentResponse, len(docs))
		for i := range docs {
			items[i] = documentToResponse(&docs[i])
		}
		writeJSON(w, http.StatusOK, DocumentListResponse{Items: items, Total: total, Offset: offset, Limit: len(items)})
	}
}

// deleteDocument handles DELETE /documents/{kind}/{id}.
func (s *Server) deleteDocument(kind domdoc.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := bindID(w, r)
		if !ok {
			return
		}
		if err := s.documents.Delete(r.Context(), principal(r).UserID, kind, id); err != nil {
			s.handleDomainError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// SetVacancyState handles PUT /vacancies/{id}/state.
func (s *Server) SetVacancyState(w http.ResponseWriter, r *http.Request) {
	id, ok := bindID(w, r)
	if !ok {
		return
	}
	var req VacancyStateRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	state, err := domdoc.ParseState(req.State)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	doc, err := s.documents.SetVacancyState(r.Context(), principal(r).UserID, id, state)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, documentToResponse(&doc))
}

func documentToResponse(d *domdoc.Document) DocumentResponse {
	return DocumentResponse{
		ID:        d.ID(),
		Kind:      string(d.Kind()),
		Owner:     d.Owner(),
		Title:     d.Title(),
		Text:      d.Text(),
		State:     string(d.State()),
		Embedded:  !d.NeedsEmbedding(""),
		UpdatedAt: d.UpdatedAt(),
	}
}
