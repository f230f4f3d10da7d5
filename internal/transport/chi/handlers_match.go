package chi

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/domain/match"
	"github.com/kailas-cloud/jobmatch/internal/extract"
)

const (
	maxUploadBytes  = 64 << 20
	multipartMemory = 32 << 20
	maxRankFiles    = 100
)

// Rank handles POST /match/rank.
func (s *Server) Rank(w http.ResponseWriter, r *http.Request) {
	var req RankRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	ranked, err := s.matching.Rank(ctx, req.Query, req.Candidates)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, rankedToResponse(ranked, nil))
}

// RankFiles handles POST /match/rank/files: a query field and one or more files,
// each turned into text by its format's extractor.
func (s *Server) RankFiles(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid multipart body: "+err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	query := r.FormValue("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "field query is required")
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) > maxRankFiles {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, fmt.Sprintf("at most %d files", maxRankFiles))
		return
	}

	texts := make([]string, len(files))
	names := make([]string, len(files))
	for i, fh := range files {
		text, err := s.extractUpload(fh, r.FormValue("format"))
		if err != nil {
			s.handleDomainError(w, r, fmt.Errorf("file %q: %w", fh.Filename, err))
			return
		}
		texts[i], names[i] = text, fh.Filename
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	ranked, err := s.matching.Rank(ctx, query, texts)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, rankedToResponse(ranked, names))
}

// ResumeMatches handles GET /resumes/{id}/matches.
func (s *Server) ResumeMatches(w http.ResponseWriter, r *http.Request) {
	s.matches(w, r, s.matching.RankVacanciesForResume)
}

// VacancyMatches handles GET /vacancies/{id}/matches.
func (s *Server) VacancyMatches(w http.ResponseWriter, r *http.Request) {
	s.matches(w, r, s.matching.RankResumesForVacancy)
}

func (s *Server) matches(
	w http.ResponseWriter, r *http.Request,
	rank func(ctx context.Context, requester, id string, limit int) ([]match.Result, error),
) {
	id, ok := bindID(w, r)
	if !ok {
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	results, err := rank(ctx, principal(r).UserID, id, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]MatchItem, len(results))
	for i := range results {
		res := &results[i]
		items[i] = MatchItem{ID: res.Target(), Title: res.Title(), Owner: res.Owner(), Score: res.Score()}
	}
	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, MatchResponse{Items: items})
}

// extractUpload reads one uploaded file and extracts its text.
func (s *Server) extractUpload(fh *multipart.FileHeader, declared string) (string, error) {
	if fh.Size > extract.MaxFileSize {
		return "", fmt.Errorf("%w: file too large (max %d bytes)", domain.ErrInvalidInput, extract.MaxFileSize)
	}
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(io.LimitReader(f, extract.MaxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	text, _, err := s.extractor.ExtractFile(declared, fh.Filename, content)
	if err != nil {
		return "", fmt.Errorf("extract: %w", err)
	}
	return text, nil
}

func rankedToResponse(ranked []match.Ranked, names []string) RankResponse {
	items := make([]RankedItem, len(ranked))
	for i, rk := range ranked {
		items[i] = RankedItem{Index: rk.Index, Score: rk.Score}
		if names != nil {
			items[i].Filename = names[rk.Index]
		}
	}
	return RankResponse{Results: items}
}
