package chi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gochi "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/auth"
	"github.com/kailas-cloud/jobmatch/internal/db/memory"
	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/extract"
	"github.com/kailas-cloud/jobmatch/internal/metrics"
	apprepo "github.com/kailas-cloud/jobmatch/internal/repository/application"
	docrepo "github.com/kailas-cloud/jobmatch/internal/repository/document"
	"github.com/kailas-cloud/jobmatch/internal/repository/embcache"
	ntfrepo "github.com/kailas-cloud/jobmatch/internal/repository/notification"
	"github.com/kailas-cloud/jobmatch/internal/transport/stub"
	applicationuc "github.com/kailas-cloud/jobmatch/internal/usecase/application"
	documentuc "github.com/kailas-cloud/jobmatch/internal/usecase/document"
	embeddinguc "github.com/kailas-cloud/jobmatch/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/jobmatch/internal/usecase/health"
	historyuc "github.com/kailas-cloud/jobmatch/internal/usecase/history"
	matchinguc "github.com/kailas-cloud/jobmatch/internal/usecase/matching"
	"github.com/kailas-cloud/jobmatch/internal/usecase/notify"
)

const testSecret = "test-secret-test-secret-test-secret"

type testAPI struct {
	handler http.Handler
	tokens  *auth.Tokens
}

// newTestAPI wires the full service graph on the in-memory store with the stub embedder.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	logger := zap.NewNop()
	store := memory.NewStore()

	var embedder domain.Embedder = stub.NewEmbedder(0)
	embedder = embcache.New(embedder, store, "test:emb:", metrics.EmbeddingCacheTotal, logger)
	instrumented := embeddinguc.NewInstrumentedEmbedder(embedder, "stub", "feature-hash", logger)

	space := domain.EmbeddingSpace("stub", "feature-hash", domain.StubDimensions)
	docs := docrepo.New(store, "test:")
	apps := apprepo.New(store, "test:")
	ntfs := ntfrepo.New(store, "test:")
	matching := matchinguc.New(docs, instrumented, matchinguc.Config{Space: space}, logger)

	bus := notify.NewBus(logger)
	if err := bus.Subscribe(notify.NewStoreObserver(ntfs)); err != nil {
		t.Fatal(err)
	}
	bus.Seal()

	tokens, err := auth.NewTokens(testSecret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	srv := NewServer(Deps{
		Matching:     matching,
		Documents:    documentuc.New(docs, instrumented).WithSpace(space).WithSaved(docs).WithApplications(apps),
		Applications: applicationuc.New(apps, docs, matching, bus, logger),
		History:      historyuc.New(docs, docs, apps),
		Inbox:        notify.NewService(ntfs),
		Extractor:    extract.NewRegistry(),
		Health:       healthuc.New(store),
		Tokens:       tokens,
		Logger:       logger,
	})
	r := gochi.NewRouter()
	srv.Mount(r)
	return &testAPI{handler: r, tokens: tokens}
}

func (a *testAPI) token(t *testing.T, user string, role auth.Role) string {
	t.Helper()
	tok, err := a.tokens.Issue(user, role)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

// do sends a JSON request as user with role. An empty user sends no credentials.
func (a *testAPI) do(t *testing.T, method, path, user string, role auth.Role, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("Authorization", "Bearer "+a.token(t, user, role))
	}
	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response (%d): %v", rr.Code, err)
	}
	return v
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rr.Code, want, rr.Body.String())
	}
}

func expectError(t *testing.T, rr *httptest.ResponseRecorder, status int, code ErrorCode) {
	t.Helper()
	expectStatus(t, rr, status)
	resp := decode[ErrorResponse](t, rr)
	if resp.Code != code {
		t.Errorf("code = %q, want %q", resp.Code, code)
	}
}
