package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/0xcro3dile/docchat-go/internal/config"
	"github.com/0xcro3dile/docchat-go/internal/domain/apperr"
	"github.com/0xcro3dile/docchat-go/internal/domain/entities"
	"github.com/0xcro3dile/docchat-go/internal/domain/usecases"
)

// fakeService implements DocumentService for testing.
type fakeService struct {
	mu         sync.Mutex
	result     *entities.AnswerResult
	answerErr  error
	refreshErr error
	docs       []entities.DocumentInfo
	queries    []string
	requestIDs []string
	deadlines  []bool
	refreshes  int
}

func (f *fakeService) Answer(ctx context.Context, query string) (*entities.AnswerResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	f.requestIDs = append(f.requestIDs, usecases.RequestIDFromContext(ctx))
	_, hasDeadline := ctx.Deadline()
	f.deadlines = append(f.deadlines, hasDeadline)
	if f.answerErr != nil {
		return nil, f.answerErr
	}
	return f.result, nil
}

func (f *fakeService) Refresh(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	return f.refreshErr
}

func (f *fakeService) Documents() []entities.DocumentInfo {
	return f.docs
}

func newTestServer(svc DocumentService) *Server {
	cfg := config.NewDefaultConfig().Server
	return NewServer(svc, cfg, "test", arbor.NewLogger())
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandleRoot(t *testing.T) {
	rec := do(t, newTestServer(&fakeService{}), http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Document Chat API is running!", decode(t, rec)["message"])
}

func TestHandleChat_Success(t *testing.T) {
	svc := &fakeService{result: &entities.AnswerResult{Text: "50 psi.", Sources: []string{"policy.md"}}}
	rec := do(t, newTestServer(svc), http.MethodPost, "/chat/", `{"query":"What is the max pressure?"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "50 psi.", body["answer"])
	assert.Equal(t, []interface{}{"policy.md"}, body["source_documents"])

	assert.Equal(t, []string{"What is the max pressure?"}, svc.queries)
	assert.NotEmpty(t, svc.requestIDs[0])
	assert.Equal(t, svc.requestIDs[0], rec.Header().Get(echo.HeaderXRequestID))
	assert.True(t, svc.deadlines[0], "chat requests carry a deadline")
}

func TestHandleChat_NoDocumentsHasNullSources(t *testing.T) {
	svc := &fakeService{result: &entities.AnswerResult{Text: entities.NoDocumentsAnswer}}
	rec := do(t, newTestServer(svc), http.MethodPost, "/chat/", `{"query":"anything"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"answer":"No documents are available to answer your query.","source_documents":null}`, rec.Body.String())
}

func TestHandleChat_WithoutTrailingSlash(t *testing.T) {
	svc := &fakeService{result: &entities.AnswerResult{Text: "ok"}}
	rec := do(t, newTestServer(svc), http.MethodPost, "/chat", `{"query":"q"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleChat_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty query", `{"query":""}`},
		{"missing query", `{}`},
		{"malformed json", `{"query":`},
		{"no body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{}
			rec := do(t, newTestServer(svc), http.MethodPost, "/chat/", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "BAD_REQUEST", decode(t, rec)["code"])
			assert.Empty(t, svc.queries)
		})
	}
}

func TestHandleChat_BlankQueryFromService(t *testing.T) {
	svc := &fakeService{answerErr: apperr.InvalidInput("query must not be empty")}
	rec := do(t, newTestServer(svc), http.MethodPost, "/chat/", `{"query":"   "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "query must not be empty", decode(t, rec)["detail"])
}

func TestHandleChat_UpstreamErrorIsNotLeaked(t *testing.T) {
	cause := errors.New("invalid api key sk-secret")
	svc := &fakeService{answerErr: apperr.Upstream("openai", cause)}
	rec := do(t, newTestServer(svc), http.MethodPost, "/chat/", `{"query":"q"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "UPSTREAM_SERVICE", body["code"])
	assert.Equal(t, "An internal error occurred.", body["detail"])
	assert.NotContains(t, rec.Body.String(), "sk-secret")
}

func TestHandleChat_UnclassifiedError(t *testing.T) {
	svc := &fakeService{answerErr: fmt.Errorf("something odd")}
	rec := do(t, newTestServer(svc), http.MethodPost, "/chat/", `{"query":"q"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", decode(t, rec)["code"])
}

func TestHandleRefresh(t *testing.T) {
	svc := &fakeService{}
	rec := do(t, newTestServer(svc), http.MethodPost, "/documents/refresh/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Documents re-indexed successfully.", decode(t, rec)["message"])
	assert.Equal(t, 1, svc.refreshes)
}

func TestHandleRefresh_LoadError(t *testing.T) {
	svc := &fakeService{refreshErr: apperr.LoadFailed("/srv/docs", errors.New("permission denied"))}
	rec := do(t, newTestServer(svc), http.MethodPost, "/documents/refresh/", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "LOAD_ERROR", body["code"])
	assert.Equal(t, "Failed to refresh documents.", body["detail"])
	assert.NotContains(t, rec.Body.String(), "permission denied")
}

func TestHandleListDocuments(t *testing.T) {
	mod := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := &fakeService{docs: []entities.DocumentInfo{
		{Name: "policy.md", Format: entities.FormatMarkdown, Title: "Policy", Size: 24, ModTime: mod},
	}}
	rec := do(t, newTestServer(svc), http.MethodGet, "/documents/", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body DocumentsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "policy.md", body.Documents[0].Name)
	assert.Equal(t, "Policy", body.Documents[0].Title)
}

func TestHandleListDocuments_EmptyIsArray(t *testing.T) {
	rec := do(t, newTestServer(&fakeService{}), http.MethodGet, "/documents/", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"documents":[],"count":0}`, rec.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	rec := do(t, newTestServer(&fakeService{}), http.MethodGet, "/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "HTTP_ERROR", decode(t, rec)["code"])
}

func TestServer_StartAndShutdown(t *testing.T) {
	cfg := config.NewDefaultConfig().Server
	cfg.Host = "127.0.0.1"
	cfg.Port = freePort(t)
	s := NewServer(&fakeService{}, cfg, "test", arbor.NewLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	url := fmt.Sprintf("http://%s/", cfg.Addr())
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}
