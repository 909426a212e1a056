package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/editorial_lens/app/display/internal/conf"
	"github.com/iWorld-y/editorial_lens/app/display/internal/service"
	"github.com/iWorld-y/editorial_lens/app/display/internal/usecase"
	"github.com/iWorld-y/editorial_lens/app/editorial/pkg/model"
)

const sampleCSV = "URL,Headline,Users\nhttps://x.com/a,\"Cancer breakthrough\",1500\nhttps://x.com/b,Heart Attack Study,900"

type stubGate struct{ has bool }

func (g *stubGate) HasSelectedAPIKey(context.Context) (bool, error) { return g.has, nil }

func (g *stubGate) OpenSelectKey(_ context.Context, key string) error {
	g.has = true
	return nil
}

type stubGateway struct {
	result *model.AnalysisResult
	err    error
}

func (g *stubGateway) Analyze(ctx context.Context, rows []model.ContentRow) (*model.AnalysisResult, error) {
	return g.result, g.err
}

func newTestServer(t *testing.T, has bool, gw *stubGateway) *http.Server {
	t.Helper()
	uc := usecase.NewSessionUseCase(&stubGate{has: has}, gw, log.DefaultLogger)
	if err := uc.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	svc := service.NewDisplayService(uc, log.DefaultLogger)
	return NewHTTPServer(&conf.Server{Http: &conf.HTTP{Timeout: "5s"}}, svc, log.DefaultLogger)
}

func do(t *testing.T, srv *http.Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) service.SessionReply {
	t.Helper()
	var s service.SessionReply
	if err := json.Unmarshal(rec.Body.Bytes(), &s); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return s
}

func TestHTTP_IndexPage(t *testing.T) {
	srv := newTestServer(t, true, &stubGateway{})
	rec := do(t, srv, "GET", "/", nil)
	if rec.Code != nethttp.StatusOK || !strings.Contains(rec.Body.String(), "Editorial Lens") {
		t.Errorf("GET / = %d %q", rec.Code, rec.Body.String())
	}
}

func TestHTTP_AnalyzeFlow(t *testing.T) {
	gw := &stubGateway{result: &model.AnalysisResult{
		TotalRecordsAnalyzed: 2,
		Themes: []model.ThemePerformance{
			{Theme: "Health Research", StoryCount: 2, TotalUsers: 2400, UsersPerStory: 1200},
		},
	}}
	srv := newTestServer(t, true, gw)

	rec := do(t, srv, "POST", "/api/ingest", service.IngestReq{Text: sampleCSV})
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("POST /api/ingest = %d %s", rec.Code, rec.Body.String())
	}
	var ing service.IngestReply
	json.Unmarshal(rec.Body.Bytes(), &ing)
	if ing.RowCount != 2 {
		t.Errorf("rowCount = %d, want 2", ing.RowCount)
	}

	rec = do(t, srv, "GET", "/report", nil)
	if rec.Code != nethttp.StatusNotFound {
		t.Errorf("GET /report before analysis = %d, want 404", rec.Code)
	}

	rec = do(t, srv, "POST", "/api/analyze", nil)
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("POST /api/analyze = %d %s", rec.Code, rec.Body.String())
	}
	s := decodeSession(t, rec)
	if s.Result == nil || s.Reconciliation != "Processed 2 of 2 stories successfully." {
		t.Errorf("session after analyze = %+v", s)
	}

	rec = do(t, srv, "GET", "/report", nil)
	if rec.Code != nethttp.StatusOK || !strings.Contains(rec.Body.String(), "Health Research") {
		t.Errorf("GET /report = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}

	rec = do(t, srv, "POST", "/api/reset", nil)
	s = decodeSession(t, rec)
	if s.Result != nil || s.RowCount != 0 || s.HasKey == nil || !*s.HasKey {
		t.Errorf("session after reset = %+v", s)
	}
}

func TestHTTP_IngestErrors(t *testing.T) {
	srv := newTestServer(t, true, &stubGateway{})

	rec := do(t, srv, "POST", "/api/ingest", service.IngestReq{Text: "only,two"})
	if rec.Code != nethttp.StatusBadRequest {
		t.Errorf("POST /api/ingest invalid = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "NO_VALID_DATA") {
		t.Errorf("body = %s", rec.Body.String())
	}

	rec = do(t, srv, "POST", "/api/analyze", nil)
	if rec.Code != nethttp.StatusBadRequest || !strings.Contains(rec.Body.String(), "NO_ROWS") {
		t.Errorf("POST /api/analyze without rows = %d %s", rec.Code, rec.Body.String())
	}
}

func TestHTTP_IngestMultipart(t *testing.T) {
	srv := newTestServer(t, true, &stubGateway{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "stories.csv")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte(sampleCSV))
	mw.Close()

	req := httptest.NewRequest("POST", "/api/ingest", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != nethttp.StatusOK || !strings.Contains(rec.Body.String(), `"rowCount":2`) {
		t.Errorf("multipart ingest = %d %s", rec.Code, rec.Body.String())
	}
}

func TestHTTP_KeyFlow(t *testing.T) {
	gw := &stubGateway{}
	srv := newTestServer(t, false, gw)

	rec := do(t, srv, "GET", "/api/key", nil)
	if !strings.Contains(rec.Body.String(), `"hasKey":false`) {
		t.Errorf("GET /api/key = %s", rec.Body.String())
	}

	do(t, srv, "POST", "/api/ingest", service.IngestReq{Text: sampleCSV})
	rec = do(t, srv, "POST", "/api/analyze", nil)
	if rec.Code != nethttp.StatusUnauthorized {
		t.Errorf("analyze without key = %d, want 401", rec.Code)
	}

	rec = do(t, srv, "POST", "/api/key/select", service.SelectKeyReq{APIKey: "sk-test"})
	if rec.Code != nethttp.StatusOK || !strings.Contains(rec.Body.String(), `"hasKey":true`) {
		t.Errorf("POST /api/key/select = %d %s", rec.Code, rec.Body.String())
	}
}

func TestEditorialConfig(t *testing.T) {
	cfg := editorialConfig(nil)
	if cfg.LLM.Model == "" || len(cfg.Analysis.Keywords) == 0 {
		t.Errorf("defaults missing: %+v", cfg)
	}

	cfg = editorialConfig(&conf.Editorial{
		Llm:         &conf.LLM{Model: "m"},
		Keywords:    []string{"Diabetes"},
		Concurrency: &conf.Concurrency{Qps: 2, Rpm: 30},
	})
	if cfg.LLM.Model != "m" || cfg.LLM.BaseURL == "" {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if len(cfg.Analysis.Keywords) != 1 || cfg.Analysis.Keywords[0] != "Diabetes" {
		t.Errorf("Keywords = %v", cfg.Analysis.Keywords)
	}
	if cfg.Concurrency.QPS != 2 || cfg.Concurrency.RPM != 30 {
		t.Errorf("Concurrency = %+v", cfg.Concurrency)
	}
}
