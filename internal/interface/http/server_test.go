package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azkar-hub/azkar-hub/internal/application/assistant"
	"github.com/azkar-hub/azkar-hub/internal/application/command"
	"github.com/azkar-hub/azkar-hub/internal/application/query"
	"github.com/azkar-hub/azkar-hub/internal/domain/azkar"
	domain "github.com/azkar-hub/azkar-hub/internal/domain/assistant"
	"github.com/azkar-hub/azkar-hub/internal/domain/progress"
	"github.com/azkar-hub/azkar-hub/internal/domain/shared"
	"github.com/azkar-hub/azkar-hub/internal/infrastructure/metrics"
	"github.com/azkar-hub/azkar-hub/internal/interface/http/handlers"
	"github.com/azkar-hub/azkar-hub/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Test doubles
// ──────────────────────────────────────────────────────────────────────────────

type listFunc func(context.Context, query.ListAzkarQuery) ([]*azkar.Zikr, error)

func (f listFunc) Handle(ctx context.Context, q query.ListAzkarQuery) ([]*azkar.Zikr, error) {
	return f(ctx, q)
}

type searchFunc func(context.Context, query.SearchAzkarQuery) ([]*azkar.Zikr, error)

func (f searchFunc) Handle(ctx context.Context, q query.SearchAzkarQuery) ([]*azkar.Zikr, error) {
	return f(ctx, q)
}

type getFunc func(context.Context, string) (*azkar.Zikr, error)

func (f getFunc) Handle(ctx context.Context, id string) (*azkar.Zikr, error) { return f(ctx, id) }

type recordFunc func(context.Context, command.RecordCompletionCommand) (*command.RecordCompletionResult, error)

func (f recordFunc) Handle(ctx context.Context, c command.RecordCompletionCommand) (*command.RecordCompletionResult, error) {
	return f(ctx, c)
}

type progressFunc func(context.Context, query.GetUserProgressQuery) ([]*progress.Record, error)

func (f progressFunc) Handle(ctx context.Context, q query.GetUserProgressQuery) ([]*progress.Record, error) {
	return f(ctx, q)
}

type dailyFunc func(context.Context, query.GetDailyStatsQuery) ([]*progress.DailySummary, error)

func (f dailyFunc) Handle(ctx context.Context, q query.GetDailyStatsQuery) ([]*progress.DailySummary, error) {
	return f(ctx, q)
}

type tokenResolver map[string]shared.UserID

func (m tokenResolver) Resolve(token string) (shared.UserID, error) {
	if id, ok := m[token]; ok {
		return id, nil
	}
	return "", errors.New("bad token")
}

type fakeAssistant struct {
	askUser     shared.UserID
	askQuestion string
	tod         domain.TimeOfDay
	stats       domain.UserStats
	level       domain.Level
	feedbackQID string
	feedbackErr error
}

func (f *fakeAssistant) AskQuestion(_ context.Context, user shared.UserID, q string) (assistant.AskResult, error) {
	f.askUser, f.askQuestion = user, q
	if user.IsEmpty() {
		return assistant.AskResult{}, shared.ErrUnauthenticated
	}
	return assistant.AskResult{Answer: "answer", Success: true, QuestionID: "q-1"}, nil
}

func (f *fakeAssistant) GeneratePersonalizedReminder(_ context.Context, tod domain.TimeOfDay, stats domain.UserStats) string {
	f.tod, f.stats = tod, stats
	return "reminder"
}

func (f *fakeAssistant) ExplainZikrMeaning(_ context.Context, _ string, level domain.Level) string {
	f.level = level
	return "explanation"
}

func (f *fakeAssistant) MarkAnswerHelpful(_ context.Context, _ shared.UserID, qid string, _ bool) error {
	f.feedbackQID = qid
	return f.feedbackErr
}

const testZikrID = "11111111-1111-1111-1111-111111111111"

func sampleZikr() *azkar.Zikr {
	return &azkar.Zikr{
		ID:          testZikrID,
		Text:        "SubhanAllah",
		Category:    azkar.CategoryMorning,
		Repetitions: 33,
		CreatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func baseDeps() Dependencies {
	return Dependencies{
		ListAzkar: listFunc(func(context.Context, query.ListAzkarQuery) ([]*azkar.Zikr, error) {
			return []*azkar.Zikr{}, nil
		}),
		SearchAzkar: searchFunc(func(context.Context, query.SearchAzkarQuery) ([]*azkar.Zikr, error) {
			return []*azkar.Zikr{}, nil
		}),
		GetZikr: getFunc(func(context.Context, string) (*azkar.Zikr, error) {
			return sampleZikr(), nil
		}),
		RecordCompletion: recordFunc(func(context.Context, command.RecordCompletionCommand) (*command.RecordCompletionResult, error) {
			return &command.RecordCompletionResult{Success: true}, nil
		}),
		GetUserProgress: progressFunc(func(context.Context, query.GetUserProgressQuery) ([]*progress.Record, error) {
			return []*progress.Record{}, nil
		}),
		GetDailyStats: dailyFunc(func(context.Context, query.GetDailyStatsQuery) ([]*progress.DailySummary, error) {
			return []*progress.DailySummary{}, nil
		}),
		Identity: tokenResolver{"good": "user-1"},
		Logger:   logger.Nop(),
	}
}

func newTestServer(deps Dependencies) http.Handler {
	cfg := DefaultConfig()
	cfg.RateLimitPerSec = 0
	return NewServer(cfg, deps).Handler()
}

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     *APIError       `json:"error"`
	Meta      *ResponseMeta   `json:"meta"`
	RequestID string          `json:"request_id"`
}

func do(t *testing.T, h http.Handler, method, target, body, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

// ──────────────────────────────────────────────────────────────────────────────
// Catalog
// ──────────────────────────────────────────────────────────────────────────────

func TestListAzkar(t *testing.T) {
	deps := baseDeps()
	var got query.ListAzkarQuery
	deps.ListAzkar = listFunc(func(_ context.Context, q query.ListAzkarQuery) ([]*azkar.Zikr, error) {
		got = q
		return []*azkar.Zikr{sampleZikr()}, nil
	})

	rec, env := do(t, newTestServer(deps), http.MethodGet, "/api/v1/azkar?category=morning", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "morning", got.Category)
	assert.True(t, env.Success)
	assert.Equal(t, 1, env.Meta.TotalCount)
	assert.NotEmpty(t, env.RequestID)

	var items []zikrDTO
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, testZikrID, items[0].ID)
	assert.Equal(t, 33, items[0].Repetitions)
	assert.Equal(t, []string{}, items[0].Benefits)
}

func TestListAzkar_InvalidCategory(t *testing.T) {
	deps := baseDeps()
	deps.ListAzkar = listFunc(func(context.Context, query.ListAzkarQuery) ([]*azkar.Zikr, error) {
		return nil, shared.ErrInvalidCategory
	})

	rec, env := do(t, newTestServer(deps), http.MethodGet, "/api/v1/azkar?category=noon", "", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "invalid_request", env.Error.Code)
	assert.Equal(t, shared.ErrInvalidCategory.Message, env.Error.Message)
}

func TestSearchAzkar_TakesPrecedenceOverIDRoute(t *testing.T) {
	deps := baseDeps()
	var got query.SearchAzkarQuery
	deps.SearchAzkar = searchFunc(func(_ context.Context, q query.SearchAzkarQuery) ([]*azkar.Zikr, error) {
		got = q
		return []*azkar.Zikr{sampleZikr()}, nil
	})
	deps.GetZikr = getFunc(func(context.Context, string) (*azkar.Zikr, error) {
		t.Fatal("id route must not match /search")
		return nil, nil
	})

	rec, _ := do(t, newTestServer(deps), http.MethodGet, "/api/v1/azkar/search?q=light&category=evening", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "light", got.Term)
	assert.Equal(t, "evening", got.Category)
}

func TestGetZikr_NotFound(t *testing.T) {
	deps := baseDeps()
	var gotID string
	deps.GetZikr = getFunc(func(_ context.Context, id string) (*azkar.Zikr, error) {
		gotID = id
		return nil, shared.ErrZikrNotFound
	})

	rec, env := do(t, newTestServer(deps), http.MethodGet, "/api/v1/azkar/"+testZikrID, "", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, testZikrID, gotID)
	assert.Equal(t, "not_found", env.Error.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Progress
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordCompletion_Anonymous(t *testing.T) {
	deps := baseDeps()
	deps.RecordCompletion = recordFunc(func(context.Context, command.RecordCompletionCommand) (*command.RecordCompletionResult, error) {
		t.Fatal("recorder must not run for anonymous callers")
		return nil, nil
	})

	rec, env := do(t, newTestServer(deps), http.MethodPost, "/api/v1/azkar/"+testZikrID+"/complete", `{"completed_count":1}`, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthenticated", env.Error.Code)
}

func TestRecordCompletion_InvalidToken(t *testing.T) {
	rec, env := do(t, newTestServer(baseDeps()), http.MethodPost, "/api/v1/azkar/"+testZikrID+"/complete", `{"completed_count":1}`, "forged")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_token", env.Error.Code)
}

func TestRecordCompletion_Success(t *testing.T) {
	now := time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC)
	deps := baseDeps()
	var got command.RecordCompletionCommand
	deps.RecordCompletion = recordFunc(func(_ context.Context, c command.RecordCompletionCommand) (*command.RecordCompletionResult, error) {
		got = c
		r, err := progress.NewRecord(c.UserID, shared.ZikrID(c.ZikrID), c.CompletedCount, now)
		require.NoError(t, err)
		return &command.RecordCompletionResult{
			Success: true,
			Record:  r,
			Created: true,
			Daily:   progress.NewDailySummary(c.UserID, "2026-03-01", progress.Totals{TotalAzkarCompleted: 3}, now),
		}, nil
	})

	rec, env := do(t, newTestServer(deps), http.MethodPost, "/api/v1/azkar/"+testZikrID+"/complete", `{"completed_count":3}`, "good")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, shared.UserID("user-1"), got.UserID)
	assert.Equal(t, testZikrID, got.ZikrID)
	assert.Equal(t, 3, got.CompletedCount)

	var out completionDTO
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.True(t, out.Success)
	assert.True(t, out.Created)
	require.NotNil(t, out.Progress)
	assert.Equal(t, 1, out.Progress.Streak)
	require.NotNil(t, out.Progress.LastCompleted)
	require.NotNil(t, out.Daily)
	assert.Equal(t, 3, out.Daily.TotalAzkarCompleted)
}

func TestRecordCompletion_BadBodies(t *testing.T) {
	h := newTestServer(baseDeps())
	target := "/api/v1/azkar/" + testZikrID + "/complete"

	tests := []struct {
		name string
		body string
		code string
	}{
		{"empty", "", "invalid_json"},
		{"malformed", "{", "invalid_json"},
		{"missing count", "{}", "invalid_request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, h, http.MethodPost, target, tt.body, "good")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestRecordCompletion_NegativeCountIsRejected(t *testing.T) {
	deps := baseDeps()
	deps.RecordCompletion = recordFunc(func(_ context.Context, c command.RecordCompletionCommand) (*command.RecordCompletionResult, error) {
		return nil, c.Validate()
	})

	rec, _ := do(t, newTestServer(deps), http.MethodPost, "/api/v1/azkar/"+testZikrID+"/complete", `{"completed_count":-1}`, "good")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProgress_AnonymousAndFiltered(t *testing.T) {
	deps := baseDeps()
	var got []query.GetUserProgressQuery
	deps.GetUserProgress = progressFunc(func(_ context.Context, q query.GetUserProgressQuery) ([]*progress.Record, error) {
		got = append(got, q)
		return []*progress.Record{}, nil
	})
	h := newTestServer(deps)

	rec, env := do(t, h, http.MethodGet, "/api/v1/progress", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(env.Data))

	rec, _ = do(t, h, http.MethodGet, "/api/v1/progress?azkar_id="+testZikrID, "", "good")
	assert.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, got, 2)
	assert.True(t, got[0].UserID.IsEmpty())
	assert.Equal(t, shared.UserID("user-1"), got[1].UserID)
	assert.Equal(t, testZikrID, got[1].ZikrID)
}

func TestGetDailyStats_PassesRange(t *testing.T) {
	deps := baseDeps()
	var got query.GetDailyStatsQuery
	deps.GetDailyStats = dailyFunc(func(_ context.Context, q query.GetDailyStatsQuery) ([]*progress.DailySummary, error) {
		got = q
		return nil, shared.ErrInvalidDateRange
	})

	rec, _ := do(t, newTestServer(deps), http.MethodGet, "/api/v1/stats/daily?from=2026-03-05&to=2026-03-01", "", "good")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "2026-03-05", got.From)
	assert.Equal(t, "2026-03-01", got.To)
}

// ──────────────────────────────────────────────────────────────────────────────
// Assistant
// ──────────────────────────────────────────────────────────────────────────────

func TestAssistantRoutes_AbsentWhenDisabled(t *testing.T) {
	rec, _ := do(t, newTestServer(baseDeps()), http.MethodPost, "/api/v1/assistant/ask", `{"question":"hi"}`, "good")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAsk(t *testing.T) {
	fa := &fakeAssistant{}
	deps := baseDeps()
	deps.Assistant = fa
	h := newTestServer(deps)

	rec, env := do(t, h, http.MethodPost, "/api/v1/assistant/ask", `{"question":"What is dhikr?"}`, "good")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, shared.UserID("user-1"), fa.askUser)
	assert.Equal(t, "What is dhikr?", fa.askQuestion)

	var out askResponse
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, askResponse{Answer: "answer", Success: true, QuestionID: "q-1"}, out)

	rec, _ = do(t, h, http.MethodPost, "/api/v1/assistant/ask", `{"question":"x"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReminder(t *testing.T) {
	fa := &fakeAssistant{}
	deps := baseDeps()
	deps.Assistant = fa
	h := newTestServer(deps)

	body := `{"time_of_day":"Evening","user_stats":{"streak":4,"completion_rate":80,"favorite_category":"morning"}}`
	rec, env := do(t, h, http.MethodPost, "/api/v1/assistant/reminder", body, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.Evening, fa.tod)
	assert.Equal(t, domain.UserStats{Streak: 4, CompletionRate: 80, FavoriteCategory: "morning"}, fa.stats)
	assert.JSONEq(t, `{"message":"reminder"}`, string(env.Data))

	body = `{"time_of_day":"noon","user_stats":{"streak":2,"completion_rate":87.5}}`
	rec, _ = do(t, h, http.MethodPost, "/api/v1/assistant/reminder", body, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.Evening, fa.tod)
	assert.InDelta(t, 87.5, fa.stats.CompletionRate, 1e-9)
}

func TestExplain_DefaultsToBeginner(t *testing.T) {
	fa := &fakeAssistant{}
	deps := baseDeps()
	deps.Assistant = fa

	rec, env := do(t, newTestServer(deps), http.MethodPost, "/api/v1/assistant/explain", `{"zikr_text":"Allahu Akbar"}`, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.LevelBeginner, fa.level)
	assert.JSONEq(t, `{"explanation":"explanation"}`, string(env.Data))
}

func TestFeedback(t *testing.T) {
	fa := &fakeAssistant{feedbackErr: shared.ErrQuestionNotFound}
	deps := baseDeps()
	deps.Assistant = fa
	h := newTestServer(deps)

	rec, _ := do(t, h, http.MethodPost, "/api/v1/assistant/questions/q-9/feedback", `{"helpful":true}`, "good")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "q-9", fa.feedbackQID)

	rec, _ = do(t, h, http.MethodPost, "/api/v1/assistant/questions/q-9/feedback", `{}`, "good")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Operational
// ──────────────────────────────────────────────────────────────────────────────

func TestHealthAndReady(t *testing.T) {
	checker := handlers.NewCompositeHealthChecker("test")
	checker.AddCheck("postgres", func(context.Context) error { return errors.New("connection refused") })

	deps := baseDeps()
	deps.HealthChecker = checker
	h := newTestServer(deps)

	rec, _ := do(t, h, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec, env := do(t, h, http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, string(env.Data), "postgres")

	rec, _ = do(t, h, http.MethodGet, "/live", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimitPerSec = 0.01
	cfg.RateLimitBurst = 1
	h := NewServer(cfg, baseDeps()).Handler()

	rec, _ := do(t, h, http.MethodGet, "/live", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env := do(t, h, http.MethodGet, "/live", "", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate_limit_exceeded", env.Error.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimit_IgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimitPerSec = 0.01
	cfg.RateLimitBurst = 1
	h := NewServer(cfg, baseDeps()).Handler()

	for i, xff := range []string{"198.51.100.1", "198.51.100.2"} {
		req := httptest.NewRequest(http.MethodGet, "/live", nil)
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if i == 0 {
			assert.Equal(t, http.StatusOK, rec.Code)
		} else {
			assert.Equal(t, http.StatusTooManyRequests, rec.Code, "rotating the header must not reset the bucket")
		}
	}
}

func TestClientIP(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TrustedProxies = []string{"10.0.0.0/8", "192.0.2.1", "not-an-ip"}
	s := NewServer(cfg, baseDeps())
	untrusted := NewServer(DefaultConfig(), baseDeps())

	tests := []struct {
		name   string
		srv    *Server
		remote string
		xff    string
		xri    string
		want   string
	}{
		{"no proxies configured", untrusted, "203.0.113.9:5000", "1.2.3.4", "", "203.0.113.9"},
		{"untrusted peer", s, "203.0.113.9:5000", "1.2.3.4", "", "203.0.113.9"},
		{"trusted peer", s, "192.0.2.1:5000", "1.2.3.4", "", "1.2.3.4"},
		{"skips trusted hops", s, "10.1.1.1:443", "6.6.6.6, 1.2.3.4, 10.2.2.2", "", "1.2.3.4"},
		{"real ip fallback", s, "10.1.1.1:443", "", "5.5.5.5", "5.5.5.5"},
		{"all hops trusted", s, "10.1.1.1:443", "10.3.3.3", "", "10.1.1.1"},
		{"ipv6 peer", untrusted, "[2001:db8::1]:8080", "", "", "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			assert.Equal(t, tt.want, tt.srv.clientIP(req))
		})
	}
}

func TestRecoveryAndRequestID(t *testing.T) {
	deps := baseDeps()
	deps.ListAzkar = listFunc(func(context.Context, query.ListAzkarQuery) ([]*azkar.Zikr, error) {
		panic("boom")
	})
	h := newTestServer(deps)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/azkar", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	deps := baseDeps()
	deps.GetZikr = getFunc(func(context.Context, string) (*azkar.Zikr, error) {
		return nil, errors.New("pq: password authentication failed")
	})

	rec, env := do(t, newTestServer(deps), http.MethodGet, "/api/v1/azkar/"+testZikrID, "", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, env.Error.Message, "password")
}

func TestMetricsEndpoint(t *testing.T) {
	deps := baseDeps()
	deps.Metrics = metrics.New()
	h := newTestServer(deps)

	rec, _ := do(t, h, http.MethodGet, "/api/v1/azkar/"+testZikrID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	out := httptest.NewRecorder()
	h.ServeHTTP(out, req)

	assert.Equal(t, http.StatusOK, out.Code)
	assert.Contains(t, out.Body.String(), `azkar_http_requests_total{method="GET",route="/api/v1/azkar/{id}",status="200"} 1`)
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{shared.ErrUnauthenticated, http.StatusUnauthorized},
		{shared.ErrZikrNotFound, http.StatusNotFound},
		{shared.ErrProgressExists, http.StatusConflict},
		{shared.ErrInvalidZikrID, http.StatusBadRequest},
		{shared.ErrEmptySearchTerm, http.StatusBadRequest},
		{shared.ErrCompletionAPIUnavailable, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		status, _ := classifyError(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
	}
}
