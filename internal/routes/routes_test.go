package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nainix/marketplace-backend/internal/handlers"
	"github.com/nainix/marketplace-backend/internal/services"
	"github.com/nainix/marketplace-backend/internal/session"
	"github.com/nainix/marketplace-backend/internal/store/memory"
)

type stubUploader struct{}

func (stubUploader) UploadAvatar(_ context.Context, userID string, _ io.Reader) (string, error) {
	return "https://res.cloudinary.com/demo/image/upload/" + userID + ".png", nil
}

type testServer struct {
	*httptest.Server
	feed *services.JobFeed
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	codec, err := session.NewCodec("routes-test-secret")
	require.NoError(t, err)

	users := memory.NewUsers()
	jobs := memory.NewJobs()
	proposals := memory.NewProposals()
	ledger := memory.NewLedger()
	feed := services.NewJobFeed(nil)

	h := &handlers.Handler{
		Codec:        codec,
		Accounts:     services.NewAccounts(users),
		Availability: services.NewAvailabilityChecker(users),
		Jobs: services.NewJobs(services.JobsConfig{
			Jobs: jobs, Users: users, Ledger: ledger,
			Cache: services.NewLocalCache(time.Minute), Events: feed,
		}),
		Proposals: services.NewProposals(services.ProposalsConfig{
			Proposals: proposals, Jobs: jobs, Users: users,
		}),
		Monetization: services.NewMonetization(users, ledger),
		Profiles:     services.NewProfiles(users, stubUploader{}, false),
		Feed:         feed,
		HealthChecks: map[string]handlers.Pinger{
			"mongo": func(context.Context) error { return nil },
		},
	}

	srv := httptest.NewServer(NewRouter(h, Options{
		AllowedOrigins: []string{"http://localhost:3000"},
		Metrics:        http.NotFoundHandler(),
	}))
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, feed: feed}
}

// client keeps the session cookie between calls.
type client struct {
	t      *testing.T
	srv    *testServer
	cookie *http.Cookie
}

func (c *client) do(method, path string, body any) (*http.Response, map[string]any) {
	c.t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		rdr = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.srv.URL+path, rdr)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	return c.send(req)
}

func (c *client) send(req *http.Request) (*http.Response, map[string]any) {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	for _, ck := range resp.Cookies() {
		if ck.Name == session.CookieName {
			c.cookie = ck
		}
	}
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func registerBody(name, email, username, role string) map[string]any {
	return map[string]any{
		"name": name, "email": email, "username": username,
		"password": "secret1", "role": role, "acceptTerms": true,
	}
}

func TestRegisterScenario(t *testing.T) {
	srv := newTestServer(t)
	c := &client{t: t, srv: srv}

	resp, body := c.do(http.MethodPost, "/api/auth/register", map[string]any{
		"name":        "Jane Doe",
		"email":       "jane@x.com",
		"username":    "janedoe",
		"password":    "secret1",
		"role":        "FREELANCER",
		"phone":       "+15550000001",
		"country":     "US",
		"bio":         strings.Repeat("x", 30),
		"acceptTerms": true,
		"roleDetails": map[string]any{
			"professionalTitle": "Dev",
			"experienceYears":   2,
			"hourlyRate":        20,
			"skills":            []string{"React", "Node", "SQL"},
			"availability":      "FULL_TIME",
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	require.NotNil(t, c.cookie)
	assert.True(t, c.cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.cookie.SameSite)
	assert.Equal(t, int(session.Duration.Seconds()), c.cookie.MaxAge)

	user := body["user"].(map[string]any)
	assert.Equal(t, "FREELANCER", user["role"])
	assert.NotContains(t, user, "passwordHash")
	assert.NotContains(t, user, "passwordSalt")

	resp, body = c.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "janedoe", body["user"].(map[string]any)["username"])

	dup := &client{t: t, srv: srv}
	resp, body = dup.do(http.MethodPost, "/api/auth/register", registerBody("Jane", "jane@x.com", "jane2", "CLIENT"))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Email is already registered.", body["message"])
}

func TestLoginLogout(t *testing.T) {
	srv := newTestServer(t)
	c := &client{t: t, srv: srv}
	resp, _ := c.do(http.MethodPost, "/api/auth/register", registerBody("Sam", "sam@x.com", "sam_1", "CLIENT"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	anon := &client{t: t, srv: srv}
	resp, _ = anon.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "sam@x.com", "password": "nope123"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = anon.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "who@x.com", "password": "secret1"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = anon.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "sam@x.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = anon.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "SAM@x.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, anon.cookie)

	resp, _ = anon.do(http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "", anon.cookie.Value)
	assert.True(t, anon.cookie.MaxAge < 0)

	resp, body := (&client{t: t, srv: srv}).do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestAvailabilityEndpoint(t *testing.T) {
	srv := newTestServer(t)
	c := &client{t: t, srv: srv}
	c.do(http.MethodPost, "/api/auth/register", registerBody("Sam", "sam@x.com", "sam_1", "CLIENT"))

	_, body := c.do(http.MethodGet, "/api/auth/availability?type=username&value=SAM_1", nil)
	assert.Equal(t, false, body["available"])
	assert.Equal(t, "taken", body["reason"])

	_, body = c.do(http.MethodGet, "/api/auth/availability?type=email&value=new@x.com", nil)
	assert.Equal(t, true, body["available"])
	assert.NotContains(t, body, "reason")

	resp, _ := c.do(http.MethodGet, "/api/auth/availability?type=shoe&value=42", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMarketplaceFlow(t *testing.T) {
	srv := newTestServer(t)
	events, cancel := srv.feed.Subscribe()
	defer cancel()

	clientUser := &client{t: t, srv: srv}
	clientUser.do(http.MethodPost, "/api/auth/register", registerBody("Acme", "acme@x.com", "acme", "CLIENT"))
	freelancer := &client{t: t, srv: srv}
	freelancer.do(http.MethodPost, "/api/auth/register", registerBody("Fay", "fay@x.com", "fay", "FREELANCER"))
	anon := &client{t: t, srv: srv}

	jobReq := map[string]any{
		"title": "Build API", "description": "Go service", "category": "Backend Development",
		"budgetMin": 1000, "budgetMax": 3000, "requiredSkills": []string{"Go"}, "isUrgent": true,
	}
	resp, _ := anon.do(http.MethodPost, "/api/jobs", jobReq)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = freelancer.do(http.MethodPost, "/api/jobs", jobReq)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := clientUser.do(http.MethodPost, "/api/jobs", jobReq)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	jobID := body["job"].(map[string]any)["id"].(string)

	select {
	case evt := <-events:
		assert.Equal(t, services.EventJobCreated, evt.Type)
		assert.Equal(t, jobID, evt.JobID)
	case <-time.After(time.Second):
		t.Fatal("no job.created event")
	}

	_, body = anon.do(http.MethodGet, "/api/jobs?urgentOnly=true&skills=Go,Rust&budgetMin=2500", nil)
	require.Len(t, body["jobs"], 1)
	_, body = anon.do(http.MethodGet, "/api/jobs?category=AI/ML", nil)
	assert.Empty(t, body["jobs"])
	resp, _ = anon.do(http.MethodGet, "/api/jobs?budgetMin=abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = clientUser.do(http.MethodPost, "/api/jobs/feature", map[string]any{"jobId": jobID, "featuredDays": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 9, body["amountUsd"])
	assert.Equal(t, "PAID_MOCK", body["status"])
	assert.NotEmpty(t, body["featuredUntil"])

	resp, body = freelancer.do(http.MethodPost, "/api/proposals", map[string]any{
		"jobId": jobID, "pitch": "I know Go", "estimatedDays": 7, "price": 2000,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	score := body["proposal"].(map[string]any)["smartMatchScore"].(float64)
	assert.GreaterOrEqual(t, score, 80.0)
	assert.LessOrEqual(t, score, 99.0)

	resp, _ = freelancer.do(http.MethodPost, "/api/proposals", map[string]any{
		"jobId": "missing", "pitch": "x", "estimatedDays": 7, "price": 2000,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, body = clientUser.do(http.MethodGet, "/api/proposals", nil)
	assert.Len(t, body["proposals"], 1)
	assert.Contains(t, body["byJob"], jobID)

	_, body = clientUser.do(http.MethodGet, "/api/monetization/transactions", nil)
	txs := body["transactions"].([]any)
	require.Len(t, txs, 1)
	assert.Equal(t, "FEATURED_JOB", txs[0].(map[string]any)["feature"])
}

func TestUpgradeEndpoint(t *testing.T) {
	srv := newTestServer(t)
	cl := &client{t: t, srv: srv}
	cl.do(http.MethodPost, "/api/auth/register", registerBody("Acme", "acme@x.com", "acme", "CLIENT"))

	resp, _ := cl.do(http.MethodPost, "/api/monetization/upgrade", map[string]any{"role": "CLIENT", "feature": "AI_PRO"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = cl.do(http.MethodPost, "/api/monetization/upgrade", map[string]any{"role": "CLIENT", "feature": "GOLD"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := cl.do(http.MethodPost, "/api/monetization/upgrade", map[string]any{"role": "CLIENT", "feature": "VERIFICATION_BADGE"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{"Verified User"}, body["verifiedBadges"])
	assert.EqualValues(t, 12, body["transaction"].(map[string]any)["amountUsd"])
	assert.Equal(t, true, body["monetization"].(map[string]any)["verificationBadgeActive"])
}

func TestProfileEndpoints(t *testing.T) {
	srv := newTestServer(t)
	c := &client{t: t, srv: srv}
	c.do(http.MethodPost, "/api/auth/register", registerBody("Fay", "fay@x.com", "fay", "FREELANCER"))

	resp, body := c.do(http.MethodPut, "/api/users/me", map[string]any{"bio": "Gopher", "skills": []string{"Go"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Gopher", body["user"].(map[string]any)["bio"])

	resp, body = (&client{t: t, srv: srv}).do(http.MethodGet, "/api/users/FAY", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Gopher", body["user"].(map[string]any)["bio"])

	resp, _ = c.do(http.MethodGet, "/api/users/ghost_user", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="avatar"; filename="me.png"`)
	hdr.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, _ = part.Write([]byte("\x89PNG fake"))
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/users/me/avatar", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, body = c.send(req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body["avatarUrl"], "res.cloudinary.com")
}

func TestJobsFeedWebSocket(t *testing.T) {
	srv := newTestServer(t)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/jobs"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return srv.feed.Subscribers() == 1 }, time.Second, 10*time.Millisecond)
	srv.feed.Publish(context.Background(), services.JobEvent{Type: services.EventJobExpired, JobID: "j9"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var evt services.JobEvent
	require.NoError(t, conn.ReadJSON(&evt))
	assert.Equal(t, services.EventJobExpired, evt.Type)
	assert.Equal(t, "j9", evt.JobID)
}

func TestHealthAndNotFound(t *testing.T) {
	srv := newTestServer(t)
	c := &client{t: t, srv: srv}

	resp, body := c.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])

	resp, body = c.do(http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestHealthReportsDownDependency(t *testing.T) {
	h := &handlers.Handler{HealthChecks: map[string]handlers.Pinger{
		"redis": func(context.Context) error { return errors.New("dial tcp: refused") },
	}}
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":"down"`)
}
