package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiting/stellact/internal/app/models/dto"
	"github.com/weiting/stellact/internal/app/repositories/snapshot"
	"github.com/weiting/stellact/internal/config"
	"github.com/weiting/stellact/internal/seed"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Server.StoragePath = t.TempDir()
	cfg.Server.BaseURL = "http://localhost:8080"
	cfg.Store.Driver = "snapshot"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TokenExpiration = "1h"
	cfg.JWT.Issuer = "stellact.test"
	cfg.Comments.ReplyPolicy = "owner"
	return cfg
}

// newTestRouter wires the full application over a memory-only store
func newTestRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := snapshot.Open("", nil, zerolog.Nop())
	require.NoError(t, err)

	deps, err := BuildDependencies(cfg, store.Repositories(), nil, zerolog.Nop())
	require.NoError(t, err)
	return SetupRouter(cfg, deps, zerolog.Nop())
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func registerUser(t *testing.T, router *gin.Engine, name string) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{
		Name:     name,
		Email:    name + "@example.com",
		Password: "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp dto.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestJoinFlowOverHTTP(t *testing.T) {
	cfg := testConfig(t)
	router := newTestRouter(t, cfg)

	ownerToken := registerUser(t, router, "owner")

	createBody := map[string]interface{}{
		"name":              "River Cleanup",
		"category":          "environment",
		"status":            "IN_PROGRESS",
		"summary":           "summary",
		"background":        "background",
		"goals":             []string{"clean river"},
		"howToParticipate":  "show up",
		"initiator":         "owner",
		"maxParticipants":   1,
		"participationTags": []interface{}{},
		"shapePoints":       []map[string]float64{{"x": 0, "y": 0}, {"x": 1, "y": 1}},
	}
	rec := doJSON(t, router, http.MethodPost, "/api/v1/actions", ownerToken, createBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created dto.CreatedActionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	actionID := created.Action.ID
	require.NotEmpty(t, actionID)

	joinBody := dto.JoinActionRequest{
		Motivation:          "I live nearby",
		ResourceDescription: "gloves",
		Phone:               "555-0101",
	}

	// First joiner takes shape point 0
	joinerToken := registerUser(t, router, "joiner")
	rec = doJSON(t, router, http.MethodPost, "/api/v1/actions/"+actionID+"/join", joinerToken, joinBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var joined dto.JoinActionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &joined))
	assert.Equal(t, 0, joined.PointIndex)
	assert.Equal(t, 1, joined.ParticipantCount)

	// Capacity is one, so the next joiner is turned away
	lateToken := registerUser(t, router, "late")
	rec = doJSON(t, router, http.MethodPost, "/api/v1/actions/"+actionID+"/join", lateToken, joinBody)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	// Joining twice is also a conflict
	rec = doJSON(t, router, http.MethodPost, "/api/v1/actions/"+actionID+"/join", joinerToken, joinBody)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	// The detail view shows the single participant
	rec = doJSON(t, router, http.MethodGet, "/api/v1/actions/"+actionID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail dto.ActionDetailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	require.Len(t, detail.Participations, 1)
	assert.Len(t, detail.Action.Participants, 1)
}

func TestAuthFlowOverHTTP(t *testing.T) {
	cfg := testConfig(t)
	router := newTestRouter(t, cfg)

	registerUser(t, router, "alice")

	// Wrong password and unknown email produce the same 401
	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
		Email: "alice@example.com", Password: "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
		Email: "nobody@example.com", Password: "whatever",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
		Email: "Alice@Example.com", Password: "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login dto.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	rec = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me dto.MeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "alice@example.com", me.User.Email)

	// Protected routes without a token are rejected
	rec = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestInteractAndInterestedOverHTTP(t *testing.T) {
	cfg := testConfig(t)
	router := newTestRouter(t, cfg)

	ownerToken := registerUser(t, router, "owner")
	createBody := map[string]interface{}{
		"name":              "Community Fridge",
		"category":          "food",
		"status":            "IN_PROGRESS",
		"summary":           "summary",
		"background":        "background",
		"goals":             []string{"stock the fridge"},
		"howToParticipate":  "drop off food",
		"initiator":         "owner",
		"maxParticipants":   10,
		"participationTags": []interface{}{},
		"shapePoints":       []map[string]float64{{"x": 0, "y": 0}},
	}
	rec := doJSON(t, router, http.MethodPost, "/api/v1/actions", ownerToken, createBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created dto.CreatedActionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	actionID := created.Action.ID

	fanToken := registerUser(t, router, "fan")
	rec = doJSON(t, router, http.MethodPost, "/api/v1/actions/"+actionID+"/interact", fanToken, dto.InteractRequest{Type: "interested"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var toggled dto.InteractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &toggled))
	assert.Equal(t, "added", toggled.Status)
	assert.Equal(t, []string{actionID}, toggled.InterestedIDs)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/users/me/interested", fanToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var interested dto.InterestedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &interested))
	assert.Equal(t, []string{actionID}, interested.ActionIDs)

	// Toggle off
	rec = doJSON(t, router, http.MethodPost, "/api/v1/actions/"+actionID+"/interact", fanToken, dto.InteractRequest{Type: "interested"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &toggled))
	assert.Equal(t, "removed", toggled.Status)
	assert.Empty(t, toggled.InterestedIDs)
}

func TestRecommendIsOpenToAnonymous(t *testing.T) {
	cfg := testConfig(t)
	router := newTestRouter(t, cfg)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/ai/recommend", "", map[string]string{"query": "river"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp dto.RecommendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "heuristic", resp.Source)
}

func TestSetupStoreSeedsDemoData(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.SnapshotPath = filepath.Join(t.TempDir(), "snapshot.json")
	ctx := context.Background()

	repos, pool, err := SetupStore(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Nil(t, pool)

	demo, err := repos.Users.FindByEmail(ctx, seed.DemoEmail)
	require.NoError(t, err)
	require.NotNil(t, demo)

	actions, err := repos.Actions.ListAll(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, actions)

	// Reopening the snapshot must not seed a second copy
	repos2, _, err := SetupStore(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	actions2, err := repos2.Actions.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, actions2, len(actions))
}

func TestHealthEndpoint(t *testing.T) {
	cfg := testConfig(t)
	router := newTestRouter(t, cfg)

	rec := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownActionIs404(t *testing.T) {
	cfg := testConfig(t)
	router := newTestRouter(t, cfg)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/actions/action-missing", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	var errResp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, dto.ErrorCodeResourceNotFound, errResp.Error.Code)
}
