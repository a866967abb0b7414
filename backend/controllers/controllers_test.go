package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stride/backend/config"
	"stride/backend/routes"
	"stride/backend/services"
	"stride/backend/utils"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
	cfg *config.Config
	gen *fakeGenerator
}

// fakeGenerator stands in for the external plan generator so handler tests
// never reach the network.
type fakeGenerator struct {
	fail  bool
	calls int
	doc   *services.GeneratedPlan
}

func (f *fakeGenerator) GeneratePlan(_ context.Context, _ map[string]string) (*services.GeneratedPlan, error) {
	f.calls++
	if f.fail {
		return nil, fmt.Errorf("%w: generator offline", utils.ErrDependencyUnavailable)
	}
	return f.doc, nil
}

// defaultPlanDoc has two steps with two skills each, four skills total.
func defaultPlanDoc() *services.GeneratedPlan {
	return &services.GeneratedPlan{
		Title:   "Backend Engineer Path",
		Summary: "From fundamentals to production systems",
		Steps: []services.GeneratedStep{
			{
				Title:       "Foundations",
				Description: "Core language and tooling",
				Skills: []services.GeneratedSkill{
					{Name: "Go", Category: "programming"},
					{Name: "SQL", Category: "databases"},
				},
			},
			{
				Title:       "Production",
				Description: "Shipping and operating services",
				Skills: []services.GeneratedSkill{
					{Name: "Docker", Category: "infrastructure"},
					{Name: "Observability", Category: "operations"},
				},
			},
		},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A pooled :memory: sqlite gives every connection its own database.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, utils.Migrate(db))

	cfg := &config.Config{
		JWTSecret:      "testsecret",
		PlanGenTimeout: 5 * time.Second,
	}
	gen := &fakeGenerator{doc: defaultPlanDoc()}

	app := fiber.New()
	routes.SetupRoutes(app, db, cfg, gen, log.New(io.Discard, "", 0))

	return &testEnv{app: app, db: db, cfg: cfg, gen: gen}
}

// register creates a user through the public endpoint and returns its token.
func (e *testEnv) register(t *testing.T, username string) string {
	t.Helper()

	resp, body := e.request(t, "POST", "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	return data["token"].(string)
}

func (e *testEnv) request(t *testing.T, method, path, token string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	var body map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &body))
	}
	return resp, body
}

func data(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %v", body)
	return d
}
