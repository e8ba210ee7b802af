package api

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/nerggnet/WebBackend/domain/cookbook"
	"github.com/nerggnet/WebBackend/internal/logging"
	"github.com/nerggnet/WebBackend/modules/cookbook"
	"github.com/nerggnet/WebBackend/modules/tablestore"
)

// mockCookbookPort implements cookbook.CookbookPort for testing.
type mockCookbookPort struct {
	executeFn func(ctx context.Context, collection domain.Collection, cmd cookbook.Command) (cookbook.Envelope, error)
}

func (m *mockCookbookPort) Execute(ctx context.Context, collection domain.Collection, cmd cookbook.Command) (cookbook.Envelope, error) {
	return m.executeFn(ctx, collection, cmd)
}

// modulePort runs commands in-process against a started cookbook module.
type modulePort struct {
	module *cookbook.Module
}

func (p modulePort) Execute(ctx context.Context, collection domain.Collection, cmd cookbook.Command) (cookbook.Envelope, error) {
	return p.module.Handle(ctx, collection, cmd), nil
}

func newTestModule(port cookbook.CookbookPort, gatherer prometheus.Gatherer) *APIModule {
	m := NewModule(Config{Port: "0", AllowedOrigins: "*"}, gatherer, logging.Nop())
	m.cookbook = port
	return m
}

func post(t *testing.T, m *APIModule, path, body string) (int, cookbook.Envelope) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := m.newApp().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env cookbook.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		reason cookbook.Reason
		want   int
	}{
		{cookbook.ReasonNone, 200},
		{cookbook.ReasonValidation, 400},
		{cookbook.ReasonDuplicateChild, 400},
		{cookbook.ReasonChildNotFound, 400},
		{cookbook.ReasonNotFound, 404},
		{cookbook.ReasonConflict, 409},
		{cookbook.ReasonConcurrentModification, 409},
		{cookbook.ReasonCorruptData, 500},
		{cookbook.ReasonFault, 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.reason), "reason %q", tt.reason)
	}
}

func TestCommandHandler_RoutesByCollection(t *testing.T) {
	var gotCollection domain.Collection
	var gotCmd cookbook.Command
	port := &mockCookbookPort{executeFn: func(_ context.Context, c domain.Collection, cmd cookbook.Command) (cookbook.Envelope, error) {
		gotCollection, gotCmd = c, cmd
		return cookbook.Envelope{Entities: json.RawMessage(`[]`), SuccessMessage: "done"}, nil
	}}
	m := newTestModule(port, nil)

	status, env := post(t, m, "/api/v1/menus", `{"action":"get","name":"Week 1"}`)
	assert.Equal(t, 200, status)
	assert.Equal(t, "done", env.SuccessMessage)
	assert.Equal(t, domain.CollectionMenus, gotCollection)
	assert.Equal(t, "Week 1", gotCmd.Name)
}

func TestCommandHandler_MalformedBody(t *testing.T) {
	called := false
	port := &mockCookbookPort{executeFn: func(context.Context, domain.Collection, cookbook.Command) (cookbook.Envelope, error) {
		called = true
		return cookbook.Envelope{}, nil
	}}
	m := newTestModule(port, nil)

	for _, body := range []string{"", "{", `{"action":"get","surprise":true}`} {
		status, env := post(t, m, "/api/v1/recipes", body)
		assert.Equal(t, 400, status, "body %q", body)
		assert.Equal(t, cookbook.ReasonValidation, env.Reason)
		assert.NotEmpty(t, env.ErrorMessage)
	}
	assert.False(t, called)
}

func TestCommandHandler_TransportFailure(t *testing.T) {
	port := &mockCookbookPort{executeFn: func(context.Context, domain.Collection, cookbook.Command) (cookbook.Envelope, error) {
		return cookbook.Envelope{}, errors.New("nats: timeout")
	}}
	m := newTestModule(port, nil)

	status, env := post(t, m, "/api/v1/recipes", `{"action":"list"}`)
	assert.Equal(t, 500, status)
	assert.Equal(t, cookbook.ReasonFault, env.Reason)
	assert.Contains(t, env.ErrorMessage, "nats: timeout")
}

func TestCommandHandler_EndToEnd(t *testing.T) {
	ctx := context.Background()
	cb := cookbook.NewModule(cookbook.Config{Store: tablestore.Config{Driver: tablestore.DriverMemory}, MaxUpdateAttempts: 1}, nil, logging.Nop())
	require.NoError(t, cb.Start(ctx))
	defer cb.Stop(ctx)
	m := newTestModule(modulePort{module: cb}, nil)

	status, _ := post(t, m, "/api/v1/recipes", `{"action":"insert","recipe":{"name":"Pasta","portions":4}}`)
	assert.Equal(t, 200, status)

	status, env := post(t, m, "/api/v1/recipes", `{"action":"insert","recipe":{"name":"Pasta","portions":4}}`)
	assert.Equal(t, 409, status)
	assert.Equal(t, cookbook.ReasonConflict, env.Reason)

	add := `{"action":"addIngredient","name":"Pasta","ingredient":{"product":{"name":"Tomato"},"quantity":{"amount":2,"unit":"piece"}}}`
	status, env = post(t, m, "/api/v1/recipes", add)
	require.Equal(t, 200, status, env.ErrorMessage)
	recipes, err := cookbook.DecodeEntities[domain.Recipe](env)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Tomato", recipes[0].Ingredients[0].Product.Name)

	status, env = post(t, m, "/api/v1/recipes", add)
	assert.Equal(t, 400, status)
	assert.Equal(t, cookbook.ReasonDuplicateChild, env.Reason)

	status, env = post(t, m, "/api/v1/shoppinglists", `{"action":"get","name":"Nope"}`)
	assert.Equal(t, 404, status)
	assert.Equal(t, cookbook.ReasonNotFound, env.Reason)
	assert.JSONEq(t, `[]`, string(env.Entities))
}

func TestHealthAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := cookbook.NewMetrics(reg)
	ctx := context.Background()
	cb := cookbook.NewModule(cookbook.Config{Store: tablestore.Config{Driver: tablestore.DriverMemory}}, metrics, logging.Nop())
	require.NoError(t, cb.Start(ctx))
	defer cb.Stop(ctx)
	m := newTestModule(modulePort{module: cb}, reg)
	m.WatchHealth(cb)

	post(t, m, "/api/v1/menus", `{"action":"list"}`)

	app := m.newApp()
	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	var health HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "healthy", health.Status)
	require.Contains(t, health.Modules, "cookbook")
	assert.True(t, health.Modules["cookbook"].Healthy)

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `cookbook_commands_total{action="list",collection="menus",reason="ok"} 1`)
}

func TestHealth_ReportsUnhealthyStore(t *testing.T) {
	ctx := context.Background()
	cb := cookbook.NewModule(cookbook.Config{Store: tablestore.Config{Driver: tablestore.DriverMemory}}, nil, logging.Nop())
	require.NoError(t, cb.Start(ctx))
	require.NoError(t, cb.Stop(ctx))

	m := newTestModule(modulePort{module: cb}, nil)
	m.WatchHealth(cb)

	resp, err := m.newApp().Test(httptest.NewRequest("GET", "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
	var health HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "unhealthy", health.Status)
	assert.False(t, health.Modules["cookbook"].Healthy)
	assert.Equal(t, "store not initialized", health.Modules["cookbook"].Message)
}

func TestUnknownRoute(t *testing.T) {
	m := newTestModule(&mockCookbookPort{}, nil)
	resp, err := m.newApp().Test(httptest.NewRequest("GET", "/api/v1/pantry", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestModule_StartWithoutDependency(t *testing.T) {
	m := NewModule(Config{Port: "0"}, nil, logging.Nop())
	assert.Error(t, m.Start(context.Background()))
	assert.Equal(t, []string{"cookbook"}, m.Dependencies())
	assert.False(t, m.Health(context.Background()).Healthy)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	cfg := ConfigFromEnv()
	assert.Equal(t, "3000", cfg.Port)
	assert.NotEmpty(t, cfg.AllowedOrigins)

	t.Setenv("PORT", "8081")
	assert.Equal(t, "8081", ConfigFromEnv().Port)
}
