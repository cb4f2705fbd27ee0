package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/coslynx/AI-Response-Wrapper-MVP/internal/auth"
	"github.com/coslynx/AI-Response-Wrapper-MVP/internal/config"
	"github.com/coslynx/AI-Response-Wrapper-MVP/internal/db"
	"github.com/coslynx/AI-Response-Wrapper-MVP/internal/llm/openai"
	"github.com/coslynx/AI-Response-Wrapper-MVP/pkg/models"
)

// mockGenerator is a Generator stub recording its invocations.
type mockGenerator struct {
	text    string
	err     error
	calls   int
	lastReq openai.GenerationRequest
}

func (m *mockGenerator) Generate(ctx context.Context, req openai.GenerationRequest) (string, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

// testService creates a Service with a temporary SQLite database and a
// mock generator.
func testService(t *testing.T) (*Service, *mockGenerator, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "server_test_*")
	require.NoError(t, err)

	store, err := db.NewStore(db.Config{
		DSN:      filepath.Join(tmpDir, "test.db"),
		MaxConns: 4,
		LogLevel: logger.Silent,
	})
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("NewStore failed: %v", err)
	}

	cfg := config.Default()
	cfg.SecretKey = "test-secret"
	cfg.ValidModels = []string{"text-davinci-003", "gpt-3.5-turbo"}
	cfg.GenerateTimeout = config.Duration(5 * time.Second)

	gen := &mockGenerator{text: "This is a mocked response"}
	svc := New(cfg, store, auth.NewTokenService(cfg.SecretKey, cfg.TokenTTL.Std()), gen)

	cleanup := func() {
		store.Close()
		os.RemoveAll(tmpDir)
	}
	return svc, gen, cleanup
}

// createTestUser inserts a user and returns it with a valid bearer token.
func createTestUser(t *testing.T, svc *Service) (*models.User, string) {
	t.Helper()

	user := &models.User{Username: "tester", APIKey: "api-key"}
	require.NoError(t, svc.users.Create(context.Background(), user))

	token, err := svc.tokens.Issue(user.ID)
	require.NoError(t, err)
	return user, token
}

// doRequest performs an authenticated JSON request against the service.
func doRequest(t *testing.T, svc *Service, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestCreatePrompt_Success(t *testing.T) {
	svc, _, cleanup := testService(t)
	defer cleanup()

	user, token := createTestUser(t, svc)

	rec := doRequest(t, svc, http.MethodPost, "/prompts", token, map[string]any{
		"text":  "My test prompt",
		"model": "text-davinci-003",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	prompt := decodeBody[models.Prompt](t, rec)
	assert.Greater(t, prompt.ID, int64(0))
	assert.Equal(t, "My test prompt", prompt.Text)
	assert.Equal(t, "text-davinci-003", prompt.Model)
	require.NotNil(t, prompt.UserID)
	assert.Equal(t, user.ID, *prompt.UserID)

	// Validated sampling fields are folded into the parameters map.
	assert.EqualValues(t, 100, prompt.Parameters["max_tokens"])
	assert.EqualValues(t, 0.5, prompt.Parameters["temperature"])
}

func TestCreatePrompt_EmptyText(t *testing.T) {
	svc, _, cleanup := testService(t)
	defer cleanup()

	_, token := createTestUser(t, svc)

	rec := doRequest(t, svc, http.MethodPost, "/prompts", token, map[string]any{
		"text":  "",
		"model": "text-davinci-003",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decodeBody[errorBody](t, rec)
	assert.Contains(t, body.Fields, "text")

	// No row was written.
	var count int64
	require.NoError(t, svc.store.DB.Model(&db.Prompt{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreatePrompt_AllViolationsReported(t *testing.T) {
	svc, _, cleanup := testService(t)
	defer cleanup()

	_, token := createTestUser(t, svc)

	rec := doRequest(t, svc, http.MethodPost, "/prompts", token, map[string]any{
		"text":        "",
		"max_tokens":  -1,
		"temperature": 2.5,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decodeBody[errorBody](t, rec)
	assert.Len(t, body.Fields, 3)
}

func TestCreatePrompt_MalformedJSON(t *testing.T) {
	svc, _, cleanup := testService(t)
	defer cleanup()

	_, token := createTestUser(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/prompts", bytes.NewReader([]byte("{broken")))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetPrompt_RoundTrip(t *testing.T) {
	svc, _, cleanup := testService(t)
	defer cleanup()

	_, token := createTestUser(t, svc)

	rec := doRequest(t, svc, http.MethodPost, "/prompts", token, map[string]any{
		"text":  "Round trip prompt",
		"model": "gpt-3.5-turbo",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	created := decodeBody[models.Prompt](t, rec)

	rec = doRequest(t, svc, http.MethodGet, "/prompts/"+itoa(created.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	fetched := decodeBody[models.Prompt](t, rec)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "Round trip prompt", fetched.Text)
	assert.Equal(t, "gpt-3.5-turbo", fetched.Model)
}

func TestGetPrompt_NotFound(t *testing.T) {
	svc, _, cleanup := testService(t)
	defer cleanup()

	_, token := createTestUser(t, svc)

	rec := doRequest(t, svc, http.MethodGet, "/prompts/9999", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	body := decodeBody[errorBody](t, rec)
	assert.Equal(t, "Prompt not found", body.Detail)
}

func TestCreateResponse_Success(t *testing.T) {
	svc, gen, cleanup := testService(t)
	defer cleanup()

	_, token := createTestUser(t, svc)

	promptRec := doRequest(t, svc, http.MethodPost, "/prompts", token, map[string]any{
		"text": "Say hello",
	})
	require.Equal(t, http.StatusOK, promptRec.Code)
	prompt := decodeBody[models.Prompt](t, promptRec)

	rec := doRequest(t, svc, http.MethodPost, "/responses", token, map[string]any{
		"prompt":    "Say hello",
		"model":     "gpt-3.5-turbo",
		"prompt_id": prompt.ID,
		"parameters": map[string]any{
			"temperature": 0.2,
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	response := decodeBody[models.Response](t, rec)
	assert.Equal(t, "This is a mocked response", response.Text)
	assert.Equal(t, "gpt-3.5-turbo", response.Model)
	assert.False(t, response.GenerationTime.IsZero())
	require.NotNil(t, response.PromptID)
	assert.Equal(t, prompt.ID, *response.PromptID)

	// The generator received the validated request.
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, "Say hello", gen.lastReq.Prompt)
	assert.Equal(t, "gpt-3.5-turbo", gen.lastReq.Model)
	assert.Equal(t, 0.2, gen.lastReq.Params["temperature"])

	// The row is fetchable afterwards.
	rec = doRequest(t, svc, http.MethodGet, "/responses/"+itoa(response.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decodeBody[models.Response](t, rec)
	assert.Equal(t, "This is a mocked response", fetched.Text)
}

func TestCreateResponse_UpstreamFailure(t *testing.T) {
	svc, gen, cleanup := testService(t)
	defer cleanup()

	_, token := createTestUser(t, svc)
	gen.err = &openai.UpstreamError{StatusCode: 503, Message: "service overloaded"}

	rec := doRequest(t, svc, http.MethodPost, "/responses", token, map[string]any{
		"prompt": "Say hello",
		"model":  "gpt-3.5-turbo",
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decodeBody[errorBody](t, rec)
	assert.Contains(t, body.Detail, "OpenAI API Error: ")
	assert.Contains(t, body.Detail, "service overloaded")

	// No partial state was written.
	var count int64
	require.NoError(t, svc.store.DB.Model(&db.Response{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateResponse_InvalidModel(t *testing.T) {
	svc, gen, cleanup := testService(t)
	defer cleanup()

	_, token := createTestUser(t, svc)

	rec := doRequest(t, svc, http.MethodPost, "/responses", token, map[string]any{
		"prompt": "Say hello",
		"model":  "invalid_model",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decodeBody[errorBody](t, rec)
	assert.Contains(t, body.Fields, "model")

	// Validation fails before any network call.
	assert.Zero(t, gen.calls)
}

func TestCreateResponse_StoreFailureDiscardsText(t *testing.T) {
	svc, gen, cleanup := testService(t)
	defer cleanup()

	_, token := createTestUser(t, svc)

	// Point at a prompt that does not exist; the foreign key rejects the
	// insert after generation has already succeeded.
	rec := doRequest(t, svc, http.MethodPost, "/responses", token, map[string]any{
		"prompt":    "Say hello",
		"model":     "gpt-3.5-turbo",
		"prompt_id": 4242,
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1, gen.calls, "generation ran before the failed insert")

	body := decodeBody[errorBody](t, rec)
	assert.Contains(t, body.Detail, "Database Error: ")

	var count int64
	require.NoError(t, svc.store.DB.Model(&db.Response{}).Count(&count).Error)
	assert.Zero(t, count, "generated text is discarded on insert failure")
}

func TestHealthz_NoAuthRequired(t *testing.T) {
	svc, _, cleanup := testService(t)
	defer cleanup()

	rec := doRequest(t, svc, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "ok", body["status"])
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
