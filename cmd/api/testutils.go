package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/inkwell-app/inkwell/internal/blogservice"
	"github.com/inkwell-app/inkwell/internal/commentservice"
	"github.com/inkwell-app/inkwell/internal/common"
	"github.com/inkwell-app/inkwell/internal/imageservice"
	"github.com/inkwell-app/inkwell/internal/tagservice"
	"github.com/inkwell-app/inkwell/internal/userservice"
)

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, envelope) {
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	var envelope envelope
	err = json.Unmarshal(responseBody, &envelope)
	if err != nil {
		t.Fatal(err)
	}

	return res.StatusCode, res.Header, envelope
}

func newTestApplication(t *testing.T) (*application, *sql.DB) {
	db := common.TestDB("file://../../migrations", t)
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg := &Config{
		Environment: "test",
		Version:     "test",
	}
	cfg.Upload.Dir = t.TempDir()
	cfg.Upload.MaxBytes = imageservice.DefaultMaxBytes

	store, err := imageservice.NewDiskStore(cfg.Upload.Dir)
	assert.NoError(t, err)

	tokens := userservice.NewTokenManager("test-secret-key", time.Hour)

	app := &application{
		config:         cfg,
		logger:         logger,
		userService:    userservice.NewUserService(db, tokens),
		blogService:    blogservice.NewBlogService(db),
		tagService:     tagservice.NewTagService(db),
		commentService: commentservice.NewCommentService(db),
		imageService:   imageservice.NewImageService(db, store, cfg.Upload.MaxBytes),
	}

	return app, db
}

// registerTestUser creates an account through the public API and returns its
// access token.
func registerTestUser(t *testing.T, ts *testServer, email string) string {
	payload := map[string]string{
		"email":      email,
		"password":   "Password123!",
		"first_name": "Test",
		"last_name":  "User",
	}

	status, _, body := ts.post(t, "/v1/auth/register", payload, nil)
	assert.Equal(t, http.StatusCreated, status)

	token, ok := body["access_token"].(string)
	assert.True(t, ok)

	return token
}

func (ts *testServer) post(t *testing.T, path string, data any, token *string) (int, http.Header, envelope) {
	jsonPayload, err := json.Marshal(data)
	if err != nil {
		t.Fatal(err)
	}

	body := bytes.NewReader(jsonPayload)
	req, err := http.NewRequest(http.MethodPost, ts.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != nil {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *token))
	}
	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) get(t *testing.T, path string, token *string) (int, http.Header, envelope) {
	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if token != nil {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *token))
	}
	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) put(t *testing.T, path string, token *string, payload any) (int, http.Header, envelope) {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}

	body := bytes.NewReader(jsonPayload)
	req, err := http.NewRequest(http.MethodPut, ts.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != nil {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *token))
	}
	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) delete(t *testing.T, path string, token *string) (int, http.Header, envelope) {
	req, err := http.NewRequest(http.MethodDelete, ts.URL+path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if token != nil {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *token))
	}
	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}
