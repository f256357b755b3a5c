package controllers_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruangtulis/ruangtulis/app/controllers"
	"github.com/ruangtulis/ruangtulis/app/models"
	"github.com/ruangtulis/ruangtulis/app/repository"
	"github.com/ruangtulis/ruangtulis/internal/pkg/adminauth"
	"github.com/ruangtulis/ruangtulis/internal/pkg/content"
	"github.com/ruangtulis/ruangtulis/internal/pkg/router"
)

const testAdminSecret = "test-secret-123"

var (
	testApp  *fiber.App
	setupOne sync.Once
)

// newTestApp wires the real API router against the file store in a
// throwaway directory. The repository factory is a process singleton, so
// the environment is fixed once for the whole package run.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	setupOne.Do(func() {
		dir, err := os.MkdirTemp("", "ruangtulis-test")
		if err != nil {
			panic(err)
		}
		os.Setenv("ADMIN_SECRET", testAdminSecret)
		os.Setenv("ARTICLE_STORE", repository.StoreFile)
		os.Setenv("ARTICLE_DATA_FILE", filepath.Join(dir, "articles.json"))
		os.Setenv("UPLOAD_DRIVER", "local")
		os.Setenv("UPLOAD_DIR", filepath.Join(dir, "uploads"))
		os.Setenv("RATE_LIMIT_MAX", "1000")

		adminauth.Setup()
		repository.InitializeFactory()

		testApp = fiber.New()
		router.NewApiRouter().InstallRouter(testApp)
	})
	return testApp
}

func jsonRequest(method, target string, payload any) *http.Request {
	raw, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func adminToken() string {
	return base64.StdEncoding.EncodeToString([]byte("admin:" + testAdminSecret))
}

func decodeArticle(t *testing.T, resp *http.Response) models.Article {
	t.Helper()
	var body struct {
		Article models.Article `json:"article"`
	}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &body))
	return body.Article
}

func submitArticle(t *testing.T, app *fiber.App, payload map[string]any) models.Article {
	t.Helper()
	resp, err := app.Test(jsonRequest("POST", "/api/articles/submit", payload), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return decodeArticle(t, resp)
}

func TestSubmitArticleScenario(t *testing.T) {
	app := newTestApp(t)

	imagePath := "/uploads/articles/1700000000-abcd1234-will.jpg"
	text := content.AppendImage(strings.Repeat("Kebebasan berkehendak adalah ilusi? ", 10), "img-will")
	encoded, err := content.Encode(text, []content.ImageRef{
		{ID: "img-will", Path: imagePath, Alt: "will.jpg"},
	})
	require.NoError(t, err)

	article := submitArticle(t, app, map[string]any{
		"title":    "Free Will",
		"author":   "A",
		"email":    "a@b.com",
		"category": "filsafat-sains",
		"content":  encoded,
	})

	assert.Equal(t, models.STATUS_PENDING, article.Status)
	assert.Equal(t, article.CreatedAt, article.UpdatedAt)
	assert.NotZero(t, article.ID)

	// Server-derived excerpt: placeholder stripped, truncated, ellipsis.
	assert.NotContains(t, article.Excerpt, "[IMAGE:")
	assert.True(t, strings.HasSuffix(article.Excerpt, "..."))
	assert.LessOrEqual(t, len([]rune(article.Excerpt)), controllers.ExcerptLimit+3)

	// Featured image is the first inline image's URL.
	assert.Equal(t, imagePath, article.Image)
}

func TestSubmitArticleValidation(t *testing.T) {
	app := newTestApp(t)

	cases := []struct {
		name    string
		payload map[string]any
	}{
		{"missing title", map[string]any{"author": "A", "email": "a@b.com", "category": "logika", "content": "x"}},
		{"bad email", map[string]any{"title": "T", "author": "A", "email": "not-an-email", "category": "logika", "content": "x"}},
		{"unknown category", map[string]any{"title": "T", "author": "A", "email": "a@b.com", "category": "astrologi", "content": "x"}},
		{"pseudo category", map[string]any{"title": "T", "author": "A", "email": "a@b.com", "category": "semua", "content": "x"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := app.Test(jsonRequest("POST", "/api/articles/submit", tc.payload), -1)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestModerationFlow(t *testing.T) {
	app := newTestApp(t)

	article := submitArticle(t, app, map[string]any{
		"title":    "Moderated Piece",
		"author":   "B",
		"email":    "b@c.com",
		"category": "logika",
		"content":  "a body of text",
	})

	// Public listing does not include the pending article.
	resp, err := app.Test(httptest.NewRequest("GET", "/api/articles", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var public []models.Article
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &public))
	for _, a := range public {
		assert.NotEqual(t, article.ID, a.ID)
	}

	// Approve with a valid credential.
	req := httptest.NewRequest("PATCH", fmt.Sprintf("/api/articles/%d/approve", article.ID), nil)
	req.Header.Set(adminauth.TokenHeader, adminToken())
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	approved := decodeArticle(t, resp)
	assert.Equal(t, models.STATUS_APPROVED, approved.Status)
	assert.Equal(t, article.Title, approved.Title)
	assert.Equal(t, article.CreatedAt, approved.CreatedAt)

	// Now it shows up publicly.
	resp, err = app.Test(httptest.NewRequest("GET", "/api/articles", nil), -1)
	require.NoError(t, err)
	raw, _ = io.ReadAll(resp.Body)
	public = nil
	require.NoError(t, json.Unmarshal(raw, &public))
	found := false
	for _, a := range public {
		if a.ID == article.ID {
			found = true
		}
		assert.Equal(t, models.STATUS_APPROVED, a.Status)
	}
	assert.True(t, found)

	// Reject it again; then re-approve (allowed transition).
	req = httptest.NewRequest("PATCH", fmt.Sprintf("/api/articles/%d/reject", article.ID), nil)
	req.Header.Set(adminauth.TokenHeader, adminToken())
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, models.STATUS_REJECTED, decodeArticle(t, resp).Status)

	req = httptest.NewRequest("PATCH", fmt.Sprintf("/api/articles/%d/approve", article.ID), nil)
	req.Header.Set(adminauth.TokenHeader, adminToken())
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, models.STATUS_APPROVED, decodeArticle(t, resp).Status)
}

func TestEditLeavesStatusUntouched(t *testing.T) {
	app := newTestApp(t)

	article := submitArticle(t, app, map[string]any{
		"title":    "Editable",
		"author":   "C",
		"email":    "c@d.com",
		"category": "teologi",
		"content":  "original body",
	})

	req := jsonRequest("PATCH", fmt.Sprintf("/api/articles/%d", article.ID), map[string]any{
		"title":    "Edited Title",
		"author":   "C",
		"email":    "c@d.com",
		"category": "teologi",
		"content":  "revised body",
	})
	req.Header.Set(adminauth.TokenHeader, adminToken())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	edited := decodeArticle(t, resp)
	assert.Equal(t, "Edited Title", edited.Title)
	assert.Equal(t, "revised body", edited.Content)
	assert.Equal(t, models.STATUS_PENDING, edited.Status)
}

func TestDeleteArticle(t *testing.T) {
	app := newTestApp(t)

	article := submitArticle(t, app, map[string]any{
		"title":    "Doomed",
		"author":   "D",
		"email":    "d@e.com",
		"category": "bioetika",
		"content":  "short lived",
	})

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/articles/%d", article.ID), nil)
	req.Header.Set(adminauth.TokenHeader, adminToken())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// A second delete reports not found.
	req = httptest.NewRequest("DELETE", fmt.Sprintf("/api/articles/%d", article.ID), nil)
	req.Header.Set(adminauth.TokenHeader, adminToken())
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPrivilegedRoutesRejectBadCredentials(t *testing.T) {
	app := newTestApp(t)

	forged := base64.StdEncoding.EncodeToString([]byte("admin:wrong-secret"))

	routes := []struct {
		method string
		target string
	}{
		{"GET", "/api/articles/all"},
		{"PATCH", "/api/articles/1/approve"},
		{"PATCH", "/api/articles/1/reject"},
		{"PATCH", "/api/articles/1"},
		{"DELETE", "/api/articles/1"},
	}

	for name, token := range map[string]string{"missing": "", "forged": forged} {
		for _, rt := range routes {
			t.Run(name+" "+rt.method+" "+rt.target, func(t *testing.T) {
				req := httptest.NewRequest(rt.method, rt.target, nil)
				if token != "" {
					req.Header.Set(adminauth.TokenHeader, token)
				}
				resp, err := app.Test(req, -1)
				require.NoError(t, err)
				assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
			})
		}
	}
}

func TestListAllRequiresAndHonorsCredential(t *testing.T) {
	app := newTestApp(t)

	submitArticle(t, app, map[string]any{
		"title":    "Visible To Admin",
		"author":   "E",
		"email":    "e@f.com",
		"category": "epistemologi",
		"content":  "pending text",
	})

	req := httptest.NewRequest("GET", "/api/articles/all", nil)
	req.Header.Set(adminauth.TokenHeader, adminToken())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var all []models.Article
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &all))
	assert.NotEmpty(t, all)
}

func TestGetArticleVisibility(t *testing.T) {
	app := newTestApp(t)

	article := submitArticle(t, app, map[string]any{
		"title":    "Hidden While Pending",
		"author":   "F",
		"email":    "f@g.com",
		"category": "metafisika",
		"content":  "not yet public",
	})

	// Anonymous readers get a 404 for a pending article.
	resp, err := app.Test(httptest.NewRequest("GET", fmt.Sprintf("/api/articles/%d", article.ID), nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// The admin can see it.
	req := httptest.NewRequest("GET", fmt.Sprintf("/api/articles/%d", article.ID), nil)
	req.Header.Set(adminauth.TokenHeader, adminToken())
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGetArticleBadID(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/articles/not-a-number", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminLogin(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(jsonRequest("POST", "/api/admin/login", map[string]any{"password": testAdminSecret}), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.True(t, body.Success)
	assert.Equal(t, adminToken(), body.Token)

	// The issued token passes the middleware.
	req := httptest.NewRequest("GET", "/api/articles/all", nil)
	req.Header.Set(adminauth.TokenHeader, body.Token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAdminLoginRejectsWrongPassword(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(jsonRequest("POST", "/api/admin/login", map[string]any{"password": "wrong"}), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(jsonRequest("POST", "/api/admin/login", map[string]any{}), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
