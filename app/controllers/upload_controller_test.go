package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"regexp"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUploadRequest(t *testing.T, filename, contentType, body string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = io.Copy(part, strings.NewReader(body))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadImage(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(newUploadRequest(t, "my photo.png", "image/png", "fake png bytes"), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Path     string `json:"path"`
		Filename string `json:"filename"`
		ImageID  string `json:"imageId"`
	}
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body))

	assert.True(t, strings.HasPrefix(body.Path, "/uploads/articles/"))
	assert.Regexp(t, regexp.MustCompile(`^\d+-[0-9a-zA-Z]{8}-my-photo\.png$`), body.Filename)
	assert.True(t, strings.HasPrefix(body.ImageID, "img-"))
}

func TestUploadRejectsNonImage(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(newUploadRequest(t, "evil.html", "text/html", "<script/>"), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUploadRequiresFile(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("POST", "/api/upload", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
