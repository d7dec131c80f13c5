package utils

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAllowedImage(t *testing.T) {
	assert.True(t, IsAllowedImage("logo.PNG"))
	assert.True(t, IsAllowedImage("photo.jpeg"))
	assert.False(t, IsAllowedImage("script.exe"))
	assert.False(t, IsAllowedImage("noext"))
}

func TestSaveUploadedFile(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", "Logo.PNG")
	require.NoError(t, err)
	_, err = part.Write([]byte("pixels"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	header := req.MultipartForm.File["image"][0]

	dir := t.TempDir()
	rel, err := SaveUploadedFile(header, dir, "offers")
	require.NoError(t, err)
	assert.Regexp(t, `^offers/[0-9a-f-]{36}\.png$`, rel)

	content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(content))

	assert.Equal(t, "/uploads/"+rel, GetFileURL(rel))
	assert.Empty(t, GetFileURL(""))
}
