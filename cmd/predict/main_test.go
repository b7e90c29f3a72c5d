package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Brownie44l1/cxr-api/internal/handlers"
	"github.com/Brownie44l1/cxr-api/internal/model"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestReadUpload_TypeFromExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chest.png")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o600))

	upload, err := readUpload(path)
	require.NoError(t, err)

	assert.Equal(t, "chest.png", upload.Filename)
	assert.Equal(t, "image/png", upload.ContentType)
	assert.Equal(t, pngHeader, upload.Data)
}

func TestReadUpload_SniffsWithoutExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o600))

	upload, err := readUpload(path)
	require.NoError(t, err)

	assert.Equal(t, "image/png", upload.ContentType)
	assert.True(t, upload.IsImage())
}

func TestReadUpload_MissingFile(t *testing.T) {
	_, err := readUpload(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Equal(t, "", firstNonEmpty())
}

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestRun_PrintsPrediction(t *testing.T) {
	h := handlers.NewHandler(model.NewMockPredictor(model.DefaultMockResult()), zap.NewNop().Sugar(), 1<<20)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	var stdout, stderr bytes.Buffer
	code := run([]string{"-api-url", srv.URL, writeTempFile(t, "chest.png", pngHeader)}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "Diagnosis:   Normal")
	assert.Contains(t, stdout.String(), "Confidence:  95.0%")
	assert.Contains(t, stdout.String(), model.DefaultMockExplanationURL)
}

func TestRun_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"No image file provided"}`))
	}))
	defer srv.Close()

	var stdout, stderr bytes.Buffer
	code := run([]string{"-api-url", srv.URL, writeTempFile(t, "chest.png", pngHeader)}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Error: No image file provided")
	assert.Empty(t, stdout.String())
}

func TestRun_NotAnImage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-api-url", "http://127.0.0.1:1", writeTempFile(t, "notes.txt", []byte("hello"))}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Please upload an image file")
}

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 2, run(nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Usage: predict")
}
