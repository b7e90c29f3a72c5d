package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Brownie44l1/cxr-api/internal/model"
)

const (
	// PredictPath is appended to the configured base URL.
	PredictPath = "/predict"

	imageField       = "image"
	maxResponseBytes = 1 << 20
)

// Upload is a single image picked by the user.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// IsImage reports whether the declared MIME type is an image type.
func (u Upload) IsImage() bool {
	return strings.HasPrefix(u.ContentType, "image/")
}

// APIError is a non-2xx answer from the prediction endpoint. Message holds
// the server's "error" field when the body carried one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("prediction endpoint returned status %d", e.StatusCode)
}

// Client talks to the prediction endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

func New(baseURL string, httpClient *http.Client, logger *zap.SugaredLogger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// Predict posts the upload as multipart field "image" and decodes the result.
func (c *Client) Predict(ctx context.Context, upload Upload) (*model.PredictionResult, error) {
	body, contentType, err := encodeUpload(upload)
	if err != nil {
		return nil, errors.Wrap(err, "build upload body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+PredictPath, body)
	if err != nil {
		return nil, errors.Wrap(err, "build prediction request")
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Request-Id", requestID)

	c.logger.Debugw("Sending prediction request",
		"request_id", requestID,
		"url", req.URL.String(),
		"filename", upload.Filename,
		"size", len(upload.Data),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "send prediction request")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.Wrap(err, "read prediction response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp model.ErrorResponse
		if json.Unmarshal(raw, &errResp) == nil {
			apiErr.Message = errResp.Error
		}
		c.logger.Warnw("Prediction request failed",
			"request_id", requestID,
			"status", resp.StatusCode,
			"error", apiErr.Message,
		)
		return nil, apiErr
	}

	var result model.PredictionResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, errors.Wrap(err, "decode prediction response")
	}
	return &result, nil
}

func encodeUpload(upload Upload) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, imageField, escapeQuotes(upload.Filename)))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(upload.Data); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
