package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Brownie44l1/cxr-api/internal/model"
)

// Messages shown to the user.
const (
	MsgNotAnImage    = "Please upload an image file"
	MsgNoFile        = "Please select an image first"
	MsgRequestFailed = "Failed to process image"
	MsgFallback      = "An error occurred"
)

var (
	ErrNotAnImage = errors.New(MsgNotAnImage)
	ErrNoFile     = errors.New(MsgNoFile)
	ErrInFlight   = errors.New("an analysis is already in progress")
)

// Predictor is the part of Client a Session needs.
type Predictor interface {
	Predict(ctx context.Context, upload Upload) (*model.PredictionResult, error)
}

// Session holds one user's upload form state: the selected file, its
// preview, the in-flight flag and the last result or error. Nothing is
// persisted.
type Session struct {
	api    Predictor
	logger *zap.SugaredLogger

	mu         sync.Mutex
	file       *Upload
	preview    *Preview
	generation uint64
	inFlight   bool
	result     *model.PredictionResult
	errMsg     string
}

func NewSession(api Predictor, logger *zap.SugaredLogger) *Session {
	return &Session{api: api, logger: logger}
}

// SelectFile replaces the current selection. Non-image uploads are rejected
// and leave the selection untouched.
func (s *Session) SelectFile(upload Upload) error {
	if !upload.IsImage() {
		s.mu.Lock()
		s.errMsg = MsgNotAnImage
		s.mu.Unlock()
		s.logger.Debugw("Rejected selection", "filename", upload.Filename, "content_type", upload.ContentType)
		return ErrNotAnImage
	}

	preview := NewPreview(upload)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.preview.Release()
	s.file = &upload
	s.preview = preview
	s.generation++
	s.result = nil
	s.errMsg = ""

	s.logger.Debugw("Selected file", "filename", upload.Filename, "content_type", upload.ContentType, "size", len(upload.Data))
	return nil
}

// Submit sends the selected file for prediction and records the outcome.
// A result for a file that was replaced while the request was running is
// dropped.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.file == nil {
		s.errMsg = MsgNoFile
		s.mu.Unlock()
		return ErrNoFile
	}
	if s.inFlight {
		s.mu.Unlock()
		return ErrInFlight
	}
	upload := *s.file
	generation := s.generation
	s.inFlight = true
	s.errMsg = ""
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	result, err := s.api.Predict(ctx, upload)

	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		s.logger.Debugw("Dropping result for replaced selection", "filename", upload.Filename)
		return err
	}
	if err != nil {
		s.errMsg = errorMessage(err)
		return err
	}
	s.result = result
	return nil
}

// ReportError shows msg as the current error without touching the selection.
func (s *Session) ReportError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = msg
}

// Close releases the preview. The session must not be used afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.preview.Release()
	s.preview = nil
	s.file = nil
	s.result = nil
	s.generation++
}

func errorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return MsgRequestFailed
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return MsgFallback
}

// View is a render-ready snapshot of a Session.
type View struct {
	HasFile    bool
	Filename   string
	PreviewURL string
	InFlight   bool
	Error      string
	Result     *ResultView
}

type ResultView struct {
	Label          string
	Confidence     string
	ExplanationURL string
}

// CanSubmit mirrors the submit control's enabled state.
func (v View) CanSubmit() bool {
	return v.HasFile && !v.InFlight
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		PreviewURL: s.preview.URL(),
		InFlight:   s.inFlight,
		Error:      s.errMsg,
	}
	if s.file != nil {
		v.HasFile = true
		v.Filename = s.file.Filename
	}
	if s.result != nil {
		v.Result = &ResultView{
			Label:          s.result.Label,
			Confidence:     FormatConfidence(s.result.Confidence),
			ExplanationURL: s.result.ExplanationURL,
		}
	}
	return v
}

// FormatConfidence renders a [0,1] score as a percentage with one decimal.
func FormatConfidence(c float64) string {
	return fmt.Sprintf("%.1f%%", c*100)
}
