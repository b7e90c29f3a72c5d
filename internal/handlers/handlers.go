package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Brownie44l1/cxr-api/internal/model"
)

// ImageField is the multipart field carrying the uploaded X-ray.
const ImageField = "image"

const errNoImage = "No image file provided"

type Handler struct {
	predictor      model.Predictor
	logger         *zap.SugaredLogger
	maxUploadBytes int64
}

func NewHandler(predictor model.Predictor, logger *zap.SugaredLogger, maxUploadBytes int64) *Handler {
	return &Handler{
		predictor:      predictor,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Predict accepts a multipart upload with an "image" file part and answers
// with the predictor's result. Every failure becomes a 400 carrying the
// error message.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	image, header, err := h.readImage(w, r)
	if err != nil {
		h.logger.Warnw("Rejected prediction request", "request_id", reqID, "error", err)
		writeError(w, err)
		return
	}

	h.logger.Infow("Received file",
		"request_id", reqID,
		"filename", header.Filename,
		"content_type", header.Header.Get("Content-Type"),
		"size", len(image),
	)

	result, err := h.predictor.Predict(r.Context(), image)
	if err != nil {
		h.logger.Errorw("Prediction error", "request_id", reqID, "error", err)
		writeError(w, err)
		return
	}

	h.logger.Infow("Prediction served",
		"request_id", reqID,
		"label", result.Label,
		"confidence", result.Confidence,
	)
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) readImage(w http.ResponseWriter, r *http.Request) ([]byte, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		return nil, nil, fmt.Errorf("failed to parse form: %w", err)
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(ImageField)
	if err != nil {
		return nil, nil, &model.ValidationError{Message: errNoImage}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read image: %w", err)
	}
	return data, header, nil
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
