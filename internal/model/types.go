package model

import "fmt"

type PredictionResult struct {
	Label          string  `json:"label"`
	Confidence     float64 `json:"confidence"`
	ExplanationURL string  `json:"explanationUrl"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationError rejects a request before any prediction work starts.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// InferenceError is returned by a Predictor that could not produce a result.
type InferenceError struct {
	Op  string
	Err error
}

func (e *InferenceError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}
