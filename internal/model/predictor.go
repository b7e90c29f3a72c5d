package model

import "context"

// Predictor turns raw image bytes into a prediction. Implementations return
// an *InferenceError when they cannot produce a result.
type Predictor interface {
	Predict(ctx context.Context, image []byte) (*PredictionResult, error)
}

const (
	DefaultMockLabel          = "Normal"
	DefaultMockConfidence     = 0.95
	DefaultMockExplanationURL = "https://images.unsplash.com/photo-1584036561566-baf8f5f1b144?auto=format&fit=crop&q=80&w=1024"
)

// MockPredictor answers every request with the same result. It stands in
// for a real model until one is wired behind the Predictor interface.
type MockPredictor struct {
	result PredictionResult
}

func NewMockPredictor(result PredictionResult) *MockPredictor {
	return &MockPredictor{result: result}
}

// DefaultMockResult is the placeholder result served when nothing is configured.
func DefaultMockResult() PredictionResult {
	return PredictionResult{
		Label:          DefaultMockLabel,
		Confidence:     DefaultMockConfidence,
		ExplanationURL: DefaultMockExplanationURL,
	}
}

func (p *MockPredictor) Predict(ctx context.Context, image []byte) (*PredictionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, &InferenceError{Op: "mock prediction", Err: err}
	}

	result := p.result
	return &result, nil
}
