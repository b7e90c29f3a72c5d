package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockPredictor_ReturnsConfiguredResult(t *testing.T) {
	p := NewMockPredictor(DefaultMockResult())

	result, err := p.Predict(context.Background(), []byte("fake image"))
	require.NoError(t, err)

	assert.Equal(t, "Normal", result.Label)
	assert.InDelta(t, 0.95, result.Confidence, 1e-9)
	assert.Equal(t, DefaultMockExplanationURL, result.ExplanationURL)
}

func TestMockPredictor_ResultIsACopy(t *testing.T) {
	p := NewMockPredictor(DefaultMockResult())

	first, err := p.Predict(context.Background(), nil)
	require.NoError(t, err)
	first.Label = "Pneumonia"

	second, err := p.Predict(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Normal", second.Label)
}

func TestMockPredictor_CancelledContext(t *testing.T) {
	p := NewMockPredictor(DefaultMockResult())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Predict(ctx, []byte("x"))
	require.Error(t, err)

	var inferenceErr *InferenceError
	require.True(t, errors.As(err, &inferenceErr))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "mock prediction: context canceled", err.Error())
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Message: "No image file provided"}
	assert.Equal(t, "No image file provided", err.Error())
}
