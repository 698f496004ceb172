package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Expenditure-Tracking-App/Expenditure-Tracking-Service/internal/domain/service"
	"github.com/Expenditure-Tracking-App/Expenditure-Tracking-Service/internal/infrastructure/metrics"
)

// Error definitions for predict usecase
var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrInferenceFailed   = errors.New("inference failed")
	ErrNoPrediction      = errors.New("model returned no prediction")
	ErrInvalidPrediction = errors.New("model returned an invalid prediction")
)

// PredictInput represents the input for a prediction. Text is a pointer so
// that a missing or null field fails binding while an empty string does not.
type PredictInput struct {
	Text *string `json:"text" binding:"required"`
}

// PredictOutput represents the output for a prediction
type PredictOutput struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// PredictUsecase defines the interface for prediction logic
type PredictUsecase interface {
	Predict(ctx context.Context, input *PredictInput) (*PredictOutput, error)
}

type predictUsecase struct {
	model  service.Model
	logger *zap.Logger
}

// NewPredictUsecase creates a new predict usecase
func NewPredictUsecase(model service.Model, logger *zap.Logger) PredictUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &predictUsecase{
		model:  model,
		logger: logger,
	}
}

func (u *predictUsecase) Predict(ctx context.Context, input *PredictInput) (*PredictOutput, error) {
	if input == nil || input.Text == nil {
		return nil, ErrInvalidRequest
	}

	start := time.Now()
	ranking, err := u.model.Predict(ctx, *input.Text)
	metrics.InferenceDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		u.logger.Error("Inference failed",
			zap.String("model", u.model.Name()),
			zap.Error(err),
		)
		metrics.Predictions.WithLabelValues(metrics.OutcomeError, "").Inc()
		return nil, fmt.Errorf("%w: %w", ErrInferenceFailed, err)
	}

	// Only the first-ranked result is used
	top, err := ranking.Top()
	if err != nil {
		metrics.Predictions.WithLabelValues(metrics.OutcomeError, "").Inc()
		return nil, ErrNoPrediction
	}
	if err := top.Validate(); err != nil {
		u.logger.Error("Invalid prediction",
			zap.String("model", u.model.Name()),
			zap.String("label", top.Label),
			zap.Float64("score", top.Score),
			zap.Error(err),
		)
		metrics.Predictions.WithLabelValues(metrics.OutcomeError, "").Inc()
		return nil, fmt.Errorf("%w: %w", ErrInvalidPrediction, err)
	}

	metrics.Predictions.WithLabelValues(metrics.OutcomeSuccess, top.Label).Inc()

	return &PredictOutput{
		Label: top.Label,
		Score: top.Score,
	}, nil
}
