package service

import (
	"context"

	"github.com/Expenditure-Tracking-App/Expenditure-Tracking-Service/internal/domain/entity"
)

// Model is a loaded text classification model
type Model interface {
	// Name returns the model identifier
	Name() string

	// Predict classifies text and returns predictions ranked best first
	Predict(ctx context.Context, text string) (entity.Ranking, error)
}
