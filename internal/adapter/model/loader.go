// Package model builds the configured classification backend and brings it
// to a serving state.
package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Expenditure-Tracking-App/Expenditure-Tracking-Service/internal/adapter/client"
	"github.com/Expenditure-Tracking-App/Expenditure-Tracking-Service/internal/adapter/model/huggingface"
	"github.com/Expenditure-Tracking-App/Expenditure-Tracking-Service/internal/adapter/model/keyword"
	"github.com/Expenditure-Tracking-App/Expenditure-Tracking-Service/internal/domain/service"
	"github.com/Expenditure-Tracking-App/Expenditure-Tracking-Service/internal/infrastructure/config"
	"github.com/Expenditure-Tracking-App/Expenditure-Tracking-Service/internal/infrastructure/metrics"
)

// ErrUnknownBackend is returned for a backend name Load does not know
var ErrUnknownBackend = errors.New("unknown model backend")

// loadable is implemented by backends with a load step
type loadable interface {
	service.Model
	Load(ctx context.Context) error
}

// Load builds the backend selected by cfg, runs its load step and a warm-up
// prediction. The returned model is ready to serve.
func Load(ctx context.Context, cfg *config.ModelConfig, logger *zap.Logger) (service.Model, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	m, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if err := m.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", m.Name(), err)
	}

	if cfg.WarmupText != "" {
		if err := warmUp(ctx, m, cfg.WarmupText, logger); err != nil {
			return nil, err
		}
	}

	metrics.ModelInfo.WithLabelValues(m.Name(), cfg.Backend).Set(1)
	logger.Info("Model loaded",
		zap.String("model", m.Name()),
		zap.String("backend", cfg.Backend),
		zap.Duration("duration", time.Since(start)),
	)

	return m, nil
}

func newBackend(cfg *config.ModelConfig) (loadable, error) {
	switch cfg.Backend {
	case config.BackendHuggingFace:
		return huggingface.NewClient(huggingface.Options{
			Name:         cfg.Name,
			HubURL:       cfg.HubURL,
			InferenceURL: cfg.InferenceURL,
			Token:        cfg.Token,
			Timeout:      cfg.Timeout,
		}), nil
	case config.BackendRemote:
		if cfg.Endpoint == "" {
			return nil, errors.New("remote backend requires model.endpoint")
		}
		return client.NewRemoteModel(cfg.Name, client.NewPredictClient(cfg.Endpoint, cfg.Timeout)), nil
	case config.BackendKeyword:
		lex, err := keyword.LoadLexicon(cfg.LexiconPath)
		if err != nil {
			return nil, err
		}
		m, err := keyword.NewModel(cfg.Name, lex)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

func warmUp(ctx context.Context, m service.Model, text string, logger *zap.Logger) error {
	ranking, err := m.Predict(ctx, text)
	if err != nil {
		return fmt.Errorf("warm-up prediction failed: %w", err)
	}

	top, err := ranking.Top()
	if err != nil {
		return fmt.Errorf("warm-up prediction failed: %w", err)
	}
	if err := top.Validate(); err != nil {
		return fmt.Errorf("warm-up prediction failed: %w", err)
	}

	logger.Info("Warm-up prediction",
		zap.String("text", text),
		zap.String("label", top.Label),
		zap.String("confidence", fmt.Sprintf("%.2f%%", top.Score*100)),
	)
	return nil
}
