package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Expenditure-Tracking-App/Expenditure-Tracking-Service/internal/domain/entity"
)

// RemoteModel adapts PredictClient to the service.Model interface. It lets
// this service front another /predict implementation, such as a
// transformers sidecar.
type RemoteModel struct {
	name   string
	client *PredictClient
}

// NewRemoteModel creates a new RemoteModel
func NewRemoteModel(name string, client *PredictClient) *RemoteModel {
	return &RemoteModel{name: name, client: client}
}

// Name returns the model identifier
func (m *RemoteModel) Name() string {
	return m.name
}

// Load verifies the remote service is reachable. Services without a health
// endpoint are accepted; the warm-up prediction covers them.
func (m *RemoteModel) Load(ctx context.Context) error {
	_, err := m.client.Health(ctx)
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("remote model %s unavailable: %w", m.name, err)
	}
	return nil
}

// Predict classifies text. The remote contract returns only the top result,
// so the ranking has a single entry.
func (m *RemoteModel) Predict(ctx context.Context, text string) (entity.Ranking, error) {
	resp, err := m.client.Predict(ctx, text)
	if err != nil {
		return nil, err
	}

	return entity.Ranking{{Label: resp.Label, Score: resp.Score}}, nil
}
