// Package huggingface serves a text-classification model hosted on the
// Hugging Face hub through the Inference API.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/Expenditure-Tracking-App/Expenditure-Tracking-Service/internal/domain/entity"
)

// PipelineTextClassification is the hub pipeline tag this backend serves
const PipelineTextClassification = "text-classification"

var (
	// ErrUnsupportedPipeline is returned when the hub model is not a text classifier
	ErrUnsupportedPipeline = errors.New("model is not a text-classification model")
	// ErrEmptyResponse is returned when inference yields no labels
	ErrEmptyResponse = errors.New("inference returned no labels")
)

// Options configures a Client
type Options struct {
	Name         string
	HubURL       string
	InferenceURL string
	Token        string
	Timeout      time.Duration
}

// ModelInfo is the subset of hub model metadata the client checks
type ModelInfo struct {
	ID          string `json:"id"`
	PipelineTag string `json:"pipeline_tag"`
}

type inferenceRequest struct {
	Inputs  string           `json:"inputs"`
	Options inferenceOptions `json:"options"`
}

type inferenceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Client classifies text with a hub-hosted model
type Client struct {
	name         string
	hubURL       string
	inferenceURL string
	token        string
	httpClient   *http.Client
}

// NewClient creates a new Hugging Face client
func NewClient(opts Options) *Client {
	return &Client{
		name:         opts.Name,
		hubURL:       strings.TrimRight(opts.HubURL, "/"),
		inferenceURL: strings.TrimRight(opts.InferenceURL, "/"),
		token:        opts.Token,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
	}
}

// Name returns the hub model identifier
func (c *Client) Name() string {
	return c.name
}

// Load checks that the model exists on the hub and is a text classifier
func (c *Client) Load(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.hubURL+"/api/models/"+c.name, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch model metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError("hub", resp)
	}

	var info ModelInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return fmt.Errorf("failed to decode model metadata: %w", err)
	}

	if info.PipelineTag != PipelineTextClassification {
		return fmt.Errorf("%w: %s has pipeline %q", ErrUnsupportedPipeline, c.name, info.PipelineTag)
	}

	return nil
}

// Predict runs inference and returns labels ranked by score
func (c *Client) Predict(ctx context.Context, text string) (entity.Ranking, error) {
	body, err := json.Marshal(inferenceRequest{
		Inputs:  text,
		Options: inferenceOptions{WaitForModel: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.inferenceURL+"/models/"+c.name, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("inference", resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	labels, err := decodeLabels(raw)
	if err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return nil, ErrEmptyResponse
	}

	ranking := entity.Ranking(lo.Map(labels, func(l labelScore, _ int) entity.Prediction {
		return entity.Prediction{Label: l.Label, Score: l.Score}
	}))
	ranking.Sort()

	return ranking, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// decodeLabels accepts both [[{label,score}]] (one list per input) and
// [{label,score}].
func decodeLabels(raw []byte) ([]labelScore, error) {
	var nested [][]labelScore
	if err := json.Unmarshal(raw, &nested); err == nil {
		if len(nested) == 0 {
			return nil, nil
		}
		return nested[0], nil
	}

	var flat []labelScore
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return flat, nil
}

func statusError(api string, resp *http.Response) error {
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(respBody) == 0 {
		return fmt.Errorf("hugging face %s API returned status %d", api, resp.StatusCode)
	}
	return fmt.Errorf("hugging face %s API returned status %d: %s", api, resp.StatusCode, strings.TrimSpace(string(respBody)))
}
