// README: Rate model client. The model runs as an inference sidecar over HTTP.
package quote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

var (
	ErrPredictorUnavailable = errors.New("rate model unavailable")
	ErrInvalidPrediction    = errors.New("rate model returned an invalid prediction")
	ErrNotConfigured        = errors.New("rate model not configured")
)

// Predictor returns the model's raw rate in AED for a validated request.
type Predictor interface {
	Predict(ctx context.Context, req FreightRequest) (float64, error)
}

type PredictorConfig struct {
	BaseURL         string
	Timeout         time.Duration
	MaxRetries      uint64
	InitialInterval time.Duration
}

// HTTPPredictor posts the request to {BaseURL}/predict and expects
// {"prediction": <number>} back. 5xx, 429 and transport errors are retried
// with exponential backoff.
type HTTPPredictor struct {
	cfg    PredictorConfig
	client *http.Client
	logger *zap.Logger
}

func NewHTTPPredictor(cfg PredictorConfig, logger *zap.Logger) *HTTPPredictor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = 100 * time.Millisecond
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	return &HTTPPredictor{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type predictResponse struct {
	Prediction *float64 `json:"prediction"`
}

func (p *HTTPPredictor) Predict(ctx context.Context, req FreightRequest) (float64, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return 0, fmt.Errorf("marshal predict request: %w", err)
	}

	var out predictResponse
	operation := func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/predict", bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Accept", "application/json")

		resp, err := p.client.Do(httpReq)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			_, _ = io.Copy(io.Discard, resp.Body)
			return fmt.Errorf("retryable status code: %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return backoff.Permanent(fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))))
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode predict response: %w", err))
		}
		return nil
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = p.cfg.InitialInterval
	expBackoff.MaxElapsedTime = 4 * p.cfg.Timeout
	policy := backoff.WithContext(backoff.WithMaxRetries(expBackoff, p.cfg.MaxRetries), ctx)

	start := time.Now()
	if err := backoff.Retry(operation, policy); err != nil {
		p.logger.Error("rate model request failed",
			zap.String("url", p.cfg.BaseURL+"/predict"),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return 0, fmt.Errorf("%w: %v", ErrPredictorUnavailable, err)
	}
	if out.Prediction == nil {
		return 0, fmt.Errorf("%w: missing prediction", ErrInvalidPrediction)
	}
	return checkPrediction(*out.Prediction)
}

func checkPrediction(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPrediction, v)
	}
	return v, nil
}
