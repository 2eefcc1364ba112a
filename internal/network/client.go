// Package network handles communication with the model server.
package network

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/turntable/internal/logger"
	"github.com/Faultbox/turntable/pkg/formats"
)

// Client talks to the model server over HTTP. It is safe for concurrent use.
type Client struct {
	base    *url.URL
	http    *http.Client
	maxBody int64
}

// New creates a client for the server at baseURL.
func New(baseURL string, timeout time.Duration, maxBodyMB int) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing server url %s: %w", baseURL, err)
	}
	if maxBodyMB <= 0 {
		maxBodyMB = 64
	}

	return &Client{
		base:    base,
		http:    &http.Client{Timeout: timeout},
		maxBody: int64(maxBodyMB) << 20,
	}, nil
}

// FetchModel downloads the current model geometry from GET /model.
func (c *Client) FetchModel(ctx context.Context) (*formats.Mesh, error) {
	op := shortID()
	start := time.Now()
	logger.Debug("Fetching model",
		zap.String("op", op),
		zap.String("url", c.endpoint("/model")))

	body, err := c.request(ctx, http.MethodGet, "/model")
	if err != nil {
		logger.Warn("Model fetch failed", zap.String("op", op), zap.Error(err))
		return nil, err
	}

	mesh, err := formats.Decode(body)
	if err != nil {
		logger.Warn("Model payload rejected", zap.String("op", op), zap.Error(err))
		return nil, parseError("decoding model payload", err)
	}

	logger.Info("Model fetched",
		zap.String("op", op),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Duration("elapsed", time.Since(start)))
	return mesh, nil
}

// TriggerGenerate asks the server to produce a new model via POST /generate.
// The server acknowledges with a JSON message once generation finishes.
func (c *Client) TriggerGenerate(ctx context.Context) (string, error) {
	op := shortID()
	start := time.Now()
	logger.Debug("Requesting model generation",
		zap.String("op", op),
		zap.String("url", c.endpoint("/generate")))

	body, err := c.request(ctx, http.MethodPost, "/generate")
	if err != nil {
		logger.Warn("Generate request failed", zap.String("op", op), zap.Error(err))
		return "", err
	}

	var reply struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &reply); err != nil {
		logger.Warn("Generate response rejected", zap.String("op", op), zap.Error(err))
		return "", parseError("decoding generate response", err)
	}

	logger.Info("Generation finished",
		zap.String("op", op),
		zap.String("message", reply.Message),
		zap.Duration("elapsed", time.Since(start)))
	return reply.Message, nil
}

func (c *Client) endpoint(path string) string {
	return c.base.String() + path
}

// request performs an HTTP call and returns the response body, classifying
// transport failures and non-2xx statuses as network errors.
func (c *Client) request(ctx context.Context, method, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), nil)
	if err != nil {
		return nil, networkError("building request", err)
	}
	req.Header.Set("Accept", "application/json, */*")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, networkError(fmt.Sprintf("%s %s", method, path), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(fmt.Sprintf("%s %s returned %s", method, path, resp.Status), resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, networkError("reading response body", err)
	}
	if int64(len(data)) > c.maxBody {
		return nil, networkError(fmt.Sprintf("response body exceeds %d MB limit", c.maxBody>>20), nil)
	}
	return data, nil
}

// shortID tags the log lines belonging to one request.
func shortID() string {
	return uuid.NewString()[:8]
}
