package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mrlokans/bookreviews/internal/entities"
)

const defaultHTTPTimeout = 10 * time.Second

// HTTPGateway talks to a remote snapshot endpoint that answers GET with the
// document (or 204 when nothing is stored) and accepts the document via PUT.
type HTTPGateway struct {
	url        string
	httpClient *http.Client
}

func NewHTTPGateway(url string, timeout time.Duration) *HTTPGateway {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &HTTPGateway{
		url:        strings.TrimRight(url, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (g *HTTPGateway) Load(ctx context.Context) (*entities.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNoContent, http.StatusNotFound:
		return nil, entities.ErrSnapshotNotFound
	default:
		return nil, fmt.Errorf("fetch snapshot: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read snapshot body: %w", err)
	}
	return entities.DecodeSnapshot(data)
}

func (g *HTTPGateway) Save(ctx context.Context, snap *entities.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, g.url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("store snapshot: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
