package analyzer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// Client calls the optional remote column-analysis service. Every failure
// mode here is recoverable: the caller always has the local analyzer.
type Client struct {
	url    string
	client *http.Client
}

// NewClient builds a remote analyzer client. An empty URL disables it.
func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{url: url, client: &http.Client{Timeout: timeout}}
}

type remoteRequest struct {
	Content    string `json:"content"`
	SampleSize int    `json:"sampleSize"`
}

// Analyze posts the statement content and decodes the returned analysis.
// Transport errors, non-2xx responses and malformed payloads all return an
// error.
func (c *Client) Analyze(content string, sampleSize int) (*CSVAnalysis, error) {
	body, err := json.Marshal(remoteRequest{Content: content, SampleSize: sampleSize})
	if err != nil {
		return nil, fmt.Errorf("encoding analyzer request: %w", err)
	}

	resp, err := c.client.Post(c.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("analyzer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("analyzer returned status %d", resp.StatusCode)
	}

	var analysis CSVAnalysis
	if err := json.NewDecoder(resp.Body).Decode(&analysis); err != nil {
		return nil, fmt.Errorf("decoding analyzer response: %w", err)
	}
	if err := validate(&analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

func validate(a *CSVAnalysis) error {
	if len(a.Separator) == 0 {
		return fmt.Errorf("analyzer response missing separator")
	}
	for _, m := range a.Mappings {
		if m.Index < 0 {
			return fmt.Errorf("analyzer response has negative column index %d", m.Index)
		}
		if !knownFields[m.Field] {
			return fmt.Errorf("analyzer response has unknown field %q", m.Field)
		}
	}
	return nil
}

// Analyzer combines the optional remote client with the local fallback.
// Any remote error falls through to the deterministic local path and is
// never surfaced to the caller.
type Analyzer struct {
	remote *Client
	logger *log.Logger
}

// New builds an Analyzer. remote may be nil.
func New(remote *Client, logger *log.Logger) *Analyzer {
	return &Analyzer{remote: remote, logger: logger}
}

// Analyze returns the column analysis for content, remote first when
// configured, local otherwise.
func (a *Analyzer) Analyze(content string, sampleSize int) *CSVAnalysis {
	if a.remote != nil {
		analysis, err := a.remote.Analyze(content, sampleSize)
		if err == nil {
			a.logger.Debug("using remote column analysis")
			return analysis
		}
		a.logger.Debug("remote analyzer unavailable, falling back to local analysis", "error", err)
	}
	return AnalyzeLocal(content, sampleSize)
}
