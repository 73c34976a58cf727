package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/baditaflorin/go_number_words/internal/core/domain"
)

// Default settings for the remote oracle.
const (
	DefaultRemoteLabel   = "MONEY"
	DefaultRemoteTimeout = 5 * time.Second
)

// RemoteOptions configures a RemoteOracle.
type RemoteOptions struct {
	URL     string        `mapstructure:"url" yaml:"url"`
	Label   string        `mapstructure:"label" yaml:"label"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// Dial overrides how connections are opened. Tests use it to talk to
	// an in-memory listener.
	Dial fasthttp.DialFunc `mapstructure:"-" yaml:"-"`
}

type remoteRequest struct {
	Text string `json:"text"`
}

type remoteEntity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

type remoteResponse struct {
	Entities []remoteEntity `json:"entities"`
}

// RemoteOracle asks an HTTP entity-recognition service for the entities of
// a text and keeps those carrying the configured label.
type RemoteOracle struct {
	client  *fasthttp.Client
	url     string
	label   string
	timeout time.Duration
}

// NewRemoteOracle creates a remote oracle.
func NewRemoteOracle(opts RemoteOptions) (*RemoteOracle, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("remote oracle: url is required")
	}
	if opts.Label == "" {
		opts.Label = DefaultRemoteLabel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultRemoteTimeout
	}

	client := &fasthttp.Client{
		Name:                "numwords",
		MaxConnsPerHost:     64,
		MaxIdleConnDuration: 30 * time.Second,
		ReadTimeout:         opts.Timeout,
		WriteTimeout:        opts.Timeout,
		Dial:                opts.Dial,
	}

	return &RemoteOracle{
		client:  client,
		url:     opts.URL,
		label:   opts.Label,
		timeout: opts.Timeout,
	}, nil
}

// Recognize implements ports.Oracle. The request honours the earlier of
// the context deadline and the configured timeout.
func (o *RemoteOracle) Recognize(ctx context.Context, text string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewOracleError("remote", err)
	}

	body, err := json.Marshal(remoteRequest{Text: text})
	if err != nil {
		return nil, domain.NewOracleError("remote", err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(o.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	timeout := o.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	if err := o.client.DoTimeout(req, resp, timeout); err != nil {
		return nil, domain.NewOracleError("remote", err)
	}
	if code := resp.StatusCode(); code != fasthttp.StatusOK {
		return nil, domain.NewOracleError("remote", fmt.Errorf("unexpected status %d", code))
	}

	var decoded remoteResponse
	if err := json.Unmarshal(resp.Body(), &decoded); err != nil {
		return nil, domain.NewOracleError("remote", fmt.Errorf("decode response: %w", err))
	}

	var matches []string
	for _, e := range decoded.Entities {
		if e.Label == o.label {
			matches = append(matches, e.Text)
		}
	}
	return matches, nil
}
