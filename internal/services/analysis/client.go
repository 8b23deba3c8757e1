package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"HyperMaker/internal/domain/apperror"
	svcmetrics "HyperMaker/internal/service/metrics"
	pkghttp "HyperMaker/pkg/http"
	applogger "HyperMaker/pkg/logger"
)

// Settings mirror the instance-creation payload of the agent.market API.
// Timeout and interval fields are integer seconds, matching the wire
// contract.
type Settings struct {
	BaseURL          string
	APIKey           string
	MaxCredit        float64
	InstanceTimeout  int
	RewardTimeout    int
	PollInterval     int
	MaxPolls         int
	PercentageReward float64
	SideEffectFree   bool
	MaxProviders     int
	ContestMode      bool
}

// Instance is the provider-side handle created for one analysis request.
type Instance struct {
	ID string `json:"id"`
}

// ChatMessage is one transcript entry of a provider instance.
type ChatMessage struct {
	Sender    string `json:"sender"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Client wraps the agent.market REST API.
type Client struct {
	settings Settings
	base     string
	httpc    *pkghttp.Client
	logger   *applogger.Logger
}

// NewClient creates an agent.market client.
func NewClient(settings Settings, httpc *pkghttp.Client, l *applogger.Logger) (*Client, error) {
	if settings.APIKey == "" {
		return nil, apperror.ConfigurationError("agent.market api key is required")
	}
	svcmetrics.Register()
	return &Client{
		settings: settings,
		base:     strings.TrimRight(settings.BaseURL, "/"),
		httpc:    httpc,
		logger:   l,
	}, nil
}

type createInstanceRequest struct {
	Background           string  `json:"background"`
	MaxCreditPerInstance float64 `json:"max_credit_per_instance"`
	InstanceTimeout      int     `json:"instance_timeout"`
	GenRewardTimeout     int     `json:"gen_reward_timeout"`
	PercentageReward     float64 `json:"percentage_reward"`
	SideEffectFree       bool    `json:"side_effect_free"`
	MaxProviders         int     `json:"max_providers"`
	ContestMode          bool    `json:"contest_mode"`
}

// CreateInstance submits the background prompt and returns the created
// instance handle.
func (c *Client) CreateInstance(ctx context.Context, background string) (*Instance, error) {
	start := time.Now()
	payload := createInstanceRequest{
		Background:           background,
		MaxCreditPerInstance: c.settings.MaxCredit,
		InstanceTimeout:      c.settings.InstanceTimeout,
		GenRewardTimeout:     c.settings.RewardTimeout,
		PercentageReward:     c.settings.PercentageReward,
		SideEffectFree:       c.settings.SideEffectFree,
		MaxProviders:         c.settings.MaxProviders,
		ContestMode:          c.settings.ContestMode,
	}

	var inst Instance
	err := c.httpc.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodPost,
		URL:    c.base + "/v1/instances",
		Headers: map[string]string{
			"Content-Type": "application/json",
			"x-api-key":    c.settings.APIKey,
		},
		Body: payload,
	}, &inst)
	svcmetrics.AnalysisLatency.WithLabelValues("create_instance").Observe(time.Since(start).Seconds())
	if err != nil {
		svcmetrics.AnalysisErrors.WithLabelValues("create_instance").Inc()
		return nil, apperror.TransportError("create analysis instance").WithError(err)
	}

	c.logger.Info("created analysis instance", applogger.String("instance_id", inst.ID))
	return &inst, nil
}

// FetchChatMessages returns the instance transcript. A payload that is
// valid JSON but not a list is a protocol violation; everything else that
// can go wrong is transport-level and retriable by the poll loop.
func (c *Client) FetchChatMessages(ctx context.Context, instanceID string) ([]ChatMessage, error) {
	start := time.Now()
	resp, err := c.httpc.SendRequest(ctx, &pkghttp.RequestOptions{
		Method:  pkghttp.MethodGet,
		URL:     c.base + "/v1/chat/" + instanceID,
		Headers: map[string]string{"x-api-key": c.settings.APIKey},
	})
	if err != nil {
		svcmetrics.AnalysisErrors.WithLabelValues("chat").Inc()
		return nil, apperror.TransportError("fetch chat messages").WithError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	svcmetrics.AnalysisLatency.WithLabelValues("chat").Observe(time.Since(start).Seconds())
	if err != nil {
		svcmetrics.AnalysisErrors.WithLabelValues("chat").Inc()
		return nil, apperror.TransportError("read chat response").WithError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		svcmetrics.AnalysisErrors.WithLabelValues("chat").Inc()
		return nil, apperror.TransportErrorf("chat status %d: %s", resp.StatusCode, body)
	}

	var messages []ChatMessage
	if err := json.Unmarshal(body, &messages); err != nil {
		svcmetrics.AnalysisErrors.WithLabelValues("chat").Inc()
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, apperror.ProtocolErrorf("unexpected chat payload for %s", instanceID).WithError(err)
		}
		return nil, apperror.TransportError("decode chat response").WithError(err)
	}
	return messages, nil
}

// PollProviderMessage polls the transcript until a provider-authored
// message with content appears, sleeping PollInterval between attempts but
// not before the first. Transport errors during a round are logged and
// count as an empty round. Returns "" once MaxPolls rounds are exhausted.
func (c *Client) PollProviderMessage(ctx context.Context, instanceID string) (string, error) {
	for attempt := 0; attempt < c.settings.MaxPolls; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(c.settings.PollInterval) * time.Second):
			}
		}

		messages, err := c.FetchChatMessages(ctx, instanceID)
		if err != nil {
			if apperror.IsKind(err, apperror.KindTransport) {
				c.logger.Warn("poll attempt failed",
					applogger.Int("attempt", attempt+1),
					applogger.Error(err))
				continue
			}
			return "", err
		}

		best, bestTS := "", ""
		found := false
		for _, msg := range messages {
			if msg.Sender != "provider" || msg.Message == "" {
				continue
			}
			// ties keep the earliest-listed message, like a stable sort
			if !found || msg.Timestamp > bestTS {
				best, bestTS = msg.Message, msg.Timestamp
				found = true
			}
		}
		if found {
			svcmetrics.AnalysisPollAttempts.Observe(float64(attempt + 1))
			c.logger.Info("received provider response",
				applogger.String("instance_id", instanceID),
				applogger.Int("attempt", attempt+1))
			return best, nil
		}
	}

	svcmetrics.AnalysisPollAttempts.Observe(float64(c.settings.MaxPolls))
	return "", nil
}
