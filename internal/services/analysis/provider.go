package analysis

import (
	"context"
	"fmt"

	"HyperMaker/internal/domain/apperror"
	"HyperMaker/internal/domain/models"
	domsvc "HyperMaker/internal/domain/service"
	applogger "HyperMaker/pkg/logger"
)

// Provider fetches Avellaneda parameters by delegating to agent.market:
// create an instance carrying the snapshot background, poll its transcript
// for the provider's answer, parse it.
type Provider struct {
	client *Client
	logger *applogger.Logger
}

// NewProvider creates an analysis source backed by the given client.
func NewProvider(client *Client, l *applogger.Logger) *Provider {
	return &Provider{client: client, logger: l}
}

// FetchAnalysis runs one full create/poll/parse acquisition.
func (p *Provider) FetchAnalysis(ctx context.Context, snapshots []models.SymbolSnapshot) (*models.AnalysisResult, error) {
	if len(snapshots) == 0 {
		return nil, apperror.ProtocolError("no symbol snapshots available for analysis")
	}

	background, err := BuildBackgroundPrompt(snapshots)
	if err != nil {
		return nil, fmt.Errorf("build analysis prompt: %w", err)
	}

	inst, err := p.client.CreateInstance(ctx, background)
	if err != nil {
		return nil, err
	}
	if inst.ID == "" {
		return nil, apperror.ProtocolError("provider did not return an instance id")
	}

	message, err := p.client.PollProviderMessage(ctx, inst.ID)
	if err != nil {
		return nil, err
	}
	if message == "" {
		return nil, apperror.AcquisitionTimeoutError("timed out waiting for a provider response")
	}

	return ParseAnalysis(message)
}

var _ domsvc.AnalysisSource = (*Provider)(nil)
