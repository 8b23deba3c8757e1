package analysis

import (
	"strings"

	"HyperMaker/internal/domain/apperror"
	domsvc "HyperMaker/internal/domain/service"
	pkghttp "HyperMaker/pkg/http"
	applogger "HyperMaker/pkg/logger"
)

// BuildSources validates the provider mode and assembles the acquisition
// chain the orchestrator walks in order. Only "auto" and "agent" are
// accepted; both resolve to agent.market now that the plain-HTTP fallback
// mode is gone.
func BuildSources(mode string, settings Settings, httpc *pkghttp.Client, l *applogger.Logger) ([]domsvc.AnalysisSource, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "auto", "agent":
	default:
		return nil, apperror.ConfigurationErrorf(
			"invalid analysis provider mode %q: the HTTP /analysis fallback has been removed, configure agent.market", mode)
	}

	client, err := NewClient(settings, httpc, l)
	if err != nil {
		return nil, apperror.ConfigurationError(
			"an agent.market api key must be set to run the analysis now that the HTTP fallback is gone").WithError(err)
	}
	return []domsvc.AnalysisSource{NewProvider(client, l)}, nil
}
