package service

import (
	"context"

	"HyperMaker/internal/domain/models"
)

// AnalysisSource produces model parameters for the given market
// snapshots. The orchestrator holds an ordered chain of sources and
// tries them until one succeeds; implementations stay unaware of their
// position in the chain.
type AnalysisSource interface {
	FetchAnalysis(ctx context.Context, snapshots []models.SymbolSnapshot) (*models.AnalysisResult, error)
}
