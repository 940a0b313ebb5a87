package processors

import (
	"context"

	"github.com/callmegreg/gh-migrate-settings/internal/types"
)

// RepositoryProcessor defines the interface for processing repositories
type RepositoryProcessor interface {
	ProcessRepository(ctx context.Context, repo string) types.ProcessingResult
}
