package processors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/pterm/pterm"
	logger "github.com/sirupsen/logrus"

	"github.com/callmegreg/gh-migrate-settings/internal/types"
)

// SequentialProcessor handles sequential repository processing with optional delay
type SequentialProcessor struct {
	repositories []string
	processor    RepositoryProcessor
	delay        time.Duration
	wait         func(ctx context.Context, d time.Duration) error
	progressBar  *pterm.ProgressbarPrinter
	successCount int
	skippedCount int
	errorCount   int
}

// NewSequentialProcessor creates a new sequential processor with a delay in
// seconds between repositories
func NewSequentialProcessor(repositories []string, processor RepositoryProcessor, delay int) *SequentialProcessor {
	return &SequentialProcessor{
		repositories: repositories,
		processor:    processor,
		delay:        time.Duration(delay) * time.Second,
		wait:         sleep,
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Process runs the processor over every repository in order. Processing stops
// early when the context is cancelled or the credentials are rejected; the
// remaining repositories are counted as skipped.
func (sp *SequentialProcessor) Process(ctx context.Context) (successCount, skippedCount, errorCount int) {
	total := len(sp.repositories)
	if total == 0 {
		return 0, 0, 0
	}

	progressBar, _ := pterm.DefaultProgressbar.WithTotal(total).WithTitle("Processing repositories").Start()
	sp.progressBar = progressBar

	for i, repo := range sp.repositories {
		if i > 0 && sp.delay > 0 {
			spinner, _ := pterm.DefaultSpinner.WithText(fmt.Sprintf("Waiting %s before processing next repository...", sp.delay)).Start()
			if err := sp.wait(ctx, sp.delay); err != nil {
				spinner.Fail("Processing interrupted")
				sp.stop(total - i)
				return sp.successCount, sp.skippedCount, sp.errorCount
			}
			spinner.Success("Ready to process next repository")
		}

		sp.progressBar.UpdateTitle(fmt.Sprintf("Processing %s", repo))
		logger.Debugf("Processing repository %s", repo)

		result := sp.processor.ProcessRepository(ctx, repo)
		switch {
		case result.Success:
			sp.successCount++
			pterm.Success.Printf("Successfully processed repository '%s' (%d changes)\n", result.Repository, result.Changes)
		case result.Skipped:
			sp.skippedCount++
		case result.Error != nil:
			var apiErr *types.APIError
			if errors.As(result.Error, &apiErr) && apiErr.Code == http.StatusNotFound {
				sp.skippedCount++
				pterm.Warning.Printf("Repository '%s' not found, skipping\n", result.Repository)
				break
			}

			sp.errorCount++
			pterm.Error.Printf("Failed to process repository '%s': %v\n", result.Repository, result.Error)
			if errors.As(result.Error, &apiErr) && apiErr.Code == http.StatusUnauthorized {
				pterm.Error.Println("Stopping processing of remaining repositories: the token was rejected.")
				sp.progressBar.Increment()
				sp.stop(total - (i + 1))
				return sp.successCount, sp.skippedCount, sp.errorCount
			}
		}

		sp.progressBar.Increment()
	}

	progressBar.Stop()
	return sp.successCount, sp.skippedCount, sp.errorCount
}

// stop counts the remaining repositories as skipped and closes the progress bar
func (sp *SequentialProcessor) stop(remaining int) {
	sp.skippedCount += remaining
	sp.progressBar.Add(remaining)
	sp.progressBar.Stop()
}
