package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/yeehaa123/personal-brain-sub000/internal/observability"
	"github.com/yeehaa123/personal-brain-sub000/internal/types"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show per-segment generation progress from the cache",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadPipelineConfig()
	if err != nil {
		return err
	}

	segmentCache, closeCache, err := openCache(ctx)
	if err != nil {
		return err
	}
	defer closeCache()

	// Derive progress from cache contents: a stored segment with quality
	// assessments attached has been through the full review.
	status := make(map[types.SegmentType]types.GenerationStatus, len(cfg.Segments))
	for _, segmentType := range cfg.Segments {
		segment, found, err := segmentCache.Get(ctx, segmentType)
		if err != nil {
			return err
		}
		switch {
		case !found:
			status[segmentType] = types.StatusNotGenerated
		case hasAssessment(segment):
			status[segmentType] = types.StatusAssessed
		default:
			status[segmentType] = types.StatusGenerated
		}
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintStatus(status)
	return nil
}

func hasAssessment(segment *types.Segment) bool {
	for _, section := range segment.Sections {
		if section.Quality != nil {
			return true
		}
	}
	return false
}
