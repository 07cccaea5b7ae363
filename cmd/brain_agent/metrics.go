package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/yeehaa123/personal-brain-sub000/internal/observability"
	"github.com/yeehaa123/personal-brain-sub000/internal/types"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show per-section quality metrics from the cache",
	RunE:  runMetrics,
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}

func runMetrics(_ *cobra.Command, _ []string) error {
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

	metrics := make(map[types.SectionRef]types.QualityAssessment)
	for _, segmentType := range cfg.Segments {
		segment, found, err := segmentCache.Get(ctx, segmentType)
		if err != nil {
			return err
		}
		if !found {
			continue
		}
		for name, section := range segment.Sections {
			if section.Quality == nil {
				continue
			}
			metrics[types.SectionRef{SegmentType: segmentType, Section: name}] = *section.Quality
		}
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintQualityMetrics(metrics)
	return nil
}
