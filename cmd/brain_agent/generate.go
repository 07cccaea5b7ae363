package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yeehaa123/personal-brain-sub000/internal/llm"
	"github.com/yeehaa123/personal-brain-sub000/internal/observability"
	"github.com/yeehaa123/personal-brain-sub000/internal/pipeline"
	"github.com/yeehaa123/personal-brain-sub000/internal/source"
	"github.com/yeehaa123/personal-brain-sub000/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the full generation pipeline and print the document",
	Long:  "Generates all configured segments from the profile (in parallel), runs content improvement and quality assessment, and assembles the final landing page document as JSON.",
	RunE:  runGenerate,
}

var (
	generateProfilePath     string
	generateAPIKey          string
	generateSegments        string
	generateRegenerateAll   bool
	generateSkipImprovement bool
	generateSkipAssessment  bool
	generateTimeout         time.Duration
	generateOut             string
	generateVerbose         bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateProfilePath, "profile", "p", "", "Path to the profile JSON file (required)")
	generateCmd.Flags().StringVar(&generateAPIKey, "api-key", "", "Gemini API key (default: GEMINI_API_KEY env)")
	generateCmd.Flags().StringVar(&generateSegments, "segments", "", "Comma-separated subset of segment types to generate")
	generateCmd.Flags().BoolVar(&generateRegenerateAll, "regenerate-all", false, "Ignore cached segments and regenerate everything")
	generateCmd.Flags().BoolVar(&generateSkipImprovement, "skip-improvement", false, "Skip the content improvement stage")
	generateCmd.Flags().BoolVar(&generateSkipAssessment, "skip-assessment", false, "Skip the quality assessment stage")
	generateCmd.Flags().DurationVar(&generateTimeout, "timeout", 0, "Overall deadline for the run (e.g. 5m)")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "Write the document JSON to a file instead of stdout")
	generateCmd.Flags().BoolVarP(&generateVerbose, "verbose", "v", false, "Print detailed progress information")

	if err := generateCmd.MarkFlagRequired("profile"); err != nil {
		panic(fmt.Sprintf("failed to mark profile flag as required: %v", err))
	}

	rootCmd.AddCommand(generateCmd)
}

// parseSegmentList parses a comma-separated segment type list.
func parseSegmentList(list string) ([]types.SegmentType, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	var out []types.SegmentType
	for _, name := range strings.Split(list, ",") {
		segmentType := types.SegmentType(strings.TrimSpace(name))
		if !types.ValidSegmentType(segmentType) {
			return nil, fmt.Errorf("unknown segment type %q", name)
		}
		out = append(out, segmentType)
	}
	return out, nil
}

func runGenerate(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	apiKey, err := resolveAPIKey(generateAPIKey)
	if err != nil {
		return err
	}

	cfg, err := loadPipelineConfig()
	if err != nil {
		return err
	}

	segments, err := parseSegmentList(generateSegments)
	if err != nil {
		return err
	}

	segmentCache, closeCache, err := openCache(ctx)
	if err != nil {
		return err
	}
	defer closeCache()

	client, err := llm.NewClient(ctx, cfg.LLMConfig(), apiKey)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	provider := source.NewFileProvider(generateProfilePath)
	if generateVerbose {
		if record, err := provider.GetSourceData(ctx); err == nil {
			observability.NewPrinter(os.Stdout).PrintSourceRecord(record)
		}
	}

	orchestrator := pipeline.New(provider, client, segmentCache, cfg)
	orchestrator.Verbose = generateVerbose
	if generateVerbose {
		orchestrator.OnProgress = func(event pipeline.ProgressEvent) {
			if event.Segment != "" {
				fmt.Printf("[%s] %s: %s\n", event.Stage, event.Segment, event.Message)
			} else {
				fmt.Printf("[%s] %s\n", event.Stage, event.Message)
			}
		}
	}

	doc, err := orchestrator.GenerateDocument(ctx, pipeline.GenerateOptions{
		Segments:        segments,
		RegenerateAll:   generateRegenerateAll,
		SkipImprovement: generateSkipImprovement,
		SkipAssessment:  generateSkipAssessment,
		Timeout:         generateTimeout,
	})
	if err != nil {
		return err
	}

	if generateVerbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintDocument(doc)
	}

	return writeDocument(doc, generateOut)
}

// writeDocument marshals the document and writes it to a file or stdout.
func writeDocument(doc *types.Document, outPath string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	if outPath == "" {
		fmt.Println(string(data))
		return nil
	}

	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write document to %s: %w", outPath, err)
	}
	fmt.Printf("Document written to %s\n", outPath)
	return nil
}
