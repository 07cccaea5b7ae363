package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yeehaa123/personal-brain-sub000/internal/llm"
	"github.com/yeehaa123/personal-brain-sub000/internal/pipeline"
	"github.com/yeehaa123/personal-brain-sub000/internal/source"
	"github.com/yeehaa123/personal-brain-sub000/internal/types"
)

var regenerateCmd = &cobra.Command{
	Use:   "regenerate",
	Short: "Regenerate specific sections and reassemble the document",
	Long:  "Forces regeneration of the segments owning the named sections (e.g. identity/hero), reuses the cache for everything else, and re-runs improvement, assessment, and assembly.",
	RunE:  runRegenerate,
}

var (
	regenerateSections    string
	regenerateProfilePath string
	regenerateAPIKey      string
	regenerateOut         string
)

func init() {
	regenerateCmd.Flags().StringVar(&regenerateSections, "sections", "", "Comma-separated section references, e.g. identity/hero,credibility/faq (required)")
	regenerateCmd.Flags().StringVarP(&regenerateProfilePath, "profile", "p", "", "Path to the profile JSON file (required)")
	regenerateCmd.Flags().StringVar(&regenerateAPIKey, "api-key", "", "Gemini API key (default: GEMINI_API_KEY env)")
	regenerateCmd.Flags().StringVarP(&regenerateOut, "out", "o", "", "Write the document JSON to a file instead of stdout")

	if err := regenerateCmd.MarkFlagRequired("sections"); err != nil {
		panic(fmt.Sprintf("failed to mark sections flag as required: %v", err))
	}
	if err := regenerateCmd.MarkFlagRequired("profile"); err != nil {
		panic(fmt.Sprintf("failed to mark profile flag as required: %v", err))
	}

	rootCmd.AddCommand(regenerateCmd)
}

func runRegenerate(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	apiKey, err := resolveAPIKey(regenerateAPIKey)
	if err != nil {
		return err
	}

	var refs []types.SectionRef
	for _, raw := range strings.Split(regenerateSections, ",") {
		ref, err := types.ParseSectionRef(raw)
		if err != nil {
			return err
		}
		refs = append(refs, ref)
	}

	cfg, err := loadPipelineConfig()
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

	orchestrator := pipeline.New(source.NewFileProvider(regenerateProfilePath), client, segmentCache, cfg)

	doc, err := orchestrator.RegenerateSections(ctx, refs)
	if err != nil {
		return err
	}

	return writeDocument(doc, regenerateOut)
}
