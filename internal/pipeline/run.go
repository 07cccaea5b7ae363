// Package pipeline provides the high-level orchestration of the landing
// page generation process: parallel segment generation, the two editorial
// review stages, and final assembly.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yeehaa123/personal-brain-sub000/internal/assembly"
	"github.com/yeehaa123/personal-brain-sub000/internal/assessment"
	"github.com/yeehaa123/personal-brain-sub000/internal/cache"
	"github.com/yeehaa123/personal-brain-sub000/internal/config"
	"github.com/yeehaa123/personal-brain-sub000/internal/generation"
	"github.com/yeehaa123/personal-brain-sub000/internal/improvement"
	"github.com/yeehaa123/personal-brain-sub000/internal/llm"
	"github.com/yeehaa123/personal-brain-sub000/internal/source"
	"github.com/yeehaa123/personal-brain-sub000/internal/types"
)

// ProgressEvent represents a progress update during pipeline execution.
type ProgressEvent struct {
	Stage   string `json:"stage"`
	Segment string `json:"segment,omitempty"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs.
type ProgressCallback func(event ProgressEvent)

// GenerateOptions configures one pipeline run.
type GenerateOptions struct {
	// Segments limits the run to a subset of the configured segment types.
	// Nil means the full configured set.
	Segments []types.SegmentType
	// Regenerate forces regeneration of the listed segment types even when
	// cached entries exist.
	Regenerate []types.SegmentType
	// RegenerateAll forces regeneration of every requested segment.
	RegenerateAll bool
	// SkipImprovement skips the content improvement stage.
	SkipImprovement bool
	// SkipAssessment skips the quality assessment stage.
	SkipAssessment bool
	// Timeout, when positive, bounds the whole run.
	Timeout time.Duration
}

// SegmentFailure records one segment that could not be produced.
type SegmentFailure struct {
	SegmentType types.SegmentType
	Err         error
}

// Error is the structured error a failed run returns. It names the
// required segments that could not be produced.
type Error struct {
	RunID    uuid.UUID
	Stage    string
	Failures []SegmentFailure
}

func (e *Error) Error() string {
	names := make([]string, 0, len(e.Failures))
	for _, failure := range e.Failures {
		names = append(names, string(failure.SegmentType))
	}
	return fmt.Sprintf("pipeline run %s failed during %s: required segment(s) %s could not be produced",
		e.RunID, e.Stage, strings.Join(names, ", "))
}

// Orchestrator drives one segment cache through the full pipeline. It is
// the single writer for that cache; concurrent runs against the same
// cache must be serialized by the caller.
type Orchestrator struct {
	provider source.Provider
	client   llm.Client
	cache    cache.SegmentCache
	cfg      *config.Pipeline

	// Verbose enables step-by-step log output.
	Verbose bool
	// OnProgress, when set, receives progress events.
	OnProgress ProgressCallback

	statusMu sync.Mutex
	status   map[types.SegmentType]types.GenerationStatus
}

// New creates an orchestrator with explicit dependencies. A nil cfg uses
// the default pipeline configuration.
func New(provider source.Provider, client llm.Client, segmentCache cache.SegmentCache, cfg *config.Pipeline) *Orchestrator {
	if cfg == nil {
		cfg = config.Default()
	}
	status := make(map[types.SegmentType]types.GenerationStatus, len(cfg.Segments))
	for _, segmentType := range cfg.Segments {
		status[segmentType] = types.StatusNotGenerated
	}
	return &Orchestrator{
		provider: provider,
		client:   client,
		cache:    segmentCache,
		cfg:      cfg,
		status:   status,
	}
}

// GenerateDocument runs the full pipeline: generate all requested
// segments (in parallel), improve, assess, and assemble. It returns a
// complete document or a structured error naming the required segments
// that could not be produced. Optional-segment failures degrade the
// document instead of failing the run.
func (o *Orchestrator) GenerateDocument(ctx context.Context, opts GenerateOptions) (*types.Document, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	runID := uuid.New()

	record, err := o.provider.GetSourceData(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching source data failed: %w", err)
	}
	o.emit(runID, "source", "", fmt.Sprintf("Loaded source profile for %s", record.Name))

	requested := opts.Segments
	if len(requested) == 0 {
		requested = o.cfg.Segments
	}
	for _, segmentType := range requested {
		if !types.ValidSegmentType(segmentType) {
			return nil, fmt.Errorf("unknown segment type %q requested", segmentType)
		}
	}

	forced := make(map[types.SegmentType]bool, len(opts.Regenerate))
	for _, segmentType := range opts.Regenerate {
		forced[segmentType] = true
	}

	gen := generation.NewGenerator(o.client, o.cache)
	gen.MaxRetries = o.cfg.MaxRetries
	gen.OnStatus = o.advanceStatus

	if o.Verbose {
		fmt.Printf("[VERBOSE] Generating %d segment(s) in parallel...\n", len(requested))
	}

	// Parallel fan-out across segment types; each has its own cache slot
	// and prompt, so generation calls share no mutable state. Failures are
	// collected rather than propagated so one bad segment cannot cancel
	// the others mid-write.
	var (
		mu       sync.Mutex
		segments = make(map[types.SegmentType]*types.Segment, len(requested))
		failures []SegmentFailure
	)
	g, gCtx := errgroup.WithContext(ctx)
	for _, segmentType := range requested {
		segmentType := segmentType
		g.Go(func() error {
			segment, err := gen.Generate(gCtx, record, segmentType, opts.RegenerateAll || forced[segmentType])
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, SegmentFailure{SegmentType: segmentType, Err: err})
				return nil
			}
			segments[segmentType] = segment
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if fatal := o.requiredFailures(failures); len(fatal) > 0 {
		for _, failure := range fatal {
			fmt.Printf("Error: segment %s failed: %v\n", failure.SegmentType, failure.Err)
		}
		return nil, &Error{RunID: runID, Stage: "generation", Failures: fatal}
	}
	for _, failure := range failures {
		fmt.Printf("Warning: optional segment %s failed, continuing with a degraded document: %v\n",
			failure.SegmentType, failure.Err)
		o.emit(runID, "generation", string(failure.SegmentType), fmt.Sprintf("Segment failed: %v", failure.Err))
	}
	for segmentType := range segments {
		o.emit(runID, "generation", string(segmentType), "Segment generated")
	}

	if !opts.SkipImprovement {
		improver := improvement.NewStage(o.client, o.cache)
		improver.OnStatus = o.advanceStatus
		segments = improver.Improve(ctx, record, segments)
		o.emit(runID, "improvement", "", "Content improvement complete")
	}

	if !opts.SkipAssessment {
		assessor := assessment.NewStage(o.client, o.cache, o.cfg.Required, assessment.Thresholds{
			MinCombinedScore: o.cfg.MinCombinedScore,
		})
		assessor.OnStatus = o.advanceStatus
		segments = assessor.Assess(ctx, record, segments)
		o.emit(runID, "assessment", "", "Quality assessment complete")
	}

	doc, err := assembly.Assemble(segments, nil, o.cfg.Required)
	if err != nil {
		return nil, err
	}
	o.emit(runID, "assembly", "", fmt.Sprintf("Assembled document with %d section(s)", len(doc.SectionOrder)))

	return doc, nil
}

// RegenerateSections forces regeneration of the segments owning the
// given sections, reuses the cache for everything else, and re-runs the
// review stages and assembly.
func (o *Orchestrator) RegenerateSections(ctx context.Context, refs []types.SectionRef) (*types.Document, error) {
	if len(refs) == 0 {
		return nil, fmt.Errorf("no sections to regenerate")
	}

	seen := make(map[types.SegmentType]bool, len(refs))
	var regenerate []types.SegmentType
	for _, ref := range refs {
		owner, ok := types.SegmentTypeOf(ref.Section)
		if !ok || owner != ref.SegmentType {
			return nil, fmt.Errorf("invalid section reference %s", ref)
		}
		if !seen[ref.SegmentType] {
			seen[ref.SegmentType] = true
			regenerate = append(regenerate, ref.SegmentType)
		}
	}

	return o.GenerateDocument(ctx, GenerateOptions{Regenerate: regenerate})
}

// GetQualityMetrics returns the quality assessment per section from the
// current cache state. Sections without an assessment are omitted.
func (o *Orchestrator) GetQualityMetrics(ctx context.Context) (map[types.SectionRef]types.QualityAssessment, error) {
	metrics := make(map[types.SectionRef]types.QualityAssessment)

	for _, segmentType := range o.cfg.Segments {
		segment, found, err := o.cache.Get(ctx, segmentType)
		if err != nil {
			return nil, fmt.Errorf("failed to read segment %s: %w", segmentType, err)
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

	return metrics, nil
}

// GetGenerationStatus returns a copy of the per-segment pipeline progress.
func (o *Orchestrator) GetGenerationStatus() map[types.SegmentType]types.GenerationStatus {
	o.statusMu.Lock()
	defer o.statusMu.Unlock()

	out := make(map[types.SegmentType]types.GenerationStatus, len(o.status))
	for segmentType, status := range o.status {
		out[segmentType] = status
	}
	return out
}

// advanceStatus records a status transition, never moving backwards: a
// cache hit reported as Generated must not demote a segment already
// improved or assessed.
func (o *Orchestrator) advanceStatus(segmentType types.SegmentType, status types.GenerationStatus) {
	o.statusMu.Lock()
	defer o.statusMu.Unlock()

	if !o.status[segmentType].AtLeast(status) {
		o.status[segmentType] = status
	}
}

// requiredFailures filters generation failures down to those that doom
// the run: a failed segment that owns at least one required section.
func (o *Orchestrator) requiredFailures(failures []SegmentFailure) []SegmentFailure {
	var fatal []SegmentFailure
	for _, failure := range failures {
		for ref := range o.cfg.Required {
			if ref.SegmentType == failure.SegmentType {
				fatal = append(fatal, failure)
				break
			}
		}
	}
	return fatal
}

// emit calls the progress callback if configured.
func (o *Orchestrator) emit(runID uuid.UUID, stage, segment, message string) {
	if o.OnProgress != nil {
		o.OnProgress(ProgressEvent{
			Stage:   stage,
			Segment: segment,
			Message: message,
			RunID:   runID.String(),
		})
	}
}
