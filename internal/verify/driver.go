package verify

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/placelink-cli/internal/config"
	"github.com/sells-group/placelink-cli/internal/match"
	"github.com/sells-group/placelink-cli/internal/model"
	"github.com/sells-group/placelink-cli/pkg/places"
)

// Options are the per-invocation file paths and flags for a run.
type Options struct {
	InputPath    string
	OutputPath   string
	ProgressPath string
	Resume       bool
}

// Summary is the final tally of a run.
type Summary struct {
	RunID    string
	Total    int
	Verified int
	NotFound int
	Errors   int
	Skipped  int
	Duration time.Duration
}

// Runner drives the pipeline: one logical worker walking the valid input in
// ascending index order, checkpointing progress and output as it goes.
// Strict sequencing is required; resumability depends on the processed
// index advancing monotonically.
type Runner struct {
	searcher *Searcher
	fetcher  *Fetcher
	merger   Merger
	policy   match.Policy
	limiter  *rate.Limiter

	checkpointEvery int
	opts            Options
}

// NewRunner wires a Runner from configuration and a directory client.
func NewRunner(cfg *config.Config, client places.Client, opts Options) *Runner {
	policy := match.Policy{
		VeryCloseKm:    cfg.Match.VeryCloseM / 1000,
		CloseKm:        cfg.Match.CloseM / 1000,
		FarKm:          cfg.Match.FarM / 1000,
		LowSimilarity:  cfg.Match.LowSimilarity,
		HighSimilarity: cfg.Match.HighSimilarity,
		DistanceWeight: cfg.Match.DistanceWeight,
		NameWeight:     cfg.Match.NameWeight,
	}
	cooldown := time.Duration(cfg.Verify.CooldownSecs) * time.Second
	delay := time.Duration(cfg.Verify.RequestDelayMs) * time.Millisecond

	return &Runner{
		searcher: NewSearcher(client, policy, cfg.Verify.RadiiM, cfg.Verify.TextBiasRadiusM, cooldown),
		fetcher:  NewFetcher(client, cooldown),
		merger: Merger{
			MaxImages:         cfg.Verify.MaxImages,
			PhotoWidthPx:      cfg.Verify.PhotoWidthPx,
			MinDescriptionLen: cfg.Verify.MinDescriptionLen,
		},
		policy:          policy,
		limiter:         rate.NewLimiter(rate.Every(delay), 1),
		checkpointEvery: cfg.Verify.CheckpointEvery,
		opts:            opts,
	}
}

// Run executes the verification pipeline: load input, resume or start fresh,
// process each record behind a per-record error boundary, checkpoint every N
// records, and flush at the end. Only input loading and persistence failures
// are fatal.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	raw, err := LoadRecords(r.opts.InputPath)
	if err != nil {
		return nil, err
	}
	valid, skips := FilterValid(raw)

	var st *model.ProgressState
	var out []model.VerifiedRecord

	if r.opts.Resume {
		st, out, err = loadCheckpoint(r.opts.OutputPath, r.opts.ProgressPath)
		if err != nil {
			return nil, err
		}
		if st.Total != len(valid) {
			return nil, eris.Errorf(
				"resume: input has %d valid records but saved progress expects %d; refusing to continue",
				len(valid), st.Total)
		}
	} else {
		st = NewProgress(len(valid), skips.Total())
	}

	log := zap.L().With(zap.String("run_id", st.RunID))
	log.Info("verification run starting",
		zap.Int("input_records", len(raw)),
		zap.Int("valid", len(valid)),
		zap.Int("skipped_by_filter", skips.Total()),
		zap.Int("start_index", st.LastProcessedIndex+1),
		zap.Bool("resume", r.opts.Resume),
	)

	start := time.Now()

	for i := st.LastProcessedIndex + 1; i < len(valid); i++ {
		if err := r.limiter.Wait(ctx); err != nil {
			// Interrupted: checkpoint what we have so the run can resume.
			if flushErr := r.flush(out, st); flushErr != nil {
				return nil, flushErr
			}
			return nil, eris.Wrap(err, "run interrupted")
		}

		vr := r.processRecord(ctx, valid[i])
		out = append(out, vr)
		st.Count(vr.Status, i)

		log.Info("record processed",
			zap.Int("index", i),
			zap.String("record_id", vr.ID),
			zap.String("status", string(vr.Status)),
			zap.String("progress", fmt.Sprintf("%.1f%%", st.Percent())),
			zap.String("note", vr.Note),
		)

		if st.Processed%r.checkpointEvery == 0 {
			if err := r.flush(out, st); err != nil {
				return nil, err
			}
			log.Debug("checkpoint written", zap.Int("processed", st.Processed))
		}
	}

	if err := r.flush(out, st); err != nil {
		return nil, err
	}

	summary := &Summary{
		RunID:    st.RunID,
		Total:    st.Total,
		Verified: st.Verified,
		NotFound: st.NotFound,
		Errors:   st.Errors,
		Skipped:  st.Skipped,
		Duration: time.Since(start),
	}
	log.Info("verification run complete",
		zap.Int("total", summary.Total),
		zap.Int("verified", summary.Verified),
		zap.Int("not_found", summary.NotFound),
		zap.Int("errors", summary.Errors),
		zap.Int("skipped", summary.Skipped),
		zap.Duration("duration", summary.Duration),
	)
	return summary, nil
}

// processRecord runs search, enrichment, adjudication, and merge for one
// record behind an error boundary: any failure or panic demotes the record
// to status error, never the run.
func (r *Runner) processRecord(ctx context.Context, rec model.LocalRecord) (vr model.VerifiedRecord) {
	defer func() {
		if p := recover(); p != nil {
			vr = Failed(rec, eris.Errorf("panic: %v", p))
		}
	}()

	best, err := r.searcher.Best(ctx, rec)
	if err != nil {
		return Failed(rec, err)
	}
	if best == nil {
		return Reject(rec, "no acceptable candidate within search radius")
	}

	enriched := r.fetcher.Enrich(ctx, best.Candidate)

	// Re-adjudicate the enriched candidate: detail data can shift the
	// location or name, and the final merge must still pass the policy.
	final := r.policy.Evaluate(rec.Lat, rec.Lng, rec.Name, enriched)
	if !r.policy.Accept(final.DistanceKm, final.NameSimilarity) {
		return Reject(rec, fmt.Sprintf(
			"best candidate %q rejected: name similarity %.0f%%, distance %.0f m",
			enriched.Name, final.NameSimilarity*100, final.DistanceKm*1000))
	}

	return r.merger.Merge(rec, final)
}

// flush persists output before progress. Ordering matters: a crash between
// the two writes leaves the output ahead of the progress state, which resume
// repairs by truncation; the reverse order could claim records that were
// never durably written.
func (r *Runner) flush(out []model.VerifiedRecord, st *model.ProgressState) error {
	if err := SaveOutput(r.opts.OutputPath, out); err != nil {
		return err
	}
	return SaveProgress(r.opts.ProgressPath, st)
}
