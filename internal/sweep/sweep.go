package sweep

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"dupesweep/internal/config"
	"dupesweep/internal/immich"
	"dupesweep/internal/journal"
	"dupesweep/internal/logging"
	"dupesweep/internal/msg"
	"dupesweep/internal/ranking"
	"dupesweep/internal/transfer"
)

// ErrRunInProgress is returned when another sweep holds the run lock.
var ErrRunInProgress = errors.New("another dupesweep run is already in progress")

// Source delivers the server's duplicate groups, read-only, once per run.
type Source interface {
	FetchDuplicateGroups(ctx context.Context) ([]immich.DuplicateGroup, error)
}

// Enricher loads album and tag memberships for group members. Only used
// when metadata transfer is enabled.
type Enricher interface {
	FetchAssetAlbums(ctx context.Context, assetID string) ([]immich.Album, error)
	FetchAssetTags(ctx context.Context, assetID string) ([]immich.Tag, error)
}

// Mutator is the asset mutation surface. With dry run enabled it is never
// invoked.
type Mutator interface {
	UpdateAsset(ctx context.Context, assetID string, patch immich.AssetPatch) error
	ClearAssetMetadata(ctx context.Context, assetID string) error
	AddToAlbum(ctx context.Context, albumID, assetID string) error
	TagAssets(ctx context.Context, tagID string, assetIDs []string) error
	DeleteAssets(ctx context.Context, ids []string, force bool) error
}

// Service bundles everything the runner needs from the server.
// *immich.Client satisfies it.
type Service interface {
	Source
	Enricher
	Mutator
}

// Prompter asks the operator to confirm one group's mutation.
type Prompter interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Recorder persists the run journal. A nil recorder disables journaling;
// journal errors are logged and never abort the run.
type Recorder interface {
	BeginRun(ctx context.Context, run journal.Run) error
	RecordGroup(ctx context.Context, rec journal.GroupRecord) error
	FinishRun(ctx context.Context, runID string, summary journal.Summary) error
}

// Options are the runner's knobs, derived from configuration.
type Options struct {
	ServerURL          string
	DryRun             bool
	Permanent          bool
	PairsOnly          bool
	Confirm            bool
	TransferMetadata   bool
	KeepWinnerMetadata bool
	PreferredFormat    string
	BatchSize          int
	LockPath           string
}

// OptionsFromConfig maps the configuration onto runner options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ServerURL:          cfg.Server.URL,
		DryRun:             cfg.Deletion.DryRun,
		Permanent:          cfg.Deletion.Permanent,
		PairsOnly:          cfg.Policy.PairsOnly,
		Confirm:            cfg.Policy.Confirm,
		TransferMetadata:   cfg.Policy.TransferMetadata,
		KeepWinnerMetadata: cfg.Policy.KeepWinnerMetadata,
		PreferredFormat:    cfg.Policy.PreferredFormat,
		BatchSize:          cfg.Deletion.BatchSize,
	}
}

// Summary is the outcome of one run.
type Summary struct {
	RunID           string
	DryRun          bool
	GroupsTotal     int
	GroupsProcessed int
	GroupsSkipped   int
	GroupsDeclined  int
	GroupsFailed    int
	AssetsQueued    int
	AssetsDeleted   int
	BytesReclaimed  int64
	DeletionCalls   int
	Errors          int
}

// Runner drives one sweep: filter, select, confirm, transfer, and batched
// deletion, strictly sequentially — one group is fully resolved before the
// next begins.
type Runner struct {
	opts     Options
	service  Service
	prompter Prompter
	recorder Recorder
	catalog  *msg.Catalog
	logger   *slog.Logger
	out      io.Writer
}

// New constructs a runner. prompter may be nil when confirm mode is off and
// recorder may be nil to disable journaling.
func New(opts Options, service Service, prompter Prompter, recorder Recorder, catalog *msg.Catalog, logger *slog.Logger, out io.Writer) *Runner {
	if catalog == nil {
		catalog = msg.New("en")
	}
	if out == nil {
		out = os.Stdout
	}
	return &Runner{
		opts:     opts,
		service:  service,
		prompter: prompter,
		recorder: recorder,
		catalog:  catalog,
		logger:   logging.NewComponentLogger(logger, "sweep"),
		out:      out,
	}
}

// Run executes one sweep. Only fetch and lock failures abort the run;
// per-group and per-batch failures are contained, logged, and reflected in
// the summary.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	summary := Summary{RunID: uuid.NewString(), DryRun: r.opts.DryRun}

	if r.opts.LockPath != "" {
		lock := flock.New(r.opts.LockPath)
		acquired, err := lock.TryLock()
		if err != nil {
			return summary, fmt.Errorf("acquire run lock: %w", err)
		}
		if !acquired {
			return summary, ErrRunInProgress
		}
		defer func() { _ = lock.Unlock() }()
	}

	groups, err := r.service.FetchDuplicateGroups(ctx)
	if err != nil {
		return summary, err
	}
	summary.GroupsTotal = len(groups)

	r.beginJournal(ctx, summary.RunID)

	if len(groups) == 0 {
		fmt.Fprintln(r.out, r.catalog.Sprintf(msg.KeyNoDuplicates))
		r.finishJournal(ctx, summary)
		return summary, nil
	}
	fmt.Fprintln(r.out, r.catalog.Sprintf(msg.KeyGroupsFound, len(groups)))

	filter := ranking.Filter{PairsOnly: r.opts.PairsOnly}
	selector := ranking.Selector{PreferredFormat: r.opts.PreferredFormat}
	batch := NewDeletionBatch(r.opts.BatchSize)

	for i, group := range groups {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		seq := i + 1
		r.processGroup(ctx, seq, group, filter, selector, batch, &summary)
	}

	r.flush(ctx, batch, &summary)

	if r.opts.DryRun {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, r.catalog.Sprintf(msg.KeyDryRunNotice))
	}
	fmt.Fprintln(r.out, r.catalog.Sprintf(msg.KeyRunSummary,
		summary.GroupsProcessed, summary.GroupsSkipped+summary.GroupsDeclined, summary.AssetsDeleted, summary.Errors))
	if summary.BytesReclaimed > 0 {
		fmt.Fprintln(r.out, r.catalog.Sprintf(msg.KeyBytesReclaimed, formatMB(summary.BytesReclaimed)))
	}

	r.finishJournal(ctx, summary)
	return summary, nil
}

func (r *Runner) processGroup(ctx context.Context, seq int, group immich.DuplicateGroup, filter ranking.Filter, selector ranking.Selector, batch *DeletionBatch, summary *Summary) {
	if !filter.Admit(group) {
		fmt.Fprintln(r.out, r.catalog.Sprintf(msg.KeySkippedPairs, seq, len(group.Assets)))
		r.logger.Info("group skipped",
			logging.Int("seq", seq),
			logging.Int("members", len(group.Assets)),
			logging.String("cause", "pairs_only"))
		r.recordGroup(ctx, journal.GroupRecord{
			Seq: seq, DuplicateID: group.DuplicateID,
			State: string(StateSkipped), Error: "pairs-only mode",
		}, summary)
		summary.GroupsSkipped++
		return
	}

	decision, err := selector.Select(group)
	if err != nil {
		// A well-behaved server never sends groups this small.
		r.logger.Warn("group skipped",
			logging.Int("seq", seq),
			logging.String("duplicate_id", group.DuplicateID),
			logging.Error(err))
		r.recordGroup(ctx, journal.GroupRecord{
			Seq: seq, DuplicateID: group.DuplicateID,
			State: string(StateSkipped), Error: err.Error(),
		}, summary)
		summary.GroupsSkipped++
		return
	}

	r.printDecision(seq, group, decision)

	if r.opts.Confirm {
		prompt := r.catalog.Sprintf(msg.KeyConfirmPrompt, decision.Winner.OriginalFileName, len(decision.Losers))
		affirmed := false
		if r.prompter != nil {
			var promptErr error
			affirmed, promptErr = r.prompter.Confirm(ctx, prompt)
			if promptErr != nil {
				r.logger.Warn("confirmation failed, treating as decline", logging.Int("seq", seq), logging.Error(promptErr))
				affirmed = false
			}
		}
		if !affirmed {
			fmt.Fprintln(r.out, r.catalog.Sprintf(msg.KeyDeclined, seq))
			r.recordGroup(ctx, journal.GroupRecord{
				Seq: seq, DuplicateID: group.DuplicateID,
				WinnerID: decision.Winner.ID, LoserIDs: assetIDs(decision.Losers),
				Reason: string(decision.Reason),
				State:  string(StateSkipped), Error: "declined by operator",
			}, summary)
			summary.GroupsDeclined++
			return
		}
	}

	var plan transfer.Plan
	if r.opts.TransferMetadata {
		enriched, err := r.enrich(ctx, decision)
		if err != nil {
			r.failTransfer(ctx, seq, group, decision, err, summary)
			return
		}
		decision = enriched
		plan = r.planTransfer(decision)
		r.printPlan(seq, decision.Winner, plan)
	}

	if r.opts.DryRun {
		r.recordGroup(ctx, journal.GroupRecord{
			Seq: seq, DuplicateID: group.DuplicateID,
			WinnerID: decision.Winner.ID, LoserIDs: assetIDs(decision.Losers),
			Reason: string(decision.Reason), State: string(StateLoggedOnly),
		}, summary)
		summary.GroupsProcessed++
		r.queueLosers(ctx, decision, batch, summary)
		return
	}

	if r.opts.TransferMetadata {
		if err := r.applyTransfer(ctx, decision.Winner.ID, plan); err != nil {
			r.failTransfer(ctx, seq, group, decision, err, summary)
			return
		}
	}

	r.recordGroup(ctx, journal.GroupRecord{
		Seq: seq, DuplicateID: group.DuplicateID,
		WinnerID: decision.Winner.ID, LoserIDs: assetIDs(decision.Losers),
		Reason: string(decision.Reason), State: string(StateApplied),
	}, summary)
	summary.GroupsProcessed++
	r.queueLosers(ctx, decision, batch, summary)
}

// planTransfer computes the migration plan for an enriched decision. When
// the winner's own metadata is not kept, the plan is computed as if the
// planner-managed fields were already cleared, so loser values can fill them.
func (r *Runner) planTransfer(decision ranking.Decision) transfer.Plan {
	if !r.opts.KeepWinnerMetadata {
		decision.Winner.ExifInfo.Latitude = nil
		decision.Winner.ExifInfo.Longitude = nil
		decision.Winner.ExifInfo.DateTimeOriginal = nil
	}
	return transfer.Compute(decision)
}

// printPlan reports the planned metadata migration before anything is
// applied, so a dry run shows the transfer side of the group as well.
func (r *Runner) printPlan(seq int, winner immich.Asset, plan transfer.Plan) {
	if plan.IsZero() {
		return
	}

	location := "-"
	if plan.Patch.Latitude != nil && plan.Patch.Longitude != nil {
		location = fmt.Sprintf("%.5f, %.5f", *plan.Patch.Latitude, *plan.Patch.Longitude)
	}
	date := "-"
	if plan.Patch.DateTimeOriginal != nil {
		date = *plan.Patch.DateTimeOriginal
	}
	fmt.Fprintln(r.out, r.catalog.Sprintf(msg.KeyTransferLine,
		len(plan.AlbumIDs), len(plan.TagIDs), location, date, winner.OriginalFileName))

	r.logger.Info("transfer planned",
		logging.Int("seq", seq),
		logging.String("winner", winner.ID),
		logging.Any("albums", plan.AlbumIDs),
		logging.Any("tags", plan.TagIDs),
		logging.Bool("location", plan.Patch.Latitude != nil),
		logging.Bool("capture_date", plan.Patch.DateTimeOriginal != nil))
}

// applyTransfer executes a previously reported plan against the winner.
func (r *Runner) applyTransfer(ctx context.Context, winnerID string, plan transfer.Plan) error {
	if !r.opts.KeepWinnerMetadata {
		if err := r.service.ClearAssetMetadata(ctx, winnerID); err != nil {
			return err
		}
	}
	if plan.IsZero() {
		return nil
	}

	for _, albumID := range plan.AlbumIDs {
		if err := r.service.AddToAlbum(ctx, albumID, winnerID); err != nil {
			return err
		}
	}
	for _, tagID := range plan.TagIDs {
		if err := r.service.TagAssets(ctx, tagID, []string{winnerID}); err != nil {
			return err
		}
	}
	return r.service.UpdateAsset(ctx, winnerID, plan.Patch)
}

func (r *Runner) failTransfer(ctx context.Context, seq int, group immich.DuplicateGroup, decision ranking.Decision, cause error, summary *Summary) {
	terr := &TransferError{Seq: seq, WinnerID: decision.Winner.ID, Err: cause}
	r.logger.Error("metadata transfer failed, losers excluded from deletion",
		logging.Int("seq", seq),
		logging.String("winner", decision.Winner.ID),
		logging.Any("losers", assetIDs(decision.Losers)),
		logging.Error(terr))
	r.recordGroup(ctx, journal.GroupRecord{
		Seq: seq, DuplicateID: group.DuplicateID,
		WinnerID: decision.Winner.ID, LoserIDs: assetIDs(decision.Losers),
		Reason: string(decision.Reason),
		State:  string(StateTransferFailed), Error: terr.Error(),
	}, summary)
	summary.GroupsFailed++
	summary.Errors++
}

func (r *Runner) queueLosers(ctx context.Context, decision ranking.Decision, batch *DeletionBatch, summary *Summary) {
	for _, loser := range decision.Losers {
		batch.Append(loser)
		summary.AssetsQueued++
		if batch.Full() {
			r.flush(ctx, batch, summary)
		}
	}
}

func (r *Runner) flush(ctx context.Context, batch *DeletionBatch, summary *Summary) {
	ids, bytes := batch.Drain()
	if len(ids) == 0 {
		return
	}
	summary.DeletionCalls++

	if r.opts.DryRun {
		r.logger.Info("dry run, skipping deletion request",
			logging.Int("count", len(ids)),
			logging.Bool("permanent", r.opts.Permanent))
		return
	}

	if err := r.service.DeleteAssets(ctx, ids, r.opts.Permanent); err != nil {
		derr := &DeletionError{IDs: ids, Err: err}
		r.logger.Error("batch deletion failed",
			logging.Int("count", len(ids)),
			logging.Any("ids", ids),
			logging.Error(derr))
		summary.Errors++
		return
	}
	summary.AssetsDeleted += len(ids)
	summary.BytesReclaimed += bytes
}

func (r *Runner) enrich(ctx context.Context, decision ranking.Decision) (ranking.Decision, error) {
	winner, err := r.enrichAsset(ctx, decision.Winner)
	if err != nil {
		return decision, err
	}
	losers := make([]immich.Asset, len(decision.Losers))
	for i, loser := range decision.Losers {
		enriched, err := r.enrichAsset(ctx, loser)
		if err != nil {
			return decision, err
		}
		losers[i] = enriched
	}
	decision.Winner = winner
	decision.Losers = losers
	return decision, nil
}

func (r *Runner) enrichAsset(ctx context.Context, asset immich.Asset) (immich.Asset, error) {
	albums, err := r.service.FetchAssetAlbums(ctx, asset.ID)
	if err != nil {
		return asset, err
	}
	asset.AlbumIDs = make([]string, 0, len(albums))
	for _, album := range albums {
		asset.AlbumIDs = append(asset.AlbumIDs, album.ID)
	}

	tags, err := r.service.FetchAssetTags(ctx, asset.ID)
	if err != nil {
		return asset, err
	}
	asset.TagIDs = make([]string, 0, len(tags))
	for _, tag := range tags {
		asset.TagIDs = append(asset.TagIDs, tag.ID)
	}
	return asset, nil
}

func (r *Runner) printDecision(seq int, group immich.DuplicateGroup, decision ranking.Decision) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.catalog.Sprintf(msg.KeyGroupHeader, seq, len(group.Assets), r.catalog.Reason(decision.Reason)))
	fmt.Fprintln(r.out, r.assetLine(msg.KeyKeptLine, decision.Winner))
	for _, loser := range decision.Losers {
		fmt.Fprintln(r.out, r.assetLine(msg.KeyDeletedLine, loser))
	}

	r.logger.Info("group resolved",
		logging.Int("seq", seq),
		logging.String("duplicate_id", group.DuplicateID),
		logging.String("winner", decision.Winner.ID),
		logging.Any("losers", assetIDs(decision.Losers)),
		logging.String("reason", string(decision.Reason)))
}

func (r *Runner) assetLine(key string, asset immich.Asset) string {
	date := r.catalog.Sprintf(msg.KeyUnknownDate)
	if ts := asset.CaptureTime(); ts != nil {
		date = ts.Format("02/01/06 - 15:04:05")
	}
	return r.catalog.Sprintf(key,
		date,
		formatMB(asset.FileSize()),
		ranking.Score(asset),
		asset.OriginalFileName,
		asset.ThumbnailURL(r.opts.ServerURL))
}

func (r *Runner) beginJournal(ctx context.Context, runID string) {
	if r.recorder == nil {
		return
	}
	run := journal.Run{
		ID:        runID,
		StartedAt: time.Now().UTC(),
		DryRun:    r.opts.DryRun,
		Permanent: r.opts.Permanent,
	}
	if err := r.recorder.BeginRun(ctx, run); err != nil {
		r.logger.Warn("journal unavailable for this run", logging.Error(err))
		r.recorder = nil
	}
}

func (r *Runner) recordGroup(ctx context.Context, rec journal.GroupRecord, summary *Summary) {
	if r.recorder == nil {
		return
	}
	rec.RunID = summary.RunID
	if err := r.recorder.RecordGroup(ctx, rec); err != nil {
		r.logger.Warn("journal write failed", logging.Int("seq", rec.Seq), logging.Error(err))
	}
}

func (r *Runner) finishJournal(ctx context.Context, summary Summary) {
	if r.recorder == nil {
		return
	}
	err := r.recorder.FinishRun(ctx, summary.RunID, journal.Summary{
		GroupsProcessed: summary.GroupsProcessed,
		GroupsSkipped:   summary.GroupsSkipped + summary.GroupsDeclined,
		AssetsDeleted:   summary.AssetsDeleted,
		BytesReclaimed:  summary.BytesReclaimed,
		Errors:          summary.Errors,
	})
	if err != nil {
		r.logger.Warn("journal finish failed", logging.Error(err))
	}
}

func assetIDs(assets []immich.Asset) []string {
	ids := make([]string, len(assets))
	for i, asset := range assets {
		ids[i] = asset.ID
	}
	return ids
}

func formatMB(bytes int64) string {
	return strconv.FormatFloat(float64(bytes)/(1024*1024), 'f', 2, 64)
}
