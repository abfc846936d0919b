package processor

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"bindery/internal/agentout"
	"bindery/internal/config"
	"bindery/internal/listing"
	"bindery/internal/logging"
	"bindery/internal/manifest"
	"bindery/internal/queue"
	"bindery/internal/services"
	"bindery/internal/workbook"
)

// ConflictPolicy decides what happens when a folder already has a row in the
// target workbook.
type ConflictPolicy string

const (
	// ConflictSkip leaves the existing row alone and marks the source
	// processed without re-appending.
	ConflictSkip ConflictPolicy = "skip"
	// ConflictOverwrite replaces the existing row in place, preserving row
	// position and count.
	ConflictOverwrite ConflictPolicy = "overwrite"
)

// ParseConflictPolicy converts a string into a known policy.
func ParseConflictPolicy(value string) (ConflictPolicy, bool) {
	switch ConflictPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case ConflictSkip:
		return ConflictSkip, true
	case ConflictOverwrite:
		return ConflictOverwrite, true
	default:
		return "", false
	}
}

// Processor drives the join-and-append pass: it discovers pending sources,
// runs the readers and joiner, appends results through the workbook store,
// and transitions processed sources in the queue store.
type Processor struct {
	cfg      *config.Config
	queue    *queue.Store
	workbook *workbook.Store
	joiner   *listing.Joiner
	policy   ConflictPolicy
	logger   *slog.Logger
}

// Option customizes a Processor.
type Option func(*Processor)

// WithConflictPolicy overrides the configured duplicate-row policy.
func WithConflictPolicy(policy ConflictPolicy) Option {
	return func(p *Processor) {
		p.policy = policy
	}
}

// New builds a processor over the given stores. The conflict policy defaults
// to the configured one.
func New(cfg *config.Config, queueStore *queue.Store, workbookStore *workbook.Store, logger *slog.Logger, opts ...Option) *Processor {
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Processor{
		cfg:      cfg,
		queue:    queueStore,
		workbook: workbookStore,
		joiner:   listing.NewJoiner(cfg),
		policy:   ConflictSkip,
		logger:   logger,
	}
	if policy, ok := ParseConflictPolicy(cfg.Processing.ConflictPolicy); ok {
		p.policy = policy
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes a full queue pass: scan the image root for new folders, then
// process every pending entry in lexicographic order. One bad folder never
// aborts the batch; a workbook write failure does, leaving the previous
// workbook state intact.
func (p *Processor) Run(ctx context.Context) (*Report, error) {
	report := &Report{RunID: uuid.NewString(), WorkbookPath: p.workbook.Path()}
	logger := p.logger.With(logging.String("run_id", report.RunID))

	if _, err := p.queue.Scan(ctx, p.cfg); err != nil {
		return report, err
	}
	pending, err := p.queue.Pending(ctx)
	if err != nil {
		return report, err
	}
	logger.Info("queue pass started",
		logging.Int("pending", len(pending)),
		logging.String("policy", string(p.policy)),
	)

	for _, entry := range pending {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		result, err := p.processFolder(ctx, logger, entry.FolderID, true)
		report.Results = append(report.Results, result)
		if err != nil {
			// Workbook integrity outranks forward progress.
			p.finishReport(ctx, report)
			return report, err
		}
	}

	p.finishReport(ctx, report)
	logger.Info("queue pass finished",
		logging.Int("processed", report.Processed()),
		logging.Int("skipped", report.Skipped()),
		logging.Int("failed", report.Failed()),
		logging.Int("rows_total", report.RowCount),
	)
	return report, nil
}

// ProcessFolders runs the join-and-append flow for an explicit folder list
// without touching queue state. Used by the assemble commands.
func (p *Processor) ProcessFolders(ctx context.Context, folders []string) (*Report, error) {
	report := &Report{RunID: uuid.NewString(), WorkbookPath: p.workbook.Path()}
	logger := p.logger.With(logging.String("run_id", report.RunID))

	for _, folder := range folders {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		result, err := p.processFolder(ctx, logger, folder, false)
		report.Results = append(report.Results, result)
		if err != nil {
			p.finishReport(ctx, report)
			return report, err
		}
	}

	p.finishReport(ctx, report)
	return report, nil
}

// processFolder runs one source through the readers, joiner, and workbook
// store. The returned error is non-nil only for batch-fatal workbook
// failures; everything else is folded into the Result.
func (p *Processor) processFolder(ctx context.Context, logger *slog.Logger, folderID string, trackQueue bool) (Result, error) {
	m, err := manifest.Load(p.cfg.Paths.ImageRoot, folderID)
	if err != nil {
		return p.failFolder(ctx, logger, folderID, trackQueue, err), nil
	}

	rec, err := agentout.Load(p.cfg.Paths.ResultsDir, folderID)
	if err != nil {
		return p.failFolder(ctx, logger, folderID, trackQueue, err), nil
	}

	l, err := p.joiner.Join(m, rec)
	if err != nil {
		return p.failFolder(ctx, logger, folderID, trackQueue, err), nil
	}

	exists, err := p.workbook.Contains(ctx, l.FolderID)
	if err != nil {
		return p.failResult(folderID, err), err
	}

	if exists {
		return p.resolveConflict(ctx, logger, l, trackQueue)
	}

	if _, err := p.workbook.Append(ctx, []listing.Listing{l}); err != nil {
		return p.failResult(folderID, err), err
	}

	if trackQueue {
		if err := p.queue.MarkProcessed(ctx, folderID); err != nil {
			logger.Error("failed to mark folder processed", logging.String("folder", folderID), logging.Error(err))
			return Result{FolderID: folderID, Outcome: OutcomeFailed, Stage: "queue", Reason: err.Error()}, nil
		}
	}
	logger.Info("folder processed", logging.String("folder", folderID), logging.String("condition", listing.ConditionLabel(l.ConditionID)))
	return Result{FolderID: folderID, Outcome: OutcomeProcessed}, nil
}

// resolveConflict applies the duplicate-row policy. Duplication is never
// silent: the outcome is always explicit in the report.
func (p *Processor) resolveConflict(ctx context.Context, logger *slog.Logger, l listing.Listing, trackQueue bool) (Result, error) {
	switch p.policy {
	case ConflictOverwrite:
		if err := p.workbook.Overwrite(ctx, l); err != nil {
			return p.failResult(l.FolderID, err), err
		}
		if trackQueue {
			if err := p.queue.MarkProcessed(ctx, l.FolderID); err != nil {
				logger.Error("failed to mark folder processed", logging.String("folder", l.FolderID), logging.Error(err))
				return Result{FolderID: l.FolderID, Outcome: OutcomeFailed, Stage: "queue", Reason: err.Error()}, nil
			}
		}
		logger.Info("folder overwrote existing row", logging.String("folder", l.FolderID))
		return Result{
			FolderID: l.FolderID,
			Outcome:  OutcomeProcessed,
			Reason:   "replaced existing row in place",
		}, nil
	default:
		if trackQueue {
			if err := p.queue.MarkProcessed(ctx, l.FolderID); err != nil {
				logger.Error("failed to mark folder processed", logging.String("folder", l.FolderID), logging.Error(err))
				return Result{FolderID: l.FolderID, Outcome: OutcomeFailed, Stage: "queue", Reason: err.Error()}, nil
			}
		}
		logger.Info("folder skipped, row already present", logging.String("folder", l.FolderID))
		return Result{
			FolderID: l.FolderID,
			Outcome:  OutcomeSkipped,
			Stage:    services.StageJoin,
			Reason:   services.ErrDuplicateListing.Error() + ": row already present (policy skip)",
		}, nil
	}
}

// failFolder records a per-folder failure in the queue store and keeps the
// batch moving.
func (p *Processor) failFolder(ctx context.Context, logger *slog.Logger, folderID string, trackQueue bool, cause error) Result {
	stage := services.StageFor(cause)
	logger.Warn("folder failed",
		logging.String("folder", folderID),
		logging.String("stage", stage),
		logging.Error(cause),
	)
	if trackQueue {
		if err := p.queue.MarkFailed(ctx, folderID, stage, cause.Error()); err != nil {
			logger.Error("failed to record folder failure", logging.String("folder", folderID), logging.Error(err))
		}
	}
	return Result{FolderID: folderID, Outcome: OutcomeFailed, Stage: stage, Reason: cause.Error()}
}

func (p *Processor) failResult(folderID string, cause error) Result {
	return Result{
		FolderID: folderID,
		Outcome:  OutcomeFailed,
		Stage:    services.StageFor(cause),
		Reason:   cause.Error(),
	}
}

func (p *Processor) finishReport(ctx context.Context, report *Report) {
	if count, err := p.workbook.RowCount(ctx); err == nil {
		report.RowCount = count
	}
}
