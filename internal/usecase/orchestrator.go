package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/armenabnousi/NewsCollector/internal/domain"
	"github.com/armenabnousi/NewsCollector/internal/ports"
)

// Configuration errors reported before a run starts.
var (
	ErrNoModelSelected = errors.New("no model selected")
	ErrNoCredential    = errors.New("no API credential configured")
)

// State describes the orchestrator's run state.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateFailed  State = "failed"
)

// Snapshot is the externally observable pipeline state: the complete
// published result set of the last successful run plus the run flags.
type Snapshot struct {
	News       []domain.UnifiedNews
	State      State
	Refreshing bool
	LastError  string
}

// Orchestrator sequences aggregation, unification and ranking, owns the run
// state and publishes the result set. Publication replaces the whole list
// atomically; observers never see a partially updated run.
type Orchestrator struct {
	settings   ports.SettingsStore
	aggregator *Aggregator
	unifier    *Unifier
	logger     *slog.Logger

	mu         sync.Mutex
	generation uint64
	state      State
	lastErr    string
	published  []domain.UnifiedNews
	cancelRun  context.CancelFunc
	observers  []chan Snapshot
}

// NewOrchestrator wires the pipeline stages.
func NewOrchestrator(settings ports.SettingsStore, aggregator *Aggregator, unifier *Unifier, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		settings:   settings,
		aggregator: aggregator,
		unifier:    unifier,
		logger:     logger,
		state:      StateIdle,
	}
}

// Refresh executes one full pipeline run and blocks until it finishes.
// A configuration error (no model, no credential) is returned before the
// state ever transitions to running. A refresh issued while another run is
// active supersedes it: the older run's context is cancelled and its late
// result is discarded on publish.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	modelID, err := o.checkConfigured(ctx)
	if err != nil {
		return err
	}

	runCtx, gen := o.beginRun(ctx)
	runErr := o.run(runCtx, gen, modelID)
	o.endRun(gen, runErr)
	return runErr
}

// StartRefresh validates the configuration synchronously and, when valid,
// launches the run in the background. This is the entry point for the HTTP
// trigger and the periodic scheduler.
func (o *Orchestrator) StartRefresh(ctx context.Context) error {
	if _, err := o.checkConfigured(ctx); err != nil {
		return err
	}

	go func() {
		if err := o.Refresh(context.WithoutCancel(ctx)); err != nil {
			o.logger.Error("refresh run failed", "error", err)
		}
	}()

	return nil
}

// Snapshot returns the current observable state. The returned news slice is
// the published one; runs never mutate a published slice.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

// Subscribe returns a channel carrying the latest snapshot after every
// state change. Slow readers only miss intermediate snapshots, never the
// most recent one.
func (o *Orchestrator) Subscribe() <-chan Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	ch := make(chan Snapshot, 1)
	ch <- o.snapshotLocked()
	o.observers = append(o.observers, ch)
	return ch
}

func (o *Orchestrator) checkConfigured(ctx context.Context) (modelID string, err error) {
	modelID, _, err = o.settings.SelectedModel(ctx)
	if err != nil {
		return "", fmt.Errorf("read selected model: %w", err)
	}
	if modelID == "" {
		return "", ErrNoModelSelected
	}

	token, err := o.settings.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("read credential: %w", err)
	}
	if token == "" {
		return "", ErrNoCredential
	}

	return modelID, nil
}

func (o *Orchestrator) beginRun(ctx context.Context) (context.Context, uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cancelRun != nil {
		o.cancelRun()
	}

	runCtx, cancel := context.WithCancel(ctx)
	o.cancelRun = cancel
	o.generation++
	o.state = StateRunning
	o.lastErr = ""
	o.notifyLocked()
	return runCtx, o.generation
}

// run executes the pipeline stages. Stage-level failures (fetch, extraction,
// unification) have already been absorbed below; only unexpected failures
// surface here and abort the run.
func (o *Orchestrator) run(ctx context.Context, gen uint64, modelID string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pipeline panic: %v", rec)
		}
	}()

	sources, err := o.settings.Sources(ctx)
	if err != nil {
		return fmt.Errorf("load sources: %w", err)
	}

	allNews := o.aggregator.Aggregate(ctx, sources, modelID)
	if len(allNews) == 0 {
		o.logger.Info("run produced no news, keeping previous result set")
		return nil
	}

	unified, fellBack := o.unifier.Unify(ctx, allNews, modelID)
	if fellBack {
		o.logger.Info("published per-article fallback events", "count", len(unified))
	}

	o.publish(gen, Rank(unified))
	return nil
}

// publish atomically replaces the result set, unless the run has been
// superseded in the meantime.
func (o *Orchestrator) publish(gen uint64, ranked []domain.UnifiedNews) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.generation {
		o.logger.Debug("discarding result of superseded run", "generation", gen)
		return
	}

	o.published = ranked
	o.notifyLocked()
}

// endRun clears the running state. A superseded run leaves the flags alone:
// they belong to the run that replaced it.
func (o *Orchestrator) endRun(gen uint64, runErr error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.generation {
		return
	}

	o.cancelRun()
	o.cancelRun = nil

	if runErr != nil {
		o.state = StateFailed
		o.lastErr = runErr.Error()
	} else {
		o.state = StateIdle
	}
	o.notifyLocked()
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	return Snapshot{
		News:       o.published,
		State:      o.state,
		Refreshing: o.state == StateRunning,
		LastError:  o.lastErr,
	}
}

func (o *Orchestrator) notifyLocked() {
	snap := o.snapshotLocked()
	for _, ch := range o.observers {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}
