// Package tracker owns the lifecycle of a single growth run: configure, start,
// tick, stop, reset and resume after a restart. It never runs its own timer;
// the host calls Recompute on whatever cadence it likes, and every value is
// derived from the persisted start instant so a gap between ticks changes
// nothing.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/lachiem1/pragati/internal/growth"
	"github.com/rs/zerolog"
)

// ErrInvalidTransition is returned when a command is not allowed in the
// current state. The tracker is left untouched.
var ErrInvalidTransition = errors.New("invalid state transition")

type State int

const (
	StateIdle State = iota
	StateConfigured
	StateRunning
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConfigured:
		return "configured"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Store is the durable home of the Record.
type Store interface {
	Load(ctx context.Context) (Record, error)
	Save(ctx context.Context, rec Record) error
	Clear(ctx context.Context) error
}

const DefaultChartRefresh = 10 * time.Second

type Options struct {
	// ChartPoints is the grid size passed to growth.ChartSeries.
	ChartPoints int
	// ChartRefresh is how much elapsed run time passes between chart
	// regenerations while running. Zero or less refreshes on every tick.
	ChartRefresh time.Duration
	Clock        Clock
	// OnGoalReached fires once, on the tick that completes a run.
	OnGoalReached func(Snapshot)
}

// Snapshot is a read-only view for the presentation layer.
type Snapshot struct {
	State            State
	Record           Record
	Running          bool
	FinalAmount      float64
	PerSecondRate    float64
	CurrentAmount    float64
	PercentComplete  float64
	ElapsedSeconds   float64
	TotalSeconds     float64
	ElapsedFormatted string
	Chart            []growth.ChartPoint
	Table            []growth.ProjectionRow
	GoalReached      bool
	PersistErr       error
}

type Tracker struct {
	store  Store
	logger zerolog.Logger
	opts   Options

	state State
	rec   Record

	final   float64
	rate    float64
	total   float64
	elapsed float64
	percent float64

	chart       []growth.ChartPoint
	chartBucket int64
	table       []growth.ProjectionRow

	goalReached bool
	persistErr  error
}

// New returns an Idle tracker holding the default record. Call Resume with
// the stored record before issuing commands.
func New(store Store, logger zerolog.Logger, opts Options) *Tracker {
	if opts.ChartPoints <= 0 {
		opts.ChartPoints = growth.DefaultChartPoints
	}
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	t := &Tracker{
		store:  store,
		logger: logger.With().Str("component", "tracker").Logger(),
		opts:   opts,
		state:  StateIdle,
		rec:    DefaultRecord(),
	}
	t.derive()
	return t
}

func (t *Tracker) State() State { return t.state }

// Configure replaces the run parameters and rewinds the counter to the new
// principal. Invalid input leaves every field as it was.
func (t *Tracker) Configure(ctx context.Context, principal, ratePercent, years float64) error {
	if _, err := growth.FinalAmount(principal, ratePercent, years); err != nil {
		return err
	}

	t.goalReached = false
	t.rec = Record{
		Principal:         principal,
		AnnualRatePercent: ratePercent,
		Years:             years,
		CurrentAmount:     principal,
	}
	t.derive()
	t.elapsed = 0
	t.percent = 0
	t.refreshChart()
	t.refreshTable()
	t.state = StateConfigured

	t.logger.Info().
		Float64("principal", principal).
		Float64("rate_percent", ratePercent).
		Float64("years", years).
		Float64("final_amount", t.final).
		Msg("Run configured")

	t.persist(ctx)
	return nil
}

// Start begins accrual at now, counting from the principal.
func (t *Tracker) Start(ctx context.Context, now time.Time) error {
	if t.state != StateConfigured && t.state != StateCompleted {
		return fmt.Errorf("%w: cannot start while %s", ErrInvalidTransition, t.state)
	}

	t.goalReached = false
	ms := now.UnixMilli()
	t.rec.Running = true
	t.rec.StartEpochMillis = &ms
	t.rec.CurrentAmount = t.rec.Principal
	t.elapsed = 0
	t.percent = 0
	t.chartBucket = 0
	t.refreshChart()
	t.state = StateRunning

	t.logger.Info().Time("started_at", time.UnixMilli(ms)).Msg("Run started")

	t.persist(ctx)
	return nil
}

// Recompute advances a running tracker to now. It is a no-op in any other
// state. The result depends only on now and the stored start instant.
// PersistErr in the result reports only the save made by this call.
func (t *Tracker) Recompute(ctx context.Context, now time.Time) Snapshot {
	t.goalReached = false
	t.persistErr = nil
	if t.state != StateRunning {
		return t.Snapshot()
	}

	start, _ := t.rec.StartTime()
	elapsed := growth.ElapsedSeconds(start, now)
	if elapsed >= t.total {
		t.complete(ctx)
		return t.Snapshot()
	}

	amount := t.rec.Principal + t.rate*elapsed
	amount = math.Min(math.Max(amount, t.rec.Principal), t.final)
	percent, err := growth.PercentComplete(elapsed, t.total)
	if err != nil {
		t.logger.Error().Err(err).Msg("Percent complete unavailable")
	}

	t.rec.CurrentAmount = amount
	t.elapsed = elapsed
	t.percent = percent

	if bucket := t.bucketFor(elapsed); bucket != t.chartBucket {
		t.chartBucket = bucket
		t.refreshChart()
	}

	t.persist(ctx)
	return t.Snapshot()
}

// Stop freezes the counter at the last computed amount.
func (t *Tracker) Stop(ctx context.Context) error {
	if t.state != StateRunning {
		return fmt.Errorf("%w: cannot stop while %s", ErrInvalidTransition, t.state)
	}

	t.rec.Running = false
	t.rec.StartEpochMillis = nil
	t.refreshChart()
	t.state = StateConfigured

	t.logger.Info().Float64("current_amount", t.rec.CurrentAmount).Msg("Run stopped")

	t.persist(ctx)
	return nil
}

// Reset stops any run and puts the counter back to the principal while
// keeping the parameters.
func (t *Tracker) Reset(ctx context.Context) {
	t.goalReached = false
	t.rec.Running = false
	t.rec.StartEpochMillis = nil
	t.rec.CurrentAmount = t.rec.Principal
	t.elapsed = 0
	t.percent = 0
	t.refreshChart()
	if t.table == nil {
		t.refreshTable()
	}
	t.state = StateConfigured

	t.logger.Info().Float64("principal", t.rec.Principal).Msg("Counter reset")

	t.persist(ctx)
}

// Resume adopts a record loaded at startup. A running record is caught up to
// now immediately, so time spent closed counts the same as time spent
// watching. Unusable records fall back to the defaults.
func (t *Tracker) Resume(ctx context.Context, rec Record, now time.Time) Snapshot {
	if err := rec.Validate(); err != nil {
		t.logger.Warn().Err(err).Msg("Stored record unusable, using defaults")
		rec = DefaultRecord()
	}

	t.goalReached = false
	t.rec = rec
	t.derive()
	t.refreshTable()

	if rec.Running {
		t.state = StateRunning
		t.chartBucket = -1
		t.logger.Info().Int64("start_epoch_millis", *rec.StartEpochMillis).Msg("Resuming run")
		return t.Recompute(ctx, now)
	}

	t.rec.CurrentAmount = math.Min(math.Max(t.rec.CurrentAmount, t.rec.Principal), t.final)
	t.elapsed = 0
	if t.rate > 0 {
		t.elapsed = (t.rec.CurrentAmount - t.rec.Principal) / t.rate
	}
	t.percent, _ = growth.PercentComplete(t.elapsed, t.total)
	t.state = StateConfigured
	if t.rec.CurrentAmount >= t.final && t.final > t.rec.Principal {
		t.state = StateCompleted
		t.elapsed = t.total
		t.percent = 100
	}
	t.refreshChart()
	return t.Snapshot()
}

// Clear wipes the stored record and reverts to defaults in memory.
func (t *Tracker) Clear(ctx context.Context) {
	t.persistErr = nil
	if err := t.store.Clear(ctx); err != nil {
		t.logger.Warn().Err(err).Msg("Failed to clear stored record")
		t.persistErr = err
	}

	t.goalReached = false
	t.rec = DefaultRecord()
	t.derive()
	t.elapsed = 0
	t.percent = 0
	t.refreshChart()
	t.refreshTable()
	t.state = StateConfigured

	t.logger.Info().Msg("Stored record cleared")
}

func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{
		State:            t.state,
		Record:           t.rec,
		Running:          t.rec.Running,
		FinalAmount:      t.final,
		PerSecondRate:    t.rate,
		CurrentAmount:    t.rec.CurrentAmount,
		PercentComplete:  t.percent,
		ElapsedSeconds:   t.elapsed,
		TotalSeconds:     t.total,
		ElapsedFormatted: growth.FormatDuration(t.elapsed),
		Chart:            slices.Clone(t.chart),
		Table:            slices.Clone(t.table),
		GoalReached:      t.goalReached,
		PersistErr:       t.persistErr,
	}
}

func (t *Tracker) complete(ctx context.Context) {
	t.rec.CurrentAmount = t.final
	t.rec.Running = false
	t.rec.StartEpochMillis = nil
	t.elapsed = t.total
	t.percent = 100
	t.refreshChart()
	t.state = StateCompleted
	t.goalReached = true

	t.logger.Info().Float64("final_amount", t.final).Msg("Goal reached")

	t.persist(ctx)
	if t.opts.OnGoalReached != nil {
		t.opts.OnGoalReached(t.Snapshot())
	}
}

// derive recomputes everything that follows from the three parameters. The
// record is assumed valid.
func (t *Tracker) derive() {
	final, err := growth.FinalAmount(t.rec.Principal, t.rec.AnnualRatePercent, t.rec.Years)
	if err != nil {
		t.logger.Error().Err(err).Msg("Cannot derive final amount")
		final = t.rec.Principal
	}
	t.final = final
	t.total = growth.TotalSeconds(t.rec.Years)
	t.rate = growth.PerSecondRate(t.rec.Principal, final, t.rec.Years)
}

func (t *Tracker) bucketFor(elapsed float64) int64 {
	if t.opts.ChartRefresh <= 0 {
		return int64(math.Floor(elapsed))
	}
	return int64(elapsed / t.opts.ChartRefresh.Seconds())
}

func (t *Tracker) refreshChart() {
	seq, err := growth.ChartSeries(t.rec.Principal, t.final, t.rec.Years, t.rec.CurrentAmount, t.opts.ChartPoints)
	if err != nil {
		t.logger.Error().Err(err).Msg("Cannot build chart series")
		t.chart = nil
		return
	}
	t.chart = slices.Collect(seq)
}

func (t *Tracker) refreshTable() {
	seq, err := growth.ProjectionTable(t.rec.Principal, t.final, t.rec.Years, t.opts.Clock.Now())
	if err != nil {
		t.logger.Error().Err(err).Msg("Cannot build projection table")
		t.table = nil
		return
	}
	t.table = slices.Collect(seq)
}

func (t *Tracker) persist(ctx context.Context) {
	if err := t.store.Save(ctx, t.rec); err != nil {
		t.logger.Warn().Err(err).Str("state", t.state.String()).Msg("Failed to persist record")
		t.persistErr = err
		return
	}
	t.persistErr = nil
}
