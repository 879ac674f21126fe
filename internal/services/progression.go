package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/yungbote/contentflow-backend/internal/data/repos"
	types "github.com/yungbote/contentflow-backend/internal/domain"
	"github.com/yungbote/contentflow-backend/internal/domain/access"
	"github.com/yungbote/contentflow-backend/internal/observability"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/contentflow-backend/internal/pkg/errors"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
	"github.com/yungbote/contentflow-backend/internal/platform/redislock"
	"github.com/yungbote/contentflow-backend/internal/progression"
	"github.com/yungbote/contentflow-backend/internal/realtime"
	"github.com/yungbote/contentflow-backend/internal/realtime/bus"
)

// Pass names double as lock keys, metric labels and span names.
const (
	PassReconcile     = "reconcile"
	PassGrantAccess   = "grant_access"
	PassWeeklyContent = "weekly_content"
	PassDailyContent  = "daily_content"
	PassDailyAdvance  = "daily_advance"
)

// ErrPassBusy is returned when another process holds the pass lock.
var ErrPassBusy = fmt.Errorf("progression pass already running: %w", pkgerrors.ErrConflict)

type ProgressionService interface {
	RunReconciliation(dbc dbctx.Context) (progression.Summary, error)
	BulkGrantAccessToAllUsers(dbc dbctx.Context) (progression.Summary, error)
	GenerateWeeklyContent(dbc dbctx.Context) (progression.Summary, error)
	GenerateDailyContent(dbc dbctx.Context) (progression.Summary, error)
	IncrementDailyContentForAllUsers(dbc dbctx.Context) (progression.Summary, error)

	UpdateArticleAccessForUser(dbc dbctx.Context, userID uuid.UUID) (bool, error)
	GrantAccessForSeries(dbc dbctx.Context, seriesID uuid.UUID) (progression.Summary, error)
	GrantAccessForUser(dbc dbctx.Context, userID uuid.UUID) (progression.Summary, error)
	GrantAccess(dbc dbctx.Context, userID uuid.UUID, target access.Target) (*types.UserSeriesAccess, error)
	ListAccessForUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.UserSeriesAccess, error)
}

type ProgressionServiceDeps struct {
	DB      *gorm.DB
	Log     *logger.Logger
	Stores  progression.Stores
	Access  repos.UserSeriesAccessRepo
	Locker  redislock.Locker
	Bus     bus.Bus
	Metrics *observability.Metrics
	LockTTL time.Duration
}

type progressionService struct {
	db      *gorm.DB
	log     *logger.Logger
	engine  *progression.Engine
	stores  progression.Stores
	access  repos.UserSeriesAccessRepo
	locker  redislock.Locker
	bus     bus.Bus
	metrics *observability.Metrics
	lockTTL time.Duration
}

func NewProgressionService(deps ProgressionServiceDeps) ProgressionService {
	ttl := deps.LockTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	locker := deps.Locker
	if locker == nil {
		locker = redislock.NewLocal()
	}
	return &progressionService{
		db:      deps.DB,
		log:     deps.Log.With("service", "ProgressionService"),
		engine:  progression.NewEngine(deps.Stores, deps.Log),
		stores:  deps.Stores,
		access:  deps.Access,
		locker:  locker,
		bus:     deps.Bus,
		metrics: deps.Metrics,
		lockTTL: ttl,
	}
}

// passFn runs one pass against dbc and reports its outward summary.
type passFn func(dbc dbctx.Context) (progression.Summary, error)

// runPass serializes passes of the same name, optionally wraps the pass in a
// transaction, and records the span, metrics and completion event.
func (s *progressionService) runPass(dbc dbctx.Context, name string, inTx bool, fn passFn) (progression.Summary, error) {
	ctx := dbc.Context()
	ok, err := s.locker.TryAcquire(ctx, "pass:"+name, s.lockTTL)
	if err != nil {
		return progression.Summary{}, fmt.Errorf("acquire %s lock: %w", name, err)
	}
	if !ok {
		return progression.Summary{}, ErrPassBusy
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), "pass:"+name); err != nil {
			s.log.Warn("release pass lock failed", "pass", name, "error", err)
		}
	}()

	ctx, span := observability.StartSpan(ctx, "progression."+name, attribute.String("progression.pass", name))
	defer span.End()

	start := time.Now()
	var sum progression.Summary
	run := func(inner dbctx.Context) error {
		out, err := fn(inner)
		sum = out
		return err
	}
	switch {
	case dbc.Tx != nil || !inTx:
		err = run(dbctx.Context{Ctx: ctx, Tx: dbc.Tx})
	default:
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return run(dbctx.Context{Ctx: ctx, Tx: tx})
		})
	}
	dur := time.Since(start)

	s.metrics.ObservePass(name, err, dur, observability.PassCounts{
		Granted: sum.GrantedCount,
		Updated: sum.UpdatedCount,
		Skipped: sum.SkippedCount,
	})
	span.SetAttributes(
		attribute.Int("progression.updated", sum.UpdatedCount),
		attribute.Int("progression.skipped", sum.SkippedCount),
		attribute.Int("progression.granted", sum.GrantedCount),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.log.Warn("progression pass failed", "pass", name, "error", err, "duration_ms", dur.Milliseconds())
		return progression.Summary{}, err
	}

	s.log.Info("progression pass finished",
		"pass", name,
		"users", sum.TotalUsers,
		"granted", sum.GrantedCount,
		"updated", sum.UpdatedCount,
		"skipped", sum.SkippedCount,
		"duration_ms", dur.Milliseconds(),
	)
	s.publish(ctx, realtime.NewEvent(realtime.EventPassCompleted, uuid.Nil, map[string]any{
		"pass":    name,
		"summary": sum,
	}))
	return sum, nil
}

func (s *progressionService) publish(ctx context.Context, ev realtime.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, ev); err != nil {
		s.log.Warn("publish progression event failed", "type", ev.Type, "error", err)
	}
}

// RunReconciliation runs without a wrapping transaction; every write is a
// guarded single-row update, so a failure midway leaves a consistent state
// for the next pass.
func (s *progressionService) RunReconciliation(dbc dbctx.Context) (progression.Summary, error) {
	return s.runPass(dbc, PassReconcile, false, func(inner dbctx.Context) (progression.Summary, error) {
		res, err := s.engine.Reconciler.Run(inner)
		if err != nil {
			return progression.Summary{}, err
		}
		for _, id := range res.Series.AdvancedUsers {
			s.publish(inner.Context(), realtime.NewEvent(realtime.EventAccessAdvanced, id, nil))
		}
		for _, a := range res.Weekly.Advances {
			s.publish(inner.Context(), realtime.NewEvent(realtime.EventWeekAdvanced, a.UserID, map[string]any{
				"from":    int(a.From),
				"to":      int(a.To),
				"wrapped": a.Wrapped,
			}))
		}
		return res.Summary(), nil
	})
}

func (s *progressionService) BulkGrantAccessToAllUsers(dbc dbctx.Context) (progression.Summary, error) {
	return s.runPass(dbc, PassGrantAccess, true, func(inner dbctx.Context) (progression.Summary, error) {
		res, err := s.engine.Granter.GrantAll(inner)
		if err != nil {
			return progression.Summary{}, err
		}
		return res.Summary(), nil
	})
}

func (s *progressionService) GenerateWeeklyContent(dbc dbctx.Context) (progression.Summary, error) {
	return s.runPass(dbc, PassWeeklyContent, true, func(inner dbctx.Context) (progression.Summary, error) {
		res, err := s.engine.WeeklyAssembler.Generate(inner)
		if err != nil {
			return progression.Summary{}, err
		}
		return res.Summary("weekly"), nil
	})
}

func (s *progressionService) GenerateDailyContent(dbc dbctx.Context) (progression.Summary, error) {
	return s.runPass(dbc, PassDailyContent, true, func(inner dbctx.Context) (progression.Summary, error) {
		res, err := s.engine.DailyAssembler.Generate(inner)
		if err != nil {
			return progression.Summary{}, err
		}
		return res.Summary("daily"), nil
	})
}

func (s *progressionService) IncrementDailyContentForAllUsers(dbc dbctx.Context) (progression.Summary, error) {
	return s.runPass(dbc, PassDailyAdvance, false, func(inner dbctx.Context) (progression.Summary, error) {
		res, err := s.engine.Daily.Advance(inner)
		if err != nil {
			return progression.Summary{}, err
		}
		return res.Summary(), nil
	})
}

func (s *progressionService) UpdateArticleAccessForUser(dbc dbctx.Context, userID uuid.UUID) (bool, error) {
	changed, err := s.engine.Articles.SyncUser(dbc, userID)
	if err != nil {
		return false, err
	}
	if changed {
		s.publish(dbc.Context(), realtime.NewEvent(realtime.EventAccessAdvanced, userID, map[string]any{"target": access.ArticleTrack().Key()}))
	}
	return changed, nil
}

// GrantAccessForSeries and GrantAccessForUser are fan-outs run inline by the
// create paths; they share the caller's transaction and skip the pass lock.
func (s *progressionService) GrantAccessForSeries(dbc dbctx.Context, seriesID uuid.UUID) (progression.Summary, error) {
	res, err := s.engine.Granter.GrantForSeries(dbc, seriesID)
	if err != nil {
		return progression.Summary{}, err
	}
	return res.Summary(), nil
}

func (s *progressionService) GrantAccessForUser(dbc dbctx.Context, userID uuid.UUID) (progression.Summary, error) {
	res, err := s.engine.Granter.GrantForUser(dbc, userID)
	if err != nil {
		return progression.Summary{}, err
	}
	if res.Granted > 0 {
		s.publish(dbc.Context(), realtime.NewEvent(realtime.EventAccessGranted, userID, map[string]any{"granted": res.Granted}))
	}
	return res.Summary(), nil
}

// GrantAccess lazily opens one target for one user. An existing row is
// returned untouched.
func (s *progressionService) GrantAccess(dbc dbctx.Context, userID uuid.UUID, target access.Target) (*types.UserSeriesAccess, error) {
	users, err := s.stores.Users.GetByIDs(dbc, []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user %s: %w", userID, pkgerrors.ErrNotFound)
	}
	if seriesID, ok := target.SeriesID(); ok {
		found, err := s.stores.Series.GetByIDs(dbc, []uuid.UUID{seriesID})
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("series %s: %w", seriesID, pkgerrors.ErrNotFound)
		}
	}
	before, err := s.access.Get(dbc, userID, target)
	if err != nil {
		return nil, err
	}
	row, err := s.engine.Granter.GrantAccess(dbc, userID, target)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("no articles to open: %w", pkgerrors.ErrNotFound)
	}
	if before == nil {
		s.publish(dbc.Context(), realtime.NewEvent(realtime.EventAccessGranted, userID, map[string]any{"target": target.Key()}))
	}
	return row, nil
}

func (s *progressionService) ListAccessForUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.UserSeriesAccess, error) {
	return s.access.ListByUserIDs(dbc, []uuid.UUID{userID})
}
