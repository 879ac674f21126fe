package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	contentrepo "github.com/yungbote/contentflow-backend/internal/data/repos/content"
	domaincontent "github.com/yungbote/contentflow-backend/internal/domain/content"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/contentflow-backend/internal/pkg/errors"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
)

// ContentService manages one orderable content kind. Creating weekly or
// daily source content extends the matching bundle track in the same
// transaction.
type ContentService[T any] interface {
	Kind() domaincontent.Kind
	Create(dbc dbctx.Context, item *T) (*T, error)
	Get(dbc dbctx.Context, id uuid.UUID) (*T, error)
	List(dbc dbctx.Context) ([]*T, error)
	Update(dbc dbctx.Context, id uuid.UUID, item *T) (*T, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type orderable[T any] interface {
	*T
	domaincontent.Orderable
}

type contentService[T any, PT orderable[T]] struct {
	db          *gorm.DB
	log         *logger.Logger
	repo        contentrepo.OrderedRepo[T]
	progression ProgressionService
}

func NewContentService[T any, PT orderable[T]](db *gorm.DB, baseLog *logger.Logger, repo contentrepo.OrderedRepo[T], progression ProgressionService) ContentService[T] {
	return &contentService[T, PT]{
		db:          db,
		log:         baseLog.With("service", "ContentService", "kind", string(repo.Kind())),
		repo:        repo,
		progression: progression,
	}
}

func (s *contentService[T, PT]) Kind() domaincontent.Kind { return s.repo.Kind() }

func validate(v any) error {
	if val, ok := v.(domaincontent.Validator); ok {
		return val.Validate()
	}
	return nil
}

func (s *contentService[T, PT]) Create(dbc dbctx.Context, item *T) (*T, error) {
	if item == nil {
		return nil, fmt.Errorf("missing body: %w", pkgerrors.ErrInvalidArgument)
	}
	if err := validate(item); err != nil {
		return nil, err
	}
	PT(item).SetID(uuid.Nil)

	var created *T
	err := withTx(dbc, s.db, func(inner dbctx.Context) error {
		out, err := s.repo.Create(inner, item)
		if err != nil {
			return fmt.Errorf("create %s: %w", s.Kind(), err)
		}
		created = out
		return s.extendTrack(inner)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("content created", "id", PT(created).GetID(), "order", PT(created).GetOrder())
	return created, nil
}

// extendTrack runs the bundle assembler for the kind's track. A concurrent
// run holding the pass lock will pick up the new row, so busy is not an
// error.
func (s *contentService[T, PT]) extendTrack(dbc dbctx.Context) error {
	if s.progression == nil {
		return nil
	}
	var err error
	switch {
	case s.Kind().IsWeekly():
		_, err = s.progression.GenerateWeeklyContent(dbc)
	case s.Kind().IsDaily():
		_, err = s.progression.GenerateDailyContent(dbc)
	default:
		return nil
	}
	if errors.Is(err, ErrPassBusy) {
		s.log.Info("bundle generation already running; skipping", "kind", s.Kind())
		return nil
	}
	return err
}

func (s *contentService[T, PT]) Get(dbc dbctx.Context, id uuid.UUID) (*T, error) {
	found, err := s.repo.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 || found[0] == nil {
		return nil, fmt.Errorf("%s %s: %w", s.Kind(), id, pkgerrors.ErrNotFound)
	}
	return found[0], nil
}

func (s *contentService[T, PT]) List(dbc dbctx.Context) ([]*T, error) {
	return s.repo.ListOrdered(dbc)
}

// Update replaces the editable fields; id and order stay as stored.
func (s *contentService[T, PT]) Update(dbc dbctx.Context, id uuid.UUID, item *T) (*T, error) {
	if item == nil {
		return nil, fmt.Errorf("missing body: %w", pkgerrors.ErrInvalidArgument)
	}
	if err := validate(item); err != nil {
		return nil, err
	}
	existing, err := s.Get(dbc, id)
	if err != nil {
		return nil, err
	}
	PT(item).SetID(id)
	PT(item).SetOrder(PT(existing).GetOrder())
	if err := s.repo.Save(dbc, item); err != nil {
		return nil, fmt.Errorf("update %s: %w", s.Kind(), err)
	}
	return item, nil
}

// Delete soft-deletes the row. Bundles keep their link to it; positions are
// never renumbered.
func (s *contentService[T, PT]) Delete(dbc dbctx.Context, id uuid.UUID) error {
	if _, err := s.Get(dbc, id); err != nil {
		return err
	}
	return s.repo.Delete(dbc, id)
}

// withTx runs fn inside dbc's transaction, or a new one when dbc has none.
func withTx(dbc dbctx.Context, db *gorm.DB, fn func(inner dbctx.Context) error) error {
	if dbc.Tx != nil {
		return fn(dbc)
	}
	return db.WithContext(dbc.Context()).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: dbc.Context(), Tx: tx})
	})
}
