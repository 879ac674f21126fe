package content

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domaincontent "github.com/yungbote/contentflow-backend/internal/domain/content"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
)

// orderedPtr constrains T to content rows whose pointer carries an order.
type orderedPtr[T any] interface {
	*T
	domaincontent.Orderable
}

// OrderedRepo is the shared CRUD surface for orderable content tables.
type OrderedRepo[T any] interface {
	Kind() domaincontent.Kind
	Create(dbc dbctx.Context, item *T) (*T, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*T, error)
	GetByOrder(dbc dbctx.Context, order int) (*T, error)
	ListOrdered(dbc dbctx.Context) ([]*T, error)
	MaxOrder(dbc dbctx.Context) (int, error)
	Save(dbc dbctx.Context, item *T) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type orderedRepo[T any, PT orderedPtr[T]] struct {
	db   *gorm.DB
	kind domaincontent.Kind
	log  *logger.Logger
}

func NewOrderedRepo[T any, PT orderedPtr[T]](db *gorm.DB, baseLog *logger.Logger, kind domaincontent.Kind) OrderedRepo[T] {
	return &orderedRepo[T, PT]{
		db:   db,
		kind: kind,
		log:  baseLog.With("repo", "OrderedRepo", "kind", string(kind)),
	}
}

func (r *orderedRepo[T, PT]) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Context())
	}
	return r.db.WithContext(dbc.Context())
}

func (r *orderedRepo[T, PT]) Kind() domaincontent.Kind { return r.kind }

// Create assigns order = current max + 1. Callers wanting a gap-free,
// race-free sequence run it inside a transaction.
func (r *orderedRepo[T, PT]) Create(dbc dbctx.Context, item *T) (*T, error) {
	if item == nil {
		return nil, fmt.Errorf("create %s: nil item", r.kind)
	}
	max, err := r.MaxOrder(dbc)
	if err != nil {
		return nil, err
	}
	PT(item).SetOrder(max + 1)
	if err := r.dbx(dbc).Create(item).Error; err != nil {
		return nil, fmt.Errorf("create %s: %w", r.kind, err)
	}
	return item, nil
}

func (r *orderedRepo[T, PT]) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*T, error) {
	var out []*T
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.dbx(dbc).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *orderedRepo[T, PT]) GetByOrder(dbc dbctx.Context, order int) (*T, error) {
	var row T
	if err := r.dbx(dbc).
		Where("sort_order = ?", order).
		Order("created_at ASC").
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if PT(&row).GetID() == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *orderedRepo[T, PT]) ListOrdered(dbc dbctx.Context) ([]*T, error) {
	var out []*T
	if err := r.dbx(dbc).
		Order("sort_order ASC, created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *orderedRepo[T, PT]) MaxOrder(dbc dbctx.Context) (int, error) {
	var max int
	if err := r.dbx(dbc).
		Model(new(T)).
		Select("COALESCE(MAX(sort_order), 0)").
		Scan(&max).Error; err != nil {
		return 0, fmt.Errorf("max order %s: %w", r.kind, err)
	}
	return max, nil
}

// Save writes every column except the order, which is fixed at create time.
func (r *orderedRepo[T, PT]) Save(dbc dbctx.Context, item *T) error {
	if item == nil || PT(item).GetID() == uuid.Nil {
		return fmt.Errorf("save %s: missing id", r.kind)
	}
	return r.dbx(dbc).
		Model(item).
		Select("*").
		Omit("id", "sort_order", "created_at", "deleted_at").
		Updates(item).Error
}

func (r *orderedRepo[T, PT]) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return r.dbx(dbc).
		Where("id = ?", id).
		Delete(new(T)).Error
}
