package content

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domaincontent "github.com/yungbote/contentflow-backend/internal/domain/content"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
)

// SequenceRepo answers order questions across several content tables in a
// single round trip.
type SequenceRepo interface {
	MaxOrders(dbc dbctx.Context, kinds []domaincontent.Kind) (map[domaincontent.Kind]int, error)
	IDsByOrderRange(dbc dbctx.Context, kind domaincontent.Kind, after, upTo int) (map[int]uuid.UUID, error)
}

type sequenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSequenceRepo(db *gorm.DB, baseLog *logger.Logger) SequenceRepo {
	return &sequenceRepo{db: db, log: baseLog.With("repo", "SequenceRepo")}
}

func (r *sequenceRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Context())
	}
	return r.db.WithContext(dbc.Context())
}

type kindMax struct {
	Kind     string
	MaxOrder int
}

func (r *sequenceRepo) MaxOrders(dbc dbctx.Context, kinds []domaincontent.Kind) (map[domaincontent.Kind]int, error) {
	out := make(map[domaincontent.Kind]int, len(kinds))
	if len(kinds) == 0 {
		return out, nil
	}
	parts := make([]string, 0, len(kinds))
	args := make([]interface{}, 0, len(kinds))
	for _, k := range kinds {
		if _, err := domaincontent.ParseKind(string(k)); err != nil {
			return nil, err
		}
		out[k] = 0
		// Table names come from the closed Kind set above.
		parts = append(parts, fmt.Sprintf(
			"SELECT ? AS kind, COALESCE(MAX(sort_order), 0) AS max_order FROM %s WHERE deleted_at IS NULL",
			k.Table(),
		))
		args = append(args, string(k))
	}

	var rows []kindMax
	if err := r.dbx(dbc).Raw(strings.Join(parts, " UNION ALL "), args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("max orders: %w", err)
	}
	for _, row := range rows {
		out[domaincontent.Kind(row.Kind)] = row.MaxOrder
	}
	return out, nil
}

type orderedID struct {
	ID        uuid.UUID
	SortOrder int
}

// IDsByOrderRange returns ids keyed by order for after < order <= upTo.
// When two live rows share an order the earliest created wins.
func (r *sequenceRepo) IDsByOrderRange(dbc dbctx.Context, kind domaincontent.Kind, after, upTo int) (map[int]uuid.UUID, error) {
	out := map[int]uuid.UUID{}
	if upTo <= after {
		return out, nil
	}
	if _, err := domaincontent.ParseKind(string(kind)); err != nil {
		return nil, err
	}
	var rows []orderedID
	if err := r.dbx(dbc).
		Table(kind.Table()).
		Select("id, sort_order").
		Where("sort_order > ? AND sort_order <= ? AND deleted_at IS NULL", after, upTo).
		Order("sort_order ASC, created_at ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("ids by order %s: %w", kind, err)
	}
	for _, row := range rows {
		if _, seen := out[row.SortOrder]; !seen {
			out[row.SortOrder] = row.ID
		}
	}
	return out, nil
}
