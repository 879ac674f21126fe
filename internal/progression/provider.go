package progression

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/contentflow-backend/internal/domain/content"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
)

// OrderedContentProvider answers "which item of this kind sits at order n".
// A false result means the bundle slot stays empty.
type OrderedContentProvider interface {
	ByOrder(kind content.Kind, order int) (uuid.UUID, bool)
}

// OrderIndex is an OrderedContentProvider filled by one range query per kind.
type OrderIndex map[content.Kind]map[int]uuid.UUID

func (ix OrderIndex) ByOrder(kind content.Kind, order int) (uuid.UUID, bool) {
	id, ok := ix[kind][order]
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// LoadOrderIndex fetches ids for after < order <= upTo for each kind.
func LoadOrderIndex(dbc dbctx.Context, seq SequenceStore, kinds []content.Kind, after, upTo int) (OrderIndex, error) {
	ix := make(OrderIndex, len(kinds))
	for _, k := range kinds {
		ids, err := seq.IDsByOrderRange(dbc, k, after, upTo)
		if err != nil {
			return nil, fmt.Errorf("load %s orders: %w", k, err)
		}
		ix[k] = ids
	}
	return ix, nil
}

// link turns a provider lookup into a nullable column value.
func link(p OrderedContentProvider, kind content.Kind, order int) *uuid.UUID {
	id, ok := p.ByOrder(kind, order)
	if !ok {
		return nil
	}
	return &id
}
