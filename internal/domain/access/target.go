package access

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type TargetKind string

const (
	TargetSeries  TargetKind = "series"
	TargetArticle TargetKind = "article"
)

const (
	articleKey   = "article"
	seriesPrefix = "series:"
)

// Target identifies what an access row unlocks: one series, or the single
// per-user article track.
type Target struct {
	kind     TargetKind
	seriesID uuid.UUID
}

func SeriesTarget(seriesID uuid.UUID) Target {
	return Target{kind: TargetSeries, seriesID: seriesID}
}

func ArticleTrack() Target {
	return Target{kind: TargetArticle}
}

func (t Target) Kind() TargetKind { return t.kind }

func (t Target) IsArticleTrack() bool { return t.kind == TargetArticle }

func (t Target) SeriesID() (uuid.UUID, bool) {
	if t.kind != TargetSeries {
		return uuid.Nil, false
	}
	return t.seriesID, true
}

// Key is the value stored in target_key; (user_id, target_key) is unique.
func (t Target) Key() string {
	if t.kind == TargetArticle {
		return articleKey
	}
	return seriesPrefix + t.seriesID.String()
}

func (t Target) String() string { return t.Key() }

func ParseTarget(key string) (Target, error) {
	key = strings.TrimSpace(key)
	if key == articleKey {
		return ArticleTrack(), nil
	}
	if !strings.HasPrefix(key, seriesPrefix) {
		return Target{}, fmt.Errorf("invalid access target %q", key)
	}
	id, err := uuid.Parse(strings.TrimPrefix(key, seriesPrefix))
	if err != nil {
		return Target{}, fmt.Errorf("invalid access target %q: %w", key, err)
	}
	return SeriesTarget(id), nil
}
