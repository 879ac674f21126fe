package content

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind names an orderable content table.
type Kind string

const (
	KindAffirmation    Kind = "affirmation"
	KindAphorism       Kind = "aphorism"
	KindMusic          Kind = "music"
	KindMovie          Kind = "movie"
	KindTask           Kind = "task"
	KindWeeklyQuestion Kind = "weekly_question"
	KindArticle        Kind = "article"
)

// WeeklyKinds feed the weekly bundle; DailyKinds feed the daily one.
var (
	WeeklyKinds = []Kind{KindMusic, KindMovie, KindTask, KindWeeklyQuestion}
	DailyKinds  = []Kind{KindAffirmation, KindAphorism}
)

var allKinds = []Kind{KindAffirmation, KindAphorism, KindMusic, KindMovie, KindTask, KindWeeklyQuestion, KindArticle}

func AllKinds() []Kind {
	out := make([]Kind, len(allKinds))
	copy(out, allKinds)
	return out
}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	for _, known := range allKinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown content kind %q", s)
}

// Table is the table backing the kind. Table names equal the kind names.
func (k Kind) Table() string { return string(k) }

func (k Kind) IsWeekly() bool { return k.in(WeeklyKinds) }

func (k Kind) IsDaily() bool { return k.in(DailyKinds) }

func (k Kind) in(set []Kind) bool {
	for _, s := range set {
		if s == k {
			return true
		}
	}
	return false
}

// Orderable is implemented by every content row that carries a global,
// 1-based order number.
type Orderable interface {
	GetID() uuid.UUID
	SetID(uuid.UUID)
	GetOrder() int
	SetOrder(int)
}
