package progression

import (
	"fmt"

	types "github.com/yungbote/contentflow-backend/internal/domain"
	"github.com/yungbote/contentflow-backend/internal/domain/content"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
)

// BundleSpec describes one bundle track: the kinds it draws from and how a
// row for position n is built.
type BundleSpec[B any] struct {
	Name  string
	Kinds []content.Kind
	Build func(order int, p OrderedContentProvider) *B
}

func WeeklySpec() BundleSpec[types.WeeklyContent] {
	return BundleSpec[types.WeeklyContent]{
		Name:  "weekly",
		Kinds: content.WeeklyKinds,
		Build: func(order int, p OrderedContentProvider) *types.WeeklyContent {
			return &types.WeeklyContent{
				WeekOrder:        order,
				MusicID:          link(p, content.KindMusic, order),
				MovieID:          link(p, content.KindMovie, order),
				TaskID:           link(p, content.KindTask, order),
				WeeklyQuestionID: link(p, content.KindWeeklyQuestion, order),
			}
		},
	}
}

func DailySpec() BundleSpec[types.DailyContent] {
	return BundleSpec[types.DailyContent]{
		Name:  "daily",
		Kinds: content.DailyKinds,
		Build: func(order int, p OrderedContentProvider) *types.DailyContent {
			return &types.DailyContent{
				DayOrder:      order,
				AffirmationID: link(p, content.KindAffirmation, order),
				AphorismID:    link(p, content.KindAphorism, order),
			}
		},
	}
}

type GenerateResult struct {
	LastOrder  int `json:"last_order"`
	UpperBound int `json:"upper_bound"`
	Created    int `json:"created"`
	Skipped    int `json:"skipped"`
}

// Assembler extends a bundle track up to the smallest max order among its
// source kinds. Run it inside one transaction; the insert ignores positions
// that already exist, so repeated or racing runs add nothing.
type Assembler[B any] struct {
	spec    BundleSpec[B]
	seq     SequenceStore
	bundles BundleStore[B]
	log     *logger.Logger
}

func NewAssembler[B any](spec BundleSpec[B], seq SequenceStore, bundles BundleStore[B], baseLog *logger.Logger) *Assembler[B] {
	return &Assembler[B]{
		spec:    spec,
		seq:     seq,
		bundles: bundles,
		log:     baseLog.With("component", "Assembler", "track", spec.Name),
	}
}

func (a *Assembler[B]) Generate(dbc dbctx.Context) (GenerateResult, error) {
	var res GenerateResult

	last, err := a.bundles.MaxOrder(dbc)
	if err != nil {
		return res, fmt.Errorf("%s: last generated: %w", a.spec.Name, err)
	}
	maxes, err := a.seq.MaxOrders(dbc, a.spec.Kinds)
	if err != nil {
		return res, fmt.Errorf("%s: max orders: %w", a.spec.Name, err)
	}
	upper := minOrder(maxes, a.spec.Kinds)
	res.LastOrder, res.UpperBound = last, upper
	if upper <= last {
		return res, nil
	}

	idx, err := LoadOrderIndex(dbc, a.seq, a.spec.Kinds, last, upper)
	if err != nil {
		return res, fmt.Errorf("%s: %w", a.spec.Name, err)
	}
	rows := make([]*B, 0, upper-last)
	for i := last + 1; i <= upper; i++ {
		rows = append(rows, a.spec.Build(i, idx))
	}

	n, err := a.bundles.CreateMany(dbc, rows)
	if err != nil {
		return res, fmt.Errorf("%s: create bundles: %w", a.spec.Name, err)
	}
	res.Created = n
	res.Skipped = len(rows) - n
	a.log.Info("bundles generated", "from", last+1, "to", upper, "created", n)
	return res, nil
}

// minOrder is the min of the per-kind maxes; a kind with no rows pins it
// to zero.
func minOrder(maxes map[content.Kind]int, kinds []content.Kind) int {
	if len(kinds) == 0 {
		return 0
	}
	min := -1
	for _, k := range kinds {
		v := maxes[k]
		if min < 0 || v < min {
			min = v
		}
	}
	if min < 0 {
		return 0
	}
	return min
}
