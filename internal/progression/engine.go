package progression

import (
	types "github.com/yungbote/contentflow-backend/internal/domain"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
)

// Engine wires every progression component over one set of stores.
type Engine struct {
	WeeklyAssembler *Assembler[types.WeeklyContent]
	DailyAssembler  *Assembler[types.DailyContent]
	Series          *SeriesAdvancer
	Articles        *ArticleAdvancer
	Weekly          *WeeklyAdvancer
	Daily           *DailyAdvancer
	Granter         *Granter
	Reconciler      *Reconciler
}

func NewEngine(s Stores, baseLog *logger.Logger) *Engine {
	log := baseLog.With("module", "progression")
	articles := NewArticleAdvancer(s, log)
	series := NewSeriesAdvancer(s, log)
	weekly := NewWeeklyAdvancer(s, articles, log)
	return &Engine{
		WeeklyAssembler: NewAssembler[types.WeeklyContent](WeeklySpec(), s.Sequence, s.Weekly, log),
		DailyAssembler:  NewAssembler[types.DailyContent](DailySpec(), s.Sequence, s.Daily, log),
		Series:          series,
		Articles:        articles,
		Weekly:          weekly,
		Daily:           NewDailyAdvancer(s, log),
		Granter:         NewGranter(s, log),
		Reconciler:      NewReconciler(series, articles, weekly, log),
	}
}
