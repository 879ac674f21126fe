package progression

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
)

type ReconcileResult struct {
	Series     SeriesAdvanceResult  `json:"series"`
	Articles   ArticleAdvanceResult `json:"articles"`
	Weekly     WeeklyAdvanceResult  `json:"weekly"`
	Candidates int                  `json:"candidates"`
}

// Summary folds the three steps into the outward counters.
func (r ReconcileResult) Summary() Summary {
	users := map[uuid.UUID]struct{}{}
	for _, id := range r.Series.AdvancedUsers {
		users[id] = struct{}{}
	}
	for _, a := range r.Weekly.Advances {
		users[a.UserID] = struct{}{}
	}
	return Summary{
		TotalUsers:   len(users),
		TotalSeries:  r.Series.TotalSeries,
		UpdatedCount: r.Series.Updated + r.Articles.Created + r.Articles.Updated + r.Weekly.Advanced + r.Weekly.ArticleUpdates,
		SkippedCount: r.Series.Skipped + r.Articles.Skipped + r.Weekly.Skipped,
		Message: fmt.Sprintf(
			"series advanced %d, article tracks synced %d, weeks advanced %d",
			r.Series.Updated, r.Articles.Created+r.Articles.Updated, r.Weekly.Advanced,
		),
	}
}

// Reconciler runs one pass: series, then article tracks, then weeks. Each
// step reads fresh state, so the order matters.
type Reconciler struct {
	series   *SeriesAdvancer
	articles *ArticleAdvancer
	weekly   *WeeklyAdvancer
	log      *logger.Logger
}

func NewReconciler(series *SeriesAdvancer, articles *ArticleAdvancer, weekly *WeeklyAdvancer, baseLog *logger.Logger) *Reconciler {
	return &Reconciler{
		series:   series,
		articles: articles,
		weekly:   weekly,
		log:      baseLog.With("component", "Reconciler"),
	}
}

func (r *Reconciler) Run(dbc dbctx.Context) (ReconcileResult, error) {
	var res ReconcileResult

	s, err := r.series.Advance(dbc)
	if err != nil {
		return res, fmt.Errorf("series step: %w", err)
	}
	res.Series = s

	a, err := r.articles.Advance(dbc)
	if err != nil {
		return res, fmt.Errorf("article step: %w", err)
	}
	res.Articles = a

	candidates := uniqueIDs(append(append([]uuid.UUID{}, s.AdvancedUsers...), a.Candidates...))
	res.Candidates = len(candidates)

	w, err := r.weekly.Advance(dbc, candidates)
	if err != nil {
		return res, fmt.Errorf("weekly step: %w", err)
	}
	res.Weekly = w

	r.log.Info("reconcile pass done",
		"series_updated", s.Updated,
		"article_tracks", a.Created+a.Updated,
		"weeks_advanced", w.Advanced,
		"candidates", len(candidates),
	)
	return res, nil
}
