package progression

import (
	"fmt"

	"github.com/google/uuid"

	types "github.com/yungbote/contentflow-backend/internal/domain"
	"github.com/yungbote/contentflow-backend/internal/domain/progress"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
)

type WeekAdvance struct {
	UserID  uuid.UUID `json:"user_id"`
	From    WeekOrder `json:"from"`
	To      WeekOrder `json:"to"`
	Wrapped bool      `json:"wrapped"`
}

type WeeklyAdvanceResult struct {
	Evaluated      int           `json:"evaluated"`
	Advanced       int           `json:"advanced"`
	Skipped        int           `json:"skipped"`
	ArticleUpdates int           `json:"article_updates"`
	Advances       []WeekAdvance `json:"advances"`
}

// WeeklyAdvancer moves a user to the next weekly bundle once both gates
// hold: the current week's article is completed (or the week has none) and
// some series is unlocked past the current week number.
type WeeklyAdvancer struct {
	users    UserStore
	weekly   WeeklyContentStore
	articles ArticleStore
	progress ProgressStore
	access   AccessStore
	cascade  *ArticleAdvancer
	log      *logger.Logger
}

func NewWeeklyAdvancer(s Stores, cascade *ArticleAdvancer, baseLog *logger.Logger) *WeeklyAdvancer {
	return &WeeklyAdvancer{
		users:    s.Users,
		weekly:   s.Weekly,
		articles: s.Articles,
		progress: s.Progress,
		access:   s.Access,
		cascade:  cascade,
		log:      baseLog.With("component", "WeeklyAdvancer"),
	}
}

// Advance evaluates only the given candidate users.
func (a *WeeklyAdvancer) Advance(dbc dbctx.Context, candidates []uuid.UUID) (WeeklyAdvanceResult, error) {
	var res WeeklyAdvanceResult
	candidates = uniqueIDs(candidates)
	if len(candidates) == 0 {
		return res, nil
	}

	weeks, err := a.weekly.ListAll(dbc)
	if err != nil {
		return res, fmt.Errorf("load weekly content: %w", err)
	}
	weekIx := weekIndexOf(weeks)
	if weekIx.max == 0 {
		a.log.Debug("no weekly content; nobody advances", "candidates", len(candidates))
		return res, nil
	}
	maxWeek := WeekOrder(weekIx.max)

	users, err := a.users.GetByIDs(dbc, candidates)
	if err != nil {
		return res, fmt.Errorf("load users: %w", err)
	}
	userByID := make(map[uuid.UUID]*types.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}
	articles, err := a.articles.ListOrdered(dbc)
	if err != nil {
		return res, fmt.Errorf("load articles: %w", err)
	}
	byOrder := articlesByOrder(articles)
	facts, err := a.progress.ListCompletedForUsers(dbc, progress.TargetArticle, candidates)
	if err != nil {
		return res, fmt.Errorf("load article completions: %w", err)
	}
	completed := completedSet(facts)
	rows, err := a.access.ListByUserIDs(dbc, candidates)
	if err != nil {
		return res, fmt.Errorf("load access rows: %w", err)
	}
	accessByUser := groupAccess(rows)

	for _, id := range candidates {
		u, ok := userByID[id]
		if !ok {
			res.Skipped++
			continue
		}
		res.Evaluated++
		ua := accessByUser[id]
		if ua == nil {
			ua = &userAccess{}
		}

		current := weekIx.currentWeek(u)
		if !articleGate(byOrder[int(current)], completed[id]) {
			continue
		}
		if !episodeGate(ua.series, current) {
			continue
		}

		next, _ := current.Advance(maxWeek)
		bundleID, ok := weekIx.idByOrder[int(next)]
		if !ok {
			res.Skipped++
			continue
		}
		if err := a.users.UpdateWeeklyContentID(dbc, id, bundleID); err != nil {
			return res, fmt.Errorf("advance user=%s to week %d: %w", id, next, err)
		}
		res.Advanced++
		res.Advances = append(res.Advances, WeekAdvance{UserID: id, From: current, To: next, Wrapped: int(current)+1 > int(maxWeek)})

		if article, ok := byOrder[int(next)]; ok {
			_, changed, err := a.cascade.sync(dbc, id, article, ua.article)
			if err != nil {
				return res, fmt.Errorf("cascade article track user=%s: %w", id, err)
			}
			if changed {
				res.ArticleUpdates++
			}
		}
	}
	a.log.Debug("weekly advance done", "evaluated", res.Evaluated, "advanced", res.Advanced, "skipped", res.Skipped)
	return res, nil
}

// articleGate passes when the week has no article or the user completed it.
func articleGate(article *types.Article, completed map[uuid.UUID]bool) bool {
	if article == nil {
		return true
	}
	return completed[article.ID]
}

// episodeGate passes when any series is unlocked beyond the week number.
func episodeGate(series []*types.UserSeriesAccess, week WeekOrder) bool {
	for _, r := range series {
		if r.CurrentAccessibleSequence > int(week) {
			return true
		}
	}
	return false
}
