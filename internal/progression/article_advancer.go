package progression

import (
	"fmt"

	"github.com/google/uuid"

	types "github.com/yungbote/contentflow-backend/internal/domain"
	"github.com/yungbote/contentflow-backend/internal/domain/access"
	"github.com/yungbote/contentflow-backend/internal/domain/progress"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
)

type ArticleAdvanceResult struct {
	Evaluated  int         `json:"evaluated"`
	Created    int         `json:"created"`
	Updated    int         `json:"updated"`
	Skipped    int         `json:"skipped"`
	Candidates []uuid.UUID `json:"candidates"`
}

// ArticleAdvancer keeps each user's article track at least at the article
// for their current week. The track only moves forward.
type ArticleAdvancer struct {
	users    UserStore
	weekly   WeeklyContentStore
	articles ArticleStore
	progress ProgressStore
	access   AccessStore
	log      *logger.Logger
}

func NewArticleAdvancer(s Stores, baseLog *logger.Logger) *ArticleAdvancer {
	return &ArticleAdvancer{
		users:    s.Users,
		weekly:   s.Weekly,
		articles: s.Articles,
		progress: s.Progress,
		access:   s.Access,
		log:      baseLog.With("component", "ArticleAdvancer"),
	}
}

// UpdateForUser points the user's article track at the article for week.
// It is a no-op when no article carries that order or the track is already
// at or past it.
func (a *ArticleAdvancer) UpdateForUser(dbc dbctx.Context, userID uuid.UUID, week WeekOrder) (bool, error) {
	article, err := a.articles.GetByOrder(dbc, int(week))
	if err != nil {
		return false, fmt.Errorf("load article for week %d: %w", week, err)
	}
	if article == nil {
		return false, nil
	}
	row, err := a.access.Get(dbc, userID, access.ArticleTrack())
	if err != nil {
		return false, fmt.Errorf("load article track: %w", err)
	}
	_, changed, err := a.sync(dbc, userID, article, row)
	return changed, err
}

// SyncUser resolves the user's current week and applies UpdateForUser.
// Unknown users are a no-op.
func (a *ArticleAdvancer) SyncUser(dbc dbctx.Context, userID uuid.UUID) (bool, error) {
	users, err := a.users.GetByIDs(dbc, []uuid.UUID{userID})
	if err != nil {
		return false, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 || users[0] == nil {
		return false, nil
	}
	weeks, err := a.weekly.ListAll(dbc)
	if err != nil {
		return false, fmt.Errorf("load weekly content: %w", err)
	}
	return a.UpdateForUser(dbc, userID, weekIndexOf(weeks).currentWeek(users[0]))
}

// sync applies the monotonic rule against a preloaded row (nil if absent)
// and returns the row as it now stands.
func (a *ArticleAdvancer) sync(dbc dbctx.Context, userID uuid.UUID, article *types.Article, row *types.UserSeriesAccess) (*types.UserSeriesAccess, bool, error) {
	if row == nil {
		created := access.New(userID, access.ArticleTrack(), article.Order)
		articleID := article.ID
		created.ArticleID = &articleID
		n, err := a.access.BulkCreate(dbc, []*types.UserSeriesAccess{created})
		if err != nil {
			return nil, false, fmt.Errorf("create article track: %w", err)
		}
		if n == 1 {
			return created, true, nil
		}
		// Lost a race with another writer; continue against its row.
		row, err = a.access.Get(dbc, userID, access.ArticleTrack())
		if err != nil {
			return nil, false, fmt.Errorf("reload article track: %w", err)
		}
		if row == nil {
			return nil, false, nil
		}
	}

	if article.Order <= row.CurrentAccessibleSequence {
		return row, false, nil
	}
	articleID := article.ID
	raised, err := a.access.Raise(dbc, row.ID, article.Order, &articleID)
	if err != nil {
		return row, false, fmt.Errorf("raise article track: %w", err)
	}
	if raised {
		row.CurrentAccessibleSequence = article.Order
		row.ArticleID = &articleID
	}
	return row, raised, nil
}

// Advance syncs the article track of every user with a completed article
// and returns, as Candidates, those who finished their current week's
// article.
func (a *ArticleAdvancer) Advance(dbc dbctx.Context) (ArticleAdvanceResult, error) {
	var res ArticleAdvanceResult

	facts, err := a.progress.ListCompleted(dbc, progress.TargetArticle)
	if err != nil {
		return res, fmt.Errorf("load article completions: %w", err)
	}
	if len(facts) == 0 {
		return res, nil
	}
	completed := completedSet(facts)
	userIDs := make([]uuid.UUID, 0, len(completed))
	for id := range completed {
		userIDs = append(userIDs, id)
	}
	userIDs = uniqueIDs(userIDs)

	users, err := a.users.GetByIDs(dbc, userIDs)
	if err != nil {
		return res, fmt.Errorf("load users: %w", err)
	}
	userByID := make(map[uuid.UUID]*types.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}
	weeks, err := a.weekly.ListAll(dbc)
	if err != nil {
		return res, fmt.Errorf("load weekly content: %w", err)
	}
	weekIx := weekIndexOf(weeks)
	articles, err := a.articles.ListOrdered(dbc)
	if err != nil {
		return res, fmt.Errorf("load articles: %w", err)
	}
	byOrder := articlesByOrder(articles)
	rows, err := a.access.ListByUserIDs(dbc, userIDs)
	if err != nil {
		return res, fmt.Errorf("load access rows: %w", err)
	}
	accessByUser := groupAccess(rows)

	for _, id := range userIDs {
		u, ok := userByID[id]
		if !ok {
			res.Skipped++
			continue
		}
		res.Evaluated++
		week := weekIx.currentWeek(u)
		article, ok := byOrder[int(week)]
		if !ok {
			continue
		}
		var current *types.UserSeriesAccess
		if ua := accessByUser[id]; ua != nil {
			current = ua.article
		}
		existed := current != nil
		_, changed, err := a.sync(dbc, id, article, current)
		if err != nil {
			return res, fmt.Errorf("user=%s: %w", id, err)
		}
		switch {
		case changed && !existed:
			res.Created++
		case changed:
			res.Updated++
		}
		if completed[id][article.ID] {
			res.Candidates = append(res.Candidates, id)
		}
	}
	a.log.Debug("article advance done", "evaluated", res.Evaluated, "created", res.Created, "updated", res.Updated, "candidates", len(res.Candidates))
	return res, nil
}
