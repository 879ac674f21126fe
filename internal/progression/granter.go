package progression

import (
	"fmt"

	"github.com/google/uuid"

	types "github.com/yungbote/contentflow-backend/internal/domain"
	"github.com/yungbote/contentflow-backend/internal/domain/access"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
)

type BulkGrantResult struct {
	TotalUsers  int `json:"total_users"`
	TotalSeries int `json:"total_series"`
	Granted     int `json:"granted"`
	Skipped     int `json:"skipped"`
}

// Granter makes sure every (user, series) pair and every user's article
// track has an access row. Existing rows are never touched.
type Granter struct {
	users    UserStore
	series   SeriesStore
	articles ArticleStore
	access   AccessStore
	log      *logger.Logger
}

func NewGranter(s Stores, baseLog *logger.Logger) *Granter {
	return &Granter{
		users:    s.Users,
		series:   s.Series,
		articles: s.Articles,
		access:   s.Access,
		log:      baseLog.With("component", "Granter"),
	}
}

// GrantAll fills the whole user x series matrix plus article tracks.
func (g *Granter) GrantAll(dbc dbctx.Context) (BulkGrantResult, error) {
	users, err := g.users.ListAll(dbc)
	if err != nil {
		return BulkGrantResult{}, fmt.Errorf("load users: %w", err)
	}
	series, err := g.series.ListAll(dbc)
	if err != nil {
		return BulkGrantResult{}, fmt.Errorf("load series: %w", err)
	}
	keys, err := g.access.ListKeys(dbc)
	if err != nil {
		return BulkGrantResult{}, fmt.Errorf("load access keys: %w", err)
	}
	return g.grant(dbc, userIDsOf(users), series, keys)
}

// GrantForSeries opens a newly created series to every user.
func (g *Granter) GrantForSeries(dbc dbctx.Context, seriesID uuid.UUID) (BulkGrantResult, error) {
	found, err := g.series.GetByIDs(dbc, []uuid.UUID{seriesID})
	if err != nil {
		return BulkGrantResult{}, fmt.Errorf("load series: %w", err)
	}
	if len(found) == 0 {
		return BulkGrantResult{}, nil
	}
	users, err := g.users.ListAll(dbc)
	if err != nil {
		return BulkGrantResult{}, fmt.Errorf("load users: %w", err)
	}
	keys, err := g.access.ListKeys(dbc)
	if err != nil {
		return BulkGrantResult{}, fmt.Errorf("load access keys: %w", err)
	}
	return g.grant(dbc, userIDsOf(users), found, keys)
}

// GrantForUser opens every series and the article track to one user.
func (g *Granter) GrantForUser(dbc dbctx.Context, userID uuid.UUID) (BulkGrantResult, error) {
	series, err := g.series.ListAll(dbc)
	if err != nil {
		return BulkGrantResult{}, fmt.Errorf("load series: %w", err)
	}
	existing, err := g.access.ListByUserIDs(dbc, []uuid.UUID{userID})
	if err != nil {
		return BulkGrantResult{}, fmt.Errorf("load access rows: %w", err)
	}
	return g.grant(dbc, []uuid.UUID{userID}, series, existing)
}

// GrantAccess lazily creates a single row and returns whichever row now
// exists for (user, target).
func (g *Granter) GrantAccess(dbc dbctx.Context, userID uuid.UUID, target access.Target) (*types.UserSeriesAccess, error) {
	row, err := g.access.Get(dbc, userID, target)
	if err != nil {
		return nil, err
	}
	if row != nil {
		return row, nil
	}
	start := 1
	var articleID *uuid.UUID
	if target.IsArticleTrack() {
		first, err := g.firstArticle(dbc)
		if err != nil {
			return nil, err
		}
		if first == nil {
			return nil, nil
		}
		start = first.Order
		id := first.ID
		articleID = &id
	}
	created := access.New(userID, target, start)
	created.ArticleID = articleID
	if _, err := g.access.BulkCreate(dbc, []*types.UserSeriesAccess{created}); err != nil {
		return nil, fmt.Errorf("grant %s: %w", target, err)
	}
	return g.access.Get(dbc, userID, target)
}

func (g *Granter) grant(dbc dbctx.Context, userIDs []uuid.UUID, series []*types.Series, existing []*types.UserSeriesAccess) (BulkGrantResult, error) {
	res := BulkGrantResult{TotalUsers: len(userIDs), TotalSeries: len(series)}

	have := make(map[uuid.UUID]map[string]struct{}, len(userIDs))
	for _, row := range existing {
		m, ok := have[row.UserID]
		if !ok {
			m = map[string]struct{}{}
			have[row.UserID] = m
		}
		m[row.TargetKey] = struct{}{}
	}
	has := func(userID uuid.UUID, t access.Target) bool {
		_, ok := have[userID][t.Key()]
		return ok
	}

	first, err := g.firstArticle(dbc)
	if err != nil {
		return res, err
	}

	var rows []*types.UserSeriesAccess
	for _, uid := range userIDs {
		for _, s := range series {
			t := access.SeriesTarget(s.ID)
			if has(uid, t) {
				res.Skipped++
				continue
			}
			rows = append(rows, access.New(uid, t, 1))
		}
		if first == nil {
			continue
		}
		if has(uid, access.ArticleTrack()) {
			res.Skipped++
			continue
		}
		row := access.New(uid, access.ArticleTrack(), first.Order)
		articleID := first.ID
		row.ArticleID = &articleID
		rows = append(rows, row)
	}

	n, err := g.access.BulkCreate(dbc, rows)
	if err != nil {
		return res, fmt.Errorf("bulk grant: %w", err)
	}
	res.Granted = n
	// Rows another writer inserted between the diff and the insert.
	res.Skipped += len(rows) - n
	g.log.Info("access granted", "users", res.TotalUsers, "series", res.TotalSeries, "granted", res.Granted, "skipped", res.Skipped)
	return res, nil
}

// firstArticle is article #1, or the lowest ordered article when #1 is gone.
func (g *Granter) firstArticle(dbc dbctx.Context) (*types.Article, error) {
	first, err := g.articles.GetByOrder(dbc, 1)
	if err != nil {
		return nil, fmt.Errorf("load first article: %w", err)
	}
	if first != nil {
		return first, nil
	}
	all, err := g.articles.ListOrdered(dbc)
	if err != nil {
		return nil, fmt.Errorf("load articles: %w", err)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func userIDsOf(users []*types.User) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}
