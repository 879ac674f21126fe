package progression

import (
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/contentflow-backend/internal/domain"
	"github.com/yungbote/contentflow-backend/internal/domain/access"
	"github.com/yungbote/contentflow-backend/internal/domain/content"
	"github.com/yungbote/contentflow-backend/internal/domain/progress"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
)

// memStore is an in-memory implementation of every engine port.
type memStore struct {
	users    map[uuid.UUID]*types.User
	series   map[uuid.UUID]*types.Series
	episodes map[uuid.UUID]*types.Episode
	articles []*types.Article
	ordered  map[content.Kind][]orderedRow
	weekly   []*types.WeeklyContent
	daily    []*types.DailyContent
	access   []*types.UserSeriesAccess
	progress []*types.UserProgress

	writes int
}

type orderedRow struct {
	id    uuid.UUID
	order int
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[uuid.UUID]*types.User{},
		series:   map[uuid.UUID]*types.Series{},
		episodes: map[uuid.UUID]*types.Episode{},
		ordered:  map[content.Kind][]orderedRow{},
	}
}

func (m *memStore) stores() Stores {
	return Stores{
		Users:    memUsers{m},
		Series:   memSeries{m},
		Episodes: memEpisodes{m},
		Articles: memArticles{m},
		Weekly:   memWeekly{m},
		Daily:    memDaily{m},
		Sequence: memSequence{m},
		Access:   memAccess{m},
		Progress: memProgress{m},
	}
}

func newTestEngine(t *testing.T, m *memStore) *Engine {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewEngine(m.stores(), log)
}

var testDBC = dbctx.Context{}

// seeding helpers

func (m *memStore) addUser() *types.User {
	u := &types.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com"}
	m.users[u.ID] = u
	return u
}

func (m *memStore) addSeries(episodes int) (*types.Series, []*types.Episode) {
	s := &types.Series{ID: uuid.New(), Title: "series"}
	m.series[s.ID] = s
	var eps []*types.Episode
	for i := 1; i <= episodes; i++ {
		e := &types.Episode{ID: uuid.New(), SeriesID: s.ID, SequenceNumber: i}
		m.episodes[e.ID] = e
		eps = append(eps, e)
	}
	return s, eps
}

func (m *memStore) addArticle(order int) *types.Article {
	a := &types.Article{}
	a.ID = uuid.New()
	a.Order = order
	m.articles = append(m.articles, a)
	return a
}

func (m *memStore) addOrdered(kind content.Kind, n int) {
	max := 0
	for _, r := range m.ordered[kind] {
		if r.order > max {
			max = r.order
		}
	}
	for i := 1; i <= n; i++ {
		m.ordered[kind] = append(m.ordered[kind], orderedRow{id: uuid.New(), order: max + i})
	}
}

func (m *memStore) addWeeks(n int) {
	start := len(m.weekly)
	for i := 1; i <= n; i++ {
		m.weekly = append(m.weekly, &types.WeeklyContent{ID: uuid.New(), WeekOrder: start + i})
	}
}

func (m *memStore) addDays(n int) {
	start := len(m.daily)
	for i := 1; i <= n; i++ {
		m.daily = append(m.daily, &types.DailyContent{ID: uuid.New(), DayOrder: start + i})
	}
}

func (m *memStore) setWeek(u *types.User, week int) {
	for _, w := range m.weekly {
		if w.WeekOrder == week {
			id := w.ID
			u.WeeklyContentID = &id
			return
		}
	}
	panic("no such week")
}

func (m *memStore) weekOf(u *types.User) int {
	if u.WeeklyContentID == nil {
		return 1
	}
	for _, w := range m.weekly {
		if w.ID == *u.WeeklyContentID {
			return w.WeekOrder
		}
	}
	return 1
}

func (m *memStore) grant(u *types.User, t access.Target, current int) *types.UserSeriesAccess {
	row := access.New(u.ID, t, current)
	row.ID = uuid.New()
	m.access = append(m.access, row)
	return row
}

func (m *memStore) row(userID uuid.UUID, t access.Target) *types.UserSeriesAccess {
	for _, r := range m.access {
		if r.UserID == userID && r.TargetKey == t.Key() {
			return r
		}
	}
	return nil
}

func (m *memStore) complete(u *types.User, kind progress.TargetKind, target uuid.UUID) {
	for _, p := range m.progress {
		if p.UserID == u.ID && p.TargetKind == kind && p.TargetID == target {
			now := time.Now()
			p.CompleteTime = &now
			return
		}
	}
	m.progress = append(m.progress, progress.Completed(u.ID, kind, target, time.Now()))
}

// port implementations

type memUsers struct{ m *memStore }

func (s memUsers) GetByIDs(_ dbctx.Context, ids []uuid.UUID) ([]*types.User, error) {
	var out []*types.User
	for _, id := range ids {
		if u, ok := s.m.users[id]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s memUsers) ListAll(_ dbctx.Context) ([]*types.User, error) {
	var out []*types.User
	for _, u := range s.m.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (s memUsers) UpdateWeeklyContentID(_ dbctx.Context, userID, weeklyID uuid.UUID) error {
	s.m.writes++
	if u, ok := s.m.users[userID]; ok {
		id := weeklyID
		u.WeeklyContentID = &id
	}
	return nil
}

func (s memUsers) UpdateDailyContentID(_ dbctx.Context, userID, dailyID uuid.UUID) error {
	s.m.writes++
	if u, ok := s.m.users[userID]; ok {
		id := dailyID
		u.DailyContentID = &id
	}
	return nil
}

type memSeries struct{ m *memStore }

func (s memSeries) GetByIDs(_ dbctx.Context, ids []uuid.UUID) ([]*types.Series, error) {
	var out []*types.Series
	for _, id := range ids {
		if v, ok := s.m.series[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s memSeries) ListAll(_ dbctx.Context) ([]*types.Series, error) {
	var out []*types.Series
	for _, v := range s.m.series {
		out = append(out, v)
	}
	return out, nil
}

type memEpisodes struct{ m *memStore }

func (s memEpisodes) GetByIDs(_ dbctx.Context, ids []uuid.UUID) ([]*types.Episode, error) {
	var out []*types.Episode
	for _, id := range ids {
		if v, ok := s.m.episodes[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

type memArticles struct{ m *memStore }

func (s memArticles) GetByOrder(_ dbctx.Context, order int) (*types.Article, error) {
	for _, a := range s.m.articles {
		if a.Order == order {
			return a, nil
		}
	}
	return nil, nil
}

func (s memArticles) ListOrdered(_ dbctx.Context) ([]*types.Article, error) {
	out := append([]*types.Article{}, s.m.articles...)
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

type memWeekly struct{ m *memStore }

func (s memWeekly) MaxOrder(_ dbctx.Context) (int, error) {
	max := 0
	for _, w := range s.m.weekly {
		if w.WeekOrder > max {
			max = w.WeekOrder
		}
	}
	return max, nil
}

func (s memWeekly) CreateMany(_ dbctx.Context, rows []*types.WeeklyContent) (int, error) {
	n := 0
	for _, r := range rows {
		exists := false
		for _, w := range s.m.weekly {
			if w.WeekOrder == r.WeekOrder {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		s.m.weekly = append(s.m.weekly, r)
		s.m.writes++
		n++
	}
	return n, nil
}

func (s memWeekly) ListAll(_ dbctx.Context) ([]*types.WeeklyContent, error) {
	return append([]*types.WeeklyContent{}, s.m.weekly...), nil
}

type memDaily struct{ m *memStore }

func (s memDaily) MaxOrder(_ dbctx.Context) (int, error) {
	max := 0
	for _, d := range s.m.daily {
		if d.DayOrder > max {
			max = d.DayOrder
		}
	}
	return max, nil
}

func (s memDaily) CreateMany(_ dbctx.Context, rows []*types.DailyContent) (int, error) {
	n := 0
	for _, r := range rows {
		exists := false
		for _, d := range s.m.daily {
			if d.DayOrder == r.DayOrder {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		s.m.daily = append(s.m.daily, r)
		n++
	}
	return n, nil
}

func (s memDaily) ListAll(_ dbctx.Context) ([]*types.DailyContent, error) {
	return append([]*types.DailyContent{}, s.m.daily...), nil
}

type memSequence struct{ m *memStore }

func (s memSequence) MaxOrders(_ dbctx.Context, kinds []content.Kind) (map[content.Kind]int, error) {
	out := map[content.Kind]int{}
	for _, k := range kinds {
		for _, r := range s.m.ordered[k] {
			if r.order > out[k] {
				out[k] = r.order
			}
		}
	}
	return out, nil
}

func (s memSequence) IDsByOrderRange(_ dbctx.Context, kind content.Kind, after, upTo int) (map[int]uuid.UUID, error) {
	out := map[int]uuid.UUID{}
	for _, r := range s.m.ordered[kind] {
		if r.order > after && r.order <= upTo {
			out[r.order] = r.id
		}
	}
	return out, nil
}

type memAccess struct{ m *memStore }

func (s memAccess) Get(_ dbctx.Context, userID uuid.UUID, t access.Target) (*types.UserSeriesAccess, error) {
	if r := s.m.row(userID, t); r != nil {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (s memAccess) ListByUserIDs(_ dbctx.Context, ids []uuid.UUID) ([]*types.UserSeriesAccess, error) {
	want := map[uuid.UUID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []*types.UserSeriesAccess
	for _, r := range s.m.access {
		if want[r.UserID] {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s memAccess) ListKeys(_ dbctx.Context) ([]*types.UserSeriesAccess, error) {
	var out []*types.UserSeriesAccess
	for _, r := range s.m.access {
		out = append(out, &types.UserSeriesAccess{UserID: r.UserID, TargetKey: r.TargetKey})
	}
	return out, nil
}

func (s memAccess) BulkCreate(_ dbctx.Context, rows []*types.UserSeriesAccess) (int, error) {
	n := 0
	for _, r := range rows {
		if s.m.row(r.UserID, r.Target()) != nil {
			continue
		}
		cp := *r
		if cp.ID == uuid.Nil {
			cp.ID = uuid.New()
		}
		r.ID = cp.ID
		s.m.access = append(s.m.access, &cp)
		s.m.writes++
		n++
	}
	return n, nil
}

func (s memAccess) AdvanceFrom(_ dbctx.Context, id uuid.UUID, expected int) (bool, error) {
	for _, r := range s.m.access {
		if r.ID == id && r.CurrentAccessibleSequence == expected {
			r.CurrentAccessibleSequence = expected + 1
			s.m.writes++
			return true, nil
		}
	}
	return false, nil
}

func (s memAccess) Raise(_ dbctx.Context, id uuid.UUID, to int, articleID *uuid.UUID) (bool, error) {
	for _, r := range s.m.access {
		if r.ID == id && r.CurrentAccessibleSequence < to {
			r.CurrentAccessibleSequence = to
			if articleID != nil {
				v := *articleID
				r.ArticleID = &v
			}
			s.m.writes++
			return true, nil
		}
	}
	return false, nil
}

type memProgress struct{ m *memStore }

func (s memProgress) ListCompleted(_ dbctx.Context, kind progress.TargetKind) ([]*types.UserProgress, error) {
	var out []*types.UserProgress
	for _, p := range s.m.progress {
		if p.TargetKind == kind && p.IsCompleted {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s memProgress) ListCompletedForUsers(dbc dbctx.Context, kind progress.TargetKind, ids []uuid.UUID) ([]*types.UserProgress, error) {
	want := map[uuid.UUID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	all, _ := s.ListCompleted(dbc, kind)
	var out []*types.UserProgress
	for _, p := range all {
		if want[p.UserID] {
			out = append(out, p)
		}
	}
	return out, nil
}
