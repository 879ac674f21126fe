package progression

import (
	"github.com/google/uuid"

	types "github.com/yungbote/contentflow-backend/internal/domain"
)

// bundleIndex maps bundle ids to their track position and back.
type bundleIndex struct {
	orderByID map[uuid.UUID]int
	idByOrder map[int]uuid.UUID
	max       int
}

func newBundleIndex(n int) *bundleIndex {
	return &bundleIndex{
		orderByID: make(map[uuid.UUID]int, n),
		idByOrder: make(map[int]uuid.UUID, n),
	}
}

func (b *bundleIndex) add(id uuid.UUID, order int) {
	b.orderByID[id] = order
	if _, ok := b.idByOrder[order]; !ok {
		b.idByOrder[order] = id
	}
	if order > b.max {
		b.max = order
	}
}

func weekIndexOf(rows []*types.WeeklyContent) *bundleIndex {
	ix := newBundleIndex(len(rows))
	for _, r := range rows {
		ix.add(r.ID, r.WeekOrder)
	}
	return ix
}

func dayIndexOf(rows []*types.DailyContent) *bundleIndex {
	ix := newBundleIndex(len(rows))
	for _, r := range rows {
		ix.add(r.ID, r.DayOrder)
	}
	return ix
}

// currentWeek resolves the user's week. Users without a bundle, or pointing
// at a bundle that no longer exists, are on week 1.
func (b *bundleIndex) currentWeek(u *types.User) WeekOrder {
	if u.WeeklyContentID == nil {
		return 1
	}
	if order, ok := b.orderByID[*u.WeeklyContentID]; ok && order > 0 {
		return WeekOrder(order)
	}
	return 1
}

// currentDay resolves the user's day; 0 means not yet placed.
func (b *bundleIndex) currentDay(u *types.User) DayOrder {
	if u.DailyContentID == nil {
		return 0
	}
	return DayOrder(b.orderByID[*u.DailyContentID])
}

func articlesByOrder(articles []*types.Article) map[int]*types.Article {
	out := make(map[int]*types.Article, len(articles))
	for _, a := range articles {
		if _, ok := out[a.Order]; !ok {
			out[a.Order] = a
		}
	}
	return out
}

// userAccess splits one user's access rows by target kind.
type userAccess struct {
	series  []*types.UserSeriesAccess
	article *types.UserSeriesAccess
}

func groupAccess(rows []*types.UserSeriesAccess) map[uuid.UUID]*userAccess {
	out := map[uuid.UUID]*userAccess{}
	for _, r := range rows {
		ua, ok := out[r.UserID]
		if !ok {
			ua = &userAccess{}
			out[r.UserID] = ua
		}
		if r.Target().IsArticleTrack() {
			ua.article = r
			continue
		}
		ua.series = append(ua.series, r)
	}
	return out
}

func completedSet(facts []*types.UserProgress) map[uuid.UUID]map[uuid.UUID]bool {
	out := map[uuid.UUID]map[uuid.UUID]bool{}
	for _, f := range facts {
		if !f.IsCompleted {
			continue
		}
		m, ok := out[f.UserID]
		if !ok {
			m = map[uuid.UUID]bool{}
			out[f.UserID] = m
		}
		m[f.TargetID] = true
	}
	return out
}
