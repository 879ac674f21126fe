package content

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/contentflow-backend/internal/data/repos/testutil"
	types "github.com/yungbote/contentflow-backend/internal/domain"
	domaincontent "github.com/yungbote/contentflow-backend/internal/domain/content"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
)

func TestOrderedRepoAssignsMaxPlusOne(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewOrderedRepo[types.Music](db, testutil.Logger(t), domaincontent.KindMusic)

	var created []*types.Music
	for _, title := range []string{"a", "b", "c"} {
		m, err := repo.Create(dbc, &types.Music{Title: title})
		if err != nil {
			t.Fatalf("Create(%s): %v", title, err)
		}
		created = append(created, m)
	}
	for i, m := range created {
		if m.Order != i+1 {
			t.Fatalf("order of %s: want=%d got=%d", m.Title, i+1, m.Order)
		}
	}

	if err := repo.Delete(dbc, created[1].ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err := repo.GetByOrder(dbc, 2)
	if err != nil {
		t.Fatalf("GetByOrder: %v", err)
	}
	if got != nil {
		t.Fatalf("GetByOrder(2) after delete: want=nil got=%+v", got)
	}

	d, err := repo.Create(dbc, &types.Music{Title: "d"})
	if err != nil {
		t.Fatalf("Create(d): %v", err)
	}
	if d.Order != 4 {
		t.Fatalf("order after gap: want=4 got=%d", d.Order)
	}

	list, err := repo.ListOrdered(dbc)
	if err != nil || len(list) != 3 {
		t.Fatalf("ListOrdered: len=%d err=%v", len(list), err)
	}

	d.Title = "renamed"
	d.Order = 99
	if err := repo.Save(dbc, d); err != nil {
		t.Fatalf("Save: %v", err)
	}
	reloaded, err := repo.GetByIDs(dbc, []uuid.UUID{d.ID})
	if err != nil || len(reloaded) != 1 {
		t.Fatalf("GetByIDs: len=%d err=%v", len(reloaded), err)
	}
	if reloaded[0].Title != "renamed" || reloaded[0].Order != 4 {
		t.Fatalf("Save must keep order: got title=%s order=%d", reloaded[0].Title, reloaded[0].Order)
	}
}

func TestSequenceRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	for i := 1; i <= 3; i++ {
		testutil.SeedMusic(t, ctx, tx, i)
	}
	repo := NewSequenceRepo(db, testutil.Logger(t))

	maxes, err := repo.MaxOrders(dbc, domaincontent.WeeklyKinds)
	if err != nil {
		t.Fatalf("MaxOrders: %v", err)
	}
	if maxes[domaincontent.KindMusic] != 3 || maxes[domaincontent.KindMovie] != 0 {
		t.Fatalf("MaxOrders: got=%v", maxes)
	}

	ids, err := repo.IDsByOrderRange(dbc, domaincontent.KindMusic, 1, 3)
	if err != nil {
		t.Fatalf("IDsByOrderRange: %v", err)
	}
	if len(ids) != 2 || ids[2] == uuid.Nil || ids[3] == uuid.Nil {
		t.Fatalf("IDsByOrderRange: got=%v", ids)
	}
	if _, err := repo.MaxOrders(dbc, []domaincontent.Kind{"user"}); err == nil {
		t.Fatalf("MaxOrders should reject unknown kinds")
	}
}

func TestWeeklyContentCreateManyIgnoresExisting(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewWeeklyContentRepo(db, testutil.Logger(t))
	n, err := repo.CreateMany(dbc, []*types.WeeklyContent{{WeekOrder: 1}, {WeekOrder: 2}})
	if err != nil || n != 2 {
		t.Fatalf("CreateMany: n=%d err=%v", n, err)
	}
	n, err = repo.CreateMany(dbc, []*types.WeeklyContent{{WeekOrder: 2}, {WeekOrder: 3}})
	if err != nil || n != 1 {
		t.Fatalf("CreateMany overlap: want n=1 got n=%d err=%v", n, err)
	}
	max, err := repo.MaxOrder(dbc)
	if err != nil || max != 3 {
		t.Fatalf("MaxOrder: want=3 got=%d err=%v", max, err)
	}
	week2, err := repo.GetByOrder(dbc, 2)
	if err != nil || week2 == nil {
		t.Fatalf("GetByOrder(2): row=%v err=%v", week2, err)
	}
	missing, err := repo.GetByOrder(dbc, 9)
	if err != nil || missing != nil {
		t.Fatalf("GetByOrder(9): want=nil got=%v err=%v", missing, err)
	}
}

func TestEpisodeRepoSequence(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	series := testutil.SeedSeries(t, ctx, tx, "s")
	repo := NewEpisodeRepo(db, testutil.Logger(t))

	first, err := repo.Create(dbc, &types.Episode{SeriesID: series.ID, Title: "one"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := repo.Create(dbc, &types.Episode{SeriesID: series.ID, Title: "two"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.SequenceNumber != 1 || second.SequenceNumber != 2 {
		t.Fatalf("sequence: want=1,2 got=%d,%d", first.SequenceNumber, second.SequenceNumber)
	}
	if err := repo.Delete(dbc, second.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	third, err := repo.Create(dbc, &types.Episode{SeriesID: series.ID, Title: "three"})
	if err != nil {
		t.Fatalf("Create after delete: %v", err)
	}
	if third.SequenceNumber != 3 {
		t.Fatalf("sequence after delete: want=3 got=%d", third.SequenceNumber)
	}
	list, err := repo.ListBySeries(dbc, series.ID)
	if err != nil || len(list) != 2 {
		t.Fatalf("ListBySeries: len=%d err=%v", len(list), err)
	}
}
