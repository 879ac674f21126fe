package access

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/contentflow-backend/internal/data/repos/testutil"
	types "github.com/yungbote/contentflow-backend/internal/domain"
	domainaccess "github.com/yungbote/contentflow-backend/internal/domain/access"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
)

func TestBulkCreateSkipsExisting(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewUserSeriesAccessRepo(db, testutil.Logger(t))
	user := uuid.New()
	s1, s2 := uuid.New(), uuid.New()

	n, err := repo.BulkCreate(dbc, []*types.UserSeriesAccess{
		domainaccess.New(user, domainaccess.SeriesTarget(s1), 1),
		domainaccess.New(user, domainaccess.ArticleTrack(), 1),
	})
	if err != nil || n != 2 {
		t.Fatalf("BulkCreate: want n=2 got n=%d err=%v", n, err)
	}

	n, err = repo.BulkCreate(dbc, []*types.UserSeriesAccess{
		domainaccess.New(user, domainaccess.SeriesTarget(s1), 1),
		domainaccess.New(user, domainaccess.SeriesTarget(s2), 1),
		domainaccess.New(user, domainaccess.ArticleTrack(), 5),
	})
	if err != nil || n != 1 {
		t.Fatalf("BulkCreate second pass: want n=1 got n=%d err=%v", n, err)
	}

	keys, err := repo.ListKeys(dbc)
	if err != nil || len(keys) != 3 {
		t.Fatalf("ListKeys: len=%d err=%v", len(keys), err)
	}

	art, err := repo.Get(dbc, user, domainaccess.ArticleTrack())
	if err != nil || art == nil {
		t.Fatalf("Get article track: row=%v err=%v", art, err)
	}
	if art.CurrentAccessibleSequence != 1 {
		t.Fatalf("existing row must not be overwritten: want=1 got=%d", art.CurrentAccessibleSequence)
	}
}

func TestGuardedUpdates(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewUserSeriesAccessRepo(db, testutil.Logger(t))
	user := uuid.New()
	row := testutil.SeedAccess(t, ctx, tx, user, domainaccess.SeriesTarget(uuid.New()), 3)

	ok, err := repo.AdvanceFrom(dbc, row.ID, 2)
	if err != nil || ok {
		t.Fatalf("AdvanceFrom stale expected: ok=%v err=%v", ok, err)
	}
	ok, err = repo.AdvanceFrom(dbc, row.ID, 3)
	if err != nil || !ok {
		t.Fatalf("AdvanceFrom: ok=%v err=%v", ok, err)
	}
	ok, err = repo.AdvanceFrom(dbc, row.ID, 3)
	if err != nil || ok {
		t.Fatalf("AdvanceFrom replay must not apply: ok=%v err=%v", ok, err)
	}

	got, err := repo.GetByID(dbc, row.ID)
	if err != nil || got.CurrentAccessibleSequence != 4 {
		t.Fatalf("after advance: want=4 got=%v err=%v", got, err)
	}

	art := testutil.SeedAccess(t, ctx, tx, user, domainaccess.ArticleTrack(), 3)
	articleID := uuid.New()
	ok, err = repo.Raise(dbc, art.ID, 2, &articleID)
	if err != nil || ok {
		t.Fatalf("Raise downward must not apply: ok=%v err=%v", ok, err)
	}
	ok, err = repo.Raise(dbc, art.ID, 4, &articleID)
	if err != nil || !ok {
		t.Fatalf("Raise: ok=%v err=%v", ok, err)
	}
	got, err = repo.Get(dbc, user, domainaccess.ArticleTrack())
	if err != nil || got.CurrentAccessibleSequence != 4 || got.ArticleID == nil || *got.ArticleID != articleID {
		t.Fatalf("after raise: got=%+v err=%v", got, err)
	}

	rows, err := repo.ListByUserIDs(dbc, []uuid.UUID{user})
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListByUserIDs: len=%d err=%v", len(rows), err)
	}
}
