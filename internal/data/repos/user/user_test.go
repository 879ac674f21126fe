package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	types "github.com/yungbote/contentflow-backend/internal/domain"
	"github.com/yungbote/contentflow-backend/internal/data/repos/testutil"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewUserRepo(db, testutil.Logger(t))

	u1 := &types.User{Email: "a@example.com", FirstName: "A", LastName: "One"}
	u2 := &types.User{Email: "b@example.com", FirstName: "B", LastName: "Two"}
	created, err := repo.Create(dbc, []*types.User{u1, u2})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 2 || created[0].ID == uuid.Nil {
		t.Fatalf("Create: want 2 users with ids got=%+v", created)
	}
	if created[0].Role != "user" {
		t.Fatalf("default role: want=user got=%q", created[0].Role)
	}

	if exists, err := repo.EmailExists(dbc, "a@example.com"); err != nil || !exists {
		t.Fatalf("EmailExists: exists=%v err=%v", exists, err)
	}

	all, err := repo.ListAll(dbc)
	if err != nil || len(all) != 2 {
		t.Fatalf("ListAll: len=%d err=%v", len(all), err)
	}

	weekID := uuid.New()
	if err := repo.UpdateWeeklyContentID(dbc, u1.ID, weekID); err != nil {
		t.Fatalf("UpdateWeeklyContentID: %v", err)
	}
	n, err := repo.UpdateKeciTime(dbc, u1.ID, "07:30")
	if err != nil || n != 1 {
		t.Fatalf("UpdateKeciTime: rows=%d err=%v", n, err)
	}
	n, err = repo.UpdateKeciTime(dbc, uuid.New(), "07:30")
	if err != nil || n != 0 {
		t.Fatalf("UpdateKeciTime missing user: rows=%d err=%v", n, err)
	}

	got, err := repo.GetByIDs(dbc, []uuid.UUID{u1.ID})
	if err != nil || len(got) != 1 {
		t.Fatalf("GetByIDs: len=%d err=%v", len(got), err)
	}
	if got[0].WeeklyContentID == nil || *got[0].WeeklyContentID != weekID {
		t.Fatalf("weekly_content_id: want=%s got=%v", weekID, got[0].WeeklyContentID)
	}
	if got[0].KeciTime == nil || *got[0].KeciTime != "07:30" {
		t.Fatalf("keci_time: want=07:30 got=%v", got[0].KeciTime)
	}

	if err := repo.Delete(dbc, u2.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	all, err = repo.ListAll(dbc)
	if err != nil || len(all) != 1 {
		t.Fatalf("ListAll after delete: len=%d err=%v", len(all), err)
	}
}
