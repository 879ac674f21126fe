package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	types "github.com/yungbote/contentflow-backend/internal/domain"
	"github.com/yungbote/contentflow-backend/internal/domain/access"
	"github.com/yungbote/contentflow-backend/internal/domain/progress"
	"gorm.io/gorm"
	"time"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedSeries(tb testing.TB, ctx context.Context, tx *gorm.DB, title string) *types.Series {
	tb.Helper()
	s := &types.Series{ID: uuid.New(), Title: title}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed series: %v", err)
	}
	return s
}

func SeedEpisode(tb testing.TB, ctx context.Context, tx *gorm.DB, seriesID uuid.UUID, seq int) *types.Episode {
	tb.Helper()
	e := &types.Episode{
		ID:             uuid.New(),
		SeriesID:       seriesID,
		SequenceNumber: seq,
		Title:          fmt.Sprintf("episode %d", seq),
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed episode: %v", err)
	}
	return e
}

func SeedArticle(tb testing.TB, ctx context.Context, tx *gorm.DB, order int) *types.Article {
	tb.Helper()
	a := &types.Article{Title: fmt.Sprintf("article %d", order)}
	a.ID = uuid.New()
	a.Order = order
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed article: %v", err)
	}
	return a
}

func SeedMusic(tb testing.TB, ctx context.Context, tx *gorm.DB, order int) *types.Music {
	tb.Helper()
	m := &types.Music{Title: fmt.Sprintf("track %d", order)}
	m.ID = uuid.New()
	m.Order = order
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed music: %v", err)
	}
	return m
}

func SeedAccess(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, target access.Target, current int) *types.UserSeriesAccess {
	tb.Helper()
	row := access.New(userID, target, current)
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed access: %v", err)
	}
	return row
}

func SeedCompletion(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, kind progress.TargetKind, targetID uuid.UUID) *types.UserProgress {
	tb.Helper()
	p := progress.Completed(userID, kind, targetID, time.Now())
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed completion: %v", err)
	}
	return p
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
