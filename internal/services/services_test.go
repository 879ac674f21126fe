package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/contentflow-backend/internal/data/repos"
	"github.com/yungbote/contentflow-backend/internal/data/repos/testutil"
	types "github.com/yungbote/contentflow-backend/internal/domain"
	"github.com/yungbote/contentflow-backend/internal/domain/access"
	domainjobs "github.com/yungbote/contentflow-backend/internal/domain/jobs"
	domainprogress "github.com/yungbote/contentflow-backend/internal/domain/progress"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/contentflow-backend/internal/pkg/errors"
	"github.com/yungbote/contentflow-backend/internal/platform/apierr"
	"github.com/yungbote/contentflow-backend/internal/progression"
	"github.com/yungbote/contentflow-backend/internal/realtime"
	"github.com/yungbote/contentflow-backend/internal/realtime/bus"
)

type fixture struct {
	dbc         dbctx.Context
	userRepo    repos.UserRepo
	seriesRepo  repos.SeriesRepo
	episodeRepo repos.EpisodeRepo
	articleRepo repos.ArticleRepo
	weeklyRepo  repos.WeeklyContentRepo
	accessRepo  repos.UserSeriesAccessRepo

	progression ProgressionService
	users       UserService
	series      SeriesService
	progress    ProgressService
	jobs        JobService
	catalog     CatalogService
	content     ContentServices

	mu     sync.Mutex
	events []realtime.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	f := &fixture{
		dbc:         dbctx.Context{Ctx: context.Background(), Tx: tx},
		userRepo:    repos.NewUserRepo(db, log),
		seriesRepo:  repos.NewSeriesRepo(db, log),
		episodeRepo: repos.NewEpisodeRepo(db, log),
		articleRepo: repos.NewArticleRepo(db, log),
		weeklyRepo:  repos.NewWeeklyContentRepo(db, log),
		accessRepo:  repos.NewUserSeriesAccessRepo(db, log),
	}
	progressRepo := repos.NewUserProgressRepo(db, log)

	events := bus.NewMemoryBus()
	_ = events.StartForwarder(context.Background(), func(ev realtime.Event) {
		f.mu.Lock()
		f.events = append(f.events, ev)
		f.mu.Unlock()
	})

	f.progression = NewProgressionService(ProgressionServiceDeps{
		DB:  db,
		Log: log,
		Stores: progression.Stores{
			Users:    f.userRepo,
			Series:   f.seriesRepo,
			Episodes: f.episodeRepo,
			Articles: f.articleRepo,
			Weekly:   f.weeklyRepo,
			Daily:    repos.NewDailyContentRepo(db, log),
			Sequence: repos.NewSequenceRepo(db, log),
			Access:   f.accessRepo,
			Progress: progressRepo,
		},
		Access: f.accessRepo,
		Bus:    events,
	})
	f.users = NewUserService(db, log, f.userRepo, f.accessRepo, f.progression)
	f.series = NewSeriesService(db, log, f.seriesRepo, f.episodeRepo, f.accessRepo, f.progression)
	f.progress = NewProgressService(db, log, progressRepo, f.userRepo, f.episodeRepo, f.articleRepo, f.weeklyRepo, f.progression)
	f.jobs = NewJobService(db, log, repos.NewJobRunRepo(db, log))
	f.content = ContentServices{
		Articles:        NewContentService[types.Article](db, log, f.articleRepo, f.progression),
		Affirmations:    NewContentService[types.Affirmation](db, log, repos.NewAffirmationRepo(db, log), f.progression),
		Aphorisms:       NewContentService[types.Aphorism](db, log, repos.NewAphorismRepo(db, log), f.progression),
		Music:           NewContentService[types.Music](db, log, repos.NewMusicRepo(db, log), f.progression),
		Movies:          NewContentService[types.Movie](db, log, repos.NewMovieRepo(db, log), f.progression),
		Tasks:           NewContentService[types.Task](db, log, repos.NewTaskRepo(db, log), f.progression),
		WeeklyQuestions: NewContentService[types.WeeklyQuestion](db, log, repos.NewWeeklyQuestionRepo(db, log), f.progression),
	}
	f.catalog = NewCatalogService(db, log, f.users, f.series, f.content)
	return f
}

func (f *fixture) eventsOf(t realtime.EventType) []realtime.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []realtime.Event
	for _, ev := range f.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

func (f *fixture) resetEvents() {
	f.mu.Lock()
	f.events = nil
	f.mu.Unlock()
}

func (f *fixture) seed(t *testing.T) SeedResult {
	t.Helper()
	res, err := f.catalog.Seed(f.dbc, SampleCatalog())
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return res
}

func (f *fixture) userByEmail(t *testing.T, email string) *types.User {
	t.Helper()
	found, err := f.userRepo.GetByEmails(f.dbc, []string{email})
	if err != nil || len(found) != 1 {
		t.Fatalf("user %s: found=%d err=%v", email, len(found), err)
	}
	return found[0]
}

func (f *fixture) seriesByTitle(t *testing.T, title string) (*types.Series, []*types.Episode) {
	t.Helper()
	all, err := f.seriesRepo.ListAll(f.dbc)
	if err != nil {
		t.Fatalf("ListAll series: %v", err)
	}
	for _, s := range all {
		if s.Title == title {
			eps, err := f.episodeRepo.ListBySeries(f.dbc, s.ID)
			if err != nil {
				t.Fatalf("ListBySeries: %v", err)
			}
			return s, eps
		}
	}
	t.Fatalf("series %q not found", title)
	return nil, nil
}

func TestCatalogSeedBuildsReadyState(t *testing.T) {
	f := newFixture(t)
	res := f.seed(t)
	if res.Users != 2 || res.Series != 2 || res.Episodes != 6 {
		t.Fatalf("seed counts: got=%+v", res)
	}
	if res.Content["music"] != 2 || res.Content["article"] != 2 {
		t.Fatalf("content counts: got=%+v", res.Content)
	}

	weeks, err := f.weeklyRepo.ListAll(f.dbc)
	if err != nil || len(weeks) != 2 {
		t.Fatalf("weekly bundles: want=2 got=%d err=%v", len(weeks), err)
	}
	for _, w := range weeks {
		if w.MusicID == nil || w.MovieID == nil || w.TaskID == nil || w.WeeklyQuestionID == nil {
			t.Fatalf("week %d has unlinked slots: %+v", w.WeekOrder, w)
		}
	}

	reader := f.userByEmail(t, "reader@contentflow.local")
	rows, err := f.progression.ListAccessForUser(f.dbc, reader.ID)
	if err != nil || len(rows) != 3 {
		t.Fatalf("reader access: want=3 got=%d err=%v", len(rows), err)
	}

	again := f.seed(t)
	if again.Users != 0 || again.UsersSkipped != 2 {
		t.Fatalf("reseed users: got=%+v", again)
	}
}

func TestReconciliationAdvancesThroughServices(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	reader := f.userByEmail(t, "reader@contentflow.local")
	foundations, eps := f.seriesByTitle(t, "Foundations")
	articles, _ := f.articleRepo.ListOrdered(f.dbc)

	if _, err := f.progress.Complete(f.dbc, reader.ID, domainprogress.TargetEpisode, eps[0].ID); err != nil {
		t.Fatalf("complete episode: %v", err)
	}
	if _, err := f.progress.Complete(f.dbc, reader.ID, domainprogress.TargetArticle, articles[0].ID); err != nil {
		t.Fatalf("complete article: %v", err)
	}

	sum, err := f.progression.RunReconciliation(f.dbc)
	if err != nil {
		t.Fatalf("RunReconciliation: %v", err)
	}
	if sum.UpdatedCount == 0 {
		t.Fatalf("summary: want updates got=%+v", sum)
	}

	row, _ := f.accessRepo.Get(f.dbc, reader.ID, access.SeriesTarget(foundations.ID))
	if row.CurrentAccessibleSequence != 2 {
		t.Fatalf("series frontier: want=2 got=%d", row.CurrentAccessibleSequence)
	}
	track, _ := f.accessRepo.Get(f.dbc, reader.ID, access.ArticleTrack())
	if track.CurrentAccessibleSequence != 2 || *track.ArticleID != articles[1].ID {
		t.Fatalf("article track: want 2 got=%+v", track)
	}
	if evs := f.eventsOf(realtime.EventWeekAdvanced); len(evs) != 1 || evs[0].UserID != reader.ID {
		t.Fatalf("week events: got=%+v", evs)
	}

	again, err := f.progression.RunReconciliation(f.dbc)
	if err != nil {
		t.Fatalf("RunReconciliation again: %v", err)
	}
	if again.UpdatedCount != 0 {
		t.Fatalf("second pass: want no updates got=%+v", again)
	}
}

func TestDailyIncrementAndBulkGrant(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	sum, err := f.progression.IncrementDailyContentForAllUsers(f.dbc)
	if err != nil || sum.UpdatedCount != 2 {
		t.Fatalf("daily increment: sum=%+v err=%v", sum, err)
	}
	grant, err := f.progression.BulkGrantAccessToAllUsers(f.dbc)
	if err != nil {
		t.Fatalf("BulkGrant: %v", err)
	}
	if grant.GrantedCount != 0 || grant.SkippedCount != 6 {
		t.Fatalf("bulk grant after seed: want granted=0 skipped=6 got=%+v", grant)
	}
}

func TestKeciTimeKeepsFoundCheck(t *testing.T) {
	f := newFixture(t)
	u, err := f.users.CreateUser(f.dbc, CreateUserInput{Email: "k@example.com"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	err = f.users.AddKeciTime(f.dbc, u.ID, "07:30")
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Status != http.StatusConflict || ae.Code != "keci_time_rejected" {
		t.Fatalf("existing user: want 409 keci_time_rejected got=%v", err)
	}
	if err := f.users.AddKeciTime(f.dbc, uuid.New(), "07:30"); err != nil {
		t.Fatalf("unknown user: want nil got=%v", err)
	}
	if err := f.users.AddKeciTime(f.dbc, uuid.New(), "7 am"); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("bad format: want invalid argument got=%v", err)
	}
}

func TestUserCreateRejectsDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	if _, err := f.users.CreateUser(f.dbc, CreateUserInput{Email: "Dup@Example.com"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	_, err := f.users.CreateUser(f.dbc, CreateUserInput{Email: "dup@example.com"})
	if !errors.Is(err, pkgerrors.ErrConflict) {
		t.Fatalf("duplicate: want conflict got=%v", err)
	}
	if _, err := f.users.CreateUser(f.dbc, CreateUserInput{Email: "x@example.com", Role: "owner"}); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("bad role: want invalid argument got=%v", err)
	}
}

func TestContentUpdateKeepsOrder(t *testing.T) {
	f := newFixture(t)
	first, err := f.content.Articles.Create(f.dbc, &types.Article{Title: "one"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := f.content.Articles.Create(f.dbc, &types.Article{Title: "two"})
	if err != nil || second.Order != first.Order+1 {
		t.Fatalf("second order: want=%d got=%+v err=%v", first.Order+1, second, err)
	}

	updated, err := f.content.Articles.Update(f.dbc, first.ID, &types.Article{Title: "one, revised"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Order != first.Order || updated.ID != first.ID {
		t.Fatalf("update moved the row: got=%+v", updated)
	}
	if _, err := f.content.Articles.Create(f.dbc, &types.Article{}); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("blank title: want invalid argument got=%v", err)
	}

	if err := f.content.Articles.Delete(f.dbc, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.content.Articles.Get(f.dbc, first.ID); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("deleted: want not found got=%v", err)
	}
}

func TestEpisodesAppendAndProgressChecksTargets(t *testing.T) {
	f := newFixture(t)
	u, _ := f.users.CreateUser(f.dbc, CreateUserInput{Email: "p@example.com"})
	s, err := f.series.CreateSeries(f.dbc, &types.Series{Title: "Late series"})
	if err != nil {
		t.Fatalf("CreateSeries: %v", err)
	}
	if row, _ := f.accessRepo.Get(f.dbc, u.ID, access.SeriesTarget(s.ID)); row == nil || row.CurrentAccessibleSequence != 1 {
		t.Fatalf("new series should open to existing users: got=%+v", row)
	}

	e1, _ := f.series.CreateEpisode(f.dbc, s.ID, &types.Episode{Title: "one"})
	e2, _ := f.series.CreateEpisode(f.dbc, s.ID, &types.Episode{Title: "two"})
	if e1.SequenceNumber != 1 || e2.SequenceNumber != 2 {
		t.Fatalf("sequence: want 1,2 got=%d,%d", e1.SequenceNumber, e2.SequenceNumber)
	}
	if _, err := f.series.CreateEpisode(f.dbc, uuid.New(), &types.Episode{Title: "x"}); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("unknown series: want not found got=%v", err)
	}

	if _, err := f.progress.Complete(f.dbc, u.ID, domainprogress.TargetEpisode, uuid.New()); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("unknown episode: want not found got=%v", err)
	}
	first, err := f.progress.Complete(f.dbc, u.ID, domainprogress.TargetEpisode, e1.ID)
	if err != nil || !first.IsCompleted {
		t.Fatalf("Complete: row=%+v err=%v", first, err)
	}
	replay, err := f.progress.Complete(f.dbc, u.ID, domainprogress.TargetEpisode, e1.ID)
	if err != nil || replay.ID != first.ID {
		t.Fatalf("replay should keep one row: first=%s replay=%+v err=%v", first.ID, replay, err)
	}
}

func TestJobServiceLifecycle(t *testing.T) {
	f := newFixture(t)
	if _, err := f.jobs.Enqueue(f.dbc, uuid.Nil, "nope", nil); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("unknown type: want invalid argument got=%v", err)
	}
	job, created, err := f.jobs.EnqueueIfIdle(f.dbc, uuid.Nil, domainjobs.TypeProgressionReconcile, nil)
	if err != nil || !created {
		t.Fatalf("EnqueueIfIdle: created=%v err=%v", created, err)
	}
	if _, created, _ := f.jobs.EnqueueIfIdle(f.dbc, uuid.Nil, domainjobs.TypeProgressionReconcile, nil); created {
		t.Fatalf("second EnqueueIfIdle should not create")
	}

	canceled, err := f.jobs.Cancel(f.dbc, job.ID)
	if err != nil || canceled.Status != domainjobs.StatusCanceled {
		t.Fatalf("Cancel: job=%+v err=%v", canceled, err)
	}
	if _, err := f.jobs.Cancel(f.dbc, job.ID); !errors.Is(err, pkgerrors.ErrConflict) {
		t.Fatalf("cancel twice: want conflict got=%v", err)
	}
}

// Passes share a lock per name; a held lock surfaces as ErrPassBusy.
func TestPassLockRejectsOverlap(t *testing.T) {
	f := newFixture(t)
	svc := f.progression.(*progressionService)
	ok, _ := svc.locker.TryAcquire(context.Background(), "pass:"+PassReconcile, svc.lockTTL)
	if !ok {
		t.Fatalf("pre-acquire failed")
	}
	if _, err := f.progression.RunReconciliation(f.dbc); !errors.Is(err, ErrPassBusy) {
		t.Fatalf("want ErrPassBusy got=%v", err)
	}
	if _, err := f.progression.GenerateWeeklyContent(f.dbc); err != nil {
		t.Fatalf("other passes are not blocked: %v", err)
	}
}

func TestArticleCompletionSyncsTrack(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	reader := f.userByEmail(t, "reader@contentflow.local")
	articles, _ := f.articleRepo.ListOrdered(f.dbc)
	if err := f.accessRepo.DeleteByUser(f.dbc, reader.ID); err != nil {
		t.Fatalf("DeleteByUser: %v", err)
	}
	f.resetEvents()

	if _, err := f.progress.Complete(f.dbc, reader.ID, domainprogress.TargetArticle, articles[0].ID); err != nil {
		t.Fatalf("complete article: %v", err)
	}
	track, err := f.accessRepo.Get(f.dbc, reader.ID, access.ArticleTrack())
	if err != nil || track == nil {
		t.Fatalf("article track: want row got=%+v err=%v", track, err)
	}
	if track.CurrentAccessibleSequence != 1 || track.ArticleID == nil || *track.ArticleID != articles[0].ID {
		t.Fatalf("article track: want week 1 article got=%+v", track)
	}
	if evs := f.eventsOf(realtime.EventAccessAdvanced); len(evs) != 1 || evs[0].UserID != reader.ID {
		t.Fatalf("advance events: got=%+v", evs)
	}

	// Episode completions wait for the next pass.
	_, eps := f.seriesByTitle(t, "Foundations")
	if _, err := f.progress.Complete(f.dbc, reader.ID, domainprogress.TargetEpisode, eps[0].ID); err != nil {
		t.Fatalf("complete episode: %v", err)
	}
	rows, _ := f.accessRepo.ListByUserIDs(f.dbc, []uuid.UUID{reader.ID})
	if len(rows) != 1 {
		t.Fatalf("episode completion should not grant: want=1 got=%d", len(rows))
	}
}

func TestGrantAccessOpensSingleTarget(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	reader := f.userByEmail(t, "reader@contentflow.local")
	foundations, _ := f.seriesByTitle(t, "Foundations")
	if err := f.accessRepo.DeleteByUser(f.dbc, reader.ID); err != nil {
		t.Fatalf("DeleteByUser: %v", err)
	}
	f.resetEvents()

	target := access.SeriesTarget(foundations.ID)
	row, err := f.progression.GrantAccess(f.dbc, reader.ID, target)
	if err != nil || row == nil || row.CurrentAccessibleSequence != 1 {
		t.Fatalf("GrantAccess: row=%+v err=%v", row, err)
	}
	again, err := f.progression.GrantAccess(f.dbc, reader.ID, target)
	if err != nil || again.ID != row.ID {
		t.Fatalf("repeat grant should return the same row: first=%s again=%+v err=%v", row.ID, again, err)
	}
	if evs := f.eventsOf(realtime.EventAccessGranted); len(evs) != 1 {
		t.Fatalf("granted events: want=1 got=%d", len(evs))
	}

	track, err := f.progression.GrantAccess(f.dbc, reader.ID, access.ArticleTrack())
	if err != nil || track.ArticleID == nil || track.CurrentAccessibleSequence != 1 {
		t.Fatalf("article grant: row=%+v err=%v", track, err)
	}

	if _, err := f.progression.GrantAccess(f.dbc, reader.ID, access.SeriesTarget(uuid.New())); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("unknown series: want not found got=%v", err)
	}
	if _, err := f.progression.GrantAccess(f.dbc, uuid.New(), target); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("unknown user: want not found got=%v", err)
	}
}
