package progression

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/contentflow-backend/internal/domain/access"
	"github.com/yungbote/contentflow-backend/internal/domain/progress"
)

func TestSeriesAdvanceFrontierExact(t *testing.T) {
	m := newMemStore()
	s, eps := m.addSeries(6)
	e := newTestEngine(t, m)

	atFrontier := m.addUser()
	m.grant(atFrontier, access.SeriesTarget(s.ID), 3)
	m.complete(atFrontier, progress.TargetEpisode, eps[2].ID) // episode 3

	behind := m.addUser()
	m.grant(behind, access.SeriesTarget(s.ID), 3)
	m.complete(behind, progress.TargetEpisode, eps[1].ID) // episode 2

	ahead := m.addUser()
	m.grant(ahead, access.SeriesTarget(s.ID), 3)
	m.complete(ahead, progress.TargetEpisode, eps[4].ID) // episode 5

	res, err := e.Series.Advance(testDBC)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if res.Updated != 1 {
		t.Fatalf("updated: want=1 got=%d", res.Updated)
	}
	if got := m.row(atFrontier.ID, access.SeriesTarget(s.ID)).CurrentAccessibleSequence; got != 4 {
		t.Fatalf("frontier user: want=4 got=%d", got)
	}
	if got := m.row(behind.ID, access.SeriesTarget(s.ID)).CurrentAccessibleSequence; got != 3 {
		t.Fatalf("behind user: want=3 got=%d", got)
	}
	if got := m.row(ahead.ID, access.SeriesTarget(s.ID)).CurrentAccessibleSequence; got != 3 {
		t.Fatalf("ahead user: want=3 got=%d", got)
	}
	if len(res.AdvancedUsers) != 1 || res.AdvancedUsers[0] != atFrontier.ID {
		t.Fatalf("advanced users: want=[%s] got=%v", atFrontier.ID, res.AdvancedUsers)
	}
}

func TestSeriesAdvanceReplayDoesNotDoubleAdvance(t *testing.T) {
	m := newMemStore()
	s, eps := m.addSeries(5)
	e := newTestEngine(t, m)

	u := m.addUser()
	m.grant(u, access.SeriesTarget(s.ID), 2)
	m.complete(u, progress.TargetEpisode, eps[1].ID)

	if _, err := e.Series.Advance(testDBC); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	m.complete(u, progress.TargetEpisode, eps[1].ID)
	res, err := e.Series.Advance(testDBC)
	if err != nil {
		t.Fatalf("Advance replay: %v", err)
	}
	if res.Updated != 0 {
		t.Fatalf("replay updated: want=0 got=%d", res.Updated)
	}
	if got := m.row(u.ID, access.SeriesTarget(s.ID)).CurrentAccessibleSequence; got != 3 {
		t.Fatalf("after replay: want=3 got=%d", got)
	}
}

func TestSeriesAdvanceCountsSkips(t *testing.T) {
	m := newMemStore()
	s, eps := m.addSeries(3)
	e := newTestEngine(t, m)

	noRow := m.addUser()
	m.complete(noRow, progress.TargetEpisode, eps[0].ID)

	ghost := m.addUser()
	m.grant(ghost, access.SeriesTarget(s.ID), 1)
	m.complete(ghost, progress.TargetEpisode, uuid.New())

	res, err := e.Series.Advance(testDBC)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if res.Skipped != 2 || res.Updated != 0 {
		t.Fatalf("want skipped=2 updated=0 got=%+v", res)
	}
}

func TestSeriesAdvanceUsesHighestCompleted(t *testing.T) {
	m := newMemStore()
	s, eps := m.addSeries(4)
	other, otherEps := m.addSeries(4)
	e := newTestEngine(t, m)

	u := m.addUser()
	m.grant(u, access.SeriesTarget(s.ID), 2)
	m.grant(u, access.SeriesTarget(other.ID), 1)
	m.complete(u, progress.TargetEpisode, eps[0].ID)
	m.complete(u, progress.TargetEpisode, eps[1].ID)
	m.complete(u, progress.TargetEpisode, otherEps[0].ID)

	res, err := e.Series.Advance(testDBC)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if res.Updated != 2 || res.TotalSeries != 2 {
		t.Fatalf("want updated=2 series=2 got=%+v", res)
	}
	if got := m.row(u.ID, access.SeriesTarget(s.ID)).CurrentAccessibleSequence; got != 3 {
		t.Fatalf("series a: want=3 got=%d", got)
	}
	if got := m.row(u.ID, access.SeriesTarget(other.ID)).CurrentAccessibleSequence; got != 2 {
		t.Fatalf("series b: want=2 got=%d", got)
	}
	if len(res.AdvancedUsers) != 1 {
		t.Fatalf("advanced users should be distinct: got=%v", res.AdvancedUsers)
	}
}
