package progression

import (
	"testing"

	"github.com/yungbote/contentflow-backend/internal/domain/access"
)

func TestGrantAllIsIdempotent(t *testing.T) {
	m := newMemStore()
	for i := 0; i < 3; i++ {
		m.addUser()
	}
	m.addSeries(2)
	m.addSeries(2)
	m.addArticle(1)
	e := newTestEngine(t, m)

	first, err := e.Granter.GrantAll(testDBC)
	if err != nil {
		t.Fatalf("GrantAll: %v", err)
	}
	// 3 users x 2 series + 3 article tracks.
	if first.Granted != 9 || first.Skipped != 0 {
		t.Fatalf("first run: want granted=9 skipped=0 got=%+v", first)
	}
	for _, r := range m.access {
		if r.Target().IsArticleTrack() {
			continue
		}
		if r.CurrentAccessibleSequence != 1 {
			t.Fatalf("series rows start at 1: got=%d", r.CurrentAccessibleSequence)
		}
	}

	writes := m.writes
	second, err := e.Granter.GrantAll(testDBC)
	if err != nil {
		t.Fatalf("GrantAll again: %v", err)
	}
	if second.Granted != 0 || second.Skipped != 9 {
		t.Fatalf("second run: want granted=0 skipped=9 got=%+v", second)
	}
	if m.writes != writes {
		t.Fatalf("second run wrote %d rows", m.writes-writes)
	}
	if second.TotalUsers != 3 || second.TotalSeries != 2 {
		t.Fatalf("totals: got=%+v", second)
	}
}

func TestGrantArticleTrackFallsBackToLowestOrder(t *testing.T) {
	m := newMemStore()
	u := m.addUser()
	a3 := m.addArticle(3)
	m.addArticle(5)
	e := newTestEngine(t, m)

	if _, err := e.Granter.GrantAll(testDBC); err != nil {
		t.Fatalf("GrantAll: %v", err)
	}
	row := m.row(u.ID, access.ArticleTrack())
	if row == nil || row.CurrentAccessibleSequence != 3 || *row.ArticleID != a3.ID {
		t.Fatalf("article track: want article 3 got=%+v", row)
	}
}

func TestGrantWithoutArticlesSkipsTrack(t *testing.T) {
	m := newMemStore()
	u := m.addUser()
	m.addSeries(1)
	e := newTestEngine(t, m)

	res, err := e.Granter.GrantAll(testDBC)
	if err != nil {
		t.Fatalf("GrantAll: %v", err)
	}
	if res.Granted != 1 || m.row(u.ID, access.ArticleTrack()) != nil {
		t.Fatalf("want only the series row got=%+v", res)
	}
}

func TestGrantFanOut(t *testing.T) {
	m := newMemStore()
	u1 := m.addUser()
	u2 := m.addUser()
	s1, _ := m.addSeries(1)
	e := newTestEngine(t, m)

	res, err := e.Granter.GrantForSeries(testDBC, s1.ID)
	if err != nil || res.Granted != 2 {
		t.Fatalf("GrantForSeries: res=%+v err=%v", res, err)
	}

	s2, _ := m.addSeries(1)
	m.addArticle(1)
	res, err = e.Granter.GrantForUser(testDBC, u1.ID)
	if err != nil {
		t.Fatalf("GrantForUser: %v", err)
	}
	// s2 + article track are new; s1 already existed.
	if res.Granted != 2 || res.Skipped != 1 {
		t.Fatalf("GrantForUser: want granted=2 skipped=1 got=%+v", res)
	}
	if m.row(u2.ID, access.SeriesTarget(s2.ID)) != nil {
		t.Fatalf("GrantForUser must not touch other users")
	}

	row, err := e.Granter.GrantAccess(testDBC, u2.ID, access.SeriesTarget(s2.ID))
	if err != nil || row == nil || row.CurrentAccessibleSequence != 1 {
		t.Fatalf("GrantAccess: row=%+v err=%v", row, err)
	}
	again, err := e.Granter.GrantAccess(testDBC, u2.ID, access.SeriesTarget(s2.ID))
	if err != nil || again.ID != row.ID {
		t.Fatalf("GrantAccess must return the existing row: got=%+v err=%v", again, err)
	}
}
