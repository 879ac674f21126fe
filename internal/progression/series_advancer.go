package progression

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/google/uuid"

	types "github.com/yungbote/contentflow-backend/internal/domain"
	"github.com/yungbote/contentflow-backend/internal/domain/progress"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
)

type SeriesAdvanceResult struct {
	Evaluated     int         `json:"evaluated"`
	Updated       int         `json:"updated"`
	Skipped       int         `json:"skipped"`
	TotalSeries   int         `json:"total_series"`
	AdvancedUsers []uuid.UUID `json:"advanced_users"`
}

// SeriesAdvancer unlocks the next episode of a series for users who have
// completed the episode at their current frontier.
type SeriesAdvancer struct {
	progress ProgressStore
	episodes EpisodeStore
	access   AccessStore
	log      *logger.Logger
}

func NewSeriesAdvancer(s Stores, baseLog *logger.Logger) *SeriesAdvancer {
	return &SeriesAdvancer{
		progress: s.Progress,
		episodes: s.Episodes,
		access:   s.Access,
		log:      baseLog.With("component", "SeriesAdvancer"),
	}
}

type userSeries struct {
	user   uuid.UUID
	series uuid.UUID
}

func (a *SeriesAdvancer) Advance(dbc dbctx.Context) (SeriesAdvanceResult, error) {
	var res SeriesAdvanceResult

	facts, err := a.progress.ListCompleted(dbc, progress.TargetEpisode)
	if err != nil {
		return res, fmt.Errorf("load episode completions: %w", err)
	}
	if len(facts) == 0 {
		return res, nil
	}

	episodeIDs := make([]uuid.UUID, 0, len(facts))
	for _, f := range facts {
		episodeIDs = append(episodeIDs, f.TargetID)
	}
	episodes, err := a.episodes.GetByIDs(dbc, uniqueIDs(episodeIDs))
	if err != nil {
		return res, fmt.Errorf("load episodes: %w", err)
	}
	episodeByID := make(map[uuid.UUID]*types.Episode, len(episodes))
	for _, e := range episodes {
		episodeByID[e.ID] = e
	}

	highest := map[userSeries]int{}
	for _, f := range facts {
		ep, ok := episodeByID[f.TargetID]
		if !ok {
			res.Skipped++
			continue
		}
		k := userSeries{user: f.UserID, series: ep.SeriesID}
		if ep.SequenceNumber > highest[k] {
			highest[k] = ep.SequenceNumber
		}
	}
	if len(highest) == 0 {
		return res, nil
	}

	pairs := make([]userSeries, 0, len(highest))
	userIDs := make([]uuid.UUID, 0, len(highest))
	seriesSeen := map[uuid.UUID]struct{}{}
	for k := range highest {
		pairs = append(pairs, k)
		userIDs = append(userIDs, k.user)
		seriesSeen[k.series] = struct{}{}
	}
	sortPairs(pairs)
	res.TotalSeries = len(seriesSeen)

	rows, err := a.access.ListByUserIDs(dbc, uniqueIDs(userIDs))
	if err != nil {
		return res, fmt.Errorf("load access rows: %w", err)
	}
	rowByPair := make(map[userSeries]*types.UserSeriesAccess, len(rows))
	for _, r := range rows {
		if sid, ok := r.Target().SeriesID(); ok {
			rowByPair[userSeries{user: r.UserID, series: sid}] = r
		}
	}

	advanced := map[uuid.UUID]struct{}{}
	for _, k := range pairs {
		res.Evaluated++
		row, ok := rowByPair[k]
		if !ok {
			res.Skipped++
			continue
		}
		if highest[k] != row.CurrentAccessibleSequence {
			continue
		}
		moved, err := a.access.AdvanceFrom(dbc, row.ID, row.CurrentAccessibleSequence)
		if err != nil {
			return res, fmt.Errorf("advance user=%s series=%s: %w", k.user, k.series, err)
		}
		if !moved {
			continue
		}
		row.CurrentAccessibleSequence++
		res.Updated++
		advanced[k.user] = struct{}{}
	}

	for id := range advanced {
		res.AdvancedUsers = append(res.AdvancedUsers, id)
	}
	sortIDs(res.AdvancedUsers)
	a.log.Debug("series advance done", "evaluated", res.Evaluated, "updated", res.Updated, "skipped", res.Skipped)
	return res, nil
}

func sortPairs(pairs []userSeries) {
	sort.Slice(pairs, func(i, j int) bool {
		if c := bytes.Compare(pairs[i].user[:], pairs[j].user[:]); c != 0 {
			return c < 0
		}
		return bytes.Compare(pairs[i].series[:], pairs[j].series[:]) < 0
	})
}
