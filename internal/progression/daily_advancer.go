package progression

import (
	"fmt"

	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
)

type DailyAdvanceResult struct {
	Evaluated int `json:"evaluated"`
	Advanced  int `json:"advanced"`
	Skipped   int `json:"skipped"`
}

// DailyAdvancer moves every user one day along the daily bundle track,
// cycling back to day 1 after the last bundle.
type DailyAdvancer struct {
	users UserStore
	daily DailyContentStore
	log   *logger.Logger
}

func NewDailyAdvancer(s Stores, baseLog *logger.Logger) *DailyAdvancer {
	return &DailyAdvancer{
		users: s.Users,
		daily: s.Daily,
		log:   baseLog.With("component", "DailyAdvancer"),
	}
}

func (a *DailyAdvancer) Advance(dbc dbctx.Context) (DailyAdvanceResult, error) {
	var res DailyAdvanceResult

	days, err := a.daily.ListAll(dbc)
	if err != nil {
		return res, fmt.Errorf("load daily content: %w", err)
	}
	dayIx := dayIndexOf(days)
	users, err := a.users.ListAll(dbc)
	if err != nil {
		return res, fmt.Errorf("load users: %w", err)
	}
	res.Evaluated = len(users)
	if dayIx.max == 0 {
		res.Skipped = len(users)
		return res, nil
	}
	maxDay := DayOrder(dayIx.max)

	for _, u := range users {
		next, _ := dayIx.currentDay(u).Advance(maxDay)
		bundleID, ok := dayIx.idByOrder[int(next)]
		if !ok {
			res.Skipped++
			continue
		}
		if u.DailyContentID != nil && *u.DailyContentID == bundleID {
			continue
		}
		if err := a.users.UpdateDailyContentID(dbc, u.ID, bundleID); err != nil {
			return res, fmt.Errorf("advance user=%s to day %d: %w", u.ID, next, err)
		}
		res.Advanced++
	}
	a.log.Debug("daily advance done", "users", res.Evaluated, "advanced", res.Advanced, "skipped", res.Skipped)
	return res, nil
}
