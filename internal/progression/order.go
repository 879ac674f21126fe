package progression

// WeekOrder is a 1-based position on the weekly bundle track.
type WeekOrder int

// Advance returns the week after w, wrapping to 1 past max. It reports false
// when there is no track to move on (max <= 0).
func (w WeekOrder) Advance(max WeekOrder) (WeekOrder, bool) {
	next, ok := cycleNext(int(w), int(max))
	return WeekOrder(next), ok
}

// DayOrder is a 1-based position on the daily bundle track. Zero means the
// user has not been placed yet.
type DayOrder int

func (d DayOrder) Advance(max DayOrder) (DayOrder, bool) {
	next, ok := cycleNext(int(d), int(max))
	return DayOrder(next), ok
}

func cycleNext(cur, max int) (int, bool) {
	if max <= 0 {
		return cur, false
	}
	next := cur + 1
	if next > max || next < 1 {
		next = 1
	}
	return next, true
}
