package progression

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Summary is the outward report of every batch operation.
type Summary struct {
	TotalUsers   int    `json:"total_users"`
	TotalSeries  int    `json:"total_series"`
	GrantedCount int    `json:"granted_count"`
	UpdatedCount int    `json:"updated_count"`
	SkippedCount int    `json:"skipped_count"`
	Message      string `json:"message"`
}

func sortIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })
}

// uniqueIDs returns the distinct ids in a stable order.
func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sortIDs(out)
	return out
}

func (r BulkGrantResult) Summary() Summary {
	return Summary{
		TotalUsers:   r.TotalUsers,
		TotalSeries:  r.TotalSeries,
		GrantedCount: r.Granted,
		SkippedCount: r.Skipped,
		Message:      fmt.Sprintf("granted %d access rows, %d already present", r.Granted, r.Skipped),
	}
}

// Summary reports a bundle generation run; created bundles count as updates.
func (r GenerateResult) Summary(track string) Summary {
	msg := fmt.Sprintf("%s content up to date at %d", track, r.LastOrder)
	if r.UpperBound > r.LastOrder {
		msg = fmt.Sprintf("%s content generated for orders %d..%d", track, r.LastOrder+1, r.UpperBound)
	}
	return Summary{
		UpdatedCount: r.Created,
		SkippedCount: r.Skipped,
		Message:      msg,
	}
}

func (r DailyAdvanceResult) Summary() Summary {
	return Summary{
		TotalUsers:   r.Evaluated,
		UpdatedCount: r.Advanced,
		SkippedCount: r.Skipped,
		Message:      fmt.Sprintf("daily content advanced for %d of %d users", r.Advanced, r.Evaluated),
	}
}
