package events

import (
	"sort"

	"contestScope/internal/model"
)

// Query selects a page of a contest's event stream. A nil Cursor starts from
// the beginning; FromBlock/ToBlock of zero leave that bound open; Limit of
// zero or less means no truncation.
type Query struct {
	Cursor    *model.EventCursor
	FromBlock uint64
	ToBlock   uint64
	Limit     int
}

// Paginate filters a contest's recorded envelopes to those strictly after
// the cursor, clamps them to the block range, sorts ascending by
// (blockNumber, logIndex), and truncates to the limit. NextCursor is the
// cursor of the last returned event, or the caller's own cursor when nothing
// matched, so pulling is always resumable without gaps or duplicates.
// Ordering uses each envelope's own block number and log index; a stored
// cursor field is rewritten from those, so an envelope that arrives without
// one (a sparse JSON fixture, say) still sorts and resumes correctly.
func Paginate(recorded []model.ContestEventEnvelope, q Query) model.ContestEventBatch {
	matched := make([]model.ContestEventEnvelope, 0, len(recorded))
	var latestBlock uint64
	for _, env := range recorded {
		if env.BlockNumber > latestBlock {
			latestBlock = env.BlockNumber
		}
		env.Cursor = model.EventCursor{BlockNumber: env.BlockNumber, LogIndex: env.LogIndex}
		if q.Cursor != nil && !env.Cursor.After(*q.Cursor) {
			continue
		}
		if q.FromBlock > 0 && env.BlockNumber < q.FromBlock {
			continue
		}
		if q.ToBlock > 0 && env.BlockNumber > q.ToBlock {
			continue
		}
		matched = append(matched, env)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Cursor.Compare(matched[j].Cursor) < 0
	})

	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	next := model.EventCursor{}
	if q.Cursor != nil {
		next = *q.Cursor
	}
	if len(matched) > 0 {
		next = matched[len(matched)-1].Cursor
	}

	return model.ContestEventBatch{
		Events:      matched,
		NextCursor:  next,
		LatestBlock: latestBlock,
	}
}
