package transcript

import (
	"sort"
	"time"

	"github.com/koraenergy/kora-control/internal/domain"
)

// Dedup removes entries with a repeated message ID, keeping the first
// occurrence in chronological order. Entries without an ID are kept.
// Note: sorts the input slice in place.
func Dedup(entries []Entry) []Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Message.Timestamp.Before(entries[j].Message.Timestamp)
	})

	seen := make(map[string]struct{}, len(entries))
	result := make([]Entry, 0, len(entries))
	for _, e := range entries {
		id := e.Message.ID
		if id == "" {
			result = append(result, e)
			continue
		}
		if _, exists := seen[id]; exists {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, e)
	}
	return result
}

// Session is the messages of one chat run.
type Session struct {
	ID       string
	Started  time.Time
	Messages []domain.ChatMessage
}

// Sessions groups entries by session in order of first appearance.
func Sessions(entries []Entry) []Session {
	index := make(map[string]int)
	var out []Session
	for _, e := range entries {
		i, ok := index[e.SessionID]
		if !ok {
			i = len(out)
			index[e.SessionID] = i
			out = append(out, Session{ID: e.SessionID, Started: e.Message.Timestamp})
		}
		out[i].Messages = append(out[i].Messages, e.Message)
	}
	return out
}
