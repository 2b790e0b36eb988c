// Package transcript keeps a local, append-only JSONL record of chat
// sessions. Transcripts never leave the machine.
package transcript

import (
	"bufio"
	"encoding/json"
	"io"
	"time"

	"github.com/koraenergy/kora-control/internal/domain"
)

// record is one JSONL line.
type record struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	ID        string `json:"id"`
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

const recordType = "chat_message"

// Entry is a message tagged with the session it belongs to.
type Entry struct {
	SessionID string
	Message   domain.ChatMessage
}

// ParseResult holds parsed entries and error stats.
type ParseResult struct {
	Entries    []Entry
	SkipCount  int
	ErrorCount int
}

func encode(sessionID string, m domain.ChatMessage) ([]byte, error) {
	return json.Marshal(record{
		Type:      recordType,
		SessionID: sessionID,
		ID:        m.ID,
		Role:      string(m.Role),
		Text:      m.Text,
		Timestamp: m.Timestamp.UTC().Format(time.RFC3339Nano),
	})
}

// ParseReader reads JSONL from an io.Reader, streaming line by line.
// Lines of other types are skipped; malformed lines are counted.
func ParseReader(r io.Reader) ParseResult {
	var result ParseResult
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // 1MB max line

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			result.ErrorCount++
			continue
		}
		if rec.Type != recordType {
			result.SkipCount++
			continue
		}

		role := domain.Role(rec.Role)
		if role != domain.RoleUser && role != domain.RoleAI {
			result.ErrorCount++
			continue
		}
		ts, err := time.Parse(time.RFC3339Nano, rec.Timestamp)
		if err != nil {
			result.ErrorCount++
			continue
		}

		result.Entries = append(result.Entries, Entry{
			SessionID: rec.SessionID,
			Message: domain.ChatMessage{
				ID:        rec.ID,
				Role:      role,
				Text:      rec.Text,
				Timestamp: ts.UTC(),
			},
		})
	}

	if err := scanner.Err(); err != nil {
		result.ErrorCount++
	}

	return result
}
