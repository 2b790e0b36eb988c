package transcript

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/segmentio/ksuid"

	"github.com/koraenergy/kora-control/internal/domain"
)

// DefaultPath returns ~/.config/kora/chat.jsonl.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "chat.jsonl"
	}
	return filepath.Join(home, ".config", "kora", "chat.jsonl")
}

// Log appends messages of one chat session to a JSONL file. Existing
// lines are never rewritten.
type Log struct {
	path      string
	sessionID string

	mu sync.Mutex
	f  *os.File
}

// Open opens path for appending under a fresh session id.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create transcript dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	return &Log{path: path, sessionID: ksuid.New().String(), f: f}, nil
}

// SessionID identifies the messages written through this Log.
func (l *Log) SessionID() string {
	return l.sessionID
}

// Append writes one message as a single line.
func (l *Log) Append(m domain.ChatMessage) error {
	line, err := encode(l.sessionID, m)
	if err != nil {
		return fmt.Errorf("encode transcript entry: %w", err)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return errors.New("transcript closed")
	}
	if _, err := l.f.Write(line); err != nil {
		return fmt.Errorf("append transcript: %w", err)
	}
	return nil
}

func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}

// ReadFile parses the whole transcript at path. A missing file is an
// empty transcript.
func ReadFile(path string) (ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ParseResult{}, nil
		}
		return ParseResult{}, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()
	return ParseReader(f), nil
}
