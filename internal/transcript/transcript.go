// Package transcript provides the persisted chat transcript.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Type distinguishes plain text from plugin-backed replies.
type Type string

const (
	TypeText   Type = "text"
	TypePlugin Type = "plugin"
)

// Message is a single transcript entry.
type Message struct {
	ID         string          `json:"id"`
	Sender     Sender          `json:"sender"`
	Content    string          `json:"content"`
	Type       Type            `json:"type"`
	PluginName string          `json:"plugin_name,omitempty"`
	PluginData json.RawMessage `json:"plugin_data,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

// NewText builds a plain text message.
func NewText(sender Sender, content string) Message {
	return Message{
		ID:      uuid.New().String(),
		Sender:  sender,
		Content: content,
		Type:    TypeText,
	}
}

// NewPlugin builds a plugin-backed assistant message carrying the raw
// payload from the plugin source.
func NewPlugin(content, pluginName string, pluginData json.RawMessage) Message {
	return Message{
		ID:         uuid.New().String(),
		Sender:     SenderAssistant,
		Content:    content,
		Type:       TypePlugin,
		PluginName: pluginName,
		PluginData: pluginData,
	}
}

// Store holds the ordered transcript and persists it on every mutation.
type Store struct {
	mu       sync.Mutex
	path     string
	messages []Message
}

// NewStore creates a store backed by the given file. A missing or corrupt
// file starts an empty transcript; load never fails hard.
func NewStore(path string) *Store {
	s := &Store{path: path}
	s.load()
	return s
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}

	var messages []Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return
	}

	s.messages = messages
}

// Append adds a message to the end of the transcript and persists it.
// Timestamps are stamped here and kept monotonically non-decreasing.
func (s *Store) Append(msg Message) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	if n := len(s.messages); n > 0 && now.Before(s.messages[n-1].Timestamp) {
		now = s.messages[n-1].Timestamp
	}
	msg.Timestamp = now

	s.messages = append(s.messages, msg)
	if err := s.save(); err != nil {
		return msg, err
	}
	return msg, nil
}

// RemoveByID deletes the message with the given id, if present.
func (s *Store) RemoveByID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, m := range s.messages {
		if m.ID == id {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			return s.save()
		}
	}
	return nil
}

// Messages returns a copy of the transcript in order.
func (s *Store) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Clear wipes the transcript and its persisted file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove transcript: %w", err)
	}
	return nil
}

// save writes the full transcript. Caller must hold the lock.
func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create transcript dir: %w", err)
	}

	data, err := json.MarshalIndent(s.messages, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	return nil
}
