package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/wricardo/sokoban-game/game/engine"
	"github.com/wricardo/sokoban-game/game/service"
)

//go:generate mockgen -destination=mocks/mock_persistence.go -package=sessionmocks -source=persistence.go

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData is the document every backend stores for a session
type PersistedSessionData struct {
	ID             string        `json:"id"`
	LevelID        string        `json:"level_id"`
	Title          string        `json:"title,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	LastAccessedAt time.Time     `json:"last_accessed_at"`
	State          *engine.State `json:"state"`
}

func newPersistedData(session *service.Session) (*PersistedSessionData, error) {
	if session == nil {
		return nil, fmt.Errorf("session cannot be nil")
	}
	if session.Engine == nil {
		return nil, fmt.Errorf("session %s has no engine", session.ID)
	}
	state, accessed := session.Export()
	return &PersistedSessionData{
		ID:             session.ID,
		LevelID:        session.LevelID,
		Title:          session.Title,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: accessed,
		State:          state,
	}, nil
}

// Session rebuilds the live session, engine included
func (d *PersistedSessionData) Session() (*service.Session, error) {
	eng, err := engine.RestoreEngine(d.State)
	if err != nil {
		return nil, fmt.Errorf("failed to restore engine: %w", err)
	}
	return &service.Session{
		ID:             d.ID,
		Engine:         eng,
		LevelID:        d.LevelID,
		Title:          d.Title,
		CreatedAt:      d.CreatedAt,
		LastAccessedAt: d.LastAccessedAt,
	}, nil
}

// encodeSession serializes a session, compressing the document when asked
func encodeSession(session *service.Session, compress bool) ([]byte, error) {
	data, err := newPersistedData(session)
	if err != nil {
		return nil, err
	}
	var doc []byte
	if compress {
		doc, err = json.Marshal(data)
	} else {
		doc, err = json.MarshalIndent(data, "", "  ")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session data: %w", err)
	}
	if compress {
		return EncodeBlob(doc)
	}
	return doc, nil
}

// decodeSession reverses encodeSession; plain and compressed documents are both accepted
func decodeSession(blob []byte) (*service.Session, error) {
	doc, err := DecodeBlob(blob)
	if err != nil {
		return nil, err
	}
	if err := ValidateDocument(doc); err != nil {
		return nil, err
	}
	var data PersistedSessionData
	if err := json.Unmarshal(doc, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}
	return data.Session()
}
