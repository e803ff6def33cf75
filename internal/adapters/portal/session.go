package portal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"lexflow/internal/platform/logger"
)

// sessionFile is the single snapshot file kept under the state dir
const sessionFile = "pdpj-session.json"

// SessionStore persists at most one Snapshot as a JSON file on disk
// Save is best-effort and Load never fails; a bad file reads as no session
type SessionStore struct {
	dir string
	log logger.Logger
}

// NewSessionStore returns a store rooted at dir
func NewSessionStore(dir string) *SessionStore {
	return &SessionStore{dir: dir, log: *logger.Named("portal.session")}
}

func (s *SessionStore) path() string { return filepath.Join(s.dir, sessionFile) }

// Save writes the snapshot via a temp file and rename so readers never see a
// partial write; failures are logged and swallowed
func (s *SessionStore) Save(snap Snapshot) {
	snap.SavedAt = time.Now().UTC().Format(time.RFC3339)

	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		s.log.Warn().Err(err).Msg("session snapshot not serializable; skipping save")
		return
	}
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		s.log.Warn().Err(err).Str("dir", s.dir).Msg("session state dir unavailable; skipping save")
		return
	}
	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		s.log.Warn().Err(err).Msg("session snapshot write failed; skipping save")
		return
	}
	if err := os.Rename(tmp, s.path()); err != nil {
		s.log.Warn().Err(err).Msg("session snapshot rename failed; skipping save")
		return
	}
	s.log.Debug().Int("cookies", len(snap.Cookies)).Msg("session snapshot saved")
}

// Load returns the stored snapshot if one exists and parses cleanly
func (s *SessionStore) Load() (Snapshot, bool) {
	b, err := os.ReadFile(s.path())
	if err != nil {
		return Snapshot{}, false
	}
	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		s.log.Warn().Err(err).Msg("discarding unparsable session snapshot")
		return Snapshot{}, false
	}
	return snap, true
}
