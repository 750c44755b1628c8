package progression

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	profilesDirName = "profiles"
	appDirName      = "lingualoop"
)

// Store handles loading and saving one Profile JSON file per user under
// a profiles directory.
type Store struct {
	dir string // directory containing profiles/
}

// NewStore creates a Store rooted at the given directory. The directory
// is created (with parents) on the first Save if it does not exist.
// Pass an empty string to use the default XDG state path.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = defaultStateDir()
	}
	return &Store{dir: dir}
}

// Path returns the full path to the given user's profile file.
func (s *Store) Path(userID string) string {
	return filepath.Join(s.dir, profilesDirName, userID+".json")
}

// Load reads a user's profile from disk. If the file does not exist, a
// fresh level-1 profile is returned.
func (s *Store) Load(userID string) (*Profile, error) {
	data, err := os.ReadFile(s.Path(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return NewProfile(userID), nil
		}
		return nil, fmt.Errorf("reading profile: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	if p.UserID == "" {
		p.UserID = userID
	}
	if p.Level < 1 {
		p.Level = 1
	}
	if p.League == "" {
		p.League = LeagueBronze
	}
	return &p, nil
}

// Save writes a profile to disk using an atomic temp-file-then-rename
// pattern. The profiles directory is created if it does not exist.
func (s *Store) Save(p *Profile) error {
	dir := filepath.Join(s.dir, profilesDirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating profiles dir: %w", err)
	}

	p.Version = profileVersion
	p.LastUpdated = time.Now().UTC()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, ".profile-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path(p.UserID)); err != nil {
		return fmt.Errorf("renaming profile file: %w", err)
	}
	committed = true

	return nil
}

// ListUsers returns the user IDs that have a saved profile.
func (s *Store) ListUsers() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, profilesDirName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	var users []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		users = append(users, name[:len(name)-len(".json")])
	}
	return users, nil
}

// defaultStateDir returns ~/.local/state/lingualoop, respecting
// XDG_STATE_HOME if set.
func defaultStateDir() string {
	if base := os.Getenv("XDG_STATE_HOME"); base != "" {
		return filepath.Join(base, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".local", "state", appDirName)
}
