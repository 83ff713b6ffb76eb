package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"shop-automation/internal/types"
	"shop-automation/utils"
)

// Store persists the cookie set of one site as a JSON file
type Store struct {
	path string
}

// NewStore returns a store keeping <dir>/<site>_cookies.json
func NewStore(dir, site string) *Store {
	return &Store{path: filepath.Join(dir, site+"_cookies.json")}
}

// Path returns the cookie file location
func (s *Store) Path() string {
	return s.path
}

// Load reads the saved cookie set. ok is false when nothing has been saved yet.
func (s *Store) Load() (cookies []types.SessionCookie, ok bool, err error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cookie file: %w", err)
	}
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, false, fmt.Errorf("failed to parse cookie file %s: %w", s.path, err)
	}
	return cookies, len(cookies) > 0, nil
}

// Save replaces the saved cookie set. Cookies sharing (name, domain, path)
// collapse to the last one.
func (s *Store) Save(cookies []types.SessionCookie) error {
	data, err := json.MarshalIndent(dedupe(cookies), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cookies: %w", err)
	}
	if err := utils.WriteFileAtomic(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write cookie file: %w", err)
	}
	return nil
}

func dedupe(cookies []types.SessionCookie) []types.SessionCookie {
	index := make(map[string]int, len(cookies))
	result := make([]types.SessionCookie, 0, len(cookies))
	for _, c := range cookies {
		if i, seen := index[c.Key()]; seen {
			result[i] = c
			continue
		}
		index[c.Key()] = len(result)
		result = append(result, c)
	}
	return result
}
