// Package session persists the backend login session between CLI
// invocations. The browser kept this state in document cookies; a CLI
// has to write it to disk itself.
package session

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Cookie is the on-disk form of one session cookie.
type Cookie struct {
	Name    string    `yaml:"name"`
	Value   string    `yaml:"value"`
	Path    string    `yaml:"path,omitempty"`
	Expires time.Time `yaml:"expires,omitempty"`
}

// State is everything persisted between invocations.
type State struct {
	Username string   `yaml:"username,omitempty"`
	Cookies  []Cookie `yaml:"cookies"`
}

// FilePath resolves the session file location under the XDG state dir.
func FilePath() (string, error) {
	return xdg.StateFile("threadlens/session.yaml")
}

// Load reads the persisted session. A missing file is not an error; it
// returns an empty state.
func Load() (State, error) {
	path, err := FilePath()
	if err != nil {
		return State{}, err
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return State{}, nil
	}
	if err != nil {
		return State{}, err
	}
	var st State
	if err := yaml.Unmarshal(b, &st); err != nil {
		return State{}, err
	}
	return st, nil
}

// Save writes the session state. The file holds an authentication
// cookie, so it is not group or world readable.
func Save(st State) error {
	path, err := FilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	b, err := yaml.Marshal(st)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

// Clear removes the persisted session, if any.
func Clear() error {
	path, err := FilePath()
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// ToHTTP converts persisted cookies for a client cookie jar, skipping
// cookies that have already expired.
func (st State) ToHTTP() []*http.Cookie {
	now := time.Now()
	out := make([]*http.Cookie, 0, len(st.Cookies))
	for _, c := range st.Cookies {
		if !c.Expires.IsZero() && c.Expires.Before(now) {
			continue
		}
		out = append(out, &http.Cookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Expires: c.Expires,
		})
	}
	return out
}

// FromHTTP captures live cookies for persistence.
func FromHTTP(username string, cookies []*http.Cookie) State {
	st := State{Username: username}
	for _, c := range cookies {
		st.Cookies = append(st.Cookies, Cookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Expires: c.Expires,
		})
	}
	return st
}
