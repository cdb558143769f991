package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/wastezero/wastezero/internal/storage"
)

const (
	keyProfile  = "profile"
	keyPassword = "password"
	keySession  = "session"
	keyTheme    = "theme"
)

// Store persists the single local profile, its credential and the small
// bits of session state around them. Reads never fail: missing or corrupt
// records degrade to defaults and are only logged.
type Store struct {
	kv       storage.Storage
	logger   *slog.Logger
	hashCost int
	now      func() time.Time
}

// Option customises a Store.
type Option func(*Store)

// WithHashCost sets the bcrypt cost used when hashing passwords.
func WithHashCost(cost int) Option {
	return func(s *Store) { s.hashCost = cost }
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore builds a profile store on top of kv.
func NewStore(kv storage.Storage, logger *slog.Logger, opts ...Option) *Store {
	s := &Store{kv: kv, logger: logger, hashCost: bcrypt.DefaultCost, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the stored profile, or Empty() when there is none.
func (s *Store) Load(ctx context.Context) UserProfile {
	var p UserProfile
	if !s.readJSON(ctx, keyProfile, &p) {
		return Empty()
	}
	return normalise(p)
}

// Save replaces the stored profile.
func (s *Store) Save(ctx context.Context, p UserProfile) error {
	return s.writeJSON(ctx, keyProfile, normalise(p))
}

// LoadCredential returns the stored password hash, if any. A bare string in
// the password slot is the old client's plaintext layout and is returned as
// a legacy credential so the current password rule still applies to it.
func (s *Store) LoadCredential(ctx context.Context) (Credential, bool) {
	raw, err := s.kv.Get(ctx, keyPassword)
	if err != nil {
		s.logReadError(ctx, keyPassword, err)
		return Credential{}, false
	}
	if !strings.HasPrefix(strings.TrimSpace(raw), "{") {
		if raw == "" {
			return Credential{}, false
		}
		return Credential{legacy: raw}, true
	}

	var c Credential
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		s.logReadError(ctx, keyPassword, err)
		return Credential{}, false
	}
	if c.Hash == "" {
		return Credential{}, false
	}
	return c, true
}

// HashCredential hashes plain without touching storage.
func (s *Store) HashCredential(plain string) (Credential, error) {
	return HashPassword(plain, s.hashCost, s.now().UTC())
}

// PutCredential overwrites the stored credential with an already hashed one.
func (s *Store) PutCredential(ctx context.Context, c Credential) error {
	if c.Hash == "" {
		return errors.New("credential has no hash")
	}
	return s.writeJSON(ctx, keyPassword, c)
}

// SaveCredential hashes plain and overwrites the stored credential.
func (s *Store) SaveCredential(ctx context.Context, plain string) error {
	c, err := s.HashCredential(plain)
	if err != nil {
		return err
	}
	return s.PutCredential(ctx, c)
}

// CreateAccount writes the profile and credential of a new account. When the
// credential write fails the previous profile record is put back, so a
// failed registration leaves the store as it was.
func (s *Store) CreateAccount(ctx context.Context, p UserProfile, c Credential) error {
	if c.Hash == "" {
		return errors.New("credential has no hash")
	}
	prev, prevErr := s.kv.Get(ctx, keyProfile)

	if err := s.Save(ctx, p); err != nil {
		return err
	}
	if err := s.PutCredential(ctx, c); err != nil {
		if rbErr := s.restore(ctx, keyProfile, prev, prevErr); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}
	return nil
}

func (s *Store) restore(ctx context.Context, key, prev string, prevErr error) error {
	if prevErr == nil {
		if err := s.kv.Set(ctx, key, prev); err != nil {
			return fmt.Errorf("restore %s: %w", key, err)
		}
		return nil
	}
	if err := s.kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("restore %s: %w", key, err)
	}
	return nil
}

// LoadSession returns the last login marker, if any.
func (s *Store) LoadSession(ctx context.Context) (Session, bool) {
	var sess Session
	if !s.readJSON(ctx, keySession, &sess) {
		return Session{}, false
	}
	return sess, true
}

// SaveSession overwrites the login marker.
func (s *Store) SaveSession(ctx context.Context, sess Session) error {
	if sess.StartedAt.IsZero() {
		sess.StartedAt = s.now().UTC()
	}
	return s.writeJSON(ctx, keySession, sess)
}

// LoadTheme returns the saved theme, or false when the user never chose one.
func (s *Store) LoadTheme(ctx context.Context) (Theme, bool) {
	raw, err := s.kv.Get(ctx, keyTheme)
	if err != nil {
		s.logReadError(ctx, keyTheme, err)
		return "", false
	}
	return ParseTheme(raw)
}

// SaveTheme stores the theme as a bare string.
func (s *Store) SaveTheme(ctx context.Context, t Theme) error {
	if _, ok := ParseTheme(string(t)); !ok {
		return fmt.Errorf("invalid theme %q", t)
	}
	if err := s.kv.Set(ctx, keyTheme, string(t)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

func (s *Store) readJSON(ctx context.Context, key string, dst any) bool {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logReadError(ctx, key, err)
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.logReadError(ctx, key, err)
		return false
	}
	return true
}

func (s *Store) writeJSON(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(payload)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *Store) logReadError(ctx context.Context, key string, err error) {
	if errors.Is(err, storage.ErrNotFound) || s.logger == nil {
		return
	}
	s.logger.WarnContext(ctx, "stored record unreadable, using defaults", slog.String("key", key), slog.Any("error", err))
}

func normalise(p UserProfile) UserProfile {
	skills := make([]string, 0, len(p.Skills))
	for _, sk := range p.Skills {
		skills = append(skills, ParseSkills(sk)...)
	}
	p.Skills = skills
	if role, ok := ParseRole(string(p.Role)); ok {
		p.Role = role
	} else {
		p.Role = RoleVolunteer
	}
	return p
}
