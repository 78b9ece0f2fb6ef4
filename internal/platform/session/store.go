package session

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const (
	keyAdminAPIKey  = "admin.api_key"
	keyAccessToken  = "user.access_token"
	keyRefreshToken = "user.refresh_token"
	keyTheme        = "ui.theme"
)

// ErrStore marks a failure of the local session store rather than the
// gateway.
var ErrStore = errors.New("session store")

// StoreError tags err as a local store failure.
func StoreError(err error) error {
	if err == nil || errors.Is(err, ErrStore) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStore, err)
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// UserTokens is the persisted end-user token pair. Either side may be empty.
type UserTokens struct {
	AccessToken  string
	RefreshToken string
}

// Store persists the console's client-side state: the admin API key, the
// end-user token pair and the theme preference.
type Store struct {
	db     *sql.DB
	sealer Sealer
	now    func() time.Time
}

func NewStore(db *sql.DB, sealer Sealer) *Store {
	if sealer == nil {
		sealer = plainSealer{}
	}
	return &Store{db: db, sealer: sealer, now: time.Now}
}

// Migrate applies every up migration in order.
func (s *Store) Migrate(ctx context.Context) error {
	return s.run(ctx, ".up.sql", false)
}

// Rollback applies every down migration in reverse order.
func (s *Store) Rollback(ctx context.Context) error {
	return s.run(ctx, ".down.sql", true)
}

func (s *Store) run(ctx context.Context, suffix string, reverse bool) error {
	names, err := fs.Glob(migrationFiles, "migrations/*"+suffix)
	if err != nil {
		return err
	}
	sort.Strings(names)
	if reverse {
		sort.Sort(sort.Reverse(sort.StringSlice(names)))
	}

	for _, name := range names {
		content, err := migrationFiles.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", name, err)
		}
		log.Debug().Str("migration", strings.TrimPrefix(name, "migrations/")).Msg("applying migration")
		if _, err := s.db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", name, err)
		}
	}
	return nil
}

func (s *Store) get(ctx context.Context, name string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session_values WHERE name = ?`, name).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("load %s: %w", name, err)
	}
	return value, nil
}

func (s *Store) put(ctx context.Context, name, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_values (name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, name, value, s.now().Unix())
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

func (s *Store) delete(ctx context.Context, names ...string) error {
	for _, name := range names {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM session_values WHERE name = ?`, name); err != nil {
			return fmt.Errorf("clear %s: %w", name, err)
		}
	}
	return nil
}

func (s *Store) getSecret(ctx context.Context, name string) (string, error) {
	stored, err := s.get(ctx, name)
	if err != nil || stored == "" {
		return "", err
	}
	return s.sealer.Open(stored)
}

// putSecret seals value before saving; an empty value clears the entry.
func (s *Store) putSecret(ctx context.Context, name, value string) error {
	if value == "" {
		return s.delete(ctx, name)
	}
	sealed, err := s.sealer.Seal(value)
	if err != nil {
		return err
	}
	return s.put(ctx, name, sealed)
}

func (s *Store) AdminKey(ctx context.Context) (string, error) {
	return s.getSecret(ctx, keyAdminAPIKey)
}

func (s *Store) SaveAdminKey(ctx context.Context, key string) error {
	return s.putSecret(ctx, keyAdminAPIKey, key)
}

func (s *Store) ClearAdminKey(ctx context.Context) error {
	return s.delete(ctx, keyAdminAPIKey)
}

func (s *Store) UserTokens(ctx context.Context) (UserTokens, error) {
	access, err := s.getSecret(ctx, keyAccessToken)
	if err != nil {
		return UserTokens{}, err
	}
	refresh, err := s.getSecret(ctx, keyRefreshToken)
	if err != nil {
		return UserTokens{}, err
	}
	return UserTokens{AccessToken: access, RefreshToken: refresh}, nil
}

// SaveUserTokens writes both sides; an empty side is cleared.
func (s *Store) SaveUserTokens(ctx context.Context, tokens UserTokens) error {
	if err := s.putSecret(ctx, keyAccessToken, tokens.AccessToken); err != nil {
		return err
	}
	return s.putSecret(ctx, keyRefreshToken, tokens.RefreshToken)
}

func (s *Store) SaveAccessToken(ctx context.Context, token string) error {
	return s.putSecret(ctx, keyAccessToken, token)
}

func (s *Store) ClearUserTokens(ctx context.Context) error {
	return s.delete(ctx, keyAccessToken, keyRefreshToken)
}

// Theme returns the saved theme, light when none is saved.
func (s *Store) Theme(ctx context.Context) (Theme, error) {
	value, err := s.get(ctx, keyTheme)
	if err != nil {
		return ThemeLight, err
	}
	if Theme(value) == ThemeDark {
		return ThemeDark, nil
	}
	return ThemeLight, nil
}

func (s *Store) SaveTheme(ctx context.Context, theme Theme) error {
	if theme != ThemeDark {
		theme = ThemeLight
	}
	return s.put(ctx, keyTheme, string(theme))
}
