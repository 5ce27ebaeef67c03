package auth

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/stockdeck/stockdeck/internal/database"
	"github.com/stockdeck/stockdeck/internal/helpers"
)

const minPasswordLen = 6

// TokenStore persists the session token between runs. *prefs.Prefs
// satisfies it.
type TokenStore interface {
	SessionToken() string
	SetSessionToken(token string)
	ClearSession()
}

// SQLite is a Service over the shared sqlite database. Sessions are
// HS256-signed tokens persisted through a TokenStore and re-validated
// at startup.
type SQLite struct {
	db         *sql.DB
	log        *zap.Logger
	signingKey []byte
	sessions   TokenStore

	mu         sync.Mutex
	currentUID string
	listeners  map[int]func(uid string)
	nextID     int
}

// NewSQLite wraps an open, migrated database. signingKey must be
// stable across runs for stored sessions to survive restarts.
func NewSQLite(db *sql.DB, signingKey []byte, sessions TokenStore, log *zap.Logger) *SQLite {
	if log == nil {
		log = zap.NewNop()
	}
	return &SQLite{
		db:         db,
		log:        log,
		signingKey: signingKey,
		sessions:   sessions,
		listeners:  make(map[int]func(string)),
	}
}

// Restore validates a stored session token and silently re-enters the
// session. An invalid or missing token just leaves the user signed
// out.
func (s *SQLite) Restore(ctx context.Context) {
	token := s.sessions.SessionToken()
	if token == "" {
		return
	}
	uid, err := s.parseToken(token)
	if err != nil {
		s.log.Warn("stored session rejected", zap.Error(err))
		s.sessions.ClearSession()
		return
	}
	var one int
	if err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, uid).Scan(&one); err != nil {
		s.log.Warn("stored session user missing", zap.String("uid", uid), zap.Error(err))
		s.sessions.ClearSession()
		return
	}
	s.setIdentity(uid)
}

func (s *SQLite) CurrentUserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentUID
}

func (s *SQLite) OnAuthStateChange(fn func(uid string)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	current := s.currentUID
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *SQLite) SignIn(ctx context.Context, email, password string) error {
	var uid, hash string
	err := s.db.QueryRowContext(ctx, `SELECT id, password_hash FROM users WHERE email = ?`, email).Scan(&uid, &hash)
	switch {
	case err == sql.ErrNoRows:
		return newError(CodeInvalidCredential, fmt.Errorf("unknown email"))
	case err != nil:
		return fmt.Errorf("look up user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return newError(CodeInvalidCredential, fmt.Errorf("password mismatch"))
	}

	token, err := s.issueToken(uid)
	if err != nil {
		return fmt.Errorf("issue session token: %w", err)
	}
	s.sessions.SetSessionToken(token)
	s.setIdentity(uid)
	s.log.Info("signed in", zap.String("uid", uid))
	return nil
}

func (s *SQLite) SignUp(ctx context.Context, email, password string, profile Profile) error {
	if !helpers.IsValidEmail(email) {
		return newError(CodeInvalidEmail, fmt.Errorf("malformed address"))
	}
	if len(password) < minPasswordLen {
		return newError(CodeWeakPassword, fmt.Errorf("shorter than %d characters", minPasswordLen))
	}

	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE email = ?`, email).Scan(&one)
	switch {
	case err == nil:
		return newError(CodeEmailInUse, fmt.Errorf("account exists"))
	case err != sql.ErrNoRows:
		return fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	uid := uuid.NewString()
	_, err = s.db.ExecContext(ctx, `
	INSERT INTO users(id, email, password_hash, business_name, phone_number, created_at)
	VALUES (?, ?, ?, ?, ?, ?)`,
		uid, email, string(hash), profile.BusinessName, profile.PhoneNumber, database.NowMillis())
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	// Registration signs the new account in, same as the hosted
	// provider behaves.
	token, err := s.issueToken(uid)
	if err != nil {
		return fmt.Errorf("issue session token: %w", err)
	}
	s.sessions.SetSessionToken(token)
	s.setIdentity(uid)
	s.log.Info("account created", zap.String("uid", uid))
	return nil
}

func (s *SQLite) SignOut() error {
	s.sessions.ClearSession()
	s.setIdentity("")
	s.log.Info("signed out")
	return nil
}

func (s *SQLite) SendPasswordReset(ctx context.Context, email string) error {
	if !helpers.IsValidEmail(email) {
		return newError(CodeInvalidEmail, fmt.Errorf("malformed address"))
	}
	var uid string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM users WHERE email = ?`, email).Scan(&uid)
	switch {
	case err == sql.ErrNoRows:
		return newError(CodeInvalidCredential, fmt.Errorf("unknown email"))
	case err != nil:
		return fmt.Errorf("look up user: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
	INSERT INTO password_resets(token, user_id, created_at) VALUES (?, ?, ?)`,
		uuid.NewString(), uid, database.NowMillis())
	if err != nil {
		return fmt.Errorf("record reset: %w", err)
	}
	s.log.Info("password reset issued", zap.String("uid", uid))
	return nil
}

func (s *SQLite) setIdentity(uid string) {
	s.mu.Lock()
	s.currentUID = uid
	fns := make([]func(string), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(uid)
	}
}

func (s *SQLite) issueToken(uid string) (string, error) {
	claims := jwt.MapClaims{
		"sub": uid,
		"iat": database.NowMillis() / 1000,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
}

func (s *SQLite) parseToken(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return "", err
	}
	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("token missing subject")
	}
	return sub, nil
}
