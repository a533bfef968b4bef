// Package session owns the admin console's single live session: the
// bearer credential and the authenticated principal. The session is
// durable across process restarts and sits below every other component;
// all outbound requests are decorated with the current credential
// through the Manager.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/akulov/shopdesk/api"
	"github.com/akulov/shopdesk/storage"
)

// Principal is the authenticated identity record.
type Principal struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// record is the durable session shape persisted under the fixed
// storage namespace.
type record struct {
	Credential string     `json:"credential"`
	Principal  *Principal `json:"principal"`
}

// AuthResult is the outcome of a login or registration attempt.
// Rejected credentials are a reported, non-fatal outcome.
type AuthResult struct {
	Success bool
	Message string
}

// Manager maintains exactly one live session, makes it durable, and
// decorates every outbound request issued through its API client. The
// credential and principal are set and cleared together, atomically:
// the session is authenticated iff both are present.
type Manager struct {
	store storage.Store
	api   *api.Client
	log   *slog.Logger

	mu         sync.RWMutex
	credential string
	principal  *Principal
}

// Option configures a Manager.
type Option func(*settings)

type settings struct {
	httpc *http.Client
	log   *slog.Logger
}

// WithHTTPClient sets the HTTP client used for all backend calls.
func WithHTTPClient(httpc *http.Client) Option {
	return func(s *settings) {
		s.httpc = httpc
	}
}

// WithLogger sets the manager's logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(s *settings) {
		s.log = log
	}
}

// NewManager creates a Manager over the backend at baseURL, restoring
// any session persisted in the store. An unreadable or corrupt record
// degrades to an anonymous session rather than failing construction.
func NewManager(baseURL string, store storage.Store, opts ...Option) *Manager {
	s := settings{log: slog.Default()}
	for _, opt := range opts {
		opt(&s)
	}

	m := &Manager{
		store: store,
		log:   s.log,
	}

	apiOpts := []api.Option{
		api.WithDecorator(m),
		api.WithUnauthorizedHandler(m.HandleUnauthorized),
		api.WithClientLogger(s.log),
	}
	if s.httpc != nil {
		apiOpts = append(apiOpts, api.WithHTTPClient(s.httpc))
	}
	m.api = api.New(baseURL, apiOpts...)

	m.restore()
	return m
}

// restore loads the persisted session record, if any. Persistence
// failures are tolerated: the session simply starts anonymous.
func (m *Manager) restore() {
	data, err := m.store.Load()
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			m.log.Warn("failed to load persisted session, starting anonymous", slog.Any("error", err))
		}
		return
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		m.log.Warn("corrupt persisted session, starting anonymous", slog.Any("error", err))
		return
	}
	if rec.Credential == "" || rec.Principal == nil {
		return
	}
	m.mu.Lock()
	m.credential = rec.Credential
	m.principal = rec.Principal
	m.mu.Unlock()
	m.log.Info("session restored", slog.String("username", rec.Principal.Username))
}

// Client returns the API client whose requests this manager decorates.
// Every other component must reach the backend through it.
func (m *Manager) Client() *api.Client {
	return m.api
}

// Authenticated reports whether a session is live: true iff both the
// credential and the principal are present.
func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.credential != "" && m.principal != nil
}

// Principal returns the current authenticated identity, if any.
func (m *Manager) Principal() (Principal, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.principal == nil {
		return Principal{}, false
	}
	return *m.principal, true
}

// Attach decorates an outbound request with the current credential as a
// bearer token. Anonymous sessions pass the request through unchanged.
func (m *Manager) Attach(r *http.Request) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.credential != "" {
		r.Header.Set("Authorization", "Bearer "+m.credential)
	}
}

// Login exchanges credentials with the backend and, on acceptance,
// establishes the session. Rejected credentials come back as a
// structured non-success result; the error return is reserved for
// transport-level failure.
func (m *Manager) Login(ctx context.Context, username, password string) (AuthResult, error) {
	res, err := m.api.Login(ctx, username, password)
	if err != nil {
		return AuthResult{}, err
	}
	return m.establish(res, "login")
}

// Register bootstraps the administrator account; the backend enforces
// the first-admin-only rule. Same contract as Login.
func (m *Manager) Register(ctx context.Context, username, email, password string) (AuthResult, error) {
	res, err := m.api.Register(ctx, username, email, password)
	if err != nil {
		return AuthResult{}, err
	}
	return m.establish(res, "register")
}

func (m *Manager) establish(res api.AuthResult, op string) (AuthResult, error) {
	if !res.Success {
		m.log.Info("authentication rejected", slog.String("op", op), slog.String("message", res.Message))
		return AuthResult{Success: false, Message: res.Message}, nil
	}
	if res.Token == "" || res.Admin == nil {
		// A success without both halves of the session cannot be
		// established without breaking the authenticated invariant.
		return AuthResult{Success: false, Message: "backend returned an incomplete session"}, nil
	}

	principal := &Principal{Username: res.Admin.Username, Role: res.Admin.Role}

	m.mu.Lock()
	m.credential = res.Token
	m.principal = principal
	m.persistLocked()
	m.mu.Unlock()

	m.log.Info("session established", slog.String("op", op), slog.String("username", principal.Username))
	return AuthResult{Success: true}, nil
}

// Logout unconditionally clears the session. It performs no network
// call and never fails; store write errors are logged and swallowed.
func (m *Manager) Logout() {
	m.clear("logout")
}

// HandleUnauthorized is invoked by the API client whenever the backend
// reports the credential invalid or expired on any privileged call. It
// performs the same clearing transaction as an explicit logout so a
// dead credential is never retried.
func (m *Manager) HandleUnauthorized() {
	m.clear("credential rejected")
}

func (m *Manager) clear(reason string) {
	m.mu.Lock()
	wasLive := m.credential != ""
	m.credential = ""
	m.principal = nil
	if err := m.store.Clear(); err != nil {
		m.log.Warn("failed to clear persisted session", slog.Any("error", err))
	}
	m.mu.Unlock()

	if wasLive {
		m.log.Info("session cleared", slog.String("reason", reason))
	}
}

// persistLocked writes the current session through to the durable
// store. Callers must hold m.mu. A write failure leaves the in-memory
// session intact: it is logged, not fatal.
func (m *Manager) persistLocked() {
	data, err := json.Marshal(record{Credential: m.credential, Principal: m.principal})
	if err != nil {
		m.log.Warn("failed to encode session record", slog.Any("error", err))
		return
	}
	if err := m.store.Save(data); err != nil {
		m.log.Warn("failed to persist session", slog.Any("error", err))
	}
}
