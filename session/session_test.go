package session_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akulov/shopdesk/api"
	"github.com/akulov/shopdesk/internal/backendtest"
	"github.com/akulov/shopdesk/orders"
	"github.com/akulov/shopdesk/session"
	"github.com/akulov/shopdesk/storage"
	"github.com/akulov/shopdesk/storage/memory"
)

type failingStore struct {
	loadErr  error
	saveErr  error
	clearErr error
	inner    *memory.Store
}

func (f *failingStore) Load() ([]byte, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.inner.Load()
}

func (f *failingStore) Save(data []byte) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.inner.Save(data)
}

func (f *failingStore) Clear() error {
	if f.clearErr != nil {
		return f.clearErr
	}
	return f.inner.Clear()
}

func newBackend(t *testing.T) (*backendtest.Backend, string) {
	t.Helper()
	backend := backendtest.New()
	backend.AddAccount("admin", "admin@example.com", "hunter22222")
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)
	return backend, srv.URL
}

func TestManager_LoginEstablishesSession(t *testing.T) {
	_, url := newBackend(t)
	store := memory.NewStore()
	m := session.NewManager(url, store)

	assert.False(t, m.Authenticated())
	_, ok := m.Principal()
	assert.False(t, ok)

	res, err := m.Login(context.Background(), "admin", "hunter22222")
	require.NoError(t, err)
	require.True(t, res.Success)

	assert.True(t, m.Authenticated())
	principal, ok := m.Principal()
	require.True(t, ok)
	assert.Equal(t, "admin", principal.Username)
	assert.Equal(t, "admin", principal.Role)

	// The session is written through to the durable store.
	_, err = store.Load()
	require.NoError(t, err)
}

func TestManager_LoginRejected(t *testing.T) {
	_, url := newBackend(t)
	m := session.NewManager(url, memory.NewStore())

	res, err := m.Login(context.Background(), "admin", "wrong")
	require.NoError(t, err, "rejected credentials are a reported outcome, not an error")
	assert.False(t, res.Success)
	assert.Equal(t, "invalid username or password", res.Message)
	assert.False(t, m.Authenticated())
}

func TestManager_LoginTransportFailure(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close()
	m := session.NewManager(srv.URL, memory.NewStore())

	_, err := m.Login(context.Background(), "admin", "hunter22222")
	require.Error(t, err)
	assert.True(t, api.IsTransport(err))
	assert.False(t, m.Authenticated())
}

func TestManager_Register(t *testing.T) {
	backend := backendtest.New()
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)
	m := session.NewManager(srv.URL, memory.NewStore())

	res, err := m.Register(context.Background(), "admin", "admin@example.com", "hunter22222")
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.True(t, m.Authenticated())

	m2 := session.NewManager(srv.URL, memory.NewStore())
	res, err = m2.Register(context.Background(), "other", "other@example.com", "hunter22222")
	require.NoError(t, err)
	assert.False(t, res.Success, "the backend's first-admin-only verdict is relayed")
	assert.False(t, m2.Authenticated())
}

func TestManager_SessionSurvivesRestart(t *testing.T) {
	_, url := newBackend(t)
	store := memory.NewStore()

	m := session.NewManager(url, store)
	res, err := m.Login(context.Background(), "admin", "hunter22222")
	require.NoError(t, err)
	require.True(t, res.Success)

	// A new manager over the same store is the restarted process.
	restarted := session.NewManager(url, store)
	assert.True(t, restarted.Authenticated())
	principal, ok := restarted.Principal()
	require.True(t, ok)
	assert.Equal(t, "admin", principal.Username)

	// The restored credential is the live one: privileged calls work.
	_, err = restarted.Client().ListOrders(context.Background())
	require.NoError(t, err)
}

func TestManager_Logout(t *testing.T) {
	_, url := newBackend(t)
	store := memory.NewStore()
	m := session.NewManager(url, store)

	res, err := m.Login(context.Background(), "admin", "hunter22222")
	require.NoError(t, err)
	require.True(t, res.Success)

	m.Logout()
	assert.False(t, m.Authenticated())
	_, ok := m.Principal()
	assert.False(t, ok)

	_, err = store.Load()
	assert.ErrorIs(t, err, storage.ErrNotFound, "logout must clear the durable record")

	// Logout is unconditional and repeatable.
	m.Logout()
	assert.False(t, m.Authenticated())
}

func TestManager_UnauthorizedResponseClearsSession(t *testing.T) {
	backend, url := newBackend(t)
	store := memory.NewStore()
	m := session.NewManager(url, store)

	res, err := m.Login(context.Background(), "admin", "hunter22222")
	require.NoError(t, err)
	require.True(t, res.Success)

	// Invalidate the credential server-side; the next privileged call
	// must force the session back to anonymous.
	c := orders.NewController(m.Client())
	backendToken := currentToken(t, store)
	backend.RevokeToken(backendToken)

	_, err = c.List(context.Background())
	require.ErrorIs(t, err, api.ErrUnauthorized)

	assert.False(t, m.Authenticated(), "a dead credential must never be retried")
	_, err = store.Load()
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestManager_AttachReflectsSessionState(t *testing.T) {
	_, url := newBackend(t)
	m := session.NewManager(url, memory.NewStore())

	req := httptest.NewRequest("GET", "http://example.test/orders", nil)
	m.Attach(req)
	assert.Empty(t, req.Header.Get("Authorization"), "anonymous requests carry no credential")

	res, err := m.Login(context.Background(), "admin", "hunter22222")
	require.NoError(t, err)
	require.True(t, res.Success)

	req = httptest.NewRequest("GET", "http://example.test/orders", nil)
	m.Attach(req)
	assert.Equal(t, "Bearer "+currentTokenOf(t, m), req.Header.Get("Authorization"))

	m.Logout()
	req = httptest.NewRequest("GET", "http://example.test/orders", nil)
	m.Attach(req)
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestManager_CorruptOrFailingStoreDegradesToAnonymous(t *testing.T) {
	_, url := newBackend(t)

	t.Run("corrupt record", func(t *testing.T) {
		store := memory.NewStore()
		require.NoError(t, store.Save([]byte("not json")))

		m := session.NewManager(url, store)
		assert.False(t, m.Authenticated())
	})

	t.Run("load failure", func(t *testing.T) {
		store := &failingStore{inner: memory.NewStore(), loadErr: assert.AnError}
		m := session.NewManager(url, store)
		assert.False(t, m.Authenticated())
	})

	t.Run("save failure keeps in-memory session", func(t *testing.T) {
		store := &failingStore{inner: memory.NewStore(), saveErr: assert.AnError}
		m := session.NewManager(url, store)

		res, err := m.Login(context.Background(), "admin", "hunter22222")
		require.NoError(t, err)
		require.True(t, res.Success)
		assert.True(t, m.Authenticated())
	})

	t.Run("clear failure still clears in-memory session", func(t *testing.T) {
		store := &failingStore{inner: memory.NewStore(), clearErr: assert.AnError}
		m := session.NewManager(url, store)

		res, err := m.Login(context.Background(), "admin", "hunter22222")
		require.NoError(t, err)
		require.True(t, res.Success)

		m.Logout()
		assert.False(t, m.Authenticated())
	})
}

// currentToken reads the persisted credential back out of the store.
func currentToken(t *testing.T, store storage.Store) string {
	t.Helper()
	data, err := store.Load()
	require.NoError(t, err)
	var rec struct {
		Credential string `json:"credential"`
	}
	require.NoError(t, json.Unmarshal(data, &rec))
	require.NotEmpty(t, rec.Credential)
	return rec.Credential
}

func currentTokenOf(t *testing.T, m *session.Manager) string {
	t.Helper()
	req := httptest.NewRequest("GET", "http://example.test/", nil)
	m.Attach(req)
	header := req.Header.Get("Authorization")
	require.NotEmpty(t, header)
	return header[len("Bearer "):]
}
