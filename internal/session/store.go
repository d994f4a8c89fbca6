package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/utkarshverma439/SiteCraft-AI/internal/event"
	"github.com/utkarshverma439/SiteCraft-AI/internal/logging"
	"github.com/utkarshverma439/SiteCraft-AI/internal/transport"
	"github.com/utkarshverma439/SiteCraft-AI/pkg/types"
)

// Reasons carried by session.cleared events.
const (
	ReasonLogout       = "logout"
	ReasonUnauthorized = "unauthorized"
)

// persistTimeout bounds cleanup writes that run without a caller context.
const persistTimeout = 5 * time.Second

type state struct {
	session types.Session
	epoch   uint64
}

// Store manages the client session.
type Store struct {
	client *transport.Client
	creds  CredentialStore
	bus    *event.Bus

	current atomic.Pointer[state]
	epochs  atomic.Uint64

	// mu orders writes to the credential store so a persisted record always
	// matches the last in-memory swap.
	mu sync.Mutex

	log zerolog.Logger
}

// NewStore creates a session store. It does not read persisted state; call
// Restore for that.
func NewStore(client *transport.Client, creds CredentialStore, bus *event.Bus) *Store {
	if bus == nil {
		bus = event.Global()
	}
	return &Store{
		client: client,
		creds:  creds,
		bus:    bus,
		log:    logging.Component("session"),
	}
}

// Attach installs the credential and unauthorized interceptors on the
// store's transport client.
func (s *Store) Attach() {
	s.client.UseRequest(transport.BearerAuth(s), transport.RequestID())
	s.client.UseResponse(transport.UnauthorizedHook(s.HandleUnauthorized))
}

// Credential implements transport.CredentialSource.
func (s *Store) Credential() (transport.Credential, bool) {
	st := s.current.Load()
	if st == nil {
		return transport.Credential{}, false
	}
	return transport.Credential{Token: st.session.Token, Epoch: st.epoch}, true
}

// Current returns a copy of the session, or nil when logged out.
func (s *Store) Current() *types.Session {
	st := s.current.Load()
	if st == nil {
		return nil
	}
	user := *st.session.User
	return &types.Session{Token: st.session.Token, User: &user}
}

// User returns a copy of the logged-in user, or nil.
func (s *Store) User() *types.User {
	if cur := s.Current(); cur != nil {
		return cur.User
	}
	return nil
}

// IsAuthenticated reports whether a session is present.
func (s *Store) IsAuthenticated() bool {
	return s.current.Load() != nil
}

// Restore loads the persisted session, if any. The token is not checked
// against the server; a stale token fails on its first use. A record that
// has a token without a user, or the reverse, is discarded.
func (s *Store) Restore(ctx context.Context) (bool, error) {
	sess, err := s.creds.Load(ctx)
	if errors.Is(err, ErrNoSession) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if !sess.Valid() {
		s.log.Warn().Msg("discarding incomplete persisted session")
		if err := s.creds.Clear(ctx); err != nil {
			return false, err
		}
		return false, nil
	}

	s.mu.Lock()
	epoch := s.install(sess)
	s.mu.Unlock()

	s.log.Debug().Int64("user_id", sess.User.ID).Uint64("epoch", epoch).Msg("session restored")
	s.publishLogin(sess.User, epoch)
	return true, nil
}

type authResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    *types.User `json:"user"`
}

// Login authenticates with email and password. Input is validated locally
// first; on any failure the current session is left untouched.
func (s *Store) Login(ctx context.Context, email, password string) (*types.Session, error) {
	in := types.LoginInput{Email: email, Password: password}
	if err := validateLogin(&in); err != nil {
		return nil, err
	}

	var resp authResponse
	err := s.client.Do(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   in,
		Public: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, &resp)
}

// Register creates an account and logs into it.
func (s *Store) Register(ctx context.Context, in types.RegisterInput) (*types.Session, error) {
	if err := validateRegister(&in); err != nil {
		return nil, err
	}

	var resp authResponse
	err := s.client.Do(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Body:   in,
		Public: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, &resp)
}

func (s *Store) establish(ctx context.Context, resp *authResponse) (*types.Session, error) {
	sess := &types.Session{Token: resp.Token, User: resp.User}
	if !sess.Valid() {
		return nil, &types.APIError{Kind: types.KindServer, Message: "malformed authentication response"}
	}

	s.mu.Lock()
	epoch := s.install(sess)
	if err := s.creds.Save(ctx, sess); err != nil {
		// The session stays usable for this process.
		s.log.Warn().Err(err).Msg("failed to persist session")
	}
	s.mu.Unlock()

	s.log.Info().Int64("user_id", sess.User.ID).Uint64("epoch", epoch).Msg("logged in")
	s.publishLogin(sess.User, epoch)
	return s.Current(), nil
}

// install swaps in sess under a fresh epoch. Callers hold s.mu.
func (s *Store) install(sess *types.Session) uint64 {
	user := *sess.User
	epoch := s.epochs.Add(1)
	s.current.Store(&state{
		session: types.Session{Token: sess.Token, User: &user},
		epoch:   epoch,
	})
	return epoch
}

// Logout drops the session from memory and durable storage. It is safe to
// call when already logged out.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	old := s.current.Swap(nil)
	err := s.creds.Clear(ctx)
	s.mu.Unlock()

	if old != nil {
		s.log.Info().Uint64("epoch", old.epoch).Msg("logged out")
		data := event.SessionClearedData{Epoch: old.epoch, Reason: ReasonLogout}
		s.bus.PublishSync(event.Event{Type: event.SessionLogout, Data: data})
		s.bus.PublishSync(event.Event{Type: event.SessionCleared, Data: data})
	}
	return err
}

// HandleUnauthorized invalidates the session that issued cred. Only the
// first call for the current session has any effect; calls for older
// sessions, or repeated calls, are no-ops. The winning call publishes
// session.cleared and then session.unauthorized.
func (s *Store) HandleUnauthorized(cred transport.Credential) {
	if cur := s.current.Load(); cur == nil || cur.epoch != cred.Epoch {
		return
	}

	s.mu.Lock()
	cur := s.current.Load()
	if cur == nil || cur.epoch != cred.Epoch || !s.current.CompareAndSwap(cur, nil) {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	if err := s.creds.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear persisted session")
	}
	cancel()
	s.mu.Unlock()

	s.log.Warn().Uint64("epoch", cur.epoch).Msg("session rejected by server")
	data := event.SessionClearedData{Epoch: cur.epoch, Reason: ReasonUnauthorized}
	s.bus.PublishSync(event.Event{Type: event.SessionCleared, Data: data})
	s.bus.PublishSync(event.Event{Type: event.SessionUnauthorized, Data: data})
}

type profileResponse struct {
	User *types.User `json:"user"`
}

// Profile fetches the user's profile and refreshes the cached copy.
func (s *Store) Profile(ctx context.Context) (*types.User, error) {
	var resp profileResponse
	if err := s.client.Get(ctx, "/auth/profile", nil, &resp); err != nil {
		return nil, err
	}
	return s.refreshUser(ctx, resp.User)
}

// UpdateProfile changes profile fields. Only non-nil fields are sent.
func (s *Store) UpdateProfile(ctx context.Context, in types.ProfileUpdate) (*types.User, error) {
	if err := validateProfile(&in); err != nil {
		return nil, err
	}

	var resp profileResponse
	if err := s.client.Put(ctx, "/auth/profile", in, &resp); err != nil {
		return nil, err
	}
	return s.refreshUser(ctx, resp.User)
}

// refreshUser replaces the user of the current session, keeping its epoch.
// If the session changed while the request was in flight the new profile is
// returned but not cached.
func (s *Store) refreshUser(ctx context.Context, user *types.User) (*types.User, error) {
	if user == nil {
		return nil, &types.APIError{Kind: types.KindServer, Message: "malformed profile response"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	if cur == nil || cur.session.User.ID != user.ID {
		u := *user
		return &u, nil
	}

	u := *user
	next := &state{session: types.Session{Token: cur.session.Token, User: &u}, epoch: cur.epoch}
	if s.current.CompareAndSwap(cur, next) {
		if err := s.creds.Save(ctx, &next.session); err != nil {
			s.log.Warn().Err(err).Msg("failed to persist profile")
		}
	}
	out := *user
	return &out, nil
}

func (s *Store) publishLogin(user *types.User, epoch uint64) {
	u := *user
	s.bus.Publish(event.Event{Type: event.SessionLogin, Data: event.SessionData{User: &u, Epoch: epoch}})
}
