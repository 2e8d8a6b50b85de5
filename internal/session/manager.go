package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gitlab.com/dirk.krummacker/contact-manager/internal/apperror"
	"go.uber.org/zap"
)

const (
	// CookieName is the name of the cookie carrying the session id.
	CookieName = "contacts_session"

	// SignInPath is where the guard sends anonymous requests.
	SignInPath = "/signin"

	// PleaseSignIn is the flash message set by the guard.
	PleaseSignIn = "Please sign in."

	contextKey = "session"
)

// state is the session of the current request as kept in the gin context.
type state struct {
	id      string
	session Session
}

// Manager connects gin requests to sessions in a Store. Every change is written to the store
// and the cookie immediately, so handlers must change the session before writing the response.
type Manager struct {
	store  Store
	ttl    time.Duration
	secure bool
	logger *zap.Logger
}

// NewManager creates a Manager. A ttl of 0 selects DefaultTTL. secure marks the cookie as
// HTTPS only.
func NewManager(store Store, ttl time.Duration, secure bool, logger *zap.Logger) *Manager {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Manager{store: store, ttl: ttl, secure: secure, logger: logger}
}

// Middleware loads the session named by the request cookie into the gin context. Requests
// without a cookie, or with an unknown or expired one, start out anonymous.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		st := &state{}
		if id, err := c.Cookie(CookieName); err == nil && id != "" {
			s, ok, err := m.store.Get(c.Request.Context(), id)
			if err != nil {
				m.logger.Warn("could not load session", zap.Error(err))
			} else if ok {
				st.id = id
				st.session = s
			}
		}
		c.Set(contextKey, st)
		c.Next()
	}
}

// RequireSignIn redirects anonymous requests to the sign-in page with a flash message and
// stops the handler chain.
func (m *Manager) RequireSignIn() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Current(c).SignedIn() {
			c.Next()
			return
		}
		if err := m.SetFlash(c, PleaseSignIn); err != nil {
			m.logger.Warn("could not store flash message", zap.Error(err))
		}
		c.Redirect(http.StatusFound, SignInPath)
		c.Abort()
	}
}

func lookup(c *gin.Context) *state {
	if v, ok := c.Get(contextKey); ok {
		if st, ok := v.(*state); ok {
			return st
		}
	}
	return nil
}

// Current returns the session of the request. Requests that passed no middleware are anonymous.
func Current(c *gin.Context) Session {
	if st := lookup(c); st != nil {
		return st.session
	}
	return Session{}
}

// Username returns the signed-in user of the request, or "".
func Username(c *gin.Context) string {
	return Current(c).Username
}

// SignedInUser returns the signed-in user of the request, or apperror.ErrNotSignedIn.
func SignedInUser(c *gin.Context) (string, error) {
	if s := Current(c); s.SignedIn() {
		return s.Username, nil
	}
	return "", apperror.ErrNotSignedIn
}

// SignIn starts an authenticated session for username. The session id is replaced so that an
// id handed out before sign-in cannot be used afterwards.
func (m *Manager) SignIn(c *gin.Context, username string) error {
	st := lookup(c)
	if st == nil {
		return ErrNoSession
	}
	if st.id != "" {
		if err := m.store.Delete(c.Request.Context(), st.id); err != nil {
			return err
		}
		st.id = ""
	}
	st.session = Session{Username: username}
	return m.save(c, st)
}

// SignOut turns the session anonymous. A pending flash message survives.
func (m *Manager) SignOut(c *gin.Context) error {
	st := lookup(c)
	if st == nil {
		return ErrNoSession
	}
	st.session.Username = ""
	return m.save(c, st)
}

// SetFlash stores a message to be shown on the next rendered page.
func (m *Manager) SetFlash(c *gin.Context, message string) error {
	st := lookup(c)
	if st == nil {
		return ErrNoSession
	}
	st.session.Flash = message
	return m.save(c, st)
}

// PopFlash returns the pending flash message and clears it, so that it is shown only once.
func (m *Manager) PopFlash(c *gin.Context) (string, error) {
	st := lookup(c)
	if st == nil || st.session.Flash == "" {
		return "", nil
	}
	message := st.session.Flash
	st.session.Flash = ""
	return message, m.save(c, st)
}

func (m *Manager) save(c *gin.Context, st *state) error {
	if st.id == "" {
		st.id = uuid.NewString()
	}
	if err := m.store.Put(c.Request.Context(), st.id, st.session); err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, st.id, int(m.ttl/time.Second), "/", "", m.secure, true)
	return nil
}
