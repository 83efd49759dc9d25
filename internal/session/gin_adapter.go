package session

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
)

// Flash messages modify the session twice per round trip: once when the
// form handler sets them and once when the next page load pops them. In
// both cases the updated session cookie has to reach the response before
// the first body byte, but gin handlers write the body directly, so the
// middleware wraps the writer and commits the session on first write.

// commitWriter intercepts the first header or body write and runs commit
// exactly once before it.
type commitWriter struct {
	gin.ResponseWriter
	commit    func(gin.ResponseWriter)
	committed bool
}

func (w *commitWriter) ensureCommitted() {
	if w.committed {
		return
	}
	w.committed = true
	w.commit(w.ResponseWriter)
}

func (w *commitWriter) WriteHeader(code int) {
	w.ensureCommitted()
	w.ResponseWriter.WriteHeader(code)
}

func (w *commitWriter) WriteHeaderNow() {
	w.ensureCommitted()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *commitWriter) Write(b []byte) (int, error) {
	w.ensureCommitted()
	return w.ResponseWriter.Write(b)
}

// LoadSave returns a Gin middleware bridging scs's load/commit cycle.
// This must run before any handler that touches flash messages.
func (m *Manager) LoadSave() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		if cookie, err := c.Request.Cookie(m.Cookie.Name); err == nil {
			token = cookie.Value
		}

		ctx, err := m.Load(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Request = c.Request.WithContext(ctx)

		cw := &commitWriter{
			ResponseWriter: c.Writer,
			commit: func(w gin.ResponseWriter) {
				m.writeSessionCookie(ctx, w)
			},
		}
		c.Writer = cw

		c.Next()

		// Redirect-only responses may never write a body, so commit
		// here as well; ensureCommitted makes the second call a no-op.
		cw.ensureCommitted()
	}
}

// writeSessionCookie persists session changes and sets the cookie. An
// untouched session (no flash set or popped) writes nothing.
func (m *Manager) writeSessionCookie(ctx context.Context, w gin.ResponseWriter) {
	switch m.Status(ctx) {
	case scs.Modified:
		token, expiry, err := m.Commit(ctx)
		if err != nil {
			return
		}
		m.WriteSessionCookie(ctx, w, token, expiry)
	case scs.Destroyed:
		m.WriteSessionCookie(ctx, w, "", time.Time{})
	}
}
