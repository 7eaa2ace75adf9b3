package middleware

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/securecookie"

	"github.com/raolivei/iphone-export/internal/cart"
)

const (
	sessionCookieName = "SHOP_WEB_SESSION"
	sessionLifetime   = 30 * 24 * time.Hour
)

// SessionData is the signed cookie payload. The cart lives here so it
// survives restarts without any server-side storage; the admin token rides
// along so admin pages can call the backend on the visitor's behalf.
type SessionData struct {
	ID            string      `json:"id"`
	Locale        string      `json:"locale,omitempty"`
	Cart          []cart.Line `json:"cart,omitempty"`
	AdminToken    string      `json:"adminToken,omitempty"`
	CheckoutToken string      `json:"checkoutToken,omitempty"`
	CSRFToken     string      `json:"csrf,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
	// internal dirty flag; not serialized
	dirty bool `json:"-"`
}

var (
	sessionCodec  *securecookie.SecureCookie
	sessionSecure bool
)

func init() {
	// signing key: prefer env var; if absent, generate a process-ephemeral one (dev only)
	hashKey := []byte(os.Getenv("SHOP_WEB_SESSION_HASH_KEY"))
	if len(hashKey) == 0 {
		hashKey = make([]byte, 32)
		if _, err := rand.Read(hashKey); err != nil {
			log.Printf("session: failed to generate signing key: %v", err)
			hashKey = []byte("insecure-dev-key-please-set-SHOP_WEB_SESSION_HASH_KEY")
		}
		log.Printf("session: using ephemeral signing key (dev). Set SHOP_WEB_SESSION_HASH_KEY for production.")
	}
	// optional block key enables payload encryption on top of signing
	var blockKey []byte
	if bk := os.Getenv("SHOP_WEB_SESSION_BLOCK_KEY"); bk != "" {
		blockKey = []byte(bk)
	}
	sessionCodec = securecookie.New(hashKey, blockKey)
	sessionCodec.SetSerializer(securecookie.JSONEncoder{})
	sessionCodec.MaxAge(int(sessionLifetime / time.Second))

	sessionSecure = strings.ToLower(os.Getenv("SHOP_WEB_ENV")) == "prod"
}

// Session loads or initializes a session and stores it in request context.
// The cookie is written lazily, just before the first response byte, so
// handlers can keep mutating the session while building the page.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sd, fromCookie := readSessionCookie(r)
		if sd.ID == "" {
			sd.ID = randID()
			sd.CreatedAt = time.Now().UTC()
			sd.UpdatedAt = sd.CreatedAt
			sd.CSRFToken = newCSRFToken()
			sd.dirty = true
		}
		ctx := context.WithValue(r.Context(), ctxKeySession, sd)
		rw := NewResponseRecorder(w)
		rw.SetBeforeWrite(func(w http.ResponseWriter) {
			if sd.dirty || !fromCookie {
				writeSessionCookie(w, sd)
			}
		})
		next.ServeHTTP(rw, r.WithContext(ctx))
		// If nothing was written yet (e.g., HEAD), persist cookie now
		if !rw.wrote && (sd.dirty || !fromCookie) {
			writeSessionCookie(w, sd)
		}
	})
}

// GetSession returns session data from context
func GetSession(r *http.Request) *SessionData {
	if v := r.Context().Value(ctxKeySession); v != nil {
		if sd, ok := v.(*SessionData); ok {
			return sd
		}
	}
	return &SessionData{}
}

// MarkDirty flags the session for writing at end of request
func (s *SessionData) MarkDirty() { s.dirty = true; s.UpdatedAt = time.Now().UTC() }

// CartStore materializes the persisted cart lines into a mutable store.
func (s *SessionData) CartStore() *cart.Store {
	return cart.FromLines(s.Cart)
}

// SaveCart writes the store's lines back into the session and marks it dirty.
func (s *SessionData) SaveCart(store *cart.Store) {
	s.Cart = store.Lines()
	s.MarkDirty()
}

// RegenerateID assigns a new session ID and CSRF token to prevent fixation after auth.
func (s *SessionData) RegenerateID() {
	s.ID = randID()
	s.CSRFToken = newCSRFToken()
	s.MarkDirty()
}

// readSessionCookie decodes and verifies the session cookie.
func readSessionCookie(r *http.Request) (*SessionData, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return &SessionData{}, false
	}
	var sd SessionData
	if err := sessionCodec.Decode(sessionCookieName, c.Value, &sd); err != nil {
		return &SessionData{}, false
	}
	return &sd, true
}

func writeSessionCookie(w http.ResponseWriter, sd *SessionData) {
	encoded, err := sessionCodec.Encode(sessionCookieName, sd)
	if err != nil {
		log.Printf("session: encode cookie: %v", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		Secure:   sessionSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(sessionLifetime),
	})
}

func randID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
