// Package auth resolves which organization a request acts for. Sessions live
// server-side in Redis; the cookie only carries an encrypted session id.
//
// Session keys should be 32 or 64 bytes for HMAC authentication,
// and 16, 24, or 32 bytes for AES encryption. Generate them with:
//
//	openssl rand -base64 32
package auth

import (
	"bytes"
	"context"
	"encoding/base32"
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"

	"github.com/ghuser/inventra/pkg/config"
)

// RedisStore is a sessions.Store keeping session values in Redis under
// "<service>:session:<id>" with a TTL equal to the session MaxAge.
// Values are gob-encoded.
type RedisStore struct {
	client  *redis.Client
	prefix  string
	codecs  []securecookie.Codec
	options sessions.Options
}

// NewSessionStore builds the store from the session settings in cfg. Cookies
// are HttpOnly and SameSite=Lax, and Secure in production.
func NewSessionStore(client *redis.Client, cfg *config.Config) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: cfg.ServiceName + ":session:",
		codecs: securecookie.CodecsFromPairs([]byte(cfg.SessionAuthKey), []byte(cfg.SessionEncryptionKey)),
		options: sessions.Options{
			Path:     "/",
			MaxAge:   int(cfg.SessionTTL / time.Second),
			HttpOnly: true,
			Secure:   cfg.IsProduction(),
			SameSite: http.SameSiteLaxMode,
		},
	}
}

// Get returns the request's cached session, loading it on first use.
func (s *RedisStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New returns the session named by the request cookie. A missing, tampered
// or expired cookie, or a session gone from Redis, yields a fresh session
// and no error.
func (s *RedisStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := s.options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	var id string
	if err := securecookie.DecodeMulti(name, c.Value, &id, s.codecs...); err != nil {
		return session, nil
	}
	if err := s.load(r.Context(), id, session); err != nil {
		return session, nil
	}
	session.ID = id
	session.IsNew = false
	return session, nil
}

// Save writes the session to Redis and sets the cookie. A negative MaxAge
// deletes both.
func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.client.Del(r.Context(), s.prefix+session.ID).Err(); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = strings.TrimRight(
			base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(session.Values); err != nil {
		return fmt.Errorf("encode session values: %w", err)
	}
	ttl := time.Duration(session.Options.MaxAge) * time.Second
	if err := s.client.Set(r.Context(), s.prefix+session.ID, buf.Bytes(), ttl).Err(); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

func (s *RedisStore) load(ctx context.Context, id string, session *sessions.Session) error {
	data, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	return gob.NewDecoder(bytes.NewReader(data)).Decode(&session.Values)
}

// SignIn binds the caller's session to orgID. RequireAuth reads it back on
// later requests.
func SignIn(store sessions.Store, w http.ResponseWriter, r *http.Request, orgID uuid.UUID) error {
	if orgID == uuid.Nil {
		return errors.New("auth: sign in requires an org id")
	}
	session, err := store.Get(r, sessionName)
	if err != nil {
		return fmt.Errorf("auth: get session: %w", err)
	}
	session.Values[sessionOrgIDKey] = orgID.String()
	return session.Save(r, w)
}

// SignOut expires the caller's session.
func SignOut(store sessions.Store, w http.ResponseWriter, r *http.Request) error {
	session, err := store.Get(r, sessionName)
	if err != nil {
		return fmt.Errorf("auth: get session: %w", err)
	}
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
