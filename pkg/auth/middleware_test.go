package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/inventra/pkg/logger"
)

// newTestStore returns a gorilla CookieStore (no Redis required) for unit tests.
// In production the RedisStore is used; the sessions.Store interface is identical.
func newTestStore() sessions.Store {
	return sessions.NewCookieStore(
		[]byte("test-auth-key-must-be-32-bytes!!"),
		[]byte("test-enc-key-must-be-32-bytes!!!"),
	)
}

// newTestLogger creates a logger that discards output.
func newTestLogger() logger.Logger {
	return logger.Discard()
}

// requestWithSession builds an *http.Request that carries a valid session
// cookie containing the given orgID.
func requestWithSession(t *testing.T, store sessions.Store, orgID uuid.UUID) *http.Request {
	t.Helper()

	// Write the session cookie into a recorder, then copy it to the real request.
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/sales-orders", nil)

	if err := SignIn(store, w, r, orgID); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	// Copy Set-Cookie header from recorder to a fresh request.
	req := httptest.NewRequest(http.MethodPost, "/api/sales-orders", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestRequireAuth_ValidSession(t *testing.T) {
	store := newTestStore()
	log := newTestLogger()
	orgID := uuid.New()

	var capturedOrgID uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedOrgID, _ = OrgIDFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	r := requestWithSession(t, store, orgID)
	w := httptest.NewRecorder()
	RequireAuth(store, log)(next).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if capturedOrgID != orgID {
		t.Fatalf("expected OrgID %v in context, got %v", orgID, capturedOrgID)
	}
}

func TestRequireAuth_MissingCookie(t *testing.T) {
	store := newTestStore()
	log := newTestLogger()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be called")
	})

	r := httptest.NewRequest(http.MethodPost, "/api/sales-orders", nil)
	w := httptest.NewRecorder()
	RequireAuth(store, log)(next).ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuth_SessionMissingOrgID(t *testing.T) {
	store := newTestStore()
	log := newTestLogger()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be called")
	})

	// Build a session with no org_id value.
	writeReq := httptest.NewRequest(http.MethodPost, "/api/sales-orders", nil)
	w1 := httptest.NewRecorder()
	session, _ := store.Get(writeReq, sessionName)
	// intentionally no session.Values[sessionOrgIDKey]
	_ = session.Save(writeReq, w1)

	r := httptest.NewRequest(http.MethodPost, "/api/sales-orders", nil)
	for _, c := range w1.Result().Cookies() {
		r.AddCookie(c)
	}

	w := httptest.NewRecorder()
	RequireAuth(store, log)(next).ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuth_InvalidOrgIDInSession(t *testing.T) {
	store := newTestStore()
	log := newTestLogger()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be called")
	})

	writeReq := httptest.NewRequest(http.MethodPost, "/api/sales-orders", nil)
	w1 := httptest.NewRecorder()
	session, _ := store.Get(writeReq, sessionName)
	session.Values[sessionOrgIDKey] = "not-a-valid-uuid"
	_ = session.Save(writeReq, w1)

	r := httptest.NewRequest(http.MethodPost, "/api/sales-orders", nil)
	for _, c := range w1.Result().Cookies() {
		r.AddCookie(c)
	}

	w := httptest.NewRecorder()
	RequireAuth(store, log)(next).ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestStaticOrg(t *testing.T) {
	orgID := uuid.New()
	var captured uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = OrgIDFromCtx(r.Context())
	})

	StaticOrg(orgID)(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if captured != orgID {
		t.Fatalf("expected %v, got %v", orgID, captured)
	}
}

func TestRequireOrg(t *testing.T) {
	w := httptest.NewRecorder()
	if _, ok := RequireOrg(w, httptest.NewRequest(http.MethodGet, "/", nil)); ok {
		t.Fatal("expected no org on a bare request")
	}
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	orgID := uuid.New()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(WithOrgID(r.Context(), orgID))
	got, ok := RequireOrg(httptest.NewRecorder(), r)
	if !ok || got != orgID {
		t.Fatalf("RequireOrg = %v, %v", got, ok)
	}
}

func TestSignIn_RejectsNilOrg(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	if err := SignIn(newTestStore(), httptest.NewRecorder(), r, uuid.Nil); err == nil {
		t.Fatal("expected error for nil org")
	}
}

func TestSignOut_ExpiresCookie(t *testing.T) {
	store := newTestStore()
	r := requestWithSession(t, store, uuid.New())

	w := httptest.NewRecorder()
	if err := SignOut(store, w, r); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected an expiring cookie, got %+v", cookies)
	}

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	RequireAuth(store, newTestLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run after sign out")
	})).ServeHTTP(rec, next)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after sign out, got %d", rec.Code)
	}
}
