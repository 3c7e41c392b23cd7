package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/restocker/pkg/logger"
)

// newTestStore returns a gorilla CookieStore (no Redis required) for unit tests.
// In production the RedisStore is used; the sessions.Store interface is identical.
func newTestStore() sessions.Store {
	return sessions.NewCookieStore(
		[]byte("test-auth-key-must-be-32-bytes!!"),
		[]byte("test-enc-key-must-be-32-bytes!!!"),
	)
}

func newTestLogger() logger.Logger {
	return logger.NewJSON(io.Discard, "error")
}

// requestWithDevice builds a request carrying a session cookie whose device
// id value is raw.
func requestWithDevice(t *testing.T, store sessions.Store, raw string) *http.Request {
	t.Helper()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/preferences", nil)

	session, err := store.Get(r, sessionName)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	session.Values[sessionDeviceIDKey] = raw
	if err := session.Save(r, w); err != nil {
		t.Fatalf("save session: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/preferences", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func captureDevice(got *uuid.UUID) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got, _ = DeviceIDFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestDevice_ExistingSessionKeepsID(t *testing.T) {
	store := newTestStore()
	id := uuid.New()

	var got uuid.UUID
	w := httptest.NewRecorder()
	Device(store, newTestLogger())(captureDevice(&got)).ServeHTTP(w, requestWithDevice(t, store, id.String()))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got != id {
		t.Fatalf("expected device %v in context, got %v", id, got)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Fatal("existing session must not be re-issued")
	}
}

func TestDevice_MissingCookieIssuesNewID(t *testing.T) {
	store := newTestStore()

	var got uuid.UUID
	w := httptest.NewRecorder()
	Device(store, newTestLogger())(captureDevice(&got)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/preferences", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got == uuid.Nil {
		t.Fatal("expected a fresh device id in context")
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != sessionName {
		t.Fatalf("expected one %s cookie, got %v", sessionName, cookies)
	}

	// The issued cookie resolves to the same id on the next request.
	next := httptest.NewRequest(http.MethodGet, "/api/preferences", nil)
	next.AddCookie(cookies[0])
	var again uuid.UUID
	Device(store, newTestLogger())(captureDevice(&again)).ServeHTTP(httptest.NewRecorder(), next)
	if again != got {
		t.Fatalf("expected %v on follow-up request, got %v", got, again)
	}
}

func TestDevice_InvalidIDIsReplaced(t *testing.T) {
	store := newTestStore()

	var got uuid.UUID
	w := httptest.NewRecorder()
	Device(store, newTestLogger())(captureDevice(&got)).ServeHTTP(w, requestWithDevice(t, store, "not-a-valid-uuid"))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got == uuid.Nil {
		t.Fatal("expected a replacement device id")
	}
}
