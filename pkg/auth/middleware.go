package auth

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/restocker/pkg/httpx"
	"github.com/ghuser/restocker/pkg/logger"
)

const sessionName = "restocker_device"
const sessionDeviceIDKey = "device_id"

// Device is a chi middleware that gives every browser a stable device id.
// The id lives in a server-side session; a request without a valid session
// gets a fresh id and a new cookie. Preferences are keyed by this id.
//
// After this middleware, handlers can safely call auth.DeviceIDFromCtx(r.Context()).
func Device(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, sessionName)
			if err != nil {
				log.WarnContext(r.Context(), "invalid session cookie, issuing a new one", "error", err)
			}

			id, ok := deviceID(session)
			if !ok {
				id = uuid.New()
				session.Values[sessionDeviceIDKey] = id.String()
				if err := session.Save(r, w); err != nil {
					log.ErrorContext(r.Context(), "failed to save device session", "error", err)
					httpx.JSONError(w, http.StatusInternalServerError, "session unavailable")
					return
				}
				log.DebugContext(r.Context(), "device session issued", "device_id", id)
			}

			next.ServeHTTP(w, r.WithContext(WithDeviceID(r.Context(), id)))
		})
	}
}

func deviceID(session *sessions.Session) (uuid.UUID, bool) {
	raw, ok := session.Values[sessionDeviceIDKey].(string)
	if !ok || raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
