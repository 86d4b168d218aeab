package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"homehub/internal/models"
	"homehub/internal/security"
	"homehub/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	UserContextKey    ContextKey = "user"
	SessionContextKey ContextKey = "session"
	FamilyContextKey  ContextKey = "family_id"
)

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService   *service.AuthService
	familyService *service.FamilyService
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, familyService *service.FamilyService) *Middleware {
	return &Middleware{
		authService:   authService,
		familyService: familyService,
	}
}

// RequireAuth requires a valid session and puts the user and session on the
// request context
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(security.SessionCookieName)
		if err != nil {
			m.rejectUnauthenticated(w, r)
			return
		}

		user, session, err := m.authService.ValidateSession(cookie.Value)
		if err != nil {
			http.SetCookie(w, security.CreateDeleteCookie(r))
			m.rejectUnauthenticated(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		ctx = context.WithValue(ctx, SessionContextKey, session)
		next(w, r.WithContext(ctx))
	}
}

// RequireFamily requires an active family selection and re-checks that the
// user still belongs to it. A stale selection is cleared on the spot, so a
// removed member loses access with their very next request.
func (m *Middleware) RequireFamily(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		session := GetSessionFromContext(r.Context())
		if user == nil || session == nil {
			m.rejectUnauthenticated(w, r)
			return
		}

		if session.CurrentFamilyID == nil {
			m.rejectNoFamily(w, r)
			return
		}
		familyID := *session.CurrentFamilyID

		member, err := m.familyService.IsMember(user.ID, familyID)
		if err != nil {
			log.Printf("Membership check failed for user %d: %v", user.ID, err)
			respondError(w, http.StatusInternalServerError, "Something went wrong")
			return
		}
		if !member {
			if err := m.familyService.ClearFamilySelection(session.ID); err != nil {
				log.Printf("Failed to clear stale family selection: %v", err)
			}
			m.rejectNoFamily(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), FamilyContextKey, familyID)
		next(w, r.WithContext(ctx))
	}
}

// RequireOwner allows only the active family's owner through. Runs inside
// RequireFamily, so the user and family are already on the context.
func (m *Middleware) RequireOwner(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		familyID := GetFamilyIDFromContext(r.Context())

		owner, err := m.familyService.IsOwner(user.ID, familyID)
		if err != nil {
			log.Printf("Owner check failed for user %d: %v", user.ID, err)
			respondError(w, http.StatusInternalServerError, "Something went wrong")
			return
		}
		if !owner {
			respondError(w, http.StatusForbidden, "Only the family owner can do this")
			return
		}
		next(w, r)
	}
}

// RequireAJAX rejects mutating requests that lack the frontend's custom
// header, forcing cross-site callers through CORS preflight
func RequireAJAX(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !isAJAX(r) {
			respondError(w, http.StatusForbidden, "Missing request header")
			return
		}
		next(w, r)
	}
}

// RateLimit rejects requests from IPs that exceed the limiter's budget
func RateLimit(limiter *security.RateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow(security.GetClientIP(r)) {
			respondError(w, http.StatusTooManyRequests, "Too many attempts, try again later")
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func (m *Middleware) rejectUnauthenticated(w http.ResponseWriter, r *http.Request) {
	if isAJAX(r) {
		respondError(w, http.StatusUnauthorized, "Not logged in")
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (m *Middleware) rejectNoFamily(w http.ResponseWriter, r *http.Request) {
	if isAJAX(r) {
		respondError(w, http.StatusForbidden, "No active family")
		return
	}
	http.Redirect(w, r, "/families", http.StatusSeeOther)
}

// GetUserFromContext retrieves the user from the request context
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// GetSessionFromContext retrieves the session from the request context
func GetSessionFromContext(ctx context.Context) *models.Session {
	session, ok := ctx.Value(SessionContextKey).(*models.Session)
	if !ok {
		return nil
	}
	return session
}

// GetFamilyIDFromContext retrieves the active family ID from the request
// context. Only set inside RequireFamily.
func GetFamilyIDFromContext(ctx context.Context) int64 {
	familyID, ok := ctx.Value(FamilyContextKey).(int64)
	if !ok {
		return 0
	}
	return familyID
}
