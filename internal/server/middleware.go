package server

import (
	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/teampulse/internal/auth/domain"
	"github.com/smallbiznis/teampulse/internal/observability/obscontext"
	userdomain "github.com/smallbiznis/teampulse/internal/user/domain"
)

const contextIdentityKey = "identity"

// RequireSession authenticates the session cookie and stores the resolved
// identity on the gin context for downstream handlers.
func (s *Server) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		identity, err := s.authSvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			s.sessions.Clear(c)
			AbortWithError(c, err)
			return
		}

		c.Set(contextIdentityKey, identity)
		ctx := obscontext.WithActorID(c.Request.Context(), identity.User.ID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRole gates a route to callers holding the given role. It must run
// after RequireSession.
func (s *Server) RequireRole(role userdomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := currentIdentity(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if identity.Role() != role {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

func currentIdentity(c *gin.Context) (*authdomain.Identity, bool) {
	value, exists := c.Get(contextIdentityKey)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*authdomain.Identity)
	return identity, ok
}
