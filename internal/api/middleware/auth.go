package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/duelstack/ytg-api/internal/api/handler/v1/response"
	"github.com/duelstack/ytg-api/internal/domain"
	"github.com/duelstack/ytg-api/internal/pkg/jwthelper"
)

// ContextKeyUserID is where VerifyJWT stores the authenticated user's id.
const ContextKeyUserID = "userID"

type Authenticator struct {
	signingKey string
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: signingKey,
	}
}

// VerifyJWT rejects requests without a valid bearer token. The token is also
// bound to the requesting user agent.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header == "" {
			response.RenderErr(ctx, response.ErrUnauthorized("authorization header is missing"))
			return
		}

		segments := strings.SplitN(header, " ", 2)
		if len(segments) != 2 || segments[0] != "Bearer" {
			response.RenderErr(ctx, response.ErrUnauthorized("authorization header is malformed"))
			return
		}

		claims, err := jwthelper.ParseToken([]byte(a.signingKey), segments[1])
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized("invalid or expired token"))
			return
		}

		if claims.UserAgent != ctx.Request.UserAgent() {
			response.RenderErr(ctx, response.ErrUnauthorized("invalid or expired token"))
			return
		}

		ctx.Set(ContextKeyUserID, claims.UserID)
		ctx.Next()
	}
}

type AdminChecker interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

// RequireAdmin runs after VerifyJWT and rejects non-admin callers. Admin
// status is read from the database rather than the token, so a revoked admin
// loses access immediately.
func RequireAdmin(svc AdminChecker) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := ctx.GetUint(ContextKeyUserID)
		if userID == 0 {
			response.RenderErr(ctx, response.ErrUnauthorized("authentication required"))
			return
		}

		user, err := svc.GetUser(ctx.Request.Context(), userID)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized("authentication required"))
			return
		}

		if !user.IsAdmin {
			response.RenderErr(ctx, response.ErrPermissionDenied())
			return
		}

		ctx.Next()
	}
}
