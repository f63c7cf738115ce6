package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/duelstack/ytg-api/internal/api/handler/v1/response"
	"github.com/duelstack/ytg-api/internal/api/middleware"
	"github.com/duelstack/ytg-api/internal/domain"
)

// getUserFromContext resolves the authenticated user stored by the JWT
// middleware.
func getUserFromContext(ctx *gin.Context, svc UserService) (domain.User, *response.Err) {
	userID := ctx.GetUint(middleware.ContextKeyUserID)
	if userID == 0 {
		return domain.User{}, response.ErrUnauthorized("authentication required")
	}

	user, err := svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		return domain.User{}, response.ErrUnauthorized("authentication required")
	}

	return user, nil
}
