package v1

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/prologin/gcc-api/internal/api/handler/v1/response"
	"github.com/prologin/gcc-api/internal/api/middleware"
	"github.com/prologin/gcc-api/internal/domain"
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
	UpdateProfile(ctx context.Context, userID uint, profile domain.User) (domain.User, error)
}

// getUserFromContext loads the authenticated user behind the JWT middleware.
func getUserFromContext(ctx *gin.Context, uSvc UserService) (domain.User, *response.Err) {
	raw, ok := ctx.Get(middleware.ContextUserIDKey)
	if !ok {
		return domain.User{}, response.ErrUnauthorized("missing authentication")
	}

	userID, ok := raw.(uint)
	if !ok {
		return domain.User{}, response.ErrUnauthorized("invalid authentication")
	}

	user, err := uSvc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		return domain.User{}, response.ErrInternalServerError(fmt.Errorf("getUserFromContext -> uSvc.GetUser -> %w", err))
	}

	return user, nil
}
