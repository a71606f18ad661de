package handler

import (
	"context"
	"errors"

	"github.com/ctfpad/backend/src/domain"
	"github.com/ctfpad/backend/src/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const contextTeamKey = "currentTeam"

func SetMiddlewares(ctx context.Context, ginRouter *gin.Engine) {
	ginRouter.Use(LoggerMiddleware(ctx))
}

func LoggerMiddleware(ctx context.Context) gin.HandlerFunc {
	return func(c *gin.Context) {

		zlog := zerolog.Ctx(ctx).With().
			Str("path", c.FullPath()).
			Str("method", c.Request.Method).
			Logger()
		ctx = zlog.WithContext(ctx)
		c.Request = c.Request.WithContext(zlog.WithContext(ctx))
		c.Next()
	}
}

// APIKeyMiddleware validates the X-API-Key header against the stored team
// API keys and stashes the matching team in the request context.
func APIKeyMiddleware(teamService *service.TeamService) gin.HandlerFunc {
	return func(c *gin.Context) {
		providedKey := c.GetHeader("X-API-Key")

		if providedKey == "" {
			err := domain.NewError(
				domain.ErrorCodeAuthNotAuthenticated,
				errors.New("missing API key header"),
				domain.WithMsg("Missing API key"),
			)
			respondWithError(c, err)
			return
		}

		team, err := teamService.AuthenticateByAPIKey(c.Request.Context(), providedKey)
		if err != nil {
			respondWithError(c, err)
			return
		}

		c.Set(contextTeamKey, team)
		c.Next()
	}
}

// CurrentTeam returns the team authenticated by APIKeyMiddleware, if any.
func CurrentTeam(c *gin.Context) (*domain.Team, bool) {
	value, exists := c.Get(contextTeamKey)
	if !exists {
		return nil, false
	}
	team, ok := value.(*domain.Team)
	return team, ok
}
