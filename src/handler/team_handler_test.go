package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ctfpad/backend/src/repository"
	"github.com/ctfpad/backend/src/service"
	"github.com/ctfpad/backend/src/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamMutationRequiresOwnAPIKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	teamService := service.NewTeamService(repository.NewTeamRepository(db))
	crew, err := teamService.CreateTeam(ctx, service.CreateTeamInput{
		Name: "Crew", Email: "crew@example.com",
	})
	require.NoError(t, err)
	rivals, err := teamService.CreateTeam(ctx, service.CreateTeamInput{
		Name: "Rivals", Email: "rivals@example.com",
	})
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	teamHandler := NewTeamHandler(teamService)
	authed := router.Group("/api/v1", APIKeyMiddleware(teamService))
	authed.PUT("/teams/:id", teamHandler.UpdateTeam)
	authed.DELETE("/teams/:id", teamHandler.DeleteTeam)

	doRequest := func(method, path, apiKey string, body []byte) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-Key", apiKey)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	body, err := json.Marshal(gin.H{"name": "Renamed"})
	require.NoError(t, err)

	// One team's key gets no write access to another team.
	rec := doRequest(http.MethodPut, fmt.Sprintf("/api/v1/teams/%d", rivals.ID), crew.APIKey, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(http.MethodDelete, fmt.Sprintf("/api/v1/teams/%d", rivals.ID), crew.APIKey, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	renamed, err := teamService.GetTeam(ctx, rivals.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rivals", renamed.Name)

	// The team's own key works.
	rec = doRequest(http.MethodPut, fmt.Sprintf("/api/v1/teams/%d", crew.ID), crew.APIKey, body)
	assert.Equal(t, http.StatusOK, rec.Code)

	renamed, err = teamService.GetTeam(ctx, crew.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", renamed.Name)
}
