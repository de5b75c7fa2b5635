package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/internal/domain/permission"
	"learnhub/internal/shared/logger"
	"learnhub/internal/shared/utils"
)

type mockPermissionRepo struct {
	permission.Repository
	listFunc func(ctx context.Context) ([]*permission.Permission, error)
}

func (m *mockPermissionRepo) List(ctx context.Context) ([]*permission.Permission, error) {
	return m.listFunc(ctx)
}

func catalogEntry(t *testing.T, id uint, name string, deprecated bool) *permission.Permission {
	category, _, _ := strings.Cut(name, ".")
	perm, err := permission.ReconstructPermission(id, name, "", category, true, deprecated, time.Now(), time.Now())
	require.NoError(t, err)
	return perm
}

func TestPermissionHandler_ListCatalog(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := &mockPermissionRepo{
		listFunc: func(ctx context.Context) ([]*permission.Permission, error) {
			return []*permission.Permission{
				catalogEntry(t, 1, "courses.read", false),
				catalogEntry(t, 2, "games.play", true),
			}, nil
		},
	}
	handler := NewPermissionHandler(repo, logger.NewLogger())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/permissions", nil)

	handler.ListCatalog(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	items, ok := resp.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, items, 2)

	first := items[0].(map[string]interface{})
	assert.Equal(t, "courses.read", first["name"])
	assert.Equal(t, "courses", first["category"])
	assert.Equal(t, false, first["is_deprecated"])

	second := items[1].(map[string]interface{})
	assert.Equal(t, true, second["is_deprecated"])
}

func TestPermissionHandler_ListCatalog_RepoError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := &mockPermissionRepo{
		listFunc: func(ctx context.Context) ([]*permission.Permission, error) {
			return nil, fmt.Errorf("connection refused")
		},
	}
	handler := NewPermissionHandler(repo, logger.NewLogger())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/permissions", nil)

	handler.ListCatalog(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
