package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"learnhub/internal/application/accountsvc"
	"learnhub/internal/application/authz"
	"learnhub/internal/infrastructure/auth"
	"learnhub/internal/shared/logger"
	"learnhub/internal/shared/utils"
)

const (
	oauthStateCookie    = "oauth_state"
	oauthVerifierCookie = "oauth_verifier"
	oauthCookieMaxAge   = 600
)

// AuthHandler drives the identity-provider login flow and token lifecycle.
// There are no local credentials; every login round-trips through the
// external provider.
type AuthHandler struct {
	provider       *auth.IdentityProviderClient
	jwtService     *auth.JWTService
	accountService *accountsvc.Service
	resolver       *authz.Resolver
	aggregator     *authz.Aggregator
	frontendURL    string
	secureCookies  bool
	logger         logger.Interface
}

func NewAuthHandler(
	provider *auth.IdentityProviderClient,
	jwtService *auth.JWTService,
	accountService *accountsvc.Service,
	resolver *authz.Resolver,
	aggregator *authz.Aggregator,
	frontendURL string,
	secureCookies bool,
	logger logger.Interface,
) *AuthHandler {
	return &AuthHandler{
		provider:       provider,
		jwtService:     jwtService,
		accountService: accountService,
		resolver:       resolver,
		aggregator:     aggregator,
		frontendURL:    frontendURL,
		secureCookies:  secureCookies,
		logger:         logger,
	}
}

// Login godoc
// @Summary Start identity-provider login
// @Description Redirects the browser to the external identity provider's authorization page
// @Tags auth
// @Success 302
// @Router /auth/login [get]
func (h *AuthHandler) Login(c *gin.Context) {
	state, err := generateState()
	if err != nil {
		h.logger.Errorw("failed to generate login state", "error", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "failed to start login")
		return
	}

	authURL, codeVerifier, err := h.provider.GetAuthURL(state)
	if err != nil {
		h.logger.Errorw("failed to build authorization URL", "error", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "failed to start login")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, oauthCookieMaxAge, "/", "", h.secureCookies, true)
	c.SetCookie(oauthVerifierCookie, codeVerifier, oauthCookieMaxAge, "/", "", h.secureCookies, true)

	c.Redirect(http.StatusFound, authURL)
}

// Callback godoc
// @Summary Identity-provider callback
// @Description Exchanges the authorization code, upserts the account, and issues tokens
// @Tags auth
// @Param code query string true "Authorization code"
// @Param state query string true "Opaque state from the login redirect"
// @Success 302
// @Failure 400 {object} utils.APIResponse
// @Router /auth/callback [get]
func (h *AuthHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "missing code or state")
		return
	}

	expectedState, err := c.Cookie(oauthStateCookie)
	if err != nil || expectedState == "" || state != expectedState {
		h.logger.Warnw("login state mismatch", "client_ip", c.ClientIP())
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid or expired login state")
		return
	}

	codeVerifier, err := c.Cookie(oauthVerifierCookie)
	if err != nil || codeVerifier == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid or expired login state")
		return
	}

	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.secureCookies, true)
	c.SetCookie(oauthVerifierCookie, "", -1, "/", "", h.secureCookies, true)

	accessToken, err := h.provider.ExchangeCode(c.Request.Context(), code, codeVerifier)
	if err != nil {
		h.logger.Errorw("code exchange failed", "error", err)
		utils.ErrorResponse(c, http.StatusBadGateway, "identity provider exchange failed")
		return
	}

	info, err := h.provider.GetUserInfo(c.Request.Context(), accessToken)
	if err != nil {
		h.logger.Errorw("userinfo request failed", "error", err)
		utils.ErrorResponse(c, http.StatusBadGateway, "identity provider userinfo failed")
		return
	}

	acct, err := h.accountService.UpsertFromProvider(c.Request.Context(), info)
	if err != nil {
		h.logger.Errorw("account upsert failed", "error", err, "subject", info.Subject)
		utils.ErrorResponseWithError(c, err)
		return
	}

	pair, err := h.jwtService.Generate(acct.ID(), acct.ExternalID(), acct.Email())
	if err != nil {
		h.logger.Errorw("token generation failed", "error", err, "account_id", acct.ID())
		utils.ErrorResponse(c, http.StatusInternalServerError, "failed to issue tokens")
		return
	}

	accessMaxAge := h.jwtService.AccessExpMinutes() * 60
	refreshMaxAge := 7 * 24 * 3600
	utils.SetAuthCookies(c, pair.AccessToken, pair.RefreshToken, accessMaxAge, refreshMaxAge, h.secureCookies)

	if h.frontendURL != "" {
		c.Redirect(http.StatusFound, h.frontendURL)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "login successful", gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_in":    pair.ExpiresIn,
	})
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh godoc
// @Summary Refresh tokens
// @Description Rotates the token pair from a valid refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken := utils.GetTokenFromCookie(c, utils.RefreshTokenCookie)

	if refreshToken == "" {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}

	if refreshToken == "" {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing refresh token")
		return
	}

	pair, err := h.jwtService.Refresh(refreshToken)
	if err != nil {
		h.logger.Warnw("token refresh failed", "error", err)
		utils.ErrorResponse(c, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	accessMaxAge := h.jwtService.AccessExpMinutes() * 60
	refreshMaxAge := 7 * 24 * 3600
	utils.SetAuthCookies(c, pair.AccessToken, pair.RefreshToken, accessMaxAge, refreshMaxAge, h.secureCookies)

	utils.SuccessResponse(c, http.StatusOK, "tokens refreshed", gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_in":    pair.ExpiresIn,
	})
}

// Logout godoc
// @Summary Log out
// @Tags auth
// @Success 200 {object} utils.APIResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	utils.ClearAuthCookies(c, h.secureCookies)
	utils.SuccessResponse(c, http.StatusOK, "logged out", nil)
}

type MeResponse struct {
	AccountID   uint     `json:"account_id"`
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name"`
	TenantID    *uint    `json:"tenant_id,omitempty"`
	TenantName  string   `json:"tenant_name,omitempty"`
	TenantSlug  string   `json:"tenant_slug,omitempty"`
	Permissions []string `json:"permissions"`
}

// Me godoc
// @Summary Current account
// @Description Returns the caller's account, tenant, and effective permissions
// @Tags auth
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.APIResponse{data=MeResponse}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	identity := identityFrom(c)

	tc, appErr := h.resolver.ResolveTenantContext(c.Request.Context(), identity)
	if appErr != nil {
		utils.ErrorResponseWithError(c, appErr)
		return
	}

	perms, err := h.aggregator.GetUserPermissions(c.Request.Context(), tc.AccountID, &tc.TenantID)
	if err != nil {
		h.logger.Errorw("failed to resolve permissions", "error", err, "account_id", tc.AccountID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	names := make([]string, 0, len(perms))
	for name := range perms {
		names = append(names, name)
	}

	resp := MeResponse{
		AccountID:   tc.Account.ID(),
		Email:       tc.Account.Email(),
		DisplayName: tc.Account.DisplayName(),
		TenantID:    tc.Account.TenantID(),
		Permissions: names,
	}
	if tc.Tenant != nil {
		resp.TenantName = tc.Tenant.Name()
		resp.TenantSlug = tc.Tenant.Slug()
	}

	utils.SuccessResponse(c, http.StatusOK, "success", resp)
}

// Permissions godoc
// @Summary Effective permissions
// @Description Returns the caller's effective permission names in their tenant
// @Tags auth
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /auth/permissions [get]
func (h *AuthHandler) Permissions(c *gin.Context) {
	identity := identityFrom(c)

	tc, appErr := h.resolver.ResolveTenantContext(c.Request.Context(), identity)
	if appErr != nil {
		utils.ErrorResponseWithError(c, appErr)
		return
	}

	perms, err := h.aggregator.GetUserPermissions(c.Request.Context(), tc.AccountID, &tc.TenantID)
	if err != nil {
		h.logger.Errorw("failed to resolve permissions", "error", err, "account_id", tc.AccountID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	names := make([]string, 0, len(perms))
	for name := range perms {
		names = append(names, name)
	}

	utils.SuccessResponse(c, http.StatusOK, "success", gin.H{"permissions": names})
}

// CheckPermission godoc
// @Summary Check a single permission
// @Tags auth
// @Produce json
// @Security Bearer
// @Param permission query string true "Permission name"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /auth/check-permission [get]
func (h *AuthHandler) CheckPermission(c *gin.Context) {
	name := c.Query("permission")
	if name == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "permission query parameter is required")
		return
	}

	identity := identityFrom(c)

	tc, appErr := h.resolver.ResolveTenantContext(c.Request.Context(), identity)
	if appErr != nil {
		utils.ErrorResponseWithError(c, appErr)
		return
	}

	allowed, err := h.aggregator.HasPermission(c.Request.Context(), tc.AccountID, &tc.TenantID, name)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "success", gin.H{
		"permission": name,
		"allowed":    allowed,
	})
}

func generateState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
