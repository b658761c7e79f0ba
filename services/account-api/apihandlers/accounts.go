package apihandlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/accountdesk/account-backend/pkg/accounts"
	mw "github.com/accountdesk/account-backend/pkg/apihelpers/middlewares"
	"github.com/accountdesk/account-backend/pkg/db/profiles"
	"github.com/accountdesk/account-backend/pkg/idp"
	"github.com/gin-gonic/gin"
)

func (h *HttpEndpoints) AddAccountsAPI(rg *gin.RouterGroup) {
	usersGroup := rg.Group("/users")
	{
		usersGroup.POST("/signup", mw.RequirePayload(), h.signup)
		usersGroup.GET("/check", h.checkEmailAvailability)
		usersGroup.GET("/find", h.findAccount)
		usersGroup.PUT("/reset-password", mw.RequirePayload(), h.resetPassword)

		usersGroup.GET("", h.listAccounts)
		usersGroup.GET("/count", h.countAccounts)
	}

	meGroup := usersGroup.Group("/me")
	meGroup.Use(mw.ResolveAccount(h.identityProvider))
	{
		meGroup.GET("", h.getOwnProfile)
		meGroup.GET("/agreements", h.getOwnAgreements)
		meGroup.PUT("", mw.RequirePayload(), h.updateOwnProfile)
		meGroup.PUT("/password", mw.RequirePayload(), h.changePassword)
		meGroup.PUT("/picture", mw.RequirePayload(), h.changePicture)
		meGroup.DELETE("", h.deleteOwnAccount)
	}
}

type SignupReq struct {
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	Name        string   `json:"name"`
	PhoneNumber string   `json:"phoneNumber"`
	AgreeList   []string `json:"agreeList"`
}

func (h *HttpEndpoints) signup(c *gin.Context) {
	var req SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.accountService.Register(c.Request.Context(), req.Email, req.Password, idp.Attributes{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
	}, req.AgreeList)
	if err != nil {
		slog.Warn("signup failed", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	slog.Info("account registered")
	c.JSON(http.StatusAccepted, gin.H{"message": "account registered"})
}

func (h *HttpEndpoints) checkEmailAvailability(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter missing"})
		return
	}

	if err := h.accountService.Exists(c.Request.Context(), email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "email available"})
}

func (h *HttpEndpoints) getOwnProfile(c *gin.Context) {
	email, err := currentAccountEmail(c)
	if err != nil {
		slog.Error("could not get account email", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	profile, err := h.accountService.Get(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *HttpEndpoints) getOwnAgreements(c *gin.Context) {
	email, err := currentAccountEmail(c)
	if err != nil {
		slog.Error("could not get account email", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	agreements, err := h.accountService.Consents(c.Request.Context(), email)
	if err != nil {
		slog.Error("failed to load consents", slog.String("email", email), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"agreements": agreements})
}

type UpdateProfileReq struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
}

func (h *HttpEndpoints) updateOwnProfile(c *gin.Context) {
	email, err := currentAccountEmail(c)
	if err != nil {
		slog.Error("could not get account email", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	var req UpdateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.accountService.Update(c.Request.Context(), email, idp.Attributes{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		slog.Warn("profile update failed", slog.String("email", email), slog.String("error", err.Error()))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

type ChangePasswordReq struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (h *HttpEndpoints) changePassword(c *gin.Context) {
	token, err := currentAccessToken(c)
	if err != nil {
		slog.Error("could not get access token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	var req ChangePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accountService.ChangePassword(c.Request.Context(), token, req.OldPassword, req.NewPassword); err != nil {
		slog.Warn("password change failed", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

type ChangePictureReq struct {
	Picture string `json:"picture"`
}

func (h *HttpEndpoints) changePicture(c *gin.Context) {
	email, err := currentAccountEmail(c)
	if err != nil {
		slog.Error("could not get account email", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	var req ChangePictureReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.accountService.ChangePicture(c.Request.Context(), email, req.Picture)
	if err != nil {
		slog.Warn("picture change failed", slog.String("email", email), slog.String("error", err.Error()))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *HttpEndpoints) deleteOwnAccount(c *gin.Context) {
	email, err := currentAccountEmail(c)
	if err != nil {
		slog.Error("could not get account email", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	token, err := currentAccessToken(c)
	if err != nil {
		slog.Error("could not get access token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if err := h.accountService.Delete(c.Request.Context(), email, token); err != nil {
		slog.Warn("account deletion failed", slog.String("email", email), slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	slog.Info("account deleted", slog.String("email", email))
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}

func (h *HttpEndpoints) listAccounts(c *gin.Context) {
	template, page, limit, err := parseListQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accountList, err := h.accountService.List(c.Request.Context(), template, page, limit)
	if err != nil {
		slog.Error("failed to list accounts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accountList})
}

func (h *HttpEndpoints) countAccounts(c *gin.Context) {
	template, _, _, err := parseListQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count, err := h.accountService.Count(c.Request.Context(), template)
	if err != nil {
		slog.Error("failed to count accounts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func parseListQuery(c *gin.Context) (template profiles.Profile, page int64, limit int64, err error) {
	template = profiles.Profile{
		Email:       c.Query("email"),
		Name:        c.Query("name"),
		PhoneNumber: c.Query("phoneNumber"),
	}

	page, err = parseInt64Query(c, "page", 0)
	if err != nil {
		return
	}
	limit, err = parseInt64Query(c, "limit", 20)
	return
}

func parseInt64Query(c *gin.Context, key string, defaultValue int64) (int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 0 {
		return 0, errors.New("invalid " + key + " query parameter")
	}
	return value, nil
}

func (h *HttpEndpoints) findAccount(c *gin.Context) {
	name := c.Query("name")
	phoneNumber := c.Query("phoneNumber")
	code := c.Query("code")
	if name == "" || phoneNumber == "" || code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, phoneNumber and code query parameters are required"})
		return
	}

	profile, err := h.accountService.FindByNameAndPhone(c.Request.Context(), name, phoneNumber, code)
	if err != nil {
		slog.Warn("account lookup failed", slog.String("error", err.Error()))
		if errors.Is(err, accounts.ErrNotFound) {
			// lookup flows report absence as a bad request, not a 404
			c.JSON(http.StatusBadRequest, gin.H{"error": "no matching account"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": profile.Email})
}

type ResetPasswordReq struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

func (h *HttpEndpoints) resetPassword(c *gin.Context) {
	var req ResetPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accountService.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		slog.Warn("password reset failed", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password reset"})
}
