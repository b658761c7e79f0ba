package apihandlers

import (
	"log/slog"
	"net/http"

	mw "github.com/accountdesk/account-backend/pkg/apihelpers/middlewares"
	"github.com/accountdesk/account-backend/pkg/messaging/emailsending"
	"github.com/accountdesk/account-backend/pkg/messaging/sms"
	"github.com/accountdesk/account-backend/pkg/utils"
	"github.com/gin-gonic/gin"
)

func (h *HttpEndpoints) AddVerificationsAPI(rg *gin.RouterGroup) {
	verificationsGroup := rg.Group("/verifications")
	{
		verificationsGroup.POST("/sms", mw.RequirePayload(), h.requestSMSVerification)
		verificationsGroup.POST("/email", mw.RequirePayload(), h.requestEmailVerification)
		verificationsGroup.POST("/confirm", mw.RequirePayload(), h.confirmVerification)
		verificationsGroup.POST("/check", mw.RequirePayload(), h.checkVerification)
	}
}

type SMSVerificationReq struct {
	PhoneNumber string `json:"phoneNumber"`
}

func (h *HttpEndpoints) requestSMSVerification(c *gin.Context) {
	var req SMSVerificationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	phoneNumber := utils.SanitizePhoneNumber(req.PhoneNumber)
	if !utils.CheckPhoneNumberFormat(phoneNumber) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid phone number"})
		return
	}

	err := h.accountService.IssueVerification(c.Request.Context(), phoneNumber, func(code string) error {
		return sms.SendVerificationCode(phoneNumber, code)
	})
	if err != nil {
		slog.Error("could not issue sms verification", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send verification code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "verification code sent"})
}

type EmailVerificationReq struct {
	Email string `json:"email"`
}

func (h *HttpEndpoints) requestEmailVerification(c *gin.Context) {
	var req EmailVerificationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := utils.SanitizeEmail(req.Email)
	if !utils.CheckEmailFormat(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email address"})
		return
	}

	err := h.accountService.IssueVerification(c.Request.Context(), email, func(code string) error {
		return emailsending.SendVerificationCode(email, code)
	})
	if err != nil {
		slog.Error("could not issue email verification", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send verification code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "verification code sent"})
}

type VerificationCheckReq struct {
	Checker string `json:"checker"`
	Code    string `json:"code"`
}

// confirmVerification checks a code without consuming it, so the caller can
// present it again to the operation it gates.
func (h *HttpEndpoints) confirmVerification(c *gin.Context) {
	var req VerificationCheckReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accountService.Confirm(c.Request.Context(), req.Checker, req.Code); err != nil {
		slog.Warn("verification confirm failed", slog.String("error", err.Error()))
		randomWait(1, 5)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "code valid"})
}

// checkVerification consumes the code, a second presentation fails.
func (h *HttpEndpoints) checkVerification(c *gin.Context) {
	var req VerificationCheckReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accountService.ConfirmAndConsume(c.Request.Context(), req.Checker, req.Code); err != nil {
		slog.Warn("verification check failed", slog.String("error", err.Error()))
		randomWait(1, 5)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "code valid"})
}
