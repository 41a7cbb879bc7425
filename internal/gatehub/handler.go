// File: internal/gatehub/handler.go
package gatehub

import (
	"bytes"
	"errors"
	"io"

	"wallet_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WebhookSignatureHeader carries the HMAC signature of webhook deliveries.
const WebhookSignatureHeader = "x-gatehub-signature"

// Handler struct holds dependencies for GateHub handlers.
type Handler struct {
	service Service
	client  Client
	logger  *zap.Logger
}

// NewHandler creates a new GateHub handler.
func NewHandler(service Service, client Client, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		client:  client,
		logger:  logger,
	}
}

// RegisterRoutes sets up the authenticated GateHub routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	gateHubGroup := router.Group("/gatehub", authMW)
	{
		gateHubGroup.GET("/iframe-urls/:type", h.getIframeURL)
		gateHubGroup.POST("/managed-users", h.provisionUser)
		gateHubGroup.POST("/gateway-connections", h.addUserToGateway)
	}
}

// RegisterWebhookRoutes sets up the unauthenticated provider callback route.
func (h *Handler) RegisterWebhookRoutes(router *gin.Engine) {
	router.POST("/gatehub-webhooks", h.handleWebhook)
}

func (h *Handler) getIframeURL(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}

	iframeType := c.Param("type")
	switch iframeType {
	case IframeTypeOnboarding, IframeTypeRamp, IframeTypeWithdrawal, IframeTypeDeposit:
	default:
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Unknown iframe type."))
		return
	}

	url, err := h.service.GetIframeURL(c.Request.Context(), iframeType, userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Iframe URL retrieved successfully.", gin.H{"url": url})
}

func (h *Handler) provisionUser(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}

	if err := h.service.ProvisionUser(c.Request.Context(), userID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "User provisioned with GateHub.", nil)
}

func (h *Handler) addUserToGateway(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}

	connected, err := h.service.AddUserToGateway(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Gateway connection processed.", gin.H{"connected": connected})
}

func (h *Handler) handleWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Unable to read webhook body."))
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	if sig := c.GetHeader(WebhookSignatureHeader); sig != "" {
		if err := h.client.ValidateWebhookSignature(body, sig); err != nil {
			h.logger.Warn("Rejected webhook with invalid signature")
			common.RespondWithError(c, err)
			return
		}
	}

	var data WebhookData
	if err := c.ShouldBindJSON(&data); err != nil {
		h.logger.Warn("GateHub webhook: Invalid payload", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	if err := h.service.HandleWebhook(c.Request.Context(), data); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Webhook processed.", nil)
}
