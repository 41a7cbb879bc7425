// File: internal/walletaddress/handler.go
package walletaddress

import (
	"errors"

	"wallet_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for wallet address handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new wallet address handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the nested wallet address routes under accounts.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	addressGroup := router.Group("/accounts/:accountId/wallet-addresses", authMW)
	{
		addressGroup.POST("", h.createWalletAddress)
		addressGroup.GET("", h.listWalletAddresses)
		addressGroup.DELETE("/:addressId", h.deactivateWalletAddress)
	}
}

func (h *Handler) createWalletAddress(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}

	accountID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid account ID format."))
		return
	}

	var req CreateWalletAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Create wallet address: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	resp, err := h.service.CreateWalletAddress(c.Request.Context(), userID, accountID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Wallet address created successfully.", resp)
}

func (h *Handler) listWalletAddresses(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}

	accountID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid account ID format."))
		return
	}

	addresses, err := h.service.ListWalletAddresses(c.Request.Context(), userID, accountID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Wallet addresses retrieved successfully.", addresses)
}

func (h *Handler) deactivateWalletAddress(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}

	accountID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid account ID format."))
		return
	}

	addressID, err := uuid.Parse(c.Param("addressId"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid wallet address ID format."))
		return
	}

	if err := h.service.DeactivateWalletAddress(c.Request.Context(), userID, accountID, addressID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}
