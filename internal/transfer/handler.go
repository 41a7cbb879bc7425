// File: internal/transfer/handler.go
package transfer

import (
	"errors"

	"wallet_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for transfer handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new transfer handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for transfer operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	transferGroup := router.Group("/accounts/:accountId/transfers", authMW)
	{
		transferGroup.POST("/send", h.send)
		transferGroup.POST("/request", h.request)
		transferGroup.GET("", h.list)
	}
	router.GET("/transfers/search", authMW, h.search)
}

// RegisterAdminRoutes exposes operational endpoints restricted to admins,
// such as running the expiry sweep outside its cron schedule.
func (h *Handler) RegisterAdminRoutes(router *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	adminGroup := router.Group("/admin/transfers", authMW, adminMW)
	{
		adminGroup.POST("/expiry-sweeps", h.expireSweep)
	}
}

func (h *Handler) expireSweep(c *gin.Context) {
	count, err := h.service.ExpireRequests(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Expiry sweep completed.", gin.H{"expired": count})
}

func (h *Handler) send(c *gin.Context) {
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

	var req SendTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Send transfer: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	resp, err := h.service.Send(c.Request.Context(), userID, accountID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Transfer sent successfully.", resp)
}

func (h *Handler) request(c *gin.Context) {
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

	var req RequestTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Request transfer: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	resp, err := h.service.Request(c.Request.Context(), userID, accountID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Money request created successfully.", resp)
}

func (h *Handler) list(c *gin.Context) {
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

	page, pageSize := common.GetPaginationParams(c)

	transfers, pagination, err := h.service.List(c.Request.Context(), userID, accountID, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Transfers retrieved successfully.", transfers, pagination)
}

func (h *Handler) search(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}

	var query SearchTransfersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize < 1 || query.PageSize > 100 {
		query.PageSize = 20
	}

	transfers, pagination, err := h.service.Search(c.Request.Context(), userID, query)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Transfer search results retrieved successfully.", transfers, pagination)
}
