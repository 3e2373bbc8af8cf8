// Package api exposes the investment core over HTTP. Handlers only
// translate DTOs to service calls and error kinds to HTTP statuses; all
// domain rules live in the services.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"fund-investment-service/internal/auth"
	"fund-investment-service/internal/investment"
)

// Handlers bundles the services behind the HTTP surface.
type Handlers struct {
	investment *investment.Service
	auth       *auth.Service
	logger     zerolog.Logger
}

// NewHandlers creates the HTTP handler set.
func NewHandlers(inv *investment.Service, authSvc *auth.Service, logger zerolog.Logger) *Handlers {
	return &Handlers{
		investment: inv,
		auth:       authSvc,
		logger:     logger.With().Str("component", "api").Logger(),
	}
}

// statusForKind maps a core failure kind to an HTTP status.
func statusForKind(kind string) int {
	switch kind {
	case "invalid_amount":
		return http.StatusBadRequest
	case "insufficient_shares", "zero_balance", "withdraw_exceeds_balance":
		return http.StatusUnprocessableEntity
	case "duplicate_claim", "concurrency_guard_failed":
		return http.StatusConflict
	case "no_shares_to_settle", "nothing_to_share":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) coreError(c *gin.Context, err error) {
	kind := investment.KindOf(err)
	status := statusForKind(kind)
	if status == http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(status, ErrorResponse{Error: "internal", Message: "internal server error"})
		return
	}
	c.JSON(status, ErrorResponse{Error: kind, Message: err.Error()})
}

func (h *Handlers) authError(c *gin.Context, err error) {
	var authErr auth.AuthError
	if !errors.As(err, &authErr) {
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("auth request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal", Message: "internal server error"})
		return
	}
	status := http.StatusUnauthorized
	switch authErr.Code {
	case auth.ErrEmailTaken.Code:
		status = http.StatusConflict
	case auth.ErrWeakPassword.Code:
		status = http.StatusBadRequest
	case auth.ErrForbidden.Code:
		status = http.StatusForbidden
	}
	c.JSON(status, ErrorResponse{Error: authErr.Code, Message: authErr.Message})
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: err.Error()})
}

// Register handles POST /api/v1/auth/register
func (h *Handlers) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	user, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		h.authError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login handles POST /api/v1/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	resp, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		h.authError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh handles POST /api/v1/auth/refresh
func (h *Handlers) Refresh(c *gin.Context) {
	var req auth.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.authError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Invest handles POST /api/v1/investment/invest
func (h *Handlers) Invest(c *gin.Context) {
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID := auth.UserIDFromContext(c)
	if err := h.investment.Invest(c.Request.Context(), userID, req.Amount); err != nil {
		h.coreError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "invest recorded"})
}

// Disinvest handles POST /api/v1/investment/disinvest
func (h *Handlers) Disinvest(c *gin.Context) {
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID := auth.UserIDFromContext(c)
	if err := h.investment.Disinvest(c.Request.Context(), userID, req.Amount); err != nil {
		h.coreError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "disinvest recorded"})
}

// Claim handles POST /api/v1/investment/claim
func (h *Handlers) Claim(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	if err := h.investment.Claim(c.Request.Context(), userID); err != nil {
		h.coreError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "claim booked"})
}

// Withdraw handles POST /api/v1/investment/withdraw
func (h *Handlers) Withdraw(c *gin.Context) {
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID := auth.UserIDFromContext(c)
	if err := h.investment.Withdraw(c.Request.Context(), userID, req.Amount); err != nil {
		h.coreError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "withdrawal applied"})
}

// Balance handles GET /api/v1/investment/balance
func (h *Handlers) Balance(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	balance, err := h.investment.CashBalanceOf(c.Request.Context(), userID)
	if err != nil {
		h.coreError(c, err)
		return
	}
	c.JSON(http.StatusOK, BalanceResponse{UserID: userID, Balance: balance.String()})
}

// AddProfit handles POST /api/v1/company/profit (manager only)
func (h *Handlers) AddProfit(c *gin.Context) {
	var req ProfitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.investment.AddProfit(c.Request.Context(), req.Income, req.Outcome); err != nil {
		h.coreError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "profit recorded"})
}

// Settle handles POST /api/v1/company/settle (manager only): a manual
// settlement over an explicit window, outside the scheduled pipeline.
func (h *Handlers) Settle(c *gin.Context) {
	var req SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.investment.Settle(c.Request.Context(), req.FromAt, req.ToAt); err != nil {
		h.coreError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "settlement completed"})
}
