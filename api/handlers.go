package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nemopss/fin-records/apperr"
	"github.com/nemopss/fin-records/auth"
	"github.com/nemopss/fin-records/logger"
	"github.com/nemopss/fin-records/models"
	"github.com/nemopss/fin-records/service"
)

const maxImportBytes = 1 << 20

type Handler struct {
	users        *service.UserService
	transactions *service.TransactionService
}

func NewHandler(users *service.UserService, transactions *service.TransactionService) *Handler {
	return &Handler{users: users, transactions: transactions}
}

// Register godoc
// @Summary      Create an account
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        user  body      models.CreateUser  true  "Credentials"
// @Success      201   {object}  models.RegisterResponse
// @Failure      400   {object}  models.ErrorResponse
// @Failure      409   {object}  models.ErrorResponse
// @Router       /users [post]
func (h *Handler) Register(c *gin.Context) {
	var req models.CreateUser
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperr.Validationf("a valid email and a password are required"))
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.RegisterResponse{ID: user.ID, Email: user.Email, CreatedAt: user.CreatedAt})
}

// Login godoc
// @Summary      Open a session
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        credentials  body      models.CreateSession  true  "Credentials"
// @Success      200          {object}  models.LoginResponse
// @Failure      400          {object}  models.ErrorResponse
// @Failure      401          {object}  models.ErrorResponse
// @Router       /sessions [post]
func (h *Handler) Login(c *gin.Context) {
	var req models.CreateSession
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperr.Validationf("email and password are required"))
		return
	}

	token, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{Token: token})
}

// GetTransactions godoc
// @Summary      List transactions
// @Description  Returns the caller's transactions, newest first. Passing both year and month limits the result to that month.
// @Tags         transactions
// @Produce      json
// @Param        year   query     int  false  "Year, e.g. 2025"
// @Param        month  query     int  false  "Month 1-12"
// @Success      200    {array}   models.Transaction
// @Failure      400    {object}  models.ErrorResponse
// @Failure      401    {object}  models.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /transactions [get]
func (h *Handler) GetTransactions(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}

	year, err := intQuery(c, "year")
	if err != nil {
		h.fail(c, err)
		return
	}
	month, err := intQuery(c, "month")
	if err != nil {
		h.fail(c, err)
		return
	}

	transactions, err := h.transactions.List(c.Request.Context(), owner, year, month)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// GetTransaction godoc
// @Summary      Get a transaction
// @Tags         transactions
// @Produce      json
// @Param        id   path      string  true  "Transaction ID"
// @Success      200  {object}  models.Transaction
// @Failure      401  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /transactions/{id} [get]
func (h *Handler) GetTransaction(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.transactionID(c)
	if !ok {
		return
	}

	t, err := h.transactions.Get(c.Request.Context(), owner, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// CreateTransaction godoc
// @Summary      Create a transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        transaction  body      models.CreateTransaction  true  "Transaction"
// @Success      201          {object}  models.Transaction
// @Failure      400          {object}  models.ErrorResponse
// @Failure      401          {object}  models.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /transactions [post]
func (h *Handler) CreateTransaction(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}

	var req models.CreateTransaction
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperr.Validationf("invalid request body"))
		return
	}

	t, err := h.transactions.Create(c.Request.Context(), owner, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// ImportTransactions godoc
// @Summary      Import transactions from statement text
// @Description  Each line "DD/MM/YYYY - description - R$ 1.234,56" becomes an expense. Other lines are ignored.
// @Tags         transactions
// @Accept       json
// @Accept       plain
// @Produce      json
// @Param        statement  body      models.ImportTransactions  true  "Statement text"
// @Success      201        {object}  models.ImportResponse
// @Failure      400        {object}  models.ErrorResponse
// @Failure      401        {object}  models.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /transactions/import [post]
func (h *Handler) ImportTransactions(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)

	var text string
	if c.ContentType() == "text/plain" {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			h.fail(c, bodyError(err))
			return
		}
		text = string(body)
	} else {
		var req models.ImportTransactions
		if err := c.ShouldBindJSON(&req); err != nil {
			h.fail(c, bodyError(err))
			return
		}
		text = req.Text
	}

	n, err := h.transactions.Import(c.Request.Context(), owner, text)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.ImportResponse{Created: n})
}

// UpdateTransaction godoc
// @Summary      Update a transaction
// @Description  Only the fields present in the body are changed.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id           path      string                    true  "Transaction ID"
// @Param        transaction  body      models.UpdateTransaction  true  "Fields to change"
// @Success      200          {object}  models.Transaction
// @Failure      400          {object}  models.ErrorResponse
// @Failure      401          {object}  models.ErrorResponse
// @Failure      404          {object}  models.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /transactions/{id} [put]
func (h *Handler) UpdateTransaction(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.transactionID(c)
	if !ok {
		return
	}

	var req models.UpdateTransaction
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperr.Validationf("invalid request body"))
		return
	}

	t, err := h.transactions.Update(c.Request.Context(), owner, id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// DeleteTransaction godoc
// @Summary      Delete a transaction
// @Tags         transactions
// @Param        id   path      string  true  "Transaction ID"
// @Success      204
// @Failure      401  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /transactions/{id} [delete]
func (h *Handler) DeleteTransaction(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	id, ok := h.transactionID(c)
	if !ok {
		return
	}

	if err := h.transactions.Delete(c.Request.Context(), owner, id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Health godoc
// @Summary  Liveness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) owner(c *gin.Context) (uuid.UUID, bool) {
	owner, ok := auth.OwnerFromContext(c.Request.Context())
	if !ok {
		h.fail(c, apperr.Unauthorizedf("unauthorized"))
	}
	return owner, ok
}

// transactionID parses the :id path parameter. A malformed id cannot belong to
// the caller, so it is reported as not found.
func (h *Handler) transactionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.fail(c, apperr.NotFoundf("transaction not found"))
		return uuid.Nil, false
	}
	return id, true
}

// fail writes err as a JSON error. Unexpected errors are logged and replaced
// by a generic message.
func (h *Handler) fail(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		log := logger.FromContext(c.Request.Context())
		ev := log.Error().Err(err).Str("method", c.Request.Method).Str("route", c.FullPath())
		if owner, ok := auth.OwnerFromContext(c.Request.Context()); ok {
			ev = ev.Str("owner_id", owner.String())
		}
		ev.Msg("request failed")
	}
	c.AbortWithStatusJSON(status, models.ErrorResponse{Error: apperr.Message(err)})
}

func intQuery(c *gin.Context, key string) (*int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, apperr.Validationf("%s must be an integer", key)
	}
	return &v, nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperr.Validationf("statement text is too large")
	}
	return apperr.Validationf("invalid request body")
}
