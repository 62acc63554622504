package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"usertable/internal/adapter/reqres"
	domain "usertable/internal/domain/user"
	"usertable/internal/usecase/user"
	pkgerrors "usertable/pkg/errors"
	"usertable/pkg/logger"
)

// StubHandler serves the local users API in the public API's wire shape.
type StubHandler struct {
	uc  *user.Usecase
	log *zap.Logger
}

// NewStubHandler creates a new StubHandler instance
func NewStubHandler(uc *user.Usecase, log *zap.Logger) *StubHandler {
	return &StubHandler{
		uc:  uc,
		log: log,
	}
}

// ListUsersQuery is the query string of GET /api/users.
type ListUsersQuery struct {
	Page    int64 `form:"page" binding:"omitempty,min=1"`
	PerPage int64 `form:"per_page" binding:"omitempty,min=1,max=100"`
}

// SingleUserResponse is the body of GET /api/users/:id.
type SingleUserResponse struct {
	Data reqres.UserDTO `json:"data"`
}

func toUserDTO(r domain.Record) reqres.UserDTO {
	return reqres.UserDTO{
		ID:        r.ID,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Avatar:    r.Avatar,
	}
}

// ListUsers handles GET /api/users
func (h *StubHandler) ListUsers(c *gin.Context) {
	var q ListUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		logger.WithContext(c.Request.Context(), h.log).Warn("invalid list users request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.uc.ListUsers(c.Request.Context(), user.ListUsersRequest{Page: q.Page, PerPage: q.PerPage})
	if err != nil {
		h.handleError(c, err)
		return
	}

	data := make([]reqres.UserDTO, len(resp.Users))
	for i, r := range resp.Users {
		data[i] = toUserDTO(r)
	}

	c.JSON(http.StatusOK, reqres.ListResponse{
		Page:       resp.Pagination.Page,
		PerPage:    resp.Pagination.Limit,
		Total:      resp.Pagination.Total,
		TotalPages: resp.Pagination.TotalPages,
		Data:       data,
	})
}

// GetUser handles GET /api/users/:id
func (h *StubHandler) GetUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	r, err := h.uc.GetUser(c.Request.Context(), user.GetUserRequest{ID: id})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, SingleUserResponse{Data: toUserDTO(*r)})
}

// DeleteUser handles DELETE /api/users/:id
func (h *StubHandler) DeleteUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.uc.DeleteUser(c.Request.Context(), user.DeleteUserRequest{ID: id}); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *StubHandler) parseID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		logger.WithContext(c.Request.Context(), h.log).Warn("Invalid user ID", zap.String("id", idStr), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "User ID must be a valid number",
		})
		return 0, false
	}
	return id, true
}

// handleError converts usecase errors to HTTP responses. A missing user is
// an empty JSON object, as the public API answers.
func (h *StubHandler) handleError(c *gin.Context, err error) {
	switch {
	case pkgerrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{})
	case pkgerrors.IsValidation(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_input",
			Message: err.Error(),
		})
	default:
		logger.WithContext(c.Request.Context(), h.log).Error("stub request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}
