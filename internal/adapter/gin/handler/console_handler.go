package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"usertable/internal/adapter/gin/view"
	"usertable/internal/domain/notification"
	"usertable/internal/i18n"
	"usertable/internal/usecase/usertable"
	"usertable/pkg/logger"
)

// Toasts hands out the notifications raised since the last render.
type Toasts interface {
	Drain() []notification.Notification
}

// Feed lists recent notifications across console instances.
type Feed interface {
	Recent(ctx context.Context, limit int64) ([]notification.Notification, error)
}

// ConsoleHandler serves the user table page. Every action is a form post
// that changes the table state and redirects back to the page.
type ConsoleHandler struct {
	uc     *usertable.Usecase
	toasts Toasts
	feed   Feed
	tr     *i18n.Translator
	log    *zap.Logger
}

// NewConsoleHandler creates a new ConsoleHandler. feed may be nil.
func NewConsoleHandler(uc *usertable.Usecase, toasts Toasts, feed Feed, tr *i18n.Translator, log *zap.Logger) *ConsoleHandler {
	return &ConsoleHandler{
		uc:     uc,
		toasts: toasts,
		feed:   feed,
		tr:     tr,
		log:    log,
	}
}

// SearchRequest is the search box.
type SearchRequest struct {
	Query string `form:"q"`
}

// SortRequest is a column header click.
type SortRequest struct {
	Column string `form:"column" binding:"required,oneof=id email first_name last_name"`
	Order  string `form:"order" binding:"omitempty,oneof=ascend descend none"`
}

// PageRequest is a pagination control click.
type PageRequest struct {
	Page int64 `form:"page" binding:"required,min=1"`
}

// Index handles GET /. The first request triggers the initial fetch.
func (h *ConsoleHandler) Index(c *gin.Context) {
	h.uc.Mount(c.Request.Context())
	c.HTML(http.StatusOK, view.ConsoleTemplate, view.NewPage(h.tr, h.uc.View(), h.toasts.Drain()))
}

// Search handles POST /search
func (h *ConsoleHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBind(&req); err != nil {
		h.rejected(c, err)
		return
	}
	h.uc.Search(c.Request.Context(), req.Query)
	h.back(c)
}

// Sort handles POST /sort. An empty order cycles the column's current order.
func (h *ConsoleHandler) Sort(c *gin.Context) {
	var req SortRequest
	if err := c.ShouldBind(&req); err != nil {
		h.rejected(c, err)
		return
	}

	col, _ := usertable.ParseColumn(req.Column)
	var order usertable.SortOrder
	switch req.Order {
	case "":
		current := h.uc.State().Sort
		if current.Column == col {
			order = current.Order.Next()
		} else {
			order = usertable.SortAscend
		}
	case "none":
		order = usertable.SortNone
	default:
		order, _ = usertable.ParseSortOrder(req.Order)
	}

	h.uc.SortBy(c.Request.Context(), usertable.SortSpec{Column: col, Order: order})
	h.back(c)
}

// ChangePage handles POST /page
func (h *ConsoleHandler) ChangePage(c *gin.Context) {
	var req PageRequest
	if err := c.ShouldBind(&req); err != nil {
		h.rejected(c, err)
		return
	}
	h.uc.ChangePage(c.Request.Context(), req.Page)
	h.back(c)
}

// SelectRow handles POST /users/:id/edit
func (h *ConsoleHandler) SelectRow(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.rejected(c, err)
		return
	}
	if !h.uc.Select(c.Request.Context(), id) {
		logger.WithContext(c.Request.Context(), h.log).Debug("row not on current page", zap.Int64("id", id))
	}
	h.back(c)
}

// SubmitEdit handles POST /edit/submit. Field errors are kept in the edit
// session and shown on the next render.
func (h *ConsoleHandler) SubmitEdit(c *gin.Context) {
	var form usertable.EditForm
	if err := c.ShouldBind(&form); err != nil {
		h.rejected(c, err)
		return
	}
	h.uc.SubmitEdit(c.Request.Context(), form)
	h.back(c)
}

// CancelEdit handles POST /edit/cancel
func (h *ConsoleHandler) CancelEdit(c *gin.Context) {
	h.uc.CancelEdit(c.Request.Context())
	h.back(c)
}

// RequestDelete handles POST /edit/delete. It carries the form values as typed.
func (h *ConsoleHandler) RequestDelete(c *gin.Context) {
	var form usertable.EditForm
	if err := c.ShouldBind(&form); err != nil {
		h.rejected(c, err)
		return
	}
	h.uc.RequestDelete(c.Request.Context(), form)
	h.back(c)
}

// ConfirmDelete handles POST /edit/delete/confirm
func (h *ConsoleHandler) ConfirmDelete(c *gin.Context) {
	h.uc.ConfirmDelete(c.Request.Context())
	h.back(c)
}

// DismissDelete handles POST /edit/delete/dismiss
func (h *ConsoleHandler) DismissDelete(c *gin.Context) {
	h.uc.DismissDelete(c.Request.Context())
	h.back(c)
}

// State handles GET /api/state
func (h *ConsoleHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, NewStateResponse(h.uc.View()))
}

// Notifications handles GET /api/notifications?limit=
func (h *ConsoleHandler) Notifications(c *gin.Context) {
	if h.feed == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "feed_disabled",
			Message: "Notification feed is not enabled",
		})
		return
	}

	limit := int64(20)
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_limit",
				Message: "limit must be a positive number",
			})
			return
		}
		limit = n
	}

	items, err := h.feed.Recent(c.Request.Context(), limit)
	if err != nil {
		logger.WithContext(c.Request.Context(), h.log).Error("failed to read notification feed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

// back redirects to the page so a reload never repeats the post.
func (h *ConsoleHandler) back(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

// rejected logs a malformed form post and goes back to the page unchanged.
func (h *ConsoleHandler) rejected(c *gin.Context, err error) {
	logger.WithContext(c.Request.Context(), h.log).Warn("invalid console request",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	h.back(c)
}
