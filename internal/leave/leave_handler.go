package leave

import (
	"net/http"

	"github.com/MichelleArumemi/EmployeeMS/internal/identity"
	identityerrors "github.com/MichelleArumemi/EmployeeMS/internal/identity/errors"
	"github.com/MichelleArumemi/EmployeeMS/internal/middleware"
	"github.com/MichelleArumemi/EmployeeMS/internal/shared/apperror"
	"github.com/MichelleArumemi/EmployeeMS/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

// NewHandler builds the leave handler. rdb may be nil, which disables
// idempotent replay of submissions.
func NewHandler(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, rdb: rdb, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeBindError(c *gin.Context, op string, err error) {
	h.logger.Warn("http "+op+" leave validation failed", zap.Error(err))
	appErr := apperror.MapValidationError(err)
	response.Error(c, http.StatusBadRequest, apperror.CodeValidationError, appErr.Message, nil)
}

func (h *Handler) principal(c *gin.Context) (identity.Principal, bool) {
	p, ok := identity.FromGin(c)
	if !ok {
		h.writeServiceError(c, identityerrors.ErrUnauthenticated)
	}
	return p, ok
}

func (h *Handler) Submit(c *gin.Context) {
	ctx := c.Request.Context()
	defer middleware.ReleaseIdempotencyLock(ctx, c, h.rdb)

	p, ok := h.principal(c)
	if !ok {
		return
	}
	h.logger.Debug("http submit leave", zap.String("submitter_id", p.SubjectID.String()))

	var req SubmitLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, "submit", err)
		return
	}

	resp, err := h.service.Submit(ctx, p, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	middleware.CompleteIdempotent(ctx, c, h.rdb, http.StatusCreated, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ListOwn(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	resp, err := h.service.ListOwn(c.Request.Context(), p)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.writePage(c, resp)
}

func (h *Handler) ListPending(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	resp, err := h.service.ListPending(c.Request.Context(), p)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.writePage(c, resp)
}

func (h *Handler) writePage(c *gin.Context, items []LeaveResponse) {
	paged, meta := response.Page(c, items)
	response.Success(c, http.StatusOK, paged, &meta)
}

func (h *Handler) Decide(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id := c.Param("id")

	var req DecideLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, "decide", err)
		return
	}

	resp, err := h.service.Decide(c.Request.Context(), p, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
