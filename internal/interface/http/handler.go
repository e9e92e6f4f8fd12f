package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/faqfilter/internal/domain/faq"
	apperrors "github.com/yanqian/faqfilter/pkg/errors"
	"github.com/yanqian/faqfilter/pkg/metrics"
)

// filterRequest accepts both form posts and JSON bodies.
type filterRequest struct {
	Action     string `form:"action" json:"action"`
	Token      string `form:"token" json:"token"`
	Selection  string `form:"selection" json:"selection"`
	InstanceID string `form:"instanceId" json:"instanceId"`
}

// Handler wires the HTTP transport to domain services.
type Handler struct {
	faqSvc  faq.Service
	metrics *metrics.Registry
	action  string
	logger  *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(faqSvc faq.Service, registry *metrics.Registry, cfg faq.Config, logger *slog.Logger) *Handler {
	return &Handler{
		faqSvc:  faqSvc,
		metrics: registry,
		action:  cfg.Action,
		logger:  logger.With("component", "http.handler"),
	}
}

// Filter answers the widget's category fetch.
func (h *Handler) Filter(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBind(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidRequest, errMessage(err), err))
		return
	}
	if h.action != "" && strings.TrimSpace(req.Action) != h.action {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidRequest, "unknown action", nil))
		return
	}

	resp, err := h.faqSvc.Filter(c.Request.Context(), faq.FilterRequest{
		Token:      req.Token,
		Selection:  req.Selection,
		InstanceID: req.InstanceID,
		Locale:     c.GetHeader("Accept-Language"),
	})
	if err != nil {
		abortWithError(c, fromAppError(err, "filter_failed", "the request could not be authorized"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": resp})
}

// Page renders a standalone page hosting one widget instance.
func (h *Handler) Page(c *gin.Context) {
	result, err := h.faqSvc.Render(c.Request.Context(), faq.RenderRequest{
		InstanceID: c.Query("instance"),
		Category:   c.Query("category"),
		Locale:     c.GetHeader("Accept-Language"),
	})
	if err != nil {
		// The page still renders; it just carries no widget and no assets.
		h.logger.Error("faq widget render failed", "error", err, "code", apperrors.CodeOf(err))
	}
	body, err := renderPage(result)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "render_error", "failed to render page", err))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Metrics serves the prometheus registry.
func (h *Handler) Metrics(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
