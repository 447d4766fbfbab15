// Package handlers exposes the tool operations over HTTP. Routes are thin
// adapters: parse identifiers out of the request, call the tools service and
// translate taxonomy errors into status codes.
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kdesch5000/observium-mcp/internal/toolerr"
	"github.com/kdesch5000/observium-mcp/internal/tools"
)

type Handler struct {
	svc *tools.Service
	log *slog.Logger
}

func New(svc *tools.Service, log *slog.Logger) *Handler {
	return &Handler{
		svc: svc,
		log: log.With("component", "http"),
	}
}

// RequestID tags every request with an id for log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// RegisterRoutes mounts the API routes on the given group.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/devices", h.ListDevices)
	api.GET("/devices/:device", h.GetDevice)
	api.GET("/devices/:device/trends", h.GetTrends)
	api.GET("/devices/:device/metrics", h.ListAvailableMetrics)
	api.GET("/devices/:device/ports", h.ListPorts)
	api.GET("/ports/:id/traffic", h.GetPortTraffic)
	api.GET("/sensors", h.ListSensors)
	api.GET("/sensor-classes", h.GetSensorClasses)
	api.GET("/alerts", h.ListAlerts)
	api.GET("/alerts/summary", h.GetAlertSummary)
}

// deviceParam interprets the path segment as a numeric device id when it
// parses as one, otherwise as a hostname.
func deviceParam(c *gin.Context) (*int, string) {
	raw := c.Param("device")
	if id, err := strconv.Atoi(raw); err == nil {
		return &id, ""
	}
	return nil, raw
}

func (h *Handler) ListDevices(c *gin.Context) {
	devices, err := h.svc.ListDevices(c.Request.Context(), c.Query("status"), c.Query("os"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(devices), "devices": devices})
}

func (h *Handler) GetDevice(c *gin.Context) {
	id, hostname := deviceParam(c)
	device, err := h.svc.GetDevice(c.Request.Context(), id, hostname)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, device)
}

func (h *Handler) GetTrends(c *gin.Context) {
	id, hostname := deviceParam(c)
	result, err := h.svc.GetTrends(c.Request.Context(), id, hostname, c.Query("metric"), c.Query("period"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) ListAvailableMetrics(c *gin.Context) {
	id, hostname := deviceParam(c)
	result, err := h.svc.ListAvailableMetrics(c.Request.Context(), id, hostname)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) ListPorts(c *gin.Context) {
	id, hostname := deviceParam(c)
	ports, err := h.svc.ListPorts(c.Request.Context(), id, hostname,
		c.Query("admin_status"), c.Query("oper_status"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(ports), "ports": ports})
}

func (h *Handler) GetPortTraffic(c *gin.Context) {
	portID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.respondError(c, toolerr.New(toolerr.InvalidArgument, "port id must be numeric: %s", c.Param("id")))
		return
	}
	result, err := h.svc.GetPortTraffic(c.Request.Context(), &portID, nil, "", "", c.Query("period"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) ListSensors(c *gin.Context) {
	var deviceID *int
	if raw := c.Query("device_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			h.respondError(c, toolerr.New(toolerr.InvalidArgument, "device_id must be numeric: %s", raw))
			return
		}
		deviceID = &id
	}
	sensors, err := h.svc.ListSensors(c.Request.Context(), deviceID, c.Query("hostname"), c.Query("class"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(sensors), "sensors": sensors})
}

func (h *Handler) GetSensorClasses(c *gin.Context) {
	classes, err := h.svc.GetSensorClasses(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"classes": classes})
}

func (h *Handler) ListAlerts(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.respondError(c, toolerr.New(toolerr.InvalidArgument, "limit must be numeric: %s", raw))
			return
		}
		limit = parsed
	}
	alerts, err := h.svc.ListAlerts(c.Request.Context(), nil, c.Query("hostname"), c.Query("status"), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(alerts), "alerts": alerts})
}

func (h *Handler) GetAlertSummary(c *gin.Context) {
	summary, err := h.svc.GetAlertSummary(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// respondError maps the error taxonomy onto HTTP status codes. Errors the
// caller can fix map to 4xx; infrastructure problems map to 502/503.
func (h *Handler) respondError(c *gin.Context, err error) {
	te := toolerr.AsError(err)
	if te == nil {
		h.log.Error("request failed", "request_id", c.GetString("request_id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "internal error"}})
		return
	}

	status := http.StatusInternalServerError
	switch te.Kind {
	case toolerr.InvalidArgument, toolerr.UnknownMetric:
		status = http.StatusBadRequest
	case toolerr.NotFound:
		status = http.StatusNotFound
	case toolerr.AmbiguousIdentifier:
		status = http.StatusConflict
	case toolerr.ArchiveUnavailable:
		status = http.StatusServiceUnavailable
	case toolerr.TransportFailure, toolerr.DataCorrupt:
		status = http.StatusBadGateway
	}

	h.log.Debug("request rejected",
		"request_id", c.GetString("request_id"), "kind", te.Kind, "message", te.Message)
	c.JSON(status, gin.H{"error": te})
}
