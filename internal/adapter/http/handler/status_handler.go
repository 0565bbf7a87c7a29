package handler

import (
	"github.com/Devour6/agent-staking-api-sub000/internal/adapter/http/dto"
	"github.com/Devour6/agent-staking-api-sub000/internal/core/ports"
	"github.com/Devour6/agent-staking-api-sub000/pkg/apperror"
	"github.com/Devour6/agent-staking-api-sub000/pkg/response"

	"github.com/gin-gonic/gin"
)

// StatusHandler handles the operator status endpoints.
type StatusHandler struct {
	monitorSvc   ports.MonitorService
	connProvider ports.ConnectionProvider
	deliveryRepo ports.DeliveryRepository
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(
	monitorSvc ports.MonitorService,
	connProvider ports.ConnectionProvider,
	deliveryRepo ports.DeliveryRepository,
) *StatusHandler {
	return &StatusHandler{
		monitorSvc:   monitorSvc,
		connProvider: connProvider,
		deliveryRepo: deliveryRepo,
	}
}

// Monitor handles GET /api/v1/status/monitor.
func (h *StatusHandler) Monitor(c *gin.Context) {
	response.OK(c, h.monitorSvc.Status())
}

// Endpoints handles GET /api/v1/status/endpoints.
func (h *StatusHandler) Endpoints(c *gin.Context) {
	response.OK(c, gin.H{
		"failed_over": h.connProvider.FailedOver(),
		"endpoints":   h.connProvider.Snapshot(),
	})
}

// Deliveries handles GET /api/v1/status/deliveries.
func (h *StatusHandler) Deliveries(c *gin.Context) {
	records, err := h.deliveryRepo.ListRecent(c.Request.Context(), 50)
	if err != nil {
		response.Error(c, apperror.ErrDatabaseError(err))
		return
	}

	out := make([]dto.DeliveryResponse, 0, len(records))
	for i := range records {
		out = append(out, toDeliveryResponse(&records[i]))
	}
	response.OK(c, out)
}
