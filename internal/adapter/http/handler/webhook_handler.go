package handler

import (
	"github.com/Devour6/agent-staking-api-sub000/internal/adapter/http/dto"
	"github.com/Devour6/agent-staking-api-sub000/internal/adapter/http/middleware"
	"github.com/Devour6/agent-staking-api-sub000/internal/core/domain"
	"github.com/Devour6/agent-staking-api-sub000/internal/core/ports"
	"github.com/Devour6/agent-staking-api-sub000/pkg/apperror"
	"github.com/Devour6/agent-staking-api-sub000/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WebhookHandler handles webhook subscription endpoints.
type WebhookHandler struct {
	subSvc ports.SubscriptionService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(subSvc ports.SubscriptionService) *WebhookHandler {
	return &WebhookHandler{subSvc: subSvc}
}

// Register handles POST /api/v1/webhooks.
func (h *WebhookHandler) Register(c *gin.Context) {
	ownerKey, ok := ownerKeyFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidAccessKey())
		return
	}

	var req dto.RegisterWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.subSvc.Register(c.Request.Context(), ports.RegisterSubscriptionRequest{
		OwnerKey:   ownerKey,
		TargetURL:  req.TargetURL,
		EventTypes: req.EventTypes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.RegisterWebhookResponse{
		ID:     result.ID.String(),
		Secret: result.Secret,
	})
}

// List handles GET /api/v1/webhooks.
func (h *WebhookHandler) List(c *gin.Context) {
	ownerKey, ok := ownerKeyFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidAccessKey())
		return
	}

	subs, err := h.subSvc.List(c.Request.Context(), ownerKey)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.WebhookResponse, 0, len(subs))
	for i := range subs {
		out = append(out, toWebhookResponse(&subs[i]))
	}
	response.OK(c, out)
}

// Delete handles DELETE /api/v1/webhooks/:id.
func (h *WebhookHandler) Delete(c *gin.Context) {
	ownerKey, ok := ownerKeyFromContext(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidAccessKey())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid subscription id"))
		return
	}

	if err := h.subSvc.Delete(c.Request.Context(), id, ownerKey); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"deleted": true})
}

// Deliveries handles GET /api/v1/webhooks/:id/deliveries.
func (h *WebhookHandler) Deliveries(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid subscription id"))
		return
	}

	records, err := h.subSvc.Deliveries(c.Request.Context(), id, 50)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.DeliveryResponse, 0, len(records))
	for i := range records {
		out = append(out, toDeliveryResponse(&records[i]))
	}
	response.OK(c, out)
}

func ownerKeyFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(middleware.CtxAccessKey)
	if !ok {
		return "", false
	}
	key, ok := v.(string)
	return key, ok
}

// toWebhookResponse converts domain.Subscription to DTO.
func toWebhookResponse(sub *domain.Subscription) dto.WebhookResponse {
	eventTypes := make([]string, 0, len(sub.EventTypes))
	for _, et := range sub.EventTypes {
		eventTypes = append(eventTypes, string(et))
	}
	return dto.WebhookResponse{
		ID:                  sub.ID.String(),
		TargetURL:           sub.TargetURL,
		EventTypes:          eventTypes,
		Active:              sub.Active,
		ConsecutiveFailures: sub.ConsecutiveFailures,
		LastDeliveryAt:      formatOptionalTime(sub.LastDeliveryAt),
		CreatedAt:           sub.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// toDeliveryResponse converts domain.DeliveryAttempt to DTO. The raw payload
// is omitted; delivery history is metadata only.
func toDeliveryResponse(rec *domain.DeliveryAttempt) dto.DeliveryResponse {
	return dto.DeliveryResponse{
		ID:          rec.ID.String(),
		EventType:   string(rec.EventType),
		Attempt:     rec.Attempt,
		Status:      string(rec.Status),
		HTTPStatus:  rec.HTTPStatus,
		LastError:   rec.LastError,
		CreatedAt:   rec.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		DeliveredAt: formatOptionalTime(rec.DeliveredAt),
		NextRetryAt: formatOptionalTime(rec.NextRetryAt),
	}
}
