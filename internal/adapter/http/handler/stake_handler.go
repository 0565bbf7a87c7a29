package handler

import (
	"time"

	"github.com/Devour6/agent-staking-api-sub000/internal/adapter/http/dto"
	"github.com/Devour6/agent-staking-api-sub000/internal/core/domain"
	"github.com/Devour6/agent-staking-api-sub000/internal/core/ports"
	"github.com/Devour6/agent-staking-api-sub000/pkg/apperror"
	"github.com/Devour6/agent-staking-api-sub000/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StakeHandler handles stake tracking endpoints.
type StakeHandler struct {
	monitorSvc ports.MonitorService
}

// NewStakeHandler creates a new StakeHandler.
func NewStakeHandler(monitorSvc ports.MonitorService) *StakeHandler {
	return &StakeHandler{monitorSvc: monitorSvc}
}

// Track handles POST /api/v1/stakes/track.
func (h *StakeHandler) Track(c *gin.Context) {
	var req dto.TrackStakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	id, err := h.monitorSvc.Track(c.Request.Context(), ports.TrackRequest{
		Signature:    req.TxSignature,
		StakeAccount: req.StakeAccount,
		Owner:        req.Owner,
		Validator:    req.Validator,
		Lamports:     req.Lamports,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.TrackStakeResponse{
		ID:     id.String(),
		Status: string(domain.SubmissionStatusPending),
	})
}

// GetSubmission handles GET /api/v1/stakes/:id.
func (h *StakeHandler) GetSubmission(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid submission id"))
		return
	}

	sub, err := h.monitorSvc.GetSubmission(id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toSubmissionResponse(sub))
}

// toSubmissionResponse converts domain.TrackedSubmission to DTO.
func toSubmissionResponse(sub *domain.TrackedSubmission) dto.SubmissionResponse {
	resp := dto.SubmissionResponse{
		ID:           sub.ID.String(),
		TxSignature:  sub.Signature,
		StakeAccount: sub.StakeAccount,
		Owner:        sub.Owner,
		Validator:    sub.Validator,
		Lamports:     sub.Lamports,
		Status:       string(sub.Status),
		CreatedAt:    sub.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	resp.ConfirmedAt = formatOptionalTime(sub.ConfirmedAt)
	resp.ActivatedAt = formatOptionalTime(sub.ActivatedAt)
	resp.LastCheckedAt = formatOptionalTime(sub.LastCheckedAt)
	return resp
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02T15:04:05Z07:00")
	return &s
}
