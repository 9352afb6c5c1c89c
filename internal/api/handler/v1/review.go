package v1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prologin/gcc-api/internal/api/handler/v1/request"
	"github.com/prologin/gcc-api/internal/api/handler/v1/response"
	"github.com/prologin/gcc-api/internal/domain"
	"github.com/prologin/gcc-api/internal/service"
)

type ReviewService interface {
	ListEvents(ctx context.Context) ([]service.EventReview, error)
	ListApplicants(ctx context.Context, eventID uint) ([]domain.Applicant, error)
	ListLabels(ctx context.Context) ([]domain.Label, error)
	AddLabel(ctx context.Context, applicantID, labelID uint) error
	RemoveLabel(ctx context.Context, applicantID, labelID uint) error
	UpdateWishStatus(ctx context.Context, wishID uint, status domain.Status) (service.WishUpdate, error)
	AcceptAll(ctx context.Context, eventID uint) (int64, error)
	SendAcceptanceEmails(ctx context.Context, eventID uint) (int, error)
	ExportCSV(ctx context.Context, eventID uint, w io.Writer) error
}

type ReviewHandler struct {
	svc  ReviewService
	uSvc UserService
}

func NewReviewHandler(svc ReviewService, uSvc UserService) *ReviewHandler {
	return &ReviewHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// requireStaff loads the authenticated user and rejects non-staff callers.
func (h *ReviewHandler) requireStaff(ctx *gin.Context) (domain.User, *response.Err) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		return domain.User{}, respErr
	}

	if !user.IsStaff() {
		return domain.User{}, response.ErrPermissionDenied()
	}

	return user, nil
}

// HandleListEvents godoc
// @Summary      List every event with its wish counts per status
// @Tags         review
// @Produce      json
// @Success      200  {array}   service.EventReview
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /review/events [get]
// @Security BearerAuth
func (h *ReviewHandler) HandleListEvents(ctx *gin.Context) {
	if _, respErr := h.requireStaff(ctx); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	reviews, err := h.svc.ListEvents(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListEvents -> h.svc.ListEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, reviews)
}

// HandleListApplicants godoc
// @Summary      List every applicant wishing for an event
// @Tags         review
// @Produce      json
// @Param        eventID  path      int  true  "event ID"
// @Success      200      {array}   domain.Applicant
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /review/events/{eventID}/applicants [get]
// @Security BearerAuth
func (h *ReviewHandler) HandleListApplicants(ctx *gin.Context) {
	if _, respErr := h.requireStaff(ctx); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := parseUintParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	applicants, err := h.svc.ListApplicants(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "eventID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleListApplicants -> h.svc.ListApplicants -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, applicants)
}

// HandleListLabels godoc
// @Summary      List the available review labels
// @Tags         review
// @Produce      json
// @Success      200  {array}   domain.Label
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /review/labels [get]
// @Security BearerAuth
func (h *ReviewHandler) HandleListLabels(ctx *gin.Context) {
	if _, respErr := h.requireStaff(ctx); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	labels, err := h.svc.ListLabels(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListLabels -> h.svc.ListLabels -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, labels)
}

// HandleAddLabel godoc
// @Summary      Attach a review label to an applicant
// @Tags         review
// @Produce      json
// @Param        applicantID  path      int  true  "applicant ID"
// @Param        labelID      path      int  true  "label ID"
// @Success      200          {object}  response.OK
// @Failure      401          {object}  response.Err
// @Failure      403          {object}  response.Err
// @Failure      404          {object}  response.Err
// @Failure      409          {object}  response.Err
// @Failure      500          {object}  response.Err
// @Router       /review/applicants/{applicantID}/labels/{labelID} [post]
// @Security BearerAuth
func (h *ReviewHandler) HandleAddLabel(ctx *gin.Context) {
	if _, respErr := h.requireStaff(ctx); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	applicantID, respErr := parseUintParam(ctx, "applicantID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	labelID, respErr := parseUintParam(ctx, "labelID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	err := h.svc.AddLabel(ctx.Request.Context(), applicantID, labelID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrApplicantNotFound):
			response.RenderErr(ctx, response.ErrNotFound("applicant", "applicantID", applicantID))
		case errors.Is(err, service.ErrLabelNotFound):
			response.RenderErr(ctx, response.ErrNotFound("label", "labelID", labelID))
		case errors.Is(err, service.ErrLabelAlreadyApplied):
			response.RenderErr(ctx, response.ErrConflict(service.ErrLabelAlreadyApplied))
		default:
			err = fmt.Errorf("v1.HandleAddLabel -> h.svc.AddLabel -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.NewOK())
}

// HandleRemoveLabel godoc
// @Summary      Detach a review label from an applicant
// @Tags         review
// @Produce      json
// @Param        applicantID  path      int  true  "applicant ID"
// @Param        labelID      path      int  true  "label ID"
// @Success      200          {object}  response.OK
// @Failure      401          {object}  response.Err
// @Failure      403          {object}  response.Err
// @Failure      404          {object}  response.Err
// @Failure      409          {object}  response.Err
// @Failure      500          {object}  response.Err
// @Router       /review/applicants/{applicantID}/labels/{labelID} [delete]
// @Security BearerAuth
func (h *ReviewHandler) HandleRemoveLabel(ctx *gin.Context) {
	if _, respErr := h.requireStaff(ctx); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	applicantID, respErr := parseUintParam(ctx, "applicantID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	labelID, respErr := parseUintParam(ctx, "labelID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	err := h.svc.RemoveLabel(ctx.Request.Context(), applicantID, labelID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrApplicantNotFound):
			response.RenderErr(ctx, response.ErrNotFound("applicant", "applicantID", applicantID))
		case errors.Is(err, service.ErrLabelNotFound):
			response.RenderErr(ctx, response.ErrNotFound("label", "labelID", labelID))
		case errors.Is(err, service.ErrLabelNotApplied):
			response.RenderErr(ctx, response.ErrConflict(service.ErrLabelNotApplied))
		default:
			err = fmt.Errorf("v1.HandleRemoveLabel -> h.svc.RemoveLabel -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.NewOK())
}

// HandleUpdateWishStatus godoc
// @Summary      Assign a wish status directly
// @Description  Staff can assign any status. The response carries the re-aggregated applicant status.
// @Tags         review
// @Accept       json
// @Produce      json
// @Param        wishID   path      int  true  "wish ID"
// @Param        request  body      request.UpdateWishStatusRequest true "request body"
// @Success      200      {object}  response.WishStatusResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /review/wishes/{wishID}/status [put]
// @Security BearerAuth
func (h *ReviewHandler) HandleUpdateWishStatus(ctx *gin.Context) {
	if _, respErr := h.requireStaff(ctx); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	wishID, respErr := parseUintParam(ctx, "wishID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.UpdateWishStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	update, err := h.svc.UpdateWishStatus(ctx.Request.Context(), wishID, status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWishNotFound):
			response.RenderErr(ctx, response.ErrNotFound("wish", "wishID", wishID))
		case errors.Is(err, service.ErrWishAlreadyInStatus):
			response.RenderErr(ctx, response.ErrConflict(service.ErrWishAlreadyInStatus))
		default:
			err = fmt.Errorf("v1.HandleUpdateWishStatus -> h.svc.UpdateWishStatus -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.WishStatusResponse{
		Status:          "ok",
		WishID:          update.WishID,
		WishStatus:      update.WishStatus,
		ApplicantID:     update.ApplicantID,
		ApplicantStatus: update.ApplicantStatus,
	})
}

// HandleAcceptAll godoc
// @Summary      Accept every selected wish of an event
// @Tags         review
// @Produce      json
// @Param        eventID  path      int  true  "event ID"
// @Success      200      {object}  response.AcceptAllResponse
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /review/events/{eventID}/accept-all [post]
// @Security BearerAuth
func (h *ReviewHandler) HandleAcceptAll(ctx *gin.Context) {
	if _, respErr := h.requireStaff(ctx); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := parseUintParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	accepted, err := h.svc.AcceptAll(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "eventID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleAcceptAll -> h.svc.AcceptAll -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.AcceptAllResponse{
		Status:   "ok",
		Accepted: accepted,
	})
}

// HandleSendAcceptanceEmails godoc
// @Summary      Email every accepted applicant of an event
// @Tags         review
// @Produce      json
// @Param        eventID  path      int  true  "event ID"
// @Success      200      {object}  response.AcceptAllResponse
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /review/events/{eventID}/accept-all/send [post]
// @Security BearerAuth
func (h *ReviewHandler) HandleSendAcceptanceEmails(ctx *gin.Context) {
	if _, respErr := h.requireStaff(ctx); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := parseUintParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	sent, err := h.svc.SendAcceptanceEmails(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "eventID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleSendAcceptanceEmails -> h.svc.SendAcceptanceEmails -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.AcceptAllResponse{
		Status:   "ok",
		Accepted: int64(sent),
	})
}

// HandleExportCSV godoc
// @Summary      Export an event's applicants as CSV
// @Tags         review
// @Produce      text/csv
// @Param        eventID  path      int  true  "event ID"
// @Success      200      {string}  string "CSV file"
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /review/events/{eventID}/export [get]
// @Security BearerAuth
func (h *ReviewHandler) HandleExportCSV(ctx *gin.Context) {
	if _, respErr := h.requireStaff(ctx); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := parseUintParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ctx.Header("Content-Type", "text/csv")
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="applicants-%d.csv"`, eventID))

	err := h.svc.ExportCSV(ctx.Request.Context(), eventID, ctx.Writer)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "eventID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleExportCSV -> h.svc.ExportCSV -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}
}
