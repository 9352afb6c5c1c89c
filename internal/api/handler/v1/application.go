package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/prologin/gcc-api/internal/api/handler/v1/request"
	"github.com/prologin/gcc-api/internal/api/handler/v1/response"
	"github.com/prologin/gcc-api/internal/domain"
	"github.com/prologin/gcc-api/internal/service"
)

type ApplicationService interface {
	GetApplication(ctx context.Context, userID uint, year int) (domain.Applicant, error)
	ListOpenEvents(ctx context.Context, year int) ([]domain.Event, error)
	SubmitWishes(ctx context.Context, userID uint, year int, choices []service.WishChoice) (domain.Applicant, error)
	Validate(ctx context.Context, userID uint, year int) (domain.Applicant, error)
	ConfirmVenue(ctx context.Context, userID, wishID uint) (domain.Wish, error)
	ListAnswers(ctx context.Context, userID uint, year int) ([]domain.Answer, error)
	SaveAnswers(ctx context.Context, userID uint, year int, responses map[uint]string) error
}

type ApplicationHandler struct {
	svc  ApplicationService
	uSvc UserService
}

func NewApplicationHandler(svc ApplicationService, uSvc UserService) *ApplicationHandler {
	return &ApplicationHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

func parseYearParam(ctx *gin.Context) (int, *response.Err) {
	year, err := strconv.Atoi(ctx.Param("year"))
	if err != nil {
		return 0, response.ErrBadRequest(errors.New("invalid edition year"))
	}

	return year, nil
}

func parseUintParam(ctx *gin.Context, name string) (uint, *response.Err) {
	value, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid %v", name))
	}

	return uint(value), nil
}

// HandleListOpenEvents godoc
// @Summary      List the edition's events open for signup
// @Tags         editions
// @Produce      json
// @Param        year  path      int  true  "edition year"
// @Success      200   {array}   domain.Event
// @Failure      404   {object}  response.Err
// @Failure      500   {object}  response.Err
// @Router       /editions/{year}/events [get]
func (h *ApplicationHandler) HandleListOpenEvents(ctx *gin.Context) {
	year, respErr := parseYearParam(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	events, err := h.svc.ListOpenEvents(ctx.Request.Context(), year)
	if err != nil {
		if errors.Is(err, service.ErrEditionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("edition", "year", year))
			return
		}

		err = fmt.Errorf("v1.HandleListOpenEvents -> h.svc.ListOpenEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleGetApplication godoc
// @Summary      Get the authenticated user's application for an edition
// @Description  Creates the application on first access.
// @Tags         applications
// @Produce      json
// @Param        year  path      int  true  "edition year"
// @Success      200   {object}  response.ApplicationResponse
// @Failure      401   {object}  response.Err
// @Failure      404   {object}  response.Err
// @Failure      500   {object}  response.Err
// @Router       /editions/{year}/application [get]
// @Security BearerAuth
func (h *ApplicationHandler) HandleGetApplication(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	year, respErr := parseYearParam(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	applicant, err := h.svc.GetApplication(ctx.Request.Context(), user.ID, year)
	if err != nil {
		if errors.Is(err, service.ErrEditionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("edition", "year", year))
			return
		}

		err = fmt.Errorf("v1.HandleGetApplication -> h.svc.GetApplication -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewApplicationResponse(applicant))
}

// HandleSubmitWishes godoc
// @Summary      Replace the application's ranked event wishes
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        year     path      int  true  "edition year"
// @Param        request  body      request.SubmitWishesRequest true "request body"
// @Success      200      {object}  response.ApplicationResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /editions/{year}/application/wishes [put]
// @Security BearerAuth
func (h *ApplicationHandler) HandleSubmitWishes(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	year, respErr := parseYearParam(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.SubmitWishesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	choices := make([]service.WishChoice, len(req.Wishes))
	for i, w := range req.Wishes {
		if err := w.Validate(); err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		choices[i] = service.WishChoice{
			EventID: w.EventID,
			Order:   w.Order,
		}
	}

	applicant, err := h.svc.SubmitWishes(ctx.Request.Context(), user.ID, year, choices)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEditionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("edition", "year", year))
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrEventNotFound))
		case errors.Is(err, service.ErrApplicationLocked):
			response.RenderErr(ctx, response.ErrConflict(service.ErrApplicationLocked))
		case errors.Is(err, service.ErrTooManyWishes),
			errors.Is(err, service.ErrDuplicateWishEvent),
			errors.Is(err, service.ErrEventSignupClosed):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleSubmitWishes -> h.svc.SubmitWishes -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.NewApplicationResponse(applicant))
}

// HandleValidate godoc
// @Summary      Validate the application
// @Description  Moves every incomplete wish to pending once the application is complete.
// @Tags         applications
// @Produce      json
// @Param        year  path      int  true  "edition year"
// @Success      200   {object}  response.ApplicationResponse
// @Failure      400   {object}  response.Err
// @Failure      401   {object}  response.Err
// @Failure      404   {object}  response.Err
// @Failure      500   {object}  response.Err
// @Router       /editions/{year}/application/validate [post]
// @Security BearerAuth
func (h *ApplicationHandler) HandleValidate(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	year, respErr := parseYearParam(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	applicant, err := h.svc.Validate(ctx.Request.Context(), user.ID, year)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEditionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("edition", "year", year))
		case errors.Is(err, service.ErrApplicantNotFound):
			response.RenderErr(ctx, response.ErrNotFound("application", "year", year))
		case errors.Is(err, service.ErrIncompleteApplication):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrIncompleteApplication))
		default:
			err = fmt.Errorf("v1.HandleValidate -> h.svc.Validate -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.NewApplicationResponse(applicant))
}

// HandleConfirmVenue godoc
// @Summary      Confirm participation for an accepted wish
// @Description  Confirms an accepted wish. Wishes in any other status are returned unchanged.
// @Tags         applications
// @Produce      json
// @Param        wishID  path      int  true  "wish ID"
// @Success      200     {object}  domain.Wish
// @Failure      401     {object}  response.Err
// @Failure      403     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /wishes/{wishID}/confirm [post]
// @Security BearerAuth
func (h *ApplicationHandler) HandleConfirmVenue(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	wishID, respErr := parseUintParam(ctx, "wishID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	wish, err := h.svc.ConfirmVenue(ctx.Request.Context(), user.ID, wishID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWishNotFound):
			response.RenderErr(ctx, response.ErrNotFound("wish", "wishID", wishID))
		case errors.Is(err, service.ErrNotWishOwner):
			response.RenderErr(ctx, response.ErrPermissionDenied())
		default:
			err = fmt.Errorf("v1.HandleConfirmVenue -> h.svc.ConfirmVenue -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, wish)
}

// HandleListAnswers godoc
// @Summary      List the application's answers
// @Tags         applications
// @Produce      json
// @Param        year  path      int  true  "edition year"
// @Success      200   {array}   domain.Answer
// @Failure      401   {object}  response.Err
// @Failure      404   {object}  response.Err
// @Failure      500   {object}  response.Err
// @Router       /editions/{year}/application/answers [get]
// @Security BearerAuth
func (h *ApplicationHandler) HandleListAnswers(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	year, respErr := parseYearParam(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	answers, err := h.svc.ListAnswers(ctx.Request.Context(), user.ID, year)
	if err != nil {
		if errors.Is(err, service.ErrEditionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("edition", "year", year))
			return
		}

		err = fmt.Errorf("v1.HandleListAnswers -> h.svc.ListAnswers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, answers)
}

// HandleSaveAnswers godoc
// @Summary      Save answers to the signup form
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        year     path      int  true  "edition year"
// @Param        request  body      request.SaveAnswersRequest true "request body"
// @Success      200      {object}  response.OK
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /editions/{year}/application/answers [put]
// @Security BearerAuth
func (h *ApplicationHandler) HandleSaveAnswers(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	year, respErr := parseYearParam(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.SaveAnswersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	responses := make(map[uint]string, len(req.Answers))
	for _, a := range req.Answers {
		if err := a.Validate(); err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		responses[a.QuestionID] = a.Response
	}

	err := h.svc.SaveAnswers(ctx.Request.Context(), user.ID, year, responses)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEditionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("edition", "year", year))
		case errors.Is(err, service.ErrApplicationLocked):
			response.RenderErr(ctx, response.ErrConflict(service.ErrApplicationLocked))
		case errors.Is(err, service.ErrQuestionNotFound):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrQuestionNotFound))
		default:
			err = fmt.Errorf("v1.HandleSaveAnswers -> h.svc.SaveAnswers -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.NewOK())
}
