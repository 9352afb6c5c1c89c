package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prologin/gcc-api/internal/api/handler/v1/request"
	"github.com/prologin/gcc-api/internal/api/handler/v1/response"
	"github.com/prologin/gcc-api/internal/domain"
	"github.com/prologin/gcc-api/internal/service"
)

type NewsletterService interface {
	Subscribe(ctx context.Context, email string) error
	ConfirmSubscription(ctx context.Context, email, token string) (domain.Subscriber, error)
	Unsubscribe(ctx context.Context, email, token string) error
}

type NewsletterHandler struct {
	svc NewsletterService
}

func NewNewsletterHandler(svc NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{
		svc: svc,
	}
}

// HandleSubscribe godoc
// @Summary      Subscribe an address to the newsletter
// @Description  Starts the double-opt-in flow by emailing a verification link.
// @Tags         newsletter
// @Accept       json
// @Produce      json
// @Param        request  body      request.SubscribeRequest true "request body"
// @Success      200      {object}  response.OK
// @Failure      400      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /newsletter/subscriptions [post]
func (h *NewsletterHandler) HandleSubscribe(ctx *gin.Context) {
	var req request.SubscribeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err := h.svc.Subscribe(ctx.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, service.ErrAlreadySubscribed) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrAlreadySubscribed))
			return
		}

		err = fmt.Errorf("v1.HandleSubscribe -> h.svc.Subscribe -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewOK())
}

// HandleConfirmSubscription godoc
// @Summary      Confirm a newsletter subscription
// @Tags         newsletter
// @Produce      json
// @Param        email  path      string  true  "subscriber email"
// @Param        token  path      string  true  "verification token"
// @Success      200    {object}  domain.Subscriber
// @Failure      404    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /newsletter/subscriptions/verify/{email}/{token} [get]
func (h *NewsletterHandler) HandleConfirmSubscription(ctx *gin.Context) {
	email := ctx.Param("email")
	token := ctx.Param("token")

	sub, err := h.svc.ConfirmSubscription(ctx.Request.Context(), email, token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVerificationNotFound):
			response.RenderErr(ctx, response.ErrNotFound("verification", "email", email))
		case errors.Is(err, service.ErrAlreadySubscribed):
			response.RenderErr(ctx, response.ErrConflict(service.ErrAlreadySubscribed))
		default:
			err = fmt.Errorf("v1.HandleConfirmSubscription -> h.svc.ConfirmSubscription -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, sub)
}

// HandleUnsubscribe godoc
// @Summary      Unsubscribe an address from the newsletter
// @Tags         newsletter
// @Produce      json
// @Param        email  path      string  true  "subscriber email"
// @Param        token  path      string  true  "unsubscribe token"
// @Success      200    {object}  response.OK
// @Failure      400    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /newsletter/subscriptions/unsubscribe/{email}/{token} [get]
func (h *NewsletterHandler) HandleUnsubscribe(ctx *gin.Context) {
	email := ctx.Param("email")
	token := ctx.Param("token")

	err := h.svc.Unsubscribe(ctx.Request.Context(), email, token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubscriberNotFound):
			response.RenderErr(ctx, response.ErrNotFound("subscriber", "email", email))
		case errors.Is(err, service.ErrWrongUnsubscribeToken):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrWrongUnsubscribeToken))
		default:
			err = fmt.Errorf("v1.HandleUnsubscribe -> h.svc.Unsubscribe -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.NewOK())
}
