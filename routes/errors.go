package routes

import (
	"errors"
	"log"

	"hotel-platform-server/services"
	"hotel-platform-server/utils"

	"github.com/kataras/iris/v12"
)

// handleServiceError maps service sentinel errors to HTTP statuses. Anything
// unrecognized is logged with full context and surfaced as a generic 500 so
// internals never leak to callers.
func handleServiceError(err error, ctx iris.Context) {
	switch {
	case errors.Is(err, services.ErrInvalidRange), errors.Is(err, services.ErrValidation):
		utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
	case errors.Is(err, services.ErrNotFound):
		utils.CreateError(iris.StatusNotFound, "Not Found", err.Error(), ctx)
	case errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrRoomNotAvailable):
		utils.CreateError(iris.StatusConflict, "Conflict", err.Error(), ctx)
	case errors.Is(err, services.ErrRulesViolation), errors.Is(err, services.ErrInvalidStateTransition):
		utils.CreateError(iris.StatusUnprocessableEntity, "Unprocessable", err.Error(), ctx)
	case errors.Is(err, services.ErrPaymentFailed):
		utils.CreateError(iris.StatusPaymentRequired, "Payment Declined", err.Error(), ctx)
	default:
		log.Printf("internal error on %s %s: %v", ctx.Method(), ctx.Path(), err)
		utils.CreateInternalServerError(ctx)
	}
}
