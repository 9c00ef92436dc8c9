package routes

import (
	"hotel-platform-server/services"
	"hotel-platform-server/utils"

	"github.com/kataras/iris/v12"
)

var bookingService = services.NewBookingService(services.NewMockPaymentGateway())

func CreateReservation(ctx iris.Context) {
	var input CreateReservationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	checkIn, ok := parseDate(input.CheckIn)
	if !ok {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "checkIn must be YYYY-MM-DD", ctx)
		return
	}
	checkOut, ok := parseDate(input.CheckOut)
	if !ok {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "checkOut must be YYYY-MM-DD", ctx)
		return
	}

	reservation, err := bookingService.ProcessRoomReservation(utils.CompanyID(ctx), services.BookingRequest{
		RoomID:        input.RoomID,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		NumGuests:     input.NumGuests,
		Note:          input.Note,
		PaymentMethod: input.PaymentMethod,
		Email:         input.Email,
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Phone:         input.Phone,
	})
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "reservation.create", "reservation", reservation.ID, nil, reservation)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(reservation)
}

func GetReservations(ctx iris.Context) {
	reservations, err := bookingService.ListReservations(
		utils.CompanyID(ctx), optionalRoomID(ctx), ctx.URLParam("status"))
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(reservations)
}

func GetReservation(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	reservation, err := bookingService.GetReservation(utils.CompanyID(ctx), id)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(reservation)
}

func ConfirmReservation(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	reservation, err := bookingService.Confirm(utils.CompanyID(ctx), id)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "reservation.confirm", "reservation", reservation.ID, nil, reservation)
	ctx.JSON(reservation)
}

func CheckInReservation(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	reservation, err := bookingService.CheckIn(utils.CompanyID(ctx), id)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "reservation.check_in", "reservation", reservation.ID, nil, reservation)
	ctx.JSON(reservation)
}

func CheckOutReservation(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	reservation, err := bookingService.CheckOut(utils.CompanyID(ctx), id)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "reservation.check_out", "reservation", reservation.ID, nil, reservation)
	ctx.JSON(reservation)
}

func CancelReservation(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var input CancelReservationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	reservation, err := bookingService.Cancel(utils.CompanyID(ctx), id, input.Reason)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "reservation.cancel", "reservation", reservation.ID, nil, reservation)
	ctx.JSON(reservation)
}

func AddReservationPayment(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var input PaymentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	payment, err := bookingService.AddPayment(utils.CompanyID(ctx), id, services.PaymentRequest{
		Amount: input.Amount,
		Method: input.Method,
	})
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "payment.add", "reservation_payment", payment.ID, nil, payment)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(payment)
}

func RefundReservationPayment(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)
	paymentID := ctx.Params().GetUintDefault("paymentID", 0)

	refund, err := bookingService.RefundPayment(utils.CompanyID(ctx), id, paymentID)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "payment.refund", "reservation_payment", refund.ID, nil, refund)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(refund)
}

// ExpirePendingReservations sweeps stale pending reservations past their TTL.
// Normally run by a scheduler hitting this endpoint.
func ExpirePendingReservations(ctx iris.Context) {
	expired, err := bookingService.ExpirePendingReservations(utils.CompanyID(ctx))
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"expired": expired})
}

type CreateReservationInput struct {
	RoomID        uint   `json:"roomID" validate:"required"`
	CheckIn       string `json:"checkIn" validate:"required"`
	CheckOut      string `json:"checkOut" validate:"required"`
	NumGuests     int    `json:"numGuests" validate:"gte=1"`
	Note          string `json:"note" validate:"max=2048"`
	PaymentMethod string `json:"paymentMethod" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	FirstName     string `json:"firstName" validate:"required,max=256"`
	LastName      string `json:"lastName" validate:"required,max=256"`
	Phone         string `json:"phone" validate:"max=64"`
}

type CancelReservationInput struct {
	Reason string `json:"reason" validate:"required,max=512"`
}

type PaymentInput struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Method string  `json:"method" validate:"required"`
}
