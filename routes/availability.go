package routes

import (
	"time"

	"hotel-platform-server/services"
	"hotel-platform-server/utils"

	"github.com/kataras/iris/v12"
)

var availabilityService = services.NewAvailabilityService()

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(utils.DateFormat, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// dateWindow reads the startDate/endDate query params shared by the calendar
// style endpoints.
func dateWindow(ctx iris.Context) (time.Time, time.Time, bool) {
	start, ok := parseDate(ctx.URLParam("startDate"))
	if !ok {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "startDate must be YYYY-MM-DD", ctx)
		return time.Time{}, time.Time{}, false
	}
	end, ok := parseDate(ctx.URLParam("endDate"))
	if !ok {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "endDate must be YYYY-MM-DD", ctx)
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func optionalRoomID(ctx iris.Context) *uint {
	if raw := ctx.URLParam("roomID"); raw != "" {
		if id, err := ctx.URLParamInt("roomID"); err == nil && id > 0 {
			u := uint(id)
			return &u
		}
	}
	return nil
}

func GetAvailabilityGrid(ctx iris.Context) {
	start, end, ok := dateWindow(ctx)
	if !ok {
		return
	}

	cells, err := availabilityService.GetGrid(utils.CompanyID(ctx), start, end, optionalRoomID(ctx))
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{"cells": cells})
}

func CheckAvailability(ctx iris.Context) {
	roomID := ctx.Params().GetUintDefault("roomID", 0)
	checkIn, ok := parseDate(ctx.URLParam("checkIn"))
	if !ok {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "checkIn must be YYYY-MM-DD", ctx)
		return
	}
	checkOut, ok := parseDate(ctx.URLParam("checkOut"))
	if !ok {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "checkOut must be YYYY-MM-DD", ctx)
		return
	}

	available, err := availabilityService.CheckRoomAvailability(utils.CompanyID(ctx), roomID, checkIn, checkOut)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(iris.Map{
		"roomID":    roomID,
		"checkIn":   utils.NormalizeDate(checkIn).Format(utils.DateFormat),
		"checkOut":  utils.NormalizeDate(checkOut).Format(utils.DateFormat),
		"available": available,
	})
}

func UpdateAvailability(ctx iris.Context) {
	var input UpdateAvailabilityInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	date, ok := parseDate(input.Date)
	if !ok {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "date must be YYYY-MM-DD", ctx)
		return
	}

	day, err := availabilityService.UpdateRoomAvailability(
		utils.CompanyID(ctx), input.RoomID, date, input.IsAvailable, input.CustomPrice, input.MinNights)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "availability.update", "availability_day", day.ID, nil, day)
	ctx.JSON(day)
}

func BulkUpdateAvailability(ctx iris.Context) {
	var input BulkUpdateAvailabilityInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	start, ok := parseDate(input.StartDate)
	if !ok {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "startDate must be YYYY-MM-DD", ctx)
		return
	}
	end, ok := parseDate(input.EndDate)
	if !ok {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "endDate must be YYYY-MM-DD", ctx)
		return
	}

	days, err := availabilityService.BulkUpdateAvailability(utils.CompanyID(ctx), services.BulkUpdateRequest{
		RoomIDs:     input.RoomIDs,
		StartDate:   start,
		EndDate:     end,
		IsAvailable: input.IsAvailable,
		CustomPrice: input.CustomPrice,
		MinNights:   input.MinNights,
	})
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "availability.bulk_update", "availability_day", 0, nil, input)
	ctx.JSON(iris.Map{"updated": len(days), "days": days})
}

func SyncAvailability(ctx iris.Context) {
	result, err := availabilityService.SyncAvailabilityWithReservations(utils.CompanyID(ctx))
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "availability.sync", "availability_day", 0, nil, result)
	ctx.JSON(result)
}

type UpdateAvailabilityInput struct {
	RoomID      uint     `json:"roomID" validate:"required"`
	Date        string   `json:"date" validate:"required"`
	IsAvailable bool     `json:"isAvailable"`
	CustomPrice *float64 `json:"customPrice" validate:"omitempty,gte=0"`
	MinNights   *int     `json:"minNights" validate:"omitempty,gte=1"`
}

type BulkUpdateAvailabilityInput struct {
	RoomIDs     []uint   `json:"roomIDs"`
	StartDate   string   `json:"startDate" validate:"required"`
	EndDate     string   `json:"endDate" validate:"required"`
	IsAvailable bool     `json:"isAvailable"`
	CustomPrice *float64 `json:"customPrice" validate:"omitempty,gte=0"`
	MinNights   *int     `json:"minNights" validate:"omitempty,gte=1"`
}
