package routes

import (
	"hotel-platform-server/services"
	"hotel-platform-server/utils"

	"github.com/kataras/iris/v12"
)

var blockService = services.NewBlockService()

func CreateBlockPeriod(ctx iris.Context) {
	var input BlockPeriodInput
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

	userID := ctx.Values().Get("userID").(uint)
	block, err := blockService.Create(utils.CompanyID(ctx), userID, services.BlockPeriodRequest{
		RoomID:    input.RoomID,
		StartDate: start,
		EndDate:   end,
		Reason:    input.Reason,
	})
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "block.create", "block_period", block.ID, nil, block)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(block)
}

func UpdateBlockPeriod(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var input BlockPeriodInput
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

	block, err := blockService.Update(utils.CompanyID(ctx), id, services.BlockPeriodRequest{
		RoomID:    input.RoomID,
		StartDate: start,
		EndDate:   end,
		Reason:    input.Reason,
	})
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "block.update", "block_period", block.ID, nil, block)
	ctx.JSON(block)
}

func DeleteBlockPeriod(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	if err := blockService.Delete(utils.CompanyID(ctx), id); err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "block.delete", "block_period", id, nil, nil)
	ctx.StatusCode(iris.StatusNoContent)
}

func GetBlockPeriods(ctx iris.Context) {
	var window *utils.DateRange
	if ctx.URLParam("startDate") != "" || ctx.URLParam("endDate") != "" {
		start, end, ok := dateWindow(ctx)
		if !ok {
			return
		}
		w := utils.NewDateRange(start, end)
		window = &w
	}

	blocks, err := blockService.List(utils.CompanyID(ctx), optionalRoomID(ctx), window)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(blocks)
}

type BlockPeriodInput struct {
	RoomID    *uint  `json:"roomID"` // nil blocks every room of the company
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
	Reason    string `json:"reason" validate:"required,max=512"`
}
