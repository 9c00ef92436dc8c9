package routes

import (
	"hotel-platform-server/services"
	"hotel-platform-server/utils"

	"github.com/kataras/iris/v12"
)

var occupancyService = services.NewOccupancyService()

func GetOccupancyStats(ctx iris.Context) {
	start, end, ok := dateWindow(ctx)
	if !ok {
		return
	}

	stats, err := occupancyService.GetOccupancyStats(utils.CompanyID(ctx), start, end)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(stats)
}
