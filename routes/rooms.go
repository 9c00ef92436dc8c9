package routes

import (
	"hotel-platform-server/models"
	"hotel-platform-server/storage"
	"hotel-platform-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

func CreateRoom(ctx iris.Context) {
	var input RoomInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	room := models.Room{
		CompanyID:    utils.CompanyID(ctx),
		Name:         input.Name,
		Description:  input.Description,
		BasePrice:    input.BasePrice,
		MaxOccupancy: input.MaxOccupancy,
		IsActive:     true,
	}
	if err := storage.DB.Create(&room).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "room.create", "room", room.ID, nil, room)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(room)
}

func GetRooms(ctx iris.Context) {
	var rooms []models.Room
	query := storage.DB.Where("company_id = ?", utils.CompanyID(ctx))
	if ctx.URLParamDefault("includeInactive", "false") != "true" {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("id ASC").Find(&rooms).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(rooms)
}

func GetRoom(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var room models.Room
	err := storage.DB.Where("company_id = ?", utils.CompanyID(ctx)).First(&room, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(room)
}

func UpdateRoom(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var input RoomInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var room models.Room
	err := storage.DB.Where("company_id = ?", utils.CompanyID(ctx)).First(&room, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	before := room
	room.Name = input.Name
	room.Description = input.Description
	room.BasePrice = input.BasePrice
	room.MaxOccupancy = input.MaxOccupancy
	if input.IsActive != nil {
		room.IsActive = *input.IsActive
	}
	if err := storage.DB.Save(&room).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "room.update", "room", room.ID, before, room)
	ctx.JSON(room)
}

// DeleteRoom deactivates the room rather than removing it, so historical
// reservations keep a valid reference.
func DeleteRoom(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var room models.Room
	err := storage.DB.Where("company_id = ?", utils.CompanyID(ctx)).First(&room, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	before := room
	room.IsActive = false
	if err := storage.DB.Save(&room).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "room.deactivate", "room", room.ID, before, room)
	ctx.StatusCode(iris.StatusNoContent)
}

type RoomInput struct {
	Name         string  `json:"name" validate:"required,max=256"`
	Description  string  `json:"description" validate:"max=2048"`
	BasePrice    float64 `json:"basePrice" validate:"gte=0"`
	MaxOccupancy int     `json:"maxOccupancy" validate:"gte=1"`
	IsActive     *bool   `json:"isActive"`
}
