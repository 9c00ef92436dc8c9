package routes

import (
	"hotel-platform-server/models"
	"hotel-platform-server/storage"
	"hotel-platform-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

func GetCustomers(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("perPage", 25)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 25
	}

	query := storage.DB.Model(&models.Customer{}).Where("company_id = ?", utils.CompanyID(ctx))
	if search := ctx.URLParam("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("email LIKE ? OR first_name LIKE ? OR last_name LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var customers []models.Customer
	err := query.Order("id ASC").Offset((page - 1) * perPage).Limit(perPage).Find(&customers).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, customers, page, perPage, total)
}

func GetCustomer(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var customer models.Customer
	err := storage.DB.Where("company_id = ?", utils.CompanyID(ctx)).First(&customer, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	var reservations []models.Reservation
	storage.DB.Where("customer_id = ?", customer.ID).
		Order("check_in DESC").Limit(50).Find(&reservations)

	ctx.JSON(iris.Map{
		"customer":     customer,
		"reservations": reservations,
	})
}
