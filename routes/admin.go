package routes

import (
	"time"

	"hotel-platform-server/models"
	"hotel-platform-server/storage"
	"hotel-platform-server/utils"

	"github.com/kataras/iris/v12"
)

// GET /admin/stats
func AdminStats(ctx iris.Context) {
	companyID := utils.CompanyID(ctx)

	var pendingReservations int64
	storage.DB.Model(&models.Reservation{}).
		Where("company_id = ? AND status = ?", companyID, models.ReservationPending).
		Count(&pendingReservations)

	var activeBlocks int64
	storage.DB.Model(&models.BlockPeriod{}).
		Where("company_id = ? AND end_date > ?", companyID, utils.NormalizeDate(time.Now())).
		Count(&activeBlocks)

	var customers int64
	storage.DB.Model(&models.Customer{}).Where("company_id = ?", companyID).Count(&customers)

	since7 := time.Now().AddDate(0, 0, -7)
	since30 := time.Now().AddDate(0, 0, -30)
	var newRes7, newRes30 int64
	storage.DB.Model(&models.Reservation{}).
		Where("company_id = ? AND created_at >= ?", companyID, since7).Count(&newRes7)
	storage.DB.Model(&models.Reservation{}).
		Where("company_id = ? AND created_at >= ?", companyID, since30).Count(&newRes30)

	var revenue30 float64
	storage.DB.Model(&models.ReservationPayment{}).
		Select("COALESCE(SUM(reservation_payments.amount), 0)").
		Joins("JOIN reservations ON reservations.id = reservation_payments.reservation_id").
		Where("reservations.company_id = ? AND reservation_payments.status = ? AND reservation_payments.created_at >= ?",
			companyID, models.PaymentCompleted, since30).
		Scan(&revenue30)

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"pending_reservations": pendingReservations,
			"active_blocks":        activeBlocks,
			"customers":            customers,
			"new_reservations_7d":  newRes7,
			"new_reservations_30d": newRes30,
			"revenue_30d":          revenue30,
		},
		"meta":  iris.Map{},
		"links": iris.Map{},
	})
}

// GET /admin/activity
func AdminActivity(ctx iris.Context) {
	var logs []models.AuditLog
	storage.DB.Where("company_id = ?", utils.CompanyID(ctx)).
		Order("created_at DESC").Limit(100).Find(&logs)
	ctx.JSON(iris.Map{"data": logs, "meta": iris.Map{}, "links": iris.Map{}})
}
