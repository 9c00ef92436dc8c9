package main

import (
	"fmt"
	"log"
	"os"

	"hotel-platform-server/routes"
	"hotel-platform-server/storage"
	"hotel-platform-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS for the admin dashboard (http://localhost:3000)
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})
	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		if err := ctx.ReadJSON(&tokenInput); err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	// Every authenticated party shares the same chain: verify the access
	// token, stash userID, resolve the tenant.
	authenticated := []iris.Handler{
		accessTokenVerifierMiddleware,
		utils.UserIDFromTokenMiddleware,
		utils.CompanyIDMiddleware,
	}

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		user.Get("/me", append(authenticated, routes.GetCurrentUser)...)
	}

	rooms := app.Party("/api/rooms", authenticated...)
	{
		rooms.Post("/", routes.CreateRoom)
		rooms.Get("/", routes.GetRooms)
		rooms.Get("/{id:uint}", routes.GetRoom)
		rooms.Patch("/{id:uint}", routes.UpdateRoom)
		rooms.Delete("/{id:uint}", routes.DeleteRoom)
	}

	availability := app.Party("/api/availability", authenticated...)
	{
		availability.Get("/grid", routes.GetAvailabilityGrid)
		availability.Get("/check/{roomID:uint}", routes.CheckAvailability)
		availability.Post("/", routes.UpdateAvailability)
		availability.Post("/bulk", routes.BulkUpdateAvailability)
		availability.Post("/sync", routes.SyncAvailability)
	}

	blocks := app.Party("/api/blocks", authenticated...)
	{
		blocks.Post("/", routes.CreateBlockPeriod)
		blocks.Get("/", routes.GetBlockPeriods)
		blocks.Patch("/{id:uint}", routes.UpdateBlockPeriod)
		blocks.Delete("/{id:uint}", routes.DeleteBlockPeriod)
	}

	rules := app.Party("/api/rules", authenticated...)
	{
		rules.Post("/", routes.CreateRule)
		rules.Get("/", routes.GetRules)
		rules.Patch("/{id:uint}", routes.UpdateRule)
		rules.Delete("/{id:uint}", routes.DeleteRule)
		rules.Get("/validate/{roomID:uint}", routes.ValidateStay)
	}

	reservations := app.Party("/api/reservations", authenticated...)
	{
		reservations.Post("/", routes.CreateReservation)
		reservations.Get("/", routes.GetReservations)
		reservations.Get("/{id:uint}", routes.GetReservation)
		reservations.Post("/{id:uint}/confirm", routes.ConfirmReservation)
		reservations.Post("/{id:uint}/checkin", routes.CheckInReservation)
		reservations.Post("/{id:uint}/checkout", routes.CheckOutReservation)
		reservations.Post("/{id:uint}/cancel", routes.CancelReservation)
		reservations.Post("/{id:uint}/payments", routes.AddReservationPayment)
		reservations.Post("/{id:uint}/payments/{paymentID:uint}/refund", routes.RefundReservationPayment)
		reservations.Post("/expire-pending", routes.ExpirePendingReservations)
	}

	occupancy := app.Party("/api/occupancy", authenticated...)
	{
		occupancy.Get("/stats", routes.GetOccupancyStats)
	}

	customers := app.Party("/api/customers", authenticated...)
	{
		customers.Get("/", routes.GetCustomers)
		customers.Get("/{id:uint}", routes.GetCustomer)
	}

	admin := app.Party("/api/admin", append(authenticated, utils.AdminOnlyMiddleware)...)
	{
		admin.Get("/stats", routes.AdminStats)
		admin.Get("/activity", routes.AdminActivity)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := fmt.Sprintf("0.0.0.0:%s", port)

	if err := app.Listen(addr); err != nil {
		log.Fatal(err)
	}
}
