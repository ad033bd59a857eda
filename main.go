package main

import (
	"log"
	"os"

	"condominio-server/booking"
	"condominio-server/routes"
	"condominio-server/services"
	"condominio-server/storage"
	"condominio-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	if os.Getenv("RENDER") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("no .env file found, relying on environment")
		}
	}
	storage.InitializeDB()
	storage.InitializeRedis()
	storage.InitializeCloudinary()

	routes.Booking = booking.NewService(
		storage.NewReservationStore(storage.DB),
		storage.NewAreaStore(storage.DB),
		services.NewNotificationService(),
		nil,
	)

	app := iris.New()
	app.Validator = validator.New()

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

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	area := app.Party("/api/area")
	{
		area.Get("/", routes.GetAreas)
		area.Get("/available", routes.GetAvailableAreas)
		area.Get("/{id:uint}", routes.GetArea)
		area.Get("/{id:uint}/occupied", routes.GetAreaOccupied)
	}

	reservation := app.Party("/api/reservation", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		reservation.Post("/", routes.CreateReservation)
		reservation.Get("/mine", routes.GetMyReservations)
		reservation.Get("/upcoming", routes.GetUpcomingReservations)
		reservation.Get("/{id:uint}", routes.GetReservation)
		reservation.Post("/{id:uint}/cancel", routes.CancelReservation)
		reservation.Post("/{id:uint}/revalidate", routes.RevalidateReservation)
	}

	notifications := app.Party("/api/notifications", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		notifications.Get("/", routes.GetMyNotifications)
		notifications.Post("/{id:uint}/read", routes.MarkNotificationRead)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/reservations", routes.AdminListReservations)
		admin.Get("/reservations/upcoming", routes.AdminUpcomingReservations)
		admin.Get("/reservations/stats", routes.AdminReservationStats)
		admin.Get("/reservations/{id:uint}", routes.AdminGetReservation)
		admin.Post("/reservations/{id:uint}/approve", routes.AdminApproveReservation)
		admin.Post("/reservations/{id:uint}/reject", routes.AdminRejectReservation)
		admin.Post("/reservations/{id:uint}/cancel", routes.AdminCancelReservation)
		admin.Post("/reservations/{id:uint}/complete", routes.AdminCompleteReservation)
		admin.Get("/audit", routes.AdminListAuditLog)
		admin.Post("/areas", routes.AdminCreateArea)
		admin.Put("/areas/{id:uint}", routes.AdminUpdateArea)
		admin.Patch("/areas/{id:uint}/status", routes.AdminUpdateAreaStatus)
		admin.Post("/areas/{id:uint}/image", routes.AdminUploadAreaImage)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	app.Listen(":" + port)
}
