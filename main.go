package main

import (
	"context"
	"log"

	"ibuild/config"
	chatControllers "ibuild/controllers/chat"
	courseControllers "ibuild/controllers/course"
	notificationControllers "ibuild/controllers/notification"
	siteControllers "ibuild/controllers/site"
	"ibuild/database"
	"ibuild/realtime"
	authRoutes "ibuild/routers/authRoutes"
	chatRoutes "ibuild/routers/chatRoutes"
	courseRoutes "ibuild/routers/courseRoutes"
	notificationRoutes "ibuild/routers/notificationRoutes"
	siteRoutes "ibuild/routers/siteRoutes"
	uploadRoutes "ibuild/routers/uploadRoutes"
	userRoutes "ibuild/routers/userRoutes"
	"ibuild/services/certificate"
	"ibuild/services/enrollment"
	"ibuild/services/notification"
	"ibuild/services/qualification"
	"ibuild/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	hub := realtime.NewHub()
	if config.AppConfig.RedisAddr != "" {
		bus, err := realtime.NewRedisBus(config.AppConfig.RedisAddr, config.AppConfig.RedisChannel)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		hub.AttachBus(bus)
		if err := bus.StartForwarder(context.Background(), hub.DeliverLocal); err != nil {
			log.Fatalf("Failed to start redis forwarder: %v", err)
		}
	}

	db := database.Database.Db
	notificationService := notification.NewService(db, hub)
	enrollmentService := enrollment.NewService(db)
	qualificationService := qualification.NewService(db)
	certificateService := certificate.NewService(db, config.AppConfig.CertificateDir)

	courseControllers.Setup(enrollmentService, qualificationService, certificateService, notificationService)
	siteControllers.Setup(notificationService)
	notificationControllers.Setup(notificationService)
	chatControllers.Setup(hub)

	app := fiber.New(fiber.Config{
		BodyLimit: int(config.AppConfig.MaxUploadSize),
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",  // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve uploaded files and generated certificates
	app.Static("/uploads", config.AppConfig.UploadPath)

	authRoutes.SetupAuthRoutes(app)
	userRoutes.SetupUserRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	siteRoutes.SetupSiteRoutes(app)
	notificationRoutes.SetupNotificationRoutes(app)
	chatRoutes.SetupChatRoutes(app)
	uploadRoutes.SetupUploadRoutes(app)

	utils.StartEnrollmentScheduler(enrollmentService)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
