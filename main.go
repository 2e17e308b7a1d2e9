package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lms/config"
	controllers "lms/controllers/course"
	"lms/database"
	authRoutes "lms/routers/authRoutes"
	courseRoutes "lms/routers/courseRoutes"
	"lms/services/enrollment"
	"lms/services/exam"
	"lms/services/gamification"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	cfg := config.AppConfig
	db := database.Database.Db
	store := database.NewStore(db)
	mailer := utils.NewMailer(cfg)
	points := gamification.NewService(db)
	enrollments := enrollment.NewService(store, time.Now)

	var opts []exam.Option
	if cfg.RedisURL != "" {
		client, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer client.Close()
		opts = append(opts, exam.WithLocker(exam.NewRedisLocker(client)))
		log.Println("[EXAM] Using Redis attempt locks")
	}
	if cfg.WebhookURL != "" {
		webhooks := utils.NewWebhookClient(cfg.WebhookURL, time.Duration(cfg.WebhookTimeoutSeconds)*time.Second)
		opts = append(opts, exam.WithEvents(webhooks))
		log.Printf("[WEBHOOK] Publishing events to %s", cfg.WebhookURL)
	}
	pipeline := exam.NewPipeline(store, points, mailer, opts...)

	controllers.Setup(controllers.Deps{
		DB:           db,
		Store:        store,
		Enrollments:  enrollments,
		Exams:        pipeline,
		Gamification: points,
		Mailer:       mailer,
	})

	scheduler, err := utils.InitializeComplianceScheduler(cfg.ComplianceSweepCron, &utils.ComplianceJob{
		Sweeper:  enrollments,
		Users:    store,
		Reminder: mailer,
	})
	if err != nil {
		log.Fatalf("Invalid COMPLIANCE_SWEEP_CRON %q: %v", cfg.ComplianceSweepCron, err)
	}

	app := fiber.New()

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",  // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		log.Println("Shutting down...")
		if scheduler != nil {
			<-scheduler.Stop().Done()
		}
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("Server is running on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Printf("Server stopped: %v", err)
	}

	// let in-flight points, emails and webhooks finish
	pipeline.Drain()
	log.Println("Server exited")
}
