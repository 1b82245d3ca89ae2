package main

import (
	"log"

	"earlywage/config"
	"earlywage/handlers"
	"earlywage/ledger"
	"earlywage/middleware"
	"earlywage/models"
	"earlywage/services"
	"earlywage/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func initServices() error {
	config.LoadConfig()
	utils.InitLogger()

	var err error
	DB, err = gorm.Open(sqlite.Open(config.AppConfig.DBPath), &gorm.Config{})
	if err != nil {
		return err
	}

	err = DB.AutoMigrate(
		&models.Employer{},
		&models.Employee{},
		&models.Advance{},
		&models.Transfer{},
		&models.PlatformState{},
	)
	if err != nil {
		return err
	}

	token := services.NewTokenClient(config.AppConfig.TokenHost, config.AppConfig.TokenCanisterID)

	engine, err := ledger.New(DB, token, config.AppConfig.OwnerAddress)
	if err != nil {
		return err
	}

	handlers.InitHandlers(DB, engine)
	return nil
}

func main() {
	if err := initServices(); err != nil {
		log.Fatal("Failed to initialize services:", err)
	}

	app := fiber.New()

	// Auth
	app.Post("/auth/token", handlers.IssueToken)
	app.Post("/auth/owner", handlers.OwnerLogin)

	// Employer operations
	app.Post("/employers", middleware.RequireAuth, handlers.RegisterEmployer)
	app.Post("/employers/:id/employees", middleware.RequireAuth, handlers.RegisterEmployee)
	app.Post("/employers/:id/deposits", middleware.RequireAuth, handlers.DepositFunds)
	app.Post("/employers/:id/withdrawals", middleware.RequireAuth, handlers.WithdrawFunds)
	app.Post("/employers/:id/withdrawals/all", middleware.RequireAuth, handlers.WithdrawAllFunds)

	// Employee operations
	app.Post("/advances", middleware.RequireAuth, handlers.RequestAdvance)

	// Platform owner operations
	app.Post("/platform/fees/withdraw", middleware.RequireOwner, handlers.WithdrawPlatformFees)

	// Read-only accessors
	app.Get("/employers/count", handlers.GetEmployerCount)
	app.Get("/employers/:id", handlers.GetEmployer)
	app.Get("/employees/:address", handlers.GetEmployee)
	app.Get("/employees/:address/advances", handlers.GetEmployeeAdvances)
	app.Get("/platform", handlers.GetPlatform)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
