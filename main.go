package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/stripe/stripe-go/v76"

	"github.com/medibook/appointment-api/cron"
	"github.com/medibook/appointment-api/db"
	"github.com/medibook/appointment-api/redis"
	"github.com/medibook/appointment-api/routes"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}

	app := fiber.New()
	db.Init()
	redis.InitRedis()
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Doctor Appointment API is running")
	})

	routes.SetupUserRoutes(app)
	routes.SetupDoctorRoutes(app)
	routes.SetupAdminRoutes(app)
	routes.SetupPaymentRoutes(app)

	cron.StartCronJobs()

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	log.Fatal(app.Listen(":" + port))
}
