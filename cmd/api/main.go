package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"propostas_service/internal/adapter/http/routes"
	"propostas_service/internal/infrastructure/config"
	"propostas_service/internal/infrastructure/container"

	_ "github.com/joho/godotenv/autoload"
)

// @title           Propostas Service API
// @version         1.0
// @description     Commercial proposals: drafting, public signature links and internal approval.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

// @securityDefinitions.apikey UserID
// @in header
// @name X-User-ID
// @description Authenticated staff user; capabilities go in X-User-Capabilities.

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("[main] invalid configuration: %v", err)
	}

	c, err := container.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("[main] failed to build dependencies: %v", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Printf("[main] shutdown err=%v", err)
		}
	}()

	if err := routes.Run(ctx, c); err != nil {
		log.Printf("[main] server stopped err=%v", err)
	}
}
