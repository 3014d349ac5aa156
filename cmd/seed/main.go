// Command seed provisions the initial superadmin account. It is idempotent
// and safe to run on every deploy.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/Divyadarshini04/Billing-Backend/internal/infrastructure/config"
	mongostore "github.com/Divyadarshini04/Billing-Backend/internal/infrastructure/db/mongo"
	"github.com/Divyadarshini04/Billing-Backend/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "billing-seed",
	})

	phone := flag.String("phone", cfg.Seed.SuperAdminPhone, "superadmin phone number")
	password := flag.String("password", cfg.Seed.SuperAdminPassword, "superadmin password")
	flag.Parse()

	if *phone == "" || *password == "" {
		log.Fatal().Msg("superadmin phone and password are required (flags or SEED_SUPERADMIN_* env)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongo index setup failed")
	}

	if err := mongostore.EnsureSuperAdmin(ctx, db, *phone, *password, log); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}

	log.Info().Msg("seed complete")
}
