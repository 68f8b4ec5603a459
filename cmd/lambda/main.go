package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/sirupsen/logrus"

	"github.com/JoachimHamraoui/bibliomania/internal/config"
	"github.com/JoachimHamraoui/bibliomania/internal/container"
	"github.com/JoachimHamraoui/bibliomania/internal/router"
	"github.com/JoachimHamraoui/bibliomania/internal/schema"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}
	config.InitLogger(cfg.LogLevel, cfg.LogFormat)

	db, err := config.Connect(ctx, cfg.DatabaseDSN)
	if err != nil {
		logrus.WithError(err).Fatal("Database connection failed")
	}
	if cfg.AutoMigrate {
		if err := schema.Migrate(ctx, db); err != nil {
			logrus.WithError(err).Fatal("Schema migration failed")
		}
	}

	c, err := container.New(ctx, cfg, db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to build application")
	}

	adapter := httpadapter.New(router.New(router.RouterConfig{Container: c, CORSOrigins: cfg.CORSOrigins}))
	lambda.Start(adapter.ProxyWithContext)
}
