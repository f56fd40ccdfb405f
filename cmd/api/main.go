package main

import (
	logrus "github.com/sirupsen/logrus"

	"launchpad/internal/handlers"
	"launchpad/internal/routes"
	"launchpad/pkg/config"
	chain "launchpad/pkg/solana"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Failed to load configuration: ", err)
	}

	db, err := config.NewDB(cfg)
	if err != nil {
		logrus.Fatal("Failed to initialize database: ", err)
	}
	if err := config.ExecuteMigrations(db); err != nil {
		logrus.Fatal("Failed to run migrations: ", err)
	}

	chainClient, err := chain.NewClient(cfg.RPCEndpoint)
	if err != nil {
		logrus.Fatal("Failed to create chain client: ", err)
	}

	publisher, err := config.NewPublisher(cfg.RabbitMQURL)
	if err != nil {
		logrus.Fatal("Failed to connect to RabbitMQ: ", err)
	}
	if publisher != nil {
		defer publisher.Close()
		logrus.Info("RabbitMQ publisher initialized")
	} else {
		logrus.Info("RabbitMQ not configured, token events disabled")
	}

	h, err := handlers.New(cfg, db, chainClient, publisher)
	if err != nil {
		logrus.Fatal("Failed to build handlers: ", err)
	}

	r := routes.SetupRouter(cfg, h)

	logrus.Infof("API listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logrus.Fatal("Failed to start server: ", err)
	}
}
