package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sfsf02/AcceessHealth/pkg/common/config"
	"github.com/sfsf02/AcceessHealth/pkg/common/database"
	"github.com/sfsf02/AcceessHealth/pkg/common/kafka"
	"github.com/sfsf02/AcceessHealth/pkg/common/logger"
	"github.com/sfsf02/AcceessHealth/pkg/notification"
)

// event-relay consumes the portal bus off the request path and fans
// wearable alerts out into notification feeds.
func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer database.ClosePostgres()

	repo := notification.NewRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		logger.Log.Fatalf("Migration failed: %v", err)
	}
	service := notification.NewService(repo)

	consumer := kafka.NewConsumer(cfg.PortalTopic, cfg.KafkaGroupID)
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		logger.Log.Info("Shutting down relay")
		cancel()
	}()

	logger.WithField("topic", cfg.PortalTopic).Info("Event relay consuming")
	if err := consumer.Consume(ctx, service.HandleEvent); err != nil && err != context.Canceled {
		logger.Log.Fatalf("Consumer stopped: %v", err)
	}
}
