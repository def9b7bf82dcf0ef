package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"

	"ticketescrow/config"
	"ticketescrow/db"
	"ticketescrow/message"
	"ticketescrow/service"
	observability "ticketescrow/trace"
)

func main() {
	log.Init(logrus.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	traceProvider, err := observability.ConfigureTraceProvider(cfg.JaegerEndpoint)
	if err != nil {
		panic(err)
	}

	conn, err := db.NewDBConn(cfg.PostgresURL)
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	conn.MigrateSchema()

	redisClient := message.NewRedisClient(cfg.RedisAddr)
	defer redisClient.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	defer func() {
		if err := traceProvider.Shutdown(context.Background()); err != nil {
			logrus.WithError(err).Error("Could not shut down trace provider")
		}
	}()

	svc, err := service.New(conn, redisClient, cfg)
	if err != nil {
		panic(err)
	}

	if err := svc.Run(ctx); err != nil {
		panic(err)
	}
}
