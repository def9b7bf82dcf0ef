package service

import (
	"context"
	"errors"
	stdHTTP "net/http"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	watermillMessage "github.com/ThreeDotsLabs/watermill/message"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"ticketescrow/clock"
	"ticketescrow/config"
	"ticketescrow/db"
	ticketsHttp "ticketescrow/http"
	"ticketescrow/ledger"
	"ticketescrow/message"
	"ticketescrow/message/event"
	"ticketescrow/message/outbox"
	"ticketescrow/migrations"
	"ticketescrow/system"
	"ticketescrow/token"
)

type Service struct {
	watermillRouter *watermillMessage.Router
	echoRouter      *echo.Echo

	httpAddr      string
	rebuildModels func(ctx context.Context) error
}

func New(
	conn db.DB,
	redisClient *redis.Client,
	cfg config.Config,
) (Service, error) {
	watermillLogger := log.NewWatermill(log.FromContext(context.Background()))

	redisPublisher, err := message.NewRedisPublisher(redisClient, watermillLogger)
	if err != nil {
		return Service{}, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	store := db.NewAccountStore(&conn)
	reserve := cfg.Reserve()
	transfers := system.NewService()

	program := ledger.NewProgram(
		cfg.ProgramID,
		store,
		transfers,
		token.NewService(reserve),
		reserve,
		clock.NewSystem(),
	)

	readModel := db.NewEventSummaryReadModel(&conn)
	dataLake := db.NewNotificationRepository(&conn)
	eventsHandler := event.NewHandler(cfg.ProgramID, readModel, dataLake)

	pgSubscriber, err := outbox.SubscribeForPGMessages(conn.Conn, watermillLogger)
	if err != nil {
		return Service{}, err
	}
	dataLakeSubscriber, err := event.NewDataLakeSubscriber(redisClient, watermillLogger)
	if err != nil {
		return Service{}, err
	}

	watermillRouter, err := message.NewWatermillRouter(
		pgSubscriber,
		dataLakeSubscriber,
		redisPublisher,
		event.NewProcessorConfig(redisClient, watermillLogger),
		eventsHandler,
		registry,
		watermillLogger,
	)
	if err != nil {
		return Service{}, err
	}

	var faucet ticketsHttp.Faucet
	if cfg.FaucetEnabled {
		faucet = system.NewFaucet(store, transfers)
	}

	echoRouter := ticketsHttp.NewHttpRouter(
		program,
		readModel,
		faucet,
		registry,
	)

	s := Service{
		watermillRouter: watermillRouter,
		echoRouter:      echoRouter,
		httpAddr:        cfg.HTTPAddr,
	}

	if cfg.RebuildReadModels {
		s.rebuildModels = func(ctx context.Context) error {
			return migrations.RebuildEventSummaries(ctx, dataLake, readModel, eventsHandler)
		}
	}

	return s, nil
}

func (s Service) Run(
	ctx context.Context,
) error {
	if s.rebuildModels != nil {
		if err := s.rebuildModels(ctx); err != nil {
			return err
		}
	}

	errgrp, ctx := errgroup.WithContext(ctx)

	errgrp.Go(func() error {
		return s.watermillRouter.Run(ctx)
	})

	errgrp.Go(func() error {
		// the service is not healthy before the router consumes
		<-s.watermillRouter.Running()

		err := s.echoRouter.Start(s.httpAddr)
		if err != nil && !errors.Is(err, stdHTTP.ErrServerClosed) {
			return err
		}

		return nil
	})

	errgrp.Go(func() error {
		<-ctx.Done()
		return s.echoRouter.Shutdown(context.Background())
	})

	return errgrp.Wait()
}
