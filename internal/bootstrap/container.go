package bootstrap

import (
	"context"
	"log"
	"time"

	"notekeeper-be/internal/config"
	"notekeeper-be/internal/controller"
	"notekeeper-be/internal/handler"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/repository/memory"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/internal/service"
	"notekeeper-be/internal/sweeper"
	"notekeeper-be/internal/websocket"

	pktNats "notekeeper-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	NoteController controller.INoteController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	TrashSweeper    *sweeper.TrashSweeper

	// WebSockets & Activity Feed
	ActivityHandler *handler.ActivityHandler
	WebSocketHub    *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/activity.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Services
	queryCache := memory.NewQueryCache(cfg.Cache.TTL)

	publisherService := service.NewPublisherService(pubSub, cfg.Cache.InvalidationTopic)
	consumerService := service.NewConsumerService(pubSub, cfg.Cache.InvalidationTopic, queryCache)

	noteService := service.NewNoteService(
		uowFactory,
		publisherService,
		natsPub,
		queryCache,
		sysLogger,
	)
	noteQueryService := service.NewNoteQueryService(uowFactory, queryCache)

	// Activity Feed
	activityService := service.NewActivityService(uowFactory, natsSub, wsHub, wsLogger) // Hub implements ActivityDelivery

	// Start Service (Worker)
	if natsSub != nil {
		go activityService.Start()
	}

	activityHandler := handler.NewActivityHandler(activityService, wsHub, wsLogger)

	// Trash Sweeper (main.go starts it when enabled)
	var trashSweeper *sweeper.TrashSweeper
	if cfg.Trash.SweepEnabled {
		retention := time.Duration(cfg.Trash.RetentionDays) * 24 * time.Hour
		trashSweeper = sweeper.NewTrashSweeper(noteService, cfg.Trash.SweepInterval, retention, sysLogger)
	}

	// 4. Controllers
	return &Container{
		NoteController:  controller.NewNoteController(noteService, noteQueryService),
		ConsumerService: consumerService,
		TrashSweeper:    trashSweeper,
		ActivityHandler: activityHandler,
		WebSocketHub:    wsHub,
	}
}
