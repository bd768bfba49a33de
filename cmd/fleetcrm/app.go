package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-crm/internal/auth"
	"github.com/ukydev/fleet-crm/internal/config"
	"github.com/ukydev/fleet-crm/internal/db"
	"github.com/ukydev/fleet-crm/internal/events"
	"github.com/ukydev/fleet-crm/internal/handlers"
	"github.com/ukydev/fleet-crm/internal/lifecycle"
	"github.com/ukydev/fleet-crm/internal/logging"
	"github.com/ukydev/fleet-crm/internal/middleware"
	"github.com/ukydev/fleet-crm/internal/sequence"
	"go.mongodb.org/mongo-driver/mongo"
)

// app holds the long-lived dependencies shared by the commands.
type app struct {
	cfg       *config.Config
	log       *logrus.Logger
	client    *mongo.Client
	database  *mongo.Database
	redis     *redis.Client
	pipeline  *lifecycle.Pipeline
	store     *db.Store
	publisher events.Publisher
}

func newApp(ctx context.Context, path string) (*app, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	client, err := db.ConnectMongo(ctx, cfg.Mongo.URI, cfg.GetConnectTimeout())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	a := &app{
		cfg:       cfg,
		log:       log,
		client:    client,
		database:  client.Database(cfg.Mongo.Database),
		publisher: events.Nop{},
	}
	log.WithField("database", cfg.Mongo.Database).Info("Connected to MongoDB")

	seq, err := a.sequencer(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.pipeline = lifecycle.NewPipeline(seq)
	a.store = db.NewStore(a.database, a.pipeline)

	if cfg.MQTT.BrokerURL != "" {
		pub, err := events.NewMQTTPublisher(events.Config{
			BrokerURL:   cfg.MQTT.BrokerURL,
			ClientID:    cfg.MQTT.ClientID,
			TopicPrefix: cfg.MQTT.TopicPrefix,
		})
		if err != nil {
			log.WithError(err).Warn("MQTT unavailable, record events disabled")
		} else {
			a.publisher = pub
		}
	}
	return a, nil
}

// sequencer picks the configured sequence backend. The Mongo counters also
// seed the Redis keys.
func (a *app) sequencer(ctx context.Context) (lifecycle.Sequencer, error) {
	counters := db.NewCounters(a.database)
	if a.cfg.Sequence.Backend != "redis" {
		return counters, nil
	}
	rc, err := sequence.NewRedisClient(ctx, sequence.Config{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}
	a.redis = rc
	return sequence.NewRedisSequencer(rc, counters), nil
}

func (a *app) Close() {
	if a.publisher != nil {
		a.publisher.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.client.Disconnect(ctx); err != nil {
		a.log.WithError(err).Warn("MongoDB disconnect failed")
	}
}

// buildHandler wraps the API routes in the middleware chain.
func buildHandler(cfg *config.Config, router http.Handler, limiter *middleware.RateLimitMiddleware, log logrus.FieldLogger) http.Handler {
	authService := auth.NewService(cfg.Auth.JWTSecret, 0)
	return middleware.Chain(router,
		middleware.RequestID,
		middleware.AccessLog(log),
		middleware.CORS(cfg.Server.CORSAllowedOrigins),
		limiter.RateLimit(cfg.Server.RateLimitPerMinute, time.Minute),
		middleware.NewAuthMiddleware(authService, cfg.Auth.Required).Identify,
	)
}

func (a *app) handler(limiter *middleware.RateLimitMiddleware) http.Handler {
	router := handlers.NewRouter(handlers.CollectionsFromStore(a.store), a.store, a.publisher, a.log)
	return buildHandler(a.cfg, router, limiter, a.log)
}
