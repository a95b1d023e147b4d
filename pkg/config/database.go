package config

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB holds the backing service connections. Redis and Nats are nil when
// not configured or unreachable at startup.
type DB struct {
	Postgres *gorm.DB
	Mongo    *mongo.Client
	Redis    *redis.Client
	Nats     *nats.Conn

	logger *zap.SugaredLogger
}

// InitDB connects to PostgreSQL and MongoDB, which are required, and to
// Redis and NATS, which are optional.
func InitDB(ctx context.Context, cfg *Config, logger *zap.SugaredLogger) (*DB, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	postgresDB, err := initPostgres(cfg.PostgresConnStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	logger.Info("Successfully connected to PostgreSQL")

	mongoClient, err := initMongo(ctx, cfg.MongoURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	logger.Info("Successfully connected to MongoDB")

	db := &DB{Postgres: postgresDB, Mongo: mongoClient, logger: logger}

	if cfg.RedisAddr != "" {
		if db.Redis, err = initRedis(ctx, cfg.RedisAddr); err != nil {
			logger.Warnw("Redis unavailable, unread cache and shared rate limits disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			logger.Infow("Successfully connected to Redis", "addr", cfg.RedisAddr)
		}
	}

	if cfg.NatsURL != "" {
		if db.Nats, err = nats.Connect(cfg.NatsURL, nats.Name("ideahub-api")); err != nil {
			logger.Warnw("NATS unavailable, social events disabled", "url", cfg.NatsURL, "error", err)
			db.Nats = nil
		} else {
			logger.Infow("Successfully connected to NATS", "url", cfg.NatsURL)
		}
	}

	return db, nil
}

// initPostgres initializes the PostgreSQL database connection using GORM
func initPostgres(connStr string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// initMongo initializes the MongoDB connection
func initMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping the primary to verify connection
	if err = client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

func initRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            addr,
		PoolTimeout:     30 * time.Second,
		ConnMaxIdleTime: 5 * time.Minute,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// CloseDB closes every open connection
func (db *DB) CloseDB() {
	if db.Postgres != nil {
		sqlDB, err := db.Postgres.DB()
		if err != nil {
			db.logger.Errorw("Error getting SQL DB from GORM", "error", err)
		} else if err := sqlDB.Close(); err != nil {
			db.logger.Errorw("Error closing PostgreSQL connection", "error", err)
		} else {
			db.logger.Info("PostgreSQL connection closed")
		}
	}

	if db.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Mongo.Disconnect(ctx); err != nil {
			db.logger.Errorw("Error closing MongoDB connection", "error", err)
		} else {
			db.logger.Info("MongoDB connection closed")
		}
	}

	if db.Redis != nil {
		if err := db.Redis.Close(); err != nil {
			db.logger.Errorw("Error closing Redis connection", "error", err)
		}
	}

	if db.Nats != nil {
		if err := db.Nats.Drain(); err != nil {
			db.logger.Errorw("Error draining NATS connection", "error", err)
		}
	}
}
