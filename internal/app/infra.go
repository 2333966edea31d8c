package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goShop/internal/config"
	"github.com/MrEthical07/goShop/internal/storage"
	"github.com/MrEthical07/goShop/internal/store"
)

// Infra bundles the external clients the service runs on. Images is nil
// when object storage is not configured.
type Infra struct {
	DB     *store.DB
	Redis  *redis.Client
	Images *storage.Client
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	sqlDB, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	db := store.New(sqlDB)
	if err := db.RunMigration(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migration: %w", err)
	}
	slog.Info("database ready")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		sqlDB.Close()
		redisClient.Close()
		return nil, fmt.Errorf("redis unreachable: %w", err)
	}
	slog.Info("redis ready")

	infra := &Infra{DB: db, Redis: redisClient}

	if cfg.S3Enabled() {
		images, err := storage.NewClient(ctx, storage.Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			sqlDB.Close()
			redisClient.Close()
			return nil, fmt.Errorf("object storage: %w", err)
		}
		infra.Images = images
		slog.Info("object storage ready")
	} else {
		slog.Warn("object storage not configured, product images disabled")
	}

	return infra, nil
}

// Close releases the infrastructure clients.
func (i *Infra) Close() error {
	return errors.Join(i.DB.Close(), i.Redis.Close())
}
