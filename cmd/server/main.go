package main

import (
	"context"
	"log"
	"time"

	"anoa.com/threadboard/internal/bootstrap"
	"anoa.com/threadboard/internal/config"
	"anoa.com/threadboard/internal/server"
	"anoa.com/threadboard/pkg/database"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect(cfg.DatabaseURL)
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if !cfg.IsProduction() {
		if err := bootstrap.SeedDemoData(db); err != nil {
			log.Fatalf("failed to seed demo data: %v", err)
		}
	}

	redisClient := connectRedis(cfg.RedisURL)
	if redisClient != nil {
		defer redisClient.Close()
	}

	srv := server.NewServer(cfg, db, redisClient)

	log.Printf("threadboard listening on :%s (%s)", cfg.Port, cfg.AppEnv)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

// connectRedis returns nil when REDIS_URL is unset or unreachable; the server
// then runs without cooldowns, token revocation, or refresh events.
func connectRedis(redisURL string) *redis.Client {
	if redisURL == "" {
		log.Println("REDIS_URL is empty, running without redis")
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis is unreachable, running without it: %v", err)
		_ = client.Close()
		return nil
	}

	return client
}
