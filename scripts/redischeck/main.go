package main

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
)

func main() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to redis: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully connected to redis: %s\n", addr)

	prefix := os.Getenv("REDIS_KEY_PREFIX")
	if prefix == "" {
		prefix = "optique"
	}

	keys, cursor, err := client.Scan(ctx, 0, prefix+":*", 20).Result()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Scan failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Cached entries under %q (first batch, cursor %d):\n", prefix, cursor)
	for _, key := range keys {
		fmt.Printf("  - %s\n", key)
	}
}
