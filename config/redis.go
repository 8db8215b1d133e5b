package config

import (
	"context"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

var Ctx = context.Background()

// ConnectRedis kết nối đến Redis. Cache là best-effort: caller phải
// chịu được trường hợp Redis không chạy.
func ConnectRedis() (*redis.Client, error) {
	RDB := redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_ADDR"),
		Username: os.Getenv("REDIS_USER"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	// Kiểm tra kết nối
	if _, err := RDB.Ping(Ctx).Result(); err != nil {
		return nil, err
	}

	log.Println("Kết nối Redis thành công")
	return RDB, nil
}
