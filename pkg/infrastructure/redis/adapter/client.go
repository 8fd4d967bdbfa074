package adapter

import (
	"github.com/redis/go-redis/v9"
)

// ClientConfig aponta para a instância Redis usada pelos streams de eventos.
type ClientConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisClient(cfg ClientConfig) redis.UniversalClient {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
