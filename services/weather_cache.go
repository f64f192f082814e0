package services

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/moliceiro/meals/models"
	"github.com/redis/go-redis/v9"
)

// RedisForecastCache keeps resolved forecasts in redis for TTL.
type RedisForecastCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisForecastCache(client *redis.Client, ttl time.Duration) *RedisForecastCache {
	return &RedisForecastCache{Client: client, TTL: ttl}
}

func (c *RedisForecastCache) Key(date, location string) string {
	return "weather:" + date + ":" + location
}

// Get reports false without error when the forecast is not cached.
func (c *RedisForecastCache) Get(ctx context.Context, date, location string) (models.WeatherForecast, bool, error) {
	var f models.WeatherForecast
	raw, err := c.Client.Get(ctx, c.Key(date, location)).Bytes()
	if errors.Is(err, redis.Nil) {
		return f, false, nil
	}
	if err != nil {
		return f, false, err
	}
	if err := json.Unmarshal(raw, &f); err != nil {
		return f, false, err
	}
	return f, true, nil
}

func (c *RedisForecastCache) Set(ctx context.Context, f models.WeatherForecast) error {
	raw, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.Key(f.Date, f.Location), raw, c.TTL).Err()
}
