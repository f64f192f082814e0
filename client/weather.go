package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/moliceiro/meals/models"
)

// GetWeatherForecast fetches the forecast; empty date means today.
func (c *Client) GetWeatherForecast(ctx context.Context, date, location string) (models.WeatherForecast, error) {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	if location != "" {
		q.Set("location", location)
	}

	var out models.WeatherForecast
	err := c.do(ctx, "Failed to fetch weather forecast", http.MethodGet, "/api/weather/forecast", q, nil, &out)
	return out, err
}

func (c *Client) GetCacheStats(ctx context.Context) (models.CacheStats, error) {
	var out models.CacheStats
	err := c.do(ctx, "Failed to fetch cache stats", http.MethodGet, "/api/weather/cache-stats", nil, nil, &out)
	return out, err
}
