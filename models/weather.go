package models

import "time"

type WeatherForecast struct {
	ID          uint      `gorm:"primaryKey" json:"id,omitempty"`
	Date        string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_forecast_date_location" json:"date"`
	Location    string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_forecast_date_location" json:"location"`
	Temperature float64   `gorm:"not null" json:"temperature"`
	Description string    `gorm:"type:varchar(255);not null" json:"description"`
	Humidity    float64   `gorm:"not null" json:"humidity"`
	WindSpeed   float64   `gorm:"column:wind_speed;not null" json:"windSpeed"`
	Timestamp   int64     `gorm:"not null" json:"timestamp"`
	CreatedAt   time.Time `json:"-"`
}

// CacheStats is the snapshot served by the cache-stats endpoint.
type CacheStats struct {
	TotalRequests int64   `json:"totalRequests"`
	CacheHits     int64   `json:"cacheHits"`
	CacheMisses   int64   `json:"cacheMisses"`
	HitRate       float64 `json:"hitRate"`
}
