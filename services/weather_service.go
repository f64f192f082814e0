package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/moliceiro/meals/models"
	"github.com/moliceiro/meals/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ForecastHorizonDays is how far ahead real forecasts are looked up.
const ForecastHorizonDays = 5

// WeatherService resolves forecasts through redis, the database and finally
// OpenWeather, counting cache hits along the way.
type WeatherService struct {
	DB      *gorm.DB
	Fetcher ForecastFetcher
	Cache   *RedisForecastCache
	Now     func() time.Time

	totalRequests atomic.Int64
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
}

// NewWeatherService builds the service. cache may be nil.
func NewWeatherService(db *gorm.DB, fetcher ForecastFetcher, cache *RedisForecastCache) *WeatherService {
	return &WeatherService{DB: db, Fetcher: fetcher, Cache: cache, Now: time.Now}
}

// Today returns the current date as YYYY-MM-DD.
func (s *WeatherService) Today() string {
	return s.Now().Format(models.DateLayout)
}

// DefaultForecast is served when no real forecast exists for date.
func (s *WeatherService) DefaultForecast(date, location string) models.WeatherForecast {
	return models.WeatherForecast{
		Date:        date,
		Location:    location,
		Temperature: 20.0,
		Description: "Partly cloudy",
		Humidity:    65.0,
		WindSpeed:   5.0,
		Timestamp:   s.Now().Unix(),
	}
}

// Forecast returns the forecast of location on date (YYYY-MM-DD).
func (s *WeatherService) Forecast(ctx context.Context, date, location string) (models.WeatherForecast, error) {
	s.totalRequests.Add(1)

	horizon := s.Now().AddDate(0, 0, ForecastHorizonDays).Format(models.DateLayout)
	if date > horizon {
		utils.InfoLogger.Printf("Forecast for %s requested beyond %s, serving default", date, horizon)
		return s.DefaultForecast(date, location), nil
	}

	if f, ok := s.cached(ctx, date, location); ok {
		s.cacheHits.Add(1)
		return f, nil
	}
	s.cacheMisses.Add(1)

	resp, err := s.Fetcher.Forecast(ctx, location)
	if err != nil {
		utils.ErrorLogger.Printf("Fetching forecast for %s: %v", location, err)
		return models.WeatherForecast{}, fmt.Errorf("%w: %v", ErrWeatherUnavailable, err)
	}

	var entry *ForecastEntry
	for i := range resp.List {
		if resp.List[i].Day() == date {
			entry = &resp.List[i]
			break
		}
	}
	if entry == nil {
		utils.InfoLogger.Printf("No forecast entry for %s in %s, serving default", date, location)
		return s.DefaultForecast(date, location), nil
	}

	f := models.WeatherForecast{
		Date:        date,
		Location:    location,
		Temperature: entry.Main.Temp,
		Humidity:    entry.Main.Humidity,
		WindSpeed:   entry.Wind.Speed,
		Timestamp:   entry.Dt,
	}
	if len(entry.Weather) > 0 {
		f.Description = entry.Weather[0].Description
	}

	err = s.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&f).Error
	if err != nil {
		utils.ErrorLogger.Printf("Persisting forecast %s/%s: %v", date, location, err)
	}
	s.remember(ctx, f)
	return f, nil
}

func (s *WeatherService) cached(ctx context.Context, date, location string) (models.WeatherForecast, bool) {
	if s.Cache != nil {
		f, ok, err := s.Cache.Get(ctx, date, location)
		if err != nil {
			utils.ErrorLogger.Printf("Reading forecast cache: %v", err)
		} else if ok {
			return f, true
		}
	}

	var f models.WeatherForecast
	err := s.DB.WithContext(ctx).Where("date = ? AND location = ?", date, location).First(&f).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.ErrorLogger.Printf("Reading stored forecast: %v", err)
		}
		return f, false
	}
	s.remember(ctx, f)
	return f, true
}

func (s *WeatherService) remember(ctx context.Context, f models.WeatherForecast) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Set(ctx, f); err != nil {
		utils.ErrorLogger.Printf("Writing forecast cache: %v", err)
	}
}

// Stats returns a snapshot of the lookup counters.
func (s *WeatherService) Stats() models.CacheStats {
	stats := models.CacheStats{
		TotalRequests: s.totalRequests.Load(),
		CacheHits:     s.cacheHits.Load(),
		CacheMisses:   s.cacheMisses.Load(),
	}
	if stats.TotalRequests > 0 {
		stats.HitRate = float64(stats.CacheHits) / float64(stats.TotalRequests)
	}
	return stats
}

// PurgeBefore deletes stored forecasts dated before date.
func (s *WeatherService) PurgeBefore(ctx context.Context, date string) (int64, error) {
	res := s.DB.WithContext(ctx).Where("date < ?", date).Delete(&models.WeatherForecast{})
	return res.RowsAffected, res.Error
}
