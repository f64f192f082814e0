package services

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/moliceiro/meals/utils"
)

// ForecastJanitor purges stored forecasts of past days once a day.
type ForecastJanitor struct {
	Weather   *WeatherService
	scheduler gocron.Scheduler
}

func NewForecastJanitor(weather *WeatherService) (*ForecastJanitor, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(time.Local))
	if err != nil {
		return nil, err
	}

	j := &ForecastJanitor{Weather: weather, scheduler: s}
	_, err = s.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(0, 10, 0),
			),
		),
		gocron.NewTask(j.Purge),
	)
	if err != nil {
		s.Shutdown()
		return nil, err
	}
	return j, nil
}

func (j *ForecastJanitor) Start() {
	j.scheduler.Start()
	utils.InfoLogger.Println("Forecast janitor started (daily at 00:10)")
}

func (j *ForecastJanitor) Stop() error {
	return j.scheduler.Shutdown()
}

// Purge removes forecasts dated before today.
func (j *ForecastJanitor) Purge() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := j.Weather.PurgeBefore(ctx, j.Weather.Today())
	if err != nil {
		utils.ErrorLogger.Printf("Purging old forecasts: %v", err)
		return
	}
	utils.InfoLogger.Printf("Purged %d old forecasts", n)
}
