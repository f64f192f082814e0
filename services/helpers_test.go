package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/moliceiro/meals/events"
	"github.com/moliceiro/meals/models"
	"github.com/moliceiro/meals/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.SilenceLoggers()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []events.Message
}

func (p *recordingPublisher) Publish(_ context.Context, msg events.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *recordingPublisher) Events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, len(p.msgs))
	for i, m := range p.msgs {
		names[i] = m.Event
	}
	return names
}

func seedRestaurant(t *testing.T, db *gorm.DB, capacity int) models.Restaurant {
	t.Helper()
	r := models.Restaurant{
		Name:           "Moliceiro Grill",
		Location:       "Aveiro,PT",
		Capacity:       capacity,
		OperatingHours: "12:00-23:00",
	}
	require.NoError(t, db.Create(&r).Error)
	return r
}

func seedMeal(t *testing.T, db *gorm.DB, restaurantID uint, date, mealType string) models.Meal {
	t.Helper()
	m := models.Meal{
		RestaurantID: restaurantID,
		Name:         "Ovos moles " + date,
		Description:  "Traditional sweet",
		Price:        7.5,
		Date:         date,
		MealType:     mealType,
	}
	require.NoError(t, db.Omit("Restaurant").Create(&m).Error)
	return m
}

func capacityOf(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var r models.Restaurant
	require.NoError(t, db.First(&r, id).Error)
	return r.Capacity
}
