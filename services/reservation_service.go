package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/moliceiro/meals/events"
	"github.com/moliceiro/meals/models"
	"github.com/moliceiro/meals/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@(.+)$`)

type ReservationInput struct {
	Meal           *EntityRef `json:"meal"`
	CustomerName   string     `json:"customerName"`
	CustomerEmail  string     `json:"customerEmail"`
	NumberOfPeople int        `json:"numberOfPeople"`
}

// Validate checks the fields a reservation cannot be created without.
func (in ReservationInput) Validate() error {
	switch {
	case strings.TrimSpace(in.CustomerName) == "":
		return invalid("Customer name is required")
	case !emailPattern.MatchString(in.CustomerEmail):
		return invalid("Invalid email format")
	case in.NumberOfPeople <= 0:
		return invalid("Number of people must be greater than 0")
	case in.Meal == nil || in.Meal.ID == 0:
		return invalid("Meal is required")
	}
	return nil
}

// Notifier is told about every reservation that was created.
type Notifier interface {
	ReservationCreated(r models.Reservation)
}

type ReservationService struct {
	DB       *gorm.DB
	Events   events.Publisher
	Notifier Notifier
	Now      func() time.Time
}

func NewReservationService(db *gorm.DB, pub events.Publisher, notifier Notifier) *ReservationService {
	if pub == nil {
		pub = events.Discard
	}
	return &ReservationService{DB: db, Events: pub, Notifier: notifier, Now: time.Now}
}

// NewReservationCode returns an 8 character upper-case code.
func NewReservationCode() string {
	return strings.ToUpper(uuid.New().String()[:8])
}

func (s *ReservationService) query(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).Preload("Meal.Restaurant").Order("id")
}

func (s *ReservationService) List(ctx context.Context) ([]models.Reservation, error) {
	reservations := []models.Reservation{}
	if err := s.query(ctx).Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

func (s *ReservationService) ListByMeal(ctx context.Context, mealID uint) ([]models.Reservation, error) {
	reservations := []models.Reservation{}
	if err := s.query(ctx).Where("meal_id = ?", mealID).Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

func (s *ReservationService) ListByCustomer(ctx context.Context, email string) ([]models.Reservation, error) {
	reservations := []models.Reservation{}
	if err := s.query(ctx).Where("customer_email = ?", email).Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

func (s *ReservationService) Get(ctx context.Context, code string) (models.Reservation, error) {
	return s.find(s.DB.WithContext(ctx), code)
}

func (s *ReservationService) find(db *gorm.DB, code string) (models.Reservation, error) {
	var r models.Reservation
	err := db.Preload("Meal.Restaurant").Where("reservation_code = ?", code).First(&r).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r, notFound("Reservation")
		}
		return r, err
	}
	return r, nil
}

// Create books seats for a meal. The restaurant's remaining capacity is
// decremented in the same transaction as the insert, and only when enough
// seats remain.
func (s *ReservationService) Create(ctx context.Context, in ReservationInput) (models.Reservation, error) {
	var r models.Reservation
	if err := in.Validate(); err != nil {
		return r, err
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var meal models.Meal
		if err := tx.Preload("Restaurant").First(&meal, uint(in.Meal.ID)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invalid("Meal not found")
			}
			return err
		}

		if err := takeSeats(tx, meal.RestaurantID, in.NumberOfPeople); err != nil {
			return err
		}

		r = models.Reservation{
			ReservationCode: NewReservationCode(),
			MealID:          meal.ID,
			CustomerName:    strings.TrimSpace(in.CustomerName),
			CustomerEmail:   in.CustomerEmail,
			NumberOfPeople:  in.NumberOfPeople,
			ReservationTime: s.Now(),
			Status:          models.StatusActive,
		}
		if err := tx.Omit("Meal").Create(&r).Error; err != nil {
			return err
		}

		meal.Restaurant.Capacity -= in.NumberOfPeople
		r.Meal = meal
		return nil
	})
	if err != nil {
		return models.Reservation{}, err
	}

	utils.InfoLogger.Printf("Reservation %s created for meal %d (%d people)", r.ReservationCode, r.MealID, r.NumberOfPeople)
	publish(ctx, s.Events, events.EventReservationCreated, r.ReservationCode, r)
	if s.Notifier != nil {
		s.Notifier.ReservationCreated(r)
	}
	return r, nil
}

// Cancel releases the seats of an unused reservation. Cancelling twice
// returns the reservation unchanged.
func (s *ReservationService) Cancel(ctx context.Context, code string) (models.Reservation, error) {
	var r models.Reservation
	changed := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if r, err = s.find(lockRow(tx), code); err != nil {
			return err
		}
		if r.IsUsed {
			return ErrAlreadyUsed
		}
		if r.Cancelled() {
			return nil
		}

		if err := releaseSeats(tx, r.Meal.RestaurantID, r.NumberOfPeople); err != nil {
			return err
		}
		r.Status = models.StatusCanceled
		changed = true
		return tx.Model(&r).Update("status", r.Status).Error
	})
	if err != nil {
		return models.Reservation{}, err
	}

	if changed {
		r.Meal.Restaurant.Capacity += r.NumberOfPeople
		utils.InfoLogger.Printf("Reservation %s cancelled", r.ReservationCode)
		publish(ctx, s.Events, events.EventReservationCancelled, r.ReservationCode, r)
	}
	return r, nil
}

// MarkUsed checks a reservation in. Used and cancelled reservations cannot
// be checked in.
func (s *ReservationService) MarkUsed(ctx context.Context, code string) (models.Reservation, error) {
	var r models.Reservation
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if r, err = s.find(lockRow(tx), code); err != nil {
			return err
		}
		if r.IsUsed {
			return ErrAlreadyUsed
		}
		if r.Cancelled() {
			return ErrAlreadyCancelled
		}

		if err := releaseSeats(tx, r.Meal.RestaurantID, r.NumberOfPeople); err != nil {
			return err
		}
		r.IsUsed = true
		r.Status = models.StatusCompleted
		return tx.Model(&r).Updates(map[string]interface{}{
			"is_used": true,
			"status":  r.Status,
		}).Error
	})
	if err != nil {
		return models.Reservation{}, err
	}

	r.Meal.Restaurant.Capacity += r.NumberOfPeople
	utils.InfoLogger.Printf("Reservation %s checked in", r.ReservationCode)
	publish(ctx, s.Events, events.EventReservationUsed, r.ReservationCode, r)
	return r, nil
}

// Delete removes a reservation, releasing its seats if it still held them.
func (s *ReservationService) Delete(ctx context.Context, code string) (models.Reservation, error) {
	var r models.Reservation
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if r, err = s.find(lockRow(tx), code); err != nil {
			return err
		}
		if r.HoldsSeats() {
			if err := releaseSeats(tx, r.Meal.RestaurantID, r.NumberOfPeople); err != nil {
				return err
			}
			r.Meal.Restaurant.Capacity += r.NumberOfPeople
		}
		return tx.Delete(&models.Reservation{}, r.ID).Error
	})
	if err != nil {
		return models.Reservation{}, err
	}

	utils.InfoLogger.Printf("Reservation %s deleted", r.ReservationCode)
	publish(ctx, s.Events, events.EventReservationDeleted, r.ReservationCode, r)
	return r, nil
}

func takeSeats(tx *gorm.DB, restaurantID uint, seats int) error {
	res := tx.Model(&models.Restaurant{}).
		Where("id = ? AND capacity >= ?", restaurantID, seats).
		Update("capacity", gorm.Expr("capacity - ?", seats))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientCapacity
	}
	return nil
}

func releaseSeats(tx *gorm.DB, restaurantID uint, seats int) error {
	return tx.Model(&models.Restaurant{}).
		Where("id = ?", restaurantID).
		Update("capacity", gorm.Expr("capacity + ?", seats)).Error
}

// lockRow takes a row lock on databases that support it.
func lockRow(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
