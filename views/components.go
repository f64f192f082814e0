package views

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/moliceiro/meals/models"
	"github.com/moliceiro/meals/utils"
)

// BannerTimeout is how long a banner stays on screen.
const BannerTimeout = 5 * time.Second

type BannerKind string

const (
	BannerSuccess BannerKind = "success"
	BannerError   BannerKind = "error"
)

type Banner struct {
	Kind         BannerKind
	Text         string
	DismissAfter time.Duration
}

func NoticeBanner(text string) *Banner {
	return &Banner{Kind: BannerSuccess, Text: text, DismissAfter: BannerTimeout}
}

// ErrorBanner prefixes the failed action to the error, e.g.
// "Failed to load meals: Failed to fetch meals".
func ErrorBanner(action string, err error) *Banner {
	text := action
	if err != nil {
		text += ": " + err.Error()
	}
	return &Banner{Kind: BannerError, Text: text, DismissAfter: BannerTimeout}
}

// Millis is the dismiss delay in milliseconds, for the page script.
func (b Banner) Millis() int64 {
	return b.DismissAfter.Milliseconds()
}

type RestaurantCard struct {
	ID             uint
	Name           string
	Location       string
	Capacity       int
	OperatingHours string
	Phone          string
	Email          string
}

func NewRestaurantCards(restaurants []models.Restaurant) []RestaurantCard {
	cards := make([]RestaurantCard, 0, len(restaurants))
	for _, r := range restaurants {
		cards = append(cards, RestaurantCard{
			ID:             r.ID,
			Name:           r.Name,
			Location:       r.Location,
			Capacity:       r.Capacity,
			OperatingHours: r.OperatingHours,
			Phone:          r.Phone,
			Email:          r.Email,
		})
	}
	return cards
}

type MealCard struct {
	ID           uint
	Name         string
	Description  string
	Price        string
	Date         string
	MealType     string
	RestaurantID uint
	Restaurant   string
	Location     string
}

func NewMealCards(meals []models.Meal) []MealCard {
	cards := make([]MealCard, 0, len(meals))
	for _, m := range meals {
		cards = append(cards, MealCard{
			ID:           m.ID,
			Name:         m.Name,
			Description:  m.Description,
			Price:        utils.FormatEuro(m.Price),
			Date:         m.Date,
			MealType:     Capitalize(m.MealType),
			RestaurantID: m.Restaurant.ID,
			Restaurant:   m.Restaurant.Name,
			Location:     m.Restaurant.WeatherLocation(),
		})
	}
	return cards
}

type ReservationCard struct {
	Code        string
	MealName    string
	MealDate    string
	Restaurant  string
	Customer    string
	Email       string
	People      int
	ReservedAt  string
	Status      string
	StatusClass string
	Used        bool
	Cancelled   bool
}

// Actionable reports whether check-in and cancel are still possible.
func (c ReservationCard) Actionable() bool {
	return !c.Used && !c.Cancelled
}

func NewReservationCards(reservations []models.Reservation) []ReservationCard {
	cards := make([]ReservationCard, 0, len(reservations))
	for _, r := range reservations {
		status := r.Status.Normalize()
		reservedAt := ""
		if !r.ReservationTime.IsZero() {
			reservedAt = r.ReservationTime.Format("2006-01-02 15:04")
		}
		cards = append(cards, ReservationCard{
			Code:        r.ReservationCode,
			MealName:    r.Meal.Name,
			MealDate:    r.Meal.Date,
			Restaurant:  r.Meal.Restaurant.Name,
			Customer:    r.CustomerName,
			Email:       r.CustomerEmail,
			People:      r.NumberOfPeople,
			ReservedAt:  reservedAt,
			Status:      string(status),
			StatusClass: strings.ToLower(string(status)),
			Used:        r.IsUsed,
			Cancelled:   r.Cancelled() || r.IsCancelled,
		})
	}
	return cards
}

type WeatherPanel struct {
	Location    string
	Date        string
	Temperature string
	Description string
	Humidity    string
	WindSpeed   string
}

func NewWeatherPanel(f models.WeatherForecast) WeatherPanel {
	return WeatherPanel{
		Location:    f.Location,
		Date:        f.Date,
		Temperature: fmt.Sprintf("%.1f°C", f.Temperature),
		Description: f.Description,
		Humidity:    strconv.FormatFloat(f.Humidity, 'f', -1, 64) + "%",
		WindSpeed:   strconv.FormatFloat(f.WindSpeed, 'f', -1, 64) + " m/s",
	}
}

type Option struct {
	Value    string
	Label    string
	Selected bool
}

func RestaurantOptions(restaurants []models.Restaurant, selected uint) []Option {
	opts := make([]Option, 0, len(restaurants))
	for _, r := range restaurants {
		opts = append(opts, Option{
			Value:    strconv.FormatUint(uint64(r.ID), 10),
			Label:    r.Name,
			Selected: r.ID == selected,
		})
	}
	return opts
}

// MealOptions labels meals as "name - restaurant (date)".
func MealOptions(meals []models.Meal, selected uint) []Option {
	opts := make([]Option, 0, len(meals))
	for _, m := range meals {
		opts = append(opts, Option{
			Value:    strconv.FormatUint(uint64(m.ID), 10),
			Label:    fmt.Sprintf("%s - %s (%s)", m.Name, m.Restaurant.Name, m.Date),
			Selected: m.ID == selected,
		})
	}
	return opts
}

func MealTypeOptions(selected string) []Option {
	types := []string{models.MealTypeBreakfast, models.MealTypeLunch, models.MealTypeDinner}
	opts := make([]Option, 0, len(types))
	for _, t := range types {
		opts = append(opts, Option{Value: t, Label: Capitalize(t), Selected: strings.EqualFold(t, selected)})
	}
	return opts
}

func StatusOptions(selected string) []Option {
	statuses := []string{StatusFilterActive, StatusFilterUsed, StatusFilterCancelled}
	opts := make([]Option, 0, len(statuses))
	for _, s := range statuses {
		opts = append(opts, Option{Value: s, Label: Capitalize(s), Selected: s == selected})
	}
	return opts
}

func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
