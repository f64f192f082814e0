package web

import (
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/moliceiro/meals/client"
	"github.com/moliceiro/meals/models"
	"github.com/moliceiro/meals/views"
)

type reservationForm struct {
	MealID         uint   `form:"mealId" binding:"required"`
	CustomerName   string `form:"customerName" binding:"required"`
	CustomerEmail  string `form:"customerEmail" binding:"required,email"`
	NumberOfPeople int    `form:"numberOfPeople" binding:"required,gte=1"`
}

type reservationsPage struct {
	layout
	Filter        views.ReservationFilter
	Reservations  []views.ReservationCard
	MealOptions   []views.Option
	StatusOptions []views.Option
}

func (p *Pages) Reservations(c *gin.Context) {
	ctx := apiContext(c)
	data := reservationsPage{layout: p.layout(c, "Reservations", "reservations")}
	data.Filter = views.ReservationFilter{
		MealID: parseID(c.Query("mealId")),
		Date:   c.Query("date"),
		Status: c.Query("status"),
	}

	meals, err := p.API.ListMeals(ctx)
	if err != nil {
		data.fail("Failed to load meals", err)
	}
	data.MealOptions = views.MealOptions(meals, data.Filter.MealID)
	data.StatusOptions = views.StatusOptions(data.Filter.Status)

	reservations, err := views.LoadReservations(ctx, p.API, data.Filter)
	if err != nil {
		data.fail("Failed to load reservations", err)
	}
	data.Reservations = views.NewReservationCards(reservations)

	p.render(c, "reservations", data)
}

func (p *Pages) CheckInReservation(c *gin.Context) {
	if _, err := p.API.MarkReservationUsed(apiContext(c), c.Param("code")); err != nil {
		redirectError(c, "/reservations", "Failed to check in reservation", err)
		return
	}
	redirectNotice(c, "/reservations", "Reservation checked in successfully")
}

func (p *Pages) CancelReservation(c *gin.Context) {
	if _, err := p.API.CancelReservation(apiContext(c), c.Param("code")); err != nil {
		redirectError(c, "/reservations", "Failed to cancel reservation", err)
		return
	}
	redirectNotice(c, "/reservations", "Reservation cancelled successfully")
}

func (p *Pages) DeleteReservation(c *gin.Context) {
	if err := p.API.DeleteReservation(apiContext(c), c.Param("code")); err != nil {
		redirectError(c, "/reservations", "Failed to delete reservation", err)
		return
	}
	redirectNotice(c, "/reservations", "Reservation deleted successfully")
}

type reservationFormPage struct {
	layout
	MealOptions []views.Option
}

func (p *Pages) ReservationForm(c *gin.Context) {
	data := reservationFormPage{layout: p.layout(c, "New Reservation", "reservations")}

	meals, err := p.API.ListMeals(apiContext(c))
	if err != nil {
		data.fail("Failed to load meals", err)
	}
	data.MealOptions = views.MealOptions(meals, parseID(c.Query("mealId")))
	p.render(c, "reservation_form", data)
}

// CreateReservation -> books the meal and opens the new code on the check-in page
func (p *Pages) CreateReservation(c *gin.Context) {
	var form reservationForm
	if err := bindForm(c, &form); err != nil {
		redirectError(c, "/reservation-form", "Failed to create reservation", err)
		return
	}

	reservation, err := p.API.CreateReservation(apiContext(c), client.ReservationRequest{
		Meal:           client.Ref{ID: form.MealID},
		CustomerName:   form.CustomerName,
		CustomerEmail:  form.CustomerEmail,
		NumberOfPeople: form.NumberOfPeople,
	})
	if err != nil {
		q := url.Values{"mealId": {formatID(form.MealID)}}
		redirect(c, "/reservation-form", q, "error", views.ErrorBanner("Failed to create reservation", err).Text)
		return
	}
	redirect(c, "/checkin", url.Values{"code": {reservation.ReservationCode}}, "notice", "Reservation created successfully")
}

type checkInPage struct {
	layout
	Code        string
	Reservation *views.ReservationCard
}

// CheckIn -> looks a reservation up by code before confirming it
func (p *Pages) CheckIn(c *gin.Context) {
	data := checkInPage{layout: p.layout(c, "Check-in", "checkin")}
	data.Code = strings.TrimSpace(c.Query("code"))

	if data.Code != "" {
		reservation, err := p.API.GetReservation(apiContext(c), data.Code)
		if err != nil {
			data.fail("Failed to load reservations", err)
		} else {
			card := views.NewReservationCards([]models.Reservation{reservation})[0]
			data.Reservation = &card
		}
	}
	p.render(c, "checkin", data)
}

func (p *Pages) ConfirmCheckIn(c *gin.Context) {
	code := strings.TrimSpace(c.PostForm("code"))
	q := url.Values{"code": {code}}
	if _, err := p.API.MarkReservationUsed(apiContext(c), code); err != nil {
		redirect(c, "/checkin", q, "error", views.ErrorBanner("Failed to check in reservation", err).Text)
		return
	}
	redirect(c, "/checkin", q, "notice", "Reservation checked in successfully")
}
