package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moliceiro/meals/services"
	"github.com/moliceiro/meals/utils"
)

// qrSize is the edge length of reservation QR codes in pixels.
const qrSize = 256

type ReservationController struct {
	Service *services.ReservationService
}

func NewReservationController(svc *services.ReservationService) *ReservationController {
	return &ReservationController{Service: svc}
}

func (rc *ReservationController) GetAllReservations(c *gin.Context) {
	reservations, err := rc.Service.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, reservations)
}

func (rc *ReservationController) GetReservation(c *gin.Context) {
	reservation, err := rc.Service.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, reservation)
}

func (rc *ReservationController) GetReservationsByMeal(c *gin.Context) {
	mealID, ok := paramID(c, "mealId")
	if !ok {
		return
	}
	reservations, err := rc.Service.ListByMeal(c.Request.Context(), mealID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, reservations)
}

func (rc *ReservationController) GetReservationsByCustomer(c *gin.Context) {
	reservations, err := rc.Service.ListByCustomer(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, reservations)
}

// CreateReservation -> books seats; meal.id may be a number or a numeric string
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req services.ReservationInput
	if !utils.BindJSON(c, &req) {
		return
	}
	reservation, err := rc.Service.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, reservation)
}

func (rc *ReservationController) CancelReservation(c *gin.Context) {
	reservation, err := rc.Service.Cancel(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, reservation)
}

// MarkReservationAsUsed -> check-in, irreversible
func (rc *ReservationController) MarkReservationAsUsed(c *gin.Context) {
	reservation, err := rc.Service.MarkUsed(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, reservation)
}

func (rc *ReservationController) DeleteReservation(c *gin.Context) {
	reservation, err := rc.Service.Delete(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, reservation)
}

// GetReservationQR -> PNG of the reservation code for check-in
func (rc *ReservationController) GetReservationQR(c *gin.Context) {
	reservation, err := rc.Service.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	png, err := utils.GenerateQRCode(reservation.ReservationCode, qrSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}
