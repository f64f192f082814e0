package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moliceiro/meals/models"
	"github.com/moliceiro/meals/services"
	"github.com/moliceiro/meals/utils"
)

type WeatherController struct {
	Service *services.WeatherService
}

func NewWeatherController(svc *services.WeatherService) *WeatherController {
	return &WeatherController{Service: svc}
}

// GetWeatherForecast -> ?date=YYYY-MM-DD (default today) &location=
func (wc *WeatherController) GetWeatherForecast(c *gin.Context) {
	today := wc.Service.Today()

	date := c.Query("date")
	if date == "" {
		date = today
	}
	if _, err := models.ParseDate(date); err != nil {
		utils.RespondProblem(c, http.StatusBadRequest, "Invalid date", "Use the YYYY-MM-DD format")
		return
	}
	if date < today {
		utils.RespondProblem(c, http.StatusBadRequest, "Cannot get weather forecast for past dates", "Please use current or future dates")
		return
	}

	location := c.Query("location")
	if location == "" {
		location = models.DefaultLocation
	}

	forecast, err := wc.Service.Forecast(c.Request.Context(), date, location)
	if err != nil {
		utils.RespondProblem(c, http.StatusNotFound, "Weather forecast not available", err.Error())
		return
	}
	utils.RespondJSON(c, http.StatusOK, forecast)
}

func (wc *WeatherController) GetCacheStats(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, wc.Service.Stats())
}
