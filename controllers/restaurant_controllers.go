package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moliceiro/meals/services"
	"github.com/moliceiro/meals/utils"
)

type RestaurantController struct {
	Service *services.RestaurantService
}

func NewRestaurantController(svc *services.RestaurantService) *RestaurantController {
	return &RestaurantController{Service: svc}
}

// GetAllRestaurants -> lists every restaurant
func (rc *RestaurantController) GetAllRestaurants(c *gin.Context) {
	restaurants, err := rc.Service.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, restaurants)
}

func (rc *RestaurantController) GetRestaurant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	restaurant, err := rc.Service.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, restaurant)
}

func (rc *RestaurantController) CreateRestaurant(c *gin.Context) {
	var req services.RestaurantInput
	if !utils.BindJSON(c, &req) {
		return
	}
	restaurant, err := rc.Service.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, restaurant)
}

func (rc *RestaurantController) UpdateRestaurant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.RestaurantInput
	if !utils.BindJSON(c, &req) {
		return
	}
	restaurant, err := rc.Service.Update(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, restaurant)
}

// DeleteRestaurant -> removes a restaurant without meals
func (rc *RestaurantController) DeleteRestaurant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := rc.Service.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
