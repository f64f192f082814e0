package web

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moliceiro/meals/client"
	"github.com/moliceiro/meals/models"
	"github.com/moliceiro/meals/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	restaurants  []models.Restaurant
	meals        []models.Meal
	reservations []models.Reservation
	forecast     models.WeatherForecast
	fail         map[string]error

	calls        []string
	lastMeal     client.MealRequest
	lastBooking  client.ReservationRequest
	lastLocation string
}

func (f *fakeAPI) err(op string) error {
	f.calls = append(f.calls, op)
	return f.fail[op]
}

func (f *fakeAPI) ListMeals(ctx context.Context) ([]models.Meal, error) {
	return f.meals, f.err("ListMeals")
}

func (f *fakeAPI) ListMealsByRestaurantRange(ctx context.Context, id uint, start, end string) ([]models.Meal, error) {
	return f.meals, f.err("ListMealsByRestaurantRange")
}

func (f *fakeAPI) ListMealsByRestaurantDate(ctx context.Context, id uint, date, mealType string) ([]models.Meal, error) {
	return f.meals, f.err("ListMealsByRestaurantDate")
}

func (f *fakeAPI) ListReservations(ctx context.Context) ([]models.Reservation, error) {
	return f.reservations, f.err("ListReservations")
}

func (f *fakeAPI) ListReservationsByMeal(ctx context.Context, id uint) ([]models.Reservation, error) {
	return f.reservations, f.err("ListReservationsByMeal")
}

func (f *fakeAPI) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	return f.restaurants, f.err("ListRestaurants")
}

func (f *fakeAPI) GetRestaurant(ctx context.Context, id uint) (models.Restaurant, error) {
	for _, r := range f.restaurants {
		if r.ID == id {
			return r, f.err("GetRestaurant")
		}
	}
	f.calls = append(f.calls, "GetRestaurant")
	return models.Restaurant{}, errors.New("Failed to fetch restaurant")
}

func (f *fakeAPI) CreateRestaurant(ctx context.Context, req client.RestaurantRequest) (models.Restaurant, error) {
	return models.Restaurant{ID: 99, Name: req.Name}, f.err("CreateRestaurant")
}

func (f *fakeAPI) UpdateRestaurant(ctx context.Context, id uint, req client.RestaurantRequest) (models.Restaurant, error) {
	return models.Restaurant{ID: id, Name: req.Name}, f.err("UpdateRestaurant")
}

func (f *fakeAPI) DeleteRestaurant(ctx context.Context, id uint) error {
	return f.err("DeleteRestaurant")
}

func (f *fakeAPI) GetMeal(ctx context.Context, id uint) (models.Meal, error) {
	for _, m := range f.meals {
		if m.ID == id {
			return m, f.err("GetMeal")
		}
	}
	f.calls = append(f.calls, "GetMeal")
	return models.Meal{}, errors.New("Failed to fetch meal")
}

func (f *fakeAPI) CreateMeal(ctx context.Context, req client.MealRequest) (models.Meal, error) {
	f.lastMeal = req
	return models.Meal{ID: 50}, f.err("CreateMeal")
}

func (f *fakeAPI) UpdateMeal(ctx context.Context, id uint, req client.MealRequest) (models.Meal, error) {
	f.lastMeal = req
	return models.Meal{ID: id}, f.err("UpdateMeal")
}

func (f *fakeAPI) DeleteMeal(ctx context.Context, id uint) error {
	return f.err("DeleteMeal")
}

func (f *fakeAPI) GetReservation(ctx context.Context, code string) (models.Reservation, error) {
	for _, r := range f.reservations {
		if r.ReservationCode == code {
			return r, f.err("GetReservation")
		}
	}
	f.calls = append(f.calls, "GetReservation")
	return models.Reservation{}, errors.New("Failed to fetch reservation")
}

func (f *fakeAPI) CreateReservation(ctx context.Context, req client.ReservationRequest) (models.Reservation, error) {
	f.lastBooking = req
	return models.Reservation{ReservationCode: "NEWCODE1"}, f.err("CreateReservation")
}

func (f *fakeAPI) CancelReservation(ctx context.Context, code string) (models.Reservation, error) {
	return models.Reservation{ReservationCode: code}, f.err("CancelReservation")
}

func (f *fakeAPI) MarkReservationUsed(ctx context.Context, code string) (models.Reservation, error) {
	return models.Reservation{ReservationCode: code}, f.err("MarkReservationUsed")
}

func (f *fakeAPI) DeleteReservation(ctx context.Context, code string) error {
	return f.err("DeleteReservation")
}

func (f *fakeAPI) GetWeatherForecast(ctx context.Context, date, location string) (models.WeatherForecast, error) {
	f.lastLocation = location
	return f.forecast, f.err("GetWeatherForecast")
}

func (f *fakeAPI) GetCacheStats(ctx context.Context) (models.CacheStats, error) {
	return models.CacheStats{TotalRequests: 4, CacheHits: 3}, f.err("GetCacheStats")
}

func newFakeAPI() *fakeAPI {
	salpoente := models.Restaurant{ID: 1, Name: "Salpoente", Location: "Aveiro", Capacity: 40, OperatingHours: "12:00-23:00"}
	lunch := models.Meal{ID: 7, Restaurant: salpoente, Name: "Bacalhau", Description: "Cod", Price: 14.5, Date: "2025-06-01", MealType: "lunch"}
	return &fakeAPI{
		restaurants: []models.Restaurant{salpoente},
		meals:       []models.Meal{lunch},
		reservations: []models.Reservation{
			{ReservationCode: "ABCD1234", Meal: lunch, CustomerName: "Ana", CustomerEmail: "ana@example.com", NumberOfPeople: 2, ReservationTime: time.Date(2025, 5, 30, 10, 0, 0, 0, time.UTC), Status: models.StatusActive},
			{ReservationCode: "USED0001", Meal: lunch, CustomerName: "Rui", CustomerEmail: "rui@example.com", NumberOfPeople: 1, IsUsed: true, Status: models.StatusCompleted},
		},
		forecast: models.WeatherForecast{Date: "2025-06-01", Location: "Aveiro,PT", Temperature: 21.3, Description: "clear sky", Humidity: 60, WindSpeed: 3.5},
		fail:     map[string]error{},
	}
}

func setupPages(t *testing.T, api *fakeAPI) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.SilenceLoggers()

	pages, err := NewPages(api)
	require.NoError(t, err)
	r := gin.New()
	pages.Register(r)
	return r
}

func get(r http.Handler, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func post(r http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHomeListsRestaurants(t *testing.T) {
	r := setupPages(t, newFakeAPI())

	w := get(r, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Salpoente")
	assert.Contains(t, w.Body.String(), `href="/restaurant-details?id=1"`)
}

func TestBannersFromQuery(t *testing.T) {
	r := setupPages(t, newFakeAPI())

	w := get(r, "/meals?notice=Meal+created+successfully")
	assert.Contains(t, w.Body.String(), `class="banner success" data-dismiss="5000"`)
	assert.Contains(t, w.Body.String(), "Meal created successfully")
}

func TestLoadFailureShowsErrorBanner(t *testing.T) {
	api := newFakeAPI()
	api.fail["ListMeals"] = errors.New("Failed to fetch meals")
	r := setupPages(t, api)

	w := get(r, "/meals")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to load meals: Failed to fetch meals")
	assert.Contains(t, w.Body.String(), "No meals found")
}

func TestFailuresAreLogged(t *testing.T) {
	api := newFakeAPI()
	api.fail["ListMeals"] = errors.New("Failed to fetch meals")
	api.fail["DeleteMeal"] = errors.New("Failed to delete meal")
	r := setupPages(t, api)

	var logs bytes.Buffer
	utils.ErrorLogger.SetOutput(&logs)
	t.Cleanup(func() { utils.ErrorLogger.SetOutput(io.Discard) })

	get(r, "/meals")
	post(r, "/meals/7/delete", nil)

	assert.Contains(t, logs.String(), "Failed to load meals")
	assert.Contains(t, logs.String(), "Failed to delete meal")
	assert.Contains(t, logs.String(), "level=error")
}

func TestMealsFilterUsesPlannedEndpoint(t *testing.T) {
	api := newFakeAPI()
	r := setupPages(t, api)

	w := get(r, "/meals?restaurantId=1&date=2025-06-01&type=lunch")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, api.calls, "ListMealsByRestaurantDate")
	assert.Contains(t, w.Body.String(), "Bacalhau")
	assert.Contains(t, w.Body.String(), "€ 14,50")
	assert.Contains(t, w.Body.String(), "Lunch")
}

func TestMealsWeatherPanel(t *testing.T) {
	api := newFakeAPI()
	r := setupPages(t, api)

	w := get(r, "/meals?weather=7")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Aveiro,PT", api.lastLocation)
	assert.Contains(t, w.Body.String(), "21.3°C")
	assert.Contains(t, w.Body.String(), "clear sky")
}

func TestSaveMealRedirects(t *testing.T) {
	api := newFakeAPI()
	r := setupPages(t, api)

	form := url.Values{
		"restaurantId": {"1"},
		"name":         {"Francesinha"},
		"description":  {"Sandwich"},
		"price":        {"11.5"},
		"date":         {"2025-06-02"},
		"mealType":     {"dinner"},
	}
	w := post(r, "/meals", form)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/meals?notice=Meal+created+successfully", w.Header().Get("Location"))
	assert.Equal(t, uint(1), api.lastMeal.Restaurant.ID)
	assert.Equal(t, 11.5, api.lastMeal.Price)

	w = post(r, "/meals/7", form)
	assert.Equal(t, "/meals?notice=Meal+updated+successfully", w.Header().Get("Location"))

	api.fail["DeleteMeal"] = errors.New("Failed to delete meal")
	w = post(r, "/meals/7/delete", nil)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "Failed to delete meal: Failed to delete meal", loc.Query().Get("error"))
}

func TestSaveMealRejectsIncompleteForm(t *testing.T) {
	api := newFakeAPI()
	r := setupPages(t, api)

	w := post(r, "/meals", url.Values{"name": {"Soup"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(loc.Query().Get("error"), "Failed to save meal: validation failed"))
	assert.NotContains(t, api.calls, "CreateMeal")
}

func TestReservationsPageActions(t *testing.T) {
	r := setupPages(t, newFakeAPI())

	w := get(r, "/reservations")
	body := w.Body.String()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, body, "Bacalhau - Salpoente (2025-06-01)")
	assert.Contains(t, body, `action="/reservations/ABCD1234/checkin"`)
	assert.NotContains(t, body, `action="/reservations/USED0001/checkin"`)
	assert.Contains(t, body, `action="/reservations/USED0001/delete"`)

	w = get(r, "/reservations?status=used")
	assert.NotContains(t, w.Body.String(), "ABCD1234")
	assert.Contains(t, w.Body.String(), "USED0001")
}

func TestReservationActionsRedirect(t *testing.T) {
	api := newFakeAPI()
	r := setupPages(t, api)

	w := post(r, "/reservations/ABCD1234/checkin", nil)
	assert.Equal(t, "/reservations?notice=Reservation+checked+in+successfully", w.Header().Get("Location"))

	w = post(r, "/reservations/ABCD1234/cancel", nil)
	assert.Equal(t, "/reservations?notice=Reservation+cancelled+successfully", w.Header().Get("Location"))

	api.fail["DeleteReservation"] = errors.New("Failed to delete reservation")
	w = post(r, "/reservations/ABCD1234/delete", nil)
	loc, _ := url.Parse(w.Header().Get("Location"))
	assert.Equal(t, "Failed to delete reservation: Failed to delete reservation", loc.Query().Get("error"))
}

func TestCreateReservationOpensCheckIn(t *testing.T) {
	api := newFakeAPI()
	r := setupPages(t, api)

	w := get(r, "/reservation-form?mealId=7")
	assert.Contains(t, w.Body.String(), `<option value="7" selected>`)

	w = post(r, "/reservation-form", url.Values{
		"mealId":         {"7"},
		"customerName":   {"Ana"},
		"customerEmail":  {"ana@example.com"},
		"numberOfPeople": {"2"},
	})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	loc, _ := url.Parse(w.Header().Get("Location"))
	assert.Equal(t, "/checkin", loc.Path)
	assert.Equal(t, "NEWCODE1", loc.Query().Get("code"))
	assert.Equal(t, uint(7), api.lastBooking.Meal.ID)
	assert.Equal(t, 2, api.lastBooking.NumberOfPeople)
}

func TestCreateReservationFailureKeepsMeal(t *testing.T) {
	api := newFakeAPI()
	api.fail["CreateReservation"] = errors.New("Failed to create reservation")
	r := setupPages(t, api)

	w := post(r, "/reservation-form", url.Values{
		"mealId":         {"7"},
		"customerName":   {"Ana"},
		"customerEmail":  {"ana@example.com"},
		"numberOfPeople": {"200"},
	})
	loc, _ := url.Parse(w.Header().Get("Location"))
	assert.Equal(t, "/reservation-form", loc.Path)
	assert.Equal(t, "7", loc.Query().Get("mealId"))
	assert.Equal(t, "Failed to create reservation: Failed to create reservation", loc.Query().Get("error"))
}

func TestCheckInFlow(t *testing.T) {
	api := newFakeAPI()
	r := setupPages(t, api)

	w := get(r, "/checkin?code=ABCD1234")
	assert.Contains(t, w.Body.String(), "Confirm check-in")
	assert.Contains(t, w.Body.String(), `/api/reservations/ABCD1234/qr`)

	w = get(r, "/checkin?code=USED0001")
	assert.NotContains(t, w.Body.String(), "Confirm check-in")

	w = get(r, "/checkin?code=NOPE")
	assert.Contains(t, w.Body.String(), "Failed to load reservations: Failed to fetch reservation")

	w = post(r, "/checkin", url.Values{"code": {"ABCD1234"}})
	assert.Equal(t, "/checkin?code=ABCD1234&notice=Reservation+checked+in+successfully", w.Header().Get("Location"))
}

func TestRestaurantDetails(t *testing.T) {
	api := newFakeAPI()
	r := setupPages(t, api)

	w := get(r, "/restaurant-details?id=1")
	body := w.Body.String()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, body, "Salpoente")
	assert.Contains(t, body, "Weather today")
	assert.Contains(t, body, "Bacalhau")
	assert.Equal(t, "Aveiro,PT", api.lastLocation)

	w = get(r, "/restaurant-details?id=42")
	assert.Contains(t, w.Body.String(), "Failed to load restaurant details")
}

func TestSaveRestaurant(t *testing.T) {
	api := newFakeAPI()
	r := setupPages(t, api)

	form := url.Values{"name": {"Mercado"}, "location": {"Aveiro"}, "capacity": {"20"}, "operatingHours": {"09:00-18:00"}}
	w := post(r, "/restaurants", form)
	assert.Equal(t, "/restaurants?notice=Restaurant+created+successfully", w.Header().Get("Location"))

	w = get(r, "/restaurants?edit=1")
	assert.Contains(t, w.Body.String(), `action="/restaurants/1"`)

	api.fail["DeleteRestaurant"] = errors.New("Failed to delete restaurant")
	w = post(r, "/restaurants/1/delete", nil)
	loc, _ := url.Parse(w.Header().Get("Location"))
	assert.Equal(t, "Failed to delete restaurant: Failed to delete restaurant", loc.Query().Get("error"))
}

func TestThemeCookie(t *testing.T) {
	r := setupPages(t, newFakeAPI())

	w := get(r, "/theme?mode=dark&return=/meals")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/meals", w.Header().Get("Location"))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "dark", cookies[0].Value)

	w = get(r, "/meals", cookies[0])
	assert.Contains(t, w.Body.String(), `data-theme="dark"`)

	w = get(r, "/theme?mode=light&return=//evil.example")
	assert.Equal(t, "/", w.Header().Get("Location"))
}
