package command

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/moliceiro/meals/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeAPI(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	salpoente := models.Restaurant{ID: 1, Name: "Salpoente", Location: "Aveiro", Capacity: 40, OperatingHours: "12:00-23:00"}
	lunch := models.Meal{ID: 7, Restaurant: salpoente, Name: "Bacalhau", Price: 14.5, Date: "2025-06-01", MealType: "lunch"}
	dinner := models.Meal{ID: 8, Restaurant: salpoente, Name: "Polvo", Price: 18, Date: "2025-06-01", MealType: "dinner"}

	var seen []string
	reply := func(w http.ResponseWriter, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/restaurants", func(w http.ResponseWriter, r *http.Request) {
		reply(w, []models.Restaurant{salpoente})
	})
	mux.HandleFunc("/api/meals", func(w http.ResponseWriter, r *http.Request) {
		reply(w, []models.Meal{lunch, dinner})
	})
	mux.HandleFunc("/api/reservations", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var body map[string]interface{}
			json.NewDecoder(r.Body).Decode(&body)
			if body["numberOfPeople"].(float64) > 40 {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			reply(w, models.Reservation{ReservationCode: "NEWCODE1", Meal: lunch})
			return
		}
		reply(w, []models.Reservation{
			{ReservationCode: "ABCD1234", Meal: lunch, CustomerName: "Ana", NumberOfPeople: 2, Status: models.StatusActive},
			{ReservationCode: "USED0001", Meal: dinner, CustomerName: "Rui", NumberOfPeople: 1, IsUsed: true, Status: models.StatusCompleted},
		})
	})
	mux.HandleFunc("/api/reservations/ABCD1234/use", func(w http.ResponseWriter, r *http.Request) {
		reply(w, models.Reservation{ReservationCode: "ABCD1234", IsUsed: true})
	})
	mux.HandleFunc("/api/reservations/USED0001/use", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})
	mux.HandleFunc("/api/weather/forecast", func(w http.ResponseWriter, r *http.Request) {
		reply(w, models.WeatherForecast{Date: r.URL.Query().Get("date"), Location: r.URL.Query().Get("location"), Temperature: 19, Description: "clear sky", Humidity: 55, WindSpeed: 2})
	})
	mux.HandleFunc("/api/weather/cache-stats", func(w http.ResponseWriter, r *http.Request) {
		reply(w, models.CacheStats{TotalRequests: 4, CacheHits: 1, CacheMisses: 3, HitRate: 0.25})
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func run(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--api", srv.URL}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRestaurantsList(t *testing.T) {
	srv, _ := fakeAPI(t)

	out, err := run(t, srv, "restaurants", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Salpoente")
}

func TestMealsListFiltersByType(t *testing.T) {
	srv, seen := fakeAPI(t)

	out, err := run(t, srv, "meals", "list", "--type", "dinner")
	require.NoError(t, err)
	assert.Contains(t, out, "Polvo")
	assert.NotContains(t, out, "Bacalhau")
	assert.Equal(t, []string{"GET /api/meals"}, *seen)
}

func TestReservationsList(t *testing.T) {
	srv, _ := fakeAPI(t)

	out, err := run(t, srv, "reservations", "list", "--status", "active")
	require.NoError(t, err)
	assert.Contains(t, out, "ABCD1234")
	assert.NotContains(t, out, "USED0001")
}

func TestReservationsCreate(t *testing.T) {
	srv, _ := fakeAPI(t)

	out, err := run(t, srv, "reservations", "create", "--meal", "7", "--name", "Ana", "--email", "ana@example.com", "--people", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Reservation created successfully: NEWCODE1")

	_, err = run(t, srv, "reservations", "create", "--meal", "7", "--name", "Ana", "--email", "ana@example.com", "--people", "99")
	require.Error(t, err)
	assert.Equal(t, "Failed to create reservation: Failed to create reservation", err.Error())

	_, err = run(t, srv, "reservations", "create", "--meal", "7")
	require.Error(t, err)
}

func TestReservationsCheckIn(t *testing.T) {
	srv, seen := fakeAPI(t)

	out, err := run(t, srv, "res", "checkin", "ABCD1234")
	require.NoError(t, err)
	assert.Contains(t, out, "Reservation checked in successfully")
	assert.Contains(t, *seen, "PUT /api/reservations/ABCD1234/use")

	_, err = run(t, srv, "res", "checkin", "USED0001")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to check in reservation")

	_, err = run(t, srv, "res", "checkin")
	require.Error(t, err)
}

func TestWeatherCommands(t *testing.T) {
	srv, _ := fakeAPI(t)

	out, err := run(t, srv, "weather", "forecast", "--date", "2025-06-02", "--location", "Porto,PT")
	require.NoError(t, err)
	assert.Contains(t, out, "Weather for Porto,PT on 2025-06-02")
	assert.Contains(t, out, "Temperature: 19.0°C")

	out, err = run(t, srv, "weather", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Hit rate: 0.25")
}
