package events

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

type failingPublisher struct{ err error }

func (f failingPublisher) Publish(context.Context, Message) error { return f.err }

func TestKafkaPublisherKeysByEntity(t *testing.T) {
	w := &recordingWriter{}
	p := NewKafkaPublisher(w)

	err := p.Publish(context.Background(), Message{
		Event: EventReservationCreated,
		Key:   "AB12CD34",
		Data:  map[string]int{"numberOfPeople": 2},
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	assert.Equal(t, "AB12CD34", string(w.msgs[0].Key))
	assert.JSONEq(t, `{"event":"reservation_created","data":{"numberOfPeople":2}}`, string(w.msgs[0].Value))
	assert.Equal(t, "event", w.msgs[0].Headers[0].Key)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisherWrapsErrors(t *testing.T) {
	p := NewKafkaPublisher(&recordingWriter{err: errors.New("broker down")})
	err := p.Publish(context.Background(), Message{Event: EventMealDeleted})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "meal_deleted")
}

func TestNewKafkaWriterDefaultsTopic(t *testing.T) {
	w := NewKafkaWriter("localhost:9092", "")
	assert.Equal(t, DefaultTopic, w.Topic)
	assert.True(t, w.Async)
	assert.NotNil(t, w.Completion)
}

func TestMultiCollectsErrors(t *testing.T) {
	w := &recordingWriter{}
	boom := errors.New("boom")
	m := Multi{NewKafkaPublisher(w), nil, failingPublisher{err: boom}, Discard}

	err := m.Publish(context.Background(), Message{Event: EventMealCreated, Key: "1"})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, w.msgs, 1)
}

func hubServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(conn, r.RemoteAddr)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		hub.Unregister(conn)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHubBroadcastsToClients(t *testing.T) {
	hub := NewHub()
	srv := hubServer(t, hub)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish(context.Background(), Message{Event: EventRestaurantUpdated, Data: "x"}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got Message
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, EventRestaurantUpdated, got.Event)
	assert.Equal(t, "x", got.Data)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHubDropsClientThatStopsReading(t *testing.T) {
	hub := NewHub()
	defer hub.CloseAll()
	srv := hubServer(t, hub)

	// connected but never reads
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	payload := strings.Repeat("x", 256<<10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			hub.Publish(context.Background(), Message{Event: EventMealUpdated, Data: payload})
		}
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Publish blocked on a client that is not reading")
	}
	assert.Equal(t, 0, hub.Clients())
}
