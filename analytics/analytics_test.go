package analytics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type collector struct {
	mu       sync.Mutex
	received []payload
}

func (c *collector) handler(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p payload
		if err := json.NewDecoder(r.Body).Decode(&p); err == nil {
			c.mu.Lock()
			c.received = append(c.received, p)
			c.mu.Unlock()
		}
		w.WriteHeader(status)
	}
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.received)
}

func testClient() *http.Client {
	return &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
}

func TestTrackPostsEvents(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := &collector{}
	srv := httptest.NewServer(c.handler(http.StatusNoContent))
	defer srv.Close()

	d := NewDispatcher(Options{Endpoint: srv.URL, Client: testClient()})
	defer d.Close()
	require.True(t, d.Enabled())

	d.Track(Event{Category: "chat", Action: "message", Label: "hello"})
	d.Track(Event{Category: "footer", Action: "grab", Value: 3})

	require.Eventually(t, func() bool { return c.count() == 2 }, 2*time.Second, 5*time.Millisecond)

	c.mu.Lock()
	defer c.mu.Unlock()
	first := c.received[0]
	assert.Equal(t, "chat", first.Category)
	assert.Equal(t, "message", first.Action)
	assert.Equal(t, d.ClientID(), first.ClientID)
	_, err := uuid.Parse(first.ID)
	assert.NoError(t, err)
	assert.NotEqual(t, first.ID, c.received[1].ID)
	assert.Equal(t, 3.0, c.received[1].Value)
}

func TestServerErrorsAreLoggedNotSurfaced(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := &collector{}
	srv := httptest.NewServer(c.handler(http.StatusInternalServerError))
	defer srv.Close()

	core, logs := observer.New(zap.WarnLevel)
	d := NewDispatcher(Options{Endpoint: srv.URL, Client: testClient(), Logger: zap.New(core)})
	defer d.Close()

	d.Track(Event{Category: "chat", Action: "message"})
	require.Eventually(t, func() bool {
		return logs.FilterMessage("analytics: send failed").Len() == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, c.count(), "no retry")
}

func TestEmptyEndpointDisablesDispatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewDispatcher(Options{})
	assert.False(t, d.Enabled())
	d.Track(Event{Category: "chat", Action: "message"})
	d.Close()
	assert.Zero(t, d.Dropped())
}

func TestFullQueueDropsWithoutBlocking(t *testing.T) {
	defer goleak.VerifyNone(t)

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	d := NewDispatcher(Options{Endpoint: srv.URL, QueueSize: 1, Client: testClient()})
	defer d.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			d.Track(Event{Category: "footer", Action: "collision"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Track blocked")
	}
	assert.Positive(t, d.Dropped())
}

func TestCloseIsIdempotentAndStopsTracking(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := &collector{}
	srv := httptest.NewServer(c.handler(http.StatusOK))
	defer srv.Close()

	d := NewDispatcher(Options{Endpoint: srv.URL, Client: testClient()})
	d.Close()
	d.Close()
	d.Track(Event{Category: "chat", Action: "message"})
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, c.count())
}

func TestCloseAbortsInFlightSend(t *testing.T) {
	defer goleak.VerifyNone(t)

	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entered <- struct{}{}
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	d := NewDispatcher(Options{Endpoint: srv.URL, Client: testClient(), Timeout: time.Minute})
	d.Track(Event{Category: "footer", Action: "grab"})

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("request never reached the server")
	}

	closed := make(chan struct{})
	go func() {
		d.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Close waited for the in-flight request")
	}
}
