package feed

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/rloren/addressbook/internal/model/addressbook"
	feedservice "github.com/rloren/addressbook/internal/service/feed"
)

func setupServer(t *testing.T) (*httptest.Server, *feedservice.Service) {
	t.Helper()
	svc := feedservice.NewService()
	handler := New(svc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, svc
}

func waitForSubscriber(t *testing.T, svc *feedservice.Service) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for svc.SubscriberCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSSEStreamsChangeEvents(t *testing.T) {
	srv, svc := setupServer(t)

	resp, err := http.Get(srv.URL + "/contacts/feed")
	if err != nil {
		t.Fatalf("GET feed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}

	waitForSubscriber(t, svc)
	svc.Publish(feedservice.OpCreate, addressbook.Person{ID: 1, Name: "Juan"})

	reader := bufio.NewReader(resp.Body)
	deadline := time.Now().Add(2 * time.Second)
	for {
		if time.Now().After(deadline) {
			t.Fatal("create event never arrived")
		}
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("reading stream: %v", err)
		}
		if strings.TrimSpace(line) != "event: create" {
			continue
		}

		data, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("reading event data: %v", err)
		}
		var event feedservice.Event
		if err := json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(data), "data: ")), &event); err != nil {
			t.Fatalf("decoding event: %v", err)
		}
		if event.Person.ID != 1 || event.Person.Name != "Juan" {
			t.Fatalf("unexpected event person: %+v", event.Person)
		}
		if event.ID == "" {
			t.Fatal("event id missing")
		}
		return
	}
}

func TestWebSocketStreamsChangeEvents(t *testing.T) {
	srv, svc := setupServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/contacts/watch"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	waitForSubscriber(t, svc)
	svc.Publish(feedservice.OpDelete, addressbook.Person{ID: 2, Name: "Maria"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event feedservice.Event
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("reading event: %v", err)
	}
	if event.Op != feedservice.OpDelete {
		t.Fatalf("unexpected op %q", event.Op)
	}
	if event.Person.ID != 2 {
		t.Fatalf("unexpected person: %+v", event.Person)
	}
}
