package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rloren/addressbook/internal/handler/contacts"
	feedHandler "github.com/rloren/addressbook/internal/handler/feed"
	middlewarePkg "github.com/rloren/addressbook/internal/middleware"
	"github.com/rloren/addressbook/internal/model/addressbook"
	feedService "github.com/rloren/addressbook/internal/service/feed"
)

// NewRouter wires HTTP routes to the address book core.
func NewRouter(book *addressbook.AddressBook, feedSvc *feedService.Service, baseURL string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	contactsHandler := contacts.New(book, feedSvc, baseURL)
	contactsHandler.RegisterRoutes(r)

	if feedSvc != nil {
		feedHandler.New(feedSvc).RegisterRoutes(r)
	}

	return r
}
