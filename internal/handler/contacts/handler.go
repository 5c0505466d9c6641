package contacts

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rloren/addressbook/internal/model/addressbook"
	"github.com/rloren/addressbook/internal/service/feed"
	"github.com/rloren/addressbook/pkg/utils"
)

// Handler serves the address book collection and item endpoints.
type Handler struct {
	book    *addressbook.AddressBook
	feed    *feed.Service
	baseURL string
}

// New creates the contacts handler. baseURL is the externally visible
// service root used to derive person hrefs; feedSvc may be nil when no
// change feed is wired.
func New(book *addressbook.AddressBook, feedSvc *feed.Service, baseURL string) *Handler {
	return &Handler{
		book:    book,
		feed:    feedSvc,
		baseURL: baseURL,
	}
}

// RegisterRoutes mounts the collection and item endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/contacts", h.handleListPersons)
	r.Post("/contacts", h.handleCreatePerson)
	r.Get("/contacts/person/{id}", h.handleGetPerson)
	r.Put("/contacts/person/{id}", h.handleUpdatePerson)
	r.Delete("/contacts/person/{id}", h.handleDeletePerson)
}

// personView is the wire representation of a person. href is computed from
// the id on every response so it can never go stale.
type personView struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Href string `json:"href"`
}

// personPayload carries the only client-writable field. Ids and hrefs in
// request bodies are ignored; the store assigns ids and hrefs are derived.
type personPayload struct {
	Name string `json:"name"`
}

func (h *Handler) href(id int) string {
	return fmt.Sprintf("%s/contacts/person/%d", h.baseURL, id)
}

func (h *Handler) view(p addressbook.Person) personView {
	return personView{ID: p.ID, Name: p.Name, Href: h.href(p.ID)}
}

// handleListPersons answers GET /contacts. Safe and idempotent: it only
// snapshots the store.
func (h *Handler) handleListPersons(w http.ResponseWriter, r *http.Request) {
	persons := h.book.List()

	views := make([]personView, 0, len(persons))
	for _, p := range persons {
		views = append(views, h.view(p))
	}

	utils.RespondJSON(w, http.StatusOK, views)
}

// handleCreatePerson answers POST /contacts. Every call creates a distinct
// person with a fresh id, so identical payloads yield different resources.
func (h *Handler) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	var payload personPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	person := h.book.Add(payload.Name)
	h.publish(feed.OpCreate, person)

	w.Header().Set("Location", h.href(person.ID))
	utils.RespondJSON(w, http.StatusCreated, h.view(person))
}

// handleGetPerson answers GET /contacts/person/{id}.
func (h *Handler) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	id, err := personID(r)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "person not found")
		return
	}

	person, ok := h.book.Find(id)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "person not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, h.view(person))
}

// handleUpdatePerson answers PUT /contacts/person/{id}. Updates apply only
// to existing persons; there is no upsert. The id comes from the path, any
// id in the body is ignored. Repeating the same PUT converges on the same
// state and response.
func (h *Handler) handleUpdatePerson(w http.ResponseWriter, r *http.Request) {
	id, err := personID(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "updates require an existing person id")
		return
	}

	var payload personPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	person, ok := h.book.Replace(id, payload.Name)
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "updates require an existing person id")
		return
	}

	h.publish(feed.OpUpdate, person)
	utils.RespondJSON(w, http.StatusOK, h.view(person))
}

// handleDeletePerson answers DELETE /contacts/person/{id}. The first delete
// of an id returns 204; repeats return 404 while the end state stays the
// same (the person remains absent).
func (h *Handler) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	id, err := personID(r)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "person not found")
		return
	}

	person, ok := h.book.Find(id)
	if !ok || !h.book.Delete(id) {
		utils.RespondError(w, http.StatusNotFound, "person not found")
		return
	}

	h.publish(feed.OpDelete, person)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) publish(op feed.Op, person addressbook.Person) {
	if h.feed != nil {
		h.feed.Publish(op, person)
	}
}

func personID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}
