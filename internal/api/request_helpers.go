package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/epccam/directory-api/internal/api/shared"
	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/validate"
	"github.com/go-chi/chi/v5"
)

// ItemsPerPage is the page size of paginated list endpoints.
const ItemsPerPage = 10

// pathID parses the integer path parameter name. A non-integer value
// addresses no resource and yields a not-found error.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewResourceNotFoundError()
	}
	return id, nil
}

// decodeBody decodes the JSON body into v, writing a 400 envelope and
// returning false on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	err := shared.DecodeJSON(r, v)
	if err == nil {
		return true
	}
	if errors.Is(err, shared.ErrEmptyBody) {
		HandleAPIError(w, r, domain.NewValidationError(MsgBadRequest, nil))
		return false
	}
	HandleAPIError(w, r, domain.NewValidationError(MsgBadRequest, validate.DecodeError(err)))
	return false
}

// decodeEntry is decodeBody for user and membre payloads, whose field typing
// failures are invalid entries (409) rather than bad requests.
func decodeEntry(w http.ResponseWriter, r *http.Request, v any) bool {
	err := shared.DecodeJSON(r, v)
	if err == nil {
		return true
	}
	if errors.Is(err, shared.ErrEmptyBody) {
		HandleAPIError(w, r, domain.NewValidationError(MsgBadRequest, nil))
		return false
	}
	HandleAPIError(w, r, domain.NewInvalidPayloadError(MsgInvalidEntry, validate.DecodeError(err)))
	return false
}

type decoder func(w http.ResponseWriter, r *http.Request, v any) bool

// paginate returns the requested page of items. Without a page parameter the
// whole list is returned; pages past the end are empty.
func paginate[T any](r *http.Request, items []T) ([]T, error) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return items, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return nil, domain.NewFieldError("page", "page must be a positive integer")
	}
	start := (page - 1) * ItemsPerPage
	if start >= len(items) {
		return []T{}, nil
	}
	end := min(start+ItemsPerPage, len(items))
	return items[start:end], nil
}

// The helpers below implement the CRUD template shared by every resource.

func create[In, V any](w http.ResponseWriter, r *http.Request, fn func(context.Context, In) (V, error)) {
	createWith(decodeBody, w, r, fn)
}

func createWith[In, V any](decode decoder, w http.ResponseWriter, r *http.Request, fn func(context.Context, In) (V, error)) {
	var in In
	if !decode(w, r, &in) {
		return
	}
	view, err := fn(r.Context(), in)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusCreated, view, "")
}

func update[In, V any](w http.ResponseWriter, r *http.Request, fn func(context.Context, int64, In) (V, error)) {
	updateWith(decodeBody, w, r, fn)
}

func updateWith[In, V any](decode decoder, w http.ResponseWriter, r *http.Request, fn func(context.Context, int64, In) (V, error)) {
	id, err := pathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	var in In
	if !decode(w, r, &in) {
		return
	}
	view, err := fn(r.Context(), id, in)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, view, "")
}

func remove(w http.ResponseWriter, r *http.Request, fn func(context.Context, int64) (string, error)) {
	id, err := pathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	msg, err := fn(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, shared.Envelope{Success: true, Message: msg})
}

// lookup serves GET /{id}: an integer reads one record through byID, any
// other value is a case-insensitive name search.
func lookup[V any](
	w http.ResponseWriter,
	r *http.Request,
	byID func(w http.ResponseWriter, r *http.Request, id int64),
	search func(context.Context, string) ([]V, error),
) {
	key := chi.URLParam(r, "id")
	if id, err := strconv.ParseInt(key, 10, 64); err == nil {
		byID(w, r, id)
		return
	}
	list(w, r, func(ctx context.Context) ([]V, error) { return search(ctx, key) })
}

// get writes the view returned by fn for id.
func get[V any](fn func(context.Context, int64) (V, error)) func(http.ResponseWriter, *http.Request, int64) {
	return func(w http.ResponseWriter, r *http.Request, id int64) {
		view, err := fn(r.Context(), id)
		if err != nil {
			HandleAPIError(w, r, err)
			return
		}
		shared.RespondWithData(w, r, http.StatusOK, view, "")
	}
}

func list[V any](w http.ResponseWriter, r *http.Request, fn func(context.Context) ([]V, error)) {
	items, err := fn(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if items == nil {
		items = []V{}
	}
	page, err := paginate(r, items)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, page, "")
}

// children serves the nested listing of the resource addressed by {id}.
func children[V any](w http.ResponseWriter, r *http.Request, fn func(context.Context, int64) ([]V, error)) {
	id, err := pathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	list(w, r, func(ctx context.Context) ([]V, error) { return fn(ctx, id) })
}
