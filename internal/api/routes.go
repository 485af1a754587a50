package api

import (
	"net/http"

	"github.com/epccam/directory-api/internal/api/middleware"
	"github.com/epccam/directory-api/internal/domain"
	"github.com/go-chi/chi/v5"
)

// Handlers bundles the handlers mounted under /api/v1.
type Handlers struct {
	Auth            *AuthHandler
	Regions         *RegionHandler
	Departements    *DepartementHandler
	Arrondissements *ArrondissementHandler
	Fonctions       *FonctionHandler
	TypeStructures  *TypeStructureHandler
	Structures      *StructureHandler
	Membres         *MembreHandler
}

// crud is the route set every directory resource exposes.
type crud interface {
	Create(http.ResponseWriter, *http.Request)
	Update(http.ResponseWriter, *http.Request)
	Delete(http.ResponseWriter, *http.Request)
	List(http.ResponseWriter, *http.Request)
	Lookup(http.ResponseWriter, *http.Request)
}

// Routes registers every API route on r. Each directory route requires the
// permission "<verb>:<resource>"; register and login are public but
// throttled by limiter.
func (h Handlers) Routes(gate *middleware.AuthMiddleware, limiter *middleware.RateLimiter) func(chi.Router) {
	need := func(action, resource string) func(http.Handler) http.Handler {
		return gate.Require(domain.Permission(action, resource))
	}
	resource := func(r chi.Router, name string, c crud) {
		r.With(need("get", name)).Get("/"+name, c.List)
		r.With(need("get", name)).Get("/"+name+"/{id}", c.Lookup)
		r.With(need("post", name)).Post("/"+name, c.Create)
		r.With(need("put", name)).Put("/"+name+"/{id}", c.Update)
		r.With(need("delete", name)).Delete("/"+name+"/{id}", c.Delete)
	}

	return func(r chi.Router) {
		r.With(limiter.Handler).Post("/register", h.Auth.Register)
		r.With(limiter.Handler).Post("/login", h.Auth.Login)
		r.With(gate.Require(domain.PermissionGetUser)).Get("/users/me", h.Auth.Me)

		resource(r, "regions", h.Regions)
		r.With(need("get", "departements")).Get("/regions/{id}/departements", h.Regions.Departements)

		resource(r, "departements", h.Departements)
		r.With(need("get", "arrondissements")).Get("/departements/{id}/arrondissements", h.Departements.Arrondissements)

		resource(r, "arrondissements", h.Arrondissements)
		resource(r, "fonctions", h.Fonctions)

		resource(r, "typestructures", h.TypeStructures)
		r.With(need("get", "fonctions")).Get("/typestructures/{id}/fonctions", h.TypeStructures.Fonctions)
		r.With(need("get", "structures")).Get("/typestructures/{id}/structures", h.TypeStructures.Structures)
		r.With(need("post", "typestructures")).Post("/typestructures/{id}/fonctions/{fonctionID}", h.TypeStructures.LinkFonction)
		r.With(need("delete", "typestructures")).Delete("/typestructures/{id}/fonctions/{fonctionID}", h.TypeStructures.UnlinkFonction)

		resource(r, "structures", h.Structures)
		r.With(need("put", "structures")).Post("/structures/{id}/medias", h.Structures.AttachMedia)
		r.With(need("put", "structures")).Delete("/structures/{id}/medias/{mediaID}", h.Structures.DetachMedia)

		resource(r, "membres", h.Membres)
		r.With(need("put", "membres")).Patch("/membres/{id}", h.Membres.Consecrate)
		r.With(need("put", "membres")).Post("/membres/{id}/structures", h.Membres.Assign)
		r.With(need("put", "membres")).Post("/membres/{id}/medias", h.Membres.AttachAvatar)
		r.With(need("put", "membres")).Delete("/membres/{id}/medias/{mediaID}", h.Membres.DetachAvatar)
	}
}
