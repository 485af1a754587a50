package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/epccam/directory-api/internal/api"
	"github.com/epccam/directory-api/internal/api/middleware"
	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/mocks"
	"github.com/epccam/directory-api/internal/platform/media"
	"github.com/epccam/directory-api/internal/service"
	"github.com/epccam/directory-api/internal/service/auth"
	"github.com/epccam/directory-api/internal/service/directory"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const mediaRoot = "/srv/static"

type testServer struct {
	t      *testing.T
	mem    *mocks.Memory
	fs     afero.Fs
	router chi.Router
	admin  string
	reader string
}

func must[T any](t *testing.T) func(T, error) T {
	return func(v T, err error) T {
		t.Helper()
		require.NoError(t, err)
		return v
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	mem := mocks.NewMemory()
	uow := mem.UnitOfWork()
	fs := afero.NewMemMapFs()
	files := media.NewStorage(fs, mediaRoot, 200, nil)
	tokens := auth.MustCreateTestJWTService()

	accounts := must[service.AccountService](t)(service.NewAccountService(uow, auth.NewBcryptHasher(4), tokens, "ROLE_USER", nil))
	h := api.Handlers{
		Auth:            api.NewAuthHandler(accounts, nil),
		Regions:         api.NewRegionHandler(must[directory.RegionService](t)(directory.NewRegionService(uow, nil))),
		Departements:    api.NewDepartementHandler(must[directory.DepartementService](t)(directory.NewDepartementService(uow, nil))),
		Arrondissements: api.NewArrondissementHandler(must[directory.ArrondissementService](t)(directory.NewArrondissementService(uow, nil))),
		Fonctions:       api.NewFonctionHandler(must[directory.FonctionService](t)(directory.NewFonctionService(uow, nil))),
		TypeStructures:  api.NewTypeStructureHandler(must[directory.TypeStructureService](t)(directory.NewTypeStructureService(uow, nil))),
		Structures:      api.NewStructureHandler(must[directory.StructureService](t)(directory.NewStructureService(uow, files, nil)), 1<<20),
		Membres:         api.NewMembreHandler(must[directory.MembreService](t)(directory.NewMembreService(uow, files, nil)), 1<<20),
	}

	r := chi.NewRouter()
	r.NotFound(api.NotFound)
	r.MethodNotAllowed(api.MethodNotAllowed)
	r.Use(middleware.NewTraceMiddleware(nil))
	r.Route("/api/v1", h.Routes(middleware.NewAuthMiddleware(tokens, nil), middleware.NewRateLimiter(1000)))

	s := &testServer{t: t, mem: mem, fs: fs, router: r}
	s.admin = s.token(tokens, mocks.AdminRoleID)
	s.reader = s.token(tokens, mocks.UserRoleID)
	return s
}

func (s *testServer) token(tokens auth.JWTService, roleID int64) string {
	ctx := context.Background()
	role, err := s.mem.Repos().Roles.GetByID(ctx, roleID)
	require.NoError(s.t, err)
	user := domain.User{ID: roleID, UserName: role.Name, Email: role.Name + "@example.com", RoleID: roleID, Active: true}
	token, _, err := tokens.GenerateToken(ctx, user, *role)
	require.NoError(s.t, err)
	return token
}

// response is a decoded envelope.
type response struct {
	Status int
	Body   map[string]any
}

func (r response) data() map[string]any {
	d, _ := r.Body["data"].(map[string]any)
	return d
}

func (r response) list() []any {
	l, _ := r.Body["data"].([]any)
	return l
}

func (s *testServer) do(method, path, token string, body any) response {
	s.t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	return s.send(req, token)
}

func (s *testServer) upload(path, token, field, name string, content []byte) response {
	s.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, name)
	require.NoError(s.t, err)
	_, err = fw.Write(content)
	require.NoError(s.t, err)
	require.NoError(s.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.send(req, token)
}

func (s *testServer) send(req *http.Request, token string) response {
	s.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	res := response{Status: rec.Code}
	if rec.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &res.Body), rec.Body.String())
	}
	return res
}

// id returns the id of the created record in res.
func (s *testServer) id(res response) int64 {
	s.t.Helper()
	require.Equal(s.t, http.StatusCreated, res.Status, res.Body)
	return int64(res.data()["id"].(float64))
}

func (s *testServer) geography() (regionID, departementID, arrondissementID int64) {
	regionID = s.id(s.do(http.MethodPost, "/api/v1/regions", s.admin, map[string]any{"name": "Littoral"}))
	departementID = s.id(s.do(http.MethodPost, "/api/v1/departements", s.admin, map[string]any{"name": "Wouri", "region": regionID}))
	arrondissementID = s.id(s.do(http.MethodPost, "/api/v1/arrondissements", s.admin, map[string]any{"name": "Douala 1er", "departement": departementID}))
	return
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}
