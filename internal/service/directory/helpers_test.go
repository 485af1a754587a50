package directory_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/mocks"
	"github.com/epccam/directory-api/internal/platform/media"
	"github.com/epccam/directory-api/internal/service/directory"
	"github.com/epccam/directory-api/internal/validate"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mediaRoot = "/srv/static"

// fixture wires every service to one in-memory database and filesystem.
type fixture struct {
	mem    *mocks.Memory
	fs     afero.Fs
	ctx    context.Context
	region directory.RegionService
	dep    directory.DepartementService
	arr    directory.ArrondissementService
	fon    directory.FonctionService
	typ    directory.TypeStructureService
	st     directory.StructureService
	mbr    directory.MembreService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := mocks.NewMemory()
	uow := mem.UnitOfWork()
	fs := afero.NewMemMapFs()
	files := media.NewStorage(fs, mediaRoot, 200, nil)

	f := &fixture{mem: mem, fs: fs, ctx: context.Background()}
	var err error
	f.region, err = directory.NewRegionService(uow, nil)
	require.NoError(t, err)
	f.dep, err = directory.NewDepartementService(uow, nil)
	require.NoError(t, err)
	f.arr, err = directory.NewArrondissementService(uow, nil)
	require.NoError(t, err)
	f.fon, err = directory.NewFonctionService(uow, nil)
	require.NoError(t, err)
	f.typ, err = directory.NewTypeStructureService(uow, nil)
	require.NoError(t, err)
	f.st, err = directory.NewStructureService(uow, files, nil)
	require.NoError(t, err)
	f.mbr, err = directory.NewMembreService(uow, files, nil)
	require.NoError(t, err)
	return f
}

// geography creates Littoral > Wouri > Douala 1er and returns the
// arrondissement view.
func (f *fixture) geography(t *testing.T) domain.ArrondissementView {
	t.Helper()
	r, err := f.region.Create(f.ctx, validate.NameInput{Name: "Littoral"})
	require.NoError(t, err)
	d, err := f.dep.Create(f.ctx, validate.DepartementInput{Name: "Wouri", Region: r.ID})
	require.NoError(t, err)
	a, err := f.arr.Create(f.ctx, validate.ArrondissementInput{Name: "Douala 1er", Departement: d.ID})
	require.NoError(t, err)
	return a
}

func (f *fixture) typeStructure(t *testing.T, name string, parent *int64) domain.TypeStructureView {
	t.Helper()
	v, err := f.typ.Create(f.ctx, validate.TypeStructureInput{Name: name, Parent: parent})
	require.NoError(t, err)
	return v
}

func (f *fixture) structure(t *testing.T, name string, typeID, arrID int64, parent *int64) domain.StructureView {
	t.Helper()
	v, err := f.st.Create(f.ctx, validate.StructureInput{
		Name:           name,
		Adresse:        "Rue " + name,
		Contacts:       "+237 600 00 00 00",
		Type:           typeID,
		Arrondissement: arrID,
		Parent:         parent,
	})
	require.NoError(t, err)
	return v
}

func (f *fixture) user(t *testing.T, name string) int64 {
	t.Helper()
	u := domain.User{UserName: name, Email: name + "@example.com", HashedPassword: "x", RoleID: mocks.UserRoleID, Active: true}
	require.NoError(t, f.mem.Repos().Users.Create(f.ctx, &u))
	return u.ID
}

func membreInput(userID, arrID int64) validate.MembreInput {
	zero := 0
	return validate.MembreInput{
		UserID:         userID,
		FullName:       "Jean Ekwalla",
		Genre:          "M",
		DOB:            "1980-04-12",
		POB:            "Douala",
		Mother:         "Marie",
		Father:         "Paul",
		StatusM:        "M",
		Conjoint:       "Esther",
		NbEnfant:       &zero,
		Contacts:       "+237 690 00 00 00",
		Adresse:        "Akwa",
		Arrondissement: arrID,
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func int64Ptr(v int64) *int64 { return &v }

// assertKind checks the domain kind and client message of err.
func assertKind(t *testing.T, err error, kind domain.Kind, message string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, domain.KindOf(err), "kind of %v", err)
	if message != "" {
		assert.Equal(t, message, domain.MessageOf(err))
	}
}
