package directory_test

import (
	"errors"
	"testing"

	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/mocks"
	"github.com/epccam/directory-api/internal/service/directory"
	"github.com/epccam/directory-api/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServices_RequireUnitOfWork(t *testing.T) {
	t.Parallel()

	_, err := directory.NewRegionService(nil, nil)
	assert.ErrorIs(t, err, directory.ErrNilUnitOfWork)

	_, err = directory.NewStructureService(mocks.NewMemory().UnitOfWork(), nil, nil)
	assert.Error(t, err)
}

func TestRegionService_CreateDuplicate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	first, err := f.region.Create(f.ctx, validate.NameInput{Name: "Littoral"})
	require.NoError(t, err)
	assert.Equal(t, "Littoral", first.Name)
	assert.NotZero(t, first.ID)

	_, err = f.region.Create(f.ctx, validate.NameInput{Name: "Littoral"})
	assertKind(t, err, domain.KindConflict, "That region already exist")

	all, err := f.region.List(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.RegionView{first}, all)
}

func TestRegionService_Validation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.region.Create(f.ctx, validate.NameInput{})
	assertKind(t, err, domain.KindValidation, "Bad request")
	assert.Contains(t, domain.FieldsOf(err), "name")
	assert.Zero(t, f.mem.Commits+f.mem.Rollbacks, "nothing may reach the store")
}

func TestRegionService_UpdateExcludesItself(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	littoral, err := f.region.Create(f.ctx, validate.NameInput{Name: "Littoral"})
	require.NoError(t, err)
	centre, err := f.region.Create(f.ctx, validate.NameInput{Name: "Centre"})
	require.NoError(t, err)

	updated, err := f.region.Update(f.ctx, littoral.ID, validate.NameInput{Name: "Littoral"})
	require.NoError(t, err)
	assert.Equal(t, littoral, updated)

	_, err = f.region.Update(f.ctx, littoral.ID, validate.NameInput{Name: "Centre"})
	assertKind(t, err, domain.KindConflict, "That region already exist")

	_, err = f.region.Update(f.ctx, 999, validate.NameInput{Name: "Ouest"})
	assertKind(t, err, domain.KindNotFound, "Resource not found")

	got, err := f.region.Get(f.ctx, centre.ID)
	require.NoError(t, err)
	assert.Equal(t, "Centre", got.Name)
}

func TestRegionService_DeleteAndSearch(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	r, err := f.region.Create(f.ctx, validate.NameInput{Name: "Extreme-Nord"})
	require.NoError(t, err)

	found, err := f.region.Search(f.ctx, "NORD")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	none, err := f.region.Search(f.ctx, "Sud")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	msg, err := f.region.Delete(f.ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "the region with ID "+itoa(r.ID)+" has been deleted", msg)

	_, err = f.region.Delete(f.ctx, r.ID)
	assertKind(t, err, domain.KindNotFound, "Resource not found")
}

func TestRegionService_DeleteReferenced(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	arr := f.geography(t)

	_, err := f.region.Delete(f.ctx, arr.Departement.Region.ID)
	assertKind(t, err, domain.KindPersistence, "failed to delete region")

	_, err = f.region.Get(f.ctx, arr.Departement.Region.ID)
	assert.NoError(t, err)
}

func TestRegionService_PersistenceFailureRollsBack(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.mem.Fail("Regions.Create", errors.New("connection reset"))

	_, err := f.region.Create(f.ctx, validate.NameInput{Name: "Littoral"})
	assertKind(t, err, domain.KindPersistence, "failed to create region")
	assert.Equal(t, 1, f.mem.Rollbacks)
	assert.NotContains(t, domain.MessageOf(err), "connection reset")
}

func TestArrondissementView_NestsThreeLevels(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	created := f.geography(t)

	got, err := f.arr.Get(f.ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Douala 1er", got.Name)
	assert.Equal(t, "Wouri", got.Departement.Name)
	assert.Equal(t, "Littoral", got.Departement.Region.Name)
	assert.Equal(t, created, got)

	byDep, err := f.dep.Arrondissements(f.ctx, got.Departement.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.ArrondissementView{got}, byDep)

	byRegion, err := f.region.Departements(f.ctx, got.Departement.Region.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.DepartementView{got.Departement}, byRegion)
}

func TestDepartementService_References(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.dep.Create(f.ctx, validate.DepartementInput{Name: "Wouri", Region: 999})
	assertKind(t, err, domain.KindNotFound, "That region 999 doesnt exist")

	_, err = f.dep.Create(f.ctx, validate.DepartementInput{Name: "Wouri"})
	assertKind(t, err, domain.KindValidation, "Bad request")
	assert.Contains(t, domain.FieldsOf(err), "region")

	_, err = f.region.Departements(f.ctx, 999)
	assertKind(t, err, domain.KindNotFound, "Resource not found")

	_, err = f.dep.Arrondissements(f.ctx, 999)
	assertKind(t, err, domain.KindNotFound, "Resource not found")
}

func TestDepartementService_UpdateDuplicateMessage(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	arr := f.geography(t)

	other, err := f.dep.Create(f.ctx, validate.DepartementInput{Name: "Moungo", Region: arr.Departement.Region.ID})
	require.NoError(t, err)

	_, err = f.dep.Create(f.ctx, validate.DepartementInput{Name: "Moungo", Region: arr.Departement.Region.ID})
	assertKind(t, err, domain.KindConflict, "That departement already exist")

	_, err = f.dep.Update(f.ctx, other.ID, validate.DepartementInput{Name: "Wouri", Region: arr.Departement.Region.ID})
	assertKind(t, err, domain.KindConflict, "That Departement already exist")

	moved, err := f.dep.Update(f.ctx, other.ID, validate.DepartementInput{Name: "Moungo-Nord", Region: arr.Departement.Region.ID})
	require.NoError(t, err)
	assert.Equal(t, "Moungo-Nord", moved.Name)
	assert.Equal(t, "Littoral", moved.Region.Name)
}

func TestArrondissementService_Lifecycle(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	arr := f.geography(t)

	_, err := f.arr.Create(f.ctx, validate.ArrondissementInput{Name: "Douala 2e", Departement: 999})
	assertKind(t, err, domain.KindNotFound, "That departement 999 doesnt exist")

	_, err = f.arr.Create(f.ctx, validate.ArrondissementInput{Name: "Douala 1er", Departement: arr.Departement.ID})
	assertKind(t, err, domain.KindConflict, "That arrondissement already exist")

	renamed, err := f.arr.Update(f.ctx, arr.ID, validate.ArrondissementInput{Name: "Douala I", Departement: arr.Departement.ID})
	require.NoError(t, err)
	assert.Equal(t, "Douala I", renamed.Name)

	list, err := f.arr.Search(f.ctx, "douala")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	msg, err := f.arr.Delete(f.ctx, arr.ID)
	require.NoError(t, err)
	assert.Contains(t, msg, "the arrondissement with ID")

	list, err = f.arr.List(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFonctionService_Lifecycle(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	pasteur, err := f.fon.Create(f.ctx, validate.NameInput{Name: "Pasteur"})
	require.NoError(t, err)
	_, err = f.fon.Create(f.ctx, validate.NameInput{Name: "Pasteur"})
	assertKind(t, err, domain.KindConflict, "That fonction already exist")

	diacre, err := f.fon.Create(f.ctx, validate.NameInput{Name: "Diacre"})
	require.NoError(t, err)

	_, err = f.fon.Update(f.ctx, diacre.ID, validate.NameInput{Name: "Pasteur"})
	assertKind(t, err, domain.KindConflict, "That fonction already exist")

	all, err := f.fon.List(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.FonctionView{pasteur, diacre}, all)

	_, err = f.fon.Get(f.ctx, 999)
	assertKind(t, err, domain.KindNotFound, "Resource not found")

	msg, err := f.fon.Delete(f.ctx, pasteur.ID)
	require.NoError(t, err)
	assert.Equal(t, "the fonction with ID "+itoa(pasteur.ID)+" has been deleted", msg)
}
