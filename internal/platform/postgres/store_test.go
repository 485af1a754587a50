package postgres

import (
	"context"
	"database/sql"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func TestNewStoreBase_NilDBPanics(t *testing.T) {
	assert.Panics(t, func() { NewPostgresRegionStore(nil, nil) })
}

func TestRegionStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create sets id", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`INSERT INTO regions \(name\) VALUES \(\$1\) RETURNING id`).
			WithArgs("Littoral").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

		r := &domain.Region{Name: "Littoral"}
		require.NoError(t, NewPostgresRegionStore(db, nil).Create(ctx, r))
		assert.Equal(t, int64(7), r.ID)
	})

	t.Run("create duplicate", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`INSERT INTO regions`).
			WithArgs("Littoral").
			WillReturnError(newPgError(uniqueViolationCode))

		err := NewPostgresRegionStore(db, nil).Create(ctx, &domain.Region{Name: "Littoral"})
		assert.ErrorIs(t, err, store.ErrDuplicate)
		var se *store.StoreError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "region", se.Entity)
		assert.Equal(t, "create", se.Operation)
	})

	t.Run("get missing", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`SELECT id, name FROM regions WHERE id = \$1`).
			WithArgs(int64(4)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

		r, err := NewPostgresRegionStore(db, nil).GetByID(ctx, 4)
		assert.Nil(t, r)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("list empty is non-nil", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`SELECT id, name FROM regions ORDER BY id`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

		regions, err := NewPostgresRegionStore(db, nil).List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, regions)
		assert.Empty(t, regions)
	})

	t.Run("search escapes pattern", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`WHERE name ILIKE \$1`).
			WithArgs(`%lit\_%`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Littoral").AddRow(2, "lit_x"))

		regions, err := NewPostgresRegionStore(db, nil).SearchByName(ctx, "lit_")
		require.NoError(t, err)
		assert.Equal(t, []domain.Region{{ID: 1, Name: "Littoral"}, {ID: 2, Name: "lit_x"}}, regions)
	})

	t.Run("delete missing", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(`DELETE FROM regions WHERE id = \$1`).
			WithArgs(int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewPostgresRegionStore(db, nil).Delete(ctx, 9)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete referenced", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(`DELETE FROM regions`).
			WithArgs(int64(1)).
			WillReturnError(newPgError(foreignKeyViolationCode))

		err := NewPostgresRegionStore(db, nil).Delete(ctx, 1)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("update", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(`UPDATE regions SET name = \$2 WHERE id = \$1`).
			WithArgs(int64(1), "Centre").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewPostgresRegionStore(db, nil).Update(ctx, &domain.Region{ID: 1, Name: "Centre"}))
	})
}

func TestDepartementStore_ListByRegion(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`FROM departements WHERE region_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "region_id"}).AddRow(3, "Wouri", 1))

	deps, err := NewPostgresDepartementStore(db, nil).ListByRegion(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []domain.Departement{{ID: 3, Name: "Wouri", RegionID: 1}}, deps)
}

func TestTypeStructureStore(t *testing.T) {
	ctx := context.Background()

	t.Run("nullable parent", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`SELECT id, name, parent_id FROM typestructures ORDER BY id`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "parent_id"}).
				AddRow(1, "Region", nil).
				AddRow(2, "District", 1))

		types, err := NewPostgresTypeStructureStore(db, nil).List(ctx)
		require.NoError(t, err)
		require.Len(t, types, 2)
		assert.Nil(t, types[0].ParentID)
		require.NotNil(t, types[1].ParentID)
		assert.Equal(t, int64(1), *types[1].ParentID)
	})

	t.Run("create with parent", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`INSERT INTO typestructures`).
			WithArgs("Paroisse", int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

		parent := int64(2)
		ts := &domain.TypeStructure{Name: "Paroisse", ParentID: &parent}
		require.NoError(t, NewPostgresTypeStructureStore(db, nil).Create(ctx, ts))
		assert.Equal(t, int64(5), ts.ID)
	})

	t.Run("link twice", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(`INSERT INTO typestructure_fonctions`).
			WithArgs(int64(1), int64(2), 3).
			WillReturnError(newPgError(uniqueViolationCode))

		err := NewPostgresTypeStructureStore(db, nil).LinkFonction(ctx,
			&domain.TypeStructureFonction{TypeStructureID: 1, FonctionID: 2, NombrePosition: 3})
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})

	t.Run("unlink missing", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(`DELETE FROM typestructure_fonctions`).
			WithArgs(int64(1), int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewPostgresTypeStructureStore(db, nil).UnlinkFonction(ctx, 1, 2)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestStructureStore_Create(t *testing.T) {
	db, mock := newMock(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO structures`).
		WithArgs("Paroisse Akwa", nil, "+237 690000000", 0, 0, int64(1), int64(2), nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "date_creation"}).AddRow(11, created))

	st := &domain.Structure{
		Name:             "Paroisse Akwa",
		Contacts:         "+237 690000000",
		TypeStructureID:  1,
		ArrondissementID: 2,
	}
	require.NoError(t, NewPostgresStructureStore(db, nil).Create(context.Background(), st))
	assert.Equal(t, int64(11), st.ID)
	assert.Equal(t, created, st.DateCreation)
}

func TestStructureStore_GetByID(t *testing.T) {
	db, mock := newMock(t)
	created := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM structures WHERE id = \$1`).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "adresse", "contacts", "nombre_communicant", "nombre_baptise",
			"date_creation", "typestructure_id", "arrondissement_id", "parent_id",
		}).AddRow(11, "Paroisse Akwa", "Rue 1", "690", 4, 5, created, 1, 2, 3))

	st, err := NewPostgresStructureStore(db, nil).GetByID(context.Background(), 11)
	require.NoError(t, err)
	require.NotNil(t, st.Adresse)
	assert.Equal(t, "Rue 1", *st.Adresse)
	require.NotNil(t, st.ParentID)
	assert.Equal(t, int64(3), *st.ParentID)
	assert.Equal(t, 4, st.NombreCommunicant)
}

func TestMembreStore_GetByUserID(t *testing.T) {
	db, mock := newMock(t)
	dob := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM membres WHERE user_id = \$1`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "fullname", "genre", "date_of_birth", "place_of_birth", "mother", "father",
			"marital_status", "conjoint", "nb_enfant", "contacts", "adresse", "arrondissement_id",
			"user_id", "date_consecration", "consecration_structure_id", "avatar_id",
			"created_at", "updated_at",
		}).AddRow(1, "Jean Ndi", "M", dob, "Douala", "Marie", "Paul", "C", "", 0, "690",
			"Akwa", 3, 42, nil, nil, nil, created, nil))

	m, err := NewPostgresMembreStore(db, nil).GetByUserID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, domain.GenreMale, m.Genre)
	assert.Equal(t, domain.MaritalSingle, m.MaritalStatus)
	assert.Nil(t, m.DateConsecration)
	assert.Nil(t, m.AvatarID)
	assert.Nil(t, m.UpdatedAt)
	assert.Equal(t, dob, m.DateOfBirth)
}

func TestAffectationStore_SaveUpserts(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(`ON CONFLICT \(structure_id, membre_id\) DO UPDATE`).
		WithArgs(int64(1), int64(2), int64(3), sqlmock.AnyArg(), true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewPostgresAffectationStore(db, nil).Save(context.Background(), &domain.StructureMembre{
		StructureID: 1, MembreID: 2, FonctionID: 3, DateAffectation: time.Now(), Actuel: true,
	})
	require.NoError(t, err)
}

func TestMediaStore_Create(t *testing.T) {
	db, mock := newMock(t)
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	structureID := int64(4)
	mock.ExpectQuery(`INSERT INTO medias`).
		WithArgs("ab.png", "http://host/static/images/autres/ab.png", "IMAGE", int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(9, created))

	m := &domain.Media{
		FileName:    "ab.png",
		PathName:    "http://host/static/images/autres/ab.png",
		Type:        domain.MediaImage,
		StructureID: &structureID,
	}
	require.NoError(t, NewPostgresMediaStore(db, nil).Create(context.Background(), m))
	assert.Equal(t, int64(9), m.ID)
	assert.Equal(t, created, m.CreatedAt)
}

func TestRoleStore_ScansPermissions(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`FROM roles WHERE name = \$1`).
		WithArgs("ROLE_USER").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "permissions"}).
			AddRow(2, "ROLE_USER", "read", "{get:regions,get:user}"))

	role, err := NewPostgresRoleStore(db, nil).GetByName(context.Background(), "ROLE_USER")
	require.NoError(t, err)
	assert.Equal(t, []string{"get:regions", "get:user"}, role.Permissions)
	assert.True(t, role.HasPermission("get:user"))
}

func TestUserStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create", func(t *testing.T) {
		db, mock := newMock(t)
		created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("jean", "jean@example.com", "hash", int64(2), true).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(5, created))

		u := &domain.User{UserName: "jean", Email: "jean@example.com", HashedPassword: "hash", RoleID: 2, Active: true}
		require.NoError(t, NewPostgresUserStore(db, nil).Create(ctx, u))
		assert.Equal(t, int64(5), u.ID)
	})

	t.Run("create duplicate email", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`INSERT INTO users`).WillReturnError(newPgError(uniqueViolationCode))

		err := NewPostgresUserStore(db, nil).Create(ctx, &domain.User{Email: "jean@example.com"})
		assert.True(t, store.IsDuplicateError(err))
	})

	t.Run("get by email is case-insensitive", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`WHERE LOWER\(email\) = LOWER\(\$1\)`).
			WithArgs("JEAN@example.com").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "user_name", "email", "password", "role_id", "active", "created_at",
			}).AddRow(5, "jean", "jean@example.com", "hash", 2, true, time.Now()))

		u, err := NewPostgresUserStore(db, nil).GetByEmail(ctx, "JEAN@example.com")
		require.NoError(t, err)
		assert.Equal(t, "jean", u.UserName)
	})
}

func TestUnitOfWork_WithinTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commits", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO fonctions`).
			WithArgs("Pasteur").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		err := NewUnitOfWork(db, nil).WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
			return r.Fonctions.Create(ctx, &domain.Fonction{Name: "Pasteur"})
		})
		require.NoError(t, err)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO fonctions`).
			WithArgs("Pasteur").
			WillReturnError(newPgError(uniqueViolationCode))
		mock.ExpectRollback()

		err := NewUnitOfWork(db, nil).WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
			return r.Fonctions.Create(ctx, &domain.Fonction{Name: "Pasteur"})
		})
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})
}

func TestMigrations_SeedEveryPermission(t *testing.T) {
	entries, err := fs.ReadDir(Migrations, MigrationsDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	seed, err := fs.ReadFile(Migrations, MigrationsDir+"/00002_seed_roles.sql")
	require.NoError(t, err)

	for _, p := range domain.AllPermissions() {
		assert.Contains(t, string(seed), "'"+p+"'")
	}
	admin := string(seed)[:strings.Index(string(seed), "ROLE_USER")]
	assert.Contains(t, admin, "'delete:membres'")
}
