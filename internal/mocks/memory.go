package mocks

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/store"
)

type pair [2]int64

// data is the whole in-memory database.
type data struct {
	nextID          int64
	regions         map[int64]domain.Region
	departements    map[int64]domain.Departement
	arrondissements map[int64]domain.Arrondissement
	fonctions       map[int64]domain.Fonction
	types           map[int64]domain.TypeStructure
	links           map[pair]domain.TypeStructureFonction
	structures      map[int64]domain.Structure
	membres         map[int64]domain.Membre
	affectations    map[pair]domain.StructureMembre
	medias          map[int64]domain.Media
	roles           map[int64]domain.Role
	users           map[int64]domain.User
}

func (d *data) clone() *data {
	return &data{
		nextID:          d.nextID,
		regions:         maps.Clone(d.regions),
		departements:    maps.Clone(d.departements),
		arrondissements: maps.Clone(d.arrondissements),
		fonctions:       maps.Clone(d.fonctions),
		types:           maps.Clone(d.types),
		links:           maps.Clone(d.links),
		structures:      maps.Clone(d.structures),
		membres:         maps.Clone(d.membres),
		affectations:    maps.Clone(d.affectations),
		medias:          maps.Clone(d.medias),
		roles:           maps.Clone(d.roles),
		users:           maps.Clone(d.users),
	}
}

// Memory holds every table in maps guarded by one mutex.
type Memory struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	d        *data
	failures map[string]error

	// Commits and Rollbacks count finished transactions.
	Commits   int
	Rollbacks int
}

// Seeded role ids.
const (
	AdminRoleID int64 = 1
	UserRoleID  int64 = 2
)

// NewMemory returns an empty database with the ROLE_ADMIN and ROLE_USER
// roles seeded the way the migrations seed them.
func NewMemory() *Memory {
	var read []string
	for _, res := range domain.Resources {
		read = append(read, domain.Permission("get", res))
	}
	read = append(read, domain.PermissionGetUser)
	sort.Strings(read)

	return &Memory{
		d: &data{
			nextID:          100,
			regions:         map[int64]domain.Region{},
			departements:    map[int64]domain.Departement{},
			arrondissements: map[int64]domain.Arrondissement{},
			fonctions:       map[int64]domain.Fonction{},
			types:           map[int64]domain.TypeStructure{},
			links:           map[pair]domain.TypeStructureFonction{},
			structures:      map[int64]domain.Structure{},
			membres:         map[int64]domain.Membre{},
			affectations:    map[pair]domain.StructureMembre{},
			medias:          map[int64]domain.Media{},
			roles: map[int64]domain.Role{
				AdminRoleID: {ID: AdminRoleID, Name: "ROLE_ADMIN", Description: "Administrator", Permissions: domain.AllPermissions()},
				UserRoleID:  {ID: UserRoleID, Name: "ROLE_USER", Description: "Read-only user", Permissions: read},
			},
			users: map[int64]domain.User{},
		},
		failures: map[string]error{},
	}
}

// Fail makes every later call of op (e.g. "Regions.Create") return err.
// A nil err clears the failure.
func (m *Memory) Fail(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

// lock acquires the data mutex and returns the injected failure for op.
func (m *Memory) lock(op string) error {
	m.mu.Lock()
	return m.failures[op]
}

func (m *Memory) id() int64 {
	m.d.nextID++
	return m.d.nextID
}

// Repos returns stores backed by m.
func (m *Memory) Repos() store.Repos {
	return store.Repos{
		Regions:         memRegions{m},
		Departements:    memDepartements{m},
		Arrondissements: memArrondissements{m},
		Fonctions:       memFonctions{m},
		TypeStructures:  memTypeStructures{m},
		Structures:      memStructures{m},
		Membres:         memMembres{m},
		Affectations:    memAffectations{m},
		Medias:          memMedias{m},
		Roles:           memRoles{m},
		Users:           memUsers{m},
	}
}

// UnitOfWork returns a store.UnitOfWork backed by m.
func (m *Memory) UnitOfWork() store.UnitOfWork {
	return memUnitOfWork{m}
}

type memUnitOfWork struct{ m *Memory }

func (u memUnitOfWork) Repos() store.Repos { return u.m.Repos() }

// WithinTx serialises transactions and restores the snapshot taken before fn
// when fn fails or panics.
func (u memUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, r store.Repos) error) (err error) {
	m := u.m
	m.txMu.Lock()
	defer m.txMu.Unlock()

	if ferr := m.lock("WithinTx"); ferr != nil {
		m.mu.Unlock()
		return fmt.Errorf("%w: begin: %w", store.ErrTransactionFailed, ferr)
	}
	snapshot := m.d.clone()
	m.mu.Unlock()

	defer func() {
		p := recover()
		m.mu.Lock()
		defer m.mu.Unlock()
		if err != nil || p != nil {
			m.d = snapshot
			m.Rollbacks++
		} else {
			m.Commits++
		}
		if p != nil {
			panic(p)
		}
	}()
	return fn(ctx, m.Repos())
}

// sorted returns the values of a map keyed by id in id order.
func sorted[T any](in map[int64]T) []T {
	out := make([]T, 0, len(in))
	for _, k := range slices.Sorted(maps.Keys(in)) {
		out = append(out, in[k])
	}
	return out
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func notFound(entity string) error {
	return store.NewStoreError(entity, "get", store.ErrNotFound)
}

func duplicate(entity string) error {
	return store.NewStoreError(entity, "create", store.ErrDuplicate)
}

func invalidRef(entity, op string) error {
	return store.NewStoreError(entity, op, store.ErrInvalidEntity)
}

// nameOwner returns the id of the row named name, or zero.
func nameOwner[T any](rows map[int64]T, name string, nameOf func(T) string) int64 {
	for id, r := range rows {
		if nameOf(r) == name {
			return id
		}
	}
	return 0
}

// --- regions

type memRegions struct{ m *Memory }

func regionName(r domain.Region) string { return r.Name }

func (s memRegions) Create(_ context.Context, r *domain.Region) error {
	m := s.m
	if err := m.lock("Regions.Create"); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	if nameOwner(m.d.regions, r.Name, regionName) != 0 {
		return duplicate("region")
	}
	r.ID = m.id()
	m.d.regions[r.ID] = *r
	return nil
}

func (s memRegions) Update(_ context.Context, r *domain.Region) error {
	m := s.m
	if err := m.lock("Regions.Update"); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	if _, ok := m.d.regions[r.ID]; !ok {
		return notFound("region")
	}
	if owner := nameOwner(m.d.regions, r.Name, regionName); owner != 0 && owner != r.ID {
		return duplicate("region")
	}
	m.d.regions[r.ID] = *r
	return nil
}

func (s memRegions) Delete(_ context.Context, id int64) error {
	m := s.m
	if err := m.lock("Regions.Delete"); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	if _, ok := m.d.regions[id]; !ok {
		return notFound("region")
	}
	for _, d := range m.d.departements {
		if d.RegionID == id {
			return invalidRef("region", "delete")
		}
	}
	delete(m.d.regions, id)
	return nil
}

func (s memRegions) GetByID(_ context.Context, id int64) (*domain.Region, error) {
	m := s.m
	if err := m.lock("Regions.GetByID"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	r, ok := m.d.regions[id]
	if !ok {
		return nil, notFound("region")
	}
	return &r, nil
}

func (s memRegions) GetByName(_ context.Context, name string) (*domain.Region, error) {
	m := s.m
	if err := m.lock("Regions.GetByName"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	id := nameOwner(m.d.regions, name, regionName)
	if id == 0 {
		return nil, notFound("region")
	}
	r := m.d.regions[id]
	return &r, nil
}

func (s memRegions) List(_ context.Context) ([]domain.Region, error) {
	m := s.m
	if err := m.lock("Regions.List"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	return sorted(m.d.regions), nil
}

func (s memRegions) SearchByName(_ context.Context, fragment string) ([]domain.Region, error) {
	m := s.m
	if err := m.lock("Regions.SearchByName"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	out := []domain.Region{}
	for _, r := range sorted(m.d.regions) {
		if contains(r.Name, fragment) {
			out = append(out, r)
		}
	}
	return out, nil
}

// --- departements

type memDepartements struct{ m *Memory }

func departementName(d domain.Departement) string { return d.Name }

func (s memDepartements) write(op string, d *domain.Departement, create bool) error {
	m := s.m
	if err := m.lock("Departements." + op); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	if !create {
		if _, ok := m.d.departements[d.ID]; !ok {
			return notFound("departement")
		}
	}
	if _, ok := m.d.regions[d.RegionID]; !ok {
		return invalidRef("departement", op)
	}
	if owner := nameOwner(m.d.departements, d.Name, departementName); owner != 0 && owner != d.ID {
		return duplicate("departement")
	}
	if create {
		d.ID = m.id()
	}
	m.d.departements[d.ID] = *d
	return nil
}

func (s memDepartements) Create(_ context.Context, d *domain.Departement) error {
	return s.write("Create", d, true)
}

func (s memDepartements) Update(_ context.Context, d *domain.Departement) error {
	return s.write("Update", d, false)
}

func (s memDepartements) Delete(_ context.Context, id int64) error {
	m := s.m
	if err := m.lock("Departements.Delete"); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	if _, ok := m.d.departements[id]; !ok {
		return notFound("departement")
	}
	for _, a := range m.d.arrondissements {
		if a.DepartementID == id {
			return invalidRef("departement", "delete")
		}
	}
	delete(m.d.departements, id)
	return nil
}

func (s memDepartements) GetByID(_ context.Context, id int64) (*domain.Departement, error) {
	m := s.m
	if err := m.lock("Departements.GetByID"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	d, ok := m.d.departements[id]
	if !ok {
		return nil, notFound("departement")
	}
	return &d, nil
}

func (s memDepartements) GetByName(_ context.Context, name string) (*domain.Departement, error) {
	m := s.m
	if err := m.lock("Departements.GetByName"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	id := nameOwner(m.d.departements, name, departementName)
	if id == 0 {
		return nil, notFound("departement")
	}
	d := m.d.departements[id]
	return &d, nil
}

func (s memDepartements) List(_ context.Context) ([]domain.Departement, error) {
	return s.filter("List", func(domain.Departement) bool { return true })
}

func (s memDepartements) SearchByName(_ context.Context, fragment string) ([]domain.Departement, error) {
	return s.filter("SearchByName", func(d domain.Departement) bool { return contains(d.Name, fragment) })
}

func (s memDepartements) ListByRegion(_ context.Context, regionID int64) ([]domain.Departement, error) {
	return s.filter("ListByRegion", func(d domain.Departement) bool { return d.RegionID == regionID })
}

func (s memDepartements) filter(op string, keep func(domain.Departement) bool) ([]domain.Departement, error) {
	m := s.m
	if err := m.lock("Departements." + op); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	out := []domain.Departement{}
	for _, d := range sorted(m.d.departements) {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out, nil
}

// --- arrondissements

type memArrondissements struct{ m *Memory }

func arrondissementName(a domain.Arrondissement) string { return a.Name }

func (s memArrondissements) write(op string, a *domain.Arrondissement, create bool) error {
	m := s.m
	if err := m.lock("Arrondissements." + op); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	if !create {
		if _, ok := m.d.arrondissements[a.ID]; !ok {
			return notFound("arrondissement")
		}
	}
	if _, ok := m.d.departements[a.DepartementID]; !ok {
		return invalidRef("arrondissement", op)
	}
	if owner := nameOwner(m.d.arrondissements, a.Name, arrondissementName); owner != 0 && owner != a.ID {
		return duplicate("arrondissement")
	}
	if create {
		a.ID = m.id()
	}
	m.d.arrondissements[a.ID] = *a
	return nil
}

func (s memArrondissements) Create(_ context.Context, a *domain.Arrondissement) error {
	return s.write("Create", a, true)
}

func (s memArrondissements) Update(_ context.Context, a *domain.Arrondissement) error {
	return s.write("Update", a, false)
}

func (s memArrondissements) Delete(_ context.Context, id int64) error {
	m := s.m
	if err := m.lock("Arrondissements.Delete"); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	if _, ok := m.d.arrondissements[id]; !ok {
		return notFound("arrondissement")
	}
	for _, st := range m.d.structures {
		if st.ArrondissementID == id {
			return invalidRef("arrondissement", "delete")
		}
	}
	for _, mb := range m.d.membres {
		if mb.ArrondissementID == id {
			return invalidRef("arrondissement", "delete")
		}
	}
	delete(m.d.arrondissements, id)
	return nil
}

func (s memArrondissements) GetByID(_ context.Context, id int64) (*domain.Arrondissement, error) {
	m := s.m
	if err := m.lock("Arrondissements.GetByID"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	a, ok := m.d.arrondissements[id]
	if !ok {
		return nil, notFound("arrondissement")
	}
	return &a, nil
}

func (s memArrondissements) GetByName(_ context.Context, name string) (*domain.Arrondissement, error) {
	m := s.m
	if err := m.lock("Arrondissements.GetByName"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	id := nameOwner(m.d.arrondissements, name, arrondissementName)
	if id == 0 {
		return nil, notFound("arrondissement")
	}
	a := m.d.arrondissements[id]
	return &a, nil
}

func (s memArrondissements) List(_ context.Context) ([]domain.Arrondissement, error) {
	return s.filter("List", func(domain.Arrondissement) bool { return true })
}

func (s memArrondissements) SearchByName(_ context.Context, fragment string) ([]domain.Arrondissement, error) {
	return s.filter("SearchByName", func(a domain.Arrondissement) bool { return contains(a.Name, fragment) })
}

func (s memArrondissements) ListByDepartement(_ context.Context, departementID int64) ([]domain.Arrondissement, error) {
	return s.filter("ListByDepartement", func(a domain.Arrondissement) bool { return a.DepartementID == departementID })
}

func (s memArrondissements) filter(op string, keep func(domain.Arrondissement) bool) ([]domain.Arrondissement, error) {
	m := s.m
	if err := m.lock("Arrondissements." + op); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	out := []domain.Arrondissement{}
	for _, a := range sorted(m.d.arrondissements) {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out, nil
}

// --- fonctions

type memFonctions struct{ m *Memory }

func fonctionName(f domain.Fonction) string { return f.Name }

func (s memFonctions) Create(_ context.Context, f *domain.Fonction) error {
	m := s.m
	if err := m.lock("Fonctions.Create"); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	if nameOwner(m.d.fonctions, f.Name, fonctionName) != 0 {
		return duplicate("fonction")
	}
	f.ID = m.id()
	m.d.fonctions[f.ID] = *f
	return nil
}

func (s memFonctions) Update(_ context.Context, f *domain.Fonction) error {
	m := s.m
	if err := m.lock("Fonctions.Update"); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	if _, ok := m.d.fonctions[f.ID]; !ok {
		return notFound("fonction")
	}
	if owner := nameOwner(m.d.fonctions, f.Name, fonctionName); owner != 0 && owner != f.ID {
		return duplicate("fonction")
	}
	m.d.fonctions[f.ID] = *f
	return nil
}

// Delete cascades to type-structure links and is refused while a membre
// holds the fonction.
func (s memFonctions) Delete(_ context.Context, id int64) error {
	m := s.m
	if err := m.lock("Fonctions.Delete"); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	if _, ok := m.d.fonctions[id]; !ok {
		return notFound("fonction")
	}
	for _, a := range m.d.affectations {
		if a.FonctionID == id {
			return invalidRef("fonction", "delete")
		}
	}
	for k := range m.d.links {
		if k[1] == id {
			delete(m.d.links, k)
		}
	}
	delete(m.d.fonctions, id)
	return nil
}

func (s memFonctions) GetByID(_ context.Context, id int64) (*domain.Fonction, error) {
	m := s.m
	if err := m.lock("Fonctions.GetByID"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	f, ok := m.d.fonctions[id]
	if !ok {
		return nil, notFound("fonction")
	}
	return &f, nil
}

func (s memFonctions) GetByName(_ context.Context, name string) (*domain.Fonction, error) {
	m := s.m
	if err := m.lock("Fonctions.GetByName"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	id := nameOwner(m.d.fonctions, name, fonctionName)
	if id == 0 {
		return nil, notFound("fonction")
	}
	f := m.d.fonctions[id]
	return &f, nil
}

func (s memFonctions) List(_ context.Context) ([]domain.Fonction, error) {
	m := s.m
	if err := m.lock("Fonctions.List"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	return sorted(m.d.fonctions), nil
}

func (s memFonctions) SearchByName(_ context.Context, fragment string) ([]domain.Fonction, error) {
	m := s.m
	if err := m.lock("Fonctions.SearchByName"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	out := []domain.Fonction{}
	for _, f := range sorted(m.d.fonctions) {
		if contains(f.Name, fragment) {
			out = append(out, f)
		}
	}
	return out, nil
}

// --- type-structures

type memTypeStructures struct{ m *Memory }

func typeName(t domain.TypeStructure) string { return t.Name }

func (s memTypeStructures) write(op string, t *domain.TypeStructure, create bool) error {
	m := s.m
	if err := m.lock("TypeStructures." + op); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	if !create {
		if _, ok := m.d.types[t.ID]; !ok {
			return notFound("typestructure")
		}
	}
	if t.ParentID != nil {
		if _, ok := m.d.types[*t.ParentID]; !ok || *t.ParentID == t.ID {
			return invalidRef("typestructure", op)
		}
	}
	if owner := nameOwner(m.d.types, t.Name, typeName); owner != 0 && owner != t.ID {
		return duplicate("typestructure")
	}
	if create {
		t.ID = m.id()
	}
	m.d.types[t.ID] = *t
	return nil
}

func (s memTypeStructures) Create(_ context.Context, t *domain.TypeStructure) error {
	return s.write("Create", t, true)
}

func (s memTypeStructures) Update(_ context.Context, t *domain.TypeStructure) error {
	return s.write("Update", t, false)
}

// Delete cascades to child types and fonction links. It is refused while a
// structure uses any of the deleted types.
func (s memTypeStructures) Delete(_ context.Context, id int64) error {
	m := s.m
	if err := m.lock("TypeStructures.Delete"); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	if _, ok := m.d.types[id]; !ok {
		return notFound("typestructure")
	}
	doomed := subtree(id, m.d.types, func(t domain.TypeStructure) *int64 { return t.ParentID })
	for _, st := range m.d.structures {
		if _, ok := doomed[st.TypeStructureID]; ok {
			return invalidRef("typestructure", "delete")
		}
	}
	for tid := range doomed {
		delete(m.d.types, tid)
	}
	for k := range m.d.links {
		if _, ok := doomed[k[0]]; ok {
			delete(m.d.links, k)
		}
	}
	return nil
}

func (s memTypeStructures) GetByID(_ context.Context, id int64) (*domain.TypeStructure, error) {
	m := s.m
	if err := m.lock("TypeStructures.GetByID"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	t, ok := m.d.types[id]
	if !ok {
		return nil, notFound("typestructure")
	}
	return &t, nil
}

func (s memTypeStructures) GetByName(_ context.Context, name string) (*domain.TypeStructure, error) {
	m := s.m
	if err := m.lock("TypeStructures.GetByName"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	id := nameOwner(m.d.types, name, typeName)
	if id == 0 {
		return nil, notFound("typestructure")
	}
	t := m.d.types[id]
	return &t, nil
}

func (s memTypeStructures) List(_ context.Context) ([]domain.TypeStructure, error) {
	m := s.m
	if err := m.lock("TypeStructures.List"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	return sorted(m.d.types), nil
}

func (s memTypeStructures) SearchByName(_ context.Context, fragment string) ([]domain.TypeStructure, error) {
	m := s.m
	if err := m.lock("TypeStructures.SearchByName"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	out := []domain.TypeStructure{}
	for _, t := range sorted(m.d.types) {
		if contains(t.Name, fragment) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s memTypeStructures) LinkFonction(_ context.Context, link *domain.TypeStructureFonction) error {
	m := s.m
	if err := m.lock("TypeStructures.LinkFonction"); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	_, typeOK := m.d.types[link.TypeStructureID]
	_, fonctionOK := m.d.fonctions[link.FonctionID]
	if !typeOK || !fonctionOK {
		return invalidRef("typestructure_fonction", "create")
	}
	k := pair{link.TypeStructureID, link.FonctionID}
	if _, ok := m.d.links[k]; ok {
		return duplicate("typestructure_fonction")
	}
	m.d.links[k] = *link
	return nil
}

func (s memTypeStructures) UnlinkFonction(_ context.Context, typeStructureID, fonctionID int64) error {
	m := s.m
	if err := m.lock("TypeStructures.UnlinkFonction"); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	k := pair{typeStructureID, fonctionID}
	if _, ok := m.d.links[k]; !ok {
		return notFound("typestructure_fonction")
	}
	delete(m.d.links, k)
	return nil
}

func (s memTypeStructures) GetFonctionLink(_ context.Context, typeStructureID, fonctionID int64) (*domain.TypeStructureFonction, error) {
	m := s.m
	if err := m.lock("TypeStructures.GetFonctionLink"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	l, ok := m.d.links[pair{typeStructureID, fonctionID}]
	if !ok {
		return nil, notFound("typestructure_fonction")
	}
	return &l, nil
}

func (s memTypeStructures) ListFonctions(_ context.Context, typeStructureID int64) ([]domain.TypeStructureFonction, error) {
	m := s.m
	if err := m.lock("TypeStructures.ListFonctions"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	out := []domain.TypeStructureFonction{}
	for k, l := range m.d.links {
		if k[0] == typeStructureID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FonctionID < out[j].FonctionID })
	return out, nil
}

// subtree returns root and every row below it through parentOf.
func subtree[T any](root int64, rows map[int64]T, parentOf func(T) *int64) map[int64]struct{} {
	out := map[int64]struct{}{root: {}}
	for grew := true; grew; {
		grew = false
		for id, r := range rows {
			if _, in := out[id]; in {
				continue
			}
			if p := parentOf(r); p != nil {
				if _, in := out[*p]; in {
					out[id] = struct{}{}
					grew = true
				}
			}
		}
	}
	return out
}

// --- structures

type memStructures struct{ m *Memory }

func structureName(s domain.Structure) string { return s.Name }

func (s memStructures) write(op string, st *domain.Structure, create bool) error {
	m := s.m
	if err := m.lock("Structures." + op); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	if !create {
		old, ok := m.d.structures[st.ID]
		if !ok {
			return notFound("structure")
		}
		st.DateCreation = old.DateCreation
	}
	if _, ok := m.d.types[st.TypeStructureID]; !ok {
		return invalidRef("structure", op)
	}
	if _, ok := m.d.arrondissements[st.ArrondissementID]; !ok {
		return invalidRef("structure", op)
	}
	if st.ParentID != nil {
		if _, ok := m.d.structures[*st.ParentID]; !ok || *st.ParentID == st.ID {
			return invalidRef("structure", op)
		}
	}
	if st.NombreCommunicant < 0 || st.NombreBaptise < 0 {
		return invalidRef("structure", op)
	}
	if owner := nameOwner(m.d.structures, st.Name, structureName); owner != 0 && owner != st.ID {
		return duplicate("structure")
	}
	if create {
		st.ID = m.id()
		st.DateCreation = time.Now().UTC()
	}
	m.d.structures[st.ID] = *st
	return nil
}

func (s memStructures) Create(_ context.Context, st *domain.Structure) error {
	return s.write("Create", st, true)
}

func (s memStructures) Update(_ context.Context, st *domain.Structure) error {
	return s.write("Update", st, false)
}

// Delete cascades to sub-structures, their medias and assignments, and
// clears consecration references.
func (s memStructures) Delete(_ context.Context, id int64) error {
	m := s.m
	if err := m.lock("Structures.Delete"); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	if _, ok := m.d.structures[id]; !ok {
		return notFound("structure")
	}
	doomed := subtree(id, m.d.structures, func(st domain.Structure) *int64 { return st.ParentID })
	for sid := range doomed {
		delete(m.d.structures, sid)
	}
	for mid, md := range m.d.medias {
		if md.StructureID != nil {
			if _, ok := doomed[*md.StructureID]; ok {
				m.deleteMediaLocked(mid)
			}
		}
	}
	for k := range m.d.affectations {
		if _, ok := doomed[k[0]]; ok {
			delete(m.d.affectations, k)
		}
	}
	for mid, mb := range m.d.membres {
		if mb.ConsecrationStructureID != nil {
			if _, ok := doomed[*mb.ConsecrationStructureID]; ok {
				mb.ConsecrationStructureID = nil
				m.d.membres[mid] = mb
			}
		}
	}
	return nil
}

func (s memStructures) GetByID(_ context.Context, id int64) (*domain.Structure, error) {
	m := s.m
	if err := m.lock("Structures.GetByID"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	st, ok := m.d.structures[id]
	if !ok {
		return nil, notFound("structure")
	}
	return &st, nil
}

func (s memStructures) GetByName(_ context.Context, name string) (*domain.Structure, error) {
	m := s.m
	if err := m.lock("Structures.GetByName"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	id := nameOwner(m.d.structures, name, structureName)
	if id == 0 {
		return nil, notFound("structure")
	}
	st := m.d.structures[id]
	return &st, nil
}

func (s memStructures) List(_ context.Context) ([]domain.Structure, error) {
	return s.filter("List", func(domain.Structure) bool { return true })
}

func (s memStructures) SearchByName(_ context.Context, fragment string) ([]domain.Structure, error) {
	return s.filter("SearchByName", func(st domain.Structure) bool { return contains(st.Name, fragment) })
}

func (s memStructures) ListByType(_ context.Context, typeStructureID int64) ([]domain.Structure, error) {
	return s.filter("ListByType", func(st domain.Structure) bool { return st.TypeStructureID == typeStructureID })
}

func (s memStructures) ListChildren(_ context.Context, parentID int64) ([]domain.Structure, error) {
	return s.filter("ListChildren", func(st domain.Structure) bool {
		return st.ParentID != nil && *st.ParentID == parentID
	})
}

func (s memStructures) filter(op string, keep func(domain.Structure) bool) ([]domain.Structure, error) {
	m := s.m
	if err := m.lock("Structures." + op); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	out := []domain.Structure{}
	for _, st := range sorted(m.d.structures) {
		if keep(st) {
			out = append(out, st)
		}
	}
	return out, nil
}

// --- membres

type memMembres struct{ m *Memory }

func (s memMembres) write(op string, mb *domain.Membre, create bool) error {
	m := s.m
	if err := m.lock("Membres." + op); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	if !create {
		old, ok := m.d.membres[mb.ID]
		if !ok {
			return notFound("membre")
		}
		mb.CreatedAt = old.CreatedAt
		now := time.Now().UTC()
		mb.UpdatedAt = &now
	}
	if _, ok := m.d.arrondissements[mb.ArrondissementID]; !ok {
		return invalidRef("membre", op)
	}
	if _, ok := m.d.users[mb.UserID]; !ok {
		return invalidRef("membre", op)
	}
	if mb.ConsecrationStructureID != nil {
		if _, ok := m.d.structures[*mb.ConsecrationStructureID]; !ok {
			return invalidRef("membre", op)
		}
	}
	if mb.AvatarID != nil {
		if _, ok := m.d.medias[*mb.AvatarID]; !ok {
			return invalidRef("membre", op)
		}
	}
	for id, other := range m.d.membres {
		if other.UserID == mb.UserID && id != mb.ID {
			return duplicate("membre")
		}
	}
	if create {
		mb.ID = m.id()
		mb.CreatedAt = time.Now().UTC()
	}
	m.d.membres[mb.ID] = *mb
	return nil
}

func (s memMembres) Create(_ context.Context, mb *domain.Membre) error {
	return s.write("Create", mb, true)
}

func (s memMembres) Update(_ context.Context, mb *domain.Membre) error {
	return s.write("Update", mb, false)
}

func (s memMembres) Delete(_ context.Context, id int64) error {
	m := s.m
	if err := m.lock("Membres.Delete"); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	if _, ok := m.d.membres[id]; !ok {
		return notFound("membre")
	}
	delete(m.d.membres, id)
	for k := range m.d.affectations {
		if k[1] == id {
			delete(m.d.affectations, k)
		}
	}
	return nil
}

func (s memMembres) GetByID(_ context.Context, id int64) (*domain.Membre, error) {
	m := s.m
	if err := m.lock("Membres.GetByID"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	mb, ok := m.d.membres[id]
	if !ok {
		return nil, notFound("membre")
	}
	return &mb, nil
}

func (s memMembres) GetByUserID(_ context.Context, userID int64) (*domain.Membre, error) {
	m := s.m
	if err := m.lock("Membres.GetByUserID"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	for _, mb := range m.d.membres {
		if mb.UserID == userID {
			return &mb, nil
		}
	}
	return nil, notFound("membre")
}

func (s memMembres) List(_ context.Context) ([]domain.Membre, error) {
	m := s.m
	if err := m.lock("Membres.List"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	return sorted(m.d.membres), nil
}

func (s memMembres) SearchByName(_ context.Context, fragment string) ([]domain.Membre, error) {
	m := s.m
	if err := m.lock("Membres.SearchByName"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	out := []domain.Membre{}
	for _, mb := range sorted(m.d.membres) {
		if contains(mb.FullName, fragment) {
			out = append(out, mb)
		}
	}
	return out, nil
}

// --- affectations

type memAffectations struct{ m *Memory }

func (s memAffectations) Save(_ context.Context, a *domain.StructureMembre) error {
	m := s.m
	if err := m.lock("Affectations.Save"); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	_, structureOK := m.d.structures[a.StructureID]
	_, membreOK := m.d.membres[a.MembreID]
	_, fonctionOK := m.d.fonctions[a.FonctionID]
	if !structureOK || !membreOK || !fonctionOK {
		return invalidRef("structure_membre", "save")
	}
	m.d.affectations[pair{a.StructureID, a.MembreID}] = *a
	return nil
}

func (s memAffectations) ListByMembre(_ context.Context, membreID int64) ([]domain.StructureMembre, error) {
	m := s.m
	if err := m.lock("Affectations.ListByMembre"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	out := []domain.StructureMembre{}
	for k, a := range m.d.affectations {
		if k[1] == membreID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DateAffectation.Equal(out[j].DateAffectation) {
			return out[i].DateAffectation.After(out[j].DateAffectation)
		}
		return out[i].StructureID < out[j].StructureID
	})
	return out, nil
}

// --- medias

type memMedias struct{ m *Memory }

func (s memMedias) Create(_ context.Context, md *domain.Media) error {
	m := s.m
	if err := m.lock("Medias.Create"); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	if md.StructureID != nil {
		if _, ok := m.d.structures[*md.StructureID]; !ok {
			return invalidRef("media", "create")
		}
	}
	md.ID = m.id()
	md.CreatedAt = time.Now().UTC()
	m.d.medias[md.ID] = *md
	return nil
}

func (s memMedias) Delete(_ context.Context, id int64) error {
	m := s.m
	if err := m.lock("Medias.Delete"); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	if _, ok := m.d.medias[id]; !ok {
		return notFound("media")
	}
	m.deleteMediaLocked(id)
	return nil
}

// deleteMediaLocked removes a media row and clears avatar references to it.
func (m *Memory) deleteMediaLocked(id int64) {
	delete(m.d.medias, id)
	for mid, mb := range m.d.membres {
		if mb.AvatarID != nil && *mb.AvatarID == id {
			mb.AvatarID = nil
			m.d.membres[mid] = mb
		}
	}
}

func (s memMedias) GetByID(_ context.Context, id int64) (*domain.Media, error) {
	m := s.m
	if err := m.lock("Medias.GetByID"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	md, ok := m.d.medias[id]
	if !ok {
		return nil, notFound("media")
	}
	return &md, nil
}

func (s memMedias) ListByStructure(_ context.Context, structureID int64) ([]domain.Media, error) {
	m := s.m
	if err := m.lock("Medias.ListByStructure"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	out := []domain.Media{}
	for _, md := range sorted(m.d.medias) {
		if md.StructureID != nil && *md.StructureID == structureID {
			out = append(out, md)
		}
	}
	return out, nil
}

// --- roles

type memRoles struct{ m *Memory }

func (s memRoles) GetByID(_ context.Context, id int64) (*domain.Role, error) {
	m := s.m
	if err := m.lock("Roles.GetByID"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	r, ok := m.d.roles[id]
	if !ok {
		return nil, notFound("role")
	}
	r.Permissions = slices.Clone(r.Permissions)
	return &r, nil
}

func (s memRoles) GetByName(_ context.Context, name string) (*domain.Role, error) {
	m := s.m
	if err := m.lock("Roles.GetByName"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	for _, r := range m.d.roles {
		if r.Name == name {
			r.Permissions = slices.Clone(r.Permissions)
			return &r, nil
		}
	}
	return nil, notFound("role")
}

// --- users

type memUsers struct{ m *Memory }

func (s memUsers) Create(_ context.Context, u *domain.User) error {
	m := s.m
	if err := m.lock("Users.Create"); err != nil {
		m.mu.Unlock()
		return err
	}
	defer m.mu.Unlock()
	if _, ok := m.d.roles[u.RoleID]; !ok {
		return invalidRef("user", "create")
	}
	for _, other := range m.d.users {
		if strings.EqualFold(other.Email, u.Email) || other.UserName == u.UserName {
			return duplicate("user")
		}
	}
	u.ID = m.id()
	u.CreatedAt = time.Now().UTC()
	m.d.users[u.ID] = *u
	return nil
}

func (s memUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	m := s.m
	if err := m.lock("Users.GetByID"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	u, ok := m.d.users[id]
	if !ok {
		return nil, notFound("user")
	}
	return &u, nil
}

func (s memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m := s.m
	if err := m.lock("Users.GetByEmail"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	for _, u := range m.d.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, notFound("user")
}

func (s memUsers) GetByUserName(_ context.Context, userName string) (*domain.User, error) {
	m := s.m
	if err := m.lock("Users.GetByUserName"); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	defer m.mu.Unlock()
	for _, u := range m.d.users {
		if u.UserName == userName {
			return &u, nil
		}
	}
	return nil, notFound("user")
}

// SetUserActive flips the active flag of a user. Accounts have no update
// operation in the API, so tests use this to exercise inactive logins.
func (m *Memory) SetUserActive(id int64, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.d.users[id]; ok {
		u.Active = active
		m.d.users[id] = u
	}
}

// SetParent rewrites a type-structure's parent without any check, to build
// corrupted hierarchies in tests.
func (m *Memory) SetParent(typeID int64, parentID *int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.d.types[typeID]; ok {
		t.ParentID = parentID
		m.d.types[typeID] = t
	}
}
