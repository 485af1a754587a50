package directory

import (
	"context"

	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/store"
)

// views builds nested JSON views by following references through r.
type views struct {
	r store.Repos
}

func (v views) departement(ctx context.Context, d domain.Departement) (domain.DepartementView, error) {
	region, err := v.r.Regions.GetByID(ctx, d.RegionID)
	if err != nil {
		return domain.DepartementView{}, err
	}
	return domain.NewDepartementView(d, *region), nil
}

func (v views) arrondissement(ctx context.Context, a domain.Arrondissement) (domain.ArrondissementView, error) {
	d, err := v.r.Departements.GetByID(ctx, a.DepartementID)
	if err != nil {
		return domain.ArrondissementView{}, err
	}
	dv, err := v.departement(ctx, *d)
	if err != nil {
		return domain.ArrondissementView{}, err
	}
	return domain.NewArrondissementView(a, dv), nil
}

func (v views) arrondissementByID(ctx context.Context, id int64) (domain.ArrondissementView, error) {
	a, err := v.r.Arrondissements.GetByID(ctx, id)
	if err != nil {
		return domain.ArrondissementView{}, err
	}
	return v.arrondissement(ctx, *a)
}

func (v views) typeStructure(ctx context.Context, t domain.TypeStructure) (domain.TypeStructureView, error) {
	chain, err := domain.Ancestors(t, v.loadType(ctx))
	if err != nil {
		return domain.TypeStructureView{}, err
	}
	return domain.NewTypeStructureView(chain), nil
}

func (v views) typeStructureByID(ctx context.Context, id int64) (domain.TypeStructureView, error) {
	t, err := v.r.TypeStructures.GetByID(ctx, id)
	if err != nil {
		return domain.TypeStructureView{}, err
	}
	return v.typeStructure(ctx, *t)
}

func (v views) withFonctions(ctx context.Context, t domain.TypeStructure) (domain.TypeStructureWithFonctionsView, error) {
	tv, err := v.typeStructure(ctx, t)
	if err != nil {
		return domain.TypeStructureWithFonctionsView{}, err
	}
	positions, err := v.positions(ctx, t.ID)
	if err != nil {
		return domain.TypeStructureWithFonctionsView{}, err
	}
	return domain.TypeStructureWithFonctionsView{TypeStructureView: tv, Fonctions: positions}, nil
}

func (v views) positions(ctx context.Context, typeID int64) ([]domain.FonctionPositionView, error) {
	links, err := v.r.TypeStructures.ListFonctions(ctx, typeID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.FonctionPositionView, 0, len(links))
	for _, l := range links {
		f, err := v.r.Fonctions.GetByID(ctx, l.FonctionID)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.FonctionPositionView{Fonction: f.View(), Nombre: l.NombrePosition})
	}
	return out, nil
}

func (v views) medias(ctx context.Context, structureID int64) ([]domain.MediaView, error) {
	ms, err := v.r.Medias.ListByStructure(ctx, structureID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.MediaView, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.View())
	}
	return out, nil
}

func (v views) structure(ctx context.Context, s domain.Structure) (domain.StructureView, error) {
	typ, err := v.typeStructureByID(ctx, s.TypeStructureID)
	if err != nil {
		return domain.StructureView{}, err
	}
	arr, err := v.arrondissementByID(ctx, s.ArrondissementID)
	if err != nil {
		return domain.StructureView{}, err
	}
	medias, err := v.medias(ctx, s.ID)
	if err != nil {
		return domain.StructureView{}, err
	}
	return domain.NewStructureView(s, typ, arr, medias), nil
}

func (v views) structureByID(ctx context.Context, id int64) (domain.StructureView, error) {
	s, err := v.r.Structures.GetByID(ctx, id)
	if err != nil {
		return domain.StructureView{}, err
	}
	return v.structure(ctx, *s)
}

func (v views) structures(ctx context.Context, list []domain.Structure) ([]domain.StructureView, error) {
	out := make([]domain.StructureView, 0, len(list))
	for _, s := range list {
		sv, err := v.structure(ctx, s)
		if err != nil {
			return nil, err
		}
		out = append(out, sv)
	}
	return out, nil
}

// short returns the short view of s, embedding the full view of its parent.
func (v views) short(ctx context.Context, s domain.Structure) (domain.StructureShortView, error) {
	if s.ParentID == nil {
		return domain.NewStructureShortView(s, nil), nil
	}
	parent, err := v.structureByID(ctx, *s.ParentID)
	if err != nil {
		return domain.StructureShortView{}, err
	}
	return domain.NewStructureShortView(s, &parent), nil
}

func (v views) shorts(ctx context.Context, list []domain.Structure) ([]domain.StructureShortView, error) {
	out := make([]domain.StructureShortView, 0, len(list))
	for _, s := range list {
		sv, err := v.short(ctx, s)
		if err != nil {
			return nil, err
		}
		out = append(out, sv)
	}
	return out, nil
}

// detail returns the view of s with its parent's short view. The ancestor
// chain is checked first so that a corrupted parent loop fails instead of
// recursing.
func (v views) detail(ctx context.Context, s domain.Structure) (domain.StructureDetailView, error) {
	if _, err := domain.Ancestors(s, v.loadStructure(ctx)); err != nil {
		return domain.StructureDetailView{}, err
	}
	full, err := v.structure(ctx, s)
	if err != nil {
		return domain.StructureDetailView{}, err
	}
	if s.ParentID == nil {
		return full.Detail(nil), nil
	}
	p, err := v.r.Structures.GetByID(ctx, *s.ParentID)
	if err != nil {
		return domain.StructureDetailView{}, err
	}
	ps, err := v.short(ctx, *p)
	if err != nil {
		return domain.StructureDetailView{}, err
	}
	return full.Detail(&ps), nil
}

func (v views) membre(ctx context.Context, m domain.Membre) (domain.MembreView, error) {
	arr, err := v.arrondissementByID(ctx, m.ArrondissementID)
	if err != nil {
		return domain.MembreView{}, err
	}

	var consecratoire *domain.StructureView
	if m.ConsecrationStructureID != nil {
		sv, err := v.structureByID(ctx, *m.ConsecrationStructureID)
		if err != nil {
			return domain.MembreView{}, err
		}
		consecratoire = &sv
	}

	var avatar *domain.MediaView
	if m.AvatarID != nil {
		media, err := v.r.Medias.GetByID(ctx, *m.AvatarID)
		if err != nil {
			return domain.MembreView{}, err
		}
		mv := media.View()
		avatar = &mv
	}

	affectations, err := v.r.Affectations.ListByMembre(ctx, m.ID)
	if err != nil {
		return domain.MembreView{}, err
	}
	history := make([]domain.AffectationView, 0, len(affectations))
	for _, a := range affectations {
		s, err := v.r.Structures.GetByID(ctx, a.StructureID)
		if err != nil {
			return domain.MembreView{}, err
		}
		sv, err := v.short(ctx, *s)
		if err != nil {
			return domain.MembreView{}, err
		}
		f, err := v.r.Fonctions.GetByID(ctx, a.FonctionID)
		if err != nil {
			return domain.MembreView{}, err
		}
		history = append(history, domain.AffectationView{
			Structure:       sv,
			Fonction:        f.View(),
			DateAffectation: a.DateAffectation,
			Actuel:          a.Actuel,
		})
	}

	return domain.NewMembreView(m, arr, consecratoire, avatar, history), nil
}

func (v views) membres(ctx context.Context, list []domain.Membre) ([]domain.MembreView, error) {
	out := make([]domain.MembreView, 0, len(list))
	for _, m := range list {
		mv, err := v.membre(ctx, m)
		if err != nil {
			return nil, err
		}
		out = append(out, mv)
	}
	return out, nil
}

func (v views) loadType(ctx context.Context) func(int64) (domain.TypeStructure, error) {
	return func(id int64) (domain.TypeStructure, error) {
		t, err := v.r.TypeStructures.GetByID(ctx, id)
		if err != nil {
			return domain.TypeStructure{}, err
		}
		return *t, nil
	}
}

func (v views) loadStructure(ctx context.Context) func(int64) (domain.Structure, error) {
	return func(id int64) (domain.Structure, error) {
		s, err := v.r.Structures.GetByID(ctx, id)
		if err != nil {
			return domain.Structure{}, err
		}
		return *s, nil
	}
}
