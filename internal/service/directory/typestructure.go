package directory

import (
	"context"
	"errors"
	"log/slog"

	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/store"
	"github.com/epccam/directory-api/internal/validate"
)

const (
	typeStructureExists = "That structure type already exist"
	fonctionLinked      = "That fonction is already linked to this structure type"
)

// TypeStructureService manages type-structures and the fonctions they
// define positions for.
type TypeStructureService interface {
	Create(ctx context.Context, in validate.TypeStructureInput) (domain.TypeStructureView, error)
	Update(ctx context.Context, id int64, in validate.TypeStructureInput) (domain.TypeStructureView, error)
	Delete(ctx context.Context, id int64) (string, error)
	Get(ctx context.Context, id int64) (domain.TypeStructureView, error)
	Search(ctx context.Context, name string) ([]domain.TypeStructureView, error)
	List(ctx context.Context) ([]domain.TypeStructureView, error)

	// Fonctions lists the fonctions linked to a type with their position
	// counts.
	Fonctions(ctx context.Context, id int64) ([]domain.FonctionPositionView, error)
	// Structures lists the structures of a type.
	Structures(ctx context.Context, id int64) ([]domain.StructureShortView, error)
	// LinkFonction gives a type nombre positions of a fonction.
	LinkFonction(ctx context.Context, id, fonctionID int64, in validate.FonctionLinkInput) (domain.TypeStructureFonctionView, error)
	// UnlinkFonction removes a link and returns the type with its remaining
	// fonctions.
	UnlinkFonction(ctx context.Context, id, fonctionID int64) (domain.TypeStructureWithFonctionsView, error)
}

type typeStructureService struct {
	base
}

// NewTypeStructureService creates a TypeStructureService.
func NewTypeStructureService(uow store.UnitOfWork, logger *slog.Logger) (TypeStructureService, error) {
	b, err := newBase(uow, logger, "typestructure_service")
	if err != nil {
		return nil, err
	}
	return &typeStructureService{base: b}, nil
}

func typeStructureID(t *domain.TypeStructure) int64 { return t.ID }

// checkTypeParent verifies that parentID exists and that adopting it keeps the
// tree acyclic. id is zero for a new type.
func checkTypeParent(ctx context.Context, r store.Repos, id int64, parentID *int64) error {
	if parentID == nil {
		return nil
	}
	if _, err := r.TypeStructures.GetByID(ctx, *parentID); err != nil {
		return referenceError("check parent", "structure type", *parentID, err)
	}
	if id == 0 {
		return nil
	}
	return parentError(domain.CheckParent(id, parentID, views{r: r}.loadType(ctx)))
}

func (s *typeStructureService) Create(ctx context.Context, in validate.TypeStructureInput) (domain.TypeStructureView, error) {
	if fe := validate.Struct(in); fe != nil {
		return domain.TypeStructureView{}, invalid(fe)
	}
	t := domain.TypeStructure{Name: in.Name, ParentID: in.Parent}
	var view domain.TypeStructureView
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
		taken, err := nameTaken(ctx, r.TypeStructures.GetByName, typeStructureID, in.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			return domain.NewConflictError(typeStructureExists, nil)
		}
		if err := checkTypeParent(ctx, r, 0, in.Parent); err != nil {
			return err
		}
		if err := r.TypeStructures.Create(ctx, &t); err != nil {
			return err
		}
		view, err = views{r: r}.typeStructure(ctx, t)
		return err
	})
	if err != nil {
		return domain.TypeStructureView{}, storeError("create structure type", err, typeStructureExists)
	}
	s.log(ctx).Info("structure type created", slog.Int64("typestructure_id", t.ID))
	return view, nil
}

func (s *typeStructureService) Update(ctx context.Context, id int64, in validate.TypeStructureInput) (domain.TypeStructureView, error) {
	if fe := validate.Struct(in); fe != nil {
		return domain.TypeStructureView{}, invalid(fe)
	}
	var view domain.TypeStructureView
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
		t, err := r.TypeStructures.GetByID(ctx, id)
		if err != nil {
			return err
		}
		taken, err := nameTaken(ctx, r.TypeStructures.GetByName, typeStructureID, in.Name, id)
		if err != nil {
			return err
		}
		if taken {
			return domain.NewConflictError(typeStructureExists, nil)
		}
		if err := checkTypeParent(ctx, r, id, in.Parent); err != nil {
			return err
		}
		t.Name = in.Name
		t.ParentID = in.Parent
		if err := r.TypeStructures.Update(ctx, t); err != nil {
			return err
		}
		view, err = views{r: r}.typeStructure(ctx, *t)
		return err
	})
	if err != nil {
		return domain.TypeStructureView{}, storeError("update structure type", err, typeStructureExists)
	}
	return view, nil
}

func (s *typeStructureService) Delete(ctx context.Context, id int64) (string, error) {
	if err := s.uow.Repos().TypeStructures.Delete(ctx, id); err != nil {
		return "", storeError("delete structure type", err, "")
	}
	s.log(ctx).Info("structure type deleted", slog.Int64("typestructure_id", id))
	return deletedMessage("structure type", id), nil
}

func (s *typeStructureService) Get(ctx context.Context, id int64) (domain.TypeStructureView, error) {
	view, err := s.views().typeStructureByID(ctx, id)
	if err != nil {
		return domain.TypeStructureView{}, storeError("get structure type", err, "")
	}
	return view, nil
}

func (s *typeStructureService) Search(ctx context.Context, name string) ([]domain.TypeStructureView, error) {
	ts, err := s.uow.Repos().TypeStructures.SearchByName(ctx, name)
	if err != nil {
		return nil, storeError("search structure types", err, "")
	}
	return s.typeViews(ctx, ts)
}

func (s *typeStructureService) List(ctx context.Context) ([]domain.TypeStructureView, error) {
	ts, err := s.uow.Repos().TypeStructures.List(ctx)
	if err != nil {
		return nil, storeError("list structure types", err, "")
	}
	return s.typeViews(ctx, ts)
}

func (s *typeStructureService) Fonctions(ctx context.Context, id int64) ([]domain.FonctionPositionView, error) {
	if _, err := s.uow.Repos().TypeStructures.GetByID(ctx, id); err != nil {
		return nil, storeError("get structure type", err, "")
	}
	positions, err := s.views().positions(ctx, id)
	if err != nil {
		return nil, storeError("list structure type fonctions", err, "")
	}
	return positions, nil
}

func (s *typeStructureService) Structures(ctx context.Context, id int64) ([]domain.StructureShortView, error) {
	r := s.uow.Repos()
	if _, err := r.TypeStructures.GetByID(ctx, id); err != nil {
		return nil, storeError("get structure type", err, "")
	}
	list, err := r.Structures.ListByType(ctx, id)
	if err != nil {
		return nil, storeError("list structures", err, "")
	}
	shorts, err := s.views().shorts(ctx, list)
	if err != nil {
		return nil, storeError("list structures", err, "")
	}
	return shorts, nil
}

func (s *typeStructureService) LinkFonction(ctx context.Context, id, fonctionID int64, in validate.FonctionLinkInput) (domain.TypeStructureFonctionView, error) {
	if fe := validate.Struct(in); fe != nil {
		return domain.TypeStructureFonctionView{}, invalid(fe)
	}
	var view domain.TypeStructureFonctionView
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
		t, err := r.TypeStructures.GetByID(ctx, id)
		if err != nil {
			return err
		}
		f, err := r.Fonctions.GetByID(ctx, fonctionID)
		if err != nil {
			return err
		}
		_, err = r.TypeStructures.GetFonctionLink(ctx, id, fonctionID)
		switch {
		case err == nil:
			return domain.NewConflictError(fonctionLinked, nil)
		case !errors.Is(err, store.ErrNotFound):
			return err
		}
		link := domain.TypeStructureFonction{TypeStructureID: id, FonctionID: fonctionID, NombrePosition: *in.Nombre}
		if err := r.TypeStructures.LinkFonction(ctx, &link); err != nil {
			return err
		}
		tv, err := views{r: r}.typeStructure(ctx, *t)
		if err != nil {
			return err
		}
		view = domain.TypeStructureFonctionView{TypeStructure: tv, Fonction: f.View(), Nombre: link.NombrePosition}
		return nil
	})
	if err != nil {
		return domain.TypeStructureFonctionView{}, storeError("link fonction", err, fonctionLinked)
	}
	s.log(ctx).Info("fonction linked to structure type",
		slog.Int64("typestructure_id", id),
		slog.Int64("fonction_id", fonctionID))
	return view, nil
}

func (s *typeStructureService) UnlinkFonction(ctx context.Context, id, fonctionID int64) (domain.TypeStructureWithFonctionsView, error) {
	var view domain.TypeStructureWithFonctionsView
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
		if err := r.TypeStructures.UnlinkFonction(ctx, id, fonctionID); err != nil {
			return err
		}
		t, err := r.TypeStructures.GetByID(ctx, id)
		if err != nil {
			return err
		}
		view, err = views{r: r}.withFonctions(ctx, *t)
		return err
	})
	if err != nil {
		return domain.TypeStructureWithFonctionsView{}, storeError("unlink fonction", err, "")
	}
	s.log(ctx).Info("fonction unlinked from structure type",
		slog.Int64("typestructure_id", id),
		slog.Int64("fonction_id", fonctionID))
	return view, nil
}

func (s *typeStructureService) typeViews(ctx context.Context, ts []domain.TypeStructure) ([]domain.TypeStructureView, error) {
	v := s.views()
	out := make([]domain.TypeStructureView, 0, len(ts))
	for _, t := range ts {
		tv, err := v.typeStructure(ctx, t)
		if err != nil {
			return nil, storeError("list structure types", err, "")
		}
		out = append(out, tv)
	}
	return out, nil
}
