package directory

import (
	"context"
	"log/slog"

	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/store"
	"github.com/epccam/directory-api/internal/validate"
)

const (
	departementExists        = "That departement already exist"
	departementExistsOnWrite = "That Departement already exist"
)

// DepartementService manages departements.
type DepartementService interface {
	Create(ctx context.Context, in validate.DepartementInput) (domain.DepartementView, error)
	Update(ctx context.Context, id int64, in validate.DepartementInput) (domain.DepartementView, error)
	Delete(ctx context.Context, id int64) (string, error)
	Get(ctx context.Context, id int64) (domain.DepartementView, error)
	Search(ctx context.Context, name string) ([]domain.DepartementView, error)
	List(ctx context.Context) ([]domain.DepartementView, error)
	// Arrondissements lists the arrondissements of a departement.
	Arrondissements(ctx context.Context, departementID int64) ([]domain.ArrondissementView, error)
}

type departementService struct {
	base
}

// NewDepartementService creates a DepartementService.
func NewDepartementService(uow store.UnitOfWork, logger *slog.Logger) (DepartementService, error) {
	b, err := newBase(uow, logger, "departement_service")
	if err != nil {
		return nil, err
	}
	return &departementService{base: b}, nil
}

func departementID(d *domain.Departement) int64 { return d.ID }

func (s *departementService) Create(ctx context.Context, in validate.DepartementInput) (domain.DepartementView, error) {
	if fe := validate.Struct(in); fe != nil {
		return domain.DepartementView{}, invalid(fe)
	}
	d := domain.Departement{Name: in.Name, RegionID: in.Region}
	var region *domain.Region
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
		var err error
		if region, err = r.Regions.GetByID(ctx, in.Region); err != nil {
			return referenceError("create departement", "region", in.Region, err)
		}
		taken, err := nameTaken(ctx, r.Departements.GetByName, departementID, in.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			return domain.NewConflictError(departementExists, nil)
		}
		return r.Departements.Create(ctx, &d)
	})
	if err != nil {
		return domain.DepartementView{}, storeError("create departement", err, departementExists)
	}
	s.log(ctx).Info("departement created", slog.Int64("departement_id", d.ID))
	return domain.NewDepartementView(d, *region), nil
}

func (s *departementService) Update(ctx context.Context, id int64, in validate.DepartementInput) (domain.DepartementView, error) {
	if fe := validate.Struct(in); fe != nil {
		return domain.DepartementView{}, invalid(fe)
	}
	var (
		d      *domain.Departement
		region *domain.Region
	)
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
		var err error
		if d, err = r.Departements.GetByID(ctx, id); err != nil {
			return err
		}
		if region, err = r.Regions.GetByID(ctx, in.Region); err != nil {
			return referenceError("update departement", "region", in.Region, err)
		}
		taken, err := nameTaken(ctx, r.Departements.GetByName, departementID, in.Name, id)
		if err != nil {
			return err
		}
		if taken {
			return domain.NewConflictError(departementExistsOnWrite, nil)
		}
		d.Name = in.Name
		d.RegionID = in.Region
		return r.Departements.Update(ctx, d)
	})
	if err != nil {
		return domain.DepartementView{}, storeError("update departement", err, departementExistsOnWrite)
	}
	return domain.NewDepartementView(*d, *region), nil
}

func (s *departementService) Delete(ctx context.Context, id int64) (string, error) {
	if err := s.uow.Repos().Departements.Delete(ctx, id); err != nil {
		return "", storeError("delete departement", err, "")
	}
	s.log(ctx).Info("departement deleted", slog.Int64("departement_id", id))
	return deletedMessage("departement", id), nil
}

func (s *departementService) Get(ctx context.Context, id int64) (domain.DepartementView, error) {
	d, err := s.uow.Repos().Departements.GetByID(ctx, id)
	if err != nil {
		return domain.DepartementView{}, storeError("get departement", err, "")
	}
	view, err := s.views().departement(ctx, *d)
	if err != nil {
		return domain.DepartementView{}, storeError("get departement", err, "")
	}
	return view, nil
}

func (s *departementService) Search(ctx context.Context, name string) ([]domain.DepartementView, error) {
	deps, err := s.uow.Repos().Departements.SearchByName(ctx, name)
	if err != nil {
		return nil, storeError("search departements", err, "")
	}
	return s.departementViews(ctx, deps)
}

func (s *departementService) List(ctx context.Context) ([]domain.DepartementView, error) {
	deps, err := s.uow.Repos().Departements.List(ctx)
	if err != nil {
		return nil, storeError("list departements", err, "")
	}
	return s.departementViews(ctx, deps)
}

func (s *departementService) Arrondissements(ctx context.Context, id int64) ([]domain.ArrondissementView, error) {
	r := s.uow.Repos()
	d, err := r.Departements.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("get departement", err, "")
	}
	dv, err := s.views().departement(ctx, *d)
	if err != nil {
		return nil, storeError("get departement", err, "")
	}
	arrs, err := r.Arrondissements.ListByDepartement(ctx, id)
	if err != nil {
		return nil, storeError("list arrondissements", err, "")
	}
	out := make([]domain.ArrondissementView, 0, len(arrs))
	for _, a := range arrs {
		out = append(out, domain.NewArrondissementView(a, dv))
	}
	return out, nil
}

func (s *departementService) departementViews(ctx context.Context, deps []domain.Departement) ([]domain.DepartementView, error) {
	v := s.views()
	out := make([]domain.DepartementView, 0, len(deps))
	for _, d := range deps {
		dv, err := v.departement(ctx, d)
		if err != nil {
			return nil, storeError("list departements", err, "")
		}
		out = append(out, dv)
	}
	return out, nil
}
