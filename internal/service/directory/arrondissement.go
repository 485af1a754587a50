package directory

import (
	"context"
	"log/slog"

	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/store"
	"github.com/epccam/directory-api/internal/validate"
)

const (
	arrondissementExists        = "That arrondissement already exist"
	arrondissementExistsOnWrite = "That Arrondissement already exist"
)

// ArrondissementService manages arrondissements (sub-divisions).
type ArrondissementService interface {
	Create(ctx context.Context, in validate.ArrondissementInput) (domain.ArrondissementView, error)
	Update(ctx context.Context, id int64, in validate.ArrondissementInput) (domain.ArrondissementView, error)
	Delete(ctx context.Context, id int64) (string, error)
	Get(ctx context.Context, id int64) (domain.ArrondissementView, error)
	Search(ctx context.Context, name string) ([]domain.ArrondissementView, error)
	List(ctx context.Context) ([]domain.ArrondissementView, error)
}

type arrondissementService struct {
	base
}

// NewArrondissementService creates an ArrondissementService.
func NewArrondissementService(uow store.UnitOfWork, logger *slog.Logger) (ArrondissementService, error) {
	b, err := newBase(uow, logger, "arrondissement_service")
	if err != nil {
		return nil, err
	}
	return &arrondissementService{base: b}, nil
}

func arrondissementID(a *domain.Arrondissement) int64 { return a.ID }

func (s *arrondissementService) Create(ctx context.Context, in validate.ArrondissementInput) (domain.ArrondissementView, error) {
	if fe := validate.Struct(in); fe != nil {
		return domain.ArrondissementView{}, invalid(fe)
	}
	a := domain.Arrondissement{Name: in.Name, DepartementID: in.Departement}
	var view domain.ArrondissementView
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
		d, err := r.Departements.GetByID(ctx, in.Departement)
		if err != nil {
			return referenceError("create arrondissement", "departement", in.Departement, err)
		}
		taken, err := nameTaken(ctx, r.Arrondissements.GetByName, arrondissementID, in.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			return domain.NewConflictError(arrondissementExists, nil)
		}
		if err := r.Arrondissements.Create(ctx, &a); err != nil {
			return err
		}
		dv, err := views{r: r}.departement(ctx, *d)
		if err != nil {
			return err
		}
		view = domain.NewArrondissementView(a, dv)
		return nil
	})
	if err != nil {
		return domain.ArrondissementView{}, storeError("create arrondissement", err, arrondissementExists)
	}
	s.log(ctx).Info("arrondissement created", slog.Int64("arrondissement_id", a.ID))
	return view, nil
}

func (s *arrondissementService) Update(ctx context.Context, id int64, in validate.ArrondissementInput) (domain.ArrondissementView, error) {
	if fe := validate.Struct(in); fe != nil {
		return domain.ArrondissementView{}, invalid(fe)
	}
	var view domain.ArrondissementView
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
		a, err := r.Arrondissements.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if _, err := r.Departements.GetByID(ctx, in.Departement); err != nil {
			return referenceError("update arrondissement", "departement", in.Departement, err)
		}
		taken, err := nameTaken(ctx, r.Arrondissements.GetByName, arrondissementID, in.Name, id)
		if err != nil {
			return err
		}
		if taken {
			return domain.NewConflictError(arrondissementExistsOnWrite, nil)
		}
		a.Name = in.Name
		a.DepartementID = in.Departement
		if err := r.Arrondissements.Update(ctx, a); err != nil {
			return err
		}
		view, err = views{r: r}.arrondissement(ctx, *a)
		return err
	})
	if err != nil {
		return domain.ArrondissementView{}, storeError("update arrondissement", err, arrondissementExistsOnWrite)
	}
	return view, nil
}

func (s *arrondissementService) Delete(ctx context.Context, id int64) (string, error) {
	if err := s.uow.Repos().Arrondissements.Delete(ctx, id); err != nil {
		return "", storeError("delete arrondissement", err, "")
	}
	s.log(ctx).Info("arrondissement deleted", slog.Int64("arrondissement_id", id))
	return deletedMessage("arrondissement", id), nil
}

func (s *arrondissementService) Get(ctx context.Context, id int64) (domain.ArrondissementView, error) {
	view, err := s.views().arrondissementByID(ctx, id)
	if err != nil {
		return domain.ArrondissementView{}, storeError("get arrondissement", err, "")
	}
	return view, nil
}

func (s *arrondissementService) Search(ctx context.Context, name string) ([]domain.ArrondissementView, error) {
	arrs, err := s.uow.Repos().Arrondissements.SearchByName(ctx, name)
	if err != nil {
		return nil, storeError("search arrondissements", err, "")
	}
	return s.arrondissementViews(ctx, arrs)
}

func (s *arrondissementService) List(ctx context.Context) ([]domain.ArrondissementView, error) {
	arrs, err := s.uow.Repos().Arrondissements.List(ctx)
	if err != nil {
		return nil, storeError("list arrondissements", err, "")
	}
	return s.arrondissementViews(ctx, arrs)
}

func (s *arrondissementService) arrondissementViews(ctx context.Context, arrs []domain.Arrondissement) ([]domain.ArrondissementView, error) {
	v := s.views()
	out := make([]domain.ArrondissementView, 0, len(arrs))
	for _, a := range arrs {
		av, err := v.arrondissement(ctx, a)
		if err != nil {
			return nil, storeError("list arrondissements", err, "")
		}
		out = append(out, av)
	}
	return out, nil
}
