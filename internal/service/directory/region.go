package directory

import (
	"context"
	"log/slog"

	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/store"
	"github.com/epccam/directory-api/internal/validate"
)

const regionExists = "That region already exist"

// RegionService manages regions.
type RegionService interface {
	Create(ctx context.Context, in validate.NameInput) (domain.RegionView, error)
	Update(ctx context.Context, id int64, in validate.NameInput) (domain.RegionView, error)
	// Delete returns the confirmation message.
	Delete(ctx context.Context, id int64) (string, error)
	Get(ctx context.Context, id int64) (domain.RegionView, error)
	Search(ctx context.Context, name string) ([]domain.RegionView, error)
	List(ctx context.Context) ([]domain.RegionView, error)
	// Departements lists the departements of a region.
	Departements(ctx context.Context, regionID int64) ([]domain.DepartementView, error)
}

type regionService struct {
	base
}

// NewRegionService creates a RegionService.
func NewRegionService(uow store.UnitOfWork, logger *slog.Logger) (RegionService, error) {
	b, err := newBase(uow, logger, "region_service")
	if err != nil {
		return nil, err
	}
	return &regionService{base: b}, nil
}

func regionID(r *domain.Region) int64 { return r.ID }

func (s *regionService) Create(ctx context.Context, in validate.NameInput) (domain.RegionView, error) {
	if fe := validate.Struct(in); fe != nil {
		return domain.RegionView{}, invalid(fe)
	}
	region := domain.Region{Name: in.Name}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
		taken, err := nameTaken(ctx, r.Regions.GetByName, regionID, in.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			return domain.NewConflictError(regionExists, nil)
		}
		return r.Regions.Create(ctx, &region)
	})
	if err != nil {
		return domain.RegionView{}, storeError("create region", err, regionExists)
	}
	s.log(ctx).Info("region created", slog.Int64("region_id", region.ID))
	return region.View(), nil
}

func (s *regionService) Update(ctx context.Context, id int64, in validate.NameInput) (domain.RegionView, error) {
	if fe := validate.Struct(in); fe != nil {
		return domain.RegionView{}, invalid(fe)
	}
	var region *domain.Region
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
		var err error
		if region, err = r.Regions.GetByID(ctx, id); err != nil {
			return err
		}
		taken, err := nameTaken(ctx, r.Regions.GetByName, regionID, in.Name, id)
		if err != nil {
			return err
		}
		if taken {
			return domain.NewConflictError(regionExists, nil)
		}
		region.Name = in.Name
		return r.Regions.Update(ctx, region)
	})
	if err != nil {
		return domain.RegionView{}, storeError("update region", err, regionExists)
	}
	return region.View(), nil
}

func (s *regionService) Delete(ctx context.Context, id int64) (string, error) {
	if err := s.uow.Repos().Regions.Delete(ctx, id); err != nil {
		return "", storeError("delete region", err, "")
	}
	s.log(ctx).Info("region deleted", slog.Int64("region_id", id))
	return deletedMessage("region", id), nil
}

func (s *regionService) Get(ctx context.Context, id int64) (domain.RegionView, error) {
	region, err := s.uow.Repos().Regions.GetByID(ctx, id)
	if err != nil {
		return domain.RegionView{}, storeError("get region", err, "")
	}
	return region.View(), nil
}

func (s *regionService) Search(ctx context.Context, name string) ([]domain.RegionView, error) {
	regions, err := s.uow.Repos().Regions.SearchByName(ctx, name)
	if err != nil {
		return nil, storeError("search regions", err, "")
	}
	return regionViews(regions), nil
}

func (s *regionService) List(ctx context.Context) ([]domain.RegionView, error) {
	regions, err := s.uow.Repos().Regions.List(ctx)
	if err != nil {
		return nil, storeError("list regions", err, "")
	}
	return regionViews(regions), nil
}

func (s *regionService) Departements(ctx context.Context, id int64) ([]domain.DepartementView, error) {
	r := s.uow.Repos()
	region, err := r.Regions.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("get region", err, "")
	}
	deps, err := r.Departements.ListByRegion(ctx, id)
	if err != nil {
		return nil, storeError("list departements", err, "")
	}
	out := make([]domain.DepartementView, 0, len(deps))
	for _, d := range deps {
		out = append(out, domain.NewDepartementView(d, *region))
	}
	return out, nil
}

func regionViews(regions []domain.Region) []domain.RegionView {
	out := make([]domain.RegionView, 0, len(regions))
	for _, r := range regions {
		out = append(out, r.View())
	}
	return out
}
