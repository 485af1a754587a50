package directory

import (
	"context"
	"log/slog"

	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/store"
	"github.com/epccam/directory-api/internal/validate"
)

const fonctionExists = "That fonction already exist"

// FonctionService manages fonctions.
type FonctionService interface {
	Create(ctx context.Context, in validate.NameInput) (domain.FonctionView, error)
	Update(ctx context.Context, id int64, in validate.NameInput) (domain.FonctionView, error)
	Delete(ctx context.Context, id int64) (string, error)
	Get(ctx context.Context, id int64) (domain.FonctionView, error)
	Search(ctx context.Context, name string) ([]domain.FonctionView, error)
	List(ctx context.Context) ([]domain.FonctionView, error)
}

type fonctionService struct {
	base
}

// NewFonctionService creates a FonctionService.
func NewFonctionService(uow store.UnitOfWork, logger *slog.Logger) (FonctionService, error) {
	b, err := newBase(uow, logger, "fonction_service")
	if err != nil {
		return nil, err
	}
	return &fonctionService{base: b}, nil
}

func fonctionID(f *domain.Fonction) int64 { return f.ID }

func (s *fonctionService) Create(ctx context.Context, in validate.NameInput) (domain.FonctionView, error) {
	if fe := validate.Struct(in); fe != nil {
		return domain.FonctionView{}, invalid(fe)
	}
	f := domain.Fonction{Name: in.Name}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
		taken, err := nameTaken(ctx, r.Fonctions.GetByName, fonctionID, in.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			return domain.NewConflictError(fonctionExists, nil)
		}
		return r.Fonctions.Create(ctx, &f)
	})
	if err != nil {
		return domain.FonctionView{}, storeError("create fonction", err, fonctionExists)
	}
	s.log(ctx).Info("fonction created", slog.Int64("fonction_id", f.ID))
	return f.View(), nil
}

func (s *fonctionService) Update(ctx context.Context, id int64, in validate.NameInput) (domain.FonctionView, error) {
	if fe := validate.Struct(in); fe != nil {
		return domain.FonctionView{}, invalid(fe)
	}
	var f *domain.Fonction
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
		var err error
		if f, err = r.Fonctions.GetByID(ctx, id); err != nil {
			return err
		}
		taken, err := nameTaken(ctx, r.Fonctions.GetByName, fonctionID, in.Name, id)
		if err != nil {
			return err
		}
		if taken {
			return domain.NewConflictError(fonctionExists, nil)
		}
		f.Name = in.Name
		return r.Fonctions.Update(ctx, f)
	})
	if err != nil {
		return domain.FonctionView{}, storeError("update fonction", err, fonctionExists)
	}
	return f.View(), nil
}

func (s *fonctionService) Delete(ctx context.Context, id int64) (string, error) {
	if err := s.uow.Repos().Fonctions.Delete(ctx, id); err != nil {
		return "", storeError("delete fonction", err, "")
	}
	s.log(ctx).Info("fonction deleted", slog.Int64("fonction_id", id))
	return deletedMessage("fonction", id), nil
}

func (s *fonctionService) Get(ctx context.Context, id int64) (domain.FonctionView, error) {
	f, err := s.uow.Repos().Fonctions.GetByID(ctx, id)
	if err != nil {
		return domain.FonctionView{}, storeError("get fonction", err, "")
	}
	return f.View(), nil
}

func (s *fonctionService) Search(ctx context.Context, name string) ([]domain.FonctionView, error) {
	fs, err := s.uow.Repos().Fonctions.SearchByName(ctx, name)
	if err != nil {
		return nil, storeError("search fonctions", err, "")
	}
	return fonctionViews(fs), nil
}

func (s *fonctionService) List(ctx context.Context) ([]domain.FonctionView, error) {
	fs, err := s.uow.Repos().Fonctions.List(ctx)
	if err != nil {
		return nil, storeError("list fonctions", err, "")
	}
	return fonctionViews(fs), nil
}

func fonctionViews(fs []domain.Fonction) []domain.FonctionView {
	out := make([]domain.FonctionView, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.View())
	}
	return out
}
