package directory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/store"
	"github.com/epccam/directory-api/internal/validate"
)

// StructureDetail is what reading one structure returns: the structure with
// its parent, its medias and its direct sub-structures.
type StructureDetail struct {
	Data          domain.StructureDetailView
	Medias        []domain.MediaView
	Substructures []domain.StructureShortView
}

// StructureService manages structures and their medias.
type StructureService interface {
	Create(ctx context.Context, in validate.StructureInput) (domain.StructureView, error)
	Update(ctx context.Context, id int64, in validate.StructureInput) (domain.StructureView, error)
	// Delete removes the structure, its sub-structures and its medias.
	Delete(ctx context.Context, id int64) (string, error)
	Get(ctx context.Context, id int64) (StructureDetail, error)
	Search(ctx context.Context, name string) ([]domain.StructureView, error)
	List(ctx context.Context) ([]domain.StructureView, error)

	// AttachMedia stores an image and links it to the structure.
	AttachMedia(ctx context.Context, id int64, u Upload) (domain.StructureView, error)
	// DetachMedia deletes one of the structure's medias and its file.
	DetachMedia(ctx context.Context, id, mediaID int64) (domain.StructureView, error)
}

type structureService struct {
	base
	files FileStore
}

// NewStructureService creates a StructureService. files receives uploaded
// images.
func NewStructureService(uow store.UnitOfWork, files FileStore, logger *slog.Logger) (StructureService, error) {
	b, err := newBase(uow, logger, "structure_service")
	if err != nil {
		return nil, err
	}
	if files == nil {
		return nil, fmt.Errorf("directory: file store cannot be nil")
	}
	return &structureService{base: b, files: files}, nil
}

func structureID(s *domain.Structure) int64 { return s.ID }

func structureExists(name string) string {
	return fmt.Sprintf("A structure with the name << %s >> already exist", name)
}

// checkStructureRefs verifies the type, arrondissement, name and parent of a
// structure being written. id is zero for a new structure.
func checkStructureRefs(ctx context.Context, r store.Repos, id int64, in validate.StructureInput) error {
	if _, err := r.TypeStructures.GetByID(ctx, in.Type); err != nil {
		return referenceError("check structure type", "structure type", in.Type, err)
	}
	if _, err := r.Arrondissements.GetByID(ctx, in.Arrondissement); err != nil {
		return referenceError("check arrondissement", "sub-division", in.Arrondissement, err)
	}
	taken, err := nameTaken(ctx, r.Structures.GetByName, structureID, in.Name, id)
	if err != nil {
		return err
	}
	if taken {
		return domain.NewConflictError(structureExists(in.Name), nil)
	}
	if in.Parent == nil {
		return nil
	}
	if _, err := r.Structures.GetByID(ctx, *in.Parent); err != nil {
		return referenceError("check parent", "structure", *in.Parent, err)
	}
	if id == 0 {
		return nil
	}
	return parentError(domain.CheckParent(id, in.Parent, views{r: r}.loadStructure(ctx)))
}

func applyStructureInput(s *domain.Structure, in validate.StructureInput) {
	adresse := in.Adresse
	s.Name = in.Name
	s.Adresse = &adresse
	s.Contacts = in.Contacts
	s.TypeStructureID = in.Type
	s.ArrondissementID = in.Arrondissement
	s.ParentID = in.Parent
	if in.NombreCommunicant != nil {
		s.NombreCommunicant = *in.NombreCommunicant
	}
	if in.NombreBaptise != nil {
		s.NombreBaptise = *in.NombreBaptise
	}
}

func (s *structureService) Create(ctx context.Context, in validate.StructureInput) (domain.StructureView, error) {
	if fe := validate.Struct(in); fe != nil {
		return domain.StructureView{}, invalid(fe)
	}
	var st domain.Structure
	applyStructureInput(&st, in)
	var view domain.StructureView
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
		if err := checkStructureRefs(ctx, r, 0, in); err != nil {
			return err
		}
		if err := r.Structures.Create(ctx, &st); err != nil {
			return err
		}
		var err error
		view, err = views{r: r}.structure(ctx, st)
		return err
	})
	if err != nil {
		return domain.StructureView{}, storeError("create structure", err, structureExists(in.Name))
	}
	s.log(ctx).Info("structure created", slog.Int64("structure_id", st.ID))
	return view, nil
}

func (s *structureService) Update(ctx context.Context, id int64, in validate.StructureInput) (domain.StructureView, error) {
	if fe := validate.Struct(in); fe != nil {
		return domain.StructureView{}, invalid(fe)
	}
	var view domain.StructureView
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
		st, err := r.Structures.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := checkStructureRefs(ctx, r, id, in); err != nil {
			return err
		}
		applyStructureInput(st, in)
		if err := r.Structures.Update(ctx, st); err != nil {
			return err
		}
		view, err = views{r: r}.structure(ctx, *st)
		return err
	})
	if err != nil {
		return domain.StructureView{}, storeError("update structure", err, structureExists(in.Name))
	}
	return view, nil
}

func (s *structureService) Delete(ctx context.Context, id int64) (string, error) {
	var medias []domain.Media
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
		var err error
		if medias, err = r.Medias.ListByStructure(ctx, id); err != nil {
			return err
		}
		return r.Structures.Delete(ctx, id)
	})
	if err != nil {
		return "", storeError("delete structure", err, "")
	}
	log := s.log(ctx)
	for _, m := range medias {
		discardFile(ctx, log, s.files, m.FileName, false)
	}
	log.Info("structure deleted", slog.Int64("structure_id", id), slog.Int("media_count", len(medias)))
	return deletedMessage("structure", id), nil
}

func (s *structureService) Get(ctx context.Context, id int64) (StructureDetail, error) {
	r := s.uow.Repos()
	v := s.views()
	st, err := r.Structures.GetByID(ctx, id)
	if err != nil {
		return StructureDetail{}, storeError("get structure", err, "")
	}
	data, err := v.detail(ctx, *st)
	if err != nil {
		return StructureDetail{}, storeError("get structure", err, "")
	}
	medias, err := v.medias(ctx, id)
	if err != nil {
		return StructureDetail{}, storeError("get structure", err, "")
	}
	children, err := r.Structures.ListChildren(ctx, id)
	if err != nil {
		return StructureDetail{}, storeError("get structure", err, "")
	}
	subs, err := v.shorts(ctx, children)
	if err != nil {
		return StructureDetail{}, storeError("get structure", err, "")
	}
	return StructureDetail{Data: data, Medias: medias, Substructures: subs}, nil
}

func (s *structureService) Search(ctx context.Context, name string) ([]domain.StructureView, error) {
	list, err := s.uow.Repos().Structures.SearchByName(ctx, name)
	if err != nil {
		return nil, storeError("search structures", err, "")
	}
	out, err := s.views().structures(ctx, list)
	if err != nil {
		return nil, storeError("search structures", err, "")
	}
	return out, nil
}

func (s *structureService) List(ctx context.Context) ([]domain.StructureView, error) {
	list, err := s.uow.Repos().Structures.List(ctx)
	if err != nil {
		return nil, storeError("list structures", err, "")
	}
	out, err := s.views().structures(ctx, list)
	if err != nil {
		return nil, storeError("list structures", err, "")
	}
	return out, nil
}

func (s *structureService) AttachMedia(ctx context.Context, id int64, u Upload) (domain.StructureView, error) {
	if _, err := s.uow.Repos().Structures.GetByID(ctx, id); err != nil {
		return domain.StructureView{}, storeError("get structure", err, "")
	}
	m, err := saveUpload(ctx, s.files, u, false)
	if err != nil {
		return domain.StructureView{}, err
	}
	m.StructureID = &id

	var view domain.StructureView
	err = s.uow.WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
		if err := r.Medias.Create(ctx, &m); err != nil {
			return err
		}
		var err error
		view, err = views{r: r}.structureByID(ctx, id)
		return err
	})
	if err != nil {
		discardFile(ctx, s.log(ctx), s.files, m.FileName, false)
		return domain.StructureView{}, storeError("attach media", err, "")
	}
	s.log(ctx).Info("media attached to structure",
		slog.Int64("structure_id", id),
		slog.Int64("media_id", m.ID))
	return view, nil
}

func (s *structureService) DetachMedia(ctx context.Context, id, mediaID int64) (domain.StructureView, error) {
	var (
		m    *domain.Media
		view domain.StructureView
	)
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
		if _, err := r.Structures.GetByID(ctx, id); err != nil {
			return err
		}
		var err error
		if m, err = r.Medias.GetByID(ctx, mediaID); err != nil {
			return err
		}
		if m.StructureID == nil || *m.StructureID != id {
			return domain.NewResourceNotFoundError()
		}
		if err := r.Medias.Delete(ctx, mediaID); err != nil {
			return err
		}
		view, err = views{r: r}.structureByID(ctx, id)
		return err
	})
	if err != nil {
		return domain.StructureView{}, storeError("detach media", err, "")
	}
	discardFile(ctx, s.log(ctx), s.files, m.FileName, false)
	s.log(ctx).Info("media detached from structure",
		slog.Int64("structure_id", id),
		slog.Int64("media_id", mediaID))
	return view, nil
}
