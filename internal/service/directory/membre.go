package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/store"
	"github.com/epccam/directory-api/internal/validate"
)

const (
	invalidEntry  = "Invalid data entry"
	accountLinked = "That account is already linked to another membre"
)

// MembreService manages membres, their avatar, consecration and structure
// assignments.
type MembreService interface {
	Create(ctx context.Context, in validate.MembreInput) (domain.MembreView, error)
	Update(ctx context.Context, id int64, in validate.MembreInput) (domain.MembreView, error)
	Delete(ctx context.Context, id int64) (string, error)
	Get(ctx context.Context, id int64) (domain.MembreView, error)
	Search(ctx context.Context, name string) ([]domain.MembreView, error)
	List(ctx context.Context) ([]domain.MembreView, error)

	// Consecrate records the structure and date of a membre's consecration.
	Consecrate(ctx context.Context, id int64, in validate.ConsecrationInput) (domain.MembreView, error)
	// Assign records (or replaces) the membre's assignment to a structure.
	// Other assignments keep their actuel flag.
	Assign(ctx context.Context, id int64, in validate.AffectationInput) (domain.MembreView, error)
	// AttachAvatar stores an image as the membre's avatar, replacing any
	// previous one.
	AttachAvatar(ctx context.Context, id int64, u Upload) (domain.MembreView, error)
	// DetachAvatar deletes the membre's avatar.
	DetachAvatar(ctx context.Context, id, mediaID int64) (domain.MembreView, error)
}

type membreService struct {
	base
	files FileStore
}

// NewMembreService creates a MembreService. files receives avatar images.
func NewMembreService(uow store.UnitOfWork, files FileStore, logger *slog.Logger) (MembreService, error) {
	b, err := newBase(uow, logger, "membre_service")
	if err != nil {
		return nil, err
	}
	if files == nil {
		return nil, fmt.Errorf("directory: file store cannot be nil")
	}
	return &membreService{base: b, files: files}, nil
}

// prepareMembre validates in and copies it onto m.
func prepareMembre(m *domain.Membre, in validate.MembreInput) error {
	if fe := validate.Membre(in); fe != nil {
		return domain.NewInvalidPayloadError(invalidEntry, fe)
	}
	dob, err := validate.ParseDate(in.DOB)
	if err != nil {
		return domain.NewInvalidPayloadError(invalidEntry, map[string]string{"dob": "dob must be a valid date/datetime"})
	}
	m.FullName = in.FullName
	m.Genre = domain.Genre(in.Genre)
	m.DateOfBirth = dob
	m.PlaceOfBirth = in.POB
	m.Mother = in.Mother
	m.Father = in.Father
	m.MaritalStatus = domain.MaritalStatus(in.StatusM)
	m.Conjoint = in.Conjoint
	m.NbEnfant = *in.NbEnfant
	m.Contacts = in.Contacts
	m.Adresse = in.Adresse
	m.ArrondissementID = in.Arrondissement
	m.UserID = in.UserID
	return nil
}

// checkAccount verifies the user account exists and is not linked to another
// membre than self.
func checkAccount(ctx context.Context, r store.Repos, userID, self int64) error {
	if _, err := r.Users.GetByID(ctx, userID); err != nil {
		return referenceError("check account", "account", userID, err)
	}
	linked, err := r.Membres.GetByUserID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if linked.ID != self {
		return domain.NewConflictError(accountLinked, nil)
	}
	return nil
}

func (s *membreService) Create(ctx context.Context, in validate.MembreInput) (domain.MembreView, error) {
	var m domain.Membre
	if err := prepareMembre(&m, in); err != nil {
		return domain.MembreView{}, err
	}
	var view domain.MembreView
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
		if _, err := r.Arrondissements.GetByID(ctx, in.Arrondissement); err != nil {
			return referenceError("create membre", "sub-division", in.Arrondissement, err)
		}
		if err := checkAccount(ctx, r, in.UserID, 0); err != nil {
			return err
		}
		if err := r.Membres.Create(ctx, &m); err != nil {
			return err
		}
		var err error
		view, err = views{r: r}.membre(ctx, m)
		return err
	})
	if err != nil {
		return domain.MembreView{}, storeError("create membre", err, accountLinked)
	}
	s.log(ctx).Info("membre created", slog.Int64("membre_id", m.ID))
	return view, nil
}

func (s *membreService) Update(ctx context.Context, id int64, in validate.MembreInput) (domain.MembreView, error) {
	var next domain.Membre
	if err := prepareMembre(&next, in); err != nil {
		return domain.MembreView{}, err
	}
	var view domain.MembreView
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
		if _, err := r.Arrondissements.GetByID(ctx, in.Arrondissement); err != nil {
			return referenceError("update membre", "sub-division", in.Arrondissement, err)
		}
		m, err := r.Membres.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := checkAccount(ctx, r, in.UserID, id); err != nil {
			return err
		}
		next.ID = m.ID
		next.DateConsecration = m.DateConsecration
		next.ConsecrationStructureID = m.ConsecrationStructureID
		next.AvatarID = m.AvatarID
		next.CreatedAt = m.CreatedAt
		if err := r.Membres.Update(ctx, &next); err != nil {
			return err
		}
		view, err = views{r: r}.membre(ctx, next)
		return err
	})
	if err != nil {
		return domain.MembreView{}, storeError("update membre", err, accountLinked)
	}
	return view, nil
}

func (s *membreService) Delete(ctx context.Context, id int64) (string, error) {
	var avatar *domain.Media
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
		m, err := r.Membres.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := r.Membres.Delete(ctx, id); err != nil {
			return err
		}
		if m.AvatarID == nil {
			return nil
		}
		if avatar, err = r.Medias.GetByID(ctx, *m.AvatarID); err != nil {
			return err
		}
		return r.Medias.Delete(ctx, avatar.ID)
	})
	if err != nil {
		return "", storeError("delete membre", err, "")
	}
	if avatar != nil {
		discardFile(ctx, s.log(ctx), s.files, avatar.FileName, true)
	}
	s.log(ctx).Info("membre deleted", slog.Int64("membre_id", id))
	return deletedMessage("membre", id), nil
}

func (s *membreService) Get(ctx context.Context, id int64) (domain.MembreView, error) {
	m, err := s.uow.Repos().Membres.GetByID(ctx, id)
	if err != nil {
		return domain.MembreView{}, storeError("get membre", err, "")
	}
	view, err := s.views().membre(ctx, *m)
	if err != nil {
		return domain.MembreView{}, storeError("get membre", err, "")
	}
	return view, nil
}

func (s *membreService) Search(ctx context.Context, name string) ([]domain.MembreView, error) {
	list, err := s.uow.Repos().Membres.SearchByName(ctx, name)
	if err != nil {
		return nil, storeError("search membres", err, "")
	}
	out, err := s.views().membres(ctx, list)
	if err != nil {
		return nil, storeError("search membres", err, "")
	}
	return out, nil
}

func (s *membreService) List(ctx context.Context) ([]domain.MembreView, error) {
	list, err := s.uow.Repos().Membres.List(ctx)
	if err != nil {
		return nil, storeError("list membres", err, "")
	}
	out, err := s.views().membres(ctx, list)
	if err != nil {
		return nil, storeError("list membres", err, "")
	}
	return out, nil
}

func (s *membreService) Consecrate(ctx context.Context, id int64, in validate.ConsecrationInput) (domain.MembreView, error) {
	if fe := validate.Struct(in); fe != nil {
		return domain.MembreView{}, invalid(fe)
	}
	date, err := validate.ParseDate(in.DateConsecration)
	if err != nil {
		return domain.MembreView{}, invalidDate("date_consecration", in.DateConsecration)
	}
	var view domain.MembreView
	err = s.uow.WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
		if _, err := r.Structures.GetByID(ctx, in.Paroisse); err != nil {
			return referenceError("consecrate membre", "structure", in.Paroisse, err)
		}
		m, err := r.Membres.GetByID(ctx, id)
		if err != nil {
			return err
		}
		paroisse := in.Paroisse
		m.ConsecrationStructureID = &paroisse
		m.DateConsecration = &date
		if err := r.Membres.Update(ctx, m); err != nil {
			return err
		}
		view, err = views{r: r}.membre(ctx, *m)
		return err
	})
	if err != nil {
		return domain.MembreView{}, storeError("consecrate membre", err, "")
	}
	s.log(ctx).Info("membre consecration recorded",
		slog.Int64("membre_id", id),
		slog.Int64("structure_id", in.Paroisse))
	return view, nil
}

func (s *membreService) Assign(ctx context.Context, id int64, in validate.AffectationInput) (domain.MembreView, error) {
	if fe := validate.Struct(in); fe != nil {
		return domain.MembreView{}, invalid(fe)
	}
	date, err := validate.ParseDate(in.DateAffectation)
	if err != nil {
		return domain.MembreView{}, invalidDate("date_affectation", in.DateAffectation)
	}
	var view domain.MembreView
	err = s.uow.WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
		if _, err := r.Structures.GetByID(ctx, in.StructureID); err != nil {
			return referenceError("assign membre", "structure", in.StructureID, err)
		}
		if _, err := r.Fonctions.GetByID(ctx, in.FonctionID); err != nil {
			return referenceError("assign membre", "Fonction", in.FonctionID, err)
		}
		m, err := r.Membres.GetByID(ctx, id)
		if err != nil {
			return err
		}
		a := domain.StructureMembre{
			StructureID:     in.StructureID,
			MembreID:        id,
			FonctionID:      in.FonctionID,
			DateAffectation: date,
			Actuel:          in.Actuel,
		}
		if err := r.Affectations.Save(ctx, &a); err != nil {
			return err
		}
		view, err = views{r: r}.membre(ctx, *m)
		return err
	})
	if err != nil {
		return domain.MembreView{}, storeError("assign membre", err, "")
	}
	s.log(ctx).Info("membre assigned to structure",
		slog.Int64("membre_id", id),
		slog.Int64("structure_id", in.StructureID),
		slog.Bool("actuel", in.Actuel))
	return view, nil
}

func (s *membreService) AttachAvatar(ctx context.Context, id int64, u Upload) (domain.MembreView, error) {
	if _, err := s.uow.Repos().Membres.GetByID(ctx, id); err != nil {
		return domain.MembreView{}, storeError("get membre", err, "")
	}
	m, err := saveUpload(ctx, s.files, u, true)
	if err != nil {
		return domain.MembreView{}, err
	}

	var (
		previous *domain.Media
		view     domain.MembreView
	)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
		membre, err := r.Membres.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := r.Medias.Create(ctx, &m); err != nil {
			return err
		}
		oldID := membre.AvatarID
		membre.AvatarID = &m.ID
		if err := r.Membres.Update(ctx, membre); err != nil {
			return err
		}
		if oldID != nil {
			if previous, err = r.Medias.GetByID(ctx, *oldID); err != nil {
				return err
			}
			if err := r.Medias.Delete(ctx, *oldID); err != nil {
				return err
			}
		}
		view, err = views{r: r}.membre(ctx, *membre)
		return err
	})
	log := s.log(ctx)
	if err != nil {
		discardFile(ctx, log, s.files, m.FileName, true)
		return domain.MembreView{}, storeError("attach avatar", err, "")
	}
	if previous != nil {
		discardFile(ctx, log, s.files, previous.FileName, true)
	}
	log.Info("avatar attached to membre",
		slog.Int64("membre_id", id),
		slog.Int64("media_id", m.ID))
	return view, nil
}

func (s *membreService) DetachAvatar(ctx context.Context, id, mediaID int64) (domain.MembreView, error) {
	var (
		avatar *domain.Media
		view   domain.MembreView
	)
	err := s.uow.WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
		membre, err := r.Membres.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if membre.AvatarID == nil || *membre.AvatarID != mediaID {
			return domain.NewResourceNotFoundError()
		}
		if avatar, err = r.Medias.GetByID(ctx, mediaID); err != nil {
			return err
		}
		membre.AvatarID = nil
		if err := r.Membres.Update(ctx, membre); err != nil {
			return err
		}
		if err := r.Medias.Delete(ctx, mediaID); err != nil {
			return err
		}
		view, err = views{r: r}.membre(ctx, *membre)
		return err
	})
	if err != nil {
		return domain.MembreView{}, storeError("detach avatar", err, "")
	}
	discardFile(ctx, s.log(ctx), s.files, avatar.FileName, true)
	s.log(ctx).Info("avatar detached from membre",
		slog.Int64("membre_id", id),
		slog.Int64("media_id", mediaID))
	return view, nil
}
