package postgres

import (
	"context"
	"log/slog"

	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/store"
)

// PostgresAffectationStore implements store.AffectationStore on
// structure_membres.
type PostgresAffectationStore struct {
	storeBase
}

// NewPostgresAffectationStore creates an assignment store on db.
func NewPostgresAffectationStore(db store.DBTX, logger *slog.Logger) *PostgresAffectationStore {
	return &PostgresAffectationStore{storeBase: newStoreBase(db, logger, "affectation")}
}

var _ store.AffectationStore = (*PostgresAffectationStore)(nil)

func scanAffectation(row scanner) (domain.StructureMembre, error) {
	var a domain.StructureMembre
	err := row.Scan(&a.StructureID, &a.MembreID, &a.FonctionID, &a.DateAffectation, &a.Actuel)
	return a, err
}

// Save inserts the assignment or overwrites the existing one for the same
// structure and membre.
func (s *PostgresAffectationStore) Save(ctx context.Context, a *domain.StructureMembre) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO structure_membres (structure_id, membre_id, fonction_id, date_affectation, actuel)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (structure_id, membre_id) DO UPDATE
		SET fonction_id = EXCLUDED.fonction_id,
			date_affectation = EXCLUDED.date_affectation,
			actuel = EXCLUDED.actuel`,
		a.StructureID, a.MembreID, a.FonctionID, a.DateAffectation, a.Actuel)
	if err != nil {
		return s.fail(ctx, "save", err,
			slog.Int64("structure_id", a.StructureID),
			slog.Int64("membre_id", a.MembreID))
	}
	s.log(ctx).Debug("affectation saved",
		slog.Int64("structure_id", a.StructureID),
		slog.Int64("membre_id", a.MembreID))
	return nil
}

// ListByMembre returns a membre's assignments, most recent first.
func (s *PostgresAffectationStore) ListByMembre(ctx context.Context, membreID int64) ([]domain.StructureMembre, error) {
	return getList(ctx, s.storeBase, "list", scanAffectation, `
		SELECT structure_id, membre_id, fonction_id, date_affectation, actuel
		FROM structure_membres
		WHERE membre_id = $1
		ORDER BY date_affectation DESC, structure_id`,
		membreID)
}
