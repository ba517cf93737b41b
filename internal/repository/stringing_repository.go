package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/stringing-service/internal/domain"
	apperrors "github.com/spec-kit/stringing-service/pkg/util"
)

// StringingRepository encapsulates stringing persistence.
//
// Update is a compare-and-swap on the version column: two concurrent
// transition attempts on the same job can never both apply from the same
// prior state. ListByOwner/ListByStringer make no ordering guarantee;
// ordering and filtering are caller concerns.
type StringingRepository interface {
	Create(ctx context.Context, stringing *domain.Stringing) error
	Update(ctx context.Context, stringing *domain.Stringing) error
	GetByID(ctx context.Context, id string) (*domain.Stringing, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]domain.Stringing, error)
	ListByStringer(ctx context.Context, stringerUserID string) ([]domain.Stringing, error)
}

type stringingRepository struct {
	pool *pgxpool.Pool
}

// NewStringingRepository instantiates repository.
func NewStringingRepository(pool *pgxpool.Pool) StringingRepository {
	return &stringingRepository{pool: pool}
}

const stringingColumns = `id, stringer_user_id, owner_user_id, racket_make, racket_model,
               string_type, string_color, mains_tension_lbs, crosses_tension_lbs, state, version,
               created_at, requested_at, canceled_at, declined_at, received_at, in_progress_at,
               finished_at, completed_at, failed_at, failed_completed_at`

func (r *stringingRepository) Create(ctx context.Context, stringing *domain.Stringing) error {
	const query = `
        INSERT INTO stringings (stringer_user_id, owner_user_id, racket_make, racket_model,
            string_type, string_color, mains_tension_lbs, crosses_tension_lbs, state)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, version, created_at, requested_at`
	return r.pool.QueryRow(ctx, query,
		stringing.StringerUserID,
		stringing.OwnerUserID,
		stringing.RacketMake,
		stringing.RacketModel,
		stringing.StringType,
		stringing.StringColor,
		stringing.MainsTensionLbs,
		stringing.CrossesTensionLbs,
		stringing.State,
	).Scan(&stringing.ID, &stringing.Version, &stringing.CreatedAt, &stringing.RequestedAt)
}

// Update persists the record iff its version still matches the version read
// by the caller. State and timestamps land in the same statement, so a
// transition either commits fully or not at all. A losing writer gets
// CONCURRENT_MODIFICATION when the row still exists, NOT_FOUND otherwise.
func (r *stringingRepository) Update(ctx context.Context, stringing *domain.Stringing) error {
	const query = `
        UPDATE stringings SET stringer_user_id=$1, racket_make=$2, racket_model=$3,
            string_type=$4, string_color=$5, mains_tension_lbs=$6, crosses_tension_lbs=$7,
            state=$8, canceled_at=$9, declined_at=$10, received_at=$11, in_progress_at=$12,
            finished_at=$13, completed_at=$14, failed_at=$15, failed_completed_at=$16,
            version=version+1
        WHERE id=$17 AND version=$18
        RETURNING version`
	err := r.pool.QueryRow(ctx, query,
		stringing.StringerUserID,
		stringing.RacketMake,
		stringing.RacketModel,
		stringing.StringType,
		stringing.StringColor,
		stringing.MainsTensionLbs,
		stringing.CrossesTensionLbs,
		stringing.State,
		stringing.CanceledAt,
		stringing.DeclinedAt,
		stringing.ReceivedAt,
		stringing.InProgressAt,
		stringing.FinishedAt,
		stringing.CompletedAt,
		stringing.FailedAt,
		stringing.FailedCompletedAt,
		stringing.ID,
		stringing.Version,
	).Scan(&stringing.Version)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	var exists bool
	if probeErr := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM stringings WHERE id=$1)`, stringing.ID,
	).Scan(&exists); probeErr != nil {
		return probeErr
	}
	if exists {
		return apperrors.NewConcurrentModification("stringing")
	}
	return apperrors.NewNotFound("stringing", map[string]any{"stringing_id": stringing.ID})
}

func (r *stringingRepository) GetByID(ctx context.Context, id string) (*domain.Stringing, error) {
	query := `SELECT ` + stringingColumns + ` FROM stringings WHERE id=$1`
	row := r.pool.QueryRow(ctx, query, id)
	stringing, err := scanStringing(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("stringing", map[string]any{"stringing_id": id})
	}
	if err != nil {
		return nil, err
	}
	return stringing, nil
}

func (r *stringingRepository) ListByOwner(ctx context.Context, ownerUserID string) ([]domain.Stringing, error) {
	query := `SELECT ` + stringingColumns + ` FROM stringings WHERE owner_user_id=$1`
	return r.list(ctx, query, ownerUserID)
}

func (r *stringingRepository) ListByStringer(ctx context.Context, stringerUserID string) ([]domain.Stringing, error) {
	query := `SELECT ` + stringingColumns + ` FROM stringings WHERE stringer_user_id=$1`
	return r.list(ctx, query, stringerUserID)
}

func (r *stringingRepository) list(ctx context.Context, query, arg string) ([]domain.Stringing, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Stringing
	for rows.Next() {
		stringing, err := scanStringing(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *stringing)
	}
	return result, rows.Err()
}

func scanStringing(row pgx.Row) (*domain.Stringing, error) {
	var stringing domain.Stringing
	if err := row.Scan(
		&stringing.ID,
		&stringing.StringerUserID,
		&stringing.OwnerUserID,
		&stringing.RacketMake,
		&stringing.RacketModel,
		&stringing.StringType,
		&stringing.StringColor,
		&stringing.MainsTensionLbs,
		&stringing.CrossesTensionLbs,
		&stringing.State,
		&stringing.Version,
		&stringing.CreatedAt,
		&stringing.RequestedAt,
		&stringing.CanceledAt,
		&stringing.DeclinedAt,
		&stringing.ReceivedAt,
		&stringing.InProgressAt,
		&stringing.FinishedAt,
		&stringing.CompletedAt,
		&stringing.FailedAt,
		&stringing.FailedCompletedAt,
	); err != nil {
		return nil, err
	}
	return &stringing, nil
}
