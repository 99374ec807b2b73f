package leave

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindByID(ctx context.Context, id uuid.UUID) (*Leave, error)
	FindBySubmitter(ctx context.Context, submitterID uuid.UUID) ([]Leave, error)
	FindPending(ctx context.Context) ([]Leave, error)
	UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status Status, reviewerID uuid.UUID, rejectionReason *string, decidedAt time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.conn(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Leave, error) {
	var l Leave
	if err := r.conn(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindBySubmitter(ctx context.Context, submitterID uuid.UUID) ([]Leave, error) {
	var leaves []Leave
	err := r.conn(ctx).
		Where("submitter_id = ?", submitterID).
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

// FindPending returns the review queue oldest first.
func (r *repository) FindPending(ctx context.Context) ([]Leave, error) {
	var leaves []Leave
	err := r.conn(ctx).
		Where("status = ?", StatusPending).
		Order("created_at ASC").
		Find(&leaves).Error
	return leaves, err
}

// UpdateStatusIfPending applies a decision only while the row is still pending.
// Zero rows affected means another reviewer got there first.
func (r *repository) UpdateStatusIfPending(
	ctx context.Context,
	id uuid.UUID,
	status Status,
	reviewerID uuid.UUID,
	rejectionReason *string,
	decidedAt time.Time,
) (int64, error) {
	res := r.conn(ctx).
		Model(&Leave{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]any{
			"status":           status,
			"reviewer_id":      reviewerID,
			"rejection_reason": rejectionReason,
			"decided_at":       decidedAt,
			"updated_at":       decidedAt,
		})
	return res.RowsAffected, res.Error
}
