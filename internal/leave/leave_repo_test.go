package leave_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/MichelleArumemi/EmployeeMS/internal/directory"
	"github.com/MichelleArumemi/EmployeeMS/internal/leave"
	"github.com/MichelleArumemi/EmployeeMS/internal/notification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:leave_%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&directory.Profile{}, &leave.Leave{}, &notification.Notification{}))
	return db
}

func insertLeave(t *testing.T, db *gorm.DB, submitter uuid.UUID, createdAt time.Time, status leave.Status) leave.Leave {
	t.Helper()
	l := leave.Leave{
		ID:          uuid.New(),
		SubmitterID: submitter,
		LeaveType:   leave.DefaultLeaveType,
		StartDate:   time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC),
		TotalDays:   2,
		Status:      status,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	require.NoError(t, leave.NewRepository(db).Create(context.Background(), &l))
	return l
}

func TestRepository_FindPendingOldestFirst(t *testing.T) {
	db := newSQLiteDB(t)
	repo := leave.NewRepository(db)
	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	late := insertLeave(t, db, uuid.New(), base.Add(2*time.Hour), leave.StatusPending)
	early := insertLeave(t, db, uuid.New(), base, leave.StatusPending)
	insertLeave(t, db, uuid.New(), base.Add(time.Hour), leave.StatusApproved)

	pending, err := repo.FindPending(context.Background())

	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, early.ID, pending[0].ID)
	assert.Equal(t, late.ID, pending[1].ID)
}

func TestRepository_FindBySubmitterNewestFirst(t *testing.T) {
	db := newSQLiteDB(t)
	repo := leave.NewRepository(db)
	me := uuid.New()
	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	older := insertLeave(t, db, me, base, leave.StatusPending)
	newer := insertLeave(t, db, me, base.Add(time.Hour), leave.StatusRejected)
	insertLeave(t, db, uuid.New(), base, leave.StatusPending)

	own, err := repo.FindBySubmitter(context.Background(), me)

	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, newer.ID, own[0].ID)
	assert.Equal(t, older.ID, own[1].ID)
}

func TestRepository_UpdateStatusIfPendingOnlyOnce(t *testing.T) {
	db := newSQLiteDB(t)
	repo := leave.NewRepository(db)
	ctx := context.Background()
	l := insertLeave(t, db, uuid.New(), time.Now().UTC(), leave.StatusPending)
	reviewer := uuid.New()
	reason := "flu"

	affected, err := repo.UpdateStatusIfPending(ctx, l.ID, leave.StatusRejected, reviewer, &reason, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.UpdateStatusIfPending(ctx, l.ID, leave.StatusApproved, uuid.New(), nil, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	stored, err := repo.FindByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, stored.Status)
	assert.Equal(t, reviewer, *stored.ReviewerID)
	assert.Equal(t, "flu", *stored.RejectionReason)
	assert.NotNil(t, stored.DecidedAt)
}

func TestRepository_FindByIDMissing(t *testing.T) {
	db := newSQLiteDB(t)

	_, err := leave.NewRepository(db).FindByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
