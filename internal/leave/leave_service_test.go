package leave_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MichelleArumemi/EmployeeMS/internal/directory"
	directoryerrors "github.com/MichelleArumemi/EmployeeMS/internal/directory/errors"
	"github.com/MichelleArumemi/EmployeeMS/internal/events"
	"github.com/MichelleArumemi/EmployeeMS/internal/identity"
	identityerrors "github.com/MichelleArumemi/EmployeeMS/internal/identity/errors"
	"github.com/MichelleArumemi/EmployeeMS/internal/leave"
	leaveerrors "github.com/MichelleArumemi/EmployeeMS/internal/leave/errors"
	leaveMock "github.com/MichelleArumemi/EmployeeMS/internal/leave/mock"
	"github.com/MichelleArumemi/EmployeeMS/internal/messaging/kafka"
	kafkaMock "github.com/MichelleArumemi/EmployeeMS/internal/messaging/kafka/mock"
	"github.com/MichelleArumemi/EmployeeMS/internal/notification"
	"github.com/MichelleArumemi/EmployeeMS/internal/rbac"
	"github.com/MichelleArumemi/EmployeeMS/internal/realtime"
	realtimeMock "github.com/MichelleArumemi/EmployeeMS/internal/realtime/mock"
	"github.com/MichelleArumemi/EmployeeMS/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db         *sql.DB
	sqlMock    sqlmock.Sqlmock
	service    leave.Service
	repo       *leaveMock.MockRepository
	outbox     *kafkaMock.MockOutboxRepository
	directory  *leaveMock.MockDirectory
	authorizer *leaveMock.MockAuthorizer
	notifier   *leaveMock.MockNotificationWriter
	publisher  *realtimeMock.MockPublisher
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	deps := &serviceDeps{
		db:         db,
		sqlMock:    sqlMock,
		repo:       leaveMock.NewMockRepository(ctrl),
		outbox:     kafkaMock.NewMockOutboxRepository(ctrl),
		directory:  leaveMock.NewMockDirectory(ctrl),
		authorizer: leaveMock.NewMockAuthorizer(ctrl),
		notifier:   leaveMock.NewMockNotificationWriter(ctrl),
		publisher:  realtimeMock.NewMockPublisher(ctrl),
	}
	deps.service = leave.NewServiceWithOutbox(
		db, deps.repo, deps.outbox, deps.directory, deps.authorizer, deps.notifier, deps.publisher,
	)
	return deps
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func employee() identity.Principal {
	return identity.Principal{SubjectID: uuid.New(), Role: identity.RoleEmployee}
}

func admin() identity.Principal {
	return identity.Principal{SubjectID: uuid.New(), Role: identity.RoleAdmin}
}

func pendingLeave(submitter uuid.UUID) *leave.Leave {
	created := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	return &leave.Leave{
		ID:          uuid.New(),
		SubmitterID: submitter,
		LeaveType:   "sick",
		StartDate:   time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 6, 22, 0, 0, 0, 0, time.UTC),
		TotalDays:   3,
		Status:      leave.StatusPending,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestLeaveService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("success queues outbox event and notifies admins", func(t *testing.T) {
		deps := setupServiceTest(t)
		p := employee()

		deps.directory.EXPECT().
			Profile(ctx, p.SubjectID).
			Return(directory.ProfileResponse{ID: p.SubjectID, Name: "Budi", Email: "budi@example.com"}, nil)

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, l *leave.Leave) error {
				assert.Equal(t, p.SubjectID, l.SubmitterID)
				assert.Equal(t, leave.StatusPending, l.Status)
				assert.Equal(t, 3, l.TotalDays)
				assert.Equal(t, "annual", l.LeaveType)
				return nil
			})
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, e kafka.OutboxEvent) error {
				assert.Equal(t, events.LeaveLifecycleTopic, e.Topic)
				assert.Equal(t, events.LeaveSubmittedEventType, e.EventType)
				assert.Equal(t, kafka.OutboxStatusPending, e.Status)

				var body events.LeaveSubmittedEvent
				require.NoError(t, json.Unmarshal(e.Payload, &body))
				assert.Equal(t, "2024-06-20", body.StartDate)
				assert.Equal(t, 3, body.TotalDays)
				return nil
			})
		deps.publisher.EXPECT().
			Publish(gomock.Any(), realtime.AdminChannel, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, e realtime.Event) error {
				assert.Equal(t, realtime.EventNewLeaveRequest, e.Type)
				payload, ok := e.Payload.(leave.NewLeaveRequestPayload)
				require.True(t, ok)
				assert.Equal(t, "Budi", payload.EmployeeName)
				assert.Equal(t, "2024-06-22", payload.EndDate)
				return nil
			})

		resp, err := deps.service.Submit(ctx, p, leave.SubmitLeaveRequest{
			StartDate: "2024-06-20",
			EndDate:   "2024-06-22T15:00:00Z",
		})

		require.NoError(t, err)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.Equal(t, 3, resp.TotalDays)
		assert.Equal(t, "Budi", resp.Employee.Name)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("single day counts as one", func(t *testing.T) {
		deps := setupServiceTest(t)
		p := employee()

		deps.directory.EXPECT().Profile(ctx, p.SubjectID).Return(directory.ProfileResponse{ID: p.SubjectID}, nil)
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("hub closed"))

		resp, err := deps.service.Submit(ctx, p, leave.SubmitLeaveRequest{
			StartDate: "2024-06-20",
			EndDate:   "2024-06-20",
			LeaveType: " personal ",
		})

		require.NoError(t, err)
		assert.Equal(t, 1, resp.TotalDays)
		assert.Equal(t, "personal", resp.LeaveType)
	})

	invalid := []struct {
		name string
		req  leave.SubmitLeaveRequest
		want error
	}{
		{"end before start", leave.SubmitLeaveRequest{StartDate: "2024-06-22", EndDate: "2024-06-20"}, leaveerrors.ErrInvalidDateRange},
		{"bad format", leave.SubmitLeaveRequest{StartDate: "20/06/2024", EndDate: "2024-06-22"}, leaveerrors.ErrInvalidDateFormat},
		{"missing start", leave.SubmitLeaveRequest{EndDate: "2024-06-22"}, leaveerrors.ErrStartDateRequired},
		{"missing end", leave.SubmitLeaveRequest{StartDate: "2024-06-22"}, leaveerrors.ErrEndDateRequired},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			deps := setupServiceTest(t)

			_, err := deps.service.Submit(ctx, employee(), tc.req)

			assert.ErrorIs(t, err, tc.want)
			assert.True(t, apperror.Is(err, apperror.CodeInvalidInput))
			assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		})
	}

	t.Run("anonymous", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.Submit(ctx, identity.Principal{}, leave.SubmitLeaveRequest{StartDate: "2024-06-20", EndDate: "2024-06-20"})

		assert.ErrorIs(t, err, identityerrors.ErrUnauthenticated)
	})

	t.Run("unknown submitter", func(t *testing.T) {
		deps := setupServiceTest(t)
		p := employee()
		deps.directory.EXPECT().Profile(ctx, p.SubjectID).Return(directory.ProfileResponse{}, directoryerrors.ErrProfileNotFound)

		_, err := deps.service.Submit(ctx, p, leave.SubmitLeaveRequest{StartDate: "2024-06-20", EndDate: "2024-06-20"})

		assert.ErrorIs(t, err, identityerrors.ErrUnknownSubject)
		assert.True(t, apperror.Is(err, apperror.CodeUnauthorized))
	})

	t.Run("outbox failure rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		p := employee()

		deps.directory.EXPECT().Profile(ctx, p.SubjectID).Return(directory.ProfileResponse{ID: p.SubjectID}, nil)
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).Return(errors.New("insert failed"))

		_, err := deps.service.Submit(ctx, p, leave.SubmitLeaveRequest{StartDate: "2024-06-20", EndDate: "2024-06-21"})

		assert.True(t, apperror.Is(err, apperror.CodeInternalError))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_ListOwn(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t)
	p := employee()

	newer := pendingLeave(p.SubjectID)
	older := pendingLeave(p.SubjectID)
	older.Status = leave.StatusApproved
	deps.repo.EXPECT().FindBySubmitter(ctx, p.SubjectID).Return([]leave.Leave{*newer, *older}, nil)

	resp, err := deps.service.ListOwn(ctx, p)

	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.Equal(t, newer.ID.String(), resp[0].ID)
	assert.Equal(t, leave.StatusApproved, resp[1].Status)
}

func TestLeaveService_ListPending(t *testing.T) {
	ctx := context.Background()

	t.Run("employee is forbidden", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.authorizer.EXPECT().Enforce(gomock.Any()).Return(false, nil)

		_, err := deps.service.ListPending(ctx, employee())

		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("keeps queue order and joins submitters", func(t *testing.T) {
		deps := setupServiceTest(t)
		known, unknown := uuid.New(), uuid.New()
		first := pendingLeave(known)
		second := pendingLeave(unknown)
		second.CreatedAt = first.CreatedAt.Add(time.Hour)

		deps.authorizer.EXPECT().
			Enforce(rbac.EnforceRequest{Role: identity.RoleAdmin, Resource: rbac.ResourceLeave, Action: rbac.ActionReview}).
			Return(true, nil)
		deps.repo.EXPECT().FindPending(ctx).Return([]leave.Leave{*first, *second}, nil)
		deps.directory.EXPECT().
			Profiles(ctx, []uuid.UUID{known, unknown}).
			Return(map[uuid.UUID]directory.ProfileResponse{
				known: {ID: known, Name: "Budi", Email: "budi@example.com", Department: "Finance", Position: "Analyst"},
			}, nil)

		resp, err := deps.service.ListPending(ctx, admin())

		require.NoError(t, err)
		require.Len(t, resp, 2)
		assert.Equal(t, first.ID.String(), resp[0].ID)
		assert.Equal(t, "Finance", resp[0].Employee.Department)
		require.NotNil(t, resp[1].Employee)
		assert.Empty(t, resp[1].Employee.Name)
	})

	t.Run("empty queue skips directory", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.authorizer.EXPECT().Enforce(gomock.Any()).Return(true, nil)
		deps.repo.EXPECT().FindPending(ctx).Return(nil, nil)

		resp, err := deps.service.ListPending(ctx, admin())

		assert.NoError(t, err)
		assert.Empty(t, resp)
	})
}

func TestLeaveService_Decide(t *testing.T) {
	ctx := context.Background()

	t.Run("approve", func(t *testing.T) {
		deps := setupServiceTest(t)
		reviewer := admin()
		submitter := uuid.New()
		l := pendingLeave(submitter)
		notificationID := uuid.NewString()

		deps.authorizer.EXPECT().Enforce(gomock.Any()).Return(true, nil)
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, l.ID).Return(l, nil)
		deps.repo.EXPECT().
			UpdateStatusIfPending(ctx, l.ID, leave.StatusApproved, reviewer.SubjectID, nil, gomock.Any()).
			Return(int64(1), nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, e kafka.OutboxEvent) error {
				assert.Equal(t, events.LeaveDecidedEventType, e.EventType)
				assert.Equal(t, l.ID.String(), e.AggregateID)
				return nil
			})
		deps.notifier.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in notification.CreateInput) ([]notification.NotificationResponse, error) {
				assert.Equal(t, reviewer.SubjectID, in.SenderID)
				assert.Equal(t, []uuid.UUID{submitter}, in.RecipientIDs)
				assert.Equal(t, notification.TypeLeaveStatus, in.Type)
				assert.Equal(t, "Leave request approved", in.Title)
				assert.Equal(t, "Your leave request has been approved", in.Message)
				assert.Equal(t, l.ID, *in.RelatedEntityID)
				return []notification.NotificationResponse{{ID: notificationID}}, nil
			})

		var userEvent, adminEvent realtime.Event
		deps.publisher.EXPECT().
			Publish(gomock.Any(), realtime.UserChannel(submitter), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, e realtime.Event) error {
				userEvent = e
				return nil
			})
		deps.publisher.EXPECT().
			Publish(gomock.Any(), realtime.AdminChannel, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, e realtime.Event) error {
				adminEvent = e
				return nil
			})
		deps.directory.EXPECT().
			Profiles(gomock.Any(), []uuid.UUID{submitter}).
			Return(map[uuid.UUID]directory.ProfileResponse{submitter: {ID: submitter, Name: "Budi"}}, nil)

		resp, err := deps.service.Decide(ctx, reviewer, l.ID.String(), leave.DecideLeaveRequest{Status: "approved", RejectionReason: "ignored"})

		require.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.Nil(t, resp.RejectionReason)
		assert.Equal(t, reviewer.SubjectID.String(), *resp.ReviewedBy)
		assert.NotNil(t, resp.ReviewedAt)
		assert.Equal(t, "Budi", resp.Employee.Name)

		assert.Equal(t, realtime.EventLeaveStatusUpdate, userEvent.Type)
		status := userEvent.Payload.(leave.LeaveStatusUpdatePayload)
		assert.Equal(t, notificationID, status.NotificationID)
		assert.Equal(t, leave.StatusApproved, status.Status)

		assert.Equal(t, realtime.EventLeaveRequestUpdated, adminEvent.Type)
		assert.Equal(t, submitter.String(), adminEvent.Payload.(leave.LeaveRequestUpdatedPayload).EmployeeID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("reject with reason", func(t *testing.T) {
		deps := setupServiceTest(t)
		reviewer := admin()
		l := pendingLeave(uuid.New())

		deps.authorizer.EXPECT().Enforce(gomock.Any()).Return(true, nil)
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, l.ID).Return(l, nil)
		deps.repo.EXPECT().
			UpdateStatusIfPending(ctx, l.ID, leave.StatusRejected, reviewer.SubjectID, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, _ leave.Status, _ uuid.UUID, reason *string, _ time.Time) (int64, error) {
				require.NotNil(t, reason)
				assert.Equal(t, "flu", *reason)
				return 1, nil
			})
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.notifier.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in notification.CreateInput) ([]notification.NotificationResponse, error) {
				assert.Equal(t, "Leave request rejected", in.Title)
				assert.True(t, strings.Contains(in.Message, "flu"))
				return []notification.NotificationResponse{{ID: uuid.NewString()}}, nil
			})
		deps.publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
		deps.directory.EXPECT().Profiles(gomock.Any(), gomock.Any()).Return(map[uuid.UUID]directory.ProfileResponse{}, nil)

		resp, err := deps.service.Decide(ctx, reviewer, l.ID.String(), leave.DecideLeaveRequest{Status: "rejected", RejectionReason: " flu "})

		require.NoError(t, err)
		assert.Equal(t, "flu", *resp.RejectionReason)
	})

	t.Run("employee is forbidden before any read", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.authorizer.EXPECT().Enforce(gomock.Any()).Return(false, nil)

		_, err := deps.service.Decide(ctx, employee(), uuid.NewString(), leave.DecideLeaveRequest{Status: "approved"})

		assert.ErrorIs(t, err, apperror.ErrForbidden)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown decision", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.authorizer.EXPECT().Enforce(gomock.Any()).Return(true, nil)

		_, err := deps.service.Decide(ctx, admin(), uuid.NewString(), leave.DecideLeaveRequest{Status: "pending"})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDecision)
	})

	t.Run("malformed id is not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.authorizer.EXPECT().Enforce(gomock.Any()).Return(true, nil)

		_, err := deps.service.Decide(ctx, admin(), "42", leave.DecideLeaveRequest{Status: "approved"})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})

	t.Run("missing request", func(t *testing.T) {
		deps := setupServiceTest(t)
		id := uuid.New()
		deps.authorizer.EXPECT().Enforce(gomock.Any()).Return(true, nil)
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Decide(ctx, admin(), id.String(), leave.DecideLeaveRequest{Status: "approved"})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("already decided", func(t *testing.T) {
		deps := setupServiceTest(t)
		l := pendingLeave(uuid.New())
		l.Status = leave.StatusApproved

		deps.authorizer.EXPECT().Enforce(gomock.Any()).Return(true, nil)
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, l.ID).Return(l, nil)

		_, err := deps.service.Decide(ctx, admin(), l.ID.String(), leave.DecideLeaveRequest{Status: "rejected"})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
		assert.True(t, apperror.Is(err, apperror.CodeInvalidState))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("lost race", func(t *testing.T) {
		deps := setupServiceTest(t)
		l := pendingLeave(uuid.New())

		deps.authorizer.EXPECT().Enforce(gomock.Any()).Return(true, nil)
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, l.ID).Return(l, nil)
		deps.repo.EXPECT().
			UpdateStatusIfPending(ctx, l.ID, leave.StatusApproved, gomock.Any(), nil, gomock.Any()).
			Return(int64(0), nil)

		_, err := deps.service.Decide(ctx, admin(), l.ID.String(), leave.DecideLeaveRequest{Status: "approved"})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("notification failure keeps the decision", func(t *testing.T) {
		deps := setupServiceTest(t)
		l := pendingLeave(uuid.New())

		deps.authorizer.EXPECT().Enforce(gomock.Any()).Return(true, nil)
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, l.ID).Return(l, nil)
		deps.repo.EXPECT().UpdateStatusIfPending(ctx, l.ID, leave.StatusApproved, gomock.Any(), nil, gomock.Any()).Return(int64(1), nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.notifier.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrUnavailable)
		deps.publisher.EXPECT().
			Publish(gomock.Any(), realtime.UserChannel(l.SubmitterID), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, e realtime.Event) error {
				assert.Empty(t, e.Payload.(leave.LeaveStatusUpdatePayload).NotificationID)
				return nil
			})
		deps.publisher.EXPECT().Publish(gomock.Any(), realtime.AdminChannel, gomock.Any()).Return(errors.New("redis down"))
		deps.directory.EXPECT().Profiles(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrUnavailable)

		resp, err := deps.service.Decide(ctx, admin(), l.ID.String(), leave.DecideLeaveRequest{Status: "approved"})

		require.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.NotNil(t, resp.Employee)
	})
}
