package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/MichelleArumemi/EmployeeMS/internal/directory"
	"github.com/MichelleArumemi/EmployeeMS/internal/events"
	"github.com/MichelleArumemi/EmployeeMS/internal/identity"
	identityerrors "github.com/MichelleArumemi/EmployeeMS/internal/identity/errors"
	leaveerrors "github.com/MichelleArumemi/EmployeeMS/internal/leave/errors"
	"github.com/MichelleArumemi/EmployeeMS/internal/messaging/kafka"
	"github.com/MichelleArumemi/EmployeeMS/internal/notification"
	"github.com/MichelleArumemi/EmployeeMS/internal/rbac"
	"github.com/MichelleArumemi/EmployeeMS/internal/realtime"
	"github.com/MichelleArumemi/EmployeeMS/internal/shared/apperror"
	"github.com/MichelleArumemi/EmployeeMS/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, principal identity.Principal, req SubmitLeaveRequest) (LeaveResponse, error)
	ListOwn(ctx context.Context, principal identity.Principal) ([]LeaveResponse, error)
	ListPending(ctx context.Context, principal identity.Principal) ([]LeaveResponse, error)
	Decide(ctx context.Context, principal identity.Principal, id string, req DecideLeaveRequest) (LeaveResponse, error)
}

type Directory interface {
	Profile(ctx context.Context, id uuid.UUID) (directory.ProfileResponse, error)
	Profiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]directory.ProfileResponse, error)
}

type Authorizer interface {
	Enforce(req rbac.EnforceRequest) (bool, error)
}

// NotificationWriter stores notifications without pushing them.
type NotificationWriter interface {
	Create(ctx context.Context, in notification.CreateInput) ([]notification.NotificationResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	outbox     kafka.OutboxRepository
	directory  Directory
	authorizer Authorizer
	notifier   NotificationWriter
	publisher  realtime.Publisher
	now        func() time.Time
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	dir Directory,
	authorizer Authorizer,
	notifier NotificationWriter,
	publisher realtime.Publisher,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, nil, dir, authorizer, notifier, publisher, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	dir Directory,
	authorizer Authorizer,
	notifier NotificationWriter,
	publisher realtime.Publisher,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		outbox:     outboxRepo,
		directory:  dir,
		authorizer: authorizer,
		notifier:   notifier,
		publisher:  publisher,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     l,
	}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger)
}

func (s *service) Submit(ctx context.Context, principal identity.Principal, req SubmitLeaveRequest) (LeaveResponse, error) {
	log := s.log(ctx)
	if !principal.Authenticated() {
		return LeaveResponse{}, identityerrors.ErrUnauthenticated
	}

	log.Debug("submit leave requested",
		zap.String("submitter_id", principal.SubjectID.String()),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	startDate, endDate, err := validateDates(req.StartDate, req.EndDate)
	if err != nil {
		log.Warn("submit leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	profile, err := s.directory.Profile(ctx, principal.SubjectID)
	if err != nil {
		if apperror.Is(err, apperror.CodeNotFound) {
			log.Warn("submit leave from unknown identity", zap.String("submitter_id", principal.SubjectID.String()))
			return LeaveResponse{}, identityerrors.ErrUnknownSubject
		}
		return LeaveResponse{}, err
	}

	leaveType := strings.TrimSpace(req.LeaveType)
	if leaveType == "" {
		leaveType = DefaultLeaveType
	}

	now := s.now()
	l := &Leave{
		ID:          uuid.New(),
		SubmitterID: principal.SubjectID,
		LeaveType:   leaveType,
		StartDate:   startDate,
		EndDate:     endDate,
		TotalDays:   totalDays(startDate, endDate),
		Reason:      strings.TrimSpace(req.Reason),
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("submit leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, apperror.Unavailable(err)
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, l); err != nil {
		log.Error("submit leave persist failed", zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueue(ctx, tx, l.ID, events.LeaveSubmittedEvent{
		EventType:   events.LeaveSubmittedEventType,
		RequestID:   contextutil.GetRequestID(ctx),
		LeaveID:     l.ID.String(),
		SubmitterID: l.SubmitterID.String(),
		LeaveType:   l.LeaveType,
		StartDate:   l.StartDate.Format(dateLayout),
		EndDate:     l.EndDate.Format(dateLayout),
		TotalDays:   l.TotalDays,
		OccurredAt:  now,
	}, events.LeaveSubmittedEventType); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("submit leave commit failed", zap.Error(err))
		return LeaveResponse{}, apperror.Unavailable(err)
	}

	log.Info("submit leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("submitter_id", l.SubmitterID.String()),
		zap.Int("total_days", l.TotalDays),
	)

	s.publish(contextutil.Detach(ctx), realtime.AdminChannel, realtime.EventNewLeaveRequest, NewLeaveRequestPayload{
		Message:      "New leave request from " + profile.Name,
		RequestID:    l.ID.String(),
		EmployeeName: profile.Name,
		StartDate:    l.StartDate.Format(dateLayout),
		EndDate:      l.EndDate.Format(dateLayout),
		LeaveType:    l.LeaveType,
	})

	return mapToResponse(*l, toSnapshot(profile)), nil
}

func (s *service) ListOwn(ctx context.Context, principal identity.Principal) ([]LeaveResponse, error) {
	if !principal.Authenticated() {
		return nil, identityerrors.ErrUnauthenticated
	}

	leaves, err := s.repo.FindBySubmitter(ctx, principal.SubjectID)
	if err != nil {
		s.log(ctx).Error("list own leave failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(leaves), nil
}

func (s *service) ListPending(ctx context.Context, principal identity.Principal) ([]LeaveResponse, error) {
	if err := s.authorize(principal, rbac.ActionReview); err != nil {
		return nil, err
	}

	leaves, err := s.repo.FindPending(ctx)
	if err != nil {
		s.log(ctx).Error("list pending leave failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	if len(leaves) == 0 {
		return []LeaveResponse{}, nil
	}

	ids := make([]uuid.UUID, 0, len(leaves))
	for _, l := range leaves {
		ids = append(ids, l.SubmitterID)
	}
	profiles, err := s.directory.Profiles(ctx, ids)
	if err != nil {
		return nil, err
	}

	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		snapshot := &SubmitterSnapshot{}
		if p, ok := profiles[l.SubmitterID]; ok {
			snapshot = toSnapshot(p)
		}
		resp[i] = mapToResponse(l, snapshot)
	}
	return resp, nil
}

func (s *service) Decide(ctx context.Context, principal identity.Principal, id string, req DecideLeaveRequest) (LeaveResponse, error) {
	log := s.log(ctx)

	if err := s.authorize(principal, rbac.ActionReview); err != nil {
		return LeaveResponse{}, err
	}

	decision := Decision(strings.TrimSpace(req.Status))
	if !decision.Valid() {
		return LeaveResponse{}, leaveerrors.ErrInvalidDecision
	}

	leaveID, err := uuid.Parse(id)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
	}

	log.Debug("decide leave requested",
		zap.String("leave_id", id),
		zap.String("reviewer_id", principal.SubjectID.String()),
		zap.String("decision", string(decision)),
	)

	var rejectionReason *string
	if reason := strings.TrimSpace(req.RejectionReason); decision == DecisionRejected && reason != "" {
		rejectionReason = &reason
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("decide leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, apperror.Unavailable(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, leaveID)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if l.Status != StatusPending {
		log.Warn("decide leave invalid transition",
			zap.String("leave_id", id),
			zap.String("from_status", string(l.Status)),
			zap.String("to_status", string(decision)),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	now := s.now()
	affected, err := qtx.UpdateStatusIfPending(ctx, leaveID, decision.Status(), principal.SubjectID, rejectionReason, now)
	if err != nil {
		log.Error("decide leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if affected == 0 {
		log.Warn("decide leave lost race", zap.String("leave_id", id))
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	reviewerID := principal.SubjectID
	l.Status = decision.Status()
	l.ReviewerID = &reviewerID
	l.RejectionReason = rejectionReason
	l.DecidedAt = &now
	l.UpdatedAt = now

	decided := events.LeaveDecidedEvent{
		EventType:   events.LeaveDecidedEventType,
		RequestID:   contextutil.GetRequestID(ctx),
		LeaveID:     l.ID.String(),
		SubmitterID: l.SubmitterID.String(),
		ReviewerID:  reviewerID.String(),
		Status:      string(l.Status),
		OccurredAt:  now,
	}
	if rejectionReason != nil {
		decided.RejectionReason = *rejectionReason
	}
	if err := s.enqueue(ctx, tx, l.ID, decided, events.LeaveDecidedEventType); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("decide leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, apperror.Unavailable(err)
	}

	log.Info("decide leave success",
		zap.String("leave_id", id),
		zap.String("status", string(l.Status)),
	)

	// The decision is durable; everything below is best effort.
	bg := contextutil.Detach(ctx)
	message := decisionMessage(decision, rejectionReason)
	notificationID := s.notifySubmitter(bg, l, message)

	s.publish(bg, realtime.UserChannel(l.SubmitterID), realtime.EventLeaveStatusUpdate, LeaveStatusUpdatePayload{
		RequestID:      l.ID.String(),
		Status:         l.Status,
		Message:        message,
		NotificationID: notificationID,
		UpdatedAt:      now.Format(time.RFC3339),
	})
	s.publish(bg, realtime.AdminChannel, realtime.EventLeaveRequestUpdated, LeaveRequestUpdatedPayload{
		RequestID:  l.ID.String(),
		Status:     l.Status,
		EmployeeID: l.SubmitterID.String(),
	})

	snapshot := &SubmitterSnapshot{}
	if profiles, err := s.directory.Profiles(bg, []uuid.UUID{l.SubmitterID}); err == nil {
		if p, ok := profiles[l.SubmitterID]; ok {
			snapshot = toSnapshot(p)
		}
	} else {
		log.Warn("decide leave submitter lookup failed", zap.Error(err))
	}

	return mapToResponse(*l, snapshot), nil
}

// notifySubmitter stores the decision notification and returns its id, or ""
// when the write failed.
func (s *service) notifySubmitter(ctx context.Context, l *Leave, message string) string {
	if s.notifier == nil {
		return ""
	}

	title := "Leave request " + string(l.Status)
	metadata := map[string]any{
		"status":     string(l.Status),
		"start_date": l.StartDate.Format(dateLayout),
		"end_date":   l.EndDate.Format(dateLayout),
		"leave_type": l.LeaveType,
	}
	leaveID := l.ID

	created, err := s.notifier.Create(ctx, notification.CreateInput{
		SenderID:          *l.ReviewerID,
		RecipientIDs:      []uuid.UUID{l.SubmitterID},
		Type:              notification.TypeLeaveStatus,
		Title:             title,
		Message:           message,
		RelatedEntityType: notification.RelatedLeaveRequest,
		RelatedEntityID:   &leaveID,
		Metadata:          metadata,
	})
	if err != nil || len(created) == 0 {
		s.log(ctx).Error("decide leave notification write failed",
			zap.String("leave_id", l.ID.String()),
			zap.String("recipient_id", l.SubmitterID.String()),
			zap.Error(err),
		)
		return ""
	}
	return created[0].ID
}

func (s *service) publish(ctx context.Context, channel string, eventType realtime.EventType, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, channel, realtime.NewEvent(eventType, payload)); err != nil {
		s.log(ctx).Warn("realtime publish failed",
			zap.String("channel", channel),
			zap.String("event", string(eventType)),
			zap.Error(err),
		)
	}
}

// enqueue writes a lifecycle event to the outbox inside tx. It is a no-op when
// no outbox is wired.
func (s *service) enqueue(ctx context.Context, tx *sql.Tx, leaveID uuid.UUID, event any, eventType string) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.log(ctx).Error("marshal leave event failed", zap.Error(err))
		return apperror.ErrInternal.WithCause(err)
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   leaveID.String(),
		EventType:     eventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.log(ctx).Error("leave outbox persist failed",
			zap.String("leave_id", leaveID.String()),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return apperror.FromStore(err)
	}
	return nil
}

func (s *service) authorize(principal identity.Principal, action string) error {
	if !principal.Authenticated() {
		return identityerrors.ErrUnauthenticated
	}

	allowed, err := s.authorizer.Enforce(rbac.EnforceRequest{
		Role:     principal.Role,
		Resource: rbac.ResourceLeave,
		Action:   action,
	})
	if err != nil {
		return apperror.ErrInternal.WithCause(err)
	}
	if !allowed {
		return apperror.ErrForbidden
	}
	return nil
}

func decisionMessage(decision Decision, rejectionReason *string) string {
	if decision == DecisionApproved {
		return "Your leave request has been approved"
	}
	msg := "Your leave request has been rejected"
	if rejectionReason != nil {
		msg += ": " + *rejectionReason
	}
	return msg
}

func validateDates(start, end string) (time.Time, time.Time, error) {
	if strings.TrimSpace(start) == "" {
		return time.Time{}, time.Time{}, leaveerrors.ErrStartDateRequired
	}
	if strings.TrimSpace(end) == "" {
		return time.Time{}, time.Time{}, leaveerrors.ErrEndDateRequired
	}

	startDate, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return startDate, endDate, nil
}

// parseDate accepts a calendar date or an RFC3339 timestamp and keeps only the
// UTC date.
func parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		ts, tsErr := time.Parse(time.RFC3339, v)
		if tsErr != nil {
			return time.Time{}, leaveerrors.ErrInvalidDateFormat
		}
		t = ts.UTC()
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// totalDays counts both ends of the range.
func totalDays(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours()/24)) + 1
}
