package notification

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/MichelleArumemi/EmployeeMS/internal/directory"
	"github.com/MichelleArumemi/EmployeeMS/internal/identity"
	identityerrors "github.com/MichelleArumemi/EmployeeMS/internal/identity/errors"
	notificationerrors "github.com/MichelleArumemi/EmployeeMS/internal/notification/errors"
	"github.com/MichelleArumemi/EmployeeMS/internal/rbac"
	"github.com/MichelleArumemi/EmployeeMS/internal/realtime"
	"github.com/MichelleArumemi/EmployeeMS/internal/shared/apperror"
	"github.com/MichelleArumemi/EmployeeMS/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultSendTitle = "System Notification"

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, in CreateInput) ([]NotificationResponse, error)
	ListForRecipient(ctx context.Context, principal identity.Principal) (ListNotificationsResponse, error)
	UnreadCount(ctx context.Context, principal identity.Principal) (int64, error)
	MarkRead(ctx context.Context, principal identity.Principal, id string) (NotificationResponse, error)
	MarkAllRead(ctx context.Context, principal identity.Principal) (int64, error)
	Send(ctx context.Context, principal identity.Principal, req SendNotificationRequest) ([]NotificationResponse, error)
	Delete(ctx context.Context, principal identity.Principal, id string) error
}

// Directory resolves display names for senders and checks recipients exist.
type Directory interface {
	Profiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]directory.ProfileResponse, error)
}

type Authorizer interface {
	Enforce(req rbac.EnforceRequest) (bool, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	directory  Directory
	authorizer Authorizer
	publisher  realtime.Publisher
	now        func() time.Time
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	dir Directory,
	authorizer Authorizer,
	publisher realtime.Publisher,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		directory:  dir,
		authorizer: authorizer,
		publisher:  publisher,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     l,
	}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger)
}

func (s *service) Create(ctx context.Context, in CreateInput) ([]NotificationResponse, error) {
	log := s.log(ctx)

	recipients := dedupeRecipients(in.RecipientIDs)
	if len(recipients) == 0 {
		return nil, notificationerrors.ErrRecipientRequired
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, notificationerrors.ErrTitleRequired
	}
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, notificationerrors.ErrMessageRequired
	}

	var metadata json.RawMessage
	if len(in.Metadata) > 0 {
		raw, err := json.Marshal(in.Metadata)
		if err != nil {
			return nil, apperror.ErrInvalidInput.WithCause(err)
		}
		metadata = raw
	}

	now := s.now()
	items := make([]Notification, 0, len(recipients))
	for _, recipientID := range recipients {
		items = append(items, Notification{
			ID:                uuid.New(),
			SenderID:          in.SenderID,
			RecipientID:       recipientID,
			Type:              in.Type,
			Title:             title,
			Message:           message,
			RelatedEntityType: in.RelatedEntityType,
			RelatedEntityID:   in.RelatedEntityID,
			Metadata:          metadata,
			IsRead:            false,
			CreatedAt:         now,
		})
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create notification begin tx failed", zap.Error(err))
		return nil, apperror.Unavailable(err)
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).CreateBatch(ctx, items); err != nil {
		log.Error("create notification persist failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("create notification commit failed", zap.Error(err))
		return nil, apperror.Unavailable(err)
	}

	log.Info("notifications created",
		zap.String("sender_id", in.SenderID.String()),
		zap.Int("recipients", len(items)),
		zap.String("type", in.Type),
	)
	return mapToListResponse(items), nil
}

func (s *service) ListForRecipient(ctx context.Context, principal identity.Principal) (ListNotificationsResponse, error) {
	if !principal.Authenticated() {
		return ListNotificationsResponse{}, identityerrors.ErrUnauthenticated
	}

	items, err := s.repo.FindByRecipient(ctx, principal.SubjectID)
	if err != nil {
		s.log(ctx).Error("list notifications failed", zap.Error(err))
		return ListNotificationsResponse{}, mapRepositoryError(err)
	}

	unread, err := s.repo.CountUnread(ctx, principal.SubjectID)
	if err != nil {
		s.log(ctx).Error("count unread notifications failed", zap.Error(err))
		return ListNotificationsResponse{}, mapRepositoryError(err)
	}

	resp := mapToListResponse(items)
	s.attachSenderNames(ctx, items, resp)

	return ListNotificationsResponse{Notifications: resp, UnreadCount: unread}, nil
}

// attachSenderNames is best effort: a directory outage leaves names empty.
func (s *service) attachSenderNames(ctx context.Context, items []Notification, resp []NotificationResponse) {
	if s.directory == nil || len(items) == 0 {
		return
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, n := range items {
		ids = append(ids, n.SenderID)
	}

	profiles, err := s.directory.Profiles(ctx, ids)
	if err != nil {
		s.log(ctx).Warn("resolve sender names failed", zap.Error(err))
		return
	}

	for i, n := range items {
		if p, ok := profiles[n.SenderID]; ok {
			resp[i].SenderName = p.Name
		}
	}
}

func (s *service) UnreadCount(ctx context.Context, principal identity.Principal) (int64, error) {
	if !principal.Authenticated() {
		return 0, identityerrors.ErrUnauthenticated
	}

	count, err := s.repo.CountUnread(ctx, principal.SubjectID)
	if err != nil {
		return 0, mapRepositoryError(err)
	}
	return count, nil
}

func (s *service) MarkRead(ctx context.Context, principal identity.Principal, id string) (NotificationResponse, error) {
	if !principal.Authenticated() {
		return NotificationResponse{}, identityerrors.ErrUnauthenticated
	}

	notificationID, err := uuid.Parse(id)
	if err != nil {
		return NotificationResponse{}, notificationerrors.ErrNotificationNotFound
	}

	updated, err := s.repo.MarkRead(ctx, notificationID, principal.SubjectID, s.now())
	if err != nil {
		s.log(ctx).Error("mark notification read failed", zap.String("notification_id", id), zap.Error(err))
		return NotificationResponse{}, mapRepositoryError(err)
	}

	n, err := s.repo.FindByIDForRecipient(ctx, notificationID, principal.SubjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log(ctx).Warn("mark read on foreign or missing notification",
				zap.String("notification_id", id),
				zap.String("recipient_id", principal.SubjectID.String()),
			)
		}
		return NotificationResponse{}, mapRepositoryError(err)
	}

	if updated > 0 {
		s.log(ctx).Debug("notification marked read", zap.String("notification_id", id))
	}
	return mapToResponse(*n), nil
}

func (s *service) MarkAllRead(ctx context.Context, principal identity.Principal) (int64, error) {
	if !principal.Authenticated() {
		return 0, identityerrors.ErrUnauthenticated
	}

	updated, err := s.repo.MarkAllRead(ctx, principal.SubjectID, s.now())
	if err != nil {
		s.log(ctx).Error("mark all notifications read failed", zap.Error(err))
		return 0, mapRepositoryError(err)
	}

	s.log(ctx).Info("notifications marked read", zap.Int64("updated", updated))
	return updated, nil
}

func (s *service) Send(ctx context.Context, principal identity.Principal, req SendNotificationRequest) ([]NotificationResponse, error) {
	log := s.log(ctx)

	if err := s.authorize(principal, rbac.ActionSend); err != nil {
		return nil, err
	}

	recipients := make([]uuid.UUID, 0, len(req.RecipientIDs))
	for _, raw := range req.RecipientIDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, notificationerrors.ErrInvalidRecipientID
		}
		recipients = append(recipients, id)
	}
	recipients = dedupeRecipients(recipients)
	if len(recipients) == 0 {
		return nil, notificationerrors.ErrRecipientRequired
	}

	var relatedID *uuid.UUID
	if strings.TrimSpace(req.RelatedEntityID) != "" {
		id, err := uuid.Parse(req.RelatedEntityID)
		if err != nil {
			return nil, notificationerrors.ErrInvalidRelatedEntityID
		}
		relatedID = &id
	}

	lookup := make([]uuid.UUID, 0, len(recipients)+1)
	lookup = append(lookup, principal.SubjectID)
	lookup = append(lookup, recipients...)
	profiles, err := s.directory.Profiles(ctx, lookup)
	if err != nil {
		return nil, err
	}
	for _, id := range recipients {
		if _, ok := profiles[id]; !ok {
			log.Warn("send notification to unknown recipient", zap.String("recipient_id", id.String()))
			return nil, notificationerrors.ErrRecipientNotFound
		}
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = defaultSendTitle
	}
	notificationType := strings.TrimSpace(req.Type)
	if notificationType == "" {
		notificationType = TypeAdmin
	}
	relatedType := req.RelatedEntityType
	if relatedType == "" {
		relatedType = RelatedAnnouncement
	}

	created, err := s.Create(ctx, CreateInput{
		SenderID:          principal.SubjectID,
		RecipientIDs:      recipients,
		Type:              notificationType,
		Title:             title,
		Message:           req.Message,
		RelatedEntityType: relatedType,
		RelatedEntityID:   relatedID,
		Metadata:          req.Metadata,
	})
	if err != nil {
		return nil, err
	}

	if sender, ok := profiles[principal.SubjectID]; ok {
		for i := range created {
			created[i].SenderName = sender.Name
		}
	}

	for _, n := range created {
		s.deliver(ctx, n)
	}
	return created, nil
}

// deliver pushes a stored notification to its recipient. Failures are only logged.
func (s *service) deliver(ctx context.Context, n NotificationResponse) {
	if s.publisher == nil {
		return
	}
	ctx = contextutil.Detach(ctx)

	recipientID, err := uuid.Parse(n.RecipientID)
	if err != nil {
		return
	}

	event := realtime.NewEvent(realtime.EventNewNotification, n)
	if err := s.publisher.Publish(ctx, realtime.UserChannel(recipientID), event); err != nil {
		s.log(ctx).Warn("publish notification failed",
			zap.String("notification_id", n.ID),
			zap.String("recipient_id", n.RecipientID),
			zap.Error(err),
		)
	}
}

func (s *service) Delete(ctx context.Context, principal identity.Principal, id string) error {
	if !principal.Authenticated() {
		return identityerrors.ErrUnauthenticated
	}

	notificationID, err := uuid.Parse(id)
	if err != nil {
		return notificationerrors.ErrNotificationNotFound
	}

	n, err := s.repo.FindByID(ctx, notificationID)
	if err != nil {
		return mapRepositoryError(err)
	}

	owns := n.RecipientID == principal.SubjectID || n.SenderID == principal.SubjectID
	if !owns {
		if err := s.authorize(principal, rbac.ActionDeleteAny); err != nil {
			// Foreign notifications are reported as missing, not forbidden.
			if apperror.Is(err, apperror.CodeForbidden) {
				return notificationerrors.ErrNotificationNotFound
			}
			return err
		}
	}

	deleted, err := s.repo.Delete(ctx, notificationID)
	if err != nil {
		s.log(ctx).Error("delete notification failed", zap.String("notification_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}
	if deleted == 0 {
		return notificationerrors.ErrNotificationNotFound
	}

	s.log(ctx).Info("notification deleted", zap.String("notification_id", id))
	return nil
}

func (s *service) authorize(principal identity.Principal, action string) error {
	if !principal.Authenticated() {
		return identityerrors.ErrUnauthenticated
	}

	allowed, err := s.authorizer.Enforce(rbac.EnforceRequest{
		Role:     principal.Role,
		Resource: rbac.ResourceNotification,
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

func dedupeRecipients(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
