package service

import (
	"context"
	"errors"

	"github.com/ctfpad/backend/src/domain"
	"github.com/ctfpad/backend/src/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type NotificationService struct {
	notificationRepo *repository.NotificationRepository
}

func NewNotificationService(notificationRepo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

func (s *NotificationService) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("component", "notification-service").Logger()
	return &l
}

// Notify records a notification. A nil recipient broadcasts to every member.
func (s *NotificationService) Notify(ctx context.Context, senderID uint, recipientID *uint, challengeID *uuid.UUID, description string) (*domain.Notification, error) {
	notification := &domain.Notification{
		SenderID:    senderID,
		RecipientID: recipientID,
		ChallengeID: challengeID,
		Description: description,
	}

	if err := s.notificationRepo.CreateNotification(notification); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, domain.NewError(domain.ErrorCodeParameterInvalid, err,
				domain.WithMsg("sender, recipient or challenge does not exist"))
		}
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}

	s.logger(ctx).Debug().
		Uint("notification_id", notification.ID).
		Bool("broadcast", notification.IsBroadcast()).
		Msg("notification recorded")
	return notification, nil
}

// ListForMember returns direct notifications plus broadcasts, newest first.
func (s *NotificationService) ListForMember(ctx context.Context, memberID uint) ([]*domain.Notification, error) {
	notifications, err := s.notificationRepo.FindNotificationsForMember(memberID)
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err)
	}
	return notifications, nil
}

func (s *NotificationService) DeleteNotification(ctx context.Context, id uint) error {
	if err := s.notificationRepo.DeleteNotification(id); err != nil {
		return domain.NewError(domain.ErrorCodeInternalProcess, err)
	}
	return nil
}
