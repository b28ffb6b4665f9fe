package service

import (
	"github.com/labstack/gommon/log"

	"qualiobra/cmd/internal/contract"
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/utils"
	"qualiobra/cmd/internal/utils/apierror"
)

type NotificationRepository interface {
	FindAll(tenantID, userID int64, unreadOnly bool) ([]*entity.Notification, error)
	CountUnread(tenantID, userID int64) (int64, error)
	MarkRead(tenantID, userID, id, now int64) (bool, error)
	MarkAllRead(tenantID, userID, now int64) (int64, error)
	CreateBatch(notifications []*entity.Notification) error
}

// NotificationService exposes the feed of the caller. Every query is keyed by
// the caller user, so nobody reads someone else's notifications.
type NotificationService struct {
	NotificationRepo NotificationRepository
}

func NewNotificationService(notificationRepo NotificationRepository) *NotificationService {
	return &NotificationService{NotificationRepo: notificationRepo}
}

func (n *NotificationService) GetNotifications(auth *entity.AuthContext, unreadOnly bool) ([]*contract.NotificationResponse, apierror.ErrorResponse) {
	if !auth.IsTenant() {
		return nil, apierror.TenantOnlyError
	}

	notifications, err := n.NotificationRepo.FindAll(auth.TenantID(), auth.UserID(), unreadOnly)
	if err != nil {
		log.Errorf("failed to fetch notifications of user %d: %v", auth.UserID(), err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.NotificationResponse, len(notifications))
	for i, notif := range notifications {
		resp[i] = toNotificationResponse(notif)
	}
	return resp, nil
}

func (n *NotificationService) CountUnread(auth *entity.AuthContext) (*contract.UnreadCountResponse, apierror.ErrorResponse) {
	if !auth.IsTenant() {
		return nil, apierror.TenantOnlyError
	}

	count, err := n.NotificationRepo.CountUnread(auth.TenantID(), auth.UserID())
	if err != nil {
		log.Errorf("failed to count unread notifications of user %d: %v", auth.UserID(), err)
		return nil, apierror.InternalServerError
	}
	return &contract.UnreadCountResponse{Unread: count}, nil
}

func (n *NotificationService) MarkRead(auth *entity.AuthContext, id int64) apierror.ErrorResponse {
	if !auth.IsTenant() {
		return apierror.TenantOnlyError
	}

	found, err := n.NotificationRepo.MarkRead(auth.TenantID(), auth.UserID(), id, utils.NowUTC())
	if err != nil {
		log.Errorf("failed to mark notification %d as read: %v", id, err)
		return apierror.InternalServerError
	}

	if !found {
		return apierror.NotFoundError
	}
	return nil
}

func (n *NotificationService) MarkAllRead(auth *entity.AuthContext) (*contract.UnreadCountResponse, apierror.ErrorResponse) {
	if !auth.IsTenant() {
		return nil, apierror.TenantOnlyError
	}

	if _, err := n.NotificationRepo.MarkAllRead(auth.TenantID(), auth.UserID(), utils.NowUTC()); err != nil {
		log.Errorf("failed to mark notifications of user %d as read: %v", auth.UserID(), err)
		return nil, apierror.InternalServerError
	}
	return &contract.UnreadCountResponse{Unread: 0}, nil
}

func toNotificationResponse(n *entity.Notification) *contract.NotificationResponse {
	return &contract.NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Link:      n.Link,
		Read:      n.Read,
		ReadAt:    utils.FormatEpochPtr(n.ReadAt),
		CreatedAt: utils.FormatEpoch(n.CreatedAt),
	}
}
