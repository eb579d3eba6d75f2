package services

import (
	"context"

	"github.com/HammerMeetNail/pitchside/internal/logging"
	"github.com/HammerMeetNail/pitchside/internal/models"
)

// LogNotifier records relationship events in the structured log. Delivery to
// users belongs to the notification service.
type LogNotifier struct {
	logger *logging.Logger
}

func NewLogNotifier(logger *logging.Logger) *LogNotifier {
	if logger == nil {
		logger = logging.Default
	}
	return &LogNotifier{logger: logger.WithField("component", "notifier")}
}

func (n *LogNotifier) FriendRequestSent(ctx context.Context, request models.FriendRequest) error {
	n.logger.Info("Friend request sent", requestFields(request))
	return nil
}

func (n *LogNotifier) FriendRequestAccepted(ctx context.Context, request models.FriendRequest) error {
	n.logger.Info("Friend request accepted", requestFields(request))
	return nil
}

func requestFields(request models.FriendRequest) map[string]interface{} {
	return map[string]interface{}{
		"request_id":   request.ID.String(),
		"requester_id": request.RequesterID.String(),
		"requestee_id": request.RequesteeID.String(),
	}
}
