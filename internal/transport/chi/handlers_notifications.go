package chi

import (
	"net/http"

	"github.com/kailas-cloud/jobmatch/internal/domain/notification"
)

// ListNotifications handles GET /notifications.
func (s *Server) ListNotifications(w http.ResponseWriter, r *http.Request) {
	offset, limit, ok := bindPage(w, r)
	if !ok {
		return
	}
	events, unread, err := s.inbox.List(r.Context(), principal(r).UserID, offset, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]NotificationResponse, len(events))
	for i := range events {
		items[i] = notificationToResponse(&events[i])
	}
	writeJSON(w, http.StatusOK, NotificationListResponse{Items: items, Unread: unread})
}

// MarkNotificationRead handles POST /notifications/{id}/read.
func (s *Server) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, ok := bindID(w, r)
	if !ok {
		return
	}
	ev, err := s.inbox.MarkRead(r.Context(), principal(r).UserID, id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notificationToResponse(&ev))
}

// NotificationStream handles GET /notifications/ws.
func (s *Server) NotificationStream(w http.ResponseWriter, r *http.Request) {
	s.push.Serve(w, r, principal(r).UserID)
}

func notificationToResponse(ev *notification.Event) NotificationResponse {
	return NotificationResponse{
		ID:        ev.ID(),
		Message:   ev.Message(),
		CreatedAt: ev.CreatedAt(),
		Read:      ev.Read(),
	}
}
