package credential

import (
	"context"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/events"

	log "github.com/sirupsen/logrus"
)

// notify publishes state transitions. Callers hold writeMu.
func (s *Store) notify(prev, next Credential) {
	wasAuthed := prev.AccessToken != ""
	isAuthed := next.AccessToken != ""

	if wasAuthed != isAuthed {
		log.WithField("authenticated", isAuthed).Info("auth state changed")
		s.publish(events.TopicAuthState, events.AuthState{Authenticated: isAuthed})
		return
	}
	if isAuthed && prev.AccessToken != next.AccessToken {
		log.WithField("token", Mask(next.AccessToken)).Debug("access token rotated")
		s.publish(events.TopicTokenRotated, events.AuthState{Authenticated: true})
	}
}

func (s *Store) publish(topic string, payload any) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(context.Background(), topic, payload, map[string]string{"source": s.source.Name()})
}
