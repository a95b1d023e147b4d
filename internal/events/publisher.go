package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Subjects of the social action events.
const (
	SubjectIdeaLiked     = "idea.liked"
	SubjectIdeaCommented = "idea.commented"
	SubjectUserFollowed  = "user.followed"
	SubjectIdeaShared    = "idea.shared"
)

// SocialEvent is published after a social action commits.
type SocialEvent struct {
	Action       string `json:"action"`
	ActorID      string `json:"actor_id"`
	TargetUserID string `json:"target_user_id,omitempty"`
	IdeaID       string `json:"idea_id,omitempty"`
	CommentID    string `json:"comment_id,omitempty"`
	ShareCount   int    `json:"share_count,omitempty"`
	Timestamp    string `json:"timestamp"`
}

// Publisher sends events to NATS. Without a connection it drops them.
type Publisher struct {
	conn   *nats.Conn
	logger *zap.SugaredLogger
}

func NewPublisher(conn *nats.Conn, logger *zap.SugaredLogger) *Publisher {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Publisher{conn: conn, logger: logger}
}

func (p *Publisher) Publish(ctx context.Context, subject string, event SocialEvent) error {
	if p == nil || p.conn == nil {
		return nil
	}
	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := p.conn.Publish(subject, eventJSON); err != nil {
		p.logger.Warnw("failed to publish event", "subject", subject, "error", err)
		return err
	}
	return nil
}
