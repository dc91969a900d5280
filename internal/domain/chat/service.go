package chat

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/healthintel/healthintel/internal/platform/db"
	"github.com/healthintel/healthintel/pkg/apperrors"
)

var tracer = otel.Tracer("github.com/healthintel/healthintel/internal/domain/chat")

const (
	MaxMessageLength   = 5000
	DefaultHistorySize = 50
	MaxHistorySize     = 200
)

var languages = map[string]struct{}{"en": {}, "hi": {}, "mr": {}}

type Request struct {
	Message   string `json:"message"`
	Mode      string `json:"mode"`
	Language  string `json:"language"`
	SessionID string `json:"session_id"`
}

// Validate applies defaults and rejects out-of-range input.
func (r *Request) Validate() error {
	if r.Mode == "" {
		r.Mode = ModeHealth
	}
	if r.Language == "" {
		r.Language = "en"
	}
	n := utf8.RuneCountInString(r.Message)
	if n == 0 {
		return apperrors.Validation("message is required")
	}
	if n > MaxMessageLength {
		return apperrors.Validation("message must be at most %d characters", MaxMessageLength)
	}
	if r.Mode != ModeHealth && r.Mode != ModeMental {
		return apperrors.Validation("mode must be health or mental")
	}
	if _, ok := languages[r.Language]; !ok {
		return apperrors.Validation("language must be one of en, hi, mr")
	}
	return nil
}

type Response struct {
	Mode      string `json:"mode"`
	SessionID string `json:"session_id"`
	Reply
}

type Service struct {
	repo   Repository
	tx     db.TxBeginner
	engine *Engine
	logger zerolog.Logger
	now    func() time.Time
}

// NewService builds the chat service. tx may be nil when repo is not backed
// by the database.
func NewService(repo Repository, tx db.TxBeginner, engine *Engine, logger zerolog.Logger) *Service {
	return &Service{repo: repo, tx: tx, engine: engine, logger: logger, now: time.Now}
}

func (s *Service) atomically(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return db.WithTx(ctx, s.tx, fn)
}

// Send answers a message and stores the user turn and the reply together.
// If either write fails no reply is returned.
func (s *Service) Send(ctx context.Context, userID uuid.UUID, req Request) (*Response, error) {
	ctx, span := tracer.Start(ctx, "chat.Send")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}
	span.SetAttributes(attribute.String("chat.mode", req.Mode))

	reply := s.engine.Reply(ctx, req.Message, req.Mode)

	at := s.now().UTC()
	err := s.atomically(ctx, func(ctx context.Context) error {
		if err := s.repo.Append(ctx, &Turn{
			UserID:    userID,
			Role:      RoleUser,
			Content:   req.Message,
			SessionID: req.SessionID,
			Metadata:  map[string]any{"mode": req.Mode, "language": req.Language},
			CreatedAt: at,
		}); err != nil {
			return err
		}
		return s.repo.Append(ctx, &Turn{
			UserID:    userID,
			Role:      RoleAssistant,
			Content:   reply.Response,
			SessionID: req.SessionID,
			Metadata:  map[string]any{"mode": req.Mode, "confidence": reply.Confidence, "risk_flags": reply.RiskFlags},
			CreatedAt: at.Add(time.Microsecond),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("store chat turns: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID.String()).
		Str("mode", req.Mode).
		Str("language", req.Language).
		Int("risk_flags", len(reply.RiskFlags)).
		Msg("chat reply sent")

	return &Response{Mode: req.Mode, SessionID: req.SessionID, Reply: reply}, nil
}

// History returns the user's turns, newest first.
func (s *Service) History(ctx context.Context, userID uuid.UUID, sessionID string, limit int) ([]*Turn, error) {
	if limit < 1 || limit > MaxHistorySize {
		return nil, apperrors.Validation("limit must be between 1 and %d", MaxHistorySize)
	}
	turns, err := s.repo.History(ctx, userID, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("chat history: %w", err)
	}
	return turns, nil
}
