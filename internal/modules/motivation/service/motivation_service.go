package service

import (
	"context"
	"strings"

	"focuscraft/internal/modules/motivation/domain"
	motivationout "focuscraft/internal/modules/motivation/port/out"
)

// Service wraps a provider and absorbs every failure mode. It never
// returns an error: a missing, failing, or empty-handed provider all
// degrade to the fixed fallback line.
type Service struct {
	provider motivationout.Provider
}

func NewService(provider motivationout.Provider) *Service {
	return &Service{provider: provider}
}

func (s *Service) Message(ctx context.Context, req domain.Request) string {
	if s == nil || s.provider == nil {
		return domain.FallbackMessage
	}
	msg, err := s.provider.Generate(ctx, req)
	if err != nil || strings.TrimSpace(msg.Text) == "" {
		return domain.FallbackMessage
	}
	return msg.Text
}
