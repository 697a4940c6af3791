package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"ontrack/internal/notify"
	apperrors "ontrack/pkg/errors"
	"ontrack/pkg/logger"
	"ontrack/pkg/model"
	"ontrack/pkg/sanitizer"
)

type ContactService interface {
	// Submit forwards the message to the dealership and returns the
	// customer-facing reference number.
	Submit(ctx context.Context, req *model.ContactRequest) (string, error)
}

type contactService struct {
	dispatcher *notify.Dispatcher
	validate   *validator.Validate
	logger     *logger.Logger
}

func NewContactService(dispatcher *notify.Dispatcher, log *logger.Logger) ContactService {
	return &contactService{
		dispatcher: dispatcher,
		validate:   validator.New(),
		logger:     log,
	}
}

// newReference mints a short reference like OT-9F3A01BC. Collisions are
// tolerable; the reference is a support handle, not a primary key.
func newReference() string {
	return "OT-" + strings.ToUpper(uuid.NewString()[:8])
}

func (s *contactService) Submit(ctx context.Context, req *model.ContactRequest) (string, error) {
	req.Name = sanitizer.NormalizeName(req.Name)
	req.Email = sanitizer.NormalizeEmail(req.Email)
	req.Message = strings.TrimSpace(req.Message)

	if err := s.validate.Struct(req); err != nil {
		return "", apperrors.Validation("Invalid contact request", map[string]any{"errors": err.Error()})
	}

	if req.Phone != "" {
		phone, err := sanitizer.NormalizePhone(req.Phone)
		if err != nil {
			return "", apperrors.Validation("Invalid phone number", nil)
		}
		req.Phone = phone
	}

	ref := newReference()

	if err := s.dispatcher.SendContactMessage(ctx, ref, req); err != nil {
		s.logger.Error("failed to deliver contact message", "ref", ref, "error", err)
		return "", apperrors.Internal("Failed to send message", err)
	}

	s.logger.Info("contact message delivered", "ref", ref)
	return ref, nil
}
