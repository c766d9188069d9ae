package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ldhng/retail-backoffice/internal/core/domain"
	"github.com/ldhng/retail-backoffice/internal/core/state"
	"github.com/ldhng/retail-backoffice/internal/port"
)

type InquiryService struct {
	store *state.Store
	gw    port.Gateway
	log   *zap.Logger
}

func NewInquiryService(store *state.Store, gw port.Gateway, log *zap.Logger) *InquiryService {
	return &InquiryService{store: store, gw: gw, log: log}
}

func (s *InquiryService) Refresh(ctx context.Context) error {
	t := s.store.Ticket(state.KeyInquiries)
	inqs, err := s.gw.FetchInquiries(ctx)
	if err != nil {
		return fmt.Errorf("fetch inquiries: %w", err)
	}
	s.store.SetInquiries(t, inqs)
	return nil
}

// Create registers a new customer inquiry and raises a notification for it.
func (s *InquiryService) Create(ctx context.Context, inq domain.Inquiry) (domain.Inquiry, error) {
	inq.Status = domain.InquiryStatusNew
	t := s.store.Ticket(state.KeyInquiries)
	created, err := s.gw.CreateInquiry(ctx, inq)
	if err != nil {
		s.log.Warn("inquiry create failed", zap.Error(err))
		s.store.PushNotification("Failed to record the customer inquiry")
		return domain.Inquiry{}, fmt.Errorf("create inquiry: %w", err)
	}
	s.store.UpsertInquiry(t, created)
	s.store.PushNotification(fmt.Sprintf("New inquiry from %s: %s", created.CustomerName, created.Subject))
	return created, nil
}

// UpdateStatus moves an inquiry and emails the customer about the change.
// The email is fire-and-forget; its failure only raises a notification.
func (s *InquiryService) UpdateStatus(ctx context.Context, id string, status domain.InquiryStatus) (domain.Inquiry, error) {
	t := s.store.Ticket(state.KeyInquiries)
	updated, err := s.gw.UpdateInquiryStatus(ctx, id, status)
	if err != nil {
		s.log.Warn("inquiry status update failed", zap.String("id", id), zap.Error(err))
		s.store.PushNotification("Failed to update the inquiry status")
		return domain.Inquiry{}, fmt.Errorf("update inquiry status: %w", err)
	}
	s.store.UpsertInquiry(t, updated)

	email := domain.Email{
		Recipient: updated.CustomerEmail,
		Subject:   fmt.Sprintf("Update on your inquiry: %s", updated.Subject),
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour inquiry %q is now %s.\n",
			updated.CustomerName, updated.Subject, updated.Status,
		),
		SentAt: time.Now(),
	}
	if err := s.gw.SendEmail(ctx, email); err != nil {
		s.log.Warn("inquiry email failed", zap.String("id", id), zap.Error(err))
		s.store.PushNotification("Failed to email the customer about their inquiry")
	} else {
		s.store.AppendEmail(email)
	}
	return updated, nil
}
