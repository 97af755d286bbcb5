package otp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/plantnet-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/plantnet-backend/pkg/errors"
	"github.com/angelmondragon/plantnet-backend/pkg/logger"
	"github.com/angelmondragon/plantnet-backend/pkg/mailer"
	"github.com/angelmondragon/plantnet-backend/pkg/security"
	"github.com/angelmondragon/plantnet-backend/pkg/types"
)

const (
	codeDigits  = 6
	mailSubject = "Your OTP Code"
	defaultTTL  = 5 * time.Minute
)

// Service issues and checks one-time codes delivered by mail.
type Service interface {
	Send(ctx context.Context, email string) (types.StatusEnvelope, error)
	Verify(ctx context.Context, email string, code Code) (types.StatusEnvelope, error)
}

type ServiceParams struct {
	Store  Store
	Mailer mailer.Sender
	Hash   config.HashConfig
	TTL    time.Duration
	Logger *logger.Logger
	Now    func() time.Time
	// Generate overrides code generation in tests.
	Generate func() (string, error)
}

type service struct {
	store    Store
	mailer   mailer.Sender
	hash     config.HashConfig
	ttl      time.Duration
	logg     *logger.Logger
	now      func() time.Time
	generate func() (string, error)
}

func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "otp store is required")
	}
	if params.Mailer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mailer is required")
	}
	s := &service{
		store:    params.Store,
		mailer:   params.Mailer,
		hash:     params.Hash,
		ttl:      params.TTL,
		logg:     params.Logger,
		now:      params.Now,
		generate: params.Generate,
	}
	if s.ttl <= 0 {
		s.ttl = defaultTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.generate == nil {
		s.generate = func() (string, error) { return security.GenerateNumericCode(codeDigits) }
	}
	return s, nil
}

// Send replaces any pending code for email and mails the new one. If the mail
// cannot be sent the stored code is removed again.
func (s *service) Send(ctx context.Context, email string) (types.StatusEnvelope, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return types.StatusEnvelope{}, pkgerrors.New(pkgerrors.CodeValidation, "Email is required")
	}

	code, err := s.generate()
	if err != nil {
		return types.StatusEnvelope{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to send OTP")
	}
	hash, err := security.HashSecret(code, s.hash)
	if err != nil {
		return types.StatusEnvelope{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to send OTP")
	}
	entry := Entry{Hash: hash, ExpiresAt: s.now().Add(s.ttl)}
	if err := s.store.Put(ctx, email, entry); err != nil {
		return types.StatusEnvelope{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to send OTP")
	}

	msg := mailer.Message{
		To:      email,
		Subject: mailSubject,
		Body:    fmt.Sprintf("Your OTP is %s. It will expire in %s.", code, expiryText(s.ttl)),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		if delErr := s.store.Delete(ctx, email); delErr != nil && s.logg != nil {
			s.logg.Error(s.logg.WithEmail(ctx, email), "otp.send.cleanup_failed", delErr)
		}
		return types.StatusEnvelope{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to send OTP")
	}
	return types.StatusEnvelope{Success: true, Message: "OTP sent to email"}, nil
}

// Verify consumes the pending code on success. A wrong code leaves it in place.
// Of concurrent callers with the right code, only the one whose Consume wins succeeds.
func (s *service) Verify(ctx context.Context, email string, code Code) (types.StatusEnvelope, error) {
	email = strings.TrimSpace(email)
	if email == "" || code == "" {
		return types.StatusEnvelope{}, pkgerrors.New(pkgerrors.CodeValidation, "Email and OTP required")
	}

	entry, ok, err := s.store.Get(ctx, email)
	if err != nil {
		return types.StatusEnvelope{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to verify OTP")
	}
	if !ok {
		return types.StatusEnvelope{}, errNotFound()
	}
	if entry.Expired(s.now()) {
		if _, err := s.store.Consume(ctx, email, entry.Hash); err != nil {
			return types.StatusEnvelope{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to verify OTP")
		}
		return types.StatusEnvelope{}, pkgerrors.New(pkgerrors.CodeValidation, "OTP expired")
	}

	match, err := security.VerifySecret(code.String(), entry.Hash)
	if err != nil {
		return types.StatusEnvelope{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to verify OTP")
	}
	if !match {
		return types.StatusEnvelope{}, pkgerrors.New(pkgerrors.CodeValidation, "Invalid OTP")
	}

	consumed, err := s.store.Consume(ctx, email, entry.Hash)
	if err != nil {
		return types.StatusEnvelope{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to verify OTP")
	}
	if !consumed {
		return types.StatusEnvelope{}, errNotFound()
	}
	return types.StatusEnvelope{Success: true, Message: "OTP verified successfully"}, nil
}

func errNotFound() error {
	return pkgerrors.New(pkgerrors.CodeValidation, "OTP not found")
}

// expiryText renders ttl for the mail body: whole minutes when it is a whole
// number of minutes, seconds otherwise.
func expiryText(ttl time.Duration) string {
	if ttl >= time.Minute && ttl%time.Minute == 0 {
		if minutes := int(ttl / time.Minute); minutes != 1 {
			return fmt.Sprintf("%d minutes", minutes)
		}
		return "1 minute"
	}
	seconds := int(ttl.Round(time.Second) / time.Second)
	if seconds <= 1 {
		return "1 second"
	}
	return fmt.Sprintf("%d seconds", seconds)
}
