// Package contact handles the contact form. Submissions are checked and
// acknowledged after a short delay, but never stored or forwarded.
package contact

import (
	"context"
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marcusziade/maykott/pkg/models"
)

// Inquiry is a contact form submission
type Inquiry struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Organization string `json:"organization,omitempty"`
	Intent       string `json:"intent"`
	Subject      string `json:"subject,omitempty"`
	Message      string `json:"message"`
}

// Receipt acknowledges a submission
type Receipt struct {
	Reference  string    `json:"reference"`
	ReceivedAt time.Time `json:"received_at"`
}

// FieldErrors maps form fields to what is wrong with them
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + e[f]
	}
	return "invalid inquiry: " + strings.Join(parts, ", ")
}

// Validate checks an inquiry against the intents offered on the form
func Validate(in Inquiry, intents []models.Intent) error {
	errs := FieldErrors{}
	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = "is required"
	}
	if strings.TrimSpace(in.Email) == "" {
		errs["email"] = "is required"
	} else if _, err := mail.ParseAddress(in.Email); err != nil {
		errs["email"] = "is not a valid address"
	}
	if !knownIntent(in.Intent, intents) {
		errs["intent"] = fmt.Sprintf("unknown intent %q", in.Intent)
	}
	if strings.TrimSpace(in.Message) == "" {
		errs["message"] = "is required"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func knownIntent(key string, intents []models.Intent) bool {
	for _, in := range intents {
		if in.Key == key {
			return true
		}
	}
	return false
}

// Submitter acknowledges inquiries after a fixed delay
type Submitter struct {
	intents []models.Intent
	delay   time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// Option configures a Submitter
type Option func(*Submitter)

// WithDelay sets how long a submission takes to be acknowledged
func WithDelay(d time.Duration) Option {
	return func(s *Submitter) {
		s.delay = d
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Submitter) {
		s.logger = logger
	}
}

// WithClock overrides the time source used for receipts
func WithClock(now func() time.Time) Option {
	return func(s *Submitter) {
		s.now = now
	}
}

// NewSubmitter creates a submitter accepting the given intents
func NewSubmitter(intents []models.Intent, options ...Option) *Submitter {
	s := &Submitter{
		intents: intents,
		delay:   1500 * time.Millisecond,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Submit validates the inquiry, waits out the delay and returns a receipt.
// It returns ctx.Err() if the context ends first.
func (s *Submitter) Submit(ctx context.Context, in Inquiry) (Receipt, error) {
	if err := Validate(in, s.intents); err != nil {
		return Receipt{}, err
	}

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Receipt{}, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	receipt := Receipt{
		Reference:  uuid.NewString(),
		ReceivedAt: s.now().UTC(),
	}
	s.logger.Info("Inquiry acknowledged",
		zap.String("reference", receipt.Reference),
		zap.String("intent", in.Intent))
	return receipt, nil
}
