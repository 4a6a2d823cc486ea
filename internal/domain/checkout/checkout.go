// Package checkout models the two-step finalize dialog: the operator first
// fills client and payment details, then reviews and confirms. The flow is
// navigable forward and back and lives only in memory; losing the session
// loses the draft.
package checkout

import (
	"github.com/go-faster/errors"

	"github.com/kmdiallo/gescom-pos/internal/domain/sale"
)

// Step identifies the current dialog step.
type Step string

const (
	StepClientPayment Step = "client-and-payment"
	StepReview        Step = "review-and-confirm"
)

// Flow state errors.
var (
	ErrAlreadyAtFirstStep = errors.New("already at the first checkout step")
	ErrNotAtReview        = errors.New("checkout is not at the review step")
)

// Flow is an open finalize dialog. The zero value is not usable; start a
// dialog with Begin.
type Flow struct {
	step  Step
	draft sale.Draft
}

// Begin opens the dialog at the client-and-payment step with an empty draft.
func Begin() *Flow {
	return &Flow{step: StepClientPayment}
}

// Step returns the current dialog step.
func (f *Flow) Step() Step { return f.step }

// Draft returns the draft as filled so far.
func (f *Flow) Draft() sale.Draft { return f.draft }

// Fill validates and stores the draft fields, then advances to the review
// step. Calling Fill while already at review updates the draft in place so
// the operator can go back, edit, and advance again.
func (f *Flow) Fill(d sale.Draft) error {
	if err := d.Validate(); err != nil {
		return err
	}
	f.draft = d
	f.step = StepReview
	return nil
}

// Back returns from review to the client-and-payment step. The draft is kept.
func (f *Flow) Back() error {
	if f.step == StepClientPayment {
		return ErrAlreadyAtFirstStep
	}
	f.step = StepClientPayment
	return nil
}

// ConfirmReady reports whether the dialog is at the review step, the only
// point from which a sale may be submitted.
func (f *Flow) ConfirmReady() error {
	if f.step != StepReview {
		return ErrNotAtReview
	}
	return nil
}
