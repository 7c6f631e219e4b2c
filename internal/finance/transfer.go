package finance

import (
	"fmt"

	"github.com/google/uuid"
)

// transfer moves the money of one payment: the sender is debited first, then the
// receiver is credited, and whatever the receiver does not take goes back to the
// sender. Every call records exactly one entry. Only broken contracts between
// the accounts and the protocol are returned as errors.
func (s *Simulation) transfer(p Payment) error {
	rec := TransferRecord{
		ID:        uuid.New(),
		PaymentID: p.ID,
		Date:      s.current,
		From:      p.From.Name(),
		To:        p.To.Name(),
		Kind:      p.Kind,
		Name:      p.Name,
		Meta:      p.Meta,
	}
	for _, a := range []Account{p.From, p.To} {
		if a.Kind() != KindExternal && a.StartDate().After(s.current) {
			s.logger.Printf("warning: payment %q on %s involves %s which only opens on %s", p.Name, s.current, a.Name(), a.StartDate())
			return s.record(rec, 0, TransferError, fmt.Sprintf("account %s does not exist yet", a.Name()))
		}
	}
	money, err := p.Amount.Resolve()
	if err != nil {
		return s.record(rec, 0, TransferError, err.Error())
	}
	rec.Requested = money
	if money == 0 {
		return s.record(rec, 0, TransferNotAllowed, "transfer with zero money will not be initiated")
	}

	out := p.From.PaymentOutput(Transfer{
		Counterparty: p.To.Name(),
		Amount:       -money,
		Kind:         p.Kind,
		Description:  p.Name,
		Fixed:        p.Fixed,
		Meta:         p.Meta,
	})
	if out.Code != TransferOK {
		return s.record(rec, 0, out.Code, out.Message)
	}
	switch sent := -out.Amount; {
	case sent > money:
		return s.abort(rec, p.From, sent, fmt.Errorf("%w: %s requested from %s but %s returned", ErrTransferMismatch, money, p.From.Name(), sent))
	case sent < money:
		if p.Fixed {
			return s.abort(rec, p.From, sent, fmt.Errorf("%w: %s requested from %s but %s returned", ErrFixedMismatch, money, p.From.Name(), sent))
		}
		money = sent
	}

	in := p.To.PaymentInput(Transfer{
		Counterparty: p.From.Name(),
		Amount:       money,
		Kind:         p.Kind,
		Description:  p.Name,
		Fixed:        p.Fixed,
		Meta:         p.Meta,
	})
	if in.Code != TransferOK {
		p.From.ReturnMoney(money)
		return s.record(rec, 0, in.Code, in.Message)
	}
	switch got := in.Amount; {
	case got > money:
		return s.abort(rec, nil, 0, fmt.Errorf("%w: %s offered to %s but %s taken", ErrTransferMismatch, money, p.To.Name(), got))
	case got < money:
		if p.Fixed {
			return s.abort(rec, p.From, money, fmt.Errorf("%w: %s offered to %s but only %s accepted", ErrFixedMismatch, money, p.To.Name(), got))
		}
		p.From.ReturnMoney(money - got)
		money = got
	}
	return s.record(rec, money, TransferOK, in.Message)
}

// abort gives refund back to the sender, records the failure and returns err.
func (s *Simulation) abort(rec TransferRecord, sender Account, refund Cents, err error) error {
	if sender != nil && refund != 0 {
		sender.ReturnMoney(refund)
	}
	if recErr := s.record(rec, 0, TransferError, err.Error()); recErr != nil {
		return recErr
	}
	return fmt.Errorf("failed to transfer %q: %w", rec.Name, err)
}

func (s *Simulation) record(rec TransferRecord, amount Cents, code TransferCode, message string) error {
	rec.Amount, rec.Code, rec.Message = amount, code, message
	s.report.Append(Status{
		Date: rec.Date,
		Values: map[string]float64{
			"value":     amount.Float64(),
			"requested": rec.Requested.Float64(),
		},
		Labels: map[string]string{
			"from_acc": rec.From,
			"to_acc":   rec.To,
			"kind":     string(rec.Kind),
			"name":     rec.Name,
			"code":     code.String(),
			"message":  message,
		},
		Meta: rec.Meta,
	})
	if err := s.recorder.OnTransfer(rec); err != nil {
		return fmt.Errorf("failed to record transfer %s from %s to %s on %s: %w", rec.Name, rec.From, rec.To, rec.Date, err)
	}
	return nil
}
