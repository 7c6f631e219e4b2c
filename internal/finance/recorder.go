package finance

import (
	"github.com/SimonSchneider/goslu/date"
	"github.com/google/uuid"
)

// TransferRecord is one attempted transfer, successful or not. Amount is what
// was actually moved, Requested what the payment asked for.
type TransferRecord struct {
	ID        uuid.UUID
	PaymentID uuid.UUID
	Date      date.Date
	From      string
	To        string
	Requested Cents
	Amount    Cents
	Kind      PaymentKind
	Name      string
	Code      TransferCode
	Message   string
	Meta      Meta
}

type SnapshotRecorder interface {
	OnSnapshot(account string, day date.Date, balance Cents) error
}

type SnapshotRecorderFunc func(account string, day date.Date, balance Cents) error

func (f SnapshotRecorderFunc) OnSnapshot(account string, day date.Date, balance Cents) error {
	return f(account, day, balance)
}

type TransferRecorder interface {
	OnTransfer(rec TransferRecord) error
}

type TransferRecorderFunc func(rec TransferRecord) error

func (f TransferRecorderFunc) OnTransfer(rec TransferRecord) error {
	return f(rec)
}

type Recorder interface {
	SnapshotRecorder
	TransferRecorder
}

type CompositeRecorder struct {
	SnapshotRecorder
	TransferRecorder
}

func (r CompositeRecorder) OnSnapshot(account string, day date.Date, balance Cents) error {
	if r.SnapshotRecorder == nil {
		return nil
	}
	return r.SnapshotRecorder.OnSnapshot(account, day, balance)
}

func (r CompositeRecorder) OnTransfer(rec TransferRecord) error {
	if r.TransferRecorder == nil {
		return nil
	}
	return r.TransferRecorder.OnTransfer(rec)
}
