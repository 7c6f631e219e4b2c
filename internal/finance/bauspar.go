package finance

import (
	"fmt"
	"math"
	"time"

	"github.com/SimonSchneider/finlife/internal/calendar"
	"github.com/SimonSchneider/goslu/date"
)

// Tariff is the fixed contract table of a building savings product.
type Tariff struct {
	Name            string
	PointsPerDay    float64
	PointsPerEuro   float64
	PointLimit      float64
	SavingsRate     float64
	AnnualFee       float64
	MinSavingsShare float64
	LoanRate        float64
	WaitingMonths   int
	Agio            float64
	Insurance       float64
}

var Tariffs = map[string]Tariff{
	"flex_l5": {
		Name:            "Flex L5",
		PointsPerDay:    0.0563,
		PointsPerEuro:   1 / 750.0,
		PointLimit:      171,
		SavingsRate:     0.0025,
		AnnualFee:       7.2,
		MinSavingsShare: 0.4,
		LoanRate:        0.0215,
		WaitingMonths:   4,
		Agio:            0.02,
		Insurance:       0.003,
	},
	"direkt_10": {
		Name:            "Direkt 10",
		PointsPerDay:    0.0403,
		PointsPerEuro:   1 / 650.0,
		PointLimit:      176,
		SavingsRate:     0.001,
		AnnualFee:       7.2,
		MinSavingsShare: 0.4,
		LoanRate:        0.0195,
		WaitingMonths:   3,
		Agio:            0.02,
		Insurance:       0.003,
	},
	"direkt_15": {
		Name:            "Direkt 15",
		PointsPerDay:    0.0403,
		PointsPerEuro:   1 / 650.0,
		PointLimit:      176,
		SavingsRate:     0.001,
		AnnualFee:       7.2,
		MinSavingsShare: 0.4,
		LoanRate:        0.0175,
		WaitingMonths:   3,
		Agio:            0.02,
		Insurance:       0.003,
	},
	"alternative": {
		Name:            "Alternative",
		PointsPerDay:    0.0403,
		PointsPerEuro:   1 / 650.0,
		PointLimit:      176,
		SavingsRate:     0.001,
		AnnualFee:       7.2,
		MinSavingsShare: 0.4,
		LoanRate:        0.025,
		WaitingMonths:   3,
		Agio:            0.02,
		Insurance:       0.003,
	},
}

type BausparPhase string

const (
	PhaseSaving  BausparPhase = "saving"
	PhaseWaiting BausparPhase = "waiting"
	PhaseInterim BausparPhase = "interim"
	PhaseLoan    BausparPhase = "loan"
	PhaseRepaid  BausparPhase = "repaid"
)

type bausparRecord struct {
	accountInterest float64
	loanInterest    float64
	insurance       float64
	payments        float64
	fee             float64
	agio            float64
}

// Bauspar is a building savings contract. Deposits earn points and interest
// until the contract is allocated; the contract sum is then paid out and the
// part not covered by the savings becomes a loan. Allocating before the point
// limit and the minimum savings share are reached requires interim financing,
// which charges loan interest on the full contract sum.
type Bauspar struct {
	base
	tariff Tariff
	sum    Cents
	cents  Cents
	loan   Cents
	points float64
	phase  BausparPhase

	pending          float64
	pendingLoan      float64
	pendingInsurance float64

	payout       date.Date
	interimStart date.Date
	loanStart    date.Date
	rec          bausparRecord
}

func NewBauspar(name string, savings, sum, points float64, tariff string, start date.Date, opts ...AccountOption) (*Bauspar, error) {
	t, ok := Tariffs[tariff]
	if !ok {
		return nil, fmt.Errorf("failed to create contract %q: %w: %q", name, ErrUnknownTariff, tariff)
	}
	b := &Bauspar{
		base:   newBase(KindBauspar, name, start, t.SavingsRate, CentsOf(savings), opts),
		tariff: t,
		sum:    CentsOf(sum),
		cents:  CentsOf(savings),
		points: points,
		phase:  PhaseSaving,
	}
	b.report.mustTag(map[string]Semantic{
		"account":          SavingAbs,
		"loan":             DebtAbs,
		"loan_interest":    CostCum,
		"account_interest": WinCum,
		"points":           None,
		"payments":         DebtPaymentCum,
		"agio":             CostCum,
		"insurance":        CostCum,
		"fee":              CostCum,
	}, "account", "loan", "loan_interest", "account_interest", "points", "payments", "agio", "insurance", "fee")
	b.record()
	return b, nil
}

func (b *Bauspar) Tariff() Tariff      { return b.tariff }
func (b *Bauspar) Phase() BausparPhase { return b.phase }
func (b *Bauspar) Points() float64     { return b.points }
func (b *Bauspar) Sum() Cents          { return b.sum }

// Cents is the savings balance before the loan phase and the negative
// outstanding loan afterwards.
func (b *Bauspar) Cents() Cents {
	switch b.phase {
	case PhaseLoan, PhaseRepaid:
		return -Cents(b.owed())
	default:
		return b.cents
	}
}

func (b *Bauspar) Balance() float64 {
	switch b.phase {
	case PhaseLoan, PhaseRepaid:
		return -b.owed() / 100
	default:
		return b.cents.Float64()
	}
}

func (b *Bauspar) owed() float64 {
	return float64(b.loan) + b.pendingLoan + b.pendingInsurance
}

func (b *Bauspar) IsFinished() bool {
	return b.phase == PhaseRepaid
}

// Eligible reports whether the contract can be paid out without interim financing.
func (b *Bauspar) Eligible() bool {
	return b.points >= b.tariff.PointLimit && float64(b.cents) >= b.tariff.MinSavingsShare*float64(b.sum)
}

// InterimMonths is the number of months the contract needed interim financing.
func (b *Bauspar) InterimMonths() int {
	if b.interimStart == 0 {
		return 0
	}
	end := b.current
	if b.loanStart != 0 {
		end = b.loanStart
	}
	return calendar.MonthDiff(b.interimStart, end)
}

// Allocate requests the payout of the contract. An eligible contract starts the
// loan after the tariff's waiting months, any other one enters interim financing.
func (b *Bauspar) Allocate() error {
	if b.phase != PhaseSaving {
		return fmt.Errorf("failed to allocate %s: contract is in phase %s", b.name, b.phase)
	}
	if b.Eligible() {
		b.phase = PhaseWaiting
		b.payout = calendar.AddMonths(b.current, b.tariff.WaitingMonths)
	} else {
		b.phase = PhaseInterim
		b.interimStart = b.current
	}
	return nil
}

func (b *Bauspar) StartOfDay() {
	if b.phase == PhaseLoan || b.phase == PhaseRepaid {
		return
	}
	if _, m, d := calendar.YMD(b.current); m == time.January && d == 1 {
		fee := CentsOf(b.tariff.AnnualFee)
		b.cents -= fee
		b.rec.fee += float64(fee)
	}
}

func (b *Bauspar) PaymentOutput(Transfer) TransferResult {
	return declined(TransferNotAllowed, "building savings cannot be withdrawn")
}

func (b *Bauspar) PaymentInput(t Transfer) TransferResult {
	switch b.phase {
	case PhaseRepaid:
		return declined(TransferNotAllowed, "no credit to pay for")
	case PhaseLoan:
		return b.repay(t)
	}
	b.cents += t.Amount
	b.points += t.Amount.Float64() * b.tariff.PointsPerEuro
	b.rec.payments += float64(t.Amount)
	return moved(t.Amount)
}

func (b *Bauspar) repay(t Transfer) TransferResult {
	owed := b.owed()
	if owed <= 0 {
		return declined(TransferNotAllowed, "no credit to pay for")
	}
	if float64(t.Amount) <= owed {
		b.loan -= t.Amount
		b.rec.payments += float64(t.Amount)
		return moved(t.Amount)
	}
	accepted := Cents(math.Ceil(owed))
	if t.Fixed {
		return TransferResult{Code: TransferOK, Amount: accepted, Message: "only the outstanding credit can be paid"}
	}
	b.rec.loanInterest += b.pendingLoan
	b.rec.insurance += b.pendingInsurance
	b.loan = Cents(owed - float64(accepted))
	b.pendingLoan, b.pendingInsurance = 0, 0
	b.rec.payments += float64(accepted)
	b.phase = PhaseRepaid
	b.record()
	return moved(accepted)
}

func (b *Bauspar) ReturnMoney(amount Cents) {
	if b.phase == PhaseLoan || b.phase == PhaseRepaid {
		b.loan -= amount
		return
	}
	b.cents += amount
}

func (b *Bauspar) EndOfDay() {
	days := float64(calendar.DaysInYear(calendar.Year(b.current)))
	phase := b.phase
	switch b.phase {
	case PhaseSaving, PhaseWaiting, PhaseInterim:
		interest := float64(b.cents) * (b.tariff.SavingsRate / days)
		b.pending += interest
		b.rec.accountInterest += interest
		b.points += b.tariff.PointsPerDay
		if b.phase == PhaseInterim {
			loanInterest := float64(b.sum) * (b.tariff.LoanRate / days)
			b.pendingLoan += loanInterest
			b.rec.loanInterest += loanInterest
		}
		if b.isInterestDate() {
			b.capitalizeSavings()
		}
		if (b.phase == PhaseWaiting && !b.current.Before(b.payout)) || (b.phase == PhaseInterim && b.Eligible()) {
			b.startLoan()
		}
	case PhaseLoan:
		loanInterest := float64(b.loan) * (b.tariff.LoanRate / days)
		insurance := float64(b.loan) * (b.tariff.Insurance / days)
		b.pendingLoan += loanInterest
		b.pendingInsurance += insurance
		b.rec.loanInterest += loanInterest
		b.rec.insurance += insurance
		if b.isInterestDate() {
			b.loan = Cents(math.RoundToEven(b.owed()))
			b.pendingLoan, b.pendingInsurance = 0, 0
		}
		if b.loan <= 0 && b.pendingLoan+b.pendingInsurance <= 0 {
			b.phase = PhaseRepaid
		}
	}
	if phase != b.phase || calendar.IsEndOfMonth(b.current) {
		b.record()
	}
}

// capitalizeSavings folds savings interest, less interim loan interest, into the savings.
func (b *Bauspar) capitalizeSavings() {
	b.cents = Cents(math.RoundToEven(float64(b.cents) + b.pending - b.pendingLoan))
	b.pending, b.pendingLoan = 0, 0
}

func (b *Bauspar) startLoan() {
	b.capitalizeSavings()
	loan := float64(b.sum - b.cents)
	agio := loan * b.tariff.Agio
	b.loan = Cents(math.RoundToEven(loan + agio))
	b.rec.agio += agio
	b.cents = 0
	b.phase = PhaseLoan
	b.loanStart = b.current
}

func (b *Bauspar) record() {
	b.append(map[string]float64{
		"account":          b.cents.Float64(),
		"loan":             -float64(b.loan) / 100,
		"loan_interest":    b.rec.loanInterest / 100,
		"account_interest": b.rec.accountInterest / 100,
		"points":           b.points,
		"payments":         b.rec.payments / 100,
		"agio":             b.rec.agio / 100,
		"insurance":        b.rec.insurance / 100,
		"fee":              b.rec.fee / 100,
	}, map[string]string{"phase": string(b.phase)}, nil)
	b.rec = bausparRecord{}
}

func (b *Bauspar) Columns(Interval) []Column {
	return []Column{dateColumn, moneyColumn("payments"), moneyColumn("account_interest"), moneyColumn("fee"),
		moneyColumn("account"), moneyColumn("agio"), moneyColumn("loan_interest"), moneyColumn("insurance"),
		moneyColumn("loan"), numberColumn("points")}
}
