package finance_test

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/SimonSchneider/finlife/internal/finance"
)

func TestBankInterestIsCapitalizedYearly(t *testing.T) {
	start := day(2017, time.January, 1)
	s := finance.NewSimulation(start, finance.WithLogger(&logLines{}))
	bank := finance.NewBank("Main", 1000, 1.5, start)
	noErr(t, s.AddAccount(bank))
	if !isAround(bank.Rate(), 0.015) {
		t.Errorf("rate is %f, expected percentages to be normalized to 0.015", bank.Rate())
	}
	simulate(t, s, finance.Until(day(2017, time.December, 31)))
	if bank.Cents() != 100000 {
		t.Errorf("interest was capitalized early, balance is %s", bank.Cents())
	}
	simulate(t, s, finance.For(1))
	if bank.Cents() != 101500 {
		t.Errorf("balance is %s, expected 1015.00", bank.Cents())
	}
	if got := sum(bank.Report().Get("interest")); !isAround(got, 15) {
		t.Errorf("reported interest is %f, expected 15", got)
	}
}

func TestBankRateNormalization(t *testing.T) {
	tests := []struct {
		rate float64
		want float64
	}{
		{0.01, 0.01},
		{1, 1},
		{1.5, 0.015},
		{3, 0.03},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("rate %v is %v", tt.rate, tt.want), func(t *testing.T) {
			if got := finance.NewBank("b", 0, tt.rate, startDate).Rate(); !isAround(got, tt.want) {
				t.Errorf("rate is %f, expected %f", got, tt.want)
			}
		})
	}
}

func TestLoanBalanceIncludesPendingInterest(t *testing.T) {
	start := day(2017, time.January, 1)
	s := finance.NewSimulation(start, finance.WithLogger(&logLines{}))
	loan := finance.NewLoan("Credit", 1000, 0.0365, start)
	noErr(t, s.AddAccount(loan))
	simulate(t, s, finance.For(10))
	if !isAround(loan.Balance(), -1001) {
		t.Errorf("balance is %f, expected -1001", loan.Balance())
	}
	if loan.IsFinished() {
		t.Errorf("loan should not be finished")
	}
	if r := loan.PaymentOutput(finance.Transfer{Amount: -100}); r.Code != finance.TransferNotAllowed {
		t.Errorf("loan paid out money, code %s", r.Code)
	}
}

func TestLoanFixedOverpaymentLeavesStateUntouched(t *testing.T) {
	loan := finance.NewLoan("Credit", 500, 0, startDate)
	r := loan.PaymentInput(finance.Transfer{Amount: 80000, Fixed: true})
	if r.Code != finance.TransferOK || r.Amount != 50000 {
		t.Errorf("expected 500.00 to be accepted, got %s %s", r.Code, r.Amount)
	}
	if loan.Cents() != -50000 || loan.Report().Len() != 1 {
		t.Errorf("fixed overpayment changed the loan to %s", loan.Cents())
	}
}

func TestPropertyFollowsLoanRepayment(t *testing.T) {
	s, _ := newSimulation()
	bank := finance.NewBank("Main", 1000, 0, startDate)
	loan := finance.NewLoan("Credit", 1000, 0, startDate)
	home := Must(finance.NewProperty("Home", 10000, 2000, loan, startDate))
	noErr(t, s.AddAccount(bank, loan, home))
	noErr(t, s.AddUnique(bank, loan, finance.Fixed(500), day(2016, time.September, 2)))
	simulate(t, s, finance.For(1))
	if home.Balance() != 2000 {
		t.Errorf("property is worth %f before any repayment, expected 2000", home.Balance())
	}
	simulate(t, s, finance.For(1))
	if home.Balance() != 6000 {
		t.Errorf("property is worth %f after half the loan was repaid, expected 6000", home.Balance())
	}
	if r := home.PaymentInput(finance.Transfer{Amount: 100}); r.Code != finance.TransferError {
		t.Errorf("property accepted a transfer, code %s", r.Code)
	}
	if _, err := finance.NewProperty("Broken", 1000, 2000, loan, startDate); !errors.Is(err, finance.ErrInvalidProperty) {
		t.Errorf("expected ErrInvalidProperty, got %v", err)
	}
	if _, err := finance.NewProperty("Orphan", 10000, 2000, nil, startDate); !errors.Is(err, finance.ErrNilAccount) {
		t.Errorf("expected ErrNilAccount, got %v", err)
	}
}

func TestExternalAcceptsEverything(t *testing.T) {
	e := finance.NewExternal("State")
	if r := e.PaymentOutput(finance.Transfer{Amount: -12345}); r.Code != finance.TransferOK || r.Amount != -12345 {
		t.Errorf("unexpected result %+v", r)
	}
	if r := e.PaymentInput(finance.Transfer{Amount: 12345}); r.Code != finance.TransferOK || r.Amount != 12345 {
		t.Errorf("unexpected result %+v", r)
	}
	if e.Balance() != 0 || e.Report().Len() != 0 {
		t.Errorf("external accounts keep no state")
	}
}

func TestBausparUnknownTariff(t *testing.T) {
	if _, err := finance.NewBauspar("LBS", 1000, 20000, 0, "flex_xl", startDate); !errors.Is(err, finance.ErrUnknownTariff) {
		t.Errorf("expected ErrUnknownTariff, got %v", err)
	}
}

func TestBausparSavingPhase(t *testing.T) {
	s, _ := newSimulation()
	bank := finance.NewBank("Main", 10000, 0, startDate)
	b := Must(finance.NewBauspar("LBS", 0, 20000, 0, "flex_l5", startDate))
	noErr(t, s.AddAccount(bank, b))
	noErr(t, s.AddUnique(bank, b, finance.Fixed(750), startDate))
	noErr(t, s.AddUnique(b, bank, finance.Fixed(100), startDate))
	simulate(t, s, finance.For(1))

	if b.Cents() != 75000 || bank.Cents() != 925000 {
		t.Errorf("balances are %s and %s, expected 750.00 and 9250.00", b.Cents(), bank.Cents())
	}
	if want := 1 + b.Tariff().PointsPerDay; math.Abs(b.Points()-want) > 1e-9 {
		t.Errorf("points are %f, expected %f", b.Points(), want)
	}
	if codes := s.Report().Labels("code"); codes[1] != "Not allowed" {
		t.Errorf("withdrawal from a building savings contract was %q", codes[1])
	}
	simulate(t, s, finance.Until(day(2017, time.February, 1)))
	if got := b.Phase(); got != finance.PhaseSaving {
		t.Errorf("phase is %s, expected saving", got)
	}
	if got := sum(b.Report().Get("fee")); got != b.Tariff().AnnualFee {
		t.Errorf("fees are %f, expected one annual fee", got)
	}
}

func TestBausparInterimFinancing(t *testing.T) {
	s, _ := newSimulation()
	b := Must(finance.NewBauspar("LBS", 5000, 20000, 0, "direkt_10", startDate))
	noErr(t, s.AddAccount(b))
	noErr(t, b.Allocate())
	if b.Phase() != finance.PhaseInterim {
		t.Fatalf("phase is %s, expected interim financing", b.Phase())
	}
	if err := b.Allocate(); err == nil {
		t.Errorf("expected a second allocation to fail")
	}
	simulate(t, s, finance.Until(day(2016, time.December, 2)))
	if got := b.InterimMonths(); got != 3 {
		t.Errorf("interim financing ran %d months, expected 3", got)
	}
	if got := sum(b.Report().Get("loan_interest")); got <= 0 {
		t.Errorf("interim financing should cost loan interest, got %f", got)
	}
}

func TestBausparLoanPhase(t *testing.T) {
	s, _ := newSimulation()
	bank := finance.NewBank("Main", 20000, 0, startDate)
	b := Must(finance.NewBauspar("LBS", 10000, 20000, 200, "flex_l5", startDate))
	noErr(t, s.AddAccount(bank, b))
	if !b.Eligible() {
		t.Fatalf("contract should be eligible")
	}
	noErr(t, b.Allocate())
	if b.Phase() != finance.PhaseWaiting {
		t.Fatalf("phase is %s, expected waiting", b.Phase())
	}
	simulate(t, s, finance.Until(day(2017, time.January, 1)))
	if b.Phase() != finance.PhaseWaiting {
		t.Errorf("loan started before the waiting time ended")
	}
	simulate(t, s, finance.For(1))
	if b.Phase() != finance.PhaseLoan {
		t.Fatalf("phase is %s, expected the loan to start after 4 months", b.Phase())
	}
	// The loan covers the part of the sum the savings do not, plus 2% agio.
	if bal := b.Balance(); bal > -10150 || bal < -10250 {
		t.Errorf("loan is at %f, expected around -10200", bal)
	}
	if last, _ := b.Report().Last(); last.Label("phase") != string(finance.PhaseLoan) || last.Value("agio") <= 0 {
		t.Errorf("loan start was not reported: %v %v", last.Values, last.Labels)
	}

	noErr(t, s.AddUnique(bank, b, finance.Fixed(15000), s.CurrentDate()))
	simulate(t, s, finance.For(1))
	if !b.IsFinished() {
		t.Errorf("contract should be repaid, phase is %s", b.Phase())
	}
	if got := bank.Balance(); got < 20000-10250 || got > 20000-10150 {
		t.Errorf("bank is at %f, expected the overpayment back", got)
	}
	if r := b.PaymentInput(finance.Transfer{Amount: 100}); r.Code != finance.TransferNotAllowed {
		t.Errorf("repaid contract accepted a payment")
	}
}
