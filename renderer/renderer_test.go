package renderer

import (
	"strings"
	"testing"

	"github.com/etnz/commission"
	"github.com/etnz/commission/date"
)

func sampleCommissions() []commission.Commission {
	rules := commission.DefaultRules()
	tx := func(on string, account string, h commission.Holder, d commission.Direction, amount float64) commission.Transaction {
		return commission.Transaction{Date: date.MustParse(on), Account: account, Holder: h, Direction: d, Amount: commission.D(amount)}
	}
	return []commission.Commission{
		{Transaction: tx("2016-01-05", "1", commission.Individual, commission.Deposit, 200), Amount: rules.RoundUp(commission.D(0.06))},
		{Transaction: tx("2016-01-06", "2", commission.Organization, commission.Withdrawal, 300), Amount: rules.RoundUp(commission.D(0.9))},
		{Transaction: tx("2016-01-07", "1", commission.Individual, commission.Withdrawal, 1000), Amount: rules.RoundUp(commission.D(0))},
	}
}

func TestRenderCommissions(t *testing.T) {
	got := RenderCommissions(sampleCommissions(), "EUR")

	for _, want := range []string{
		"# Commissions",
		"3 transactions, 2 charged",
		"| 1 | 2016-01-05 | 1 | individual | deposit | 200.00 | 0.06 |",
		"| 2 | 2016-01-06 | 2 | organization | withdrawal | 300.00 | 0.90 |",
		"| 3 | 2016-01-07 | 1 | individual | withdrawal | 1000.00 | 0.00 |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderCommissions() missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "error") {
		t.Errorf("RenderCommissions() reported a template error:\n%s", got)
	}
}

func TestNewReportCurrencyDigits(t *testing.T) {
	rules := commission.DefaultRules()
	rules.Currency = "JPY"
	cs := []commission.Commission{{
		Transaction: commission.Transaction{Date: date.MustParse("2016-01-05"), Account: "1", Holder: commission.Individual, Direction: commission.Deposit, Amount: commission.D(2000)},
		Amount:      rules.RoundUp(commission.D(0.6)),
	}}
	r := NewReport(cs, "JPY")
	if got := r.Rows[0].Amount; got != "2000" {
		t.Errorf("NewReport() amount = %q, want %q", got, "2000")
	}
	if got := r.Rows[0].Commission; got != "1" {
		t.Errorf("NewReport() commission = %q, want %q", got, "1")
	}
}

func TestNewReport(t *testing.T) {
	r := NewReport(sampleCommissions(), "EUR")
	if r.Count != 3 || r.Charged != 2 || len(r.Rows) != 3 {
		t.Errorf("NewReport() = %+v", r)
	}
}

func TestQuotasMarkdown(t *testing.T) {
	rules := commission.DefaultRules()

	t.Run("empty", func(t *testing.T) {
		l := commission.NewQuotaLedger(date.MustParse("2016-01-06"))
		got := QuotasMarkdown(l, rules)
		if !strings.Contains(got, "No active period.") {
			t.Errorf("QuotasMarkdown() = %s, want no active period", got)
		}
		if strings.Contains(got, "| Account |") {
			t.Errorf("QuotasMarkdown() = %s, want no account table", got)
		}
	})

	t.Run("with accounts", func(t *testing.T) {
		l := commission.NewQuotaLedger(date.MustParse("2016-01-06"))
		l.CheckPeriod(date.MustParse("2016-01-06"))
		l.Consume("4", commission.D(1200), rules.WeeklyFreeAllowance)
		l.Consume("1", commission.D(300), rules.WeeklyFreeAllowance)

		got := QuotasMarkdown(l, rules)
		for _, want := range []string{
			"Period 2016-W01 (2016-01-04..2016-01-10)",
			"| 1 | 300.00 | 300.00 | 700.00 |",
			"| 4 | 1200.00 | 1000.00 | 0.00 |",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("QuotasMarkdown() missing %q in:\n%s", want, got)
			}
		}
		if strings.Index(got, "| 1 |") > strings.Index(got, "| 4 |") {
			t.Errorf("QuotasMarkdown() accounts are not sorted:\n%s", got)
		}
	})
}
