package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/commission"
)

// QuotasMarkdown renders the weekly usage of every account.
func QuotasMarkdown(l *commission.QuotaLedger, rules commission.Rules) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Weekly Quotas\n\n")
	if period, ok := l.Period(); ok {
		fmt.Fprintf(&b, "Period %s (%s)\n\n", period.Identifier(), period)
	} else {
		fmt.Fprint(&b, "No active period.\n\n")
	}
	fmt.Fprintf(&b, "Weekly free allowance: %s\n\n", commission.M(rules.WeeklyFreeAllowance, rules.Currency).Display())

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprintln(w, "| Account | Withdrawn | Free Used | Free Left |")
		fmt.Fprintln(w, "|:---|---:|---:|---:|")
		accounts := l.Accounts()
		for _, id := range accounts {
			e := l.Entry(id)
			fmt.Fprintf(w, "| %s | %s | %s | %s |\n",
				id,
				commission.M(e.TotalWithdrawn, rules.Currency),
				commission.M(e.FreeUsed, rules.Currency),
				commission.M(l.Remaining(id, rules.WeeklyFreeAllowance), rules.Currency),
			)
		}
		return len(accounts) > 0
	})

	return b.String()
}
