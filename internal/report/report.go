// Package report renders a plain-text overview of a group.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mmynk/splitpool/internal/currency"
	"github.com/mmynk/splitpool/internal/ledger"
	"github.com/mmynk/splitpool/internal/stamp"
)

const width = 80

var (
	mainRule = strings.Repeat("=", width)
	rule     = strings.Repeat("-", width)
)

// Write prints the group name and description, turnover, members with their
// balances, purchases, transfers and pending balances.
func Write(w io.Writer, g *ledger.Group) error {
	turnover, err := g.Turnover()
	if err != nil {
		return fmt.Errorf("turnover: %w", err)
	}
	pending, err := g.Balances()
	if err != nil {
		return fmt.Errorf("balances: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, mainRule)
	fmt.Fprintf(tw, "Group: %s\n", g.Name())
	if g.Description() != "" {
		fmt.Fprintln(tw, g.Description())
	}
	fmt.Fprintln(tw, mainRule)
	fmt.Fprintf(tw, "Turnover: %s\n", currency.FormatAmount(turnover, g.Currency()))

	fmt.Fprintln(tw, rule)
	fmt.Fprintln(tw, "Members:")
	for _, m := range g.Members() {
		balance, err := m.Balance()
		if err != nil {
			return fmt.Errorf("member %q: %w", m.Name(), err)
		}
		fmt.Fprintf(tw, " * %s\t%s\n", m.Name(), currency.FormatAmount(balance, g.Currency()))
	}

	fmt.Fprintln(tw, rule)
	fmt.Fprintln(tw, "Purchases:")
	writeEntries(tw, g.Purchases())

	fmt.Fprintln(tw, rule)
	fmt.Fprintln(tw, "Transfers:")
	writeEntries(tw, g.Transfers())

	fmt.Fprintln(tw, rule)
	fmt.Fprintln(tw, "Pending balances:")
	for _, p := range pending {
		fmt.Fprintf(tw, " * %s\t%s\t%s\t-> %s\n",
			p.Title(), p.From, currency.FormatAmount(p.Amount, p.Currency), p.To)
	}
	fmt.Fprintln(tw, mainRule)

	return tw.Flush()
}

func writeEntries(w io.Writer, entries []*ledger.Entry) {
	for _, e := range entries {
		title := e.Title()
		if e.Description() != "" {
			title += " (" + e.Description() + ")"
		}
		fmt.Fprintf(w, " * %s\t%s\t%s\t%s\t-> %s\n",
			stamp.Format(e.Date()), title, e.Payer(),
			currency.FormatAmount(e.Amount(), e.Currency()),
			strings.Join(e.Recipients(), ", "))
	}
}
