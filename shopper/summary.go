package shopper

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Skipped returns the items that had no link to try
func (sm *Summary) Skipped() []FailedItem {
	return sm.byReason(ReasonNoLink)
}

// AttemptFailed returns the items whose links were tried without success
func (sm *Summary) AttemptFailed() []FailedItem {
	return sm.byReason(ReasonAttemptFailed)
}

func (sm *Summary) byReason(reason Reason) []FailedItem {
	var items []FailedItem
	for _, f := range sm.Failed {
		if f.Reason == reason {
			items = append(items, f)
		}
	}
	return items
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

// Render prints the shopping summary to w
func (sm *Summary) Render(w io.Writer) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(w, "\n%s\nSHOPPING SUMMARY\n%s\n", rule, rule)
	fmt.Fprintln(w, text.FgGreen.Sprintf("\nSuccessfully added: %d items", sm.AddedCount))

	if skipped := sm.Skipped(); len(skipped) > 0 {
		fmt.Fprintln(w, text.FgYellow.Sprintf("\nSkipped %d items (no links provided):", len(skipped)))
		for _, item := range skipped {
			fmt.Fprintf(w, "   - %s\n", item.Name)
		}
	}

	if failed := sm.AttemptFailed(); len(failed) > 0 {
		fmt.Fprintln(w, text.FgRed.Sprintf("\nFailed to add %d items:", len(failed)))
		t := newTable(w)
		t.AppendHeader(table.Row{"Item", "Reason"})
		for _, item := range failed {
			t.AppendRow(table.Row{item.Name, item.Detail})
		}
		t.Render()
	}

	switch {
	case sm.CartErr != nil:
		fmt.Fprintln(w, text.FgYellow.Sprintf("\nCart contents unavailable: %v", sm.CartErr))
	case sm.Cart != nil:
		if len(sm.Cart.Items) > 0 {
			fmt.Fprintln(w, "\nCart Contents:")
			t := newTable(w)
			t.AppendHeader(table.Row{"Product", "Qty", "Price"})
			for _, line := range sm.Cart.Items {
				t.AppendRow(table.Row{line.Name, line.Quantity, line.Price})
			}
			if sm.Cart.ItemCount > 0 {
				t.AppendFooter(table.Row{"Items in cart", sm.Cart.ItemCount, ""})
			}
			t.Render()
		}
		if sm.Cart.Subtotal != "" {
			fmt.Fprintf(w, "\nSubtotal: %s\n", sm.Cart.Subtotal)
		}
	}

	fmt.Fprintf(w, "\n%s\n", rule)
}
