// Package prompt renders the system prompt for one agent turn. Composition
// is pure: an identical snapshot always yields an identical prompt, so the
// only nondeterminism in a turn comes from the model itself.
package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	contractx "github.com/storepilot/storepilot/agent/contract"
)

//go:embed template/rules.txt
var rulesRaw string

// Compose renders the live data summary followed by the fixed rule block.
func Compose(snap *contractx.Snapshot) string {
	var b strings.Builder

	b.WriteString("LIVE STORE DATA SUMMARY\n")
	if snap.Degraded {
		b.WriteString("(partial data: some store records were unavailable when this summary was built)\n")
	}
	if snap.StoreName != "" {
		fmt.Fprintf(&b, "Store: %s\n", snap.StoreName)
	}
	if snap.UserFirstName != "" {
		fmt.Fprintf(&b, "Owner: %s\n", snap.UserFirstName)
	}
	if snap.Niche != "" {
		fmt.Fprintf(&b, "Niche: %s\n", snap.Niche)
	}
	if snap.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", snap.Location)
	}
	fmt.Fprintf(&b, "Total revenue: %s\n", FormatNaira(snap.Revenue))
	fmt.Fprintf(&b, "Total orders: %d (%d pending)\n", snap.TotalOrders, snap.PendingOrders)
	fmt.Fprintf(&b, "Total products: %d\n", snap.TotalProducts)

	if len(snap.LowStockProducts) > 0 {
		b.WriteString("Low stock products:\n")
		for _, p := range snap.LowStockProducts {
			fmt.Fprintf(&b, "  - %s (%d left)\n", p.Name, p.StockQuantity)
		}
	}

	fmt.Fprintf(&b, "Total customers: %d\n", snap.TotalCustomers)
	if len(snap.TopCustomers) > 0 {
		b.WriteString("Top customers by lifetime value:\n")
		for _, c := range snap.TopCustomers {
			fmt.Fprintf(&b, "  - %s (%s)\n", c.Name, FormatNaira(c.LifetimeValue))
		}
	}

	b.WriteString("\n")
	b.WriteString(strings.TrimSpace(rulesRaw))
	b.WriteString("\n")

	return b.String()
}

// FormatNaira renders an amount with the ₦ sign and thousands separators.
func FormatNaira(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	s := fmt.Sprintf("%.2f", amount)
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		// NaN and Inf render without a decimal part; pass them through
		// rather than slicing out of range.
		if neg {
			return "-₦" + s
		}
		return "₦" + s
	}
	whole, frac := s[:dot], s[dot:]

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("₦")
	for i, ch := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	b.WriteString(frac)
	return b.String()
}
