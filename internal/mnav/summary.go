package mnav

import (
	"fmt"
	"strings"

	"github.com/Lantern567/openbb-for-bmnr/internal/common"
	"github.com/Lantern567/openbb-for-bmnr/internal/models"
)

// RenderSummary formats a valuation and its premium/discount comparison as a
// human-readable text block. Field labels are stable for display purposes but
// the block is not a machine-readable contract.
func RenderSummary(val models.ValuationResult, pd models.PremiumDiscountResult) string {
	hr := strings.Repeat("=", 70)
	sub := func(n int) string { return strings.Repeat("-", n) }

	var sb strings.Builder

	sb.WriteString(hr + "\n")
	sb.WriteString("                        mNAV ANALYSIS SUMMARY\n")
	sb.WriteString(hr + "\n\n")

	sb.WriteString("VALUATION METRICS:\n")
	sb.WriteString(sub(18) + "\n")
	fmt.Fprintf(&sb, "%-24s %s\n", "mNAV per Share:", common.FormatMoney(val.PerShare))
	fmt.Fprintf(&sb, "%-24s %s\n", "Current Market Price:", common.FormatMoney(pd.CurrentPrice))
	fmt.Fprintf(&sb, "%-24s %s\n", "P/mNAV Ratio:", common.FormatRatio(pd.Ratio))
	fmt.Fprintf(&sb, "%-24s %s\n", "Premium/Discount:", common.FormatSignedPct(pd.Pct))
	fmt.Fprintf(&sb, "%-24s %s\n", "Status:", pd.Status.Interpretation())
	sb.WriteString("\n")

	sb.WriteString("BALANCE SHEET COMPONENTS:\n")
	sb.WriteString(sub(24) + "\n")
	fmt.Fprintf(&sb, "%-24s %s\n", "Total Assets:", common.FormatWholeMoney(val.AdjustedAssets))
	fmt.Fprintf(&sb, "%-24s %s\n", "Total Liabilities:", common.FormatWholeMoney(val.TotalLiabilities))
	fmt.Fprintf(&sb, "%-24s %s\n", "Minority Interest:", common.FormatWholeMoney(val.MinorityInterest))
	fmt.Fprintf(&sb, "%-24s %s\n", "Net Asset Value:", common.FormatWholeMoney(val.Total))
	sb.WriteString("\n")

	if val.RevaluationGain != 0 {
		sb.WriteString("FAIR VALUE ADJUSTMENTS:\n")
		sb.WriteString(sub(23) + "\n")
		fmt.Fprintf(&sb, "%-24s %s\n", "Asset Fair Value:", common.FormatWholeMoney(val.FairValue))
		fmt.Fprintf(&sb, "%-24s %s\n", "Asset Book Value:", common.FormatWholeMoney(val.BookValue))
		fmt.Fprintf(&sb, "%-24s %s\n", "Revaluation Gain:", common.FormatWholeMoney(val.RevaluationGain))
		taxLabel := fmt.Sprintf("Deferred Tax (%.1f%%):", val.DeferredTaxRate*100)
		fmt.Fprintf(&sb, "%-24s %s\n", taxLabel, common.FormatWholeMoney(val.DeferredTaxAdjustment))
		sb.WriteString("\n")
	}

	sb.WriteString("SHARE INFORMATION:\n")
	sb.WriteString(sub(17) + "\n")
	fmt.Fprintf(&sb, "%-24s %s\n", "Shares Outstanding:", common.FormatCount(val.SharesOutstanding))
	fmt.Fprintf(&sb, "%-24s %s\n", "Total Market Cap:", common.FormatWholeMoney(pd.CurrentPrice*val.SharesOutstanding))
	fmt.Fprintf(&sb, "%-24s %s\n", "Total mNAV:", common.FormatWholeMoney(val.Total))
	sb.WriteString("\n")

	sb.WriteString(hr + "\n")

	return sb.String()
}
