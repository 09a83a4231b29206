package notify

import (
	"fmt"
	"strings"

	"solana-proxy/internal/domain"
)

// FormatSwap renders a swap event as a Markdown message.
func FormatSwap(ev domain.SwapEvent) string {
	var b strings.Builder
	b.WriteString("🔄 *Swap*\n")
	fmt.Fprintf(&b, "`%s`\n", shortAddr(ev.Wallet))
	fmt.Fprintf(&b, "%s %s → %s %s\n",
		formatAmount(ev.InAmount), fallbackSymbol(ev.InSymbol, ev.InMint),
		formatAmount(ev.OutAmount), fallbackSymbol(ev.OutSymbol, ev.OutMint))
	writeExplorerLink(&b, ev.Signature)
	return b.String()
}

// FormatBuy renders a buy event as a Markdown message.
func FormatBuy(ev domain.BuyEvent) string {
	var b strings.Builder
	b.WriteString("🟢 *Buy*\n")
	fmt.Fprintf(&b, "`%s`\n", shortAddr(ev.Wallet))
	fmt.Fprintf(&b, "%s SOL → %s %s\n",
		formatAmount(ev.SolAmount),
		formatAmount(ev.TokenAmount), fallbackSymbol(ev.TokenSymbol, ev.TokenMint))
	if ev.PriceUSD > 0 {
		fmt.Fprintf(&b, "price $%s\n", formatAmount(ev.PriceUSD))
	}
	writeExplorerLink(&b, ev.Signature)
	return b.String()
}

// shortAddr renders an address as head…tail for readability.
func shortAddr(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:4] + "…" + addr[len(addr)-4:]
}

// fallbackSymbol uses the shortened mint when no symbol is known.
func fallbackSymbol(symbol, mint string) string {
	if symbol != "" {
		return symbol
	}
	if mint != "" {
		return shortAddr(mint)
	}
	return "?"
}

func formatAmount(v float64) string {
	s := fmt.Sprintf("%.4f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

func writeExplorerLink(b *strings.Builder, signature string) {
	if signature == "" {
		return
	}
	fmt.Fprintf(b, "[solscan](https://solscan.io/tx/%s)", signature)
}
