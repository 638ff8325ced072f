package cmds

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const (
	iexQuoteEndpoint    = "https://cloud.iexapis.com/stable/stock/%s/quote"
	cryptoPriceEndpoint = "https://api.cryptowat.ch/markets/bitfinex/%susd/summary"
	topCryptoEndpoint   = "https://pro-api.coinmarketcap.com/v1/cryptocurrency/listings/latest"
)

type iexQuote struct {
	Symbol        string  `json:"symbol"`
	CompanyName   string  `json:"companyName"`
	LatestPrice   float64 `json:"latestPrice"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
}

// Stock fetches a live quote for a ticker symbol.
func (s *Skills) Stock(ctx context.Context, req *Request) (string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(req.Args))
	endpoint := fmt.Sprintf(iexQuoteEndpoint, url.PathEscape(strings.ToLower(symbol)))

	var quote iexQuote
	err := s.getJSON(ctx, endpoint, url.Values{"token": {s.cfg.ApiKeys.IEX}}, nil, &quote)
	if err != nil {
		return "", err
	}
	if quote.Symbol == "" {
		return fmt.Sprintf("no ticker found for %s, u sure thats a real stock?", symbol), nil
	}
	return fmt.Sprintf("\n\n<b>%s (%s)</b> $%.2f\n%+.2f (%.2f%%) today\nday range $%.2f - $%.2f",
		quote.CompanyName, quote.Symbol, quote.LatestPrice,
		quote.Change, quote.ChangePercent*100, quote.Low, quote.High,
	), nil
}

type cryptoSummary struct {
	Result struct {
		Price struct {
			Last   float64 `json:"last"`
			High   float64 `json:"high"`
			Low    float64 `json:"low"`
			Change struct {
				Percentage float64 `json:"percentage"`
			} `json:"change"`
		} `json:"price"`
	} `json:"result"`
}

// Crypto fetches the USD price of the coin named by the command token itself
// (the stored template carries the display name).
func (s *Skills) Crypto(ctx context.Context, req *Request) (string, error) {
	coin := strings.ToLower(req.Command)
	endpoint := fmt.Sprintf(cryptoPriceEndpoint, url.PathEscape(coin))

	var summary cryptoSummary
	if err := s.getJSON(ctx, endpoint, nil, nil, &summary); err != nil {
		return "", err
	}
	p := summary.Result.Price
	if p.Last == 0 {
		return "", fmt.Errorf("empty price summary for %s", coin)
	}
	return fmt.Sprintf("\n\n<b>%s</b> $%.3f\n%+.2f%% today\nday range $%.3f - $%.3f",
		strings.ToUpper(req.Content), p.Last, p.Change.Percentage*100, p.Low, p.High,
	), nil
}

type topCryptoListing struct {
	Data []struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
		Quote  struct {
			USD struct {
				Price     float64 `json:"price"`
				Change24h float64 `json:"percent_change_24h"`
				Change7d  float64 `json:"percent_change_7d"`
			} `json:"USD"`
		} `json:"quote"`
	} `json:"data"`
}

// TopCrypto summarizes the top ten coins by market cap.
func (s *Skills) TopCrypto(ctx context.Context, req *Request) (string, error) {
	params := url.Values{"start": {"1"}, "limit": {"10"}, "convert": {"USD"}}
	headers := map[string]string{"X-CMC_PRO_API_KEY": s.cfg.ApiKeys.CoinMarketCap}

	var listing topCryptoListing
	if err := s.getJSON(ctx, topCryptoEndpoint, params, headers, &listing); err != nil {
		return "", err
	}
	if len(listing.Data) == 0 {
		return "", fmt.Errorf("empty top-crypto listing")
	}

	var b strings.Builder
	b.WriteString("\n\n\n")
	for _, coin := range listing.Data {
		usd := coin.Quote.USD
		fmt.Fprintf(&b, "<b>%s (%s)</b> $%.3f\n", coin.Name, coin.Symbol, usd.Price)
		fmt.Fprintf(&b, "1d change of %.2f%%\n7d change of %.2f%%\n\n", usd.Change24h, usd.Change7d)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
