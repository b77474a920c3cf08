package ingestion

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"os"
	"strconv"
	"time"

	"github.com/arb-intel/engine/internal/model"
)

const kalshiBaseURL = "https://api.elections.kalshi.com/trade-api/v2"

// KalshiAdapter fetches open markets from Kalshi's public markets endpoint.
// Kalshi supports RSA-signed requests for authenticated access, but market
// listings are readable anonymously, so a missing key degrades to
// unauthenticated reads rather than an error.
type KalshiAdapter struct {
	keyID      string
	privateKey *rsa.PrivateKey
}

// NewKalshiAdapter builds an adapter. keyID/privateKeyPath may both be
// empty, in which case requests are sent unsigned. An unreadable or malformed
// key file also degrades to unsigned requests rather than failing startup.
func NewKalshiAdapter(keyID, privateKeyPath string) *KalshiAdapter {
	a := &KalshiAdapter{keyID: keyID}
	if privateKeyPath == "" {
		return a
	}
	pemBytes, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return a
	}
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return a
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		a.privateKey = key
	} else if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		if rsaKey, ok := key.(*rsa.PrivateKey); ok {
			a.privateKey = rsaKey
		}
	}
	return a
}

func (a *KalshiAdapter) Name() string { return "kalshi" }

func (a *KalshiAdapter) authHeaders(method, path string) map[string]string {
	if a.privateKey == nil || a.keyID == "" {
		return nil
	}
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
	message := timestamp + method + path
	digest := sha256.Sum256([]byte(message))

	sig, err := rsa.SignPSS(rand.Reader, a.privateKey, crypto.SHA256, digest[:], &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthEqualsHash,
		Hash:       crypto.SHA256,
	})
	if err != nil {
		return nil
	}

	return map[string]string{
		"KALSHI-ACCESS-KEY":       a.keyID,
		"KALSHI-ACCESS-SIGNATURE": base64.StdEncoding.EncodeToString(sig),
		"KALSHI-ACCESS-TIMESTAMP": timestamp,
	}
}

type kalshiResponse struct {
	Markets []kalshiRaw `json:"markets"`
}

type kalshiRaw struct {
	Ticker    string  `json:"ticker"`
	Title     string  `json:"title"`
	Category  string  `json:"category"`
	YesBid    float64 `json:"yes_bid"`
	YesAsk    float64 `json:"yes_ask"`
	NoBid     float64 `json:"no_bid"`
	NoAsk     float64 `json:"no_ask"`
	Volume    float64 `json:"volume"`
	CloseTime string  `json:"close_time"`
}

func (a *KalshiAdapter) Fetch(ctx context.Context) ([]model.Market, error) {
	const path = "/markets"
	url := kalshiBaseURL + path + "?limit=200&status=open"

	var resp kalshiResponse
	if err := getJSON(ctx, url, a.authHeaders("GET", "/trade-api/v2"+path), &resp); err != nil {
		return nil, err
	}

	markets := make([]model.Market, 0, len(resp.Markets))
	for _, r := range resp.Markets {
		if m, ok := parseKalshiMarket(r); ok {
			markets = append(markets, m)
		}
	}
	return markets, nil
}

func parseKalshiMarket(r kalshiRaw) (model.Market, bool) {
	if r.Ticker == "" || r.Title == "" {
		return model.Market{}, false
	}

	yesAsk := r.YesAsk
	if yesAsk == 0 {
		yesAsk = 100
	}
	noAsk := r.NoAsk
	if noAsk == 0 {
		noAsk = 100
	}

	yesMid := clamp((r.YesBid+yesAsk)/2/100, 0.02, 0.98)
	noMid := clamp((r.NoBid+noAsk)/2/100, 0.02, 0.98)

	category := r.Category
	if category == "" {
		category = "prediction"
	}

	var startTime time.Time
	if r.CloseTime != "" {
		if t, err := time.Parse(time.RFC3339, r.CloseTime); err == nil {
			startTime = t
		}
	}

	return model.Market{
		EventID:    "kalshi_" + r.Ticker,
		Category:   category,
		EventName:  truncate(r.Title, 200),
		MarketType: model.MarketBinary,
		StartTime:  startTime,
		Outcomes: []model.Outcome{
			{Name: "Yes", OddsDecimal: round4(1 / yesMid), Venue: "kalshi", Liquidity: r.Volume},
			{Name: "No", OddsDecimal: round4(1 / noMid), Venue: "kalshi", Liquidity: r.Volume},
		},
	}, true
}
