package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bitpanda_tracker/internal/entity"
	"bitpanda_tracker/pkg/metrics"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	resourceTicker        = "ticker"
	resourceFiatWallets   = "fiat_wallets"
	resourceAssetWallets  = "asset_wallets"
	resourceCryptoWallets = "crypto_wallets"

	apiKeyHeader = "X-Api-Key"
)

// fallbackCurrencies is returned by AvailableCurrencies when the ticker
// probe fails. Keep in sync with the currencies Bitpanda actually quotes.
var fallbackCurrencies = []string{"EUR", "USD", "CHF", "GBP"}

// BitpandaClient defines the interface for interacting with the Bitpanda
// public API. The ticker endpoint is unauthenticated; the wallet endpoints
// require the API key header.
type BitpandaClient interface {
	GetTicker(ctx context.Context) (entity.TickerSnapshot, error)
	GetFiatWallets(ctx context.Context) (*entity.FiatWalletsDocument, error)
	GetAssetWallets(ctx context.Context) (*entity.AssetWalletsDocument, error)
	GetCryptoWallets(ctx context.Context) (*entity.CryptoWalletsDocument, error)

	// AvailableCurrencies probes the ticker for the currency codes quoted
	// under the first asset. The second return is true when the static
	// fallback list was used because the probe failed or came back empty.
	AvailableCurrencies(ctx context.Context) ([]string, bool)
	// AvailableAssets probes the ticker for all quoted asset symbols.
	// Returns an empty slice when the probe fails.
	AvailableAssets(ctx context.Context) []string
	// TestConnection verifies the API key by fetching fiat wallets.
	TestConnection(ctx context.Context) bool
}

// bitpandaClientImpl is the implementation of BitpandaClient.
type bitpandaClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewBitpandaClient creates a new instance of bitpandaClientImpl.
func NewBitpandaClient(baseURL, apiKey string, timeout time.Duration, rateLimit, burstLimit int, logger *zap.Logger) BitpandaClient {
	return &bitpandaClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
		limiter: rate.NewLimiter(rate.Limit(rateLimit), burstLimit),
		logger:  logger.Named("BitpandaClient"),
	}
}

// GetTicker implements the BitpandaClient interface.
func (c *bitpandaClientImpl) GetTicker(ctx context.Context) (entity.TickerSnapshot, error) {
	body, err := c.doGet(ctx, resourceTicker, c.baseURL+"/ticker", false)
	if err != nil {
		return nil, err
	}

	var snapshot entity.TickerSnapshot
	if err := json.Unmarshal(body, &snapshot); err != nil {
		c.logger.Error("Failed to unmarshal ticker response", zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal ticker response: %w", err)
	}
	c.logger.Debug("Fetched ticker", zap.Int("assetCount", len(snapshot)))
	return snapshot, nil
}

// GetFiatWallets implements the BitpandaClient interface.
func (c *bitpandaClientImpl) GetFiatWallets(ctx context.Context) (*entity.FiatWalletsDocument, error) {
	body, err := c.doGet(ctx, resourceFiatWallets, c.baseURL+"/fiatwallets", true)
	if err != nil {
		return nil, err
	}

	var doc entity.FiatWalletsDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		c.logger.Error("Failed to unmarshal fiat wallets response", zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal fiat wallets response: %w", err)
	}
	c.logger.Debug("Fetched fiat wallets", zap.Int("walletCount", len(doc.Data)))
	return &doc, nil
}

// GetAssetWallets implements the BitpandaClient interface.
func (c *bitpandaClientImpl) GetAssetWallets(ctx context.Context) (*entity.AssetWalletsDocument, error) {
	body, err := c.doGet(ctx, resourceAssetWallets, c.baseURL+"/asset-wallets", true)
	if err != nil {
		return nil, err
	}

	var doc entity.AssetWalletsDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		c.logger.Error("Failed to unmarshal asset wallets response", zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal asset wallets response: %w", err)
	}
	c.logger.Debug("Fetched asset wallets", zap.Int("categoryCount", len(doc.Data.Attributes)))
	return &doc, nil
}

// GetCryptoWallets implements the BitpandaClient interface.
func (c *bitpandaClientImpl) GetCryptoWallets(ctx context.Context) (*entity.CryptoWalletsDocument, error) {
	body, err := c.doGet(ctx, resourceCryptoWallets, c.baseURL+"/wallets", true)
	if err != nil {
		return nil, err
	}

	var doc entity.CryptoWalletsDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		c.logger.Error("Failed to unmarshal crypto wallets response", zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal crypto wallets response: %w", err)
	}
	c.logger.Debug("Fetched crypto wallets", zap.Int("walletCount", len(doc.Data)))
	return &doc, nil
}

// AvailableCurrencies implements the BitpandaClient interface.
func (c *bitpandaClientImpl) AvailableCurrencies(ctx context.Context) ([]string, bool) {
	ticker, err := c.GetTicker(ctx)
	if err != nil {
		c.logger.Warn("Currency probe failed, using fallback currency list", zap.Error(err))
		return append([]string(nil), fallbackCurrencies...), true
	}
	for _, prices := range ticker {
		currencies := make([]string, 0, len(prices))
		for currency := range prices {
			currencies = append(currencies, currency)
		}
		return currencies, false
	}
	c.logger.Warn("Ticker probe returned no assets, using fallback currency list")
	return append([]string(nil), fallbackCurrencies...), true
}

// AvailableAssets implements the BitpandaClient interface.
func (c *bitpandaClientImpl) AvailableAssets(ctx context.Context) []string {
	ticker, err := c.GetTicker(ctx)
	if err != nil {
		c.logger.Warn("Asset probe failed", zap.Error(err))
		return []string{}
	}
	assets := make([]string, 0, len(ticker))
	for symbol := range ticker {
		assets = append(assets, symbol)
	}
	return assets
}

// TestConnection implements the BitpandaClient interface.
func (c *bitpandaClientImpl) TestConnection(ctx context.Context) bool {
	_, err := c.GetFiatWallets(ctx)
	return err == nil
}

// doGet issues one GET against the API and returns the response body. Any
// transport error, timeout or non-200 status is returned as an error; this
// layer never substitutes default data. Retries are owned by the caller's
// next refresh tick.
func (c *bitpandaClientImpl) doGet(ctx context.Context, resource, requestURL string, authed bool) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait for %s: %w", requestURL, err)
	}

	c.logger.Debug("Requesting resource from Bitpanda", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetContentTypeBytes([]byte("application/json"))
	if authed {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	start := time.Now()
	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	metrics.FetchDuration.WithLabelValues(resource).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.FetchTotal.WithLabelValues(resource, "error").Inc()
		c.logger.Error("Failed to execute request to Bitpanda", zap.String("url", requestURL), zap.Error(err))
		return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		metrics.FetchTotal.WithLabelValues(resource, "error").Inc()
		c.logger.Error("Bitpanda API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", resp.Body()),
		)
		return nil, fmt.Errorf("bitpanda API request to %s failed with status %d", requestURL, resp.StatusCode())
	}

	metrics.FetchTotal.WithLabelValues(resource, "success").Inc()

	// The response body is owned by the pooled response object.
	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}
