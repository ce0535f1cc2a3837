package restapi

import (
	"net/http"

	"bitpanda_tracker/internal/config"
	"bitpanda_tracker/internal/entity"
	"bitpanda_tracker/internal/port"

	"github.com/gin-gonic/gin"
)

// APIPricesResponse is the envelope for the tracked-asset price endpoint.
type APIPricesResponse struct {
	Data struct {
		Prices []entity.AssetPrice `json:"prices"`
	} `json:"data"`
	StatusMessage string `json:"status_message"`
}

// APIWalletsResponse is the envelope for the tracked-wallet valuation
// endpoint.
type APIWalletsResponse struct {
	Data struct {
		Wallets []entity.WalletValuation `json:"wallets"`
	} `json:"data"`
	StatusMessage string `json:"status_message"`
}

// APIHealthResponse reports the per-cadence last-success flags.
type APIHealthResponse struct {
	PriceUpdatesOK  bool `json:"price_updates_ok"`
	WalletUpdatesOK bool `json:"wallet_updates_ok"`
	Ready           bool `json:"ready"`
}

// APICurrenciesResponse is the envelope for the display-currency probe.
// Fallback is true when the static default list was substituted for real
// probe data.
type APICurrenciesResponse struct {
	Currencies []string `json:"currencies"`
	Fallback   bool     `json:"fallback"`
}

// TrackerHandler handles the HTTP requests of the host-facing surface.
type TrackerHandler struct {
	valuationSvc port.ValuationService
	tickerSvc    port.TickerService
	refreshSvc   port.RefreshService
	cfg          *config.Config
}

// NewTrackerHandler creates a new instance of TrackerHandler.
func NewTrackerHandler(
	valuationSvc port.ValuationService,
	tickerSvc port.TickerService,
	refreshSvc port.RefreshService,
	cfg *config.Config,
) *TrackerHandler {
	return &TrackerHandler{
		valuationSvc: valuationSvc,
		tickerSvc:    tickerSvc,
		refreshSvc:   refreshSvc,
		cfg:          cfg,
	}
}

// GetPricesHandler returns one price point per tracked asset.
func (h *TrackerHandler) GetPricesHandler(c *gin.Context) {
	currency := h.cfg.Tracker.Currency

	response := APIPricesResponse{}
	response.Data.Prices = make([]entity.AssetPrice, 0, len(h.cfg.Tracker.TrackedAssets))
	unknown := 0
	for _, asset := range h.cfg.Tracker.TrackedAssets {
		price := h.valuationSvc.AssetPrice(asset, currency)
		if price.Price == nil {
			unknown++
		}
		response.Data.Prices = append(response.Data.Prices, price)
	}

	switch {
	case len(response.Data.Prices) == 0:
		response.StatusMessage = "No tracked assets configured."
	case unknown > 0:
		response.StatusMessage = "Prices retrieved. Some assets have no resolvable price."
	default:
		response.StatusMessage = "Prices retrieved successfully."
	}

	c.JSON(http.StatusOK, response)
}

// GetWalletsHandler returns one valuation per tracked wallet.
func (h *TrackerHandler) GetWalletsHandler(c *gin.Context) {
	currency := h.cfg.Tracker.Currency

	response := APIWalletsResponse{}
	response.Data.Wallets = make([]entity.WalletValuation, 0, len(h.cfg.Tracker.TrackedWallets))
	unknown := 0
	for _, raw := range h.cfg.Tracker.TrackedWallets {
		key, err := entity.ParseWalletKey(raw)
		if err != nil {
			// Keys are validated at config load; an invalid one here means
			// the config changed underneath us. Skip it.
			continue
		}
		valuation := h.valuationSvc.WalletValuation(key, currency)
		if valuation.Value == nil {
			unknown++
		}
		response.Data.Wallets = append(response.Data.Wallets, valuation)
	}

	switch {
	case len(response.Data.Wallets) == 0:
		response.StatusMessage = "No tracked wallets configured."
	case unknown > 0:
		response.StatusMessage = "Valuations retrieved. Some wallets have no resolvable value."
	default:
		response.StatusMessage = "Valuations retrieved successfully."
	}

	c.JSON(http.StatusOK, response)
}

// GetHealthHandler reports per-cadence availability. 503 while either
// cadence's last refresh failed, so host platforms can alert on it.
func (h *TrackerHandler) GetHealthHandler(c *gin.Context) {
	response := APIHealthResponse{
		PriceUpdatesOK:  h.refreshSvc.LastPriceUpdateOK(),
		WalletUpdatesOK: h.refreshSvc.LastWalletUpdateOK(),
	}
	response.Ready = response.PriceUpdatesOK && response.WalletUpdatesOK

	status := http.StatusOK
	if !response.Ready {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, response)
}

// GetCurrenciesHandler returns the selectable display currencies.
func (h *TrackerHandler) GetCurrenciesHandler(c *gin.Context) {
	currencies, fromFallback := h.tickerSvc.AvailableCurrencies(c.Request.Context())
	c.JSON(http.StatusOK, APICurrenciesResponse{
		Currencies: currencies,
		Fallback:   fromFallback,
	})
}
