package payments

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	sq "github.com/square/square-go-sdk"
	sqclient "github.com/square/square-go-sdk/client"
	sqoption "github.com/square/square-go-sdk/option"

	"github.com/shophub-io/shophub-backend/pkg/config"
	pkgerrors "github.com/shophub-io/shophub-backend/pkg/errors"
	"github.com/shophub-io/shophub-backend/pkg/logger"
)

const (
	sandboxEnv    = "sandbox"
	productionEnv = "production"
)

var (
	errAccessTokenRequired = errors.New("gateway access token is required")
	errInvalidGatewayEnv   = fmt.Errorf("gateway environment must be %q or %q", sandboxEnv, productionEnv)
	errLoggerRequired      = errors.New("gateway logger is required")
)

var baseURLs = map[string]string{
	sandboxEnv:    "https://connect.squareupsandbox.com",
	productionEnv: "https://connect.squareup.com",
}

// ChargeParams describes a gateway payment for one storefront order.
// SourceID is the tokenized payment source minted by the storefront client.
type ChargeParams struct {
	OrderID  int64
	Total    decimal.Decimal
	SourceID string
}

// Reference is the opaque gateway handle returned to the storefront. The
// capture/confirmation flow happens entirely on the gateway side.
type Reference struct {
	ID          string `json:"id"`
	AmountMinor int64  `json:"amount_minor"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
}

// Gateway wraps the payment provider SDK with auth, logging and error
// mapping.
type Gateway struct {
	sdk         *sqclient.Client
	cfg         config.GatewayConfig
	environment string
	logg        *logger.Logger
}

// NewGateway initializes the gateway wrapper and validates the credentials.
func NewGateway(ctx context.Context, cfg config.GatewayConfig, logg *logger.Logger) (*Gateway, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	env := cfg.Environment()
	baseURL, ok := baseURLs[env]
	if !ok {
		return nil, errInvalidGatewayEnv
	}
	accessToken := strings.TrimSpace(cfg.AccessToken)
	if accessToken == "" {
		return nil, errAccessTokenRequired
	}

	sdk := sqclient.NewClient(
		sqoption.WithBaseURL(baseURL),
		sqoption.WithToken(accessToken),
	)
	logg.Info(ctx, "payment gateway client initialized")
	return &Gateway{sdk: sdk, cfg: cfg, environment: env, logg: logg}, nil
}

// Environment reports the normalized gateway environment.
func (g *Gateway) Environment() string {
	if g == nil {
		return ""
	}
	return g.environment
}

// MinorUnits converts a decimal amount into the gateway's integer minor
// units (price x 100).
func MinorUnits(total decimal.Decimal) int64 {
	return total.Mul(decimal.NewFromInt(100)).IntPart()
}

// CreateOrderPayment creates an uncaptured gateway payment for an order and
// returns its opaque reference.
func (g *Gateway) CreateOrderPayment(ctx context.Context, params ChargeParams) (*Reference, error) {
	if strings.TrimSpace(params.SourceID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment source is required")
	}
	amount := MinorUnits(params.Total)
	if amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
	}

	currency := sq.Currency(strings.ToUpper(strings.TrimSpace(g.cfg.Currency)))
	autocomplete := false
	referenceID := strconv.FormatInt(params.OrderID, 10)
	req := &sq.CreatePaymentRequest{
		IdempotencyKey: fmt.Sprintf("order-%d-%s", params.OrderID, uuid.NewString()),
		SourceID:       params.SourceID,
		AmountMoney:    &sq.Money{Amount: &amount, Currency: &currency},
		Autocomplete:   &autocomplete,
		ReferenceID:    &referenceID,
	}
	if locationID := strings.TrimSpace(g.cfg.LocationID); locationID != "" {
		req.LocationID = &locationID
	}

	fields := map[string]any{"order_id": params.OrderID, "amount": amount}
	g.logg.Info(g.logg.WithFields(ctx, fields), "gateway create_payment request")

	resp, err := g.sdk.Payments.Create(ctx, req)
	if err != nil {
		g.logg.Error(g.logg.WithFields(ctx, fields), "gateway create_payment failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create gateway payment")
	}

	payment := resp.GetPayment()
	ref := &Reference{
		AmountMinor: amount,
		Currency:    string(currency),
	}
	if payment != nil {
		ref.ID = stringValue(payment.GetID())
		ref.Status = stringValue(payment.GetStatus())
	}
	g.logg.Info(g.logg.WithFields(ctx, map[string]any{"order_id": params.OrderID, "payment_id": ref.ID}),
		"gateway create_payment response")
	return ref, nil
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
