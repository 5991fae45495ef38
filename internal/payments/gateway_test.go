package payments

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/shophub-io/shophub-backend/pkg/config"
	pkgerrors "github.com/shophub-io/shophub-backend/pkg/errors"
	"github.com/shophub-io/shophub-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Level: zerolog.ErrorLevel, Output: io.Discard})
}

func TestMinorUnits(t *testing.T) {
	cases := []struct {
		amount string
		want   int64
	}{
		{"0", 0},
		{"1", 100},
		{"24.48", 2448},
		{"29999.00", 2999900},
		{"0.99", 99},
	}
	for _, tc := range cases {
		got := MinorUnits(decimal.RequireFromString(tc.amount))
		if got != tc.want {
			t.Fatalf("MinorUnits(%s) = %d, want %d", tc.amount, got, tc.want)
		}
	}
}

func TestNewGatewayRequiresAccessToken(t *testing.T) {
	_, err := NewGateway(context.Background(), config.GatewayConfig{Env: "sandbox"}, testLogger())
	if err == nil {
		t.Fatal("expected error for missing access token")
	}
}

func TestNewGatewayRejectsUnknownEnvironment(t *testing.T) {
	cfg := config.GatewayConfig{AccessToken: "token", Env: "staging"}
	_, err := NewGateway(context.Background(), cfg, testLogger())
	if err == nil {
		t.Fatal("expected error for unknown environment")
	}
}

func TestNewGatewayNormalizesEnvironment(t *testing.T) {
	cfg := config.GatewayConfig{AccessToken: "token", Env: " Production "}
	gateway, err := NewGateway(context.Background(), cfg, testLogger())
	if err != nil {
		t.Fatalf("NewGateway: %v", err)
	}
	if gateway.Environment() != "production" {
		t.Fatalf("expected production environment, got %q", gateway.Environment())
	}
}

func TestCreateOrderPaymentValidatesBeforeCalling(t *testing.T) {
	cfg := config.GatewayConfig{AccessToken: "token", Env: "sandbox", Currency: "INR"}
	gateway, err := NewGateway(context.Background(), cfg, testLogger())
	if err != nil {
		t.Fatalf("NewGateway: %v", err)
	}

	_, err = gateway.CreateOrderPayment(context.Background(), ChargeParams{
		OrderID: 1,
		Total:   decimal.RequireFromString("10.00"),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing source, got %v", err)
	}
	if err == nil || !strings.Contains(err.Error(), "source") {
		t.Fatalf("expected source error, got %v", err)
	}

	_, err = gateway.CreateOrderPayment(context.Background(), ChargeParams{
		OrderID:  1,
		Total:    decimal.Zero,
		SourceID: "cnon:test",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for zero amount, got %v", err)
	}
}
