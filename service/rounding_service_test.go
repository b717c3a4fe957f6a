package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"nickel-advisor/domain"
	"nickel-advisor/metrics"
	"nickel-advisor/repository"
	"nickel-advisor/repository/mocks"
	"nickel-advisor/rounding"
)

func newTestService(cache repository.CacheRepository) (*RoundingService, *metrics.Metrics) {
	m := metrics.NewNop()
	return NewRoundingService(cache, time.Minute, m, zap.NewNop()), m
}

func quoteInput(price, taxRate float64) domain.QuoteInput {
	return domain.QuoteInput{Price: domain.NewAmount(price), TaxRate: domain.NewAmount(taxRate)}
}

func TestRound(t *testing.T) {
	svc, m := newTestService(repository.NewMemoryCache())

	result, err := svc.Round(domain.RoundInput{Amount: domain.NewAmount(1.03)})
	require.NoError(t, err)
	assert.Equal(t, "1.05", result.Rounded)
	assert.Equal(t, rounding.Up, result.Direction)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RoundingsTotal.WithLabelValues("up")))

	_, err = svc.Round(domain.RoundInput{Amount: domain.NewAmount(-1)})
	assert.Error(t, err)

	_, err = svc.Round(domain.RoundInput{Amount: domain.NewAmount(MaxAmount + 1)})
	assert.Error(t, err)
}

func TestFindReachable(t *testing.T) {
	svc, m := newTestService(repository.NewMemoryCache())

	tests := []struct {
		name      string
		input     domain.ReachableInput
		wantErr   bool
		wantFound bool
		want      *domain.SuggestionView
	}{
		{
			name: "customer nickel",
			input: domain.ReachableInput{
				StartNickel: domain.NewAmount(10.65),
				TaxRate:     domain.NewAmount(7),
				Direction:   "down",
			},
			wantFound: true,
			want:      &domain.SuggestionView{PreTax: "9.95", Total: "10.65"},
		},
		{
			name: "skipped nickel",
			input: domain.ReachableInput{
				StartNickel: domain.NewAmount(1.05),
				TaxRate:     domain.NewAmount(100),
				Direction:   "up",
			},
			wantFound: true,
			want:      &domain.SuggestionView{PreTax: "0.55", Total: "1.10", Skipped: true},
		},
		{
			name: "zero start is not found",
			input: domain.ReachableInput{
				StartNickel: domain.NewAmount(0),
				TaxRate:     domain.NewAmount(7),
				Direction:   "up",
			},
		},
		{
			name: "start is not a nickel",
			input: domain.ReachableInput{
				StartNickel: domain.NewAmount(10.66),
				TaxRate:     domain.NewAmount(7),
				Direction:   "up",
			},
			wantErr: true,
		},
		{
			name: "start nickel has sub-cent precision",
			input: domain.ReachableInput{
				StartNickel: domain.NewAmount(10.651),
				TaxRate:     domain.NewAmount(7),
				Direction:   "down",
			},
			wantErr: true,
		},
		{
			name: "start nickel with trailing zero cents",
			input: domain.ReachableInput{
				StartNickel: domain.Amount{Decimal: decimal.RequireFromString("10.650")},
				TaxRate:     domain.NewAmount(7),
				Direction:   "down",
			},
			wantFound: true,
			want:      &domain.SuggestionView{PreTax: "9.95", Total: "10.65"},
		},
		{
			name: "missing direction",
			input: domain.ReachableInput{
				StartNickel: domain.NewAmount(10.65),
				TaxRate:     domain.NewAmount(7),
			},
			wantErr: true,
		},
		{
			name: "none is not a search direction",
			input: domain.ReachableInput{
				StartNickel: domain.NewAmount(10.65),
				TaxRate:     domain.NewAmount(7),
				Direction:   "none",
			},
			wantErr: true,
		},
		{
			name: "tax rate out of range",
			input: domain.ReachableInput{
				StartNickel: domain.NewAmount(10.65),
				TaxRate:     domain.NewAmount(150),
				Direction:   "up",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.FindReachable(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, result.Found)
			assert.Equal(t, tt.want, result.Suggestion)
		})
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.UnreachableTotal.WithLabelValues(RoleSeller)))
}

func TestSuggest(t *testing.T) {
	svc, _ := newTestService(repository.NewMemoryCache())

	result, err := svc.Suggest(quoteInput(9.99, 7))
	require.NoError(t, err)
	assert.Equal(t, &domain.SuggestionView{PreTax: "10.00", Total: "10.70"}, result.Seller)
	assert.Equal(t, &domain.SuggestionView{PreTax: "9.95", Total: "10.65"}, result.Customer)

	result, err = svc.Suggest(quoteInput(10, 7))
	require.NoError(t, err)
	assert.Nil(t, result.Seller)
	assert.Nil(t, result.Customer)

	_, err = svc.Suggest(quoteInput(-5, 7))
	assert.Error(t, err)

	_, err = svc.Suggest(quoteInput(5, -1))
	assert.Error(t, err)
}

func TestQuote_Breakdown(t *testing.T) {
	cache := repository.NewMemoryCache()
	svc, _ := newTestService(cache)

	quote, err := svc.Quote(context.Background(), quoteInput(9.99, 7))
	require.NoError(t, err)

	assert.Equal(t, "9.99", quote.Subtotal)
	assert.Equal(t, "7", quote.TaxRate)
	assert.Equal(t, "0.70", quote.TaxAmount)
	assert.Equal(t, "10.6893", quote.Total)
	assert.Equal(t, "10.70", quote.Rounded)
	assert.Equal(t, rounding.Up, quote.Direction)
	assert.Equal(t, "0.01", quote.Difference)
	assert.Equal(t, &domain.SuggestionView{PreTax: "10.00", Total: "10.70"}, quote.Seller)
	assert.Equal(t, &domain.SuggestionView{PreTax: "9.95", Total: "10.65"}, quote.Customer)
	assert.Equal(t, 1, cache.Len())
}

func TestQuote_ExactTotalHasNoSuggestions(t *testing.T) {
	svc, _ := newTestService(repository.NewMemoryCache())

	quote, err := svc.Quote(context.Background(), quoteInput(10, 7))
	require.NoError(t, err)
	assert.Equal(t, "10.70", quote.Rounded)
	assert.Equal(t, rounding.None, quote.Direction)
	assert.Equal(t, "0.00", quote.Difference)
	assert.Nil(t, quote.Seller)
	assert.Nil(t, quote.Customer)
}

func TestQuote_ZeroPriceSkipsSuggestions(t *testing.T) {
	svc, _ := newTestService(repository.NewMemoryCache())

	quote, err := svc.Quote(context.Background(), domain.QuoteInput{})
	require.NoError(t, err)
	assert.Equal(t, "0.00", quote.Subtotal)
	assert.Equal(t, "0.00", quote.Rounded)
	assert.Nil(t, quote.Seller)
	assert.Nil(t, quote.Customer)
}

func TestQuote_CacheMissStoresResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCacheRepository(ctrl)
	svc, m := newTestService(cache)
	ctx := context.Background()

	cache.EXPECT().Get(ctx, "quote:9.99:7").Return("", false, nil)
	cache.EXPECT().Set(ctx, "quote:9.99:7", gomock.Any(), time.Minute).
		DoAndReturn(func(_ context.Context, _ string, value string, _ time.Duration) error {
			var stored domain.Quote
			require.NoError(t, json.Unmarshal([]byte(value), &stored))
			assert.Equal(t, "10.70", stored.Rounded)
			assert.Equal(t, rounding.Up, stored.Direction)
			return nil
		})

	_, err := svc.Quote(ctx, quoteInput(9.99, 7))
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")))
}

func TestQuote_CacheHitSkipsComputation(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCacheRepository(ctrl)
	svc, m := newTestService(cache)
	ctx := context.Background()

	cached := domain.Quote{Subtotal: "9.99", Rounded: "10.70", Direction: rounding.Up}
	data, err := json.Marshal(cached)
	require.NoError(t, err)

	cache.EXPECT().Get(ctx, "quote:9.99:7").Return(string(data), true, nil)

	quote, err := svc.Quote(ctx, quoteInput(9.99, 7))
	require.NoError(t, err)
	assert.Equal(t, cached, quote)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RoundingsTotal.WithLabelValues("up")))
}

func TestQuote_CacheFailureStillAnswers(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCacheRepository(ctrl)
	svc, m := newTestService(cache)
	ctx := context.Background()

	cache.EXPECT().Get(ctx, gomock.Any()).Return("", false, errors.New("connection refused"))
	cache.EXPECT().Set(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

	quote, err := svc.Quote(ctx, quoteInput(9.99, 7))
	require.NoError(t, err)
	assert.Equal(t, "10.70", quote.Rounded)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("error")))
}

func TestQuote_InvalidInputDoesNotTouchCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCacheRepository(ctrl)
	svc, _ := newTestService(cache)

	_, err := svc.Quote(context.Background(), quoteInput(MaxPrice+1, 7))
	assert.Error(t, err)

	_, err = svc.Quote(context.Background(), quoteInput(10, MaxTaxRatePercent+0.5))
	assert.Error(t, err)
}

func TestRules(t *testing.T) {
	svc, _ := newTestService(repository.NewMemoryCache())

	seen := map[int]rounding.Direction{}
	for _, rule := range svc.Rules() {
		for _, d := range rule.Digits {
			seen[d] = rule.Direction
		}
	}

	require.Len(t, seen, 10)
	for digit, direction := range seen {
		_, want := rounding.RoundCents(rounding.Cents(100 + digit))
		assert.Equal(t, want, direction, "digit %d", digit)
	}
}
