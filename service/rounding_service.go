package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"nickel-advisor/domain"
	"nickel-advisor/metrics"
	"nickel-advisor/repository"
	"nickel-advisor/rounding"
)

type RoundingService struct {
	cache    repository.CacheRepository
	cacheTTL time.Duration
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewRoundingService wires the rounding core to a quote cache.
func NewRoundingService(
	cache repository.CacheRepository,
	cacheTTL time.Duration,
	m *metrics.Metrics,
	logger *zap.Logger,
) *RoundingService {
	return &RoundingService{
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  m,
		logger:   logger.Named("rounding-service"),
	}
}

// Round snaps a single amount to the nearest nickel.
func (s *RoundingService) Round(input domain.RoundInput) (domain.RoundResult, error) {
	amount := input.Amount.InexactFloat64()
	if amount < 0 {
		return domain.RoundResult{}, errors.New("invalid amount")
	}
	if amount > MaxAmount {
		return domain.RoundResult{}, errors.Errorf("amount exceeds the maximum of $%.2f", MaxAmount)
	}

	rounded, direction := rounding.RoundToNickel(amount)
	s.metrics.RoundingsTotal.WithLabelValues(direction.String()).Inc()

	return domain.RoundResult{
		Rounded:   domain.FormatMoney(rounded),
		Direction: direction,
	}, nil
}

// FindReachable searches for the nearest nickel total reachable with a
// cent-precision pre-tax price, walking from the given start nickel.
func (s *RoundingService) FindReachable(input domain.ReachableInput) (domain.ReachableResult, error) {
	direction, err := rounding.ParseDirection(input.Direction)
	if err != nil || direction == rounding.None {
		return domain.ReachableResult{}, errors.New(`direction must be "up" or "down"`)
	}

	start := input.StartNickel.InexactFloat64()
	if start < 0 || start > MaxAmount {
		return domain.ReachableResult{}, errors.New("invalid start nickel")
	}
	if !input.StartNickel.Mod(nickelStep).IsZero() {
		return domain.ReachableResult{}, errors.Errorf("start nickel %s is not a multiple of 0.05", input.StartNickel.String())
	}

	taxRate := input.TaxRate.InexactFloat64()
	if err := validateTaxRate(taxRate); err != nil {
		return domain.ReachableResult{}, err
	}

	suggestion := rounding.FindReachableNickel(start, taxRate, direction)
	if suggestion == nil {
		s.metrics.UnreachableTotal.WithLabelValues(roleFor(direction)).Inc()
		return domain.ReachableResult{}, nil
	}

	return domain.ReachableResult{
		Found:      true,
		Suggestion: domain.NewSuggestionView(suggestion),
	}, nil
}

// Suggest returns the seller and customer alternatives for a price.
func (s *RoundingService) Suggest(input domain.QuoteInput) (domain.SuggestionsResult, error) {
	price, taxRate, err := validateQuoteInput(input)
	if err != nil {
		return domain.SuggestionsResult{}, err
	}

	suggestions := s.suggestionsFor(price, taxRate)

	return domain.SuggestionsResult{
		Seller:   domain.NewSuggestionView(suggestions.Seller),
		Customer: domain.NewSuggestionView(suggestions.Customer),
	}, nil
}

// Quote builds the full breakdown for a price. Results are cached by
// price and tax rate; cache failures only cost a recomputation.
func (s *RoundingService) Quote(ctx context.Context, input domain.QuoteInput) (domain.Quote, error) {
	price, taxRate, err := validateQuoteInput(input)
	if err != nil {
		return domain.Quote{}, err
	}

	key := quoteKey(input)
	if quote, ok := s.cachedQuote(ctx, key); ok {
		return quote, nil
	}

	taxAmount := price * (taxRate / 100)
	total := price + taxAmount
	rounded, direction := rounding.RoundToNickel(total)
	s.metrics.RoundingsTotal.WithLabelValues(direction.String()).Inc()

	var suggestions rounding.Suggestions
	if price > 0 {
		suggestions = s.suggestionsFor(price, taxRate)
	}

	quote := domain.Quote{
		Subtotal:   domain.FormatMoney(price),
		TaxRate:    input.TaxRate.String(),
		TaxAmount:  domain.FormatMoney(taxAmount),
		Total:      decimal.NewFromFloat(total).StringFixed(4),
		Rounded:    domain.FormatMoney(rounded),
		Direction:  direction,
		Difference: domain.FormatMoney(rounded - total),
		Seller:     domain.NewSuggestionView(suggestions.Seller),
		Customer:   domain.NewSuggestionView(suggestions.Customer),
	}

	s.logger.Debug("quote computed",
		zap.String("price", quote.Subtotal),
		zap.String("tax_rate", quote.TaxRate),
		zap.String("rounded", quote.Rounded),
		zap.Stringer("direction", direction),
	)

	s.storeQuote(ctx, key, quote)
	return quote, nil
}

// Rules lists the last-digit rounding table.
func (s *RoundingService) Rules() []domain.RoundingRule {
	return []domain.RoundingRule{
		{Digits: []int{0, 5}, Direction: rounding.None, Description: "Already a multiple of five cents"},
		{Digits: []int{1, 2, 6, 7}, Direction: rounding.Down, Description: "Round down to the previous nickel"},
		{Digits: []int{3, 4, 8, 9}, Direction: rounding.Up, Description: "Round up to the next nickel"},
	}
}

func (s *RoundingService) suggestionsFor(price, taxRate float64) rounding.Suggestions {
	suggestions := rounding.CalculateSuggestions(price, taxRate)

	if _, direction := rounding.RoundToNickel(price * rounding.TaxMultiplier(taxRate)); direction != rounding.None {
		if suggestions.Seller == nil {
			s.metrics.UnreachableTotal.WithLabelValues(RoleSeller).Inc()
		}
		if suggestions.Customer == nil {
			s.metrics.UnreachableTotal.WithLabelValues(RoleCustomer).Inc()
		}
	}

	return suggestions
}

func (s *RoundingService) cachedQuote(ctx context.Context, key string) (domain.Quote, bool) {
	val, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.metrics.CacheLookups.WithLabelValues("error").Inc()
		s.logger.Warn("quote cache read failed", zap.String("key", key), zap.Error(err))
		return domain.Quote{}, false
	}
	if !ok {
		s.metrics.CacheLookups.WithLabelValues("miss").Inc()
		return domain.Quote{}, false
	}

	var quote domain.Quote
	if err := json.Unmarshal([]byte(val), &quote); err != nil {
		s.metrics.CacheLookups.WithLabelValues("error").Inc()
		s.logger.Warn("discarding undecodable cached quote", zap.String("key", key), zap.Error(err))
		return domain.Quote{}, false
	}

	s.metrics.CacheLookups.WithLabelValues("hit").Inc()
	return quote, true
}

func (s *RoundingService) storeQuote(ctx context.Context, key string, quote domain.Quote) {
	data, err := json.Marshal(quote)
	if err != nil {
		s.logger.Error("failed to encode quote", zap.Error(errors.Wrap(err, "marshal quote")))
		return
	}
	if err := s.cache.Set(ctx, key, string(data), s.cacheTTL); err != nil {
		s.logger.Warn("quote cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func validateQuoteInput(input domain.QuoteInput) (float64, float64, error) {
	price := input.Price.InexactFloat64()
	if price < 0 {
		return 0, 0, errors.New("invalid price")
	}
	if price > MaxPrice {
		return 0, 0, errors.Errorf("price exceeds the maximum of $%.2f", MaxPrice)
	}

	taxRate := input.TaxRate.InexactFloat64()
	if err := validateTaxRate(taxRate); err != nil {
		return 0, 0, err
	}
	return price, taxRate, nil
}

func validateTaxRate(taxRate float64) error {
	if taxRate < 0 {
		return errors.New("invalid tax rate")
	}
	if taxRate > MaxTaxRatePercent {
		return errors.Errorf("tax rate exceeds the maximum of %.2f%%", MaxTaxRatePercent)
	}
	return nil
}

func quoteKey(input domain.QuoteInput) string {
	return quoteKeyPrefix + input.Price.String() + ":" + input.TaxRate.String()
}

func roleFor(direction rounding.Direction) string {
	if direction == rounding.Up {
		return RoleSeller
	}
	return RoleCustomer
}
