package service

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"taskmaster/internal/model"
)

const (
	forecastDays     = 5
	minTemperatureC  = -20
	maxTemperatureC  = 55 // exclusive
	forecastCacheKey = "weather:forecast:"
)

var summaries = []string{
	"Freezing", "Bracing", "Chilly", "Cool", "Mild",
	"Warm", "Balmy", "Hot", "Sweltering", "Scorching",
}

var celsiusPerFahrenheit = decimal.RequireFromString("0.5556")

// ForecastCache stores serialized forecasts. Misses and failures both return nil.
type ForecastCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// WeatherService produces the five-day forecast feed.
type WeatherService interface {
	Forecast(ctx context.Context) ([]model.Forecast, error)
}

type weatherService struct {
	logger *zap.SugaredLogger
	cache  ForecastCache
	ttl    time.Duration
	now    func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewWeatherService creates a forecast service. A generated forecast is cached
// under the current UTC date for ttl; after that a new one is generated.
func NewWeatherService(logger *zap.SugaredLogger, cache ForecastCache, ttl time.Duration) WeatherService {
	return &weatherService{
		logger: logger,
		cache:  cache,
		ttl:    ttl,
		now:    time.Now,
		rnd:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// Forecast returns five consecutive days starting tomorrow.
func (s *weatherService) Forecast(ctx context.Context) ([]model.Forecast, error) {
	today := s.now().UTC()
	key := forecastCacheKey + today.Format(time.DateOnly)

	if raw, _ := s.cache.Get(ctx, key); raw != nil {
		var cached []model.Forecast
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		s.logger.Warnw("discarding unreadable cached forecast", "key", key)
	}

	forecasts := s.generate(today)

	raw, err := json.Marshal(forecasts)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, raw, s.ttl)
	return forecasts, nil
}

func (s *weatherService) generate(today time.Time) []model.Forecast {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Forecast, 0, forecastDays)
	for i := 1; i <= forecastDays; i++ {
		c := minTemperatureC + s.rnd.IntN(maxTemperatureC-minTemperatureC)
		out = append(out, model.Forecast{
			Date:         today.AddDate(0, 0, i).Format(time.DateOnly),
			TemperatureC: c,
			TemperatureF: toFahrenheit(c),
			Summary:      summaries[s.rnd.IntN(len(summaries))],
		})
	}
	return out
}

// toFahrenheit mirrors the feed's historical formula, 32 + trunc(C / 0.5556).
func toFahrenheit(c int) int {
	return 32 + int(decimal.NewFromInt(int64(c)).Div(celsiusPerFahrenheit).Truncate(0).IntPart())
}
