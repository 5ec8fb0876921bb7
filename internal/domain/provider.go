package domain

import (
	"context"
	"errors"
	"time"
)

// ForecastQuery selects one day of forecast for a location.
type ForecastQuery struct {
	Location string // free-form location token, e.g. "Austin,TX" or "30.27,-97.74"
	Date     time.Time
}

// WeatherProvider fetches a raw forecast document. Implementations report
// unreachable providers and non-success responses as *TransportError; the
// payload itself is interpreted by NormalizeWeather.
type WeatherProvider interface {
	Forecast(ctx context.Context, q ForecastQuery) ([]byte, error)
}

// FetchObservation runs the provider and normalizes its answer. Any error is
// one of *TransportError, *EmptyForecastError, or *MalformedPayloadError.
func FetchObservation(ctx context.Context, p WeatherProvider, q ForecastQuery) (WeatherObservation, error) {
	payload, err := p.Forecast(ctx, q)
	if err != nil {
		return WeatherObservation{}, asTransportError(err)
	}
	return NormalizeWeather(payload)
}

func asTransportError(err error) error {
	if errors.Is(err, ErrTransport) {
		return err
	}
	return &TransportError{Err: err}
}
