package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching on weather failures.
var (
	ErrTransport        = errors.New("weather provider unreachable")
	ErrEmptyForecast    = errors.New("forecast has no days")
	ErrMalformedPayload = errors.New("malformed forecast payload")
)

// TransportError reports that the provider could not be reached or answered
// with a non-success status. The core never retries it.
type TransportError struct {
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%v: status %d: %v", ErrTransport, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%v: %v", ErrTransport, e.Err)
}

func (e *TransportError) Unwrap() error        { return e.Err }
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// EmptyForecastError reports a payload whose "days" list is absent or empty.
type EmptyForecastError struct{}

func (e *EmptyForecastError) Error() string        { return ErrEmptyForecast.Error() }
func (e *EmptyForecastError) Is(target error) bool { return target == ErrEmptyForecast }

// MalformedPayloadError reports a payload that is not JSON or whose first day
// lacks a required numeric field.
type MalformedPayloadError struct {
	Field string // empty when the document itself could not be decoded
	Err   error
}

func (e *MalformedPayloadError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%v: field %q: %v", ErrMalformedPayload, e.Field, e.Err)
	}
	return fmt.Sprintf("%v: %v", ErrMalformedPayload, e.Err)
}

func (e *MalformedPayloadError) Unwrap() error        { return e.Err }
func (e *MalformedPayloadError) Is(target error) bool { return target == ErrMalformedPayload }

var errFieldMissing = errors.New("missing")

// WeatherErrorKind maps a weather error to a short label for logs, metrics,
// and API responses. It returns "" for nil.
func WeatherErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrEmptyForecast):
		return "empty_forecast"
	case errors.Is(err, ErrMalformedPayload):
		return "malformed_payload"
	default:
		return "unknown"
	}
}

// forecastPayload mirrors the provider document. Days stay raw so a bad entry
// past the first one cannot fail the whole decode.
type forecastPayload struct {
	Days            []json.RawMessage `json:"days"`
	ResolvedAddress string            `json:"resolvedAddress"`
}

type forecastDay struct {
	Temp        *float64 `json:"temp"`
	FeelsLike   *float64 `json:"feelslike"`
	Humidity    *float64 `json:"humidity"`
	Precip      *float64 `json:"precip"`
	PrecipProb  *float64 `json:"precipprob"`
	WindSpeed   *float64 `json:"windspeed"`
	WindGust    *float64 `json:"windgust"`
	Conditions  string   `json:"conditions"`
	Description *string  `json:"description"`
}

// NormalizeWeather converts a raw provider payload into an observation for
// its first day. Failures are *EmptyForecastError or *MalformedPayloadError.
func NormalizeWeather(payload []byte) (WeatherObservation, error) {
	var doc forecastPayload
	if err := json.Unmarshal(payload, &doc); err != nil {
		return WeatherObservation{}, &MalformedPayloadError{Err: err}
	}
	if len(doc.Days) == 0 {
		return WeatherObservation{}, &EmptyForecastError{}
	}

	var day forecastDay
	if err := json.Unmarshal(doc.Days[0], &day); err != nil {
		return WeatherObservation{}, &MalformedPayloadError{Field: "days[0]", Err: err}
	}
	if day.Temp == nil {
		return WeatherObservation{}, &MalformedPayloadError{Field: "temp", Err: errFieldMissing}
	}
	if day.Humidity == nil {
		return WeatherObservation{}, &MalformedPayloadError{Field: "humidity", Err: errFieldMissing}
	}

	obs := WeatherObservation{
		Temperature:       *day.Temp,
		FeelsLike:         day.FeelsLike,
		Humidity:          *day.Humidity,
		PrecipProbability: valueOrZero(day.PrecipProb),
		PrecipAmount:      valueOrZero(day.Precip),
		WindSpeed:         valueOrZero(day.WindSpeed),
		WindGust:          day.WindGust,
		Conditions:        day.Conditions,
		Description:       day.Conditions,
		ResolvedAddress:   doc.ResolvedAddress,
	}
	if day.Description != nil && *day.Description != "" {
		obs.Description = *day.Description
	}
	return obs, nil
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
