package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWeather(t *testing.T) {
	t.Run("full day entry", func(t *testing.T) {
		payload := []byte(`{
			"resolvedAddress": "Austin, TX, United States",
			"days": [{
				"temp": 72.4, "feelslike": 74.1, "humidity": 55.2,
				"precip": 0.12, "precipprob": 40, "windspeed": 9.8, "windgust": 21.3,
				"conditions": "Partially cloudy", "description": "Clearing in the afternoon."
			}, {"temp": 60, "humidity": 40, "conditions": "Clear"}]
		}`)

		obs, err := NormalizeWeather(payload)
		require.NoError(t, err)

		assert.Equal(t, 72.4, obs.Temperature)
		require.NotNil(t, obs.FeelsLike)
		assert.Equal(t, 74.1, *obs.FeelsLike)
		assert.Equal(t, 55.2, obs.Humidity)
		assert.Equal(t, 0.12, obs.PrecipAmount)
		assert.Equal(t, 40.0, obs.PrecipProbability)
		assert.Equal(t, 9.8, obs.WindSpeed)
		require.NotNil(t, obs.WindGust)
		assert.Equal(t, 21.3, *obs.WindGust)
		assert.Equal(t, "Partially cloudy", obs.Conditions)
		assert.Equal(t, "Clearing in the afternoon.", obs.Description)
		assert.Equal(t, "Austin, TX, United States", obs.ResolvedAddress)
	})

	t.Run("optional fields default", func(t *testing.T) {
		obs, err := NormalizeWeather([]byte(`{"days":[{"temp":65,"humidity":30,"conditions":"Overcast"}]}`))
		require.NoError(t, err)

		assert.Zero(t, obs.PrecipProbability)
		assert.Zero(t, obs.PrecipAmount)
		assert.Zero(t, obs.WindSpeed)
		assert.Nil(t, obs.FeelsLike)
		assert.Nil(t, obs.WindGust)
		assert.Equal(t, "Overcast", obs.Description, "description falls back to conditions")
		assert.Empty(t, obs.ResolvedAddress)
	})

	t.Run("empty description falls back", func(t *testing.T) {
		obs, err := NormalizeWeather([]byte(`{"days":[{"temp":65,"humidity":30,"conditions":"Rain","description":""}]}`))
		require.NoError(t, err)
		assert.Equal(t, "Rain", obs.Description)
	})

	t.Run("later malformed days are ignored", func(t *testing.T) {
		obs, err := NormalizeWeather([]byte(`{"days":[{"temp":65,"humidity":30},{"temp":"hot"}]}`))
		require.NoError(t, err)
		assert.Equal(t, 65.0, obs.Temperature)
	})
}

func TestNormalizeWeather_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		target  error
		field   string
	}{
		{name: "no days key", payload: `{}`, target: ErrEmptyForecast},
		{name: "null days", payload: `{"days":null}`, target: ErrEmptyForecast},
		{name: "empty days", payload: `{"days":[]}`, target: ErrEmptyForecast},
		{name: "invalid JSON", payload: `{invalid`, target: ErrMalformedPayload},
		{name: "missing temp", payload: `{"days":[{"humidity":50}]}`, target: ErrMalformedPayload, field: "temp"},
		{name: "missing humidity", payload: `{"days":[{"temp":50}]}`, target: ErrMalformedPayload, field: "humidity"},
		{name: "non-numeric temp", payload: `{"days":[{"temp":"warm","humidity":50}]}`, target: ErrMalformedPayload, field: "days[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeWeather([]byte(tt.payload))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)

			if tt.field != "" {
				var mpe *MalformedPayloadError
				require.ErrorAs(t, err, &mpe)
				assert.Equal(t, tt.field, mpe.Field)
			}
		})
	}
}

func TestNormalizeWeather_EmptyObjectIsEmptyForecast(t *testing.T) {
	_, err := NormalizeWeather([]byte(`{}`))

	var efe *EmptyForecastError
	assert.ErrorAs(t, err, &efe)
}

func TestWeatherErrorKind(t *testing.T) {
	assert.Empty(t, WeatherErrorKind(nil))
	assert.Equal(t, "transport", WeatherErrorKind(&TransportError{Err: errors.New("dial tcp: refused")}))
	assert.Equal(t, "empty_forecast", WeatherErrorKind(&EmptyForecastError{}))
	assert.Equal(t, "malformed_payload", WeatherErrorKind(&MalformedPayloadError{Field: "temp", Err: errFieldMissing}))
	assert.Equal(t, "unknown", WeatherErrorKind(errors.New("boom")))
}

func TestTransportError_Message(t *testing.T) {
	err := &TransportError{StatusCode: 401, Err: errors.New("invalid key")}
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid key")

	inner := errors.New("timeout")
	assert.ErrorIs(t, &TransportError{Err: inner}, inner)
}

type stubProvider struct {
	payload []byte
	err     error
	queries []ForecastQuery
}

func (s *stubProvider) Forecast(_ context.Context, q ForecastQuery) ([]byte, error) {
	s.queries = append(s.queries, q)
	return s.payload, s.err
}

func TestFetchObservation(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		p := &stubProvider{payload: []byte(`{"days":[{"temp":80,"humidity":20,"conditions":"Clear"}]}`)}
		obs, err := FetchObservation(context.Background(), p, ForecastQuery{Location: "Austin,TX"})
		require.NoError(t, err)
		assert.Equal(t, 80.0, obs.Temperature)
		require.Len(t, p.queries, 1)
		assert.Equal(t, "Austin,TX", p.queries[0].Location)
	})

	t.Run("plain provider error becomes transport error", func(t *testing.T) {
		p := &stubProvider{err: errors.New("connection reset")}
		_, err := FetchObservation(context.Background(), p, ForecastQuery{})

		var te *TransportError
		require.ErrorAs(t, err, &te)
		assert.Contains(t, te.Error(), "connection reset")
	})

	t.Run("transport error passes through", func(t *testing.T) {
		orig := &TransportError{StatusCode: 503, Err: errors.New("unavailable")}
		p := &stubProvider{err: orig}
		_, err := FetchObservation(context.Background(), p, ForecastQuery{})
		assert.Same(t, orig, err)
	})

	t.Run("empty forecast", func(t *testing.T) {
		p := &stubProvider{payload: []byte(`{"days":[]}`)}
		_, err := FetchObservation(context.Background(), p, ForecastQuery{})
		assert.ErrorIs(t, err, ErrEmptyForecast)
	})
}
