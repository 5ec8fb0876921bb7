package domain

import "strings"

// Advisory thresholds. Comparisons against them are strict.
const (
	ColdThresholdF       = 50.0
	HeatThresholdF       = 85.0
	RainThresholdPct     = 30.0
	WindThresholdMPH     = 15.0
	HumidityThresholdPct = 70.0
	maxRecommendations   = 9
)

// advisoryRule contributes its recommendations when applies returns true.
type advisoryRule struct {
	applies func(WeatherObservation) bool
	recs    []Recommendation
}

// advisoryRules are evaluated in order and never suppress one another.
var advisoryRules = []advisoryRule{
	{
		applies: func(o WeatherObservation) bool { return o.Temperature < ColdThresholdF },
		recs: []Recommendation{
			{CategoryTemperature, "Consider providing heating solutions such as patio heaters"},
			{CategoryTemperature, "Plan for warm beverages and indoor warming areas"},
		},
	},
	{
		applies: func(o WeatherObservation) bool { return o.Temperature > HeatThresholdF },
		recs: []Recommendation{
			{CategoryTemperature, "Ensure adequate shade and cooling stations"},
			{CategoryTemperature, "Provide plenty of water and cold beverages"},
		},
	},
	{
		applies: func(o WeatherObservation) bool { return o.PrecipProbability > RainThresholdPct },
		recs: []Recommendation{
			{CategoryPrecipitation, "Have an indoor backup plan ready"},
			{CategoryPrecipitation, "Consider renting tents or covered areas"},
		},
	},
	{
		applies: func(o WeatherObservation) bool { return o.WindSpeed > WindThresholdMPH },
		recs: []Recommendation{
			{CategoryWind, "Secure all decorations and lightweight items"},
			{CategoryWind, "Consider wind barriers for outdoor setups"},
		},
	},
	{
		applies: func(o WeatherObservation) bool { return o.Humidity > HumidityThresholdPct },
		recs: []Recommendation{
			{CategoryHumidity, "Provide fans or dehumidifiers for guest comfort"},
		},
	},
}

// GenerateRecommendations returns the advisories triggered by obs in rule
// order. The result is never nil.
func GenerateRecommendations(obs WeatherObservation) []Recommendation {
	out := make([]Recommendation, 0, maxRecommendations)
	for _, rule := range advisoryRules {
		if rule.applies(obs) {
			out = append(out, rule.recs...)
		}
	}
	return out
}

// Icon is a display token for a weather condition.
type Icon string

const (
	IconClear        Icon = "☀️"
	IconPartlyCloudy Icon = "⛅"
	IconCloudy       Icon = "☁️"
	IconRain         Icon = "🌧️"
	IconSnow         Icon = "❄️"
	IconThunderstorm Icon = "⛈️"
	IconFog          Icon = "🌫️"
	IconWind         Icon = "💨"
	IconDefault      Icon = "🌤️"
)

// iconTable is scanned in order; the first keyword found wins, so
// "partly cloudy" must precede "cloudy".
var iconTable = []struct {
	keyword string
	icon    Icon
}{
	{"clear", IconClear},
	{"sunny", IconClear},
	{"partly cloudy", IconPartlyCloudy},
	{"cloudy", IconCloudy},
	{"rain", IconRain},
	{"snow", IconSnow},
	{"thunderstorm", IconThunderstorm},
	{"fog", IconFog},
	{"wind", IconWind},
}

// ResolveIcon picks an icon for free-text conditions by case-insensitive
// substring match against the keyword table.
func ResolveIcon(conditions string) Icon {
	c := strings.ToLower(conditions)
	for _, entry := range iconTable {
		if strings.Contains(c, entry.keyword) {
			return entry.icon
		}
	}
	return IconDefault
}
