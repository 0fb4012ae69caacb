package report

import (
	"math"
	"strings"

	"github.com/i474232898/bikeshare-dashboard/internal/rental"
)

var displayNames = map[rental.Dimension]map[string]string{
	rental.BySeason: {
		rental.SeasonSpring: "Spring",
		rental.SeasonSummer: "Summer",
		rental.SeasonFall:   "Fall",
		rental.SeasonWinter: "Winter",
	},
	rental.ByWeather: {
		rental.WeatherClear:     "Clear",
		rental.WeatherMist:      "Mist",
		rental.WeatherLightRain: "Light Rain",
	},
	rental.ByDayType: {
		rental.DayTypeWeekday: "Weekday",
		rental.DayTypeWeekend: "Weekend",
	},
	rental.ByHumidity: {
		"Low Humidity":    "Low",
		"Medium Humidity": "Medium",
		"High Humidity":   "High",
	},
}

// DisplayName returns the label shown for a category. Weekdays are title
// cased; values without a known label are shown verbatim.
func DisplayName(d rental.Dimension, key string) string {
	if names, ok := displayNames[d]; ok {
		if name, ok := names[key]; ok {
			return name
		}
	}
	if d == rental.ByWeekday && key != "" {
		return strings.ToUpper(key[:1]) + key[1:]
	}
	return key
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
