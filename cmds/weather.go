package cmds

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"slices"
	"strings"
	"time"
)

const weatherstackEndpoint = "http://api.weatherstack.com/current"

type weatherstackResponse struct {
	Request struct {
		Query string `json:"query"`
	} `json:"request"`
	Location struct {
		Name          string `json:"name"`
		LocaltimeUnix int64  `json:"localtime_epoch"`
	} `json:"location"`
	Current struct {
		WeatherCode  int      `json:"weather_code"`
		Descriptions []string `json:"weather_descriptions"`
		IsDay        string   `json:"is_day"`
		Temperature  float64  `json:"temperature"`
		FeelsLike    float64  `json:"feelslike"`
		Precip       float64  `json:"precip"`
		CloudCover   int      `json:"cloudcover"`
		Humidity     int      `json:"humidity"`
		WindSpeed    float64  `json:"wind_speed"`
	} `json:"current"`
}

// Weather reports current conditions for a location, using metric units for
// rooms/users configured that way and imperial otherwise.
func (s *Skills) Weather(ctx context.Context, req *Request) (string, error) {
	units := s.preferredUnits(req.Room, req.User)
	params := url.Values{
		"access_key": {s.cfg.ApiKeys.Weatherstack},
		"query":      {strings.ReplaceAll(req.Args, ";", "")},
		"units":      {units},
	}

	var resp weatherstackResponse
	if err := s.getJSON(ctx, weatherstackEndpoint, params, nil, &resp); err != nil {
		return "", err
	}
	if len(resp.Current.Descriptions) == 0 {
		return fmt.Sprintf("couldn't find weather for `%s`, is that even a real place?", req.Args), nil
	}
	return s.formatWeather(&resp, units), nil
}

func (s *Skills) preferredUnits(room, user string) string {
	if slices.Contains(s.cfg.Moderation.MetricRooms, room) ||
		slices.Contains(s.cfg.Moderation.MetricUsers, user) {
		return "m"
	}
	return "f"
}

func (s *Skills) formatWeather(w *weatherstackResponse, units string) string {
	tempUnit, windUnit, precipUnit := "f", "mph", "in"
	if units == "m" {
		tempUnit, windUnit, precipUnit = "c", "km/h", "mm"
	}

	cur := w.Current
	localTime := time.Unix(w.Location.LocaltimeUnix, 0).UTC().Format("3:04 PM")

	var b strings.Builder
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "<b>%s</b>\n", w.Request.Query)
	fmt.Fprintf(&b, "%s %s\n", s.weatherIcon(cur.WeatherCode, cur.IsDay), cur.Descriptions[0])
	fmt.Fprintf(&b, "🌡️ Temp: %.0f°%s <i>(feels like %.0f°%s)</i>\n", cur.Temperature, tempUnit, cur.FeelsLike, tempUnit)
	if cur.Precip > 0 {
		fmt.Fprintf(&b, "%s Precipitation: %.1f%s\n", precipIcon(cur.Precip), cur.Precip, precipUnit)
	}
	fmt.Fprintf(&b, "💧 Humidity: %d%%\n", cur.Humidity)
	fmt.Fprintf(&b, "☁️ Cloud cover: %d%%\n", cur.CloudCover)
	fmt.Fprintf(&b, "🌬️ Wind speed: %.0f%s\n", cur.WindSpeed, windUnit)
	fmt.Fprintf(&b, "🕡 %s", localTime)
	return b.String()
}

// weatherIcon resolves the display icon for a provider weather code via the
// operator-maintained table, falling back to day/night defaults.
func (s *Skills) weatherIcon(code int, isDay string) string {
	row, err := s.db.GetWeatherEmoji(code)
	if err != nil {
		log.Printf("weather icon lookup failed for code %d: %v", code, err)
	}
	if row == nil {
		if isDay == "no" {
			return "🌃"
		}
		return "☀️"
	}
	if isDay == "no" && (row.Group == "sun" || row.Group == "") {
		return "🌃"
	}
	return row.Icon
}

func precipIcon(precip float64) string {
	switch {
	case precip > 70:
		return "🌧️"
	case precip > 50:
		return "☁️"
	default:
		return "✨"
	}
}
