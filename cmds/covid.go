package cmds

import (
	"context"
	"fmt"
	"net/url"
)

const covidEndpoint = "https://covid-19-data.p.rapidapi.com/country/code"

type covidStats []struct {
	Country   string `json:"country"`
	Confirmed int    `json:"confirmed"`
	Recovered int    `json:"recovered"`
	Deaths    int    `json:"deaths"`
}

// CovidCases reports cumulative US covid numbers.
func (s *Skills) CovidCases(ctx context.Context, req *Request) (string, error) {
	headers := map[string]string{
		"x-rapidapi-key":  s.cfg.ApiKeys.RapidAPI,
		"x-rapidapi-host": "covid-19-data.p.rapidapi.com",
	}

	var stats covidStats
	if err := s.getJSON(ctx, covidEndpoint, url.Values{"code": {"us"}}, headers, &stats); err != nil {
		return "", err
	}
	if len(stats) == 0 {
		return "", fmt.Errorf("empty covid stats response")
	}
	us := stats[0]
	return fmt.Sprintf("\n\n<b>🦠 USA COVID CASES</b>\nConfirmed: %d\nRecovered: %d\nDeaths: %d",
		us.Confirmed, us.Recovered, us.Deaths), nil
}
