package cmds

import (
	"context"
	"fmt"
	"strings"
)

const medalsEndpointFormat = "https://api.olympics.kevle.xyz/medals?year=%d&season=%s"

type medalsResponse struct {
	Results []struct {
		Country struct {
			Name string `json:"name"`
		} `json:"country"`
		Medals struct {
			Gold   int `json:"gold"`
			Silver int `json:"silver"`
			Bronze int `json:"bronze"`
			Total  int `json:"total"`
		} `json:"medals"`
	} `json:"results"`
}

// SummerOlympicMedals ranks the current summer games medal table.
func (s *Skills) SummerOlympicMedals(ctx context.Context, req *Request) (string, error) {
	return s.olympicMedals(ctx, 2024, "summer", "🥇 SUMMER OLYMPICS MEDAL COUNT")
}

// WinterOlympicMedals ranks the current winter games medal table.
func (s *Skills) WinterOlympicMedals(ctx context.Context, req *Request) (string, error) {
	return s.olympicMedals(ctx, 2026, "winter", "🥇 WINTER OLYMPICS MEDAL COUNT")
}

func (s *Skills) olympicMedals(ctx context.Context, year int, season, header string) (string, error) {
	endpoint := fmt.Sprintf(medalsEndpointFormat, year, season)

	var medals medalsResponse
	if err := s.getJSON(ctx, endpoint, nil, nil, &medals); err != nil {
		return "", err
	}
	if len(medals.Results) == 0 {
		return "no medal table yet, the games haven't started", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n\n<b>%s</b>\n", header)
	for i, row := range medals.Results {
		if i >= 10 {
			break
		}
		fmt.Fprintf(&b, "%d. %s: 🥇%d 🥈%d 🥉%d (%d)\n",
			i+1, row.Country.Name, row.Medals.Gold, row.Medals.Silver, row.Medals.Bronze, row.Medals.Total)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
