package cmds

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	nbaStandingsEndpoint = "https://api-nba-v1.p.rapidapi.com/standings"
	nbaGamesEndpoint     = "https://api-nba-v1.p.rapidapi.com/games"
)

func (s *Skills) nbaHeaders() map[string]string {
	return map[string]string{
		"x-rapidapi-key":  s.cfg.ApiKeys.RapidAPI,
		"x-rapidapi-host": "api-nba-v1.p.rapidapi.com",
	}
}

func nbaSeason() string {
	now := time.Now()
	year := now.Year()
	if now.Month() < time.September {
		year--
	}
	return strconv.Itoa(year)
}

type nbaStandingsResponse struct {
	Response []struct {
		Team struct {
			Name string `json:"name"`
		} `json:"team"`
		Conference struct {
			Name string `json:"name"`
			Rank int    `json:"rank"`
		} `json:"conference"`
		Win struct {
			Total int `json:"total"`
		} `json:"win"`
		Loss struct {
			Total int `json:"total"`
		} `json:"loss"`
	} `json:"response"`
}

// NBAStandings summarizes conference standings, east then west.
func (s *Skills) NBAStandings(ctx context.Context, req *Request) (string, error) {
	params := url.Values{
		"league": {"standard"},
		"season": {nbaSeason()},
	}
	var resp nbaStandingsResponse
	if err := s.getJSON(ctx, nbaStandingsEndpoint, params, s.nbaHeaders(), &resp); err != nil {
		return "", err
	}
	if len(resp.Response) == 0 {
		return "", fmt.Errorf("no NBA standings data")
	}

	byConference := map[string][]string{}
	for _, row := range resp.Response {
		if row.Conference.Rank > 8 {
			continue
		}
		line := fmt.Sprintf("%d. %s (%d-%d)", row.Conference.Rank, row.Team.Name, row.Win.Total, row.Loss.Total)
		byConference[row.Conference.Name] = append(byConference[row.Conference.Name], line)
	}

	var b strings.Builder
	b.WriteString("\n\n<b>🏀 NBA STANDINGS</b>\n")
	for _, conf := range []string{"east", "west"} {
		if rows := byConference[conf]; len(rows) > 0 {
			fmt.Fprintf(&b, "<b>%s</b>\n%s\n", strings.ToUpper(conf), strings.Join(rows, "\n"))
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

type nbaGamesResponse struct {
	Response []struct {
		Date struct {
			Start string `json:"start"`
		} `json:"date"`
		Status struct {
			Long  string `json:"long"`
			Clock string `json:"clock"`
		} `json:"status"`
		Teams struct {
			Home struct {
				Name string `json:"name"`
			} `json:"home"`
			Visitors struct {
				Name string `json:"name"`
			} `json:"visitors"`
		} `json:"teams"`
		Scores struct {
			Home struct {
				Points int `json:"points"`
			} `json:"home"`
			Visitors struct {
				Points int `json:"points"`
			} `json:"visitors"`
		} `json:"scores"`
	} `json:"response"`
}

// UpcomingNBAGames lists today's scheduled games.
func (s *Skills) UpcomingNBAGames(ctx context.Context, req *Request) (string, error) {
	games, err := s.nbaGamesToday(ctx)
	if err != nil {
		return "", err
	}
	if len(games.Response) == 0 {
		return "🏀 no NBA games today", nil
	}

	var b strings.Builder
	b.WriteString("\n\n<b>🏀 TODAY'S NBA GAMES</b>\n")
	for _, game := range games.Response {
		tipoff, err := time.Parse(time.RFC3339, game.Date.Start)
		when := ""
		if err == nil {
			when = " · " + tipoff.Format("3:04PM")
		}
		fmt.Fprintf(&b, "%s @ %s%s\n", game.Teams.Visitors.Name, game.Teams.Home.Name, when)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// LiveNBAGames reports scores for games in progress.
func (s *Skills) LiveNBAGames(ctx context.Context, req *Request) (string, error) {
	games, err := s.nbaGamesToday(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("\n\n<b>🏀 LIVE NBA</b>\n")
	live := 0
	for _, game := range games.Response {
		if game.Status.Long != "In Play" {
			continue
		}
		live++
		fmt.Fprintf(&b, "%s %d - %d %s (%s)\n",
			game.Teams.Visitors.Name, game.Scores.Visitors.Points,
			game.Scores.Home.Points, game.Teams.Home.Name, game.Status.Clock)
	}
	if live == 0 {
		return "🏀 no live NBA games rn", nil
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (s *Skills) nbaGamesToday(ctx context.Context) (*nbaGamesResponse, error) {
	params := url.Values{"date": {time.Now().Format("2006-01-02")}}
	var resp nbaGamesResponse
	if err := s.getJSON(ctx, nbaGamesEndpoint, params, s.nbaHeaders(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
