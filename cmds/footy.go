package cmds

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// api-football league identifiers
const (
	leagueEPL          = 39
	leagueLaLiga       = 140
	leagueBundesliga   = 78
	leagueLigueOne     = 61
	leaguePrimeira     = 94
	leagueChampionship = 40
	leagueOne          = 41
	leagueTwo          = 42
	leagueNational     = 43
	leagueMLS          = 253
)

const (
	footyStandingsEndpoint = "https://api-football-v1.p.rapidapi.com/v3/standings"
	footyFixturesEndpoint  = "https://api-football-v1.p.rapidapi.com/v3/fixtures"
	footyScorersEndpoint   = "https://api-football-v1.p.rapidapi.com/v3/players/topscorers"
)

func (s *Skills) footyHeaders() map[string]string {
	return map[string]string{
		"x-rapidapi-key":  s.cfg.ApiKeys.Footy,
		"x-rapidapi-host": "api-football-v1.p.rapidapi.com",
	}
}

func footySeason() string {
	now := time.Now()
	year := now.Year()
	if now.Month() < time.July {
		year--
	}
	return strconv.Itoa(year)
}

type standingsResponse struct {
	Response []struct {
		League struct {
			Name      string `json:"name"`
			Standings [][]struct {
				Rank int `json:"rank"`
				Team struct {
					Name string `json:"name"`
				} `json:"team"`
				Points int `json:"points"`
				All    struct {
					Played int `json:"played"`
					Win    int `json:"win"`
					Draw   int `json:"draw"`
					Lose   int `json:"lose"`
				} `json:"all"`
			} `json:"standings"`
		} `json:"league"`
	} `json:"response"`
}

// leagueTable builds a standings handler bound to one league id; every
// *table command type shares this implementation.
func (s *Skills) leagueTable(leagueID int) Handler {
	return func(ctx context.Context, req *Request) (string, error) {
		params := url.Values{
			"league": {strconv.Itoa(leagueID)},
			"season": {footySeason()},
		}
		var resp standingsResponse
		if err := s.getJSON(ctx, footyStandingsEndpoint, params, s.footyHeaders(), &resp); err != nil {
			return "", err
		}
		if len(resp.Response) == 0 || len(resp.Response[0].League.Standings) == 0 {
			return "", fmt.Errorf("no standings for league %d", leagueID)
		}

		league := resp.Response[0].League
		var b strings.Builder
		fmt.Fprintf(&b, "\n\n<b>⚽ %s</b>\n", league.Name)
		for _, row := range league.Standings[0] {
			fmt.Fprintf(&b, "%d. %s: %dpts (%d-%d-%d)\n",
				row.Rank, row.Team.Name, row.Points, row.All.Win, row.All.Draw, row.All.Lose)
		}
		return strings.TrimRight(b.String(), "\n"), nil
	}
}

type fixturesResponse struct {
	Response []struct {
		Fixture struct {
			Date   string `json:"date"`
			Status struct {
				Short   string `json:"short"`
				Elapsed int    `json:"elapsed"`
			} `json:"status"`
		} `json:"fixture"`
		League struct {
			Name string `json:"name"`
		} `json:"league"`
		Teams struct {
			Home struct {
				Name string `json:"name"`
			} `json:"home"`
			Away struct {
				Name string `json:"name"`
			} `json:"away"`
		} `json:"teams"`
		Goals struct {
			Home *int `json:"home"`
			Away *int `json:"away"`
		} `json:"goals"`
	} `json:"response"`
}

// UpcomingFixtures lists the next round of fixtures across the tracked
// leagues.
func (s *Skills) UpcomingFixtures(ctx context.Context, req *Request) (string, error) {
	return s.fixtures(ctx, url.Values{
		"league": {strconv.Itoa(leagueEPL)},
		"season": {footySeason()},
		"next":   {"10"},
	}, "📅 UPCOMING FIXTURES")
}

// TodayFixtures lists fixtures kicking off today.
func (s *Skills) TodayFixtures(ctx context.Context, req *Request) (string, error) {
	return s.fixtures(ctx, url.Values{
		"league": {strconv.Itoa(leagueEPL)},
		"season": {footySeason()},
		"date":   {time.Now().Format("2006-01-02")},
	}, "📅 TODAY'S FIXTURES")
}

// LiveFixtures summarizes matches currently being played.
func (s *Skills) LiveFixtures(ctx context.Context, req *Request) (string, error) {
	var resp fixturesResponse
	if err := s.getJSON(ctx, footyFixturesEndpoint, url.Values{"live": {"all"}}, s.footyHeaders(), &resp); err != nil {
		return "", err
	}
	if len(resp.Response) == 0 {
		return fmt.Sprintf("@%s no live fixtures rn, go touch grass", req.User), nil
	}

	var b strings.Builder
	b.WriteString("\n\n<b>⚽ LIVE FIXTURES</b>\n")
	for _, fx := range resp.Response {
		home, away := 0, 0
		if fx.Goals.Home != nil {
			home = *fx.Goals.Home
		}
		if fx.Goals.Away != nil {
			away = *fx.Goals.Away
		}
		fmt.Fprintf(&b, "%s %d - %d %s (%d')\n",
			fx.Teams.Home.Name, home, away, fx.Teams.Away.Name, fx.Fixture.Status.Elapsed)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (s *Skills) fixtures(ctx context.Context, params url.Values, header string) (string, error) {
	var resp fixturesResponse
	if err := s.getJSON(ctx, footyFixturesEndpoint, params, s.footyHeaders(), &resp); err != nil {
		return "", err
	}
	if len(resp.Response) == 0 {
		return "no fixtures found, the footy gods rest today", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n\n<b>%s</b>\n", header)
	for _, fx := range resp.Response {
		kickoff, err := time.Parse(time.RFC3339, fx.Fixture.Date)
		when := fx.Fixture.Date
		if err == nil {
			when = kickoff.Format("Mon Jan 2 3:04PM")
		}
		fmt.Fprintf(&b, "%s vs %s · %s\n", fx.Teams.Home.Name, fx.Teams.Away.Name, when)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

type scorersResponse struct {
	Response []struct {
		Player struct {
			Name string `json:"name"`
		} `json:"player"`
		Statistics []struct {
			Team struct {
				Name string `json:"name"`
			} `json:"team"`
			Goals struct {
				Total int `json:"total"`
			} `json:"goals"`
		} `json:"statistics"`
	} `json:"response"`
}

// GoldenBoot ranks the top scorers in the premier league season.
func (s *Skills) GoldenBoot(ctx context.Context, req *Request) (string, error) {
	params := url.Values{
		"league": {strconv.Itoa(leagueEPL)},
		"season": {footySeason()},
	}
	var resp scorersResponse
	if err := s.getJSON(ctx, footyScorersEndpoint, params, s.footyHeaders(), &resp); err != nil {
		return "", err
	}
	if len(resp.Response) == 0 {
		return "", fmt.Errorf("no top scorer data")
	}

	var b strings.Builder
	b.WriteString("\n\n<b>👟 GOLDEN BOOT RACE</b>\n")
	for i, scorer := range resp.Response {
		if i >= 10 || len(scorer.Statistics) == 0 {
			break
		}
		stat := scorer.Statistics[0]
		fmt.Fprintf(&b, "%d. %s (%s): %d goals\n", i+1, scorer.Player.Name, stat.Team.Name, stat.Goals.Total)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
