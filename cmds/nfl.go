package cmds

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	nflScoreboardEndpoint = "https://site.api.espn.com/apis/site/v2/sports/football/nfl/scoreboard"
	sleeperMatchupsFormat = "https://api.sleeper.app/v1/league/%s/matchups/%d"
	sleeperStateEndpoint  = "https://api.sleeper.app/v1/state/nfl"
)

type nflScoreboard struct {
	Events []struct {
		Name      string `json:"name"`
		ShortName string `json:"shortName"`
		Date      string `json:"date"`
		Status    struct {
			Type struct {
				State  string `json:"state"`
				Detail string `json:"detail"`
			} `json:"type"`
		} `json:"status"`
		Competitions []struct {
			Competitors []struct {
				HomeAway string `json:"homeAway"`
				Score    string `json:"score"`
				Team     struct {
					Abbreviation string `json:"abbreviation"`
				} `json:"team"`
			} `json:"competitors"`
		} `json:"competitions"`
	} `json:"events"`
}

// TodayNFLGames lists NFL games on today's scoreboard.
func (s *Skills) TodayNFLGames(ctx context.Context, req *Request) (string, error) {
	var board nflScoreboard
	if err := s.getJSON(ctx, nflScoreboardEndpoint, nil, nil, &board); err != nil {
		return "", err
	}
	if len(board.Events) == 0 {
		return "🏈 no NFL games today", nil
	}

	var b strings.Builder
	b.WriteString("\n\n<b>🏈 TODAY'S NFL GAMES</b>\n")
	for _, event := range board.Events {
		kickoff, err := time.Parse("2006-01-02T15:04Z", event.Date)
		when := event.Status.Type.Detail
		if err == nil && event.Status.Type.State == "pre" {
			when = kickoff.Format("3:04PM")
		}
		fmt.Fprintf(&b, "%s · %s\n", event.ShortName, when)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// LiveNFLGames reports in-progress scores.
func (s *Skills) LiveNFLGames(ctx context.Context, req *Request) (string, error) {
	var board nflScoreboard
	if err := s.getJSON(ctx, nflScoreboardEndpoint, nil, nil, &board); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("\n\n<b>🏈 LIVE NFL</b>\n")
	live := 0
	for _, event := range board.Events {
		if event.Status.Type.State != "in" || len(event.Competitions) == 0 {
			continue
		}
		live++
		var home, away string
		for _, c := range event.Competitions[0].Competitors {
			line := fmt.Sprintf("%s %s", c.Team.Abbreviation, c.Score)
			if c.HomeAway == "home" {
				home = line
			} else {
				away = line
			}
		}
		fmt.Fprintf(&b, "%s @ %s (%s)\n", away, home, event.Status.Type.Detail)
	}
	if live == 0 {
		return fmt.Sprintf("@%s no live NFL games rn", req.User), nil
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

type sleeperState struct {
	Week int `json:"week"`
}

type sleeperMatchup struct {
	MatchupID int     `json:"matchup_id"`
	RosterID  int     `json:"roster_id"`
	Points    float64 `json:"points"`
}

// SleeperMatchups summarizes this week's fantasy matchup scores for the
// configured league.
func (s *Skills) SleeperMatchups(ctx context.Context, req *Request) (string, error) {
	if s.cfg.ApiKeys.SleeperLeague == "" {
		return "", fmt.Errorf("no sleeper league configured")
	}

	var state sleeperState
	if err := s.getJSON(ctx, sleeperStateEndpoint, nil, nil, &state); err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf(sleeperMatchupsFormat, s.cfg.ApiKeys.SleeperLeague, state.Week)
	var matchups []sleeperMatchup
	if err := s.getJSON(ctx, endpoint, nil, nil, &matchups); err != nil {
		return "", err
	}
	if len(matchups) == 0 {
		return fmt.Sprintf("@%s no fantasy matchups this week", req.User), nil
	}

	paired := map[int][]sleeperMatchup{}
	for _, m := range matchups {
		paired[m.MatchupID] = append(paired[m.MatchupID], m)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n\n<b>😴 WEEK %d MATCHUPS</b>\n", state.Week)
	for id := 1; id <= len(paired); id++ {
		pair := paired[id]
		if len(pair) != 2 {
			continue
		}
		fmt.Fprintf(&b, "Roster %d %.2f - %.2f Roster %d\n",
			pair[0].RosterID, pair[0].Points, pair[1].Points, pair[1].RosterID)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
