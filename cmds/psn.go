package cmds

import (
	"context"
	"fmt"
	"strings"
)

const psnFriendsEndpoint = "https://m.np.playstation.com/api/userProfile/v1/internal/users/me/friends/presences"

type psnPresences struct {
	Presences []struct {
		OnlineID string `json:"onlineId"`
		Primary  struct {
			OnlineStatus string `json:"onlineStatus"`
		} `json:"primaryPlatformInfo"`
		GameTitles []struct {
			TitleName string `json:"titleName"`
		} `json:"gameTitleInfoList"`
	} `json:"presences"`
}

// PSNOnlineFriends lists which PSN friends are online and what they play.
func (s *Skills) PSNOnlineFriends(ctx context.Context, req *Request) (string, error) {
	headers := map[string]string{"Authorization": "Bearer " + s.cfg.ApiKeys.PSN}

	var presences psnPresences
	if err := s.getJSON(ctx, psnFriendsEndpoint, nil, headers, &presences); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("\n\n<b>🎮 PSN SQUAD</b>\n")
	online := 0
	for _, p := range presences.Presences {
		if p.Primary.OnlineStatus != "online" {
			continue
		}
		online++
		if len(p.GameTitles) > 0 {
			fmt.Fprintf(&b, "%s · %s\n", p.OnlineID, p.GameTitles[0].TitleName)
		} else {
			fmt.Fprintf(&b, "%s · chillin on the dashboard\n", p.OnlineID)
		}
	}
	if online == 0 {
		return "🎮 nobody is online, the squad has lives apparently", nil
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
