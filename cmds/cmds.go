// Package cmds implements the leaf skills behind every registered command
// type. Each skill is a thin formatter over one external API; the dispatcher
// selects a skill by the command's stored type tag.
package cmds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tangobot/go-tangobot/cache"
	"github.com/tangobot/go-tangobot/config"
	"github.com/tangobot/go-tangobot/db"
	"github.com/tangobot/go-tangobot/storage"
)

// Request carries the resolved command context into a skill.
type Request struct {
	Command string // lower-cased command token
	Args    string // text following the token, "" when absent
	Content string // stored response template for the command
	Room    string
	User    string
}

// Handler produces a chat-ready reply. An empty reply with a nil error means
// the skill intentionally stayed silent.
type Handler func(ctx context.Context, req *Request) (string, error)

// Skill pairs a handler with the contextual arguments it cannot run without.
// The dispatcher checks these before invoking and logs a configuration
// warning instead of calling when they are missing.
type Skill struct {
	Run       Handler
	NeedsArgs bool
	NeedsUser bool
	NeedsRoom bool
}

// Skills bundles the external collaborators shared by every handler.
type Skills struct {
	cfg    *config.Config
	db     *db.Database
	cache  *cache.Cache
	bucket *storage.Bucket
	http   *http.Client
}

func NewSkills(cfg *config.Config, database *db.Database, kv *cache.Cache, bucket *storage.Bucket) *Skills {
	return &Skills{
		cfg:    cfg,
		db:     database,
		cache:  kv,
		bucket: bucket,
		http:   &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

// Registry maps every actionable command type to its skill. The "reserved"
// type is intentionally absent; the dispatcher treats it as no handler.
func (s *Skills) Registry() map[string]Skill {
	return map[string]Skill{
		"basic":  {Run: s.Basic},
		"random": {Run: s.RandomResponse},
		"giphy":  {Run: s.Giphy},
		"420":    {Run: s.BlazeCountdown},

		"stock":     {Run: s.Stock, NeedsArgs: true},
		"crypto":    {Run: s.Crypto},
		"topcrypto": {Run: s.TopCrypto},

		"weather": {Run: s.Weather, NeedsArgs: true, NeedsRoom: true, NeedsUser: true},

		"wiki":          {Run: s.WikiSummary, NeedsArgs: true},
		"imdb":          {Run: s.FindMovie, NeedsArgs: true},
		"urban":         {Run: s.UrbanDefinition, NeedsArgs: true},
		"define":        {Run: s.EnglishDefinition, NeedsArgs: true, NeedsUser: true},
		"entranslation": {Run: s.EnglishTranslation, NeedsArgs: true},
		"lyrics":        {Run: s.Lyrics, NeedsArgs: true},

		"covid":          {Run: s.CovidCases},
		"olympics":       {Run: s.SummerOlympicMedals},
		"wolympics":      {Run: s.WinterOlympicMedals},
		"winterolympics": {Run: s.WinterOlympicMedals},
		"twitch":         {Run: s.TwitchStreams},

		"epltable":         {Run: s.leagueTable(leagueEPL)},
		"ligatable":        {Run: s.leagueTable(leagueLaLiga)},
		"bundtable":        {Run: s.leagueTable(leagueBundesliga)},
		"liguetable":       {Run: s.leagueTable(leagueLigueOne)},
		"primeratable":     {Run: s.leagueTable(leaguePrimeira)},
		"efltable":         {Run: s.leagueTable(leagueChampionship)},
		"eng1table":        {Run: s.leagueTable(leagueOne)},
		"eng2table":        {Run: s.leagueTable(leagueTwo)},
		"engnationaltable": {Run: s.leagueTable(leagueNational)},
		"mlstable":         {Run: s.leagueTable(leagueMLS)},

		"fixtures":      {Run: s.UpcomingFixtures, NeedsRoom: true, NeedsUser: true},
		"todayfixtures": {Run: s.TodayFixtures, NeedsRoom: true, NeedsUser: true},
		"livefixtures":  {Run: s.LiveFixtures, NeedsUser: true},
		"goldenboot":    {Run: s.GoldenBoot},

		"nbastandings": {Run: s.NBAStandings},
		"nbagames":     {Run: s.UpcomingNBAGames},
		"nbalive":      {Run: s.LiveNBAGames},
		"livenba":      {Run: s.LiveNBAGames},

		"todaynfl": {Run: s.TodayNFLGames},
		"livenfl":  {Run: s.LiveNFLGames, NeedsUser: true},
		"sleeper":  {Run: s.SleeperMatchups, NeedsUser: true},

		"psn": {Run: s.PSNOnlineFriends},

		"tune": {Run: s.Tune, NeedsArgs: true, NeedsUser: true, NeedsRoom: true},
		"sms":  {Run: s.SendSMS, NeedsArgs: true, NeedsUser: true},

		"randomimage": {Run: s.RandomBucketImage},
		"imagespam":   {Run: s.SpamBucketImages},
		"imagecount":  {Run: s.CountBucketImages},
		"latestimage": {Run: s.LatestBucketImage},

		"tovala":           {Run: s.TovalaCounter, NeedsUser: true},
		"bachcount":        {Run: s.BachCounter, NeedsArgs: true, NeedsUser: true},
		"changeorstayvote": {Run: s.ChangeOrStayVote, NeedsArgs: true, NeedsUser: true},
		"changeorstay":     {Run: s.ChangeOrStayResults, NeedsUser: true},
	}
}

// getJSON performs a GET with optional query params and headers and decodes
// the JSON body into out.
func (s *Skills) getJSON(ctx context.Context, endpoint string, params url.Values, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if params != nil {
		req.URL.RawQuery = params.Encode()
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned %d: %s", endpoint, resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}
