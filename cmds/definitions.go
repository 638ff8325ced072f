package cmds

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

const (
	wikiSummaryEndpoint     = "https://en.wikipedia.org/api/rest_v1/page/summary/%s"
	urbanDictionaryEndpoint = "http://api.urbandictionary.com/v0/define"
	dictionaryEndpoint      = "https://api.dictionaryapi.dev/api/v2/entries/en/%s"
	translateEndpoint       = "https://google-translate1.p.rapidapi.com/language/translate/v2"
)

type wikiSummary struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// WikiSummary fetches the lead paragraph of the closest Wikipedia article.
func (s *Skills) WikiSummary(ctx context.Context, req *Request) (string, error) {
	title := strings.ReplaceAll(strings.TrimSpace(req.Args), " ", "_")
	endpoint := fmt.Sprintf(wikiSummaryEndpoint, url.PathEscape(title))

	var summary wikiSummary
	if err := s.getJSON(ctx, endpoint, nil, nil, &summary); err != nil {
		return fmt.Sprintf("no wiki entry found for `%s`", req.Args), nil
	}
	if summary.Extract == "" {
		return fmt.Sprintf("no wiki entry found for `%s`", req.Args), nil
	}
	extract := summary.Extract
	if len(extract) > 600 {
		extract = extract[:600] + "..."
	}
	return fmt.Sprintf("\n\n<b>%s</b>\n%s\n%s", summary.Title, extract, summary.ContentURLs.Desktop.Page), nil
}

type urbanResult struct {
	List []struct {
		Definition string `json:"definition"`
		Example    string `json:"example"`
		ThumbsUp   int    `json:"thumbs_up"`
		ThumbsDown int    `json:"thumbs_down"`
	} `json:"list"`
}

// UrbanDefinition fetches the top-voted Urban Dictionary definition.
func (s *Skills) UrbanDefinition(ctx context.Context, req *Request) (string, error) {
	term := strings.TrimSpace(req.Args)

	var result urbanResult
	err := s.getJSON(ctx, urbanDictionaryEndpoint, url.Values{"term": {term}}, nil, &result)
	if err != nil {
		return "", err
	}
	if len(result.List) == 0 {
		return fmt.Sprintf("no UD entry for `%s`, even the degenerates haven't defined it", term), nil
	}
	sort.Slice(result.List, func(i, j int) bool {
		return result.List[i].ThumbsUp > result.List[j].ThumbsUp
	})
	def := strings.NewReplacer("[", "", "]", "").Replace(result.List[0].Definition)
	if len(def) > 500 {
		def = def[:500] + "..."
	}
	return fmt.Sprintf("\n\n<b>%s</b>\n%s", strings.ToUpper(term), def), nil
}

type dictionaryEntry []struct {
	Word     string `json:"word"`
	Meanings []struct {
		PartOfSpeech string `json:"partOfSpeech"`
		Definitions  []struct {
			Definition string `json:"definition"`
		} `json:"definitions"`
	} `json:"meanings"`
}

// EnglishDefinition fetches dictionary definitions grouped by part of speech.
func (s *Skills) EnglishDefinition(ctx context.Context, req *Request) (string, error) {
	word := strings.TrimSpace(req.Args)
	endpoint := fmt.Sprintf(dictionaryEndpoint, url.PathEscape(word))

	var entries dictionaryEntry
	if err := s.getJSON(ctx, endpoint, nil, nil, &entries); err != nil {
		return fmt.Sprintf("⚠️ @%s there's no dictionary definition for `%s`; learn english ⚠️", req.User, word), nil
	}
	if len(entries) == 0 || len(entries[0].Meanings) == 0 {
		return fmt.Sprintf("⚠️ @%s there's no dictionary definition for `%s`; learn english ⚠️", req.User, word), nil
	}

	var b strings.Builder
	b.WriteString("\n\n\n")
	for _, meaning := range entries[0].Meanings {
		if len(meaning.Definitions) == 0 {
			continue
		}
		fmt.Fprintf(&b, "🔖 %s\n", meaning.PartOfSpeech)
		fmt.Fprintf(&b, "🗨️ %s\n\n", meaning.Definitions[0].Definition)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

// EnglishTranslation translates foreign text to English. The stored template
// carries the source language code.
func (s *Skills) EnglishTranslation(ctx context.Context, req *Request) (string, error) {
	params := url.Values{
		"q":      {req.Args},
		"source": {req.Content},
		"target": {"en"},
	}
	headers := map[string]string{
		"x-rapidapi-key":  s.cfg.ApiKeys.RapidAPI,
		"x-rapidapi-host": "google-translate1.p.rapidapi.com",
	}

	var resp translateResponse
	if err := s.getJSON(ctx, translateEndpoint, params, headers, &resp); err != nil {
		return "", err
	}
	if len(resp.Data.Translations) == 0 {
		return "", fmt.Errorf("empty translation for %q", req.Args)
	}
	return fmt.Sprintf("🇬🇧 %s", resp.Data.Translations[0].TranslatedText), nil
}
