package cmds

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const omdbEndpoint = "http://www.omdbapi.com/"

type omdbMovie struct {
	Response   string `json:"Response"`
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Rated      string `json:"Rated"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Plot       string `json:"Plot"`
	BoxOffice  string `json:"BoxOffice"`
	IMDBRating string `json:"imdbRating"`
}

// FindMovie looks a film up by title.
func (s *Skills) FindMovie(ctx context.Context, req *Request) (string, error) {
	params := url.Values{
		"t":      {strings.TrimSpace(req.Args)},
		"apikey": {s.cfg.ApiKeys.OMDB},
	}

	var movie omdbMovie
	if err := s.getJSON(ctx, omdbEndpoint, params, nil, &movie); err != nil {
		return "", err
	}
	if movie.Response != "True" {
		return fmt.Sprintf("couldn't find a movie called `%s`, did u make that up?", req.Args), nil
	}

	var b strings.Builder
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "<b>%s (%s)</b> %s\n", movie.Title, movie.Year, movie.Rated)
	fmt.Fprintf(&b, "🎬 %s · %s\n", movie.Genre, movie.Runtime)
	fmt.Fprintf(&b, "🎥 Directed by %s\n", movie.Director)
	if movie.Plot != "" && movie.Plot != "N/A" {
		fmt.Fprintf(&b, "%s\n", movie.Plot)
	}
	if movie.BoxOffice != "" && movie.BoxOffice != "N/A" {
		fmt.Fprintf(&b, "💰 %s\n", movie.BoxOffice)
	}
	fmt.Fprintf(&b, "⭐ %s/10 on IMDB", movie.IMDBRating)
	return b.String(), nil
}
