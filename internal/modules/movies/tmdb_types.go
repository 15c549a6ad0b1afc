package movies

import (
	"strconv"
	"strings"
)

const posterBaseURL = "https://image.tmdb.org/t/p/w500"

type tmdbMovie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	Overview    string  `json:"overview"`
	VoteAverage float64 `json:"vote_average"`
}

type tmdbGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type tmdbMovieDetails struct {
	tmdbMovie
	Runtime int         `json:"runtime"`
	Genres  []tmdbGenre `json:"genres"`
	Tagline string      `json:"tagline"`
}

type tmdbSearchResponse struct {
	Page         int         `json:"page"`
	Results      []tmdbMovie `json:"results"`
	TotalResults int         `json:"total_results"`
}

func mapMovie(m tmdbMovie) Movie {
	return Movie{
		ID:          m.ID,
		Title:       m.Title,
		PosterURL:   posterURL(m.PosterPath),
		ReleaseYear: releaseYear(m.ReleaseDate),
		Overview:    m.Overview,
		Rating:      m.VoteAverage,
	}
}

func mapMovieDetails(m tmdbMovieDetails) MovieDetails {
	genres := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		genres = append(genres, g.Name)
	}

	return MovieDetails{
		Movie:   mapMovie(m.tmdbMovie),
		Runtime: m.Runtime,
		Genres:  genres,
		Tagline: m.Tagline,
	}
}

func posterURL(path string) string {
	if path == "" {
		return ""
	}
	return posterBaseURL + path
}

// release_date is "YYYY-MM-DD" or empty for unreleased titles.
func releaseYear(date string) int {
	year, _, _ := strings.Cut(date, "-")
	y, err := strconv.Atoi(year)
	if err != nil {
		return 0
	}
	return y
}
