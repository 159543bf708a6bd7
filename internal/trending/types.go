package trending

// Movie is one trending title as shown to the user.
type Movie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	PosterURL   string  `json:"posterURL,omitempty"`
	VoteAverage float64 `json:"voteAverage"`
	ReleaseDate string  `json:"releaseDate,omitempty"`
}

// trendingResponse is the subset of TMDB's /trending payload we read.
type trendingResponse struct {
	Page    int         `json:"page"`
	Results []tmdbMovie `json:"results"`
}

type tmdbMovie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Name        string  `json:"name"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	ReleaseDate string  `json:"release_date"`
}
