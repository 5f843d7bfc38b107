package catalog

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cinefusion/cinefusion/internal/models"
)

// Store holds the flat, immutable record set. A movie's identity is its
// position in the slice; the store owns the collection and hands out
// copies. A new Store is built for every bulk load and swapped in whole,
// so no mutation happens after construction.
type Store struct {
	movies []models.Movie
	logger *logrus.Logger
}

// NewStore validates and retains the given records. Records failing
// validation are skipped with a warning; the load continues.
func NewStore(records []models.Movie, logger *logrus.Logger) *Store {
	movies := make([]models.Movie, 0, len(records))
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			logger.WithFields(logrus.Fields{
				"position": i,
				"title":    rec.Title,
			}).Warnf("Skipping malformed record: %v", err)
			continue
		}
		rec.Title = strings.TrimSpace(rec.Title)
		movies = append(movies, rec)
	}
	return &Store{movies: movies, logger: logger}
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.movies)
}

// Get returns the record at the given position.
func (s *Store) Get(id int) (models.Movie, error) {
	if id < 0 || id >= len(s.movies) {
		return models.Movie{}, models.ErrMovieNotFound
	}
	return s.movies[id], nil
}

// Titles returns every title in store order. Used to seed the title
// indexes at load time.
func (s *Store) Titles() []string {
	titles := make([]string, len(s.movies))
	for i, m := range s.movies {
		titles[i] = m.Title
	}
	return titles
}

// List returns a sorted, paginated view of the whole catalog.
func (s *Store) List(limit, offset int, sortBy, sortOrder string) []models.Movie {
	sorted := make([]models.Movie, len(s.movies))
	copy(sorted, s.movies)
	sortMovies(sorted, sortBy, sortOrder)
	return paginate(sorted, limit, offset)
}

// Genres returns the distinct genres across the catalog, ascending.
// Genre cells are pipe-separated lists in the source dataset.
func (s *Store) Genres() []string {
	seen := make(map[string]bool)
	for _, m := range s.movies {
		if m.Genre == nil {
			continue
		}
		for _, g := range strings.Split(*m.Genre, "|") {
			if g = strings.TrimSpace(g); g != "" {
				seen[g] = true
			}
		}
	}
	genres := make([]string, 0, len(seen))
	for g := range seen {
		genres = append(genres, g)
	}
	sort.Strings(genres)
	return genres
}

// Directors returns distinct director names, optionally filtered by a
// case-insensitive substring, ascending, capped at limit.
func (s *Store) Directors(search string, limit int) []string {
	search = strings.ToLower(search)
	seen := make(map[string]bool)
	for _, m := range s.movies {
		if m.Director == nil {
			continue
		}
		d := strings.TrimSpace(*m.Director)
		if d == "" || seen[d] {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(d), search) {
			continue
		}
		seen[d] = true
	}
	directors := make([]string, 0, len(seen))
	for d := range seen {
		directors = append(directors, d)
	}
	sort.Strings(directors)
	if limit > 0 && len(directors) > limit {
		directors = directors[:limit]
	}
	return directors
}

// DatasetStats summarizes the loaded catalog.
type DatasetStats struct {
	TotalMovies     int      `json:"total_movies"`
	UniqueDirectors int      `json:"unique_directors"`
	UniqueGenres    int      `json:"unique_genres"`
	YearMin         *int     `json:"year_min,omitempty"`
	YearMax         *int     `json:"year_max,omitempty"`
	RatingMin       *float64 `json:"rating_min,omitempty"`
	RatingMax       *float64 `json:"rating_max,omitempty"`
	RatingAvg       *float64 `json:"rating_avg,omitempty"`
}

// Stats computes dataset statistics over the record set.
func (s *Store) Stats() DatasetStats {
	stats := DatasetStats{
		TotalMovies:  len(s.movies),
		UniqueGenres: len(s.Genres()),
	}
	directors := make(map[string]bool)
	var ratingSum float64
	var rated int
	for _, m := range s.movies {
		if m.Director != nil && strings.TrimSpace(*m.Director) != "" {
			directors[strings.TrimSpace(*m.Director)] = true
		}
		if m.Year != nil {
			if stats.YearMin == nil || *m.Year < *stats.YearMin {
				y := *m.Year
				stats.YearMin = &y
			}
			if stats.YearMax == nil || *m.Year > *stats.YearMax {
				y := *m.Year
				stats.YearMax = &y
			}
		}
		if m.Rating != nil {
			if stats.RatingMin == nil || *m.Rating < *stats.RatingMin {
				r := *m.Rating
				stats.RatingMin = &r
			}
			if stats.RatingMax == nil || *m.Rating > *stats.RatingMax {
				r := *m.Rating
				stats.RatingMax = &r
			}
			ratingSum += *m.Rating
			rated++
		}
	}
	stats.UniqueDirectors = len(directors)
	if rated > 0 {
		avg := ratingSum / float64(rated)
		stats.RatingAvg = &avg
	}
	return stats
}

func paginate(movies []models.Movie, limit, offset int) []models.Movie {
	if offset >= len(movies) || offset < 0 {
		return []models.Movie{}
	}
	end := offset + limit
	if limit <= 0 || end > len(movies) {
		end = len(movies)
	}
	page := make([]models.Movie, end-offset)
	copy(page, movies[offset:end])
	return page
}
