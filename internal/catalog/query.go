package catalog

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cinefusion/cinefusion/internal/models"
)

// Engine executes filter, sort and paginate queries over a Store.
type Engine struct {
	store  *Store
	logger *logrus.Logger
}

// NewEngine creates a query engine over the given store.
func NewEngine(store *Store, logger *logrus.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// Search runs the query pipeline: free-text substring match across
// title, director, actors and genre (logical OR), then each supplied
// filter as an independent AND predicate, then a stable sort with
// missing values last, then pagination. TotalCount reflects the
// filtered set before the page is cut; a window past the end yields an
// empty page, never an error.
func (e *Engine) Search(req *models.SearchRequest) ([]models.Movie, int, map[string]interface{}) {
	filtered := make([]models.Movie, 0, e.store.Len())
	applied := make(map[string]interface{})

	query := strings.ToLower(strings.TrimSpace(req.Query))
	if query != "" {
		applied["query"] = req.Query
	}
	if req.Genre != "" {
		applied["genre"] = req.Genre
	}
	if req.Year != nil {
		applied["year"] = *req.Year
	}
	if req.MinRating != nil {
		applied["min_rating"] = *req.MinRating
	}
	if req.MaxRating != nil {
		applied["max_rating"] = *req.MaxRating
	}
	if req.Director != "" {
		applied["director"] = req.Director
	}
	if req.Actor != "" {
		applied["actor"] = req.Actor
	}

	for _, m := range e.store.movies {
		if query != "" && !matchesQuery(&m, query) {
			continue
		}
		if !matchesFilters(&m, req) {
			continue
		}
		filtered = append(filtered, m)
	}

	sortBy, sortOrder := req.SortBy, req.SortOrder
	if sortBy == "" {
		sortBy = "rating"
	}
	if sortOrder == "" {
		sortOrder = "desc"
	}
	sortMovies(filtered, sortBy, sortOrder)
	applied["sort_by"] = sortBy
	applied["sort_order"] = sortOrder

	total := len(filtered)
	page := paginate(filtered, req.Limit, req.Offset)
	e.logger.Debugf("Search %q matched %d of %d records, returning %d", req.Query, total, e.store.Len(), len(page))
	return page, total, applied
}

// matchesQuery reports whether the lowercased query is a literal
// substring of any of the free-text fields.
func matchesQuery(m *models.Movie, query string) bool {
	if strings.Contains(strings.ToLower(m.Title), query) {
		return true
	}
	for _, f := range []*string{m.Director, m.Actors, m.Genre} {
		if f != nil && strings.Contains(strings.ToLower(*f), query) {
			return true
		}
	}
	return false
}

func matchesFilters(m *models.Movie, req *models.SearchRequest) bool {
	if req.Genre != "" && !containsFold(m.Genre, req.Genre) {
		return false
	}
	if req.Year != nil && (m.Year == nil || *m.Year != *req.Year) {
		return false
	}
	if req.MinRating != nil && (m.Rating == nil || *m.Rating < *req.MinRating) {
		return false
	}
	if req.MaxRating != nil && (m.Rating == nil || *m.Rating > *req.MaxRating) {
		return false
	}
	if req.Director != "" && !containsFold(m.Director, req.Director) {
		return false
	}
	if req.Actor != "" && !containsFold(m.Actors, req.Actor) {
		return false
	}
	return true
}

func containsFold(field *string, needle string) bool {
	if field == nil {
		return false
	}
	return strings.Contains(strings.ToLower(*field), strings.ToLower(needle))
}

// sortMovies stable-sorts in place by the mapped field. Records missing
// the sort field go last regardless of direction.
func sortMovies(movies []models.Movie, sortBy, sortOrder string) {
	asc := strings.EqualFold(sortOrder, "asc")
	sort.SliceStable(movies, func(i, j int) bool {
		iv, iok := sortValue(&movies[i], sortBy)
		jv, jok := sortValue(&movies[j], sortBy)
		if iok != jok {
			return iok // present before missing, both directions
		}
		if !iok {
			return false
		}
		if sortBy == "title" {
			a, b := movies[i].Title, movies[j].Title
			if asc {
				return a < b
			}
			return a > b
		}
		if iv == jv {
			return false
		}
		if asc {
			return iv < jv
		}
		return iv > jv
	})
}

// sortValue maps a movie to its numeric sort key. Titles sort as
// strings and are handled by the caller; the bool reports presence.
func sortValue(m *models.Movie, sortBy string) (float64, bool) {
	switch sortBy {
	case "rating":
		if m.Rating == nil {
			return 0, false
		}
		return *m.Rating, true
	case "year":
		if m.Year == nil {
			return 0, false
		}
		return float64(*m.Year), true
	case "duration":
		if m.Duration == nil {
			return 0, false
		}
		return float64(*m.Duration), true
	case "budget":
		if m.Budget == nil {
			return 0, false
		}
		return *m.Budget, true
	case "title":
		return 0, true
	default:
		return 0, false
	}
}
