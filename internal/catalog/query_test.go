package catalog

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinefusion/cinefusion/internal/models"
	"github.com/cinefusion/cinefusion/internal/testutil"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewEngine(NewStore(testutil.SampleMovies(), logger), logger)
}

func titles(movies []models.Movie) []string {
	out := make([]string, len(movies))
	for i, m := range movies {
		out[i] = m.Title
	}
	return out
}

func TestEngine_SubstringMatchAcrossFields(t *testing.T) {
	engine := newTestEngine(t)

	// Title substring, case-insensitive.
	page, total, _ := engine.Search(&models.SearchRequest{Query: "bat", Limit: 10})
	assert.Equal(t, 2, total)
	assert.ElementsMatch(t, []string{"Batman", "Batman Begins"}, titles(page))

	// Director substring.
	page, total, _ = engine.Search(&models.SearchRequest{Query: "nolan", Limit: 10})
	require.Equal(t, 1, total)
	assert.Equal(t, "Batman Begins", page[0].Title)

	// Actor substring.
	_, total, _ = engine.Search(&models.SearchRequest{Query: "downey", Limit: 10})
	assert.Equal(t, 1, total)

	// Genre substring.
	_, total, _ = engine.Search(&models.SearchRequest{Query: "sci-fi", Limit: 10})
	assert.Equal(t, 2, total)

	// No match.
	page, total, _ = engine.Search(&models.SearchRequest{Query: "zzzz", Limit: 10})
	assert.Zero(t, total)
	assert.Empty(t, page)
}

func TestEngine_FiltersAreConjunctive(t *testing.T) {
	engine := newTestEngine(t)

	year := 2005
	page, total, applied := engine.Search(&models.SearchRequest{
		Query: "bat",
		Year:  &year,
		Limit: 10,
	})
	require.Equal(t, 1, total)
	assert.Equal(t, "Batman Begins", page[0].Title)
	assert.Equal(t, 2005, applied["year"])

	minRating := 7.0
	maxRating := 8.0
	_, total, _ = engine.Search(&models.SearchRequest{
		MinRating: &minRating,
		MaxRating: &maxRating,
		Limit:     10,
	})
	// Batman 7.5 and Avatar 7.9; the unrated record is excluded by the
	// rating predicates.
	assert.Equal(t, 2, total)

	_, total, _ = engine.Search(&models.SearchRequest{
		Genre:    "action",
		Director: "burton",
		Limit:    10,
	})
	assert.Equal(t, 1, total)
}

func TestEngine_SortRatingDescMissingLast(t *testing.T) {
	engine := newTestEngine(t)

	page, total, _ := engine.Search(&models.SearchRequest{
		Limit:     10,
		SortBy:    "rating",
		SortOrder: "desc",
	})
	require.Equal(t, 6, total)
	assert.Equal(t, "Batman Begins", page[0].Title)
	assert.Equal(t, "Unrated Obscurity", page[len(page)-1].Title, "missing rating sorts last")

	// Missing values stay last in ascending order too.
	page, _, _ = engine.Search(&models.SearchRequest{
		Limit:     10,
		SortBy:    "rating",
		SortOrder: "asc",
	})
	assert.Equal(t, "Catwoman", page[0].Title)
	assert.Equal(t, "Unrated Obscurity", page[len(page)-1].Title)
}

func TestEngine_SortByTitle(t *testing.T) {
	engine := newTestEngine(t)

	page, _, _ := engine.Search(&models.SearchRequest{
		Query:     "bat",
		Limit:     10,
		SortBy:    "title",
		SortOrder: "asc",
	})
	assert.Equal(t, []string{"Batman", "Batman Begins"}, titles(page))
}

func TestEngine_PaginationClamped(t *testing.T) {
	engine := newTestEngine(t)

	// Offset beyond the filtered set: empty page, correct total.
	page, total, _ := engine.Search(&models.SearchRequest{Limit: 10, Offset: 100})
	assert.Equal(t, 6, total)
	assert.Empty(t, page)

	// Window partially past the end yields fewer than limit items.
	page, total, _ = engine.Search(&models.SearchRequest{Limit: 4, Offset: 4})
	assert.Equal(t, 6, total)
	assert.Len(t, page, 2)
}

func TestStore_SkipsMalformedRecords(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	records := append(testutil.SampleMovies(),
		models.Movie{Title: "   "},
		models.Movie{Title: "Bad Year", Year: testutil.IntPtr(1500)},
		models.Movie{Title: "Bad Rating", Rating: testutil.Float64Ptr(42)},
	)
	store := NewStore(records, logger)
	assert.Equal(t, 6, store.Len())
}

func TestStore_GetByPosition(t *testing.T) {
	logger := logrus.New()
	store := NewStore(testutil.SampleMovies(), logger)

	m, err := store.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "Batman", m.Title)

	_, err = store.Get(store.Len())
	assert.ErrorIs(t, err, models.ErrMovieNotFound)
	_, err = store.Get(-1)
	assert.ErrorIs(t, err, models.ErrMovieNotFound)
}

func TestStore_GenresAndDirectors(t *testing.T) {
	logger := logrus.New()
	store := NewStore(testutil.SampleMovies(), logger)

	genres := store.Genres()
	assert.Contains(t, genres, "Sci-Fi")
	assert.Contains(t, genres, "Drama")
	// Pipe-separated cells are split into distinct genres.
	assert.NotContains(t, genres, "Action|Crime")

	directors := store.Directors("", 50)
	assert.Contains(t, directors, "Christopher Nolan")

	assert.Equal(t, []string{"Tim Burton"}, store.Directors("burton", 50))
	assert.Len(t, store.Directors("", 2), 2)
}

func TestStore_Stats(t *testing.T) {
	logger := logrus.New()
	store := NewStore(testutil.SampleMovies(), logger)

	stats := store.Stats()
	assert.Equal(t, 6, stats.TotalMovies)
	assert.Equal(t, 5, stats.UniqueDirectors)
	require.NotNil(t, stats.YearMin)
	assert.Equal(t, 1989, *stats.YearMin)
	require.NotNil(t, stats.RatingMax)
	assert.InDelta(t, 8.2, *stats.RatingMax, 0.001)
}
