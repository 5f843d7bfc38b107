package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cinefusion/cinefusion/internal/models"
)

// Column names of the movie_metadata dataset.
const (
	colTitle    = "movie_title"
	colYear     = "title_year"
	colRating   = "imdb_score"
	colGenres   = "genres"
	colDirector = "director_name"
	colDuration = "duration"
	colBudget   = "budget"
	colActor    = "actor_1_name"
	colPlot     = "plot_keywords"
	colCountry  = "country"
	colLanguage = "language"
)

// CSVLoader reads records from a movie_metadata CSV export. Rows that
// cannot be parsed are skipped with a warning; the load continues.
type CSVLoader struct {
	path   string
	logger *logrus.Logger
}

// NewCSVLoader creates a loader for the given CSV file.
func NewCSVLoader(path string, logger *logrus.Logger) *CSVLoader {
	return &CSVLoader{path: path, logger: logger}
}

// Load reads every row of the file into movie records.
func (l *CSVLoader) Load() ([]models.Movie, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	if _, ok := cols[colTitle]; !ok {
		return nil, fmt.Errorf("dataset is missing the %s column", colTitle)
	}

	var movies []models.Movie
	line := 1
	for {
		row, err := r.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			l.logger.Warnf("Skipping unparseable CSV row %d: %v", line, err)
			continue
		}
		movie, ok := l.rowToMovie(cols, row, line)
		if !ok {
			continue
		}
		movies = append(movies, movie)
	}

	l.logger.Infof("Loaded %d movies from %s", len(movies), l.path)
	return movies, nil
}

func (l *CSVLoader) rowToMovie(cols map[string]int, row []string, line int) (models.Movie, bool) {
	title := strings.TrimSpace(cell(cols, row, colTitle))
	if title == "" {
		l.logger.Warnf("Skipping CSV row %d: empty title", line)
		return models.Movie{}, false
	}
	return models.Movie{
		Title:    title,
		Year:     parseIntCell(cell(cols, row, colYear)),
		Rating:   parseFloatCell(cell(cols, row, colRating)),
		Genre:    strCell(cell(cols, row, colGenres)),
		Director: strCell(cell(cols, row, colDirector)),
		Duration: parseIntCell(cell(cols, row, colDuration)),
		Budget:   parseFloatCell(cell(cols, row, colBudget)),
		Actors:   strCell(cell(cols, row, colActor)),
		Plot:     strCell(cell(cols, row, colPlot)),
		Country:  strCell(cell(cols, row, colCountry)),
		Language: strCell(cell(cols, row, colLanguage)),
	}, true
}

func cell(cols map[string]int, row []string, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func strCell(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func parseIntCell(v string) *int {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	// The dataset stores integers as floats ("2009.0").
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	n := int(f)
	return &n
}

func parseFloatCell(v string) *float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}
