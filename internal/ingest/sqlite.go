package ingest

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/cinefusion/cinefusion/internal/models"
)

// SQLiteLoader reads records from a movies table in a SQLite snapshot.
// The database is opened read-only; there is no schema lifecycle here.
type SQLiteLoader struct {
	path   string
	logger *logrus.Logger
}

// NewSQLiteLoader creates a loader for the given SQLite file.
func NewSQLiteLoader(path string, logger *logrus.Logger) *SQLiteLoader {
	return &SQLiteLoader{path: path, logger: logger}
}

// Load reads every row of the movies table into movie records.
func (l *SQLiteLoader) Load() ([]models.Movie, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", l.path))
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT title, year, rating, genre, director, duration, budget,
		       actors, plot, country, language, awards
		FROM movies`)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies table: %w", err)
	}
	defer rows.Close()

	var movies []models.Movie
	for rows.Next() {
		var (
			title    sql.NullString
			year     sql.NullInt64
			rating   sql.NullFloat64
			genre    sql.NullString
			director sql.NullString
			duration sql.NullInt64
			budget   sql.NullFloat64
			actors   sql.NullString
			plot     sql.NullString
			country  sql.NullString
			language sql.NullString
			awards   sql.NullString
		)
		if err := rows.Scan(&title, &year, &rating, &genre, &director, &duration,
			&budget, &actors, &plot, &country, &language, &awards); err != nil {
			l.logger.Warnf("Skipping unreadable row: %v", err)
			continue
		}
		if !title.Valid || title.String == "" {
			l.logger.Warn("Skipping row with empty title")
			continue
		}
		movies = append(movies, models.Movie{
			Title:    title.String,
			Year:     nullableInt(year),
			Rating:   nullableFloat(rating),
			Genre:    nullableString(genre),
			Director: nullableString(director),
			Duration: nullableInt(duration),
			Budget:   nullableFloat(budget),
			Actors:   nullableString(actors),
			Plot:     nullableString(plot),
			Country:  nullableString(country),
			Language: nullableString(language),
			Awards:   nullableString(awards),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed while reading movies table: %w", err)
	}

	l.logger.Infof("Loaded %d movies from %s", len(movies), l.path)
	return movies, nil
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func nullableString(v sql.NullString) *string {
	if !v.Valid || v.String == "" {
		return nil
	}
	return &v.String
}
