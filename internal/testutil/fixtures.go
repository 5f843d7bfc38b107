// Package testutil provides shared fixtures for package tests.
package testutil

import "github.com/cinefusion/cinefusion/internal/models"

// IntPtr returns a pointer to the given int.
func IntPtr(v int) *int { return &v }

// Float64Ptr returns a pointer to the given float64.
func Float64Ptr(v float64) *float64 { return &v }

// StrPtr returns a pointer to the given string.
func StrPtr(v string) *string { return &v }

// NewMovie builds a fully populated movie record.
func NewMovie(title string, year int, rating float64, genre, director, actors string) models.Movie {
	return models.Movie{
		Title:    title,
		Year:     IntPtr(year),
		Rating:   Float64Ptr(rating),
		Genre:    StrPtr(genre),
		Director: StrPtr(director),
		Actors:   StrPtr(actors),
	}
}

// SampleMovies returns a small, well-formed dataset used across tests.
func SampleMovies() []models.Movie {
	return []models.Movie{
		NewMovie("Batman", 1989, 7.5, "Action|Crime", "Tim Burton", "Michael Keaton"),
		NewMovie("Batman Begins", 2005, 8.2, "Action|Crime|Drama", "Christopher Nolan", "Christian Bale"),
		NewMovie("Catwoman", 2004, 3.4, "Action|Fantasy", "Pitof", "Halle Berry"),
		NewMovie("Avatar", 2009, 7.9, "Action|Adventure|Sci-Fi", "James Cameron", "Sam Worthington"),
		NewMovie("The Avengers", 2012, 8.1, "Action|Sci-Fi", "Joss Whedon", "Robert Downey Jr."),
		{
			Title: "Unrated Obscurity",
			Year:  IntPtr(1997),
			Genre: StrPtr("Drama"),
		},
	}
}
