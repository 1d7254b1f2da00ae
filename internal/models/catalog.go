package models

import "time"

// Tour is a read-mostly catalog entry. Tours are bundled with the
// application and mirrored locally only; they are never synchronized
// with the remote store.
type Tour struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Price        float64  `json:"price" yaml:"price"`
	Duration     string   `json:"duration" yaml:"duration"`
	MaxGuests    int      `json:"maxGuests" yaml:"max_guests"`
	Description  string   `json:"description" yaml:"description"`
	Image        string   `json:"image" yaml:"image"`
	Destinations []string `json:"destinations" yaml:"destinations"`
	Rating       float64  `json:"rating" yaml:"rating"`
	Reviews      int      `json:"reviews" yaml:"reviews"`
}

// Destination has the same lifecycle shape as Tour but is synchronized
// with the remote store.
type Destination struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Image       string    `json:"image" yaml:"image"`
	Rating      float64   `json:"rating" yaml:"rating"`
	Reviews     int       `json:"reviews" yaml:"reviews"`
	CreatedAt   time.Time `json:"createdAt,omitempty" yaml:"-"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty" yaml:"-"`
}

// Catalog is the bundled default list of tours and destinations,
// loaded from configs/catalog.yaml at startup.
type Catalog struct {
	Tours        []Tour        `yaml:"tours"`
	Destinations []Destination `yaml:"destinations"`
}
