package models

import "time"

// Booking is a customer order for a tour. Tour and customer fields are
// denormalized copies taken at creation time; TotalPrice is fixed at
// unit price × guests when the booking is created and never recomputed.
type Booking struct {
	ID              string    `json:"id"`
	TourName        string    `json:"tourName"`
	CustomerName    string    `json:"customerName"`
	CustomerEmail   string    `json:"customerEmail"`
	Guests          int       `json:"guests"`
	Date            string    `json:"date"` // YYYY-MM-DD
	SpecialRequests string    `json:"specialRequests,omitempty"`
	TotalPrice      float64   `json:"totalPrice"`
	Status          string    `json:"status"` // pending, confirmed, completed, cancelled
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
