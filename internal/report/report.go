package report

import (
	"time"

	"touristhub/internal/models"
)

// Report is the aggregate view the admin reports screen renders.
type Report struct {
	GeneratedAt      time.Time        `json:"generatedAt"`
	TotalBookings    int              `json:"totalBookings"`
	TotalRevenue     float64          `json:"totalRevenue"`
	ConfirmedRevenue float64          `json:"confirmedRevenue"`
	TotalUsers       int              `json:"totalUsers"`
	BookingsByStatus map[string]int   `json:"bookingsByStatus"`
	TourPerformance  []TourStats      `json:"tourPerformance"`
	MonthlyRevenue   []MonthlyRevenue `json:"monthlyRevenue"`
	MonthlySignups   []MonthlyCount   `json:"monthlySignups"`
}

type TourStats struct {
	TourName string  `json:"tourName"`
	Bookings int     `json:"bookings"`
	Revenue  float64 `json:"revenue"`
}

type MonthlyRevenue struct {
	Month    string  `json:"month"` // e.g. "Apr 2026"
	Revenue  float64 `json:"revenue"`
	Bookings int     `json:"bookings"`
}

type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

const monthLabel = "Jan 2006"

// Build computes the report from the current mirrors. Total revenue
// sums every booking's fixed total price; confirmed revenue counts
// confirmed bookings only. Monthly series cover the last six months,
// oldest first.
func Build(bookings []models.Booking, users []models.UserRecord, tours []models.Tour, now time.Time) *Report {
	r := &Report{
		GeneratedAt:      now,
		TotalBookings:    len(bookings),
		TotalUsers:       len(users),
		BookingsByStatus: make(map[string]int),
	}

	tourStats := make(map[string]*TourStats)
	for _, booking := range bookings {
		r.TotalRevenue += booking.TotalPrice
		if booking.Status == models.StatusConfirmed {
			r.ConfirmedRevenue += booking.TotalPrice
		}
		r.BookingsByStatus[booking.Status]++

		stats, ok := tourStats[booking.TourName]
		if !ok {
			stats = &TourStats{TourName: booking.TourName}
			tourStats[booking.TourName] = stats
		}
		stats.Bookings++
		stats.Revenue += booking.TotalPrice
	}

	// Keep catalog order for the per-tour table; tours nobody booked
	// still show a zero row.
	for _, tour := range tours {
		stats, ok := tourStats[tour.Name]
		if !ok {
			stats = &TourStats{TourName: tour.Name}
		}
		r.TourPerformance = append(r.TourPerformance, *stats)
		delete(tourStats, tour.Name)
	}
	for _, booking := range bookings {
		if stats, ok := tourStats[booking.TourName]; ok {
			r.TourPerformance = append(r.TourPerformance, *stats)
			delete(tourStats, booking.TourName)
		}
	}

	for i := 5; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		label := monthStart.Format(monthLabel)

		var revenue float64
		var count int
		for _, booking := range bookings {
			if sameMonth(booking.CreatedAt, monthStart) {
				revenue += booking.TotalPrice
				count++
			}
		}
		r.MonthlyRevenue = append(r.MonthlyRevenue, MonthlyRevenue{Month: label, Revenue: revenue, Bookings: count})

		var signups int
		for _, user := range users {
			if joined, err := time.Parse("2006-01-02", user.JoinDate); err == nil && sameMonth(joined, monthStart) {
				signups++
			}
		}
		r.MonthlySignups = append(r.MonthlySignups, MonthlyCount{Month: label, Count: signups})
	}

	return r
}

// AverageBookingValue returns revenue per booking, zero when empty.
func (r *Report) AverageBookingValue() float64 {
	if r.TotalBookings == 0 {
		return 0
	}
	return r.TotalRevenue / float64(r.TotalBookings)
}

func sameMonth(t, monthStart time.Time) bool {
	return t.Year() == monthStart.Year() && t.Month() == monthStart.Month()
}
