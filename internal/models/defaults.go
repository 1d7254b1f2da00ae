package models

// DefaultSettings returns the initial site settings used until the
// admin replaces them.
func DefaultSettings() Settings {
	return Settings{
		SiteName:       "TouristHub",
		SiteEmail:      "info@touristhub.com",
		SitePhone:      "+1 (555) 123-4567",
		MaxGuests:      DefaultMaxGuests,
		AdvanceBooking: DefaultAdvanceBookingDays,
	}
}

// DefaultTours is the bundled tour catalog, used when no catalog file
// overrides it.
func DefaultTours() []Tour {
	return []Tour{
		{
			ID:           "tour-1",
			Name:         "Adventure Explorer",
			Price:        899,
			Duration:     "7 Days",
			MaxGuests:    12,
			Description:  "7-day adventure tour through mountains and forests",
			Image:        "https://images.unsplash.com/photo-1469474968028-56623f02e42e?w=400",
			Destinations: []string{"Mountain Peaks", "Forest Trails", "Adventure Sports"},
			Rating:       4.8,
			Reviews:      2340,
		},
		{
			ID:           "tour-2",
			Name:         "Cultural Heritage",
			Price:        649,
			Duration:     "5 Days",
			MaxGuests:    15,
			Description:  "5-day cultural immersion in historic cities",
			Image:        "https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=400",
			Destinations: []string{"Historic Cities", "Museums", "Cultural Sites"},
			Rating:       4.7,
			Reviews:      1890,
		},
		{
			ID:           "tour-3",
			Name:         "Beach Paradise",
			Price:        399,
			Duration:     "3 Days",
			MaxGuests:    20,
			Description:  "3-day beach relaxation and water activities",
			Image:        "https://images.unsplash.com/photo-1507525428034-b723cf961d3e?w=400",
			Destinations: []string{"Tropical Beaches", "Water Sports", "Island Hopping"},
			Rating:       4.9,
			Reviews:      3120,
		},
	}
}

// DefaultDestinations is the bundled destination list, used at
// hydration when the remote collection is empty or unreachable.
func DefaultDestinations() []Destination {
	return []Destination{
		{
			ID:          "dest-1",
			Name:        "Mountain Peaks",
			Description: "Experience breathtaking mountain views and hiking trails",
			Image:       "https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=400",
			Rating:      4.8,
			Reviews:     2340,
		},
		{
			ID:          "dest-2",
			Name:        "Tropical Beaches",
			Description: "Relax on pristine beaches with crystal clear waters",
			Image:       "https://images.unsplash.com/photo-1507525428034-b723cf961d3e?w=400",
			Rating:      4.9,
			Reviews:     1890,
		},
		{
			ID:          "dest-3",
			Name:        "Historic Cities",
			Description: "Discover rich history and cultural heritage",
			Image:       "https://images.unsplash.com/photo-1488646953014-85cb44e25828?w=400",
			Rating:      4.7,
			Reviews:     3120,
		},
	}
}
