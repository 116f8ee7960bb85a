package schema

// SampleProperties returns the fixed demo dataset. The descriptions are
// written so the full-text and showcase queries have something to find, and
// the embeddings encode a four-component investment profile (growth, rental
// yield, luxury factor, location score).
func SampleProperties() []Property {
	return []Property{
		{
			ID:      1,
			Address: "123 Waterfront Ave",
			City:    "Seattle",
			State:   "WA",
			Price:   1500000.00,
			Features: Features{
				Bedrooms:     5,
				Bathrooms:    4.5,
				PropertyType: "House",
				Amenities:    []string{"pool", "home theater", "garden", "fireplace", "smart home"},
			},
			Lon: -122.3321,
			Lat: 47.6062,
			Description: "Experience the epitome of luxury waterfront living in this stunning " +
				"5-bedroom modern minimalist masterpiece. Floor-to-ceiling windows frame a " +
				"panoramic view of the Puget Sound, while the private pool, home theater and " +
				"smart home technology complete the package.",
			Embedding: []float32{0.78, 0.8, 0.3, 0.68},
		},
		{
			ID:      2,
			Address: "456 Family Lane",
			City:    "San Francisco",
			State:   "CA",
			Price:   750000.00,
			Features: Features{
				Bedrooms:     4,
				Bathrooms:    2,
				PropertyType: "House",
				Amenities:    []string{"fenced yard", "playground", "security system", "garden"},
			},
			Lon: -122.4194,
			Lat: 37.7749,
			Description: "Charming family-friendly home in a safe neighborhood with excellent " +
				"walkability. The fenced yard and playground sit minutes from top-rated " +
				"schools, making this the perfect family starter.",
			Embedding: []float32{0.55, 0.6, 0.15, 0.72},
		},
		{
			ID:      3,
			Address: "789 Investment Blvd",
			City:    "Portland",
			State:   "OR",
			Price:   450000.00,
			Features: Features{
				Bedrooms:     2,
				Bathrooms:    1,
				PropertyType: "Condo",
				Amenities:    []string{"gym", "rooftop deck", "parking"},
			},
			Lon: -122.6765,
			Lat: 45.5231,
			Description: "High-yield investment condo near downtown Portland with strong rental " +
				"demand, a shared gym and a rooftop deck overlooking the river.",
			Embedding: []float32{0.82, 0.9, 0.1, 0.45},
		},
		{
			ID:      4,
			Address: "101 Sustainable Way",
			City:    "Portland",
			State:   "OR",
			Price:   850000.00,
			Features: Features{
				Bedrooms:     3,
				Bathrooms:    2,
				PropertyType: "Farmhouse",
				Amenities:    []string{"solar panels", "greenhouse", "garden", "well water"},
			},
			Lon: -122.9015,
			Lat: 45.3311,
			Description: "Sustainable off-grid farmhouse on five acres outside Portland. Solar " +
				"panels, a greenhouse and well water keep utility costs near zero.",
			Embedding: []float32{0.6, 0.5, 0.2, 0.35},
		},
		{
			ID:      5,
			Address: "555 Beach Dr",
			City:    "Malibu",
			State:   "CA",
			Price:   3200000.00,
			Features: Features{
				Bedrooms:     6,
				Bathrooms:    5.5,
				PropertyType: "Villa",
				Amenities:    []string{"pool", "private beach", "home theater", "wine cellar"},
			},
			Lon: -118.7798,
			Lat: 34.0259,
			Description: "Oceanfront luxury villa with a panoramic view of the Pacific, a " +
				"private beach path, an infinity pool and a wine cellar built for entertaining.",
			Embedding: []float32{0.4, 0.3, 0.95, 0.8},
		},
		{
			ID:      6,
			Address: "222 Historic St",
			City:    "Boston",
			State:   "MA",
			Price:   1750000.00,
			Features: Features{
				Bedrooms:     4,
				Bathrooms:    3.5,
				PropertyType: "Townhouse",
				Amenities:    []string{"fireplace", "library", "original hardwood"},
			},
			Lon: -71.0589,
			Lat: 42.3601,
			Description: "Meticulously restored historic brownstone townhouse on a cobblestone " +
				"street, with original hardwood floors, a library and three working fireplaces.",
			Embedding: []float32{0.5, 0.55, 0.7, 0.75},
		},
		{
			ID:      7,
			Address: "333 Pet Haven Ln",
			City:    "Chicago",
			State:   "IL",
			Price:   425000.00,
			Features: Features{
				Bedrooms:     3,
				Bathrooms:    2,
				PropertyType: "House",
				Amenities:    []string{"fenced yard", "dog run", "pet door"},
			},
			Lon: -87.6298,
			Lat: 41.8781,
			Description: "Pet-friendly house with a large fenced yard, a built-in dog run and a " +
				"pet door, two blocks from the neighborhood dog park.",
			Embedding: []float32{0.65, 0.7, 0.1, 0.55},
		},
		{
			ID:      8,
			Address: "444 Retirement Dream Rd",
			City:    "Phoenix",
			State:   "AZ",
			Price:   550000.00,
			Features: Features{
				Bedrooms:     2,
				Bathrooms:    2,
				PropertyType: "Bungalow",
				Amenities:    []string{"pool", "golf course access", "single level"},
			},
			Lon: -112.0740,
			Lat: 33.4484,
			Description: "Single-level retirement bungalow in a quiet 55+ community with golf " +
				"course access, a heated pool and low-maintenance desert landscaping.",
			Embedding: []float32{0.45, 0.5, 0.25, 0.6},
		},
		{
			ID:      9,
			Address: "777 Innovation Dr",
			City:    "San Jose",
			State:   "CA",
			Price:   1850000.00,
			Features: Features{
				Bedrooms:     4,
				Bathrooms:    3,
				PropertyType: "House",
				Amenities:    []string{"smart home", "ev charger", "home office"},
			},
			Lon: -121.8863,
			Lat: 37.3382,
			Description: "Smart home in the heart of Silicon Valley with an EV charger, a " +
				"dedicated home office and fiber internet, minutes from major tech campuses.",
			Embedding: []float32{0.85, 0.75, 0.4, 0.9},
		},
		{
			ID:      10,
			Address: "888 College View Dr",
			City:    "Berkeley",
			State:   "CA",
			Price:   1250000.00,
			Features: Features{
				Bedrooms:     5,
				Bathrooms:    3,
				PropertyType: "House",
				Amenities:    []string{"garden", "study rooms", "bike storage"},
			},
			Lon: -122.2730,
			Lat: 37.8715,
			Description: "Spacious home with a panoramic view of the bay near the university " +
				"campus. Study rooms and bike storage make it ideal for rental income.",
			Embedding: []float32{0.7, 0.88, 0.2, 0.66},
		},
	}
}
