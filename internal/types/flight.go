package types

// FlightOffer is one flight option as returned by a provider. Price and
// Duration stay in their raw provider formats; parsing happens at ranking time.
type FlightOffer struct {
	Carrier   string `json:"carrier"`
	FlightNo  string `json:"flight_no"`
	Departure string `json:"departure"`
	Arrival   string `json:"arrival"`
	Price     string `json:"price"`    // e.g. "¥1280", "$350", "980 CNY"
	Duration  string `json:"duration"` // e.g. "PT2H30M", "2h 30m"
	Stops     int    `json:"stops"`
}

// FlightSearchRequest is the body of the flight search endpoint.
type FlightSearchRequest struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departureDate,omitempty"` // YYYY-MM-DD
	Adults        int    `json:"adults,omitempty"`
}

// FlightSearchResponse carries the offers plus the recommended pick.
type FlightSearchResponse struct {
	Flights []FlightOffer `json:"flights"`
	Best    *FlightOffer  `json:"best,omitempty"`
}
