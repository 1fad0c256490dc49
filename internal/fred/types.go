package fred

// APISeries is one series metadata record as returned by /series.
type APISeries struct {
	ID                      string `json:"id"`
	Title                   string `json:"title"`
	Units                   string `json:"units"`
	UnitsShort              string `json:"units_short"`
	Frequency               string `json:"frequency"`
	FrequencyShort          string `json:"frequency_short"`
	SeasonalAdjustment      string `json:"seasonal_adjustment"`
	SeasonalAdjustmentShort string `json:"seasonal_adjustment_short"`
	ObservationStart        string `json:"observation_start"` // YYYY-MM-DD
	ObservationEnd          string `json:"observation_end"`   // YYYY-MM-DD
	LastUpdated             string `json:"last_updated"`
	Popularity              int32  `json:"popularity"`
	Notes                   string `json:"notes"`
	RealtimeStart           string `json:"realtime_start"`
	RealtimeEnd             string `json:"realtime_end"`
}

// SeriesResponse wraps /series output.
type SeriesResponse struct {
	Seriess []APISeries `json:"seriess"`
}

// APIObservation is one observation as returned by /series/observations.
// Value is kept raw: the API reports missing points as ".".
type APIObservation struct {
	Date          string `json:"date"` // YYYY-MM-DD
	Value         string `json:"value"`
	RealtimeStart string `json:"realtime_start"`
	RealtimeEnd   string `json:"realtime_end"`
}

// ObservationsResponse is one page of /series/observations output.
type ObservationsResponse struct {
	Count        int              `json:"count"`  // Total observations matching the query
	Limit        int              `json:"limit"`  // Page size the server applied
	Offset       int              `json:"offset"` // Offset of this page
	SortOrder    string           `json:"order_by,omitempty"`
	Observations []APIObservation `json:"observations"`
}

// ObservationsOptions parameterizes one observations page fetch.
type ObservationsOptions struct {
	Start     string // observation_start, YYYY-MM-DD
	End       string // observation_end, optional
	Limit     int
	Offset    int
	SortOrder string // "asc" | "desc"
}
