package api

// Config holds configuration for the JSON API server
type Config struct {
	MaxUploadBytes int64 `json:"max_upload_bytes"`
	// MaxQuantitiesBytes bounds the quantities JSON form field.
	MaxQuantitiesBytes int `json:"max_quantities_bytes"`
}

// DefaultConfig returns the API defaults
func DefaultConfig() Config {
	return Config{
		MaxUploadBytes:     10 * 1024 * 1024,
		MaxQuantitiesBytes: 1024 * 1024,
	}
}
