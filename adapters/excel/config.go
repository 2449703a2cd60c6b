package excel

// ReaderConfig controls how uploads are read
type ReaderConfig struct {
	MaxRows int `json:"max_rows"` // 0 means unlimited
}

// DefaultReaderConfig returns the reader defaults
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{MaxRows: 0}
}
