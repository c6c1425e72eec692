package worker

// Config holds configuration for the background worker pool.
type Config struct {
	// Size is the number of worker goroutines.
	Size int `mapstructure:"size" default:"4"`
}
