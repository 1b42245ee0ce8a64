package analysis

// Config holds AI analysis request settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the settings every analysis request is sent with.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1500,
		Temperature: 0.7,
	}
}
