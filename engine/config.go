package engine

// Config controls non-functional knobs only. Price-time priority, TIF
// semantics, and the lock hierarchy are fixed and not configurable.
// Follows the repo's *Config/Default*Config constructor convention.
type Config struct {
	// DebugMode enables the recent-match debug trail returned by
	// MatchingEngine.DebugTrail.
	DebugMode bool
	// TradeDebugHistory is the ring-buffer size for the optional debug
	// trail of recent matches kept per engine instance.
	TradeDebugHistory int
}

// DefaultConfig returns sane defaults: debug logging off, a modest debug
// trail.
func DefaultConfig() Config {
	return Config{
		DebugMode:         false,
		TradeDebugHistory: 100,
	}
}
