package cfg

type Cfg struct {
	// Source site configuration
	BaseURL   string
	UserAgent string

	// Storage configuration
	Storage        string
	DBPath         string
	RestURL        string
	RestAnonKey    string
	RestServiceKey string

	// Crawl configuration
	IntervalMinutes int
	ItemDelayMs     int
	CategoryDelayMs int
	MaxRetries      int
	RetryBaseMs     int
	MaxConcurrent   int
	RulesFile       string

	// Application metadata
	Port     string
	Timezone string
	Debug    bool
	Version  string
}
