package config

// QualityTier controls the model selection trade-off between speed/cost
// and extraction quality.
type QualityTier string

const (
	QualityLite   QualityTier = "lite"
	QualityNormal QualityTier = "normal"
	QualityMax    QualityTier = "max"
)

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
)

// Config is the top-level pamrules configuration, corresponding to
// .pamrules.yml.
type Config struct {
	Provider        ProviderType  `yaml:"provider" koanf:"provider"`
	Model           string        `yaml:"model" koanf:"model"`
	Quality         QualityTier   `yaml:"quality" koanf:"quality"`
	Port            int           `yaml:"port" koanf:"port"`
	DataDir         string        `yaml:"data_dir" koanf:"data_dir"`
	AllowAllOrigins bool          `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	ChatTimeoutSecs int           `yaml:"chat_timeout_secs" koanf:"chat_timeout_secs"`
	Cleanup         CleanupConfig `yaml:"cleanup" koanf:"cleanup"`
}

// CleanupConfig controls snapshot housekeeping in the rule store.
type CleanupConfig struct {
	MaxAgeDays int      `yaml:"max_age_days" koanf:"max_age_days"`
	Patterns   []string `yaml:"patterns" koanf:"patterns"`
}
