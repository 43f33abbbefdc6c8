package config

import "github.com/susilcse/PAM-AI-Rule-Engine/internal/rulestore"

// qualityPresets maps each quality tier to its model choice.
var qualityPresets = map[QualityTier]string{
	QualityLite:   "gpt-4o-mini",
	QualityNormal: "gpt-4o",
	QualityMax:    "gpt-4",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:        ProviderOpenAI,
		Model:           "gpt-4o",
		Quality:         QualityNormal,
		Port:            8080,
		DataDir:         "data",
		AllowAllOrigins: false,
		ChatTimeoutSecs: 60,
		Cleanup: CleanupConfig{
			MaxAgeDays: 30,
			Patterns:   rulestore.DefaultCleanupPatterns,
		},
	}
}

// ModelForTier returns the model preset for the given quality tier,
// falling back to the normal tier when the value is unknown.
func ModelForTier(tier QualityTier) string {
	if m, ok := qualityPresets[tier]; ok {
		return m
	}
	return qualityPresets[QualityNormal]
}
