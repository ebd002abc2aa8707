package config

import "os"

// TriggerConfig is what the quake CLI needs: only the backend address.
type TriggerConfig struct {
	APIBaseURL string
	LogLevel   string
}

func LoadTriggerConfig() (*TriggerConfig, error) {
	baseURL, err := parseBaseURL(os.Getenv("API_BASE_URL"))
	if err != nil {
		return nil, err
	}

	return &TriggerConfig{
		APIBaseURL: baseURL,
		LogLevel:   getEnv("LOG_LEVEL", "info"),
	}, nil
}
