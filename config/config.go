package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// EnvFileVar points at an alternate .env file when none sits next to
	// the executable.
	EnvFileVar = "SCREEN_ANSWERER_ENV"

	DefaultHotkey       = "Ctrl+Alt+Q"
	DefaultOCRLanguages = "eng"
)

type Config struct {
	APIURL string
	APIKey string
	Model  string

	AutoSubmit    bool
	AutoCopy      bool
	ShowQuestion  bool
	ShowOptions   bool
	QuestionTypes []string
	QuestionScope string

	CropMode     string
	Hotkey       string
	OCRLanguages []string
	TempDir      string

	EnableFileLogging bool
}

func Load() (*Config, error) {
	// Load configuration from sources in priority order:
	// 1) .env in the application (executable) directory
	// 2) If not found, use SCREEN_ANSWERER_ENV as a path to a config file
	// Real environment variables win over dotenv values.
	if envPath := resolveEnvPath(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	cfg := &Config{
		APIURL:            os.Getenv("API_URL"),
		APIKey:            resolveAPIKey(),
		Model:             os.Getenv("MODEL"),
		AutoSubmit:        getEnvBool("AUTO_SUBMIT", true),
		AutoCopy:          getEnvBool("AUTO_COPY", false),
		ShowQuestion:      getEnvBool("SHOW_QUESTION", true),
		ShowOptions:       getEnvBool("SHOW_OPTIONS", true),
		QuestionTypes:     splitList(os.Getenv("QUESTION_TYPES")),
		QuestionScope:     strings.TrimSpace(os.Getenv("QUESTION_SCOPE")),
		CropMode:          getEnvWithDefault("CROP_MODE", "full"),
		Hotkey:            getEnvWithDefault("HOTKEY", DefaultHotkey),
		OCRLanguages:      splitList(getEnvWithDefault("OCR_LANGUAGES", DefaultOCRLanguages)),
		TempDir:           os.Getenv("TEMP_DIR"),
		EnableFileLogging: getEnvBool("ENABLE_FILE_LOGGING", false),
	}

	return cfg, nil
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}

	exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
	if _, err := os.Stat(exeEnv); err == nil {
		return exeEnv
	}

	if alt := os.Getenv(EnvFileVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

// resolveAPIKey prefers a key file (docker-secret style) over the plain
// environment variable.
func resolveAPIKey() string {
	if keyPath := strings.TrimSpace(os.Getenv("API_KEY_FILE")); keyPath != "" {
		if data, err := os.ReadFile(keyPath); err == nil {
			if fileKey := strings.TrimSpace(string(data)); fileKey != "" {
				return fileKey
			}
		}
	}

	return os.Getenv("API_KEY")
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch value {
	case "":
		return defaultValue
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}

// splitList parses a comma-separated string, dropping empty entries.
func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
