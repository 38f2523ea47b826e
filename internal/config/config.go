package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// Jira connection
	JiraBaseURL  string
	JiraEmail    string
	JiraAPIToken string

	// Webhook signature
	WebhookSecret string

	// Generation
	AnthropicAPIKey string
	AnthropicModel  string
	ModelRPS        float64
	TemplatesFile   string

	// Event filtering
	TriggerIssueTypes []string
	ProjectKeys       []string

	// Subtask creation
	SubtaskType  string
	GroomedLabel string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Event state
	EventTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8085"),

		JiraBaseURL:  envOr("JIRA_BASE_URL", "https://your-domain.atlassian.net"),
		JiraEmail:    os.Getenv("JIRA_EMAIL"),
		JiraAPIToken: os.Getenv("JIRA_API_TOKEN"),

		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),
		ModelRPS:        envFloat("MODEL_RPS", 1),
		TemplatesFile:   os.Getenv("TEMPLATES_FILE"),

		TriggerIssueTypes: envList("TRIGGER_ISSUE_TYPES", "Story,Task"),
		ProjectKeys:       envList("PROJECT_KEYS", ""),

		SubtaskType:  envOr("SUBTASK_TYPE", "Sub-task"),
		GroomedLabel: envOr("GROOMED_LABEL", "tasksmith-groomed"),

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		EventTTL: envDuration("EVENT_TTL", 1*time.Hour),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.ModelRPS <= 0 {
		cfg.ModelRPS = 1
	}
	if cfg.EventTTL <= 0 {
		cfg.EventTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.JiraEmail == "" {
		return fmt.Errorf("JIRA_EMAIL is required")
	}
	if c.JiraAPIToken == "" {
		return fmt.Errorf("JIRA_API_TOKEN is required")
	}
	if c.WebhookSecret == "" {
		return fmt.Errorf("WEBHOOK_SECRET is required")
	}
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envList splits a comma-separated value, dropping empty entries. An
// empty fallback yields a nil slice, meaning "no filter".
func envList(key, fallback string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
