package driven

// ConfigStore provides persistent key-value configuration (server URL,
// credentials, default project).
type ConfigStore interface {
	// Get retrieves a raw value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string value, empty when missing.
	GetString(key string) string

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Delete removes a key and persists immediately.
	Delete(key string) error
}

// Well-known configuration keys.
const (
	ConfigServerURL = "server_url"
	ConfigUsername  = "username"
	ConfigPassword  = "password"
	ConfigProjectID = "project_id"
)
