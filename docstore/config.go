package docstore

// Config holds configuration for the DynamoDB-backed store.
type Config struct {
	// TableName is the DynamoDB table holding dictionary nodes.
	// The table uses a composite primary key: pk (container key, S)
	// and sk (node name, S).
	// Default: "espalier_nodes"
	TableName string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		TableName: "espalier_nodes",
	}
}

// validate ensures config values are usable.
func (c *Config) validate() {
	if c.TableName == "" {
		c.TableName = "espalier_nodes"
	}
}
