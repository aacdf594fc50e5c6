package config

// Config is the root configuration for the supportbuddy service.
type Config struct {
	Version int `toml:"version" mapstructure:"version"`

	Server      ServerConfig      `toml:"server" mapstructure:"server"`
	DocStore    DocStoreConfig    `toml:"docstore" mapstructure:"docstore"`
	VectorStore VectorStoreConfig `toml:"vector_store" mapstructure:"vector_store"`
	Embedding   EmbeddingConfig   `toml:"embedding" mapstructure:"embedding"`
	Completion  CompletionConfig  `toml:"completion" mapstructure:"completion"`
	Retrieval   RetrievalConfig   `toml:"retrieval" mapstructure:"retrieval"`
	Events      EventsConfig      `toml:"events" mapstructure:"events"`
	Workers     WorkersConfig     `toml:"workers" mapstructure:"workers"`
}

// ServerConfig configures the HTTP gateway.
type ServerConfig struct {
	// Listen is the address the gateway listens on (e.g., ":8000").
	Listen string `toml:"listen" mapstructure:"listen"`
}

// DocStoreConfig configures the document database backing users, ingested
// sources, and conversation memory.
type DocStoreConfig struct {
	// Provider selects the backend: "sqlite", "mongo", or "inmemory".
	Provider string `toml:"provider" mapstructure:"provider"`

	// Path is the SQLite database path (":memory:" for in-memory).
	Path string `toml:"path" mapstructure:"path"`

	// URI is the MongoDB connection string.
	URI string `toml:"uri" mapstructure:"uri"`

	// Database is the MongoDB database name.
	Database string `toml:"database" mapstructure:"database"`
}

// VectorStoreConfig configures the vector store used for retrieval.
type VectorStoreConfig struct {
	// Provider selects the backend: "qdrant", "chroma", or "inmemory".
	Provider string `toml:"provider" mapstructure:"provider"`

	// Target is the vector store address. For chroma this is a base URL;
	// for qdrant a host:port pair for the gRPC endpoint.
	Target string `toml:"target" mapstructure:"target"`

	// Collection is the collection name holding the ingested corpus.
	Collection string `toml:"collection" mapstructure:"collection"`
}

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	// Provider selects the backend: "ollama" or "openai".
	Provider string `toml:"provider" mapstructure:"provider"`

	// Target is the embedding API base URL.
	Target string `toml:"target" mapstructure:"target"`

	// Model is the embedding model name.
	Model string `toml:"model" mapstructure:"model"`

	// Dimensions is the embedding vector size.
	Dimensions int `toml:"dimensions" mapstructure:"dimensions"`

	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `toml:"api_key_env" mapstructure:"api_key_env"`
}

// CompletionConfig configures the completion provider that answers questions.
type CompletionConfig struct {
	// Provider selects the backend: "openai" or "anthropic".
	Provider string `toml:"provider" mapstructure:"provider"`

	// Target is the completion API base URL (openai only; the anthropic
	// SDK resolves its own endpoint).
	Target string `toml:"target" mapstructure:"target"`

	// Model is the chat model name.
	Model string `toml:"model" mapstructure:"model"`

	// MaxTokens caps the answer length.
	MaxTokens int `toml:"max_tokens" mapstructure:"max_tokens"`

	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `toml:"api_key_env" mapstructure:"api_key_env"`
}

// RetrievalConfig tunes document retrieval.
type RetrievalConfig struct {
	// TopK is the number of documents retrieved per question.
	TopK int `toml:"top_k" mapstructure:"top_k"`
}

// EventsConfig configures the exchange event stream.
type EventsConfig struct {
	// Provider selects the backend: "kafka" or "nop".
	Provider string `toml:"provider" mapstructure:"provider"`

	// Brokers is the comma-separated Kafka broker list.
	Brokers string `toml:"brokers" mapstructure:"brokers"`

	// Topic is the Kafka topic exchange events are published to.
	Topic string `toml:"topic" mapstructure:"topic"`
}

// WorkersConfig tunes the async worker pool.
type WorkersConfig struct {
	// Num is the number of background workers.
	Num uint `toml:"num" mapstructure:"num"`

	// QueueSize is the capacity of the job queue.
	QueueSize uint `toml:"queue_size" mapstructure:"queue_size"`
}
