package config

const (
	// v0 is the alpha version of the config
	v0 = 0

	// CurrentV is the currently supported version, points to v0
	CurrentV = v0

	defaultServerListen = ":8000"

	defaultDocStoreProvider = "sqlite"
	defaultDocStorePath     = "supportbuddy.db"
	defaultMongoURI         = "mongodb://localhost:27017"
	defaultMongoDatabase    = "supportbuddy"

	defaultVectorProvider   = "qdrant"
	defaultVectorTarget     = "localhost:6334"
	defaultVectorCollection = "supportbuddy"

	defaultEmbeddingProvider   = "ollama"
	defaultEmbeddingTarget     = "http://localhost:11434"
	defaultEmbeddingModel      = "nomic-embed-text"
	defaultEmbeddingDimensions = 768
	defaultEmbeddingAPIKeyEnv  = "OPENAI_API_KEY"

	defaultCompletionProvider  = "openai"
	defaultCompletionTarget    = "https://api.openai.com/v1"
	defaultCompletionModel     = "gpt-4o-mini"
	defaultCompletionMaxTokens = 1024
	defaultCompletionAPIKeyEnv = "OPENAI_API_KEY"

	defaultRetrievalTopK = 4

	defaultEventsProvider = "nop"
	defaultEventsBrokers  = "localhost:9092"
	defaultEventsTopic    = "supportbuddy.exchanges"

	defaultNumWorkers uint = 3
	defaultQueueSize  uint = 256
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Server: ServerConfig{
			Listen: defaultServerListen,
		},
		DocStore: DocStoreConfig{
			Provider: defaultDocStoreProvider,
			Path:     defaultDocStorePath,
			URI:      defaultMongoURI,
			Database: defaultMongoDatabase,
		},
		VectorStore: VectorStoreConfig{
			Provider:   defaultVectorProvider,
			Target:     defaultVectorTarget,
			Collection: defaultVectorCollection,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Target:     defaultEmbeddingTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
			APIKeyEnv:  defaultEmbeddingAPIKeyEnv,
		},
		Completion: CompletionConfig{
			Provider:  defaultCompletionProvider,
			Target:    defaultCompletionTarget,
			Model:     defaultCompletionModel,
			MaxTokens: defaultCompletionMaxTokens,
			APIKeyEnv: defaultCompletionAPIKeyEnv,
		},
		Retrieval: RetrievalConfig{
			TopK: defaultRetrievalTopK,
		},
		Events: EventsConfig{
			Provider: defaultEventsProvider,
			Brokers:  defaultEventsBrokers,
			Topic:    defaultEventsTopic,
		},
		Workers: WorkersConfig{
			Num:       defaultNumWorkers,
			QueueSize: defaultQueueSize,
		},
	}
}
