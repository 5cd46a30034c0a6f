package config

import "time"

// LLMConfig represents the configuration for the LLM provider
type LLMConfig struct {
	Provider string
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	ListenAddress string
	PublicURL     string
	StateTTL      time.Duration
}

// GoogleConfig represents the Google OAuth client configuration
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// MailboxConfig represents the Gmail fetch configuration
type MailboxConfig struct {
	Timeout          time.Duration
	FetchConcurrency int
}

// ClassifierConfig represents the classification pipeline configuration
type ClassifierConfig struct {
	BatchSize        int
	BatchDelay       time.Duration
	LLMTimeout       time.Duration
	ImportantDomains []string
}

// CacheConfig represents the classification cache configuration
type CacheConfig struct {
	Enabled          bool
	TTL              time.Duration
	CleanupFrequency time.Duration
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
	}
}

// GetServer returns the HTTP server configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		ListenAddress: c.GetString("server.listen_address"),
		PublicURL:     c.GetString("server.public_url"),
		StateTTL:      c.v.GetDuration("server.state_ttl"),
	}
}

// GetGoogle returns the Google OAuth client configuration
func (c *Config) GetGoogle() GoogleConfig {
	return GoogleConfig{
		ClientID:     c.GetString("google.client_id"),
		ClientSecret: c.GetString("google.client_secret"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		MaxBodySize: c.GetInt("openai.max_body_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		MaxBodySize: c.GetInt("gemini.max_body_size"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
		MaxBodySize: c.GetInt("bedrock.max_body_size"),
	}
}

// GetMailbox returns the Gmail fetch configuration
func (c *Config) GetMailbox() MailboxConfig {
	return MailboxConfig{
		Timeout:          c.v.GetDuration("mailbox.timeout"),
		FetchConcurrency: c.GetInt("mailbox.fetch_concurrency"),
	}
}

// GetClassifier returns the classification pipeline configuration
func (c *Config) GetClassifier() ClassifierConfig {
	return ClassifierConfig{
		BatchSize:        c.GetInt("classifier.batch_size"),
		BatchDelay:       c.v.GetDuration("classifier.batch_delay"),
		LLMTimeout:       c.v.GetDuration("classifier.llm_timeout"),
		ImportantDomains: c.GetStringSlice("classifier.important_domains"),
	}
}

// GetCache returns the classification cache configuration
func (c *Config) GetCache() CacheConfig {
	return CacheConfig{
		Enabled:          c.GetBool("cache.enabled"),
		TTL:              c.v.GetDuration("cache.ttl"),
		CleanupFrequency: c.v.GetDuration("cache.cleanup_frequency"),
	}
}
