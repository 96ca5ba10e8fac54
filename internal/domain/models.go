package domain

import (
	"fmt"
	"time"
)

// Core Data Models
//
// All entities are request-scoped value objects: constructed from the API
// payload, consumed by the risk engine, discarded after the response is
// serialized. JSON field names are camelCase to match the public API.

// Disease represents a heritable condition with its inheritance model and
// the population parameters the risk formulas operate on. Immutable once
// constructed.
type Disease struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Type        DiseaseType `json:"type"`
	Prevalence  float64     `json:"prevalence"` // population base rate, [0, 1]
	Penetrance  float64     `json:"penetrance"` // carrier expression probability, [0, 1]
	Description string      `json:"description"`
	Color       string      `json:"color"`
}

// Validate ensures the disease parameters are usable by the risk engine.
func (d *Disease) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("disease validation: ID is required")
	}
	if d.Name == "" {
		return fmt.Errorf("disease validation: name is required")
	}
	if d.Prevalence < 0 || d.Prevalence > 1 {
		return fmt.Errorf("disease validation: %w", ErrInvalidPrevalence)
	}
	if d.Penetrance < 0 || d.Penetrance > 1 {
		return fmt.Errorf("disease validation: %w", ErrInvalidPenetrance)
	}
	return nil
}

// FamilyMember represents one individual in the pedigree. ParentIDs is a
// lookup relation against the member collection supplied per request, not
// containment; a dangling reference simply resolves to no parent.
type FamilyMember struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Age       int                `json:"age"`
	Gender    Gender             `json:"gender"`
	ParentIDs []string           `json:"parentIds"`
	Diseases  []Disease          `json:"diseases"`
	Position  map[string]float64 `json:"position,omitempty"` // display only
}

// Validate ensures the member data meets the engine's input contract.
func (m *FamilyMember) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("family member validation: ID is required")
	}
	if m.Age < 0 {
		return fmt.Errorf("family member validation: age must be non-negative")
	}
	if !m.Gender.IsValid() {
		return fmt.Errorf("family member validation: %w", ErrInvalidGender)
	}
	return nil
}

// HasDisease reports whether the member currently carries the disease,
// meaning "has the condition", not "at risk of".
func (m *FamilyMember) HasDisease(diseaseID string) bool {
	for _, d := range m.Diseases {
		if d.ID == diseaseID {
			return true
		}
	}
	return false
}

// GeneticRisk is the engine's output for one (member, disease) pair.
// Produced fresh per pair, never persisted or mutated.
type GeneticRisk struct {
	MemberID            string   `json:"memberId"`
	DiseaseID           string   `json:"diseaseId"`
	RiskScore           float64  `json:"riskScore"`
	Explanation         string   `json:"explanation"`
	InheritancePattern  string   `json:"inheritancePattern"`
	ContributingFactors []string `json:"contributingFactors"`
}

// Level buckets the record's risk score.
func (r *GeneticRisk) Level() RiskLevel {
	return LevelOf(r.RiskScore)
}

// RiskSummary aggregates a batch of risk records.
type RiskSummary struct {
	TotalRisks        int     `json:"totalRisks"`
	HighRiskCount     int     `json:"highRiskCount"`
	ModerateRiskCount int     `json:"moderateRiskCount"`
	LowRiskCount      int     `json:"lowRiskCount"`
	AverageRisk       float64 `json:"averageRisk"`
}

// Request/Response Models

// SimulationRequest carries the full pedigree and disease set for one
// simulation run. SimulationParams is accepted for forward compatibility
// and currently unused.
type SimulationRequest struct {
	FamilyMembers    []FamilyMember `json:"familyMembers"`
	Diseases         []Disease      `json:"diseases"`
	SimulationParams map[string]any `json:"simulationParams,omitempty"`
}

// SimulationResult is the response of a simulation run: one risk record
// per (member, disease) pair plus summary statistics.
type SimulationResult struct {
	Risks     []GeneticRisk `json:"risks"`
	Summary   RiskSummary   `json:"summary"`
	Timestamp time.Time     `json:"timestamp"`
}

// ChatMessage is one turn of counseling conversation history. The
// timestamp is client-supplied and treated as opaque.
type ChatMessage struct {
	Role      string `json:"role"` // user, assistant
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// ChatRequest carries a counseling question plus the pedigree context the
// answer should be grounded in.
type ChatRequest struct {
	Message        string         `json:"message"`
	FamilyMembers  []FamilyMember `json:"familyMembers"`
	SelectedMember *FamilyMember  `json:"selectedMember,omitempty"`
	ChatHistory    []ChatMessage  `json:"chatHistory,omitempty"`
}

// ChatResponse is the counselor's reply.
type ChatResponse struct {
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// ExplanationRequest asks for a personalized AI explanation of one
// (member, disease) risk.
type ExplanationRequest struct {
	Member        FamilyMember   `json:"member"`
	Disease       Disease        `json:"disease"`
	FamilyMembers []FamilyMember `json:"familyMembers"`
}

// ExplanationResponse pairs the generated explanation with the computed
// risk it explains.
type ExplanationResponse struct {
	Explanation        string    `json:"explanation"`
	RiskScore          float64   `json:"riskScore"`
	InheritancePattern string    `json:"inheritancePattern"`
	Timestamp          time.Time `json:"timestamp"`
}

// HealthResponse reports API liveness and downstream service status.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// Configuration Models

// Config represents the main application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Ollama  OllamaConfig  `mapstructure:"ollama"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Cache   CacheConfig   `mapstructure:"cache"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Environment     string        `mapstructure:"environment"`
}

// OllamaConfig represents the Ollama endpoint and generation defaults.
type OllamaConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Model         string        `mapstructure:"model"`
	Timeout       time.Duration `mapstructure:"timeout"`
	HealthTimeout time.Duration `mapstructure:"health_timeout"`
	Temperature   float64       `mapstructure:"temperature"`
	TopP          float64       `mapstructure:"top_p"`
	MaxTokens     int           `mapstructure:"max_tokens"`
	RateLimit     float64       `mapstructure:"rate_limit"` // requests per second
	RateBurst     int           `mapstructure:"rate_burst"`
}

// LLMConfig selects the text-generation provider.
type LLMConfig struct {
	Provider string       `mapstructure:"provider"` // ollama, openai
	OpenAI   OpenAIConfig `mapstructure:"openai"`
}

// OpenAIConfig represents an OpenAI-compatible chat-completion endpoint.
// An Ollama server in OpenAI mode uses BaseURL "<ollama>/v1" and any
// non-empty API key.
type OpenAIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

// CacheConfig represents the LLM response cache configuration.
type CacheConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	RedisURL   string        `mapstructure:"redis_url"`
	TTL        time.Duration `mapstructure:"ttl"`
	MemorySize int           `mapstructure:"memory_size"`
}

// CORSConfig represents cross-origin settings for the browser frontend.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig represents Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}
