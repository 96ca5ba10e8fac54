package domain

import (
	"context"
)

// RiskCalculator computes one risk record per (member, disease) pair and
// reduces record batches into summary statistics.
type RiskCalculator interface {
	CalculateRisk(member FamilyMember, disease Disease, familyMembers []FamilyMember) GeneticRisk
	Summarize(risks []GeneticRisk) RiskSummary
}

// Simulator runs the full members x diseases cross product over a pedigree.
type Simulator interface {
	Simulate(req *SimulationRequest) *SimulationResult
}

// Counselor produces free-text guidance grounded in the family pedigree.
type Counselor interface {
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
	Explain(ctx context.Context, req *ExplanationRequest) (*ExplanationResponse, error)
}

// DiseaseCatalog exposes the built-in disease registry.
type DiseaseCatalog interface {
	List() []Disease
	Get(id string) (Disease, error)
}

// TextGenerator is the text-generation collaborator: a prompt rendered
// against a context string in, the model's reply out. Implementations
// degrade to fixed fallback text instead of surfacing transport errors;
// Health reports provider reachability.
type TextGenerator interface {
	Generate(ctx context.Context, prompt, contextText string) (string, error)
	Health(ctx context.Context) error
	Name() string
}

// ConfigManager defines the interface for configuration management.
type ConfigManager interface {
	GetConfig() *Config
	GetServerConfig() *ServerConfig
	Reload() error
	Validate() error
	IsProduction() bool
	IsDevelopment() bool
}
