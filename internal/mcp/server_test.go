package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genehive/genehive-server/internal/catalog"
	"github.com/genehive/genehive-server/internal/domain"
	"github.com/genehive/genehive-server/internal/service"
)

type stubGenerator struct {
	response string
	err      error
}

func (s *stubGenerator) Generate(ctx context.Context, prompt, contextText string) (string, error) {
	return s.response, s.err
}

func (s *stubGenerator) Health(ctx context.Context) error { return nil }

func (s *stubGenerator) Name() string { return "stub" }

func newTestMCPServer(gen domain.TextGenerator) *Server {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	cat := catalog.NewCatalog(logger)
	engine := service.NewRiskEngine(logger)
	simulator := service.NewSimulatorService(logger, engine)
	counselor := service.NewCounselorService(logger, engine, gen)

	return NewServer(logger, cat, engine, simulator, counselor)
}

func testPedigree() []domain.FamilyMember {
	return []domain.FamilyMember{
		{
			ID:     "father",
			Name:   "John",
			Age:    55,
			Gender: domain.Male,
			Diseases: []domain.Disease{
				{ID: "huntington", Name: "Huntington's Disease", Type: domain.Dominant, Prevalence: 0.0001, Penetrance: 0.95},
			},
		},
		{
			ID:        "child",
			Name:      "Alice",
			Age:       25,
			Gender:    domain.Female,
			ParentIDs: []string{"father", "mother"},
		},
	}
}

func TestNewServer(t *testing.T) {
	server := newTestMCPServer(&stubGenerator{response: "ok"})

	require.NotNil(t, server)
	assert.NotNil(t, server.mcpServer)
	assert.NotNil(t, server.catalog)
	assert.NotNil(t, server.logger)
}

func TestHandleSimulateFamilyRisk(t *testing.T) {
	server := newTestMCPServer(&stubGenerator{response: "ok"})

	t.Run("simulates against the catalog by default", func(t *testing.T) {
		result, structured, err := server.handleSimulateFamilyRisk(context.Background(), nil, SimulateFamilyRiskParams{
			FamilyMembers: testPedigree(),
		})
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.False(t, result.IsError)

		simResult, ok := structured.(*domain.SimulationResult)
		require.True(t, ok)
		// 2 members x 5 catalog diseases
		assert.Len(t, simResult.Risks, 10)
		assert.Equal(t, 10, simResult.Summary.TotalRisks)
	})

	t.Run("honors a custom disease set", func(t *testing.T) {
		result, structured, err := server.handleSimulateFamilyRisk(context.Background(), nil, SimulateFamilyRiskParams{
			FamilyMembers: testPedigree(),
			Diseases: []domain.Disease{
				{ID: "huntington", Name: "Huntington's Disease", Type: domain.Dominant, Prevalence: 0.0001, Penetrance: 0.95},
			},
		})
		require.NoError(t, err)
		assert.False(t, result.IsError)

		simResult := structured.(*domain.SimulationResult)
		require.Len(t, simResult.Risks, 2)
		assert.Equal(t, 1.0, simResult.Risks[0].RiskScore)
		assert.Equal(t, 0.475, simResult.Risks[1].RiskScore)
	})

	t.Run("rejects an empty pedigree", func(t *testing.T) {
		result, structured, err := server.handleSimulateFamilyRisk(context.Background(), nil, SimulateFamilyRiskParams{})
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Nil(t, structured)
	})

	t.Run("rejects invalid member data", func(t *testing.T) {
		result, _, err := server.handleSimulateFamilyRisk(context.Background(), nil, SimulateFamilyRiskParams{
			FamilyMembers: []domain.FamilyMember{{ID: "m1", Age: -1, Gender: domain.Male}},
		})
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})
}

func TestHandleCalculateMemberRisk(t *testing.T) {
	server := newTestMCPServer(&stubGenerator{response: "ok"})

	t.Run("calculates a catalog disease risk", func(t *testing.T) {
		result, structured, err := server.handleCalculateMemberRisk(context.Background(), nil, CalculateMemberRiskParams{
			MemberID:      "child",
			DiseaseID:     "huntington",
			FamilyMembers: testPedigree(),
		})
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.False(t, result.IsError)

		risk, ok := structured.(domain.GeneticRisk)
		require.True(t, ok)
		assert.Equal(t, "child", risk.MemberID)
		assert.Equal(t, 0.475, risk.RiskScore)
		assert.Equal(t, "Autosomal Dominant", risk.InheritancePattern)
	})

	t.Run("rejects an unknown member", func(t *testing.T) {
		result, _, err := server.handleCalculateMemberRisk(context.Background(), nil, CalculateMemberRiskParams{
			MemberID:      "stranger",
			DiseaseID:     "huntington",
			FamilyMembers: testPedigree(),
		})
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("rejects an unknown disease", func(t *testing.T) {
		result, _, err := server.handleCalculateMemberRisk(context.Background(), nil, CalculateMemberRiskParams{
			MemberID:      "child",
			DiseaseID:     "porphyria",
			FamilyMembers: testPedigree(),
		})
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("rejects missing parameters", func(t *testing.T) {
		result, _, err := server.handleCalculateMemberRisk(context.Background(), nil, CalculateMemberRiskParams{})
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})
}

func TestHandleListDiseases(t *testing.T) {
	server := newTestMCPServer(&stubGenerator{response: "ok"})

	result, structured, err := server.handleListDiseases(context.Background(), nil, ListDiseasesParams{})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)

	payload, ok := structured.(map[string]any)
	require.True(t, ok)
	diseases, ok := payload["diseases"].([]domain.Disease)
	require.True(t, ok)
	assert.Len(t, diseases, 5)
}

func TestHandleExplainRisk(t *testing.T) {
	t.Run("returns the generated explanation", func(t *testing.T) {
		server := newTestMCPServer(&stubGenerator{response: "One affected parent raises the risk to about half the penetrance."})

		result, structured, err := server.handleExplainRisk(context.Background(), nil, ExplainRiskParams{
			MemberID:      "child",
			DiseaseID:     "huntington",
			FamilyMembers: testPedigree(),
		})
		require.NoError(t, err)
		assert.False(t, result.IsError)

		resp, ok := structured.(*domain.ExplanationResponse)
		require.True(t, ok)
		assert.Equal(t, "One affected parent raises the risk to about half the penetrance.", resp.Explanation)
		assert.Equal(t, 0.475, resp.RiskScore)
	})

	t.Run("maps generator errors to tool errors", func(t *testing.T) {
		server := newTestMCPServer(&stubGenerator{err: errors.New("model offline")})

		result, structured, err := server.handleExplainRisk(context.Background(), nil, ExplainRiskParams{
			MemberID:      "child",
			DiseaseID:     "huntington",
			FamilyMembers: testPedigree(),
		})
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Nil(t, structured)
	})
}
