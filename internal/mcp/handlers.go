package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/genehive/genehive-server/internal/domain"
)

// SimulateFamilyRiskParams defines parameters for the simulate_family_risk tool.
type SimulateFamilyRiskParams struct {
	FamilyMembers []domain.FamilyMember `json:"familyMembers"`
	Diseases      []domain.Disease      `json:"diseases,omitempty"`
}

// CalculateMemberRiskParams defines parameters for the calculate_member_risk tool.
type CalculateMemberRiskParams struct {
	MemberID      string                `json:"memberId"`
	DiseaseID     string                `json:"diseaseId"`
	FamilyMembers []domain.FamilyMember `json:"familyMembers"`
}

// ListDiseasesParams defines parameters for the list_diseases tool.
type ListDiseasesParams struct{}

// ExplainRiskParams defines parameters for the explain_risk tool.
type ExplainRiskParams struct {
	MemberID      string                `json:"memberId"`
	DiseaseID     string                `json:"diseaseId"`
	FamilyMembers []domain.FamilyMember `json:"familyMembers"`
}

// handleSimulateFamilyRisk handles the simulate_family_risk tool invocation.
func (s *Server) handleSimulateFamilyRisk(ctx context.Context, req *mcp.CallToolRequest, params SimulateFamilyRiskParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "simulate_family_risk").Info("Tool invoked")

	if len(params.FamilyMembers) == 0 {
		return s.createErrorResult("Missing required parameter", fmt.Errorf("familyMembers is required")), nil, nil
	}
	for i := range params.FamilyMembers {
		if err := params.FamilyMembers[i].Validate(); err != nil {
			return s.createErrorResult("Invalid family member", err), nil, nil
		}
	}

	diseases := params.Diseases
	if len(diseases) == 0 {
		diseases = s.catalog.List()
	}

	result := s.simulator.Simulate(&domain.SimulationRequest{
		FamilyMembers: params.FamilyMembers,
		Diseases:      diseases,
	})

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: fmt.Sprintf("Simulation completed: %d risks across %d family members and %d diseases (%d high, %d moderate, average %.3f)",
					result.Summary.TotalRisks, len(params.FamilyMembers), len(diseases),
					result.Summary.HighRiskCount, result.Summary.ModerateRiskCount, result.Summary.AverageRisk),
			},
		},
	}, result, nil
}

// handleCalculateMemberRisk handles the calculate_member_risk tool invocation.
func (s *Server) handleCalculateMemberRisk(ctx context.Context, req *mcp.CallToolRequest, params CalculateMemberRiskParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "calculate_member_risk").Info("Tool invoked")

	member, disease, errResult := s.resolvePair(params.MemberID, params.DiseaseID, params.FamilyMembers)
	if errResult != nil {
		return errResult, nil, nil
	}

	risk := s.calculator.CalculateRisk(*member, disease, params.FamilyMembers)

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: fmt.Sprintf("%s has a %.1f%% risk of %s (%s inheritance): %s",
					member.Name, risk.RiskScore*100, disease.Name, risk.InheritancePattern, risk.Explanation),
			},
		},
	}, risk, nil
}

// handleListDiseases handles the list_diseases tool invocation.
func (s *Server) handleListDiseases(ctx context.Context, req *mcp.CallToolRequest, params ListDiseasesParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "list_diseases").Info("Tool invoked")

	diseases := s.catalog.List()

	text := fmt.Sprintf("%d diseases available:\n", len(diseases))
	for _, d := range diseases {
		text += fmt.Sprintf("- %s (%s): %s inheritance, prevalence %.4f, penetrance %.2f\n",
			d.Name, d.ID, d.Type, d.Prevalence, d.Penetrance)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, map[string]any{"diseases": diseases}, nil
}

// handleExplainRisk handles the explain_risk tool invocation.
func (s *Server) handleExplainRisk(ctx context.Context, req *mcp.CallToolRequest, params ExplainRiskParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "explain_risk").Info("Tool invoked")

	member, disease, errResult := s.resolvePair(params.MemberID, params.DiseaseID, params.FamilyMembers)
	if errResult != nil {
		return errResult, nil, nil
	}

	resp, err := s.counselor.Explain(ctx, &domain.ExplanationRequest{
		Member:        *member,
		Disease:       disease,
		FamilyMembers: params.FamilyMembers,
	})
	if err != nil {
		return s.createErrorResult("Explanation generation failed", err), nil, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: resp.Explanation},
		},
	}, resp, nil
}

// resolvePair finds the member in the submitted pedigree and the disease
// in the catalog, returning an IsError result when either is missing.
func (s *Server) resolvePair(memberID, diseaseID string, familyMembers []domain.FamilyMember) (*domain.FamilyMember, domain.Disease, *mcp.CallToolResult) {
	if memberID == "" {
		return nil, domain.Disease{}, s.createErrorResult("Missing required parameter", fmt.Errorf("memberId is required"))
	}
	if diseaseID == "" {
		return nil, domain.Disease{}, s.createErrorResult("Missing required parameter", fmt.Errorf("diseaseId is required"))
	}

	var member *domain.FamilyMember
	for i := range familyMembers {
		if familyMembers[i].ID == memberID {
			member = &familyMembers[i]
			break
		}
	}
	if member == nil {
		return nil, domain.Disease{}, s.createErrorResult("Unknown family member", fmt.Errorf("no member with id %q in familyMembers", memberID))
	}

	disease, err := s.catalog.Get(diseaseID)
	if err != nil {
		return nil, domain.Disease{}, s.createErrorResult("Unknown disease", err)
	}

	return member, disease, nil
}

// createErrorResult creates a standardized error result for tool calls.
func (s *Server) createErrorResult(message string, err error) *mcp.CallToolResult {
	errorText := fmt.Sprintf("Error: %s", message)
	if err != nil {
		errorText += fmt.Sprintf(" - %v", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: errorText},
		},
		IsError: true,
	}
}
