// Package mcp exposes the risk engine and AI counselor as Model Context
// Protocol tools over stdio for desktop AI assistants.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/genehive/genehive-server/internal/domain"
)

// Server wires the GENEHIVE services into an MCP server.
type Server struct {
	mcpServer  *mcp.Server
	catalog    domain.DiseaseCatalog
	calculator domain.RiskCalculator
	simulator  domain.Simulator
	counselor  domain.Counselor
	logger     *logrus.Logger
}

// NewServer creates a new MCP server instance with all tools registered.
func NewServer(
	logger *logrus.Logger,
	catalog domain.DiseaseCatalog,
	calculator domain.RiskCalculator,
	simulator domain.Simulator,
	counselor domain.Counselor,
) *Server {
	serverInfo := &mcp.Implementation{
		Name:    "genehive-risk-server",
		Version: "1.0.0",
	}

	server := &Server{
		mcpServer:  mcp.NewServer(serverInfo, nil),
		catalog:    catalog,
		calculator: calculator,
		simulator:  simulator,
		counselor:  counselor,
		logger:     logger,
	}

	server.registerTools()

	return server
}

// registerTools registers all GENEHIVE tools with the MCP SDK.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "simulate_family_risk",
		Description: "Run the genetic risk simulation over a family pedigree, returning one risk record per member and disease plus summary statistics. Omit diseases to use the built-in catalog.",
	}, s.handleSimulateFamilyRisk)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "calculate_member_risk",
		Description: "Calculate one family member's risk for a single catalog disease, with the inheritance pattern and contributing factors.",
	}, s.handleCalculateMemberRisk)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_diseases",
		Description: "List the built-in disease catalog with inheritance types, prevalence and penetrance.",
	}, s.handleListDiseases)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "explain_risk",
		Description: "Generate an AI explanation of one family member's risk for a catalog disease, grounded in the pedigree.",
	}, s.handleExplainRisk)

	s.logger.WithField("tool_count", 4).Info("Registered MCP tools")
}

// Start runs the MCP server over stdio until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting GENEHIVE MCP server on stdio")

	if err := s.mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}
