package service

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/genehive/genehive-server/internal/domain"
)

// SimulatorService runs the full risk simulation across a family. Every
// member is scored against every disease in the request.
type SimulatorService struct {
	logger     *logrus.Logger
	calculator domain.RiskCalculator
}

// NewSimulatorService creates a new simulation service
func NewSimulatorService(logger *logrus.Logger, calculator domain.RiskCalculator) *SimulatorService {
	return &SimulatorService{
		logger:     logger,
		calculator: calculator,
	}
}

// Simulate scores the cross product of members and diseases. Results are
// ordered member-major, matching the request order of both lists.
func (s *SimulatorService) Simulate(req *domain.SimulationRequest) *domain.SimulationResult {
	startTime := time.Now()

	s.logger.WithFields(logrus.Fields{
		"member_count":  len(req.FamilyMembers),
		"disease_count": len(req.Diseases),
	}).Info("Starting risk simulation")

	risks := make([]domain.GeneticRisk, 0, len(req.FamilyMembers)*len(req.Diseases))
	for _, member := range req.FamilyMembers {
		for _, disease := range req.Diseases {
			risks = append(risks, s.calculator.CalculateRisk(member, disease, req.FamilyMembers))
		}
	}

	summary := s.calculator.Summarize(risks)

	result := &domain.SimulationResult{
		Risks:     risks,
		Summary:   summary,
		Timestamp: time.Now().UTC(),
	}

	s.logger.WithFields(logrus.Fields{
		"total_risks":     summary.TotalRisks,
		"high_risk":       summary.HighRiskCount,
		"average_risk":    summary.AverageRisk,
		"processing_time": time.Since(startTime),
	}).Info("Risk simulation completed")

	return result
}
