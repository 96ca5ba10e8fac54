package service

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/genehive/genehive-server/internal/domain"
)

const (
	// multifactorialCap bounds the combined risk for polygenic conditions.
	multifactorialCap = 0.95

	// Age thresholds for the multifactorial age factor.
	advancedAgeYears = 50
	youngAgeYears    = 30
)

// RiskEngine implements per-disease genetic risk scoring over a family
// pedigree using classical Mendelian inheritance models. The formulas are
// teaching approximations, not clinical-grade genetics.
type RiskEngine struct {
	logger *logrus.Logger
}

// NewRiskEngine creates a new genetic risk engine
func NewRiskEngine(logger *logrus.Logger) *RiskEngine {
	return &RiskEngine{
		logger: logger,
	}
}

// CalculateRisk scores one member against one disease. The inheritance
// model is selected by the disease type; an existing diagnosis overrides
// every model and scores 1.0.
func (e *RiskEngine) CalculateRisk(member domain.FamilyMember, disease domain.Disease, familyMembers []domain.FamilyMember) domain.GeneticRisk {
	score := e.riskScore(member, disease, familyMembers)
	pattern := disease.Type.Pattern()

	parents := parentsOf(member, familyMembers)
	affectedParents := countAffected(parents, disease.ID)

	risk := domain.GeneticRisk{
		MemberID:            member.ID,
		DiseaseID:           disease.ID,
		RiskScore:           score,
		Explanation:         e.explain(member, disease, affectedParents, pattern),
		InheritancePattern:  pattern,
		ContributingFactors: e.contributingFactors(member, disease, affectedParents),
	}

	e.logger.WithFields(logrus.Fields{
		"member_id":  member.ID,
		"disease_id": disease.ID,
		"pattern":    pattern,
		"risk_score": score,
	}).Debug("Calculated genetic risk")

	return risk
}

// riskScore dispatches to the inheritance model for the disease type.
func (e *RiskEngine) riskScore(member domain.FamilyMember, disease domain.Disease, familyMembers []domain.FamilyMember) float64 {
	if member.HasDisease(disease.ID) {
		return 1.0
	}

	switch disease.Type {
	case domain.Dominant:
		return e.dominantRisk(member, disease, familyMembers)
	case domain.Recessive:
		return e.recessiveRisk(member, disease, familyMembers)
	case domain.XLinked:
		return e.xLinkedRisk(member, disease, familyMembers)
	case domain.Multifactorial:
		return e.multifactorialRisk(member, disease, familyMembers)
	default:
		// Unknown disease types fall back to the population baseline.
		return disease.Prevalence
	}
}

// dominantRisk models autosomal dominant transmission. One affected parent
// carries a 50% transmission chance, scaled by penetrance.
func (e *RiskEngine) dominantRisk(member domain.FamilyMember, disease domain.Disease, familyMembers []domain.FamilyMember) float64 {
	parents := parentsOf(member, familyMembers)

	switch countAffected(parents, disease.ID) {
	case 0:
		return disease.Prevalence
	case 1:
		return 0.5 * disease.Penetrance
	default:
		return 0.75 * disease.Penetrance
	}
}

// recessiveRisk models autosomal recessive transmission.
func (e *RiskEngine) recessiveRisk(member domain.FamilyMember, disease domain.Disease, familyMembers []domain.FamilyMember) float64 {
	parents := parentsOf(member, familyMembers)

	switch countAffected(parents, disease.ID) {
	case 0:
		return disease.Prevalence
	case 1:
		// Carrier risk
		return 0.25 * disease.Penetrance
	default:
		return disease.Penetrance
	}
}

// xLinkedRisk models X-linked transmission. Males inherit their only X
// chromosome from the mother, so the father's status never changes a male
// member's score. Females need two copies for full expression.
func (e *RiskEngine) xLinkedRisk(member domain.FamilyMember, disease domain.Disease, familyMembers []domain.FamilyMember) float64 {
	parents := parentsOf(member, familyMembers)

	if member.Gender == domain.Male {
		mother, ok := parentByGender(parents, domain.Female)
		if ok && mother.HasDisease(disease.ID) {
			return 0.5 * disease.Penetrance
		}
		return disease.Prevalence
	}

	switch countAffected(parents, disease.ID) {
	case 0:
		return disease.Prevalence
	case 1:
		// Carrier with mild expression
		return 0.1 * disease.Penetrance
	default:
		return disease.Penetrance
	}
}

// multifactorialRisk models polygenic conditions by weighting affected
// first-degree relatives. Parents weigh twice as much as siblings. With no
// relatives on record the score is exactly the population prevalence.
func (e *RiskEngine) multifactorialRisk(member domain.FamilyMember, disease domain.Disease, familyMembers []domain.FamilyMember) float64 {
	parents := parentsOf(member, familyMembers)
	siblings := siblingsOf(member, familyMembers)

	affectedWeight := 0
	totalWeight := 0

	for _, parent := range parents {
		if parent.HasDisease(disease.ID) {
			affectedWeight += 2
		}
		totalWeight += 2
	}

	for _, sibling := range siblings {
		if sibling.HasDisease(disease.ID) {
			affectedWeight++
		}
		totalWeight++
	}

	if totalWeight == 0 {
		return disease.Prevalence
	}

	loading := float64(affectedWeight) / float64(totalWeight)
	risk := disease.Prevalence + loading*0.3*disease.Penetrance*ageFactor(member.Age)

	return min(risk, multifactorialCap)
}

// explain describes the dominant driver behind a score. An existing
// diagnosis wins over family history.
func (e *RiskEngine) explain(member domain.FamilyMember, disease domain.Disease, affectedParents int, pattern string) string {
	switch {
	case member.HasDisease(disease.ID):
		return fmt.Sprintf("%s currently has %s.", member.Name, disease.Name)
	case affectedParents == 0:
		return fmt.Sprintf("No family history of %s. Risk based on general population prevalence.", disease.Name)
	case affectedParents == 1:
		return fmt.Sprintf("One parent has %s. %s inheritance increases risk.", disease.Name, pattern)
	default:
		return fmt.Sprintf("Both parents have %s. Significantly elevated risk due to %s inheritance.", disease.Name, pattern)
	}
}

// contributingFactors lists the inputs that raised the score. The slice is
// never nil so it serializes as an empty JSON array.
func (e *RiskEngine) contributingFactors(member domain.FamilyMember, disease domain.Disease, affectedParents int) []string {
	factors := []string{}

	if affectedParents > 0 {
		factors = append(factors, fmt.Sprintf("%d affected parent(s)", affectedParents))
	}
	if member.Age > advancedAgeYears && disease.Type == domain.Multifactorial {
		factors = append(factors, "Advanced age")
	}

	return factors
}

// Summarize aggregates individual risks into headline statistics.
func (e *RiskEngine) Summarize(risks []domain.GeneticRisk) domain.RiskSummary {
	summary := domain.RiskSummary{
		TotalRisks: len(risks),
	}

	if len(risks) == 0 {
		return summary
	}

	var sum float64
	for _, risk := range risks {
		sum += risk.RiskScore

		switch risk.Level() {
		case domain.RiskHigh:
			summary.HighRiskCount++
		case domain.RiskModerate:
			summary.ModerateRiskCount++
		default:
			summary.LowRiskCount++
		}
	}
	summary.AverageRisk = sum / float64(len(risks))

	return summary
}

// ageFactor scales multifactorial loading by life stage.
func ageFactor(age int) float64 {
	switch {
	case age > advancedAgeYears:
		return 1.2
	case age < youngAgeYears:
		return 0.8
	default:
		return 1.0
	}
}

// parentsOf resolves a member's parent IDs against the family, preserving
// family order.
func parentsOf(member domain.FamilyMember, familyMembers []domain.FamilyMember) []domain.FamilyMember {
	parents := make([]domain.FamilyMember, 0, len(member.ParentIDs))
	for _, candidate := range familyMembers {
		for _, id := range member.ParentIDs {
			if candidate.ID == id {
				parents = append(parents, candidate)
				break
			}
		}
	}
	return parents
}

// parentByGender returns the first parent matching the gender.
func parentByGender(parents []domain.FamilyMember, gender domain.Gender) (domain.FamilyMember, bool) {
	for _, parent := range parents {
		if parent.Gender == gender {
			return parent, true
		}
	}
	return domain.FamilyMember{}, false
}

// siblingsOf finds members sharing the member's parent set, excluding the
// member itself. Order of parent IDs is irrelevant. Members with no
// recorded parents count as siblings of each other.
func siblingsOf(member domain.FamilyMember, familyMembers []domain.FamilyMember) []domain.FamilyMember {
	var siblings []domain.FamilyMember
	for _, candidate := range familyMembers {
		if candidate.ID == member.ID {
			continue
		}
		if sameParentSet(candidate.ParentIDs, member.ParentIDs) {
			siblings = append(siblings, candidate)
		}
	}
	return siblings
}

// sameParentSet compares two parent ID lists ignoring order.
func sameParentSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)

	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// countAffected counts members already diagnosed with the disease.
func countAffected(members []domain.FamilyMember, diseaseID string) int {
	count := 0
	for _, m := range members {
		if m.HasDisease(diseaseID) {
			count++
		}
	}
	return count
}
