package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/genehive/genehive-server/internal/domain"
)

// maxHistoryMessages bounds how much conversation history reaches the
// model context.
const maxHistoryMessages = 5

// CounselorService answers free-form questions about a family's genetic
// risks and produces personalized risk explanations. All text generation
// goes through the configured TextGenerator; risk numbers always come
// from the risk engine, never from the model.
type CounselorService struct {
	logger     *logrus.Logger
	calculator domain.RiskCalculator
	generator  domain.TextGenerator
}

// NewCounselorService creates a new counseling service
func NewCounselorService(logger *logrus.Logger, calculator domain.RiskCalculator, generator domain.TextGenerator) *CounselorService {
	return &CounselorService{
		logger:     logger,
		calculator: calculator,
		generator:  generator,
	}
}

// Chat answers a counseling question grounded in the family context and
// recent conversation history.
func (c *CounselorService) Chat(ctx context.Context, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	c.logger.WithFields(logrus.Fields{
		"member_count":  len(req.FamilyMembers),
		"history_count": len(req.ChatHistory),
	}).Debug("Processing chat request")

	contextText := BuildFamilyContext(req.FamilyMembers, req.SelectedMember)

	if len(req.ChatHistory) > 0 {
		history := req.ChatHistory
		if len(history) > maxHistoryMessages {
			history = history[len(history)-maxHistoryMessages:]
		}

		var b strings.Builder
		b.WriteString(contextText)
		b.WriteString("\n\nPrevious conversation:\n")
		for _, msg := range history {
			fmt.Fprintf(&b, "%s: %s\n", capitalize(msg.Role), msg.Content)
		}
		contextText = b.String()
	}

	response, err := c.generator.Generate(ctx, req.Message, contextText)
	if err != nil {
		return nil, fmt.Errorf("failed to generate chat response: %w", err)
	}

	return &domain.ChatResponse{
		Response:  response,
		Timestamp: time.Now().UTC(),
	}, nil
}

// Explain computes the risk for one member-disease pair and asks the model
// to explain it in plain language.
func (c *CounselorService) Explain(ctx context.Context, req *domain.ExplanationRequest) (*domain.ExplanationResponse, error) {
	risk := c.calculator.CalculateRisk(req.Member, req.Disease, req.FamilyMembers)

	c.logger.WithFields(logrus.Fields{
		"member_id":  req.Member.ID,
		"disease_id": req.Disease.ID,
		"risk_score": risk.RiskScore,
	}).Debug("Generating risk explanation")

	contextText := BuildFamilyContext(req.FamilyMembers, &req.Member)

	prompt := fmt.Sprintf(`Explain why %s has a %.1f%% risk of developing %s.

Consider:
        - The %s inheritance pattern
        - Family history and affected relatives
        - Age and other risk factors
        - Provide reassurance and practical advice

Keep the explanation clear, empathetic, and under 200 words.`,
		req.Member.Name, risk.RiskScore*100, req.Disease.Name, risk.InheritancePattern)

	explanation, err := c.generator.Generate(ctx, prompt, contextText)
	if err != nil {
		return nil, fmt.Errorf("failed to generate explanation: %w", err)
	}

	return &domain.ExplanationResponse{
		Explanation:        explanation,
		RiskScore:          risk.RiskScore,
		InheritancePattern: risk.InheritancePattern,
		Timestamp:          time.Now().UTC(),
	}, nil
}

// BuildFamilyContext renders the pedigree as a system context block for
// the model. Members are listed in family order with their conditions.
func BuildFamilyContext(familyMembers []domain.FamilyMember, selected *domain.FamilyMember) string {
	var b strings.Builder
	b.WriteString("Family Tree Context:\n")

	for _, member := range familyMembers {
		conditions := "None"
		if len(member.Diseases) > 0 {
			names := make([]string, 0, len(member.Diseases))
			for _, d := range member.Diseases {
				names = append(names, d.Name)
			}
			conditions = strings.Join(names, ", ")
		}
		fmt.Fprintf(&b, "- %s (%s, age %d): Conditions: %s\n", member.Name, member.Gender, member.Age, conditions)
	}

	if selected != nil {
		fmt.Fprintf(&b, "\nCurrently discussing: %s\n", selected.Name)
	}

	b.WriteString("\nYou are a genetic counselor AI assistant helping to explain hereditary disease risks in families. Provide clear, accurate, and empathetic explanations.")

	return b.String()
}

// capitalize uppercases the first letter and lowercases the rest, turning
// a stored role like "user" into a transcript label like "User".
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
