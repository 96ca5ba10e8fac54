package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genehive/genehive-server/internal/domain"
)

type stubGenerator struct {
	response    string
	err         error
	lastPrompt  string
	lastContext string
}

func (s *stubGenerator) Generate(ctx context.Context, prompt, contextText string) (string, error) {
	s.lastPrompt = prompt
	s.lastContext = contextText
	return s.response, s.err
}

func (s *stubGenerator) Health(ctx context.Context) error { return nil }

func (s *stubGenerator) Name() string { return "stub" }

func newTestCounselor(gen *stubGenerator) *CounselorService {
	engine := newTestEngine()
	return NewCounselorService(engine.logger, engine, gen)
}

func TestBuildFamilyContext(t *testing.T) {
	family := []domain.FamilyMember{
		{
			ID: "john", Name: "John", Age: 60, Gender: domain.Male,
			Diseases: []domain.Disease{{ID: "huntington", Name: "Huntington's Disease"}},
		},
		{ID: "jane", Name: "Jane", Age: 58, Gender: domain.Female},
	}

	t.Run("with selected member", func(t *testing.T) {
		got := BuildFamilyContext(family, &family[0])

		want := "Family Tree Context:\n" +
			"- John (male, age 60): Conditions: Huntington's Disease\n" +
			"- Jane (female, age 58): Conditions: None\n" +
			"\nCurrently discussing: John\n" +
			"\nYou are a genetic counselor AI assistant helping to explain hereditary disease risks in families. Provide clear, accurate, and empathetic explanations."
		assert.Equal(t, want, got)
	})

	t.Run("without selected member", func(t *testing.T) {
		got := BuildFamilyContext(family, nil)
		assert.NotContains(t, got, "Currently discussing")
		assert.Contains(t, got, "- Jane (female, age 58): Conditions: None\n")
	})

	t.Run("multiple conditions are comma separated", func(t *testing.T) {
		sick := []domain.FamilyMember{{
			ID: "sam", Name: "Sam", Age: 70, Gender: domain.Male,
			Diseases: []domain.Disease{
				{ID: "diabetes-t2", Name: "Type 2 Diabetes"},
				{ID: "heart-disease", Name: "Coronary Heart Disease"},
			},
		}}

		got := BuildFamilyContext(sick, nil)
		assert.Contains(t, got, "Conditions: Type 2 Diabetes, Coronary Heart Disease\n")
	})
}

func TestCounselorService_Chat(t *testing.T) {
	t.Run("passes family context and returns model response", func(t *testing.T) {
		gen := &stubGenerator{response: "You should talk to a genetic counselor."}
		counselor := newTestCounselor(gen)

		resp, err := counselor.Chat(context.Background(), &domain.ChatRequest{
			Message: "What does dominant inheritance mean?",
			FamilyMembers: []domain.FamilyMember{
				{ID: "john", Name: "John", Age: 60, Gender: domain.Male},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "You should talk to a genetic counselor.", resp.Response)
		assert.False(t, resp.Timestamp.IsZero())

		assert.Equal(t, "What does dominant inheritance mean?", gen.lastPrompt)
		assert.Contains(t, gen.lastContext, "Family Tree Context:")
		assert.Contains(t, gen.lastContext, "- John (male, age 60)")
		assert.NotContains(t, gen.lastContext, "Previous conversation")
	})

	t.Run("includes only the last five history turns", func(t *testing.T) {
		gen := &stubGenerator{response: "ok"}
		counselor := newTestCounselor(gen)

		history := make([]domain.ChatMessage, 0, 7)
		for i := 1; i <= 7; i++ {
			role := "user"
			if i%2 == 0 {
				role = "assistant"
			}
			history = append(history, domain.ChatMessage{Role: role, Content: fmt.Sprintf("turn %d", i)})
		}

		_, err := counselor.Chat(context.Background(), &domain.ChatRequest{
			Message:     "and now?",
			ChatHistory: history,
		})
		require.NoError(t, err)

		assert.Contains(t, gen.lastContext, "Previous conversation:\n")
		assert.NotContains(t, gen.lastContext, "turn 1")
		assert.NotContains(t, gen.lastContext, "turn 2")
		for i := 3; i <= 7; i++ {
			assert.Contains(t, gen.lastContext, fmt.Sprintf("turn %d", i))
		}

		// Roles are rendered as transcript labels.
		assert.Contains(t, gen.lastContext, "User: turn 3\n")
		assert.Contains(t, gen.lastContext, "Assistant: turn 4\n")
	})

	t.Run("propagates generator errors", func(t *testing.T) {
		gen := &stubGenerator{err: errors.New("model offline")}
		counselor := newTestCounselor(gen)

		_, err := counselor.Chat(context.Background(), &domain.ChatRequest{Message: "hi"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "model offline")
	})
}

func TestCounselorService_Explain(t *testing.T) {
	gen := &stubGenerator{response: "Because one parent is affected."}
	counselor := newTestCounselor(gen)

	father := testMember("father", 60, domain.Male, nil, "huntington")
	child := testMember("child", 30, domain.Male, []string{"father"})

	resp, err := counselor.Explain(context.Background(), &domain.ExplanationRequest{
		Member: child,
		Disease: domain.Disease{
			ID: "huntington", Name: "Huntington's Disease",
			Type: domain.Dominant, Prevalence: 0.0001, Penetrance: 0.95,
		},
		FamilyMembers: []domain.FamilyMember{father, child},
	})

	require.NoError(t, err)
	assert.Equal(t, "Because one parent is affected.", resp.Explanation)
	assert.Equal(t, 0.475, resp.RiskScore)
	assert.Equal(t, "Autosomal Dominant", resp.InheritancePattern)
	assert.False(t, resp.Timestamp.IsZero())

	// The prompt carries the computed percentage, not a model guess.
	assert.True(t, strings.HasPrefix(gen.lastPrompt, "Explain why child has a 47.5% risk of developing Huntington's Disease."))
	assert.Contains(t, gen.lastPrompt, "- The Autosomal Dominant inheritance pattern")
	assert.Contains(t, gen.lastPrompt, "Keep the explanation clear, empathetic, and under 200 words.")

	// The member under discussion is flagged in the context block.
	assert.Contains(t, gen.lastContext, "Currently discussing: child")
}
