package safety

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"ei-coach-be/pkg/llm"
	"ei-coach-be/pkg/rag"
)

type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.response, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.response, f.err
}

func gate(response string, err error) *Gate {
	return NewGate(&fakeLLM{response: response, err: err}, log.New(io.Discard, "", 0))
}

func TestClassifyRiskSafe(t *testing.T) {
	g := gate(`{"label":"SAFE","confidence":0.94}`, nil)
	res := g.ClassifyRisk(context.Background(), "Had a rough meeting but going for a walk helped.")
	if res.Label != rag.RiskSafe {
		t.Fatalf("label = %s, want SAFE", res.Label)
	}
	if res.Confidence == nil || *res.Confidence != 0.94 {
		t.Errorf("confidence not carried through: %v", res.Confidence)
	}
}

func TestClassifyRiskEscalate(t *testing.T) {
	g := gate(`{"label":"ESCALATE"}`, nil)
	res := g.ClassifyRisk(context.Background(), "some text")
	if res.Label != rag.RiskEscalate {
		t.Fatalf("label = %s, want ESCALATE", res.Label)
	}
}

func TestClassifierFailureEscalates(t *testing.T) {
	g := gate("", errors.New("connection refused"))
	res := g.ClassifyRisk(context.Background(), "ordinary text")
	if res.Label != rag.RiskEscalate {
		t.Fatalf("classifier failure must escalate, got %s", res.Label)
	}
}

func TestClassifierGarbageEscalates(t *testing.T) {
	tests := []string{
		"not json at all",
		`{"label":"MAYBE"}`,
		`{"verdict":"SAFE"}`,
	}
	for _, response := range tests {
		g := gate(response, nil)
		if res := g.ClassifyRisk(context.Background(), "text"); res.Label != rag.RiskEscalate {
			t.Errorf("response %q: label = %s, want ESCALATE", response, res.Label)
		}
	}
}

func TestClassifierLowercaseLabelAccepted(t *testing.T) {
	g := gate(`{"label":"safe"}`, nil)
	if res := g.ClassifyRisk(context.Background(), "text"); res.Label != rag.RiskSafe {
		t.Fatalf("lowercase label should normalize, got %s", res.Label)
	}
}

func TestKeywordOverridesSafeClassification(t *testing.T) {
	g := gate(`{"label":"SAFE"}`, nil)
	res := g.ClassifyRisk(context.Background(), "I want to end my life tonight.")
	if res.Label != rag.RiskEscalate {
		t.Fatalf("keyword hit must override SAFE, got %s", res.Label)
	}
}

func TestKeywordRisk(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"strong intent phrase", "i want to kill myself", true},
		{"cannot go on", "I can't go on anymore", true},
		{"suicide mention", "thinking about suicide a lot", true},
		{"self harm", "I've started self-harm again", true},
		{"method plus desire", "i want to take pills and disappear forever", true},
		{"despair plus imminence", "everything feels hopeless right now", true},
		{"despair alone not flagged", "I feel hopeless about this project", false},
		{"ordinary frustration", "My boss dismissed my idea and I am furious", false},
		{"empty", "   ", false},
		{"benign method word without intent", "the bridge traffic was terrible", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keywordRisk(tt.text); got != tt.want {
				t.Errorf("keywordRisk(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
