package support

import (
	"strings"
	"testing"

	"github.com/suruagyvieira/dropmasters-alpha/pkg/randx"
)

type recordingSink struct {
	total float64
}

func (r *recordingSink) RecordFrustration(amount float64) { r.total += amount }

func TestAnalyzeSentiment(t *testing.T) {
	cases := []struct {
		query string
		want  Sentiment
	}{
		{"meu pedido está com atraso", SentimentFrustrated},
		{"não recebi nada ainda", SentimentFrustrated},
		{"quero comprar agora", SentimentWantToBuy},
		{"como funciona o estoque zero?", SentimentCuriosity},
		{"olá", SentimentNeutral},
	}
	for _, tc := range cases {
		if got := AnalyzeSentiment(tc.query); got != tc.want {
			t.Errorf("AnalyzeSentiment(%q) = %q, want %q", tc.query, got, tc.want)
		}
	}
}

func TestChat_greetingOnEmptyQuery(t *testing.T) {
	engine := NewEngine(randx.NewSeeded(1), nil)
	got := engine.Chat("", "")
	if got.Confidence != 1.0 || got.Sentiment != SentimentNeutral {
		t.Fatalf("greeting interaction: %+v", got)
	}
	if !strings.Contains(got.Response, "Quantum Core online") {
		t.Fatalf("greeting text: %q", got.Response)
	}
}

func TestChat_frustrationRaisesDissatisfaction(t *testing.T) {
	sink := &recordingSink{}
	engine := NewEngine(randx.NewSeeded(1), sink)

	engine.Chat("isso é um problema, não recebi o pedido", "")
	engine.Chat("continua com erro", "")
	if sink.total != 2.0 {
		t.Fatalf("dissatisfaction %v, want 2.0", sink.total)
	}

	engine.Chat("quero comprar outro", "")
	if sink.total != 2.0 {
		t.Fatalf("non-frustrated chat must not raise dissatisfaction: %v", sink.total)
	}
}

type firstPick struct{}

func (firstPick) Float64() float64 { return 0 }
func (firstPick) IntN(n int) int   { return 0 }

func TestChat_sourcingIntentInterpolatesSubject(t *testing.T) {
	engine := NewEngine(firstPick{}, nil)

	got := engine.Chat("tem como encontrar esse produto?", "Fone Gamer X")
	if !strings.Contains(got.Response, "'Fone Gamer X'") {
		t.Fatalf("product context not interpolated: %q", got.Response)
	}
	if !strings.Contains(got.Response, "Digite o nome do produto") {
		t.Fatalf("sourcing action missing: %q", got.Response)
	}
	if strings.Contains(got.Response, "%s") || strings.Contains(got.Response, "%!") {
		t.Fatalf("format verbs leaked: %q", got.Response)
	}
}

func TestChat_confidenceBand(t *testing.T) {
	engine := NewEngine(randx.NewSeeded(7), nil)
	for i := 0; i < 50; i++ {
		got := engine.Chat("qual o prazo de entrega?", "")
		if got.Confidence < 0.95 || got.Confidence > 0.99 {
			t.Fatalf("confidence %v outside [0.95, 0.99]", got.Confidence)
		}
		if !got.LogisticsAware {
			t.Fatal("logistics awareness flag must be set")
		}
	}
}
