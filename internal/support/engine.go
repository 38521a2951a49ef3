// Package support implements the canned concierge chat. Replies are
// assembled from intent-keyed fragments; a frustrated customer raises the
// platform's dissatisfaction score, which later steers the repricer mood.
package support

import (
	"fmt"
	"strings"

	"github.com/suruagyvieira/dropmasters-alpha/pkg/randx"
)

// Sentiment classifies the customer's message.
type Sentiment string

const (
	SentimentFrustrated Sentiment = "FRUSTRATED"
	SentimentWantToBuy  Sentiment = "WANT_TO_BUY"
	SentimentCuriosity  Sentiment = "CURIOSITY"
	SentimentNeutral    Sentiment = "NEUTRAL"
)

type intent string

const (
	intentZeroCost  intent = "ZERO_COST"
	intentSourcing  intent = "SOURCING"
	intentLogistics intent = "LOGISTICS"
	intentSales     intent = "SALES"
	intentUnknown   intent = "UNKNOWN"
)

var sentimentKeywords = []struct {
	sentiment Sentiment
	words     []string
}{
	{SentimentFrustrated, []string{"atraso", "não recebi", "lento", "ruim", "erro", "problema", "demora"}},
	{SentimentWantToBuy, []string{"quero", "comprar", "desconto", "valor", "preço", "custa"}},
	{SentimentCuriosity, []string{"funciona", "como", "estoque", "zero", "dropshipping"}},
}

var intentKeywords = []struct {
	intent intent
	words  []string
}{
	{intentZeroCost, []string{"estoque", "zero", "dropshipping", "funciona", "modelo"}},
	{intentSourcing, []string{"tem", "acha", "busca", "encontrar", "procura"}},
	{intentLogistics, []string{"prazo", "entrega", "chega", "rastreio"}},
	{intentSales, []string{"compra", "preço", "valor", "desconto", "custa"}},
}

var openersBySentiment = map[Sentiment][]string{
	SentimentNeutral:    {"⚡ Quantum Core processando...", "Conectei aos nodos neurais.", "Analisando fluxo de dados..."},
	SentimentCuriosity:  {"🔍 Deixe-me verificar a base de conhecimento.", "Calculando variáveis...", "Acessando logs do sistema..."},
	SentimentFrustrated: {"🛡️ Entendo sua preocupação.", "Priorizando seu atendimento.", "Sincronizando com suporte humano..."},
	SentimentWantToBuy:  {"🔥 Oportunidade detectada!", "Sinal de alta demanda ativo.", "Reservando slot de processamento..."},
}

var coreByIntent = map[intent][]string{
	intentZeroCost: {
		"O protocolo DropMasters foi desenhado para eliminar seu risco financeiro. Nós conectamos o pedido diretamente ao estoque do fornecedor, e o lucro líquido é creditado na sua conta instantaneamente via split de pagamento.",
		"Imagine uma esteira infinita de produtos onde você não paga nada para colocar na vitrine. Você só paga (automaticamente) quando vende. Isso é o poder do Estoque Zero.",
		"Esqueça boletos e caixas paradas. Aqui, sua única função é escolher o que vender. A tecnologia cuida da logística e do fluxo financeiro.",
	},
	intentSourcing: {
		"Posso ativar os 'Ghost Crawlers' para encontrar '%s' em fornecedores ocultos da América Latina. Minha taxa de sucesso é de 94%%.",
		"Varredura iniciada! Se '%s' existe no mercado, eu encontro e calculo sua margem de lucro em milissegundos. Use a aba Sourcing.",
		"Meus algoritmos de prospecção estão prontos. Diga o nome do produto e eu trago a melhor oferta validada.",
	},
	intentLogistics: {
		"Nossa malha logística usa inteligência preditiva. Sabemos onde o produto está antes mesmo da compra, garantindo despacho em <24h.",
		"Monitorando Hubs: São Paulo (Online), Curitiba (Online). Sua entrega seguirá pelo caminho de menor resistência fiscal e física.",
		"Não dependemos de um único galpão. Usamos 'Dark Stores' parceiras espalhadas estrategicamente para cortar o frete pela metade.",
	},
	intentSales: {
		"O indicador de viralidade do %s subiu 15%% na última hora. É o momento matemático perfeito para fechar negócio.",
		"Detectei escassez real no fornecedor. %s pode sumir do catálogo em breve se não reservarmos a alocação.",
		"Seu ROI projetado para esta transação é excelente. Recomendo execução imediata para garantir a margem atual.",
	},
}

var fallbackCore = []string{
	"Estou re-calibrando meus sensores para entender melhor essa solicitação. Pode reformular?",
	"Meus processadores quânticos indicam uma nuance interessante na sua pergunta. Vamos explorar isso.",
	"Estou evoluindo a cada interação. Sua pergunta ajuda a treinar minha rede neural.",
}

var actionByIntent = map[intent]string{
	intentZeroCost:  "Quer ver uma simulação de lucro agora?",
	intentSourcing:  "Digite o nome do produto aqui no chat ou use a busca principal.",
	intentLogistics: "Posso rastrear um pedido específico para você?",
	intentSales:     "Vamos gerar o link de checkout agora?",
	intentUnknown:   "Tente perguntar sobre 'Estoque Zero' ou 'Buscar Produto'.",
}

var flavors = []string{"", " 🤖", " ✨", " 🚀", " [Calculando...]", " [Link Seguro]"}

const greeting = "Quantum Core online. 🧠 Detectando oportunidades de escala com Custo Zero. O que você precisa?"

// Interaction is a single chat exchange result.
type Interaction struct {
	Response       string    `json:"response"`
	Sentiment      Sentiment `json:"sentiment"`
	Confidence     float64   `json:"ai_confidence"`
	LogisticsAware bool      `json:"logistics_aware"`
}

type frustrationSink interface {
	RecordFrustration(amount float64)
}

// Engine assembles canned replies and reports frustration upstream.
type Engine struct {
	rng  randx.Rand
	sink frustrationSink
}

// NewEngine builds the chat engine. sink may be nil.
func NewEngine(rng randx.Rand, sink frustrationSink) *Engine {
	if rng == nil {
		rng = randx.New()
	}
	return &Engine{rng: rng, sink: sink}
}

// AnalyzeSentiment classifies a raw customer message.
func AnalyzeSentiment(text string) Sentiment {
	text = strings.ToLower(text)
	for _, group := range sentimentKeywords {
		for _, word := range group.words {
			if strings.Contains(text, word) {
				return group.sentiment
			}
		}
	}
	return SentimentNeutral
}

func detectIntent(text string) intent {
	text = strings.ToLower(text)
	for _, group := range intentKeywords {
		for _, word := range group.words {
			if strings.Contains(text, word) {
				return group.intent
			}
		}
	}
	return intentUnknown
}

// Chat produces the reply for a customer query. An empty query yields the
// session greeting. A frustrated message raises the dissatisfaction score.
func (e *Engine) Chat(query, productContext string) Interaction {
	if strings.TrimSpace(query) == "" {
		return Interaction{
			Response:       greeting,
			Sentiment:      SentimentNeutral,
			Confidence:     1.0,
			LogisticsAware: true,
		}
	}

	sentiment := AnalyzeSentiment(query)
	if sentiment == SentimentFrustrated && e.sink != nil {
		e.sink.RecordFrustration(1.0)
	}

	subject := productContext
	if subject == "" {
		subject = query
	}

	kind := detectIntent(query)
	core := fallbackCore
	if templates, ok := coreByIntent[kind]; ok {
		core = templates
	}
	body := randx.Pick(e.rng, core)
	if strings.Contains(body, "%s") {
		body = fmt.Sprintf(body, subject)
	}

	response := fmt.Sprintf("%s %s %s%s",
		randx.Pick(e.rng, openersBySentiment[sentiment]),
		body,
		actionByIntent[kind],
		randx.Pick(e.rng, flavors),
	)

	confidence := 0.95 + randx.Uniform(e.rng, 0, 0.04)
	return Interaction{
		Response:       response,
		Sentiment:      sentiment,
		Confidence:     float64(int(confidence*100)) / 100,
		LogisticsAware: true,
	}
}
