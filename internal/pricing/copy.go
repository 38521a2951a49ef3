package pricing

import (
	"fmt"
	"strings"

	"github.com/suruagyvieira/dropmasters-alpha/pkg/enums"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/randx"
)

var modelHooks = map[enums.BusinessModel]string{
	enums.BusinessModelAffiliate:    "🌐 ACESSO DIRETO: Conectamos você à maior rede de suprimentos global com preço de atacado.",
	enums.BusinessModelMarketplace:  "🤝 CURADORIA PARCEIRA: Item selecionado de nossos vendedores certificados com garantia Apex.",
	enums.BusinessModelWhiteLabel:   "💎 LINHA ELITE: Produto premium com especificações exclusivas da marca DropMasters.",
	enums.BusinessModelLocalHub:     "⚡ HUB LOCAL: Despacho no mesmo dia a partir do hub da sua região.",
	enums.BusinessModelDropshipping: "⚡ HUB PRIORITÁRIO: Logística Apex otimizada para entrega rápida via hub SP/SC.",
}

var generalSolutions = []string{
	"🛡️ INSPEÇÃO NEURAL: Cada unidade passa por triagem robótica em nosso Hub.",
	"💰 TAXA ZERO: Intermediação direta para garantir o melhor preço do Brasil.",
	"🔄 GARANTIA BLINDADA: Nós assumimos o risco. Satisfação ou retorno imediato.",
	"🛰️ ESTOQUE REAL-TIME: Sistema em simbiose com o fabricante. Se está aqui, está reservado.",
}

// GenerateCopy fabricates the marketing description for a product under the
// selected business model: the model hook plus two random general claims.
func GenerateCopy(r randx.Rand, productName string, selection Selection) string {
	hook, ok := modelHooks[selection.Model]
	if !ok {
		hook = modelHooks[enums.BusinessModelDropshipping]
	}

	first := r.IntN(len(generalSolutions))
	second := r.IntN(len(generalSolutions) - 1)
	if second >= first {
		second++
	}
	claims := []string{hook, generalSolutions[first], generalSolutions[second]}

	return fmt.Sprintf("🚀 %s [%s]. Agressividade comercial Apex ativada: %s",
		productName, selection.Tag, strings.Join(claims, " | "))
}

var comparativeHooks = []string{
	"Cansado de esperar 30 dias por um %s que quebra? A DropMasters entrega via Hub Regional.",
	"Enquanto outros vendem réplicas, nós entregamos o %s Original com Curadoria Apex.",
	"O menor preço das Américas para o %s. Intermediação direta ativa.",
	"Garantia Blindada: o %s da concorrência falha onde nós brilhamos.",
}

// ComparativeHook returns a marketing one-liner pitching the product against
// unnamed competitors.
func ComparativeHook(r randx.Rand, productName string) string {
	return fmt.Sprintf(randx.Pick(r, comparativeHooks), productName)
}
