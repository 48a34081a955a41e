package notify

import (
	"strings"

	"github.com/almasov/nudge/internal/model"
)

// A template is an ordered list of clauses. A clause referencing a fact that
// is absent from the payload is omitted entirely rather than rendered with a
// hole in it.
type template struct {
	clauses []clause
}

type clause struct {
	text string   // literal text with {placeholder} references
	keys []string // fact keys the clause requires
}

// Fact keys the templates may reference.
const (
	factName      = "name"
	factBenefit   = "benefit"
	factTaxiSpend = "taxi_spend"
	factRestSpend = "restaurant_spend"
	factTopCat1   = "cat1"
	factTopCat2   = "cat2"
	factTopCat3   = "cat3"
	factFXCount   = "fx_count"
)

var productTemplates = map[model.ProductID]template{
	model.ProductTravelCard: {clauses: []clause{
		{text: "{name}, в последние месяцы у вас много поездок и такси на {taxi_spend}.", keys: []string{factName, factTaxiSpend}},
		{text: " С картой для путешествий часть расходов вернулась бы кешбэком ≈{benefit}.", keys: []string{factBenefit}},
		{text: " Открыть карту в приложении."},
	}},
	model.ProductPremiumCard: {clauses: []clause{
		{text: "{name}, у вас стабильно крупный остаток и траты в ресторанах {restaurant_spend}.", keys: []string{factName, factRestSpend}},
		{text: " Премиальная карта даст повышенный кешбэк ≈{benefit} и бесплатные снятия.", keys: []string{factBenefit}},
		{text: " Подключите сейчас."},
	}},
	model.ProductCreditCard: {clauses: []clause{
		{text: "{name}, ваши топ-категории — {cat1}, {cat2}, {cat3}.", keys: []string{factName, factTopCat1, factTopCat2, factTopCat3}},
		{text: " Кредитная карта даёт до 10% в любимых категориях и на онлайн-сервисы.", keys: nil},
		{text: " Оформить карту."},
	}},
	model.ProductFXExchange: {clauses: []clause{
		{text: "{name}, вы часто меняете валюту ({fx_count} операций).", keys: []string{factName, factFXCount}},
		{text: " В приложении выгодный обмен без комиссии и авто-покупка по целевому курсу.", keys: nil},
		{text: " Настроить обмен."},
	}},
	model.ProductCashLoan: {clauses: []clause{
		{text: "{name}, если нужен запас на крупные траты — оформите кредит наличными с гибкими выплатами.", keys: []string{factName}},
		{text: " Узнать доступный лимит."},
	}},
	model.ProductMulticurrencyDeposit: {clauses: []clause{
		{text: "{name}, у вас остаются свободные средства.", keys: []string{factName}},
		{text: " Разместите их на мультивалютном вкладе — удобно хранить валюту и получать ≈{benefit} в месяц.", keys: []string{factBenefit}},
		{text: " Открыть вклад."},
	}},
	model.ProductSavingsDeposit: {clauses: []clause{
		{text: "{name}, у вас стабильный остаток на счёте.", keys: []string{factName}},
		{text: " Сберегательный вклад с повышенной ставкой принёс бы ≈{benefit} в месяц.", keys: []string{factBenefit}},
		{text: " Открыть вклад."},
	}},
	model.ProductAccumulativeDeposit: {clauses: []clause{
		{text: "{name}, хотите копить с удобными пополнениями?", keys: []string{factName}},
		{text: " Накопительный вклад добавил бы ≈{benefit} в месяц к вашим сбережениям.", keys: []string{factBenefit}},
		{text: " Открыть вклад."},
	}},
	model.ProductInvestments: {clauses: []clause{
		{text: "{name}, попробуйте инвестиции с низким порогом входа и без комиссий на старт.", keys: []string{factName}},
		{text: " Потенциальный доход ≈{benefit} в месяц.", keys: []string{factBenefit}},
		{text: " Открыть счёт."},
	}},
	model.ProductGoldBars: {clauses: []clause{
		{text: "{name}, защитите сбережения — золотые слитки помогут диверсифицировать накопления.", keys: []string{factName}},
		{text: " Посмотреть варианты."},
	}},
}

// renderTemplate fills the product template from the fact payload, skipping
// clauses whose facts are missing.
func renderTemplate(product model.ProductID, facts map[string]string) string {
	tmpl, ok := productTemplates[product]
	if !ok {
		return ""
	}

	var b strings.Builder
	for _, cl := range tmpl.clauses {
		if !hasAll(facts, cl.keys) {
			continue
		}
		b.WriteString(substitute(cl.text, facts))
	}
	return strings.TrimSpace(b.String())
}

func hasAll(facts map[string]string, keys []string) bool {
	for _, k := range keys {
		if facts[k] == "" {
			return false
		}
	}
	return true
}

func substitute(text string, facts map[string]string) string {
	for k, v := range facts {
		text = strings.ReplaceAll(text, "{"+k+"}", v)
	}
	return text
}
