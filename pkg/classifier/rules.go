package classifier

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/budgetbr/extratu/pkg/normalize"
)

// KeywordRule maps substring keywords to a category or payment method.
type KeywordRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Rules holds the keyword tables the classifier infers categories and
// payment methods from. The defaults are fixed data; a YAML file can
// replace either table.
type Rules struct {
	Categories     []KeywordRule `yaml:"categories"`
	PaymentMethods []KeywordRule `yaml:"payment_methods"`
}

const (
	DefaultCategory      = "other"
	DefaultPaymentMethod = "pix"
)

var defaultCategories = []KeywordRule{
	{Name: "alimentacao", Keywords: []string{"supermercado", "mercado", "padaria", "acougue", "hortifruti", "restaurante", "lanchonete", "ifood", "delivery"}},
	{Name: "transporte", Keywords: []string{"uber", "99app", "99 ", "taxi", "combustivel", "posto", "estacionamento", "pedagio", "metro", "onibus"}},
	{Name: "moradia", Keywords: []string{"aluguel", "condominio", "energia", "luz", "agua", "gas", "internet", "telefone", "celular"}},
	{Name: "saude", Keywords: []string{"farmacia", "drogaria", "hospital", "clinica", "laboratorio", "plano de saude", "dentista"}},
	{Name: "lazer", Keywords: []string{"cinema", "netflix", "spotify", "teatro", "show", "viagem", "hotel", "bar "}},
	{Name: "educacao", Keywords: []string{"escola", "faculdade", "universidade", "curso", "livraria"}},
	{Name: "vestuario", Keywords: []string{"roupa", "calcado", "sapato", "shopping", "vestuario"}},
}

var defaultPaymentMethods = []KeywordRule{
	{Name: "credit_card", Keywords: []string{"cartao de credito", "credit card", "fatura"}},
	{Name: "debit_card", Keywords: []string{"cartao de debito", "debit card"}},
	{Name: "boleto", Keywords: []string{"boleto"}},
	{Name: "transfer", Keywords: []string{"ted ", "doc ", "transferencia"}},
	{Name: "cash", Keywords: []string{"saque", "dinheiro"}},
	{Name: "pix", Keywords: []string{"pix"}},
}

// DefaultRules returns the built-in keyword tables.
func DefaultRules() *Rules {
	return &Rules{Categories: defaultCategories, PaymentMethods: defaultPaymentMethods}
}

// LoadRules reads a YAML rules file. Tables absent from the file keep
// their defaults.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	rules := &Rules{}
	if err := yaml.Unmarshal(data, rules); err != nil {
		return nil, fmt.Errorf("parsing rules file %s: %w", path, err)
	}
	if len(rules.Categories) == 0 {
		rules.Categories = defaultCategories
	}
	if len(rules.PaymentMethods) == 0 {
		rules.PaymentMethods = defaultPaymentMethods
	}
	return rules, nil
}

// CategoryFor infers a category from the normalized description.
func (r *Rules) CategoryFor(description string) string {
	return match(r.Categories, description, DefaultCategory)
}

// PaymentMethodFor infers a payment method from the normalized
// description.
func (r *Rules) PaymentMethodFor(description string) string {
	return match(r.PaymentMethods, description, DefaultPaymentMethod)
}

func match(rules []KeywordRule, description, fallback string) string {
	folded := normalize.Fold(description)
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(folded, kw) {
				return rule.Name
			}
		}
	}
	return fallback
}

// boilerplatePatterns match statement chrome that must never be classified
// as a transaction: account headers, period banners, balance lines,
// client identification, totals.
var boilerplatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(agencia|conta)\b`),
	regexp.MustCompile(`extrato gerado`),
	regexp.MustCompile(`^periodo\b`),
	regexp.MustCompile(`saldo (anterior|inicial|final)`),
	regexp.MustCompile(`^cliente\b`),
	regexp.MustCompile(`\bcpf\b|\bcnpj\b`),
	regexp.MustCompile(`^total\b`),
	regexp.MustCompile(`^resumo\b`),
}

func isBoilerplate(foldedLine string) bool {
	for _, p := range boilerplatePatterns {
		if p.MatchString(foldedLine) {
			return true
		}
	}
	return false
}

// invoiceOrCard matches free text that signals a credit-card invoice
// payment rather than a purchase.
var invoiceOrCard = regexp.MustCompile(`fatura|cartao|credit card|invoice`)

func isInvoiceOrCard(description string) bool {
	return invoiceOrCard.MatchString(normalize.Fold(description))
}
