package pricing

import (
	"github.com/nikolayk812/cartsim/internal/domain"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders money for display in a single locale.
type Formatter struct {
	printer *message.Printer
}

func NewFormatter(tag language.Tag) *Formatter {
	return &Formatter{printer: message.NewPrinter(tag)}
}

func (f *Formatter) Format(m domain.Money) string {
	return f.printer.Sprint(currency.Symbol(m.Currency.Amount(m.Amount.InexactFloat64())))
}
