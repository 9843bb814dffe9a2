package email

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	msgPlacedSubject = "Your order %s for %s"
	msgPlacedIntro   = "Thank you for your order for %s."
	msgPaidSubject   = "Payment received for order %s"
	msgPaidIntro     = "We received your payment for %s. Your order is now complete."
	msgOrderCode     = "Order code: %s"
	msgOrderTotal    = "Total: %s"
	msgPayment       = "Payment method: %s"
	msgOrderLink     = "You can view the status of your order at any time:"
)

func init() {
	for key, de := range map[string]string{
		msgPlacedSubject: "Ihre Bestellung %s für %s",
		msgPlacedIntro:   "Vielen Dank für Ihre Bestellung für %s.",
		msgPaidSubject:   "Zahlung für Bestellung %s erhalten",
		msgPaidIntro:     "Wir haben Ihre Zahlung für %s erhalten. Ihre Bestellung ist damit abgeschlossen.",
		msgOrderCode:     "Bestellnummer: %s",
		msgOrderTotal:    "Summe: %s",
		msgPayment:       "Zahlungsart: %s",
		msgOrderLink:     "Den Status Ihrer Bestellung können Sie jederzeit hier einsehen:",
	} {
		_ = message.SetString(language.German, key, de)
	}
}

// OrderMailData is what the order mails show.
type OrderMailData struct {
	To        string
	Locale    string
	EventName string
	Code      string
	Total     decimal.Decimal
	Currency  string
	OrderURL  string
	// Provider is the localized payment method name.
	Provider string
	// ProviderText is appended to the mail, e.g. bank details.
	ProviderText string
}

func printer(locale string) *message.Printer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag)
}

// FormatMoney prints the amount with the currency symbol of the locale.
func FormatMoney(locale string, amount decimal.Decimal, code string) string {
	p := printer(locale)
	unit, err := currency.ParseISO(code)
	if err != nil {
		return amount.StringFixed(2) + " " + code
	}
	return p.Sprint(currency.Symbol(unit.Amount(amount.InexactFloat64())))
}

// OrderPlacedMail is sent right after an order was placed.
func OrderPlacedMail(d OrderMailData) Mail {
	p := printer(d.Locale)
	return Mail{
		To:      d.To,
		Subject: p.Sprintf(msgPlacedSubject, d.Code, d.EventName),
		Text:    compose(p, d, p.Sprintf(msgPlacedIntro, d.EventName), d.ProviderText),
	}
}

// OrderPaidMail is sent once the order is paid.
func OrderPaidMail(d OrderMailData) Mail {
	p := printer(d.Locale)
	return Mail{
		To:      d.To,
		Subject: p.Sprintf(msgPaidSubject, d.Code),
		Text:    compose(p, d, p.Sprintf(msgPaidIntro, d.EventName), ""),
	}
}

func compose(p *message.Printer, d OrderMailData, intro, extra string) string {
	var b strings.Builder
	b.WriteString(intro)
	b.WriteString("\n\n")
	fmt.Fprintln(&b, p.Sprintf(msgOrderCode, d.Code))
	fmt.Fprintln(&b, p.Sprintf(msgOrderTotal, FormatMoney(d.Locale, d.Total, d.Currency)))
	if d.Provider != "" {
		fmt.Fprintln(&b, p.Sprintf(msgPayment, d.Provider))
	}
	if extra = strings.TrimSpace(extra); extra != "" {
		b.WriteString("\n")
		b.WriteString(extra)
		b.WriteString("\n")
	}
	if d.OrderURL != "" {
		b.WriteString("\n")
		b.WriteString(p.Sprintf(msgOrderLink))
		b.WriteString("\n")
		b.WriteString(d.OrderURL)
		b.WriteString("\n")
	}
	return b.String()
}
