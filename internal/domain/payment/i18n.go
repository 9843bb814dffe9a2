package payment

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	msgMaxLength   = "ensure this value has at most %s characters"
	msgMinLength   = "ensure this value has at least %s characters"
	msgExactLength = "ensure this value has exactly %s characters"
	msgFailedCheck = "value failed the %s check"
)

func init() {
	for key, de := range map[string]string{
		"Payment provider: %s":    "Zahlungsart: %s",
		"Enable payment method":   "Zahlungsart aktivieren",
		"Additional fee":          "Zusätzliche Gebühr",
		"Absolute value":          "Absoluter Wert",
		"Percentage":              "Prozentual",
		ErrRequired.Error():       "Dieses Feld ist erforderlich",
		ErrInvalidChoice.Error():  "Wählen Sie eine gültige Option",
		ErrInvalidDecimal.Error(): "Geben Sie eine Zahl ein",
		ErrInvalidEmail.Error():   "Geben Sie eine gültige E-Mail-Adresse ein",
		msgMaxLength:              "Dieser Wert darf höchstens %s Zeichen haben",
		msgMinLength:              "Dieser Wert muss mindestens %s Zeichen haben",
		msgExactLength:            "Dieser Wert muss genau %s Zeichen haben",
		msgFailedCheck:            "Die Prüfung %s ist fehlgeschlagen",
	} {
		_ = message.SetString(language.German, key, de)
	}
}

var (
	supported = []language.Tag{language.English, language.German}
	matcher   = language.NewMatcher(supported)
)

// Printer returns the message printer closest to locale, English when
// nothing matches.
func Printer(locale string) *message.Printer {
	_, idx, _ := matcher.Match(language.Make(locale))
	return message.NewPrinter(supported[idx])
}
