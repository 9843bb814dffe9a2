package usecases

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	_ = message.SetString(language.German, msgPerformFailed,
		"Ihre Bestellung wurde aufgenommen, die Zahlung konnte aber nicht gestartet werden. Sie können sie auf Ihrer Bestellseite erneut versuchen.")
}
