package usecases

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	_ = message.SetString(language.German, msgPerformInProgress,
		"Ihre Zahlung wird gerade verarbeitet. Bitte laden Sie die Seite gleich erneut.")
}
