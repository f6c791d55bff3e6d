package tui

import (
	"github.com/ragengine/console/internal/pages"
	"go.uber.org/zap"
)

// Confirmer adapts RunConfirm to the pages' confirmation hook. A prompt that
// fails or is cancelled answers No.
func Confirmer(log *zap.Logger) pages.Confirmer {
	return func(message string) bool {
		ok, err := RunConfirm(message, false)
		if err != nil {
			log.Debug("confirm dismissed", zap.Error(err))
			return false
		}
		return ok
	}
}

// Prompter adapts RunInput to the pages' free-text hook.
func Prompter(log *zap.Logger) pages.Prompter {
	return func(message string) (string, bool) {
		v, err := RunInput(message, "", "")
		if err != nil {
			log.Debug("prompt dismissed", zap.Error(err))
			return "", false
		}
		return v, true
	}
}
