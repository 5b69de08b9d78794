package retry

import (
	"fmt"
	"math"
	"time"
)

// ExhaustedMessage accompanies the final notification after the ceiling.
const ExhaustedMessage = "Estamos com alta demanda no momento. Por favor, tente novamente mais tarde."

// Message returns the user-facing text for the given retry number (1-based)
// and wait duration.
func Message(retry int, wait time.Duration) string {
	secs := WaitSeconds(wait)
	switch {
	case retry <= 1:
		return fmt.Sprintf("Estamos processando muitas requisições. Aguardando %d segundo(s) antes de tentar novamente.", secs)
	case retry == 2:
		return fmt.Sprintf("Ainda estamos com alta demanda. Tentando novamente em %d segundo(s).", secs)
	default:
		return fmt.Sprintf("Última tentativa em %d segundo(s). Por favor, aguarde.", secs)
	}
}

// WaitSeconds rounds a wait up to whole seconds.
func WaitSeconds(wait time.Duration) int64 {
	if wait <= 0 {
		return 0
	}
	return int64(math.Ceil(wait.Seconds()))
}
