package bill

import (
	"fmt"
	"strings"
	"time"
)

var frenchMonths = [...]string{
	"Jan", "Fév", "Mar", "Avr", "Mai", "Jui",
	"Jui", "Aoû", "Sep", "Oct", "Nov", "Déc",
}

// FormatDate renders an ISO date (yyyy-mm-dd) as "4 Avr. 04".
func FormatDate(iso string) (string, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(iso))
	if err != nil {
		return "", fmt.Errorf("format date %q: %w", iso, err)
	}

	year := fmt.Sprintf("%04d", t.Year())

	return fmt.Sprintf("%d %s. %s", t.Day(), frenchMonths[t.Month()-1], year[2:]), nil
}

func FormatStatus(s Status) string {
	switch s {
	case StatusPending:
		return "En attente"
	case StatusAccepted:
		return "Accepté"
	case StatusRefused:
		return "Refused"
	default:
		return string(s)
	}
}
