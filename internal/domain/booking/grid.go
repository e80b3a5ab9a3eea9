package booking

import "fmt"

// ===============================
// Grade de horários
// ===============================

// TimeGrid gera os inícios de slot entre startTime e endTime (ambos
// "HH:mm"), de stepMin em stepMin, estritamente antes de endTime.
// Puro e determinístico; é o universo de candidatos antes dos filtros
// de disponibilidade.
func TimeGrid(startTime, endTime string, stepMin int) []string {
	start, okS := parseMinutes(startTime)
	end, okE := parseMinutes(endTime)
	if !okS || !okE || stepMin <= 0 || start >= end {
		return nil
	}

	var grid []string
	for m := start; m < end; m += stepMin {
		grid = append(grid, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return grid
}

func parseMinutes(hm string) (int, bool) {
	var h, m int
	if _, err := fmt.Sscanf(hm, "%d:%d", &h, &m); err != nil {
		return 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// ValidHM reporta se hm é um horário "HH:mm" válido.
func ValidHM(hm string) bool {
	if len(hm) != 5 || hm[2] != ':' {
		return false
	}
	_, ok := parseMinutes(hm)
	return ok
}

// HMBefore compara dois horários "HH:mm".
func HMBefore(a, b string) bool {
	am, _ := parseMinutes(a)
	bm, _ := parseMinutes(b)
	return am < bm
}
