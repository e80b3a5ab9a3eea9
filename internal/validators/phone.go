package validators

import "strings"

// NormalizePhone reduz o telefone a dígitos, preservando o "+" inicial.
// Devolve vazio quando o resultado não tem tamanho plausível.
func NormalizePhone(raw string) string {
	var b strings.Builder

	for i, r := range raw {
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	normalized := b.String()

	digits := strings.TrimPrefix(normalized, "+")
	if len(digits) < 8 || len(digits) > 15 {
		return ""
	}

	return normalized
}
