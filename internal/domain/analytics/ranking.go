package analytics

import (
	"sort"

	"github.com/shopspring/decimal"
)

// rankScores convierte una población de valores en puntuaciones relativas 0-100.
//
// Dos pasadas: se ordenan los índices una sola vez y luego se asigna rank→score.
// El mejor valor obtiene 100 y el peor 0: score = 100 * (1 - rank / max(n-1, 1)).
// Valores iguales comparten el rank más bajo, así que la puntuación es monótona.
func rankScores(values []decimal.Decimal, higherIsBetter bool) []decimal.Decimal {
	n := len(values)
	scores := make([]decimal.Decimal, n)
	if n == 0 {
		return scores
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		va, vb := values[idx[a]], values[idx[b]]
		if higherIsBetter {
			return va.GreaterThan(vb)
		}
		return va.LessThan(vb)
	})

	denom := decimal.NewFromInt(int64(max(n-1, 1)))
	rank := 0
	for pos, i := range idx {
		if pos > 0 && !values[i].Equal(values[idx[pos-1]]) {
			rank = pos
		}
		scores[i] = hundred.Mul(one.Sub(decimal.NewFromInt(int64(rank)).Div(denom))).Round(2)
	}
	return scores
}

// clampScore limita una puntuación al rango [0, 100].
func clampScore(s decimal.Decimal) decimal.Decimal {
	if s.IsNegative() {
		return zero
	}
	if s.GreaterThan(hundred) {
		return hundred
	}
	return s
}
