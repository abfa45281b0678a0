package create_booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var referenceSpace = big.NewInt(1_000_000)

// RandomReferenceGenerator генерирует номер BK-YYYY-NNNNNN из crypto/rand.
// Уникальность проверяется при вставке.
type RandomReferenceGenerator struct{}

// Generate возвращает новый номер бронирования
func (RandomReferenceGenerator) Generate(year int) (string, error) {
	n, err := rand.Int(rand.Reader, referenceSpace)
	if err != nil {
		return "", fmt.Errorf("generate booking reference: %w", err)
	}
	return fmt.Sprintf("BK-%04d-%06d", year, n.Int64()), nil
}
