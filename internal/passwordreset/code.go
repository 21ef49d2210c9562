package passwordreset

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const codeDigits = 6

var codeMax = big.NewInt(1000000)

// GenerateCode returns a 6-digit numeric verification code (e.g. "042317").
// Uses crypto/rand; the draw is uniform over 000000–999999.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeMax)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}
