package security

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const digits = "0123456789"

// GenerateOTP returns a numeric one time code of length n
func GenerateOTP(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("otp length must be bigger than 0")
	}

	max := big.NewInt(int64(len(digits)))
	b := make([]byte, n)

	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}

		b[i] = digits[idx.Int64()]
	}

	return string(b), nil
}
