package utils

import (
	"fmt"
	"io"
	"strings"
)

const (
	TransactionCodeDigits = 20
	transactionCodeGroup  = 4
)

// GenerateTransactionCode returns 20 uniformly random decimal digits grouped
// in blocks of four, e.g. "0421 9983 1200 5531 7604".
func GenerateTransactionCode(r io.Reader) (string, error) {
	digits := make([]byte, 0, TransactionCodeDigits)
	buf := make([]byte, TransactionCodeDigits)

	for len(digits) < TransactionCodeDigits {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", fmt.Errorf("transaction code: %w", err)
		}
		for _, b := range buf {
			// 250 is the largest multiple of 10 that fits in a byte; values
			// above it would bias the low digits.
			if b >= 250 {
				continue
			}
			digits = append(digits, '0'+b%10)
			if len(digits) == TransactionCodeDigits {
				break
			}
		}
	}

	return GroupDigits(string(digits), transactionCodeGroup), nil
}

// GroupDigits splits s into space separated blocks of size n.
func GroupDigits(s string, n int) string {
	if n <= 0 {
		return s
	}
	var parts []string
	for len(s) > n {
		parts = append(parts, s[:n])
		s = s[n:]
	}
	parts = append(parts, s)
	return strings.Join(parts, " ")
}
