package utils

import (
	"bytes"
	"crypto/rand"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var transactionCodePattern = regexp.MustCompile(`^\d{4} \d{4} \d{4} \d{4} \d{4}$`)

func TestGenerateTransactionCodeShape(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateTransactionCode(rand.Reader)
		require.NoError(t, err)
		assert.Regexp(t, transactionCodePattern, code)
		assert.Len(t, strings.ReplaceAll(code, " ", ""), TransactionCodeDigits)
	}
}

func TestGenerateTransactionCodeSkipsBiasedBytes(t *testing.T) {
	src := append(bytes.Repeat([]byte{255}, 20), bytes.Repeat([]byte{13}, 20)...)

	code, err := GenerateTransactionCode(bytes.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "3333 3333 3333 3333 3333", code)
}

func TestGenerateTransactionCodeReaderFailure(t *testing.T) {
	_, err := GenerateTransactionCode(bytes.NewReader([]byte{1, 2, 3}))
	assert.Error(t, err)
}

func TestGroupDigits(t *testing.T) {
	assert.Equal(t, "1234 5678 90", GroupDigits("1234567890", 4))
	assert.Equal(t, "1234", GroupDigits("1234", 4))
	assert.Equal(t, "abc", GroupDigits("abc", 0))
}

func TestExportFilename(t *testing.T) {
	at := time.UnixMilli(1735689600123)
	assert.Equal(t, "receipt_1735689600123.png", ExportFilename(at, "png"))
	assert.Equal(t, "receipt_1735689600123.pdf", ExportFilename(at, ".pdf"))
}
