package coupon

import (
	"compress/gzip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"pawcart/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestCouponFile writes lines to a gzipped file and returns its path.
func createTestCouponFile(t *testing.T, filename string, lines []string) string {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, filename)

	file, err := os.Create(filePath)
	require.NoError(t, err)
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	for _, line := range lines {
		_, err := gzipWriter.Write([]byte(line + "\n"))
		require.NoError(t, err)
	}

	return filePath
}

func codes(coupons []model.Coupon) []string {
	out := make([]string, len(coupons))
	for i, c := range coupons {
		out[i] = c.Code
	}
	return out
}

func TestFileLoader_Load_Success(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	filePath := createTestCouponFile(t, "coupons.gz", []string{
		`{"code":"WELCOME10","percent":10}`,
		`{"code":"SAVE20","percent":20,"minAmount":"100"}`,
		`{"code":"SUMMER","percent":15,"validFrom":"2026-06-01T00:00:00Z","validUntil":"2026-08-31T23:59:59Z","status":false}`,
	})

	coupons, err := loader.Load(context.Background(), filePath)

	require.NoError(t, err)
	require.Len(t, coupons, 3)
	assert.Equal(t, []string{"WELCOME10", "SAVE20", "SUMMER"}, codes(coupons))

	assert.True(t, coupons[0].Status, "status defaults to active")
	assert.True(t, coupons[0].MinAmount.IsZero())
	assert.Equal(t, "100", coupons[1].MinAmount.String())
	assert.False(t, coupons[2].Status)
	require.NotNil(t, coupons[2].ValidFrom)
	require.NotNil(t, coupons[2].ValidUntil)
}

func TestFileLoader_Load_NormalisesCodes(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	filePath := createTestCouponFile(t, "lowercase.gz", []string{
		`{"code":"  pets5  ","percent":5}`,
	})

	coupons, err := loader.Load(context.Background(), filePath)

	require.NoError(t, err)
	require.Len(t, coupons, 1)
	assert.Equal(t, "PETS5", coupons[0].Code)
}

func TestFileLoader_Load_WithEmptyLines(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	filePath := createTestCouponFile(t, "coupons_with_empty.gz", []string{
		`{"code":"CODE1","percent":5}`,
		"",
		`{"code":"CODE2","percent":5}`,
		"   ",
		`{"code":"CODE3","percent":5}`,
	})

	coupons, err := loader.Load(context.Background(), filePath)

	require.NoError(t, err)
	assert.Equal(t, []string{"CODE1", "CODE2", "CODE3"}, codes(coupons))
}

func TestFileLoader_Load_MalformedLine(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	filePath := createTestCouponFile(t, "malformed.gz", []string{
		`{"code":"GOOD","percent":5}`,
		`not json`,
	})

	coupons, err := loader.Load(context.Background(), filePath)

	require.Error(t, err)
	assert.Nil(t, coupons)
	assert.Contains(t, err.Error(), "line 2")
}

func TestFileLoader_Load_InvalidDefinition(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	filePath := createTestCouponFile(t, "invalid.gz", []string{
		`{"code":"TOOMUCH","percent":150}`,
	})

	coupons, err := loader.Load(context.Background(), filePath)

	require.Error(t, err)
	assert.Nil(t, coupons)
	assert.ErrorIs(t, err, model.ErrInvalidCoupon)
	assert.Contains(t, err.Error(), "line 1")
}

func TestFileLoader_Load_FileNotFound(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	coupons, err := loader.Load(context.Background(), "/nonexistent/path/to/file.gz")

	require.Error(t, err)
	assert.Nil(t, coupons)
	assert.Contains(t, err.Error(), "failed to open coupon file")
}

func TestFileLoader_Load_InvalidGzip(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	filePath := filepath.Join(t.TempDir(), "invalid.gz")
	require.NoError(t, os.WriteFile(filePath, []byte("not a gzip file"), 0644))

	coupons, err := loader.Load(context.Background(), filePath)

	require.Error(t, err)
	assert.Nil(t, coupons)
	assert.Contains(t, err.Error(), "failed to create gzip reader")
}

func TestFileLoader_Load_ContextCancellation(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	lines := make([]string, 25_000)
	for i := range lines {
		lines[i] = fmt.Sprintf(`{"code":"BULK%06d","percent":5}`, i)
	}
	filePath := createTestCouponFile(t, "large.gz", lines)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	coupons, err := loader.Load(ctx, filePath)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, coupons)
}

func TestFileLoader_Load_EmptyFile(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	filePath := createTestCouponFile(t, "empty.gz", []string{})

	coupons, err := loader.Load(context.Background(), filePath)

	require.NoError(t, err)
	assert.Empty(t, coupons)
}
