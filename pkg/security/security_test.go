package security_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"jobspace-backend/pkg/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestValidateFile(t *testing.T) {
	t.Run("pdf keeps pdf extension", func(t *testing.T) {
		res := security.ValidateFile([]byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\n"))
		require.True(t, res.Valid, res.Error)
		assert.Equal(t, ".pdf", res.Extension)
		assert.Equal(t, "application/pdf", res.DetectedMIME)
	})

	t.Run("png is detected as png whatever its name", func(t *testing.T) {
		res := security.ValidateFile(pngBytes(t))
		require.True(t, res.Valid, res.Error)
		assert.Equal(t, ".png", res.Extension)
	})

	t.Run("plain text is accepted", func(t *testing.T) {
		res := security.ValidateFile([]byte("Lettre de motivation\nMadame, Monsieur,"))
		require.True(t, res.Valid, res.Error)
		assert.Equal(t, ".txt", res.Extension)
	})

	t.Run("empty file is rejected", func(t *testing.T) {
		res := security.ValidateFile(nil)
		assert.False(t, res.Valid)
	})

	t.Run("executables are rejected", func(t *testing.T) {
		elf := append([]byte{0x7F, 'E', 'L', 'F', 2, 1, 1, 0}, make([]byte, 56)...)
		res := security.ValidateFile(elf)
		assert.False(t, res.Valid)
		assert.Contains(t, res.Error, "non autorisé")
	})
}

func TestCheckPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, security.CheckPassword(string(hash), "admin123"))
	assert.False(t, security.CheckPassword(string(hash), "admin124"))
	assert.True(t, security.CheckPassword("Motdepasse1", "Motdepasse1"))
	assert.False(t, security.CheckPassword("Motdepasse1", "motdepasse1"))
	assert.False(t, security.CheckPassword("", ""))
}

func TestUploadLimiterWithoutRedis(t *testing.T) {
	ul := security.NewUploadLimiter(0, 0)
	allowed, retry, err := ul.AllowUpload(context.Background(), "127.0.0.1")
	assert.True(t, allowed)
	assert.Zero(t, retry)
	assert.Error(t, err)
}

func TestLoginTrackerWithoutRedis(t *testing.T) {
	lt := security.NewLoginTracker(security.LoginTrackerConfig{})
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		blocked, err := lt.RecordFailure(ctx, "Someone@Example.com")
		require.NoError(t, err)
		assert.False(t, blocked)
	}
	blocked, err := lt.IsBlocked(ctx, "someone@example.com")
	require.NoError(t, err)
	assert.False(t, blocked)
	assert.NoError(t, lt.Clear(ctx, "someone@example.com"))
}
