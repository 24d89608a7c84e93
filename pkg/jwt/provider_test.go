package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTProvider_StaffToken(t *testing.T) {
	p := NewJWTProvider("secret", time.Hour)

	t.Run("round trips the subject", func(t *testing.T) {
		token, err := p.GenerateStaffToken("editor@example.com")
		require.NoError(t, err)

		subject, err := p.ParseStaffToken(token)

		require.NoError(t, err)
		assert.Equal(t, "editor@example.com", subject)
	})

	t.Run("requires a subject", func(t *testing.T) {
		_, err := p.GenerateStaffToken("")

		assert.Error(t, err)
	})

	t.Run("rejects tokens signed with another secret", func(t *testing.T) {
		token, err := NewJWTProvider("other", time.Hour).GenerateStaffToken("editor@example.com")
		require.NoError(t, err)

		_, err = p.ParseStaffToken(token)

		assert.Equal(t, ErrInvalidToken, err)
	})

	t.Run("rejects expired tokens", func(t *testing.T) {
		expired := NewJWTProvider("secret", time.Hour)
		expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := expired.GenerateStaffToken("editor@example.com")
		require.NoError(t, err)

		_, err = p.ParseStaffToken(token)

		assert.Equal(t, ErrInvalidToken, err)
	})

	t.Run("rejects tokens without the staff role", func(t *testing.T) {
		claims := gojwt.MapClaims{
			"sub": "visitor",
			"exp": time.Now().Add(time.Hour).Unix(),
		}
		token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = p.ParseStaffToken(token)

		assert.Equal(t, ErrNotStaff, err)
	})

	t.Run("refuses to work without a secret", func(t *testing.T) {
		token, err := p.GenerateStaffToken("editor@example.com")
		require.NoError(t, err)
		empty := NewJWTProvider("", time.Hour)

		_, err = empty.GenerateStaffToken("editor@example.com")
		assert.Equal(t, ErrNoSecret, err)

		_, err = empty.ParseStaffToken(token)
		assert.Equal(t, ErrNoSecret, err)
	})
}
