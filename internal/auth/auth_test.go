package auth

import (
	"testing"
	"time"

	"player-auction/internal/biddingerrors"
	"player-auction/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	issuer, err := NewIssuer("secret", time.Hour)
	require.NoError(t, err)
	other, err := NewIssuer("other-secret", time.Hour)
	require.NoError(t, err)
	expired, err := NewIssuer("secret", -time.Hour)
	require.NoError(t, err)

	admin := models.Caller{ID: "u1", Username: "root", Role: models.RoleAdmin}
	good, err := issuer.Issue(admin)
	require.NoError(t, err)
	forged, err := other.Issue(admin)
	require.NoError(t, err)
	noExpiry, err := expired.Issue(admin) // negative ttl means no exp claim
	require.NoError(t, err)
	badRole, err := issuer.Issue(models.Caller{ID: "u2", Role: "Spectator"})
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{User: UserClaims{ID: "u1", Role: models.RoleAdmin}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		want    models.Caller
		wantErr error
	}{
		{name: "valid_token", header: "Bearer " + good, want: admin},
		{name: "no_expiry", header: "Bearer " + noExpiry, want: admin},
		{name: "missing_header", header: "", wantErr: biddingerrors.ErrMissingToken},
		{name: "wrong_scheme", header: "Basic abc", wantErr: biddingerrors.ErrMissingToken},
		{name: "bad_signature", header: "Bearer " + forged, wantErr: biddingerrors.ErrInvalidToken},
		{name: "garbage", header: "Bearer not.a.token", wantErr: biddingerrors.ErrInvalidToken},
		{name: "unknown_role", header: "Bearer " + badRole, wantErr: biddingerrors.ErrInvalidToken},
		{name: "alg_none", header: "Bearer " + unsigned, wantErr: biddingerrors.ErrInvalidToken},
	}

	a := NewAuthenticator("secret")
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := a.Authenticate(tc.header)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.ErrorIs(t, err, biddingerrors.ErrUnauthorized)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestExpiredToken(t *testing.T) {
	a := NewAuthenticator("secret")
	claims := Claims{
		User: UserClaims{ID: "u1", Role: models.RoleTeamOwner},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = a.Authenticate("Bearer " + raw)
	require.ErrorIs(t, err, biddingerrors.ErrInvalidToken)
}

func TestNewIssuerRequiresSecret(t *testing.T) {
	_, err := NewIssuer("", time.Hour)
	require.Error(t, err)
}

func TestEmptySecretRefusesTokens(t *testing.T) {
	claims := Claims{User: UserClaims{ID: "attacker", Role: models.RoleAdmin}}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte{})
	require.NoError(t, err)

	caller, err := NewAuthenticator("").Authenticate("Bearer " + raw)
	require.ErrorIs(t, err, biddingerrors.ErrInvalidToken)
	require.Equal(t, models.Caller{}, caller)
}
