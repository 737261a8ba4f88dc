package authjwt

import (
	"errors"
	"os"
	"testing"
	"time"

	authdomain "github.com/Black-And-White-Club/archery-scorer/app/modules/auth/domain"
)

func TestProvider_GenerateAndValidateToken(t *testing.T) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "test-secret-at-least-32-chars-long!!"
	}
	p := NewProvider(secret, "archery-scorer")

	claims := &authdomain.Claims{
		ArcherID: "archer-123",
		Name:     "Robin",
		Role:     authdomain.RoleCoach,
	}

	tests := []struct {
		name        string
		setupClaims *authdomain.Claims
		rawToken    string
		ttl         time.Duration
		provider    Provider
		expectedErr error
		verify      func(t *testing.T, validated *authdomain.Claims)
	}{
		{
			name:        "success",
			setupClaims: claims,
			ttl:         1 * time.Hour,
			verify: func(t *testing.T, validated *authdomain.Claims) {
				if validated.ArcherID != claims.ArcherID {
					t.Errorf("expected archerID %s, got %s", claims.ArcherID, validated.ArcherID)
				}
				if validated.Role != authdomain.RoleCoach {
					t.Errorf("expected role %s, got %s", authdomain.RoleCoach, validated.Role)
				}
				if validated.Name != "Robin" {
					t.Errorf("expected name Robin, got %s", validated.Name)
				}
				if validated.IsExpired() {
					t.Errorf("expected unexpired claims")
				}
			},
		},
		{
			name:        "role defaults to archer",
			setupClaims: &authdomain.Claims{ArcherID: "archer-9"},
			ttl:         time.Hour,
			verify: func(t *testing.T, validated *authdomain.Claims) {
				if validated.Role != authdomain.RoleArcher {
					t.Errorf("expected role archer, got %s", validated.Role)
				}
			},
		},
		{
			name:        "expired token",
			setupClaims: claims,
			ttl:         -1 * time.Hour,
			expectedErr: ErrExpiredToken,
		},
		{
			name:        "invalid signature",
			setupClaims: claims,
			ttl:         1 * time.Hour,
			provider:    NewProvider("wrong-secret", "archery-scorer"),
			expectedErr: ErrInvalidSignature,
		},
		{
			name:        "wrong issuer",
			setupClaims: claims,
			ttl:         1 * time.Hour,
			provider:    NewProvider(secret, "someone-else"),
			expectedErr: ErrInvalidToken,
		},
		{
			name:        "malformed token",
			rawToken:    "not.a.jwt",
			expectedErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := tt.rawToken
			if tt.setupClaims != nil {
				var err error
				token, err = p.GenerateToken(tt.setupClaims, tt.ttl)
				if err != nil {
					t.Fatalf("failed to generate token: %v", err)
				}
			}

			validateTarget := p
			if tt.provider != nil {
				validateTarget = tt.provider
			}

			validatedClaims, err := validateTarget.ValidateToken(token)

			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Errorf("expected error %v, got %v", tt.expectedErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.verify != nil {
				tt.verify(t, validatedClaims)
			}
		})
	}
}

func TestProvider_GenerateTokenRejectsBadClaims(t *testing.T) {
	p := NewProvider("secret", "")

	if _, err := p.GenerateToken(&authdomain.Claims{}, time.Hour); !errors.Is(err, ErrMissingSubject) {
		t.Errorf("expected ErrMissingSubject, got %v", err)
	}
	if _, err := p.GenerateToken(&authdomain.Claims{ArcherID: "a", Role: "player"}, time.Hour); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
}
