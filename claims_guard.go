package auth

import (
	"time"

	"github.com/goliatone/go-errors"
)

type immutableClaimsSnapshot struct {
	subject     string
	issuer      string
	uid         string
	tid         string
	audience    []string
	issuedAt    time.Time
	hasIssuedAt bool
	expiresAt   time.Time
	hasExpires  bool
}

func captureImmutableClaims(claims *JWTClaims) immutableClaimsSnapshot {
	var audienceCopy []string
	if len(claims.RegisteredClaims.Audience) > 0 {
		audienceCopy = append(audienceCopy, claims.RegisteredClaims.Audience...)
	}

	snap := immutableClaimsSnapshot{
		subject:  claims.RegisteredClaims.Subject,
		issuer:   claims.RegisteredClaims.Issuer,
		uid:      claims.UID,
		tid:      claims.TID,
		audience: audienceCopy,
	}

	if claims.RegisteredClaims.IssuedAt != nil {
		snap.issuedAt = claims.RegisteredClaims.IssuedAt.Time
		snap.hasIssuedAt = true
	}

	if claims.RegisteredClaims.ExpiresAt != nil {
		snap.expiresAt = claims.RegisteredClaims.ExpiresAt.Time
		snap.hasExpires = true
	}

	return snap
}

func (snap immutableClaimsSnapshot) validate(claims *JWTClaims) error {
	if claims.RegisteredClaims.Subject != snap.subject {
		return immutableClaimViolation("sub")
	}

	if claims.RegisteredClaims.Issuer != snap.issuer {
		return immutableClaimViolation("iss")
	}

	if claims.UID != snap.uid {
		return immutableClaimViolation("uid")
	}

	if claims.TID != snap.tid {
		return immutableClaimViolation("tid")
	}

	if !audienceEqual(claims.RegisteredClaims.Audience, snap.audience) {
		return immutableClaimViolation("aud")
	}

	if snap.hasIssuedAt {
		if claims.RegisteredClaims.IssuedAt == nil || !claims.RegisteredClaims.IssuedAt.Time.Equal(snap.issuedAt) {
			return immutableClaimViolation("iat")
		}
	} else if claims.RegisteredClaims.IssuedAt != nil {
		return immutableClaimViolation("iat")
	}

	if snap.hasExpires {
		if claims.RegisteredClaims.ExpiresAt == nil || !claims.RegisteredClaims.ExpiresAt.Time.Equal(snap.expiresAt) {
			return immutableClaimViolation("exp")
		}
	} else if claims.RegisteredClaims.ExpiresAt != nil {
		return immutableClaimViolation("exp")
	}

	return nil
}

func audienceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func immutableClaimViolation(claim string) error {
	return errors.New("claims decorator mutated protected claim", errors.CategoryInternal).
		WithTextCode("IMMUTABLE_CLAIM_VIOLATION").
		WithMetadata(map[string]any{"claim": claim})
}
