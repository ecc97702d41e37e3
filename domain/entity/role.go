package entity

import (
	"fmt"
	"strings"
)

// Role is the canonical user role. Comparison is exact after canonicalization
// via ParseRole; no additional leniency is applied.
type Role string

const (
	RolePatient    Role = "Patient"
	RoleDoctor     Role = "Doctor"
	RolePharmacist Role = "Pharmacist"
	RoleAdmin      Role = "Admin"
)

// ParseRole canonicalizes a role string case-insensitively to its enum form.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "patient":
		return RolePatient, nil
	case "doctor":
		return RoleDoctor, nil
	case "pharmacist":
		return RolePharmacist, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

func (r Role) String() string {
	return string(r)
}

// In checks membership in a required-role set. An empty set never matches;
// public operations are expressed by not declaring a set at all.
func (r Role) In(roles []Role) bool {
	for _, allowed := range roles {
		if r == allowed {
			return true
		}
	}
	return false
}
