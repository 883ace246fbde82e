package identity

import (
	"strings"

	"trailhead/internal/models"
)

// RoleMapper resolves an application role from identity claims. The highest
// ranked matching role wins; callers without a match are plain users.
type RoleMapper struct {
	claim  string
	values map[string]string // claim value -> role
}

// NewRoleMapper builds a mapper reading claim. mappings lists, per role, the
// claim values that grant it. A claim value equal to a role name always
// grants that role.
func NewRoleMapper(claim string, mappings map[string][]string) *RoleMapper {
	m := &RoleMapper{claim: claim, values: map[string]string{}}
	for role, values := range mappings {
		if !models.IsValidRole(role) {
			continue
		}
		for _, v := range values {
			m.values[strings.ToLower(v)] = role
		}
	}
	return m
}

// Role returns the caller's role for the given claims.
func (m *RoleMapper) Role(claims map[string]any) string {
	role := models.RoleUser
	if m == nil || m.claim == "" {
		return role
	}
	for _, v := range claimValues(claims[m.claim]) {
		candidate := m.lookup(v)
		if models.RoleRank(candidate) > models.RoleRank(role) {
			role = candidate
		}
	}
	return role
}

func (m *RoleMapper) lookup(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if role, ok := m.values[value]; ok {
		return role
	}
	if models.IsValidRole(value) {
		return value
	}
	return ""
}

// claimValues flattens a string or list claim.
func claimValues(v any) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// identityFromClaims extracts the standard claims and resolves the role.
func identityFromClaims(claims map[string]any, roles *RoleMapper) (*Identity, error) {
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrNoSession
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if name == "" {
		name, _ = claims["preferred_username"].(string)
	}
	return &Identity{
		Sub:   sub,
		Email: email,
		Name:  name,
		Role:  roles.Role(claims),
	}, nil
}
