package salary

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Role string

const (
	RoleAuxiliar     Role = "Auxiliar"
	RoleTecnico      Role = "Técnico"
	RoleTecnologo    Role = "Tecnólogo"
	RoleProfesional  Role = "Profesional"
	RoleEspecialista Role = "Especialista"
	RoleMaster       Role = "Master"
)

// Roles returns the closed role set in canonical order.
func Roles() []Role {
	return []Role{RoleAuxiliar, RoleTecnico, RoleTecnologo, RoleProfesional, RoleEspecialista, RoleMaster}
}

// Multipliers maps a role to the scalar applied to the base wage.
type Multipliers map[Role]decimal.Decimal

var defaultMultipliers = Multipliers{
	RoleAuxiliar:     decimal.NewFromInt(1),
	RoleTecnico:      decimal.NewFromInt(2),
	RoleTecnologo:    decimal.NewFromInt(3),
	RoleProfesional:  decimal.NewFromInt(4),
	RoleEspecialista: decimal.NewFromInt(5),
	RoleMaster:       decimal.NewFromInt(7),
}

// DefaultMultipliers returns a copy of the canonical multiplier table.
func DefaultMultipliers() Multipliers {
	out := make(Multipliers, len(defaultMultipliers))
	for role, value := range defaultMultipliers {
		out[role] = value
	}
	return out
}

// ParseRole matches the canonical names ignoring case, surrounding space and accents.
func ParseRole(value string) (Role, error) {
	key := foldRole(value)
	if key != "" {
		for _, role := range Roles() {
			if foldRole(string(role)) == key {
				return role, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %q (valid roles: %s)", ErrInvalidRole, value, validRoleList())
}

func (r Role) Valid() bool {
	_, ok := defaultMultipliers[r]
	return ok
}

// TransportEligible reports the role-based subsidy rule used by the catalog path.
func (r Role) TransportEligible() bool {
	return r == RoleAuxiliar || r == RoleTecnico
}

// ResolveMultiplier prefers the override entry and falls back to the canonical table.
func ResolveMultiplier(role Role, overrides Multipliers) (decimal.Decimal, error) {
	if value, ok := overrides[role]; ok {
		if !value.IsPositive() {
			return decimal.Zero, fmt.Errorf("%w: multiplier for %s must be positive, got %s", ErrConfiguration, role, value)
		}
		return value, nil
	}
	if value, ok := defaultMultipliers[role]; ok {
		return value, nil
	}
	return decimal.Zero, fmt.Errorf("%w: no multiplier defined for role %q", ErrConfiguration, role)
}

func validRoleList() string {
	names := make([]string, 0, len(defaultMultipliers))
	for _, role := range Roles() {
		names = append(names, string(role))
	}
	return strings.Join(names, ", ")
}

func foldRole(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.TrimSpace(value))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(value))
	}
	return strings.ToLower(folded)
}
