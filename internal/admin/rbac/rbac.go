package rbac

import (
	"sort"
	"strings"
)

// Role represents a staff access tier.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleEditor    Role = "editor"
	RoleMarketing Role = "marketing"
	RoleSupport   Role = "support"
)

// Capability guards a slice of the catalog editor.
type Capability string

const (
	// CapCatalogView allows opening a product's characteristics.
	CapCatalogView Capability = "catalog.view"
	// CapCatalogManage allows changing and submitting characteristics.
	CapCatalogManage Capability = "catalog.manage"
	// CapCatalogUploads allows attaching image files.
	CapCatalogUploads Capability = "catalog.uploads"
)

var capabilityRoles = map[Capability]Roles{
	CapCatalogView:    {RoleAdmin, RoleEditor, RoleMarketing, RoleSupport},
	CapCatalogManage:  {RoleAdmin, RoleEditor, RoleMarketing},
	CapCatalogUploads: {RoleAdmin, RoleEditor},
}

// KnownRole reports whether raw names one of the defined roles.
func KnownRole(raw string) bool {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin, RoleEditor, RoleMarketing, RoleSupport:
		return true
	}
	return false
}

// Roles is a role set.
type Roles []Role

// Has returns true if the provided role exists in the set.
func (rs Roles) Has(role Role) bool {
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}

// Intersects returns true if any role in the candidate slice is also present in the set.
func (rs Roles) Intersects(candidate Roles) bool {
	for _, role := range candidate {
		if rs.Has(role) {
			return true
		}
	}
	return false
}

// NormaliseRoles converts raw role strings into canonical Role values.
func NormaliseRoles(raw []string) Roles {
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[Role]struct{}, len(raw))
	roles := make(Roles, 0, len(raw))
	for _, val := range raw {
		role := Role(strings.ToLower(strings.TrimSpace(val)))
		if role == "" {
			continue
		}
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		roles = append(roles, role)
	}
	return roles
}

// HasCapability reports whether the provided roles grant access to the capability.
// Admin users hold every defined capability; undefined capabilities are denied.
func HasCapability(userRoles []string, capability Capability) bool {
	if capability == "" {
		return true
	}
	allowed, ok := capabilityRoles[capability]
	if !ok {
		return false
	}
	roles := NormaliseRoles(userRoles)
	if roles.Has(RoleAdmin) {
		return true
	}
	return allowed.Intersects(roles)
}

// Capabilities lists the capabilities granted to the roles, sorted.
func Capabilities(userRoles []string) []Capability {
	caps := make([]Capability, 0, len(capabilityRoles))
	for capability := range capabilityRoles {
		if HasCapability(userRoles, capability) {
			caps = append(caps, capability)
		}
	}
	sort.Slice(caps, func(i, j int) bool { return caps[i] < caps[j] })
	return caps
}
