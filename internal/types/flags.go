package types

import "strings"

// PropertyFlags describes how an object property may be used.
type PropertyFlags int

const (
	PropertyNone               PropertyFlags = 0
	PropertyRequired           PropertyFlags = 1 << 0
	PropertyReadOnly           PropertyFlags = 1 << 1
	PropertyWriteOnly          PropertyFlags = 1 << 2
	PropertyDeployTimeConstant PropertyFlags = 1 << 3
	PropertyIdentifier         PropertyFlags = 1 << 4
)

var propertyFlagNames = []struct {
	flag PropertyFlags
	name string
}{
	{PropertyRequired, "Required"},
	{PropertyReadOnly, "ReadOnly"},
	{PropertyWriteOnly, "WriteOnly"},
	{PropertyDeployTimeConstant, "DeployTimeConstant"},
	{PropertyIdentifier, "Identifier"},
}

// Has reports whether every bit of flag is set.
func (f PropertyFlags) Has(flag PropertyFlags) bool {
	return f&flag == flag
}

func (f PropertyFlags) String() string {
	if f == PropertyNone {
		return "None"
	}
	var names []string
	for _, n := range propertyFlagNames {
		if f.Has(n.flag) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, ", ")
}

// ResourceFlags describes a resource type as a whole.
type ResourceFlags int

const (
	ResourceNone     ResourceFlags = 0
	ResourceReadOnly ResourceFlags = 1 << 0
)

// Has reports whether every bit of flag is set.
func (f ResourceFlags) Has(flag ResourceFlags) bool {
	return f&flag == flag
}

func (f ResourceFlags) String() string {
	if f.Has(ResourceReadOnly) {
		return "ReadOnly"
	}
	return "None"
}

// ScopeType is the set of deployment scopes a resource may target.
type ScopeType int

const (
	ScopeUnknown         ScopeType = 0
	ScopeTenant          ScopeType = 1 << 0
	ScopeManagementGroup ScopeType = 1 << 1
	ScopeSubscription    ScopeType = 1 << 2
	ScopeResourceGroup   ScopeType = 1 << 3
	ScopeExtension       ScopeType = 1 << 4
)

var scopeNames = []struct {
	scope ScopeType
	name  string
}{
	{ScopeTenant, "Tenant"},
	{ScopeManagementGroup, "ManagementGroup"},
	{ScopeSubscription, "Subscription"},
	{ScopeResourceGroup, "ResourceGroup"},
	{ScopeExtension, "Extension"},
}

func (s ScopeType) String() string {
	if s == ScopeUnknown {
		return "Unknown"
	}
	var names []string
	for _, n := range scopeNames {
		if s&n.scope != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, ", ")
}
