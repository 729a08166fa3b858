package entitlements

import "sort"

type Plan string

const (
	PlanFree     Plan = "free"
	PlanPro      Plan = "pro"
	PlanBusiness Plan = "business"
)

// FeatureKey identifies a gated capability or numeric limit. The catalog is
// closed; keys unknown to it are treated as unrecognized by the gate and the
// access middleware.
type FeatureKey string

const (
	FeatureTeamInvitations  FeatureKey = "team.invitations"
	FeatureContractTemplate FeatureKey = "contracts.templates"
	FeatureContractExport   FeatureKey = "contracts.export"
	FeatureBillboardPhotos  FeatureKey = "billboards.photos"
	FeatureAPIAccess        FeatureKey = "api.access"
	FeatureReports          FeatureKey = "reports.analytics"
	FeatureCustomBranding   FeatureKey = "branding.custom"

	LimitBillboardsMax  FeatureKey = "billboards.max"
	LimitContractsMax   FeatureKey = "contracts.max"
	LimitClientsMax     FeatureKey = "clients.max"
	LimitTeamMembersMax FeatureKey = "team.members.max"
	LimitTemplatesMax   FeatureKey = "templates.max"
)

// FeatureKind distinguishes boolean capability flags from numeric limits.
type FeatureKind string

const (
	KindBool  FeatureKind = "bool"
	KindLimit FeatureKind = "limit"
)

// Feature describes one catalog entry.
type Feature struct {
	Key         FeatureKey
	Kind        FeatureKind
	Description string
}

var catalog = map[FeatureKey]Feature{
	FeatureTeamInvitations:  {Key: FeatureTeamInvitations, Kind: KindBool, Description: "Invite team members to the company"},
	FeatureContractTemplate: {Key: FeatureContractTemplate, Kind: KindBool, Description: "Create custom contract document templates"},
	FeatureContractExport:   {Key: FeatureContractExport, Kind: KindBool, Description: "Export rendered contract documents"},
	FeatureBillboardPhotos:  {Key: FeatureBillboardPhotos, Kind: KindBool, Description: "Upload billboard photos with thumbnails"},
	FeatureAPIAccess:        {Key: FeatureAPIAccess, Kind: KindBool, Description: "Company API key and REST API access"},
	FeatureReports:          {Key: FeatureReports, Kind: KindBool, Description: "Occupancy and revenue analytics"},
	FeatureCustomBranding:   {Key: FeatureCustomBranding, Kind: KindBool, Description: "Company logo and colors on documents"},

	LimitBillboardsMax:  {Key: LimitBillboardsMax, Kind: KindLimit, Description: "Maximum number of billboards"},
	LimitContractsMax:   {Key: LimitContractsMax, Kind: KindLimit, Description: "Maximum number of contracts"},
	LimitClientsMax:     {Key: LimitClientsMax, Kind: KindLimit, Description: "Maximum number of clients"},
	LimitTeamMembersMax: {Key: LimitTeamMembersMax, Kind: KindLimit, Description: "Maximum number of team members"},
	LimitTemplatesMax:   {Key: LimitTemplatesMax, Kind: KindLimit, Description: "Maximum number of document templates"},
}

// Known reports whether key belongs to the closed feature catalog.
func Known(key FeatureKey) bool {
	_, ok := catalog[key]
	return ok
}

// Lookup returns the catalog entry for key.
func Lookup(key FeatureKey) (Feature, bool) {
	f, ok := catalog[key]
	return f, ok
}

// Catalog returns all features sorted by key, for admin screens.
func Catalog() []Feature {
	out := make([]Feature, 0, len(catalog))
	for _, f := range catalog {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
