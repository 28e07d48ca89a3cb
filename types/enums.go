package types

import (
	"fmt"
	"strings"
)

// VersionType selects the versioning scheme of a document operation.
type VersionType string

// Version types.
const (
	VersionTypeInternal    VersionType = "internal"
	VersionTypeExternal    VersionType = "external"
	VersionTypeExternalGte VersionType = "external_gte"
	VersionTypeForce       VersionType = "force"
)

// ParamValue implements endpoint.ParamValuer.
func (v VersionType) ParamValue() string { return string(v) }

// UnmarshalText rejects unknown version types.
func (v *VersionType) UnmarshalText(text []byte) error {
	return unmarshalEnum(v, text, "version type",
		VersionTypeInternal, VersionTypeExternal, VersionTypeExternalGte, VersionTypeForce)
}

// Refresh controls index refresh after a write.
type Refresh string

// Refresh policies.
const (
	RefreshTrue    Refresh = "true"
	RefreshFalse   Refresh = "false"
	RefreshWaitFor Refresh = "wait_for"
)

// ParamValue implements endpoint.ParamValuer.
func (r Refresh) ParamValue() string { return string(r) }

// UnmarshalText rejects unknown refresh policies.
func (r *Refresh) UnmarshalText(text []byte) error {
	return unmarshalEnum(r, text, "refresh", RefreshTrue, RefreshFalse, RefreshWaitFor)
}

// OpType selects between indexing and create-only semantics.
type OpType string

// Operation types.
const (
	OpTypeIndex  OpType = "index"
	OpTypeCreate OpType = "create"
)

// ParamValue implements endpoint.ParamValuer.
func (o OpType) ParamValue() string { return string(o) }

// UnmarshalText rejects unknown operation types.
func (o *OpType) UnmarshalText(text []byte) error {
	return unmarshalEnum(o, text, "op type", OpTypeIndex, OpTypeCreate)
}

// SearchType selects how scores are computed across shards.
type SearchType string

// Search types.
const (
	SearchTypeQueryThenFetch    SearchType = "query_then_fetch"
	SearchTypeDfsQueryThenFetch SearchType = "dfs_query_then_fetch"
)

// ParamValue implements endpoint.ParamValuer.
func (s SearchType) ParamValue() string { return string(s) }

// UnmarshalText rejects unknown search types.
func (s *SearchType) UnmarshalText(text []byte) error {
	return unmarshalEnum(s, text, "search type", SearchTypeQueryThenFetch, SearchTypeDfsQueryThenFetch)
}

// Result is the outcome of a write operation.
type Result string

// Write results.
const (
	ResultCreated  Result = "created"
	ResultUpdated  Result = "updated"
	ResultDeleted  Result = "deleted"
	ResultNotFound Result = "not_found"
	ResultNoop     Result = "noop"
)

// TotalHitsRelation tells whether a hit count is exact or a lower bound.
type TotalHitsRelation string

// Relations.
const (
	TotalHitsEq  TotalHitsRelation = "eq"
	TotalHitsGte TotalHitsRelation = "gte"
)

func unmarshalEnum[E ~string](dst *E, text []byte, what string, allowed ...E) error {
	for _, a := range allowed {
		if strings.EqualFold(string(text), string(a)) {
			*dst = a
			return nil
		}
	}
	return fmt.Errorf("unknown %s %q", what, string(text))
}
