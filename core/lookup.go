package core

import (
	"github.com/kailas-cloud/osclient/endpoint"
	"github.com/kailas-cloud/osclient/optional"
	"github.com/kailas-cloud/osclient/types"
)

// docLookup is the addressing and retrieval options shared by the exists
// and get requests.
type docLookup struct {
	index          string
	id             string
	routing        optional.Value[string]
	realtime       optional.Value[bool]
	versionType    optional.Value[types.VersionType]
	storedFields   []string
	preference     optional.Value[string]
	refresh        optional.Value[bool]
	source         types.SourceConfigParam
	sourceExcludes []string
	sourceIncludes []string
	version        optional.Value[int64]
}

// Index returns the target index.
func (l *docLookup) Index() string { return l.index }

// ID returns the document ID.
func (l *docLookup) ID() string { return l.id }

// Routing returns the custom routing value.
func (l *docLookup) Routing() optional.Value[string] { return l.routing }

// Realtime reports whether the lookup bypasses the refresh cycle.
func (l *docLookup) Realtime() optional.Value[bool] { return l.realtime }

func (l *docLookup) VersionType() optional.Value[types.VersionType] { return l.versionType }
func (l *docLookup) StoredFields() []string                         { return l.storedFields }
func (l *docLookup) Preference() optional.Value[string]             { return l.preference }
func (l *docLookup) Refresh() optional.Value[bool]                  { return l.refresh }
func (l *docLookup) Source() types.SourceConfigParam                { return l.source }
func (l *docLookup) SourceExcludes() []string                       { return l.sourceExcludes }
func (l *docLookup) SourceIncludes() []string                       { return l.sourceIncludes }
func (l *docLookup) Version() optional.Value[int64]                 { return l.version }

type lookupQuery struct {
	Routing        *string                 `schema:"routing,omitempty"`
	Realtime       *bool                   `schema:"realtime,omitempty"`
	VersionType    types.VersionType       `schema:"version_type,omitempty"`
	StoredFields   []string                `schema:"stored_fields,omitempty"`
	Preference     *string                 `schema:"preference,omitempty"`
	Refresh        *bool                   `schema:"refresh,omitempty"`
	Source         types.SourceConfigParam `schema:"_source,omitempty"`
	SourceExcludes []string                `schema:"_source_excludes,omitempty"`
	SourceIncludes []string                `schema:"_source_includes,omitempty"`
	Version        *int64                  `schema:"version,omitempty"`
}

func (l *docLookup) params() (endpoint.Params, error) {
	return endpoint.EncodeParams(lookupQuery{
		Routing:        l.routing.Ptr(),
		Realtime:       l.realtime.Ptr(),
		VersionType:    l.versionType.UnwrapOr(""),
		StoredFields:   l.storedFields,
		Preference:     l.preference.Ptr(),
		Refresh:        l.refresh.Ptr(),
		Source:         l.source,
		SourceExcludes: l.sourceExcludes,
		SourceIncludes: l.sourceIncludes,
		Version:        l.version.Ptr(),
	})
}

type docRequired struct {
	ID    *string `json:"id" validate:"required"`
	Index *string `json:"index" validate:"required"`
}

// lookupBuilder carries the setters shared by the exists and get
// builders. Every setter returns the concrete builder B.
type lookupBuilder[B any] struct {
	endpoint.BuilderBase
	self *B
	req  docRequired
	l    docLookup
}

// Index sets the target index. Required.
func (b *lookupBuilder[B]) Index(v string) *B {
	b.req.Index = &v
	return b.self
}

// ID sets the document ID. Required.
func (b *lookupBuilder[B]) ID(v string) *B {
	b.req.ID = &v
	return b.self
}

// Routing routes the lookup to a specific shard.
func (b *lookupBuilder[B]) Routing(v string) *B {
	b.l.routing = optional.Some(v)
	return b.self
}

// Realtime toggles real-time lookup.
func (b *lookupBuilder[B]) Realtime(v bool) *B {
	b.l.realtime = optional.Some(v)
	return b.self
}

func (b *lookupBuilder[B]) VersionType(v types.VersionType) *B {
	b.l.versionType = optional.Some(v)
	return b.self
}

// StoredFields appends stored fields to return.
func (b *lookupBuilder[B]) StoredFields(v ...string) *B {
	b.l.storedFields = append(b.l.storedFields, v...)
	return b.self
}

func (b *lookupBuilder[B]) Preference(v string) *B {
	b.l.preference = optional.Some(v)
	return b.self
}

// Refresh refreshes the shard before the lookup.
func (b *lookupBuilder[B]) Refresh(v bool) *B {
	b.l.refresh = optional.Some(v)
	return b.self
}

// Source selects or filters the returned source.
func (b *lookupBuilder[B]) Source(v types.SourceConfigParam) *B {
	b.l.source = v
	return b.self
}

func (b *lookupBuilder[B]) SourceExcludes(v ...string) *B {
	b.l.sourceExcludes = append(b.l.sourceExcludes, v...)
	return b.self
}

func (b *lookupBuilder[B]) SourceIncludes(v ...string) *B {
	b.l.sourceIncludes = append(b.l.sourceIncludes, v...)
	return b.self
}

// Version fails the lookup unless the document has this version.
func (b *lookupBuilder[B]) Version(v int64) *B {
	b.l.version = optional.Some(v)
	return b.self
}

func (b *lookupBuilder[B]) build(typeName string) (docLookup, error) {
	if err := b.CheckSingleUse(); err != nil {
		return docLookup{}, err
	}
	if err := endpoint.RequireFields(typeName, &b.req); err != nil {
		return docLookup{}, err
	}
	l := b.l
	l.index = *b.req.Index
	l.id = *b.req.ID
	l.storedFields = cloneStrings(l.storedFields)
	l.sourceExcludes = cloneStrings(l.sourceExcludes)
	l.sourceIncludes = cloneStrings(l.sourceIncludes)
	return l, nil
}

func cloneStrings(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return append([]string(nil), s...)
}
