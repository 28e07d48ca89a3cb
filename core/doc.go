// Package core holds the document and search requests of the search API:
// typed, immutable request values built with single-use builders, and the
// endpoint descriptors that turn them into HTTP exchanges.
//
//	req, err := core.NewExistsRequest().Index("my-index").ID("1").Build()
//	res, err := endpoint.Execute(ctx, transport, core.ExistsEndpoint, req)
package core

import "github.com/kailas-cloud/osclient/endpoint"

// Path parameter bits shared by the document endpoints.
const (
	bitIndex endpoint.PathSet = 1 << iota
	bitID
)

// Endpoint IDs, used in logs and metric labels.
const (
	ExistsID = "opensearch/exists"
	GetID    = "opensearch/get"
	IndexID  = "opensearch/index"
	DeleteID = "opensearch/delete"
	SearchID = "opensearch/search"
)

type docRef struct{ index, id string }

func (r docRef) present() endpoint.PathSet {
	return endpoint.PathSet(0).With(bitIndex, r.index != "").With(bitID, r.id != "")
}

var docIDTemplate = endpoint.Template[docRef]{Mask: bitIndex | bitID, Build: func(r docRef, p *endpoint.PathBuilder) {
	p.Segment(r.index).Literal("_doc").Segment(r.id)
}}

// docPath renders /{index}/_doc/{id}, the only shape Exists, Get and
// Delete accept.
func docPath(id string, index, docID string) (string, error) {
	r := docRef{index, docID}
	return endpoint.ResolvePath(id, r, r.present(), docIDTemplate)
}

// indexPath also accepts /{index}/_doc, which is valid for POST only.
func indexPath(index, docID string) (string, error) {
	r := docRef{index, docID}
	return endpoint.ResolvePath(IndexID, r, r.present(), docIDTemplate,
		endpoint.Template[docRef]{Mask: bitIndex, Build: func(r docRef, p *endpoint.PathBuilder) {
			p.Segment(r.index).Literal("_doc")
		}},
	)
}
