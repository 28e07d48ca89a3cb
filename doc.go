// Package osclient is a typed Go client for the OpenSearch document and
// search APIs.
//
// Every operation is described by an endpoint descriptor in package core;
// requests are built with immutable builders and executed over a pluggable
// transport.
//
// # Low-level API: explicit requests
//
//	client, _ := osclient.New(osclient.WithBaseURL("http://localhost:9200"))
//	req, _ := core.NewGetRequest().Index("books").ID("moby").Build()
//	res, _ := client.Get(ctx, req)
//	if res.Found {
//	    var b Book
//	    _ = res.DecodeSource(&b)
//	}
//
// # High-level API: schema-first with Go generics
//
//	type Book struct {
//	    ID    string `json:"-" osclient:"id"`
//	    Title string `json:"title"`
//	}
//
//	idx, _ := osclient.NewIndex[Book](client, "books")
//	_, _ = idx.Upsert(ctx, Book{ID: "moby", Title: "Moby Dick"})
//	page, _ := idx.Search().Phrase("title", "moby dick", 0).Limit(10).Do(ctx)
package osclient
