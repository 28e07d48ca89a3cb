package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/osclient/core"
	"github.com/kailas-cloud/osclient/querydsl"
	"github.com/kailas-cloud/osclient/types"
)

type searchFlags struct {
	matchPhrase []string
	slop        int
	match       []string
	term        []string
	exists      []string
	queryJSON   string

	from           int
	size           int
	minScore       float64
	trackTotalHits string
	routing        []string
	ignoreMissing  bool
	includes       []string
	version        bool
}

func newSearchCmd(a *app) *cobra.Command {
	var f searchFlags
	cmd := &cobra.Command{
		Use:   "search [index...]",
		Short: "Search one or more indices",
		Long: `Search builds a query from flags. Phrase and match clauses score
documents, term and exists clauses filter them. --query-json takes a raw
query object instead and cannot be combined with the clause flags.`,
		Example: `  osclient search books --match-phrase title="blue whale" --slop 1
  osclient search books --term author=Melville --size 5
  osclient search --query-json '{"match_all":{}}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := f.request(args)
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.Search(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	fl := cmd.Flags()
	fl.StringArrayVar(&f.matchPhrase, "match-phrase", nil, "Phrase clause field=text (repeatable)")
	fl.IntVar(&f.slop, "slop", 0, "Slop applied to every --match-phrase clause")
	fl.StringArrayVar(&f.match, "match", nil, "Full-text clause field=text (repeatable)")
	fl.StringArrayVar(&f.term, "term", nil, "Exact filter field=value; JSON numbers and booleans keep their type (repeatable)")
	fl.StringArrayVar(&f.exists, "exists", nil, "Require a non-null field (repeatable)")
	fl.StringVar(&f.queryJSON, "query-json", "", "Raw query object")
	fl.IntVar(&f.from, "from", 0, "Number of hits to skip")
	fl.IntVar(&f.size, "size", -1, "Number of hits to return (server default when negative)")
	fl.Float64Var(&f.minScore, "min-score", 0, "Drop hits scoring below this")
	fl.StringVar(&f.trackTotalHits, "track-total-hits", "", "true, false or a count")
	fl.StringSliceVar(&f.routing, "routing", nil, "Routing keys")
	fl.BoolVar(&f.ignoreMissing, "ignore-unavailable", false, "Skip missing indices instead of failing")
	fl.StringSliceVar(&f.includes, "source-includes", nil, "Source fields to return")
	fl.BoolVar(&f.version, "version", false, "Return document versions")
	return cmd
}

// request assembles the search request described by the flags.
func (f *searchFlags) request(indices []string) (*core.SearchRequest, error) {
	q, hasQuery, err := f.query()
	if err != nil {
		return nil, err
	}

	b := core.NewSearchRequest()
	if len(indices) > 0 {
		b.Index(indices...)
	}
	if hasQuery {
		b.Query(q)
	}
	if f.from > 0 {
		b.From(f.from)
	}
	if f.size >= 0 {
		b.Size(f.size)
	}
	if f.minScore > 0 {
		b.MinScore(f.minScore)
	}
	if f.trackTotalHits != "" {
		var th types.TrackHits
		if err := json.Unmarshal([]byte(f.trackTotalHits), &th); err != nil {
			return nil, fmt.Errorf("--track-total-hits: %w", err)
		}
		b.TrackTotalHits(th)
	}
	if len(f.routing) > 0 {
		b.Routing(f.routing...)
	}
	if f.ignoreMissing {
		b.IgnoreUnavailable(true)
	}
	if len(f.includes) > 0 {
		b.Source(types.SourceConfigFilter(types.SourceFilter{Includes: f.includes}))
	}
	if f.version {
		b.Version(true)
	}
	return b.Build()
}

// query returns the query the flags describe; false means send none.
func (f *searchFlags) query() (querydsl.Query, bool, error) {
	clauses := len(f.matchPhrase) + len(f.match) + len(f.term) + len(f.exists)
	if f.queryJSON != "" {
		if clauses > 0 {
			return querydsl.Query{}, false, errors.New("--query-json cannot be combined with clause flags")
		}
		q, err := querydsl.Parse([]byte(f.queryJSON))
		if err != nil {
			return querydsl.Query{}, false, fmt.Errorf("--query-json: %w", err)
		}
		return q, true, nil
	}
	if clauses == 0 {
		return querydsl.Query{}, false, nil
	}

	var must, filter []querydsl.Query
	for _, s := range f.matchPhrase {
		field, text, err := splitClause("--match-phrase", s)
		if err != nil {
			return querydsl.Query{}, false, err
		}
		q, err := querydsl.MatchPhraseOf(func(b *querydsl.MatchPhraseQueryBuilder) *querydsl.MatchPhraseQueryBuilder {
			b.Field(field).Query(text)
			if f.slop > 0 {
				b.Slop(f.slop)
			}
			return b
		})
		if err != nil {
			return querydsl.Query{}, false, err
		}
		must = append(must, q.ToQuery())
	}
	for _, s := range f.match {
		field, text, err := splitClause("--match", s)
		if err != nil {
			return querydsl.Query{}, false, err
		}
		q, err := querydsl.MatchOf(func(b *querydsl.MatchQueryBuilder) *querydsl.MatchQueryBuilder {
			return b.Field(field).Text(text)
		})
		if err != nil {
			return querydsl.Query{}, false, err
		}
		must = append(must, q.ToQuery())
	}
	for _, s := range f.term {
		field, raw, err := splitClause("--term", s)
		if err != nil {
			return querydsl.Query{}, false, err
		}
		q, err := querydsl.TermOf(func(b *querydsl.TermQueryBuilder) *querydsl.TermQueryBuilder {
			return b.Field(field).Value(termValue(raw))
		})
		if err != nil {
			return querydsl.Query{}, false, err
		}
		filter = append(filter, q.ToQuery())
	}
	for _, field := range f.exists {
		q, err := querydsl.ExistsOf(func(b *querydsl.ExistsQueryBuilder) *querydsl.ExistsQueryBuilder {
			return b.Field(field)
		})
		if err != nil {
			return querydsl.Query{}, false, err
		}
		filter = append(filter, q.ToQuery())
	}

	if len(must) == 1 && len(filter) == 0 {
		return must[0], true, nil
	}
	q, err := querydsl.BoolOf(func(b *querydsl.BoolQueryBuilder) *querydsl.BoolQueryBuilder {
		if len(must) > 0 {
			b.Must(must...)
		}
		if len(filter) > 0 {
			b.Filter(filter...)
		}
		return b
	})
	if err != nil {
		return querydsl.Query{}, false, err
	}
	return q.ToQuery(), true, nil
}

func splitClause(flag, s string) (string, string, error) {
	field, value, ok := strings.Cut(s, "=")
	if !ok || field == "" {
		return "", "", fmt.Errorf("%s: want field=value, got %q", flag, s)
	}
	return field, value, nil
}

// termValue keeps JSON numbers and booleans typed; anything else is a string.
func termValue(raw string) types.FieldValue {
	var fv types.FieldValue
	if err := json.Unmarshal([]byte(raw), &fv); err == nil && fv.Kind() != types.FieldValueString && fv.Kind() != types.FieldValueNull {
		return fv
	}
	return types.StringValue(raw)
}
