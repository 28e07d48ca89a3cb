package fakeserver

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/kailas-cloud/osclient/querydsl"
	"github.com/kailas-cloud/osclient/types"
)

// evaluate reports whether src matches q and the score it earns. The zero
// Query matches everything.
func evaluate(q querydsl.Query, src map[string]any) (bool, float64) {
	switch q.Kind() {
	case "", querydsl.KindMatchAll:
		boost := 1.0
		if mq, ok := q.MatchAll(); ok {
			boost = mq.Boost().UnwrapOr(1)
		}
		return true, boost
	case querydsl.KindTerm:
		tq, _ := q.Term()
		return evalTerm(tq, src)
	case querydsl.KindMatch:
		mq, _ := q.Match()
		return evalMatch(mq, src)
	case querydsl.KindMatchPhrase:
		pq, _ := q.MatchPhrase()
		return evalMatchPhrase(pq, src)
	case querydsl.KindExists:
		eq, _ := q.Exists()
		if len(fieldValues(src, eq.Field())) == 0 {
			return false, 0
		}
		return true, eq.Boost().UnwrapOr(1)
	case querydsl.KindBool:
		bq, _ := q.Bool()
		return evalBool(bq, src)
	}
	return false, 0
}

func evalTerm(q *querydsl.TermQuery, src map[string]any) (bool, float64) {
	ci := q.CaseInsensitive().UnwrapOr(false)
	for _, v := range fieldValues(src, q.Field()) {
		if termEquals(v, q.Value(), ci) {
			return true, q.Boost().UnwrapOr(1)
		}
	}
	return false, 0
}

func termEquals(v any, want types.FieldValue, caseInsensitive bool) bool {
	switch want.Kind() {
	case types.FieldValueString:
		s, _ := want.Str()
		got, ok := scalarText(v)
		if !ok {
			return false
		}
		if caseInsensitive {
			return strings.EqualFold(got, s)
		}
		return got == s
	case types.FieldValueLong, types.FieldValueDouble:
		n, ok := v.(json.Number)
		if !ok {
			return false
		}
		f, err := n.Float64()
		if err != nil {
			return false
		}
		if l, isLong := want.Long(); isLong {
			return f == float64(l)
		}
		d, _ := want.Double()
		return f == d
	case types.FieldValueBool:
		b, _ := want.Bool()
		got, ok := v.(bool)
		return ok && got == b
	}
	return false
}

func evalMatch(q *querydsl.MatchQuery, src map[string]any) (bool, float64) {
	terms := analyze(q.Query().String())
	if len(terms) == 0 {
		return zeroTerms(q.ZeroTermsQuery().UnwrapOr(querydsl.ZeroTermsQueryNone), q.Boost().UnwrapOr(1))
	}

	present := make(map[string]struct{})
	for _, v := range fieldValues(src, q.Field()) {
		if s, ok := scalarText(v); ok {
			for _, tok := range analyze(s) {
				present[tok] = struct{}{}
			}
		}
	}

	matched := 0
	for _, t := range terms {
		if _, ok := present[t]; ok {
			matched++
		}
	}

	required := 1
	if q.Operator().UnwrapOr(querydsl.OperatorOr) == querydsl.OperatorAnd {
		required = len(terms)
	} else if msm, ok := q.MinimumShouldMatch().Get(); ok {
		required = minimumShouldMatch(msm, len(terms))
	}
	if matched == 0 || matched < required {
		return false, 0
	}
	return true, q.Boost().UnwrapOr(1) * float64(matched) / float64(len(terms))
}

func evalMatchPhrase(q *querydsl.MatchPhraseQuery, src map[string]any) (bool, float64) {
	phrase := analyze(q.Query())
	if len(phrase) == 0 {
		return zeroTerms(q.ZeroTermsQuery().UnwrapOr(querydsl.ZeroTermsQueryNone), q.Boost().UnwrapOr(1))
	}
	slop := q.Slop().UnwrapOr(0)

	best := -1
	for _, v := range fieldValues(src, q.Field()) {
		s, ok := scalarText(v)
		if !ok {
			continue
		}
		if gaps, ok := phraseGaps(analyze(s), phrase, slop); ok && (best < 0 || gaps < best) {
			best = gaps
		}
	}
	if best < 0 {
		return false, 0
	}
	return true, q.Boost().UnwrapOr(1) / float64(1+best)
}

// phraseGaps finds phrase in tokens, in order, with at most slop skipped
// tokens in total. It returns the smallest number of skipped tokens.
func phraseGaps(tokens, phrase []string, slop int) (int, bool) {
	best := -1
	for start, tok := range tokens {
		if tok != phrase[0] {
			continue
		}
		pos, gaps := start, 0
		matched := true
		for _, want := range phrase[1:] {
			next := -1
			for k := pos + 1; k < len(tokens); k++ {
				if tokens[k] == want {
					next = k
					break
				}
			}
			if next < 0 {
				matched = false
				break
			}
			gaps += next - pos - 1
			if gaps > slop {
				matched = false
				break
			}
			pos = next
		}
		if matched && (best < 0 || gaps < best) {
			best = gaps
		}
	}
	return best, best >= 0
}

func evalBool(q *querydsl.BoolQuery, src map[string]any) (bool, float64) {
	var score float64
	for _, c := range q.Must() {
		ok, s := evaluate(c, src)
		if !ok {
			return false, 0
		}
		score += s
	}
	for _, c := range q.Filter() {
		if ok, _ := evaluate(c, src); !ok {
			return false, 0
		}
	}
	for _, c := range q.MustNot() {
		if ok, _ := evaluate(c, src); ok {
			return false, 0
		}
	}

	should := q.Should()
	required := 0
	if len(should) > 0 && len(q.Must()) == 0 && len(q.Filter()) == 0 {
		required = 1
	}
	if msm, ok := q.MinimumShouldMatch().Get(); ok {
		required = minimumShouldMatch(msm, len(should))
	}
	matched := 0
	for _, c := range should {
		if ok, s := evaluate(c, src); ok {
			matched++
			score += s
		}
	}
	if matched < required {
		return false, 0
	}
	if len(q.Must()) == 0 && len(should) == 0 && len(q.Filter()) == 0 {
		score = 1
	}
	return true, q.Boost().UnwrapOr(1) * score
}

func zeroTerms(z querydsl.ZeroTermsQuery, boost float64) (bool, float64) {
	if z == querydsl.ZeroTermsQueryAll {
		return true, boost
	}
	return false, 0
}

// minimumShouldMatch resolves "2", "-1", "75%" and "-25%" against n
// optional clauses.
func minimumShouldMatch(spec string, n int) int {
	spec = strings.TrimSpace(spec)
	var req int
	if p, ok := strings.CutSuffix(spec, "%"); ok {
		pct, err := strconv.Atoi(p)
		if err != nil {
			return 1
		}
		req = int(math.Floor(float64(n) * float64(pct) / 100))
		if pct < 0 {
			req = n + int(math.Ceil(float64(n)*float64(pct)/100))
		}
	} else {
		v, err := strconv.Atoi(spec)
		if err != nil {
			return 1
		}
		req = v
		if v < 0 {
			req = n + v
		}
	}
	return max(0, min(req, n))
}

// analyze case-folds text and splits it on anything that is not a letter
// or a digit. A Caser is stateful, so each call gets its own.
func analyze(text string) []string {
	return strings.FieldsFunc(cases.Fold().String(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func scalarText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

// fieldValues resolves a dotted field path in src. Arrays are flattened
// and nulls dropped.
func fieldValues(src map[string]any, path string) []any {
	if v, ok := src[path]; ok {
		return flatten(v, nil)
	}
	head, rest, found := strings.Cut(path, ".")
	if !found {
		return nil
	}
	var out []any
	for _, child := range flatten(src[head], nil) {
		if m, ok := child.(map[string]any); ok {
			out = append(out, fieldValues(m, rest)...)
		}
	}
	return out
}

func flatten(v any, out []any) []any {
	switch t := v.(type) {
	case nil:
		return out
	case []any:
		for _, e := range t {
			out = flatten(e, out)
		}
		return out
	}
	return append(out, v)
}

// walkQuery calls fn for q and every clause nested in it.
func walkQuery(q querydsl.Query, fn func(querydsl.Kind)) {
	if q.IsZero() {
		return
	}
	fn(q.Kind())
	if bq, ok := q.Bool(); ok {
		for _, list := range [][]querydsl.Query{bq.Must(), bq.Filter(), bq.MustNot(), bq.Should()} {
			for _, c := range list {
				walkQuery(c, fn)
			}
		}
	}
}
