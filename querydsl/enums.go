package querydsl

import (
	"fmt"
	"strings"
)

// ZeroTermsQuery decides what a full-text query matches when the
// analyzer removes every token.
type ZeroTermsQuery string

// Zero-terms behaviours.
const (
	ZeroTermsQueryAll  ZeroTermsQuery = "all"
	ZeroTermsQueryNone ZeroTermsQuery = "none"
)

// UnmarshalText accepts the wire values in any case.
func (z *ZeroTermsQuery) UnmarshalText(text []byte) error {
	switch v := ZeroTermsQuery(strings.ToLower(string(text))); v {
	case ZeroTermsQueryAll, ZeroTermsQueryNone:
		*z = v
		return nil
	}
	return fmt.Errorf("unknown zero_terms_query %q", string(text))
}

// Operator combines the terms of an analyzed query.
type Operator string

// Operators.
const (
	OperatorAnd Operator = "and"
	OperatorOr  Operator = "or"
)

// UnmarshalText accepts the wire values in any case.
func (o *Operator) UnmarshalText(text []byte) error {
	switch v := Operator(strings.ToLower(string(text))); v {
	case OperatorAnd, OperatorOr:
		*o = v
		return nil
	}
	return fmt.Errorf("unknown operator %q", string(text))
}
