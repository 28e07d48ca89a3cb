// Package types holds API types shared by several endpoints: enums sent
// as query parameters, `_source` selectors, field values and the
// structured error payload.
package types
