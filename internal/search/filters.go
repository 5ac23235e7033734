// Package search talks to the external content-search index and builds the
// filter expressions that scope it to what an admin may see.
package search

import (
	"strings"
	"time"
)

// NoResultsFilter matches no document in the index. It stands in whenever a
// query must not show anything yet.
const NoResultsFilter = "aggregation_key:'__none__'"

// KeyState tracks the scoped search credential for the session.
type KeyState int

const (
	// KeyPending means the secured key fetch is still in flight.
	KeyPending KeyState = iota
	// KeyAvailable means a secured key scopes every query to the caller's catalogs.
	KeyAvailable
	// KeyUnavailable means queries must fall back to the customer-wide key.
	KeyUnavailable
)

func (s KeyState) String() string {
	switch s {
	case KeyPending:
		return "pending"
	case KeyAvailable:
		return "available"
	case KeyUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// SessionContext carries what filter building needs to know about the session.
type SessionContext struct {
	EnterpriseID string
	KeyState     KeyState
	SecuredKey   string
	ValidUntil   time.Time
}

// Scoped reports whether a usable secured key is present at now.
func (sc SessionContext) Scoped(now time.Time) bool {
	if sc.KeyState != KeyAvailable || sc.SecuredKey == "" {
		return false
	}
	return sc.ValidUntil.IsZero() || now.Before(sc.ValidUntil)
}

// BuildFilters returns the filter for showing exactly the selected content.
// aggregationKeys are index aggregation keys such as "course:edX+DemoX".
func BuildFilters(aggregationKeys []string, sc SessionContext) string {
	if len(aggregationKeys) == 0 || sc.KeyState == KeyPending {
		return NoResultsFilter
	}
	clauses := make([]string, 0, len(aggregationKeys))
	for _, k := range aggregationKeys {
		clauses = append(clauses, "aggregation_key:'"+quote(k)+"'")
	}
	disjunction := "(" + strings.Join(clauses, " OR ") + ")"
	if sc.KeyState == KeyAvailable {
		return disjunction
	}
	return customerClause(sc.EnterpriseID) + " AND " + disjunction
}

// BuildBrowseFilters returns the filter for the content browse step. With a
// secured key the credential already scopes results and no filter is needed.
func BuildBrowseFilters(sc SessionContext) string {
	switch sc.KeyState {
	case KeyPending:
		return NoResultsFilter
	case KeyAvailable:
		return ""
	default:
		return customerClause(sc.EnterpriseID)
	}
}

func customerClause(enterpriseID string) string {
	return "enterprise_customer_uuids:" + enterpriseID
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// AggregationKey joins a content type and a content key the way the index does.
func AggregationKey(contentType, contentKey string) string {
	return contentType + ":" + contentKey
}

// ContentKeyFromAggregation strips the content type prefix from an
// aggregation key. Keys without a prefix are returned as is.
func ContentKeyFromAggregation(aggregationKey string) string {
	if i := strings.Index(aggregationKey, ":"); i >= 0 {
		return aggregationKey[i+1:]
	}
	return aggregationKey
}
