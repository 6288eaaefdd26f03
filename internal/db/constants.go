package db

// SQL query fragments used across multiple functions
const (
	// sqlRegionScopeClause keeps customers that match a region filter. It
	// takes the filter value twice.
	sqlRegionScopeClause = `(? = 'all' OR EXISTS (
		SELECT 1 FROM customer_regions cr
		WHERE cr.customer_id = c.id AND cr.region = ?))`
)
