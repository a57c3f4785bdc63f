// internal/app/system/limits/limits.go
package limits

// Request body size limits for the JSON API.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBody is the default cap for a decoded request body.
	MaxJSONBody = 1 << 20 // 1 MB

	// MaxSuggestedMembers caps how many people one proposal may name.
	MaxSuggestedMembers = 200

	// MaxListLimit caps the page size of list endpoints.
	MaxListLimit = 200
)
