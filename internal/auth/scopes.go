package auth

// Known OAuth scopes used by the challenge API.
const (
	ScopeFitnessWrite = "fitness:write"
	ScopeFitnessRead  = "fitness:read"
)
