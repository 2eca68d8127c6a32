package api

// SchemaRequest carries a raw schema body
type SchemaRequest struct {
	Schema string `json:"schema"`
}

// SchemaResponse is a registered schema record
type SchemaResponse struct {
	ID      int64  `json:"id"`
	Schema  string `json:"schema"`
	Dialect string `json:"dialect"`
	Hash    string `json:"hash"`
}

// VersionResponse is one subject version
type VersionResponse struct {
	Subject string `json:"subject"`
	Version int    `json:"version"`
	ID      int64  `json:"id"`
	Schema  string `json:"schema"`
	Dialect string `json:"dialect"`
}

// RegisterResponse is returned when a schema is registered under a
// subject.
type RegisterResponse struct {
	ID      int64 `json:"id"`
	Version int   `json:"version"`
}

// ConfigRequest carries a compatibility level token; PUT echoes it back
type ConfigRequest struct {
	Compatibility string `json:"compatibility"`
}

// ConfigLevelResponse is the GET shape for a resolved compatibility
// level. The key differs from the PUT body on purpose.
type ConfigLevelResponse struct {
	CompatibilityLevel string `json:"compatibilityLevel"`
}

// CompatibilityResponse is the outcome of a dry-run check
type CompatibilityResponse struct {
	IsCompatible bool `json:"is_compatible"`
}

// GroupResponse is a schema group and its members
type GroupResponse struct {
	ID      int64   `json:"id"`
	Schemas []int64 `json:"schemas"`
}

// TagRequest carries a tag value
type TagRequest struct {
	Value string `json:"value"`
}

// TagResponse is a single tag value
type TagResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
