package scheme

// ScanOptions are the parameters for the scan operation.
//
// Tags holds tag groups: a device matches a group only if it carries every
// tag in that group, and the scan result is the union over all groups. A
// nil or empty Tags applies no tag filtering.
type ScanOptions struct {
	// Force rebuilds the server's device cache before scanning. The request
	// takes longer, but the returned device set is guaranteed current.
	Force bool

	// NS is the default namespace applied to tags which do not specify one.
	NS string

	// Sort names the fields to sort results by, comma-separated
	// (e.g. "plugin,id"). Empty uses the server default ordering.
	Sort string

	// Tags are the tag groups to filter devices on.
	Tags [][]string
}

// ReadOptions are the parameters for the read operation. Tag groups behave
// as described on ScanOptions.
type ReadOptions struct {
	NS   string
	Tags [][]string
}

// ReadCacheOptions bound the window of cached readings to return. Both
// bounds are RFC3339 timestamps; an empty bound is unbounded on that side.
type ReadCacheOptions struct {
	Start string
	End   string
}

// ReadStreamOptions constrain which devices a WebSocket reading stream
// covers. Empty options stream readings for all devices.
type ReadStreamOptions struct {
	// IDs restricts the stream to the named devices.
	IDs []string

	// TagGroups restricts the stream to devices matching the tag groups.
	TagGroups [][]string
}

// TagsOptions are the parameters for the tags operation.
type TagsOptions struct {
	// NS names the tag namespaces to search. Empty searches the default
	// namespace.
	NS []string

	// IDs includes the per-device ID tags in the response.
	IDs bool
}
