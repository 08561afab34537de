package synse

import (
	"net/url"
	"strings"
)

// encodeTagGroups adds tag group filters to a query parameter set.
//
// Each group becomes one `tags` parameter with its members comma-joined:
// a device must carry every tag within a group to match it, and the server
// unions the matches across groups. Empty groups are skipped so that a
// caller building groups conditionally does not send empty filters.
func encodeTagGroups(groups [][]string, params url.Values) {
	for _, group := range groups {
		if len(group) == 0 {
			continue
		}
		params.Add("tags", strings.Join(group, ","))
	}
}
