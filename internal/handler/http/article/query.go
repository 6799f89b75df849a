package article

import (
	"net/http"
	"strconv"
)

// Flag reports whether the query parameter name is set to a true value.
// Anything unparsable is false.
func Flag(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}
