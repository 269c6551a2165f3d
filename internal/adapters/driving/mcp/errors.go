package mcp

import "errors"

// ErrMissingRetrieveService indicates the retrieve port was not provided.
var ErrMissingRetrieveService = errors.New("mcp: retrieve service is required")
