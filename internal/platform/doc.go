package platform

// Package platform contains OS integration glue: filesystem helpers for the
// download directory, collision-free file naming, and OS reveal/open.
