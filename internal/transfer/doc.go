package transfer

// Package transfer implements the HTTP side of the upload widget: streaming a
// multipart batch to the processing endpoint with byte-level progress,
// querying task status, and fetching the processed result.
