package utils

import "errors"

// ErrorRecordNotFound is returned by the fetch and validate helpers when a
// row does not exist under the caller's community. Handlers map it to 404.
var ErrorRecordNotFound = errors.New("record not found")
