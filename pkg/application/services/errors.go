package services

import "errors"

// ErrNoBOM is returned when the requested product has no applicable bill of materials
var ErrNoBOM = errors.New("no bill of materials found")
