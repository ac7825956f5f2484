package parser

import "errors"

// ErrParse marks an AI response that is not valid JSON for the expected shape.
var ErrParse = errors.New("resume parse failed")
