package main

import "github.com/cockroachdb/errors"

var (
	errKindNotFound      = errors.New("operand kind not found in grammar")
	errMissingOpPrefix   = errors.New(`instruction name does not start with "Op"`)
	errMalformedGrammar  = errors.New("malformed grammar")
	errInvalidIdentifier = errors.New("not usable as a C identifier")
	errUsage             = errors.New("invalid usage")
	errOutOfDate         = errors.New("generated files are out of date")
)
