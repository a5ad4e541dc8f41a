package internaltypes

import "errors"

var (
	ErrConfigIncomplete = errors.New("vapi configuration incomplete - missing API keys")
	ErrNotFound         = errors.New("not found")
)
