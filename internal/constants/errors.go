package constants

import "errors"

// CLI errors.
var (
	ErrFunctionOrQueryRequired = errors.New("must provide function or query")
	ErrUnsupportedOutputFormat = errors.New("unsupported output format")
	ErrTabularRequiresFunction = errors.New("tabular output requires a function")
)
