// Package config loads the optional CUE configuration file.
//
// The file is unified with the embedded #Config definition, so unknown
// fields, wrong types and out-of-range values are rejected with a CUE
// position. Command-line flags always override values loaded here.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaCUE string

// Config mirrors #Config. Zero values mean "not set".
type Config struct {
	Algorithm string `json:"algorithm,omitempty"`
	Format    string `json:"format,omitempty"`
	Encoding  string `json:"encoding,omitempty"`
	MaxDepth  *int   `json:"maxDepth,omitempty"`
	Reverse   bool   `json:"reverse,omitempty"`
	DB        string `json:"db,omitempty"`
	Output    string `json:"output,omitempty"`
}

// Error reports a configuration file that could not be used.
type Error struct {
	Path    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Load reads and validates the CUE file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Message: fmt.Sprintf("reading config: %v", err)}
	}
	return Parse(path, data)
}

// Parse validates data as a #Config. path is only used for positions.
func Parse(path string, data []byte) (*Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling embedded schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, newError(path, "parsing config", err)
	}

	unified := def.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, newError(path, "invalid config", err)
	}

	var cfg Config
	if err := unified.Decode(&cfg); err != nil {
		return nil, newError(path, "decoding config", err)
	}
	return &cfg, nil
}

func newError(path, context string, err error) *Error {
	e := &Error{Path: path, Message: fmt.Sprintf("%s: %v", context, err)}
	if errs := cueerrors.Errors(err); len(errs) > 0 {
		e.Pos = errs[0].Position()
	}
	return e
}
