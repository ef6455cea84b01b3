package pipeline

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSrc string

// validateSchema unifies a generically-decoded document with the
// embedded #Config definition. Definitions are closed, so unknown
// fields fail unification along with shape and type mismatches.
func validateSchema(raw any) []error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSrc)
	if err := schema.Err(); err != nil {
		// The schema is embedded; failing to compile it is a bug, not
		// a property of the document under validation.
		panic(fmt.Sprintf("pipeline: embedded schema does not compile: %v", err))
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	doc := ctx.Encode(raw)
	if err := doc.Err(); err != nil {
		return []error{&ConfigError{Code: ErrCodeSchema, Message: fmt.Sprintf("encoding document: %v", err)}}
	}

	unified := def.Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		var errs []error
		for _, e := range cueerrors.Errors(err) {
			errs = append(errs, &ConfigError{
				Code:    ErrCodeSchema,
				Path:    strings.Join(cueerrors.Path(e), "."),
				Message: e.Error(),
			})
		}
		return errs
	}
	return nil
}
