package codegen

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/LiCHH/luna/ast"
	"github.com/LiCHH/luna/feedback"
	"github.com/LiCHH/luna/source"
)

// ErrorKind classifies why code generation stopped. Both kinds are fatal:
// there is no recovery within the code generator.
type ErrorKind int

const (
	// Unsupported marks an AST node the generator has no lowering for yet.
	Unsupported ErrorKind = iota
	// Internal marks a violated compiler invariant (bad register
	// bookkeeping, a name resolution that should have failed earlier).
	Internal
)

// CodegenError is the single error type code generation can fail with. It
// always carries the source span of the offending node so the caller can
// render a feedback.Error pointing straight at it.
type CodegenError struct {
	Kind ErrorKind
	Node ast.Node
	Msg  string
	file *source.File
}

func (e *CodegenError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.file.Filename, e.Node.Pos().Line, e.Msg)
}

// ToFeedback renders the error as a feedback.Error for the CLI to print.
func (e *CodegenError) ToFeedback() feedback.Error {
	classification := feedback.TypeCheckError
	return feedback.Error{
		Classification: classification,
		File:           e.file,
		What: feedback.Selection{
			Description: e.Msg,
			Span:        source.Span{Start: e.Node.Pos(), End: e.Node.End()},
		},
	}
}

func unsupported(file *source.File, node ast.Node, what string) *CodegenError {
	return &CodegenError{
		Kind: Unsupported,
		Node: node,
		Msg:  fmt.Sprintf("%s is not supported by this code generator yet", what),
		file: file,
	}
}

func internal(file *source.File, node ast.Node, format string, args ...interface{}) *CodegenError {
	return &CodegenError{
		Kind: Internal,
		Node: node,
		Msg:  errors.Wrap(fmt.Errorf(format, args...), "internal codegen invariant violated").Error(),
		file: file,
	}
}

// abort is the panic payload used to unwind the recursive visitor tree
// back to Generate on the first CodegenError: compilation is fatal and
// aborts rather than recovering, without threading an error return
// through every single visit method.
type abort struct {
	err *CodegenError
}

func (g *generator) fail(err *CodegenError) {
	panic(abort{err})
}
