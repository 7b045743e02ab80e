package annotator

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/sagaloc/location"
)

// Unit represents a single compilation unit, it owns per file state for the duration of one traversal
type Unit struct {
	FileName    string
	basePath    string
	key         Key
	sourceMap   *location.SourceMap
	src         []byte
	edits       edits
	annotations []*Annotation
}

func (u *Unit) locate(node *sitter.Node) *location.Location {
	return location.Resolve(position(node, u.src), u.FileName, u.basePath, u.sourceMap)
}

// walk descends the tree dispatching node type handlers
func (u *Unit) walk(node *sitter.Node, depth int) error {
	switch node.Type() {
	case generatorDeclarationType:
		if err := u.annotateDeclaration(node, depth); err != nil {
			return err
		}
	case generatorFunctionType:
		if parent := node.Parent(); parent != nil && parent.Type() == exportStatementType {
			if err := u.annotateDeclaration(node, depth); err != nil {
				return err
			}
		}
	case callExpressionType:
		u.annotateEffect(node, depth)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if err := u.walk(node.Child(i), depth+1); err != nil {
			return err
		}
	}
	return nil
}

// annotateDeclaration inserts location statement after generator declaration, or after its export statement
func (u *Unit) annotateDeclaration(node *sitter.Node, depth int) error {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return u.missingName(node)
	}
	name := nameNode.Content(u.src)
	loc := u.locate(node)
	anchor, anchorDepth := node, depth
	if parent := node.Parent(); parent != nil && parent.Type() == exportStatementType {
		anchor, anchorDepth = parent, depth-1
	}
	u.edits.insertAfter(anchor.EndByte(), anchorDepth, " "+DeclarationStatement(name, u.key, loc))
	u.annotations = append(u.annotations, &Annotation{Kind: KindDeclaration, Name: name, Location: loc})
	return nil
}

// annotateEffect wraps a yielded call expression with location attachment
func (u *Unit) annotateEffect(node *sitter.Node, depth int) {
	if !isCall(node) || !isYieldOperand(node) {
		return
	}
	if !hasPosition(node) {
		return
	}
	loc := u.locate(node)
	code := node.Content(u.src)
	prefix, suffix := EffectWrapper(u.key, loc, code)
	u.edits.wrap(node.StartByte(), node.EndByte(), depth, prefix, suffix)
	name := ""
	if callee := node.ChildByFieldName("function"); callee != nil {
		name = callee.Content(u.src)
	}
	u.annotations = append(u.annotations, &Annotation{Kind: KindEffect, Name: name, Code: code, Location: loc})
}

// missingName reports a generator declaration without identifier, e.g. export default function* () {}
func (u *Unit) missingName(node *sitter.Node) error {
	pos := position(node, u.src)
	return fmt.Errorf("%s:%d:%d: generator declaration without name", u.FileName, pos.Line, pos.Column)
}
