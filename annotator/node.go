package annotator

import (
	"unicode/utf16"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/sagaloc/location"
)

const (
	generatorDeclarationType = "generator_function_declaration"
	generatorFunctionType    = "generator_function"
	exportStatementType      = "export_statement"
	yieldExpressionType      = "yield_expression"
	callExpressionType       = "call_expression"
	optionalChainType        = "optional_chain"
	templateStringType       = "template_string"
)

// transparentTypes are tree-sitter nodes without ESTree counterpart, skipped when ancestors are counted
var transparentTypes = map[string]bool{
	"parenthesized_expression": true,
	"arguments":                true,
	"template_substitution":    true,
}

// yieldAncestorDepth is the number of ancestors inspected for a yield expression
const yieldAncestorDepth = 2

// logicalParent returns the closest ancestor that is not a transparent node
func logicalParent(node *sitter.Node) *sitter.Node {
	parent := node.Parent()
	for parent != nil && transparentTypes[parent.Type()] {
		parent = parent.Parent()
	}
	return parent
}

// isYieldOperand returns true if a yield expression is the parent or grandparent of the node.
// What the intermediate node is does not matter, unless it is an effect call itself: a wrapped call
// moves its callee and arguments away from the yield.
func isYieldOperand(node *sitter.Node) bool {
	ancestor := logicalParent(node)
	for level := 1; level <= yieldAncestorDepth && ancestor != nil; level++ {
		if ancestor.Type() == yieldExpressionType {
			return true
		}
		if isCall(ancestor) {
			return false
		}
		ancestor = logicalParent(ancestor)
	}
	return false
}

// isCall returns true for plain call expressions, tagged templates and optional calls are excluded
func isCall(node *sitter.Node) bool {
	if node.Type() != callExpressionType {
		return false
	}
	if args := node.ChildByFieldName("arguments"); args != nil && args.Type() == templateStringType {
		return false
	}
	return !isOptionalChain(node)
}

func isOptionalChain(node *sitter.Node) bool {
	for node != nil {
		for i := 0; i < int(node.ChildCount()); i++ {
			switch node.Child(i).Type() {
			case optionalChainType, "?.":
				return true
			}
		}
		switch node.Type() {
		case callExpressionType:
			node = node.ChildByFieldName("function")
		case "member_expression", "subscript_expression":
			node = node.ChildByFieldName("object")
		default:
			return false
		}
	}
	return false
}

// hasPosition returns true if node was read from source rather than inserted by error recovery
func hasPosition(node *sitter.Node) bool {
	return !node.IsMissing() && node.EndByte() > node.StartByte()
}

// position returns node start with column counted in UTF-16 code units, tree-sitter columns are byte offsets
func position(node *sitter.Node, src []byte) location.Position {
	point := node.StartPoint()
	end := int(node.StartByte())
	start := end - int(point.Column)
	if start < 0 || end > len(src) {
		return location.Position{Line: int(point.Row) + 1, Column: int(point.Column)}
	}
	return location.Position{Line: int(point.Row) + 1, Column: len(utf16.Encode([]rune(string(src[start:end]))))}
}

// firstError returns the first error or missing node
func firstError(node *sitter.Node) *sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil || !(child.HasError() || child.IsMissing()) {
			continue
		}
		if found := firstError(child); found != nil {
			return found
		}
	}
	return nil
}
