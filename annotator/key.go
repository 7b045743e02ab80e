package annotator

import "strconv"

// SymbolName is the registry name metadata is attached under
const SymbolName = "@@redux-saga/LOCATION"

// Key represents metadata key expression, resolved once per compilation unit
type Key struct {
	UseSymbol  bool
	expression string
}

// Expression returns key JavaScript expression
func (k Key) Expression() string {
	return k.expression
}

// NewKey creates a key: a plain string literal when useSymbol is false, a Symbol.for registry lookup otherwise
func NewKey(useSymbol bool) Key {
	name := strconv.Quote(SymbolName)
	if !useSymbol {
		return Key{expression: name}
	}
	return Key{UseSymbol: true, expression: "Symbol.for(" + name + ")"}
}
