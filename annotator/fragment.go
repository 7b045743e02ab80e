package annotator

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/viant/sagaloc/location"
)

const wrapperName = "reduxSagaSource"

// DeclarationStatement returns a statement defining location property on the declared target
func DeclarationStatement(target string, key Key, loc *location.Location) string {
	builder := strings.Builder{}
	builder.WriteString("Object.defineProperty(")
	builder.WriteString(target)
	builder.WriteString(", ")
	builder.WriteString(key.Expression())
	builder.WriteString(", { value: ")
	writeLocation(&builder, loc, nil)
	builder.WriteString(" });")
	return builder.String()
}

// EffectWrapper returns prefix and suffix of an immediately invoked function wrapping an effect expression.
// The wrapped expression is evaluated exactly once and its value is returned with location property defined.
func EffectWrapper(key Key, loc *location.Location, code string) (string, string) {
	prefix := "(function " + wrapperName + "() { return Object.defineProperty("
	builder := strings.Builder{}
	builder.WriteString(", ")
	builder.WriteString(key.Expression())
	builder.WriteString(", { value: ")
	writeLocation(&builder, loc, &code)
	builder.WriteString(" }); })()")
	return prefix, builder.String()
}

func writeLocation(builder *strings.Builder, loc *location.Location, code *string) {
	builder.WriteString("{ fileName: ")
	builder.WriteString(stringLiteral(loc.FileName))
	builder.WriteString(", lineNumber: ")
	if loc.LineNumber > 0 {
		builder.WriteString(strconv.Itoa(loc.LineNumber))
	} else {
		builder.WriteString("null")
	}
	if code != nil {
		builder.WriteString(", code: ")
		builder.WriteString(stringLiteral(*code))
	}
	builder.WriteString(" }")
}

// stringLiteral returns a double-quoted JavaScript string literal
func stringLiteral(value string) string {
	buffer := bytes.Buffer{}
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return strconv.Quote(value)
	}
	return strings.TrimSuffix(buffer.String(), "\n")
}
