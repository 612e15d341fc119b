package metadata

// operatorSymbols maps synthesized operator method names to their source
// symbol. Conversions map to their keyword.
var operatorSymbols = map[string]string{
	"op_Addition":           "+",
	"op_Subtraction":        "-",
	"op_Multiply":           "*",
	"op_Division":           "/",
	"op_Modulus":            "%",
	"op_BitwiseAnd":         "&",
	"op_BitwiseOr":          "|",
	"op_ExclusiveOr":        "^",
	"op_OnesComplement":     "~",
	"op_LogicalNot":         "!",
	"op_Equality":           "==",
	"op_Inequality":         "!=",
	"op_LessThan":           "<",
	"op_GreaterThan":        ">",
	"op_LessThanOrEqual":    "<=",
	"op_GreaterThanOrEqual": ">=",
	"op_LeftShift":          "<<",
	"op_RightShift":         ">>",
	"op_UnaryPlus":          "+",
	"op_UnaryNegation":      "-",
	"op_Increment":          "++",
	"op_Decrement":          "--",
	"op_True":               "true",
	"op_False":              "false",
	"op_Implicit":           "implicit",
	"op_Explicit":           "explicit",
}

// OperatorSymbol returns the source symbol of a synthesized operator name.
func OperatorSymbol(name string) (string, bool) {
	s, ok := operatorSymbols[name]
	return s, ok
}

// IsConversion reports whether name is a conversion operator.
func IsConversion(name string) bool {
	return name == "op_Implicit" || name == "op_Explicit"
}
