// Copyright © 2024 The ELPS authors

package serr

// categories holds a short classification of each variant.  Unlike the
// rendered message a category never includes payload data.  Different
// variants may share a category.
//
// TODO: add a Trace variant wrapping a failure with the name of the form
// being evaluated, it needs an entry here and in kindStrings.
var categories = [numKinds]string{
	KindGeneric:          "An error.",
	KindFoundNothing:     "Expected some expression or token, found nothing.",
	KindEnvNotFound:      "Environment not found. (Probably an unbound variable)",
	KindDivisionByZero:   "Division by zero",
	KindUnexpectedForm:   "Expression is in unexpected form.",
	KindUnexpectedToken:  "Unexpected token.",
	KindNotExpectedToken: "Unexpected token.",
	KindCast:             "Failed conversion.",
	KindUnboundVar:       "Unbound variable.",
	KindNotAProcedure:    "Not a procedure.",
	KindWrongArgCount:    "Wrong arg count.",
	KindIndexOutOfBounds: "Index out of bounds.",
	KindTypeMismatch:     "Type mismatch.",
	KindWrongPort:        "Wrong type of port.",
	KindIOErr:            "IO error.",
	KindVarErr:           "Variable error.",
}

// Category returns the classification of e's variant, suitable for logs and
// metrics labels.
func Category(e Error) string {
	return e.Kind().Category()
}

// Category returns the classification of variant k.
func (k Kind) Category() string {
	if k >= numKinds {
		return ""
	}
	return categories[k]
}
