package attr

import (
	"github.com/zclconf/go-cty/cty"
)

// Kind identifies the type of a build action attribute.
type Kind int

const (
	// KindUnknown is the zero Kind, used for attributes whose definition
	// could not be resolved (e.g. loaded for an unregistered action).
	KindUnknown Kind = iota
	KindBool
	KindInt
	KindFloat
	KindVector3
	KindString
	KindStringList
	KindOption
	KindNodeRef
	KindNodeRefList
	KindFilePath
)

var kindNames = map[Kind]string{
	KindBool:        "bool",
	KindInt:         "int",
	KindFloat:       "float",
	KindVector3:     "vector3",
	KindString:      "string",
	KindStringList:  "stringlist",
	KindOption:      "option",
	KindNodeRef:     "node",
	KindNodeRefList: "nodelist",
	KindFilePath:    "file",
}

// String returns the serialized name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind returns the Kind for a serialized kind name.
func ParseKind(name string) Kind {
	for k, n := range kindNames {
		if n == name {
			return k
		}
	}
	return KindUnknown
}

// CtyType returns the cty type used to represent values of this kind.
func (k Kind) CtyType() cty.Type {
	switch k {
	case KindBool:
		return cty.Bool
	case KindInt, KindFloat, KindOption:
		return cty.Number
	case KindVector3:
		return cty.List(cty.Number)
	case KindString, KindNodeRef, KindFilePath:
		return cty.String
	case KindStringList, KindNodeRefList:
		return cty.List(cty.String)
	default:
		return cty.DynamicPseudoType
	}
}

// Default returns the intrinsic default value for the kind, used when a
// definition does not declare an explicit default.
func (k Kind) Default() cty.Value {
	switch k {
	case KindBool:
		return cty.False
	case KindInt, KindFloat, KindOption:
		return cty.Zero
	case KindVector3:
		return cty.ListVal([]cty.Value{cty.Zero, cty.Zero, cty.Zero})
	case KindString, KindFilePath:
		return cty.StringVal("")
	case KindNodeRef:
		return cty.NullVal(cty.String)
	case KindStringList, KindNodeRefList:
		return cty.ListValEmpty(cty.String)
	default:
		return cty.NullVal(cty.DynamicPseudoType)
	}
}
