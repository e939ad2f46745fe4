// Package nbt implements the tagged binary tree format: the closed set of tag
// variants, a big-endian codec with resource accounting, a streaming visitor
// protocol for partial decodes, and a generic value sink used to build trees
// in other representations.
package nbt

import "fmt"

// TypeID is the one-byte wire identifier of a tag variant.
type TypeID byte

const (
	TypeEnd TypeID = iota
	TypeByte
	TypeShort
	TypeInt
	TypeLong
	TypeFloat
	TypeDouble
	TypeByteArray
	TypeString
	TypeList
	TypeCompound
	TypeIntArray
	TypeLongArray
)

var typeNames = [...]string{
	TypeEnd:       "END",
	TypeByte:      "BYTE",
	TypeShort:     "SHORT",
	TypeInt:       "INT",
	TypeLong:      "LONG",
	TypeFloat:     "FLOAT",
	TypeDouble:    "DOUBLE",
	TypeByteArray: "BYTE[]",
	TypeString:    "STRING",
	TypeList:      "LIST",
	TypeCompound:  "COMPOUND",
	TypeIntArray:  "INT[]",
	TypeLongArray: "LONG[]",
}

var prettyNames = [...]string{
	TypeEnd:       "TAG_End",
	TypeByte:      "TAG_Byte",
	TypeShort:     "TAG_Short",
	TypeInt:       "TAG_Int",
	TypeLong:      "TAG_Long",
	TypeFloat:     "TAG_Float",
	TypeDouble:    "TAG_Double",
	TypeByteArray: "TAG_Byte_Array",
	TypeString:    "TAG_String",
	TypeList:      "TAG_List",
	TypeCompound:  "TAG_Compound",
	TypeIntArray:  "TAG_Int_Array",
	TypeLongArray: "TAG_Long_Array",
}

// Valid reports whether t is one of the thirteen known variants.
func (t TypeID) Valid() bool {
	return t <= TypeLongArray
}

func (t TypeID) String() string {
	if !t.Valid() {
		return fmt.Sprintf("UNKNOWN_%d", byte(t))
	}
	return typeNames[t]
}

// PrettyName returns the conventional TAG_Xxx name of the variant.
func (t TypeID) PrettyName() string {
	if !t.Valid() {
		return fmt.Sprintf("UNKNOWN_%d", byte(t))
	}
	return prettyNames[t]
}

// IsNumeric reports whether t is one of the six numeric variants.
func (t TypeID) IsNumeric() bool {
	return t >= TypeByte && t <= TypeDouble
}
