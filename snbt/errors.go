package snbt

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dhamidi/nbtkit/grammar"
)

var (
	ErrNumberParseFailure   = grammar.ErrorType("Failed to parse number: %s")
	ErrExpectedHexEscape    = grammar.ErrorType("Expected character literal of length %s")
	ErrInvalidCodepoint     = grammar.ErrorType("Invalid Unicode character value: %s")
	ErrNoSuchOperation      = grammar.ErrorType("No such operation: %s")
	ErrExpectedIntegerType  = grammar.ErrorType("Expected integer number")
	ErrExpectedFloatType    = grammar.ErrorType("Expected floating point number")
	ErrExpectedNonNegative  = grammar.ErrorType("Expected non-negative number")
	ErrInvalidCharacterName = grammar.ErrorType("Invalid Unicode character name")
	ErrInvalidArrayElement  = grammar.ErrorType("Invalid array element type")
	ErrInvalidUnquotedStart = grammar.ErrorType("Unquoted strings can't start with digits 0-9, + or -")
	ErrExpectedUnquoted     = grammar.ErrorType("Expected valid unquoted string")
	ErrInvalidStringContent = grammar.ErrorType("Invalid string contents")
	ErrExpectedBinary       = grammar.ErrorType("Expected a binary number")
	ErrUnderscoreNotAllowed = grammar.ErrorType("Underscore characters are not allowed at the start or end of a number")
	ErrExpectedDecimal      = grammar.ErrorType("Expected a decimal number")
	ErrExpectedHex          = grammar.ErrorType("Expected a hexadecimal number")
	ErrEmptyKey             = grammar.ErrorType("Key can't be empty")
	ErrLeadingZero          = grammar.ErrorType("Decimal numbers can't start with 0")
	ErrInfinityNotAllowed   = grammar.ErrorType("Non-finite numbers are not allowed")
	ErrExpectedStringUUID   = grammar.ErrorType("Expected string representing a valid UUID")
	ErrExpectedNumberOrBool = grammar.ErrorType("Expected a number or a boolean")
	ErrTrailingData         = grammar.ErrorType("Unexpected trailing data")
	ErrExpectedCompound     = grammar.ErrorType("Expected compound tag")
)

var (
	expectedIntegerType  = ErrExpectedIntegerType.Delayed()
	expectedFloatType    = ErrExpectedFloatType.Delayed()
	expectedNonNegative  = ErrExpectedNonNegative.Delayed()
	invalidCharacterName = ErrInvalidCharacterName.Delayed()
	invalidArrayElement  = ErrInvalidArrayElement.Delayed()
	invalidUnquotedStart = ErrInvalidUnquotedStart.Delayed()
	expectedUnquoted     = ErrExpectedUnquoted.Delayed()
	invalidStringContent = ErrInvalidStringContent.Delayed()
	expectedBinary       = ErrExpectedBinary.Delayed()
	underscoreNotAllowed = ErrUnderscoreNotAllowed.Delayed()
	expectedDecimal      = ErrExpectedDecimal.Delayed()
	expectedHex          = ErrExpectedHex.Delayed()
	emptyKey             = ErrEmptyKey.Delayed()
	leadingZero          = ErrLeadingZero.Delayed()
	infinityNotAllowed   = ErrInfinityNotAllowed.Delayed()
	expectedStringUUID   = ErrExpectedStringUUID.Delayed()
	expectedNumberOrBool = ErrExpectedNumberOrBool.Delayed()
)

func numberParseFailure(err error) grammar.DelayedError {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ErrNumberParseFailure.Delayed(fmt.Sprintf("%q: %v", ne.Num, ne.Err))
	}
	return ErrNumberParseFailure.Delayed(err.Error())
}
