package diag

import (
	"fmt"
	"slices"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexTokenTooLong             Code = 1005
	LexUnterminatedChar         Code = 1006
	LexBadRawString             Code = 1007
	LexNonNFCIdent              Code = 1008
	LexBadEscape                Code = 1009

	// Синтаксис элементов
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynUnclosedDelimiter  Code = 2002
	SynExpectIdentifier   Code = 2003
	SynExpectType         Code = 2004
	SynExpectSemicolon    Code = 2005
	SynExpectColon        Code = 2006
	SynUnexpectedTopLevel Code = 2007
	SynAttributeNoItem    Code = 2008
	SynBadAttribute       Code = 2009
	SynExpectBody         Code = 2010
	SynTooManyErrors      Code = 2011

	// Ввод-вывод
	IOInfo          Code = 3000
	IOLoadFileError Code = 3001
	IOWriteError    Code = 3002
	IOCacheError    Code = 3003

	// AnnotationError
	AtrInfo              Code = 4000
	AtrUnknown           Code = 4001
	AtrWrongCarrier      Code = 4002
	AtrUnknownArgument   Code = 4003
	AtrDuplicateKey      Code = 4004
	AtrMissingArgument   Code = 4005
	AtrUnexpectedArgs    Code = 4006
	AtrMalformedArgument Code = 4007
	AtrDuplicateStore    Code = 4008
	AtrDuplicate         Code = 4009
	AtrConflict          Code = 4010
	AtrUnknownReply      Code = 4011
	AtrDebugNoDerive     Code = 4012
	AtrUnknownCategory   Code = 4013
	AtrMissingStore      Code = 4014
	AtrDuplicateMessage  Code = 4015

	// TypeResolutionError
	TypInfo              Code = 5000
	TypMissingInfo       Code = 5001
	TypUnsupportedShape  Code = 5002
	TypNestedComposite   Code = 5003
	TypHashMapKey        Code = 5004
	TypHashMapValue      Code = 5005
	TypOptionOfReference Code = 5006
	TypOptionOfValue     Code = 5007
	TypReferenceInVec    Code = 5008
	TypBareStr           Code = 5009
	TypUnsupportedReturn Code = 5010
	TypUnsupportedParam  Code = 5011
	TypUndeclared        Code = 5012
	TypUnsupportedField  Code = 5013

	// ShapeError
	ShpInfo            Code = 6000
	ShpTupleStruct     Code = 6001
	ShpUnion           Code = 6002
	ShpPatternParam    Code = 6003
	ShpOwnedSelf       Code = 6004
	ShpMessagePayload  Code = 6005
	ShpGeneric         Code = 6006
	ShpModelEnumFields Code = 6007
	ShpReplyVariant    Code = 6008
	ShpNoExports       Code = 6009
	ShpUnsupportedItem Code = 6010

	// InternalInvariantError
	IntInfo            Code = 7000
	IntDuplicateSymbol Code = 7001
	IntPrecondition    Code = 7002

	// rid.toml
	CfgInfo            Code = 8000
	CfgInvalidManifest Code = 8001
	CfgNoInputs        Code = 8002

	// Наблюдаемость
	ObsInfo    Code = 9000
	ObsTimings Code = 9001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string literal",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Malformed number literal",
		LexTokenTooLong:             "Token too long",
		LexUnterminatedChar:         "Unterminated character literal",
		LexBadRawString:             "Malformed raw string literal",
		LexNonNFCIdent:              "Identifier is not NFC-normalized",
		LexBadEscape:                "Unknown escape sequence",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynUnclosedDelimiter:        "Unclosed delimiter",
		SynExpectIdentifier:         "Expect identifier",
		SynExpectType:               "Expect type",
		SynExpectSemicolon:          "Expect semicolon",
		SynExpectColon:              "Expect colon",
		SynUnexpectedTopLevel:       "Unexpected top-level construct",
		SynAttributeNoItem:          "Attribute is not followed by an item",
		SynBadAttribute:             "Malformed attribute",
		SynExpectBody:               "Expect item body",
		SynTooManyErrors:            "Too many syntax errors",
		IOInfo:                      "I/O information",
		IOLoadFileError:             "I/O load file error",
		IOWriteError:                "I/O write error",
		IOCacheError:                "Cache error",
		AtrInfo:                     "Annotation information",
		AtrUnknown:                  "Unknown rid annotation",
		AtrWrongCarrier:             "Annotation not allowed on this item",
		AtrUnknownArgument:          "Unknown annotation argument",
		AtrDuplicateKey:             "Duplicate type registration",
		AtrMissingArgument:          "Annotation argument missing",
		AtrUnexpectedArgs:           "Annotation takes no arguments",
		AtrMalformedArgument:        "Malformed annotation argument",
		AtrDuplicateStore:           "More than one store",
		AtrDuplicate:                "Duplicate annotation",
		AtrConflict:                 "Conflicting annotations",
		AtrUnknownReply:             "Message names an unknown reply enum",
		AtrDebugNoDerive:            "debug requested without derive(Debug)",
		AtrUnknownCategory:          "Unknown type category",
		AtrMissingStore:             "Message enum without a store",
		AtrDuplicateMessage:         "More than one message enum",
		TypInfo:                     "Type information",
		TypMissingInfo:              "Missing type registration",
		TypUnsupportedShape:         "Unsupported type shape",
		TypNestedComposite:          "Nested composite type",
		TypHashMapKey:               "HashMap key must be primitive",
		TypHashMapValue:             "HashMap value must be primitive",
		TypOptionOfReference:        "Option of a reference",
		TypOptionOfValue:            "Option of a non-pointer type",
		TypReferenceInVec:           "Reference inside Vec",
		TypBareStr:                  "Unsized str without reference",
		TypUnsupportedReturn:        "Unsupported return type",
		TypUnsupportedParam:         "Unsupported parameter type",
		TypUndeclared:               "Registered type has no declaration",
		TypUnsupportedField:         "Unsupported field type",
		ShpInfo:                     "Shape information",
		ShpTupleStruct:              "Tuple struct",
		ShpUnion:                    "Union",
		ShpPatternParam:             "Non-identifier parameter pattern",
		ShpOwnedSelf:                "Method takes self by value",
		ShpMessagePayload:           "Unsupported message payload",
		ShpGeneric:                  "Generic item",
		ShpModelEnumFields:          "Model enum variant carries fields",
		ShpReplyVariant:             "Unsupported reply variant shape",
		ShpNoExports:                "Exported impl has no exported methods",
		ShpUnsupportedItem:          "Unsupported item",
		IntInfo:                     "Internal information",
		IntDuplicateSymbol:          "Duplicate exported symbol",
		IntPrecondition:             "Emitter precondition violated",
		CfgInfo:                     "Configuration information",
		CfgInvalidManifest:          "Invalid rid.toml",
		CfgNoInputs:                 "No input files",
		ObsInfo:                     "Observability information",
		ObsTimings:                  "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("ATR%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("TYP%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("SHP%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("INT%04d", ic)
	case ic >= 8000 && ic < 9000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// Codes returns every known code in ascending order.
func Codes() []Code {
	out := make([]Code, 0, len(codeDescription))
	for c := range codeDescription {
		if c != UnknownCode {
			out = append(out, c)
		}
	}
	slices.Sort(out)
	return out
}
