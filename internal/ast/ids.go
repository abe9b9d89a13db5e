package ast

type (
	FileID    uint32
	ItemID    uint32
	TypeID    uint32
	AttrID    uint32
	FieldID   uint32
	VariantID uint32
	FnParamID uint32
	PayloadID uint32
)

const (
	NoFileID    FileID    = 0
	NoItemID    ItemID    = 0
	NoTypeID    TypeID    = 0
	NoAttrID    AttrID    = 0
	NoFieldID   FieldID   = 0
	NoVariantID VariantID = 0
	NoFnParamID FnParamID = 0
	NoPayloadID PayloadID = 0
)

func (id FileID) IsValid() bool    { return id != NoFileID }
func (id ItemID) IsValid() bool    { return id != NoItemID }
func (id TypeID) IsValid() bool    { return id != NoTypeID }
func (id AttrID) IsValid() bool    { return id != NoAttrID }
func (id FieldID) IsValid() bool   { return id != NoFieldID }
func (id VariantID) IsValid() bool { return id != NoVariantID }
func (id FnParamID) IsValid() bool { return id != NoFnParamID }
func (id PayloadID) IsValid() bool { return id != NoPayloadID }
