package protocol

import (
	"fmt"

	"github.com/hdbdrv/gohdb/internal/protocol/encoding"
)

// ColumnOption is a bitmask of ResultSetMetadata column flags.
type ColumnOption int8

const (
	coMandatory ColumnOption = 0x01
	coOptional  ColumnOption = 0x02
)

// FieldDescriptor describes one result-set column or one prepared
// statement parameter. ResultSetMetadata and ParameterMetadata are
// reference-counted and shared across every row/execution of a
// statement, so descriptors are immutable once decoded.
type FieldDescriptor struct {
	TableName         string
	SchemaName        string
	ColumnName        string
	ColumnDisplayName string
	Options           ColumnOption
	TypeCode          TypeCode
	Scale             int16
	Length            int16

	tableNameOffset  uint32
	schemaNameOffset uint32
	columnNameOffset uint32
	displayNameOffset uint32
}

func (f *FieldDescriptor) String() string {
	return fmt.Sprintf("%s %s scale=%d length=%d nullable=%v", f.ColumnDisplayName, f.TypeCode, f.Scale, f.Length, f.Nullable())
}

// Nullable reports whether the column accepts NULL.
func (f *FieldDescriptor) Nullable() bool { return f.Options == coOptional }

func (f *FieldDescriptor) decode(dec *encoding.Decoder) {
	f.Options = ColumnOption(dec.Int8())
	f.TypeCode = TypeCode(dec.Byte())
	f.Scale = dec.Int16()
	f.Length = dec.Int16()
	dec.Skip(2)
	f.tableNameOffset = dec.Uint32()
	f.schemaNameOffset = dec.Uint32()
	f.columnNameOffset = dec.Uint32()
	f.displayNameOffset = dec.Uint32()
}

// ResultSetMetadata is the shared, immutable field descriptor list for
// one result set. It is reference-counted by every open cursor derived
// from the same statement execution.
type ResultSetMetadata struct {
	Fields   []*FieldDescriptor
	refCount int32
}

func (m *ResultSetMetadata) kind() PartKind { return PkResultMetadata }

func (m *ResultSetMetadata) decode(dec *encoding.Decoder, ph *PartHeader) error {
	m.Fields = make([]*FieldDescriptor, ph.NumArg())
	names := fieldNames{}
	for i := range m.Fields {
		f := &FieldDescriptor{}
		f.decode(dec)
		m.Fields[i] = f
		names.insert(f.tableNameOffset)
		names.insert(f.schemaNameOffset)
		names.insert(f.columnNameOffset)
		names.insert(f.displayNameOffset)
	}
	names.decode(dec)
	for _, f := range m.Fields {
		f.TableName = names.name(f.tableNameOffset)
		f.SchemaName = names.name(f.schemaNameOffset)
		f.ColumnName = names.name(f.columnNameOffset)
		f.ColumnDisplayName = names.name(f.displayNameOffset)
	}
	return dec.Error()
}

// Retain/Release implement the reference-counted lifetime described for
// shared metadata: the last cursor or statement to release a metadata
// instance is responsible for triggering its server-side cleanup.
func (m *ResultSetMetadata) Retain()        { m.refCount++ }
func (m *ResultSetMetadata) Release() int32 { m.refCount--; return m.refCount }

// ParameterOptions is a bitmask of ParameterMetadata flags.
type ParameterOptions int8

const (
	poMandatory ParameterOptions = 0x01
	poOptional  ParameterOptions = 0x02
	poDefault   ParameterOptions = 0x04
)

// ParameterMode indicates a parameter's direction for a stored
// procedure call; plain DML/queries only ever use ParamIn.
type ParameterMode int8

const (
	ParamIn    ParameterMode = 0x01
	ParamInOut ParameterMode = 0x02
	ParamOut   ParameterMode = 0x04
)

// ParameterDescriptor describes one bind parameter or output column of
// a prepared statement.
type ParameterDescriptor struct {
	Name     string
	Options  ParameterOptions
	TypeCode TypeCode
	Mode     ParameterMode
	Scale    int16
	Length   int16

	nameOffset uint32
}

func (f *ParameterDescriptor) In() bool  { return f.Mode == ParamIn || f.Mode == ParamInOut }
func (f *ParameterDescriptor) Out() bool { return f.Mode == ParamOut || f.Mode == ParamInOut }
func (f *ParameterDescriptor) Nullable() bool { return f.Options == poOptional }

func (f *ParameterDescriptor) decode(dec *encoding.Decoder) {
	f.Options = ParameterOptions(dec.Int8())
	f.TypeCode = TypeCode(dec.Byte())
	f.Mode = ParameterMode(dec.Int8())
	dec.Skip(1)
	f.nameOffset = dec.Uint32()
	f.Length = dec.Int16()
	f.Scale = dec.Int16()
	dec.Skip(4)
}

// ParameterMetadata is the shared, immutable parameter descriptor list
// produced by PREPARE, reference-counted like ResultSetMetadata.
type ParameterMetadata struct {
	Fields   []*ParameterDescriptor
	refCount int32
}

func (m *ParameterMetadata) kind() PartKind { return PkParameterMetadata }

func (m *ParameterMetadata) decode(dec *encoding.Decoder, ph *PartHeader) error {
	m.Fields = make([]*ParameterDescriptor, ph.NumArg())
	names := fieldNames{}
	for i := range m.Fields {
		f := &ParameterDescriptor{}
		f.decode(dec)
		m.Fields[i] = f
		names.insert(f.nameOffset)
	}
	names.decode(dec)
	for _, f := range m.Fields {
		f.Name = names.name(f.nameOffset)
	}
	return dec.Error()
}

func (m *ParameterMetadata) Retain()        { m.refCount++ }
func (m *ParameterMetadata) Release() int32 { m.refCount--; return m.refCount }
