package protocol

import (
	"fmt"

	"github.com/hdbdrv/gohdb/internal/protocol/encoding"
)

// optType is the wire discriminator preceding each option value: HANA
// option parts are a flat sequence of (key byte, optType byte, value)
// triples, repeated ArgumentCount times.
type optType int8

const (
	otBool     optType = 1
	otTinyint  optType = 2
	otInt      optType = 3
	otBigint   optType = 4
	otDouble   optType = 5
	otString   optType = 6
	otBytes    optType = 7
)

// plainOptions is a single flat key/value option set, used for
// ConnectOptions, ClientContext, StatementContext, TransactionFlags,
// FetchOptions, CommitOptions and DbConnectInfo. Keys are small enums
// specific to each part kind; values are late-bound to one of
// bool/int8/int32/int64/float64/string/[]byte depending on the wire optType.
type plainOptions map[int8]any

func (o plainOptions) size() int {
	n := 0
	for _, v := range o {
		n += 2 // key + optType
		n += optValueSize(v)
	}
	return n
}

func (o plainOptions) encode(enc *encoding.Encoder) error {
	for k, v := range o {
		ot, err := optValueType(v)
		if err != nil {
			return err
		}
		enc.Int8(k)
		enc.Int8(int8(ot))
		if err := encodeOptValue(enc, v); err != nil {
			return err
		}
	}
	return nil
}

// decode reads numArg (key, optType, value) triples into o.
func (o plainOptions) decode(dec *encoding.Decoder, numArg int) {
	for i := 0; i < numArg; i++ {
		k := dec.Int8()
		ot := optType(dec.Int8())
		o[k] = decodeOptValue(dec, ot)
	}
}

func optValueSize(v any) int {
	switch v := v.(type) {
	case bool:
		return 1
	case int8:
		return 1
	case int32:
		return 4
	case int64:
		return 8
	case float64:
		return 8
	case string:
		return 4 + len(v) // int32 length prefix + payload, per HANA option string encoding
	case []byte:
		return 4 + len(v)
	default:
		panic(fmt.Sprintf("protocol: unsupported option value type %T", v))
	}
}

func optValueType(v any) (optType, error) {
	switch v.(type) {
	case bool:
		return otBool, nil
	case int8:
		return otTinyint, nil
	case int32:
		return otInt, nil
	case int64:
		return otBigint, nil
	case float64:
		return otDouble, nil
	case string:
		return otString, nil
	case []byte:
		return otBytes, nil
	default:
		return 0, fmt.Errorf("protocol: unsupported option value type %T", v)
	}
}

func encodeOptValue(enc *encoding.Encoder, v any) error {
	switch v := v.(type) {
	case bool:
		enc.Bool(v)
	case int8:
		enc.Int8(v)
	case int32:
		enc.Int32(v)
	case int64:
		enc.Int64(v)
	case float64:
		enc.Float64(v)
	case string:
		b := []byte(v)
		enc.Int32(int32(len(b)))
		enc.Bytes(b)
	case []byte:
		enc.Int32(int32(len(v)))
		enc.Bytes(v)
	default:
		return fmt.Errorf("protocol: unsupported option value type %T", v)
	}
	return nil
}

func decodeOptValue(dec *encoding.Decoder, ot optType) any {
	switch ot {
	case otBool:
		return dec.Bool()
	case otTinyint:
		return dec.Int8()
	case otInt:
		return dec.Int32()
	case otBigint:
		return dec.Int64()
	case otDouble:
		return dec.Float64()
	case otString:
		n := dec.Int32()
		b := make([]byte, n)
		dec.Bytes(b)
		return string(b)
	case otBytes:
		n := dec.Int32()
		b := make([]byte, n)
		dec.Bytes(b)
		return b
	default:
		dec.ResetError()
		return nil
	}
}

// multiLineOptions is a sequence of independent plainOptions, one per
// wire "line" (used by TopologyInformation, where each line describes
// one topology node).
type multiLineOptions []plainOptions

func (o *multiLineOptions) decode(dec *encoding.Decoder, numArg int) {
	*o = make(multiLineOptions, numArg)
	for i := 0; i < numArg; i++ {
		lineArgs := int(dec.Int16())
		line := plainOptions{}
		line.decode(dec, lineArgs)
		(*o)[i] = line
	}
}
