package state

import (
	"encoding/binary"
	"fmt"

	"github.com/weisyn/mintregistry/pkg/interfaces/registry"
)

// 值编码：首字节为类型标记，其后为负载
const (
	kindString byte = 0x01
	kindBool   byte = 0x02
	kindUint32 byte = 0x03
	kindUint64 byte = 0x04
)

func encodeString(v string) []byte {
	out := make([]byte, 0, 1+len(v))
	out = append(out, kindString)
	return append(out, v...)
}

func encodeBool(v bool) []byte {
	if v {
		return []byte{kindBool, 1}
	}
	return []byte{kindBool, 0}
}

func encodeUint32(v uint32) []byte {
	return binary.BigEndian.AppendUint32([]byte{kindUint32}, v)
}

func encodeUint64(v uint64) []byte {
	return binary.BigEndian.AppendUint64([]byte{kindUint64}, v)
}

func decodeString(raw []byte) (string, error) {
	if len(raw) < 1 || raw[0] != kindString {
		return "", corrupt("string", raw)
	}
	return string(raw[1:]), nil
}

func decodeBool(raw []byte) (bool, error) {
	if len(raw) != 2 || raw[0] != kindBool || raw[1] > 1 {
		return false, corrupt("bool", raw)
	}
	return raw[1] == 1, nil
}

func decodeUint32(raw []byte) (uint32, error) {
	if len(raw) != 5 || raw[0] != kindUint32 {
		return 0, corrupt("uint32", raw)
	}
	return binary.BigEndian.Uint32(raw[1:]), nil
}

func decodeUint64(raw []byte) (uint64, error) {
	if len(raw) != 9 || raw[0] != kindUint64 {
		return 0, corrupt("uint64", raw)
	}
	return binary.BigEndian.Uint64(raw[1:]), nil
}

func corrupt(want string, raw []byte) error {
	return fmt.Errorf("%w: 期望 %s 编码，实际 %d 字节", registry.ErrCorruptState, want, len(raw))
}
