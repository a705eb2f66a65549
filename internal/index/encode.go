package index

import "encoding/binary"

// key = seq(8)，大端序保证 cursor 顺序 = 输入行顺序
func makeSeqKey(seq int) []byte {
	if seq < 0 {
		seq = 0
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(seq))
	return buf
}

func seqFromKey(k []byte) (int, bool) {
	if len(k) != 8 {
		return 0, false
	}
	return int(binary.BigEndian.Uint64(k)), true
}
