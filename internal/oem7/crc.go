package oem7

// NovAtel's block CRC-32 (polynomial 0xEDB88320) differs from IEEE
// CRC-32: no initial value and no final inversion, so hash/crc32 cannot
// be used directly.

func crcValue(i uint32) uint32 {
	for j := 0; j < 8; j++ {
		if i&1 != 0 {
			i = (i >> 1) ^ 0xEDB88320
		} else {
			i >>= 1
		}
	}
	return i
}

// CRC32 computes the NovAtel block CRC over data.
func CRC32(data []byte) uint32 {
	var crc uint32
	for _, b := range data {
		crc = (crc>>8)&0x00FFFFFF ^ crcValue((crc^uint32(b))&0xFF)
	}
	return crc
}
