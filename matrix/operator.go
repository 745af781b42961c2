package matrix

// uint32 vector summation, widened so long rows cannot wrap
func Uint32VectorSum(data []uint32) uint64 {
	sum := uint64(0)
	for _, d := range data {
		sum += uint64(d)
	}
	return sum
}
