package sstable

import (
	"errors"
	"math/bits"

	"github.com/AnnaFriedlander/LDA-for-FITS/matrix"
)

var ErrCountOverflow = errors.New("sstable: count does not fit the packed representation")

// SortedMap keeps the nonzero topic counts of every cell sorted by count
// in descending order. Each value is represented by a uint32 number where
// the lower k bits are the minimum bits needed to hold the max number of
// topics and the upper 32-k bits are used to hold the count number.
//
// It satisfies matrix.TopicCounter and is the sparse storage for the
// token-topic tensor: only the topics a cell actually uses take memory.
type SortedMap struct {
	Data      map[uint32][]uint32
	RotateLen uint32
	TopicMask uint32
	cellNum   uint32
	topicNum  uint32
}

func NewSortedMap(cellNum, topicNum uint32) *SortedMap {
	if cellNum == 0 || topicNum == 0 {
		panic(matrix.ErrBadShape)
	}
	rotateLen := uint32(bits.Len32(topicNum))
	return &SortedMap{
		Data:      make(map[uint32][]uint32),
		RotateLen: rotateLen,
		TopicMask: (uint32(1) << rotateLen) - 1,
		cellNum:   cellNum,
		topicNum:  topicNum,
	}
}

// get the number of cells and topics
func (this *SortedMap) Shape() (uint32, uint32) {
	return this.cellNum, this.topicNum
}

// get the idx-th element of the value slice of cell and return
// parsed value of topicId and count
func (this *SortedMap) At(cell uint32, idx int) (uint32, uint32) {
	if idx < 0 || idx >= len(this.Data[cell]) {
		panic(matrix.ErrIndexOutOfRange)
	}
	val := this.Data[cell][idx]
	return val & this.TopicMask, val >> this.RotateLen
}

// number of distinct topics present in cell
func (this *SortedMap) Len(cell uint32) int {
	return len(this.Data[cell])
}

// get the count of topicId in cell, zero if absent
func (this *SortedMap) Get(cell, topicId uint32) uint32 {
	this.check(cell, topicId)
	if idx := this.find(cell, topicId); idx >= 0 {
		_, count := this.At(cell, idx)
		return count
	}
	return 0
}

// set the count of topicId in cell
func (this *SortedMap) Set(cell, topicId uint32, count uint32) {
	old := this.Get(cell, topicId)
	if count > old {
		this.Incr(cell, topicId, count-old)
	} else if count < old {
		this.Decr(cell, topicId, old-count)
	}
}

func (this *SortedMap) Incr(cell, topicId uint32, count uint32) {
	this.check(cell, topicId)
	if count == 0 {
		return
	}

	idx := this.find(cell, topicId)
	if idx == -1 {
		this.Data[cell] = append(this.Data[cell], this.pack(topicId, count))
		idx = len(this.Data[cell]) - 1
	} else {
		_, oldCount := this.At(cell, idx)
		if oldCount+count < oldCount {
			panic(ErrCountOverflow)
		}
		this.Data[cell][idx] = this.pack(topicId, oldCount+count)
	}

	// bubble the grown value towards the front
	row := this.Data[cell]
	for k := idx; k > 0; k -= 1 {
		if row[k] > row[k-1] {
			row[k], row[k-1] = row[k-1], row[k]
			continue
		}
		break
	}
}

func (this *SortedMap) Decr(cell, topicId uint32, count uint32) {
	this.check(cell, topicId)
	if count == 0 {
		return
	}

	idx := this.find(cell, topicId)
	if idx == -1 {
		panic(matrix.ErrNegativeCount)
	}
	_, oldCount := this.At(cell, idx)
	if count > oldCount {
		panic(matrix.ErrNegativeCount)
	}

	row := this.Data[cell]
	if oldCount == count { // delete the topic count
		copy(row[idx:], row[idx+1:])
		row = row[:len(row)-1]
		if len(row) == 0 {
			delete(this.Data, cell)
		} else {
			this.Data[cell] = row
		}
		return
	}

	row[idx] = this.pack(topicId, oldCount-count)
	// bubble the shrunk value towards the back
	for k := idx; k < len(row)-1; k += 1 {
		if row[k] < row[k+1] {
			row[k], row[k+1] = row[k+1], row[k]
			continue
		}
		break
	}
}

func (this *SortedMap) find(cell, topicId uint32) int {
	for i, v := range this.Data[cell] {
		if v&this.TopicMask == topicId {
			return i
		}
	}
	return -1
}

func (this *SortedMap) pack(topicId, count uint32) uint32 {
	if count > (^uint32(0))>>this.RotateLen {
		panic(ErrCountOverflow)
	}
	return (count << this.RotateLen) + topicId
}

func (this *SortedMap) check(cell, topicId uint32) {
	if cell >= this.cellNum || topicId >= this.topicNum {
		panic(matrix.ErrIndexOutOfRange)
	}
}
