package io

// QUEUE_COMPACT is the number of consumed values a queue tolerates before
// it reclaims the space.
const QUEUE_COMPACT = 64

// Queue is an unbounded FIFO of values.
type Queue struct {
	Data      []int64
	ReadIndex int
}

// Push appends values to the tail of the queue.
func (q *Queue) Push(values ...int64) {
	q.Data = append(q.Data, values...)
}

// Peek returns the head of the queue without removing it.
func (q *Queue) Peek() (value int64, ok bool) {
	if q.Empty() {
		return
	}

	return q.Data[q.ReadIndex], true
}

// Pop removes and returns the head of the queue.
func (q *Queue) Pop() (value int64, ok bool) {
	value, ok = q.Peek()
	if !ok {
		return
	}

	q.ReadIndex++
	switch {
	case q.ReadIndex == len(q.Data):
		q.Reset()
	case q.ReadIndex >= QUEUE_COMPACT && q.ReadIndex*2 >= len(q.Data):
		n := copy(q.Data, q.Data[q.ReadIndex:])
		q.Data = q.Data[:n]
		q.ReadIndex = 0
	}

	return
}

// Drain removes and returns every queued value, oldest first.
func (q *Queue) Drain() (values []int64) {
	if q.Empty() {
		return []int64{}
	}

	values = make([]int64, q.Len())
	copy(values, q.Data[q.ReadIndex:])
	q.Reset()

	return
}

// Len returns the number of queued values.
func (q *Queue) Len() int {
	return len(q.Data) - q.ReadIndex
}

// Empty returns true if nothing is queued.
func (q *Queue) Empty() bool {
	return q.Len() == 0
}

// Clone returns an independent copy of the queue.
func (q *Queue) Clone() (clone Queue) {
	if !q.Empty() {
		clone.Data = make([]int64, q.Len())
		copy(clone.Data, q.Data[q.ReadIndex:])
	}
	return
}

// Reset empties the queue.
func (q *Queue) Reset() {
	if len(q.Data) > 0 {
		q.Data = q.Data[:0]
	}
	q.ReadIndex = 0
}
