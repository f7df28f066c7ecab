// This file is part of TIASound.
//
// TIASound is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// TIASound is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with TIASound.  If not, see <https://www.gnu.org/licenses/>.

package sound

// regWrite is a single chip register write, stamped with the time elapsed
// since the write before it. delta is in seconds at the emulation clock rate;
// it is not an absolute timestamp.
type regWrite struct {
	addr  uint16
	value uint8
	delta float64
}

// the initial queue capacity. sized so that growth is a rarity rather than a
// routine - the consumer side has soft real-time expectations
const defaultQueueCapacity = 512

// regWriteQueue holds chip register writes in the order they arrived, until
// the fragment synthesizer consumes them. It is a ring buffer over a slice;
// when capacity is exhausted the slice is reallocated at double the size.
type regWriteQueue struct {
	buffer []regWrite
	head   int // index of the front entry
	tail   int // index of the next free slot
	used   int
}

func newRegWriteQueue(capacity int) regWriteQueue {
	if capacity < 1 {
		capacity = defaultQueueCapacity
	}
	return regWriteQueue{
		buffer: make([]regWrite, capacity),
	}
}

// enqueue appends a write to the back of the queue. Never fails; the backing
// buffer grows as needed.
func (q *regWriteQueue) enqueue(w regWrite) {
	if q.used == len(q.buffer) {
		q.grow()
	}
	q.buffer[q.tail] = w
	q.tail++
	if q.tail >= len(q.buffer) {
		q.tail = 0
	}
	q.used++
}

// dequeue removes the front entry. Calling dequeue on an empty queue does
// nothing; callers check size() first.
func (q *regWriteQueue) dequeue() {
	if q.used == 0 {
		return
	}
	q.head++
	if q.head >= len(q.buffer) {
		q.head = 0
	}
	q.used--
}

// front returns a pointer to the entry at the head of the queue without
// removing it. The pointer is valid until the next enqueue or dequeue. The
// synthesizer uses it to consume part of the front entry's delta when a
// fragment ends before the write is due.
func (q *regWriteQueue) front() *regWrite {
	return &q.buffer[q.head]
}

// size returns the number of writes currently queued.
func (q *regWriteQueue) size() int {
	return q.used
}

// duration returns the sum of delta over all queued writes - the total
// elapsed emulated time represented by the backlog.
func (q *regWriteQueue) duration() float64 {
	var d float64
	i := q.head
	for n := 0; n < q.used; n++ {
		d += q.buffer[i].delta
		i++
		if i >= len(q.buffer) {
			i = 0
		}
	}
	return d
}

// clear empties the queue, discarding all entries.
func (q *regWriteQueue) clear() {
	q.head = 0
	q.tail = 0
	q.used = 0
}

// grow doubles the capacity of the backing buffer. The logical queue may
// wrap past the end of the old buffer; entries are copied out in FIFO order
// so that ordering survives the move.
func (q *regWriteQueue) grow() {
	buffer := make([]regWrite, len(q.buffer)*2)
	n := copy(buffer, q.buffer[q.head:])
	copy(buffer[n:], q.buffer[:q.head])
	q.buffer = buffer
	q.head = 0
	q.tail = q.used
}
