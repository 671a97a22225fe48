package scheduler

import (
	"cmp"
	"time"

	"github.com/emirpasic/gods/v2/trees/binaryheap"
)

// Callback is one step of a task. didTimeout reports whether the task was
// already past its expiration time when the step started.
type Callback func(didTimeout bool) Result

// Result is what a step returns: either the task is done, or it must be
// resumed later with another step at the same queue position.
type Result struct {
	next Callback
}

// Done reports that the task has no more work.
func Done() Result { return Result{} }

// Continue asks the scheduler to resume the task with next on a later tick.
func Continue(next Callback) Result { return Result{next: next} }

// IsDone reports whether the step finished the task.
func (r Result) IsDone() bool { return r.next == nil }

type Task struct {
	ID             uint64
	Priority       Priority
	StartTime      time.Time
	ExpirationTime time.Time

	// nil once the task ran to completion or was cancelled
	callback Callback

	// StartTime while delayed, ExpirationTime once ready
	sortIndex time.Time
}

// Cancelled reports whether the task has no callback left to run.
func (t *Task) Cancelled() bool {
	return t.callback == nil
}

func compareTasks(a, b *Task) int {
	if c := a.sortIndex.Compare(b.sortIndex); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// taskQueue is a binary min-heap ordered by (sortIndex, ID).
type taskQueue struct {
	heap *binaryheap.Heap[*Task]
}

func newTaskQueue() *taskQueue {
	return &taskQueue{heap: binaryheap.NewWith[*Task](compareTasks)}
}

func (q *taskQueue) Push(t *Task) {
	q.heap.Push(t)
}

// Peek returns the minimum task, or nil when the queue is empty.
func (q *taskQueue) Peek() *Task {
	t, ok := q.heap.Peek()
	if !ok {
		return nil
	}
	return t
}

// Pop removes and returns the minimum task, or nil when the queue is empty.
func (q *taskQueue) Pop() *Task {
	t, ok := q.heap.Pop()
	if !ok {
		return nil
	}
	return t
}

func (q *taskQueue) Len() int {
	return q.heap.Size()
}
