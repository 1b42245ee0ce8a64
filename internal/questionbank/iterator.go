package questionbank

import (
	"context"

	"github.com/wayss000/Inner-See-sub000/internal/domain"
)

// Iterator walks a test type's questions, loading one batch at a time as the
// caller advances.
type Iterator struct {
	bank       *Bank
	testTypeID string
	batchSize  int

	buf     []domain.Question
	offset  int
	hasMore bool
	total   int
}

// Iterate returns an iterator over testTypeID with the given batch size.
func (b *Bank) Iterate(testTypeID string, batchSize int) *Iterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Iterator{
		bank:       b,
		testTypeID: testTypeID,
		batchSize:  batchSize,
		hasMore:    true,
		total:      -1,
	}
}

// Next returns the next question. ok is false once every question has been
// returned.
func (it *Iterator) Next(ctx context.Context) (q domain.Question, ok bool, err error) {
	if len(it.buf) == 0 {
		if !it.hasMore {
			return domain.Question{}, false, nil
		}
		batch, err := it.bank.LoadBatch(ctx, it.testTypeID, it.offset, it.batchSize)
		if err != nil {
			return domain.Question{}, false, err
		}
		it.buf = batch.Questions
		it.offset += len(batch.Questions)
		it.hasMore = batch.HasMore && len(batch.Questions) > 0
		it.total = batch.Total
		if len(it.buf) == 0 {
			return domain.Question{}, false, nil
		}
	}
	q, it.buf = it.buf[0], it.buf[1:]
	return q, true, nil
}

// Total is the number of questions in the test type, or -1 before the first
// batch is loaded.
func (it *Iterator) Total() int { return it.total }
