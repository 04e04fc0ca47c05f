package procurement

import (
	"github.com/google/uuid"
)

// ItemProgress reports, for one ordered item, how much has been received and
// how much is still outstanding.
type ItemProgress struct {
	Ordered         int64 `json:"ordered"`
	AlreadyReceived int64 `json:"already_received"`
	Remaining       int64 `json:"remaining"`
}

// RemainingForOrder computes per-item receipt progress for an order.
//
// It sums received quantities per item across the lines of the given receipts
// (by convention all CONFIRMED receipts of the order, plus the DRAFT receipt
// currently under edit, if any). Cancelled receipts are never counted, and a
// receipt matching excludeReceiptID is skipped so that a receipt being edited
// is not double-counted against itself.
//
// Remaining is floored at zero, so over-receipt never yields a negative value.
// Items that appear in no receipt report AlreadyReceived of zero. An order
// without lines yields an empty map.
func RemainingForOrder(lines []OrderLine, receipts []GoodsReceipt, excludeReceiptID *uuid.UUID) map[uuid.UUID]ItemProgress {
	progress := make(map[uuid.UUID]ItemProgress, len(lines))
	if len(lines) == 0 {
		return progress
	}

	receivedByItem := make(map[uuid.UUID]int64)
	for idx := range receipts {
		r := &receipts[idx]
		if r.Status == ReceiptStatusCancelled {
			continue
		}
		if excludeReceiptID != nil && r.ID == *excludeReceiptID {
			continue
		}
		for _, line := range r.Lines {
			receivedByItem[line.ItemID] += line.Quantity
		}
	}

	for _, line := range lines {
		received := receivedByItem[line.ItemID]
		remaining := line.Quantity - received
		if remaining < 0 {
			remaining = 0
		}
		progress[line.ItemID] = ItemProgress{
			Ordered:         line.Quantity,
			AlreadyReceived: received,
			Remaining:       remaining,
		}
	}

	return progress
}
