package procurement

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestReceipt(t *testing.T) *GoodsReceipt {
	orderID := uuid.New()
	receipt, err := NewGoodsReceipt(uuid.New(), uuid.New(), &orderID, nil)
	require.NoError(t, err)
	return receipt
}

func createAdHocReceipt(t *testing.T) *GoodsReceipt {
	supplierID := uuid.New()
	receipt, err := NewGoodsReceipt(uuid.New(), uuid.New(), nil, &supplierID)
	require.NoError(t, err)
	return receipt
}

func addTestReceiptLine(t *testing.T, receipt *GoodsReceipt, itemID uuid.UUID, quantity int64) uuid.UUID {
	lineID, err := receipt.AddLine(itemID, "Test Item", "pcs", quantity, "", nil, "", "")
	require.NoError(t, err)
	return lineID
}

func TestNewGoodsReceipt(t *testing.T) {
	receipt := createTestReceipt(t)

	assert.Equal(t, ReceiptStatusDraft, receipt.Status)
	assert.True(t, receipt.IsDraft())
	assert.True(t, receipt.IsOrderLinked())
	assert.Empty(t, receipt.Lines)
}

func TestNewGoodsReceipt_AdHocRequiresSupplier(t *testing.T) {
	_, err := NewGoodsReceipt(uuid.New(), uuid.New(), nil, nil)
	assert.Error(t, err)

	receipt := createAdHocReceipt(t)
	assert.False(t, receipt.IsOrderLinked())
}

func TestNewGoodsReceipt_RequiresLocation(t *testing.T) {
	supplierID := uuid.New()
	_, err := NewGoodsReceipt(uuid.New(), uuid.Nil, nil, &supplierID)
	assert.Error(t, err)
}

func TestGoodsReceipt_AddLine(t *testing.T) {
	receipt := createTestReceipt(t)
	itemID := uuid.New()

	addTestReceiptLine(t, receipt, itemID, 5)

	assert.Equal(t, 1, receipt.LineCount())
	assert.Equal(t, int64(5), receipt.TotalReceivedQuantity())
}

func TestGoodsReceipt_AddLine_MergesSameItem(t *testing.T) {
	receipt := createTestReceipt(t)
	itemID := uuid.New()

	firstID := addTestReceiptLine(t, receipt, itemID, 5)
	secondID, err := receipt.AddLine(itemID, "Test Item", "pcs", 3, "BATCH-9", nil, "", "")
	require.NoError(t, err)

	assert.Equal(t, firstID, secondID)
	assert.Equal(t, 1, receipt.LineCount())

	line := receipt.GetLineByItem(itemID)
	require.NotNil(t, line)
	assert.Equal(t, int64(8), line.Quantity)
	assert.Equal(t, "BATCH-9", line.BatchNumber)
}

func TestGoodsReceipt_AddLine_MergeKeepsExistingFields(t *testing.T) {
	receipt := createTestReceipt(t)
	itemID := uuid.New()

	_, err := receipt.AddLine(itemID, "Test Item", "pcs", 5, "BATCH-1", nil, "first delivery", "")
	require.NoError(t, err)
	_, err = receipt.AddLine(itemID, "Test Item", "pcs", 2, "", nil, "", "")
	require.NoError(t, err)

	line := receipt.GetLineByItem(itemID)
	require.NotNil(t, line)
	assert.Equal(t, "BATCH-1", line.BatchNumber)
	assert.Equal(t, "first delivery", line.Notes)
}

func TestGoodsReceipt_AddLine_ZeroQuantityAllowed(t *testing.T) {
	receipt := createTestReceipt(t)
	_, err := receipt.AddLine(uuid.New(), "Missing Item", "pcs", 0, "", nil, "", "")
	assert.NoError(t, err)
}

func TestGoodsReceipt_AddLine_RejectsNegativeQuantity(t *testing.T) {
	receipt := createTestReceipt(t)
	_, err := receipt.AddLine(uuid.New(), "Test Item", "pcs", -1, "", nil, "", "")
	assert.Error(t, err)
}

func TestGoodsReceipt_AddLine_RejectsQuantityAboveMax(t *testing.T) {
	receipt := createTestReceipt(t)
	_, err := receipt.AddLine(uuid.New(), "Test Item", "pcs", MaxReceiptLineQuantity+1, "", nil, "", "")
	assert.Error(t, err)
}

func TestGoodsReceipt_UpdateLine(t *testing.T) {
	receipt := createTestReceipt(t)
	lineID := addTestReceiptLine(t, receipt, uuid.New(), 5)

	batch := "BATCH-7"
	err := receipt.UpdateLine(lineID, 9, &batch, nil, nil)
	require.NoError(t, err)

	line := receipt.GetLine(lineID)
	require.NotNil(t, line)
	assert.Equal(t, int64(9), line.Quantity)
	assert.Equal(t, "BATCH-7", line.BatchNumber)
}

func TestGoodsReceipt_UpdateLine_ZeroIsNotARemoval(t *testing.T) {
	receipt := createTestReceipt(t)
	lineID := addTestReceiptLine(t, receipt, uuid.New(), 5)

	err := receipt.UpdateLine(lineID, 0, nil, nil, nil)
	assert.Error(t, err)
	assert.Equal(t, int64(5), receipt.GetLine(lineID).Quantity)
}

func TestGoodsReceipt_RemoveLine(t *testing.T) {
	receipt := createTestReceipt(t)
	lineID := addTestReceiptLine(t, receipt, uuid.New(), 5)

	require.NoError(t, receipt.RemoveLine(lineID))
	assert.Equal(t, 0, receipt.LineCount())

	assert.Error(t, receipt.RemoveLine(lineID))
}

func TestGoodsReceipt_SetManualDiscrepancy(t *testing.T) {
	receipt := createTestReceipt(t)
	lineID := addTestReceiptLine(t, receipt, uuid.New(), 5)

	require.NoError(t, receipt.SetManualDiscrepancy(lineID, DiscrepancyDamage))
	assert.Equal(t, DiscrepancyDamage, receipt.GetLine(lineID).Discrepancy)

	require.NoError(t, receipt.SetManualDiscrepancy(lineID, DiscrepancySubstitution))
	assert.Equal(t, DiscrepancySubstitution, receipt.GetLine(lineID).Discrepancy)
}

func TestGoodsReceipt_SetManualDiscrepancy_RejectsComputedTypes(t *testing.T) {
	receipt := createTestReceipt(t)
	lineID := addTestReceiptLine(t, receipt, uuid.New(), 5)

	for _, dtype := range []DiscrepancyType{DiscrepancyNone, DiscrepancyShort, DiscrepancyOver, DiscrepancyPendingBackorder} {
		assert.Error(t, receipt.SetManualDiscrepancy(lineID, dtype), string(dtype))
	}
}

func TestGoodsReceipt_Confirm(t *testing.T) {
	receipt := createTestReceipt(t)
	itemID := uuid.New()
	addTestReceiptLine(t, receipt, itemID, 10)

	confirmed, err := receipt.Confirm(map[uuid.UUID]int64{itemID: 10}, nil)
	require.NoError(t, err)

	assert.Equal(t, ReceiptStatusConfirmed, receipt.Status)
	assert.NotNil(t, receipt.ReceivedAt)
	require.Len(t, confirmed, 1)
	assert.Equal(t, DiscrepancyNone, confirmed[0].Discrepancy)
	assert.Equal(t, int64(10), confirmed[0].Quantity)
}

func TestGoodsReceipt_Confirm_ClassifiesShortAndOver(t *testing.T) {
	receipt := createTestReceipt(t)
	shortItem := uuid.New()
	overItem := uuid.New()
	addTestReceiptLine(t, receipt, shortItem, 6)
	addTestReceiptLine(t, receipt, overItem, 12)

	confirmed, err := receipt.Confirm(map[uuid.UUID]int64{shortItem: 10, overItem: 10}, nil)
	require.NoError(t, err)

	require.Len(t, confirmed, 2)
	assert.Equal(t, DiscrepancyShort, confirmed[0].Discrepancy)
	assert.Equal(t, DiscrepancyOver, confirmed[1].Discrepancy)
}

func TestGoodsReceipt_Confirm_BackorderMarksShortLines(t *testing.T) {
	receipt := createTestReceipt(t)
	itemID := uuid.New()
	addTestReceiptLine(t, receipt, itemID, 4)

	confirmed, err := receipt.Confirm(
		map[uuid.UUID]int64{itemID: 10},
		map[uuid.UUID]struct{}{itemID: {}},
	)
	require.NoError(t, err)

	require.Len(t, confirmed, 1)
	assert.Equal(t, DiscrepancyPendingBackorder, confirmed[0].Discrepancy)
	assert.True(t, confirmed[0].IsBackorder)
	// Stock still moves by what actually arrived
	assert.Equal(t, int64(4), confirmed[0].Quantity)
}

func TestGoodsReceipt_Confirm_ManualClassificationWins(t *testing.T) {
	receipt := createTestReceipt(t)
	itemID := uuid.New()
	lineID := addTestReceiptLine(t, receipt, itemID, 6)
	require.NoError(t, receipt.SetManualDiscrepancy(lineID, DiscrepancyDamage))

	confirmed, err := receipt.Confirm(map[uuid.UUID]int64{itemID: 10}, nil)
	require.NoError(t, err)

	require.Len(t, confirmed, 1)
	assert.Equal(t, DiscrepancyDamage, confirmed[0].Discrepancy)
}

func TestGoodsReceipt_Confirm_AdHocLinesNotClassified(t *testing.T) {
	receipt := createAdHocReceipt(t)
	addTestReceiptLine(t, receipt, uuid.New(), 7)

	confirmed, err := receipt.Confirm(nil, nil)
	require.NoError(t, err)

	require.Len(t, confirmed, 1)
	assert.Equal(t, DiscrepancyNone, confirmed[0].Discrepancy)
}

func TestGoodsReceipt_Confirm_SkipsZeroQuantityLines(t *testing.T) {
	receipt := createTestReceipt(t)
	received := uuid.New()
	missing := uuid.New()
	addTestReceiptLine(t, receipt, received, 5)
	addTestReceiptLine(t, receipt, missing, 0)

	confirmed, err := receipt.Confirm(map[uuid.UUID]int64{received: 5, missing: 3}, nil)
	require.NoError(t, err)

	require.Len(t, confirmed, 1)
	assert.Equal(t, received, confirmed[0].ItemID)
	// The zero line is still classified on the receipt itself
	assert.Equal(t, DiscrepancyNone, receipt.GetLineByItem(missing).Discrepancy)
}

func TestGoodsReceipt_Confirm_RequiresPositiveLine(t *testing.T) {
	receipt := createTestReceipt(t)
	addTestReceiptLine(t, receipt, uuid.New(), 0)

	_, err := receipt.Confirm(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quantity greater than zero")
	assert.Equal(t, ReceiptStatusDraft, receipt.Status)
}

func TestGoodsReceipt_Confirm_EmptyReceipt(t *testing.T) {
	receipt := createTestReceipt(t)
	_, err := receipt.Confirm(nil, nil)
	assert.Error(t, err)
}

func TestGoodsReceipt_Confirm_Twice(t *testing.T) {
	receipt := createTestReceipt(t)
	itemID := uuid.New()
	addTestReceiptLine(t, receipt, itemID, 5)

	_, err := receipt.Confirm(map[uuid.UUID]int64{itemID: 5}, nil)
	require.NoError(t, err)

	_, err = receipt.Confirm(map[uuid.UUID]int64{itemID: 5}, nil)
	assert.Error(t, err)
}

func TestGoodsReceipt_Confirm_EmitsEvent(t *testing.T) {
	receipt := createTestReceipt(t)
	itemID := uuid.New()
	addTestReceiptLine(t, receipt, itemID, 5)
	receipt.ClearDomainEvents()

	_, err := receipt.Confirm(map[uuid.UUID]int64{itemID: 5}, nil)
	require.NoError(t, err)

	events := receipt.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeGoodsReceiptConfirmed, events[0].EventType())
}

func TestGoodsReceipt_Cancel(t *testing.T) {
	receipt := createTestReceipt(t)
	addTestReceiptLine(t, receipt, uuid.New(), 5)

	require.NoError(t, receipt.Cancel())
	assert.Equal(t, ReceiptStatusCancelled, receipt.Status)

	assert.Error(t, receipt.Cancel())
}

func TestGoodsReceipt_Cancel_NotAfterConfirm(t *testing.T) {
	receipt := createTestReceipt(t)
	itemID := uuid.New()
	addTestReceiptLine(t, receipt, itemID, 5)

	_, err := receipt.Confirm(map[uuid.UUID]int64{itemID: 5}, nil)
	require.NoError(t, err)

	assert.Error(t, receipt.Cancel())
}

func TestGoodsReceipt_LineEditsLockedAfterConfirm(t *testing.T) {
	receipt := createTestReceipt(t)
	itemID := uuid.New()
	lineID := addTestReceiptLine(t, receipt, itemID, 5)

	_, err := receipt.Confirm(map[uuid.UUID]int64{itemID: 5}, nil)
	require.NoError(t, err)

	_, err = receipt.AddLine(uuid.New(), "Late Item", "pcs", 1, "", nil, "", "")
	assert.Error(t, err)
	assert.Error(t, receipt.UpdateLine(lineID, 9, nil, nil, nil))
	assert.Error(t, receipt.RemoveLine(lineID))
	assert.Error(t, receipt.SetManualDiscrepancy(lineID, DiscrepancyDamage))
}

func TestReceiptLine_ExpiryDateKept(t *testing.T) {
	receipt := createTestReceipt(t)
	expiry := time.Now().AddDate(1, 0, 0)
	lineID, err := receipt.AddLine(uuid.New(), "Perishable", "box", 3, "LOT-1", &expiry, "", "4012345678901")
	require.NoError(t, err)

	line := receipt.GetLine(lineID)
	require.NotNil(t, line)
	require.NotNil(t, line.ExpiryDate)
	assert.Equal(t, expiry, *line.ExpiryDate)
	assert.Equal(t, "4012345678901", line.SourceBarcode)
}
