package order_test

import (
	"testing"

	"messhall/internal/core/domain/model/kernel"
	"messhall/internal/core/domain/model/order"
	"messhall/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestItem(t *testing.T, quantity, unitPrice int) *order.Item {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), quantity, unitPrice)
	require.NoError(t, err)
	return item
}

func newTestOrder(t *testing.T, items ...*order.Item) *order.Order {
	t.Helper()
	if len(items) == 0 {
		items = []*order.Item{newTestItem(t, 1, 100)}
	}
	tableID := kernel.NewUUID()
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), &tableID, items)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("should create pending order with derived total", func(t *testing.T) {
		itemA := newTestItem(t, 2, 10)
		itemB := newTestItem(t, 1, 15)

		o := newTestOrder(t, itemA, itemB)

		require.NoError(t, o.Validate())
		assert.Equal(t, order.Pending, o.Status())
		assert.False(t, o.IsCancelled())
		assert.False(t, o.HasAddedItems())
		assert.Nil(t, o.Transaction())
		assert.Equal(t, 35, o.TotalPrice())
		assert.Equal(t, 2, o.LiveItemCount())
	})

	t.Run("should fail without items", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), nil, nil)

		require.ErrorIs(t, err, order.ErrNoItems)
		assert.Nil(t, o)
	})

	t.Run("should fail with invalid identifiers", func(t *testing.T) {
		var invalidID kernel.UUID

		o, err := order.NewOrder(invalidID, kernel.NewUUID(), kernel.NewUUID(), nil,
			[]*order.Item{newTestItem(t, 1, 100)})

		require.Error(t, err)
		assert.Nil(t, o)
	})

	t.Run("should fail with unconstructed item", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), nil,
			[]*order.Item{{}})

		require.ErrorIs(t, err, order.ErrItemIsNotConstructed)
		assert.Nil(t, o)
	})
}

func TestRestoreOrder(t *testing.T) {
	t.Run("should reject inconsistent cancellation flag", func(t *testing.T) {
		o := newTestOrder(t)

		restored, err := order.RestoreOrder(
			o.ID(), o.VenueID(), o.CustomerID(), o.TableID(),
			order.Pending, true, false,
			o.CreatedAt(), o.UpdatedAt(), o.Items(), nil,
		)

		require.Error(t, err)
		assert.Nil(t, restored)
	})

	t.Run("should restore cancelled order", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Cancel())

		restored, err := order.RestoreOrder(
			o.ID(), o.VenueID(), o.CustomerID(), o.TableID(),
			order.Cancelled, true, false,
			o.CreatedAt(), o.UpdatedAt(), o.Items(), nil,
		)

		require.NoError(t, err)
		assert.True(t, restored.IsCancelled())
	})
}

func TestOrder_SetStatus(t *testing.T) {
	t.Run("should progress through fulfillment", func(t *testing.T) {
		o := newTestOrder(t)

		for _, next := range []order.Status{
			order.Received, order.Preparing, order.Ready, order.Served,
		} {
			require.NoError(t, o.SetStatus(next))
			assert.Equal(t, next, o.Status())
		}
	})

	t.Run("should refuse completed as a plain transition", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.SetStatus(order.Served))

		err := o.SetStatus(order.Completed)

		require.ErrorIs(t, err, order.ErrConflictingTransition)
		assert.Equal(t, order.Served, o.Status())
		assert.Nil(t, o.Transaction())
		assert.False(t, o.IsPaid())
	})

	t.Run("should fail on completed order", func(t *testing.T) {
		o := newTestOrder(t)
		_, err := o.Complete("NPR")
		require.NoError(t, err)

		err = o.SetStatus(order.Preparing)

		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("should fail on cancelled order", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Cancel())

		err := o.SetStatus(order.Received)

		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("should fail to cancel a served order", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.SetStatus(order.Served))

		err := o.SetStatus(order.Cancelled)

		require.ErrorIs(t, err, order.ErrConflictingTransition)
		assert.Equal(t, order.Served, o.Status())
		assert.False(t, o.IsCancelled())
	})

	t.Run("should cascade item cancellation when set to cancelled", func(t *testing.T) {
		itemA := newTestItem(t, 1, 10)
		itemB := newTestItem(t, 1, 20)
		o := newTestOrder(t, itemA, itemB)

		require.NoError(t, o.SetStatus(order.Cancelled))

		assert.Equal(t, order.Cancelled, o.Status())
		assert.True(t, o.IsCancelled())
		for _, item := range o.Items() {
			assert.True(t, item.IsCancelled())
		}
		assert.Equal(t, 0, o.TotalPrice())
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("should cancel open order and all live lines", func(t *testing.T) {
		o := newTestOrder(t, newTestItem(t, 2, 10), newTestItem(t, 1, 15))
		require.NoError(t, o.SetStatus(order.Preparing))

		require.NoError(t, o.Cancel())

		assert.Equal(t, order.Cancelled, o.Status())
		assert.True(t, o.IsCancelled())
		assert.Equal(t, 0, o.LiveItemCount())
	})

	t.Run("should fail once served", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.SetStatus(order.Served))

		require.ErrorIs(t, o.Cancel(), order.ErrConflictingTransition)
	})

	t.Run("should fail once terminal", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Cancel())

		require.ErrorIs(t, o.Cancel(), order.ErrInvalidTransition)
	})
}

func TestOrder_CancelItem(t *testing.T) {
	t.Run("should cancel line and decrease derived total", func(t *testing.T) {
		itemA := newTestItem(t, 2, 10)
		itemB := newTestItem(t, 1, 15)
		o := newTestOrder(t, itemA, itemB)
		require.Equal(t, 35, o.TotalPrice())

		cancelled, changed, err := o.CancelItem(itemA.ID())

		require.NoError(t, err)
		assert.True(t, changed)
		assert.True(t, cancelled.IsCancelled())
		assert.Equal(t, 15, o.TotalPrice())
		assert.Equal(t, order.Pending, o.Status())
		assert.True(t, o.HasAddedItems())
	})

	t.Run("should be idempotent for already-cancelled line", func(t *testing.T) {
		itemA := newTestItem(t, 1, 10)
		itemB := newTestItem(t, 1, 20)
		o := newTestOrder(t, itemA, itemB)

		_, changed, err := o.CancelItem(itemA.ID())
		require.NoError(t, err)
		require.True(t, changed)

		cancelled, changed, err := o.CancelItem(itemA.ID())

		require.NoError(t, err)
		assert.False(t, changed)
		assert.True(t, cancelled.IsCancelled())
		assert.Equal(t, 20, o.TotalPrice())
	})

	t.Run("should cascade to order cancellation on last live line", func(t *testing.T) {
		itemA := newTestItem(t, 2, 10)
		itemB := newTestItem(t, 1, 15)
		o := newTestOrder(t, itemA, itemB)

		_, _, err := o.CancelItem(itemA.ID())
		require.NoError(t, err)
		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, 15, o.TotalPrice())

		_, changed, err := o.CancelItem(itemB.ID())

		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, 0, o.TotalPrice())
		assert.Equal(t, order.Cancelled, o.Status())
		assert.True(t, o.IsCancelled())
	})

	t.Run("should cascade exactly on the nth line, never earlier", func(t *testing.T) {
		const n = 5
		items := make([]*order.Item, n)
		for i := range items {
			items[i] = newTestItem(t, 1, 10)
		}
		o := newTestOrder(t, items...)

		for i := 0; i < n-1; i++ {
			_, _, err := o.CancelItem(items[i].ID())
			require.NoError(t, err)
			assert.False(t, o.IsCancelled(), "cascade fired before the last live line")
		}

		_, _, err := o.CancelItem(items[n-1].ID())
		require.NoError(t, err)
		assert.True(t, o.IsCancelled())
	})

	t.Run("should fail on served order", func(t *testing.T) {
		itemA := newTestItem(t, 1, 10)
		o := newTestOrder(t, itemA, newTestItem(t, 1, 20))
		require.NoError(t, o.SetStatus(order.Served))

		_, _, err := o.CancelItem(itemA.ID())

		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("should fail on terminal order", func(t *testing.T) {
		itemA := newTestItem(t, 1, 10)
		o := newTestOrder(t, itemA)
		_, err := o.Complete("NPR")
		require.NoError(t, err)

		_, _, err = o.CancelItem(itemA.ID())

		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("should fail for unknown line", func(t *testing.T) {
		o := newTestOrder(t)

		_, _, err := o.CancelItem(kernel.NewUUID())

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestOrder_AddItems(t *testing.T) {
	t.Run("should append lines and reset status to pending", func(t *testing.T) {
		o := newTestOrder(t, newTestItem(t, 1, 10))
		require.NoError(t, o.SetStatus(order.Ready))

		newLine := newTestItem(t, 2, 25)
		require.NoError(t, o.AddItems([]*order.Item{newLine}))

		assert.Equal(t, order.Pending, o.Status())
		assert.True(t, o.HasAddedItems())
		assert.Equal(t, 60, o.TotalPrice())
		assert.Len(t, o.Items(), 2)
	})

	t.Run("should fail on completed order", func(t *testing.T) {
		o := newTestOrder(t)
		_, err := o.Complete("NPR")
		require.NoError(t, err)

		err = o.AddItems([]*order.Item{newTestItem(t, 1, 10)})

		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("should fail on cancelled order", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Cancel())

		err := o.AddItems([]*order.Item{newTestItem(t, 1, 10)})

		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("should fail with empty batch", func(t *testing.T) {
		o := newTestOrder(t)

		require.ErrorIs(t, o.AddItems(nil), order.ErrNoItems)
	})
}

func TestOrder_Complete(t *testing.T) {
	t.Run("should synthesize cash settlement when no transaction exists", func(t *testing.T) {
		o := newTestOrder(t, newTestItem(t, 2, 10), newTestItem(t, 1, 15))
		require.NoError(t, o.SetStatus(order.Served))

		changed, err := o.Complete("NPR")

		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, order.Completed, o.Status())
		require.NotNil(t, o.Transaction())
		assert.Equal(t, order.PaymentCash, o.Transaction().Method())
		assert.Equal(t, order.TransactionSuccess, o.Transaction().Status())
		assert.Equal(t, 35, o.Transaction().Amount())
		assert.Equal(t, "NPR", o.Transaction().Currency())
		assert.True(t, o.IsPaid())
	})

	t.Run("should confirm existing pending transaction", func(t *testing.T) {
		o := newTestOrder(t)
		tx, err := order.NewTransaction(kernel.NewUUID(), "ext-123", o.TotalPrice(), "NPR", order.PaymentKhalti)
		require.NoError(t, err)
		require.NoError(t, o.AttachTransaction(tx))

		changed, err := o.Complete("NPR")

		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, order.TransactionSuccess, o.Transaction().Status())
		assert.Equal(t, "ext-123", o.Transaction().ExternalRef())
		assert.Equal(t, order.PaymentKhalti, o.Transaction().Method())
	})

	t.Run("should be idempotent on completed order", func(t *testing.T) {
		o := newTestOrder(t)
		changed, err := o.Complete("NPR")
		require.NoError(t, err)
		require.True(t, changed)
		firstTx := o.Transaction()

		changed, err = o.Complete("NPR")

		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, order.Completed, o.Status())
		assert.Same(t, firstTx, o.Transaction())
	})

	t.Run("should fail on cancelled order", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Cancel())

		_, err := o.Complete("NPR")

		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})
}

func TestOrder_AttachTransaction(t *testing.T) {
	newPendingTx := func(t *testing.T, o *order.Order, ref string) *order.Transaction {
		t.Helper()
		tx, err := order.NewTransaction(kernel.NewUUID(), ref, o.TotalPrice(), "NPR", order.PaymentKhalti)
		require.NoError(t, err)
		return tx
	}

	t.Run("should attach first payment attempt", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.AttachTransaction(newPendingTx(t, o, "ext-1")))

		require.NotNil(t, o.Transaction())
		assert.Equal(t, "ext-1", o.Transaction().ExternalRef())
	})

	t.Run("should replace abandoned pending attempt", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.AttachTransaction(newPendingTx(t, o, "ext-1")))

		require.NoError(t, o.AttachTransaction(newPendingTx(t, o, "ext-2")))

		assert.Equal(t, "ext-2", o.Transaction().ExternalRef())
	})

	t.Run("should fail when already settled", func(t *testing.T) {
		o := newTestOrder(t)
		_, err := o.Complete("NPR")
		require.NoError(t, err)

		err = o.AttachTransaction(newPendingTx(t, o, "ext-2"))

		require.ErrorIs(t, err, order.ErrAlreadySettled)
	})

	t.Run("should fail on cancelled order", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Cancel())

		err := o.AttachTransaction(newPendingTx(t, o, "ext-1"))

		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})
}

func TestOrder_SettleExternal(t *testing.T) {
	attachPending := func(t *testing.T, o *order.Order) {
		t.Helper()
		tx, err := order.NewTransaction(kernel.NewUUID(), "session-1", o.TotalPrice(), "NPR", order.PaymentKhalti)
		require.NoError(t, err)
		require.NoError(t, o.AttachTransaction(tx))
	}

	t.Run("should complete order on gateway success", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.SetStatus(order.Served))
		attachPending(t, o)

		changed, err := o.SettleExternal(true, "provider-final-ref")

		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, order.Completed, o.Status())
		assert.Equal(t, order.TransactionSuccess, o.Transaction().Status())
		assert.Equal(t, "provider-final-ref", o.Transaction().ExternalRef())
	})

	t.Run("should discard transaction on gateway failure and keep status", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.SetStatus(order.Preparing))
		attachPending(t, o)

		changed, err := o.SettleExternal(false, "")

		require.NoError(t, err)
		assert.True(t, changed)
		assert.Nil(t, o.Transaction())
		assert.Equal(t, order.Preparing, o.Status())
	})

	t.Run("should fail without transaction", func(t *testing.T) {
		o := newTestOrder(t)

		_, err := o.SettleExternal(true, "ref")

		require.ErrorIs(t, err, order.ErrNoPendingTransaction)
	})

	t.Run("should treat repeated success callback as no-op", func(t *testing.T) {
		o := newTestOrder(t)
		attachPending(t, o)
		_, err := o.SettleExternal(true, "ref-1")
		require.NoError(t, err)

		changed, err := o.SettleExternal(true, "ref-2")

		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, "ref-1", o.Transaction().ExternalRef())
	})
}

func TestOrder_IsDeletable(t *testing.T) {
	t.Run("pending order without payment is deletable", func(t *testing.T) {
		assert.True(t, newTestOrder(t).IsDeletable())
	})

	t.Run("cancelled order without payment is deletable", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Cancel())
		assert.True(t, o.IsDeletable())
	})

	t.Run("orders past pending are not deletable", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.SetStatus(order.Preparing))
		assert.False(t, o.IsDeletable())
	})

	t.Run("orders with payment artifacts are not deletable", func(t *testing.T) {
		o := newTestOrder(t)
		tx, err := order.NewTransaction(kernel.NewUUID(), "ext", o.TotalPrice(), "NPR", order.PaymentKhalti)
		require.NoError(t, err)
		require.NoError(t, o.AttachTransaction(tx))
		assert.False(t, o.IsDeletable())
	})
}

func TestOrder_Validate(t *testing.T) {
	t.Run("should fail validation for nil order", func(t *testing.T) {
		var o *order.Order

		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})

	t.Run("should fail validation for zero value order", func(t *testing.T) {
		o := &order.Order{}

		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}
