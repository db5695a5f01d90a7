package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestStatusMachine(t *testing.T) {
	t.Run(`fulfilled label per kind`, func(t *testing.T) {
		require.Equal(t, RequestStatusFilled, FulfilledStatus(RequestKindHelper))
		require.Equal(t, RequestStatusApproved, FulfilledStatus(RequestKindPlanner))
	})

	t.Run(`application window`, func(t *testing.T) {
		require.True(t, RequestStatusOpen.AcceptsApplications())
		require.True(t, RequestStatusInReview.AcceptsApplications())
		require.False(t, RequestStatusFilled.AcceptsApplications())
		require.False(t, RequestStatusApproved.AcceptsApplications())
		require.False(t, RequestStatusCancelled.AcceptsApplications())
	})

	t.Run(`cancel window`, func(t *testing.T) {
		require.True(t, RequestStatusOpen.AllowCancel())
		require.True(t, RequestStatusInReview.AllowCancel())
		require.False(t, RequestStatusFilled.AllowCancel())
		require.False(t, RequestStatusCancelled.AllowCancel())
	})

	t.Run(`legal edges`, func(t *testing.T) {
		require.True(t, RequestStatusOpen.IsAllowChange(RequestStatusInReview))
		require.True(t, RequestStatusOpen.IsAllowChange(RequestStatusFilled))
		require.True(t, RequestStatusInReview.IsAllowChange(RequestStatusApproved))
		require.True(t, RequestStatusInReview.IsAllowChange(RequestStatusCancelled))
		require.False(t, RequestStatusInReview.IsAllowChange(RequestStatusOpen))
		require.False(t, RequestStatusFilled.IsAllowChange(RequestStatusOpen))
		require.False(t, RequestStatusCancelled.IsAllowChange(RequestStatusFilled))
	})
}

func TestApplicationStatusMachine(t *testing.T) {
	require.False(t, ApplicationStatusPending.IsTerminal())
	require.True(t, ApplicationStatusApproved.IsTerminal())
	require.True(t, ApplicationStatusRejected.IsTerminal())

	// a rejected application must not block a fresh attempt
	require.True(t, ApplicationStatusPending.BlocksReapply())
	require.True(t, ApplicationStatusApproved.BlocksReapply())
	require.False(t, ApplicationStatusRejected.BlocksReapply())
}

func TestInvoiceStatusMachine(t *testing.T) {
	t.Run(`forward chain`, func(t *testing.T) {
		require.True(t, InvoiceStatusDraft.IsAllowChange(InvoiceStatusSentToPayer))
		require.True(t, InvoiceStatusSentToPayer.IsAllowChange(InvoiceStatusAwaitingPayment))
		require.True(t, InvoiceStatusAwaitingPayment.IsAllowChange(InvoiceStatusPaid))
		require.True(t, InvoiceStatusPaid.IsAllowChange(InvoiceStatusCompleted))
	})

	t.Run(`no skips, no backward edges`, func(t *testing.T) {
		require.False(t, InvoiceStatusDraft.IsAllowChange(InvoiceStatusAwaitingPayment))
		require.False(t, InvoiceStatusDraft.IsAllowChange(InvoiceStatusPaid))
		require.False(t, InvoiceStatusSentToPayer.IsAllowChange(InvoiceStatusPaid))
		require.False(t, InvoiceStatusPaid.IsAllowChange(InvoiceStatusSentToPayer))
		require.False(t, InvoiceStatusCompleted.IsAllowChange(InvoiceStatusPaid))
	})

	t.Run(`cancellation window`, func(t *testing.T) {
		require.True(t, InvoiceStatusDraft.IsAllowChange(InvoiceStatusCancelled))
		require.True(t, InvoiceStatusSentToPayer.IsAllowChange(InvoiceStatusCancelled))
		require.False(t, InvoiceStatusAwaitingPayment.IsAllowChange(InvoiceStatusCancelled))
		require.False(t, InvoiceStatusPaid.IsAllowChange(InvoiceStatusCancelled))
		require.False(t, InvoiceStatusCompleted.IsAllowChange(InvoiceStatusCancelled))
	})

	t.Run(`terminal states`, func(t *testing.T) {
		require.True(t, InvoiceStatusCompleted.IsTerminal())
		require.True(t, InvoiceStatusCancelled.IsTerminal())
		require.False(t, InvoiceStatusPaid.IsTerminal())
	})
}

func TestInvoiceAmount(t *testing.T) {
	require.Equal(t, 100.0, InvoiceAmount(25, 4, false))
	require.Equal(t, 62.5, InvoiceAmount(25, 2.5, false))
	require.Equal(t, 500.0, InvoiceAmount(500, 3, true))
	require.Equal(t, 0.0, InvoiceAmount(25, 0, false))
	// money rounding at half a cent
	require.Equal(t, 33.33, InvoiceAmount(9.999, 10.0/3, false))
	require.Equal(t, 0.1, Round2(0.1+0.2-0.2))
}

func TestNewInvoiceNumber(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		number := NewInvoiceNumber()
		require.True(t, strings.HasPrefix(number, "INV-"))
		require.Len(t, number, 16)
		require.Equal(t, strings.ToUpper(number), number)
		require.False(t, seen[number])
		seen[number] = true
	}
}

func TestRoleRef(t *testing.T) {
	ref := RoleRef{Kind: RoleKindClient, RoleID: "c1"}
	require.True(t, ref.Is(RoleKindClient, "c1"))
	require.False(t, ref.Is(RoleKindClient, "c2"))
	require.False(t, ref.Is(RoleKindPlanner, "c1"))
	require.False(t, ref.IsZero())
	require.True(t, RoleRef{}.IsZero())
}
