package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubsphere-backend/internal/domain"
)

func TestApprove_ClubGone(t *testing.T) {
	d, err := New()
	require.NoError(t, err)
	clubs := &clubRepository{d}
	requests := &membershipRequestRepository{d}
	ctx := context.Background()

	club := &domain.Club{Name: "Chess", CreatedByID: "admin-1"}
	require.NoError(t, clubs.Create(ctx, club))
	req := domain.NewMembershipRequest("user-1", club.ID, "")
	require.NoError(t, requests.Create(ctx, req))

	txn := d.db.Txn(true)
	raw, err := txn.First(tblClubs, "id", club.ID)
	require.NoError(t, err)
	require.NoError(t, txn.Delete(tblClubs, raw))
	txn.Commit()

	_, err = requests.Approve(ctx, req.ID, "admin-1", time.Now().UTC())
	assert.ErrorIs(t, err, domain.ErrClubNotFound)

	stored, err := requests.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MembershipRequestStatusPending, stored.Status)

	read := d.db.Txn(false)
	defer read.Abort()
	member, err := read.First(tblMembers, "id", club.ID, "user-1")
	require.NoError(t, err)
	assert.Nil(t, member)
}
