package memory_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubsphere-backend/internal/domain"
	"clubsphere-backend/internal/repository"
	"clubsphere-backend/internal/repository/memory"
)

func setup(t *testing.T) (*repository.Store, *domain.Club) {
	t.Helper()
	store, err := memory.NewStore()
	require.NoError(t, err)

	club := &domain.Club{Name: "Chess", Description: "Weekly games", CreatedByID: "admin-1"}
	require.NoError(t, store.ClubRepository.Create(context.Background(), club))
	return store, club
}

func TestUserRepository(t *testing.T) {
	store, _ := setup(t)
	ctx := context.Background()

	u := &domain.User{UserName: "jane", Email: "Jane@Example.com", PasswordHash: "hash"}
	require.NoError(t, store.UserRepository.Create(ctx, u))
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, domain.UserRoleMember, u.Role)

	err := store.UserRepository.Create(ctx, &domain.User{UserName: "other", Email: "jane@example.com"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	found, err := store.UserRepository.GetByEmail(ctx, "JANE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	_, err = store.UserRepository.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	admin := &domain.User{UserName: "root", Email: "root@example.com", Role: domain.UserRoleAdmin}
	require.NoError(t, store.UserRepository.Create(ctx, admin))
	admins, err := store.UserRepository.ListByRole(ctx, domain.UserRoleAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, admin.ID, admins[0].ID)
}

func TestMembershipRequestRepository_Lifecycle(t *testing.T) {
	store, club := setup(t)
	ctx := context.Background()
	at := time.Now().UTC()

	t.Run("Approve adds member", func(t *testing.T) {
		req := domain.NewMembershipRequest("u1", club.ID, "hello")
		require.NoError(t, store.MembershipRequestRepository.Create(ctx, req))

		approved, err := store.MembershipRequestRepository.Approve(ctx, req.ID, "admin-1", at)
		require.NoError(t, err)
		assert.Equal(t, domain.MembershipRequestStatusApproved, approved.Status)

		got, err := store.ClubRepository.GetByID(ctx, club.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"u1"}, got.Members)
		assert.Equal(t, 1, got.MemberCount)

		_, err = store.MembershipRequestRepository.Approve(ctx, req.ID, "admin-1", at)
		assert.ErrorIs(t, err, domain.ErrRequestNotFound)
		_, err = store.MembershipRequestRepository.Reject(ctx, req.ID, "admin-1", at)
		assert.ErrorIs(t, err, domain.ErrRequestNotFound)
	})

	t.Run("Member cannot request again", func(t *testing.T) {
		err := store.MembershipRequestRepository.Create(ctx, domain.NewMembershipRequest("u1", club.ID, ""))
		assert.ErrorIs(t, err, domain.ErrAlreadyMember)

		mine, err := store.MembershipRequestRepository.ListByUser(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, mine, 1)
	})

	t.Run("Reject leaves members unchanged", func(t *testing.T) {
		req := domain.NewMembershipRequest("u2", club.ID, "")
		require.NoError(t, store.MembershipRequestRepository.Create(ctx, req))

		rejected, err := store.MembershipRequestRepository.Reject(ctx, req.ID, "admin-1", at)
		require.NoError(t, err)
		assert.Equal(t, domain.MembershipRequestStatusRejected, rejected.Status)

		got, err := store.ClubRepository.GetByID(ctx, club.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.MemberCount)
		assert.False(t, got.HasMember("u2"))

		// A rejected user may ask again.
		require.NoError(t, store.MembershipRequestRepository.Create(ctx, domain.NewMembershipRequest("u2", club.ID, "")))
	})

	t.Run("Unknown club", func(t *testing.T) {
		err := store.MembershipRequestRepository.Create(ctx, domain.NewMembershipRequest("u3", "missing", ""))
		assert.ErrorIs(t, err, domain.ErrClubNotFound)
	})

	t.Run("Unknown request", func(t *testing.T) {
		_, err := store.MembershipRequestRepository.Approve(ctx, "missing", "admin-1", at)
		assert.ErrorIs(t, err, domain.ErrRequestNotFound)
	})
}

func TestMembershipRequestRepository_ListByStatus(t *testing.T) {
	store, chess := setup(t)
	ctx := context.Background()

	books := &domain.Club{Name: "Books", Description: "Reading"}
	require.NoError(t, store.ClubRepository.Create(ctx, books))

	first := domain.NewMembershipRequest("u1", chess.ID, "")
	first.CreatedAt = time.Now().Add(-time.Minute)
	require.NoError(t, store.MembershipRequestRepository.Create(ctx, first))
	second := domain.NewMembershipRequest("u2", books.ID, "")
	require.NoError(t, store.MembershipRequestRepository.Create(ctx, second))

	all, err := store.MembershipRequestRepository.ListByStatus(ctx, domain.MembershipRequestStatusPending, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)

	onlyChess, err := store.MembershipRequestRepository.ListByStatus(ctx, domain.MembershipRequestStatusPending, chess.ID)
	require.NoError(t, err)
	require.Len(t, onlyChess, 1)
	assert.Equal(t, first.ID, onlyChess[0].ID)

	counts, err := store.MembershipRequestRepository.CountPendingByClub(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{chess.ID: 1, books.ID: 1}, counts)
}

func TestMembershipRequestRepository_ConcurrentDuplicates(t *testing.T) {
	store, club := setup(t)
	ctx := context.Background()

	var created, duplicates int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.MembershipRequestRepository.Create(ctx, domain.NewMembershipRequest("u1", club.ID, ""))
			switch {
			case err == nil:
				atomic.AddInt32(&created, 1)
			case assert.ErrorIs(t, err, domain.ErrDuplicatePending):
				atomic.AddInt32(&duplicates, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), created)
	assert.Equal(t, int32(19), duplicates)
}

func TestMembershipRequestRepository_ConcurrentApprove(t *testing.T) {
	store, club := setup(t)
	ctx := context.Background()

	req := domain.NewMembershipRequest("u1", club.ID, "")
	require.NoError(t, store.MembershipRequestRepository.Create(ctx, req))

	var approved int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.MembershipRequestRepository.Approve(ctx, req.ID, "admin-1", time.Now()); err == nil {
				atomic.AddInt32(&approved, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), approved)
	got, err := store.ClubRepository.GetByID(ctx, club.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.MemberCount)
	assert.Equal(t, len(got.Members), got.MemberCount)
}

func TestClubRepository_ListByMember(t *testing.T) {
	store, chess := setup(t)
	ctx := context.Background()

	books := &domain.Club{Name: "Books", Description: "Reading"}
	require.NoError(t, store.ClubRepository.Create(ctx, books))

	req := domain.NewMembershipRequest("u1", books.ID, "")
	require.NoError(t, store.MembershipRequestRepository.Create(ctx, req))
	_, err := store.MembershipRequestRepository.Approve(ctx, req.ID, "admin-1", time.Now())
	require.NoError(t, err)

	mine, err := store.ClubRepository.ListByMember(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, books.ID, mine[0].ID)

	none, err := store.ClubRepository.ListByMember(ctx, "u2")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	all, err := store.ClubRepository.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, books.ID, all[0].ID)
	assert.Equal(t, chess.ID, all[1].ID)
}

func TestEventRepository(t *testing.T) {
	store, _ := setup(t)
	ctx := context.Background()

	for _, title := range []string{"First", "Second"} {
		e := &domain.Event{Title: title, Description: "d", Location: "l", ClubName: "Chess", Date: "2024-06-01", Time: "18:00"}
		require.NoError(t, store.EventRepository.Create(ctx, e))
	}

	events, err := store.EventRepository.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "First", events[0].Title)
	assert.Equal(t, "Second", events[1].Title)
}
