package jobs

import (
	"context"
	"fmt"

	"clubsphere-backend/internal/logger"
)

// SendPendingRequestDigest emails every admin the number of pending
// membership requests per club. Nothing is sent when there are none.
func (jr *JobRunner) SendPendingRequestDigest() {
	_ = jr.sendPendingRequestDigest()
}

func (jr *JobRunner) sendPendingRequestDigest() error {
	return jr.runWithRecovery("SendPendingRequestDigest", func(ctx context.Context) error {
		counts, err := jr.requests.CountPendingByClub(ctx)
		if err != nil {
			return fmt.Errorf("failed to count pending requests: %w", err)
		}

		total := 0
		for _, n := range counts {
			total += n
		}
		jr.metrics.SetPendingRequests(total)

		if total == 0 {
			logger.InfoContext(ctx, "No pending membership requests")
			return nil
		}

		sent, err := jr.notifier.SendPendingDigest(ctx, counts)
		if err != nil {
			return err
		}
		logger.InfoContext(ctx, "Pending request digest sent", "pending", total, "clubs", len(counts), "admins", sent)
		return nil
	})
}
