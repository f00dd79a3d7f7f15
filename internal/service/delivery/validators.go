package delivery

import (
	"strings"
	"time"

	"courier-engine/internal/entities"
)

const maxScanRadiusKm = 50.0

func isValidOrderID(orderID string) bool {
	return strings.TrimSpace(orderID) != ""
}

func isValidIssue(issue entities.Issue) bool {
	return strings.TrimSpace(issue.Category) != ""
}

func isValidDiscovery(settings entities.DiscoverySettings) bool {
	return settings.ScanRadiusKm > 0 && settings.ScanRadiusKm <= maxScanRadiusKm
}

// allowedNow разрешает действие, если с прошлого прошло не меньше minGap.
func allowedNow(now, last time.Time, minGap time.Duration) bool {
	return last.IsZero() || now.Sub(last) >= minGap
}

func isCancellable(stage entities.DeliveryStage) bool {
	return stage == entities.StageAccepted || stage == entities.StageArrivedPickup
}

func isPostPickup(stage entities.DeliveryStage) bool {
	return stage == entities.StagePickedUp || stage == entities.StageArrivedDropoff
}

// isFinalizable: Delivered сначала проходит через Completed.
func isFinalizable(stage entities.DeliveryStage) bool {
	return stage == entities.StageCompleted || stage == entities.StageCancelled || stage == entities.StageDiscovering
}
