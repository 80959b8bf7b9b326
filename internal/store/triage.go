package store

import (
	"fmt"
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

// triageChanges renders the human-readable audit trail for patch applied to
// f, without mutating f. An empty slice means the patch is a no-op.
func triageChanges(f *schemas.Finding, patch TriagePatch) []string {
	var changes []string
	if patch.Status != nil && *patch.Status != f.Status {
		changes = append(changes, fmt.Sprintf("Status changed from '%s' to '%s'", f.Status, *patch.Status))
	}
	if patch.Assignee != nil && *patch.Assignee != f.Assignee {
		old := f.Assignee
		if old == "" {
			old = "unassigned"
		}
		next := *patch.Assignee
		if next == "" {
			next = "unassigned"
		}
		changes = append(changes, fmt.Sprintf("Assignee changed from '%s' to '%s'", old, next))
	}
	return changes
}

func applyTriage(f *schemas.Finding, patch TriagePatch) {
	if patch.Status != nil {
		f.Status = *patch.Status
	}
	if patch.Assignee != nil {
		f.Assignee = *patch.Assignee
	}
}

func joinChanges(changes []string) string {
	return strings.Join(changes, "; ")
}
