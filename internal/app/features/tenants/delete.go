// internal/app/features/tenants/delete.go
package tenants

import (
	"context"

	"github.com/dalemusser/tenanthub/internal/app/system/rpc"
	"github.com/dalemusser/tenanthub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// delete removes a tenant with its domains and memberships. Member user
// accounts are kept.
func (h *Handler) delete(ctx context.Context, call *rpc.Call) (any, error) {
	var in idInput
	if err := call.BindValid(&in); err != nil {
		return nil, err
	}
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Long(), h.Log, "tenant delete")
	defer cancel()

	if err := h.Tenants.Delete(ctx, in.ID); err != nil {
		return nil, err
	}
	h.Log.Info("tenant deleted",
		zap.String("tenant_id", in.ID),
		zap.String("deleted_by", call.RC.UserID()))
	return true, nil
}
