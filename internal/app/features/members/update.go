package members

import (
	"context"

	"github.com/dalemusser/tenanthub/internal/app/system/normalize"
	"github.com/dalemusser/tenanthub/internal/app/system/rpc"
	"github.com/dalemusser/tenanthub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// update changes a member's role.
func (h *Handler) update(ctx context.Context, call *rpc.Call) (any, error) {
	var in updateInput
	if err := call.BindValid(&in); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	m, err := h.Members.UpdateRole(ctx, in.ID, normalize.Role(in.Role))
	if err != nil {
		return nil, err
	}
	u, err := h.Users.GetByID(ctx, m.UserID)
	if err != nil {
		return nil, err
	}
	h.Log.Info("member role changed",
		zap.String("member_id", m.ID),
		zap.String("role", m.Role),
		zap.String("by", call.RC.UserID()))
	return view(m, u), nil
}

// remove ends a membership. The user account is kept.
func (h *Handler) remove(ctx context.Context, call *rpc.Call) (any, error) {
	var in removeInput
	if err := call.BindValid(&in); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	if err := h.Members.Delete(ctx, in.ID); err != nil {
		return nil, err
	}
	h.Log.Info("member removed",
		zap.String("member_id", in.ID),
		zap.String("by", call.RC.UserID()))
	return true, nil
}
