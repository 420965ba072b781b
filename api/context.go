package api

import (
	"context"

	"github.com/rpupo63/blog-admin-console/console"
)

type keyType string

const workspaceKey keyType = "workspace"

// ctxWithWorkspace adds the browser's workspace to the context
func ctxWithWorkspace(ctx context.Context, ws *console.Workspace) context.Context {
	return context.WithValue(ctx, workspaceKey, ws)
}

// ctxGetWorkspace retrieves the workspace put there by the workspace middleware
func ctxGetWorkspace(ctx context.Context) (*console.Workspace, bool) {
	ws, ok := ctx.Value(workspaceKey).(*console.Workspace)
	return ws, ok && ws != nil
}
