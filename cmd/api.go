package main

import (
	"context"
	"fmt"

	"github.com/kikitori/kikitori/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet performs a direct GET against the backend and prints the response.
//
// Goes through the normal transport, so the stored token is attached and
// the global 401 policy still applies.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path is required", shared.ErrMissingArgument)
	}

	r.logger.Info("GET", "path", path)

	resp, err := r.client.RawGet(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, cmd.Bool("pretty"))
	}
	return r.writePlain("%s\n", string(resp.Body))
}

// APIPost performs a direct POST with a JSON body and prints the response.
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path is required", shared.ErrMissingArgument)
	}

	data := cmd.String("data")

	r.logger.Info("POST", "path", path)

	resp, err := r.client.RawPost(ctx, path, []byte(data))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, true)
	}
	return r.writePlain("%s\n", string(resp.Body))
}
