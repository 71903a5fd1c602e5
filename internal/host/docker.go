package host

import (
	"context"
	"fmt"

	containertypes "github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
)

// DefaultStatus matches the containers the anonymisation pipeline leaves
// behind once a run completes.
const DefaultStatus = "exited"

type dockerAPI interface {
	ContainerList(ctx context.Context, options containertypes.ListOptions) ([]containertypes.Summary, error)
	Close() error
}

// Docker lists containers from the daemon configured in the environment
// (DOCKER_HOST, DOCKER_API_VERSION, ...).
type Docker struct {
	api    dockerAPI
	status string
}

// NewDocker connects to the daemon with API version negotiation. status
// filters by container state; empty lists every container.
func NewDocker(status string) (*Docker, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("docker client: %w", err)
	}
	return newDocker(cli, status), nil
}

func newDocker(api dockerAPI, status string) *Docker {
	return &Docker{api: api, status: status}
}

// ListContainers implements ContainerLister.
func (d *Docker) ListContainers(ctx context.Context) ([]ContainerSummary, error) {
	opts := containertypes.ListOptions{}
	if d.status != "" {
		opts.Filters = filters.NewArgs(filters.Arg("status", d.status))
	} else {
		opts.All = true
	}
	list, err := d.api.ContainerList(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("container list: %w", err)
	}
	out := make([]ContainerSummary, 0, len(list))
	for _, c := range list {
		out = append(out, ContainerSummary{
			ID:     c.ID,
			Names:  append([]string(nil), c.Names...),
			Image:  c.Image,
			State:  string(c.State),
			Status: c.Status,
		})
	}
	return out, nil
}

// Close releases the underlying client.
func (d *Docker) Close() error {
	if d == nil || d.api == nil {
		return nil
	}
	return d.api.Close()
}
